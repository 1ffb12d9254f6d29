// Package fusion combines the trait model and semantic memory into the
// single profile vector used for all similarity computation.
package fusion

import (
	"github.com/hyperjump/musubi/internal/models"
	"github.com/hyperjump/musubi/pkg/utils"
)

// TraitBlockLen is the width of the trait sub-vector: five raw traits plus
// five pairwise composites.
const TraitBlockLen = 10

// CompositeNames labels the five derived trait features, in block order
// after the raw traits. The composites exist so linear similarity can pick
// up some nonlinear trait interaction.
var CompositeNames = [5]string{
	"social_warmth",       // extraversion x agreeableness
	"exploratory_drive",   // openness x extraversion
	"focused_curiosity",   // openness x conscientiousness
	"emotional_intensity", // neuroticism x extraversion
	"harmony",             // agreeableness x conscientiousness
}

// Fuser builds profile vectors with configured sub-vector weights.
// The weights decide how much "structure" (traits) vs "vibe" (semantics)
// drives matching; both must be positive so neither block is starved.
type Fuser struct {
	traitWeight    float64
	semanticWeight float64
}

// NewFuser creates a fuser with the given trait and semantic weights
// (reference 0.7 / 0.3).
func NewFuser(traitWeight, semanticWeight float64) *Fuser {
	return &Fuser{traitWeight: traitWeight, semanticWeight: semanticWeight}
}

// Composites derives the five composite features from raw trait values.
// Each is the mean of a trait pair, so it is zero exactly when both
// members are zero and always stays in [0,1].
func Composites(v [5]float64) [5]float64 {
	const (
		o = 0 // openness
		c = 1 // conscientiousness
		e = 2 // extraversion
		a = 3 // agreeableness
		n = 4 // neuroticism
	)
	return [5]float64{
		utils.Clamp01((v[e] + v[a]) / 2),
		utils.Clamp01((v[o] + v[e]) / 2),
		utils.Clamp01((v[o] + v[c]) / 2),
		utils.Clamp01((v[n] + v[e]) / 2),
		utils.Clamp01((v[a] + v[c]) / 2),
	}
}

// Fuse produces the unit-normalized profile vector: the weighted,
// normalized 10-value trait block concatenated with the weighted,
// normalized semantic vector, re-normalized as a whole. When both inputs
// are zero the zero vector comes back unchanged; callers must treat it as
// "insufficient data", never as a valid comparison target.
func (f *Fuser) Fuse(traits models.TraitProfile, semantic []float32) []float32 {
	raw := traits.Values()
	comp := Composites(raw)

	traitBlock := make([]float32, TraitBlockLen)
	for i := 0; i < 5; i++ {
		traitBlock[i] = float32(raw[i])
		traitBlock[5+i] = float32(comp[i])
	}
	utils.NormalizeL2(traitBlock)
	for i := range traitBlock {
		traitBlock[i] *= float32(f.traitWeight)
	}

	semBlock := make([]float32, len(semantic))
	copy(semBlock, semantic)
	utils.NormalizeL2(semBlock)
	for i := range semBlock {
		semBlock[i] *= float32(f.semanticWeight)
	}

	fused := make([]float32, 0, TraitBlockLen+len(semantic))
	fused = append(fused, traitBlock...)
	fused = append(fused, semBlock...)
	utils.NormalizeL2(fused)
	return fused
}

// Blend moves the stored profile vector factor of the way toward the
// candidate and re-normalizes, so one turn cannot destabilize a person's
// position in similarity space. A zero stored vector (new person) adopts
// the candidate outright.
func Blend(stored, candidate []float32, factor float64) []float32 {
	if utils.IsZeroVector(stored) {
		out := make([]float32, len(candidate))
		copy(out, candidate)
		return out
	}
	out := make([]float32, len(stored))
	for i := range stored {
		out[i] = stored[i]*float32(1-factor) + candidate[i]*float32(factor)
	}
	utils.NormalizeL2(out)
	return out
}
