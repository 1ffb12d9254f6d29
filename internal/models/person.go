// Package models defines core data structures for people, traits, and match results.
package models

import "time"

// TraitNames lists the five trait dimensions in canonical order. All
// trait-indexed slices and sub-vectors follow this order.
var TraitNames = [5]string{
	"openness",
	"conscientiousness",
	"extraversion",
	"agreeableness",
	"neuroticism",
}

// TraitProfile holds the five personality traits, each in [0,1].
// Callers never mutate fields directly; traits move only through
// bounded update steps in the traits package.
type TraitProfile struct {
	Openness          float64 `json:"openness"`
	Conscientiousness float64 `json:"conscientiousness"`
	Extraversion      float64 `json:"extraversion"`
	Agreeableness     float64 `json:"agreeableness"`
	Neuroticism       float64 `json:"neuroticism"`
}

// DefaultTraitProfile returns the profile of an unseen person: every trait 0.5.
func DefaultTraitProfile() TraitProfile {
	return TraitProfile{0.5, 0.5, 0.5, 0.5, 0.5}
}

// Values returns the traits as an array in TraitNames order.
func (p TraitProfile) Values() [5]float64 {
	return [5]float64{p.Openness, p.Conscientiousness, p.Extraversion, p.Agreeableness, p.Neuroticism}
}

// TraitProfileFromValues builds a profile from an array in TraitNames order.
func TraitProfileFromValues(v [5]float64) TraitProfile {
	return TraitProfile{v[0], v[1], v[2], v[3], v[4]}
}

// Person is one person's full engine record.
type Person struct {
	ID          string       `json:"id"`
	DisplayName string       `json:"display_name"`
	Age         int          `json:"age,omitempty"`
	Institution string       `json:"institution,omitempty"`
	Interests   []string     `json:"interests"`
	Traits      TraitProfile `json:"traits"`
	// Confidence is how much conversational evidence backs the profile.
	// Monotonically non-decreasing over a person's lifetime.
	Confidence float64 `json:"confidence"`
	// Vector is the current fused profile vector (unit norm, or all-zero
	// before any data exists). Exactly one is current per person.
	Vector []float32 `json:"vector"`
	// Semantic is the slowly-adapting semantic memory vector.
	Semantic  []float32 `json:"semantic"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Clone returns a deep copy so snapshots cannot alias store-owned slices.
func (p *Person) Clone() *Person {
	cp := *p
	cp.Interests = append([]string(nil), p.Interests...)
	cp.Vector = append([]float32(nil), p.Vector...)
	cp.Semantic = append([]float32(nil), p.Semantic...)
	return &cp
}

// OnboardInput is the input for creating a person.
type OnboardInput struct {
	ID          string   `json:"id,omitempty"`
	DisplayName string   `json:"display_name"`
	Age         int      `json:"age,omitempty"`
	Institution string   `json:"institution,omitempty"`
	Interests   []string `json:"interests,omitempty"`
}

// TurnInput is one processed conversational turn: the extraction
// collaborator's named signals plus its confidence, and the raw message
// text for the semantic memory update.
type TurnInput struct {
	Message    string             `json:"message"`
	Signals    map[string]float64 `json:"signals"`
	Confidence float64            `json:"confidence"`
}
