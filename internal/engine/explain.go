package engine

import (
	"fmt"
	"sort"

	"github.com/hyperjump/musubi/internal/models"
	"github.com/hyperjump/musubi/internal/vector"
)

// interestBonus is the fixed contribution of one shared interest tag.
const interestBonus = 0.15

// topContributions is how many ranked contributions an explanation keeps.
const topContributions = 5

// Explain decomposes the similarity between two people into ranked
// per-dimension contributions. A dimension contributes
// (1-|a-b|) x a x b: high when both people score highly and agree, near
// zero when either is near zero regardless of agreement. Shared interest
// tags each add a fixed bonus.
func (e *Engine) Explain(aID, bID string) (*models.Explanation, error) {
	a, ok := e.store.Get(aID)
	if !ok {
		return nil, &NotFoundError{ID: aID}
	}
	b, ok := e.store.Get(bID)
	if !ok {
		return nil, &NotFoundError{ID: bID}
	}

	sim, err := vector.Cosine(a.Vector, b.Vector)
	if err != nil {
		return nil, &ValidationError{Reason: err.Error()}
	}

	var contributions []models.Contribution
	av := a.Traits.Values()
	bv := b.Traits.Values()
	for i, name := range models.TraitNames {
		contributions = append(contributions, models.Contribution{
			Label: "trait:" + name,
			Value: dimensionContribution(av[i], bv[i]),
		})
	}
	for i := 0; i < len(a.Semantic) && i < len(b.Semantic); i++ {
		contributions = append(contributions, models.Contribution{
			Label: fmt.Sprintf("semantic:%d", i),
			Value: dimensionContribution(float64(a.Semantic[i]), float64(b.Semantic[i])),
		})
	}

	shared := sharedInterests(a.Interests, b.Interests)
	for _, tag := range shared {
		contributions = append(contributions, models.Contribution{
			Label: "interest:" + tag,
			Value: interestBonus,
		})
	}

	sort.Slice(contributions, func(i, j int) bool {
		if contributions[i].Value != contributions[j].Value {
			return contributions[i].Value > contributions[j].Value
		}
		return contributions[i].Label < contributions[j].Label
	})
	if len(contributions) > topContributions {
		contributions = contributions[:topContributions]
	}

	return &models.Explanation{
		AID:             aID,
		BID:             bID,
		Similarity:      sim,
		Contributions:   contributions,
		SharedInterests: shared,
	}, nil
}

// dimensionContribution rewards dimensions where both values are high and
// close together.
func dimensionContribution(a, b float64) float64 {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return (1 - diff) * a * b
}

// sharedInterests returns the sorted intersection of two tag sets.
func sharedInterests(a, b []string) []string {
	set := make(map[string]bool, len(a))
	for _, t := range a {
		set[t] = true
	}
	var shared []string
	seen := make(map[string]bool)
	for _, t := range b {
		if set[t] && !seen[t] {
			shared = append(shared, t)
			seen[t] = true
		}
	}
	sort.Strings(shared)
	return shared
}
