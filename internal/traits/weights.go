// Package traits implements the bounded five-trait model and the
// signal-to-trait weight table that drives it.
package traits

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hyperjump/musubi/internal/models"
)

// TraitWeight binds one trait to the weight a signal applies to it.
type TraitWeight struct {
	Trait  string  `yaml:"trait"`
	Weight float64 `yaml:"weight"`
}

// Table maps signal names to the traits they move. Immutable after
// construction; hot reload swaps whole tables via Model.SetTable.
type Table struct {
	weights map[string][]TraitWeight
}

// maxWeight bounds a single (trait, weight) entry. Hand-authored tables
// stay well inside it; anything larger is a typo.
const maxWeight = 0.6

// DefaultTable returns the built-in signal-to-trait table, used when no
// weight file is configured.
func DefaultTable() *Table {
	return &Table{weights: map[string][]TraitWeight{
		"social_energy":   {{"extraversion", 0.6}},
		"warmth":          {{"agreeableness", 0.5}, {"extraversion", 0.25}},
		"curiosity":       {{"openness", 0.55}},
		"creativity":      {{"openness", 0.5}},
		"novelty_seeking": {{"openness", 0.6}, {"conscientiousness", -0.2}},
		"organization":    {{"conscientiousness", 0.6}},
		"discipline":      {{"conscientiousness", 0.5}},
		"spontaneity":     {{"conscientiousness", -0.4}, {"extraversion", 0.3}},
		"empathy":         {{"agreeableness", 0.55}},
		"assertiveness":   {{"extraversion", 0.4}, {"agreeableness", -0.3}},
		"anxiety":         {{"neuroticism", 0.55}},
		"stress":          {{"neuroticism", 0.6}},
		"calmness":        {{"neuroticism", -0.5}},
		"positivity":      {{"neuroticism", -0.4}, {"extraversion", 0.2}},
	}}
}

// NewTable builds a table from an explicit weight map, validating trait
// names and weight ranges.
func NewTable(weights map[string][]TraitWeight) (*Table, error) {
	for signal, tws := range weights {
		for _, tw := range tws {
			if !knownTrait(tw.Trait) {
				return nil, fmt.Errorf("signal %q references unknown trait %q", signal, tw.Trait)
			}
			if tw.Weight < -maxWeight || tw.Weight > maxWeight {
				return nil, fmt.Errorf("signal %q weight %v for %s outside [%v,%v]", signal, tw.Weight, tw.Trait, -maxWeight, maxWeight)
			}
		}
	}
	cp := make(map[string][]TraitWeight, len(weights))
	for k, v := range weights {
		cp[k] = append([]TraitWeight(nil), v...)
	}
	return &Table{weights: cp}, nil
}

// LoadTable reads a YAML weight table from path.
func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read weight table: %w", err)
	}
	var raw map[string][]TraitWeight
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse weight table: %w", err)
	}
	return NewTable(raw)
}

// Signals returns the number of signal names the table knows.
func (t *Table) Signals() int {
	return len(t.weights)
}

func knownTrait(name string) bool {
	for _, n := range models.TraitNames {
		if n == name {
			return true
		}
	}
	return false
}

func traitIndex(name string) int {
	for i, n := range models.TraitNames {
		if n == name {
			return i
		}
	}
	return -1
}
