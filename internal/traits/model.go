package traits

import (
	"sync"

	"github.com/hyperjump/musubi/internal/models"
	"github.com/hyperjump/musubi/pkg/utils"
)

// Model applies named conversational signals to a trait profile using the
// current weight table. Safe for concurrent use; SetTable swaps the table
// atomically for hot reload.
type Model struct {
	mu    sync.RWMutex
	table *Table
	step  float64
}

// NewModel creates a model with the given table and per-turn step scale
// (reference 0.2).
func NewModel(table *Table, step float64) *Model {
	return &Model{table: table, step: step}
}

// SetTable replaces the weight table. Called by the weight-file watcher.
func (m *Model) SetTable(table *Table) {
	m.mu.Lock()
	m.table = table
	m.mu.Unlock()
}

// Apply returns a new profile with every referenced trait nudged by
// magnitude × weight × confidence × step and clamped to [0,1]. Unknown
// signal names are ignored. The input profile is not mutated.
func (m *Model) Apply(current models.TraitProfile, signals map[string]float64, confidence float64) models.TraitProfile {
	m.mu.RLock()
	table := m.table
	step := m.step
	m.mu.RUnlock()

	scale := utils.Clamp01(confidence) * step
	values := current.Values()
	for name, magnitude := range signals {
		tws, ok := table.weights[name]
		if !ok {
			continue
		}
		if magnitude > 0.5 {
			magnitude = 0.5
		} else if magnitude < -0.5 {
			magnitude = -0.5
		}
		for _, tw := range tws {
			i := traitIndex(tw.Trait)
			values[i] = utils.Clamp01(values[i] + magnitude*tw.Weight*scale)
		}
	}
	return models.TraitProfileFromValues(values)
}
