package traits

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewTable_rejectsUnknownTrait(t *testing.T) {
	_, err := NewTable(map[string][]TraitWeight{
		"humor": {{Trait: "charisma", Weight: 0.3}},
	})
	if err == nil {
		t.Error("unknown trait name should be rejected")
	}
}

func TestNewTable_rejectsOutOfRangeWeight(t *testing.T) {
	_, err := NewTable(map[string][]TraitWeight{
		"humor": {{Trait: "openness", Weight: 0.9}},
	})
	if err == nil {
		t.Error("weight outside [-0.6,0.6] should be rejected")
	}
}

func TestLoadTable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "weights.yaml")
	content := `
deep_talk:
  - trait: openness
    weight: 0.45
  - trait: extraversion
    weight: -0.1
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	table, err := LoadTable(path)
	if err != nil {
		t.Fatal(err)
	}
	if table.Signals() != 1 {
		t.Errorf("Signals() = %d, want 1", table.Signals())
	}
	if len(table.weights["deep_talk"]) != 2 {
		t.Errorf("deep_talk entries = %d, want 2", len(table.weights["deep_talk"]))
	}
}

func TestDefaultTable_valid(t *testing.T) {
	if _, err := NewTable(DefaultTable().weights); err != nil {
		t.Errorf("default table failed validation: %v", err)
	}
}
