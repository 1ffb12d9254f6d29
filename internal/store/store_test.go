package store

import (
	"testing"

	"github.com/hyperjump/musubi/internal/models"
)

func person(id string, vec []float32) *models.Person {
	return &models.Person{ID: id, DisplayName: id, Vector: vec, Traits: models.DefaultTraitProfile()}
}

func TestStore_putGet(t *testing.T) {
	s := New()
	s.Put(person("p1", []float32{1, 0}))
	got, ok := s.Get("p1")
	if !ok {
		t.Fatal("p1 not found")
	}
	if got.ID != "p1" || got.Vector[0] != 1 {
		t.Errorf("unexpected person: %+v", got)
	}
	if _, ok := s.Get("missing"); ok {
		t.Error("missing id should not be found")
	}
}

func TestStore_snapshotIsolation(t *testing.T) {
	s := New()
	s.Put(person("p1", []float32{1, 0}))
	snap := s.Snapshot()
	snap[0].Vector[0] = 99
	snap[0].DisplayName = "mutated"
	got, _ := s.Get("p1")
	if got.Vector[0] != 1 || got.DisplayName != "p1" {
		t.Error("mutating a snapshot leaked into the store")
	}
}

func TestStore_vectorsSortedByID(t *testing.T) {
	s := New()
	s.Put(person("z", []float32{0, 1}))
	s.Put(person("a", []float32{1, 0}))
	s.Put(person("m", []float32{1, 1}))
	ids, vecs := s.Vectors()
	if len(ids) != 3 || len(vecs) != 3 {
		t.Fatalf("lengths: %d ids, %d vecs", len(ids), len(vecs))
	}
	if ids[0] != "a" || ids[1] != "m" || ids[2] != "z" {
		t.Errorf("ids not sorted: %v", ids)
	}
	if vecs[0][0] != 1 || vecs[0][1] != 0 {
		t.Errorf("vectors misaligned with ids: %v", vecs)
	}
}

func TestStore_initReplaces(t *testing.T) {
	s := New()
	s.Put(person("old", nil))
	s.Init([]*models.Person{person("new", nil)})
	if s.Has("old") {
		t.Error("Init should replace existing contents")
	}
	if !s.Has("new") || s.Len() != 1 {
		t.Errorf("Init contents wrong, len=%d", s.Len())
	}
}
