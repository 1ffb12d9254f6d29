package directory

import (
	"context"
	"testing"

	"github.com/hyperjump/musubi/internal/models"
)

func newTestIndex(t *testing.T) *Index {
	t.Helper()
	idx, err := NewMemIndex()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = idx.Close() })
	return idx
}

func TestIndex_searchByInterest(t *testing.T) {
	idx := newTestIndex(t)
	people := []*models.Person{
		{ID: "p1", DisplayName: "Aiko", Interests: []string{"jazz", "bouldering"}},
		{ID: "p2", DisplayName: "Ben", Interests: []string{"chess"}},
	}
	for _, p := range people {
		if err := idx.Index(p); err != nil {
			t.Fatal(err)
		}
	}
	hits, err := idx.Search(context.Background(), "bouldering", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 1 || hits[0].PersonID != "p1" {
		t.Errorf("unexpected hits: %v", hits)
	}
}

func TestIndex_searchByName(t *testing.T) {
	idx := newTestIndex(t)
	if err := idx.Index(&models.Person{ID: "p1", DisplayName: "Aiko Tanaka"}); err != nil {
		t.Fatal(err)
	}
	hits, err := idx.Search(context.Background(), "tanaka", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 1 || hits[0].PersonID != "p1" {
		t.Errorf("unexpected hits: %v", hits)
	}
}

func TestIndex_delete(t *testing.T) {
	idx := newTestIndex(t)
	if err := idx.Index(&models.Person{ID: "p1", DisplayName: "Aiko", Interests: []string{"jazz"}}); err != nil {
		t.Fatal(err)
	}
	if err := idx.Delete("p1"); err != nil {
		t.Fatal(err)
	}
	hits, err := idx.Search(context.Background(), "jazz", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 0 {
		t.Errorf("deleted person still in directory: %v", hits)
	}
}
