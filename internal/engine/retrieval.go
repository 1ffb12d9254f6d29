package engine

import (
	"fmt"

	"github.com/hyperjump/musubi/internal/models"
	"github.com/hyperjump/musubi/internal/vector"
)

// KNearest returns the k people most similar to personID, sorted by
// non-increasing cosine similarity with ties broken by ascending id. The
// query person is never included. An exact scan over all vectors.
func (e *Engine) KNearest(personID string, k int) ([]models.Match, error) {
	if k <= 0 {
		return nil, &ValidationError{Reason: fmt.Sprintf("k must be positive, got %d", k)}
	}
	p, ok := e.store.Get(personID)
	if !ok {
		return nil, &NotFoundError{ID: personID}
	}
	ids, vecs := e.store.Vectors()
	neighbors, err := vector.Rank(p.Vector, ids, vecs, k, personID)
	if err != nil {
		return nil, &ValidationError{Reason: err.Error()}
	}
	matches := make([]models.Match, len(neighbors))
	for i, n := range neighbors {
		matches[i] = models.Match{PersonID: n.ID, Similarity: n.Similarity}
	}
	return matches, nil
}
