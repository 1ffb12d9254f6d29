package vector

import "sort"

// Neighbor is a single ranked similarity hit.
type Neighbor struct {
	ID         string
	Similarity float64
}

// Rank computes cosine similarity from query to every candidate and
// returns the top k, sorted by non-increasing similarity with ties broken
// by ascending ID for determinism. Candidates with zero-norm vectors are
// skipped: an all-zero profile vector is "insufficient data", not a valid
// comparison target. Exclude names an ID to leave out (the query person).
//
// This is an exact O(n) scan per query, a documented scaling bound of the
// reference design.
func Rank(query []float32, ids []string, vecs [][]float32, k int, exclude string) ([]Neighbor, error) {
	neighbors := make([]Neighbor, 0, len(ids))
	for i, id := range ids {
		if id == exclude {
			continue
		}
		if L2Norm(vecs[i]) == 0 {
			continue
		}
		sim, err := Cosine(query, vecs[i])
		if err != nil {
			return nil, err
		}
		neighbors = append(neighbors, Neighbor{ID: id, Similarity: sim})
	}
	sort.Slice(neighbors, func(i, j int) bool {
		if neighbors[i].Similarity != neighbors[j].Similarity {
			return neighbors[i].Similarity > neighbors[j].Similarity
		}
		return neighbors[i].ID < neighbors[j].ID
	})
	if k < len(neighbors) {
		neighbors = neighbors[:k]
	}
	return neighbors, nil
}
