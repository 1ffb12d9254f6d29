// Package cluster groups profile vectors with density-based clustering.
// No target cluster count is set up front; sparse points get the noise label.
package cluster

import "github.com/hyperjump/musubi/internal/vector"

// Noise is the sentinel label for points in no dense region.
const Noise = -1

const unvisited = -2

// Params holds DBSCAN parameters: the neighborhood radius and the minimum
// neighborhood size (the point itself included) for a core point.
type Params struct {
	Epsilon float64
	MinPts  int
}

// DBSCAN labels every input vector with a cluster id or Noise. Output has
// the same length and order as the input. For a fixed input order and
// fixed parameters the labeling is stable; cluster id numbering is only
// meaningful within a single call.
func DBSCAN(vecs [][]float32, p Params) []int {
	labels := make([]int, len(vecs))
	for i := range labels {
		labels[i] = unvisited
	}

	next := 0
	for i := range vecs {
		if labels[i] != unvisited {
			continue
		}
		neighbors := regionQuery(vecs, i, p.Epsilon)
		if len(neighbors) < p.MinPts {
			labels[i] = Noise
			continue
		}
		labels[i] = next
		expand(vecs, labels, neighbors, next, p)
		next++
	}
	return labels
}

// expand grows cluster id from a core point's neighborhood, claiming noise
// points as border members and recursing into newly found core points.
func expand(vecs [][]float32, labels []int, seeds []int, id int, p Params) {
	for k := 0; k < len(seeds); k++ {
		j := seeds[k]
		if labels[j] == Noise {
			labels[j] = id
			continue
		}
		if labels[j] != unvisited {
			continue
		}
		labels[j] = id
		neighbors := regionQuery(vecs, j, p.Epsilon)
		if len(neighbors) >= p.MinPts {
			seeds = append(seeds, neighbors...)
		}
	}
}

// regionQuery returns the indices within epsilon of point i, i included.
func regionQuery(vecs [][]float32, i int, epsilon float64) []int {
	var out []int
	for j := range vecs {
		if vector.EuclideanDistance(vecs[i], vecs[j]) <= epsilon {
			out = append(out, j)
		}
	}
	return out
}
