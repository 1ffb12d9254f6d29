// Package projection lays out high-dimensional profile vectors in three
// dimensions for display. The layout preserves local neighborhoods: a PCA
// initialization refined by attraction along the high-dimensional k-nearest
// neighbor graph and repulsion from sampled non-neighbors. Output is for
// display only and must never feed back into similarity or clustering.
package projection

import (
	"math"
	"math/rand"
	"sort"

	"github.com/hyperjump/musubi/internal/vector"
)

// Params holds layout parameters. Neighbors is the neighborhood size,
// MinDist the minimum spacing attraction respects, Epochs the refinement
// iteration count. Seed makes runs reproducible.
type Params struct {
	Neighbors int
	MinDist   float64
	Epochs    int
	Seed      int64
}

// Result carries the coordinates and whether the fallback path produced
// them. Fallback coordinates are uniform random in the [-1,1] cube and
// carry no spatial meaning.
type Result struct {
	Points   [][3]float64
	Fallback bool
}

// Project maps each input vector to 3 coordinates. With fewer points than
// the neighborhood size the method is undefined, so the contract falls
// back to random coordinates in the [-1,1] cube, flagged in the result.
func Project(vecs [][]float32, p Params) *Result {
	if len(vecs) == 0 {
		return &Result{Points: [][3]float64{}}
	}
	if len(vecs) < p.Neighbors {
		return &Result{Points: randomCube(len(vecs), p.Seed), Fallback: true}
	}

	coords := pcaInit(vecs, p.Seed)
	graph := neighborGraph(vecs, p.Neighbors)
	refine(coords, graph, p)
	rescale(coords)
	return &Result{Points: coords}
}

// randomCube returns n uniform random points in [-1,1]^3.
func randomCube(n int, seed int64) [][3]float64 {
	rng := rand.New(rand.NewSource(seed))
	out := make([][3]float64, n)
	for i := range out {
		for d := 0; d < 3; d++ {
			out[i][d] = rng.Float64()*2 - 1
		}
	}
	return out
}

// pcaInit projects mean-centered data onto its top three principal
// components, found by power iteration with deflation.
func pcaInit(vecs [][]float32, seed int64) [][3]float64 {
	n := len(vecs)
	dim := len(vecs[0])

	mean := make([]float64, dim)
	for _, v := range vecs {
		for j := range mean {
			mean[j] += float64(v[j])
		}
	}
	for j := range mean {
		mean[j] /= float64(n)
	}
	centered := make([][]float64, n)
	for i, v := range vecs {
		row := make([]float64, dim)
		for j := range row {
			row[j] = float64(v[j]) - mean[j]
		}
		centered[i] = row
	}

	rng := rand.New(rand.NewSource(seed))
	coords := make([][3]float64, n)
	for comp := 0; comp < 3; comp++ {
		axis := powerIteration(centered, rng)
		for i, row := range centered {
			var proj float64
			for j := range row {
				proj += row[j] * axis[j]
			}
			coords[i][comp] = proj
			// Deflate so the next component is orthogonal.
			for j := range row {
				row[j] -= proj * axis[j]
			}
		}
	}
	return coords
}

// powerIteration finds the dominant direction of the centered rows.
func powerIteration(rows [][]float64, rng *rand.Rand) []float64 {
	dim := len(rows[0])
	axis := make([]float64, dim)
	for j := range axis {
		axis[j] = rng.NormFloat64()
	}
	normalize(axis)

	tmp := make([]float64, dim)
	for iter := 0; iter < 50; iter++ {
		for j := range tmp {
			tmp[j] = 0
		}
		// tmp = Cov * axis, computed as sum of row * (row . axis).
		for _, row := range rows {
			var dot float64
			for j := range row {
				dot += row[j] * axis[j]
			}
			for j := range row {
				tmp[j] += dot * row[j]
			}
		}
		if normalize(tmp) == 0 {
			return axis
		}
		copy(axis, tmp)
	}
	return axis
}

func normalize(x []float64) float64 {
	var sum float64
	for _, v := range x {
		sum += v * v
	}
	norm := math.Sqrt(sum)
	if norm == 0 {
		return 0
	}
	for i := range x {
		x[i] /= norm
	}
	return norm
}

// neighborGraph returns each point's k nearest neighbor indices by
// high-dimensional Euclidean distance.
func neighborGraph(vecs [][]float32, k int) [][]int {
	n := len(vecs)
	graph := make([][]int, n)
	type neighbor struct {
		idx  int
		dist float64
	}
	for i := range vecs {
		ns := make([]neighbor, 0, n-1)
		for j := range vecs {
			if i == j {
				continue
			}
			ns = append(ns, neighbor{j, vector.EuclideanDistance(vecs[i], vecs[j])})
		}
		sort.Slice(ns, func(a, b int) bool {
			if ns[a].dist != ns[b].dist {
				return ns[a].dist < ns[b].dist
			}
			return ns[a].idx < ns[b].idx
		})
		if k < len(ns) {
			ns = ns[:k]
		}
		idxs := make([]int, len(ns))
		for j, nb := range ns {
			idxs[j] = nb.idx
		}
		graph[i] = idxs
	}
	return graph
}

// refine pulls each point toward its high-dimensional neighbors (down to
// MinDist) and pushes it away from sampled non-neighbors, with a linearly
// decaying step.
func refine(coords [][3]float64, graph [][]int, p Params) {
	n := len(coords)
	rng := rand.New(rand.NewSource(p.Seed + 1))
	for epoch := 0; epoch < p.Epochs; epoch++ {
		alpha := 0.1 * (1 - float64(epoch)/float64(p.Epochs))
		for i := 0; i < n; i++ {
			for _, j := range graph[i] {
				attract(coords, i, j, p.MinDist, alpha)
			}
			// A couple of random repulsion samples per point keep
			// non-neighboring regions from collapsing together.
			for s := 0; s < 2; s++ {
				j := rng.Intn(n)
				if j == i || contains(graph[i], j) {
					continue
				}
				repel(coords, i, j, alpha)
			}
		}
	}
}

func attract(coords [][3]float64, i, j int, minDist, alpha float64) {
	d := dist3(coords[i], coords[j])
	if d <= minDist {
		return
	}
	f := alpha * (d - minDist) / d
	for c := 0; c < 3; c++ {
		delta := (coords[j][c] - coords[i][c]) * f * 0.5
		coords[i][c] += delta
		coords[j][c] -= delta
	}
}

func repel(coords [][3]float64, i, j int, alpha float64) {
	d := dist3(coords[i], coords[j])
	if d < 1e-9 {
		coords[i][0] += 1e-3
		return
	}
	f := alpha / (1 + d*d) / d
	for c := 0; c < 3; c++ {
		coords[i][c] += (coords[i][c] - coords[j][c]) * f
	}
}

func dist3(a, b [3]float64) float64 {
	var sum float64
	for c := 0; c < 3; c++ {
		d := a[c] - b[c]
		sum += d * d
	}
	return math.Sqrt(sum)
}

func contains(xs []int, x int) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}

// rescale centers the layout and scales it to fit the [-1,1] cube.
func rescale(coords [][3]float64) {
	if len(coords) == 0 {
		return
	}
	var center [3]float64
	for _, p := range coords {
		for c := 0; c < 3; c++ {
			center[c] += p[c]
		}
	}
	for c := 0; c < 3; c++ {
		center[c] /= float64(len(coords))
	}
	var maxAbs float64
	for i := range coords {
		for c := 0; c < 3; c++ {
			coords[i][c] -= center[c]
			if a := math.Abs(coords[i][c]); a > maxAbs {
				maxAbs = a
			}
		}
	}
	if maxAbs == 0 {
		return
	}
	for i := range coords {
		for c := 0; c < 3; c++ {
			coords[i][c] /= maxAbs
		}
	}
}
