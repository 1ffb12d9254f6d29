package vector

import (
	"errors"
	"math"
	"testing"
)

func TestCosine_identity(t *testing.T) {
	v := []float32{0.6, 0.8}
	sim, err := Cosine(v, v)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(sim-1) > 1e-6 {
		t.Errorf("cosine(v,v) = %v, want 1", sim)
	}
}

func TestCosine_symmetric(t *testing.T) {
	a := []float32{0.2, 0.5, 0.1}
	b := []float32{0.9, 0.1, 0.3}
	ab, _ := Cosine(a, b)
	ba, _ := Cosine(b, a)
	if ab != ba {
		t.Errorf("cosine not symmetric: %v vs %v", ab, ba)
	}
}

func TestCosine_lengthMismatch(t *testing.T) {
	_, err := Cosine([]float32{1, 0}, []float32{1, 0, 0})
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestCosine_zeroNorm(t *testing.T) {
	sim, err := Cosine([]float32{0, 0}, []float32{1, 0})
	if err != nil {
		t.Fatal(err)
	}
	if sim != 0 {
		t.Errorf("cosine against zero vector = %v, want 0", sim)
	}
}

func TestCosine_opposite(t *testing.T) {
	sim, _ := Cosine([]float32{1, 0}, []float32{-1, 0})
	if math.Abs(sim+1) > 1e-6 {
		t.Errorf("cosine of opposite vectors = %v, want -1", sim)
	}
}

func TestEuclideanDistance(t *testing.T) {
	d := EuclideanDistance([]float32{0, 0}, []float32{3, 4})
	if math.Abs(d-5) > 1e-6 {
		t.Errorf("distance = %v, want 5", d)
	}
}
