package vectorindex

import (
	"math"
	"math/rand/v2"
	"testing"
)

func TestCosine_Bounds(t *testing.T) {
	t.Parallel()

	r := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 500; i++ {
		dim := 1 + r.IntN(64)
		a, b := make([]float32, dim), make([]float32, dim)
		for j := range a {
			a[j] = float32(r.NormFloat64() * 10)
			b[j] = float32(r.NormFloat64() * 10)
		}
		sim := Cosine(a, b)
		if sim < -1 || sim > 1 {
			t.Fatalf("Cosine out of bounds: %v", sim)
		}
		if self := Cosine(a, a); math.Abs(self-1) > 1e-9 {
			t.Fatalf("self similarity = %v, want 1", self)
		}
	}
}

func TestCosine_EdgeCases(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"zero vector", []float32{0, 0, 0}, []float32{1, 2, 3}, 0},
		{"both zero", []float32{0, 0}, []float32{0, 0}, 0},
		{"empty", nil, nil, 0},
		{"dimension mismatch", []float32{1, 0}, []float32{1, 0, 0}, 0},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 2}, []float32{-1, -2}, -1},
		{"scaled", []float32{1, 2, 3}, []float32{2, 4, 6}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Cosine(tt.a, tt.b); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Cosine(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}
