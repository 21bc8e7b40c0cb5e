package similarity

import (
	"math"
	"testing"
)

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a    []float32
		b    []float32
		want float64
	}{
		{"identical vectors", []float32{1, 2, 3}, []float32{1, 2, 3}, 1},
		{"opposite vectors", []float32{1, 0}, []float32{-1, 0}, -1},
		{"orthogonal vectors", []float32{1, 0}, []float32{0, 1}, 0},
		{"scaled vectors", []float32{1, 2}, []float32{2, 4}, 1},
		{"zero vector", []float32{0, 0}, []float32{1, 2}, 0},
		{"length mismatch", []float32{1, 2}, []float32{1, 2, 3}, 0},
		{"empty vectors", nil, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Cosine(tt.a, tt.b)
			if math.IsNaN(got) {
				t.Fatalf("Cosine returned NaN")
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Cosine = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	vec := Normalize([]float32{3, 4})

	var magnitude float64
	for _, v := range vec {
		magnitude += float64(v) * float64(v)
	}
	magnitude = math.Sqrt(magnitude)

	if math.Abs(magnitude-1) > 1e-6 {
		t.Errorf("normalized magnitude = %v, want 1", magnitude)
	}
	if math.Abs(float64(vec[0])-0.6) > 1e-6 || math.Abs(float64(vec[1])-0.8) > 1e-6 {
		t.Errorf("Normalize([3 4]) = %v, want [0.6 0.8]", vec)
	}
}

func TestNormalizeZeroVector(t *testing.T) {
	in := []float32{0, 0, 0}
	out := Normalize(in)

	for i, v := range out {
		if v != 0 {
			t.Errorf("component %d = %v, want 0", i, v)
		}
	}
}

func TestNormalizedCosineMatchesRaw(t *testing.T) {
	a := []float32{0.3, -1.2, 4.5, 0.01}
	b := []float32{2.1, 0.7, -0.4, 3.3}

	raw := Cosine(a, b)
	normed := Cosine(Normalize(a), Normalize(b))

	if math.Abs(raw-normed) > 1e-6 {
		t.Errorf("cosine changed under normalization: %v vs %v", raw, normed)
	}
}
