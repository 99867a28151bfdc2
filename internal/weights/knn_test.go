package weights

import (
	"math"
	"testing"
)

func unitCircle(n int) (xs, ys []float64) {
	xs = make([]float64, n)
	ys = make([]float64, n)
	for i := 0; i < n; i++ {
		theta := 2 * math.Pi * float64(i) / float64(n)
		xs[i] = math.Cos(theta)
		ys[i] = math.Sin(theta)
	}
	return xs, ys
}

// TestKNN_UnitCircle exercises scenario S2 and invariant 2 (KNN
// cardinality): each point's k=2 neighbors are its two angular
// neighbors, none of them itself.
func TestKNN_UnitCircle(t *testing.T) {
	const n = 10
	xs, ys := unitCircle(n)
	g, err := BuildKNN(xs, ys, KNNOptions{K: 2})
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < n; i++ {
		nbrs := g.GetNeighbors(i)
		if len(nbrs) != 2 {
			t.Fatalf("point %d: expected 2 neighbors, got %d", i, len(nbrs))
		}
		want := map[int]bool{(i + 1) % n: true, (i - 1 + n) % n: true}
		for _, j := range nbrs {
			if j == i {
				t.Errorf("point %d: neighbor list contains self", i)
			}
			if !want[j] {
				t.Errorf("point %d: unexpected neighbor %d", i, j)
			}
		}
	}
}

func TestKNN_InverseDistance(t *testing.T) {
	xs := []float64{0, 1, 2}
	ys := []float64{0, 0, 0}
	g, err := BuildKNN(xs, ys, KNNOptions{K: 1, IsInverse: true, Power: -1})
	if err != nil {
		t.Fatal(err)
	}
	row := g.Row(0)
	if len(row) != 1 {
		t.Fatalf("expected 1 neighbor, got %d", len(row))
	}
	if math.Abs(row[0].Weight-1.0) > 1e-9 {
		t.Errorf("expected weight 1/1=1, got %v", row[0].Weight)
	}
}

// TestKNN_GaussianKernelAtZeroDistance exercises scenario S5.
func TestKNN_GaussianKernelAtZeroDistance(t *testing.T) {
	xs := []float64{0, 1, 2}
	ys := []float64{0, 0, 0}
	g, err := BuildKNN(xs, ys, KNNOptions{
		K: 1, Kernel: KernelGaussian, UseKernelDiagonals: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	row := g.Row(0)
	var self float64
	found := false
	for _, e := range row {
		if e.Neighbor == 0 {
			self = e.Weight
			found = true
		}
	}
	if !found {
		t.Fatal("expected a self-loop with kernel diagonals enabled")
	}
	want := 1.0 / math.Sqrt(2*math.Pi)
	if math.Abs(self-want) > 1e-9 {
		t.Errorf("expected gaussian(0) = %v, got %v", want, self)
	}
}

func TestKNN_KernelDiagonalsDisabledForcesWeightOne(t *testing.T) {
	xs := []float64{0, 1, 2}
	ys := []float64{0, 0, 0}
	g, err := BuildKNN(xs, ys, KNNOptions{
		K: 1, Kernel: KernelGaussian, UseKernelDiagonals: false,
	})
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range g.Row(0) {
		if e.Neighbor == 0 && e.Weight != 1.0 {
			t.Errorf("expected forced self weight 1.0, got %v", e.Weight)
		}
	}
}

// TestKernelBounds exercises invariant 4: all kernels finite/non-negative,
// uniform = 0.5 exactly.
func TestKernelBounds(t *testing.T) {
	kernels := []Kernel{KernelTriangular, KernelUniform, KernelEpanechnikov, KernelQuartic, KernelGaussian}
	for _, k := range kernels {
		for _, w := range []float64{0, 0.25, 0.5, 0.75, 1.0} {
			v, err := Apply(k, w)
			if err != nil {
				t.Fatalf("%s: unexpected error: %v", k, err)
			}
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Errorf("%s at w=%v: got non-finite %v", k, w, v)
			}
			if v < 0 {
				t.Errorf("%s at w=%v: got negative %v", k, w, v)
			}
		}
		if v, _ := Apply(KernelUniform, 0.37); v != 0.5 {
			t.Errorf("uniform kernel should always be 0.5, got %v", v)
		}
	}
}

func TestApply_UnknownKernel(t *testing.T) {
	if _, err := Apply(Kernel("bogus"), 0.5); err == nil {
		t.Fatal("expected error for unknown kernel")
	}
}
