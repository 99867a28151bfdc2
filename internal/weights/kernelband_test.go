package weights

import "testing"

// TestBuildKernelBandwidth_IndependentBandwidth exercises the
// distinguishing feature of kernel-bandwidth weights: the neighbor set
// comes from Threshold, but kernel normalization uses Bandwidth, so a
// larger bandwidth than threshold yields smaller decay (weights closer
// to 1 at the same distance) without changing who is a neighbor.
func TestBuildKernelBandwidth_IndependentBandwidth(t *testing.T) {
	xs := []float64{0, 1, 2}
	ys := []float64{0, 0, 0}

	tight, err := BuildKernelBandwidth(xs, ys, KernelBandwidthOptions{
		Threshold: 1.5, Bandwidth: 1.5, Kernel: KernelTriangular,
	})
	if err != nil {
		t.Fatal(err)
	}
	wide, err := BuildKernelBandwidth(xs, ys, KernelBandwidthOptions{
		Threshold: 1.5, Bandwidth: 10, Kernel: KernelTriangular,
	})
	if err != nil {
		t.Fatal(err)
	}

	if tight.N() != wide.N() {
		t.Fatalf("expected same observation count, got %d vs %d", tight.N(), wide.N())
	}
	if len(tight.GetNeighbors(0)) != len(wide.GetNeighbors(0)) {
		t.Errorf("bandwidth should not change neighbor membership: tight=%d wide=%d",
			len(tight.GetNeighbors(0)), len(wide.GetNeighbors(0)))
	}

	rowTight := tight.Row(0)
	rowWide := wide.Row(0)
	if len(rowTight) == 0 || len(rowWide) == 0 {
		t.Fatal("expected at least one neighbor")
	}
	for k := range rowTight {
		if rowWide[k].Weight <= rowTight[k].Weight {
			t.Errorf("expected wider bandwidth to decay less: tight=%v wide=%v",
				rowTight[k].Weight, rowWide[k].Weight)
		}
	}
}
