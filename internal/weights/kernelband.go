package weights

import "github.com/banshee-data/geoda-core/internal/graph"

// KernelBandwidthOptions configures kernel-bandwidth weights: identical
// to distance-band except the kernel bandwidth is supplied independently
// of the neighbor-inclusion threshold.
type KernelBandwidthOptions struct {
	Threshold          float64
	Bandwidth          float64
	Kernel             Kernel
	IsArc              bool
	IsMile             bool
	UseKernelDiagonals bool
}

// BuildKernelBandwidth builds a distance-band graph whose kernel
// normalizes by Bandwidth rather than by Threshold.
func BuildKernelBandwidth(xs, ys []float64, opts KernelBandwidthOptions) (*graph.Graph, error) {
	g, err := BuildDistanceBand(xs, ys, DistanceBandOptions{
		Threshold:          opts.Threshold,
		IsArc:              opts.IsArc,
		IsMile:             opts.IsMile,
		Kernel:             opts.Kernel,
		Bandwidth:          opts.Bandwidth,
		UseKernelDiagonals: opts.UseKernelDiagonals,
	})
	if g != nil {
		g.Finalize("")
	}
	return g, err
}
