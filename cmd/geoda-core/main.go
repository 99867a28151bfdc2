// Command geoda-core is a small demonstration CLI over the weights and
// LISA packages: it builds spatial weights from a CSV of points and
// runs LISA statistics against a GWT file and a value column, printing
// the result bundle as JSON. It shells only CSV/GWT/JSON on stdio,
// never cgo or RPC.
package main

import (
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/banshee-data/geoda-core/internal/graph"
	"github.com/banshee-data/geoda-core/internal/gwt"
	"github.com/banshee-data/geoda-core/internal/lisa"
	"github.com/banshee-data/geoda-core/internal/permute"
	"github.com/banshee-data/geoda-core/internal/security"
	"github.com/banshee-data/geoda-core/internal/version"
	"github.com/banshee-data/geoda-core/internal/weights"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "weights":
		runWeights(os.Args[2:])
	case "lisa":
		runLisa(os.Args[2:])
	case "version":
		fmt.Printf("geoda-core %s (%s, built %s)\n", version.Version, version.GitSHA, version.BuildTime)
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: geoda-core weights <queen|rook|knn|distance|kernelknn|kernel> ...")
	fmt.Fprintln(os.Stderr, "       geoda-core lisa <moran|g|gstar|geary|joincount|quantile|moran-eb> ...")
}

func readPoints(path string) (xs, ys []float64, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open points csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read points csv: %w", err)
	}
	for i, rec := range records {
		if len(rec) < 2 {
			return nil, nil, fmt.Errorf("points csv line %d: need at least 2 columns", i+1)
		}
		x, err := strconv.ParseFloat(rec[0], 64)
		if err != nil {
			return nil, nil, fmt.Errorf("points csv line %d: bad x: %w", i+1, err)
		}
		y, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			return nil, nil, fmt.Errorf("points csv line %d: bad y: %w", i+1, err)
		}
		xs = append(xs, x)
		ys = append(ys, y)
	}
	return xs, ys, nil
}

func runWeights(args []string) {
	if len(args) < 1 {
		usage()
		os.Exit(2)
	}
	kind := args[0]
	fs := flag.NewFlagSet("weights "+kind, flag.ExitOnError)
	pointsPath := fs.String("points", "", "path to a CSV of x,y points")
	out := fs.String("out", "", "path to write the GWT file (default: sanitized <kind>_weights.gwt in the working directory)")
	k := fs.Int("k", 6, "number of neighbors (knn/kernelknn)")
	threshold := fs.Float64("threshold", 0, "distance threshold (distance/kernel)")
	isArc := fs.Bool("arc", false, "treat coordinates as lon/lat and distances as great-circle")
	isInverse := fs.Bool("inverse", false, "use inverse-distance weighting (knn)")
	power := fs.Float64("power", 1.0, "inverse-distance power (knn)")
	kernelName := fs.String("kernel", "", "kernel name (kernelknn/kernel): triangular|uniform|epanechnikov|quartic|gaussian")
	bandwidth := fs.Float64("bandwidth", 0, "kernel bandwidth (kernelknn/kernel)")
	fs.Parse(args[1:])

	if *pointsPath == "" {
		log.Fatal("weights: -points is required")
	}
	if *out == "" {
		*out = security.SanitizeFilename(kind) + "_weights.gwt"
	}
	if err := security.ValidateExportPath(*out); err != nil {
		log.Fatalf("weights: %v", err)
	}
	xs, ys, err := readPoints(*pointsPath)
	if err != nil {
		log.Fatalf("weights: %v", err)
	}

	var g *graph.Graph
	switch kind {
	case "queen":
		log.Fatal("weights queen: requires polygon input, not supported by this CLI; use the weights package directly")
	case "rook":
		log.Fatal("weights rook: requires polygon input, not supported by this CLI; use the weights package directly")
	case "knn":
		g, err = weights.BuildKNN(xs, ys, weights.KNNOptions{
			K: *k, IsArc: *isArc, IsInverse: *isInverse, Power: *power,
		})
	case "kernelknn":
		g, err = weights.BuildKNN(xs, ys, weights.KNNOptions{
			K: *k, IsArc: *isArc, Kernel: weights.Kernel(*kernelName), Bandwidth: *bandwidth, UseKernelDiagonals: true,
		})
	case "distance":
		g, err = weights.BuildDistanceBand(xs, ys, weights.DistanceBandOptions{
			Threshold: *threshold, IsArc: *isArc,
		})
	case "kernel":
		g, err = weights.BuildKernelBandwidth(xs, ys, weights.KernelBandwidthOptions{
			Threshold: *threshold, IsArc: *isArc, Kernel: weights.Kernel(*kernelName), Bandwidth: *bandwidth,
		})
	default:
		log.Fatalf("weights: unknown kind %q", kind)
	}
	if err != nil {
		log.Fatalf("weights: build failed: %v", err)
	}

	f, err := os.Create(*out)
	if err != nil {
		log.Fatalf("weights: create output: %v", err)
	}
	defer f.Close()
	if err := gwt.Write(f, g, kind, "value"); err != nil {
		log.Fatalf("weights: write gwt: %v", err)
	}
	log.Printf("wrote %d observations to %s", g.N(), *out)
}

func runLisa(args []string) {
	if len(args) < 1 {
		usage()
		os.Exit(2)
	}
	stat := args[0]
	fs := flag.NewFlagSet("lisa "+stat, flag.ExitOnError)
	gwtPath := fs.String("gwt", "", "path to a GWT weights file")
	valuesPath := fs.String("values", "", "path to a CSV of values, one per line")
	basePath := fs.String("base", "", "path to a CSV of base population values (moran-eb)")
	permutations := fs.Int("permutations", 999, "number of conditional permutations")
	seed := fs.Uint64("seed", 123456789, "PRNG seed")
	numQuantiles := fs.Int("quantiles", 4, "number of quantile groups (quantile)")
	quantile := fs.Int("quantile", 1, "target quantile group, 1-indexed (quantile)")
	fs.Parse(args[1:])

	if *gwtPath == "" || *valuesPath == "" {
		log.Fatal("lisa: -gwt and -values are required")
	}

	f, err := os.Open(*gwtPath)
	if err != nil {
		log.Fatalf("lisa: open gwt: %v", err)
	}
	g, _, err := gwt.Read(f)
	f.Close()
	if err != nil {
		log.Fatalf("lisa: parse gwt: %v", err)
	}

	x, err := readValues(*valuesPath)
	if err != nil {
		log.Fatalf("lisa: %v", err)
	}
	undef := make([]bool, len(x))

	opts := lisa.Options{Permutations: *permutations, Seed: *seed, Method: permute.MethodComplete}

	var result lisa.Result
	switch stat {
	case "moran":
		result = lisa.LocalMoran(g, x, undef, opts)
	case "g":
		result = lisa.LocalG(g, x, undef, opts)
	case "gstar":
		result = lisa.LocalGStar(g, x, undef, opts)
	case "geary":
		result = lisa.LocalGeary(g, x, undef, opts)
	case "joincount":
		result = lisa.LocalJoinCount(g, x, undef, opts)
	case "quantile":
		result, err = lisa.QuantileLISA(g, x, undef, *numQuantiles, *quantile, opts)
		if err != nil {
			log.Fatalf("lisa: quantile: %v", err)
		}
	case "moran-eb":
		if *basePath == "" {
			log.Fatal("lisa moran-eb: -base is required")
		}
		base, err := readValues(*basePath)
		if err != nil {
			log.Fatalf("lisa: %v", err)
		}
		result, err = lisa.LocalMoranEB(g, x, base, undef, opts)
		if err != nil {
			log.Fatalf("lisa: moran-eb: %v", err)
		}
	default:
		log.Fatalf("lisa: unknown statistic %q", stat)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		log.Fatalf("lisa: encode result: %v", err)
	}
}

func readValues(path string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open values csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read values csv: %w", err)
	}
	vals := make([]float64, 0, len(records))
	for i, rec := range records {
		if len(rec) < 1 {
			continue
		}
		v, err := strconv.ParseFloat(rec[0], 64)
		if err != nil {
			return nil, fmt.Errorf("values csv line %d: %w", i+1, err)
		}
		vals = append(vals, v)
	}
	return vals, nil
}
