// Package config loads JSON-file configuration for the weights builder
// and LISA engine, following the pointer-field partial-override idiom
// used throughout the rest of this codebase's config loaders: every
// field is a pointer so an omitted key retains its documented default,
// and Get* accessors centralize the defaulting logic.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const maxConfigFileSize = 1 * 1024 * 1024 // 1MB

// BuilderDefaults configures default weights-builder parameters, used
// when a builder call omits them.
type BuilderDefaults struct {
	ContiguityOrder    *int     `json:"contiguity_order,omitempty"`
	IncludeLowerOrder  *bool    `json:"include_lower_order,omitempty"`
	PrecisionThreshold *float64 `json:"precision_threshold,omitempty"`
	KnnK               *int     `json:"knn_k,omitempty"`
	IsInverse          *bool    `json:"is_inverse,omitempty"`
	Power              *float64 `json:"power,omitempty"`
	Kernel             *string  `json:"kernel,omitempty"`
	AdaptiveBandwidth  *bool    `json:"adaptive_bandwidth,omitempty"`
	UseKernelDiagonals *bool    `json:"use_kernel_diagonals,omitempty"`
	ThresholdTrials    *int     `json:"threshold_trials,omitempty"`
}

// GetContiguityOrder returns the configured contiguity order or 1.
func (c *BuilderDefaults) GetContiguityOrder() int {
	if c.ContiguityOrder == nil {
		return 1
	}
	return *c.ContiguityOrder
}

// GetIncludeLowerOrder returns the configured include_lower_order flag
// or true.
func (c *BuilderDefaults) GetIncludeLowerOrder() bool {
	if c.IncludeLowerOrder == nil {
		return true
	}
	return *c.IncludeLowerOrder
}

// GetPrecisionThreshold returns the configured snapping precision or 0
// (exact match, per §9 open question 2).
func (c *BuilderDefaults) GetPrecisionThreshold() float64 {
	if c.PrecisionThreshold == nil {
		return 0
	}
	return *c.PrecisionThreshold
}

// GetKnnK returns the configured KNN neighbor count or 6.
func (c *BuilderDefaults) GetKnnK() int {
	if c.KnnK == nil {
		return 6
	}
	return *c.KnnK
}

// GetPower returns the configured inverse-distance power or 1.0.
func (c *BuilderDefaults) GetPower() float64 {
	if c.Power == nil {
		return 1.0
	}
	return *c.Power
}

// GetKernel returns the configured kernel name or "" (no kernel).
func (c *BuilderDefaults) GetKernel() string {
	if c.Kernel == nil {
		return ""
	}
	return *c.Kernel
}

// GetThresholdTrials returns the configured Monte-Carlo trial count for
// threshold estimation, or 1000.
func (c *BuilderDefaults) GetThresholdTrials() int {
	if c.ThresholdTrials == nil {
		return 1000
	}
	return *c.ThresholdTrials
}

// LisaDefaults configures default LISA run parameters.
type LisaDefaults struct {
	SignificanceCutoff *float64 `json:"significance_cutoff,omitempty"`
	Permutations       *int     `json:"permutations,omitempty"`
	PermutationMethod  *string  `json:"permutation_method,omitempty"`
	LastSeedUsed       *uint64  `json:"last_seed_used,omitempty"`
	NumWorkers         *int     `json:"num_workers,omitempty"`
}

// GetSignificanceCutoff returns the configured cutoff or 0.05.
func (c *LisaDefaults) GetSignificanceCutoff() float64 {
	if c.SignificanceCutoff == nil {
		return 0.05
	}
	return *c.SignificanceCutoff
}

// GetPermutations returns the configured permutation count or 999.
func (c *LisaDefaults) GetPermutations() int {
	if c.Permutations == nil {
		return 999
	}
	return *c.Permutations
}

// GetPermutationMethod returns the configured method or "complete".
func (c *LisaDefaults) GetPermutationMethod() string {
	if c.PermutationMethod == nil {
		return "complete"
	}
	return *c.PermutationMethod
}

// GetLastSeedUsed returns the configured seed or 123456789.
func (c *LisaDefaults) GetLastSeedUsed() uint64 {
	if c.LastSeedUsed == nil {
		return 123456789
	}
	return *c.LastSeedUsed
}

// GetNumWorkers returns the configured worker count or 1.
func (c *LisaDefaults) GetNumWorkers() int {
	if c.NumWorkers == nil {
		return 1
	}
	return *c.NumWorkers
}

// Defaults bundles both configuration sections, matching the single
// JSON file a deployment would load at startup.
type Defaults struct {
	Builder BuilderDefaults `json:"builder"`
	Lisa    LisaDefaults    `json:"lisa"`
}

// Load reads and validates a JSON defaults file. The path must have a
// .json extension and be under 1MB, mirroring the rest of this
// codebase's config loaders.
func Load(path string) (*Defaults, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config: file must have .json extension, got %q", ext)
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("config: stat: %w", err)
	}
	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("config: file too large: %d bytes (max %d)", info.Size(), maxConfigFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("config: read: %w", err)
	}

	cfg := &Defaults{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: invalid: %w", err)
	}
	return cfg, nil
}

// Validate checks cross-field sanity of whatever was explicitly set.
func (d *Defaults) Validate() error {
	if d.Builder.ContiguityOrder != nil && *d.Builder.ContiguityOrder < 1 {
		return fmt.Errorf("contiguity_order must be >= 1, got %d", *d.Builder.ContiguityOrder)
	}
	if d.Builder.KnnK != nil && *d.Builder.KnnK < 1 {
		return fmt.Errorf("knn_k must be >= 1, got %d", *d.Builder.KnnK)
	}
	if d.Lisa.Permutations != nil && *d.Lisa.Permutations < 1 {
		return fmt.Errorf("permutations must be >= 1, got %d", *d.Lisa.Permutations)
	}
	if d.Lisa.PermutationMethod != nil {
		switch *d.Lisa.PermutationMethod {
		case "complete", "lookup":
		default:
			return fmt.Errorf("permutation_method must be \"complete\" or \"lookup\", got %q", *d.Lisa.PermutationMethod)
		}
	}
	return nil
}
