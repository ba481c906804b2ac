// Package pipeline provides the core mosaic pipeline for cellwarp.
//
// This package implements the complete generate → warp → render pipeline
// that can be used by the CLI, the HTTP server, and the TUI. By
// centralizing this logic, we ensure consistent behavior across all entry
// points and avoid code duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Generate: seeded points → Voronoi diagram → assembled, repaired,
//     clipped polygons covering the unit square
//  2. Warp: per-vertex noise displacement of every polygon, followed by
//     repair and re-clipping
//  3. Render: artifacts in various formats (SVG, PNG, JSON)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Failure model
//
// Shape-level trouble (degenerate cells, failed repairs, polygons warped
// out of the domain) discards the shape and continues; the counts land in
// [Stats.Discards]. Only malformed diagram data (a vertex index outside
// the vertex table) aborts the run, with an INPUT_CONTRACT error.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Seed:    10,
//	    Points:  20,
//	    Formats: []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	// Generate only
//	original, err := runner.Generate(ctx, opts)
//
//	// Warp an existing set
//	warped, err := runner.Warp(ctx, original, opts)
package pipeline

import (
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/charmbracelet/log"

	"github.com/cellwarp/cellwarp/pkg/cache"
	"github.com/cellwarp/cellwarp/pkg/geom"
	"github.com/cellwarp/cellwarp/pkg/noise"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, Server, and TUI
// =============================================================================

const (
	// DefaultSeed is the default random seed for reproducibility.
	DefaultSeed = uint64(10)

	// DefaultPoints is the default number of interior generator points.
	DefaultPoints = 20

	// DefaultScale is the default warp displacement scale. Roughly a
	// twentieth of the domain edge; large enough to read, small enough
	// that most warped cells stay valid.
	DefaultScale = 0.05

	// DefaultFrequency is the default warp noise frequency.
	DefaultFrequency = 3.0

	// DefaultWidth is the default artifact width in pixels.
	DefaultWidth = 800

	// DefaultHeight is the default artifact height in pixels.
	DefaultHeight = 400

	// MaxPoints caps the generator count; mostly a guard against absurd
	// HTTP query values.
	MaxPoints = 10000
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatJSON: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the mosaic pipeline.
// This struct supports JSON serialization for HTTP requests.
type Options struct {
	// Generate options
	Seed   uint64 `json:"seed,omitempty"`
	Points int    `json:"points,omitempty"`

	// Warp options
	Scale       float64 `json:"scale"`
	Frequency   float64 `json:"frequency,omitempty"`
	Octaves     int     `json:"octaves,omitempty"`
	Persistence float64 `json:"persistence,omitempty"`
	Lacunarity  float64 `json:"lacunarity,omitempty"`

	// Render options
	Formats []string `json:"formats,omitempty"`
	Width   int      `json:"width,omitempty"`
	Height  int      `json:"height,omitempty"`

	// Runtime options (not serialized)
	Workers int          `json:"-"` // Parallelism for per-cell stages; 0 means GOMAXPROCS
	Refresh bool         `json:"-"` // Bypass cached stage results
	Logger  *log.Logger  `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Original is the unwarped polygon set covering the unit square.
	Original geom.PolygonSet

	// Warped is the noise-displaced polygon set.
	Warped geom.PolygonSet

	// OriginalHash is the content hash of the serialized original set.
	OriginalHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing, count, and discard information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	CellCount     int // Raw cells from the diagram
	OriginalCount int // Polygons after assemble/repair/clip
	WarpedCount   int // Polygons after warping
	Discards      Discards
	GenerateTime  time.Duration
	WarpTime      time.Duration
	RenderTime    time.Duration
}

// Discards counts shapes dropped per reason across both stages.
type Discards struct {
	Unbounded    int `json:"unbounded,omitempty"`     // Cell touches the computation box
	Degenerate   int `json:"degenerate,omitempty"`    // Empty, <3 distinct vertices, or zero area
	RepairFailed int `json:"repair_failed,omitempty"` // Self-intersection could not be resolved
	ClipEmpty    int `json:"clip_empty,omitempty"`    // Nothing left inside the domain
	WarpFailed   int `json:"warp_failed,omitempty"`   // Displaced ring could not be rebuilt
}

// Total returns the number of discarded shapes across all reasons.
func (d Discards) Total() int {
	return d.Unbounded + d.Degenerate + d.RepairFailed + d.ClipEmpty + d.WarpFailed
}

func (d *Discards) add(o Discards) {
	d.Unbounded += o.Unbounded
	d.Degenerate += o.Degenerate
	d.RepairFailed += o.RepairFailed
	d.ClipEmpty += o.ClipEmpty
	d.WarpFailed += o.WarpFailed
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	GenerateHit bool // Whether the original set came from cache
	WarpHit     bool // Whether the warped set came from cache
	RenderHit   bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: svg, png, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForGenerate(); err != nil {
		return err
	}
	if err := o.ValidateForWarp(); err != nil {
		return err
	}
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForGenerate checks required fields for the generate stage.
func (o *Options) ValidateForGenerate() error {
	if o.Points < 0 {
		return fmt.Errorf("points must be non-negative, got %d", o.Points)
	}
	if o.Points > MaxPoints {
		return fmt.Errorf("points must be at most %d, got %d", MaxPoints, o.Points)
	}

	// Generate defaults
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.Points == 0 {
		o.Points = DefaultPoints
	}
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}

	// Logger default
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	return nil
}

// ValidateForWarp checks required fields for the warp stage. A zero Scale
// is valid and means no displacement.
func (o *Options) ValidateForWarp() error {
	if o.Scale < 0 {
		return fmt.Errorf("scale must be non-negative, got %v", o.Scale)
	}
	if o.Frequency < 0 {
		return fmt.Errorf("frequency must be non-negative, got %v", o.Frequency)
	}

	// Warp defaults
	if o.Frequency == 0 {
		o.Frequency = DefaultFrequency
	}
	if !o.NoiseParams().Valid() {
		def := noise.DefaultParams()
		if o.Octaves == 0 {
			o.Octaves = def.Octaves
		}
		if o.Persistence == 0 {
			o.Persistence = def.Persistence
		}
		if o.Lacunarity == 0 {
			o.Lacunarity = def.Lacunarity
		}
	}
	if !o.NoiseParams().Valid() {
		return fmt.Errorf("invalid noise parameters: %+v", o.NoiseParams())
	}
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// NoiseParams returns the fractal noise parameters from the options.
func (o *Options) NoiseParams() noise.Params {
	return noise.Params{
		Octaves:     o.Octaves,
		Persistence: o.Persistence,
		Lacunarity:  o.Lacunarity,
	}
}

// MosaicKeyOpts returns cache key options for the generate stage.
func (o *Options) MosaicKeyOpts() cache.MosaicKeyOpts {
	return cache.MosaicKeyOpts{
		Seed:   o.Seed,
		Points: o.Points,
	}
}

// WarpKeyOpts returns cache key options for the warp stage.
func (o *Options) WarpKeyOpts() cache.WarpKeyOpts {
	return cache.WarpKeyOpts{
		Scale:       o.Scale,
		Frequency:   o.Frequency,
		Octaves:     o.Octaves,
		Persistence: o.Persistence,
		Lacunarity:  o.Lacunarity,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format: format,
		Width:  o.Width,
		Height: o.Height,
	}
}
