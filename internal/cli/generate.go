package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cellwarp/cellwarp/pkg/errors"
	"github.com/cellwarp/cellwarp/pkg/pipeline"
)

// generateOpts holds the command-line flags for the generate command.
type generateOpts struct {
	output      string  // output base path (format extension is appended)
	formats     string  // comma-separated output formats
	configPath  string  // explicit config file path
	seed        uint64  // mosaic seed
	points      int     // number of interior generators
	scale       float64 // warp displacement scale
	frequency   float64 // warp noise frequency
	octaves     int     // fractal octave count
	persistence float64 // fractal amplitude falloff
	lacunarity  float64 // fractal frequency growth
	width       int     // artifact width in pixels
	height      int     // artifact height in pixels
	workers     int     // worker goroutine count (0 = GOMAXPROCS)
	noCache     bool    // disable the artifact cache
	refresh     bool    // recompute even on cache hits
}

// generateCommand creates the generate command for computing mosaics and
// writing artifacts.
func (c *CLI) generateCommand() *cobra.Command {
	var opts generateOpts

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a warped Voronoi mosaic",
		Long: `Generate computes a Voronoi mosaic of the unit square from a seeded
point set, warps it with Perlin noise, and writes the rendered artifacts.

The same seed and parameters always produce the same mosaic, so outputs
are reproducible across runs and machines.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGenerate(cmd, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "mosaic", "output base path (format extension is appended)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): svg (default), png, json (comma-separated)")
	cmd.Flags().StringVar(&opts.configPath, "config", "", "config file path (default ~/.config/cellwarp/config.toml)")
	cmd.Flags().Uint64Var(&opts.seed, "seed", pipeline.DefaultSeed, "random seed for site placement and warping")
	cmd.Flags().IntVarP(&opts.points, "points", "n", pipeline.DefaultPoints, "number of interior generator points")
	cmd.Flags().Float64Var(&opts.scale, "scale", pipeline.DefaultScale, "warp displacement scale (0 disables warping)")
	cmd.Flags().Float64Var(&opts.frequency, "frequency", pipeline.DefaultFrequency, "warp noise frequency")
	cmd.Flags().IntVar(&opts.octaves, "octaves", 0, "fractal octave count (0 = default)")
	cmd.Flags().Float64Var(&opts.persistence, "persistence", 0, "fractal amplitude falloff (0 = default)")
	cmd.Flags().Float64Var(&opts.lacunarity, "lacunarity", 0, "fractal frequency growth (0 = default)")
	cmd.Flags().IntVar(&opts.width, "width", pipeline.DefaultWidth, "artifact width in pixels")
	cmd.Flags().IntVar(&opts.height, "height", pipeline.DefaultHeight, "artifact height in pixels")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "worker goroutines (0 = number of CPUs)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even when cached results exist")

	return cmd
}

// runGenerate executes the pipeline and writes one artifact file per
// requested format.
func (c *CLI) runGenerate(cmd *cobra.Command, opts *generateOpts) error {
	cfg, err := LoadConfig(opts.configPath)
	if err != nil {
		return err
	}

	pipeOpts := mergeOptions(cmd, cfg, opts)
	if err := pipeline.ValidateFormats(pipeOpts.Formats); err != nil {
		return err
	}
	if err := validateOutputs(opts.output, pipeOpts.Formats); err != nil {
		return err
	}

	runner, err := c.newRunner(cmd, cfg, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	result, err := executeWithSpinner(cmd.Context(), runner, pipeOpts)
	if err != nil {
		return err
	}

	printSuccess("Generated mosaic (seed %d, %d points)", pipeOpts.Seed, pipeOpts.Points)
	printCellStats(result)

	for _, format := range pipeOpts.Formats {
		data, ok := result.Artifacts[format]
		if !ok {
			printWarning("no %s artifact produced", format)
			continue
		}
		path := opts.output + "." + format
		if err := writeArtifact(path, data); err != nil {
			return err
		}
		printFile(path)
	}

	printNextStep("Explore interactively", fmt.Sprintf("cellwarp view --seed %d", pipeOpts.Seed))
	return nil
}

// mergeOptions layers flag values over config values. Only flags the
// user actually set override the config.
func mergeOptions(cmd *cobra.Command, cfg *Config, opts *generateOpts) pipeline.Options {
	pipeOpts := cfg.Options()

	flags := cmd.Flags()
	if flags.Changed("seed") {
		pipeOpts.Seed = opts.seed
	}
	if flags.Changed("points") {
		pipeOpts.Points = opts.points
	}
	if flags.Changed("scale") {
		pipeOpts.Scale = opts.scale
	}
	if flags.Changed("frequency") {
		pipeOpts.Frequency = opts.frequency
	}
	if flags.Changed("octaves") {
		pipeOpts.Octaves = opts.octaves
	}
	if flags.Changed("persistence") {
		pipeOpts.Persistence = opts.persistence
	}
	if flags.Changed("lacunarity") {
		pipeOpts.Lacunarity = opts.lacunarity
	}
	if flags.Changed("width") {
		pipeOpts.Width = opts.width
	}
	if flags.Changed("height") {
		pipeOpts.Height = opts.height
	}
	if flags.Changed("format") {
		pipeOpts.Formats = parseFormats(opts.formats)
	}
	pipeOpts.Workers = opts.workers
	pipeOpts.Refresh = opts.refresh
	return pipeOpts
}

// executeWithSpinner runs the pipeline behind a progress spinner.
func executeWithSpinner(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options) (*pipeline.Result, error) {
	spinner := newSpinnerWithContext(ctx, "Computing mosaic...")
	spinner.Start()
	result, err := runner.Execute(ctx, opts)
	spinner.Stop()
	return result, err
}

// validateOutputs rejects bad output paths before any work happens.
func validateOutputs(base string, formats []string) error {
	for _, format := range formats {
		if err := errors.ValidateOutputPath(base + "." + format); err != nil {
			return err
		}
	}
	return nil
}

// writeArtifact writes data to path, creating parent directories.
func writeArtifact(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// printCellStats prints a one-line summary of the pipeline result.
func printCellStats(result *pipeline.Result) {
	printStats(result.Stats.OriginalCount, result.Stats.WarpedCount, result.CacheInfo.GenerateHit && result.CacheInfo.WarpHit)
	if discards := result.Stats.Discards.Total(); discards > 0 {
		printDetail("%d cells discarded during assembly or warping", discards)
	}
}
