package cli

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/cellwarp/cellwarp/pkg/pipeline"
	"github.com/cellwarp/cellwarp/pkg/render"
)

// Parameter step sizes for interactive adjustment.
const (
	scaleStep     = 0.01
	frequencyStep = 0.5
	minFrequency  = 0.5
)

// viewCommand creates the view command for exploring mosaics in the
// terminal.
func (c *CLI) viewCommand() *cobra.Command {
	var (
		configPath string
		seed       uint64
		points     int
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Explore a mosaic interactively in the terminal",
		Long: `View renders the warped mosaic as a braille-character outline and lets
you adjust parameters live.

Keys:
  s/S   next/previous seed
  p/P   more/fewer points
  +/-   increase/decrease warp scale
  f/F   increase/decrease noise frequency
  o     toggle original/warped view
  w     write the current frame as SVG
  q     quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(configPath)
			if err != nil {
				return err
			}
			opts := cfg.Options()
			if cmd.Flags().Changed("seed") {
				opts.Seed = seed
			}
			if cmd.Flags().Changed("points") {
				opts.Points = points
			}

			runner, err := c.newRunner(cmd, cfg, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			model := newViewModel(runner, opts)
			_, err = tea.NewProgram(model, tea.WithContext(cmd.Context()), tea.WithAltScreen()).Run()
			return err
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "config file path (default ~/.config/cellwarp/config.toml)")
	cmd.Flags().Uint64Var(&seed, "seed", pipeline.DefaultSeed, "random seed for site placement and warping")
	cmd.Flags().IntVarP(&points, "points", "n", pipeline.DefaultPoints, "number of interior generator points")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the artifact cache")

	return cmd
}

// =============================================================================
// ViewModel - Interactive mosaic explorer
// =============================================================================

// mosaicMsg carries a finished pipeline run back into the update loop.
type mosaicMsg struct {
	result *pipeline.Result
	err    error
}

// savedMsg reports the outcome of a frame export.
type savedMsg struct {
	path string
	err  error
}

// viewModel is the bubbletea model for the interactive explorer.
type viewModel struct {
	runner *pipeline.Runner
	opts   pipeline.Options

	result       *pipeline.Result
	err          error
	computing    bool
	showOriginal bool
	status       string

	width  int
	height int
}

func newViewModel(runner *pipeline.Runner, opts pipeline.Options) viewModel {
	// Artifacts are rendered on demand by the save key only.
	opts.Formats = nil
	return viewModel{
		runner: runner,
		opts:   opts,
		width:  80,
		height: 24,
	}
}

func (m viewModel) Init() tea.Cmd {
	return m.compute()
}

// compute runs the generate and warp stages in the background.
func (m viewModel) compute() tea.Cmd {
	runner, opts := m.runner, m.opts
	return func() tea.Msg {
		ctx := context.Background()
		original, _, _, err := runner.GenerateWithCacheInfo(ctx, opts)
		if err != nil {
			return mosaicMsg{err: err}
		}
		warped, _, _, err := runner.WarpWithCacheInfo(ctx, original, "", opts)
		if err != nil {
			return mosaicMsg{err: err}
		}
		return mosaicMsg{result: &pipeline.Result{Original: original, Warped: warped}}
	}
}

// save writes the current frame as an SVG next to the working directory.
func (m viewModel) save() tea.Cmd {
	result, opts := m.result, m.opts
	return func() tea.Msg {
		if result == nil {
			return savedMsg{err: fmt.Errorf("nothing to save yet")}
		}
		data, err := render.SVG(result.Original, result.Warped, render.WithSize(opts.Width, opts.Height))
		if err != nil {
			return savedMsg{err: err}
		}
		path := fmt.Sprintf("cellwarp_%d.svg", opts.Seed)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return savedMsg{err: err}
		}
		return savedMsg{path: path}
	}
}

func (m viewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case mosaicMsg:
		m.computing = false
		m.err = msg.err
		if msg.err == nil {
			m.result = msg.result
		}
		return m, nil

	case savedMsg:
		if msg.err != nil {
			m.status = "save failed: " + msg.err.Error()
		} else {
			m.status = "saved " + msg.path
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m viewModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "s":
		m.opts.Seed++
	case "S":
		if m.opts.Seed > 1 {
			m.opts.Seed--
		}
	case "p":
		if m.opts.Points < pipeline.MaxPoints {
			m.opts.Points++
		}
	case "P":
		if m.opts.Points > 1 {
			m.opts.Points--
		}
	case "+", "=":
		m.opts.Scale += scaleStep
	case "-":
		m.opts.Scale -= scaleStep
		if m.opts.Scale < 0 {
			m.opts.Scale = 0
		}
	case "f":
		m.opts.Frequency += frequencyStep
	case "F":
		m.opts.Frequency -= frequencyStep
		if m.opts.Frequency < minFrequency {
			m.opts.Frequency = minFrequency
		}
	case "o":
		m.showOriginal = !m.showOriginal
		return m, nil
	case "w":
		return m, m.save()
	default:
		return m, nil
	}
	m.computing = true
	return m, m.compute()
}

func (m viewModel) View() string {
	header := StyleTitle.Render("cellwarp") + "  " +
		StyleDim.Render("s/S seed  p/P points  +/- scale  f/F freq  o original  w save  q quit")

	canvasH := m.height - 4
	if canvasH < 4 {
		canvasH = 4
	}
	canvasW := m.width
	if canvasW < 8 {
		canvasW = 8
	}

	body := ""
	switch {
	case m.err != nil:
		body = StyleWarning.Render("error: " + m.err.Error())
	case m.result == nil:
		body = StyleDim.Render("computing...")
	default:
		canvas := newBrailleCanvas(canvasW, canvasH)
		set := m.result.Warped
		if m.showOriginal {
			set = m.result.Original
		}
		canvas.drawSet(set)
		body = canvas.render()
	}

	which := "warped"
	if m.showOriginal {
		which = "original"
	}
	footer := StyleDim.Render(fmt.Sprintf("seed %d · %d points · scale %.2f · freq %.1f · %s",
		m.opts.Seed, m.opts.Points, m.opts.Scale, m.opts.Frequency, which))
	if m.computing {
		footer += "  " + StyleHighlight.Render("computing...")
	}
	if m.status != "" {
		footer += "  " + StyleSuccess.Render(m.status)
	}

	return header + "\n\n" + body + "\n" + footer
}
