package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/cellwarp/cellwarp/pkg/errors"
	"github.com/cellwarp/cellwarp/pkg/pipeline"
)

// shutdownTimeout bounds how long in-flight requests may run after the
// server receives a termination signal.
const shutdownTimeout = 10 * time.Second

// contentTypes maps artifact formats to HTTP content types.
var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatJSON: "application/geo+json",
}

// serveCommand creates the serve command exposing mosaic generation over
// HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		listen     string
		configPath string
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve mosaic generation over HTTP",
		Long: `Serve starts an HTTP server exposing mosaic generation.

Endpoints:
  GET /healthz     liveness probe
  GET /v1/mosaic   generate a mosaic artifact

The mosaic endpoint accepts seed, points, scale, frequency, octaves,
persistence, lacunarity, width, height, and format query parameters and
responds with the rendered artifact.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(configPath)
			if err != nil {
				return err
			}
			if listen != "" {
				cfg.Serve.Listen = listen
			}

			runner, err := c.newRunner(cmd, cfg, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			return c.runServer(cmd.Context(), cfg, runner)
		},
	}

	cmd.Flags().StringVarP(&listen, "listen", "l", "", "listen address (default :8080)")
	cmd.Flags().StringVar(&configPath, "config", "", "config file path (default ~/.config/cellwarp/config.toml)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the artifact cache")

	return cmd
}

// runServer serves until the context is cancelled, then shuts down
// gracefully.
func (c *CLI) runServer(ctx context.Context, cfg *Config, runner *pipeline.Runner) error {
	srv := &http.Server{
		Addr:              cfg.Serve.Listen,
		Handler:           c.newRouter(cfg, runner),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("listening", "addr", cfg.Serve.Listen)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	c.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newRouter builds the HTTP routing table.
func (c *CLI) newRouter(cfg *Config, runner *pipeline.Runner) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(c.requestLogger)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})
	r.Get("/v1/mosaic", c.handleMosaic(cfg, runner))

	return r
}

// requestLogger assigns each request an ID and logs method, path, and
// duration on completion.
func (c *CLI) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-Id", id)

		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		c.Logger.Info("request",
			"id", id,
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).Round(time.Millisecond),
		)
	})
}

// handleMosaic generates a single-format mosaic artifact per request.
func (c *CLI) handleMosaic(cfg *Config, runner *pipeline.Runner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts, format, err := mosaicOptions(cfg, r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		result, err := runner.Execute(r.Context(), opts)
		if err != nil {
			status := http.StatusInternalServerError
			switch errors.GetCode(err) {
			case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat:
				status = http.StatusBadRequest
			}
			writeError(w, status, err)
			return
		}

		data, ok := result.Artifacts[format]
		if !ok {
			writeError(w, http.StatusInternalServerError, fmt.Errorf("no %s artifact produced", format))
			return
		}

		w.Header().Set("Content-Type", contentTypes[format])
		w.Header().Set("X-Cell-Count", strconv.Itoa(result.Stats.WarpedCount))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}

// mosaicOptions builds pipeline options from query parameters layered
// over the server config.
func mosaicOptions(cfg *Config, r *http.Request) (pipeline.Options, string, error) {
	opts := cfg.Options()
	q := r.URL.Query()

	format := q.Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		return opts, "", err
	}
	opts.Formats = []string{format}

	var err error
	if v := q.Get("seed"); v != "" {
		if opts.Seed, err = strconv.ParseUint(v, 10, 64); err != nil {
			return opts, "", fmt.Errorf("invalid seed: %q", v)
		}
	}
	if v := q.Get("points"); v != "" {
		if opts.Points, err = strconv.Atoi(v); err != nil {
			return opts, "", fmt.Errorf("invalid points: %q", v)
		}
	}
	if v := q.Get("width"); v != "" {
		if opts.Width, err = strconv.Atoi(v); err != nil {
			return opts, "", fmt.Errorf("invalid width: %q", v)
		}
	}
	if v := q.Get("height"); v != "" {
		if opts.Height, err = strconv.Atoi(v); err != nil {
			return opts, "", fmt.Errorf("invalid height: %q", v)
		}
	}
	for name, dst := range map[string]*float64{
		"scale":       &opts.Scale,
		"frequency":   &opts.Frequency,
		"persistence": &opts.Persistence,
		"lacunarity":  &opts.Lacunarity,
	} {
		if v := q.Get(name); v != "" {
			if *dst, err = strconv.ParseFloat(v, 64); err != nil {
				return opts, "", fmt.Errorf("invalid %s: %q", name, v)
			}
		}
	}
	if v := q.Get("octaves"); v != "" {
		if opts.Octaves, err = strconv.Atoi(v); err != nil {
			return opts, "", fmt.Errorf("invalid octaves: %q", v)
		}
	}

	// Reject out-of-range values here so callers get a 400, not a 500.
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return opts, "", err
	}

	return opts, format, nil
}

// writeError sends a JSON error body.
func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": errors.UserMessage(err)})
}
