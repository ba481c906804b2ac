package cli

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
)

func TestMergeOptionsFlagOverridesConfig(t *testing.T) {
	c := New(io.Discard, log.InfoLevel)
	cmd := c.generateCommand()

	cfg := DefaultConfig()
	cfg.Seed = 5
	cfg.Points = 30

	if err := cmd.Flags().Set("seed", "77"); err != nil {
		t.Fatalf("set flag: %v", err)
	}

	opts := mergeOptions(cmd, cfg, &generateOpts{seed: 77})

	if opts.Seed != 77 {
		t.Errorf("Seed = %d, want flag value 77", opts.Seed)
	}
	if opts.Points != 30 {
		t.Errorf("Points = %d, want config value 30", opts.Points)
	}
}

func TestMergeOptionsFormats(t *testing.T) {
	c := New(io.Discard, log.InfoLevel)
	cmd := c.generateCommand()

	if err := cmd.Flags().Set("format", "png,json"); err != nil {
		t.Fatalf("set flag: %v", err)
	}

	opts := mergeOptions(cmd, DefaultConfig(), &generateOpts{formats: "png,json"})

	if len(opts.Formats) != 2 || opts.Formats[0] != "png" || opts.Formats[1] != "json" {
		t.Errorf("Formats = %v, want [png json]", opts.Formats)
	}
}

func TestValidateOutputs(t *testing.T) {
	if err := validateOutputs("mosaic", []string{"svg", "png"}); err != nil {
		t.Errorf("valid outputs rejected: %v", err)
	}
	if err := validateOutputs("../escape", []string{"svg"}); err == nil {
		t.Error("path traversal accepted")
	}
}

func TestWriteArtifact(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.svg")

	if err := writeArtifact(path, []byte("<svg/>")); err != nil {
		t.Fatalf("writeArtifact() error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "<svg/>" {
		t.Errorf("content = %q, want <svg/>", data)
	}
}
