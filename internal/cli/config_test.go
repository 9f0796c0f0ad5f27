package cli

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/nodelight/pkg/errors"
	"github.com/matzehuels/nodelight/pkg/pipeline"
	"github.com/matzehuels/nodelight/pkg/source"
)

func newTestCLI(t *testing.T) *CLI {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	c := New(io.Discard, LogInfo)
	c.out = io.Discard
	return c
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	c := newTestCLI(t)

	cfg, err := c.loadConfig()
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	opts, err := cfg.options()
	if err != nil {
		t.Fatalf("options() error = %v", err)
	}
	def := pipeline.DefaultOptions()
	if opts.Listen != def.Listen {
		t.Errorf("Listen = %q, want %q", opts.Listen, def.Listen)
	}
	if opts.QueueSize != def.QueueSize {
		t.Errorf("QueueSize = %d, want %d", opts.QueueSize, def.QueueSize)
	}
	if opts.Layout.Scale != pipeline.DefaultScale {
		t.Errorf("Layout.Scale = %v, want %v", opts.Layout.Scale, pipeline.DefaultScale)
	}
	if !cfg.Present.Labels {
		t.Error("Present.Labels = false, want true")
	}
}

func TestLoadConfigFile(t *testing.T) {
	c := newTestCLI(t)
	c.ConfigPath = writeFile(t, t.TempDir(), "nodelight.toml", `
[graph]
path = "net.gexf"
format = "gexf"

[layout]
iterations = 10
linlog = true
seed = 7

[listen]
address = "127.0.0.1:7000"
queue_size = 8
clear_token = "CLEAR"

[present]
snapshot = "live.svg"
`)

	cfg, err := c.loadConfig()
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	opts, err := cfg.options()
	if err != nil {
		t.Fatalf("options() error = %v", err)
	}

	if opts.GraphPath != "net.gexf" || opts.GraphFormat != source.FormatGEXF {
		t.Errorf("graph = %q/%q, want net.gexf/gexf", opts.GraphPath, opts.GraphFormat)
	}
	if opts.Layout.Iterations != 10 || !opts.Layout.LinLog || opts.Layout.Seed != 7 {
		t.Errorf("Layout = %+v, want iterations 10, linlog, seed 7", opts.Layout)
	}
	// Keys absent from the file keep their defaults.
	if opts.Layout.Scale != pipeline.DefaultScale {
		t.Errorf("Layout.Scale = %v, want default %v", opts.Layout.Scale, pipeline.DefaultScale)
	}
	if opts.Listen != "127.0.0.1:7000" || opts.QueueSize != 8 || opts.ClearToken != "CLEAR" {
		t.Errorf("listen = %q/%d/%q", opts.Listen, opts.QueueSize, opts.ClearToken)
	}
	if cfg.Present.Snapshot != "live.svg" {
		t.Errorf("Present.Snapshot = %q, want live.svg", cfg.Present.Snapshot)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		path string
	}{
		{"missing explicit file", filepath.Join(dir, "absent.toml")},
		{"syntax error", writeFile(t, dir, "bad.toml", "[layout\niterations = 1")},
		{"unknown key", writeFile(t, dir, "unknown.toml", "[layout]\ngravity = 2\n")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestCLI(t)
			c.ConfigPath = tt.path
			_, err := c.loadConfig()
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("loadConfig() error = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestConfigOptionsBadFormat(t *testing.T) {
	cfg := defaultFileConfig()
	cfg.Graph.Format = "graphml"
	if _, err := cfg.options(); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("options() error = %v, want INVALID_CONFIG", err)
	}
}

func TestEncodeConfigRoundTrip(t *testing.T) {
	c := newTestCLI(t)
	want := defaultFileConfig()
	want.Layout.Iterations = 123
	want.Present.HTTP = "127.0.0.1:9000"

	data, err := encodeConfig(want)
	if err != nil {
		t.Fatalf("encodeConfig() error = %v", err)
	}
	c.ConfigPath = writeFile(t, t.TempDir(), "config.toml", string(data))

	got, err := c.loadConfig()
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if got.Layout.Iterations != 123 || got.Present.HTTP != "127.0.0.1:9000" {
		t.Errorf("round trip = %+v", got)
	}
}
