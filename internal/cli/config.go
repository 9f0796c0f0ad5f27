package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/matzehuels/nodelight/pkg/errors"
	"github.com/matzehuels/nodelight/pkg/layout"
	"github.com/matzehuels/nodelight/pkg/pipeline"
	"github.com/matzehuels/nodelight/pkg/source"
)

// =============================================================================
// Config File
// =============================================================================

// fileConfig mirrors config.toml. Values not present in the file keep the
// defaults from defaultFileConfig.
type fileConfig struct {
	Graph     graphSection     `toml:"graph"`
	Layout    layout.Config    `toml:"layout"`
	Listen    listenSection    `toml:"listen"`
	Present   presentSection   `toml:"present"`
	Telemetry telemetrySection `toml:"telemetry"`
}

type graphSection struct {
	Path   string `toml:"path"`
	Format string `toml:"format"`
}

type listenSection struct {
	Address    string `toml:"address"`
	QueueSize  int    `toml:"queue_size"`
	ClearToken string `toml:"clear_token"`
	DeltaOnly  bool   `toml:"delta_only"`
}

type presentSection struct {
	TUI      bool   `toml:"tui"`
	Snapshot string `toml:"snapshot"`
	HTTP     string `toml:"http"`
	Labels   bool   `toml:"labels"`
}

type telemetrySection struct {
	Endpoint string `toml:"endpoint"`
}

func defaultFileConfig() fileConfig {
	opts := pipeline.DefaultOptions()
	return fileConfig{
		Layout: opts.Layout,
		Listen: listenSection{
			Address:   opts.Listen,
			QueueSize: opts.QueueSize,
		},
		Present: presentSection{Labels: true},
	}
}

// configPath resolves the config file location. explicit reports whether
// the user named the file.
func (c *CLI) configPath() (path string, explicit bool, err error) {
	if c.ConfigPath != "" {
		return c.ConfigPath, true, nil
	}
	dir, err := configDir()
	if err != nil {
		return "", false, err
	}
	return filepath.Join(dir, configFile), false, nil
}

// loadConfig reads the config file on top of the defaults. A missing
// default file is not an error; a missing explicit file is.
func (c *CLI) loadConfig() (fileConfig, error) {
	cfg := defaultFileConfig()
	path, explicit, err := c.configPath()
	if err != nil {
		return cfg, nil
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "config %s", path)
	}
	if err := decodeConfig(path, &cfg); err != nil {
		return cfg, err
	}
	c.Logger.Debug("loaded config", "path", path)
	return cfg, nil
}

func decodeConfig(path string, cfg *fileConfig) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return errors.New(errors.ErrCodeInvalidConfig, "unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

// options converts the file config into pipeline options.
func (f fileConfig) options() (pipeline.Options, error) {
	format, err := source.ParseFormat(f.Graph.Format)
	if err != nil {
		return pipeline.Options{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "[graph] format")
	}
	opts := pipeline.DefaultOptions()
	opts.GraphPath = f.Graph.Path
	opts.GraphFormat = format
	opts.Layout = f.Layout
	opts.Listen = f.Listen.Address
	opts.QueueSize = f.Listen.QueueSize
	opts.ClearToken = f.Listen.ClearToken
	opts.DeltaOnly = f.Listen.DeltaOnly
	return opts, nil
}

func encodeConfig(cfg fileConfig) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// =============================================================================
// Shared Flags
// =============================================================================

// graphFlags are the flags shared by every command that reads a graph.
type graphFlags struct {
	format     string
	iterations int
	scale      float64
	linlog     bool
	noHubs     bool
	repulsion  float64
	k          float64
	seed       uint64
	workers    int
}

func addGraphFlags(cmd *cobra.Command, f *graphFlags) {
	def := pipeline.DefaultOptions().Layout
	fs := cmd.Flags()
	fs.StringVar(&f.format, "format", "", "graph file format: json, gexf, edgelist (default: from extension)")
	fs.IntVar(&f.iterations, "iterations", def.Iterations, "layout iterations")
	fs.Float64Var(&f.scale, "scale", def.Scale, "size of the layout bounding box")
	fs.BoolVar(&f.linlog, "linlog", false, "use logarithmic force compression")
	fs.BoolVar(&f.noHubs, "no-hubs", false, "damp repulsion from high-degree nodes")
	fs.Float64Var(&f.repulsion, "repulsion", def.Repulsion, "repulsion multiplier")
	fs.Float64Var(&f.k, "k", 0, "optimal node distance (default sqrt(1/n))")
	fs.Uint64Var(&f.seed, "seed", 0, "random seed for initial placement (0 = random)")
	fs.IntVar(&f.workers, "workers", 0, "goroutines for the force pass (0 or 1 = sequential)")

	_ = cmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		names := make([]string, len(source.Formats))
		for i, format := range source.Formats {
			names[i] = string(format)
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	})
}

// apply overrides opts with every flag the user set explicitly.
func (f *graphFlags) apply(cmd *cobra.Command, opts *pipeline.Options) error {
	fs := cmd.Flags()
	if fs.Changed("format") {
		format, err := source.ParseFormat(f.format)
		if err != nil {
			return err
		}
		opts.GraphFormat = format
	}
	if fs.Changed("iterations") {
		opts.Layout.Iterations = f.iterations
	}
	if fs.Changed("scale") {
		opts.Layout.Scale = f.scale
	}
	if fs.Changed("linlog") {
		opts.Layout.LinLog = f.linlog
	}
	if fs.Changed("no-hubs") {
		opts.Layout.NoHubs = f.noHubs
	}
	if fs.Changed("repulsion") {
		opts.Layout.Repulsion = f.repulsion
	}
	if fs.Changed("k") {
		opts.Layout.K = f.k
	}
	if fs.Changed("seed") {
		opts.Layout.Seed = f.seed
	}
	if fs.Changed("workers") {
		opts.Layout.Workers = f.workers
	}
	return nil
}

// loadOptions merges defaults, the config file, the graph argument and
// explicit flags, in that order of precedence.
func (c *CLI) loadOptions(cmd *cobra.Command, args []string, flags *graphFlags) (fileConfig, pipeline.Options, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return cfg, pipeline.Options{}, err
	}
	opts, err := cfg.options()
	if err != nil {
		return cfg, opts, err
	}
	if len(args) > 0 {
		opts.GraphPath = args[0]
	}
	if err := flags.apply(cmd, &opts); err != nil {
		return cfg, opts, err
	}
	opts.Logger = c.Logger
	if err := opts.ValidateForPrepare(); err != nil {
		return cfg, opts, err
	}
	return cfg, opts, nil
}

// =============================================================================
// Config Command
// =============================================================================

func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or initialize the config file",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			data, err := encodeConfig(cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	})

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _, err := c.configPath()
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			data, err := encodeConfig(defaultFileConfig())
			if err != nil {
				return err
			}
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return err
			}
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return err
			}
			printSuccess("Wrote config")
			printFile(path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")
	cmd.AddCommand(initCmd)

	return cmd
}
