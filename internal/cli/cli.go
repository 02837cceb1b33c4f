package cli

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/matzehuels/loopgrid/internal/config"
	"github.com/matzehuels/loopgrid/pkg/buildinfo"
	"github.com/matzehuels/loopgrid/pkg/cache"
	"github.com/matzehuels/loopgrid/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "loopgrid"

	// configKeyAnnotation marks a flag as an override of a config key.
	configKeyAnnotation = "loopgrid/config-key"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config *config.Config

	viper      *viper.Viper
	configFile string
	verbose    bool
}

// New creates a new CLI instance with a default logger and configuration.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
		viper:  viper.New(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Loopgrid lays out HVAC loops on a grid",
		Long: `Loopgrid turns an HVAC loop topology (plant, air or refrigeration) into a
grid layout: branches become columns, components become cells and every
row and column lines up across parallel branches.

Layouts are rendered to SVG, text, PDF, DXF, XLSX or JSON, served over
HTTP, or recomputed live while a topology file is edited.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVarP(&c.configFile, "config", "c", "", "config file (default: ./loopgrid.toml, then the user config dir)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")

	// Register all subcommands
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.visualizeCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())
	root.AddCommand(c.versionCommand())

	return root
}

// setup loads the configuration, applies the log level and attaches the
// logger to the command context. It runs before every subcommand.
func (c *CLI) setup(cmd *cobra.Command, args []string) error {
	config.Setup(c.viper, c.configFile)
	if err := config.Read(c.viper); err != nil {
		return err
	}

	var bindErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if keys, ok := f.Annotations[configKeyAnnotation]; ok && bindErr == nil {
			bindErr = c.viper.BindPFlag(keys[0], f)
		}
	})
	if bindErr != nil {
		return bindErr
	}

	cfg, err := config.FromViper(c.viper)
	if err != nil {
		return err
	}
	c.Config = cfg

	level := cfg.LogLevel()
	if c.verbose {
		level = LogDebug
	}
	c.SetLogLevel(level)
	if used := c.viper.ConfigFileUsed(); used != "" {
		c.Logger.Debug("loaded config", "file", used)
	}

	installLogHooks(c.Logger)
	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return nil
}

// bindConfig marks flag as the command-line override of a config key.
func bindConfig(cmd *cobra.Command, flag, key string) {
	_ = cmd.Flags().SetAnnotation(flag, configKeyAnnotation, []string{key})
}

// addRenderFlags registers the render option flags shared by every command
// that produces artifacts. Values left unset come from the config.
func addRenderFlags(cmd *cobra.Command, formats *string, opts *pipeline.Options) {
	cmd.Flags().StringVarP(formats, "format", "f", "", "output format(s): "+strings.Join(pipeline.Formats, ", ")+" (comma-separated)")
	cmd.Flags().IntVar(&opts.Unit, "unit", pipeline.DefaultUnit, "size of one grid unit in output pixels")
	cmd.Flags().BoolVar(&opts.ShowLabels, "labels", true, "draw component labels")
	cmd.Flags().BoolVar(&opts.Containers, "containers", false, "outline branch, group and side containers")
	bindConfig(cmd, "unit", "render.unit")
	bindConfig(cmd, "labels", "render.labels")
}

// addLayoutFlags registers the layout option flags.
func addLayoutFlags(cmd *cobra.Command, opts *pipeline.Options) {
	cmd.Flags().BoolVar(&opts.DropZones, "drop-zones", false, "reserve empty cells where components can be inserted")
	bindConfig(cmd, "drop-zones", "render.drop_zones")
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cc, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(cc, nil, c.Logger)
	if c.Config.Cache.TTL > 0 {
		r.LayoutTTL = c.Config.Cache.TTL
	}
	return r, nil
}

// newCache picks the cache backend: none, Redis when an address is
// configured, or files under the cache directory. An unreachable Redis
// falls back to the file cache.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	cfg := c.Config.Cache
	if noCache || cfg.Disabled {
		return cache.NewNullCache(), nil
	}
	if cfg.RedisAddr != "" {
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err == nil {
			c.Logger.Debug("using redis cache", "addr", cfg.RedisAddr)
			return rc, nil
		}
		c.Logger.Warn("redis unavailable, using file cache", "addr", cfg.RedisAddr, "err", err)
	}
	dir, err := c.cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the configured cache directory, or the per-user default
// (~/.cache/loopgrid on Linux).
func (c *CLI) cacheDir() (string, error) {
	if c.Config.Cache.Dir != "" {
		return c.Config.Cache.Dir, nil
	}
	return cache.DefaultDir()
}

// =============================================================================
// Options Helpers
// =============================================================================

// resolveOptions fills the options a command did not set from the config.
func (c *CLI) resolveOptions(cmd *cobra.Command, formats string, opts pipeline.Options) (pipeline.Options, error) {
	defaults := c.Config.PipelineOptions()
	if formats == "" {
		opts.Formats = defaults.Formats
	} else {
		opts.Formats = parseFormats(formats)
	}
	if f := cmd.Flags().Lookup("unit"); f != nil && !f.Changed {
		opts.Unit = defaults.Unit
	}
	if f := cmd.Flags().Lookup("labels"); f != nil && !f.Changed {
		opts.ShowLabels = defaults.ShowLabels
	}
	if f := cmd.Flags().Lookup("drop-zones"); f != nil && !f.Changed {
		opts.DropZones = defaults.DropZones
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return opts, err
	}
	return opts, nil
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
