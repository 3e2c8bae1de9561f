// Package cli implements the wiresep command-line interface.
//
// # Commands
//
//   - declutter: spread overlapping wire segments in a snapshot
//   - inspect: print the lines and clusters of one axis as a table
//   - corners: list or remove small corner detours
//   - serve: run the HTTP server
//   - cache: manage the result cache
//   - completion: generate shell completion scripts
//
// # Configuration
//
// Settings come from --config (TOML or YAML), then WIRESEP_* environment
// variables, then command flags.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// logs every separation and cache event.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/wiresep/pkg/buildinfo"
	"github.com/matzehuels/wiresep/pkg/cache"
	"github.com/matzehuels/wiresep/pkg/config"
	"github.com/matzehuels/wiresep/pkg/diagram"
	wireio "github.com/matzehuels/wiresep/pkg/io"
	"github.com/matzehuels/wiresep/pkg/observability"
	"github.com/matzehuels/wiresep/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "wiresep"

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

	// Config is loaded before any subcommand runs.
	Config config.Config

	configPath string
	verbose    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
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
		Short: "wiresep spreads overlapping wires in schematic snapshots",
		Long: `wiresep declutters orthogonal wiring in a circuit schematic. Wire segments
that run on top of each other are spread apart at a fixed separation, without
moving symbol pins or the stubs that leave them.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "config file (.toml, .yaml)")

	root.AddCommand(c.declutterCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.cornersCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup applies --verbose and --config before a subcommand runs.
func (c *CLI) setup(cmd *cobra.Command, args []string) error {
	if c.verbose {
		c.SetLogLevel(LogDebug)
		hooks := &logHooks{logger: c.Logger}
		observability.SetSeparationHooks(hooks)
		observability.SetCacheHooks(hooks)
	}

	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg
	if c.configPath != "" {
		c.Logger.Debug("loaded config", "path", c.configPath)
	}

	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner on the configured cache backend.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cc, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	var keyer cache.Keyer
	if c.Config.Cache.Prefix != "" {
		keyer = cache.NewScopedKeyer(nil, c.Config.Cache.Prefix)
	}
	return pipeline.NewRunner(cc, keyer, c.Logger), nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	cfg := c.Config.Cache
	return cache.Open(ctx, cfg.Backend, c.cacheDir(), cfg.RedisURL)
}

// pipelineOptions builds run options from the loaded config.
func (c *CLI) pipelineOptions() pipeline.Options {
	return pipeline.Options{
		Declutter:     c.Config.Declutter,
		Corners:       c.Config.Corners.Enabled,
		MaxCornerSize: c.Config.Corners.MaxCornerSize,
		CacheTTL:      c.Config.Cache.TTL.Duration,
		Logger:        c.Logger,
	}
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the configured file cache directory, falling back to the
// XDG cache home and then the per-user default.
func (c *CLI) cacheDir() string {
	if c.Config.Cache.Dir != "" {
		return c.Config.Cache.Dir
	}
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName)
	}
	return cache.DefaultDir()
}

// outputPath derives <input>.<suffix>.json when no output was given.
func outputPath(output, input, suffix string) string {
	if output != "" {
		return output
	}
	base := strings.TrimSuffix(input, filepath.Ext(input))
	return base + "." + suffix + ".json"
}

// readSnapshot loads a snapshot file, or standard input for "-".
func readSnapshot(path string) (diagram.Diagram, error) {
	if path == "-" {
		return wireio.ReadJSON(os.Stdin)
	}
	return wireio.ImportJSON(path)
}
