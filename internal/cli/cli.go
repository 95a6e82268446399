package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/bouqlink/bouqlink/pkg/buildinfo"
	"github.com/bouqlink/bouqlink/pkg/cache"
	"github.com/bouqlink/bouqlink/pkg/config"
	"github.com/bouqlink/bouqlink/pkg/errors"
	"github.com/bouqlink/bouqlink/pkg/httputil"
	"github.com/bouqlink/bouqlink/pkg/observability"
	"github.com/bouqlink/bouqlink/pkg/share"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = config.AppName

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

	// Config is loaded before every command runs.
	Config *config.Config

	configPath string
	logFormat  string
	bindings   []binding
	stdin      io.Reader
	prompter   prompter
}

// binding maps a command-line flag onto a config key. Flags that were set
// explicitly override the file and environment layers.
type binding struct {
	flag *pflag.Flag
	key  string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
		stdin:  os.Stdin,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "bouqlink builds bouquets and shares them as self-contained links",
		Long:         `bouqlink composes digital bouquets (flowers on a themed canvas with a short letter), encodes them into compact URL-safe links and decodes every link format ever issued.`,
		Version:      buildinfo.Get().Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig(cmd)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/bouqlink/config.toml)")
	root.PersistentFlags().StringVar(&c.logFormat, "log-format", logFormatText, "log output: "+strings.Join(logFormats(), ", "))
	c.bind(root.PersistentFlags(), "base-url", "base_url", "", "viewer URL share links point at")

	root.AddCommand(c.composeCommand())
	root.AddCommand(c.encodeCommand())
	root.AddCommand(c.decodeCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.themesCommand())
	root.AddCommand(c.flowersCommand())
	root.AddCommand(c.shortenCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// bind registers a string flag on fs whose value, when set, overrides the
// config key.
func (c *CLI) bind(fs *pflag.FlagSet, name, key, def, usage string) {
	fs.String(name, def, usage)
	c.bindings = append(c.bindings, binding{flag: fs.Lookup(name), key: key})
}

// bindBool is bind for boolean flags.
func (c *CLI) bindBool(fs *pflag.FlagSet, name, key string, usage string) {
	fs.Bool(name, false, usage)
	c.bindings = append(c.bindings, binding{flag: fs.Lookup(name), key: key})
}

// loadConfig layers .env, the config file, BOUQLINK_* variables and
// explicitly set flags, in that order of increasing precedence.
func (c *CLI) loadConfig(cmd *cobra.Command) error {
	formatter, err := parseLogFormat(c.logFormat)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid --log-format")
	}
	c.Logger.SetFormatter(formatter)

	if err := config.LoadDotenv(".env"); err != nil {
		return err
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	for _, b := range c.bindings {
		if !b.flag.Changed {
			continue
		}
		if err := cfg.Set(b.key, b.flag.Value.String()); err != nil {
			return fmt.Errorf("--%s: %w", b.flag.Name, err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	c.Config = cfg
	observability.NewLogHooks(c.Logger).Install()
	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	c.Logger.Debug("config loaded", "path", c.configPath, "base", cfg.BaseURL, "cache", cfg.Cache.Backend)
	return nil
}

// =============================================================================
// Collaborator Factories
// =============================================================================

// openCache opens the configured cache. Failures degrade to no caching.
func (c *CLI) openCache(ctx context.Context, noCache bool) cache.Cache {
	if noCache {
		return cache.NewNullCache()
	}
	store, err := cache.Open(ctx, c.Config.CacheOptions())
	if err != nil {
		c.Logger.Warn("cache unavailable, continuing without", "backend", c.Config.Cache.Backend, "err", err)
		return cache.NewNullCache()
	}
	return store
}

// newShortener builds a shortener from config backed by store.
func (c *CLI) newShortener(store cache.Cache) *share.Shortener {
	sc := c.Config.Shortener
	return share.NewShortener(sc.Endpoint,
		share.WithHTTPClient(httputil.NewClient(sc.Timeout.Duration)),
		share.WithCache(store, c.Config.Cache.TTL.Duration),
		share.WithLogger(c.Logger),
	)
}
