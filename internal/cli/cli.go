package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/folio/internal/config"
	"github.com/matzehuels/folio/pkg/buildinfo"
	"github.com/matzehuels/folio/pkg/cache"
	"github.com/matzehuels/folio/pkg/integrations/github"
)

// =============================================================================
// Constants
// =============================================================================

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// redisPrefix namespaces proxy entries in a shared redis.
const redisPrefix = "folio:"

// retryBackoff is the first delay between upstream attempts.
const retryBackoff = time.Second

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	envFile    string
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "folio",
		Short:        "Folio serves and browses a GitHub portfolio",
		Long:         `Folio fetches a user's public GitHub repositories through a caching proxy and turns them into portfolio project cards.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.Logger.GetLevel() <= LogDebug {
				registerDebugHooks(c.Logger)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/folio/config.toml)")
	root.PersistentFlags().StringVar(&c.envFile, "env-file", "", "dotenv file (default ./.env if present)")

	root.AddCommand(c.serveCommand())
	root.AddCommand(c.projectsCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig loads settings once per process.
func (c *CLI) loadConfig() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, err := config.Load(config.Options{Path: c.configPath, EnvFile: c.envFile})
	if err != nil {
		return nil, err
	}
	c.cfg = cfg
	return cfg, nil
}

// =============================================================================
// Cache Factory
// =============================================================================

// newCache builds the proxy's response cache for the configured backend.
func newCache(ctx context.Context, cfg config.ServerConfig) (cache.Cache, error) {
	switch cfg.Cache {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheMemory:
		return cache.NewMemoryCache(cfg.CacheSize, cfg.CacheTTL), nil
	case config.CacheFile:
		dir, err := config.CacheDir()
		if err != nil {
			return nil, fmt.Errorf("get cache dir: %w", err)
		}
		return cache.NewFileCache(dir)
	case config.CacheRedis:
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
	}
	return nil, fmt.Errorf("unknown cache backend %q", cfg.Cache)
}

// newGitHubClient builds the proxy's upstream client. Keys in a shared
// redis are scoped under redisPrefix.
func newGitHubClient(cfg config.ServerConfig, c cache.Cache) *github.Client {
	keyer := cache.NewDefaultKeyer()
	if cfg.Cache == config.CacheRedis {
		keyer = cache.NewScopedKeyer(keyer, redisPrefix)
	}
	client := github.NewClient(github.Options{
		Token:    cfg.Token,
		BaseURL:  cfg.Upstream,
		Cache:    c,
		CacheTTL: cfg.CacheTTL,
		Keyer:    keyer,
	})
	client.WithRetry(max(cfg.Retries, 1), retryBackoff)
	return client
}
