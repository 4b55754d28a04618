package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/folio/internal/server"
)

type serveOpts struct {
	addr     string
	username string
	cache    string
}

func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the GitHub proxy",
		Long: `Run the same-origin proxy that the portfolio fetches repositories from.

The proxy attaches the configured GitHub token, caches listings and exposes
GET /api/github and GET /healthz.`,
		Example: `  # Serve on the default address with an in-memory cache
  folio serve

  # Share cached listings through redis
  FOLIO_REDIS_ADDR=localhost:6379 folio serve --cache redis`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (overrides config)")
	cmd.Flags().StringVarP(&opts.username, "username", "u", "", "default GitHub username (overrides config)")
	cmd.Flags().StringVar(&opts.cache, "cache", "", "cache backend: memory, file, redis or none")

	return cmd
}

func (c *CLI) runServe(cmd *cobra.Command, opts serveOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	sc := cfg.Server
	if opts.addr != "" {
		sc.Addr = opts.addr
	}
	if opts.username != "" {
		sc.DefaultUsername = opts.username
	}
	if opts.cache != "" {
		sc.Cache = opts.cache
	}

	store, err := newCache(ctx, sc)
	if err != nil {
		return err
	}
	defer store.Close()

	if sc.Token == "" {
		logger.Warn("no GitHub token configured; upstream quota is 60 requests per hour")
	}
	logger.Debug("proxy cache", "backend", sc.Cache, "ttl", sc.CacheTTL)

	srv := server.New(newGitHubClient(sc, store), server.Config{
		Addr:            sc.Addr,
		DefaultUsername: sc.DefaultUsername,
	}, logger)
	return srv.Run(ctx)
}
