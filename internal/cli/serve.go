package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/drips-network/gardener-sub000/internal/server"
	"github.com/drips-network/gardener-sub000/pkg/cache"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr       string        // listen address
	backend    string        // cache backend: memory, file, redis
	redisAddr  string        // redis address for the redis backend
	redisDB    int           // redis database number
	configPath string        // optional TOML configuration file
	ttl        time.Duration // result retention
}

// newServeCmd creates the serve command, which exposes the analysis
// pipeline over HTTP.
func newServeCmd() *cobra.Command {
	opts := serveOpts{
		addr:    ":8080",
		backend: "memory",
		ttl:     server.DefaultResultTTL,
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the analysis HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, &opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")
	cmd.Flags().StringVar(&opts.backend, "cache", opts.backend, "cache backend: memory (default), file, redis")
	cmd.Flags().StringVar(&opts.redisAddr, "redis-addr", "localhost:6379", "redis address (redis backend)")
	cmd.Flags().IntVar(&opts.redisDB, "redis-db", 0, "redis database number (redis backend)")
	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "TOML configuration file")
	cmd.Flags().DurationVar(&opts.ttl, "ttl", opts.ttl, "result retention")

	return cmd
}

func runServe(cmd *cobra.Command, opts *serveOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}

	store, err := serveCache(cmd, opts)
	if err != nil {
		return err
	}
	defer store.Close()

	srv := server.New(server.Options{
		Config:    cfg,
		Cache:     store,
		ResultTTL: opts.ttl,
		Logger:    logger,
	})

	logger.Infof("Listening on %s (cache: %s)", opts.addr, opts.backend)
	return srv.ListenAndServe(ctx, opts.addr)
}

// serveCache builds the cache backend selected by --cache.
func serveCache(cmd *cobra.Command, opts *serveOpts) (cache.Cache, error) {
	switch opts.backend {
	case "memory":
		return cache.NewMemoryCache(), nil
	case "file":
		dir, err := cacheDir()
		if err != nil {
			return nil, err
		}
		return cache.NewFileCache(dir)
	case "redis":
		return cache.NewRedisCache(cmd.Context(), cache.RedisConfig{
			Addr: opts.redisAddr,
			DB:   opts.redisDB,
		})
	default:
		return nil, fmt.Errorf("invalid cache backend: %s (must be 'memory', 'file', or 'redis')", opts.backend)
	}
}
