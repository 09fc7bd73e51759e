package commands

import (
	"context"
	"io/fs"
	"net/http"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/patternbook/patternbook/internal/content"
	"github.com/patternbook/patternbook/internal/watch"
	"github.com/patternbook/patternbook/internal/web/cache"
	"github.com/patternbook/patternbook/internal/web/server"
)

var (
	serveAddr      string
	serveStatic    string
	serveCache     string
	serveWatch     bool
	serveProfiling bool
)

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the catalog API and front end",
		Long: `Start an HTTP server exposing the catalog as JSON under server.api_prefix
and the prebuilt front end from server.static_dir. Client-side routes fall
back to the front end's index.html.

API responses carry ETags and are cached in memory or redis (cache.backend).
With --watch the index is rebuilt whenever a document under the content root
changes. The server stops gracefully on SIGINT or SIGTERM.`,
		Example: `  patternbook serve
  patternbook serve --addr 0.0.0.0:8080 --static ./web/dist
  patternbook serve --watch --pprof
  PATTERNBOOK_CACHE_BACKEND=redis patternbook serve`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address host:port (default: server.host:server.port)")
	cmd.Flags().StringVar(&serveStatic, "static", "", "Front end directory (overrides server.static_dir)")
	cmd.Flags().StringVar(&serveCache, "cache", "", "Cache backend: memory, redis or none (overrides cache.backend)")
	cmd.Flags().BoolVarP(&serveWatch, "watch", "w", false, "Reload content when documents change (sets content.watch)")
	cmd.Flags().BoolVar(&serveProfiling, "pprof", false, "Expose pprof and runtime stats under /debug (sets server.pprof)")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if serveStatic != "" {
		cfg.Server.StaticDir = serveStatic
	}
	if serveCache != "" {
		cfg.Cache.Backend = serveCache
	}
	if serveWatch {
		cfg.Content.Watch = true
	}
	if serveProfiling {
		cfg.Server.Profiling = true
	}
	addr := cfg.Server.Addr()
	if serveAddr != "" {
		addr = serveAddr
	}

	logger, err := newLogger(cfg, false)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ix, err := loadIndex(cfg, logger)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	responses, err := cache.New(ctx, cache.Options{
		Backend: cfg.Cache.Backend,
		Config: cache.CacheConfig{
			DefaultTTL: cfg.Cache.TTL,
			Prefix:     cache.DefaultCacheConfig().Prefix,
		},
		Redis: cache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		},
	})
	if err != nil {
		return err
	}

	var staticFS fs.FS
	if info, err := os.Stat(cfg.Server.StaticDir); err == nil && info.IsDir() {
		staticFS = os.DirFS(cfg.Server.StaticDir)
	} else {
		logger.Warn("front end directory not found, serving the API only",
			zap.String("static_dir", cfg.Server.StaticDir))
	}

	build := func(ix *content.Catalog) http.Handler {
		h, _ := server.NewHandler(server.HandlerConfig{
			Index:     ix,
			APIPrefix: cfg.Server.APIPrefix,
			Cache:     responses,
			CacheTTL:  cfg.Cache.TTL,
			StaticFS:  staticFS,
			Profiling: cfg.Server.Profiling,
			Logger:    logger,
		})
		return h
	}
	handler := server.NewSwapHandler(build(ix))

	srvConfig := server.DefaultConfig(handler)
	srvConfig.Address = addr
	srv, err := server.New(srvConfig)
	if err != nil {
		_ = responses.Close()
		return err
	}

	gs := server.NewGracefulShutdown(srv, &server.ShutdownConfig{
		Timeout: cfg.Server.ShutdownTimeout,
		Logger:  logger,
	})

	if cfg.Content.Watch {
		watcher, err := watch.NewWatcher(watch.Config{
			Root:       cfg.Content.Root,
			Extensions: cfg.Content.Extensions,
			Logger:     logger,
		}, func(files []string) error {
			next, err := loadIndex(cfg, logger)
			if err != nil {
				return err
			}
			handler.Swap(build(next))
			logger.Info("content reloaded",
				zap.Int("patterns", next.Len()),
				zap.Int("changed", len(files)),
				zap.String("digest", next.Digest()))
			return nil
		})
		if err != nil {
			_ = responses.Close()
			return err
		}
		if err := watcher.Start(); err != nil {
			_ = watcher.Stop()
			_ = responses.Close()
			return err
		}
		gs.RegisterHook(func(context.Context) error {
			return watcher.Stop()
		})
	}
	gs.RegisterHook(func(context.Context) error {
		return responses.Close()
	})

	if err := srv.Listen(); err != nil {
		_ = gs.Shutdown()
		return err
	}

	infoColor := color.New(color.FgCyan)
	infoColor.Fprintf(cmd.OutOrStdout(), "Serving %d patterns at http://%s (cache: %s)\n",
		ix.Len(), srv.Addr(), cfg.Cache.Backend)

	return gs.Run(ctx)
}
