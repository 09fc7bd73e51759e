package server

import (
	"io/fs"
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/patternbook/patternbook/internal/content"
	"github.com/patternbook/patternbook/internal/web/api"
	"github.com/patternbook/patternbook/internal/web/cache"
	"github.com/patternbook/patternbook/internal/web/middleware"
	"github.com/patternbook/patternbook/internal/web/profiling"
	"github.com/patternbook/patternbook/internal/web/router"
	"github.com/patternbook/patternbook/internal/web/static"
)

// HandlerConfig wires the catalog API, the response cache and the front end
// bundle into one handler.
type HandlerConfig struct {
	Index *content.Catalog
	// APIPrefix mounts the catalog routes (default "/api")
	APIPrefix string
	// Cache stores API responses. Nil disables storage but keeps ETags.
	Cache    cache.Cache
	CacheTTL time.Duration
	// StaticFS is the built front end. Nil answers non-API misses with JSON 404s.
	StaticFS fs.FS
	// CORS overrides the default read-only CORS policy applied to API routes
	CORS *middleware.CORSConfig
	// Profiling mounts pprof and runtime stats under /debug
	Profiling bool
	Logger    *zap.Logger
}

// NewHandler builds the full request pipeline and returns it together with
// the router, whose route table callers may list.
func NewHandler(config HandlerConfig) (http.Handler, *router.Router) {
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	prefix := config.APIPrefix
	if prefix == "" {
		prefix = "/api"
	}
	index := config.Index
	if index == nil {
		index = content.Build(nil)
	}

	cacheConfig := cache.DefaultCacheMiddlewareConfig(config.Cache, index.Digest())
	if config.CacheTTL > 0 {
		cacheConfig.TTL = config.CacheTTL
	}
	cacheConfig.Logger = logger

	r := router.NewRouter()
	api.NewHandler(index).Register(r, prefix, cache.CacheMiddleware(cacheConfig))
	if config.Profiling {
		profiling.Register(r, profiling.DefaultConfig())
	}

	router.SetupDefaultErrorHandlers(r)
	if config.StaticFS != nil {
		notFound := router.NotFoundHandler()
		files := static.NewFileServer(config.StaticFS, "")
		isAPI := middleware.PathPrefix(prefix)
		r.NotFound(func(w http.ResponseWriter, req *http.Request) {
			if isAPI(req) {
				notFound(w, req)
				return
			}
			files.ServeHTTP(w, req)
		})
	}

	cors := middleware.DefaultCORSConfig()
	if config.CORS != nil {
		cors = *config.CORS
	}

	chain := middleware.NewChain(
		middleware.RequestID(),
		middleware.Logging(logger),
		middleware.Recovery(logger),
		middleware.Conditional(middleware.PathPrefix(prefix), middleware.CORSWithConfig(cors)),
		chimiddleware.Compress(5),
	)
	return chain.Then(r), r
}
