package cache

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Values of the X-Cache response header.
const (
	HeaderXCache = "X-Cache"
	StatusHit    = "HIT"
	StatusMiss   = "MISS"
)

// CacheMiddlewareConfig holds configuration for the cache middleware
type CacheMiddlewareConfig struct {
	Cache        Cache
	KeyGenerator *KeyGenerator
	// TTL is the time-to-live for cached responses
	TTL time.Duration
	// CacheControl is set on every 2xx response
	CacheControl string
	Logger       *zap.Logger
}

// DefaultCacheMiddlewareConfig returns a default cache middleware configuration
func DefaultCacheMiddlewareConfig(cache Cache, namespace string) CacheMiddlewareConfig {
	return CacheMiddlewareConfig{
		Cache:        cache,
		KeyGenerator: DefaultKeyGenerator(namespace),
		TTL:          5 * time.Minute,
		CacheControl: "public, max-age=0, must-revalidate",
	}
}

type cachedResponse struct {
	StatusCode int         `json:"status"`
	Headers    http.Header `json:"headers"`
	Body       []byte      `json:"body"`
	ETag       string      `json:"etag"`
}

// CacheMiddleware buffers GET and HEAD responses, tags 2xx ones with an ETag,
// stores them in the cache and answers matching If-None-Match with 304.
// Other methods pass straight through.
func CacheMiddleware(config CacheMiddlewareConfig) func(http.Handler) http.Handler {
	if config.Cache == nil {
		config.Cache = NopCache{}
	}
	if config.KeyGenerator == nil {
		config.KeyGenerator = DefaultKeyGenerator("")
	}
	if config.Logger == nil {
		config.Logger = zap.NewNop()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet && r.Method != http.MethodHead {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			key := config.KeyGenerator.GenerateKey(r)

			data, err := config.Cache.Get(ctx, key)
			if err == nil {
				var cached cachedResponse
				if err := json.Unmarshal(data, &cached); err == nil {
					writeCached(w, r, &cached, StatusHit, config.CacheControl)
					return
				}
				config.Logger.Warn("discarding undecodable cache entry", zap.String("key", key))
			} else if !IsCacheMiss(err) {
				config.Logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
			}

			buf := newBufferedWriter()
			next.ServeHTTP(buf, r)

			cached := &cachedResponse{
				StatusCode: buf.statusCode,
				Headers:    buf.header,
				Body:       buf.body.Bytes(),
			}

			if buf.statusCode >= 200 && buf.statusCode < 300 {
				cached.ETag = GenerateETag(cached.Body)
				if data, err := json.Marshal(cached); err == nil {
					if err := config.Cache.Set(ctx, key, data, config.TTL); err != nil {
						config.Logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
					}
				}
			}

			writeCached(w, r, cached, StatusMiss, config.CacheControl)
		})
	}
}

func writeCached(w http.ResponseWriter, r *http.Request, c *cachedResponse, status, cacheControl string) {
	h := w.Header()
	for key, values := range c.Headers {
		h[key] = append([]string(nil), values...)
	}
	h.Set(HeaderXCache, status)

	if c.ETag != "" {
		h.Set("ETag", c.ETag)
		if cacheControl != "" {
			h.Set("Cache-Control", cacheControl)
		}
		if NotModified(r, c.ETag) {
			WriteNotModified(w, c.ETag)
			return
		}
	}

	w.WriteHeader(c.StatusCode)
	_, _ = w.Write(c.Body)
}

// bufferedWriter holds the whole response so it can be validated before sending
type bufferedWriter struct {
	header      http.Header
	statusCode  int
	body        bytes.Buffer
	wroteHeader bool
}

func newBufferedWriter() *bufferedWriter {
	return &bufferedWriter{header: make(http.Header), statusCode: http.StatusOK}
}

func (b *bufferedWriter) Header() http.Header {
	return b.header
}

func (b *bufferedWriter) WriteHeader(statusCode int) {
	if !b.wroteHeader {
		b.statusCode = statusCode
		b.wroteHeader = true
	}
}

func (b *bufferedWriter) Write(p []byte) (int, error) {
	b.wroteHeader = true
	return b.body.Write(p)
}
