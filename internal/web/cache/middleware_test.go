package cache

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type countingHandler struct {
	calls  int
	status int
	body   string
}

func (h *countingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.calls++
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if h.status != 0 {
		w.WriteHeader(h.status)
	}
	_, _ = w.Write([]byte(h.body))
}

func serve(h http.Handler, method, target string, headers map[string]string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(method, target, nil)
	for k, v := range headers {
		r.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	return rec
}

func TestCacheMiddleware_MissThenHit(t *testing.T) {
	mc := NewMemoryCacheWithConfig(DefaultCacheConfig())
	defer mc.Close()

	inner := &countingHandler{body: `{"count":2}`}
	h := CacheMiddleware(DefaultCacheMiddlewareConfig(mc, "d1"))(inner)

	first := serve(h, http.MethodGet, "/api/patterns", nil)
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, StatusMiss, first.Header().Get(HeaderXCache))
	assert.Equal(t, `{"count":2}`, first.Body.String())
	etag := first.Header().Get("ETag")
	require.NotEmpty(t, etag)
	assert.Equal(t, "public, max-age=0, must-revalidate", first.Header().Get("Cache-Control"))

	second := serve(h, http.MethodGet, "/api/patterns", nil)
	assert.Equal(t, StatusHit, second.Header().Get(HeaderXCache))
	assert.Equal(t, `{"count":2}`, second.Body.String())
	assert.Equal(t, etag, second.Header().Get("ETag"))
	assert.Equal(t, "application/json; charset=utf-8", second.Header().Get("Content-Type"))

	assert.Equal(t, 1, inner.calls)
}

func TestCacheMiddleware_NotModified(t *testing.T) {
	inner := &countingHandler{body: `{"data":[]}`}
	h := CacheMiddleware(CacheMiddlewareConfig{})(inner)

	etag := serve(h, http.MethodGet, "/api/search?q=x", nil).Header().Get("ETag")

	rec := serve(h, http.MethodGet, "/api/search?q=x", map[string]string{"If-None-Match": etag})
	assert.Equal(t, http.StatusNotModified, rec.Code)
	assert.Zero(t, rec.Body.Len())
	assert.Equal(t, etag, rec.Header().Get("ETag"))

	// nothing stored without a cache, so the handler ran both times
	assert.Equal(t, 2, inner.calls)
}

func TestCacheMiddleware_NotModifiedOnHit(t *testing.T) {
	mc := NewMemoryCacheWithConfig(DefaultCacheConfig())
	defer mc.Close()

	inner := &countingHandler{body: `{}`}
	h := CacheMiddleware(DefaultCacheMiddlewareConfig(mc, ""))(inner)

	etag := serve(h, http.MethodGet, "/api/categories", nil).Header().Get("ETag")
	rec := serve(h, http.MethodGet, "/api/categories", map[string]string{"If-None-Match": "W/" + etag})

	assert.Equal(t, http.StatusNotModified, rec.Code)
	assert.Equal(t, StatusHit, rec.Header().Get(HeaderXCache))
	assert.Equal(t, 1, inner.calls)
}

func TestCacheMiddleware_ErrorsNotCached(t *testing.T) {
	mc := NewMemoryCacheWithConfig(DefaultCacheConfig())
	defer mc.Close()

	inner := &countingHandler{status: http.StatusNotFound, body: `{"error":"error"}`}
	h := CacheMiddleware(DefaultCacheMiddlewareConfig(mc, ""))(inner)

	for i := 0; i < 2; i++ {
		rec := serve(h, http.MethodGet, "/api/patterns/missing", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, StatusMiss, rec.Header().Get(HeaderXCache))
		assert.Empty(t, rec.Header().Get("ETag"))
	}
	assert.Equal(t, 2, inner.calls)
	assert.Equal(t, 0, mc.Len())
}

func TestCacheMiddleware_SkipsUnsafeMethods(t *testing.T) {
	mc := NewMemoryCacheWithConfig(DefaultCacheConfig())
	defer mc.Close()

	inner := &countingHandler{body: "ok"}
	h := CacheMiddleware(DefaultCacheMiddlewareConfig(mc, ""))(inner)

	rec := serve(h, http.MethodPost, "/api/patterns", nil)
	assert.Empty(t, rec.Header().Get(HeaderXCache))
	assert.Equal(t, 0, mc.Len())
}

func TestCacheMiddleware_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	rc := NewRedisCacheWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), DefaultCacheConfig())
	defer rc.Close()

	inner := &countingHandler{body: `{"status":"ok"}`}
	cfg := DefaultCacheMiddlewareConfig(rc, "d1")
	cfg.TTL = time.Minute
	h := CacheMiddleware(cfg)(inner)

	serve(h, http.MethodGet, "/api/patterns/observer", nil)
	rec := serve(h, http.MethodGet, "/api/patterns/observer", nil)

	assert.Equal(t, StatusHit, rec.Header().Get(HeaderXCache))
	assert.Equal(t, 1, inner.calls)
	assert.Len(t, mr.Keys(), 1)
}

type failingCache struct{ NopCache }

func (failingCache) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("connection refused")
}

func TestCacheMiddleware_BackendFailureFallsThrough(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	inner := &countingHandler{body: "ok"}
	h := CacheMiddleware(CacheMiddlewareConfig{Cache: failingCache{}, Logger: zap.New(core)})(inner)

	rec := serve(h, http.MethodGet, "/api/patterns", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
	assert.Equal(t, 1, logs.FilterMessage("cache read failed").Len())
}

func TestCacheMiddleware_CorruptEntry(t *testing.T) {
	mc := NewMemoryCacheWithConfig(DefaultCacheConfig())
	defer mc.Close()

	cfg := DefaultCacheMiddlewareConfig(mc, "")
	r := httptest.NewRequest(http.MethodGet, "/api/patterns", nil)
	require.NoError(t, mc.Set(context.Background(), cfg.KeyGenerator.GenerateKey(r), []byte("not json"), time.Minute))

	inner := &countingHandler{body: "fresh"}
	rec := serve(CacheMiddleware(cfg)(inner), http.MethodGet, "/api/patterns", nil)

	assert.Equal(t, "fresh", rec.Body.String())
	assert.Equal(t, StatusMiss, rec.Header().Get(HeaderXCache))
}
