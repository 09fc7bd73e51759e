package server

import (
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "OK")
	})
}

// fetch issues a request without keeping the connection alive
func fetch(t *testing.T, url string) (int, string) {
	t.Helper()
	client := &http.Client{
		Timeout:   5 * time.Second,
		Transport: &http.Transport{DisableKeepAlives: true},
	}
	resp, err := client.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig(okHandler())

	assert.Equal(t, "localhost:3000", config.Address)
	assert.Equal(t, 15*time.Second, config.ReadTimeout)
	assert.Equal(t, 15*time.Second, config.WriteTimeout)
	assert.Equal(t, 60*time.Second, config.IdleTimeout)
	assert.Equal(t, 10*time.Second, config.ReadHeaderTimeout)
	assert.Equal(t, 1<<20, config.MaxHeaderBytes)
}

func TestNewServer(t *testing.T) {
	srv, err := New(DefaultConfig(okHandler()))
	require.NoError(t, err)
	assert.Equal(t, "localhost:3000", srv.Addr())
	assert.Equal(t, 15*time.Second, srv.httpServer.ReadTimeout)

	_, err = New(nil)
	assert.Error(t, err)

	_, err = New(DefaultConfig(nil))
	assert.Error(t, err)
}

func TestServerStartAndShutdown(t *testing.T) {
	config := DefaultConfig(okHandler())
	config.Address = "127.0.0.1:0"
	srv, err := New(config)
	require.NoError(t, err)

	require.NoError(t, srv.Listen())
	require.NoError(t, srv.Listen(), "second Listen is a no-op")
	assert.NotEqual(t, "127.0.0.1:0", srv.Addr())

	done := make(chan error, 1)
	go func() { done <- srv.Start() }()

	status, body := fetch(t, "http://"+srv.Addr()+"/")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "OK", body)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))
	assert.NoError(t, <-done, "a clean shutdown is not an error")
}

func TestServerListenError(t *testing.T) {
	taken, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer taken.Close()

	config := DefaultConfig(okHandler())
	config.Address = taken.Addr().String()
	srv, err := New(config)
	require.NoError(t, err)

	err = srv.Start()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create listener")
}

func TestServerClose(t *testing.T) {
	config := DefaultConfig(okHandler())
	config.Address = "127.0.0.1:0"
	srv, err := New(config)
	require.NoError(t, err)
	require.NoError(t, srv.Listen())

	done := make(chan error, 1)
	go func() { done <- srv.Start() }()

	status, _ := fetch(t, "http://"+srv.Addr()+"/")
	require.Equal(t, http.StatusOK, status)

	require.NoError(t, srv.Close())
	assert.NoError(t, <-done)
}
