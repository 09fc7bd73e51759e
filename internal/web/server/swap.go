package server

import (
	"net/http"
	"sync/atomic"
)

// SwapHandler forwards to a handler that can be replaced while serving.
// Requests already in flight finish on the handler they started with.
type SwapHandler struct {
	current atomic.Pointer[http.Handler]
}

// NewSwapHandler creates a SwapHandler serving h
func NewSwapHandler(h http.Handler) *SwapHandler {
	s := &SwapHandler{}
	s.Swap(h)
	return s
}

// Swap replaces the handler for subsequent requests
func (s *SwapHandler) Swap(h http.Handler) {
	s.current.Store(&h)
}

// ServeHTTP implements http.Handler
func (s *SwapHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	(*s.current.Load()).ServeHTTP(w, r)
}
