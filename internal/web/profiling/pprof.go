// Package profiling mounts pprof and runtime statistics endpoints on the
// catalog router.
//
// These endpoints expose goroutine stacks and heap contents. Only enable them
// on loopback or otherwise trusted listeners.
package profiling

import (
	"net/http"
	"net/http/pprof"
	"runtime"

	"github.com/patternbook/patternbook/internal/web/response"
	"github.com/patternbook/patternbook/internal/web/router"
)

// Path is where pprof.Index expects to be mounted.
const Path = "/debug/pprof"

// StatsPath serves RuntimeStats as JSON.
const StatsPath = "/debug/stats"

// Config holds profiling configuration
type Config struct {
	// BlockRate sets the block profiling rate (0 = disabled)
	BlockRate int

	// MutexFraction sets the mutex profiling fraction (0 = disabled)
	MutexFraction int
}

// DefaultConfig returns default profiling configuration
func DefaultConfig() Config {
	return Config{BlockRate: 1, MutexFraction: 1}
}

// Register adds the pprof routes and the stats route to r
func Register(r *router.Router, config Config) {
	runtime.SetBlockProfileRate(config.BlockRate)
	runtime.SetMutexProfileFraction(config.MutexFraction)

	r.Get(Path+"/", pprof.Index).Named("debug.pprof").Describe("pprof profile index")
	r.Get(Path+"/cmdline", pprof.Cmdline).Named("debug.pprof.cmdline").Describe("Process command line")
	r.Get(Path+"/profile", pprof.Profile).Named("debug.pprof.profile").Describe("CPU profile (?seconds=N)")
	r.Get(Path+"/symbol", pprof.Symbol).Named("debug.pprof.symbol").Describe("Symbol lookup")
	r.Get(Path+"/trace", pprof.Trace).Named("debug.pprof.trace").Describe("Execution trace (?seconds=N)")
	// pprof.Index serves named profiles such as heap and goroutine
	r.Get(Path+"/{profile}", pprof.Index).Named("debug.pprof.named").Describe("Named runtime profile")

	renderer := response.NewRenderer()
	r.Get(StatsPath, func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		_ = renderer.JSON(w, http.StatusOK, RuntimeStats())
	}).Named("debug.stats").Describe("Goroutine, memory and GC counters")
}

// Stats is a snapshot of runtime counters
type Stats struct {
	Goroutines int         `json:"goroutines"`
	Memory     MemoryStats `json:"memory"`
	CPU        CPUStats    `json:"cpu"`
}

// MemoryStats holds the heap counters from runtime.MemStats
type MemoryStats struct {
	Alloc      uint64 `json:"alloc"`
	TotalAlloc uint64 `json:"total_alloc"`
	Sys        uint64 `json:"sys"`
	NumGC      uint32 `json:"num_gc"`
}

// CPUStats holds processor counters
type CPUStats struct {
	NumCPU     int   `json:"num_cpu"`
	NumCgoCall int64 `json:"num_cgo_call"`
}

// RuntimeStats returns current runtime statistics
func RuntimeStats() Stats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return Stats{
		Goroutines: runtime.NumGoroutine(),
		Memory: MemoryStats{
			Alloc:      m.Alloc,
			TotalAlloc: m.TotalAlloc,
			Sys:        m.Sys,
			NumGC:      m.NumGC,
		},
		CPU: CPUStats{
			NumCPU:     runtime.NumCPU(),
			NumCgoCall: runtime.NumCgoCall(),
		},
	}
}
