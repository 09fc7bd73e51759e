package router

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

// ParamExtractor provides utilities for extracting and converting parameters
type ParamExtractor struct {
	req *http.Request
}

// NewParamExtractor creates a new parameter extractor for the given request
func NewParamExtractor(req *http.Request) *ParamExtractor {
	return &ParamExtractor{req: req}
}

// PathParam extracts a path parameter by name
func (p *ParamExtractor) PathParam(name string) string {
	return chi.URLParam(p.req, name)
}

// QueryParam extracts a trimmed query parameter by name
func (p *ParamExtractor) QueryParam(name string) string {
	return strings.TrimSpace(p.req.URL.Query().Get(name))
}

// QueryParamInt parses a query parameter, falling back to defaultValue when
// it is absent or malformed. Results are clamped to [min, max].
func (p *ParamExtractor) QueryParamInt(name string, defaultValue, min, max int) int {
	value := p.QueryParam(name)
	if value == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	if i < min {
		return min
	}
	if i > max {
		return max
	}
	return i
}

// QueryParamBool reports a boolean flag. A bare "?pretty" counts as true.
func (p *ParamExtractor) QueryParamBool(name string, defaultValue bool) bool {
	values, ok := p.req.URL.Query()[name]
	if !ok {
		return defaultValue
	}
	if len(values) == 0 || values[0] == "" {
		return true
	}
	b, err := strconv.ParseBool(values[0])
	if err != nil {
		return defaultValue
	}
	return b
}
