// Package router wraps chi with a route table that can be listed and used to
// build URLs.
package router

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/patternbook/patternbook/internal/web/middleware"
)

// Router manages HTTP routing using chi framework
type Router struct {
	mux    chi.Router
	routes []*Route
}

// Route represents a single registered route
type Route struct {
	Method      string
	Pattern     string
	Name        string
	Description string
}

// RouteInfo provides metadata about a route for introspection
type RouteInfo struct {
	Method      string   `json:"method"`
	Pattern     string   `json:"pattern"`
	Name        string   `json:"name,omitempty"`
	Description string   `json:"description,omitempty"`
	Parameters  []string `json:"parameters,omitempty"`
}

// NewRouter creates a router that answers HEAD for every GET route.
func NewRouter() *Router {
	mux := chi.NewRouter()
	mux.Use(chimiddleware.GetHead)
	return &Router{mux: mux}
}

// ServeHTTP implements http.Handler interface
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// Use adds middleware to every route. It must be called before any route is registered.
func (r *Router) Use(middlewares ...middleware.Middleware) {
	for _, m := range middlewares {
		r.mux.Use(m)
	}
}

// Get registers a GET route
func (r *Router) Get(pattern string, handler http.HandlerFunc) *Route {
	return r.handle(http.MethodGet, pattern, handler, nil)
}

// Group registers routes under a common prefix with extra middleware
type Group struct {
	router      *Router
	prefix      string
	middlewares chi.Middlewares
}

// Group creates a route group with a common prefix
func (r *Router) Group(prefix string, fn func(g *Group)) {
	fn(&Group{router: r, prefix: strings.TrimSuffix(prefix, "/")})
}

// Use adds middleware applied only to routes of this group
func (g *Group) Use(middlewares ...middleware.Middleware) {
	for _, m := range middlewares {
		g.middlewares = append(g.middlewares, m)
	}
}

// Get registers a GET route under the group prefix
func (g *Group) Get(pattern string, handler http.HandlerFunc) *Route {
	return g.router.handle(http.MethodGet, g.prefix+pattern, handler, g.middlewares)
}

func (r *Router) handle(method, pattern string, handler http.HandlerFunc, mws chi.Middlewares) *Route {
	mux := r.mux
	if len(mws) > 0 {
		mux = r.mux.With(mws...)
	}
	mux.Method(method, pattern, handler)

	route := &Route{Method: method, Pattern: pattern}
	r.routes = append(r.routes, route)
	return route
}

// Named sets a name for the route (for URL generation)
func (route *Route) Named(name string) *Route {
	route.Name = name
	return route
}

// Describe attaches a one-line description shown by route listings
func (route *Route) Describe(description string) *Route {
	route.Description = description
	return route
}

// Routes returns a copy of the route table in registration order
func (r *Router) Routes() []RouteInfo {
	infos := make([]RouteInfo, len(r.routes))
	for i, route := range r.routes {
		infos[i] = RouteInfo{
			Method:      route.Method,
			Pattern:     route.Pattern,
			Name:        route.Name,
			Description: route.Description,
			Parameters:  extractParameters(route.Pattern),
		}
	}
	return infos
}

// URL builds the path for a named route, escaping each parameter value
func (r *Router) URL(name string, params map[string]string) (string, error) {
	var route *Route
	for _, candidate := range r.routes {
		if candidate.Name == name {
			route = candidate
			break
		}
	}
	if route == nil {
		return "", fmt.Errorf("route not found: %s", name)
	}

	path := route.Pattern
	for _, param := range extractParameters(route.Pattern) {
		value, ok := params[param]
		if !ok {
			return "", fmt.Errorf("route %s: missing parameter %s", name, param)
		}
		path = strings.Replace(path, "{"+param+"}", url.PathEscape(value), 1)
	}
	return path, nil
}

// NotFound sets the handler for requests matching no route
func (r *Router) NotFound(handler http.HandlerFunc) {
	r.mux.NotFound(handler)
}

// MethodNotAllowed sets the handler for 405 Method Not Allowed
func (r *Router) MethodNotAllowed(handler http.HandlerFunc) {
	r.mux.MethodNotAllowed(handler)
}

// extractParameters lists the {name} segments of a chi pattern
func extractParameters(pattern string) []string {
	var params []string
	for _, part := range strings.Split(pattern, "/") {
		if strings.HasPrefix(part, "{") && strings.HasSuffix(part, "}") {
			name := strings.Trim(part, "{}")
			// {name:regexp}
			if i := strings.IndexByte(name, ':'); i >= 0 {
				name = name[:i]
			}
			params = append(params, name)
		}
	}
	return params
}
