package router

import (
	"fmt"
	"net/http"

	"github.com/patternbook/patternbook/internal/web/response"
)

// NotFoundHandler answers unmatched requests with a JSON 404
func NotFoundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.NewHTTPError(http.StatusNotFound, "The requested resource was not found").
			WithDetails(map[string]interface{}{"path": r.URL.Path}).
			Render(w)
	}
}

// MethodNotAllowedHandler answers with a JSON 405 listing the methods the API serves
func MethodNotAllowedHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Allow", "GET, HEAD")
		response.NewHTTPError(http.StatusMethodNotAllowed,
			fmt.Sprintf("Method %s is not allowed for this resource", r.Method)).
			Render(w)
	}
}

// SetupDefaultErrorHandlers installs the JSON 404 and 405 handlers
func SetupDefaultErrorHandlers(r *Router) {
	r.NotFound(NotFoundHandler())
	r.MethodNotAllowed(MethodNotAllowedHandler())
}
