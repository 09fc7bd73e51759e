package response

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// RendererConfig configures the renderer
type RendererConfig struct {
	PrettyPrint    bool
	DefaultHeaders map[string]string
}

// Renderer writes JSON and text bodies with a fixed set of default headers
type Renderer struct {
	prettyPrint    bool
	defaultHeaders map[string]string
}

// NewRenderer creates a renderer with compact JSON and nosniff headers
func NewRenderer() *Renderer {
	return NewRendererWithConfig(&RendererConfig{})
}

// NewRendererWithConfig creates a renderer with custom configuration
func NewRendererWithConfig(config *RendererConfig) *Renderer {
	headers := map[string]string{"X-Content-Type-Options": "nosniff"}
	for k, v := range config.DefaultHeaders {
		headers[k] = v
	}
	return &Renderer{
		prettyPrint:    config.PrettyPrint,
		defaultHeaders: headers,
	}
}

// JSON renders a JSON response
func (r *Renderer) JSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	return r.JSONWithHeaders(w, statusCode, data, nil)
}

// JSONWithHeaders renders a JSON response with custom headers
func (r *Renderer) JSONWithHeaders(w http.ResponseWriter, statusCode int, data interface{}, headers map[string]string) error {
	r.writeHeaders(w, headers)
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)

	encoder := json.NewEncoder(w)
	if r.prettyPrint {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// Text renders a plain text response
func (r *Renderer) Text(w http.ResponseWriter, statusCode int, text string) error {
	r.writeHeaders(w, nil)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(statusCode)
	_, err := w.Write([]byte(text))
	return err
}

func (r *Renderer) writeHeaders(w http.ResponseWriter, headers map[string]string) {
	for key, value := range r.defaultHeaders {
		w.Header().Set(key, value)
	}
	for key, value := range headers {
		w.Header().Set(key, value)
	}
}
