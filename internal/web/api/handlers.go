// Package api exposes the content index as a read-only JSON API.
package api

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/patternbook/patternbook/internal/cli/ui"
	"github.com/patternbook/patternbook/internal/content"
	webcontext "github.com/patternbook/patternbook/internal/web/context"
	"github.com/patternbook/patternbook/internal/web/middleware"
	"github.com/patternbook/patternbook/internal/web/response"
	"github.com/patternbook/patternbook/internal/web/router"
)

// ListResponse is the body of listing and search endpoints
type ListResponse struct {
	Data  []content.Metadata `json:"data"`
	Count int                `json:"count"`
	Query string             `json:"query,omitempty"`
}

// PatternResponse is the body of a single pattern lookup
type PatternResponse struct {
	Data     *content.Pattern  `json:"data"`
	Variants []content.Variant `json:"variants"`
}

// VariantResponse answers whether a pattern has its own implementation document
type VariantResponse struct {
	Slug    string          `json:"slug"`
	Variant content.Variant `json:"variant"`
	Exists  bool            `json:"exists"`
}

// CategoriesResponse lists the distinct categories
type CategoriesResponse struct {
	Data []string `json:"data"`
}

// HealthResponse is returned by /healthz
type HealthResponse struct {
	Status   string `json:"status"`
	Patterns int    `json:"patterns"`
}

// Handler serves the catalog endpoints from one immutable index
type Handler struct {
	index    *content.Catalog
	renderer *response.Renderer
	pretty   *response.Renderer
}

// NewHandler creates a handler over index
func NewHandler(index *content.Catalog) *Handler {
	return &Handler{
		index:    index,
		renderer: response.NewRenderer(),
		pretty:   response.NewRendererWithConfig(&response.RendererConfig{PrettyPrint: true}),
	}
}

// Register mounts /healthz at the root and the catalog under prefix. The
// given middlewares apply to the catalog routes only.
func (h *Handler) Register(r *router.Router, prefix string, mws ...middleware.Middleware) {
	r.Get("/healthz", h.Health).
		Named("health").
		Describe("Liveness check with the number of indexed patterns")

	r.Group(prefix, func(g *router.Group) {
		g.Use(mws...)

		g.Get("/patterns", h.ListPatterns).
			Named("patterns.list").
			Describe("List patterns ordered by title, optionally filtered by ?category=")
		g.Get("/patterns/{slug}", h.GetPattern).
			Named("patterns.show").
			Describe("Index variant of a pattern")
		g.Get("/patterns/{slug}/variants/{variant}", h.HasVariant).
			Named("patterns.has_variant").
			Describe("Whether a pattern has its own standard or optimized document")
		g.Get("/patterns/{slug}/{variant}", h.GetVariant).
			Named("patterns.variant").
			Describe("Named variant of a pattern, falling back to the index body")
		g.Get("/search", h.Search).
			Named("search").
			Describe("Fuzzy search over titles and descriptions with ?q=")
		g.Get("/categories", h.Categories).
			Named("categories").
			Describe("Distinct pattern categories")
	})
}

// ListPatterns handles GET /patterns
func (h *Handler) ListPatterns(w http.ResponseWriter, r *http.Request) {
	category := router.NewParamExtractor(r).QueryParam("category")

	var list []content.Metadata
	if category != "" {
		list = h.index.ListByCategory(category)
	} else {
		list = h.index.ListAll()
	}
	if list == nil {
		list = []content.Metadata{}
	}
	h.json(w, r, http.StatusOK, ListResponse{Data: list, Count: len(list)})
}

// GetPattern handles GET /patterns/{slug}
func (h *Handler) GetPattern(w http.ResponseWriter, r *http.Request) {
	slug := router.NewParamExtractor(r).PathParam("slug")
	pattern, ok := h.index.GetDefault(slug)
	h.renderPattern(w, r, slug, pattern, ok)
}

// GetVariant handles GET /patterns/{slug}/{variant}
func (h *Handler) GetVariant(w http.ResponseWriter, r *http.Request) {
	p := router.NewParamExtractor(r)
	v, ok := h.parseVariant(w, p.PathParam("variant"))
	if !ok {
		return
	}
	slug := p.PathParam("slug")
	pattern, ok := h.index.Get(slug, v)
	h.renderPattern(w, r, slug, pattern, ok)
}

// HasVariant handles GET /patterns/{slug}/variants/{variant}
func (h *Handler) HasVariant(w http.ResponseWriter, r *http.Request) {
	p := router.NewParamExtractor(r)
	slug := p.PathParam("slug")
	v, ok := h.parseVariant(w, p.PathParam("variant"))
	if !ok {
		return
	}
	h.json(w, r, http.StatusOK, VariantResponse{
		Slug:    slug,
		Variant: v,
		Exists:  h.index.HasVariant(slug, v),
	})
}

// Search handles GET /search?q=. A positive ?limit= keeps only the best
// ranked results.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	p := router.NewParamExtractor(r)
	query := p.QueryParam("q")
	results := h.index.Search(query)
	if results == nil {
		results = []content.Metadata{}
	}
	if limit := p.QueryParamInt("limit", 0, 0, len(results)); limit > 0 {
		results = results[:limit]
	}
	h.json(w, r, http.StatusOK, ListResponse{Data: results, Count: len(results), Query: query})
}

// Categories handles GET /categories
func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	categories := h.index.Categories()
	if categories == nil {
		categories = []string{}
	}
	h.json(w, r, http.StatusOK, CategoriesResponse{Data: categories})
}

// Health handles GET /healthz
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.json(w, r, http.StatusOK, HealthResponse{Status: "ok", Patterns: h.index.Len()})
}

func (h *Handler) renderPattern(w http.ResponseWriter, r *http.Request, slug string, pattern *content.Pattern, ok bool) {
	if !ok {
		response.Errorf(http.StatusNotFound, "pattern %q not found", slug).
			WithCode("pattern_not_found").
			WithDetails(map[string]interface{}{
				"slug":        slug,
				"suggestions": ui.FindSimilar(slug, h.index.Slugs(), nil),
			}).
			Render(w)
		return
	}
	h.json(w, r, http.StatusOK, PatternResponse{Data: pattern, Variants: h.index.Variants(slug)})
}

func (h *Handler) parseVariant(w http.ResponseWriter, name string) (content.Variant, bool) {
	v, err := content.ParseVariant(name)
	if err != nil {
		names := make([]string, 0, len(content.AllVariants()))
		for _, known := range content.AllVariants() {
			names = append(names, known.String())
		}
		details := map[string]interface{}{"variant": name, "valid": names}
		if best := ui.FindBestMatch(name, names, nil); best != "" {
			details["suggestion"] = best
		}
		response.Errorf(http.StatusBadRequest, "unknown variant %q", name).
			WithCode("unknown_variant").
			WithDetails(details).
			Render(w)
		return v, false
	}
	return v, true
}

// json writes body compactly, or indented when the request carries ?pretty.
func (h *Handler) json(w http.ResponseWriter, r *http.Request, status int, body interface{}) {
	renderer := h.renderer
	if router.NewParamExtractor(r).QueryParamBool("pretty", false) {
		renderer = h.pretty
	}
	if err := renderer.JSON(w, status, body); err != nil {
		webcontext.Logger(r.Context()).Error("failed to write response", zap.Error(err))
	}
}
