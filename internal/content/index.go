// Package content builds and queries the in-memory index of pattern documents.
//
// Documents live at <root>/<slug>/<variant>.<ext>. The index is built once and
// is read-only afterwards, so every query is safe for concurrent use.
package content

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/collate"

	"github.com/patternbook/patternbook/internal/search"
)

// Document is one raw pattern document
type Document struct {
	Slug    string
	Variant Variant
	Text    string
	// Path is where the document was read from, if anywhere.
	Path string
}

// group holds every document of one slug
type group struct {
	slug    string
	docs    [numVariants]string
	present [numVariants]bool
	meta    Metadata
}

// Catalog is the read-only index of patterns
type Catalog struct {
	groups  map[string]*group
	listing []Metadata
	orphans []string
	engine  *search.Engine
	digest  string
}

// Build creates an index from documents. When two documents share a slug and
// variant the first one wins. Slugs without an index document are left out
// and reported by Orphans.
func Build(docs []Document, opts ...Option) *Catalog {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	log := o.logger

	groups := make(map[string]*group)
	for _, d := range docs {
		if !validSlug(d.Slug) || !d.Variant.Valid() {
			log.Debug("skipping document", zap.String("slug", d.Slug), zap.String("path", d.Path))
			continue
		}
		g, ok := groups[d.Slug]
		if !ok {
			g = &group{slug: d.Slug}
			groups[d.Slug] = g
		}
		if g.present[d.Variant] {
			log.Warn("duplicate document ignored",
				zap.String("slug", d.Slug),
				zap.Stringer("variant", d.Variant),
				zap.String("path", d.Path))
			continue
		}
		g.docs[d.Variant] = d.Text
		g.present[d.Variant] = true
	}

	ix := &Catalog{groups: make(map[string]*group, len(groups))}
	searchDocs := make([]search.Document, 0, len(groups))
	hash := sha256.New()

	for _, slug := range sortedKeys(groups) {
		g := groups[slug]
		if !g.present[Index] {
			ix.orphans = append(ix.orphans, slug)
			log.Warn("pattern has no index document, skipping", zap.String("slug", slug))
			continue
		}

		p := ParsePreamble(g.docs[Index])
		g.meta = metadataFromPreamble(slug, p)
		ix.groups[slug] = g
		ix.listing = append(ix.listing, g.meta)

		searchDocs = append(searchDocs, search.Document{
			ID: slug,
			Fields: map[string]string{
				fieldSlug:  slug,
				fieldTitle: g.meta.Title,
				fieldBody:  p.Body,
			},
		})

		hash.Write([]byte(slug))
		for v, text := range g.docs {
			if g.present[v] {
				hash.Write([]byte{0, byte(v)})
				hash.Write([]byte(text))
			}
		}
	}

	col := collate.New(o.locale)
	sort.SliceStable(ix.listing, func(i, j int) bool {
		if c := col.CompareString(ix.listing[i].Title, ix.listing[j].Title); c != 0 {
			return c < 0
		}
		return ix.listing[i].Slug < ix.listing[j].Slug
	})

	ix.engine = search.New(searchDocs, search.Options{
		Threshold: o.threshold,
		Weights:   defaultFieldWeights,
	})
	ix.digest = hex.EncodeToString(hash.Sum(nil)[:16])

	log.Info("content index built",
		zap.Int("patterns", len(ix.groups)),
		zap.Int("orphans", len(ix.orphans)),
		zap.Int("documents", len(docs)))

	return ix
}

// ListAll returns the metadata of every pattern, ordered by title
func (ix *Catalog) ListAll() []Metadata {
	out := make([]Metadata, len(ix.listing))
	copy(out, ix.listing)
	return out
}

// ListByCategory returns the patterns whose category equals category,
// ignoring case, ordered by title.
func (ix *Catalog) ListByCategory(category string) []Metadata {
	var out []Metadata
	for _, m := range ix.listing {
		if strings.EqualFold(m.Category, category) {
			out = append(out, m)
		}
	}
	return out
}

// Categories returns the distinct categories in sorted order
func (ix *Catalog) Categories() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, m := range ix.listing {
		if _, ok := seen[m.Category]; ok {
			continue
		}
		seen[m.Category] = struct{}{}
		out = append(out, m.Category)
	}
	sort.Strings(out)
	return out
}

// Get resolves variant v of slug. If the slug has no document for v the index
// body is used instead. Titles of non-index variants carry the variant's
// suffix. Fields come from the resolved document's own preamble first, then
// from the pattern's index metadata. Unknown slugs return false.
func (ix *Catalog) Get(slug string, v Variant) (*Pattern, bool) {
	g, ok := ix.groups[slug]
	if !ok {
		return nil, false
	}
	if !v.Valid() {
		v = Index
	}

	resolved := v
	if !g.present[resolved] {
		resolved = Index
	}

	p := ParsePreamble(g.docs[resolved])
	meta := overlay(g.meta, p)
	meta.Title += v.TitleSuffix()

	return &Pattern{
		Metadata: meta,
		Variant:  v,
		Resolved: resolved,
		Content:  p.Body,
	}, true
}

// GetDefault resolves the index variant of slug
func (ix *Catalog) GetDefault(slug string) (*Pattern, bool) {
	return ix.Get(slug, Index)
}

// HasVariant reports whether slug has its own document for v. Only the
// implementation variants (standard, optimized) are answered; any other
// variant, or an unknown slug, yields false.
func (ix *Catalog) HasVariant(slug string, v Variant) bool {
	if !v.IsImplementation() {
		return false
	}
	g, ok := ix.groups[slug]
	return ok && g.present[v]
}

// Variants returns the variants slug has documents for, in display order
func (ix *Catalog) Variants(slug string) []Variant {
	g, ok := ix.groups[slug]
	if !ok {
		return nil
	}
	var out []Variant
	for _, v := range AllVariants() {
		if g.present[v] {
			out = append(out, v)
		}
	}
	return out
}

// Preamble returns the parsed preamble of slug's own document for v, without
// falling back to the index document.
func (ix *Catalog) Preamble(slug string, v Variant) (Preamble, bool) {
	g, ok := ix.groups[slug]
	if !ok || !v.Valid() || !g.present[v] {
		return Preamble{}, false
	}
	return ParsePreamble(g.docs[v]), true
}

// Search returns the patterns matching query, best match first. An empty
// query matches nothing.
func (ix *Catalog) Search(query string) []Metadata {
	if strings.TrimSpace(query) == "" {
		return nil
	}
	results := ix.engine.Search(query)
	out := make([]Metadata, 0, len(results))
	for _, r := range results {
		if g, ok := ix.groups[r.ID]; ok {
			out = append(out, g.meta)
		}
	}
	return out
}

// Has reports whether slug is a usable pattern
func (ix *Catalog) Has(slug string) bool {
	_, ok := ix.groups[slug]
	return ok
}

// Slugs returns every usable slug in lexical order
func (ix *Catalog) Slugs() []string {
	return sortedKeys(ix.groups)
}

// Len returns the number of usable patterns
func (ix *Catalog) Len() int {
	return len(ix.groups)
}

// Orphans returns the slugs that were skipped for lack of an index document
func (ix *Catalog) Orphans() []string {
	out := make([]string, len(ix.orphans))
	copy(out, ix.orphans)
	return out
}

// Digest returns a hash of all indexed content. It changes whenever any
// indexed document does.
func (ix *Catalog) Digest() string {
	return ix.digest
}

func sortedKeys(m map[string]*group) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
