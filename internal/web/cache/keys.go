package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"sort"
	"strings"
)

// KeyGenerator generates cache keys from HTTP requests
type KeyGenerator struct {
	// Namespace scopes every key. Set it to the content digest so a shared
	// cache never serves responses rendered from other content.
	Namespace string
	// IncludeQuery includes query parameters in the cache key
	IncludeQuery bool
	// IncludeHeaders includes specified headers in the cache key
	IncludeHeaders []string
}

// DefaultKeyGenerator returns a key generator scoped to namespace
func DefaultKeyGenerator(namespace string) *KeyGenerator {
	return &KeyGenerator{
		Namespace:      namespace,
		IncludeQuery:   true,
		IncludeHeaders: []string{"Accept"},
	}
}

// GenerateKey generates a cache key for the given request. Query parameter
// order does not affect the key.
func (kg *KeyGenerator) GenerateKey(r *http.Request) string {
	parts := []string{r.Method, r.URL.Path}

	if kg.IncludeQuery && r.URL.RawQuery != "" {
		query := r.URL.Query()
		var queryParts []string
		for key, values := range query {
			for _, value := range values {
				queryParts = append(queryParts, key+"="+value)
			}
		}
		sort.Strings(queryParts)
		parts = append(parts, strings.Join(queryParts, "&"))
	}

	for _, header := range kg.IncludeHeaders {
		if value := r.Header.Get(header); value != "" {
			parts = append(parts, header+"="+value)
		}
	}

	hash := sha256.Sum256([]byte(strings.Join(parts, "\n")))
	key := "http:" + hex.EncodeToString(hash[:16])
	if kg.Namespace != "" {
		key = kg.Namespace + ":" + key
	}
	return key
}
