package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
)

// GenerateETag returns a strong validator derived from content
func GenerateETag(content []byte) string {
	hash := sha256.Sum256(content)
	return `"` + hex.EncodeToString(hash[:16]) + `"`
}

// WeakETag marks etag as weak.
func WeakETag(etag string) string {
	if strings.HasPrefix(etag, "W/") {
		return etag
	}
	return "W/" + etag
}

// ParseIfNoneMatch splits an If-None-Match header into its entity tags.
// Malformed members are skipped.
func ParseIfNoneMatch(header string) []string {
	header = strings.TrimSpace(header)
	if header == "" {
		return nil
	}
	if header == "*" {
		return []string{"*"}
	}

	var etags []string
	for _, part := range strings.Split(header, ",") {
		part = strings.TrimSpace(part)
		tag := strings.TrimPrefix(part, "W/")
		if len(tag) < 2 || tag[0] != '"' || tag[len(tag)-1] != '"' {
			continue
		}
		etags = append(etags, part)
	}
	return etags
}

// MatchesETag reports whether etag matches any of etags under the weak
// comparison If-None-Match uses.
func MatchesETag(etag string, etags []string) bool {
	opaque := strings.TrimPrefix(etag, "W/")
	for _, e := range etags {
		if e == "*" || strings.TrimPrefix(e, "W/") == opaque {
			return true
		}
	}
	return false
}

// NotModified reports whether r's If-None-Match already holds etag.
func NotModified(r *http.Request, etag string) bool {
	if etag == "" {
		return false
	}
	return MatchesETag(etag, ParseIfNoneMatch(r.Header.Get("If-None-Match")))
}

// WriteNotModified sends a 304 carrying only the validator headers.
func WriteNotModified(w http.ResponseWriter, etag string) {
	h := w.Header()
	h.Del("Content-Type")
	h.Del("Content-Length")
	h.Set("ETag", etag)
	w.WriteHeader(http.StatusNotModified)
}
