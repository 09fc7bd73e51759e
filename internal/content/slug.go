package content

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// FormatSlug turns a slug into a human-readable title: the slug is split on
// underscores, each word gets an upper-case first letter, and the words are
// joined with spaces. "factory_method" becomes "Factory Method".
func FormatSlug(slug string) string {
	words := strings.Split(slug, "_")
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		if r == utf8.RuneError {
			continue
		}
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

// validSlug reports whether a directory name can act as a slug
func validSlug(slug string) bool {
	if slug == "" || slug == "." || slug == ".." {
		return false
	}
	return !strings.HasPrefix(slug, ".") && !strings.ContainsAny(slug, `/\`)
}
