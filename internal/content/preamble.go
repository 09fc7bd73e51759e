package content

import (
	"sort"
	"strings"
)

// preambleDelimiter is the line that opens and closes a preamble block
const preambleDelimiter = "---"

// Preamble is the result of splitting a document into its key-value header
// and the remaining body text.
type Preamble struct {
	// Fields holds the header values keyed by their trimmed key. Never nil.
	Fields map[string]string
	// Body is the document text with the header removed, trimmed of surrounding whitespace.
	Body string
}

// Get returns the value for key, or "" when it is absent
func (p Preamble) Get(key string) string {
	return p.Fields[key]
}

// Lookup returns the value for key and whether a non-empty value is present
func (p Preamble) Lookup(key string) (string, bool) {
	v, ok := p.Fields[key]
	return v, ok && v != ""
}

// ParsePreamble splits text into header lines and body lines. Every line
// whose trimmed text is "---" toggles between the two, so a document may hold
// more than one block and a block left open runs to the end of the text.
// Delimiter lines themselves are dropped.
//
// Header lines are split on their first ':' and lines without one are
// skipped. A value wrapped in a matching pair of single or double quotes loses
// that one pair. Text without any delimiter is returned entirely as body.
func ParsePreamble(text string) Preamble {
	lines := strings.Split(text, "\n")

	var (
		header []string
		body   []string
		inside bool
	)
	for _, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == preambleDelimiter {
			inside = !inside
			continue
		}
		if inside {
			header = append(header, line)
		} else {
			body = append(body, line)
		}
	}

	fields := make(map[string]string, len(header))
	for _, line := range header {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		fields[key] = unquote(strings.TrimSpace(value))
	}

	return Preamble{
		Fields: fields,
		Body:   strings.TrimSpace(strings.Join(body, "\n")),
	}
}

// Format serializes the preamble back into document text. Keys are written in
// sorted order; values that would not survive ParsePreamble verbatim are
// wrapped in double quotes.
func (p Preamble) Format() string {
	var b strings.Builder

	b.WriteString(preambleDelimiter)
	b.WriteByte('\n')

	keys := make([]string, 0, len(p.Fields))
	for k := range p.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		b.WriteString(k)
		b.WriteByte(':')
		if v := p.Fields[k]; v != "" {
			b.WriteByte(' ')
			b.WriteString(quoteIfNeeded(v))
		}
		b.WriteByte('\n')
	}

	b.WriteString(preambleDelimiter)
	b.WriteByte('\n')

	if p.Body != "" {
		b.WriteByte('\n')
		b.WriteString(p.Body)
		b.WriteByte('\n')
	}
	return b.String()
}

// unquote strips one matching pair of surrounding quote characters
func unquote(s string) string {
	if len(s) < 2 {
		return s
	}
	first, last := s[0], s[len(s)-1]
	if (first == '"' || first == '\'') && first == last {
		return s[1 : len(s)-1]
	}
	return s
}

func quoteIfNeeded(s string) string {
	if strings.TrimSpace(s) != s || unquote(s) != s {
		return `"` + s + `"`
	}
	return s
}
