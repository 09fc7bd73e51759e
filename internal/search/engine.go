// Package search provides a small approximate-match index over text documents.
//
// Queries are compared against every run of consecutive words of each field
// with the same word count as the query, using normalized Levenshtein
// similarity. Scores follow the usual fuzzy-search convention: 0 is a perfect
// match and 1 matches nothing.
package search

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agext/levenshtein"
)

// DefaultThreshold is the highest score a document may have and still match
const DefaultThreshold = 0.5

// Document is one searchable item
type Document struct {
	ID     string
	Fields map[string]string
}

// Options configures an Engine
type Options struct {
	// Threshold is the maximum score for a match, in [0, 1]. Zero selects DefaultThreshold.
	Threshold float64
	// Weights scales each field's similarity. Fields without a weight use 1.
	Weights map[string]float64
}

// Result is a matched document and its score
type Result struct {
	ID    string
	Score float64
	// Field is the field that produced the best score.
	Field string
}

// Engine is an immutable search index. It is safe for concurrent use.
type Engine struct {
	docs      []indexedDocument
	threshold float64
}

type indexedDocument struct {
	id     string
	fields []indexedField
}

type indexedField struct {
	name   string
	weight float64
	words  []string
	// unique holds each distinct word once, for single-word queries.
	unique []string
}

// New builds an engine over docs
func New(docs []Document, opts Options) *Engine {
	threshold := opts.Threshold
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultThreshold
	}

	e := &Engine{
		docs:      make([]indexedDocument, 0, len(docs)),
		threshold: threshold,
	}

	for _, d := range docs {
		names := make([]string, 0, len(d.Fields))
		for name := range d.Fields {
			names = append(names, name)
		}
		sort.Strings(names)

		doc := indexedDocument{id: d.ID}
		for _, name := range names {
			words := tokenize(d.Fields[name])
			if len(words) == 0 {
				continue
			}
			weight := 1.0
			if w, ok := opts.Weights[name]; ok && w > 0 {
				weight = w
			}
			doc.fields = append(doc.fields, indexedField{
				name:   name,
				weight: weight,
				words:  words,
				unique: uniqueWords(words),
			})
		}
		e.docs = append(e.docs, doc)
	}
	return e
}

// Len returns the number of indexed documents
func (e *Engine) Len() int {
	return len(e.docs)
}

// Threshold returns the match threshold in use
func (e *Engine) Threshold() float64 {
	return e.threshold
}

// Search returns the documents matching query, best first. Ties are ordered
// by ID. A query without any word characters matches nothing.
func (e *Engine) Search(query string) []Result {
	words := tokenize(query)
	if len(words) == 0 {
		return nil
	}
	needle := strings.Join(words, " ")

	var results []Result
	for _, doc := range e.docs {
		best, field := 1.0, ""
		for _, f := range doc.fields {
			score := f.score(needle, len(words), best)
			if score < best {
				best, field = score, f.name
			}
			if best == 0 {
				break
			}
		}
		if best <= e.threshold {
			results = append(results, Result{ID: doc.id, Score: best, Field: field})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score < results[j].Score
		}
		return results[i].ID < results[j].ID
	})
	return results
}

// score returns the field's best score for needle, a query of n words.
// Candidates that cannot beat limit are skipped.
func (f indexedField) score(needle string, n int, limit float64) float64 {
	best := limit
	try := func(candidate string) bool {
		if strings.Contains(candidate, needle) {
			best = min(best, 1-f.weight)
			return best == 0
		}
		if bound := 1 - similarityBound(needle, candidate)*f.weight; bound >= best {
			return false
		}
		s := 1 - levenshtein.Similarity(needle, candidate, nil)*f.weight
		if s < best {
			best = s
		}
		return false
	}

	if n == 1 {
		for _, w := range f.unique {
			if try(w) {
				break
			}
		}
		return best
	}

	if len(f.words) <= n {
		try(strings.Join(f.words, " "))
		return best
	}
	for i := 0; i+n <= len(f.words); i++ {
		if try(strings.Join(f.words[i:i+n], " ")) {
			break
		}
	}
	return best
}

// similarityBound is an upper bound on the similarity of a and b: their edit
// distance is at least the difference of their lengths.
func similarityBound(a, b string) float64 {
	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	longest := max(la, lb)
	if longest == 0 {
		return 1
	}
	diff := la - lb
	if diff < 0 {
		diff = -diff
	}
	return 1 - float64(diff)/float64(longest)
}

// tokenize lower-cases s and splits it into words of letters and digits
func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func uniqueWords(words []string) []string {
	seen := make(map[string]struct{}, len(words))
	out := make([]string, 0, len(words))
	for _, w := range words {
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}
