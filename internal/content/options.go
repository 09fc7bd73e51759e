package content

import (
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/patternbook/patternbook/internal/search"
)

// DefaultExtensions are the document file extensions recognized by Load
var DefaultExtensions = []string{".md", ".mdx", ".markdown"}

// Search field weights: title matches count most, body matches least.
var defaultFieldWeights = map[string]float64{
	fieldTitle: 1.0,
	fieldSlug:  0.8,
	fieldBody:  0.6,
}

const (
	fieldSlug  = "slug"
	fieldTitle = "title"
	fieldBody  = "body"
)

type options struct {
	logger     *zap.Logger
	extensions []string
	locale     language.Tag
	threshold  float64
}

// Option configures index construction
type Option func(*options)

func defaultOptions() *options {
	return &options{
		logger:     zap.NewNop(),
		extensions: DefaultExtensions,
		locale:     language.English,
		threshold:  search.DefaultThreshold,
	}
}

// WithLogger sets the logger used while building the index
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithExtensions sets the file extensions Load accepts. Extensions are
// matched case-insensitively; the leading dot is optional.
func WithExtensions(exts ...string) Option {
	return func(o *options) {
		if len(exts) == 0 {
			return
		}
		normalized := make([]string, 0, len(exts))
		for _, ext := range exts {
			ext = strings.ToLower(strings.TrimSpace(ext))
			if ext == "" {
				continue
			}
			if !strings.HasPrefix(ext, ".") {
				ext = "." + ext
			}
			normalized = append(normalized, ext)
		}
		if len(normalized) > 0 {
			o.extensions = normalized
		}
	}
}

// WithLocale sets the collation locale used to order listings
func WithLocale(tag language.Tag) Option {
	return func(o *options) {
		o.locale = tag
	}
}

// WithSearchThreshold sets the fuzzy search threshold, in (0, 1]
func WithSearchThreshold(threshold float64) Option {
	return func(o *options) {
		if threshold > 0 && threshold <= 1 {
			o.threshold = threshold
		}
	}
}
