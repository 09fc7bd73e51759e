package content

// Preamble keys read from pattern documents
const (
	KeyTitle           = "title"
	KeyDescription     = "description"
	KeyLongDescription = "descriptioning"
	KeyCategory        = "category"
	KeyDifficulty      = "difficulty"
)

// Values used when a document does not provide a field
const (
	DefaultDescription     = "No description available"
	DefaultLongDescription = "No descriptioning available"
	DefaultCategory        = "Uncategorized"
	DefaultDifficulty      = "Medium"
)

// Metadata describes one pattern in listings
type Metadata struct {
	Slug            string `json:"slug" yaml:"slug"`
	Title           string `json:"title" yaml:"title"`
	Description     string `json:"description" yaml:"description"`
	LongDescription string `json:"long_description" yaml:"long_description"`
	Category        string `json:"category" yaml:"category"`
	Difficulty      string `json:"difficulty" yaml:"difficulty"`
}

// Pattern is the result of resolving one variant of a pattern
type Pattern struct {
	Metadata `yaml:",inline"`
	// Variant is the variant that was asked for.
	Variant Variant `json:"variant" yaml:"variant"`
	// Resolved is the variant whose body was used. It differs from Variant
	// when the requested document does not exist and the index body was used.
	Resolved Variant `json:"resolved" yaml:"resolved"`
	// Content is the document body without its preamble.
	Content string `json:"content" yaml:"content"`
}

// IsFallback reports whether the index body stood in for a missing variant
func (p *Pattern) IsFallback() bool {
	return p.Variant != p.Resolved
}

// metadataFromPreamble derives listing metadata for slug, applying defaults
func metadataFromPreamble(slug string, p Preamble) Metadata {
	return Metadata{
		Slug:            slug,
		Title:           firstNonEmpty(p.Get(KeyTitle), FormatSlug(slug)),
		Description:     firstNonEmpty(p.Get(KeyDescription), DefaultDescription),
		LongDescription: firstNonEmpty(p.Get(KeyLongDescription), DefaultLongDescription),
		Category:        firstNonEmpty(p.Get(KeyCategory), DefaultCategory),
		Difficulty:      firstNonEmpty(p.Get(KeyDifficulty), DefaultDifficulty),
	}
}

// overlay returns base with every field the preamble sets replaced by the preamble's value
func overlay(base Metadata, p Preamble) Metadata {
	return Metadata{
		Slug:            base.Slug,
		Title:           firstNonEmpty(p.Get(KeyTitle), base.Title, FormatSlug(base.Slug)),
		Description:     firstNonEmpty(p.Get(KeyDescription), base.Description, DefaultDescription),
		LongDescription: firstNonEmpty(p.Get(KeyLongDescription), base.LongDescription, DefaultLongDescription),
		Category:        firstNonEmpty(p.Get(KeyCategory), base.Category, DefaultCategory),
		Difficulty:      firstNonEmpty(p.Get(KeyDifficulty), base.Difficulty, DefaultDifficulty),
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
