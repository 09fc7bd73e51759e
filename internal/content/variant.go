package content

import (
	"errors"
	"fmt"
	"strings"
)

// Variant identifies one of the fixed documents a pattern can carry
type Variant int

const (
	// Index is the problem description and the source of a pattern's metadata
	Index Variant = iota
	// Solution is the solution narrative
	Solution
	// Standard is the standard implementation guideline
	Standard
	// Optimized is the optimized implementation
	Optimized

	numVariants = int(Optimized) + 1
)

// ErrUnknownVariant is returned by ParseVariant for names outside the fixed set
var ErrUnknownVariant = errors.New("unknown variant")

var variantNames = [numVariants]string{
	Index:     "index",
	Solution:  "solution",
	Standard:  "standard",
	Optimized: "optimized",
}

var titleSuffixes = [numVariants]string{
	Index:     "",
	Solution:  " - Solution",
	Standard:  " - Implementation Guideline",
	Optimized: " - Optimized Implementation",
}

// AllVariants returns every variant in display order
func AllVariants() []Variant {
	return []Variant{Index, Solution, Standard, Optimized}
}

// String returns the variant's file and URL name
func (v Variant) String() string {
	if !v.Valid() {
		return fmt.Sprintf("variant(%d)", int(v))
	}
	return variantNames[v]
}

// Valid reports whether v is one of the known variants
func (v Variant) Valid() bool {
	return v >= Index && int(v) < numVariants
}

// TitleSuffix returns the text appended to a pattern title when this variant is requested
func (v Variant) TitleSuffix() string {
	if !v.Valid() {
		return ""
	}
	return titleSuffixes[v]
}

// IsImplementation reports whether v is one of the implementation variants
// that HasVariant answers for.
func (v Variant) IsImplementation() bool {
	return v == Standard || v == Optimized
}

// MarshalText implements encoding.TextMarshaler
func (v Variant) MarshalText() ([]byte, error) {
	if !v.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownVariant, int(v))
	}
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (v *Variant) UnmarshalText(text []byte) error {
	parsed, err := ParseVariant(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// ParseVariant converts a variant name to a Variant. An empty name selects Index.
func ParseVariant(name string) (Variant, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return Index, nil
	}
	for i, n := range variantNames {
		if n == name {
			return Variant(i), nil
		}
	}
	return Index, fmt.Errorf("%w: %q", ErrUnknownVariant, name)
}
