package commands

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/patternbook/patternbook/internal/content"
)

func TestListTable(t *testing.T) {
	out, _, err := run(t, "--content", sampleContent(t), "list")
	require.NoError(t, err)

	assert.Contains(t, out, "SLUG")
	assert.Contains(t, out, "Factory Method")
	assert.Contains(t, out, "Uncategorized")
	assert.Contains(t, out, "3 pattern(s)")
	assert.NotContains(t, out, "orphan")
}

func TestListStructured(t *testing.T) {
	root := sampleContent(t)

	out, _, err := run(t, "--content", root, "list", "-o", "json")
	require.NoError(t, err)
	var fromJSON []content.Metadata
	require.NoError(t, json.Unmarshal([]byte(out), &fromJSON))
	require.Len(t, fromJSON, 3)
	assert.Equal(t, []string{"adapter", "factory_method", "observer"},
		[]string{fromJSON[0].Slug, fromJSON[1].Slug, fromJSON[2].Slug})
	assert.Equal(t, "No description available", fromJSON[0].Description)

	out, _, err = run(t, "--content", root, "list", "-o", "yaml", "--category", "behavioral")
	require.NoError(t, err)
	var fromYAML []content.Metadata
	require.NoError(t, yaml.Unmarshal([]byte(out), &fromYAML))
	require.Len(t, fromYAML, 1)
	assert.Equal(t, "Observer", fromYAML[0].Title)
	assert.Equal(t, "Easy", fromYAML[0].Difficulty)
}

func TestListUnknownCategory(t *testing.T) {
	out, _, err := run(t, "--content", sampleContent(t), "list", "--category", "Behavioural")
	require.NoError(t, err)
	assert.Contains(t, out, "No patterns in category 'Behavioural'")
	assert.Contains(t, out, "Did you mean: Behavioral?")
}

func TestListRejectsFormat(t *testing.T) {
	_, _, err := run(t, "--content", sampleContent(t), "list", "-o", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported output format")
}

func TestShow(t *testing.T) {
	root := sampleContent(t)

	tests := []struct {
		name     string
		args     []string
		contains []string
	}{
		{
			name:     "index by default",
			args:     []string{"show", "observer"},
			contains: []string{"Observer\n", "Category:", "Behavioral", "index, solution, standard, optimized", "Subjects notify observers."},
		},
		{
			name:     "named variant",
			args:     []string{"show", "observer", "solution"},
			contains: []string{"Observer - Solution", "Keep a list of observers."},
		},
		{
			name:     "fallback to index",
			args:     []string{"show", "factory_method", "optimized"},
			contains: []string{"Factory Method - Optimized Implementation", "not written yet, showing index", "Defer instantiation"},
		},
		{
			name:     "rendered",
			args:     []string{"show", "adapter", "--render"},
			contains: []string{"Convert one interface into another."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := run(t, append([]string{"--content", root}, tt.args...)...)
			require.NoError(t, err)
			for _, want := range tt.contains {
				assert.Contains(t, out, want)
			}
		})
	}
}

func TestShowRawAndJSON(t *testing.T) {
	root := sampleContent(t)

	out, _, err := run(t, "--content", root, "show", "observer", "standard", "--raw")
	require.NoError(t, err)
	assert.Equal(t, "Standard implementation.\n", out)

	out, _, err = run(t, "--content", root, "show", "observer", "solution", "-o", "json")
	require.NoError(t, err)
	var p content.Pattern
	require.NoError(t, json.Unmarshal([]byte(out), &p))
	assert.Equal(t, "Observer - Solution", p.Title)
	assert.Equal(t, content.Solution, p.Variant)
	assert.Equal(t, content.Solution, p.Resolved)
}

func TestShowNotFound(t *testing.T) {
	_, stderr, err := run(t, "--content", sampleContent(t), "show", "obsrver")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `pattern "obsrver" not found`)
	assert.Contains(t, stderr, "Did you mean: observer?")
}

func TestShowUnknownVariant(t *testing.T) {
	_, stderr, err := run(t, "--content", sampleContent(t), "show", "observer", "soluton")
	require.Error(t, err)
	assert.True(t, errors.Is(err, content.ErrUnknownVariant))
	assert.Contains(t, stderr, "Did you mean: solution?")
}

func TestSearch(t *testing.T) {
	root := sampleContent(t)

	out, _, err := run(t, "--content", root, "search", "factroy", "method")
	require.NoError(t, err)
	assert.Contains(t, out, "factory_method")

	out, _, err = run(t, "--content", root, "search", "observer", "-o", "json")
	require.NoError(t, err)
	var body struct {
		Query   string             `json:"query"`
		Count   int                `json:"count"`
		Results []content.Metadata `json:"results"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &body))
	assert.Equal(t, "observer", body.Query)
	require.NotZero(t, body.Count)
	assert.Equal(t, "observer", body.Results[0].Slug)

	out, _, err = run(t, "--content", root, "search", "xyzzyplugh")
	require.NoError(t, err)
	assert.Contains(t, out, "No patterns match 'xyzzyplugh'")
}

func TestCheck(t *testing.T) {
	root := sampleContent(t)

	out, _, err := run(t, "--content", root, "check")
	require.NoError(t, err)
	assert.Contains(t, out, "3 pattern(s) indexed")
	assert.Contains(t, out, "Pattern 'orphan' has no index document.")
	assert.Contains(t, out, "MISSING VARIANTS")

	_, _, err = run(t, "--content", root, "check", "--strict")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 pattern(s) without an index document")
}

func TestCheckClean(t *testing.T) {
	root := writeContent(t, map[string]string{
		"observer/index.md":     "---\ntitle: Observer\ncategory: Behavioral\n---\nBody.",
		"observer/solution.md":  "s",
		"observer/standard.md":  "s",
		"observer/optimized.md": "o",
	})

	out, _, err := run(t, "--content", root, "check", "--strict")
	require.NoError(t, err)
	assert.Contains(t, out, "Every pattern is complete")
}

func TestCheckIndex(t *testing.T) {
	ix := content.Build([]content.Document{
		{Slug: "observer", Variant: content.Index, Text: "---\ntitle: Observer\ncategory: Behavioral\n---\nBody."},
		{Slug: "observer", Variant: content.Standard, Text: "s"},
		{Slug: "adapter", Variant: content.Index, Text: "No preamble."},
		{Slug: "adapter", Variant: content.Solution, Text: "---\ntitle: Own Title\n---\nBody."},
		{Slug: "orphan", Variant: content.Optimized, Text: "o"},
	})

	report := checkIndex(ix)
	assert.Equal(t, 2, report.Patterns)
	assert.Equal(t, []string{"orphan"}, report.Orphans)
	assert.Equal(t, []content.Variant{content.Solution, content.Optimized}, report.MissingVariants["observer"])
	assert.Equal(t, []content.Variant{content.Standard, content.Optimized}, report.MissingVariants["adapter"])
	assert.Equal(t, []string{content.KeyTitle, content.KeyCategory}, report.MissingFields["adapter"])
	assert.NotContains(t, report.MissingFields, "observer")
	assert.False(t, report.Clean())
}
