package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePreamble(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		fields map[string]string
		body   string
	}{
		{
			name:   "basic block",
			input:  "---\ntitle: Factory Method\ncategory: Creational\n---\n\n# Problem\n\nText.\n",
			fields: map[string]string{"title": "Factory Method", "category": "Creational"},
			body:   "# Problem\n\nText.",
		},
		{
			name:   "no block",
			input:  "  # Just a body\n\nwith text  \n",
			fields: map[string]string{},
			body:   "# Just a body\n\nwith text",
		},
		{
			name:   "split on first colon only",
			input:  "---\ndescription: Ratio 1:2 and time 10:30\n---\nbody",
			fields: map[string]string{"description": "Ratio 1:2 and time 10:30"},
			body:   "body",
		},
		{
			name:   "quotes stripped once",
			input:  "---\na: \"double\"\nb: 'single'\nc: \"'nested'\"\nd: \"mismatched'\n---\n",
			fields: map[string]string{"a": "double", "b": "single", "c": "'nested'", "d": "\"mismatched'"},
			body:   "",
		},
		{
			name:   "lines without colon and empty keys ignored",
			input:  "---\njust text\n: no key\ntitle:   Spaced   \n---\nbody",
			fields: map[string]string{"title": "Spaced"},
			body:   "body",
		},
		{
			name:   "empty value kept",
			input:  "---\ntitle:\n---\nbody",
			fields: map[string]string{"title": ""},
			body:   "body",
		},
		{
			name:   "later delimiters open another block",
			input:  "---\ntitle: T\n---\nabove\n---\ncategory: Creational\n---\nbelow",
			fields: map[string]string{"title": "T", "category": "Creational"},
			body:   "above\nbelow",
		},
		{
			name:   "rule after the block swallows the rest",
			input:  "---\ntitle: T\n---\nabove\n---\nbelow",
			fields: map[string]string{"title": "T"},
			body:   "above",
		},
		{
			name:   "unclosed block keeps its fields",
			input:  "---\ntitle: Unclosed\ncategory: Structural",
			fields: map[string]string{"title": "Unclosed", "category": "Structural"},
			body:   "",
		},
		{
			name:   "block below the body",
			input:  "intro\n---\ndifficulty: Hard\n---\noutro",
			fields: map[string]string{"difficulty": "Hard"},
			body:   "intro\noutro",
		},
		{
			name:   "crlf line endings",
			input:  "---\r\ntitle: Windows\r\n---\r\nline one\r\nline two\r\n",
			fields: map[string]string{"title": "Windows"},
			body:   "line one\nline two",
		},
		{
			name:   "delimiter with surrounding spaces",
			input:  "  ---  \nkey: value\n---\nbody",
			fields: map[string]string{"key": "value"},
			body:   "body",
		},
		{
			name:   "duplicate key last wins",
			input:  "---\ntitle: first\ntitle: second\n---\n",
			fields: map[string]string{"title": "second"},
			body:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ParsePreamble(tt.input)
			assert.Equal(t, tt.fields, p.Fields)
			assert.Equal(t, tt.body, p.Body)
		})
	}
}

func TestPreamble_Lookup(t *testing.T) {
	p := ParsePreamble("---\ntitle: T\nempty:\n---\n")

	v, ok := p.Lookup("title")
	assert.True(t, ok)
	assert.Equal(t, "T", v)

	_, ok = p.Lookup("empty")
	assert.False(t, ok, "empty values count as missing")

	_, ok = p.Lookup("absent")
	assert.False(t, ok)
	assert.Equal(t, "", p.Get("absent"))
}

func TestPreamble_FormatRoundTrip(t *testing.T) {
	inputs := []string{
		"---\ntitle: Factory Method\ncategory: Creational\ndifficulty: Hard\n---\n\n# Body\n\ntext\n",
		"---\ndescription: \"quoted value\"\nratio: 1:2\n---\nbody with --- inside\n---\nmore",
		"---\nleading: \"  padded  \"\nliteral: \"\"\"\"\n---\n",
		"---\n---\nonly body",
		"no preamble at all",
	}

	for _, input := range inputs {
		first := ParsePreamble(input)
		second := ParsePreamble(first.Format())

		assert.Equal(t, first.Fields, second.Fields, "fields for %q", input)
		assert.Equal(t, first.Body, second.Body, "body for %q", input)
	}
}

func TestPreamble_FormatQuotesWhenNeeded(t *testing.T) {
	p := Preamble{
		Fields: map[string]string{
			"plain":  "value",
			"padded": " value ",
			"quoted": "'value'",
		},
		Body: "text",
	}

	out := p.Format()
	require.Contains(t, out, "plain: value\n")
	assert.Contains(t, out, "padded: \" value \"\n")
	assert.Contains(t, out, "quoted: \"'value'\"\n")
	assert.Contains(t, out, "\ntext\n")
}
