package cache

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateETag(t *testing.T) {
	a := GenerateETag([]byte("observer"))
	b := GenerateETag([]byte("observer"))
	c := GenerateETag([]byte("adapter"))

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 34)
	assert.Equal(t, byte('"'), a[0])
	assert.Equal(t, "W/"+a, WeakETag(a))
	assert.Equal(t, "W/"+a, WeakETag(WeakETag(a)))
}

func TestParseIfNoneMatch(t *testing.T) {
	tests := []struct {
		header string
		want   []string
	}{
		{"", nil},
		{"*", []string{"*"}},
		{`"abc"`, []string{`"abc"`}},
		{`"abc", W/"def"`, []string{`"abc"`, `W/"def"`}},
		{`"abc",garbage, "x`, []string{`"abc"`}},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseIfNoneMatch(tt.header))
		})
	}
}

func TestMatchesETag(t *testing.T) {
	assert.True(t, MatchesETag(`"abc"`, []string{`"abc"`}))
	assert.True(t, MatchesETag(`"abc"`, []string{`W/"abc"`}))
	assert.True(t, MatchesETag(`W/"abc"`, []string{`"abc"`}))
	assert.True(t, MatchesETag(`"abc"`, []string{"*"}))
	assert.False(t, MatchesETag(`"abc"`, []string{`"abd"`}))
	assert.False(t, MatchesETag(`"abc"`, nil))
}

func TestNotModified(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.False(t, NotModified(r, `"abc"`))

	r.Header.Set("If-None-Match", `"xyz", "abc"`)
	assert.True(t, NotModified(r, `"abc"`))
	assert.False(t, NotModified(r, ""))
}

func TestWriteNotModified(t *testing.T) {
	rec := httptest.NewRecorder()
	rec.Header().Set("Content-Type", "application/json")

	WriteNotModified(rec, `"abc"`)

	assert.Equal(t, http.StatusNotModified, rec.Code)
	assert.Equal(t, `"abc"`, rec.Header().Get("ETag"))
	assert.Empty(t, rec.Header().Get("Content-Type"))
	assert.Zero(t, rec.Body.Len())
}
