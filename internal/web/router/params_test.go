package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueryParams(t *testing.T) {
	p := NewParamExtractor(httptest.NewRequest(http.MethodGet, "/api/search?q=+observer+&limit=500&bad=x&pretty&flag=false", nil))

	assert.Equal(t, "observer", p.QueryParam("q"))
	assert.Equal(t, "", p.QueryParam("missing"))

	assert.Equal(t, 50, p.QueryParamInt("limit", 20, 1, 50))
	assert.Equal(t, 20, p.QueryParamInt("bad", 20, 1, 50))
	assert.Equal(t, 20, p.QueryParamInt("missing", 20, 1, 50))

	assert.True(t, p.QueryParamBool("pretty", false))
	assert.False(t, p.QueryParamBool("flag", true))
	assert.True(t, p.QueryParamBool("missing", true))
	assert.False(t, p.QueryParamBool("bad", false))
}

func TestQueryParamIntLowerBound(t *testing.T) {
	p := NewParamExtractor(httptest.NewRequest(http.MethodGet, "/?limit=-3", nil))
	assert.Equal(t, 1, p.QueryParamInt("limit", 20, 1, 50))
}
