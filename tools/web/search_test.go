package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crewkit/crewkit/tools"
	"github.com/crewkit/crewkit/types"
)

// fakeProvider returns canned results and records the last request.
type fakeProvider struct {
	lastQuery string
	lastOpts  SearchOptions
	response  *SearchResponse
	err       error
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) Search(_ context.Context, query string, opts SearchOptions) (*SearchResponse, error) {
	p.lastQuery = query
	p.lastOpts = opts
	if p.err != nil {
		return nil, p.err
	}
	return p.response, nil
}

func newSearchTool(t *testing.T, provider SearchProvider) *tools.Instrumented {
	t.Helper()
	tool, err := NewSearchTool(SearchToolConfig{Provider: provider}, nil)
	require.NoError(t, err)
	return tool
}

func TestSearchTool_WebResults(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	provider := &fakeProvider{response: &SearchResponse{
		Results: []SearchResult{
			{Title: "Go", URL: "https://go.dev", Snippet: "The Go programming language"},
			{Title: "", URL: "", Snippet: ""},
		},
		RelatedSearches: []string{"golang tutorial"},
	}}
	tool := newSearchTool(t, provider)

	out, err := tool.Invoke(ctx, types.Args{"query": "golang"})
	require.NoError(t, err)

	assert.Equal(t, "golang", provider.lastQuery)
	assert.Equal(t, 10, provider.lastOpts.NumResults, "default applied")
	assert.Equal(t, SearchTypeWeb, provider.lastOpts.SearchType)
	assert.Equal(t, "us", provider.lastOpts.Country)

	assert.Contains(t, out, `Search Results for: "golang" (Type: web)`)
	assert.Contains(t, out, "1. Go")
	assert.Contains(t, out, "URL: https://go.dev")
	assert.Contains(t, out, "Description: The Go programming language")
	assert.Contains(t, out, "2. No title")
	assert.Contains(t, out, "No description available")
	assert.Contains(t, out, "Total results returned: 2")
	assert.Contains(t, out, "- golang tutorial")
}

func TestSearchTool_NewsFormatting(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	provider := &fakeProvider{response: &SearchResponse{
		Results: []SearchResult{{Title: "Launch", URL: "https://example.com", Source: "Wire", Date: "today"}},
	}}
	tool := newSearchTool(t, provider)

	out, err := tool.Invoke(ctx, types.Args{"query": "news", "search_type": "news"})
	require.NoError(t, err)
	assert.Contains(t, out, "Source: Wire")
	assert.Contains(t, out, "Date: today")
}

func TestSearchTool_InvalidSearchType(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	tool := newSearchTool(t, &fakeProvider{response: &SearchResponse{}})

	_, err := tool.Invoke(ctx, types.Args{"query": "x", "search_type": "videos"})
	require.Error(t, err)
	assert.True(t, types.IsValidation(err))
	assert.Contains(t, err.Error(), "search_type")
}

func TestSearchTool_QueryTooLong(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	tool := newSearchTool(t, &fakeProvider{response: &SearchResponse{}})

	_, err := tool.Invoke(ctx, types.Args{"query": strings.Repeat("q", 501)})
	require.Error(t, err)
	assert.True(t, types.IsValidation(err))
}

func TestSearchTool_ProviderErrorWrapped(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	provider := &fakeProvider{err: context.DeadlineExceeded}
	tool := newSearchTool(t, provider)

	_, err := tool.Invoke(ctx, types.Args{"query": "golang"})
	require.Error(t, err)
	assert.True(t, types.IsExecution(err))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, err.Error(), "fake")
}

func TestSearchTool_RequiresProvider(t *testing.T) {
	t.Parallel()

	_, err := NewSearchTool(SearchToolConfig{}, nil)
	assert.Error(t, err)
}

func TestSerperProvider_RequestShape(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	var gotKey string
	var gotPayload map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-API-KEY")
		require.Equal(t, "/search", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"organic": []map[string]any{
				{"title": "Go", "link": "https://go.dev", "snippet": "docs"},
			},
			"relatedSearches": []map[string]any{{"query": "golang"}},
		})
	}))
	defer server.Close()

	provider, err := NewSerperProvider(SerperConfig{APIKey: "secret", BaseURL: server.URL}, nil)
	require.NoError(t, err)

	resp, err := provider.Search(ctx, "golang", SearchOptions{NumResults: 5, SearchType: SearchTypeWeb, Country: "de"})
	require.NoError(t, err)

	assert.Equal(t, "secret", gotKey)
	assert.Equal(t, "golang", gotPayload["q"])
	assert.Equal(t, float64(5), gotPayload["num"])
	assert.Equal(t, "de", gotPayload["gl"])
	assert.NotContains(t, gotPayload, "type", "web searches omit the type field")

	require.Len(t, resp.Results, 1)
	assert.Equal(t, "Go", resp.Results[0].Title)
	assert.Equal(t, "https://go.dev", resp.Results[0].URL)
	assert.Equal(t, []string{"golang"}, resp.RelatedSearches)
}

func TestSerperProvider_ImageSearchUsesImageURL(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "images", payload["type"])
		_ = json.NewEncoder(w).Encode(map[string]any{
			"images": []map[string]any{
				{"title": "Gopher", "link": "https://page", "imageUrl": "https://img/gopher.png"},
			},
		})
	}))
	defer server.Close()

	provider, err := NewSerperProvider(SerperConfig{APIKey: "secret", BaseURL: server.URL}, nil)
	require.NoError(t, err)

	resp, err := provider.Search(ctx, "gopher", SearchOptions{NumResults: 3, SearchType: SearchTypeImages})
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "https://img/gopher.png", resp.Results[0].URL)
}

func TestSerperProvider_NonOKStatus(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	provider, err := NewSerperProvider(SerperConfig{APIKey: "bad", BaseURL: server.URL}, nil)
	require.NoError(t, err)

	_, err = provider.Search(ctx, "golang", SearchOptions{NumResults: 5})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestSerperProvider_RequiresAPIKey(t *testing.T) {
	t.Parallel()

	_, err := NewSerperProvider(SerperConfig{}, nil)
	assert.Error(t, err)
}
