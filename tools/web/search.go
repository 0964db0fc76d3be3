// Package web provides network-facing tools: web search over a pluggable
// provider and page scraping with multiple extraction modes.
package web

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/crewkit/crewkit/tools"
	"github.com/crewkit/crewkit/types"
)

// SearchType selects the result category.
const (
	SearchTypeWeb    = "web"
	SearchTypeNews   = "news"
	SearchTypeImages = "images"
)

// SearchOptions configures a single search request.
type SearchOptions struct {
	NumResults int    `json:"num_results"`
	SearchType string `json:"search_type"`
	Country    string `json:"country"`
}

// SearchResult is one entry returned by a provider.
type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet,omitempty"`
	Source  string `json:"source,omitempty"`
	Date    string `json:"date,omitempty"`
}

// SearchResponse is the provider's full answer.
type SearchResponse struct {
	Results         []SearchResult `json:"results"`
	RelatedSearches []string       `json:"related_searches,omitempty"`
}

// SearchProvider is the interface for search backends. Implementations can
// wrap Serper, SerpAPI, Tavily or a self-hosted index.
type SearchProvider interface {
	Search(ctx context.Context, query string, opts SearchOptions) (*SearchResponse, error)
	Name() string
}

// SearchToolConfig configures the search tool.
type SearchToolConfig struct {
	Provider SearchProvider
	CacheTTL time.Duration `json:"cache_ttl"`
}

// DefaultSearchToolConfig returns sensible defaults; the provider must still
// be supplied.
func DefaultSearchToolConfig() SearchToolConfig {
	return SearchToolConfig{CacheTTL: 15 * time.Minute}
}

type searchTool struct {
	provider SearchProvider
}

// NewSearchTool creates an instrumented web search tool.
func NewSearchTool(config SearchToolConfig, logger *zap.Logger, opts ...tools.Option) (*tools.Instrumented, error) {
	if config.Provider == nil {
		return nil, fmt.Errorf("search provider is required")
	}
	if config.CacheTTL <= 0 {
		config.CacheTTL = DefaultSearchToolConfig().CacheTTL
	}
	opts = append([]tools.Option{tools.WithLogger(logger), tools.WithTTL(config.CacheTTL)}, opts...)
	return tools.NewInstrumented(&searchTool{provider: config.Provider}, opts...), nil
}

func (t *searchTool) Name() string { return "web_search" }

func (t *searchTool) Description() string {
	return "Performs web searches with structured result formatting. " +
		"Supports web, news and image searches and returns titles, URLs, " +
		"snippets and related queries. Use this for research and " +
		"information gathering."
}

func (t *searchTool) Schema() types.ParameterSchema {
	return types.NewSchema().
		Add("query", types.StringParam("Search query string", true).WithMaxLength(500)).
		Add("num_results", types.IntParam("Number of results to return", false).
			WithDefault(10).WithRange(1, 20)).
		Add("search_type", types.StringParam("Type of search", false).
			WithDefault(SearchTypeWeb).
			WithEnum(SearchTypeWeb, SearchTypeNews, SearchTypeImages)).
		Add("country", types.StringParam("Country code for localized results", false).
			WithDefault("us"))
}

func (t *searchTool) Cacheable() bool { return true }

func (t *searchTool) Execute(ctx context.Context, args types.Args) (string, error) {
	query := args["query"].(string)
	opts := SearchOptions{
		NumResults: args["num_results"].(int),
		SearchType: args["search_type"].(string),
		Country:    args["country"].(string),
	}

	resp, err := t.provider.Search(ctx, query, opts)
	if err != nil {
		return "", types.NewExecutionError(t.Name(),
			fmt.Sprintf("search via %s failed", t.provider.Name())).WithCause(err)
	}
	return formatSearchResults(query, opts.SearchType, resp), nil
}

func formatSearchResults(query, searchType string, resp *SearchResponse) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Search Results for: %q (Type: %s)\n", query, searchType)
	sb.WriteString(strings.Repeat("=", 60))
	sb.WriteByte('\n')

	for i, r := range resp.Results {
		fmt.Fprintf(&sb, "\n%d. %s\n", i+1, orDefault(r.Title, "No title"))
		switch searchType {
		case SearchTypeNews:
			fmt.Fprintf(&sb, "   Source: %s\n", orDefault(r.Source, "Unknown source"))
			fmt.Fprintf(&sb, "   Date: %s\n", orDefault(r.Date, "No date"))
			fmt.Fprintf(&sb, "   URL: %s\n", orDefault(r.URL, "No URL"))
		case SearchTypeImages:
			fmt.Fprintf(&sb, "   Image URL: %s\n", orDefault(r.URL, "No URL"))
			fmt.Fprintf(&sb, "   Source: %s\n", orDefault(r.Source, "Unknown source"))
		default:
			fmt.Fprintf(&sb, "   URL: %s\n", orDefault(r.URL, "No URL"))
			fmt.Fprintf(&sb, "   Description: %s\n", orDefault(r.Snippet, "No description available"))
		}
	}

	fmt.Fprintf(&sb, "\nTotal results returned: %d\n", len(resp.Results))

	if len(resp.RelatedSearches) > 0 {
		sb.WriteString("\nRelated searches:\n")
		for i, related := range resp.RelatedSearches {
			if i >= 5 {
				break
			}
			fmt.Fprintf(&sb, "  - %s\n", related)
		}
	}
	return sb.String()
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// SerperConfig configures the Serper search provider.
type SerperConfig struct {
	APIKey  string        `json:"api_key"`
	BaseURL string        `json:"base_url"`
	Timeout time.Duration `json:"timeout"`
}

// DefaultSerperConfig returns sensible defaults; the API key must still be
// supplied.
func DefaultSerperConfig() SerperConfig {
	return SerperConfig{
		BaseURL: "https://google.serper.dev",
		Timeout: 30 * time.Second,
	}
}

// SerperProvider implements SearchProvider against the Serper REST API.
type SerperProvider struct {
	config SerperConfig
	client *http.Client
	logger *zap.Logger
}

// NewSerperProvider creates a Serper-backed search provider.
func NewSerperProvider(config SerperConfig, logger *zap.Logger) (*SerperProvider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("serper api key is required")
	}
	if config.BaseURL == "" {
		config.BaseURL = DefaultSerperConfig().BaseURL
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultSerperConfig().Timeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SerperProvider{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
		logger: logger.With(zap.String("component", "serper_provider")),
	}, nil
}

// Name returns the provider name.
func (p *SerperProvider) Name() string { return "serper" }

type serperEntry struct {
	Title    string `json:"title"`
	Link     string `json:"link"`
	Snippet  string `json:"snippet"`
	Source   string `json:"source"`
	Date     string `json:"date"`
	ImageURL string `json:"imageUrl"`
}

type serperResponse struct {
	Organic         []serperEntry `json:"organic"`
	News            []serperEntry `json:"news"`
	Images          []serperEntry `json:"images"`
	RelatedSearches []struct {
		Query string `json:"query"`
	} `json:"relatedSearches"`
}

// Search queries the Serper API.
func (p *SerperProvider) Search(ctx context.Context, query string, opts SearchOptions) (*SearchResponse, error) {
	payload := map[string]any{
		"q":   query,
		"num": opts.NumResults,
		"gl":  opts.Country,
	}
	if opts.SearchType == SearchTypeNews || opts.SearchType == SearchTypeImages {
		payload["type"] = opts.SearchType
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal search payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.BaseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("X-API-KEY", p.config.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search API returned status %d", resp.StatusCode)
	}

	var parsed serperResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	var entries []serperEntry
	switch opts.SearchType {
	case SearchTypeNews:
		entries = parsed.News
	case SearchTypeImages:
		entries = parsed.Images
	default:
		entries = parsed.Organic
	}

	out := &SearchResponse{Results: make([]SearchResult, 0, len(entries))}
	for _, e := range entries {
		url := e.Link
		if opts.SearchType == SearchTypeImages && e.ImageURL != "" {
			url = e.ImageURL
		}
		out.Results = append(out.Results, SearchResult{
			Title:   e.Title,
			URL:     url,
			Snippet: e.Snippet,
			Source:  e.Source,
			Date:    e.Date,
		})
	}
	for _, r := range parsed.RelatedSearches {
		out.RelatedSearches = append(out.RelatedSearches, r.Query)
	}
	return out, nil
}
