package web

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/crewkit/crewkit/tools"
	"github.com/crewkit/crewkit/types"
)

// Extraction modes for the scrape tool.
const (
	ExtractText       = "text"
	ExtractLinks      = "links"
	ExtractImages     = "images"
	ExtractStructured = "structured"
)

const (
	maxExtractedLinks    = 50
	maxExtractedImages   = 30
	maxExtractedHeadings = 20
	scrapeUserAgent      = "Mozilla/5.0 (compatible; crewkit-scraper/1.0)"
)

// ScrapeToolConfig configures the scrape tool.
type ScrapeToolConfig struct {
	Timeout  time.Duration `json:"timeout"`
	CacheTTL time.Duration `json:"cache_ttl"`
	// AllowLoopback disables the loopback-host guard, for deployments that
	// legitimately scrape in-cluster endpoints and for tests.
	AllowLoopback bool `json:"allow_loopback"`
	// HTTPClient overrides the default client, mainly for tests.
	HTTPClient *http.Client
}

// DefaultScrapeToolConfig returns sensible defaults.
func DefaultScrapeToolConfig() ScrapeToolConfig {
	return ScrapeToolConfig{
		Timeout:  30 * time.Second,
		CacheTTL: 15 * time.Minute,
	}
}

type scrapeTool struct {
	client        *http.Client
	allowLoopback bool
}

// NewScrapeTool creates an instrumented web scraping tool.
func NewScrapeTool(config ScrapeToolConfig, logger *zap.Logger, opts ...tools.Option) *tools.Instrumented {
	if config.Timeout <= 0 {
		config.Timeout = DefaultScrapeToolConfig().Timeout
	}
	if config.CacheTTL <= 0 {
		config.CacheTTL = DefaultScrapeToolConfig().CacheTTL
	}
	client := config.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: config.Timeout}
	}
	opts = append([]tools.Option{tools.WithLogger(logger), tools.WithTTL(config.CacheTTL)}, opts...)
	return tools.NewInstrumented(&scrapeTool{client: client, allowLoopback: config.AllowLoopback}, opts...)
}

func (t *scrapeTool) Name() string { return "web_scrape" }

func (t *scrapeTool) Description() string {
	return "Scrapes content from a web page with multiple extraction modes: " +
		"plain text, links, images or a structured overview. Use this to " +
		"pull specific information out of web pages."
}

func (t *scrapeTool) Schema() types.ParameterSchema {
	return types.NewSchema().
		Add("url", types.StringParam("URL to scrape", true)).
		Add("extract_type", types.StringParam("What to extract", false).
			WithDefault(ExtractText).
			WithEnum(ExtractText, ExtractLinks, ExtractImages, ExtractStructured)).
		Add("max_length", types.IntParam("Maximum length of extracted content", false).
			WithDefault(5000).WithRange(100, 100000))
}

func (t *scrapeTool) Cacheable() bool { return true }

func (t *scrapeTool) Execute(ctx context.Context, args types.Args) (string, error) {
	rawURL := args["url"].(string)
	extractType := args["extract_type"].(string)
	maxLength := args["max_length"].(int)

	target, err := checkScrapeURL(t.Name(), rawURL, t.allowLoopback)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return "", types.NewExecutionError(t.Name(), "failed to build request").WithCause(err)
	}
	req.Header.Set("User-Agent", scrapeUserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := t.client.Do(req)
	if err != nil {
		return "", types.NewExecutionError(t.Name(), fmt.Sprintf("failed to fetch %s", rawURL)).WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", types.NewExecutionError(t.Name(),
			fmt.Sprintf("fetch of %s returned status %d", rawURL, resp.StatusCode))
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", types.NewExecutionError(t.Name(), "failed to parse HTML").WithCause(err)
	}

	switch extractType {
	case ExtractLinks:
		return extractLinks(doc, target), nil
	case ExtractImages:
		return extractImages(doc, target), nil
	case ExtractStructured:
		return extractStructured(doc, rawURL), nil
	default:
		return extractText(doc, maxLength), nil
	}
}

// checkScrapeURL enforces the SSRF guard: http/https only, no loopback or
// unspecified hosts.
func checkScrapeURL(tool, rawURL string, allowLoopback bool) (*url.URL, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, types.NewValidationError(tool, fmt.Sprintf("invalid URL: %s", rawURL)).
			WithParam("url").WithOp("execute")
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, types.NewValidationError(tool, "only HTTP and HTTPS URLs are allowed").
			WithParam("url").WithOp("execute")
	}
	if allowLoopback {
		return parsed, nil
	}
	host := parsed.Hostname()
	if host == "localhost" {
		return nil, types.NewValidationError(tool, "cannot scrape localhost URLs").
			WithParam("url").WithOp("execute")
	}
	if ip := net.ParseIP(host); ip != nil && (ip.IsLoopback() || ip.IsUnspecified()) {
		return nil, types.NewValidationError(tool, "cannot scrape loopback addresses").
			WithParam("url").WithOp("execute")
	}
	return parsed, nil
}

func extractText(doc *goquery.Document, maxLength int) string {
	doc.Find("script, style, nav, footer, header").Remove()

	var lines []string
	for _, line := range strings.Split(doc.Find("body").Text(), "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	text := strings.Join(lines, "\n")
	if len(text) > maxLength {
		text = text[:maxLength] + "... (truncated)"
	}
	return "Extracted Text Content:\n\n" + text
}

func extractLinks(doc *goquery.Document, base *url.URL) string {
	var sb strings.Builder
	sb.WriteString("Extracted Links:\n\n")

	total := 0
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if strings.HasPrefix(href, "#") || strings.HasPrefix(href, "javascript:") {
			return
		}
		total++
		if total > maxExtractedLinks {
			return
		}
		text := strings.TrimSpace(sel.Text())
		if text == "" {
			text = "(no text)"
		}
		fmt.Fprintf(&sb, "%d. %s\n   URL: %s\n", total, text, resolveURL(base, href))
		if title, ok := sel.Attr("title"); ok && title != "" {
			fmt.Fprintf(&sb, "   Title: %s\n", title)
		}
		sb.WriteByte('\n')
	})

	fmt.Fprintf(&sb, "Total links found: %d", total)
	return sb.String()
}

func extractImages(doc *goquery.Document, base *url.URL) string {
	var sb strings.Builder
	sb.WriteString("Extracted Images:\n\n")

	total := 0
	doc.Find("img[src]").Each(func(_ int, sel *goquery.Selection) {
		src, _ := sel.Attr("src")
		total++
		if total > maxExtractedImages {
			return
		}
		alt := strings.TrimSpace(sel.AttrOr("alt", ""))
		if alt == "" {
			alt = "(no alt text)"
		}
		fmt.Fprintf(&sb, "%d. %s\n   URL: %s\n", total, alt, resolveURL(base, src))
		if title := sel.AttrOr("title", ""); title != "" {
			fmt.Fprintf(&sb, "   Title: %s\n", title)
		}
		sb.WriteByte('\n')
	})

	fmt.Fprintf(&sb, "Total images found: %d", total)
	return sb.String()
}

func extractStructured(doc *goquery.Document, pageURL string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Structured Data from: %s\n\n", pageURL)

	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		fmt.Fprintf(&sb, "Title: %s\n", title)
	}
	if desc, ok := doc.Find(`meta[name="description"]`).Attr("content"); ok {
		fmt.Fprintf(&sb, "Description: %s\n", desc)
	}

	headings := 0
	var headingLines []string
	doc.Find("h1, h2, h3, h4, h5, h6").Each(func(_ int, sel *goquery.Selection) {
		headings++
		if headings > maxExtractedHeadings {
			return
		}
		headingLines = append(headingLines,
			fmt.Sprintf("%s: %s", strings.ToUpper(goquery.NodeName(sel)), strings.TrimSpace(sel.Text())))
	})
	if len(headingLines) > 0 {
		sb.WriteString("\nHeadings Structure:\n")
		sb.WriteString(strings.Join(headingLines, "\n"))
		sb.WriteByte('\n')
	}

	sb.WriteString("\nPage Statistics:\n")
	fmt.Fprintf(&sb, "  Paragraphs: %d\n", doc.Find("p").Length())
	fmt.Fprintf(&sb, "  Links: %d\n", doc.Find("a[href]").Length())
	fmt.Fprintf(&sb, "  Images: %d\n", doc.Find("img[src]").Length())
	fmt.Fprintf(&sb, "  Lists: %d", doc.Find("ul, ol").Length())
	return sb.String()
}

func resolveURL(base *url.URL, ref string) string {
	parsed, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return base.ResolveReference(parsed).String()
}
