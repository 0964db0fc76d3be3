// Package analysis provides tools backed by computational knowledge engines.
package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/crewkit/crewkit/tools"
	"github.com/crewkit/crewkit/types"
)

// WolframConfig configures the Wolfram Alpha tool.
type WolframConfig struct {
	// AppID authenticates against the Wolfram Alpha API. Required.
	AppID   string        `json:"app_id"`
	BaseURL string        `json:"base_url"`
	Timeout time.Duration `json:"timeout"`
	// HTTPClient overrides the default client, mainly for tests.
	HTTPClient *http.Client
}

// DefaultWolframConfig returns sensible defaults; the app id must still be
// supplied.
func DefaultWolframConfig() WolframConfig {
	return WolframConfig{
		BaseURL: "https://api.wolframalpha.com/v2/query",
		Timeout: 30 * time.Second,
	}
}

type wolframTool struct {
	config WolframConfig
	client *http.Client
}

// NewWolframTool creates an instrumented Wolfram Alpha query tool.
func NewWolframTool(config WolframConfig, logger *zap.Logger, opts ...tools.Option) (*tools.Instrumented, error) {
	if config.AppID == "" {
		return nil, fmt.Errorf("wolfram alpha app id is required")
	}
	if config.BaseURL == "" {
		config.BaseURL = DefaultWolframConfig().BaseURL
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultWolframConfig().Timeout
	}
	client := config.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: config.Timeout}
	}
	opts = append([]tools.Option{tools.WithLogger(logger)}, opts...)
	return tools.NewInstrumented(&wolframTool{config: config, client: client}, opts...), nil
}

func (t *wolframTool) Name() string { return "wolfram_alpha" }

func (t *wolframTool) Description() string {
	return "Queries Wolfram Alpha for mathematical calculations, scientific " +
		"data, factual information and computational analysis. Supports " +
		"complex math, statistics, physics, chemistry and geography."
}

func (t *wolframTool) Schema() types.ParameterSchema {
	return types.NewSchema().
		Add("query", types.StringParam(
			"Query for Wolfram Alpha, e.g. \"integrate x^2 from 0 to 10\" or \"population of Tokyo\"",
			true).WithMaxLength(2000))
}

func (t *wolframTool) Cacheable() bool { return true }

type wolframPod struct {
	Title   string `json:"title"`
	Primary bool   `json:"primary"`
	Subpods []struct {
		Plaintext string `json:"plaintext"`
	} `json:"subpods"`
}

type wolframResponse struct {
	QueryResult struct {
		Success bool         `json:"success"`
		Pods    []wolframPod `json:"pods"`
	} `json:"queryresult"`
}

func (t *wolframTool) Execute(ctx context.Context, args types.Args) (string, error) {
	query := args["query"].(string)

	params := url.Values{}
	params.Set("appid", t.config.AppID)
	params.Set("input", query)
	params.Set("output", "json")
	params.Set("format", "plaintext")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		t.config.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", types.NewExecutionError(t.Name(), "failed to build request").WithCause(err)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return "", types.NewExecutionError(t.Name(), "wolfram alpha request failed").WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", types.NewExecutionError(t.Name(),
			fmt.Sprintf("wolfram alpha returned status %d", resp.StatusCode))
	}

	var parsed wolframResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", types.NewExecutionError(t.Name(), "failed to decode response").WithCause(err)
	}

	if !parsed.QueryResult.Success {
		return "", types.NewExecutionError(t.Name(),
			fmt.Sprintf("wolfram alpha could not process query %q", query))
	}

	return formatPods(query, parsed.QueryResult.Pods), nil
}

// formatPods renders the primary result first, then secondary pods,
// skipping input-interpretation echoes.
func formatPods(query string, pods []wolframPod) string {
	var lines []string
	var secondary []string

	for _, pod := range pods {
		text := podText(pod)
		if text == "" {
			continue
		}
		title := strings.ToLower(pod.Title)
		switch {
		case title == "input" || title == "input interpretation":
			continue
		case pod.Primary || title == "result":
			lines = append(lines, "Result: "+text)
		default:
			secondary = append(secondary, pod.Title+": "+text)
		}
	}
	lines = append(lines, secondary...)

	if len(lines) == 0 {
		return fmt.Sprintf("No results found for query: %q", query)
	}
	return strings.Join(lines, "\n")
}

func podText(pod wolframPod) string {
	var parts []string
	for _, sub := range pod.Subpods {
		if s := strings.TrimSpace(sub.Plaintext); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " | ")
}
