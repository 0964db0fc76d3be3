package text

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/crewkit/crewkit/tools"
	"github.com/crewkit/crewkit/types"
)

// Cleaning operations, applied in the order below.
const (
	CleanHTML         = "html"
	CleanURLs         = "urls"
	CleanEmails       = "emails"
	CleanNumbers      = "numbers"
	CleanSpecialChars = "special_chars"
	CleanPunctuation  = "punctuation"
	CleanWhitespace   = "whitespace"
)

var cleaningOrder = []string{
	CleanHTML, CleanURLs, CleanEmails, CleanNumbers,
	CleanSpecialChars, CleanPunctuation, CleanWhitespace,
}

var (
	htmlTagRe         = regexp.MustCompile(`<[^>]+>`)
	numberRe          = regexp.MustCompile(`\b\d+(?:\.\d+)?\b`)
	specialKeepRe     = regexp.MustCompile(`[^\w\s.!?,;:\n\-]`)
	specialAllRe      = regexp.MustCompile(`[^\w\s]`)
	repeatPeriodRe    = regexp.MustCompile(`\.{2,}`)
	repeatBangRe      = regexp.MustCompile(`!{2,}`)
	repeatQuestionRe  = regexp.MustCompile(`\?{2,}`)
	repeatCommaRe     = regexp.MustCompile(`,{2,}`)
	spaceTabRe        = regexp.MustCompile(`[ \t]+`)
	paragraphBreakRe  = regexp.MustCompile(`\n[ \t]*\n`)
	manyNewlinesRe    = regexp.MustCompile(`\n{3,}`)
	anyWhitespaceRe   = regexp.MustCompile(`\s+`)
	cleanerOperations = map[string]string{
		CleanHTML:         "Removed HTML tags",
		CleanURLs:         "Removed URLs",
		CleanEmails:       "Removed email addresses",
		CleanNumbers:      "Removed numbers",
		CleanSpecialChars: "Removed special characters",
		CleanPunctuation:  "Cleaned punctuation",
		CleanWhitespace:   "Normalized whitespace",
	}
)

type cleanerTool struct{}

// NewCleanerTool creates an instrumented text cleaner.
func NewCleanerTool(logger *zap.Logger, opts ...tools.Option) *tools.Instrumented {
	opts = append([]tools.Option{tools.WithLogger(logger)}, opts...)
	return tools.NewInstrumented(&cleanerTool{}, opts...)
}

func (t *cleanerTool) Name() string { return "text_cleaner" }

func (t *cleanerTool) Description() string {
	return "Cleans and normalizes text by removing unwanted elements such as " +
		"extra whitespace, HTML tags, URLs or special characters. " +
		"Operations are selected per call."
}

func (t *cleanerTool) Schema() types.ParameterSchema {
	return types.NewSchema().
		Add("text", types.StringParam("Text to clean", true).
			WithMaxLength(maxTextLength)).
		Add("operations", types.StringParam(
			"Comma-separated cleaning operations: whitespace, punctuation, html, urls, emails, numbers, special_chars", false).
			WithDefault("whitespace,punctuation")).
		Add("preserve_structure", types.BoolParam(
			"Keep paragraph and sentence structure intact", false).
			WithDefault(true))
}

func (t *cleanerTool) Cacheable() bool { return true }

func (t *cleanerTool) Execute(_ context.Context, args types.Args) (string, error) {
	text := args["text"].(string)
	preserve := args["preserve_structure"].(bool)

	requested := make(map[string]bool)
	for _, op := range strings.Split(args["operations"].(string), ",") {
		op = strings.TrimSpace(op)
		if op == "" {
			continue
		}
		if _, known := cleanerOperations[op]; !known {
			return "", types.NewValidationError(t.Name(),
				fmt.Sprintf("unknown cleaning operation %q", op)).
				WithParam("operations").WithOp("execute")
		}
		requested[op] = true
	}

	cleaned := text
	var applied []string
	for _, op := range cleaningOrder {
		if !requested[op] {
			continue
		}
		cleaned = applyCleaning(cleaned, op, preserve)
		applied = append(applied, cleanerOperations[op])
	}

	var sb strings.Builder
	sb.WriteString("=== TEXT CLEANING RESULTS ===\n\n")
	fmt.Fprintf(&sb, "Original length: %d characters\n", len([]rune(text)))
	fmt.Fprintf(&sb, "Cleaned length: %d characters\n", len([]rune(cleaned)))
	reduction := len([]rune(text)) - len([]rune(cleaned))
	percent := 0.0
	if len(text) > 0 {
		percent = float64(reduction) / float64(len([]rune(text))) * 100
	}
	fmt.Fprintf(&sb, "Reduction: %d characters (%.1f%%)\n\n", reduction, percent)
	sb.WriteString("Applied operations:\n")
	for _, op := range applied {
		fmt.Fprintf(&sb, "  - %s\n", op)
	}
	sb.WriteString("\n=== CLEANED TEXT ===\n\n")
	sb.WriteString(cleaned)
	return sb.String(), nil
}

func applyCleaning(text, op string, preserve bool) string {
	switch op {
	case CleanHTML:
		return htmlTagRe.ReplaceAllString(text, "")
	case CleanURLs:
		return urlRe.ReplaceAllString(text, "")
	case CleanEmails:
		return emailRe.ReplaceAllString(text, "")
	case CleanNumbers:
		return numberRe.ReplaceAllString(text, "")
	case CleanSpecialChars:
		if preserve {
			return specialKeepRe.ReplaceAllString(text, "")
		}
		return specialAllRe.ReplaceAllString(text, "")
	case CleanPunctuation:
		return cleanPunctuation(text, preserve)
	case CleanWhitespace:
		return normalizeWhitespace(text, preserve)
	default:
		return text
	}
}

func cleanPunctuation(text string, preserve bool) string {
	if preserve {
		text = repeatPeriodRe.ReplaceAllString(text, ".")
		text = repeatBangRe.ReplaceAllString(text, "!")
		text = repeatQuestionRe.ReplaceAllString(text, "?")
		text = repeatCommaRe.ReplaceAllString(text, ",")
		return text
	}
	return strings.Map(func(r rune) rune {
		if unicode.IsPunct(r) {
			return -1
		}
		return r
	}, text)
}

func normalizeWhitespace(text string, preserve bool) string {
	if preserve {
		text = spaceTabRe.ReplaceAllString(text, " ")
		text = paragraphBreakRe.ReplaceAllString(text, "\n\n")
		text = manyNewlinesRe.ReplaceAllString(text, "\n\n")
		return strings.TrimSpace(text)
	}
	return strings.TrimSpace(anyWhitespaceRe.ReplaceAllString(text, " "))
}
