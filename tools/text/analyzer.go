// Package text provides language-statistics tools: analysis, cleaning and
// extractive summarization.
package text

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode"

	"go.uber.org/zap"

	"github.com/crewkit/crewkit/tools"
	"github.com/crewkit/crewkit/types"
)

// Analysis depth levels.
const (
	AnalysisBasic         = "basic"
	AnalysisComprehensive = "comprehensive"
	AnalysisAdvanced      = "advanced"
)

// maxTextLength caps analyzable input.
const maxTextLength = 100000

var (
	sentenceSplitRe = regexp.MustCompile(`[.!?]+`)
	wordRe          = regexp.MustCompile(`\b\w+\b`)
	vowelGroupRe    = regexp.MustCompile(`[aeiouy]+`)
	letterWordRe    = regexp.MustCompile(`\b[a-zA-Z]+\b`)
	urlRe           = regexp.MustCompile(`https?://[^\s<>"]+`)
	emailRe         = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
)

// AnalyzerConfig configures the text analyzer tool.
type AnalyzerConfig struct {
	// Tokenizer adds a model-token count to advanced reports. Optional.
	Tokenizer Tokenizer
	CacheTTL  time.Duration `json:"cache_ttl"`
}

// DefaultAnalyzerConfig returns sensible defaults.
func DefaultAnalyzerConfig() AnalyzerConfig {
	return AnalyzerConfig{CacheTTL: time.Hour}
}

type analyzerTool struct {
	tokenizer Tokenizer
}

// NewAnalyzerTool creates an instrumented text analyzer.
func NewAnalyzerTool(config AnalyzerConfig, logger *zap.Logger, opts ...tools.Option) *tools.Instrumented {
	if config.CacheTTL <= 0 {
		config.CacheTTL = DefaultAnalyzerConfig().CacheTTL
	}
	opts = append([]tools.Option{tools.WithLogger(logger), tools.WithTTL(config.CacheTTL)}, opts...)
	return tools.NewInstrumented(&analyzerTool{tokenizer: config.Tokenizer}, opts...)
}

func (t *analyzerTool) Name() string { return "text_analyzer" }

func (t *analyzerTool) Description() string {
	return "Analyzes text and reports statistics: word and sentence counts, " +
		"readability metrics, keyword frequency and vocabulary richness. " +
		"Use this to understand text characteristics or quality."
}

func (t *analyzerTool) Schema() types.ParameterSchema {
	return types.NewSchema().
		Add("text", types.StringParam("Text to analyze", true).
			WithMaxLength(maxTextLength)).
		Add("analysis_type", types.StringParam("Depth of analysis", false).
			WithDefault(AnalysisComprehensive).
			WithEnum(AnalysisBasic, AnalysisComprehensive, AnalysisAdvanced))
}

func (t *analyzerTool) Cacheable() bool { return true }

func (t *analyzerTool) Execute(_ context.Context, args types.Args) (string, error) {
	text := args["text"].(string)
	analysisType := args["analysis_type"].(string)

	report := basicAnalysis(text)
	if analysisType == AnalysisBasic {
		return report, nil
	}
	report += "\n\n" + detailedAnalysis(text)
	if analysisType == AnalysisComprehensive {
		return report, nil
	}
	advanced, err := t.advancedAnalysis(text)
	if err != nil {
		return "", types.NewExecutionError(t.Name(), "advanced analysis failed").WithCause(err)
	}
	return report + "\n\n" + advanced, nil
}

func basicAnalysis(text string) string {
	charCount := len([]rune(text))
	charNoSpaces := len([]rune(strings.ReplaceAll(text, " ", "")))
	wordCount := len(strings.Fields(text))
	sentences := splitSentences(text)
	paragraphs := splitParagraphs(text)

	var sb strings.Builder
	sb.WriteString("=== BASIC TEXT ANALYSIS ===\n\n")
	fmt.Fprintf(&sb, "Characters (with spaces): %d\n", charCount)
	fmt.Fprintf(&sb, "Characters (without spaces): %d\n", charNoSpaces)
	fmt.Fprintf(&sb, "Words: %d\n", wordCount)
	fmt.Fprintf(&sb, "Sentences: %d\n", len(sentences))
	fmt.Fprintf(&sb, "Paragraphs: %d\n\n", len(paragraphs))
	fmt.Fprintf(&sb, "Average words per sentence: %.1f\n",
		float64(wordCount)/float64(max(len(sentences), 1)))
	fmt.Fprintf(&sb, "Average characters per word: %.1f",
		float64(charNoSpaces)/float64(max(wordCount, 1)))
	return sb.String()
}

func detailedAnalysis(text string) string {
	sentences := splitSentences(text)
	wordCount := len(strings.Fields(text))

	lengths := make([]int, len(sentences))
	longest, shortest := 0, 0
	for i, s := range sentences {
		lengths[i] = len(strings.Fields(s))
		if i == 0 || lengths[i] > longest {
			longest = lengths[i]
		}
		if i == 0 || lengths[i] < shortest {
			shortest = lengths[i]
		}
	}
	avgSentenceLen := float64(wordCount) / float64(max(len(sentences), 1))

	// Simplified Flesch reading-ease score.
	avgSyllables := estimateSyllablesPerWord(text)
	readability := 206.835 - 1.015*avgSentenceLen - 84.6*avgSyllables

	var sb strings.Builder
	sb.WriteString("=== DETAILED ANALYSIS ===\n\n")
	fmt.Fprintf(&sb, "Average sentence length: %.1f words\n", avgSentenceLen)
	fmt.Fprintf(&sb, "Longest sentence: %d words\n", longest)
	fmt.Fprintf(&sb, "Shortest sentence: %d words\n\n", shortest)
	fmt.Fprintf(&sb, "Readability Score: %.1f\n", readability)
	fmt.Fprintf(&sb, "Reading Level: %s\n\n", readingLevel(readability))
	sb.WriteString("Most Common Words:")
	for _, wc := range topWords(text, 10) {
		if len(wc.word) > 2 {
			fmt.Fprintf(&sb, "\n  %s: %d times", wc.word, wc.count)
		}
	}
	return sb.String()
}

func (t *analyzerTool) advancedAnalysis(text string) (string, error) {
	words := strings.Fields(strings.ToLower(text))
	unique := make(map[string]struct{}, len(words))
	longWords := 0
	for _, w := range words {
		unique[w] = struct{}{}
		if len(w) > 6 {
			longWords++
		}
	}
	lexicalDiversity := float64(len(unique)) / float64(max(len(words), 1))
	longWordRatio := float64(longWords) / float64(max(len(words), 1))

	punctuation, uppercase := 0, 0
	for _, r := range text {
		if unicode.IsPunct(r) || unicode.IsSymbol(r) {
			punctuation++
		}
		if unicode.IsUpper(r) {
			uppercase++
		}
	}

	var sb strings.Builder
	sb.WriteString("=== ADVANCED ANALYSIS ===\n\n")
	fmt.Fprintf(&sb, "Unique words: %d\n", len(unique))
	fmt.Fprintf(&sb, "Lexical diversity: %.3f\n", lexicalDiversity)
	fmt.Fprintf(&sb, "Long words (>6 chars): %d (%.1f%%)\n\n", longWords, longWordRatio*100)
	fmt.Fprintf(&sb, "Punctuation marks: %d\n", punctuation)
	fmt.Fprintf(&sb, "Uppercase letters: %d\n\n", uppercase)
	fmt.Fprintf(&sb, "URLs found: %d\n", len(urlRe.FindAllString(text, -1)))
	fmt.Fprintf(&sb, "Email addresses found: %d\n", len(emailRe.FindAllString(text, -1)))

	if t.tokenizer != nil {
		count, err := t.tokenizer.CountTokens(text)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&sb, "Tokens (%s): %d\n", t.tokenizer.Name(), count)
	}

	sb.WriteString("\nText Characteristics:\n")
	fmt.Fprintf(&sb, "  - Vocabulary richness: %s\n", bucket(lexicalDiversity, 0.7, 0.4))
	fmt.Fprintf(&sb, "  - Complexity level: %s", bucket(longWordRatio, 0.2, 0.1))
	return sb.String(), nil
}

// --- shared text helpers ---

func splitSentences(text string) []string {
	var sentences []string
	for _, s := range sentenceSplitRe.Split(text, -1) {
		if s = strings.TrimSpace(s); s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

func splitParagraphs(text string) []string {
	var paragraphs []string
	for _, p := range strings.Split(text, "\n\n") {
		if strings.TrimSpace(p) != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	return paragraphs
}

type wordCount struct {
	word  string
	count int
}

func topWords(text string, n int) []wordCount {
	freq := make(map[string]int)
	for _, w := range strings.Fields(strings.ToLower(text)) {
		freq[w]++
	}
	counts := make([]wordCount, 0, len(freq))
	for w, c := range freq {
		counts = append(counts, wordCount{w, c})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].count != counts[j].count {
			return counts[i].count > counts[j].count
		}
		return counts[i].word < counts[j].word
	})
	if len(counts) > n {
		counts = counts[:n]
	}
	return counts
}

// estimateSyllablesPerWord counts vowel groups per word, dropping a silent
// trailing "e".
func estimateSyllablesPerWord(text string) float64 {
	words := letterWordRe.FindAllString(strings.ToLower(text), -1)
	if len(words) == 0 {
		return 0
	}
	total := 0
	for _, word := range words {
		syllables := len(vowelGroupRe.FindAllString(word, -1))
		if syllables == 0 {
			syllables = 1
		}
		if strings.HasSuffix(word, "e") {
			syllables--
		}
		total += max(syllables, 1)
	}
	return float64(total) / float64(len(words))
}

func readingLevel(score float64) string {
	switch {
	case score >= 90:
		return "Very Easy (5th grade)"
	case score >= 80:
		return "Easy (6th grade)"
	case score >= 70:
		return "Fairly Easy (7th grade)"
	case score >= 60:
		return "Standard (8th-9th grade)"
	case score >= 50:
		return "Fairly Difficult (10th-12th grade)"
	case score >= 30:
		return "Difficult (College level)"
	default:
		return "Very Difficult (Graduate level)"
	}
}

func bucket(v, high, medium float64) string {
	switch {
	case v > high:
		return "High"
	case v > medium:
		return "Medium"
	default:
		return "Low"
	}
}
