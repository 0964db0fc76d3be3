package text

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/crewkit/crewkit/tools"
	"github.com/crewkit/crewkit/types"
)

// Summary modes.
const (
	SummaryExtractive = "extractive"
	SummaryKeyPoints  = "key_points"
)

// stopwords excluded from frequency scoring.
var stopwords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {}, "in": {},
	"on": {}, "at": {}, "to": {}, "for": {}, "of": {}, "with": {}, "by": {},
	"is": {}, "are": {}, "was": {}, "were": {}, "be": {}, "been": {},
	"being": {}, "have": {}, "has": {}, "had": {}, "do": {}, "does": {},
	"did": {}, "will": {}, "would": {}, "could": {}, "should": {}, "may": {},
	"might": {}, "must": {}, "can": {}, "this": {}, "that": {}, "these": {},
	"those": {},
}

// keyIndicators mark sentences likely to carry key points.
var keyIndicators = map[string]struct{}{
	"important": {}, "key": {}, "main": {}, "primary": {}, "essential": {},
	"crucial": {}, "significant": {}, "major": {}, "critical": {},
	"fundamental": {}, "central": {}, "first": {}, "second": {}, "third": {},
	"finally": {}, "conclusion": {}, "result": {}, "therefore": {},
	"thus": {}, "however": {}, "moreover": {}, "furthermore": {},
}

type summarizerTool struct{}

// NewSummarizerTool creates an instrumented extractive summarizer.
func NewSummarizerTool(logger *zap.Logger, opts ...tools.Option) *tools.Instrumented {
	opts = append([]tools.Option{tools.WithLogger(logger)}, opts...)
	return tools.NewInstrumented(&summarizerTool{}, opts...)
}

func (t *summarizerTool) Name() string { return "text_summarizer" }

func (t *summarizerTool) Description() string {
	return "Creates extractive summaries using statistical sentence scoring " +
		"based on word frequency and position, or pulls out key points. " +
		"No language model involved."
}

func (t *summarizerTool) Schema() types.ParameterSchema {
	return types.NewSchema().
		Add("text", types.StringParam("Text to summarize", true).
			WithMaxLength(maxTextLength)).
		Add("summary_type", types.StringParam("Type of summary", false).
			WithDefault(SummaryExtractive).
			WithEnum(SummaryExtractive, SummaryKeyPoints)).
		Add("max_sentences", types.IntParam("Maximum sentences in the summary", false).
			WithDefault(5).WithRange(1, 20))
}

func (t *summarizerTool) Cacheable() bool { return true }

func (t *summarizerTool) Execute(_ context.Context, args types.Args) (string, error) {
	text := args["text"].(string)
	summaryType := args["summary_type"].(string)
	maxSentences := args["max_sentences"].(int)

	sentences := splitSentences(text)
	if len(sentences) < 2 {
		return "", types.NewValidationError(t.Name(),
			"text must contain at least 2 sentences for summarization").
			WithParam("text").WithOp("execute")
	}

	if summaryType == SummaryKeyPoints {
		return keyPointsSummary(sentences, maxSentences), nil
	}
	return extractiveSummary(text, sentences, maxSentences), nil
}

type scoredSentence struct {
	score    float64
	position int
	sentence string
}

func extractiveSummary(text string, sentences []string, maxSentences int) string {
	if len(sentences) <= maxSentences {
		return fmt.Sprintf("Original text is already short (%d sentences):\n\n%s",
			len(sentences), text)
	}

	freq := make(map[string]int)
	for _, w := range wordRe.FindAllString(strings.ToLower(text), -1) {
		if _, stop := stopwords[w]; stop || len(w) <= 2 {
			continue
		}
		freq[w]++
	}

	scored := make([]scoredSentence, len(sentences))
	for i, sentence := range sentences {
		words := wordRe.FindAllString(strings.ToLower(sentence), -1)
		score := 0.0
		for _, w := range words {
			score += float64(freq[w])
		}
		// First and last sentences carry framing weight.
		if i == 0 || i == len(sentences)-1 {
			score *= 1.2
		}
		if len(words) < 5 {
			score *= 0.5
		}
		scored[i] = scoredSentence{score: score, position: i, sentence: sentence}
	}

	selected := topSentences(scored, maxSentences)
	parts := make([]string, len(selected))
	for i, s := range selected {
		parts[i] = s.sentence
	}
	summary := strings.Join(parts, ". ") + "."

	var sb strings.Builder
	fmt.Fprintf(&sb, "=== EXTRACTIVE SUMMARY (%d sentences) ===\n\n", maxSentences)
	fmt.Fprintf(&sb, "Original: %d sentences, %d characters\n", len(sentences), len(text))
	fmt.Fprintf(&sb, "Summary: %d sentences, %d characters\n", len(selected), len(summary))
	fmt.Fprintf(&sb, "Compression ratio: %.1f%%\n\n", float64(len(summary))/float64(len(text))*100)
	sb.WriteString(summary)
	return sb.String()
}

func keyPointsSummary(sentences []string, maxPoints int) string {
	scored := make([]scoredSentence, len(sentences))
	for i, sentence := range sentences {
		words := strings.Fields(strings.ToLower(sentence))
		score := 0.0
		for _, w := range words {
			if _, ok := keyIndicators[strings.Trim(w, ",.;:")]; ok {
				score += 2
			}
		}
		if len(words) >= 10 && len(words) <= 25 {
			score++
		}
		if float64(i) < float64(len(sentences))*0.2 || float64(i) > float64(len(sentences))*0.8 {
			score++
		}
		scored[i] = scoredSentence{score: score, position: i, sentence: sentence}
	}

	selected := topSentences(scored, maxPoints)

	var sb strings.Builder
	fmt.Fprintf(&sb, "=== KEY POINTS SUMMARY (%d points) ===\n", maxPoints)
	for i, s := range selected {
		fmt.Fprintf(&sb, "\n%d. %s", i+1, s.sentence)
	}
	return sb.String()
}

// topSentences picks the n highest-scoring sentences, preserving their
// original order in the output.
func topSentences(scored []scoredSentence, n int) []scoredSentence {
	byScore := make([]scoredSentence, len(scored))
	copy(byScore, scored)
	sort.SliceStable(byScore, func(i, j int) bool { return byScore[i].score > byScore[j].score })
	if len(byScore) > n {
		byScore = byScore[:n]
	}
	sort.Slice(byScore, func(i, j int) bool { return byScore[i].position < byScore[j].position })
	return byScore
}
