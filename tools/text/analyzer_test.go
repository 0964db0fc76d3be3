package text

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crewkit/crewkit/types"
)

// fakeTokenizer counts whitespace-separated fields, no remote data needed.
type fakeTokenizer struct {
	err error
}

func (f *fakeTokenizer) CountTokens(text string) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	return len(strings.Fields(text)), nil
}

func (f *fakeTokenizer) Name() string { return "fake" }

const sampleText = "The quick brown fox jumps over the lazy dog. " +
	"It was a bright cold day in April. " +
	"Nobody expected the weather to change so quickly!"

func TestAnalyzerTool_Basic(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	tool := NewAnalyzerTool(AnalyzerConfig{}, nil)

	out, err := tool.Invoke(ctx, types.Args{"text": sampleText, "analysis_type": "basic"})
	require.NoError(t, err)
	assert.Contains(t, out, "=== BASIC TEXT ANALYSIS ===")
	assert.Contains(t, out, "Sentences: 3")
	assert.Contains(t, out, "Paragraphs: 1")
	assert.NotContains(t, out, "=== DETAILED ANALYSIS ===")
}

func TestAnalyzerTool_ComprehensiveIsDefault(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	tool := NewAnalyzerTool(AnalyzerConfig{}, nil)

	out, err := tool.Invoke(ctx, types.Args{"text": sampleText})
	require.NoError(t, err)
	assert.Contains(t, out, "=== BASIC TEXT ANALYSIS ===")
	assert.Contains(t, out, "=== DETAILED ANALYSIS ===")
	assert.Contains(t, out, "Readability Score:")
	assert.Contains(t, out, "Reading Level:")
	assert.Contains(t, out, "Most Common Words:")
	assert.NotContains(t, out, "=== ADVANCED ANALYSIS ===")
}

func TestAnalyzerTool_Advanced(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	tool := NewAnalyzerTool(AnalyzerConfig{Tokenizer: &fakeTokenizer{}}, nil)

	text := sampleText + " Visit https://example.com or mail team@example.com for details."
	out, err := tool.Invoke(ctx, types.Args{"text": text, "analysis_type": "advanced"})
	require.NoError(t, err)
	assert.Contains(t, out, "=== ADVANCED ANALYSIS ===")
	assert.Contains(t, out, "Lexical diversity:")
	assert.Contains(t, out, "URLs found: 1")
	assert.Contains(t, out, "Email addresses found: 1")
	assert.Contains(t, out, "Tokens (fake):")
	assert.Contains(t, out, "Vocabulary richness:")
}

func TestAnalyzerTool_AdvancedWithoutTokenizer(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	tool := NewAnalyzerTool(AnalyzerConfig{}, nil)

	out, err := tool.Invoke(ctx, types.Args{"text": sampleText, "analysis_type": "advanced"})
	require.NoError(t, err)
	assert.NotContains(t, out, "Tokens (")
}

func TestAnalyzerTool_TokenizerFailure(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	tool := NewAnalyzerTool(AnalyzerConfig{Tokenizer: &fakeTokenizer{err: errors.New("no encoding data")}}, nil)

	_, err := tool.Invoke(ctx, types.Args{"text": sampleText, "analysis_type": "advanced"})
	require.Error(t, err)
	assert.True(t, types.IsExecution(err))
}

func TestAnalyzerTool_RejectsOversizedText(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	tool := NewAnalyzerTool(AnalyzerConfig{}, nil)

	_, err := tool.Invoke(ctx, types.Args{"text": strings.Repeat("a", maxTextLength+1)})
	require.Error(t, err)
	assert.True(t, types.IsValidation(err))
}

func TestSplitSentences(t *testing.T) {
	t.Parallel()

	assert.Len(t, splitSentences("One. Two! Three?"), 3)
	assert.Len(t, splitSentences("No terminator"), 1)
	assert.Empty(t, splitSentences("   "))
}

func TestSplitParagraphs(t *testing.T) {
	t.Parallel()

	assert.Len(t, splitParagraphs("a\n\nb\n\n\n\nc"), 3)
	assert.Len(t, splitParagraphs("single"), 1)
}

func TestTopWords(t *testing.T) {
	t.Parallel()

	top := topWords("go go go run run stop", 2)
	require.Len(t, top, 2)
	assert.Equal(t, wordCount{"go", 3}, top[0])
	assert.Equal(t, wordCount{"run", 2}, top[1])
}

func TestReadingLevel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Very Easy (5th grade)", readingLevel(95))
	assert.Equal(t, "Standard (8th-9th grade)", readingLevel(65))
	assert.Equal(t, "Very Difficult (Graduate level)", readingLevel(10))
}
