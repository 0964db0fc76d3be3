package text

import (
	"fmt"
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

// Tokenizer counts model tokens for the analyzer's advanced report.
type Tokenizer interface {
	CountTokens(text string) (int, error)
	Name() string
}

// TiktokenTokenizer counts tokens with a tiktoken BPE encoding. The encoding
// data is loaded lazily on first use because it may be fetched remotely.
type TiktokenTokenizer struct {
	encoding string
	enc      *tiktoken.Tiktoken
	once     sync.Once
	initErr  error
}

// NewTiktokenTokenizer creates a tokenizer for the given encoding name,
// defaulting to cl100k_base.
func NewTiktokenTokenizer(encoding string) *TiktokenTokenizer {
	if encoding == "" {
		encoding = "cl100k_base"
	}
	return &TiktokenTokenizer{encoding: encoding}
}

func (t *TiktokenTokenizer) init() error {
	t.once.Do(func() {
		enc, err := tiktoken.GetEncoding(t.encoding)
		if err != nil {
			t.initErr = fmt.Errorf("init tiktoken encoding %s: %w", t.encoding, err)
			return
		}
		t.enc = enc
	})
	return t.initErr
}

// CountTokens returns the number of tokens in text.
func (t *TiktokenTokenizer) CountTokens(text string) (int, error) {
	if err := t.init(); err != nil {
		return 0, err
	}
	return len(t.enc.Encode(text, nil, nil)), nil
}

// Name returns the encoding name.
func (t *TiktokenTokenizer) Name() string { return t.encoding }
