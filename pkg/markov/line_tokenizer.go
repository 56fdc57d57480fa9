package markov

import (
	"bufio"
	"io"
	"strings"
)

// LineTokenizer treats every line of its input as one sequence of runes. It
// suits word lists, where each line is a word and generation produces new
// words letter by letter.
type LineTokenizer struct {
	skipBlank bool
	trimSpace bool
}

// LineOption Is a function that configures a LineTokenizer.
type LineOption func(*LineTokenizer)

// WithSkipBlankLines skips lines that are empty after trimming, instead of
// training them as empty sequences.
// Default: false
func WithSkipBlankLines(skip bool) LineOption {
	return func(t *LineTokenizer) { t.skipBlank = skip }
}

// WithTrimSpace strips leading and trailing white space from every line.
// Default: false
func WithTrimSpace(trim bool) LineOption {
	return func(t *LineTokenizer) { t.trimSpace = trim }
}

// NewLineTokenizer creates a new line tokenizer with default settings, which
// can be overridden by providing one or more LineOption functions.
func NewLineTokenizer(opts ...LineOption) *LineTokenizer {
	t := &LineTokenizer{}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Render concatenates the runes.
func (t *LineTokenizer) Render(symbols []rune) string {
	return string(symbols)
}

// NewStream Returns the stream processor.
func (t *LineTokenizer) NewStream(r io.Reader) StreamTokenizer[rune] {
	return &lineStream{
		scanner:   bufio.NewScanner(r),
		skipBlank: t.skipBlank,
		trimSpace: t.trimSpace,
	}
}

type lineStream struct {
	scanner   *bufio.Scanner
	skipBlank bool
	trimSpace bool
}

// Next returns the runes of the next line, without its line ending.
func (s *lineStream) Next() ([]rune, error) {
	for s.scanner.Scan() {
		line := strings.TrimSuffix(s.scanner.Text(), "\r")
		if s.trimSpace {
			line = strings.TrimSpace(line)
		}
		if s.skipBlank && strings.TrimSpace(line) == "" {
			continue
		}
		return []rune(line), nil
	}
	if err := s.scanner.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}
