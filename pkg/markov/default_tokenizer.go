package markov

import (
	"bufio"
	"errors"
	"io"
	"regexp"
	"strings"
)

// maxSentenceLength prevents massive sentences from taking up a large amount of memory
const maxSentenceLength = 4096

// WordTokenizer is a Tokenizer over words. It uses regular expressions to
// split text into words and punctuation, and ends a sequence at every
// sentence-ending punctuation mark (End-Of-Chain, EOC). The EOC mark itself is
// not part of the sequence; generation ending is represented by the model's
// terminus instead. Its behavior can be customized with functional options.
type WordTokenizer struct {
	separator         string
	eoc               string
	separatorRegex    *regexp.Regexp
	eocRegex          *regexp.Regexp
	separatorExcRegex *regexp.Regexp
	eocExcRegex       *regexp.Regexp
}

// Option Is a function that configures a WordTokenizer.
type Option func(*WordTokenizer)

// WithSeparator Sets the character used for joining tokens during rendering.
// Default: " "
func WithSeparator(sep string) Option {
	return func(t *WordTokenizer) {
		t.separator = sep
	}
}

// WithEOC Sets the string appended to a rendered sequence.
// Default: "."
func WithEOC(eoc string) Option {
	return func(t *WordTokenizer) {
		t.eoc = eoc
	}
}

// WithSeparatorRegex sets the regex string to use when splitting input text.
// Default: `[\w']+|[.,!?;]`
func WithSeparatorRegex(splitRegex string) Option {
	return func(t *WordTokenizer) {
		t.separatorRegex = regexp.MustCompile(splitRegex)
	}
}

// WithEOCRegex sets the regex string to use when deciding whether a token ends a sequence.
// Default: `^[.!?]$`
func WithEOCRegex(eocRegex string) Option {
	return func(t *WordTokenizer) {
		t.eocRegex = regexp.MustCompile(eocRegex)
	}
}

// WithSeparatorExcRegex sets the regex string to use when deciding whether to add a separator before a token.
func WithSeparatorExcRegex(splitExcRegex string) Option {
	return func(t *WordTokenizer) {
		t.separatorExcRegex = regexp.MustCompile(splitExcRegex)
	}
}

// WithEOCExcRegex sets the regex string to use when deciding whether to add an EOC mark after the last token.
func WithEOCExcRegex(eocRegex string) Option {
	return func(t *WordTokenizer) {
		t.eocExcRegex = regexp.MustCompile(eocRegex)
	}
}

// NewWordTokenizer creates a new tokenizer with default settings, which can be
// overridden by providing one or more Option functions.
func NewWordTokenizer(opts ...Option) *WordTokenizer {
	t := &WordTokenizer{
		separator: " ",
		eoc:       ".",
		// This regex finds sequences of word characters (letters, numbers, underscore)
		// OR single instances of common punctuation.
		separatorRegex: regexp.MustCompile(`[\w']+|[.,!?;]`),
		// This regex checks if a token is one of the sentence-ending punctuation marks.
		eocRegex: regexp.MustCompile(`^[.!?]$`),
		// This regex checks for characters that don't get a separator put before them.
		separatorExcRegex: regexp.MustCompile(`^[.,!?;]`),
		// This regex checks for characters that don't get an EOC put after them.
		eocExcRegex: regexp.MustCompile(`^[.,!?;]`),
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Render joins the words with the separator, leaving it out before
// punctuation, and closes the result with the EOC mark. An empty sequence
// renders as an empty string.
func (t *WordTokenizer) Render(symbols []string) string {
	if len(symbols) == 0 {
		return ""
	}
	var sb strings.Builder
	for i, word := range symbols {
		if i > 0 && !t.separatorExcRegex.MatchString(word) {
			sb.WriteString(t.separator)
		}
		sb.WriteString(word)
	}
	if !t.eocExcRegex.MatchString(symbols[len(symbols)-1]) {
		sb.WriteString(t.eoc)
	}
	return sb.String()
}

// NewStream Returns the stream processor.
func (t *WordTokenizer) NewStream(r io.Reader) StreamTokenizer[string] {
	return &wordStream{
		scanner:    bufio.NewScanner(r),
		splitRegex: t.separatorRegex,
		eocRegex:   t.eocRegex,
	}
}

// wordStream uses a bufio.Scanner and regular expressions to read a stream
// and group its tokens into sentences.
type wordStream struct {
	scanner    *bufio.Scanner
	buffer     []string
	splitRegex *regexp.Regexp
	eocRegex   *regexp.Regexp
	done       bool
}

// Next returns the tokens of the next sentence. Empty sentences, such as the
// gap between two consecutive EOC marks, are skipped.
func (s *wordStream) Next() ([]string, error) {
	var sentence []string
	for {
		word, err := s.nextWord()
		if err != nil {
			if len(sentence) > 0 && errors.Is(err, io.EOF) {
				return sentence, nil
			}
			return nil, err
		}

		if s.eocRegex.MatchString(word) {
			if len(sentence) > 0 {
				return sentence, nil
			}
			continue
		}

		sentence = append(sentence, word)
		if len(sentence) >= maxSentenceLength {
			return sentence, nil
		}
	}
}

func (s *wordStream) nextWord() (string, error) {
	for len(s.buffer) == 0 { // Loop until we have tokens
		if s.done || !s.scanner.Scan() {
			s.done = true
			if err := s.scanner.Err(); err != nil {
				return "", err
			}
			return "", io.EOF
		}
		s.buffer = s.splitRegex.FindAllString(s.scanner.Text(), -1)
	}

	// We have tokens in the buffer. Process the next one.
	word := s.buffer[0]
	s.buffer = s.buffer[1:] // Consume the token
	return word, nil
}
