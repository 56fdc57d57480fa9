package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"

	"github.com/CTAG07/markovchain/pkg/markov"
	"github.com/dustin/go-humanize"
)

// session holds what the generation loop needs besides the model itself.
type session struct {
	config      *Config
	logger      *slog.Logger
	stdin       io.Reader
	stdout      io.Writer
	interactive bool
}

func newCharTokenizer(cfg *ModelConfig) *markov.LineTokenizer {
	return markov.NewLineTokenizer(markov.WithSkipBlankLines(cfg.SkipBlankLines))
}

func newWordTokenizer() *markov.WordTokenizer {
	return markov.NewWordTokenizer()
}

// runSession trains a model on corpus and runs the interactive or batch
// generation loop on it.
func runSession[T comparable](ctx context.Context, s *session, corpus io.Reader, tokenizer markov.Tokenizer[T]) error {
	model, err := markov.NewModel[T](s.config.Model.Order)
	if err != nil {
		return err
	}
	model.SetLogger(s.logger)

	sequences, err := model.Train(ctx, corpus, tokenizer)
	if err != nil {
		return fmt.Errorf("failed to train model: %w", err)
	}

	stats := model.Stats()
	s.logger.Info("Model ready",
		slog.String("sequences", humanize.Comma(int64(sequences))),
		slog.String("contexts", humanize.Comma(int64(stats.Contexts))),
		slog.String("transitions", humanize.Comma(int64(stats.TotalTransitions))),
		slog.String("total_frequency", humanize.Comma(int64(stats.TotalFrequency))),
		slog.String("starting_symbols", humanize.Comma(int64(stats.StartingSymbols))),
	)
	if stats.Contexts == 0 && stats.TotalTermini == 0 {
		s.logger.Warn("Corpus is empty, every generated sequence will be empty")
	}

	opts := []markov.GenerateOption{markov.WithMaxLength(s.config.Generate.MaxLength)}
	if seed := s.config.Generate.Seed; seed != 0 {
		opts = append(opts, markov.WithRand(rand.New(rand.NewPCG(seed, seed))))
	}

	next := func() string {
		return tokenizer.Render(model.GenerateSlice(opts...))
	}

	if s.interactive {
		return s.interactiveLoop(ctx, next)
	}
	return s.batchLoop(ctx, next)
}

// batchLoop prints the configured number of sequences, one per line.
func (s *session) batchLoop(ctx context.Context, next func() string) error {
	w := bufio.NewWriter(s.stdout)
	for i := 0; i < s.config.Generate.Count; i++ {
		if err := ctx.Err(); err != nil {
			_ = w.Flush()
			return err
		}
		if _, err := fmt.Fprintln(w, next()); err != nil {
			return err
		}
	}
	return w.Flush()
}

// interactiveLoop prints a sequence and waits for a line of input before
// printing the next one. It returns when input ends or ctx is cancelled.
func (s *session) interactiveLoop(ctx context.Context, next func() string) error {
	lines := make(chan struct{})
	// The reader can stay blocked in Scan after ctx is cancelled. It is left
	// behind, as the process exits right after this loop returns.
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(s.stdin)
		for scanner.Scan() {
			select {
			case lines <- struct{}{}:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		if _, err := fmt.Fprint(s.stdout, next()); err != nil {
			return err
		}
		select {
		case _, ok := <-lines:
			if !ok {
				return nil
			}
		case <-ctx.Done():
			return nil
		}
	}
}
