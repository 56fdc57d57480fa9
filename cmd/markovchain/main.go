// markovchain trains a Markov chain on a corpus and prints generated
// sequences. By default every line of ./wordlist.txt is a word, and new words
// are generated letter by letter from a model of order 3.
//
// When standard input is a terminal, a new word is printed every time the
// return key is pressed. Otherwise a fixed number of words is printed, one per
// line.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"
)

var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	interactive := isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr, interactive); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// run parses flags, loads the configuration, trains the model, and runs the
// generation loop until it is done or ctx is cancelled.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer, interactive bool) error {
	var configPath string
	var showVersion bool

	flagSet := pflag.NewFlagSet("markovchain", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.StringVar(&configPath, "config", "./markovchain.json", "path to the JSON config file (created with defaults if missing)")
	flagSet.Int("order", 0, "number of preceding symbols used as context")
	flagSet.String("tokenizer", "", "how to split the corpus: chars (one word per line) or words (sentences)")
	flagSet.String("source", "", "corpus source: file or sqlite")
	flagSet.String("corpus", "", "path to the corpus file or SQLite database")
	flagSet.String("query", "", "SQL query selecting one text column per training sequence")
	flagSet.Int("count", 0, "number of sequences to print when not interactive")
	flagSet.Int("max-length", 0, "stop printing a sequence after this many symbols (0 for no limit)")
	flagSet.Uint64("seed", 0, "seed for the random source (0 for a random seed)")
	flagSet.String("log-level", "", "log level: debug, info, warn, or error")
	flagSet.BoolVar(&showVersion, "version", false, "print version information and exit")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	if showVersion {
		_, _ = fmt.Fprintf(stdout, "markovchain %s (commit %s, built %s)\n", Version, Commit, BuildDate)
		return nil
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err = applyFlags(config, flagSet); err != nil {
		return err
	}
	if err = config.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: parseLogLevel(config.LogLevel)}))

	corpus, err := openCorpus(ctx, config.Corpus)
	if err != nil {
		return err
	}
	defer func(corpus io.Closer) {
		_ = corpus.Close()
	}(corpus)

	logger.Info("Training model",
		slog.String("source", config.Corpus.Source),
		slog.String("corpus", config.Corpus.Path),
		slog.Int("order", config.Model.Order),
		slog.String("tokenizer", config.Model.Tokenizer),
	)

	sess := &session{
		config:      config,
		logger:      logger,
		stdin:       stdin,
		stdout:      stdout,
		interactive: interactive,
	}

	switch config.Model.Tokenizer {
	case tokenizerWords:
		return runSession[string](ctx, sess, corpus, newWordTokenizer())
	default:
		return runSession[rune](ctx, sess, corpus, newCharTokenizer(config.Model))
	}
}

// applyFlags copies every flag set on the command line over the config value.
func applyFlags(config *Config, flagSet *pflag.FlagSet) error {
	var err error
	if flagSet.Changed("order") {
		if config.Model.Order, err = flagSet.GetInt("order"); err != nil {
			return err
		}
	}
	if flagSet.Changed("tokenizer") {
		if config.Model.Tokenizer, err = flagSet.GetString("tokenizer"); err != nil {
			return err
		}
	}
	if flagSet.Changed("source") {
		if config.Corpus.Source, err = flagSet.GetString("source"); err != nil {
			return err
		}
	}
	if flagSet.Changed("corpus") {
		if config.Corpus.Path, err = flagSet.GetString("corpus"); err != nil {
			return err
		}
	}
	if flagSet.Changed("query") {
		if config.Corpus.Query, err = flagSet.GetString("query"); err != nil {
			return err
		}
	}
	if flagSet.Changed("count") {
		if config.Generate.Count, err = flagSet.GetInt("count"); err != nil {
			return err
		}
	}
	if flagSet.Changed("max-length") {
		if config.Generate.MaxLength, err = flagSet.GetInt("max-length"); err != nil {
			return err
		}
	}
	if flagSet.Changed("seed") {
		if config.Generate.Seed, err = flagSet.GetUint64("seed"); err != nil {
			return err
		}
	}
	if flagSet.Changed("log-level") {
		if config.LogLevel, err = flagSet.GetString("log-level"); err != nil {
			return err
		}
	}
	return nil
}
