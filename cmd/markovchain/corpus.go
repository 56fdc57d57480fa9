package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"strings"
)

// openCorpus opens the configured training data as a stream of lines, one
// training sequence per line.
func openCorpus(ctx context.Context, cfg *CorpusConfig) (io.ReadCloser, error) {
	switch cfg.Source {
	case sourceFile:
		f, err := os.Open(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open corpus file: %w", err)
		}
		return f, nil
	case sourceSQLite:
		return openSQLiteCorpus(ctx, cfg.Path, cfg.Query)
	default:
		return nil, fmt.Errorf("unknown corpus source %q", cfg.Source)
	}
}

// openSQLiteCorpus runs query against the database at dataSource and streams
// every row as a line of text. The query must select exactly one column.
func openSQLiteCorpus(ctx context.Context, dataSource, query string) (io.ReadCloser, error) {
	db, err := initDB(dataSource)
	if err != nil {
		return nil, fmt.Errorf("failed to open corpus database: %w", err)
	}

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to query corpus: %w", err)
	}

	return &rowsReader{db: db, rows: rows}, nil
}

// rowsReader adapts query results to an io.Reader of newline-terminated rows.
// Newlines inside a value are replaced with spaces so every row stays one
// sequence.
type rowsReader struct {
	db      *sql.DB
	rows    *sql.Rows
	pending string
	done    bool
}

func (r *rowsReader) Read(p []byte) (int, error) {
	for r.pending == "" {
		if r.done {
			return 0, io.EOF
		}
		if !r.rows.Next() {
			r.done = true
			if err := r.rows.Err(); err != nil {
				return 0, fmt.Errorf("failed to read corpus row: %w", err)
			}
			continue
		}
		var value sql.NullString
		if err := r.rows.Scan(&value); err != nil {
			return 0, fmt.Errorf("failed to scan corpus row: %w", err)
		}
		r.pending = strings.ReplaceAll(value.String, "\n", " ") + "\n"
	}

	n := copy(p, r.pending)
	r.pending = r.pending[n:]
	return n, nil
}

func (r *rowsReader) Close() error {
	_ = r.rows.Close()
	return r.db.Close()
}
