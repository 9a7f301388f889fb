// Package sqlite writes reports into a single-file SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"github.com/tinytelemetry/slowlog/internal/logging"
	"github.com/tinytelemetry/slowlog/internal/model"
	"github.com/tinytelemetry/slowlog/internal/sheetsql"
)

var dialect = sheetsql.Dialect{Text: "TEXT", Int: "INTEGER", Float: "REAL"}

const schema = `
CREATE TABLE IF NOT EXISTS report_meta (
	report_id TEXT NOT NULL,
	format TEXT NOT NULL,
	source TEXT NOT NULL,
	sheet_count INTEGER NOT NULL,
	diagnostic_count INTEGER NOT NULL,
	generated_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE IF NOT EXISTS report_diagnostics (
	seq INTEGER PRIMARY KEY,
	message TEXT NOT NULL
);`

// Store is an open SQLite report database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path and ensures the metadata
// tables exist. An empty path opens an in-memory database.
func Open(path string) (*Store, error) {
	dsn := ":memory:"
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, errors.Wrap(err, "Failed to create database directory")
		}
		dsn = path + "?_pragma=busy_timeout(10000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "Failed to open sqlite")
	}
	// One connection keeps an in-memory database alive between statements.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=DELETE;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			logging.Logger.WithError(err).WithField("pragma", p).Warn("Failed to set pragma")
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "Failed to initialize schema")
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// WriteReport replaces the stored report with r in one transaction.
func (s *Store) WriteReport(ctx context.Context, r *model.Report) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin report tx")
	}
	defer tx.Rollback()

	for _, stmt := range []string{"DELETE FROM report_meta", "DELETE FROM report_diagnostics"} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return errors.Wrap(err, "clearing report metadata")
		}
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO report_meta (report_id, format, source, sheet_count, diagnostic_count) VALUES (?, ?, ?, ?, ?)",
		r.ID, r.Format, r.Source, len(r.Sheets), len(r.Diagnostics)); err != nil {
		return errors.Wrap(err, "inserting report metadata")
	}

	if len(r.Diagnostics) > 0 {
		stmt, err := tx.PrepareContext(ctx, "INSERT INTO report_diagnostics (seq, message) VALUES (?, ?)")
		if err != nil {
			return errors.Wrap(err, "preparing diagnostic insert")
		}
		defer stmt.Close()
		for i, msg := range r.Diagnostics {
			if _, err := stmt.ExecContext(ctx, i+1, msg); err != nil {
				return errors.Wrap(err, "inserting diagnostic")
			}
		}
	}

	for _, sheet := range r.Sheets {
		if err := sheetsql.WriteSheet(ctx, tx, sheet, dialect); err != nil {
			return errors.Wrapf(err, "writing sheet %q", sheet.Name)
		}
	}
	return errors.Wrap(tx.Commit(), "commit report tx")
}

// RowCount returns the number of rows stored for a sheet.
func (s *Store) RowCount(ctx context.Context, sheet string) (int64, error) {
	n, err := sheetsql.CountRows(ctx, s.db, sheet)
	return n, errors.Wrapf(err, "counting rows of %q", sheet)
}

// Diagnostics returns the stored diagnostics in their original order.
func (s *Store) Diagnostics(ctx context.Context) (model.Diagnostics, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT message FROM report_diagnostics ORDER BY seq")
	if err != nil {
		return nil, errors.Wrap(err, "reading diagnostics")
	}
	defer rows.Close()

	var diags model.Diagnostics
	for rows.Next() {
		var msg string
		if err := rows.Scan(&msg); err != nil {
			return nil, errors.Wrap(err, "scanning diagnostic")
		}
		diags = append(diags, msg)
	}
	return diags, errors.Wrap(rows.Err(), "reading diagnostics")
}
