package duckdb

import (
	"context"

	"github.com/pkg/errors"

	"github.com/tinytelemetry/slowlog/internal/model"
	"github.com/tinytelemetry/slowlog/internal/sheetsql"
)

var dialect = sheetsql.Dialect{Text: "VARCHAR", Int: "BIGINT", Float: "DOUBLE"}

// WriteReport replaces the stored report with r in a single transaction.
// Each sheet becomes one table; metadata and diagnostics go to the
// report_meta and report_diagnostics tables.
func (s *Store) WriteReport(ctx context.Context, r *model.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, s.QueryTimeout)
	defer cancel()

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
	for i, msg := range r.Diagnostics {
		if _, err := tx.ExecContext(ctx, "INSERT INTO report_diagnostics (seq, message) VALUES (?, ?)", i+1, msg); err != nil {
			return errors.Wrap(err, "inserting diagnostic")
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
	ctx, cancel := context.WithTimeout(ctx, s.QueryTimeout)
	defer cancel()

	n, err := sheetsql.CountRows(ctx, s.db, sheet)
	return n, errors.Wrapf(err, "counting rows of %q", sheet)
}

// Meta returns the stored report format, source and diagnostics.
func (s *Store) Meta(ctx context.Context) (format, source string, diags model.Diagnostics, err error) {
	ctx, cancel := context.WithTimeout(ctx, s.QueryTimeout)
	defer cancel()

	if err = s.db.QueryRowContext(ctx, "SELECT format, source FROM report_meta LIMIT 1").Scan(&format, &source); err != nil {
		return "", "", nil, errors.Wrap(err, "reading report metadata")
	}

	rows, err := s.db.QueryContext(ctx, "SELECT message FROM report_diagnostics ORDER BY seq")
	if err != nil {
		return "", "", nil, errors.Wrap(err, "reading diagnostics")
	}
	defer rows.Close()
	for rows.Next() {
		var msg string
		if err = rows.Scan(&msg); err != nil {
			return "", "", nil, errors.Wrap(err, "scanning diagnostic")
		}
		diags = append(diags, msg)
	}
	return format, source, diags, errors.Wrap(rows.Err(), "reading diagnostics")
}
