// Package sheetsql stores report sheets as SQL tables, one table per sheet.
package sheetsql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"unicode"

	"github.com/tinytelemetry/slowlog/internal/model"
)

// Dialect names the column types of one database engine.
type Dialect struct {
	Text  string
	Int   string
	Float string
}

func (d Dialect) typeName(t model.ColumnType) string {
	switch t {
	case model.ColumnInt:
		return d.Int
	case model.ColumnFloat:
		return d.Float
	default:
		return d.Text
	}
}

// TableName maps a sheet name to its table: lower case, with every run of
// other characters collapsed to one underscore.
func TableName(sheet string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(sheet) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r)
			pendingSep = false
			continue
		}
		pendingSep = true
	}
	return b.String()
}

// QuoteIdent quotes an identifier for both DuckDB and SQLite.
func QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// CreateTable returns the DDL of the sheet's table.
func CreateTable(sheet model.Sheet, d Dialect) string {
	defs := make([]string, len(sheet.Columns))
	for i, c := range sheet.Columns {
		defs[i] = QuoteIdent(c.Name) + " " + d.typeName(c.Type)
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", QuoteIdent(TableName(sheet.Name)), strings.Join(defs, ", "))
}

// WriteSheet replaces the sheet's table inside tx and inserts every row.
func WriteSheet(ctx context.Context, tx *sql.Tx, sheet model.Sheet, d Dialect) error {
	table := QuoteIdent(TableName(sheet.Name))
	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+table); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, CreateTable(sheet, d)); err != nil {
		return err
	}
	if len(sheet.Rows) == 0 {
		return nil
	}

	marks := strings.TrimSuffix(strings.Repeat("?, ", len(sheet.Columns)), ", ")
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s VALUES (%s)", table, marks))
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, row := range sheet.Rows {
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			return err
		}
	}
	return nil
}

// CountRows returns the number of rows stored for a sheet.
func CountRows(ctx context.Context, db *sql.DB, sheet string) (int64, error) {
	var n int64
	err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+QuoteIdent(TableName(sheet))).Scan(&n)
	return n, err
}
