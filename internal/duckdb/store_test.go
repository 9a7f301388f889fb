package duckdb

import (
	"context"
	"math"
	"path/filepath"
	"testing"

	"github.com/tinytelemetry/slowlog/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore("")
	if err != nil {
		t.Fatalf("NewStore(\"\") failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func testReport() *model.Report {
	return &model.Report{
		ID:     "run-1",
		Format: "mysql",
		Source: "slow.log",
		Sheets: []model.Sheet{
			{
				Name: "Detailed Metrics",
				Columns: []model.Column{
					{Name: "Query_time (ms)", Type: model.ColumnFloat},
					{Name: "Query", Type: model.ColumnText},
				},
				Rows: [][]interface{}{
					{0.2, "SELECT 1"},
					{4.5, "SELECT 2"},
				},
			},
			{
				Name: "Aggregate Results",
				Columns: []model.Column{
					{Name: "Normalized_Query", Type: model.ColumnText},
					{Name: "Executions", Type: model.ColumnInt},
				},
			},
		},
		Diagnostics: model.Diagnostics{"Skipped log entry 3: missing [Query]"},
	}
}

func TestWriteReport(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.WriteReport(ctx, testReport()); err != nil {
		t.Fatalf("WriteReport: %v", err)
	}

	n, err := store.RowCount(ctx, "Detailed Metrics")
	if err != nil {
		t.Fatalf("RowCount: %v", err)
	}
	if n != 2 {
		t.Errorf("RowCount(Detailed Metrics) = %d, want 2", n)
	}

	n, err = store.RowCount(ctx, "Aggregate Results")
	if err != nil {
		t.Fatalf("RowCount: %v", err)
	}
	if n != 0 {
		t.Errorf("RowCount(Aggregate Results) = %d, want 0", n)
	}

	var total float64
	if err := store.DB().QueryRow(`SELECT SUM("Query_time (ms)") FROM detailed_metrics`).Scan(&total); err != nil {
		t.Fatalf("sum query time: %v", err)
	}
	if math.Abs(total-4.7) > 1e-9 {
		t.Errorf("sum = %v, want 4.7", total)
	}

	format, source, diags, err := store.Meta(ctx)
	if err != nil {
		t.Fatalf("Meta: %v", err)
	}
	if format != "mysql" || source != "slow.log" {
		t.Errorf("Meta = (%q, %q), want (mysql, slow.log)", format, source)
	}
	if len(diags) != 1 || diags[0] != "Skipped log entry 3: missing [Query]" {
		t.Errorf("diagnostics = %v", diags)
	}

	var id string
	if err := store.DB().QueryRow("SELECT report_id FROM report_meta").Scan(&id); err != nil {
		t.Fatalf("report_id: %v", err)
	}
	if id != "run-1" {
		t.Errorf("report_id = %q, want run-1", id)
	}
}

func TestWriteReportReplacesPrevious(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.WriteReport(ctx, testReport()); err != nil {
		t.Fatalf("first WriteReport: %v", err)
	}
	r := testReport()
	r.Sheets[0].Rows = r.Sheets[0].Rows[:1]
	r.Diagnostics = nil
	if err := store.WriteReport(ctx, r); err != nil {
		t.Fatalf("second WriteReport: %v", err)
	}

	n, err := store.RowCount(ctx, "Detailed Metrics")
	if err != nil {
		t.Fatalf("RowCount: %v", err)
	}
	if n != 1 {
		t.Errorf("RowCount = %d, want 1", n)
	}
	_, _, diags, err := store.Meta(ctx)
	if err != nil {
		t.Fatalf("Meta: %v", err)
	}
	if len(diags) != 0 {
		t.Errorf("diagnostics = %v, want none", diags)
	}
}

func TestNewStoreCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "report.duckdb")
	store, err := NewStore(path)
	if err != nil {
		t.Fatalf("NewStore(%q): %v", path, err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}
