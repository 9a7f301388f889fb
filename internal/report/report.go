// Package report turns extractor results into named sheets and writes them
// as xlsx workbooks, DuckDB databases or YAML documents.
package report

import (
	"github.com/tinytelemetry/slowlog/internal/model"
	"github.com/tinytelemetry/slowlog/internal/mongolog"
	"github.com/tinytelemetry/slowlog/internal/mysqllog"
)

// Report is the set of sheets produced from one parsed log.
type Report = model.Report

const (
	FormatMongo = "mongo"
	FormatMySQL = "mysql"
)

// Sheet names.
const (
	SheetDetailed   = "Detailed Metrics"
	SheetQueryStats = "Query Stats"
	SheetNonSlow    = "Non-Slow Queries"
	SheetErrors     = "Error Stats"
	SheetAggregates = "Aggregate Results"
)

func text(name string) model.Column { return model.Column{Name: name, Type: model.ColumnText} }
func integer(name string) model.Column { return model.Column{Name: name, Type: model.ColumnInt} }
func float(name string) model.Column { return model.Column{Name: name, Type: model.ColumnFloat} }

var (
	mongoDetailedColumns = []model.Column{
		text("Command"), text("Collection"), text("AppName"), integer("Duration(ms)"),
		integer("KeysExamined"), integer("DocsExamined"), integer("numYields"), integer("nreturned"),
		text("Filter"), text("Plan"), text("timestamp"),
	}
	mongoStatsColumns = []model.Column{
		text("Query Pattern"), integer("Executions"), float("Min Duration(ms)"),
		float("Max Duration(ms)"), float("Avg Duration(ms)"), text("Sample Full Query"),
	}
	mongoNonSlowColumns = []model.Column{text("LogLine")}
	mongoErrorColumns   = []model.Column{
		text("Message"), text("ErrorType"), text("ErrorMessage"), integer("TotalCount"),
		text("SampleLine"), integer("OriginalLineNumber"),
	}

	mysqlDetailedColumns = []model.Column{
		text("Time"), text("User@Host"), float("Query_time (ms)"), text("Lock_time"),
		text("Rows_sent"), text("Rows_examined"), text("Query"), text("Normalized_Query"),
	}
	mysqlAggregateColumns = []model.Column{
		text("Normalized_Query"), integer("Executions"), float("Min_Query_time_ms"),
		float("Max_Query_time_ms"), float("Avg_Query_time_ms"), text("Sample_Query"),
	}
)

// Mongo builds the four-sheet report of a JSON log.
func Mongo(res *mongolog.Result) *Report {
	detailed := model.Sheet{Name: SheetDetailed, Columns: mongoDetailedColumns}
	for _, q := range res.SlowQueries {
		detailed.Rows = append(detailed.Rows, []interface{}{
			q.Command, q.Collection, q.AppName, q.Duration,
			q.KeysExamined, q.DocsExamined, q.NumYields, q.NReturned,
			q.Filter, q.Plan, q.Timestamp,
		})
	}

	nonSlow := model.Sheet{Name: SheetNonSlow, Columns: mongoNonSlowColumns}
	for _, line := range res.Uncategorized {
		nonSlow.Rows = append(nonSlow.Rows, []interface{}{line})
	}

	errs := model.Sheet{Name: SheetErrors, Columns: mongoErrorColumns}
	for _, e := range res.Errors {
		errs.Rows = append(errs.Rows, []interface{}{
			e.Message, e.ErrorType, e.ErrorMessage, e.TotalCount, e.SampleLine, int64(e.FirstLine),
		})
	}

	return &Report{
		Format:      FormatMongo,
		Sheets:      []model.Sheet{detailed, statsSheet(SheetQueryStats, mongoStatsColumns, res.QueryStats), nonSlow, errs},
		Diagnostics: res.Diagnostics,
	}
}

// MySQL builds the two-sheet report of a text log.
func MySQL(res *mysqllog.Result) *Report {
	detailed := model.Sheet{Name: SheetDetailed, Columns: mysqlDetailedColumns}
	for _, e := range res.Entries {
		detailed.Rows = append(detailed.Rows, []interface{}{
			e.Time, e.UserHost, e.QueryTimeMs, e.LockTime,
			e.RowsSent, e.RowsExamined, e.Query, e.NormalizedQuery,
		})
	}

	return &Report{
		Format:      FormatMySQL,
		Sheets:      []model.Sheet{detailed, statsSheet(SheetAggregates, mysqlAggregateColumns, res.Aggregates)},
		Diagnostics: res.Diagnostics,
	}
}

func statsSheet(name string, columns []model.Column, stats []model.QueryPatternStats) model.Sheet {
	sheet := model.Sheet{Name: name, Columns: columns}
	for _, s := range stats {
		sheet.Rows = append(sheet.Rows, []interface{}{
			s.Pattern, s.Executions, s.MinDuration, s.MaxDuration, s.AvgDuration, s.SampleQuery,
		})
	}
	return sheet
}
