package report

import (
	"sort"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/tinytelemetry/slowlog/internal/mongolog"
	"github.com/tinytelemetry/slowlog/internal/mysqllog"
)

// ErrUnknownFormat is returned for a log format with no parser.
var ErrUnknownFormat = errors.New("unknown log format")

// ParseOptions tune the extractors.
type ParseOptions struct {
	SnippetLen int
}

type parseFunc func(content string, opts ParseOptions) *Report

var parsers = map[string]parseFunc{
	FormatMongo: func(content string, _ ParseOptions) *Report {
		return Mongo(mongolog.ParseLines(mongolog.SplitLines(content)))
	},
	FormatMySQL: func(content string, opts ParseOptions) *Report {
		return MySQL(mysqllog.Parse(content, mysqllog.Options{SnippetLen: opts.SnippetLen}))
	},
}

// Formats lists the supported log formats.
func Formats() []string {
	names := make([]string, 0, len(parsers))
	for name := range parsers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Parse runs the extractor for format over content and assembles its report
// under a fresh run ID.
func Parse(format, content, source string, opts ParseOptions) (*Report, error) {
	parse, ok := parsers[format]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownFormat, "%q", format)
	}
	r := parse(content, opts)
	r.ID = uuid.NewString()
	r.Source = source
	return r, nil
}

// DownloadName is the attachment name used for a format's workbook.
func DownloadName(format string) string {
	return format + "_log_report.xlsx"
}
