// Package mysqllog extracts entries from MySQL slow-query text logs and
// groups them by normalized statement.
package mysqllog

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/tinytelemetry/slowlog/internal/aggregate"
	"github.com/tinytelemetry/slowlog/internal/model"
	"github.com/tinytelemetry/slowlog/internal/pattern"
)

const entryDelimiter = "# Time: "

// field is one header value captured from an entry.
type field struct {
	name string
	re   *regexp.Regexp
}

var (
	timeField         = field{"Time", regexp.MustCompile(`# Time: (.*)`)}
	userHostField     = field{"User@Host", regexp.MustCompile(`# User@Host: (.*?)\s+(?:thread_id|Id):`)}
	queryTimeField    = field{"Query_time", regexp.MustCompile(`# Query_time: (.*?)\s+Lock_time:`)}
	lockTimeField     = field{"Lock_time", regexp.MustCompile(`Lock_time: (.*?)\s+Rows_sent:`)}
	rowsSentField     = field{"Rows_sent", regexp.MustCompile(`Rows_sent: (.*?)\s+Rows_examined:`)}
	rowsExaminedField = field{"Rows_examined", regexp.MustCompile(`Rows_examined: (.*?)\n`)}
	queryField        = field{"Query", regexp.MustCompile(`(?s)SET timestamp=.*?;\n(.*)`)}

	entryFields = []field{
		timeField, userHostField, queryTimeField, lockTimeField,
		rowsSentField, rowsExaminedField, queryField,
	}
)

// Result holds the detailed and aggregated tables produced from one log.
type Result struct {
	Entries     []model.SlowEntry
	Aggregates  []model.QueryPatternStats
	Diagnostics model.Diagnostics
}

// Empty reports whether no entry was accepted.
func (r *Result) Empty() bool {
	return len(r.Entries) == 0
}

// Options tune diagnostics output.
type Options struct {
	// SnippetLen bounds the entry excerpt quoted for skipped entries.
	SnippetLen int
}

// ParseContent parses a whole slow-query log with default options.
func ParseContent(content string) *Result {
	return Parse(content, Options{})
}

// Parse splits content into entries, captures their header fields and query,
// and aggregates accepted entries by normalized query. Entries missing any
// field are skipped with a diagnostic.
func Parse(content string, opts Options) *Result {
	if opts.SnippetLen <= 0 {
		opts.SnippetLen = model.DefaultSnippetLen
	}

	res := &Result{}
	if strings.TrimSpace(content) == "" {
		res.diag("Log content seems empty or not structured as expected (log content is empty or not in the expected format).")
		return res
	}

	agg := aggregate.New()
	segments := strings.Split(content, entryDelimiter)
	for i, segment := range segments[1:] {
		n := i + 1
		entry, ok := res.parseEntry(n, entryDelimiter+segment, opts)
		if !ok {
			continue
		}
		res.Entries = append(res.Entries, entry)
		agg.Add(entry.NormalizedQuery, entry.QueryTimeMs, entry.Query)
	}

	if len(res.Entries) == 0 {
		res.diag("No valid log entries were parsed.")
		return res
	}

	stats, err := agg.Finalize()
	if err != nil {
		res.diag("Error during aggregation: %v", err)
		return res
	}
	aggregate.SortByPattern(stats)
	aggregate.RoundAverages(stats, 2)
	res.Aggregates = stats
	return res
}

func (r *Result) parseEntry(n int, text string, opts Options) (model.SlowEntry, bool) {
	values := make(map[string]string, len(entryFields))
	var missing, matched []string
	for _, f := range entryFields {
		m := f.re.FindStringSubmatch(text)
		if m == nil {
			missing = append(missing, f.name)
			continue
		}
		matched = append(matched, f.name)
		values[f.name] = strings.TrimSpace(m[1])
	}
	if len(missing) > 0 {
		r.diag("Skipped log entry %d: missing [%s]; matched [%s]. Snippet: %q",
			n, strings.Join(missing, ", "), strings.Join(matched, ", "), snippet(text, opts.SnippetLen))
		return model.SlowEntry{}, false
	}

	seconds, err := strconv.ParseFloat(values[queryTimeField.name], 64)
	if err != nil {
		r.diag("Log entry %d: could not parse Query_time %q, using 0.0.", n, values[queryTimeField.name])
		seconds = 0
	}

	query := values[queryField.name]
	normalized := pattern.SQLStatement(query)
	if query == "" {
		query, normalized = model.QueryNotCaptured, model.QueryNotCaptured
	}

	return model.SlowEntry{
		Time:            values[timeField.name],
		UserHost:        values[userHostField.name],
		QueryTimeMs:     seconds * 1000,
		LockTime:        values[lockTimeField.name],
		RowsSent:        values[rowsSentField.name],
		RowsExamined:    values[rowsExaminedField.name],
		Query:           query,
		NormalizedQuery: normalized,
		Entry:           n,
	}, true
}

func (r *Result) diag(format string, args ...interface{}) {
	r.Diagnostics = append(r.Diagnostics, fmt.Sprintf(format, args...))
}

func snippet(text string, limit int) string {
	runes := []rune(text)
	if len(runes) > limit {
		runes = runes[:limit]
	}
	return string(runes)
}
