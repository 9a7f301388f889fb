// Package mongolog extracts slow queries, error events and other lines from
// MongoDB structured (JSON-per-line) logs.
package mongolog

import (
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/tinytelemetry/slowlog/internal/aggregate"
	"github.com/tinytelemetry/slowlog/internal/model"
	"github.com/tinytelemetry/slowlog/internal/pattern"
)

// Result holds the tables produced from one log.
type Result struct {
	SlowQueries   []model.SlowQuery
	QueryStats    []model.QueryPatternStats
	Uncategorized []string
	Errors        []model.ErrorPatternStats
	Diagnostics   model.Diagnostics
	Counts        map[model.Category]int
}

// Empty reports whether no table received a row.
func (r *Result) Empty() bool {
	return len(r.SlowQueries) == 0 && len(r.Uncategorized) == 0 && len(r.Errors) == 0
}

// SplitLines splits content into lines the way a line reader does: a trailing
// "\r" is dropped from each line and a final newline does not yield an extra
// empty line.
func SplitLines(content string) []string {
	if content == "" {
		return nil
	}
	content = strings.ToValidUTF8(content, "�")
	lines := strings.Split(strings.TrimSuffix(content, "\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// Classify decides which table a decoded line belongs to.
func Classify(line string, doc bson.D) model.Category {
	if strings.Contains(line, "Slow query") {
		return model.CategorySlowQuery
	}
	if _, ok := Lookup(doc, "msg"); ok {
		s, _ := Lookup(doc, "s")
		errDoc, _ := Lookup(doc, "attr", "error")
		if s == "E" && IsDocument(errDoc) {
			return model.CategoryErrorEvent
		}
	}
	return model.CategoryOther
}

// ParseLines classifies every line and builds the result tables.
// Malformed lines are reported in Diagnostics and never stop the run.
func ParseLines(lines []string) *Result {
	p := &parser{
		result: &Result{Counts: make(map[model.Category]int)},
		agg:    aggregate.New(),
		errors: make(map[string]*model.ErrorPatternStats),
	}
	for i, line := range lines {
		p.parseLine(i+1, line)
	}
	return p.finish()
}

type parser struct {
	result     *Result
	agg        *aggregate.Aggregator
	errors     map[string]*model.ErrorPatternStats
	errorOrder []string
}

func (p *parser) parseLine(n int, line string) {
	doc, err := Decode(line)
	if err != nil {
		p.result.Counts[model.CategoryUnparseable]++
		p.diag("Line %d: Invalid JSON. Skipped.", n)
		return
	}

	category := Classify(line, doc)
	p.result.Counts[category]++
	switch category {
	case model.CategorySlowQuery:
		p.addSlowQuery(n, line, doc)
	case model.CategoryErrorEvent:
		p.addError(n, line, doc)
	default:
		p.result.Uncategorized = append(p.result.Uncategorized, strings.TrimSpace(line))
	}
}

func (p *parser) addSlowQuery(n int, line string, doc bson.D) {
	command, ok := Lookup(doc, "attr", "command")
	if !ok {
		command = bson.D{}
	}
	app, coll := splitNamespace(ExtractStringField(doc, "attr", "ns"), model.NotAvailable)
	rendered := Render(command)

	q := model.SlowQuery{
		Command:      rendered,
		Collection:   coll,
		AppName:      app,
		Duration:     ExtractIntField(doc, "attr", "durationMillis"),
		KeysExamined: ExtractIntField(doc, "attr", "keysExamined"),
		DocsExamined: ExtractIntField(doc, "attr", "docsExamined"),
		NumYields:    ExtractIntField(doc, "attr", "numYields"),
		NReturned:    ExtractIntField(doc, "attr", "nreturned"),
		Filter:       extractFilter(command),
		Plan:         ExtractStringField(doc, "attr", "planSummary"),
		Timestamp:    extractTimestamp(doc),
		Line:         n,
	}
	p.result.SlowQueries = append(p.result.SlowQueries, q)
	p.agg.Add(pattern.JSONCommand(rendered), float64(q.Duration), rendered)
}

func (p *parser) addError(n int, line string, doc bson.D) {
	msg := valueOr(ExtractStringField(doc, "msg"))
	codeName := valueOr(ExtractStringField(doc, "attr", "error", "codeName"))
	errmsg := valueOr(ExtractStringField(doc, "attr", "error", "errmsg"))

	key := msg + "|" + codeName + "|" + errmsg
	if stats, ok := p.errors[key]; ok {
		stats.TotalCount++
		return
	}
	p.errors[key] = &model.ErrorPatternStats{
		Message:      msg,
		ErrorType:    codeName,
		ErrorMessage: errmsg,
		TotalCount:   1,
		SampleLine:   strings.TrimSpace(line),
		FirstLine:    n,
	}
	p.errorOrder = append(p.errorOrder, key)
}

func (p *parser) finish() *Result {
	if p.agg.Len() > 0 {
		stats, err := p.agg.Finalize()
		if err != nil {
			p.diag("Error creating query statistics: %v", err)
		} else {
			aggregate.SortByExecutions(stats)
			p.result.QueryStats = stats
		}
	}
	for _, key := range p.errorOrder {
		p.result.Errors = append(p.result.Errors, *p.errors[key])
	}
	return p.result
}

func (p *parser) diag(format string, args ...interface{}) {
	p.result.Diagnostics = append(p.result.Diagnostics, fmt.Sprintf(format, args...))
}

func valueOr(s string) string {
	if s == "" {
		return model.NotAvailable
	}
	return s
}

// filterRule extracts the filter shown for a command carrying key.
type filterRule struct {
	key     string
	extract func(value interface{}) string
}

// filterRules are tried in order; the first key present wins.
var filterRules = []filterRule{
	{key: "pipeline", extract: pipelineMatch},
	{key: "filter", extract: Render},
}

func extractFilter(command interface{}) string {
	for _, rule := range filterRules {
		if v, ok := Lookup(command, rule.key); ok {
			return rule.extract(v)
		}
	}
	return Render(bson.D{})
}

// pipelineMatch returns the $match of the first stage. Any other pipeline
// shape yields the complex pipeline note.
func pipelineMatch(value interface{}) string {
	var stages []interface{}
	switch v := value.(type) {
	case bson.A:
		stages = v
	case []interface{}:
		stages = v
	}
	if len(stages) > 0 {
		if match, ok := Lookup(stages[0], "$match"); ok {
			return Render(match)
		}
	}
	return model.ComplexPipelineNote
}
