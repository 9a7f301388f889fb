package model

// Category is the classification outcome of one raw log line.
type Category int

const (
	CategoryUnparseable Category = iota
	CategorySlowQuery
	CategoryErrorEvent
	CategoryOther
)

// String returns the display name of the category.
func (c Category) String() string {
	switch c {
	case CategorySlowQuery:
		return "slow-query"
	case CategoryErrorEvent:
		return "error"
	case CategoryOther:
		return "other"
	default:
		return "unparseable"
	}
}

// SlowQuery is one slow-query line of a MongoDB JSON log.
// Command and Filter hold the rendered JSON text of the structural values.
type SlowQuery struct {
	Command      string
	Collection   string
	AppName      string
	Duration     int64
	KeysExamined int64
	DocsExamined int64
	NumYields    int64
	NReturned    int64
	Filter       string
	Plan         string
	Timestamp    string
	Line         int // 1-based source line
}

// SlowEntry is one accepted entry of a MySQL slow-query text log.
// LockTime, RowsSent and RowsExamined keep the captured text as-is.
type SlowEntry struct {
	Time            string
	UserHost        string
	QueryTimeMs     float64
	LockTime        string
	RowsSent        string
	RowsExamined    string
	Query           string
	NormalizedQuery string
	Entry           int // 1-based entry index
}

// QueryPatternStats aggregates every record sharing one normalized pattern.
type QueryPatternStats struct {
	Pattern     string
	Executions  int64
	MinDuration float64
	MaxDuration float64
	AvgDuration float64
	SampleQuery string
}

// ErrorPatternStats aggregates error events sharing one
// (message, codeName, errmsg) identity.
type ErrorPatternStats struct {
	Message      string
	ErrorType    string
	ErrorMessage string
	TotalCount   int64
	SampleLine   string
	FirstLine    int
}

// Diagnostics collects non-fatal parsing messages in arrival order.
type Diagnostics []string
