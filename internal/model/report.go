package model

// ColumnType is the storage type of a report column.
type ColumnType int

const (
	ColumnText ColumnType = iota
	ColumnInt
	ColumnFloat
)

// Column names one report column and the type of its cells.
type Column struct {
	Name string
	Type ColumnType
}

// Sheet is one named table of a report. Each row holds one cell per column:
// string for text, int64 for int and float64 for float columns.
type Sheet struct {
	Name    string
	Columns []Column
	Rows    [][]interface{}
}

// ColumnNames returns the header row.
func (s Sheet) ColumnNames() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return names
}

// Report is the set of sheets produced from one parsed log.
type Report struct {
	ID          string // run identifier, empty until parsed through report.Parse
	Format      string // "mongo" or "mysql"
	Source      string
	Sheets      []Sheet
	Diagnostics Diagnostics
}

// Empty reports whether every sheet has zero rows.
func (r *Report) Empty() bool {
	for _, s := range r.Sheets {
		if len(s.Rows) > 0 {
			return false
		}
	}
	return true
}

// Sheet returns the sheet with the given name.
func (r *Report) Sheet(name string) (Sheet, bool) {
	for _, s := range r.Sheets {
		if s.Name == name {
			return s, true
		}
	}
	return Sheet{}, false
}
