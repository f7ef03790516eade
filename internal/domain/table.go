package domain

// Table is one raw tabular sheet handed to the ingestion pipeline.
// Cells keep whatever typing the source produced (string, []byte,
// float64, int64, time.Time or nil); coercion into Trade fields is the
// ingest layer's job, not the source adapter's.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]any
}

// ColumnIndex returns the position of the named column, -1 when absent.
func (t Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}
