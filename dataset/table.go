package dataset

import "fmt"

// Schema returns the column names of an augmented feature table, in order.
// The beta column depends on a benchmark series, so it is only present when
// one is available. The returned slice is freshly allocated on every call.
func Schema(withBeta bool) []string {
	columns := []string{
		"adj_close", "sma", "bandwidth", "%b",
		"momentum", "volatility", "adj_volume",
	}
	if withBeta {
		columns = append(columns, "beta")
	}
	return columns
}

// Table is a chronologically ordered numeric feature table. Row order is
// the time order of the underlying series; every row has one value per
// column.
type Table struct {
	Columns []string
	Rows    [][]float64
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// ColumnIndex returns the index of the named column.
func (t *Table) ColumnIndex(name string) (int, error) {
	for i, c := range t.Columns {
		if c == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("no column named %q", name)
}

// Column extracts column j from a row-major matrix.
func Column(rows [][]float64, j int) []float64 {
	out := make([]float64, len(rows))
	for i, row := range rows {
		out[i] = row[j]
	}
	return out
}
