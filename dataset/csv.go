package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

// LoadTable loads a feature table from a CSV file. The file must have a
// header row containing every column named in columns; extra columns are
// ignored and rows keep the file's chronological order.
func LoadTable(filename string, columns []string) (*Table, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return LoadTableFromReader(file, columns)
}

// LoadTableFromReader loads a feature table from an io.Reader.
func LoadTableFromReader(r io.Reader, columns []string) (*Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	indices := make([]int, len(columns))
	for i, name := range columns {
		indices[i] = -1
		for j, h := range header {
			if h == name {
				indices[i] = j
				break
			}
		}
		if indices[i] == -1 {
			return nil, fmt.Errorf("column %q not found in header", name)
		}
	}

	var rows [][]float64
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line++

		row := make([]float64, len(columns))
		for i, j := range indices {
			v, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				return nil, fmt.Errorf("line %d, column %q: %w", line, columns[i], err)
			}
			row[i] = v
		}
		rows = append(rows, row)
	}

	return &Table{Columns: append([]string(nil), columns...), Rows: rows}, nil
}
