package query

import "strconv"

// Table is a rectangular result set. Column names are unique.
type Table struct {
	Columns []string
	Rows    [][]any
}

// Len returns the number of rows.
func (t Table) Len() int {
	return len(t.Rows)
}

// ColumnIndex returns the position of the named column, or -1.
func (t Table) ColumnIndex(name string) int {
	for i, col := range t.Columns {
		if col == name {
			return i
		}
	}
	return -1
}

// Records returns one column-to-value map per row. It never returns nil.
func (t Table) Records() []map[string]any {
	records := make([]map[string]any, 0, len(t.Rows))
	for _, row := range t.Rows {
		record := make(map[string]any, len(t.Columns))
		for i, col := range t.Columns {
			if i < len(row) {
				record[col] = row[i]
			}
		}
		records = append(records, record)
	}
	return records
}

// uniqueColumns renames repeated column names to name.1, name.2 and so on, so
// every column stays addressable by name.
func uniqueColumns(columns []string) []string {
	out := make([]string, len(columns))
	seen := make(map[string]int, len(columns))
	taken := make(map[string]bool, len(columns))
	for _, col := range columns {
		taken[col] = true
	}
	for i, col := range columns {
		n := seen[col]
		seen[col] = n + 1
		if n == 0 {
			out[i] = col
			continue
		}
		name := col + "." + strconv.Itoa(n)
		for taken[name] {
			n++
			name = col + "." + strconv.Itoa(n)
		}
		seen[col] = n + 1
		taken[name] = true
		out[i] = name
	}
	return out
}
