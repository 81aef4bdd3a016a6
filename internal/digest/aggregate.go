// Package digest turns a result table into a short factual text for the
// summarizer. The output depends only on the table.
package digest

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"tmsbot/internal/query"
)

// NoResults is the digest of a table without rows.
const NoResults = "The query returned no results."

// Column names that trigger the per-batch breakdown.
const (
	ColumnBatchNo = "BatchNo"
	ColumnTranNo  = "TranNo"
)

// Aggregate builds the digest of t.
func Aggregate(t query.Table) string {
	if t.Len() == 0 {
		return NoResults
	}

	batchCol, tranCol := t.ColumnIndex(ColumnBatchNo), t.ColumnIndex(ColumnTranNo)
	if batchCol >= 0 && tranCol >= 0 {
		return batchBreakdown(t, batchCol, tranCol)
	}
	return renderTable(t)
}

type batch struct {
	key   string
	trans map[string]any
}

// batchBreakdown groups rows by BatchNo in first-appearance order and lists the
// distinct TranNo values of each batch. NULL transaction numbers are not counted.
func batchBreakdown(t query.Table, batchCol, tranCol int) string {
	var batches []*batch
	byKey := make(map[string]*batch)
	allTrans := make(map[string]struct{})

	for _, row := range t.Rows {
		key := renderValue(row[batchCol])
		b, ok := byKey[key]
		if !ok {
			b = &batch{key: key, trans: make(map[string]any)}
			byKey[key] = b
			batches = append(batches, b)
		}

		tran := row[tranCol]
		if tran == nil {
			continue
		}
		rendered := renderValue(tran)
		b.trans[rendered] = tran
		allTrans[rendered] = struct{}{}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "A total of %d items were found, belonging to %d unique transactions across %d batches.\n",
		t.Len(), len(allTrans), len(batches))
	sb.WriteString("Here is the breakdown:")
	for _, b := range batches {
		trans := sortedTrans(b.trans)
		fmt.Fprintf(&sb, "\n- For batch number %s, there were %d transactions with the numbers: %s.",
			b.key, len(trans), strings.Join(trans, ", "))
	}
	return sb.String()
}

// sortedTrans orders rendered transaction numbers ascending, numerically when
// every value is a number and lexically otherwise.
func sortedTrans(trans map[string]any) []string {
	out := make([]string, 0, len(trans))
	nums := make(map[string]float64, len(trans))
	numeric := true
	for rendered, raw := range trans {
		out = append(out, rendered)
		if numeric {
			n, ok := asNumber(raw)
			if !ok {
				numeric = false
				continue
			}
			nums[rendered] = n
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if numeric && nums[out[i]] != nums[out[j]] {
			return nums[out[i]] < nums[out[j]]
		}
		return out[i] < out[j]
	})
	return out
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// renderTable prints every row under its column header with a leading row
// number column.
func renderTable(t query.Table) string {
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)

	header := make([]string, 0, len(t.Columns)+1)
	header = append(header, "")
	header = append(header, t.Columns...)
	writeCells(w, header)

	for i, row := range t.Rows {
		cells := make([]string, 0, len(row)+1)
		cells = append(cells, strconv.Itoa(i))
		for _, v := range row {
			cells = append(cells, renderValue(v))
		}
		writeCells(w, cells)
	}
	_ = w.Flush()

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " ")
	}
	return strings.Join(lines, "\n")
}

func writeCells(w *tabwriter.Writer, cells []string) {
	for _, cell := range cells {
		// Tabs and newlines inside a value would break the alignment.
		cell = strings.NewReplacer("\t", " ", "\n", " ", "\r", " ").Replace(cell)
		_, _ = w.Write([]byte(cell + "\t"))
	}
	_, _ = w.Write([]byte("\n"))
}

func renderValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case string:
		return val
	case []byte:
		return string(val)
	case bool:
		return strconv.FormatBool(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case time.Time:
		if val.Hour() == 0 && val.Minute() == 0 && val.Second() == 0 && val.Nanosecond() == 0 {
			return val.Format("2006-01-02")
		}
		return val.Format("2006-01-02 15:04:05")
	default:
		return fmt.Sprint(val)
	}
}
