package query

import (
	"reflect"
	"testing"
)

func TestTable_Records(t *testing.T) {
	table := Table{
		Columns: []string{"BatchNo", "TranNo"},
		Rows: [][]any{
			{int64(1), "T1"},
			{int64(2), nil},
		},
	}

	got := table.Records()
	want := []map[string]any{
		{"BatchNo": int64(1), "TranNo": "T1"},
		{"BatchNo": int64(2), "TranNo": nil},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Records() = %v, want %v", got, want)
	}
	if table.Len() != 2 {
		t.Errorf("Len() = %d, want 2", table.Len())
	}
}

func TestTable_Records_Empty(t *testing.T) {
	got := Table{Columns: []string{"n"}}.Records()
	if got == nil || len(got) != 0 {
		t.Errorf("Records() = %#v, want empty non-nil slice", got)
	}
}

func TestTable_ColumnIndex(t *testing.T) {
	table := Table{Columns: []string{"BatchNo", "TranNo"}}
	if got := table.ColumnIndex("TranNo"); got != 1 {
		t.Errorf("ColumnIndex(TranNo) = %d, want 1", got)
	}
	if got := table.ColumnIndex("tranno"); got != -1 {
		t.Errorf("ColumnIndex(tranno) = %d, want -1", got)
	}
}

func TestUniqueColumns(t *testing.T) {
	tests := []struct {
		name    string
		columns []string
		want    []string
	}{
		{name: "already unique", columns: []string{"a", "b"}, want: []string{"a", "b"}},
		{name: "repeated", columns: []string{"LogId", "LogId", "LogId"}, want: []string{"LogId", "LogId.1", "LogId.2"}},
		{name: "suffix already taken", columns: []string{"a", "a", "a.1"}, want: []string{"a", "a.2", "a.1"}},
		{name: "empty", columns: []string{}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := uniqueColumns(tt.columns)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("uniqueColumns() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRouter_RouteFor(t *testing.T) {
	router := Router{AuditMarker: "PSGAuditStats"}

	tests := []struct {
		name string
		sql  string
		want Target
	}{
		{name: "tms table", sql: "SELECT * FROM dbo.BATCHFILE", want: TargetTMS},
		{name: "audit table", sql: "SELECT * FROM PSGAuditStats.tblAuditLogMaster m", want: TargetAudit},
		{name: "marker anywhere", sql: "SELECT 'PSGAuditStats' AS src", want: TargetAudit},
		{name: "case sensitive", sql: "SELECT * FROM psgauditstats.tblAuditLogMaster", want: TargetTMS},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := router.RouteFor(tt.sql); got != tt.want {
				t.Errorf("RouteFor() = %v, want %v", got, tt.want)
			}
		})
	}

	if got := (Router{}).RouteFor("SELECT 1"); got != TargetTMS {
		t.Errorf("RouteFor() with empty marker = %v, want tms", got)
	}
}
