package model

import "testing"

func rec(ts int64, fields map[string]any) Record {
	if fields == nil {
		fields = map[string]any{}
	}
	return Record{Timestamp: ts, Fields: fields}
}

func TestNewTableRejectsRegression(t *testing.T) {
	_, err := NewTable("x.csv", []string{"timestamp"}, []Record{
		rec(10, nil), rec(20, nil), rec(15, nil),
	})
	if err == nil {
		t.Fatal("expected timestamp regression to be rejected")
	}
}

func TestNewTableAcceptsEqualTimestamps(t *testing.T) {
	tbl, err := NewTable("x.csv", []string{"timestamp"}, []Record{
		rec(10, nil), rec(10, nil), rec(11, nil),
	})
	if err != nil {
		t.Fatalf("equal timestamps should be allowed: %v", err)
	}
	if tbl.Len() != 3 {
		t.Fatalf("expected 3 records, got %d", tbl.Len())
	}
}

func TestTableAccessorsCopy(t *testing.T) {
	tbl, err := NewTable("x.csv", []string{"timestamp", "v"}, []Record{
		rec(1, map[string]any{"v": 1.5}),
		rec(2, map[string]any{"v": 2.5}),
	})
	if err != nil {
		t.Fatal(err)
	}

	cols := tbl.Columns()
	cols[0] = "clobbered"
	if tbl.Columns()[0] != "timestamp" {
		t.Fatal("Columns must return a copy")
	}

	ts := tbl.Timestamps()
	ts[0] = 99
	if tbl.Record(0).Timestamp != 1 {
		t.Fatal("Timestamps must not alias table state")
	}
}

func TestTableFloats(t *testing.T) {
	tbl, err := NewTable("x.csv", []string{"timestamp", "v"}, []Record{
		rec(1, map[string]any{"v": 1.5}),
		rec(2, map[string]any{"v": "text"}),
	})
	if err != nil {
		t.Fatal(err)
	}

	vals, all := tbl.Floats("v")
	if all {
		t.Fatal("expected all=false with a non-numeric cell")
	}
	if vals[0] != 1.5 {
		t.Fatalf("expected 1.5, got %v", vals[0])
	}
}

func TestIndexAtOrAfter(t *testing.T) {
	tbl, err := NewTable("x.csv", []string{"timestamp"}, []Record{
		rec(10, nil), rec(20, nil), rec(30, nil),
	})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		ts   int64
		want int
	}{
		{5, 0}, {10, 0}, {15, 1}, {30, 2}, {31, 3},
	}
	for _, tt := range tests {
		if got := tbl.IndexAtOrAfter(tt.ts); got != tt.want {
			t.Errorf("IndexAtOrAfter(%d) = %d, want %d", tt.ts, got, tt.want)
		}
	}
}
