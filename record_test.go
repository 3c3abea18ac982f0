package liteq

import (
	"bytes"
	"errors"
	"testing"
)

func TestParseRecord(t *testing.T) {
	dbPath := createTestDB(t, "record_test.sqlite")
	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer db.Close()

	catalog, err := LoadSchema(db)
	if err != nil {
		t.Fatalf("LoadSchema() failed: %v", err)
	}
	table, ok := catalog.Tables["widgets"]
	if !ok {
		t.Fatal("schema did not contain 'widgets' table")
	}

	rows := make(map[int64]Row)
	for row, err := range db.WalkTable(table.RootPage, table.RowIDColumn) {
		if err != nil {
			t.Fatalf("WalkTable returned an unexpected error: %v", err)
		}
		rows[row.RowID] = row
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 widget rows, got %d", len(rows))
	}

	alpha, ok := rows[1]
	if !ok {
		t.Fatal("expected a row with rowid 1")
	}
	if label, ok := alpha.Record[1].(string); !ok || label != "alpha" {
		t.Errorf("expected label 'alpha', got %v", alpha.Record[1])
	}
	if weight, ok := alpha.Record[2].(float64); !ok || weight != 1.5 {
		t.Errorf("expected weight 1.5, got %v", alpha.Record[2])
	}
	if tag, ok := alpha.Record[3].([]byte); !ok || !bytes.Equal(tag, []byte{0xde, 0xad, 0xbe, 0xef}) {
		t.Errorf("expected tag deadbeef, got %v", alpha.Record[3])
	}
	if _, ok := alpha.Record[4].(NullType); !ok {
		t.Errorf("expected note to be NULL, got %v", alpha.Record[4])
	}

	gamma, ok := rows[3]
	if !ok {
		t.Fatal("expected a row with rowid 3")
	}
	if weight, ok := gamma.Record[2].(float64); !ok || weight != -3.0 {
		t.Errorf("expected weight -3.0, got %v", gamma.Record[2])
	}
}

func TestParseRecord_PayloadOverflow(t *testing.T) {
	page := make([]byte, 16)
	_, err := ParseRecord(page, 10, 100)
	if !errors.Is(err, ErrUnsupportedOverflow) {
		t.Errorf("expected ErrUnsupportedOverflow, got %v", err)
	}
}

func TestCompareValues(t *testing.T) {
	cases := []struct {
		name string
		a, b Value
		want int
	}{
		{"null equals null", SQLNull, SQLNull, 0},
		{"null less than int", SQLNull, int64(1), -1},
		{"int less than text", int64(1), "a", -1},
		{"text less than blob", "a", []byte("a"), -1},
		{"equal ints", int64(5), int64(5), 0},
		{"int vs float", int64(3), float64(3.5), -1},
		{"text compare", "abc", "abd", -1},
		{"blob compare", []byte{1, 2}, []byte{1, 3}, -1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := compareValues(tc.a, tc.b)
			switch {
			case tc.want < 0 && got >= 0:
				t.Errorf("compareValues(%v, %v) = %d, want negative", tc.a, tc.b, got)
			case tc.want > 0 && got <= 0:
				t.Errorf("compareValues(%v, %v) = %d, want positive", tc.a, tc.b, got)
			case tc.want == 0 && got != 0:
				t.Errorf("compareValues(%v, %v) = %d, want 0", tc.a, tc.b, got)
			}
		})
	}
}
