package liteq

import "testing"

func TestLoadSchema(t *testing.T) {
	dbPath := createTestDB(t, "schema_test.sqlite")
	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer db.Close()

	catalog, err := LoadSchema(db)
	if err != nil {
		t.Fatalf("LoadSchema() failed: %v", err)
	}

	if len(catalog.Tables) != 3 {
		t.Fatalf("expected 3 tables, got %d", len(catalog.Tables))
	}
	if len(catalog.Indexes) != 2 {
		t.Fatalf("expected 2 indexes, got %d", len(catalog.Indexes))
	}

	wantOrder := []string{"test", "widgets", "big_index"}
	if len(catalog.TableOrder) != len(wantOrder) {
		t.Fatalf("expected table order %v, got %v", wantOrder, catalog.TableOrder)
	}
	for i, name := range wantOrder {
		if catalog.TableOrder[i] != name {
			t.Errorf("table order[%d] = %q, want %q", i, catalog.TableOrder[i], name)
		}
	}

	testTable, ok := catalog.Tables["test"]
	if !ok {
		t.Fatal("schema did not contain 'test' table")
	}
	if testTable.RootPage <= 1 {
		t.Errorf("expected a valid root page for 'test', got %d", testTable.RootPage)
	}
	if testTable.RowIDColumn != 0 {
		t.Errorf("expected 'test' to have an INTEGER PRIMARY KEY alias at column 0, got %d", testTable.RowIDColumn)
	}

	widgets, ok := catalog.Tables["widgets"]
	if !ok {
		t.Fatal("schema did not contain 'widgets' table")
	}
	if widgets.RowIDColumn != 0 {
		t.Errorf("expected 'widgets' to have an INTEGER PRIMARY KEY alias at column 0, got %d", widgets.RowIDColumn)
	}

	idxName, ok := catalog.Indexes["idx_name"]
	if !ok {
		t.Fatal("schema did not contain 'idx_name' index")
	}
	if idxName.TableName != "test" || idxName.Column != "name" {
		t.Errorf("expected idx_name on test(name), got %s(%s)", idxName.TableName, idxName.Column)
	}

	if catalog.suitableIndex("test", "name") == nil {
		t.Error("expected suitableIndex to find idx_name for test.name")
	}
	if catalog.suitableIndex("test", "id") != nil {
		t.Error("expected no suitable index for test.id")
	}
}

func TestTableInfo_RowIDAliasColumn(t *testing.T) {
	cases := []struct {
		name string
		sql  string
		want int
	}{
		{"integer primary key alias", "CREATE TABLE t (id INTEGER PRIMARY KEY, name TEXT)", 0},
		{"no alias without PRIMARY KEY", "CREATE TABLE t (id INTEGER, name TEXT)", -1},
		{"a column literally named id is not enough", "CREATE TABLE t (id TEXT PRIMARY KEY, name TEXT)", -1},
		{"primary key on a later column", "CREATE TABLE t (name TEXT, id INTEGER PRIMARY KEY)", 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q, err := ParseQuery(tc.sql)
			if err != nil {
				t.Fatalf("ParseQuery(%q) failed: %v", tc.sql, err)
			}
			if got := q.RowIDAliasColumn(); got != tc.want {
				t.Errorf("RowIDAliasColumn() = %d, want %d", got, tc.want)
			}
		})
	}
}
