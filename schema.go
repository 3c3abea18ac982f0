package liteq

import (
	"fmt"
	"strings"
)

// TableInfo is a catalog entry for a user table.
type TableInfo struct {
	Name        string
	RootPage    int
	SQL         string
	Query       *Query // the parsed CREATE TABLE statement
	RowIDColumn int    // index of the INTEGER PRIMARY KEY alias column, or -1
}

// IndexInfo is a catalog entry for a user index.
type IndexInfo struct {
	Name      string
	TableName string
	RootPage  int
	SQL       string
	Query     *Query // the parsed CREATE INDEX statement
	Column    string // the single indexed column name
}

// Catalog is the in-memory schema built from the sqlite_schema rows on page 1.
type Catalog struct {
	Tables  map[string]*TableInfo
	Indexes map[string]*IndexInfo
	// TableOrder preserves file (insertion) order, the order .tables emits.
	TableOrder []string
}

// LoadSchema reads the sqlite_schema table rooted at page 1 and builds the
// table/index catalog. Entries whose name begins with "sqlite_" are
// excluded, matching spec section 3's catalog invariant.
func LoadSchema(db *Database) (*Catalog, error) {
	catalog := &Catalog{
		Tables:  make(map[string]*TableInfo),
		Indexes: make(map[string]*IndexInfo),
	}

	for row, err := range db.WalkTable(1, -1) {
		if err != nil {
			return nil, fmt.Errorf("failed to scan sqlite_schema: %w", err)
		}
		if len(row.Record) < 5 {
			return nil, fmt.Errorf("malformed sqlite_schema row: expected 5 columns, got %d", len(row.Record))
		}

		itemType, _ := row.Record[0].(string)
		name, _ := row.Record[1].(string)
		tblName, _ := row.Record[2].(string)
		rootPage, _ := row.Record[3].(int64)
		sql, _ := row.Record[4].(string)

		if strings.HasPrefix(name, "sqlite_") {
			continue
		}

		switch itemType {
		case "table":
			parsed, err := ParseQuery(sql)
			if err != nil {
				return nil, fmt.Errorf("failed to parse schema for table %q: %w", name, err)
			}
			catalog.Tables[name] = &TableInfo{
				Name:        name,
				RootPage:    int(rootPage),
				SQL:         sql,
				Query:       parsed,
				RowIDColumn: parsed.RowIDAliasColumn(),
			}
			catalog.TableOrder = append(catalog.TableOrder, name)

		case "index":
			parsed, err := ParseQuery(sql)
			if err != nil {
				return nil, fmt.Errorf("failed to parse schema for index %q: %w", name, err)
			}
			catalog.Indexes[name] = &IndexInfo{
				Name:      name,
				TableName: tblName,
				RootPage:  int(rootPage),
				SQL:       sql,
				Query:     parsed,
				Column:    parsed.IndexColumn,
			}
		}
	}

	return catalog, nil
}

// table looks up a table by name, case-insensitively.
func (c *Catalog) table(name string) *TableInfo {
	if t, ok := c.Tables[name]; ok {
		return t
	}
	for n, t := range c.Tables {
		if strings.EqualFold(n, name) {
			return t
		}
	}
	return nil
}

// suitableIndex returns an index on table usable for an equality predicate
// on column, if one exists: a single-column index on exactly that column.
func (c *Catalog) suitableIndex(table, column string) *IndexInfo {
	for _, idx := range c.Indexes {
		if idx.TableName == table && strings.EqualFold(idx.Column, column) {
			return idx
		}
	}
	return nil
}

// columnIndex returns the declared position of name within table's column
// list, or -1 if table has no such column.
func (t *TableInfo) columnIndex(name string) int {
	for i, col := range t.Query.Columns {
		if strings.EqualFold(col, name) {
			return i
		}
	}
	return -1
}
