package liteq

import (
	"fmt"
	"sort"
)

// ExecResult is the structured outcome of executing a SELECT. Count is
// non-nil for a COUNT(*) query; otherwise Columns names the projected
// columns in requested order and Rows holds the projected values.
type ExecResult struct {
	Columns []string
	Rows    [][]Value
	Count   *int64
}

// Execute runs a parsed SELECT against catalog/db: it chooses between a full
// table scan and an index-assisted plan, evaluates the WHERE predicate, and
// projects the requested columns.
func Execute(db *Database, catalog *Catalog, q *Query) (*ExecResult, error) {
	if q.Action != ActionSelect {
		return nil, fmt.Errorf("%w: only SELECT can be executed", ErrUnsupportedQuery)
	}

	table := catalog.table(q.Table)
	if table == nil {
		return nil, fmt.Errorf("%w: %q", ErrNoSuchTable, q.Table)
	}

	// COUNT(*) with no predicate needs no projection and no per-row
	// predicate evaluation.
	if q.CountStar && q.Condition == nil {
		var count int64
		for _, err := range db.WalkTable(table.RootPage, table.RowIDColumn) {
			if err != nil {
				return nil, err
			}
			count++
		}
		return &ExecResult{Count: &count}, nil
	}

	rows, err := selectRows(db, catalog, table, q)
	if err != nil {
		return nil, err
	}

	if q.CountStar {
		count := int64(len(rows))
		return &ExecResult{Count: &count}, nil
	}

	return project(table, q, rows)
}

// selectRows chooses a plan and returns the matching rows. When the WHERE
// predicate is a single-column equality covered by an index, it probes the
// index for candidate row ids and descends the table B-tree only for those
// ids; otherwise it runs a full table scan.
func selectRows(db *Database, catalog *Catalog, table *TableInfo, q *Query) ([]Row, error) {
	if q.Condition != nil && q.Condition.Comparator == EQ {
		if idx := catalog.suitableIndex(table.Name, q.Condition.Column); idx != nil {
			rowIDs, err := db.ProbeIndex(idx.RootPage, q.Condition.Literal)
			if err != nil {
				return nil, err
			}
			sort.Slice(rowIDs, func(i, j int) bool { return rowIDs[i] < rowIDs[j] })

			matched, err := db.WalkTableByRowIDs(table.RootPage, table.RowIDColumn, rowIDs)
			if err != nil {
				return nil, err
			}

			var out []Row
			for _, row := range matched {
				ok, err := evaluateCondition(row.Record, table, q.Condition)
				if err != nil {
					return nil, err
				}
				if ok {
					out = append(out, row)
				}
			}
			return out, nil
		}
	}

	var out []Row
	for row, err := range db.WalkTable(table.RootPage, table.RowIDColumn) {
		if err != nil {
			return nil, err
		}
		if q.Condition != nil {
			ok, err := evaluateCondition(row.Record, table, q.Condition)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
		}
		out = append(out, row)
	}
	return out, nil
}

// evaluateCondition reports whether record satisfies cond. A row is kept
// iff there is no predicate, or the predicate evaluates true.
func evaluateCondition(record Record, table *TableInfo, cond *Condition) (bool, error) {
	idx := table.columnIndex(cond.Column)
	if idx == -1 {
		return false, fmt.Errorf("%w: %q", ErrNoSuchColumn, cond.Column)
	}
	if idx >= len(record) {
		return false, nil
	}

	cmp := compareValues(record[idx], cond.Literal)
	switch cond.Comparator {
	case EQ:
		return cmp == 0, nil
	case NE:
		return cmp != 0, nil
	case LT:
		return cmp < 0, nil
	case GT:
		return cmp > 0, nil
	case LE:
		return cmp <= 0, nil
	case GE:
		return cmp >= 0, nil
	default:
		return false, fmt.Errorf("%w: unknown comparator", ErrUnsupportedQuery)
	}
}

// project resolves the requested column list against table's declared
// columns and extracts the corresponding values from each row, in requested
// order.
func project(table *TableInfo, q *Query, rows []Row) (*ExecResult, error) {
	columns := q.Columns
	if q.AllColumns {
		columns = table.Query.Columns
	}

	indices := make([]int, len(columns))
	for i, col := range columns {
		idx := table.columnIndex(col)
		if idx == -1 {
			return nil, fmt.Errorf("%w: %q", ErrNoSuchColumn, col)
		}
		indices[i] = idx
	}

	projected := make([][]Value, 0, len(rows))
	for _, row := range rows {
		vals := make([]Value, len(indices))
		for i, idx := range indices {
			if idx < len(row.Record) {
				vals[i] = row.Record[idx]
			} else {
				vals[i] = SQLNull
			}
		}
		projected = append(projected, vals)
	}

	return &ExecResult{Columns: columns, Rows: projected}, nil
}
