package liteq

import (
	"fmt"
	"iter"
	"sort"
)

// Row pairs a table row's row id with its decoded Record.
type Row struct {
	RowID  int64
	Record Record
}

// RecordIterator ranges over rows in ascending row-id order, stopping early
// on the first error.
type RecordIterator = iter.Seq2[Row, error]

// substituteRowID replaces a NULL in the INTEGER PRIMARY KEY alias column
// (if the table declares one) with the row's row id, per the cell-parser
// contract in spec section 4.4. rowIDColumn is -1 when the table has no
// such alias.
func substituteRowID(record Record, rowID int64, rowIDColumn int) Record {
	if rowIDColumn < 0 || rowIDColumn >= len(record) {
		return record
	}
	if _, isNull := record[rowIDColumn].(NullType); isNull {
		record[rowIDColumn] = rowID
	}
	return record
}

// WalkTable performs a full, depth-first scan of the table B-tree rooted at
// rootPage, visiting rows in ascending row-id order. rowIDColumn is the
// index of the table's INTEGER PRIMARY KEY alias column, or -1.
func (db *Database) WalkTable(rootPage int, rowIDColumn int) RecordIterator {
	return func(yield func(Row, error) bool) {
		db.walkTablePage(rootPage, rowIDColumn, yield)
	}
}

func (db *Database) walkTablePage(pageNumber int, rowIDColumn int, yield func(Row, error) bool) bool {
	page, err := db.ReadPage(pageNumber)
	if err != nil {
		yield(Row{}, err)
		return false
	}

	switch page.Kind {
	case PageKindLeafTable:
		for _, cell := range page.LeafTableCells {
			record := substituteRowID(cell.Record, cell.RowID, rowIDColumn)
			if !yield(Row{RowID: cell.RowID, Record: record}, nil) {
				return false
			}
		}
		return true

	case PageKindInteriorTable:
		for _, cell := range page.InteriorTableCells {
			if !db.walkTablePage(int(cell.LeftChild), rowIDColumn, yield) {
				return false
			}
		}
		return db.walkTablePage(int(page.RightChild), rowIDColumn, yield)

	default:
		yield(Row{}, fmt.Errorf("%w: table walk reached page kind 0x%02x", ErrUnexpectedPageKind, page.Kind))
		return false
	}
}

// WalkTableByRowIDs descends the table B-tree rooted at rootPage, returning
// the rows whose row id appears in sortedRowIDs (ascending, unique); ids
// with no matching row are silently skipped. Results are returned in
// ascending row-id order.
func (db *Database) WalkTableByRowIDs(rootPage int, rowIDColumn int, sortedRowIDs []int64) ([]Row, error) {
	if len(sortedRowIDs) == 0 {
		return nil, nil
	}
	var out []Row
	if err := db.walkTableByRowIDsPage(rootPage, rowIDColumn, sortedRowIDs, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (db *Database) walkTableByRowIDsPage(pageNumber int, rowIDColumn int, rowIDs []int64, out *[]Row) error {
	page, err := db.ReadPage(pageNumber)
	if err != nil {
		return err
	}

	switch page.Kind {
	case PageKindLeafTable:
		for _, id := range rowIDs {
			i := sort.Search(len(page.LeafTableCells), func(i int) bool {
				return page.LeafTableCells[i].RowID >= id
			})
			if i < len(page.LeafTableCells) && page.LeafTableCells[i].RowID == id {
				cell := page.LeafTableCells[i]
				record := substituteRowID(cell.Record, cell.RowID, rowIDColumn)
				*out = append(*out, Row{RowID: cell.RowID, Record: record})
			}
		}
		return nil

	case PageKindInteriorTable:
		// A single sweep over both the ascending cell keys and the ascending
		// requested row ids is enough: ids <= the i-th key and > the
		// (i-1)-th key belong to the i-th child; ids greater than every key
		// belong to the rightmost child.
		idx := 0
		for _, cell := range page.InteriorTableCells {
			var bucket []int64
			for idx < len(rowIDs) && rowIDs[idx] <= cell.RowIDKey {
				bucket = append(bucket, rowIDs[idx])
				idx++
			}
			if len(bucket) > 0 {
				if err := db.walkTableByRowIDsPage(int(cell.LeftChild), rowIDColumn, bucket, out); err != nil {
					return err
				}
			}
		}
		if idx < len(rowIDs) {
			if err := db.walkTableByRowIDsPage(int(page.RightChild), rowIDColumn, rowIDs[idx:], out); err != nil {
				return err
			}
		}
		return nil

	default:
		return fmt.Errorf("%w: table walk reached page kind 0x%02x", ErrUnexpectedPageKind, page.Kind)
	}
}

// ProbeIndex returns the ascending list of row ids whose indexed key equals
// key, by descending the index B-tree rooted at rootPage.
func (db *Database) ProbeIndex(rootPage int, key Value) ([]int64, error) {
	var out []int64
	if err := db.probeIndexPage(rootPage, key, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (db *Database) probeIndexPage(pageNumber int, key Value, out *[]int64) error {
	page, err := db.ReadPage(pageNumber)
	if err != nil {
		return err
	}

	switch page.Kind {
	case PageKindInteriorIndex:
		for _, cell := range page.InteriorIndexCells {
			cellKey := cell.Record[0]
			switch cmp := compareValues(key, cellKey); {
			case cmp < 0:
				// Every match, if any, lies in the left subtree: all later
				// separators and subtrees only hold larger keys.
				return db.probeIndexPage(int(cell.LeftChild), key, out)
			case cmp == 0:
				if err := db.probeIndexPage(int(cell.LeftChild), key, out); err != nil {
					return err
				}
				rowID, ok := cell.Record[len(cell.Record)-1].(int64)
				if !ok {
					return fmt.Errorf("malformed index record: row id is not an integer")
				}
				*out = append(*out, rowID)
				// Equality may continue into later cells; keep scanning.
			}
			// cmp > 0: this cell's left subtree only holds smaller keys, skip it.
		}
		// Every cell's key was <= key (or none existed): the rightmost
		// child may still hold matches.
		return db.probeIndexPage(int(page.RightChild), key, out)

	case PageKindLeafIndex:
		cells := page.LeafIndexCells
		i := sort.Search(len(cells), func(i int) bool {
			return compareValues(cells[i].Record[0], key) >= 0
		})
		for i < len(cells) && compareValues(cells[i].Record[0], key) == 0 {
			rowID, ok := cells[i].Record[len(cells[i].Record)-1].(int64)
			if !ok {
				return fmt.Errorf("malformed index record: row id is not an integer")
			}
			*out = append(*out, rowID)
			i++
		}
		return nil

	default:
		return fmt.Errorf("%w: index walk reached page kind 0x%02x", ErrUnexpectedPageKind, page.Kind)
	}
}
