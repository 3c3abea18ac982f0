package liteq

import (
	"encoding/binary"
	"fmt"
)

// Page kinds, read from byte 0 of a B-tree page header. Bit 0x08 set means
// the page is a leaf.
const (
	PageKindInteriorIndex byte = 0x02
	PageKindInteriorTable byte = 0x05
	PageKindLeafIndex     byte = 0x0a
	PageKindLeafTable     byte = 0x0d
)

// LeafTableCell is a cell on a leaf-table page: payload_size(varint),
// row_id(varint), record.
type LeafTableCell struct {
	PayloadSize int64
	RowID       int64
	Record      Record
}

// InteriorTableCell is a cell on an interior-table page: left_child(u32),
// row_id_key(varint).
type InteriorTableCell struct {
	LeftChild uint32
	RowIDKey  int64
}

// LeafIndexCell is a cell on a leaf-index page: payload_size(varint),
// record. By convention the record's last field holds the referenced row id.
type LeafIndexCell struct {
	PayloadSize int64
	Record      Record
}

// InteriorIndexCell is a cell on an interior-index page: left_child(u32),
// payload_size(varint), record. The record's first field is the separator
// key; its last field is the row id associated with the separator.
type InteriorIndexCell struct {
	LeftChild   uint32
	PayloadSize int64
	Record      Record
}

// Page is a single parsed B-tree page.
type Page struct {
	Number       int
	Kind         byte
	CellCount    uint16
	RightChild   uint32 // only meaningful for interior page kinds
	CellPointers []uint16

	LeafTableCells     []LeafTableCell
	InteriorTableCells []InteriorTableCell
	LeafIndexCells     []LeafIndexCell
	InteriorIndexCells []InteriorIndexCell
}

// IsLeaf reports whether the page's kind byte has the leaf bit set.
func (p *Page) IsLeaf() bool {
	return p.Kind&0x08 != 0
}

// ParsePage parses a raw page-size byte slice into a Page. pageNumber is the
// page's 1-based number; for page 1 the B-tree header begins at byte 100,
// after the file header. Cell pointers are interpreted as offsets from the
// start of data, not from the start of the B-tree header.
func ParsePage(data []byte, pageNumber int) (*Page, error) {
	offsetAdjust := 0
	if pageNumber == 1 {
		offsetAdjust = HeaderSize
	}
	if offsetAdjust+8 > len(data) {
		return nil, fmt.Errorf("%w: page %d too short for a page header", ErrShortRead, pageNumber)
	}
	header := data[offsetAdjust:]

	kind := header[0]
	cellCount := binary.BigEndian.Uint16(header[3:5])

	headerLen := 8
	var rightChild uint32
	isInterior := kind == PageKindInteriorTable || kind == PageKindInteriorIndex
	if isInterior {
		headerLen = 12
		if offsetAdjust+12 > len(data) {
			return nil, fmt.Errorf("%w: page %d too short for an interior page header", ErrShortRead, pageNumber)
		}
		rightChild = binary.BigEndian.Uint32(header[8:12])
	}

	cellPointerStart := offsetAdjust + headerLen
	cellPointers := make([]uint16, cellCount)
	for i := 0; i < int(cellCount); i++ {
		o := cellPointerStart + i*2
		if o+2 > len(data) {
			return nil, fmt.Errorf("%w: page %d cell pointer %d out of bounds", ErrShortRead, pageNumber, i)
		}
		cellPointers[i] = binary.BigEndian.Uint16(data[o : o+2])
	}

	page := &Page{
		Number:       pageNumber,
		Kind:         kind,
		CellCount:    cellCount,
		RightChild:   rightChild,
		CellPointers: cellPointers,
	}

	switch kind {
	case PageKindLeafTable:
		page.LeafTableCells = make([]LeafTableCell, cellCount)
		for i, ptr := range cellPointers {
			off := int(ptr)
			payloadSize, n, err := readVarint(data, off)
			if err != nil {
				return nil, fmt.Errorf("page %d cell %d: payload size: %w", pageNumber, i, err)
			}
			rowID, m, err := readVarint(data, off+n)
			if err != nil {
				return nil, fmt.Errorf("page %d cell %d: row id: %w", pageNumber, i, err)
			}
			record, err := ParseRecord(data, off+n+m, payloadSize)
			if err != nil {
				return nil, fmt.Errorf("page %d cell %d: %w", pageNumber, i, err)
			}
			page.LeafTableCells[i] = LeafTableCell{PayloadSize: payloadSize, RowID: rowID, Record: record}
		}

	case PageKindInteriorTable:
		page.InteriorTableCells = make([]InteriorTableCell, cellCount)
		for i, ptr := range cellPointers {
			off := int(ptr)
			if off+4 > len(data) {
				return nil, fmt.Errorf("%w: page %d cell %d left child out of bounds", ErrShortRead, pageNumber, i)
			}
			leftChild := binary.BigEndian.Uint32(data[off : off+4])
			key, _, err := readVarint(data, off+4)
			if err != nil {
				return nil, fmt.Errorf("page %d cell %d: row id key: %w", pageNumber, i, err)
			}
			page.InteriorTableCells[i] = InteriorTableCell{LeftChild: leftChild, RowIDKey: key}
		}

	case PageKindLeafIndex:
		page.LeafIndexCells = make([]LeafIndexCell, cellCount)
		for i, ptr := range cellPointers {
			off := int(ptr)
			payloadSize, n, err := readVarint(data, off)
			if err != nil {
				return nil, fmt.Errorf("page %d cell %d: payload size: %w", pageNumber, i, err)
			}
			record, err := ParseRecord(data, off+n, payloadSize)
			if err != nil {
				return nil, fmt.Errorf("page %d cell %d: %w", pageNumber, i, err)
			}
			page.LeafIndexCells[i] = LeafIndexCell{PayloadSize: payloadSize, Record: record}
		}

	case PageKindInteriorIndex:
		page.InteriorIndexCells = make([]InteriorIndexCell, cellCount)
		for i, ptr := range cellPointers {
			off := int(ptr)
			if off+4 > len(data) {
				return nil, fmt.Errorf("%w: page %d cell %d left child out of bounds", ErrShortRead, pageNumber, i)
			}
			leftChild := binary.BigEndian.Uint32(data[off : off+4])
			payloadSize, n, err := readVarint(data, off+4)
			if err != nil {
				return nil, fmt.Errorf("page %d cell %d: payload size: %w", pageNumber, i, err)
			}
			record, err := ParseRecord(data, off+4+n, payloadSize)
			if err != nil {
				return nil, fmt.Errorf("page %d cell %d: %w", pageNumber, i, err)
			}
			page.InteriorIndexCells[i] = InteriorIndexCell{LeftChild: leftChild, PayloadSize: payloadSize, Record: record}
		}

	default:
		return nil, fmt.Errorf("%w: 0x%02x on page %d", ErrUnexpectedPageKind, kind, pageNumber)
	}

	return page, nil
}
