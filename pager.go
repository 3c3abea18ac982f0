package liteq

import (
	"encoding/binary"
	"fmt"
	"os"
)

// Database represents an open, read-only SQLite database file. It is opened
// for the duration of a single command and holds no cache: pages are read
// lazily by page number.
type Database struct {
	file   *os.File
	Header *Header
}

// Open opens the database file at path and parses its 100-byte header.
func Open(path string) (*Database, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database file: %w", err)
	}

	headerBytes := make([]byte, HeaderSize)
	if _, err := file.ReadAt(headerBytes, 0); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to read database header: %w", err)
	}

	header, err := ParseHeader(headerBytes)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to parse database header: %w", err)
	}

	var cellCountBytes [2]byte
	if _, err := file.ReadAt(cellCountBytes[:], 103); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to read page 1 cell count: %w", err)
	}
	header.TableCount = binary.BigEndian.Uint16(cellCountBytes[:])

	return &Database{file: file, Header: header}, nil
}

// Close releases the underlying file handle.
func (db *Database) Close() error {
	return db.file.Close()
}

// ReadPage reads page number pageNumber (1-based) as an immutable
// page_size-byte block.
func (db *Database) ReadPage(pageNumber int) (*Page, error) {
	size := int64(db.Header.PageSize)
	data := make([]byte, size)
	offset := int64(pageNumber-1) * size
	n, err := db.file.ReadAt(data, offset)
	if err != nil && n != len(data) {
		return nil, fmt.Errorf("page %d: %w: %v", pageNumber, ErrShortRead, err)
	}
	return ParsePage(data, pageNumber)
}

// readUintBE reads a big-endian unsigned integer of the given byte length
// (1, 2, 3, 4, 6 or 8) starting at offset. The caller must ensure the read
// stays in bounds.
func readUintBE(data []byte, offset, length int) uint64 {
	switch length {
	case 1:
		return uint64(data[offset])
	case 2:
		return uint64(binary.BigEndian.Uint16(data[offset : offset+2]))
	case 3:
		return uint64(data[offset])<<16 | uint64(data[offset+1])<<8 | uint64(data[offset+2])
	case 4:
		return uint64(binary.BigEndian.Uint32(data[offset : offset+4]))
	case 6:
		b := data[offset : offset+6]
		return uint64(b[0])<<40 | uint64(b[1])<<32 | uint64(b[2])<<24 |
			uint64(b[3])<<16 | uint64(b[4])<<8 | uint64(b[5])
	case 8:
		return binary.BigEndian.Uint64(data[offset : offset+8])
	default:
		panic(fmt.Sprintf("readUintBE: unsupported length %d", length))
	}
}

// readVarint decodes a SQLite-style varint starting at offset in data. It
// returns the decoded value and the number of bytes consumed (1 through 9).
// The first 8 bytes contribute 7 bits each; if the high bit is still set
// after 8 bytes, a 9th byte contributes all 8 of its bits.
func readVarint(data []byte, offset int) (int64, int, error) {
	var value uint64
	for i := 0; i < 9; i++ {
		pos := offset + i
		if pos >= len(data) {
			return 0, 0, fmt.Errorf("%w: truncated at byte %d", ErrCorruptVarint, i)
		}
		b := data[pos]
		if i == 8 {
			value = value<<8 | uint64(b)
			return int64(value), i + 1, nil
		}
		value = value<<7 | uint64(b&0x7f)
		if b&0x80 == 0 {
			return int64(value), i + 1, nil
		}
	}
	// unreachable: the loop above always returns by i == 8
	return int64(value), 9, nil
}
