package liteq

import "errors"

// Sentinel errors for every failure kind the engine can surface. Callers
// should use errors.Is against these; decoders and the executor wrap them
// with fmt.Errorf("...: %w", ...) to add positional context.
var (
	// ErrShortRead is returned when fewer bytes than requested are available
	// at a given file offset.
	ErrShortRead = errors.New("short read")
	// ErrCorruptVarint is returned when a varint would need to read past the
	// bounds of the buffer it is being decoded from.
	ErrCorruptVarint = errors.New("corrupt varint")
	// ErrUnknownSerialType is returned for serial type 10 or 11, which are
	// reserved and never produced by a valid database.
	ErrUnknownSerialType = errors.New("unknown serial type")
	// ErrUtf8 is returned when a TEXT value's body is not valid UTF-8.
	ErrUtf8 = errors.New("invalid utf-8 in text value")
	// ErrUnexpectedPageKind is returned when a page that should be a table
	// page turns out to be an index page, or vice versa.
	ErrUnexpectedPageKind = errors.New("unexpected page kind")
	// ErrUnsupportedOverflow is returned when a record's payload would need
	// an overflow page chain to be fully decoded.
	ErrUnsupportedOverflow = errors.New("overflow pages are not supported")
	// ErrNoSuchTable is returned when a query names a table absent from the
	// catalog.
	ErrNoSuchTable = errors.New("no such table")
	// ErrNoSuchColumn is returned when a query names a column absent from a
	// table's declared column list.
	ErrNoSuchColumn = errors.New("no such column")
	// ErrUnexpectedToken is returned by the query parser when the token
	// stream doesn't match any accepted grammar at the current position.
	ErrUnexpectedToken = errors.New("unexpected token")
	// ErrKeywordAsIdentifier is returned when a reserved keyword appears
	// where an identifier (table or column name) is required.
	ErrKeywordAsIdentifier = errors.New("keyword used as identifier")
	// ErrTrailingTokens is returned when tokens remain after a complete
	// grammar production has been parsed.
	ErrTrailingTokens = errors.New("trailing tokens after statement")
	// ErrUnterminatedLiteral is returned when a single-quoted string is
	// never closed.
	ErrUnterminatedLiteral = errors.New("unterminated string literal")
	// ErrUnsupportedQuery is returned for input that tokenizes as SQL but
	// whose grammar (e.g. a JOIN) isn't implemented.
	ErrUnsupportedQuery = errors.New("unsupported query")
)
