package mddoc

import "context"

// Cursor marks where the next block is inserted. Hosts decide what the
// position means; the renderer only threads the value from call to call.
type Cursor struct {
	pos int
}

// CursorAt returns a cursor for a host-defined position.
func CursorAt(pos int) Cursor {
	return Cursor{pos: pos}
}

// Pos returns the host-defined position of the cursor.
func (c Cursor) Pos() int {
	return c.pos
}

// Host is the set of document mutation primitives a render needs.
type Host interface {
	// InsertParagraph inserts a paragraph at the cursor. A non-empty text
	// becomes the first run of the paragraph with default formatting.
	InsertParagraph(at Cursor, text string) (Paragraph, error)
	// InsertTable inserts an empty table of the given shape at the cursor.
	InsertTable(at Cursor, rows, cols int) (Table, error)
}

// Paragraph is a handle to a paragraph inserted by a Host.
type Paragraph interface {
	AppendRun(text string, f RunFormat) error
	SetFormat(f ParagraphFormat) error
	// End returns the cursor immediately after the paragraph.
	End() Cursor
}

// Table is a handle to a table inserted by a Host.
type Table interface {
	SetCell(row, col int, text string, f CellFormat) error
	// End returns the cursor immediately after the table.
	End() Cursor
}

// Session is a Host whose mutations are staged until Commit applies them
// as one batch.
type Session interface {
	Host
	Commit(ctx context.Context) error
}
