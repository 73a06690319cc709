// Package document is an in-memory rich-text document that can host mddoc
// renders. Mutations are staged in a Batch and become visible atomically on
// Commit; readers always observe a consistent snapshot.
package document

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"pkt.systems/mddoc"
)

var (
	// ErrBadCursor reports a cursor outside the document.
	ErrBadCursor = errors.New("cursor out of range")
	// ErrBadShape reports a table shape or cell address that does not fit.
	ErrBadShape = errors.New("bad table shape")
	// ErrBatchDone reports use of a batch after Commit or Discard.
	ErrBatchDone = errors.New("batch already finished")
	// ErrStale reports a commit against a document that changed after the
	// batch began.
	ErrStale = errors.New("document changed since batch began")
)

// Document is a sequence of paragraphs and tables. A cursor position is the
// index of the block it precedes.
type Document struct {
	mu      sync.RWMutex
	version uint64
	title   string
	blocks  []Block
}

// New returns an empty document.
func New() *Document {
	return &Document{}
}

// Title returns the document title.
func (d *Document) Title() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.title
}

// SetTitle sets the document title.
func (d *Document) SetTitle(title string) {
	d.mu.Lock()
	d.title = title
	d.mu.Unlock()
}

// End returns the cursor after the last block.
func (d *Document) End() mddoc.Cursor {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return mddoc.CursorAt(len(d.blocks))
}

// Len returns the number of blocks.
func (d *Document) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.blocks)
}

// Snapshot returns a deep copy of the committed blocks.
func (d *Document) Snapshot() []Block {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]Block, len(d.blocks))
	for i, b := range d.blocks {
		out[i] = b.clone()
	}
	return out
}

// Begin starts a batch of mutations against the current state.
func (d *Document) Begin() *Batch {
	d.mu.RLock()
	defer d.mu.RUnlock()
	b := &Batch{
		doc:     d,
		base:    d.version,
		entries: make([]*entry, len(d.blocks)),
	}
	for i, block := range d.blocks {
		b.entries[i] = &entry{block: block}
	}
	return b
}

type entry struct {
	block Block
	// hint is the last known index of the entry in the batch.
	hint int
}

// Batch stages insertions. It implements mddoc.Session. A batch is not safe
// for concurrent use.
type Batch struct {
	doc     *Document
	base    uint64
	entries []*entry
	done    bool
}

var _ mddoc.Session = (*Batch)(nil)

// InsertParagraph inserts a paragraph at the cursor. A non-empty text becomes
// its first run with the default format.
func (b *Batch) InsertParagraph(at mddoc.Cursor, text string) (mddoc.Paragraph, error) {
	p := &Paragraph{}
	if text != "" {
		p.Runs = []Run{{Text: text}}
	}
	e, err := b.insert(at, Block{Paragraph: p})
	if err != nil {
		return nil, fmt.Errorf("document insert paragraph: %w", err)
	}
	return &paragraphHandle{batch: b, entry: e}, nil
}

// InsertTable inserts an empty rows x cols table at the cursor.
func (b *Batch) InsertTable(at mddoc.Cursor, rows, cols int) (mddoc.Table, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("document insert table: %w: %dx%d", ErrBadShape, rows, cols)
	}
	e, err := b.insert(at, Block{Table: newTable(rows, cols)})
	if err != nil {
		return nil, fmt.Errorf("document insert table: %w", err)
	}
	return &tableHandle{batch: b, entry: e}, nil
}

func (b *Batch) insert(at mddoc.Cursor, block Block) (*entry, error) {
	if b.done {
		return nil, ErrBatchDone
	}
	pos := at.Pos()
	if pos < 0 || pos > len(b.entries) {
		return nil, fmt.Errorf("%w: %d not in [0, %d]", ErrBadCursor, pos, len(b.entries))
	}
	e := &entry{block: block, hint: pos}
	b.entries = append(b.entries, nil)
	copy(b.entries[pos+1:], b.entries[pos:])
	b.entries[pos] = e
	return e, nil
}

// indexOf locates an entry, starting at its hint. Insertions before an entry
// only ever move it towards the end.
func (b *Batch) indexOf(e *entry) int {
	for i := e.hint; i < len(b.entries); i++ {
		if b.entries[i] == e {
			e.hint = i
			return i
		}
	}
	for i := 0; i < e.hint && i < len(b.entries); i++ {
		if b.entries[i] == e {
			e.hint = i
			return i
		}
	}
	return -1
}

func (b *Batch) after(e *entry) mddoc.Cursor {
	return mddoc.CursorAt(b.indexOf(e) + 1)
}

// Len returns the number of blocks the document would hold after Commit.
func (b *Batch) Len() int {
	return len(b.entries)
}

// Commit applies the staged insertions. It fails with ErrStale when another
// batch was committed after this one began; the document is then unchanged.
func (b *Batch) Commit(ctx context.Context) error {
	if b.done {
		return fmt.Errorf("document commit: %w", ErrBatchDone)
	}
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("document commit: %w", err)
		}
	}
	blocks := make([]Block, len(b.entries))
	for i, e := range b.entries {
		blocks[i] = e.block
	}
	d := b.doc
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.version != b.base {
		return fmt.Errorf("document commit: %w", ErrStale)
	}
	d.blocks = blocks
	d.version++
	b.done = true
	return nil
}

// Discard abandons the batch without touching the document.
func (b *Batch) Discard() {
	b.done = true
	b.entries = nil
}

type paragraphHandle struct {
	batch *Batch
	entry *entry
}

func (h *paragraphHandle) AppendRun(text string, f mddoc.RunFormat) error {
	if h.batch.done {
		return fmt.Errorf("document append run: %w", ErrBatchDone)
	}
	if text == "" {
		return nil
	}
	p := h.entry.block.Paragraph
	p.Runs = append(p.Runs, Run{Text: text, Format: f})
	return nil
}

func (h *paragraphHandle) SetFormat(f mddoc.ParagraphFormat) error {
	if h.batch.done {
		return fmt.Errorf("document set format: %w", ErrBatchDone)
	}
	h.entry.block.Paragraph.Format = f
	return nil
}

func (h *paragraphHandle) End() mddoc.Cursor {
	return h.batch.after(h.entry)
}

type tableHandle struct {
	batch *Batch
	entry *entry
}

func (h *tableHandle) SetCell(row, col int, text string, f mddoc.CellFormat) error {
	if h.batch.done {
		return fmt.Errorf("document set cell: %w", ErrBatchDone)
	}
	t := h.entry.block.Table
	if row < 0 || row >= len(t.Rows) || col < 0 || col >= t.Cols() {
		return fmt.Errorf("document set cell: %w: (%d,%d) outside %dx%d", ErrBadShape, row, col, len(t.Rows), t.Cols())
	}
	t.Rows[row][col] = Cell{Text: text, Format: f}
	return nil
}

func (h *tableHandle) End() mddoc.Cursor {
	return h.batch.after(h.entry)
}
