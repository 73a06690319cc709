package mddoc

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"pkt.systems/mddoc/token"
)

var errHost = errors.New("host failure")

// recordingHost is an in-memory Host. Elements are addressed by index, a
// cursor's position is the index the next element goes to.
type recordingHost struct {
	elems []*recordedElem
	// failInsert fails the n-th InsertParagraph/InsertTable call (1-based).
	failInsert int
	failRun    bool
	failFormat bool
	failCell   bool
	inserts    int
}

type recordedRun struct {
	Text   string
	Format RunFormat
}

type recordedCell struct {
	Text   string
	Format CellFormat
}

type recordedElem struct {
	host   *recordingHost
	table  bool
	format ParagraphFormat
	runs   []recordedRun
	cells  [][]recordedCell
}

func (h *recordingHost) insert(at Cursor, e *recordedElem) error {
	h.inserts++
	if h.failInsert > 0 && h.inserts == h.failInsert {
		return errHost
	}
	pos := at.Pos()
	if pos < 0 || pos > len(h.elems) {
		return fmt.Errorf("cursor %d out of range [0,%d]", pos, len(h.elems))
	}
	h.elems = append(h.elems, nil)
	copy(h.elems[pos+1:], h.elems[pos:])
	h.elems[pos] = e
	return nil
}

func (h *recordingHost) end(e *recordedElem) Cursor {
	for i, el := range h.elems {
		if el == e {
			return CursorAt(i + 1)
		}
	}
	return CursorAt(len(h.elems))
}

func (h *recordingHost) InsertParagraph(at Cursor, text string) (Paragraph, error) {
	e := &recordedElem{host: h}
	if text != "" {
		e.runs = append(e.runs, recordedRun{Text: text})
	}
	if err := h.insert(at, e); err != nil {
		return nil, err
	}
	return recordedParagraph{e}, nil
}

func (h *recordingHost) InsertTable(at Cursor, rows, cols int) (Table, error) {
	e := &recordedElem{host: h, table: true, cells: make([][]recordedCell, rows)}
	for i := range e.cells {
		e.cells[i] = make([]recordedCell, cols)
	}
	if err := h.insert(at, e); err != nil {
		return nil, err
	}
	return recordedTable{e}, nil
}

type recordedParagraph struct{ e *recordedElem }

func (p recordedParagraph) AppendRun(text string, f RunFormat) error {
	if p.e.host.failRun {
		return errHost
	}
	p.e.runs = append(p.e.runs, recordedRun{Text: text, Format: f})
	return nil
}

func (p recordedParagraph) SetFormat(f ParagraphFormat) error {
	if p.e.host.failFormat {
		return errHost
	}
	p.e.format = f
	return nil
}

func (p recordedParagraph) End() Cursor { return p.e.host.end(p.e) }

type recordedTable struct{ e *recordedElem }

func (t recordedTable) SetCell(row, col int, text string, f CellFormat) error {
	if t.e.host.failCell {
		return errHost
	}
	if row < 0 || row >= len(t.e.cells) || col < 0 || col >= len(t.e.cells[row]) {
		return fmt.Errorf("cell %d,%d out of range", row, col)
	}
	t.e.cells[row][col] = recordedCell{Text: text, Format: f}
	return nil
}

func (t recordedTable) End() Cursor { return t.e.host.end(t.e) }

func (e *recordedElem) text() string {
	var b strings.Builder
	for _, r := range e.runs {
		b.WriteString(r.Text)
	}
	return b.String()
}

// dump lists every element as "<style>: <text>"; tables appear as
// "table: a|b / c|d".
func (h *recordingHost) dump() []string {
	out := make([]string, 0, len(h.elems))
	for _, e := range h.elems {
		if !e.table {
			out = append(out, e.format.Style.String()+": "+e.text())
			continue
		}
		rows := make([]string, 0, len(e.cells))
		for _, row := range e.cells {
			cells := make([]string, 0, len(row))
			for _, c := range row {
				cells = append(cells, c.Text)
			}
			rows = append(rows, strings.Join(cells, "|"))
		}
		out = append(out, "table: "+strings.Join(rows, " / "))
	}
	return out
}

func render(t *testing.T, h *recordingHost, tokens []token.Token, opts ...RenderOption) Cursor {
	t.Helper()
	end, err := Render(RenderRequest{Tokens: tokens, Host: h, Options: opts})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return end
}

func tok(kind token.Kind, tag string) token.Token {
	return token.New(kind, tag)
}

func inline(content string, children ...token.Token) token.Token {
	if children == nil {
		children = []token.Token{text(content)}
	}
	return token.Token{Kind: token.Inline, Content: content, Children: children}
}

func text(s string) token.Token {
	return token.Token{Kind: token.Text, Content: s}
}

func heading(tag, content string) []token.Token {
	return []token.Token{tok(token.HeadingOpen, tag), inline(content), tok(token.HeadingClose, tag)}
}

func para(content string, children ...token.Token) []token.Token {
	return []token.Token{tok(token.ParagraphOpen, "p"), inline(content, children...), tok(token.ParagraphClose, "p")}
}

func item(content string, nested ...token.Token) []token.Token {
	out := []token.Token{tok(token.ListItemOpen, "li")}
	out = append(out, para(content)...)
	out = append(out, nested...)
	return append(out, tok(token.ListItemClose, "li"))
}

func bulletList(items ...[]token.Token) []token.Token {
	out := []token.Token{tok(token.BulletListOpen, "ul")}
	for _, it := range items {
		out = append(out, it...)
	}
	return append(out, tok(token.BulletListClose, "ul"))
}

func orderedList(items ...[]token.Token) []token.Token {
	out := []token.Token{tok(token.OrderedListOpen, "ol")}
	for _, it := range items {
		out = append(out, it...)
	}
	return append(out, tok(token.OrderedListClose, "ol"))
}

func row(cellKind token.Kind, tag string, cells ...string) []token.Token {
	out := []token.Token{tok(token.TrOpen, "tr")}
	for _, c := range cells {
		out = append(out, tok(cellKind, tag), inline(c), tok(cellKind.CloseOf(), tag))
	}
	return append(out, tok(token.TrClose, "tr"))
}

func join(parts ...[]token.Token) []token.Token {
	var out []token.Token
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
