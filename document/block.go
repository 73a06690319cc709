package document

import (
	"strings"

	"pkt.systems/mddoc"
)

// Run is a span of text sharing one character format.
type Run struct {
	Text   string          `json:"text"`
	Format mddoc.RunFormat `json:"format"`
}

// Paragraph is a sequence of runs with a paragraph format.
type Paragraph struct {
	Runs   []Run                 `json:"runs"`
	Format mddoc.ParagraphFormat `json:"format"`
}

// Text returns the concatenated run text.
func (p *Paragraph) Text() string {
	if len(p.Runs) == 1 {
		return p.Runs[0].Text
	}
	var b strings.Builder
	for _, run := range p.Runs {
		b.WriteString(run.Text)
	}
	return b.String()
}

// Cell is one table cell.
type Cell struct {
	Text   string           `json:"text"`
	Format mddoc.CellFormat `json:"format"`
}

// Table is a rectangular grid of cells.
type Table struct {
	Rows [][]Cell `json:"rows"`
}

func newTable(rows, cols int) *Table {
	t := &Table{Rows: make([][]Cell, rows)}
	for i := range t.Rows {
		t.Rows[i] = make([]Cell, cols)
	}
	return t
}

// Cols returns the number of columns.
func (t *Table) Cols() int {
	if len(t.Rows) == 0 {
		return 0
	}
	return len(t.Rows[0])
}

// Block is one top-level element of a document. Exactly one field is set.
type Block struct {
	Paragraph *Paragraph `json:"paragraph,omitempty"`
	Table     *Table     `json:"table,omitempty"`
}

func (b Block) clone() Block {
	switch {
	case b.Paragraph != nil:
		p := *b.Paragraph
		p.Runs = append([]Run(nil), b.Paragraph.Runs...)
		return Block{Paragraph: &p}
	case b.Table != nil:
		t := &Table{Rows: make([][]Cell, len(b.Table.Rows))}
		for i, row := range b.Table.Rows {
			t.Rows[i] = append([]Cell(nil), row...)
		}
		return Block{Table: t}
	default:
		return Block{}
	}
}
