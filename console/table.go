package console

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/truncate"

	"pkt.systems/mddoc"
	"pkt.systems/mddoc/document"
)

const minColumnWidth = 3

// table draws a box around the cells. Columns shrink, widest first, until
// the table fits the width; cells that no longer fit are truncated.
func (r *renderer) table(t *document.Table) []string {
	cols := t.Cols()
	if cols == 0 {
		return nil
	}
	widths := make([]int, cols)
	for _, row := range t.Rows {
		for j, cell := range row {
			if w := runewidth.StringWidth(cell.Text); w > widths[j] {
				widths[j] = w
			}
		}
	}
	for j := range widths {
		if widths[j] < 1 {
			widths[j] = 1
		}
	}
	if r.width > 0 {
		shrinkColumns(widths, r.width-(3*cols+1))
	}
	border := style{fg: r.styles.Rule.Color}
	lines := make([]string, 0, len(t.Rows)+3)
	lines = append(lines, border.paint(ruleLine("┌", "┬", "┐", widths)))
	for i, row := range t.Rows {
		var b strings.Builder
		b.WriteString(border.paint("│"))
		for j, cell := range row {
			b.WriteByte(' ')
			b.WriteString(cellText(cell, widths[j]))
			b.WriteByte(' ')
			b.WriteString(border.paint("│"))
		}
		lines = append(lines, b.String())
		if i == 0 && len(t.Rows) > 1 {
			lines = append(lines, border.paint(ruleLine("├", "┼", "┤", widths)))
		}
	}
	lines = append(lines, border.paint(ruleLine("└", "┴", "┘", widths)))
	return lines
}

func shrinkColumns(widths []int, budget int) {
	total := 0
	for _, w := range widths {
		total += w
	}
	for total > budget {
		widest := 0
		for j, w := range widths {
			if w > widths[widest] {
				widest = j
			}
		}
		if widths[widest] <= minColumnWidth {
			return
		}
		widths[widest]--
		total--
	}
}

func ruleLine(left, mid, right string, widths []int) string {
	var b strings.Builder
	b.WriteString(left)
	for j, w := range widths {
		if j > 0 {
			b.WriteString(mid)
		}
		b.WriteString(strings.Repeat("─", w+2))
	}
	b.WriteString(right)
	return b.String()
}

func cellText(cell document.Cell, width int) string {
	text := cell.Text
	if runewidth.StringWidth(text) > width {
		text = truncate.StringWithTail(text, uint(width), "…")
	}
	switch cell.Format.Align {
	case mddoc.AlignRight:
		text = runewidth.FillLeft(text, width)
	case mddoc.AlignCenter:
		pad := width - runewidth.StringWidth(text)
		text = strings.Repeat(" ", pad/2) + text + strings.Repeat(" ", pad-pad/2)
	default:
		text = runewidth.FillRight(text, width)
	}
	if cell.Format.Bold {
		text = style{bold: true}.paint(text)
	}
	return text
}
