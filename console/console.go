// Package console writes documents to a terminal as ANSI text.
//
// Paragraph and run formats map onto SGR attributes with 24-bit colour;
// indents are converted from points to columns. Links become OSC 8
// hyperlinks when the terminal supports them and are otherwise followed by
// their target in parentheses.
package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/reflow/indent"

	"pkt.systems/mddoc"
	"pkt.systems/mddoc/document"
)

const (
	pointsPerColumn = 9
	quoteBar        = "│ "
	quoteBarWidth   = 2
	codeIndent      = 2
)

// RenderRequest configures Render.
type RenderRequest struct {
	Blocks []document.Block
	Writer io.Writer
	// Width wraps paragraphs at this many columns. Zero disables wrapping.
	Width int
	// Theme supplies colours for decorations not carried by the blocks.
	Theme mddoc.Theme
	OSC8  bool
}

// Render writes the blocks as ANSI text.
func Render(req RenderRequest) error {
	if req.Writer == nil {
		return fmt.Errorf("console render: Writer is nil")
	}
	theme := req.Theme
	if theme == nil {
		theme = mddoc.DefaultTheme()
	}
	r := &renderer{
		width:  req.Width,
		osc8:   req.OSC8,
		styles: theme.Styles(),
	}
	var out strings.Builder
	var prev *document.Paragraph
	wrote := false
	for _, block := range req.Blocks {
		var lines []string
		switch {
		case block.Paragraph != nil:
			lines = r.paragraph(block.Paragraph)
		case block.Table != nil:
			lines = r.table(block.Table)
		}
		if len(lines) == 0 {
			continue
		}
		if wrote && !adjacentItems(prev, block.Paragraph) {
			out.WriteByte('\n')
		}
		for _, line := range lines {
			out.WriteString(line)
			out.WriteByte('\n')
		}
		prev = block.Paragraph
		wrote = true
	}
	if _, err := io.WriteString(req.Writer, out.String()); err != nil {
		return fmt.Errorf("console render: %w", err)
	}
	return nil
}

// adjacentItems reports whether two consecutive paragraphs are list items,
// which are printed without a blank line between them.
func adjacentItems(prev, cur *document.Paragraph) bool {
	return prev != nil && cur != nil &&
		prev.Format.Style == mddoc.StyleListItem &&
		cur.Format.Style == mddoc.StyleListItem
}

type renderer struct {
	width  int
	osc8   bool
	styles mddoc.Styles
}

func columns(points float64) int {
	if points <= 0 {
		return 0
	}
	return int(points / pointsPerColumn)
}

func (r *renderer) paragraph(p *document.Paragraph) []string {
	if len(p.Runs) == 0 {
		return nil
	}
	f := p.Format
	switch f.Style {
	case mddoc.StyleCode:
		return r.code(p)
	case mddoc.StyleRule:
		return r.rule(p)
	}
	cols := columns(f.Indent)
	bar, barWidth := "", 0
	if f.Style == mddoc.StyleQuote {
		bar, barWidth = quoteBar, quoteBarWidth
		cols -= quoteBarWidth
		if cols < 0 {
			cols = 0
		}
	}
	width := r.width
	if width > 0 {
		width -= cols + barWidth
		if width < 1 {
			width = 1
		}
	}
	lb := newLineBuilder(width, r.osc8)
	for _, run := range p.Runs {
		s := runStyle(f, run.Format)
		lb.add(run.Text, s, run.Format.Link)
		if run.Format.Link != "" && !r.osc8 && showTarget(run) {
			lb.add(" ("+fitURL(run.Format.Link, width-2)+")", style{fg: r.styles.Link.Color}, "")
		}
	}
	lines := lb.finish()
	if bar != "" {
		painted := style{fg: f.Color}.paint(bar)
		for i, line := range lines {
			lines[i] = painted + line
		}
	}
	return indentLines(lines, cols)
}

// showTarget reports whether a link's target adds anything to its text.
func showTarget(run document.Run) bool {
	link := run.Format.Link
	if strings.HasPrefix(link, "#") {
		return false
	}
	text := strings.TrimSpace(run.Text)
	return text != link && "mailto:"+text != link
}

func (r *renderer) code(p *document.Paragraph) []string {
	lb := newPreservingBuilder(r.osc8)
	for _, run := range p.Runs {
		lb.add(run.Text, runStyle(p.Format, run.Format), "")
	}
	return indentLines(lb.finish(), codeIndent+columns(p.Format.Indent))
}

func (r *renderer) rule(p *document.Paragraph) []string {
	text := p.Text()
	if r.width > 0 {
		text = truncateWithEllipsis(text, r.width)
	}
	return []string{runStyle(p.Format, mddoc.RunFormat{}).paint(text)}
}

func indentLines(lines []string, cols int) []string {
	if cols <= 0 {
		return lines
	}
	for i, line := range lines {
		lines[i] = indent.String(line, uint(cols))
	}
	return lines
}
