package document

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	gmhtml "github.com/yuin/goldmark/renderer/html"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"pkt.systems/mddoc"
)

// PlainText returns the committed text, one line per paragraph and one
// tab-separated line per table row.
func (d *Document) PlainText() string {
	var b strings.Builder
	for _, block := range d.Snapshot() {
		switch {
		case block.Paragraph != nil:
			b.WriteString(block.Paragraph.Text())
			b.WriteByte('\n')
		case block.Table != nil:
			for _, row := range block.Table.Rows {
				for i, cell := range row {
					if i > 0 {
						b.WriteByte('\t')
					}
					b.WriteString(cell.Text)
				}
				b.WriteByte('\n')
			}
		}
	}
	return b.String()
}

type jsonDocument struct {
	Title  string  `json:"title,omitempty"`
	Blocks []Block `json:"blocks"`
}

// WriteJSON writes the committed document as indented JSON.
func (d *Document) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(jsonDocument{Title: d.Title(), Blocks: d.Snapshot()}); err != nil {
		return fmt.Errorf("document json: %w", err)
	}
	return nil
}

// WriteHTML writes the committed document as a standalone HTML page.
func (d *Document) WriteHTML(w io.Writer) error {
	root := &html.Node{Type: html.DocumentNode}
	root.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
	page := element(atom.Html)
	root.AppendChild(page)
	head := element(atom.Head)
	page.AppendChild(head)
	meta := element(atom.Meta)
	meta.Attr = []html.Attribute{{Key: "charset", Val: "utf-8"}}
	head.AppendChild(meta)
	if title := d.Title(); title != "" {
		t := element(atom.Title)
		t.AppendChild(textNode(title))
		head.AppendChild(t)
	}
	body := element(atom.Body)
	page.AppendChild(body)
	for _, block := range d.Snapshot() {
		switch {
		case block.Paragraph != nil:
			body.AppendChild(paragraphNode(block.Paragraph))
		case block.Table != nil:
			body.AppendChild(tableNode(block.Table))
		}
	}
	if err := html.Render(w, root); err != nil {
		return fmt.Errorf("document html: %w", err)
	}
	return nil
}

func element(a atom.Atom) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
}

func textNode(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func paragraphNode(p *Paragraph) *html.Node {
	f := p.Format
	if f.Style == mddoc.StyleRule {
		return element(atom.Hr)
	}
	var n *html.Node
	switch {
	case f.Style.HeadingLevel() > 0:
		n = element(headingAtoms[f.Style.HeadingLevel()-1])
	case f.Style == mddoc.StyleCode:
		n = element(atom.Pre)
		code := element(atom.Code)
		n.AppendChild(code)
		appendRuns(code, p.Runs, true)
		setStyle(n, paragraphCSS(f))
		return n
	case f.Style == mddoc.StyleQuote:
		n = element(atom.Blockquote)
	default:
		n = element(atom.P)
	}
	if f.Style == mddoc.StyleListItem {
		n.Attr = append(n.Attr, html.Attribute{Key: "class", Val: "list-item"})
	}
	setStyle(n, paragraphCSS(f))
	appendRuns(n, p.Runs, false)
	return n
}

var headingAtoms = [4]atom.Atom{atom.H1, atom.H2, atom.H3, atom.H4}

func appendRuns(parent *html.Node, runs []Run, inCode bool) {
	for _, run := range runs {
		parent.AppendChild(runNode(run, inCode))
	}
}

// runNode wraps the run text in the elements matching its format, innermost
// first: code, emphasis, strong, then link.
func runNode(run Run, inCode bool) *html.Node {
	f := run.Format
	n := textNode(run.Text)
	wrap := func(a atom.Atom) {
		outer := element(a)
		outer.AppendChild(n)
		n = outer
	}
	if f.Font != "" && !inCode {
		wrap(atom.Code)
	}
	if f.Italic {
		wrap(atom.Em)
	}
	if f.Bold {
		wrap(atom.Strong)
	}
	if css := runCSS(f); css != "" {
		wrap(atom.Span)
		setStyle(n, css)
	}
	// Script-capable targets keep their text but lose the anchor.
	if f.Link != "" && !gmhtml.IsDangerousURL([]byte(f.Link)) {
		wrap(atom.A)
		n.Attr = append(n.Attr, html.Attribute{Key: "href", Val: f.Link})
	}
	return n
}

func tableNode(t *Table) *html.Node {
	n := element(atom.Table)
	for i, row := range t.Rows {
		tr := element(atom.Tr)
		for _, cell := range row {
			a := atom.Td
			if i == 0 && cell.Format.Bold {
				a = atom.Th
			}
			td := element(a)
			if cell.Format.Align != mddoc.AlignLeft {
				setStyle(td, "text-align:"+cell.Format.Align.String())
			}
			td.AppendChild(textNode(cell.Text))
			tr.AppendChild(td)
		}
		n.AppendChild(tr)
	}
	return n
}

func setStyle(n *html.Node, css string) {
	if css == "" {
		return
	}
	n.Attr = append(n.Attr, html.Attribute{Key: "style", Val: css})
}

func paragraphCSS(f mddoc.ParagraphFormat) string {
	var decls []string
	if f.Indent > 0 {
		decls = append(decls, "margin-left:"+pt(f.Indent))
	}
	if f.Align != mddoc.AlignLeft {
		decls = append(decls, "text-align:"+f.Align.String())
	}
	if f.Color != "" {
		decls = append(decls, "color:"+f.Color)
	}
	if f.Highlight != "" {
		decls = append(decls, "background-color:"+f.Highlight)
	}
	if f.Font != "" {
		decls = append(decls, "font-family:'"+f.Font+"'")
	}
	if f.Size > 0 {
		decls = append(decls, "font-size:"+pt(f.Size))
	}
	if f.Italic && f.Style != mddoc.StyleQuote {
		decls = append(decls, "font-style:italic")
	}
	return strings.Join(decls, ";")
}

func runCSS(f mddoc.RunFormat) string {
	var decls []string
	if f.Color != "" {
		decls = append(decls, "color:"+f.Color)
	}
	if f.Highlight != "" {
		decls = append(decls, "background-color:"+f.Highlight)
	}
	if f.Underline && f.Link == "" {
		decls = append(decls, "text-decoration:underline")
	}
	return strings.Join(decls, ";")
}

func pt(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "pt"
}
