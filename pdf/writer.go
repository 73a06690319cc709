package pdf

import (
	"strings"

	"github.com/go-pdf/fpdf"

	"pkt.systems/mddoc"
	"pkt.systems/mddoc/document"
)

const (
	paragraphGap = 0.5
	quoteBarGap  = 8
	cellPadding  = 4
)

var boringText = [3]int{0, 0, 0}

// pdfWriter flows document blocks onto pages.
type pdfWriter struct {
	pdf          *fpdf.Fpdf
	cfg          Config
	styles       mddoc.Styles
	utf8Families map[string]bool
	translate    func(string) string
	unsupported  map[rune]bool
	corner       *cornerImage
	bgLayer      int
	pageW        float64
	pageH        float64
	textRGB      [3]int
	background   [3]int
}

func newPDFWriter(pdf *fpdf.Fpdf, cfg Config, styles mddoc.Styles, utf8Families map[string]bool, corner *cornerImage) *pdfWriter {
	w := &pdfWriter{
		pdf:          pdf,
		cfg:          cfg,
		styles:       styles,
		utf8Families: utf8Families,
		translate:    pdf.UnicodeTranslatorFromDescriptor(""),
		unsupported:  make(map[rune]bool),
		corner:       corner,
		bgLayer:      -1,
	}
	w.pageW, w.pageH = pdf.GetPageSize()
	w.textRGB = hexColor(styles.Body.Color, boringText)
	w.background = hexColor(styles.Background, [3]int{255, 255, 255})
	if cfg.Background != "" {
		w.background = hexColor(cfg.Background, w.background)
	}
	if cfg.IgnoreColors {
		w.textRGB = boringText
	}
	return w
}

// decoratePage paints the background and, on the first page, the corner
// image. fpdf calls it from AddPage, including automatic page breaks.
func (w *pdfWriter) decoratePage() {
	if w.cfg.BackgroundEnabled {
		if w.bgLayer >= 0 {
			w.pdf.BeginLayer(w.bgLayer)
		}
		w.pdf.SetFillColor(w.background[0], w.background[1], w.background[2])
		w.pdf.Rect(0, 0, w.pageW, w.pageH, "F")
		if w.bgLayer >= 0 {
			w.pdf.EndLayer()
		}
	}
	top := w.cfg.Margin
	if w.corner != nil && w.pdf.PageNo() == 1 {
		x := w.pageW - w.cfg.Margin - w.corner.width
		w.pdf.ImageOptions(w.corner.path, x, w.cfg.Margin, w.corner.width, w.corner.height, false, w.corner.opts, 0, "")
		top += w.corner.height + w.cfg.CornerImagePadding
	}
	w.pdf.SetXY(w.cfg.Margin, top)
}

func (w *pdfWriter) contentWidth() float64 {
	return w.pageW - 2*w.cfg.Margin
}

// text prepares s for the font family: core fonts need cp1252 and cannot
// show every rune, so unsupported runes are dropped.
func (w *pdfWriter) text(s, family string) string {
	if w.utf8Families[family] {
		return s
	}
	s = coreFontReplacements.Replace(s)
	var b strings.Builder
	for _, r := range s {
		if r >= 0x80 && w.isUnsupported(r) {
			continue
		}
		b.WriteRune(r)
	}
	return w.translate(b.String())
}

func (w *pdfWriter) isUnsupported(r rune) bool {
	bad, ok := w.unsupported[r]
	if !ok {
		bad = w.translate(string(r)) == "."
		w.unsupported[r] = bad
	}
	return bad
}

func (w *pdfWriter) color(attrs runAttrs) [3]int {
	if w.cfg.IgnoreColors {
		return w.textRGB
	}
	return attrs.color
}

func (w *pdfWriter) fontSize(f mddoc.ParagraphFormat) float64 {
	if level := f.Style.HeadingLevel(); level > 0 {
		return w.cfg.FontSize * w.cfg.HeadingScale[level-1]
	}
	return w.cfg.FontSize
}

func (w *pdfWriter) familyFor(f mddoc.ParagraphFormat, attrs runAttrs) string {
	switch {
	case f.Style == mddoc.StyleCode || attrs.code:
		return w.cfg.CodeFontFamily
	case f.Style.HeadingLevel() > 0 && w.cfg.HeadingFont != "":
		return headingFontFamily
	default:
		return w.cfg.FontFamily
	}
}

// styleFor resolves the font and colour of one run.
func (w *pdfWriter) styleFor(f mddoc.ParagraphFormat, run mddoc.RunFormat) pdfStyle {
	attrs := mergeAttrs(f, run, w.textRGB)
	family := w.familyFor(f, attrs)
	allowBoldItalic := !w.utf8Families[family] ||
		(family == w.cfg.FontFamily && (w.cfg.BoldItalicFont != "" || len(w.cfg.BoldItalicFontBytes) > 0))
	if family == headingFontFamily {
		attrs.italic = false
	}
	c := w.color(attrs)
	return pdfStyle{
		fontFamily: family,
		fontStyle:  styleToFontStyle(attrs, false, allowBoldItalic),
		size:       w.fontSize(f),
		r:          c[0],
		g:          c[1],
		b:          c[2],
	}
}

func (w *pdfWriter) applyStyle(style pdfStyle) {
	w.pdf.SetFont(style.fontFamily, style.fontStyle, style.size)
	w.pdf.SetTextColor(style.r, style.g, style.b)
}

func (w *pdfWriter) space(pt float64) {
	if pt > 0 {
		w.pdf.Ln(pt)
	}
}

// ensureRoom starts a new page when h points do not fit on the current one.
func (w *pdfWriter) ensureRoom(h float64) {
	if w.pdf.GetY()+h > w.pageH-w.cfg.Margin {
		w.pdf.AddPage()
	}
}

func (w *pdfWriter) paragraph(p *document.Paragraph) {
	f := p.Format
	switch f.Style {
	case mddoc.StyleCode:
		w.code(p)
		return
	case mddoc.StyleRule:
		w.rule(f)
		return
	}
	size := w.fontSize(f)
	lh := size * w.cfg.LineHeight
	if len(p.Runs) == 0 {
		w.space(lh * paragraphGap)
		return
	}
	w.space(f.SpaceBefore)
	w.ensureRoom(lh)
	left := w.cfg.Margin + f.Indent
	w.pdf.SetLeftMargin(left)
	w.pdf.SetX(left)
	page, top := w.pdf.PageNo(), w.pdf.GetY()
	for _, run := range p.Runs {
		style := w.styleFor(f, run.Format)
		w.applyStyle(style)
		text := w.text(run.Text, style.fontFamily)
		if run.Format.Link != "" && !strings.HasPrefix(run.Format.Link, "#") {
			w.pdf.WriteLinkString(lh, text, run.Format.Link)
			continue
		}
		w.pdf.Write(lh, text)
	}
	w.pdf.Ln(lh)
	if f.Style == mddoc.StyleQuote && w.pdf.PageNo() == page {
		bar := hexColor(f.Color, w.textRGB)
		if w.cfg.IgnoreColors {
			bar = w.textRGB
		}
		w.pdf.SetDrawColor(bar[0], bar[1], bar[2])
		w.pdf.SetLineWidth(1.5)
		x := left - quoteBarGap
		w.pdf.Line(x, top, x, w.pdf.GetY())
	}
	w.pdf.SetLeftMargin(w.cfg.Margin)
	w.pdf.SetX(w.cfg.Margin)
	after := f.SpaceAfter
	if f.Style != mddoc.StyleListItem {
		after += lh * paragraphGap
	}
	w.space(after)
}

// code draws each source line on a shaded band without wrapping; lines
// wider than the page are clipped at the right margin.
func (w *pdfWriter) code(p *document.Paragraph) {
	f := p.Format
	size := w.cfg.FontSize
	lh := size * w.cfg.LineHeight
	bg := hexColor(f.Highlight, [3]int{240, 240, 240})
	fill := f.Highlight != "" && !w.cfg.IgnoreColors
	w.space(f.SpaceBefore)
	for _, line := range codeLines(p.Runs) {
		w.ensureRoom(lh)
		y := w.pdf.GetY()
		left := w.cfg.Margin + f.Indent
		right := w.cfg.Margin + w.contentWidth()
		if fill {
			w.pdf.SetFillColor(bg[0], bg[1], bg[2])
			w.pdf.Rect(left, y, right-left, lh, "F")
		}
		x := left + cellPadding
		baseline := y + (lh+size*0.7)/2
		for _, seg := range line {
			style := w.styleFor(f, seg.Format)
			w.applyStyle(style)
			text := w.text(strings.ReplaceAll(seg.Text, "\t", "    "), style.fontFamily)
			width := w.pdf.GetStringWidth(text)
			if x+width > right {
				text = w.clip(text, right-x)
				width = w.pdf.GetStringWidth(text)
			}
			if text != "" {
				w.pdf.Text(x, baseline, text)
			}
			x += width
			if x >= right {
				break
			}
		}
		w.pdf.SetY(y + lh)
	}
	w.pdf.SetX(w.cfg.Margin)
	w.space(f.SpaceAfter)
}

// codeLines splits runs at newlines, keeping each piece's format.
func codeLines(runs []document.Run) [][]document.Run {
	lines := [][]document.Run{nil}
	for _, run := range runs {
		parts := strings.Split(run.Text, "\n")
		for i, part := range parts {
			if i > 0 {
				lines = append(lines, nil)
			}
			if part != "" {
				n := len(lines) - 1
				lines[n] = append(lines[n], document.Run{Text: part, Format: run.Format})
			}
		}
	}
	return lines
}

// clip shortens text to fit limit points in the current font.
func (w *pdfWriter) clip(text string, limit float64) string {
	runes := []rune(text)
	for len(runes) > 0 && w.pdf.GetStringWidth(string(runes)) > limit {
		runes = runes[:len(runes)-1]
	}
	return string(runes)
}

func (w *pdfWriter) rule(f mddoc.ParagraphFormat) {
	lh := w.cfg.FontSize * w.cfg.LineHeight
	w.space(f.SpaceBefore)
	w.ensureRoom(lh)
	c := hexColor(f.Color, w.textRGB)
	if w.cfg.IgnoreColors {
		c = w.textRGB
	}
	w.pdf.SetDrawColor(c[0], c[1], c[2])
	w.pdf.SetLineWidth(0.75)
	y := w.pdf.GetY() + lh/2
	w.pdf.Line(w.cfg.Margin, y, w.cfg.Margin+w.contentWidth(), y)
	w.pdf.Ln(lh)
	w.space(f.SpaceAfter)
}

// table draws a bordered grid. Column widths follow the widest cell and are
// scaled down together when the table is wider than the page.
func (w *pdfWriter) table(t *document.Table) {
	cols := t.Cols()
	if cols == 0 {
		return
	}
	lh := w.cfg.FontSize * w.cfg.LineHeight
	w.pdf.SetCellMargin(cellPadding)
	widths := make([]float64, cols)
	for _, row := range t.Rows {
		for j, cell := range row {
			style := w.cellStyle(cell)
			w.applyStyle(style)
			cw := w.pdf.GetStringWidth(w.text(cell.Text, style.fontFamily)) + 2*cellPadding + 1
			if cw > widths[j] {
				widths[j] = cw
			}
		}
	}
	total := 0.0
	for _, cw := range widths {
		total += cw
	}
	if avail := w.contentWidth(); total > avail {
		scale := avail / total
		for j := range widths {
			widths[j] *= scale
		}
	}
	border := hexColor(w.styles.Rule.Color, w.textRGB)
	header := hexColor(w.styles.CodeBlock.Highlight, [3]int{240, 240, 240})
	if w.cfg.IgnoreColors {
		border = w.textRGB
	}
	w.pdf.SetDrawColor(border[0], border[1], border[2])
	w.pdf.SetLineWidth(0.5)
	w.pdf.SetX(w.cfg.Margin)
	for i, row := range t.Rows {
		w.ensureRoom(lh)
		w.pdf.SetX(w.cfg.Margin)
		for j, cell := range row {
			style := w.cellStyle(cell)
			w.applyStyle(style)
			text := w.text(cell.Text, style.fontFamily)
			if w.pdf.GetStringWidth(text) > widths[j]-2*cellPadding {
				text = w.clip(text, widths[j]-2*cellPadding-w.pdf.GetStringWidth("...")) + "..."
			}
			fill := i == 0 && cell.Format.Bold && !w.cfg.IgnoreColors
			if fill {
				w.pdf.SetFillColor(header[0], header[1], header[2])
			}
			w.pdf.CellFormat(widths[j], lh, text, "1", 0, alignString(cell.Format.Align), fill, 0, "")
		}
		w.pdf.Ln(lh)
	}
}

func (w *pdfWriter) cellStyle(cell document.Cell) pdfStyle {
	f := w.styles.Body
	f.Bold = cell.Format.Bold
	return w.styleFor(f, mddoc.RunFormat{})
}

func alignString(a mddoc.Alignment) string {
	switch a {
	case mddoc.AlignCenter:
		return "C"
	case mddoc.AlignRight:
		return "R"
	default:
		return "L"
	}
}
