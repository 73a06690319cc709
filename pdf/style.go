package pdf

import (
	"strings"

	"pkt.systems/mddoc"
	"pkt.systems/mddoc/internal/palette"
)

type pdfStyle struct {
	fontFamily string
	fontStyle  string
	size       float64
	r          int
	g          int
	b          int
}

type runAttrs struct {
	bold      bool
	italic    bool
	underline bool
	code      bool
	color     [3]int
}

// hexColor decodes "#rrggbb", falling back to def.
func hexColor(hex string, def [3]int) [3]int {
	r, g, b, ok := palette.RGB(hex)
	if !ok {
		return def
	}
	return [3]int{int(r), int(g), int(b)}
}

// mergeAttrs combines paragraph and run formatting the way a word processor
// would: run settings win, paragraph emphasis is inherited.
func mergeAttrs(p mddoc.ParagraphFormat, r mddoc.RunFormat, defaultColor [3]int) runAttrs {
	attrs := runAttrs{
		bold:      p.Bold || r.Bold,
		italic:    p.Italic || r.Italic,
		underline: r.Underline,
		code:      r.Font != "" && r.Font != p.Font,
		color:     hexColor(p.Color, defaultColor),
	}
	if r.Color != "" {
		attrs.color = hexColor(r.Color, attrs.color)
	}
	return attrs
}

func styleToFontStyle(attrs runAttrs, forceBold bool, allowBoldItalic bool) string {
	bold := attrs.bold || forceBold
	italic := attrs.italic
	if bold && italic && !allowBoldItalic {
		italic = false
	}
	var b strings.Builder
	if bold {
		b.WriteByte('B')
	}
	if italic {
		b.WriteByte('I')
	}
	if attrs.underline {
		b.WriteByte('U')
	}
	return b.String()
}

func isCoreFont(name string) bool {
	switch name {
	case "Courier", "Helvetica", "Times", "Symbol", "ZapfDingbats":
		return true
	default:
		return false
	}
}

// coreFontReplacements maps glyphs produced by the renderer that the core
// fonts cannot show onto close substitutes.
var coreFontReplacements = strings.NewReplacer(
	"☐", "[ ]",
	"☑", "[x]",
	"─", "-",
	"\u00a0", " ",
)
