package mddoc

import (
	"sort"
	"strings"

	"pkt.systems/mddoc/internal/palette"
)

const (
	defaultBodyFont = "Calibri"
	defaultCodeFont = "Consolas"
	// ListIndent is the left indent of list items in points.
	ListIndent = 36
	// QuoteIndent is the left indent of block quotes in points.
	QuoteIndent = 36
	// RuleWidth is the number of glyphs in a horizontal rule.
	RuleWidth = 40
	// RuleGlyph is the glyph repeated to draw a horizontal rule.
	RuleGlyph = "─"
	// BulletPrefix starts every bulleted list item.
	BulletPrefix = "• "
)

// Styles groups the formats the renderer hands to the host.
type Styles struct {
	Body       ParagraphFormat
	Heading    [4]ParagraphFormat
	Quote      ParagraphFormat
	CodeBlock  ParagraphFormat
	CodeToken  RunFormat
	Rule       ParagraphFormat
	ListItem   ParagraphFormat
	Spacer     ParagraphFormat
	Strong     RunFormat
	Emphasis   RunFormat
	Link       RunFormat
	CodeInline RunFormat
	HeaderCell CellFormat
	BodyCell   CellFormat
	Background string
}

// Theme provides named styles for document rendering.
type Theme interface {
	Name() string
	Styles() Styles
}

type theme struct {
	name   string
	styles Styles
}

func (t theme) Name() string   { return t.name }
func (t theme) Styles() Styles { return t.styles }

// NewTheme returns a Theme from a Styles definition.
func NewTheme(name string, styles Styles) Theme {
	return theme{name: name, styles: styles}
}

func stylesFromPalette(p palette.Palette) Styles {
	heading := func(id StyleID, color string, size float64) ParagraphFormat {
		return ParagraphFormat{
			Style:       id,
			Bold:        true,
			Size:        size,
			Color:       color,
			Font:        defaultBodyFont,
			SpaceBefore: 12,
			SpaceAfter:  4,
		}
	}
	return Styles{
		Body: ParagraphFormat{Style: StyleNormal, Color: p.Text, Font: defaultBodyFont},
		Heading: [4]ParagraphFormat{
			heading(StyleHeading1, p.H1, 20),
			heading(StyleHeading2, p.H2, 16),
			heading(StyleHeading3, p.H3, 13),
			heading(StyleHeading4, p.H4, 11),
		},
		Quote: ParagraphFormat{
			Style:  StyleQuote,
			Italic: true,
			Color:  p.Quote,
			Indent: QuoteIndent,
			Font:   defaultBodyFont,
		},
		CodeBlock: ParagraphFormat{
			Style:       StyleCode,
			Font:        defaultCodeFont,
			Color:       p.CodeBlock,
			Highlight:   p.CodeBg,
			SpaceBefore: 6,
			SpaceAfter:  6,
		},
		CodeToken: RunFormat{Font: defaultCodeFont, Color: p.CodeBlock, Highlight: p.CodeBg},
		Rule: ParagraphFormat{
			Style:       StyleRule,
			Align:       AlignCenter,
			Color:       p.Rule,
			SpaceBefore: 6,
			SpaceAfter:  6,
		},
		ListItem:   ParagraphFormat{Style: StyleListItem, Indent: ListIndent, Color: p.Text, Font: defaultBodyFont},
		Spacer:     ParagraphFormat{Style: StyleNormal},
		Strong:     RunFormat{Bold: true},
		Emphasis:   RunFormat{Italic: true},
		Link:       RunFormat{Color: p.Link, Underline: true},
		CodeInline: RunFormat{Font: defaultCodeFont, Color: p.CodeInline, Highlight: p.CodeBg},
		HeaderCell: CellFormat{Bold: true, Align: AlignCenter},
		BodyCell:   CellFormat{Align: AlignLeft},
		Background: p.Background,
	}
}

var builtinThemes = map[string]Theme{
	"default":         theme{name: "default", styles: stylesFromPalette(palette.PaletteDefault)},
	"github-light":    theme{name: "github-light", styles: stylesFromPalette(palette.PaletteGithubLight)},
	"github-dark":     theme{name: "github-dark", styles: stylesFromPalette(palette.PaletteGithubDark)},
	"solarized-light": theme{name: "solarized-light", styles: stylesFromPalette(palette.PaletteSolarizedLight)},
	"solarized-dark":  theme{name: "solarized-dark", styles: stylesFromPalette(palette.PaletteSolarizedDark)},
	"nord":            theme{name: "nord", styles: stylesFromPalette(palette.PaletteNord)},
	"dracula":         theme{name: "dracula", styles: stylesFromPalette(palette.PaletteDracula)},
	"gruvbox":         theme{name: "gruvbox", styles: stylesFromPalette(palette.PaletteGruvbox)},
	"gruvbox-light":   theme{name: "gruvbox-light", styles: stylesFromPalette(palette.PaletteGruvboxLight)},
}

// AvailableThemes returns the names of built-in themes.
func AvailableThemes() []string {
	names := make([]string, 0, len(builtinThemes))
	for name := range builtinThemes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ThemeByName returns a built-in theme by name.
func ThemeByName(name string) (Theme, bool) {
	if name == "" {
		return builtinThemes["default"], true
	}
	normalized := strings.ToLower(strings.TrimSpace(name))
	theme, ok := builtinThemes[normalized]
	return theme, ok
}

// DefaultTheme returns the default built-in theme.
func DefaultTheme() Theme {
	return builtinThemes["default"]
}
