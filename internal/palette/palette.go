// Package palette holds the colour sets behind the built-in themes.
package palette

import "strconv"

// Palette is a named set of "#rrggbb" colours.
type Palette struct {
	Text       string
	Muted      string
	H1         string
	H2         string
	H3         string
	H4         string
	Link       string
	CodeInline string
	CodeBlock  string
	CodeBg     string
	Quote      string
	Rule       string
	Background string
}

var (
	PaletteDefault = Palette{
		Text:       "#1F1F1F",
		Muted:      "#6A737D",
		H1:         "#1F3864",
		H2:         "#2F5496",
		H3:         "#1F3763",
		H4:         "#2F5496",
		Link:       "#0563C1",
		CodeInline: "#C7254E",
		CodeBlock:  "#24292E",
		CodeBg:     "#F3F3F3",
		Quote:      "#666666",
		Rule:       "#A0A0A0",
		Background: "#FFFFFF",
	}
	PaletteGithubLight = Palette{
		Text:       "#24292F",
		Muted:      "#57606A",
		H1:         "#24292F",
		H2:         "#24292F",
		H3:         "#24292F",
		H4:         "#57606A",
		Link:       "#0969DA",
		CodeInline: "#CF222E",
		CodeBlock:  "#24292F",
		CodeBg:     "#F6F8FA",
		Quote:      "#57606A",
		Rule:       "#D0D7DE",
		Background: "#FFFFFF",
	}
	PaletteGithubDark = Palette{
		Text:       "#C9D1D9",
		Muted:      "#8B949E",
		H1:         "#E6EDF3",
		H2:         "#E6EDF3",
		H3:         "#E6EDF3",
		H4:         "#8B949E",
		Link:       "#58A6FF",
		CodeInline: "#FF7B72",
		CodeBlock:  "#C9D1D9",
		CodeBg:     "#161B22",
		Quote:      "#8B949E",
		Rule:       "#30363D",
		Background: "#0D1117",
	}
	PaletteSolarizedLight = Palette{
		Text:       "#657B83",
		Muted:      "#93A1A1",
		H1:         "#CB4B16",
		H2:         "#B58900",
		H3:         "#859900",
		H4:         "#2AA198",
		Link:       "#268BD2",
		CodeInline: "#D33682",
		CodeBlock:  "#586E75",
		CodeBg:     "#EEE8D5",
		Quote:      "#93A1A1",
		Rule:       "#93A1A1",
		Background: "#FDF6E3",
	}
	PaletteSolarizedDark = Palette{
		Text:       "#839496",
		Muted:      "#586E75",
		H1:         "#CB4B16",
		H2:         "#B58900",
		H3:         "#859900",
		H4:         "#2AA198",
		Link:       "#268BD2",
		CodeInline: "#D33682",
		CodeBlock:  "#93A1A1",
		CodeBg:     "#073642",
		Quote:      "#586E75",
		Rule:       "#586E75",
		Background: "#002B36",
	}
	PaletteNord = Palette{
		Text:       "#D8DEE9",
		Muted:      "#4C566A",
		H1:         "#88C0D0",
		H2:         "#81A1C1",
		H3:         "#5E81AC",
		H4:         "#8FBCBB",
		Link:       "#88C0D0",
		CodeInline: "#A3BE8C",
		CodeBlock:  "#E5E9F0",
		CodeBg:     "#3B4252",
		Quote:      "#616E88",
		Rule:       "#4C566A",
		Background: "#2E3440",
	}
	PaletteDracula = Palette{
		Text:       "#F8F8F2",
		Muted:      "#6272A4",
		H1:         "#FF79C6",
		H2:         "#BD93F9",
		H3:         "#8BE9FD",
		H4:         "#50FA7B",
		Link:       "#8BE9FD",
		CodeInline: "#F1FA8C",
		CodeBlock:  "#F8F8F2",
		CodeBg:     "#44475A",
		Quote:      "#6272A4",
		Rule:       "#6272A4",
		Background: "#282A36",
	}
	PaletteGruvbox = Palette{
		Text:       "#EBDBB2",
		Muted:      "#928374",
		H1:         "#FB4934",
		H2:         "#FABD2F",
		H3:         "#B8BB26",
		H4:         "#83A598",
		Link:       "#83A598",
		CodeInline: "#FE8019",
		CodeBlock:  "#EBDBB2",
		CodeBg:     "#3C3836",
		Quote:      "#928374",
		Rule:       "#665C54",
		Background: "#282828",
	}
	PaletteGruvboxLight = Palette{
		Text:       "#3C3836",
		Muted:      "#7C6F64",
		H1:         "#9D0006",
		H2:         "#B57614",
		H3:         "#79740E",
		H4:         "#076678",
		Link:       "#076678",
		CodeInline: "#AF3A03",
		CodeBlock:  "#3C3836",
		CodeBg:     "#EBDBB2",
		Quote:      "#7C6F64",
		Rule:       "#BDAE93",
		Background: "#FBF1C7",
	}
)

// RGB decodes a "#rrggbb" colour. ok is false for anything else.
func RGB(hex string) (r, g, b uint8, ok bool) {
	if len(hex) != 7 || hex[0] != '#' {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v), true
}
