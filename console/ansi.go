package console

import (
	"os"
	"strconv"
	"strings"

	"github.com/muesli/reflow/ansi"

	"pkt.systems/mddoc"
	"pkt.systems/mddoc/internal/palette"
)

const (
	osc8Start = "\x1b]8;;"
	osc8Term  = "\x1b\\"
	osc8End   = "\x1b]8;;\x1b\\"
	sgrReset  = "\x1b[0m"
)

// DetectOSC8Support returns true if the current environment likely supports OSC 8 hyperlinks.
func DetectOSC8Support() bool {
	if os.Getenv("OSC8") == "0" {
		return false
	}
	if os.Getenv("DOMTERM") != "" {
		return true
	}
	if os.Getenv("WT_SESSION") != "" {
		return true
	}
	termProgram := os.Getenv("TERM_PROGRAM")
	if termProgram == "iTerm.app" || termProgram == "WezTerm" || termProgram == "vscode" {
		return true
	}
	if strings.Contains(strings.ToLower(os.Getenv("TERM")), "kitty") {
		return true
	}
	if vte := os.Getenv("VTE_VERSION"); vte != "" {
		if n, err := strconv.Atoi(vte); err == nil && n >= 5000 {
			return true
		}
	}
	return false
}

// style is the terminal rendition of a run after merging in its paragraph.
type style struct {
	bold      bool
	italic    bool
	underline bool
	fg        string
	bg        string
}

func runStyle(p mddoc.ParagraphFormat, r mddoc.RunFormat) style {
	s := style{
		bold:      p.Bold || r.Bold,
		italic:    p.Italic || r.Italic,
		underline: r.Underline,
		fg:        p.Color,
		bg:        p.Highlight,
	}
	if r.Color != "" {
		s.fg = r.Color
	}
	if r.Highlight != "" {
		s.bg = r.Highlight
	}
	return s
}

// prefix returns the SGR sequence selecting the style, or "" for the
// terminal default.
func (s style) prefix() string {
	var params []string
	if s.bold {
		params = append(params, "1")
	}
	if s.italic {
		params = append(params, "3")
	}
	if s.underline {
		params = append(params, "4")
	}
	if r, g, b, ok := palette.RGB(s.fg); ok {
		params = append(params, "38;2;"+rgbParams(r, g, b))
	}
	if r, g, b, ok := palette.RGB(s.bg); ok {
		params = append(params, "48;2;"+rgbParams(r, g, b))
	}
	if len(params) == 0 {
		return ""
	}
	return "\x1b[" + strings.Join(params, ";") + "m"
}

func rgbParams(r, g, b uint8) string {
	return strconv.Itoa(int(r)) + ";" + strconv.Itoa(int(g)) + ";" + strconv.Itoa(int(b))
}

// paint wraps text in the style, resetting afterwards.
func (s style) paint(text string) string {
	p := s.prefix()
	if p == "" || text == "" {
		return text
	}
	return p + text + sgrReset
}

func truncateWithEllipsis(text string, limit int) string {
	if ansi.PrintableRuneWidth(text) <= limit {
		return text
	}
	if limit <= 0 {
		return ""
	}
	if limit == 1 {
		return "…"
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit-1]) + "…"
}

func fitURL(url string, limit int) string {
	if limit <= 0 || ansi.PrintableRuneWidth(url) <= limit {
		return url
	}
	if idx := strings.Index(url, "://"); idx != -1 {
		trimmed := url[idx+3:]
		if ansi.PrintableRuneWidth(trimmed) <= limit {
			return trimmed
		}
	}
	return truncateWithEllipsis(url, limit)
}
