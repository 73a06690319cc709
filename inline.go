package mddoc

import (
	"strings"

	"pkt.systems/mddoc/token"
)

// inlineStyle is the emphasis state active while accumulating text. It is a
// value: transitions build a new one instead of mutating the current one.
type inlineStyle struct {
	bold   bool
	italic bool
	code   bool
	link   string
}

func (s inlineStyle) withBold(on bool) inlineStyle {
	s.bold = on
	return s
}

func (s inlineStyle) withItalic(on bool) inlineStyle {
	s.italic = on
	return s
}

func (s inlineStyle) withCode(on bool) inlineStyle {
	s.code = on
	return s
}

func (s inlineStyle) withLink(href string) inlineStyle {
	s.link = href
	return s
}

// format resolves the style into the run format handed to the host.
func (s inlineStyle) format(styles *Styles) RunFormat {
	if s.code {
		return styles.CodeInline
	}
	var f RunFormat
	if s.bold {
		f = mergeRun(f, styles.Strong)
	}
	if s.italic {
		f = mergeRun(f, styles.Emphasis)
	}
	if s.link != "" {
		f = mergeRun(f, styles.Link)
		f.Link = s.link
	}
	return f
}

func mergeRun(dst, src RunFormat) RunFormat {
	dst.Bold = dst.Bold || src.Bold
	dst.Italic = dst.Italic || src.Italic
	dst.Underline = dst.Underline || src.Underline
	if src.Font != "" {
		dst.Font = src.Font
	}
	if src.Color != "" {
		dst.Color = src.Color
	}
	if src.Highlight != "" {
		dst.Highlight = src.Highlight
	}
	return dst
}

// runFormatter turns the children of one inline token into styled runs of a
// single paragraph. Buffered text is always flushed under the style that was
// active when it was buffered.
type runFormatter struct {
	para    Paragraph
	styles  *Styles
	style   inlineStyle
	pending strings.Builder
}

func newRunFormatter(p Paragraph, styles *Styles) *runFormatter {
	return &runFormatter{para: p, styles: styles}
}

func (f *runFormatter) format(children []token.Token) error {
	f.style = inlineStyle{}
	f.pending.Reset()
	for _, child := range children {
		var err error
		switch child.Kind {
		case token.StrongOpen:
			err = f.transition(f.style.withBold(true))
		case token.StrongClose:
			err = f.transition(f.style.withBold(false))
		case token.EmOpen:
			err = f.transition(f.style.withItalic(true))
		case token.EmClose:
			err = f.transition(f.style.withItalic(false))
		case token.LinkOpen:
			href, _ := child.Attr("href")
			err = f.transition(f.style.withLink(href))
		case token.LinkClose:
			err = f.transition(f.style.withLink(""))
		case token.CodeInline:
			err = f.code(child.Content)
		default:
			f.pending.WriteString(child.Content)
		}
		if err != nil {
			return err
		}
	}
	return f.flush()
}

// transition flushes buffered text under the current style, then switches.
func (f *runFormatter) transition(next inlineStyle) error {
	if err := f.flush(); err != nil {
		return err
	}
	f.style = next
	return nil
}

// code emits an inline code span as its own run, bypassing the buffer.
func (f *runFormatter) code(text string) error {
	if err := f.flush(); err != nil {
		return err
	}
	if text == "" {
		return nil
	}
	return f.para.AppendRun(text, f.style.withCode(true).format(f.styles))
}

// flush emits the buffered text as one run. An empty buffer emits nothing.
func (f *runFormatter) flush() error {
	if f.pending.Len() == 0 {
		return nil
	}
	text := f.pending.String()
	f.pending.Reset()
	return f.para.AppendRun(text, f.style.format(f.styles))
}
