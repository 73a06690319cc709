package console

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/ansi"
)

// segment is a piece of a word sharing one style and link target.
type segment struct {
	text  string
	style style
	link  string
}

// lineBuilder fills lines word by word. A word may span several styled
// segments; it is only ever broken when it is wider than a whole line.
type lineBuilder struct {
	width    int
	osc8     bool
	preserve bool

	lines     []string
	cur       strings.Builder
	curWidth  int
	spaces    int
	pending   []segment
	pendWidth int
}

func newLineBuilder(width int, osc8 bool) *lineBuilder {
	return &lineBuilder{width: width, osc8: osc8}
}

// newPreservingBuilder keeps spacing verbatim and breaks only at newlines.
func newPreservingBuilder(osc8 bool) *lineBuilder {
	return &lineBuilder{osc8: osc8, preserve: true}
}

func (lb *lineBuilder) add(text string, s style, link string) {
	for text != "" {
		r, size := utf8.DecodeRuneInString(text)
		switch {
		case r == '\n':
			lb.flushWord()
			lb.newline()
		case !lb.preserve && unicode.IsSpace(r):
			lb.flushWord()
			lb.spaces++
		default:
			lb.appendPending(text[:size], s, link)
		}
		text = text[size:]
	}
}

func (lb *lineBuilder) appendPending(chunk string, s style, link string) {
	lb.pendWidth += runewidth.StringWidth(chunk)
	if n := len(lb.pending); n > 0 && lb.pending[n-1].style == s && lb.pending[n-1].link == link {
		lb.pending[n-1].text += chunk
		return
	}
	lb.pending = append(lb.pending, segment{text: chunk, style: s, link: link})
}

func (lb *lineBuilder) flushWord() {
	if len(lb.pending) == 0 {
		return
	}
	if lb.width > 0 && lb.curWidth > 0 && lb.curWidth+lb.spaces+lb.pendWidth > lb.width {
		lb.newline()
	}
	if lb.curWidth > 0 && lb.spaces > 0 {
		lb.cur.WriteString(strings.Repeat(" ", lb.spaces))
		lb.curWidth += lb.spaces
	}
	lb.spaces = 0
	if lb.width > 0 && lb.pendWidth > lb.width {
		lb.breakWord()
	} else {
		for _, seg := range lb.pending {
			lb.write(seg)
		}
	}
	lb.pending = lb.pending[:0]
	lb.pendWidth = 0
}

// breakWord spreads an over-long word across as many lines as it needs.
func (lb *lineBuilder) breakWord() {
	for _, seg := range lb.pending {
		text := seg.text
		for text != "" {
			room := lb.width - lb.curWidth
			if room <= 0 {
				lb.newline()
				room = lb.width
			}
			head := runewidth.Truncate(text, room, "")
			if head == "" {
				if lb.curWidth > 0 {
					lb.newline()
					continue
				}
				_, size := utf8.DecodeRuneInString(text)
				head = text[:size]
			}
			lb.write(segment{text: head, style: seg.style, link: seg.link})
			text = text[len(head):]
		}
	}
}

func (lb *lineBuilder) write(seg segment) {
	painted := seg.style.paint(seg.text)
	if lb.osc8 && seg.link != "" {
		painted = osc8Start + seg.link + osc8Term + painted + osc8End
	}
	lb.cur.WriteString(painted)
	lb.curWidth += ansi.PrintableRuneWidth(seg.text)
}

func (lb *lineBuilder) newline() {
	lb.lines = append(lb.lines, lb.cur.String())
	lb.cur.Reset()
	lb.curWidth = 0
	lb.spaces = 0
}

// finish returns the completed lines. A trailing empty line is dropped.
func (lb *lineBuilder) finish() []string {
	lb.flushWord()
	if lb.cur.Len() > 0 {
		lb.newline()
	}
	return lb.lines
}
