package markdown

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/yuin/goldmark/ast"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/util"

	"pkt.systems/mddoc/token"
)

type converter struct {
	src    []byte
	tokens []token.Token
}

func (c *converter) emit(t token.Token) {
	c.tokens = append(c.tokens, t)
}

func (c *converter) blocks(parent ast.Node) {
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		c.block(n)
	}
}

func (c *converter) block(n ast.Node) {
	switch n := n.(type) {
	case *ast.Heading:
		tag := "h" + strconv.Itoa(n.Level)
		c.emit(token.New(token.HeadingOpen, tag))
		c.inline(n)
		c.emit(token.New(token.HeadingClose, tag))
	case *ast.Paragraph, *ast.TextBlock:
		c.emit(token.New(token.ParagraphOpen, "p"))
		c.inline(n)
		c.emit(token.New(token.ParagraphClose, "p"))
	case *ast.List:
		open, close, tag := token.BulletListOpen, token.BulletListClose, "ul"
		if n.IsOrdered() {
			open, close, tag = token.OrderedListOpen, token.OrderedListClose, "ol"
		}
		tok := token.New(open, tag)
		if n.IsOrdered() && n.Start != 1 {
			tok.Attrs = []token.Attr{{Key: "start", Value: strconv.Itoa(n.Start)}}
		}
		c.emit(tok)
		c.blocks(n)
		c.emit(token.New(close, tag))
	case *ast.ListItem:
		c.emit(token.New(token.ListItemOpen, "li"))
		c.blocks(n)
		c.emit(token.New(token.ListItemClose, "li"))
	case *ast.Blockquote:
		c.emit(token.New(token.BlockquoteOpen, "blockquote"))
		c.blocks(n)
		c.emit(token.New(token.BlockquoteClose, "blockquote"))
	case *ast.FencedCodeBlock:
		tok := token.New(token.CodeBlock, "code")
		tok.Info = string(n.Language(c.src))
		tok.Content = c.lines(n, false)
		c.emit(tok)
	case *ast.CodeBlock:
		tok := token.New(token.CodeBlock, "code")
		tok.Content = c.lines(n, false)
		c.emit(tok)
	case *ast.ThematicBreak:
		c.emit(token.New(token.HR, "hr"))
	case *ast.HTMLBlock:
		tok := token.New(token.Other, "html_block")
		tok.Content = c.lines(n, false)
		if n.HasClosure() {
			tok.Content += string(n.ClosureLine.Value(c.src))
		}
		c.emit(tok)
	case *extast.Table:
		c.table(n)
	default:
		if n.HasChildren() {
			c.blocks(n)
			return
		}
		if content := c.lines(n, true); content != "" {
			tok := token.New(token.Other, n.Kind().String())
			tok.Content = content
			c.emit(tok)
		}
	}
}

func (c *converter) table(t *extast.Table) {
	c.emit(token.New(token.TableOpen, "table"))
	bodyOpen := false
	for row := t.FirstChild(); row != nil; row = row.NextSibling() {
		switch row.(type) {
		case *extast.TableHeader:
			c.emit(token.New(token.TheadOpen, "thead"))
			c.row(row, token.ThOpen, token.ThClose, "th")
			c.emit(token.New(token.TheadClose, "thead"))
		case *extast.TableRow:
			if !bodyOpen {
				c.emit(token.New(token.TbodyOpen, "tbody"))
				bodyOpen = true
			}
			c.row(row, token.TdOpen, token.TdClose, "td")
		}
	}
	if bodyOpen {
		c.emit(token.New(token.TbodyClose, "tbody"))
	}
	c.emit(token.New(token.TableClose, "table"))
}

func (c *converter) row(row ast.Node, open, close token.Kind, tag string) {
	c.emit(token.New(token.TrOpen, "tr"))
	for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
		tok := token.New(open, tag)
		if tc, ok := cell.(*extast.TableCell); ok && tc.Alignment != extast.AlignNone {
			tok.Attrs = []token.Attr{{Key: "style", Value: "text-align:" + tc.Alignment.String()}}
		}
		c.emit(tok)
		c.inline(cell)
		c.emit(token.New(close, tag))
	}
	c.emit(token.New(token.TrClose, "tr"))
}

// inline emits the Inline token for a leaf block: its raw source as Content
// and its inline nodes flattened into Children.
func (c *converter) inline(n ast.Node) {
	tok := token.New(token.Inline, "")
	tok.Content = c.lines(n, true)
	if tok.Content == "" {
		tok.Content = c.plain(n)
	}
	tok.Children = c.children(n, nil)
	c.emit(tok)
}

// lines joins the source lines of a block. Inline regions are trimmed line
// by line; code keeps its indentation and newlines.
func (c *converter) lines(n ast.Node, trim bool) string {
	segs := n.Lines()
	if segs == nil || segs.Len() == 0 {
		return ""
	}
	var b strings.Builder
	for i := 0; i < segs.Len(); i++ {
		seg := segs.At(i)
		value := seg.Value(c.src)
		if !trim {
			b.Write(value)
			continue
		}
		if i > 0 {
			b.WriteByte('\n')
		}
		b.Write(bytes.TrimSpace(value))
	}
	return b.String()
}

// plain concatenates the text of all descendant text nodes.
func (c *converter) plain(n ast.Node) string {
	var b strings.Builder
	_ = ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := node.(type) {
		case *ast.Text:
			b.Write(node.Segment.Value(c.src))
			if node.SoftLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(node.Value)
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}

func (c *converter) children(parent ast.Node, out []token.Token) []token.Token {
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		out = c.inlineNode(n, out)
	}
	return out
}

func (c *converter) inlineNode(n ast.Node, out []token.Token) []token.Token {
	switch n := n.(type) {
	case *ast.Text:
		value := n.Segment.Value(c.src)
		if !n.IsRaw() {
			value = unescape(value)
		}
		if len(value) > 0 {
			out = append(out, textToken(string(value)))
		}
		if n.HardLineBreak() {
			out = append(out, token.Token{Kind: token.Hardbreak, Tag: "br", Content: "\n"})
		} else if n.SoftLineBreak() {
			out = append(out, token.Token{Kind: token.Softbreak, Tag: "br", Content: " "})
		}
	case *ast.String:
		if len(n.Value) > 0 {
			out = append(out, textToken(string(n.Value)))
		}
	case *ast.CodeSpan:
		tok := token.New(token.CodeInline, "code")
		tok.Content = strings.ReplaceAll(c.plain(n), "\n", " ")
		out = append(out, tok)
	case *ast.Emphasis:
		open, close, tag := token.EmOpen, token.EmClose, "em"
		if n.Level >= 2 {
			open, close, tag = token.StrongOpen, token.StrongClose, "strong"
		}
		out = append(out, token.New(open, tag))
		out = c.children(n, out)
		out = append(out, token.New(close, tag))
	case *ast.Link:
		out = append(out, linkOpen(string(n.Destination), string(n.Title)))
		out = c.children(n, out)
		out = append(out, token.New(token.LinkClose, "a"))
	case *ast.AutoLink:
		out = append(out, linkOpen(string(n.URL(c.src)), ""))
		out = append(out, textToken(string(n.Label(c.src))))
		out = append(out, token.New(token.LinkClose, "a"))
	case *ast.Image:
		tok := token.New(token.Other, "img")
		tok.Attrs = []token.Attr{{Key: "src", Value: string(n.Destination)}}
		tok.Content = c.plain(n)
		out = append(out, tok)
	case *ast.RawHTML:
		tok := token.New(token.Other, "html_inline")
		var b strings.Builder
		for i := 0; i < n.Segments.Len(); i++ {
			seg := n.Segments.At(i)
			b.Write(seg.Value(c.src))
		}
		tok.Content = b.String()
		out = append(out, tok)
	case *extast.TaskCheckBox:
		box := "☐ "
		if n.IsChecked {
			box = "☑ "
		}
		out = append(out, textToken(box))
	case *extast.Strikethrough:
		out = append(out, token.New(token.Other, "s"))
		out = c.children(n, out)
		out = append(out, token.New(token.Other, "s"))
	default:
		out = c.children(n, out)
	}
	return out
}

func textToken(content string) token.Token {
	return token.Token{Kind: token.Text, Content: content}
}

func linkOpen(href, title string) token.Token {
	tok := token.New(token.LinkOpen, "a")
	tok.Attrs = []token.Attr{{Key: "href", Value: href}}
	if title != "" {
		tok.Attrs = append(tok.Attrs, token.Attr{Key: "title", Value: title})
	}
	return tok
}

func unescape(value []byte) []byte {
	value = util.UnescapePunctuations(value)
	value = util.ResolveNumericReferences(value)
	return util.ResolveEntityNames(value)
}
