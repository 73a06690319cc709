package markdown

import (
	"github.com/yuin/goldmark/ast"
	"go.abhg.dev/goldmark/toc"

	"pkt.systems/mddoc/token"
)

// contents emits a bulleted list of the document headings, nested by level.
// Entries are plain titles; list items render as flat text.
func (c *converter) contents(doc ast.Node, depth int) error {
	tree, err := toc.Inspect(doc, c.src, toc.MaxDepth(depth), toc.Compact(true))
	if err != nil {
		return err
	}
	if len(tree.Items) == 0 {
		return nil
	}
	c.contentItems(tree.Items)
	return nil
}

func (c *converter) contentItems(items toc.Items) {
	c.emit(token.New(token.BulletListOpen, "ul"))
	for _, item := range items {
		c.emit(token.New(token.ListItemOpen, "li"))
		if len(item.Title) > 0 {
			title := string(item.Title)
			c.emit(token.New(token.ParagraphOpen, "p"))
			c.emit(token.Token{
				Kind:     token.Inline,
				Content:  title,
				Children: []token.Token{textToken(title)},
			})
			c.emit(token.New(token.ParagraphClose, "p"))
		}
		if len(item.Items) > 0 {
			c.contentItems(item.Items)
		}
		c.emit(token.New(token.ListItemClose, "li"))
	}
	c.emit(token.New(token.BulletListClose, "ul"))
}
