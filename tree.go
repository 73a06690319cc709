package mddoc

import (
	"go.uber.org/zap"

	"pkt.systems/mddoc/token"
)

type blockKind uint8

const (
	blockHeading blockKind = iota
	blockParagraph
	blockBulletList
	blockOrderedList
	blockItem
	blockQuote
	blockTable
	blockThead
	blockTbody
	blockRow
	blockHeaderCell
	blockCell
	blockCode
	blockRule
	blockRaw
)

// block is one node of the tree rebuilt from the flat token stream.
// Containers hold children; headings, paragraphs and cells hold the inline
// token that followed their open token, if any.
type block struct {
	kind     blockKind
	open     token.Token
	inline   *token.Token
	children []*block
}

// text returns the content of the block's inline token.
func (b *block) text() (string, bool) {
	if b.inline == nil {
		return "", false
	}
	return b.inline.Content, true
}

var containerKinds = map[token.Kind]blockKind{
	token.BulletListOpen:  blockBulletList,
	token.OrderedListOpen: blockOrderedList,
	token.ListItemOpen:    blockItem,
	token.BlockquoteOpen:  blockQuote,
	token.TableOpen:       blockTable,
	token.TheadOpen:       blockThead,
	token.TbodyOpen:       blockTbody,
	token.TrOpen:          blockRow,
	token.ThOpen:          blockHeaderCell,
	token.TdOpen:          blockCell,
}

var closeKinds = map[token.Kind]token.Kind{
	token.BulletListClose:  token.BulletListOpen,
	token.OrderedListClose: token.OrderedListOpen,
	token.ListItemClose:    token.ListItemOpen,
	token.BlockquoteClose:  token.BlockquoteOpen,
	token.TableClose:       token.TableOpen,
	token.TheadClose:       token.TheadOpen,
	token.TbodyClose:       token.TbodyOpen,
	token.TrClose:          token.TrOpen,
	token.ThClose:          token.ThOpen,
	token.TdClose:          token.TdOpen,
}

type treeBuilder struct {
	root  block
	stack []*block
	log   *zap.Logger
}

// buildTree converts a flat token stream into a block tree in one pass.
//
// A close token ends the innermost open container of the same kind and
// implicitly ends everything opened after it, which matches scanning for the
// close with a per-kind depth counter. Close tokens without a matching open
// are ignored and containers left open run to the end of the stream.
func buildTree(tokens []token.Token, log *zap.Logger) []*block {
	b := &treeBuilder{log: log}
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		switch tok.Kind {
		case token.HeadingOpen:
			blk := &block{kind: blockHeading, open: tok}
			if next, ok := inlineAt(tokens, i+1); ok {
				blk.inline = next
				i++
			}
			b.add(blk)
		case token.ParagraphOpen:
			blk := &block{kind: blockParagraph, open: tok}
			if next, ok := inlineAt(tokens, i+1); ok {
				blk.inline = next
				i++
			}
			b.add(blk)
		case token.CodeBlock:
			b.add(&block{kind: blockCode, open: tok})
		case token.HR:
			b.add(&block{kind: blockRule, open: tok})
		case token.Inline:
			if top := b.top(); top != nil && isCell(top.kind) && top.inline == nil {
				top.inline = &tokens[i]
				continue
			}
			b.raw(tok)
		case token.HeadingClose, token.ParagraphClose:
		default:
			if kind, ok := containerKinds[tok.Kind]; ok {
				blk := &block{kind: kind, open: tok}
				b.add(blk)
				b.stack = append(b.stack, blk)
				continue
			}
			if open, ok := closeKinds[tok.Kind]; ok {
				b.close(open, i)
				continue
			}
			b.raw(tok)
		}
	}
	return b.root.children
}

func inlineAt(tokens []token.Token, i int) (*token.Token, bool) {
	if i < len(tokens) && tokens[i].Kind == token.Inline {
		return &tokens[i], true
	}
	return nil, false
}

func isCell(kind blockKind) bool {
	return kind == blockHeaderCell || kind == blockCell
}

func (b *treeBuilder) top() *block {
	if len(b.stack) == 0 {
		return nil
	}
	return b.stack[len(b.stack)-1]
}

func (b *treeBuilder) add(blk *block) {
	parent := b.top()
	if parent == nil {
		parent = &b.root
	}
	parent.children = append(parent.children, blk)
}

func (b *treeBuilder) raw(tok token.Token) {
	if tok.Content == "" {
		return
	}
	b.log.Debug("rendering unrecognized token as text", zap.Stringer("kind", tok.Kind))
	b.add(&block{kind: blockRaw, open: tok})
}

func (b *treeBuilder) close(open token.Kind, idx int) {
	for i := len(b.stack) - 1; i >= 0; i-- {
		if b.stack[i].open.Kind == open {
			if dropped := len(b.stack) - 1 - i; dropped > 0 {
				b.log.Debug("closing unterminated containers", zap.Int("count", dropped), zap.Int("token", idx))
			}
			b.stack = b.stack[:i]
			return
		}
	}
	b.log.Debug("ignoring unmatched close token", zap.Stringer("kind", open.CloseOf()), zap.Int("token", idx))
}
