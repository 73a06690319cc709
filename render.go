package mddoc

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"pkt.systems/mddoc/token"
)

// ErrNilHost reports a render request without a host.
var ErrNilHost = errors.New("host is nil")

// RenderRequest configures Render.
type RenderRequest struct {
	Tokens  []token.Token
	Host    Host
	Start   Cursor
	Options []RenderOption
}

// Render inserts document content for every block of the token stream at
// req.Start, in source order, and returns the cursor after the last inserted
// element. Malformed token structure is skipped silently; host failures are
// returned wrapped and leave the returned cursor at req.Start.
func Render(req RenderRequest) (Cursor, error) {
	if req.Host == nil {
		return req.Start, fmt.Errorf("mddoc render: %w", ErrNilHost)
	}
	cfg := newRenderConfig(req.Options)
	r := &renderer{
		host:      req.Host,
		styles:    cfg.theme.Styles(),
		log:       cfg.logger,
		highlight: cfg.highlight,
	}
	tree := buildTree(req.Tokens, r.log)
	end, err := r.renderBlocks(tree, req.Start)
	if err != nil {
		return req.Start, fmt.Errorf("mddoc render: %w", err)
	}
	return end, nil
}

type renderer struct {
	host      Host
	styles    Styles
	log       *zap.Logger
	highlight string
}

// renderBlocks is the block dispatcher.
func (r *renderer) renderBlocks(blocks []*block, at Cursor) (Cursor, error) {
	var err error
	for _, b := range blocks {
		switch b.kind {
		case blockHeading:
			at, err = r.renderHeading(b, at)
		case blockParagraph:
			at, err = r.renderParagraph(b, at)
		case blockBulletList, blockOrderedList:
			at, err = r.renderList(b, at)
		case blockQuote:
			at, err = r.renderQuote(b, at)
		case blockTable:
			at, err = r.renderTable(b, at)
		case blockCode:
			at, err = r.renderCode(b, at)
		case blockRule:
			at, err = r.renderRule(at)
		case blockRaw:
			at, err = r.insertText(at, b.open.Content, r.styles.Body)
		default:
			// Structural tokens outside their container (a stray row or list
			// item) are transparent: their contents render in place.
			if text, ok := b.text(); ok && text != "" {
				if at, err = r.insertText(at, text, r.styles.Body); err != nil {
					return at, err
				}
			}
			at, err = r.renderBlocks(b.children, at)
		}
		if err != nil {
			return at, err
		}
	}
	return at, nil
}

func (r *renderer) renderParagraph(b *block, at Cursor) (Cursor, error) {
	p, err := r.host.InsertParagraph(at, "")
	if err != nil {
		return at, err
	}
	if err := p.SetFormat(r.styles.Body); err != nil {
		return at, err
	}
	if b.inline == nil {
		return p.End(), nil
	}
	f := newRunFormatter(p, &r.styles)
	if err := f.format(b.inline.Children); err != nil {
		return at, err
	}
	return p.End(), nil
}

// insertText inserts one single-run paragraph with a fixed format.
func (r *renderer) insertText(at Cursor, text string, format ParagraphFormat) (Cursor, error) {
	p, err := r.host.InsertParagraph(at, text)
	if err != nil {
		return at, err
	}
	if err := p.SetFormat(format); err != nil {
		return at, err
	}
	return p.End(), nil
}

// headingLevel derives the level from the trailing digit of an "hN" tag.
// Levels above 3, and tags without a usable digit, share level 4.
func headingLevel(tag string) int {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return 4
	}
	d := tag[len(tag)-1]
	if d < '1' || d > '3' {
		return 4
	}
	return int(d - '0')
}
