// Package markdown turns Markdown source into the flat token stream rendered
// by mddoc.
//
// Parsing is done by goldmark with the GFM table, strikethrough, task list
// and (optionally) linkify extensions. The resulting AST is flattened into
// markdown-it style tokens: every container becomes an open/close pair, even
// when empty, and inline formatting sits one level deep inside Inline tokens
// whose Content is the raw source of the inline region.
package markdown

import (
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"pkt.systems/mddoc/token"
)

// Result is the outcome of Parse.
type Result struct {
	Tokens []token.Token
	// Meta holds decoded front matter, or nil when the source had none.
	Meta map[string]any
}

// Option configures Parse.
type Option func(*parseConfig)

type parseConfig struct {
	tocDepth    int
	linkify     bool
	typographer bool
}

// WithTOC prepends a bulleted contents list linking to every heading up to
// maxDepth. Zero disables the list.
func WithTOC(maxDepth int) Option {
	return func(cfg *parseConfig) {
		cfg.tocDepth = maxDepth
	}
}

// WithLinkify turns bare URLs into links. Enabled by default.
func WithLinkify(enabled bool) Option {
	return func(cfg *parseConfig) {
		cfg.linkify = enabled
	}
}

// WithTypographer replaces straight quotes, dashes and ellipses with their
// typographic forms.
func WithTypographer(enabled bool) Option {
	return func(cfg *parseConfig) {
		cfg.typographer = enabled
	}
}

var typographicSubstitutions = extension.TypographicSubstitutions{
	extension.LeftSingleQuote:  []byte("‘"),
	extension.RightSingleQuote: []byte("’"),
	extension.LeftDoubleQuote:  []byte("“"),
	extension.RightDoubleQuote: []byte("”"),
	extension.EnDash:           []byte("–"),
	extension.EmDash:           []byte("—"),
	extension.Ellipsis:         []byte("…"),
	extension.LeftAngleQuote:   []byte("«"),
	extension.RightAngleQuote:  []byte("»"),
	extension.Apostrophe:       []byte("’"),
}

func newMarkdown(cfg parseConfig) goldmark.Markdown {
	exts := []goldmark.Extender{
		extension.Table,
		extension.Strikethrough,
		extension.TaskList,
	}
	if cfg.linkify {
		exts = append(exts, extension.Linkify)
	}
	if cfg.typographer {
		exts = append(exts, extension.NewTypographer(
			extension.WithTypographicSubstitutions(typographicSubstitutions),
		))
	}
	return goldmark.New(
		goldmark.WithExtensions(exts...),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
	)
}

// Parse strips front matter from src and converts the rest into tokens.
func Parse(src []byte, opts ...Option) (Result, error) {
	cfg := parseConfig{linkify: true}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	var res Result
	fm, body := SplitFrontMatter(src)
	if fm.Raw != nil {
		meta, err := fm.Decode()
		if err != nil {
			return Result{}, fmt.Errorf("markdown parse: front matter: %w", err)
		}
		res.Meta = meta
	}

	md := newMarkdown(cfg)
	doc := md.Parser().Parse(text.NewReader(body))
	c := &converter{src: body}
	if cfg.tocDepth > 0 {
		if err := c.contents(doc, cfg.tocDepth); err != nil {
			return Result{}, fmt.Errorf("markdown parse: contents: %w", err)
		}
	}
	c.blocks(doc)
	res.Tokens = c.tokens
	return res, nil
}
