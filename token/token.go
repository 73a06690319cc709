// Package token defines the flat Markdown token stream consumed by mddoc.
//
// The stream follows the markdown-it shape: block containers are emitted as
// sibling open and close tokens rather than as a tree, and inline formatting
// lives one level deep in the Children of an Inline token.
package token

// Kind identifies the type of a Token.
type Kind uint8

const (
	Other Kind = iota
	HeadingOpen
	HeadingClose
	ParagraphOpen
	ParagraphClose
	Inline
	BulletListOpen
	BulletListClose
	OrderedListOpen
	OrderedListClose
	ListItemOpen
	ListItemClose
	BlockquoteOpen
	BlockquoteClose
	CodeBlock
	HR
	TableOpen
	TableClose
	TheadOpen
	TheadClose
	TbodyOpen
	TbodyClose
	TrOpen
	TrClose
	ThOpen
	ThClose
	TdOpen
	TdClose
	StrongOpen
	StrongClose
	EmOpen
	EmClose
	CodeInline
	LinkOpen
	LinkClose
	Text
	Softbreak
	Hardbreak
)

var kindNames = [...]string{
	Other:            "other",
	HeadingOpen:      "heading_open",
	HeadingClose:     "heading_close",
	ParagraphOpen:    "paragraph_open",
	ParagraphClose:   "paragraph_close",
	Inline:           "inline",
	BulletListOpen:   "bullet_list_open",
	BulletListClose:  "bullet_list_close",
	OrderedListOpen:  "ordered_list_open",
	OrderedListClose: "ordered_list_close",
	ListItemOpen:     "list_item_open",
	ListItemClose:    "list_item_close",
	BlockquoteOpen:   "blockquote_open",
	BlockquoteClose:  "blockquote_close",
	CodeBlock:        "code_block",
	HR:               "hr",
	TableOpen:        "table_open",
	TableClose:       "table_close",
	TheadOpen:        "thead_open",
	TheadClose:       "thead_close",
	TbodyOpen:        "tbody_open",
	TbodyClose:       "tbody_close",
	TrOpen:           "tr_open",
	TrClose:          "tr_close",
	ThOpen:           "th_open",
	ThClose:          "th_close",
	TdOpen:           "td_open",
	TdClose:          "td_close",
	StrongOpen:       "strong_open",
	StrongClose:      "strong_close",
	EmOpen:           "em_open",
	EmClose:          "em_close",
	CodeInline:       "code_inline",
	LinkOpen:         "link_open",
	LinkClose:        "link_close",
	Text:             "text",
	Softbreak:        "softbreak",
	Hardbreak:        "hardbreak",
}

// String returns the markdown-it name of the kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return kindNames[Other]
}

// CloseOf returns the close kind paired with an open kind, or Other when k
// does not open a container.
func (k Kind) CloseOf() Kind {
	switch k {
	case HeadingOpen, ParagraphOpen, BulletListOpen, OrderedListOpen, ListItemOpen,
		BlockquoteOpen, TableOpen, TheadOpen, TbodyOpen, TrOpen, ThOpen, TdOpen,
		StrongOpen, EmOpen, LinkOpen:
		return k + 1
	default:
		return Other
	}
}

// Attr is one ordered key/value pair on an open token.
type Attr struct {
	Key   string
	Value string
}

// Token is one unit of parsed Markdown structure.
type Token struct {
	Kind     Kind
	Tag      string
	Content  string
	Info     string
	Attrs    []Attr
	Children []Token
}

// Attr returns the value of the first attribute named key.
func (t Token) Attr(key string) (string, bool) {
	for _, a := range t.Attrs {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// New returns a token of the given kind and tag.
func New(kind Kind, tag string) Token {
	return Token{Kind: kind, Tag: tag}
}
