package mddoc

import "fmt"

// StyleID names a built-in paragraph style of the host document.
type StyleID uint8

const (
	StyleNormal StyleID = iota
	StyleHeading1
	StyleHeading2
	StyleHeading3
	StyleHeading4
	StyleQuote
	StyleCode
	StyleRule
	StyleListItem
)

var styleNames = [...]string{
	StyleNormal:   "normal",
	StyleHeading1: "heading1",
	StyleHeading2: "heading2",
	StyleHeading3: "heading3",
	StyleHeading4: "heading4",
	StyleQuote:    "quote",
	StyleCode:     "code",
	StyleRule:     "rule",
	StyleListItem: "list-item",
}

func (s StyleID) String() string {
	if int(s) < len(styleNames) {
		return styleNames[s]
	}
	return styleNames[StyleNormal]
}

// HeadingLevel returns the heading level of the style, or 0.
func (s StyleID) HeadingLevel() int {
	if s >= StyleHeading1 && s <= StyleHeading4 {
		return int(s-StyleHeading1) + 1
	}
	return 0
}

// MarshalText encodes the style by name.
func (s StyleID) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a style name.
func (s *StyleID) UnmarshalText(text []byte) error {
	for i, name := range styleNames {
		if name == string(text) {
			*s = StyleID(i)
			return nil
		}
	}
	return fmt.Errorf("unknown paragraph style %q", text)
}

// Alignment is the horizontal alignment of a paragraph or table cell.
type Alignment uint8

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
)

func (a Alignment) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return "left"
	}
}

// MarshalText encodes the alignment by name.
func (a Alignment) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText decodes an alignment name.
func (a *Alignment) UnmarshalText(text []byte) error {
	switch string(text) {
	case "left":
		*a = AlignLeft
	case "center":
		*a = AlignCenter
	case "right":
		*a = AlignRight
	default:
		return fmt.Errorf("unknown alignment %q", text)
	}
	return nil
}

// RunFormat is the character formatting of one text run. Colors are
// "#rrggbb" strings; empty means the host default.
type RunFormat struct {
	Bold      bool   `json:"bold,omitempty"`
	Italic    bool   `json:"italic,omitempty"`
	Underline bool   `json:"underline,omitempty"`
	Font      string `json:"font,omitempty"`
	Color     string `json:"color,omitempty"`
	Highlight string `json:"highlight,omitempty"`
	Link      string `json:"link,omitempty"`
}

// ParagraphFormat is the paragraph-level formatting. Indent and spacing are
// in points.
type ParagraphFormat struct {
	Style       StyleID   `json:"style"`
	Indent      float64   `json:"indent,omitempty"`
	Align       Alignment `json:"align"`
	SpaceBefore float64   `json:"spaceBefore,omitempty"`
	SpaceAfter  float64   `json:"spaceAfter,omitempty"`
	Bold        bool      `json:"bold,omitempty"`
	Italic      bool      `json:"italic,omitempty"`
	Font        string    `json:"font,omitempty"`
	Size        float64   `json:"size,omitempty"`
	Color       string    `json:"color,omitempty"`
	Highlight   string    `json:"highlight,omitempty"`
}

// CellFormat is the formatting of one table cell.
type CellFormat struct {
	Bold  bool      `json:"bold,omitempty"`
	Align Alignment `json:"align"`
}
