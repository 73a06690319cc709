package mddoc

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"pkt.systems/mddoc/token"
)

func TestRenderBlocksInSourceOrder(t *testing.T) {
	t.Parallel()
	tokens := join(
		heading("h1", "Title"),
		para("Intro"),
		bulletList(item("one"), item("two")),
		[]token.Token{tok(token.BlockquoteOpen, "blockquote")},
		para("Quoted"),
		[]token.Token{tok(token.BlockquoteClose, "blockquote")},
		[]token.Token{{Kind: token.CodeBlock, Tag: "code", Content: "x := 1\n"}},
		[]token.Token{tok(token.HR, "hr")},
		para("Outro"),
	)
	h := &recordingHost{}
	end := render(t, h, tokens)
	want := []string{
		"heading1: Title",
		"normal: Intro",
		"list-item: • one",
		"list-item: • two",
		"quote: Quoted",
		"code: x := 1",
		"rule: " + strings.Repeat(RuleGlyph, RuleWidth),
		"normal: Outro",
	}
	if diff := cmp.Diff(want, h.dump()); diff != "" {
		t.Fatalf("document mismatch (-want +got):\n%s", diff)
	}
	if end.Pos() != len(want) {
		t.Fatalf("end cursor %d, want %d", end.Pos(), len(want))
	}
}

func TestRenderHeadingLevels(t *testing.T) {
	t.Parallel()
	tests := []struct {
		tag  string
		want string
	}{
		{"h1", "heading1: x"},
		{"h2", "heading2: x"},
		{"h3", "heading3: x"},
		{"h4", "heading4: x"},
		{"h6", "heading4: x"},
		{"h", "heading4: x"},
		{"", "heading4: x"},
	}
	for _, tc := range tests {
		tc := tc
		t.Run("tag "+tc.tag, func(t *testing.T) {
			t.Parallel()
			h := &recordingHost{}
			render(t, h, heading(tc.tag, "x"))
			if diff := cmp.Diff([]string{tc.want}, h.dump()); diff != "" {
				t.Fatalf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRenderHeadingWithoutContentIsSkipped(t *testing.T) {
	t.Parallel()
	h := &recordingHost{}
	tokens := []token.Token{
		tok(token.HeadingOpen, "h1"),
		tok(token.HeadingClose, "h1"),
		tok(token.HeadingOpen, "h2"),
		inline(""),
		tok(token.HeadingClose, "h2"),
	}
	if end := render(t, h, tokens); end.Pos() != 0 || len(h.elems) != 0 {
		t.Fatalf("expected nothing inserted, got %v", h.dump())
	}
}

func TestRenderParagraphRuns(t *testing.T) {
	t.Parallel()
	styles := DefaultTheme().Styles()
	h := &recordingHost{}
	render(t, h, para("a **b** c",
		text("a "),
		tok(token.StrongOpen, "strong"),
		text("b"),
		tok(token.StrongClose, "strong"),
		text(" c"),
	))
	if len(h.elems) != 1 {
		t.Fatalf("expected one paragraph, got %v", h.dump())
	}
	p := h.elems[0]
	if diff := cmp.Diff(styles.Body, p.format); diff != "" {
		t.Fatalf("paragraph format mismatch (-want +got):\n%s", diff)
	}
	want := []recordedRun{
		{Text: "a "},
		{Text: "b", Format: RunFormat{Bold: true}},
		{Text: " c"},
	}
	if diff := cmp.Diff(want, p.runs); diff != "" {
		t.Fatalf("runs mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderEmptyParagraphInsertsBlankParagraph(t *testing.T) {
	t.Parallel()
	h := &recordingHost{}
	render(t, h, []token.Token{tok(token.ParagraphOpen, "p"), tok(token.ParagraphClose, "p")})
	if diff := cmp.Diff([]string{"normal: "}, h.dump()); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
	if len(h.elems[0].runs) != 0 {
		t.Fatalf("expected no runs, got %+v", h.elems[0].runs)
	}
}

func TestRenderLists(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		tokens []token.Token
		want   []string
	}{
		{
			name:   "ordered",
			tokens: orderedList(item("a"), item("b"), item("c")),
			want:   []string{"list-item: 1. a", "list-item: 2. b", "list-item: 3. c"},
		},
		{
			name: "nested lists follow their parent item",
			tokens: bulletList(
				item("outer", orderedList(item("inner one"), item("inner two"))...),
				item("last"),
			),
			want: []string{
				"list-item: • outer",
				"list-item: 1. inner one",
				"list-item: 2. inner two",
				"list-item: • last",
			},
		},
		{
			name: "bullet lists nested two levels deep",
			tokens: join(
				bulletList(
					item("a", bulletList(
						item("b", bulletList(item("c"))...),
					)...),
					item("d"),
				),
				para("after"),
			),
			want: []string{
				"list-item: • a",
				"list-item: • b",
				"list-item: • c",
				"list-item: • d",
				"normal: after",
			},
		},
		{
			name: "items without a paragraph are skipped and not counted",
			tokens: join(
				[]token.Token{tok(token.OrderedListOpen, "ol")},
				[]token.Token{tok(token.ListItemOpen, "li"), tok(token.ListItemClose, "li")},
				item("first"),
				item("second"),
				[]token.Token{tok(token.OrderedListClose, "ol")},
			),
			want: []string{"list-item: 1. first", "list-item: 2. second"},
		},
		{
			name: "only the first paragraph of an item is used",
			tokens: bulletList(
				join(
					[]token.Token{tok(token.ListItemOpen, "li")},
					para("first"),
					para("second"),
					[]token.Token{{Kind: token.CodeBlock, Content: "dropped\n"}},
					[]token.Token{tok(token.ListItemClose, "li")},
				),
			),
			want: []string{"list-item: • first"},
		},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			h := &recordingHost{}
			render(t, h, tc.tokens)
			if diff := cmp.Diff(tc.want, h.dump()); diff != "" {
				t.Fatalf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRenderListItemUsesRawInlineContent(t *testing.T) {
	t.Parallel()
	h := &recordingHost{}
	render(t, h, bulletList(join(
		[]token.Token{tok(token.ListItemOpen, "li"), tok(token.ParagraphOpen, "p")},
		[]token.Token{inline("a **b**", text("a "), tok(token.StrongOpen, "strong"), text("b"), tok(token.StrongClose, "strong"))},
		[]token.Token{tok(token.ParagraphClose, "p"), tok(token.ListItemClose, "li")},
	)))
	if diff := cmp.Diff([]string{"list-item: • a **b**"}, h.dump()); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
	if got := len(h.elems[0].runs); got != 1 {
		t.Fatalf("expected a single run, got %d", got)
	}
}

func TestRenderTable(t *testing.T) {
	t.Parallel()
	styles := DefaultTheme().Styles()
	tokens := join(
		[]token.Token{tok(token.TableOpen, "table"), tok(token.TheadOpen, "thead")},
		row(token.ThOpen, "th", "A", "B"),
		[]token.Token{tok(token.TheadClose, "thead"), tok(token.TbodyOpen, "tbody")},
		row(token.TdOpen, "td", "1", "2"),
		row(token.TdOpen, "td", "3"),
		[]token.Token{tok(token.TbodyClose, "tbody"), tok(token.TableClose, "table")},
	)
	h := &recordingHost{}
	end := render(t, h, tokens)
	want := []string{"normal: ", "table: A|B / 1|2 / 3|", "normal: "}
	if diff := cmp.Diff(want, h.dump()); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
	if end.Pos() != 3 {
		t.Fatalf("end cursor %d, want 3", end.Pos())
	}
	cells := h.elems[1].cells
	if cells[0][0].Format != styles.HeaderCell || cells[0][1].Format != styles.HeaderCell {
		t.Fatalf("header row should use header cell format: %+v", cells[0])
	}
	if cells[1][0].Format != styles.BodyCell || cells[2][1].Format != styles.BodyCell {
		t.Fatalf("body rows should use body cell format: %+v", cells[1:])
	}
}

func TestRenderTableEdges(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		tokens []token.Token
		want   []string
	}{
		{
			name:   "no rows",
			tokens: []token.Token{tok(token.TableOpen, "table"), tok(token.TableClose, "table")},
			want:   []string{},
		},
		{
			name: "body only",
			tokens: join(
				[]token.Token{tok(token.TableOpen, "table"), tok(token.TbodyOpen, "tbody")},
				row(token.TdOpen, "td", "x", "y"),
				[]token.Token{tok(token.TbodyClose, "tbody"), tok(token.TableClose, "table")},
			),
			want: []string{"normal: ", "table: x|y", "normal: "},
		},
		{
			name: "first header row wins",
			tokens: join(
				[]token.Token{tok(token.TableOpen, "table"), tok(token.TheadOpen, "thead")},
				row(token.ThOpen, "th", "H1"),
				row(token.ThOpen, "th", "H2"),
				[]token.Token{tok(token.TheadClose, "thead"), tok(token.TableClose, "table")},
			),
			want: []string{"normal: ", "table: H1", "normal: "},
		},
		{
			name: "extra cells beyond the first row are dropped",
			tokens: join(
				[]token.Token{tok(token.TableOpen, "table"), tok(token.TbodyOpen, "tbody")},
				row(token.TdOpen, "td", "a"),
				row(token.TdOpen, "td", "b", "c"),
				[]token.Token{tok(token.TbodyClose, "tbody"), tok(token.TableClose, "table")},
			),
			want: []string{"normal: ", "table: a / b", "normal: "},
		},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			h := &recordingHost{}
			render(t, h, tc.tokens)
			if diff := cmp.Diff(tc.want, h.dump()); diff != "" {
				t.Fatalf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRenderQuoteCollectsNestedParagraphs(t *testing.T) {
	t.Parallel()
	tokens := join(
		[]token.Token{tok(token.BlockquoteOpen, "blockquote")},
		para("first"),
		[]token.Token{tok(token.BlockquoteOpen, "blockquote")},
		para("nested"),
		[]token.Token{tok(token.BlockquoteClose, "blockquote")},
		bulletList(item("in list")),
		[]token.Token{tok(token.BlockquoteClose, "blockquote")},
	)
	h := &recordingHost{}
	render(t, h, tokens)
	want := []string{"quote: first", "quote: nested", "quote: in list"}
	if diff := cmp.Diff(want, h.dump()); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderCodeBlock(t *testing.T) {
	t.Parallel()
	h := &recordingHost{}
	tokens := []token.Token{
		{Kind: token.CodeBlock, Content: "line one\nline two\n\n"},
		{Kind: token.CodeBlock, Content: ""},
		{Kind: token.CodeBlock, Content: "\n"},
	}
	render(t, h, tokens)
	if diff := cmp.Diff([]string{"code: line one\nline two\n"}, h.dump()); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderCodeBlockHighlighted(t *testing.T) {
	t.Parallel()
	code := "package main\n\nfunc main() {}"
	h := &recordingHost{}
	render(t, h, []token.Token{{Kind: token.CodeBlock, Info: "go", Content: code + "\n"}}, WithHighlighting("monokai"))
	if len(h.elems) != 1 {
		t.Fatalf("expected one paragraph, got %v", h.dump())
	}
	p := h.elems[0]
	if p.text() != code {
		t.Fatalf("highlighted runs must concatenate to the code, got %q", p.text())
	}
	if len(p.runs) < 2 {
		t.Fatalf("expected several runs, got %d", len(p.runs))
	}
	if p.format.Style != StyleCode {
		t.Fatalf("unexpected paragraph style %v", p.format.Style)
	}

	h = &recordingHost{}
	render(t, h, []token.Token{{Kind: token.CodeBlock, Info: "no-such-language", Content: code}}, WithHighlighting("monokai"))
	if len(h.elems[0].runs) != 1 {
		t.Fatalf("unknown languages fall back to one run, got %d", len(h.elems[0].runs))
	}
}

func TestRenderUnknownTokensAsText(t *testing.T) {
	t.Parallel()
	tokens := []token.Token{
		{Kind: token.Other, Tag: "html_block", Content: "<div>raw</div>"},
		{Kind: token.Other, Tag: "front_matter"},
		{Kind: token.Inline, Content: "stray inline"},
	}
	h := &recordingHost{}
	render(t, h, tokens)
	want := []string{"normal: <div>raw</div>", "normal: stray inline"}
	if diff := cmp.Diff(want, h.dump()); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderMalformedStreams(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		tokens []token.Token
		want   []string
	}{
		{
			name:   "unmatched close is ignored",
			tokens: join([]token.Token{tok(token.BulletListClose, "ul")}, para("after")),
			want:   []string{"normal: after"},
		},
		{
			name:   "unclosed list runs to the end",
			tokens: join([]token.Token{tok(token.BulletListOpen, "ul")}, item("a"), item("b")),
			want:   []string{"list-item: • a", "list-item: • b"},
		},
		{
			name: "outer close ends inner containers",
			tokens: join(
				[]token.Token{tok(token.BlockquoteOpen, "blockquote"), tok(token.BulletListOpen, "ul")},
				item("inside"),
				[]token.Token{tok(token.BlockquoteClose, "blockquote")},
				para("outside"),
			),
			want: []string{"quote: inside", "normal: outside"},
		},
		{
			name:   "stray row renders its cells in place",
			tokens: row(token.TdOpen, "td", "loose"),
			want:   []string{"normal: loose"},
		},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			h := &recordingHost{}
			render(t, h, tc.tokens)
			if diff := cmp.Diff(tc.want, h.dump()); diff != "" {
				t.Fatalf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRenderThreadsCursorFromStart(t *testing.T) {
	t.Parallel()
	h := &recordingHost{}
	for i := 0; i < 4; i++ {
		if _, err := h.InsertParagraph(CursorAt(i), "existing"); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	end, err := Render(RenderRequest{
		Tokens: join(para("one"), heading("h2", "two")),
		Host:   h,
		Start:  CursorAt(2),
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if end.Pos() != 4 {
		t.Fatalf("end cursor %d, want 4", end.Pos())
	}
	want := []string{"normal: existing", "normal: existing", "normal: one", "heading2: two", "normal: existing", "normal: existing"}
	if diff := cmp.Diff(want, h.dump()); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderEmptyStreamReturnsStart(t *testing.T) {
	t.Parallel()
	h := &recordingHost{}
	end, err := Render(RenderRequest{Host: h, Start: CursorAt(0)})
	if err != nil || end.Pos() != 0 || len(h.elems) != 0 {
		t.Fatalf("unexpected result %v %v %v", end, err, h.dump())
	}
}

func TestRenderPropagatesHostErrors(t *testing.T) {
	t.Parallel()
	doc := join(
		para("p"),
		bulletList(item("i")),
		[]token.Token{tok(token.TableOpen, "table"), tok(token.TbodyOpen, "tbody")},
		row(token.TdOpen, "td", "c"),
		[]token.Token{tok(token.TbodyClose, "tbody"), tok(token.TableClose, "table")},
	)
	tests := []struct {
		name string
		host *recordingHost
	}{
		{name: "first insert", host: &recordingHost{failInsert: 1}},
		{name: "table insert", host: &recordingHost{failInsert: 4}},
		{name: "trailing spacer", host: &recordingHost{failInsert: 5}},
		{name: "append run", host: &recordingHost{failRun: true}},
		{name: "set format", host: &recordingHost{failFormat: true}},
		{name: "set cell", host: &recordingHost{failCell: true}},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			end, err := Render(RenderRequest{Tokens: doc, Host: tc.host, Start: CursorAt(0)})
			if !errors.Is(err, errHost) {
				t.Fatalf("expected host error, got %v", err)
			}
			if end.Pos() != 0 {
				t.Fatalf("failed render should return the start cursor, got %d", end.Pos())
			}
		})
	}
}

func TestRenderNilHost(t *testing.T) {
	t.Parallel()
	if _, err := Render(RenderRequest{}); !errors.Is(err, ErrNilHost) {
		t.Fatalf("expected ErrNilHost, got %v", err)
	}
}

func TestRenderUsesTheme(t *testing.T) {
	t.Parallel()
	custom := DefaultTheme().Styles()
	custom.Body.Color = "#123456"
	custom.Heading[0].Font = "Georgia"
	h := &recordingHost{}
	render(t, h, join(heading("h1", "T"), para("b")), WithTheme(NewTheme("custom", custom)))
	if h.elems[0].format.Font != "Georgia" || h.elems[1].format.Color != "#123456" {
		t.Fatalf("theme not applied: %+v %+v", h.elems[0].format, h.elems[1].format)
	}
}
