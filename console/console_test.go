package console

import (
	"bytes"
	"strings"
	"testing"

	"pkt.systems/mddoc"
	"pkt.systems/mddoc/document"
)

var plainTheme = mddoc.NewTheme("plain", mddoc.Styles{})

func para(format mddoc.ParagraphFormat, runs ...document.Run) document.Block {
	return document.Block{Paragraph: &document.Paragraph{Runs: runs, Format: format}}
}

func text(s string) document.Run {
	return document.Run{Text: s}
}

func render(t *testing.T, width int, osc8 bool, blocks ...document.Block) string {
	t.Helper()
	var buf bytes.Buffer
	err := Render(RenderRequest{
		Blocks: blocks,
		Writer: &buf,
		Width:  width,
		Theme:  plainTheme,
		OSC8:   osc8,
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return buf.String()
}

func TestRenderPlainLayout(t *testing.T) {
	t.Parallel()
	item := mddoc.ParagraphFormat{Style: mddoc.StyleListItem, Indent: 36}
	tests := []struct {
		name   string
		width  int
		blocks []document.Block
		want   string
	}{
		{
			name:   "paragraphs separated by blank line",
			blocks: []document.Block{para(mddoc.ParagraphFormat{}, text("a")), para(mddoc.ParagraphFormat{}, text("b"))},
			want:   "a\n\nb\n",
		},
		{
			name:   "word wrap",
			width:  10,
			blocks: []document.Block{para(mddoc.ParagraphFormat{}, text("alpha beta gamma"))},
			want:   "alpha beta\ngamma\n",
		},
		{
			name:   "words glue across runs",
			width:  8,
			blocks: []document.Block{para(mddoc.ParagraphFormat{}, text("ab "), text("cd"), text("ef gh"))},
			want:   "ab cdef\ngh\n",
		},
		{
			name:   "long word is broken",
			width:  4,
			blocks: []document.Block{para(mddoc.ParagraphFormat{}, text("abcdefghij"))},
			want:   "abcd\nefgh\nij\n",
		},
		{
			name:   "hard break",
			blocks: []document.Block{para(mddoc.ParagraphFormat{}, text("one\ntwo"))},
			want:   "one\ntwo\n",
		},
		{
			name:   "list items stay together",
			blocks: []document.Block{para(item, text("• a")), para(item, text("• b"))},
			want:   "    • a\n    • b\n",
		},
		{
			name:   "empty paragraphs are skipped",
			blocks: []document.Block{para(mddoc.ParagraphFormat{}), para(mddoc.ParagraphFormat{}, text("x"))},
			want:   "x\n",
		},
		{
			name:   "code keeps spacing",
			width:  4,
			blocks: []document.Block{para(mddoc.ParagraphFormat{Style: mddoc.StyleCode}, text("a  b\n  c"))},
			want:   "  a  b\n    c\n",
		},
		{
			name:   "quote bar",
			blocks: []document.Block{para(mddoc.ParagraphFormat{Style: mddoc.StyleQuote, Indent: 36}, text("said"))},
			want:   "  │ said\n",
		},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := render(t, tc.width, false, tc.blocks...); got != tc.want {
				t.Fatalf("mismatch:\nwant %q\ngot  %q", tc.want, got)
			}
		})
	}
}

func TestRenderTable(t *testing.T) {
	t.Parallel()
	table := &document.Table{Rows: [][]document.Cell{
		{{Text: "A"}, {Text: "Bee"}},
		{{Text: "1"}, {Text: "2"}},
	}}
	got := render(t, 0, false, document.Block{Table: table})
	want := strings.Join([]string{
		"┌───┬─────┐",
		"│ A │ Bee │",
		"├───┼─────┤",
		"│ 1 │ 2   │",
		"└───┴─────┘",
	}, "\n") + "\n"
	if got != want {
		t.Fatalf("table mismatch:\nwant:\n%s\ngot:\n%s", want, got)
	}
}

func TestRenderTableShrinksToWidth(t *testing.T) {
	t.Parallel()
	table := &document.Table{Rows: [][]document.Cell{
		{{Text: "short"}, {Text: "a much longer header"}},
	}}
	got := render(t, 20, false, document.Block{Table: table})
	for _, line := range strings.Split(strings.TrimSuffix(got, "\n"), "\n") {
		if w := len([]rune(line)); w > 20 {
			t.Fatalf("line wider than 20 columns (%d): %q", w, line)
		}
	}
	if !strings.Contains(got, "…") {
		t.Fatalf("expected truncated cell, got:\n%s", got)
	}
}

func TestRenderLinks(t *testing.T) {
	t.Parallel()
	link := document.Run{Text: "site", Format: mddoc.RunFormat{Link: "https://example.com"}}
	block := para(mddoc.ParagraphFormat{}, text("see "), link)

	plain := render(t, 0, false, block)
	if plain != "see site (https://example.com)\n" {
		t.Fatalf("unexpected plain link rendering %q", plain)
	}

	hyper := render(t, 0, true, block)
	want := "see " + osc8Start + "https://example.com" + osc8Term + "site" + osc8End + "\n"
	if hyper != want {
		t.Fatalf("unexpected osc8 rendering:\nwant %q\ngot  %q", want, hyper)
	}

	anchor := document.Run{Text: "Intro", Format: mddoc.RunFormat{Link: "#intro"}}
	if got := render(t, 0, false, para(mddoc.ParagraphFormat{}, anchor)); got != "Intro\n" {
		t.Fatalf("anchor link should not print target, got %q", got)
	}
}

func TestRenderStyles(t *testing.T) {
	t.Parallel()
	bold := document.Run{Text: "x", Format: mddoc.RunFormat{Bold: true}}
	if got := render(t, 0, false, para(mddoc.ParagraphFormat{}, bold)); got != "\x1b[1mx\x1b[0m\n" {
		t.Fatalf("unexpected bold rendering %q", got)
	}
	colored := document.Run{Text: "y", Format: mddoc.RunFormat{Color: "#FF8000"}}
	if got := render(t, 0, false, para(mddoc.ParagraphFormat{}, colored)); got != "\x1b[38;2;255;128;0my\x1b[0m\n" {
		t.Fatalf("unexpected colour rendering %q", got)
	}
	heading := para(mddoc.ParagraphFormat{Style: mddoc.StyleHeading1, Bold: true, Color: "#000000"}, text("T"))
	if got := render(t, 0, false, heading); got != "\x1b[1;38;2;0;0;0mT\x1b[0m\n" {
		t.Fatalf("unexpected heading rendering %q", got)
	}
}

func TestRenderRequiresWriter(t *testing.T) {
	t.Parallel()
	if err := Render(RenderRequest{}); err == nil {
		t.Fatalf("expected error for nil writer")
	}
}

func TestFitURL(t *testing.T) {
	t.Parallel()
	tests := []struct {
		url   string
		limit int
		want  string
	}{
		{url: "https://a.io", limit: 20, want: "https://a.io"},
		{url: "https://example.com/x", limit: 15, want: "example.com/x"},
		{url: "https://example.com/long/path", limit: 8, want: "https:/…"},
		{url: "https://example.com", limit: 0, want: "https://example.com"},
	}
	for _, tc := range tests {
		if got := fitURL(tc.url, tc.limit); got != tc.want {
			t.Fatalf("fitURL(%q, %d) = %q, want %q", tc.url, tc.limit, got, tc.want)
		}
	}
}
