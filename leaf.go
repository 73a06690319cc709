package mddoc

import "strings"

func (r *renderer) renderHeading(b *block, at Cursor) (Cursor, error) {
	text, ok := b.text()
	if !ok || text == "" {
		return at, nil
	}
	return r.insertText(at, text, r.styles.Heading[headingLevel(b.open.Tag)-1])
}

// renderQuote emits one quote paragraph for every paragraph inside the quote.
func (r *renderer) renderQuote(b *block, at Cursor) (Cursor, error) {
	var err error
	for _, text := range quoteParagraphs(b, nil) {
		if at, err = r.insertText(at, text, r.styles.Quote); err != nil {
			return at, err
		}
	}
	return at, nil
}

func quoteParagraphs(b *block, out []string) []string {
	for _, child := range b.children {
		if child.kind == blockParagraph {
			if text, ok := child.text(); ok {
				out = append(out, text)
			}
			continue
		}
		out = quoteParagraphs(child, out)
	}
	return out
}

func (r *renderer) renderCode(b *block, at Cursor) (Cursor, error) {
	code := strings.TrimSuffix(b.open.Content, "\n")
	if code == "" {
		return at, nil
	}
	if r.highlight != "" {
		if runs, ok := highlightCode(code, b.open.Info, r.highlight, r.styles.CodeToken); ok {
			p, err := r.host.InsertParagraph(at, "")
			if err != nil {
				return at, err
			}
			if err := p.SetFormat(r.styles.CodeBlock); err != nil {
				return at, err
			}
			for _, run := range runs {
				if err := p.AppendRun(run.text, run.format); err != nil {
					return at, err
				}
			}
			return p.End(), nil
		}
	}
	return r.insertText(at, code, r.styles.CodeBlock)
}

func (r *renderer) renderRule(at Cursor) (Cursor, error) {
	return r.insertText(at, strings.Repeat(RuleGlyph, RuleWidth), r.styles.Rule)
}
