// Package mddoc renders Markdown into a rich-text document.
//
// The renderer consumes the flat token stream produced by a Markdown parser
// (see the markdown package) and drives a document Host: it inserts headings,
// styled paragraphs, list items, block quotes, code blocks, tables and rules
// at an insertion Cursor that only ever moves forward. Every mutation goes
// through a Session, which the caller commits once at the end, so a render
// either lands in full or not at all.
//
// Core properties:
//   - Flat token stream in, host mutations out
//   - One cursor threaded through every block renderer
//   - Inline emphasis, links and code spans become separate styled runs
//   - Malformed token streams degrade silently instead of failing
//
// Example:
//
//	doc := document.New()
//	batch := doc.Begin()
//	_, err := mddoc.Convert(ctx, mddoc.ConvertRequest{
//		Reader:  strings.NewReader("# Hello\n\nMarkdown in, **document** out.\n"),
//		Session: batch,
//		Start:   doc.End(),
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
// Rendering can be customized using RenderOptions such as WithTheme and
// WithHighlighting.
package mddoc
