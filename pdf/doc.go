// Package pdf lays out document blocks as a PDF.
//
// The renderer takes the committed blocks of a document and writes a PDF to
// an io.Writer. It supports theme-driven colors, configurable page layout,
// an optional corner image on the first page and TrueType fonts.
//
// Example:
//
//	doc := document.New()
//	// ... render Markdown into doc ...
//	cfg := pdf.DefaultConfig()
//	cfg.PageSize = "Letter"
//	cfg.FontSize = 12
//
//	err := pdf.Render(pdf.RenderRequest{
//		Blocks: doc.Snapshot(),
//		Writer: outFile,
//		Theme:  mddoc.DefaultTheme(),
//		Config: cfg,
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
// The core fonts (Helvetica, Times, Courier) are used unless
// RegularFont/BoldFont/ItalicFont or the matching font bytes are set in
// Config. Text set in a core font is limited to the Windows-1252 repertoire;
// other characters are dropped.
package pdf
