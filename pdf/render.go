package pdf

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-pdf/fpdf"

	"pkt.systems/mddoc"
	"pkt.systems/mddoc/document"
)

// RenderRequest contains inputs for PDF rendering.
type RenderRequest struct {
	Blocks []document.Block
	Writer io.Writer
	Theme  mddoc.Theme
	Config Config
	// Title is stored in the document information dictionary.
	Title string
}

// Render lays the blocks out as a themed PDF.
func Render(req RenderRequest) error {
	if req.Writer == nil {
		return fmt.Errorf("pdf render: writer is nil")
	}
	cfg := DefaultConfig()
	applyConfig(&cfg, req.Config)
	if cfg.FontFamily == "" || cfg.FontSize <= 0 || cfg.LineHeight <= 0 {
		return fmt.Errorf("pdf render: invalid font configuration")
	}
	hasPath := cfg.RegularFont != "" || cfg.BoldFont != "" || cfg.ItalicFont != ""
	hasBytes := len(cfg.RegularFontBytes) > 0 || len(cfg.BoldFontBytes) > 0 || len(cfg.ItalicFontBytes) > 0
	if hasPath && hasBytes {
		return fmt.Errorf("pdf render: cannot mix font paths with embedded font bytes")
	}
	if hasBytes && (len(cfg.RegularFontBytes) == 0 || len(cfg.BoldFontBytes) == 0 || len(cfg.ItalicFontBytes) == 0) {
		return fmt.Errorf("pdf render: missing embedded font bytes")
	}
	if hasPath && (cfg.RegularFont == "" || cfg.BoldFont == "" || cfg.ItalicFont == "") {
		return fmt.Errorf("pdf render: missing font paths")
	}
	useCoreFont := !hasPath && !hasBytes
	if useCoreFont && !isCoreFont(cfg.FontFamily) {
		return fmt.Errorf("pdf render: core font family required when font paths are empty")
	}
	if !isCoreFont(cfg.CodeFontFamily) {
		return fmt.Errorf("pdf render: code font must be a core font family")
	}
	if cfg.CornerImagePath != "" {
		if err := validateImagePath(cfg.CornerImagePath); err != nil {
			return fmt.Errorf("pdf render: %w", err)
		}
	}
	if cfg.HeadingFont != "" {
		if err := ensureHeadingFont(cfg.HeadingFont); err != nil {
			return fmt.Errorf("pdf render: %w", err)
		}
	}
	if cfg.Boring && cfg.BackgroundLayer {
		return fmt.Errorf("pdf render: life is too short for doubling down on boring, choose either boring or a background layer")
	}
	theme := req.Theme
	if theme == nil {
		theme = mddoc.DefaultTheme()
	}
	if cfg.Boring {
		cfg.IgnoreColors = true
		cfg.BackgroundEnabled = false
	}

	pdf := fpdf.New("P", "pt", cfg.PageSize, "")
	pdf.SetMargins(cfg.Margin, cfg.Margin, cfg.Margin)
	pdf.SetAutoPageBreak(true, cfg.Margin)
	pdf.SetCreator("mddoc", true)
	if req.Title != "" {
		pdf.SetTitle(req.Title, true)
	}
	utf8Families := make(map[string]bool)
	if hasBytes {
		pdf.AddUTF8FontFromBytes(cfg.FontFamily, "", cfg.RegularFontBytes)
		pdf.AddUTF8FontFromBytes(cfg.FontFamily, "B", cfg.BoldFontBytes)
		pdf.AddUTF8FontFromBytes(cfg.FontFamily, "I", cfg.ItalicFontBytes)
		if len(cfg.BoldItalicFontBytes) > 0 {
			pdf.AddUTF8FontFromBytes(cfg.FontFamily, "BI", cfg.BoldItalicFontBytes)
		}
		utf8Families[cfg.FontFamily] = true
		if cfg.HeadingFont != "" {
			headingBytes, err := os.ReadFile(cfg.HeadingFont)
			if err != nil {
				return fmt.Errorf("pdf render: heading font missing: %w", err)
			}
			pdf.AddUTF8FontFromBytes(headingFontFamily, "", headingBytes)
			pdf.AddUTF8FontFromBytes(headingFontFamily, "B", headingBytes)
			utf8Families[headingFontFamily] = true
		}
	} else if !useCoreFont {
		fontDir := filepath.Dir(cfg.RegularFont)
		if filepath.Dir(cfg.BoldFont) != fontDir || filepath.Dir(cfg.ItalicFont) != fontDir {
			return fmt.Errorf("pdf render: font paths must be in the same directory")
		}
		if cfg.BoldItalicFont != "" && filepath.Dir(cfg.BoldItalicFont) != fontDir {
			return fmt.Errorf("pdf render: bold-italic font must be in the same directory as body fonts")
		}
		if cfg.HeadingFont != "" && filepath.Dir(cfg.HeadingFont) != fontDir {
			return fmt.Errorf("pdf render: heading font must be in the same directory as body fonts")
		}
		pdf.SetFontLocation(fontDir)
		pdf.AddUTF8Font(cfg.FontFamily, "", filepath.Base(cfg.RegularFont))
		pdf.AddUTF8Font(cfg.FontFamily, "B", filepath.Base(cfg.BoldFont))
		pdf.AddUTF8Font(cfg.FontFamily, "I", filepath.Base(cfg.ItalicFont))
		if cfg.BoldItalicFont != "" {
			pdf.AddUTF8Font(cfg.FontFamily, "BI", filepath.Base(cfg.BoldItalicFont))
		}
		utf8Families[cfg.FontFamily] = true
		if cfg.HeadingFont != "" {
			base := filepath.Base(cfg.HeadingFont)
			pdf.AddUTF8Font(headingFontFamily, "", base)
			pdf.AddUTF8Font(headingFontFamily, "B", base)
			utf8Families[headingFontFamily] = true
		}
	} else if cfg.HeadingFont != "" {
		fontDir := filepath.Dir(cfg.HeadingFont)
		pdf.SetFontLocation(fontDir)
		base := filepath.Base(cfg.HeadingFont)
		pdf.AddUTF8Font(headingFontFamily, "", base)
		pdf.AddUTF8Font(headingFontFamily, "B", base)
		utf8Families[headingFontFamily] = true
	}
	pdf.SetFont(cfg.FontFamily, "", cfg.FontSize)
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("pdf render: font setup failed: %w", err)
	}

	charWidth := pdf.GetStringWidth("M")
	if math.IsNaN(charWidth) || charWidth <= 0 {
		return fmt.Errorf("pdf render: invalid font metrics (charWidth=%v)", charWidth)
	}
	pageW, _ := pdf.GetPageSize()
	if cols := int((pageW - 2*cfg.Margin) / charWidth); cols < 10 {
		return fmt.Errorf("pdf render: page too narrow for content (cols=%d)", cols)
	}

	corner, err := prepareCornerImage(pdf, cfg)
	if err != nil {
		return err
	}
	w := newPDFWriter(pdf, cfg, theme.Styles(), utf8Families, corner)
	if cfg.BackgroundEnabled && cfg.BackgroundLayer {
		w.bgLayer = pdf.AddLayer("background", true)
		if cfg.OpenLayerPane {
			pdf.OpenLayerPane()
		}
	}
	pdf.SetHeaderFunc(w.decoratePage)
	pdf.AddPage()
	for _, block := range req.Blocks {
		switch {
		case block.Paragraph != nil:
			w.paragraph(block.Paragraph)
		case block.Table != nil:
			w.table(block.Table)
		}
		if err := pdf.Error(); err != nil {
			return fmt.Errorf("pdf render: %w", err)
		}
	}
	if err := pdf.Output(req.Writer); err != nil {
		return fmt.Errorf("pdf render: output: %w", err)
	}
	return nil
}

func ensureHeadingFont(path string) error {
	if path == "" {
		return nil
	}
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".ttf" {
		return fmt.Errorf("heading font must be a .ttf file")
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("heading font missing: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("heading font path is a directory")
	}
	return nil
}

func validateImagePath(path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".png" && ext != ".jpg" && ext != ".jpeg" {
		return fmt.Errorf("corner image must be PNG or JPEG")
	}
	return nil
}

func imageTypeForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "PNG"
	case ".jpg", ".jpeg":
		return "JPG"
	default:
		return ""
	}
}

type cornerImage struct {
	path   string
	opts   fpdf.ImageOptions
	width  float64
	height float64
}

func prepareCornerImage(pdf *fpdf.Fpdf, cfg Config) (*cornerImage, error) {
	if cfg.CornerImagePath == "" {
		return nil, nil
	}
	imageType := imageTypeForPath(cfg.CornerImagePath)
	if imageType == "" {
		return nil, fmt.Errorf("pdf render: corner image must be PNG or JPEG")
	}
	opts := fpdf.ImageOptions{
		ImageType: imageType,
		ReadDpi:   true,
	}
	info := pdf.RegisterImageOptions(cfg.CornerImagePath, opts)
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("pdf render: load corner image: %w", err)
	}
	width, height := info.Extent()
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("pdf render: invalid corner image dimensions")
	}
	maxW, maxH := cfg.CornerImageMaxWidth, cfg.CornerImageMaxHeight
	if maxW > 0 || maxH > 0 {
		scale := 1.0
		if maxW > 0 {
			scale = math.Min(scale, maxW/width)
		}
		if maxH > 0 {
			scale = math.Min(scale, maxH/height)
		}
		if scale <= 0 {
			return nil, fmt.Errorf("pdf render: invalid corner image scale")
		}
		width *= scale
		height *= scale
	}
	return &cornerImage{
		path:   cfg.CornerImagePath,
		opts:   opts,
		width:  width,
		height: height,
	}, nil
}
