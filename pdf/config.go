package pdf

// Config holds PDF rendering settings. Sizes are in points.
type Config struct {
	PageSize            string
	Margin              float64
	FontFamily          string
	CodeFontFamily      string
	FontSize            float64
	LineHeight          float64
	RegularFont         string
	BoldFont            string
	ItalicFont          string
	BoldItalicFont      string
	HeadingFont         string
	RegularFontBytes    []byte
	BoldFontBytes       []byte
	ItalicFontBytes     []byte
	BoldItalicFontBytes []byte
	HeadingScale        [4]float64
	IgnoreColors        bool
	BackgroundEnabled   bool
	// BackgroundLayer draws the page background on an optional content
	// group that viewers can hide, e.g. before printing.
	BackgroundLayer bool
	OpenLayerPane   bool
	Boring          bool
	// Background overrides the theme background, as "#rrggbb".
	Background           string
	CornerImagePath      string
	CornerImageMaxWidth  float64
	CornerImageMaxHeight float64
	CornerImagePadding   float64
}

const headingFontFamily = "Heading"

// DefaultConfig returns a baseline configuration.
func DefaultConfig() Config {
	return Config{
		PageSize:       "A4",
		Margin:         48,
		FontFamily:     "Helvetica",
		CodeFontFamily: "Courier",
		FontSize:       11,
		LineHeight:     1.4,
		HeadingScale: [4]float64{
			1.9,
			1.6,
			1.3,
			1.1,
		},
		BackgroundEnabled:    true,
		CornerImageMaxWidth:  96,
		CornerImageMaxHeight: 96,
		CornerImagePadding:   8,
	}
}

func applyConfig(dst *Config, src Config) {
	if src.PageSize != "" {
		dst.PageSize = src.PageSize
	}
	if src.Margin > 0 {
		dst.Margin = src.Margin
	}
	if src.FontFamily != "" {
		dst.FontFamily = src.FontFamily
	}
	if src.CodeFontFamily != "" {
		dst.CodeFontFamily = src.CodeFontFamily
	}
	if src.FontSize > 0 {
		dst.FontSize = src.FontSize
	}
	if src.LineHeight > 0 {
		dst.LineHeight = src.LineHeight
	}
	if src.RegularFont != "" {
		dst.RegularFont = src.RegularFont
	}
	if src.BoldFont != "" {
		dst.BoldFont = src.BoldFont
	}
	if src.ItalicFont != "" {
		dst.ItalicFont = src.ItalicFont
	}
	if src.BoldItalicFont != "" {
		dst.BoldItalicFont = src.BoldItalicFont
	}
	if src.HeadingFont != "" {
		dst.HeadingFont = src.HeadingFont
	}
	if len(src.RegularFontBytes) > 0 {
		dst.RegularFontBytes = src.RegularFontBytes
	}
	if len(src.BoldFontBytes) > 0 {
		dst.BoldFontBytes = src.BoldFontBytes
	}
	if len(src.ItalicFontBytes) > 0 {
		dst.ItalicFontBytes = src.ItalicFontBytes
	}
	if len(src.BoldItalicFontBytes) > 0 {
		dst.BoldItalicFontBytes = src.BoldItalicFontBytes
	}
	if src.HeadingScale != [4]float64{} {
		dst.HeadingScale = src.HeadingScale
	}
	if src.IgnoreColors {
		dst.IgnoreColors = src.IgnoreColors
	}
	if !src.BackgroundEnabled && dst.BackgroundEnabled {
		dst.BackgroundEnabled = false
	}
	if src.BackgroundLayer {
		dst.BackgroundLayer = src.BackgroundLayer
	}
	if src.OpenLayerPane {
		dst.OpenLayerPane = src.OpenLayerPane
	}
	if src.Boring {
		dst.Boring = src.Boring
	}
	if src.Background != "" {
		dst.Background = src.Background
	}
	if src.CornerImagePath != "" {
		dst.CornerImagePath = src.CornerImagePath
	}
	if src.CornerImageMaxWidth > 0 {
		dst.CornerImageMaxWidth = src.CornerImageMaxWidth
	}
	if src.CornerImageMaxHeight > 0 {
		dst.CornerImageMaxHeight = src.CornerImageMaxHeight
	}
	if src.CornerImagePadding > 0 {
		dst.CornerImagePadding = src.CornerImagePadding
	}
}
