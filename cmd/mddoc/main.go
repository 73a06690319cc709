package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"

	"pkt.systems/mddoc"
	"pkt.systems/mddoc/console"
	"pkt.systems/mddoc/document"
	"pkt.systems/mddoc/markdown"
	"pkt.systems/mddoc/pdf"
	"pkt.systems/version"
)

const (
	defaultThemeName = "default"
	defaultWidth     = 80
	defaultTOCDepth  = 3
)

const (
	formatANSI = "ansi"
	formatHTML = "html"
	formatJSON = "json"
	formatPDF  = "pdf"
	formatText = "text"
)

func init() {
	version.SetDefaultModule("pkt.systems/mddoc")
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes the CLI and returns the process exit code.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var (
		configPath string
		listThemes bool
		verbose    bool
		fv         options
	)
	opts := defaultOptions()

	flags := pflag.NewFlagSet("mddoc", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.StringVarP(&fv.Theme, "theme", "t", opts.Theme, "Theme name")
	flags.BoolVar(&listThemes, "list-themes", false, "List available themes")
	flags.IntVarP(&fv.Width, "width", "w", 0, "Output width override (0 uses terminal width if available)")
	flags.StringVarP(&fv.OSC8, "osc8", "8", opts.OSC8, "OSC8 hyperlinks: auto|on|off")
	flags.StringVarP(&fv.Output, "output", "o", "", "Output file instead of stdout")
	flags.StringVarP(&fv.Format, "format", "f", "", "Output format: ansi|html|json|pdf|text (default inferred from --output)")
	flags.BoolVarP(&fv.Boring, "boring", "b", false, "Drop theme colours from ANSI and PDF output")
	flags.IntVar(&fv.TOC, "toc", 0, "Prepend a table of contents down to this heading depth")
	flags.Lookup("toc").NoOptDefVal = strconv.Itoa(defaultTOCDepth)
	flags.StringVar(&fv.Highlight, "highlight", "", "Highlight fenced code with this chroma style")
	flags.BoolVar(&fv.Typographer, "typographer", false, "Use typographic quotes, dashes and ellipses")
	flags.BoolVar(&fv.NoLinkify, "no-linkify", false, "Leave bare URLs as plain text")
	flags.StringVarP(&configPath, "config", "c", "", "YAML configuration file")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Log debug details to stderr")
	flags.StringVar(&fv.PDF.PageSize, "pdf-page-size", opts.PDF.PageSize, "PDF page size")
	flags.Float64Var(&fv.PDF.Margin, "pdf-margin", opts.PDF.Margin, "Page margin in points")
	flags.Float64Var(&fv.PDF.FontSize, "pdf-font-size", opts.PDF.FontSize, "Base font size in points")
	flags.Float64Var(&fv.PDF.LineHeight, "pdf-line-height", opts.PDF.LineHeight, "Line height multiplier")
	flags.StringVar(&fv.PDF.RegularFont, "pdf-regular-font", "", "TTF path for regular font")
	flags.StringVar(&fv.PDF.BoldFont, "pdf-bold-font", "", "TTF path for bold font")
	flags.StringVar(&fv.PDF.ItalicFont, "pdf-italic-font", "", "TTF path for italic font")
	flags.StringVar(&fv.PDF.BoldItalicFont, "pdf-bold-italic-font", "", "TTF path for bold-italic font")
	flags.StringVar(&fv.PDF.HeadingFont, "pdf-heading-font", "", "TTF path for heading font (overrides body font)")
	flags.BoolVar(&fv.PDF.BackgroundLayer, "pdf-background-layer", false, "Put the page background on a layer viewers can hide")
	flags.StringVar(&fv.PDF.CornerImage, "corner-image", "", "Corner image path (PNG or JPEG)")

	flags.SetInterspersed(true)
	flags.Usage = func() {
		fmt.Fprintln(stderr, version.Module(), version.Current())
		fmt.Fprintf(stderr, "Usage: mddoc [flags] [inputs...]\n")
		fmt.Fprintln(stderr, "\nInputs are files, file:// or http(s) URLs, concatenated in order.")
		fmt.Fprintln(stderr, "If no input is provided, Markdown is read from stdin.")
		fmt.Fprintln(stderr, "\nFlags:")
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return 0
		}
		return 2
	}

	if listThemes {
		for _, name := range mddoc.AvailableThemes() {
			fmt.Fprintln(stdout, name)
		}
		return 0
	}

	if configPath != "" {
		if err := loadConfig(configPath, &opts); err != nil {
			fmt.Fprintf(stderr, "load config: %v\n", err)
			return 2
		}
	}
	flags.Visit(func(f *pflag.Flag) {
		overlayFlag(&opts, &fv, f.Name)
	})

	logger := zap.NewNop()
	if verbose {
		logger = newLogger(stderr)
	}
	defer func() { _ = logger.Sync() }()

	format, err := resolveFormat(opts.Format, opts.Output)
	if err != nil {
		fmt.Fprintf(stderr, "invalid --format %q: %v\n", opts.Format, err)
		return 2
	}

	theme, ok := mddoc.ThemeByName(opts.Theme)
	if !ok {
		fmt.Fprintf(stderr, "unknown theme %q\n\n", opts.Theme)
		for _, name := range mddoc.AvailableThemes() {
			fmt.Fprintln(stderr, name)
		}
		return 2
	}
	if opts.Boring && format != formatPDF {
		theme = boringTheme()
	}

	var pdfCfg pdf.Config
	if format == formatPDF {
		pdfCfg, err = pdfConfig(opts.PDF, opts.Boring)
		if err != nil {
			fmt.Fprintf(stderr, "pdf config: %v\n", err)
			return 2
		}
	}

	osc8, err := resolveOSC8(opts.OSC8)
	if err != nil {
		fmt.Fprintf(stderr, "invalid --osc8 %q: %v\n", opts.OSC8, err)
		return 2
	}

	if format == formatPDF && strings.TrimSpace(opts.Output) == "" && isTerminal(stdout) {
		fmt.Fprintln(stderr, "refusing to write PDF to terminal; use -o/--output")
		return 2
	}

	parse := []markdown.Option{
		markdown.WithTOC(opts.TOC),
		markdown.WithLinkify(!opts.NoLinkify),
		markdown.WithTypographer(opts.Typographer),
	}
	renderOpts := []mddoc.RenderOption{
		mddoc.WithTheme(theme),
		mddoc.WithLogger(logger),
		mddoc.WithHighlighting(opts.Highlight),
	}

	doc := document.New()
	res, err := convert(ctx, flags.Args(), stdin, doc, parse, renderOpts)
	if err != nil {
		fmt.Fprintf(stderr, "convert: %v\n", err)
		return 1
	}
	if title, ok := res.Meta["title"].(string); ok {
		doc.SetTitle(title)
	}
	writer, closeOut, err := resolveOutput(opts.Output, stdout)
	if err != nil {
		fmt.Fprintf(stderr, "open output: %v\n", err)
		return 1
	}
	if closeOut != nil {
		defer func() { _ = closeOut.Close() }()
	}
	logger.Debug("converted document",
		zap.Int("blocks", doc.Len()),
		zap.Int("end", res.End.Pos()),
		zap.String("format", format),
	)

	if err := export(doc, format, writer, exportConfig{
		theme: theme,
		width: resolveWidth(opts.Width),
		osc8:  osc8,
		pdf:   pdfCfg,
	}); err != nil {
		fmt.Fprintf(stderr, "render %s: %v\n", format, err)
		return 1
	}
	return 0
}

func overlayFlag(opts, fv *options, name string) {
	switch name {
	case "theme":
		opts.Theme = fv.Theme
	case "width":
		opts.Width = fv.Width
	case "osc8":
		opts.OSC8 = fv.OSC8
	case "output":
		opts.Output = fv.Output
	case "format":
		opts.Format = fv.Format
	case "boring":
		opts.Boring = fv.Boring
	case "toc":
		opts.TOC = fv.TOC
	case "highlight":
		opts.Highlight = fv.Highlight
	case "typographer":
		opts.Typographer = fv.Typographer
	case "no-linkify":
		opts.NoLinkify = fv.NoLinkify
	case "pdf-page-size":
		opts.PDF.PageSize = fv.PDF.PageSize
	case "pdf-margin":
		opts.PDF.Margin = fv.PDF.Margin
	case "pdf-font-size":
		opts.PDF.FontSize = fv.PDF.FontSize
	case "pdf-line-height":
		opts.PDF.LineHeight = fv.PDF.LineHeight
	case "pdf-regular-font":
		opts.PDF.RegularFont = fv.PDF.RegularFont
	case "pdf-bold-font":
		opts.PDF.BoldFont = fv.PDF.BoldFont
	case "pdf-italic-font":
		opts.PDF.ItalicFont = fv.PDF.ItalicFont
	case "pdf-bold-italic-font":
		opts.PDF.BoldItalicFont = fv.PDF.BoldItalicFont
	case "pdf-heading-font":
		opts.PDF.HeadingFont = fv.PDF.HeadingFont
	case "pdf-background-layer":
		opts.PDF.BackgroundLayer = fv.PDF.BackgroundLayer
	case "corner-image":
		opts.PDF.CornerImage = fv.PDF.CornerImage
	}
}

func newLogger(w io.Writer) *zap.Logger {
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(w),
		zapcore.DebugLevel,
	)
	return zap.New(core, zap.Development())
}

// convert renders all inputs into doc. A single http(s) URL is fetched
// through mddoc.HTTPConvert; anything else is concatenated and converted as
// one source.
func convert(ctx context.Context, args []string, stdin io.Reader, doc *document.Document, parse []markdown.Option, opts []mddoc.RenderOption) (mddoc.ConvertResult, error) {
	if len(args) == 1 && isHTTPURL(args[0]) {
		return mddoc.HTTPConvert(ctx, mddoc.HTTPConvertRequest{
			URL:     strings.TrimSpace(args[0]),
			Session: doc.Begin(),
			Start:   doc.End(),
			Parse:   parse,
			Options: opts,
		})
	}
	reader, closer, err := openInputs(ctx, args, stdin)
	if err != nil {
		return mddoc.ConvertResult{}, err
	}
	if closer != nil {
		defer func() { _ = closer.Close() }()
	}
	return mddoc.Convert(ctx, mddoc.ConvertRequest{
		Reader:  reader,
		Session: doc.Begin(),
		Start:   doc.End(),
		Parse:   parse,
		Options: opts,
	})
}

type exportConfig struct {
	theme mddoc.Theme
	width int
	osc8  bool
	pdf   pdf.Config
}

func export(doc *document.Document, format string, w io.Writer, cfg exportConfig) error {
	switch format {
	case formatPDF:
		return pdf.Render(pdf.RenderRequest{
			Blocks: doc.Snapshot(),
			Writer: w,
			Theme:  cfg.theme,
			Config: cfg.pdf,
			Title:  doc.Title(),
		})
	case formatHTML:
		return doc.WriteHTML(w)
	case formatJSON:
		return doc.WriteJSON(w)
	case formatText:
		_, err := io.WriteString(w, doc.PlainText())
		return err
	default:
		return console.Render(console.RenderRequest{
			Blocks: doc.Snapshot(),
			Writer: w,
			Width:  cfg.width,
			Theme:  cfg.theme,
			OSC8:   cfg.osc8,
		})
	}
}

// resolveFormat validates an explicit format or infers one from the output
// file name.
func resolveFormat(format, output string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "":
	case formatANSI, "console":
		return formatANSI, nil
	case formatHTML:
		return formatHTML, nil
	case formatJSON:
		return formatJSON, nil
	case formatPDF:
		return formatPDF, nil
	case formatText, "txt", "plain":
		return formatText, nil
	default:
		return "", fmt.Errorf("expected ansi|html|json|pdf|text")
	}
	switch strings.ToLower(filepath.Ext(strings.TrimSpace(output))) {
	case ".pdf":
		return formatPDF, nil
	case ".html", ".htm":
		return formatHTML, nil
	case ".json":
		return formatJSON, nil
	case ".txt":
		return formatText, nil
	default:
		return formatANSI, nil
	}
}

func resolveWidth(width int) int {
	if width > 0 {
		return width
	}
	return terminalWidth(defaultWidth)
}

func terminalWidth(fallback int) int {
	fd := int(os.Stdout.Fd())
	if term.IsTerminal(fd) {
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			return w
		}
	}
	if value := os.Getenv("COLUMNS"); value != "" {
		if w, err := strconv.Atoi(value); err == nil && w > 0 {
			return w
		}
	}
	return fallback
}

func resolveOSC8(mode string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "auto":
		return console.DetectOSC8Support(), nil
	case "on", "true", "1", "yes":
		return true, nil
	case "off", "false", "0", "no":
		return false, nil
	default:
		return false, fmt.Errorf("expected auto|on|off")
	}
}

// boringTheme keeps the default theme's structure and drops every colour.
func boringTheme() mddoc.Theme {
	s := mddoc.DefaultTheme().Styles()
	plain := func(f mddoc.ParagraphFormat) mddoc.ParagraphFormat {
		f.Color, f.Highlight = "", ""
		return f
	}
	plainRun := func(f mddoc.RunFormat) mddoc.RunFormat {
		f.Color, f.Highlight = "", ""
		return f
	}
	s.Body = plain(s.Body)
	for i := range s.Heading {
		s.Heading[i] = plain(s.Heading[i])
	}
	s.Quote = plain(s.Quote)
	s.CodeBlock = plain(s.CodeBlock)
	s.Rule = plain(s.Rule)
	s.ListItem = plain(s.ListItem)
	s.Spacer = plain(s.Spacer)
	s.CodeToken = plainRun(s.CodeToken)
	s.Strong = plainRun(s.Strong)
	s.Emphasis = plainRun(s.Emphasis)
	s.Link = plainRun(s.Link)
	s.CodeInline = plainRun(s.CodeInline)
	s.Background = ""
	return mddoc.NewTheme("boring", s)
}

type inputSource struct {
	open func() (io.Reader, io.Closer, error)
}

type multiInputReader struct {
	sources   []inputSource
	idx       int
	cur       io.Reader
	curCloser io.Closer
	closed    bool
}

func (m *multiInputReader) Read(p []byte) (int, error) {
	for {
		if m.closed {
			return 0, io.EOF
		}
		if m.cur == nil {
			if m.idx >= len(m.sources) {
				m.closed = true
				return 0, io.EOF
			}
			reader, closer, err := m.sources[m.idx].open()
			if err != nil {
				return 0, err
			}
			m.cur = reader
			m.curCloser = closer
			m.idx++
		}
		n, err := m.cur.Read(p)
		if n > 0 {
			return n, nil
		}
		if err == io.EOF {
			if m.curCloser != nil {
				_ = m.curCloser.Close()
			}
			m.cur = nil
			m.curCloser = nil
			continue
		}
		if err != nil {
			return 0, err
		}
	}
}

func (m *multiInputReader) Close() error {
	m.closed = true
	if m.curCloser != nil {
		return m.curCloser.Close()
	}
	return nil
}

func openInputs(ctx context.Context, args []string, stdin io.Reader) (io.Reader, io.Closer, error) {
	if len(args) == 0 {
		return stdin, nil, nil
	}
	sources := make([]inputSource, 0, len(args))
	for _, raw := range args {
		src, err := makeInputSource(ctx, raw)
		if err != nil {
			return nil, nil, err
		}
		sources = append(sources, src)
	}
	m := &multiInputReader{sources: sources}
	return m, m, nil
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return scheme == "http" || scheme == "https"
}

func makeInputSource(ctx context.Context, raw string) (inputSource, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return inputSource{}, fmt.Errorf("empty input argument")
	}
	if isHTTPURL(raw) {
		return inputSource{open: func() (io.Reader, io.Closer, error) {
			return openURL(ctx, raw)
		}}, nil
	}
	u, err := url.Parse(raw)
	if err == nil && strings.EqualFold(u.Scheme, "file") {
		path := u.Path
		if path == "" {
			path = u.Host
		}
		if unescaped, err := url.PathUnescape(path); err == nil {
			path = unescaped
		}
		return inputSource{open: func() (io.Reader, io.Closer, error) {
			return openFile(path)
		}}, nil
	}
	return inputSource{open: func() (io.Reader, io.Closer, error) {
		return openFile(raw)
	}}, nil
}

func openURL(ctx context.Context, raw string) (io.Reader, io.Closer, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, raw, nil)
	if err != nil {
		return nil, nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_ = resp.Body.Close()
		return nil, nil, fmt.Errorf("http %s: %s", raw, resp.Status)
	}
	return resp.Body, resp.Body, nil
}

func openFile(path string) (io.Reader, io.Closer, error) {
	f, err := os.Open(normalizePath(path))
	if err != nil {
		return nil, nil, err
	}
	return f, f, nil
}

func resolveOutput(path string, stdout io.Writer) (io.Writer, io.Closer, error) {
	if strings.TrimSpace(path) == "" {
		return stdout, nil, nil
	}
	clean := normalizePath(path)
	dir := filepath.Dir(clean)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, err
		}
	}
	f, err := os.Create(clean)
	if err != nil {
		return nil, nil, err
	}
	return f, f, nil
}

func normalizePath(path string) string {
	if strings.HasPrefix(path, "~/") || path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			if path == "~" {
				path = home
			} else {
				path = filepath.Join(home, path[2:])
			}
		}
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		return abs
	}
	return path
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
