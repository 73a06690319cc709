package main

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"pkt.systems/mddoc/pdf"
)

// options is the resolved CLI configuration. It doubles as the schema of the
// YAML file passed with --config; flags set on the command line win.
type options struct {
	Theme       string     `yaml:"theme,omitempty"`
	Width       int        `yaml:"width,omitempty"`
	OSC8        string     `yaml:"osc8,omitempty"`
	Output      string     `yaml:"output,omitempty"`
	Format      string     `yaml:"format,omitempty"`
	Boring      bool       `yaml:"boring,omitempty"`
	TOC         int        `yaml:"toc,omitempty"`
	Highlight   string     `yaml:"highlight,omitempty"`
	Typographer bool       `yaml:"typographer,omitempty"`
	NoLinkify   bool       `yaml:"no_linkify,omitempty"`
	PDF         pdfOptions `yaml:"pdf,omitempty"`
}

type pdfOptions struct {
	PageSize        string    `yaml:"page_size,omitempty"`
	Margin          float64   `yaml:"margin,omitempty"`
	FontSize        float64   `yaml:"font_size,omitempty"`
	LineHeight      float64   `yaml:"line_height,omitempty"`
	HeadingScale    []float64 `yaml:"heading_scale,omitempty"`
	RegularFont     string    `yaml:"regular_font,omitempty"`
	BoldFont        string    `yaml:"bold_font,omitempty"`
	ItalicFont      string    `yaml:"italic_font,omitempty"`
	BoldItalicFont  string    `yaml:"bold_italic_font,omitempty"`
	HeadingFont     string    `yaml:"heading_font,omitempty"`
	BackgroundLayer bool      `yaml:"background_layer,omitempty"`
	Background      string    `yaml:"background,omitempty"`
	CornerImage     string    `yaml:"corner_image,omitempty"`
}

func defaultOptions() options {
	cfg := pdf.DefaultConfig()
	return options{
		Theme: defaultThemeName,
		OSC8:  "auto",
		PDF: pdfOptions{
			PageSize:   cfg.PageSize,
			Margin:     cfg.Margin,
			FontSize:   cfg.FontSize,
			LineHeight: cfg.LineHeight,
		},
	}
}

// loadConfig overlays the YAML file at path onto opts.
func loadConfig(path string, opts *options) error {
	data, err := os.ReadFile(normalizePath(path))
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, opts); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// pdfConfig turns the PDF options into a renderer configuration, checking
// font files up front so a typo fails before any input is read.
func pdfConfig(in pdfOptions, boring bool) (pdf.Config, error) {
	cfg := pdf.DefaultConfig()
	if in.PageSize != "" {
		cfg.PageSize = in.PageSize
	}
	if in.Margin > 0 {
		cfg.Margin = in.Margin
	}
	if in.FontSize > 0 {
		cfg.FontSize = in.FontSize
	}
	if in.LineHeight > 0 {
		cfg.LineHeight = in.LineHeight
	}
	for i, scale := range in.HeadingScale {
		if i >= len(cfg.HeadingScale) {
			break
		}
		if scale > 0 {
			cfg.HeadingScale[i] = scale
		}
	}
	cfg.Boring = boring
	cfg.BackgroundLayer = in.BackgroundLayer
	cfg.Background = in.Background
	if in.CornerImage != "" {
		cfg.CornerImagePath = normalizePath(in.CornerImage)
	}

	reg, bold, italic := strings.TrimSpace(in.RegularFont), strings.TrimSpace(in.BoldFont), strings.TrimSpace(in.ItalicFont)
	if reg != "" || bold != "" || italic != "" {
		if reg == "" || bold == "" || italic == "" {
			return pdf.Config{}, fmt.Errorf("pdf fonts: regular, bold, and italic fonts must all be provided")
		}
		fonts := []struct {
			name string
			path *string
			src  string
		}{
			{"regular font", &cfg.RegularFont, reg},
			{"bold font", &cfg.BoldFont, bold},
			{"italic font", &cfg.ItalicFont, italic},
			{"bold-italic font", &cfg.BoldItalicFont, strings.TrimSpace(in.BoldItalicFont)},
		}
		for _, f := range fonts {
			if f.src == "" {
				continue
			}
			clean := normalizePath(f.src)
			if err := ensureFont(clean); err != nil {
				return pdf.Config{}, fmt.Errorf("%s: %w", f.name, err)
			}
			*f.path = clean
		}
		cfg.FontFamily = "mddoc"
	}
	if in.HeadingFont != "" {
		heading := normalizePath(in.HeadingFont)
		if err := ensureFont(heading); err != nil {
			return pdf.Config{}, fmt.Errorf("heading font: %w", err)
		}
		cfg.HeadingFont = heading
	}
	return cfg, nil
}

func ensureFont(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("path is a directory")
	}
	if !strings.HasSuffix(strings.ToLower(info.Name()), ".ttf") {
		return fmt.Errorf("expected .ttf font file")
	}
	return nil
}
