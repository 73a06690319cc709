package mddoc

import "go.uber.org/zap"

// RenderOption configures rendering behavior.
type RenderOption func(*renderConfig)

type renderConfig struct {
	theme     Theme
	logger    *zap.Logger
	highlight string
}

func newRenderConfig(opts []RenderOption) renderConfig {
	cfg := renderConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.theme == nil {
		cfg.theme = DefaultTheme()
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}
	return cfg
}

// WithTheme selects the theme that supplies paragraph and run formats.
func WithTheme(theme Theme) RenderOption {
	return func(cfg *renderConfig) {
		cfg.theme = theme
	}
}

// WithLogger sets the logger used for debug tracing of skipped input.
func WithLogger(logger *zap.Logger) RenderOption {
	return func(cfg *renderConfig) {
		cfg.logger = logger
	}
}

// WithHighlighting enables syntax highlighting of fenced code blocks using
// the named chroma style. An empty name disables highlighting.
func WithHighlighting(style string) RenderOption {
	return func(cfg *renderConfig) {
		cfg.highlight = style
	}
}
