package mddoc

import (
	"context"
	"errors"
	"fmt"
	"io"

	"pkt.systems/mddoc/markdown"
)

var (
	// ErrNilReader reports a convert request without input.
	ErrNilReader = errors.New("reader is nil")
	// ErrNilSession reports a convert request without a session.
	ErrNilSession = errors.New("session is nil")
)

// ConvertRequest configures Convert.
type ConvertRequest struct {
	Reader  io.Reader
	Session Session
	Start   Cursor
	Parse   []markdown.Option
	Options []RenderOption
}

// ConvertResult is the outcome of a successful Convert.
type ConvertResult struct {
	// End is the cursor after the last inserted element.
	End Cursor
	// Meta holds decoded front matter, nil when the input had none.
	Meta map[string]any
}

// Convert reads Markdown from req.Reader, renders it into req.Session at
// req.Start and commits the session once. Nothing is committed when reading,
// validation, parsing or rendering fails.
func Convert(ctx context.Context, req ConvertRequest) (ConvertResult, error) {
	if req.Reader == nil {
		return ConvertResult{}, fmt.Errorf("mddoc convert: %w", ErrNilReader)
	}
	if req.Session == nil {
		return ConvertResult{}, fmt.Errorf("mddoc convert: %w", ErrNilSession)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	src, err := io.ReadAll(req.Reader)
	if err != nil {
		return ConvertResult{}, fmt.Errorf("mddoc convert: read: %w", err)
	}
	src, err = cleanInput(src)
	if err != nil {
		return ConvertResult{}, fmt.Errorf("mddoc convert: %w", err)
	}
	parsed, err := markdown.Parse(src, req.Parse...)
	if err != nil {
		return ConvertResult{}, fmt.Errorf("mddoc convert: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return ConvertResult{}, fmt.Errorf("mddoc convert: %w", err)
	}
	end, err := Render(RenderRequest{
		Tokens:  parsed.Tokens,
		Host:    req.Session,
		Start:   req.Start,
		Options: req.Options,
	})
	if err != nil {
		return ConvertResult{}, fmt.Errorf("mddoc convert: %w", err)
	}
	if err := req.Session.Commit(ctx); err != nil {
		return ConvertResult{}, fmt.Errorf("mddoc convert: commit: %w", err)
	}
	return ConvertResult{End: end, Meta: parsed.Meta}, nil
}
