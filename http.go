package mddoc

import (
	"context"
	"fmt"
	"net/http"

	"pkt.systems/mddoc/markdown"
)

// HTTPConvertRequest configures HTTPConvert.
type HTTPConvertRequest struct {
	URL     string
	Client  *http.Client
	Session Session
	Start   Cursor
	Parse   []markdown.Option
	Options []RenderOption
}

// HTTPConvert fetches Markdown over HTTP(S) and converts it into the session.
func HTTPConvert(ctx context.Context, req HTTPConvertRequest) (ConvertResult, error) {
	if req.URL == "" {
		return ConvertResult{}, fmt.Errorf("mddoc http: URL is required")
	}
	if req.Session == nil {
		return ConvertResult{}, fmt.Errorf("mddoc http: %w", ErrNilSession)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	client := req.Client
	if client == nil {
		client = http.DefaultClient
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, req.URL, nil)
	if err != nil {
		return ConvertResult{}, fmt.Errorf("mddoc http: build request: %w", err)
	}
	if httpReq.URL.Scheme != "http" && httpReq.URL.Scheme != "https" {
		return ConvertResult{}, fmt.Errorf("mddoc http: unsupported scheme %q", httpReq.URL.Scheme)
	}
	resp, err := client.Do(httpReq)
	if err != nil {
		return ConvertResult{}, fmt.Errorf("mddoc http: request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return ConvertResult{}, fmt.Errorf("mddoc http: status %s", resp.Status)
	}
	return Convert(ctx, ConvertRequest{
		Reader:  resp.Body,
		Session: req.Session,
		Start:   req.Start,
		Parse:   req.Parse,
		Options: req.Options,
	})
}
