package app

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"unicode/utf8"

	"golang.org/x/net/html/charset"

	"github.com/hyperifyio/articlefilter/internal/dom"
)

// readSource returns the raw page, its content type when known, and the
// URL whose origin decides which links are internal.
func (a *App) readSource(ctx context.Context, input string) ([]byte, string, *url.URL, error) {
	if input == "-" {
		b, err := io.ReadAll(a.stdin())
		if err != nil {
			return nil, "", nil, fmt.Errorf("read stdin: %w", err)
		}
		return b, "", a.pageURL, nil
	}
	if u, err := url.Parse(input); err == nil && isURL(u) {
		p, err := a.fetcher.Fetch(ctx, input)
		if err != nil {
			return nil, "", nil, err
		}
		return p.Body, p.ContentType, p.URL, nil
	}
	b, err := os.ReadFile(input)
	if err != nil {
		return nil, "", nil, fmt.Errorf("read input: %w", err)
	}
	return b, "", a.fileURL(input), nil
}

// fileURL resolves a file input against the configured base URL. Without a
// base URL only relative links count as internal.
func (a *App) fileURL(path string) *url.URL {
	if a.pageURL == nil {
		return nil
	}
	u := *a.pageURL
	if u.Path == "" || u.Path[len(u.Path)-1] == '/' {
		u.Path += filepath.Base(path)
	}
	return &u
}

// loadPage reads and parses input. Pages that are not valid UTF-8, or that
// declare a charset, are decoded from their declared or sniffed encoding.
func (a *App) loadPage(ctx context.Context, input string) (*dom.Document, error) {
	b, contentType, pageURL, err := a.readSource(ctx, input)
	if err != nil {
		return nil, err
	}
	if contentType == "" && utf8.Valid(b) {
		return dom.Parse(bytes.NewReader(b), pageURL)
	}
	r, err := charset.NewReader(bytes.NewReader(b), contentType)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", input, err)
	}
	return dom.Parse(r, pageURL)
}
