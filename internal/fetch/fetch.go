// Package fetch downloads HTML pages with bounded retries and optional
// on-disk revalidation.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/articlefilter/internal/cache"
)

var (
	errTooManyRedirects = errors.New("too many redirects")
	errRedirectScheme   = errors.New("redirect to unsupported scheme")
)

// Client fetches pages. Transient failures (5xx, 429, connection errors)
// are retried with backoff.
type Client struct {
	HTTPClient *http.Client
	UserAgent  string
	// MaxAttempts includes the initial attempt. Minimum 1.
	MaxAttempts int
	// PerRequestTimeout bounds each attempt.
	PerRequestTimeout time.Duration
	// RetryWaitMin and RetryWaitMax bound the backoff between attempts.
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
	// Optional on-disk cache for page bodies and validators.
	Cache *cache.HTTPCache
	// BypassCache fetches fresh (no conditional headers) but still stores
	// the response.
	BypassCache bool

	// RedirectMaxHops caps redirect following. Zero means 5.
	RedirectMaxHops int
	// MaxConcurrent limits concurrent in-flight requests. Zero means
	// unlimited.
	MaxConcurrent int

	limiter     chan struct{}
	limiterOnce sync.Once
}

// Page is a fetched document.
type Page struct {
	// URL is the final URL after redirects; it is the page's origin.
	URL         *url.URL
	Body        []byte
	ContentType string
	// FromCache is set when the server answered 304 and the cached body was
	// served.
	FromCache bool
}

// Get returns the body and content type of rawURL.
func (c *Client) Get(ctx context.Context, rawURL string) ([]byte, string, error) {
	p, err := c.Fetch(ctx, rawURL)
	if err != nil {
		return nil, "", err
	}
	return p.Body, p.ContentType, nil
}

// Fetch issues a GET for rawURL, revalidating a cached copy when one exists.
func (c *Client) Fetch(ctx context.Context, rawURL string) (*Page, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}
	if !isHTTPScheme(u) {
		return nil, fmt.Errorf("unsupported URL scheme: %q", u.Scheme)
	}

	var etag, lastMod string
	if c.Cache != nil && !c.BypassCache {
		if meta, err := c.Cache.LoadMeta(ctx, rawURL); err == nil && meta != nil {
			etag = meta.ETag
			lastMod = meta.LastModified
		}
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	if etag != "" {
		req.Header.Set("If-None-Match", etag)
	}
	if lastMod != "" {
		req.Header.Set("If-Modified-Since", lastMod)
	}

	c.acquire()
	defer c.release()

	resp, err := c.retryClient().Do(req)
	if resp != nil {
		defer resp.Body.Close()
	}
	if err != nil && (resp == nil || resp.StatusCode < 500) {
		return nil, fmt.Errorf("get %s: %w", rawURL, err)
	}

	final := u
	if resp.Request != nil && resp.Request.URL != nil {
		final = resp.Request.URL
	}
	switch {
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("server error: %d", resp.StatusCode)
	case resp.StatusCode == http.StatusNotModified:
		if c.Cache == nil {
			return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
		}
		body, err := c.Cache.LoadBody(ctx, rawURL)
		if err != nil {
			return nil, fmt.Errorf("load cached body: %w", err)
		}
		ct := resp.Header.Get("Content-Type")
		if meta, err := c.Cache.LoadMeta(ctx, rawURL); err == nil && ct == "" {
			ct = meta.ContentType
		}
		log.Debug().Str("url", rawURL).Msg("not modified; serving cached page")
		return &Page{URL: final, Body: body, ContentType: ct, FromCache: true}, nil
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	ct := resp.Header.Get("Content-Type")
	if !isAllowedHTMLContentType(ct) {
		return nil, fmt.Errorf("unsupported content type: %s", ct)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if c.Cache != nil && resp.StatusCode == http.StatusOK {
		if err := c.Cache.Save(ctx, rawURL, ct, resp.Header.Get("ETag"), resp.Header.Get("Last-Modified"), body); err != nil {
			log.Warn().Err(err).Str("url", rawURL).Msg("cache save failed")
		}
	}
	return &Page{URL: final, Body: body, ContentType: ct}, nil
}

func (c *Client) retryClient() *retryablehttp.Client {
	rc := retryablehttp.NewClient()
	rc.HTTPClient = c.httpClient()
	rc.Logger = leveledLogger{}
	attempts := c.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}
	rc.RetryMax = attempts - 1
	rc.RetryWaitMin = c.RetryWaitMin
	if rc.RetryWaitMin <= 0 {
		rc.RetryWaitMin = 200 * time.Millisecond
	}
	rc.RetryWaitMax = c.RetryWaitMax
	if rc.RetryWaitMax < rc.RetryWaitMin {
		rc.RetryWaitMax = 5 * rc.RetryWaitMin
	}
	rc.CheckRetry = checkRetry
	// hand the last 5xx response back instead of a generic "giving up"
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	return rc
}

func checkRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if errors.Is(err, errTooManyRedirects) || errors.Is(err, errRedirectScheme) {
		return false, err
	}
	return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
}

func (c *Client) httpClient() *http.Client {
	var base http.Client
	if c.HTTPClient != nil {
		// copy so the caller's client keeps its own redirect policy
		base = *c.HTTPClient
	}
	if c.PerRequestTimeout > 0 {
		base.Timeout = c.PerRequestTimeout
	}
	base.CheckRedirect = c.checkRedirectFunc()
	return &base
}

func (c *Client) checkRedirectFunc() func(req *http.Request, via []*http.Request) error {
	max := c.RedirectMaxHops
	if max <= 0 {
		max = 5
	}
	return func(req *http.Request, via []*http.Request) error {
		if len(via) >= max {
			return errTooManyRedirects
		}
		if req.URL == nil || !isHTTPScheme(req.URL) {
			return errRedirectScheme
		}
		return nil
	}
}

func isHTTPScheme(u *url.URL) bool {
	if u == nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return scheme == "http" || scheme == "https"
}

func isAllowedHTMLContentType(ct string) bool {
	ct = strings.ToLower(strings.TrimSpace(ct))
	return strings.HasPrefix(ct, "text/html") || strings.HasPrefix(ct, "application/xhtml+xml")
}

func (c *Client) acquire() {
	if c.MaxConcurrent <= 0 {
		return
	}
	c.limiterOnce.Do(func() {
		c.limiter = make(chan struct{}, c.MaxConcurrent)
	})
	c.limiter <- struct{}{}
}

func (c *Client) release() {
	if c.MaxConcurrent <= 0 || c.limiter == nil {
		return
	}
	select {
	case <-c.limiter:
	default:
	}
}

// leveledLogger routes retryablehttp's messages to zerolog at debug level,
// except errors.
type leveledLogger struct{}

func (leveledLogger) Error(msg string, kv ...interface{}) { log.Error().Fields(kv).Msg(msg) }
func (leveledLogger) Info(msg string, kv ...interface{})  { log.Debug().Fields(kv).Msg(msg) }
func (leveledLogger) Debug(msg string, kv ...interface{}) { log.Debug().Fields(kv).Msg(msg) }
func (leveledLogger) Warn(msg string, kv ...interface{})  { log.Debug().Fields(kv).Msg(msg) }
