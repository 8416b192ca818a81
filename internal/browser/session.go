// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package browser fetches publisher pages and hands them to scrapers as
// parsed content trees. The Session interface is the seam for swapping in
// a driven real browser; the default implementation is a plain HTTP client
// with cookie support, which is enough for pages that render server-side.
package browser

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"os"

	"github.com/meshintel/paper-scrape/internal/content"
	"github.com/meshintel/paper-scrape/internal/httputil"
	"github.com/meshintel/paper-scrape/pkg/types"
)

// DefaultUserAgent is sent when the configuration does not set one.
// Publisher sites reject the Go default agent outright.
const DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:122.0) Gecko/20100101 Firefox/122.0"

const acceptHTML = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"

// Session loads pages on behalf of scrapers.
type Session interface {
	// Navigate fetches url and returns the parsed page. The returned
	// tree's URL reflects redirects.
	Navigate(ctx context.Context, url string) (*content.Tree, error)

	// Close releases session resources.
	Close() error
}

// NetworkError reports a page fetch that failed after internal retries.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// HTTPSession is the default Session: a cookie-aware HTTP client that
// retries transient failures. It performs no JavaScript execution, so
// publishers that render article bodies client-side need an authenticated
// cookie file or a proxy that serves the rendered form.
type HTTPSession struct {
	client    *http.Client
	userAgent string
	retries   int
}

// NewHTTPSession builds an HTTPSession from config. When cfg.CookiesFile
// is set the cookies are loaded into the session's jar; a missing or
// unreadable cookie file is an error, not a silent anonymous fallback.
func NewHTTPSession(cfg types.ScrapeConfig) (*HTTPSession, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}

	if cfg.CookiesFile != "" {
		if _, err := os.Stat(cfg.CookiesFile); err != nil {
			return nil, fmt.Errorf("cookies file: %w", err)
		}
		if _, err := LoadCookieFile(jar, cfg.CookiesFile); err != nil {
			return nil, fmt.Errorf("loading cookies from %s: %w", cfg.CookiesFile, err)
		}
	}

	ua := cfg.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}

	return &HTTPSession{
		client: &http.Client{
			Timeout: cfg.Timeout,
			Jar:     jar,
		},
		userAgent: ua,
	}, nil
}

// Navigate fetches url with browser-like headers and parses the response.
func (s *HTTPSession) Navigate(ctx context.Context, url string) (*content.Tree, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &NetworkError{URL: url, Err: err}
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", acceptHTML)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := httputil.DoWithRetry(ctx, s.client, req, s.retries)
	if err != nil {
		return nil, &NetworkError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		httputil.DrainAndClose(resp)
		return nil, &NetworkError{URL: url, Err: fmt.Errorf("HTTP %d", resp.StatusCode)}
	}

	// resp.Request.URL is the final URL after redirects; image URLs on the
	// page resolve against it, not against the address we started from.
	tree, err := content.Parse(resp.Body, resp.Request.URL.String())
	if err != nil {
		return nil, err
	}
	return tree, nil
}

// Client exposes the underlying HTTP client so the image fetcher can share
// the session's cookies.
func (s *HTTPSession) Client() *http.Client {
	return s.client
}

// Close releases idle connections.
func (s *HTTPSession) Close() error {
	s.client.CloseIdleConnections()
	return nil
}
