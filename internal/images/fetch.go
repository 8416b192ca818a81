// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package images downloads figure images concurrently and names them by
// content hash, so identical bytes land in one file no matter how many
// figures reference them.
package images

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/meshintel/paper-scrape/internal/fsutil"
	"github.com/meshintel/paper-scrape/internal/httputil"
	"github.com/meshintel/paper-scrape/pkg/types"
)

const (
	defaultWorkers = 4
	maxWorkers     = 8
	defaultRate    = 4.0

	// maxImageBytes caps a single download; anything larger is not a
	// figure.
	maxImageBytes = 50 << 20
)

// DownloadError reports a single image that could not be fetched. It is
// non-fatal: the run continues and the figure degrades to a placeholder.
type DownloadError struct {
	URL string
	Err error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("downloading %s: %v", e.URL, e.Err)
}

func (e *DownloadError) Unwrap() error { return e.Err }

// Summary counts the outcomes of one Fetch call. Reused covers references
// that resolved without a fresh download: repeated URLs and bytes already
// on disk from an earlier run.
type Summary struct {
	Total      int
	Downloaded int
	Reused     int
	Failed     int
	Skipped    int
}

// Fetcher downloads figure images with a bounded worker pool and a
// per-host politeness rate limit.
type Fetcher struct {
	client    *http.Client
	limiter   *rate.Limiter
	workers   int
	retries   int
	userAgent string
	referer   string
}

// New builds a Fetcher. client is typically the browsing session's client
// so downloads reuse its cookies; referer is the landing page URL, which
// some publishers require on image requests.
func New(client *http.Client, cfg types.ScrapeConfig, referer string) *Fetcher {
	workers := cfg.ImageWorkers
	if workers <= 0 {
		workers = defaultWorkers
	}
	if workers > maxWorkers {
		workers = maxWorkers
	}

	perSecond := cfg.ImageRate
	if perSecond <= 0 {
		perSecond = defaultRate
	}

	return &Fetcher{
		client:    client,
		limiter:   rate.NewLimiter(rate.Limit(perSecond), 1),
		workers:   workers,
		retries:   cfg.ImageRetries,
		userAgent: cfg.UserAgent,
		referer:   referer,
	}
}

// Fetch downloads every image the document references into dir, filling
// in ContentHash and LocalFileName on each reference it resolves.
// References sharing a URL are downloaded once. Individual failures are
// reported on progress and counted, never fatal; the only error returns
// are context cancellation and an unwritable directory.
func (f *Fetcher) Fetch(ctx context.Context, doc *types.Document, dir string, progress io.Writer) (Summary, error) {
	refs := doc.ImageRefs()
	sum := Summary{Total: len(refs)}
	if len(refs) == 0 {
		return sum, nil
	}

	groups := make(map[string][]*types.ImageRef)
	var order []string
	for _, ref := range refs {
		if ref.RemoteURL == "" || strings.HasPrefix(ref.RemoteURL, "data:") {
			sum.Skipped++
			continue
		}
		if _, ok := groups[ref.RemoteURL]; !ok {
			order = append(order, ref.RemoteURL)
		}
		groups[ref.RemoteURL] = append(groups[ref.RemoteURL], ref)
	}
	if len(order) == 0 {
		return sum, nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return sum, fmt.Errorf("creating images directory: %w", err)
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.workers)

	for _, remoteURL := range order {
		remoteURL := remoteURL
		group := groups[remoteURL]
		g.Go(func() error {
			name, wrote, err := f.download(gctx, remoteURL, dir)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				sum.Failed += len(group)
				fmt.Fprintf(progress, "  image failed: %v\n", err)
				return nil
			}

			hash := strings.TrimSuffix(name, path.Ext(name))
			for _, ref := range group {
				ref.ContentHash = hash
				ref.LocalFileName = name
			}
			if wrote {
				sum.Downloaded++
				fmt.Fprintf(progress, "  image %s\n", name)
			} else {
				sum.Reused++
				fmt.Fprintf(progress, "  image %s (cached)\n", name)
			}
			sum.Reused += len(group) - 1
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return sum, err
	}
	return sum, nil
}

// download fetches one URL and stores it under its content-hash name.
// wrote is false when a file with identical bytes already existed.
func (f *Fetcher) download(ctx context.Context, rawURL, dir string) (name string, wrote bool, err error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return "", false, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", false, &DownloadError{URL: rawURL, Err: err}
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
	if f.referer != "" {
		req.Header.Set("Referer", f.referer)
	}

	resp, err := httputil.DoWithRetry(ctx, f.client, req, f.retries)
	if err != nil {
		return "", false, &DownloadError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		httputil.DrainAndClose(resp)
		return "", false, &DownloadError{URL: rawURL, Err: fmt.Errorf("HTTP %d", resp.StatusCode)}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return "", false, &DownloadError{URL: rawURL, Err: err}
	}
	if len(data) == 0 {
		return "", false, &DownloadError{URL: rawURL, Err: errors.New("empty response body")}
	}
	if len(data) > maxImageBytes {
		return "", false, &DownloadError{URL: rawURL, Err: errors.New("image exceeds size limit")}
	}

	sum := blake2b.Sum256(data)
	name = hex.EncodeToString(sum[:8]) + extensionFor(rawURL, resp.Header.Get("Content-Type"))

	dest := filepath.Join(dir, name)
	if _, err := os.Stat(dest); err == nil {
		return name, false, nil
	}
	if err := fsutil.WriteFileAtomic(dest, data, 0o644); err != nil {
		return "", false, &DownloadError{URL: rawURL, Err: err}
	}
	return name, true, nil
}

var imageExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
	".svg": true, ".webp": true, ".bmp": true, ".tif": true, ".tiff": true,
}

var contentTypeExt = map[string]string{
	"image/png":     ".png",
	"image/jpeg":    ".jpg",
	"image/gif":     ".gif",
	"image/svg+xml": ".svg",
	"image/webp":    ".webp",
}

// extensionFor derives the file extension from the URL path when it names
// a known image format, falling back to the response content type and
// finally to ".png". Script-ish paths ("fig.php") fall through to the
// content type.
func extensionFor(rawURL, contentType string) string {
	if u, err := url.Parse(rawURL); err == nil {
		ext := strings.ToLower(path.Ext(u.Path))
		if imageExts[ext] {
			return ext
		}
	}
	ct := contentType
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	if ext, ok := contentTypeExt[strings.TrimSpace(strings.ToLower(ct))]; ok {
		return ext
	}
	return ".png"
}
