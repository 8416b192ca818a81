// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scrape

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/meshintel/paper-scrape/internal/browser"
	"github.com/meshintel/paper-scrape/internal/content"
	"github.com/meshintel/paper-scrape/internal/fsutil"
	"github.com/meshintel/paper-scrape/internal/images"
	"github.com/meshintel/paper-scrape/internal/markdown"
	"github.com/meshintel/paper-scrape/pkg/types"
)

// RunResult summarizes a completed scrape.
type RunResult struct {
	Resolution   types.DOIResolution
	Publisher    string
	Stage        Stage
	SourceURL    string
	Document     *types.Document
	MarkdownPath string
	ImageFiles   []string
	Images       images.Summary
}

// fallbackURLer is implemented by scrapers that have a second, simpler
// page layout to try when the primary landing page fails to parse.
type fallbackURLer interface {
	FallbackURL(doi string) string
}

// Run executes the pipeline for an already-resolved DOI: load the landing
// page, extract the document, fetch its images and write the Markdown
// file. imgClient is the HTTP client for image downloads, usually the
// session's so cookies carry over. Scraper and page errors abort the run
// before anything is written; image failures degrade to placeholders.
func Run(ctx context.Context, session browser.Session, imgClient *http.Client, res types.DOIResolution, cfg types.ScrapeConfig, progress io.Writer) (*RunResult, error) {
	result := &RunResult{Resolution: res, Stage: StageNotStarted}

	scraper, err := Lookup(res.PublisherKey)
	if err != nil {
		return result, err
	}
	result.Publisher = scraper.DisplayName()

	tmpl := browser.ProxyTemplate(cfg.ProxyTemplate)
	landing, err := tmpl.Rewrite(scraper.LandingURL(res.DOI))
	if err != nil {
		return result, err
	}
	result.Stage = StageLandingResolved
	fmt.Fprintf(progress, "Loading %s via %s\n", res.DOI, scraper.DisplayName())
	if cfg.Verbose {
		fmt.Fprintf(progress, "  landing page %s\n", landing)
	}

	tree, err := session.Navigate(ctx, landing)
	if err != nil {
		return result, err
	}
	result.Stage = StageContentLoaded

	doc, err := scraper.Extract(tree)
	if err != nil {
		doc, tree = runFallback(ctx, session, scraper, tmpl, res.DOI, err, progress)
		if doc == nil {
			return result, err
		}
	}
	result.Stage = StageExtracted
	result.SourceURL = tree.URL
	result.Document = doc
	fmt.Fprintf(progress, "Extracted %q: %d blocks, %d figures\n", doc.Title, len(doc.Blocks), len(doc.Figures()))

	fetcher := images.New(imgClient, cfg, tree.URL)
	imagesDir := filepath.Join(cfg.OutputDir, "images")
	summary, err := fetcher.Fetch(ctx, doc, imagesDir, progress)
	if err != nil {
		return result, err
	}
	result.Stage = StageImagesFetched
	result.Images = summary

	text, files := markdown.Render(doc)
	result.Stage = StageRendered
	result.ImageFiles = files

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return result, fmt.Errorf("creating output directory: %w", err)
	}
	outPath := filepath.Join(cfg.OutputDir, markdown.FileName(doc.Title))
	if err := fsutil.WriteFileAtomic(outPath, []byte(text), 0o644); err != nil {
		return result, fmt.Errorf("writing %s: %w", outPath, err)
	}
	result.Stage = StageWritten
	result.MarkdownPath = outPath
	fmt.Fprintf(progress, "Wrote %s\n", outPath)

	return result, nil
}

// runFallback retries extraction against the scraper's fallback layout.
// It is best-effort: any failure leaves the caller's original error in
// place. The returned tree is the page the document came from.
func runFallback(ctx context.Context, session browser.Session, scraper Scraper, tmpl browser.ProxyTemplate, doi string, extractErr error, progress io.Writer) (*types.Document, *content.Tree) {
	var parseErr *ParseError
	if !errors.As(extractErr, &parseErr) {
		return nil, nil
	}
	fb, ok := scraper.(fallbackURLer)
	if !ok {
		return nil, nil
	}

	fallback, err := tmpl.Rewrite(fb.FallbackURL(doi))
	if err != nil {
		return nil, nil
	}
	fmt.Fprintf(progress, "  primary layout missing content, trying %s\n", fallback)

	tree, err := session.Navigate(ctx, fallback)
	if err != nil {
		return nil, nil
	}
	doc, err := scraper.Extract(tree)
	if err != nil {
		return nil, nil
	}
	return doc, tree
}
