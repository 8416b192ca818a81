// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scrape

import "fmt"

// Stage is a point in the scrape pipeline. A run advances one-way through
// the stages; a failed run reports the stage it stopped in.
type Stage string

const (
	StageNotStarted      Stage = "not_started"
	StageLandingResolved Stage = "landing_resolved"
	StageContentLoaded   Stage = "content_loaded"
	StageExtracted       Stage = "extracted"
	StageImagesFetched   Stage = "images_fetched"
	StageRendered        Stage = "rendered"
	StageWritten         Stage = "written"
)

// AccessDeniedError reports a paywall or login wall on the landing page.
type AccessDeniedError struct {
	Publisher string
	URL       string
}

func (e *AccessDeniedError) Error() string {
	return fmt.Sprintf("%s denied access at %s: paywall or login wall; export cookies from an authenticated browser session and pass --cookies", e.Publisher, e.URL)
}

// ParseError reports that a page loaded but the structure the scraper
// expected is missing, which usually means the publisher changed their
// markup.
type ParseError struct {
	Publisher string
	Stage     Stage
	Missing   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s parse failed at stage %s: expected %s not found", e.Publisher, e.Stage, e.Missing)
}
