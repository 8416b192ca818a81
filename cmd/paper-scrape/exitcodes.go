package main

import (
	"errors"

	"github.com/meshintel/paper-scrape/internal/doi"
	"github.com/meshintel/paper-scrape/internal/scrape"
)

// Exit codes let scripts distinguish user-fixable failures (bad input,
// paywall) from scraper defects.
const (
	ExitSuccess              = 0 // Success
	ExitError                = 1 // General error (network, I/O, runtime failure)
	ExitInvalidDOI           = 2 // Input did not contain a valid DOI
	ExitUnsupportedPublisher = 3 // DOI valid but publisher not supported
	ExitAccessDenied         = 4 // Paywall or login wall on the article page
	ExitParseError           = 5 // Page loaded but expected structure missing
)

// exitCodeFor maps an error chain to its exit code.
func exitCodeFor(err error) int {
	var (
		invalid     *doi.InvalidDOIError
		unsupported *doi.UnsupportedPublisherError
		denied      *scrape.AccessDeniedError
		parse       *scrape.ParseError
	)
	switch {
	case errors.As(err, &invalid):
		return ExitInvalidDOI
	case errors.As(err, &unsupported):
		return ExitUnsupportedPublisher
	case errors.As(err, &denied):
		return ExitAccessDenied
	case errors.As(err, &parse):
		return ExitParseError
	}
	return ExitError
}
