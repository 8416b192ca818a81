// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package doi

import "fmt"

// InvalidDOIError reports that no DOI could be located in the input.
type InvalidDOIError struct {
	Input string
}

func (e *InvalidDOIError) Error() string {
	return fmt.Sprintf("no DOI found in %q", e.Input)
}

// UnsupportedPublisherError reports a DOI whose prefix (and host, when the
// input was a URL) maps to no registered publisher.
type UnsupportedPublisherError struct {
	DOI    string
	Prefix string
}

func (e *UnsupportedPublisherError) Error() string {
	return fmt.Sprintf("no scraper registered for DOI %s (prefix %s)", e.DOI, e.Prefix)
}
