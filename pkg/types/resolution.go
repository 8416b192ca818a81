// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// DOIResolution is the result of normalizing a user-supplied DOI or URL.
type DOIResolution struct {
	// RawInput is the string the user supplied, untouched.
	RawInput string `json:"raw_input" yaml:"raw_input"`

	// DOI is the canonical form: the bare DOI with a lowercased prefix and
	// trailing punctuation trimmed, e.g. "10.1145/3746059.3747603".
	DOI string `json:"doi" yaml:"doi"`

	// PublisherKey identifies the scraper responsible for this DOI,
	// e.g. "acm". It is always a registered key; resolution fails rather
	// than producing a key no scraper claims.
	PublisherKey string `json:"publisher_key" yaml:"publisher_key"`
}
