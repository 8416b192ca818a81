// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scrape turns publisher pages into the shared document model.
// Each publisher implements the Scraper contract and registers itself;
// adding a publisher never touches the dispatch logic.
package scrape

import (
	"fmt"
	"sort"

	"github.com/meshintel/paper-scrape/internal/content"
	"github.com/meshintel/paper-scrape/pkg/types"
)

// Scraper is the per-publisher capability contract.
type Scraper interface {
	// Key is the registry key, e.g. "acm". Lowercase, stable.
	Key() string

	// DisplayName is the human-readable publisher name for output,
	// e.g. "ACM Digital Library".
	DisplayName() string

	// LandingURL maps a canonical DOI to the page to load.
	LandingURL(doi string) string

	// Extract parses a loaded page into a Document. The document's first
	// block is a level-1 heading carrying the title. Extract returns
	// AccessDeniedError behind a paywall and ParseError when the expected
	// structure is missing.
	Extract(tree *content.Tree) (*types.Document, error)
}

var registry = make(map[string]Scraper)

// Register adds a scraper under its key. It panics on a duplicate key;
// registration happens in init functions and a collision is a programming
// error.
func Register(s Scraper) {
	key := s.Key()
	if _, dup := registry[key]; dup {
		panic(fmt.Sprintf("scrape: duplicate scraper key %q", key))
	}
	registry[key] = s
}

// Lookup returns the scraper for a publisher key. The normalizer only
// emits registered keys, so a miss means the prefix table and the registry
// have drifted apart; the error says so rather than blaming user input.
func Lookup(key string) (Scraper, error) {
	s, ok := registry[key]
	if !ok {
		return nil, fmt.Errorf("internal: publisher key %q resolved but no scraper is registered for it", key)
	}
	return s, nil
}

// Registered returns all scrapers sorted by key.
func Registered() []Scraper {
	keys := make([]string, 0, len(registry))
	for k := range registry {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]Scraper, len(keys))
	for i, k := range keys {
		out[i] = registry[k]
	}
	return out
}
