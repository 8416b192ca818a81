// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scrape

import (
	"strings"
	"testing"

	"github.com/meshintel/paper-scrape/internal/doi"
)

func TestLookupRegisteredPublishers(t *testing.T) {
	for _, key := range []string{"acm", "ieee", "springer"} {
		s, err := Lookup(key)
		if err != nil {
			t.Fatalf("Lookup(%q): %v", key, err)
		}
		if s.Key() != key {
			t.Errorf("Lookup(%q).Key() = %q", key, s.Key())
		}
		if s.DisplayName() == "" {
			t.Errorf("Lookup(%q) has empty display name", key)
		}
	}
}

func TestLookupMissIsInternalError(t *testing.T) {
	_, err := Lookup("elsevier")
	if err == nil {
		t.Fatal("Lookup(elsevier) should fail")
	}
	if !strings.Contains(err.Error(), "internal") {
		t.Errorf("registry miss should read as an internal error, got %q", err)
	}
}

func TestRegisteredSortedByKey(t *testing.T) {
	scrapers := Registered()
	if len(scrapers) < 3 {
		t.Fatalf("Registered() = %d scrapers, want at least 3", len(scrapers))
	}
	for i := 1; i < len(scrapers); i++ {
		if scrapers[i-1].Key() >= scrapers[i].Key() {
			t.Errorf("Registered() not sorted: %q before %q", scrapers[i-1].Key(), scrapers[i].Key())
		}
	}
}

// Every key the normalizer can emit must have a scraper, and every
// scraper must be reachable from the normalizer. Drift in either
// direction turns the registry's "miss is impossible" guarantee into a
// runtime surprise.
func TestRegistryMatchesNormalizer(t *testing.T) {
	registered := make(map[string]bool)
	for _, s := range Registered() {
		registered[s.Key()] = true
	}

	for _, key := range doi.PublisherKeys() {
		if !registered[key] {
			t.Errorf("normalizer emits key %q with no registered scraper", key)
		}
	}

	emittable := make(map[string]bool)
	for _, key := range doi.PublisherKeys() {
		emittable[key] = true
	}
	for _, s := range Registered() {
		if !emittable[s.Key()] {
			t.Errorf("scraper %q is unreachable: normalizer never emits its key", s.Key())
		}
	}
}

func TestLandingURLs(t *testing.T) {
	tests := []struct {
		key  string
		doi  string
		want string
	}{
		{"acm", "10.1145/3746059.3747603", "https://dl.acm.org/doi/10.1145/3746059.3747603"},
		{"ieee", "10.1109/5.771073", "https://doi.org/10.1109/5.771073"},
		{"springer", "10.1007/s11276-008-0131-4", "https://link.springer.com/article/10.1007/s11276-008-0131-4"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			s, err := Lookup(tt.key)
			if err != nil {
				t.Fatalf("Lookup: %v", err)
			}
			if got := s.LandingURL(tt.doi); got != tt.want {
				t.Errorf("LandingURL = %q, want %q", got, tt.want)
			}
		})
	}
}
