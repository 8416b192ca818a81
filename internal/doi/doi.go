// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package doi normalizes user-supplied DOIs and URLs into a canonical DOI
// plus the publisher key that owns it. It is pure string work: no network
// access, no side effects.
package doi

import (
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/meshintel/paper-scrape/pkg/types"
)

// doiPattern matches a DOI anywhere inside free text: "10.1145/3456.7890",
// a doi.org URL, or a publisher URL with the DOI in the path.
var doiPattern = regexp.MustCompile(`10\.\d{4,9}/[^\s"'<>]+`)

// trailingPunct is trimmed from the end of a match so that a DOI quoted in
// prose ("see 10.1145/3456.7890.") comes out clean.
const trailingPunct = ".,;:)]}"

// prefixPublishers maps DOI prefixes to registered publisher keys. Only
// publishers with a scraper belong here; an entry without a scraper would
// let resolution succeed and then fail at registry lookup.
var prefixPublishers = map[string]string{
	"10.1145": "acm",
	"10.1109": "ieee",
	"10.1007": "springer",
}

// domainPublishers maps publisher host names to keys, used as a fallback
// when the DOI prefix is unrecognized but the input was a URL. Matching is
// by substring so proxied hosts such as dl-acm-org.proxy.example.edu still
// resolve.
var domainPublishers = map[string]string{
	"dl.acm.org":          "acm",
	"ieeexplore.ieee.org": "ieee",
	"link.springer.com":   "springer",
	"dl-acm-org":          "acm",
	"ieeexplore-ieee-org": "ieee",
	"link-springer-com":   "springer",
}

// Extract locates the first DOI in input and returns it in canonical form:
// trailing punctuation trimmed and the registrant prefix lowercased. The
// suffix keeps its case; the handle system treats suffixes as
// case-insensitive, but publishers mint them with meaningful-looking case
// and we preserve it.
func Extract(input string) (string, error) {
	m := doiPattern.FindString(input)
	if m == "" {
		return "", &InvalidDOIError{Input: input}
	}
	m = strings.TrimRight(m, trailingPunct)
	return canonicalize(m), nil
}

// Resolve normalizes input into a DOIResolution. The publisher key comes
// from the DOI prefix; when the prefix is unknown and the input was a URL,
// the host name is tried as a fallback. Resolve never returns a key that
// has no registered scraper.
func Resolve(input string) (types.DOIResolution, error) {
	input = strings.TrimSpace(input)

	canonical, err := Extract(input)
	if err != nil {
		return types.DOIResolution{}, err
	}

	key := publisherForPrefix(canonical)
	if key == "" {
		key = publisherForHost(input)
	}
	if key == "" {
		return types.DOIResolution{}, &UnsupportedPublisherError{DOI: canonical, Prefix: prefixOf(canonical)}
	}

	return types.DOIResolution{
		RawInput:     input,
		DOI:          canonical,
		PublisherKey: key,
	}, nil
}

// PrefixesFor returns the DOI prefixes mapped to a publisher key, sorted.
func PrefixesFor(key string) []string {
	var prefixes []string
	for p, k := range prefixPublishers {
		if k == key {
			prefixes = append(prefixes, p)
		}
	}
	sort.Strings(prefixes)
	return prefixes
}

// PublisherKeys returns every publisher key the normalizer can produce,
// sorted and deduplicated.
func PublisherKeys() []string {
	seen := make(map[string]bool)
	for _, k := range prefixPublishers {
		seen[k] = true
	}
	for _, k := range domainPublishers {
		seen[k] = true
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// canonicalize lowercases the registrant prefix ("10.NNNN") and leaves the
// suffix untouched.
func canonicalize(doi string) string {
	slash := strings.IndexByte(doi, '/')
	if slash < 0 {
		return strings.ToLower(doi)
	}
	return strings.ToLower(doi[:slash]) + doi[slash:]
}

func prefixOf(doi string) string {
	if slash := strings.IndexByte(doi, '/'); slash >= 0 {
		return doi[:slash]
	}
	return doi
}

func publisherForPrefix(doi string) string {
	return prefixPublishers[prefixOf(doi)]
}

// publisherForHost resolves the publisher from the input URL's host. It
// returns "" when the input is not an http(s) URL or the host is unknown.
func publisherForHost(input string) string {
	u, err := url.Parse(input)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return ""
	}
	host := strings.ToLower(strings.TrimPrefix(u.Hostname(), "www."))
	if host == "" {
		return ""
	}

	// Iterate in sorted order so overlapping entries resolve the same way
	// every run.
	domains := make([]string, 0, len(domainPublishers))
	for d := range domainPublishers {
		domains = append(domains, d)
	}
	sort.Strings(domains)
	for _, d := range domains {
		if strings.Contains(host, d) {
			return domainPublishers[d]
		}
	}
	return ""
}
