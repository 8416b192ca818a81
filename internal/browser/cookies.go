// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package browser

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// fileCookie is one entry in a browser-extension cookie export ("Cookie
// Editor", "EditThisCookie" and friends all emit this shape).
type fileCookie struct {
	Name           string  `json:"name"`
	Value          string  `json:"value"`
	Domain         string  `json:"domain"`
	Path           string  `json:"path"`
	Secure         bool    `json:"secure"`
	HTTPOnly       bool    `json:"httpOnly"`
	ExpirationDate float64 `json:"expirationDate"`
	SameSite       string  `json:"sameSite"`
}

// LoadCookieFile reads a browser-extension JSON cookie export and sets the
// cookies into jar. It returns the number of cookies loaded. Entries
// without a name or domain are skipped.
func LoadCookieFile(jar http.CookieJar, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	var entries []fileCookie
	if err := json.Unmarshal(data, &entries); err != nil {
		return 0, fmt.Errorf("parsing cookie file: %w", err)
	}

	loaded := 0
	for _, e := range entries {
		if e.Name == "" || e.Domain == "" {
			continue
		}
		c := &http.Cookie{
			Name:     e.Name,
			Value:    e.Value,
			Domain:   e.Domain,
			Path:     e.Path,
			Secure:   e.Secure,
			HttpOnly: e.HTTPOnly,
			SameSite: sameSiteFromString(e.SameSite),
		}
		if e.ExpirationDate > 0 {
			c.Expires = time.Unix(int64(e.ExpirationDate), 0)
		}
		// SetCookies needs the URL the cookie belongs to. A leading dot on
		// the domain means "this host and subdomains"; the jar re-derives
		// that from the Domain field.
		host := strings.TrimPrefix(e.Domain, ".")
		u := &url.URL{Scheme: "https", Host: host, Path: "/"}
		jar.SetCookies(u, []*http.Cookie{c})
		loaded++
	}
	return loaded, nil
}

func sameSiteFromString(s string) http.SameSite {
	switch strings.ToLower(s) {
	case "no_restriction", "none":
		return http.SameSiteNoneMode
	case "lax":
		return http.SameSiteLaxMode
	case "strict":
		return http.SameSiteStrictMode
	default:
		return http.SameSiteDefaultMode
	}
}
