// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package browser

import (
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cookieExport = `[
  {
    "name": "SESSION",
    "value": "abc123",
    "domain": ".ieee.org",
    "path": "/",
    "secure": true,
    "httpOnly": true,
    "expirationDate": 4102444800.5,
    "sameSite": "no_restriction"
  },
  {
    "name": "pref",
    "value": "dark",
    "domain": "ieeexplore.ieee.org",
    "path": "/",
    "secure": false,
    "httpOnly": false,
    "sameSite": "lax"
  },
  {
    "name": "",
    "value": "dropped",
    "domain": "ieee.org"
  }
]`

func writeCookieFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cookies.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadCookieFile(t *testing.T) {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	n, err := LoadCookieFile(jar, writeCookieFile(t, cookieExport))
	require.NoError(t, err)
	assert.Equal(t, 2, n, "nameless entry should be skipped")

	u, _ := url.Parse("https://ieeexplore.ieee.org/document/123")
	cookies := jar.Cookies(u)

	got := make(map[string]string, len(cookies))
	for _, c := range cookies {
		got[c.Name] = c.Value
	}
	assert.Equal(t, "abc123", got["SESSION"], "domain cookie should apply to subdomain")
	assert.Equal(t, "dark", got["pref"])
}

func TestLoadCookieFileMissing(t *testing.T) {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	_, err = LoadCookieFile(jar, filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestLoadCookieFileMalformed(t *testing.T) {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	_, err = LoadCookieFile(jar, writeCookieFile(t, "{not json"))
	assert.ErrorContains(t, err, "parsing cookie file")
}

func TestSameSiteFromString(t *testing.T) {
	assert.Equal(t, http.SameSiteNoneMode, sameSiteFromString("no_restriction"))
	assert.Equal(t, http.SameSiteLaxMode, sameSiteFromString("Lax"))
	assert.Equal(t, http.SameSiteStrictMode, sameSiteFromString("strict"))
	assert.Equal(t, http.SameSiteDefaultMode, sameSiteFromString(""))
	assert.Equal(t, http.SameSiteDefaultMode, sameSiteFromString("unspecified"))
}
