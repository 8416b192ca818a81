// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package browser

import (
	"fmt"
	"net/url"
	"strings"
)

// ProxyTemplate rewrites target URLs through an institutional access proxy
// (EZProxy and similar). Placeholders:
//
//	%u  the full target URL, percent-encoded
//	%h  the target host
//	%p  the target path with query and fragment, leading slash stripped
//
// Examples:
//
//	"https://login.proxy.example.edu/login?qurl=%u"
//	"https://%h.proxy.example.edu/%p"
type ProxyTemplate string

// Rewrite applies the template to target. An empty template returns target
// unchanged. The result gets an https:// scheme when the template produced
// a bare host.
func (t ProxyTemplate) Rewrite(target string) (string, error) {
	if t == "" {
		return target, nil
	}

	u, err := url.Parse(target)
	if err != nil {
		return "", fmt.Errorf("proxy rewrite: parsing %q: %w", target, err)
	}

	path := strings.TrimPrefix(u.Path, "/")
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}
	if u.Fragment != "" {
		path += "#" + u.Fragment
	}

	out := string(t)
	out = strings.ReplaceAll(out, "%u", url.QueryEscape(target))
	out = strings.ReplaceAll(out, "%h", u.Host)
	out = strings.ReplaceAll(out, "%p", path)

	if !strings.HasPrefix(out, "http://") && !strings.HasPrefix(out, "https://") {
		out = "https://" + out
	}
	return out, nil
}
