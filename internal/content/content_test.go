// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package content

import "testing"

const samplePage = `<html><body>
<article>
  <h1 class="title">A Sample Paper</h1>
  <p>First paragraph.</p>
  <img src="/images/fig1.png" data-src="/images/fig1-full.png">
</article>
</body></html>`

func TestParseAndFind(t *testing.T) {
	tree, err := ParseString(samplePage, "https://example.org/doi/10.1145/1.2")
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	if got := tree.Find("p").Length(); got != 1 {
		t.Errorf("Find(p) length = %d, want 1", got)
	}
	if !tree.Has("article") {
		t.Error("Has(article) = false, want true")
	}
	if tree.Has(".nonexistent") {
		t.Error("Has(.nonexistent) = true, want false")
	}
}

func TestFirstTriesSelectorsInOrder(t *testing.T) {
	tree, err := ParseString(samplePage, "https://example.org/")
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}

	sel, ok := tree.First(".missing", "h1.title")
	if !ok {
		t.Fatal("First = not found, want h1.title")
	}
	if got := Text(sel); got != "A Sample Paper" {
		t.Errorf("Text = %q, want %q", got, "A Sample Paper")
	}

	if _, ok := tree.First(".missing", "#also-missing"); ok {
		t.Error("First matched nothing real, want ok=false")
	}
}

func TestCleanText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "hello", "hello"},
		{"inner newlines", "hello\n  world", "hello world"},
		{"tabs and spaces", "\t a \t b \n", "a b"},
		{"empty", "   \n ", ""},
		{"nbsp becomes space", "a\u00a0b", "a b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanText(tt.input); got != tt.want {
				t.Errorf("CleanText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestResolveURL(t *testing.T) {
	base := "https://dl.acm.org/doi/10.1145/3746059.3747603"
	tests := []struct {
		name string
		ref  string
		want string
	}{
		{"absolute kept", "https://cdn.example.org/a.png", "https://cdn.example.org/a.png"},
		{"protocol-relative", "//cdn.example.org/a.png", "https://cdn.example.org/a.png"},
		{"root-relative", "/cms/attachment/fig1.jpg", "https://dl.acm.org/cms/attachment/fig1.jpg"},
		{"document-relative", "fig1.jpg", "https://dl.acm.org/doi/10.1145/fig1.jpg"},
		{"empty", "", ""},
		{"data URL kept", "data:image/png;base64,AAAA", "data:image/png;base64,AAAA"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveURL(base, tt.ref); got != tt.want {
				t.Errorf("ResolveURL(%q) = %q, want %q", tt.ref, got, tt.want)
			}
		})
	}
}

func TestFirstAttrPrefersDataAttributes(t *testing.T) {
	tree, err := ParseString(samplePage, "https://example.org/")
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	img := tree.Find("img").First()

	if got := FirstAttr(img, "data-src", "src"); got != "/images/fig1-full.png" {
		t.Errorf("FirstAttr(data-src, src) = %q, want %q", got, "/images/fig1-full.png")
	}
	if got := FirstAttr(img, "data-viewer-src", "src"); got != "/images/fig1.png" {
		t.Errorf("FirstAttr(data-viewer-src, src) = %q, want %q", got, "/images/fig1.png")
	}
	if got := FirstAttr(img, "data-missing"); got != "" {
		t.Errorf("FirstAttr(data-missing) = %q, want empty", got)
	}
}
