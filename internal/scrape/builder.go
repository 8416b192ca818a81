// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scrape

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/meshintel/paper-scrape/internal/content"
	"github.com/meshintel/paper-scrape/pkg/types"
)

// Shared building blocks for scrapers. Publisher markup differs, but once
// a scraper has located an element the conversion to document-model nodes
// is the same everywhere.

// headingLevel maps an hN tag name to its level. Source levels carry over
// directly: an h2 on the page is a level-2 heading in the document.
func headingLevel(tag string) int {
	if len(tag) == 2 && tag[0] == 'h' && tag[1] >= '1' && tag[1] <= '6' {
		return int(tag[1] - '0')
	}
	return 2
}

// headingBlock builds a Heading from an hN element.
func headingBlock(sel *goquery.Selection) (types.Heading, bool) {
	text := content.Text(sel)
	if text == "" {
		return types.Heading{}, false
	}
	return types.Heading{Level: headingLevel(goquery.NodeName(sel)), Text: text}, true
}

// paragraphBlock builds a Paragraph from an element's inline content. A
// paragraph that is entirely display math becomes a MathBlock instead.
func paragraphBlock(sel *goquery.Selection) (types.Block, bool) {
	if latex, ok := mathBlockText(content.Text(sel)); ok {
		return types.MathBlock{LaTeX: latex}, true
	}
	runs := inlineRuns(sel)
	if len(runs) == 0 {
		return nil, false
	}
	return types.Paragraph{Runs: runs}, true
}

// inlineRuns flattens an element's children into styled runs. Adjacent
// plain-text nodes coalesce and whitespace collapses, preserving single
// spaces between runs.
func inlineRuns(sel *goquery.Selection) []types.InlineRun {
	var runs []types.InlineRun
	for _, n := range sel.Nodes {
		collectRuns(n, &runs)
	}
	return normalizeRuns(runs)
}

func collectRuns(n *html.Node, runs *[]types.InlineRun) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			appendTextRuns(runs, c.Data)
		case html.ElementNode:
			collectElementRuns(c, runs)
		}
	}
}

func collectElementRuns(c *html.Node, runs *[]types.InlineRun) {
	switch c.Data {
	case "b", "strong":
		if t := nodeText(c); t != "" {
			*runs = append(*runs, types.Bold{Text: t})
		}
	case "i", "em":
		if t := nodeText(c); t != "" {
			*runs = append(*runs, types.Italic{Text: t})
		}
	case "a":
		if t := nodeText(c); t != "" {
			*runs = append(*runs, types.Link{Text: t, URL: attrVal(c, "href")})
		}
	case "script":
		// MathJax puts the source TeX in script elements.
		if strings.Contains(attrVal(c, "type"), "math/tex") {
			if t := strings.TrimSpace(rawText(c)); t != "" {
				*runs = append(*runs, types.InlineMath{LaTeX: t})
			}
		}
	case "span":
		if latex, ok := mathFromSpan(c); ok {
			*runs = append(*runs, types.InlineMath{LaTeX: latex})
		} else {
			collectRuns(c, runs)
		}
	case "br":
		appendTextRuns(runs, " ")
	case "ul", "ol", "img", "figure", "table", "style", "noscript", "button", "svg":
		// Block structures and chrome are handled (or dropped) elsewhere.
	default:
		collectRuns(c, runs)
	}
}

// mathFromSpan recognizes inline math containers by class and returns the
// contained TeX with any \( \) delimiters stripped.
func mathFromSpan(n *html.Node) (string, bool) {
	class := strings.ToLower(attrVal(n, "class"))
	if !strings.Contains(class, "math") && !strings.Contains(class, "tex") && !strings.Contains(class, "ql-formula") {
		return "", false
	}
	t := strings.TrimSpace(rawText(n))
	t = strings.TrimPrefix(t, `\(`)
	t = strings.TrimSuffix(t, `\)`)
	t = strings.Trim(t, "$")
	t = strings.TrimSpace(t)
	if t == "" {
		return "", false
	}
	return t, true
}

// appendTextRuns appends text as runs, splitting out inline math spans.
func appendTextRuns(runs *[]types.InlineRun, text string) {
	for text != "" {
		start, end, latex, ok := findInlineMath(text)
		if !ok {
			*runs = append(*runs, types.Text{Text: text})
			return
		}
		if start > 0 {
			*runs = append(*runs, types.Text{Text: text[:start]})
		}
		*runs = append(*runs, types.InlineMath{LaTeX: latex})
		text = text[end:]
	}
}

// findInlineMath locates the first inline math span in s. It recognizes
// \( ... \) always, and $ ... $ only when the dollars hug their content
// and the opener is not preceded by a digit or backslash, which keeps
// prices and escaped dollars out.
func findInlineMath(s string) (start, end int, latex string, found bool) {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			if i+1 < len(s) && s[i+1] == '(' {
				j := strings.Index(s[i+2:], `\)`)
				if j < 0 {
					continue
				}
				inner := strings.TrimSpace(s[i+2 : i+2+j])
				if inner != "" {
					return i, i + 2 + j + 2, inner, true
				}
				i = i + 2 + j + 1
			}
		case '$':
			if i+1 < len(s) && s[i+1] == '$' {
				i++
				continue
			}
			if i > 0 && (s[i-1] == '\\' || isDigit(s[i-1])) {
				continue
			}
			if i+1 >= len(s) || s[i+1] == ' ' {
				continue
			}
			j := strings.IndexByte(s[i+1:], '$')
			if j < 0 {
				continue
			}
			closeIdx := i + 1 + j
			inner := s[i+1 : closeIdx]
			if strings.Contains(inner, "\n") || strings.TrimSpace(inner) == "" || strings.HasSuffix(inner, " ") {
				i = closeIdx - 1
				continue
			}
			return i, closeIdx + 1, strings.TrimSpace(inner), true
		}
	}
	return 0, 0, "", false
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// mathBlockText reports whether s is entirely display math and returns
// the inner LaTeX.
func mathBlockText(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) > 4 && strings.HasPrefix(s, "$$") && strings.HasSuffix(s, "$$") {
		inner := strings.TrimSpace(s[2 : len(s)-2])
		if inner != "" && !strings.Contains(inner, "$$") {
			return inner, true
		}
	}
	if len(s) > 4 && strings.HasPrefix(s, `\[`) && strings.HasSuffix(s, `\]`) {
		if inner := strings.TrimSpace(s[2 : len(s)-2]); inner != "" {
			return inner, true
		}
	}
	return "", false
}

// normalizeRuns merges adjacent text runs, collapses whitespace, trims
// the sequence ends and drops empties.
func normalizeRuns(runs []types.InlineRun) []types.InlineRun {
	var merged []types.InlineRun
	for _, r := range runs {
		t, ok := r.(types.Text)
		if !ok {
			merged = append(merged, r)
			continue
		}
		if len(merged) > 0 {
			if prev, ok := merged[len(merged)-1].(types.Text); ok {
				merged[len(merged)-1] = types.Text{Text: prev.Text + t.Text}
				continue
			}
		}
		merged = append(merged, t)
	}

	var out []types.InlineRun
	for i, r := range merged {
		switch v := r.(type) {
		case types.Text:
			txt := content.CollapseSpace(v.Text)
			if i == 0 {
				txt = strings.TrimLeft(txt, " ")
			}
			if i == len(merged)-1 {
				txt = strings.TrimRight(txt, " ")
			}
			if txt == "" {
				continue
			}
			out = append(out, types.Text{Text: txt})
		case types.Bold:
			if t := content.CleanText(v.Text); t != "" {
				out = append(out, types.Bold{Text: t})
			}
		case types.Italic:
			if t := content.CleanText(v.Text); t != "" {
				out = append(out, types.Italic{Text: t})
			}
		case types.Link:
			if t := content.CleanText(v.Text); t != "" {
				out = append(out, types.Link{Text: t, URL: v.URL})
			}
		default:
			out = append(out, r)
		}
	}
	return out
}

// listBlock builds a List from a ul/ol element, recursing into nested
// lists so depth is preserved.
func listBlock(sel *goquery.Selection, ordered bool) (types.List, bool) {
	var items [][]types.Block
	sel.ChildrenFiltered("li").Each(func(_ int, li *goquery.Selection) {
		if item := listItem(li); len(item) > 0 {
			items = append(items, item)
		}
	})
	if len(items) == 0 {
		return types.List{}, false
	}
	return types.List{Ordered: ordered, Items: items}, true
}

// listItem converts one li into a block sequence: its inline content
// first, then any nested lists in order.
func listItem(li *goquery.Selection) []types.Block {
	var blocks []types.Block
	if runs := inlineRuns(li); len(runs) > 0 {
		blocks = append(blocks, types.Paragraph{Runs: runs})
	}
	li.ChildrenFiltered("ul, ol").Each(func(_ int, sub *goquery.Selection) {
		if l, ok := listBlock(sub, goquery.NodeName(sub) == "ol"); ok {
			blocks = append(blocks, l)
		}
	})
	return blocks
}

// tableBlock flattens a table element into rows of cell text. The first
// row is treated as the header by the renderer.
func tableBlock(sel *goquery.Selection) (types.Table, bool) {
	var rows [][]string
	sel.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		var cells []string
		tr.ChildrenFiltered("th, td").Each(func(_ int, cell *goquery.Selection) {
			cells = append(cells, content.Text(cell))
		})
		if len(cells) > 0 {
			rows = append(rows, cells)
		}
	})
	if len(rows) == 0 {
		return types.Table{}, false
	}
	return types.Table{Rows: rows}, true
}

// imageSrc picks the first usable image URL among attrs, skipping inline
// data URIs (lazy loaders park placeholder pixels there).
func imageSrc(img *goquery.Selection, attrs ...string) string {
	for _, a := range attrs {
		v := content.FirstAttr(img, a)
		if v != "" && !strings.HasPrefix(v, "data:") {
			return v
		}
	}
	return ""
}

// figureBlock builds a Figure from a figure-like element. imgAttrs lists
// image URL attributes in preference order; lazy-loaded markup keeps the
// real URL in a data attribute.
func figureBlock(tree *content.Tree, sel *goquery.Selection, captionSel string, imgAttrs ...string) (types.Figure, bool) {
	img := sel.Find("img").First()
	src := imageSrc(img, imgAttrs...)
	caption := content.Text(sel.Find(captionSel).First())

	if src == "" && caption == "" {
		return types.Figure{}, false
	}

	fig := types.Figure{
		Caption:         caption,
		CaptionPosition: types.CaptionBelow,
	}
	if captionAboveImage(sel, captionSel) {
		fig.CaptionPosition = types.CaptionAbove
	}
	if src != "" {
		fig.Image = &types.ImageRef{RemoteURL: tree.AbsoluteURL(src)}
	}
	return fig, true
}

// captionAboveImage reports whether the caption element precedes the
// image in document order.
func captionAboveImage(sel *goquery.Selection, captionSel string) bool {
	capSel := sel.Find(captionSel).First()
	imgSel := sel.Find("img").First()
	if capSel.Length() == 0 || imgSel.Length() == 0 {
		return false
	}
	capNode, imgNode := capSel.Nodes[0], imgSel.Nodes[0]

	above := false
	var walk func(n *html.Node) bool
	walk = func(n *html.Node) bool {
		if n == capNode {
			above = true
			return true
		}
		if n == imgNode {
			above = false
			return true
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if walk(c) {
				return true
			}
		}
		return false
	}
	for _, n := range sel.Nodes {
		if walk(n) {
			break
		}
	}
	return above
}

// nodeText returns an element's descendant text, whitespace-normalized.
func nodeText(n *html.Node) string {
	return content.CleanText(rawText(n))
}

// rawText concatenates descendant text nodes without normalization.
func rawText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func attrVal(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
