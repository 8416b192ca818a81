// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scrape

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/meshintel/paper-scrape/internal/content"
	"github.com/meshintel/paper-scrape/pkg/types"
)

// acmBase is the ACM Digital Library root. A var so tests can point it at
// a fixture server.
var acmBase = "https://dl.acm.org"

func init() { Register(&acmScraper{}) }

// acmScraper extracts papers from the ACM Digital Library. ACM renders
// article bodies with ARIA roles rather than semantic tags: paragraphs
// are div[role="paragraph"], lists are div[role="list"].
type acmScraper struct{}

func (*acmScraper) Key() string         { return "acm" }
func (*acmScraper) DisplayName() string { return "ACM Digital Library" }

func (*acmScraper) LandingURL(doi string) string {
	return acmBase + "/doi/" + doi
}

// FallbackURL is the legacy full-text rendering, which some older papers
// still serve when the modern reader layout has no body.
func (*acmScraper) FallbackURL(doi string) string {
	return acmBase + "/doi/fullHtml/" + doi
}

const acmDenialSelector = ".accessDenialWidget, .denial-block"

func (s *acmScraper) Extract(tree *content.Tree) (*types.Document, error) {
	if tree.Has(acmDenialSelector) {
		return nil, &AccessDeniedError{Publisher: s.DisplayName(), URL: tree.URL}
	}

	body, ok := tree.First("section#bodymatter", "div.article__body", "div.hlFld-Fulltext")
	if !ok {
		return nil, &ParseError{Publisher: s.Key(), Stage: StageContentLoaded, Missing: "article body (section#bodymatter)"}
	}

	titleSel, _ := tree.First(`h1[property="name"]`, "h1.citation__title", ".hlFld-Title")
	title := content.Text(titleSel)

	doc := &types.Document{Title: title}
	if title != "" {
		doc.Blocks = append(doc.Blocks, types.Heading{Level: 1, Text: title})
	}

	s.walk(tree, body, &doc.Blocks)

	if len(doc.Blocks) == 0 || (title != "" && len(doc.Blocks) == 1) {
		return nil, &ParseError{Publisher: s.Key(), Stage: StageContentLoaded, Missing: "body content"}
	}
	return doc, nil
}

// walk classifies body children into blocks in document order, descending
// into sections and unknown wrappers.
func (s *acmScraper) walk(tree *content.Tree, sel *goquery.Selection, blocks *[]types.Block) {
	sel.Children().Each(func(_ int, child *goquery.Selection) {
		switch goquery.NodeName(child) {
		case "section", "header":
			s.walk(tree, child, blocks)
		case "h1", "h2", "h3", "h4", "h5", "h6":
			if h, ok := headingBlock(child); ok {
				*blocks = append(*blocks, h)
			}
		case "p":
			if b, ok := paragraphBlock(child); ok {
				*blocks = append(*blocks, b)
			}
		case "figure":
			if fig, ok := s.figure(tree, child); ok {
				*blocks = append(*blocks, fig)
			}
		case "table":
			if tbl, ok := tableBlock(child); ok {
				*blocks = append(*blocks, tbl)
			}
		case "ul", "ol":
			if l, ok := listBlock(child, goquery.NodeName(child) == "ol"); ok {
				*blocks = append(*blocks, l)
			}
		case "div":
			s.walkDiv(tree, child, blocks)
		}
	})
}

func (s *acmScraper) walkDiv(tree *content.Tree, child *goquery.Selection, blocks *[]types.Block) {
	role := child.AttrOr("role", "")
	class := child.AttrOr("class", "")
	switch {
	case role == "paragraph":
		if b, ok := paragraphBlock(child); ok {
			*blocks = append(*blocks, b)
		}
	case role == "list":
		if l, ok := s.roleList(child); ok {
			*blocks = append(*blocks, l)
		}
	case strings.Contains(class, "figure-wrap"):
		if fig, ok := s.figure(tree, child); ok {
			*blocks = append(*blocks, fig)
		}
	case strings.Contains(class, "table-wrap"):
		if tbl, ok := tableBlock(child); ok {
			*blocks = append(*blocks, tbl)
		}
	case strings.Contains(class, "formula"):
		if latex, ok := mathBlockText(content.Text(child)); ok {
			*blocks = append(*blocks, types.MathBlock{LaTeX: latex})
		}
	default:
		s.walk(tree, child, blocks)
	}
}

// roleList converts ACM's ARIA list markup. Items are div[role="listitem"]
// and may carry nested div[role="list"] sublists.
func (s *acmScraper) roleList(sel *goquery.Selection) (types.List, bool) {
	ordered := strings.Contains(sel.AttrOr("data-type", ""), "order")
	var items [][]types.Block
	sel.ChildrenFiltered(`div[role="listitem"]`).Each(func(_ int, item *goquery.Selection) {
		if blocks := s.roleListItem(item); len(blocks) > 0 {
			items = append(items, blocks)
		}
	})
	if len(items) == 0 {
		return types.List{}, false
	}
	return types.List{Ordered: ordered, Items: items}, true
}

func (s *acmScraper) roleListItem(item *goquery.Selection) []types.Block {
	var blocks []types.Block
	var runs []types.InlineRun

	flush := func() {
		if normalized := normalizeRuns(runs); len(normalized) > 0 {
			blocks = append(blocks, types.Paragraph{Runs: normalized})
		}
		runs = nil
	}

	item.Contents().Each(func(_ int, c *goquery.Selection) {
		n := c.Nodes[0]
		switch {
		case n.Type == html.TextNode:
			appendTextRuns(&runs, n.Data)
		case n.Type != html.ElementNode:
		case n.Data == "div" && attrVal(n, "role") == "list":
			flush()
			if l, ok := s.roleList(c); ok {
				blocks = append(blocks, l)
			}
		default:
			collectElementRuns(n, &runs)
		}
	})
	flush()
	return blocks
}

// figure builds a Figure from ACM's figure or figure-wrap markup. The
// caption lives in figcaption as role paragraphs, with the figure label
// ("Figure 3:") in a separate .core-label element.
func (s *acmScraper) figure(tree *content.Tree, sel *goquery.Selection) (types.Figure, bool) {
	img := sel.Find("img").First()
	src := imageSrc(img, "data-viewer-src", "src")

	var parts []string
	sel.Find(`figcaption div[role="paragraph"], figcaption p`).Each(func(_ int, p *goquery.Selection) {
		if t := content.Text(p); t != "" {
			parts = append(parts, t)
		}
	})
	caption := strings.Join(parts, " ")
	if caption == "" {
		caption = content.Text(sel.Find("figcaption").First())
	}
	if label := content.Text(sel.Find(".core-label").First()); label != "" && !strings.Contains(caption, label) {
		caption = strings.TrimSpace(label + " " + caption)
	}

	if src == "" && caption == "" {
		return types.Figure{}, false
	}

	fig := types.Figure{Caption: caption, CaptionPosition: types.CaptionBelow}
	if captionAboveImage(sel, "figcaption") {
		fig.CaptionPosition = types.CaptionAbove
	}
	if src != "" {
		fig.Image = &types.ImageRef{RemoteURL: tree.AbsoluteURL(src)}
	}
	return fig, true
}
