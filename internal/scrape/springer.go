// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scrape

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/meshintel/paper-scrape/internal/content"
	"github.com/meshintel/paper-scrape/pkg/types"
)

// springerBase is the SpringerLink root. A var so tests can point it at a
// fixture server.
var springerBase = "https://link.springer.com"

func init() { Register(&springerScraper{}) }

// springerScraper extracts papers from SpringerLink, which shares its
// c-article-* markup with Nature's platform.
type springerScraper struct{}

func (*springerScraper) Key() string         { return "springer" }
func (*springerScraper) DisplayName() string { return "SpringerLink" }

func (*springerScraper) LandingURL(doi string) string {
	return springerBase + "/article/" + doi
}

const springerDenialSelector = ".c-article-buy-box, .c-access-options"

func (s *springerScraper) Extract(tree *content.Tree) (*types.Document, error) {
	body, ok := tree.First("div.c-article-body", "article .main-content")
	if !ok {
		if tree.Has(springerDenialSelector) {
			return nil, &AccessDeniedError{Publisher: s.DisplayName(), URL: tree.URL}
		}
		return nil, &ParseError{Publisher: s.Key(), Stage: StageContentLoaded, Missing: "article body (div.c-article-body)"}
	}

	titleSel, _ := tree.First("h1.c-article-title", "h1[data-article-title]", "h1")
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

func (s *springerScraper) walk(tree *content.Tree, sel *goquery.Selection, blocks *[]types.Block) {
	sel.Children().Each(func(_ int, child *goquery.Selection) {
		switch goquery.NodeName(child) {
		case "section":
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
			if fig, ok := figureBlock(tree, child, "figcaption", "data-src", "src"); ok {
				*blocks = append(*blocks, fig)
			}
		case "ul", "ol":
			if l, ok := listBlock(child, goquery.NodeName(child) == "ol"); ok {
				*blocks = append(*blocks, l)
			}
		case "table":
			if tbl, ok := tableBlock(child); ok {
				*blocks = append(*blocks, tbl)
			}
		case "div":
			class := child.AttrOr("class", "")
			switch {
			case strings.Contains(class, "c-article-section__figure"), strings.Contains(class, "c-article-figure"):
				if fig, ok := figureBlock(tree, child, "figcaption", "data-src", "src"); ok {
					*blocks = append(*blocks, fig)
				}
			case strings.Contains(class, "c-article-table"):
				if tbl, ok := tableBlock(child); ok {
					*blocks = append(*blocks, tbl)
				}
			case strings.Contains(class, "c-article-equation"):
				if latex, ok := mathBlockText(content.Text(child)); ok {
					*blocks = append(*blocks, types.MathBlock{LaTeX: latex})
				}
			default:
				s.walk(tree, child, blocks)
			}
		}
	})
}
