// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scrape

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/meshintel/paper-scrape/internal/content"
	"github.com/meshintel/paper-scrape/pkg/types"
)

// ieeeDOIBase resolves DOIs through doi.org; the session follows the
// redirect chain to the IEEE Xplore document page. A var for tests.
var ieeeDOIBase = "https://doi.org/"

func init() { Register(&ieeeScraper{}) }

// ieeeScraper extracts papers from IEEE Xplore. Unlike ACM, Xplore uses
// mostly semantic markup: div.section containers with hN headings, p
// paragraphs and figure elements.
type ieeeScraper struct{}

func (*ieeeScraper) Key() string         { return "ieee" }
func (*ieeeScraper) DisplayName() string { return "IEEE Xplore" }

func (*ieeeScraper) LandingURL(doi string) string {
	return ieeeDOIBase + doi
}

const ieeeDenialSelector = ".inst-sign-in, .institutional-sign-in-modal, .purchase-options-list"

func (s *ieeeScraper) Extract(tree *content.Tree) (*types.Document, error) {
	if tree.Has(ieeeDenialSelector) {
		return nil, &AccessDeniedError{Publisher: s.DisplayName(), URL: tree.URL}
	}

	body, ok := tree.First("div.article-body", "div.document-text", "#article")
	if !ok {
		// A document page with an abstract but no full-text container is
		// Xplore's unauthenticated view.
		if tree.Has(".document-main") || tree.Has(".abstract-text") {
			return nil, &AccessDeniedError{Publisher: s.DisplayName(), URL: tree.URL}
		}
		return nil, &ParseError{Publisher: s.Key(), Stage: StageContentLoaded, Missing: "full-text container (div.article-body)"}
	}

	titleSel, _ := tree.First("h1.document-title span", "h1.document-title", ".document-main .title")
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

func (s *ieeeScraper) walk(tree *content.Tree, sel *goquery.Selection, blocks *[]types.Block) {
	sel.Children().Each(func(_ int, child *goquery.Selection) {
		switch goquery.NodeName(child) {
		case "h1", "h2", "h3", "h4", "h5", "h6":
			if h, ok := headingBlock(child); ok {
				*blocks = append(*blocks, h)
			}
		case "p":
			if b, ok := paragraphBlock(child); ok {
				*blocks = append(*blocks, b)
			}
		case "figure":
			if fig, ok := figureBlock(tree, child, "figcaption", "src", "data-src"); ok {
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
			class := child.AttrOr("class", "")
			switch {
			case strings.Contains(class, "disp-formula"):
				if latex, ok := mathBlockText(content.Text(child)); ok {
					*blocks = append(*blocks, types.MathBlock{LaTeX: latex})
				}
			case strings.Contains(class, "figure"), strings.Contains(class, "fig-"):
				if fig, ok := figureBlock(tree, child, "figcaption, .figcaption", "src", "data-src"); ok {
					*blocks = append(*blocks, fig)
				}
			case strings.Contains(class, "table-wrap"):
				if tbl, ok := tableBlock(child); ok {
					*blocks = append(*blocks, tbl)
				}
			default:
				// Sections and anonymous wrappers both descend.
				s.walk(tree, child, blocks)
			}
		case "section":
			s.walk(tree, child, blocks)
		}
	})
}
