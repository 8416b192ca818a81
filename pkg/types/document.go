// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures passed between the scrape
// pipeline's stages: the DOI resolution result, the document model scrapers
// build and the renderer consumes, and the configuration structs the CLI
// assembles.
package types

// Document is the publisher-neutral representation of a scraped paper.
// Scrapers produce it, the image fetcher annotates it, and the Markdown
// renderer consumes it. Blocks preserve source reading order, so a figure
// that sat between two paragraphs on the page sits between the same two
// paragraphs here.
type Document struct {
	// Title is the paper title as extracted from the page.
	Title string `json:"title" yaml:"title"`

	// Blocks is the document body in reading order.
	Blocks []Block `json:"blocks" yaml:"blocks"`
}

// Block is a structural element of a document body. Exactly the types in
// this package implement it: Heading, Paragraph, List, Figure, Table and
// MathBlock. Consumers dispatch with a type switch.
type Block interface {
	isBlock()
}

// Heading is a section heading at a given level (1-6).
type Heading struct {
	Level int    `json:"level" yaml:"level"`
	Text  string `json:"text" yaml:"text"`
}

// Paragraph is a run of inline content.
type Paragraph struct {
	Runs []InlineRun `json:"runs" yaml:"runs"`
}

// List is an ordered or unordered list. Each item is itself a block
// sequence so that nested lists keep their depth.
type List struct {
	Ordered bool      `json:"ordered" yaml:"ordered"`
	Items   [][]Block `json:"items" yaml:"items"`
}

// CaptionPosition records where a figure caption sat relative to its image
// in the source page. The renderer preserves it.
type CaptionPosition string

const (
	CaptionBelow CaptionPosition = "below"
	CaptionAbove CaptionPosition = "above"
)

// Figure is an image with an optional caption.
type Figure struct {
	Caption         string          `json:"caption" yaml:"caption"`
	Image           *ImageRef       `json:"image" yaml:"image"`
	CaptionPosition CaptionPosition `json:"caption_position" yaml:"caption_position"`
}

// Table is a grid of already-flattened cell text. The first row is the
// header row.
type Table struct {
	Rows [][]string `json:"rows" yaml:"rows"`
}

// MathBlock is display math carried verbatim as LaTeX.
type MathBlock struct {
	LaTeX string `json:"latex" yaml:"latex"`
}

func (Heading) isBlock()   {}
func (Paragraph) isBlock() {}
func (List) isBlock()      {}
func (Figure) isBlock()    {}
func (Table) isBlock()     {}
func (MathBlock) isBlock() {}

// InlineRun is a span of styled text inside a paragraph. Exactly the types
// in this package implement it: Text, Bold, Italic, InlineMath and Link.
type InlineRun interface {
	isRun()
}

// Text is a plain text run.
type Text struct {
	Text string `json:"text" yaml:"text"`
}

// Bold is a bold text run.
type Bold struct {
	Text string `json:"text" yaml:"text"`
}

// Italic is an italic text run.
type Italic struct {
	Text string `json:"text" yaml:"text"`
}

// InlineMath is inline math carried verbatim as LaTeX.
type InlineMath struct {
	LaTeX string `json:"latex" yaml:"latex"`
}

// Link is a hyperlink run.
type Link struct {
	Text string `json:"text" yaml:"text"`
	URL  string `json:"url" yaml:"url"`
}

func (Text) isRun()       {}
func (Bold) isRun()       {}
func (Italic) isRun()     {}
func (InlineMath) isRun() {}
func (Link) isRun()       {}

// ImageRef identifies a figure image. RemoteURL is set by the scraper;
// ContentHash and LocalFileName are filled in by the image fetcher once the
// bytes are on disk. An empty LocalFileName after fetching means the
// download failed and the renderer should emit a placeholder.
type ImageRef struct {
	// RemoteURL is the absolute URL the image was referenced by.
	RemoteURL string `json:"remote_url" yaml:"remote_url"`

	// ContentHash is the hex-encoded hash of the downloaded bytes.
	ContentHash string `json:"content_hash,omitempty" yaml:"content_hash,omitempty"`

	// LocalFileName is the file name under the images directory,
	// e.g. "a1b2c3d4e5f60718.png".
	LocalFileName string `json:"local_file_name,omitempty" yaml:"local_file_name,omitempty"`
}

// ImageRefs returns every figure image reference in reading order,
// descending into list items. The returned pointers alias the document, so
// callers may fill in fetch results through them.
func (d *Document) ImageRefs() []*ImageRef {
	var refs []*ImageRef
	collectImageRefs(d.Blocks, &refs)
	return refs
}

func collectImageRefs(blocks []Block, refs *[]*ImageRef) {
	for _, b := range blocks {
		switch b := b.(type) {
		case Figure:
			if b.Image != nil {
				*refs = append(*refs, b.Image)
			}
		case List:
			for _, item := range b.Items {
				collectImageRefs(item, refs)
			}
		}
	}
}

// Figures returns every figure in reading order, descending into list items.
func (d *Document) Figures() []Figure {
	var figs []Figure
	collectFigures(d.Blocks, &figs)
	return figs
}

func collectFigures(blocks []Block, figs *[]Figure) {
	for _, b := range blocks {
		switch b := b.(type) {
		case Figure:
			*figs = append(*figs, b)
		case List:
			for _, item := range b.Items {
				collectFigures(item, figs)
			}
		}
	}
}
