// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package markdown renders the document model to Markdown text. Rendering
// is pure and deterministic: the same document always produces the same
// bytes, and figures appear exactly where their blocks sit.
package markdown

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/meshintel/paper-scrape/pkg/types"
)

// Placeholder is rendered for a figure whose image could not be fetched.
const Placeholder = "*[image unavailable]*"

// imagesDir is the directory name image links point into, relative to the
// Markdown file.
const imagesDir = "images"

// Render produces the Markdown for doc plus the image file names the text
// references, in order of first reference.
func Render(doc *types.Document) (string, []string) {
	r := renderer{seen: make(map[string]bool)}
	for _, blk := range doc.Blocks {
		r.block(blk)
	}
	out := strings.TrimRight(r.b.String(), "\n")
	if out != "" {
		out += "\n"
	}
	return out, r.images
}

type renderer struct {
	b      strings.Builder
	images []string
	seen   map[string]bool
}

func (r *renderer) block(blk types.Block) {
	switch v := blk.(type) {
	case types.Heading:
		level := v.Level
		if level < 1 {
			level = 1
		}
		if level > 6 {
			level = 6
		}
		r.b.WriteString(strings.Repeat("#", level) + " " + v.Text + "\n\n")
	case types.Paragraph:
		if text := renderRuns(v.Runs); text != "" {
			r.b.WriteString(text + "\n\n")
		}
	case types.List:
		for _, line := range r.listLines(v, 0) {
			r.b.WriteString(line + "\n")
		}
		r.b.WriteString("\n")
	case types.Figure:
		for _, line := range r.figureLines(v) {
			r.b.WriteString(line + "\n")
		}
		r.b.WriteString("\n")
	case types.Table:
		for _, line := range tableLines(v) {
			r.b.WriteString(line + "\n")
		}
		r.b.WriteString("\n")
	case types.MathBlock:
		r.b.WriteString("$$\n" + v.LaTeX + "\n$$\n\n")
	}
}

// figureLines renders a figure as an image line and an italic caption
// line, ordered by the recorded caption position. A figure without a
// fetched image degrades to a placeholder instead of a broken link.
func (r *renderer) figureLines(v types.Figure) []string {
	imgLine := Placeholder
	if v.Image != nil && v.Image.LocalFileName != "" {
		name := v.Image.LocalFileName
		imgLine = fmt.Sprintf("![%s](%s/%s)", escapeAlt(v.Caption), imagesDir, name)
		if !r.seen[name] {
			r.seen[name] = true
			r.images = append(r.images, name)
		}
	}

	capLine := ""
	if v.Caption != "" {
		capLine = "*" + v.Caption + "*"
	}

	switch {
	case capLine == "":
		return []string{imgLine}
	case v.CaptionPosition == types.CaptionAbove:
		return []string{capLine, imgLine}
	default:
		return []string{imgLine, capLine}
	}
}

func (r *renderer) listLines(l types.List, depth int) []string {
	indent := strings.Repeat("  ", depth)
	var lines []string
	for i, item := range l.Items {
		marker := "- "
		if l.Ordered {
			marker = fmt.Sprintf("%d. ", i+1)
		}
		cont := strings.Repeat(" ", len(marker))
		first := true
		for _, blk := range item {
			switch v := blk.(type) {
			case types.Paragraph:
				text := renderRuns(v.Runs)
				if text == "" {
					continue
				}
				if first {
					lines = append(lines, indent+marker+text)
					first = false
				} else {
					lines = append(lines, indent+cont+text)
				}
			case types.List:
				first = false
				lines = append(lines, r.listLines(v, depth+1)...)
			case types.Figure:
				for _, fl := range r.figureLines(v) {
					if first {
						lines = append(lines, indent+marker+fl)
						first = false
					} else {
						lines = append(lines, indent+cont+fl)
					}
				}
			case types.Heading:
				if first {
					lines = append(lines, indent+marker+v.Text)
					first = false
				} else {
					lines = append(lines, indent+cont+v.Text)
				}
			case types.MathBlock:
				if first {
					lines = append(lines, indent+marker+"$"+v.LaTeX+"$")
					first = false
				} else {
					lines = append(lines, indent+cont+"$"+v.LaTeX+"$")
				}
			}
		}
	}
	return lines
}

func tableLines(t types.Table) []string {
	if len(t.Rows) == 0 || len(t.Rows[0]) == 0 {
		return nil
	}
	width := len(t.Rows[0])

	row := func(cells []string) string {
		padded := make([]string, width)
		for i := 0; i < width; i++ {
			if i < len(cells) {
				padded[i] = strings.ReplaceAll(cells[i], "|", `\|`)
			}
		}
		return "| " + strings.Join(padded, " | ") + " |"
	}

	sep := make([]string, width)
	for i := range sep {
		sep[i] = "---"
	}

	lines := []string{row(t.Rows[0]), "| " + strings.Join(sep, " | ") + " |"}
	for _, cells := range t.Rows[1:] {
		lines = append(lines, row(cells))
	}
	return lines
}

func renderRuns(runs []types.InlineRun) string {
	var b strings.Builder
	for _, run := range runs {
		switch v := run.(type) {
		case types.Text:
			b.WriteString(v.Text)
		case types.Bold:
			b.WriteString("**" + v.Text + "**")
		case types.Italic:
			b.WriteString("*" + v.Text + "*")
		case types.InlineMath:
			b.WriteString("$" + v.LaTeX + "$")
		case types.Link:
			b.WriteString("[" + v.Text + "](" + v.URL + ")")
		}
	}
	return b.String()
}

func escapeAlt(s string) string {
	s = strings.ReplaceAll(s, "[", `\[`)
	return strings.ReplaceAll(s, "]", `\]`)
}

// FileName derives the output file name from a title. Characters outside
// letters, digits, space, dash and underscore become underscores, the
// result is capped at 80 characters and trimmed, with "paper.md" as the
// fallback for an empty title.
func FileName(title string) string {
	var b strings.Builder
	for _, r := range title {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	name := strings.TrimSpace(b.String())
	if runes := []rune(name); len(runes) > 80 {
		name = strings.TrimSpace(string(runes[:80]))
	}
	if name == "" {
		return "paper.md"
	}
	return name + ".md"
}
