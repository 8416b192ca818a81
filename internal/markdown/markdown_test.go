// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package markdown

import (
	"strings"
	"testing"

	"github.com/meshintel/paper-scrape/pkg/types"
)

func figWithFile(caption, file string) types.Figure {
	return types.Figure{
		Caption: caption,
		Image:   &types.ImageRef{RemoteURL: "https://example.org/" + file, LocalFileName: file},
	}
}

func TestRenderBasicDocument(t *testing.T) {
	doc := &types.Document{
		Title: "Paper",
		Blocks: []types.Block{
			types.Heading{Level: 1, Text: "Abstract"},
			types.Paragraph{Runs: []types.InlineRun{types.Text{Text: "Intro text."}}},
			figWithFile("Fig 1", "ab12.png"),
		},
	}

	got, images := Render(doc)
	want := "# Abstract\n\nIntro text.\n\n![Fig 1](images/ab12.png)\n*Fig 1*\n"
	if got != want {
		t.Errorf("Render = %q, want %q", got, want)
	}
	if len(images) != 1 || images[0] != "ab12.png" {
		t.Errorf("images = %v, want [ab12.png]", images)
	}
}

func TestRenderIdempotent(t *testing.T) {
	doc := &types.Document{
		Title: "Paper",
		Blocks: []types.Block{
			types.Heading{Level: 2, Text: "Methods"},
			types.Paragraph{Runs: []types.InlineRun{
				types.Text{Text: "We use "},
				types.Bold{Text: "bold"},
				types.Text{Text: " and "},
				types.Italic{Text: "italic"},
				types.Text{Text: " text with "},
				types.InlineMath{LaTeX: "O(n)"},
				types.Text{Text: " cost; see "},
				types.Link{Text: "the site", URL: "https://example.org"},
				types.Text{Text: "."},
			}},
			figWithFile("Fig 2", "cd34.png"),
		},
	}

	first, _ := Render(doc)
	second, _ := Render(doc)
	if first != second {
		t.Error("Render is not deterministic across calls")
	}
	if !strings.Contains(first, "**bold**") || !strings.Contains(first, "*italic*") {
		t.Errorf("styled runs missing from output:\n%s", first)
	}
	if !strings.Contains(first, "$O(n)$") {
		t.Errorf("inline math missing from output:\n%s", first)
	}
	if !strings.Contains(first, "[the site](https://example.org)") {
		t.Errorf("link missing from output:\n%s", first)
	}
}

func TestRenderPreservesFigureOrder(t *testing.T) {
	doc := &types.Document{
		Blocks: []types.Block{
			types.Paragraph{Runs: []types.InlineRun{types.Text{Text: "Before."}}},
			figWithFile("Fig 1", "1111.png"),
			types.Paragraph{Runs: []types.InlineRun{types.Text{Text: "Between."}}},
			figWithFile("Fig 2", "2222.png"),
			types.Paragraph{Runs: []types.InlineRun{types.Text{Text: "After."}}},
		},
	}

	got, images := Render(doc)

	i1 := strings.Index(got, "1111.png")
	iBetween := strings.Index(got, "Between.")
	i2 := strings.Index(got, "2222.png")
	if !(i1 < iBetween && iBetween < i2) {
		t.Errorf("figure placement not preserved:\n%s", got)
	}
	if len(images) != 2 || images[0] != "1111.png" || images[1] != "2222.png" {
		t.Errorf("images = %v, want [1111.png 2222.png]", images)
	}
}

func TestRenderDedupsImageList(t *testing.T) {
	doc := &types.Document{
		Blocks: []types.Block{
			figWithFile("Fig 1", "same.png"),
			figWithFile("Fig 2", "same.png"),
		},
	}
	_, images := Render(doc)
	if len(images) != 1 {
		t.Errorf("images = %v, want one entry", images)
	}
}

func TestRenderFailedImagePlaceholder(t *testing.T) {
	doc := &types.Document{
		Blocks: []types.Block{
			types.Figure{Caption: "Fig 1", Image: &types.ImageRef{RemoteURL: "https://example.org/x.png"}},
			types.Paragraph{Runs: []types.InlineRun{types.Text{Text: "Still here."}}},
		},
	}

	got, images := Render(doc)
	want := "*[image unavailable]*\n*Fig 1*\n\nStill here.\n"
	if got != want {
		t.Errorf("Render = %q, want %q", got, want)
	}
	if len(images) != 0 {
		t.Errorf("images = %v, want none", images)
	}
}

func TestRenderFigureWithoutCaption(t *testing.T) {
	got, _ := Render(&types.Document{Blocks: []types.Block{figWithFile("", "x.png")}})
	want := "![](images/x.png)\n"
	if got != want {
		t.Errorf("Render = %q, want %q", got, want)
	}
}

func TestRenderCaptionAbove(t *testing.T) {
	fig := figWithFile("Table 1 data", "t1.png")
	fig.CaptionPosition = types.CaptionAbove
	got, _ := Render(&types.Document{Blocks: []types.Block{fig}})
	want := "*Table 1 data*\n![Table 1 data](images/t1.png)\n"
	if got != want {
		t.Errorf("Render = %q, want %q", got, want)
	}
}

func TestRenderLists(t *testing.T) {
	para := func(s string) []types.Block {
		return []types.Block{types.Paragraph{Runs: []types.InlineRun{types.Text{Text: s}}}}
	}

	nested := types.List{Ordered: false, Items: [][]types.Block{para("inner one"), para("inner two")}}
	outer := types.List{Ordered: true, Items: [][]types.Block{
		para("first"),
		{types.Paragraph{Runs: []types.InlineRun{types.Text{Text: "second"}}}, nested},
		para("third"),
	}}

	got, _ := Render(&types.Document{Blocks: []types.Block{outer}})
	want := strings.Join([]string{
		"1. first",
		"2. second",
		"  - inner one",
		"  - inner two",
		"3. third",
	}, "\n") + "\n"
	if got != want {
		t.Errorf("Render = %q, want %q", got, want)
	}
}

func TestRenderTable(t *testing.T) {
	tbl := types.Table{Rows: [][]string{
		{"Name", "Value"},
		{"alpha", "1"},
		{"beta | gamma", "2"},
	}}

	got, _ := Render(&types.Document{Blocks: []types.Block{tbl}})
	want := strings.Join([]string{
		"| Name | Value |",
		"| --- | --- |",
		"| alpha | 1 |",
		`| beta \| gamma | 2 |`,
	}, "\n") + "\n"
	if got != want {
		t.Errorf("Render = %q, want %q", got, want)
	}
}

func TestRenderMathBlock(t *testing.T) {
	got, _ := Render(&types.Document{Blocks: []types.Block{types.MathBlock{LaTeX: `E = mc^2`}}})
	want := "$$\nE = mc^2\n$$\n"
	if got != want {
		t.Errorf("Render = %q, want %q", got, want)
	}
}

func TestRenderEmptyDocument(t *testing.T) {
	got, images := Render(&types.Document{Title: "Empty"})
	if got != "" {
		t.Errorf("Render = %q, want empty", got)
	}
	if len(images) != 0 {
		t.Errorf("images = %v, want none", images)
	}
}

func TestFileName(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"plain", "A Study of Systems", "A Study of Systems.md"},
		{"punctuation replaced", "Paper: A Study?", "Paper_ A Study_.md"},
		{"slashes replaced", "a/b\\c", "a_b_c.md"},
		{"unicode letters kept", "Größenordnung", "Größenordnung.md"},
		{"empty falls back", "", "paper.md"},
		{"only punctuation trims to underscores", "!!!", "___.md"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FileName(tt.title); got != tt.want {
				t.Errorf("FileName(%q) = %q, want %q", tt.title, got, tt.want)
			}
		})
	}
}

func TestFileNameCapsLength(t *testing.T) {
	long := strings.Repeat("a", 200)
	got := FileName(long)
	if got != strings.Repeat("a", 80)+".md" {
		t.Errorf("FileName(long) = %q (len %d)", got, len(got))
	}
}
