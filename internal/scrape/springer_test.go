// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scrape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meshintel/paper-scrape/internal/content"
	"github.com/meshintel/paper-scrape/pkg/types"
)

const springerArticleFixture = `<html><body>
<article>
  <h1 class="c-article-title">Mesh Routing in Wireless Networks</h1>
  <div class="c-article-body">
    <section>
      <h2>Abstract</h2>
      <p>We propose a <b>load-aware</b> routing scheme.</p>
      <div class="c-article-section__figure">
        <img src="data:image/gif;base64,R0" data-src="//media.springernature.com/lw685/fig1.png">
        <figcaption><b>Fig. 1</b> Mesh layout</figcaption>
      </div>
      <div class="c-article-equation"><span>$$R = \sum_i r_i$$</span></div>
      <div class="c-article-table">
        <table>
          <tr><th>Hops</th><th>Loss</th></tr>
          <tr><td>3</td><td>0.02</td></tr>
        </table>
      </div>
    </section>
  </div>
</article>
</body></html>`

func TestSpringerExtract(t *testing.T) {
	tree, err := content.ParseString(springerArticleFixture, "https://link.springer.com/article/10.1007/s11276-008-0131-4")
	require.NoError(t, err)

	doc, err := (&springerScraper{}).Extract(tree)
	require.NoError(t, err)

	assert.Equal(t, "Mesh Routing in Wireless Networks", doc.Title)
	require.Len(t, doc.Blocks, 6)

	assert.Equal(t, types.Heading{Level: 1, Text: "Mesh Routing in Wireless Networks"}, doc.Blocks[0])
	assert.Equal(t, types.Heading{Level: 2, Text: "Abstract"}, doc.Blocks[1])
	assert.Equal(t, types.Paragraph{Runs: []types.InlineRun{
		types.Text{Text: "We propose a "},
		types.Bold{Text: "load-aware"},
		types.Text{Text: " routing scheme."},
	}}, doc.Blocks[2])

	fig, ok := doc.Blocks[3].(types.Figure)
	require.True(t, ok)
	assert.Equal(t, "Fig. 1 Mesh layout", fig.Caption)
	assert.Equal(t, types.CaptionBelow, fig.CaptionPosition)
	require.NotNil(t, fig.Image)
	assert.Equal(t, "https://media.springernature.com/lw685/fig1.png", fig.Image.RemoteURL)

	assert.Equal(t, types.MathBlock{LaTeX: `R = \sum_i r_i`}, doc.Blocks[4])
	assert.Equal(t, types.Table{Rows: [][]string{
		{"Hops", "Loss"},
		{"3", "0.02"},
	}}, doc.Blocks[5])
}

func TestSpringerExtractBuyBoxIsAccessDenied(t *testing.T) {
	tree, err := content.ParseString(`<html><body>
<h1 class="c-article-title">Closed Paper</h1>
<div class="c-article-buy-box">Buy article PDF</div>
</body></html>`, "https://link.springer.com/article/10.1007/1")
	require.NoError(t, err)

	_, err = (&springerScraper{}).Extract(tree)
	var denied *AccessDeniedError
	require.ErrorAs(t, err, &denied)
	assert.Equal(t, "SpringerLink", denied.Publisher)
}

func TestSpringerExtractOpenAccessWithBuyBox(t *testing.T) {
	// Open-access pages still advertise the PDF purchase box. The body
	// wins: a buy box next to full text is not a denial.
	tree, err := content.ParseString(`<html><body>
<h1 class="c-article-title">Open Paper</h1>
<div class="c-article-buy-box">Buy article PDF</div>
<div class="c-article-body"><p>Full text here.</p></div>
</body></html>`, "https://link.springer.com/article/10.1007/1")
	require.NoError(t, err)

	doc, err := (&springerScraper{}).Extract(tree)
	require.NoError(t, err)
	require.Len(t, doc.Blocks, 2)
	assert.Equal(t, types.Paragraph{Runs: []types.InlineRun{types.Text{Text: "Full text here."}}}, doc.Blocks[1])
}

func TestSpringerExtractMissingBody(t *testing.T) {
	tree, err := content.ParseString(`<html><body><p>front matter only</p></body></html>`,
		"https://link.springer.com/article/10.1007/1")
	require.NoError(t, err)

	_, err = (&springerScraper{}).Extract(tree)
	var parse *ParseError
	require.ErrorAs(t, err, &parse)
	assert.Equal(t, "springer", parse.Publisher)
	assert.Contains(t, parse.Missing, "c-article-body")
}
