package formatter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kataras/figma-markup/pkg/figma"
	"github.com/kataras/figma-markup/pkg/markup"
)

func TestToHTMLDocument(t *testing.T) {
	m := markup.Markup{
		HTML: `<section class="hero"><h1>Hello &amp; welcome</h1><p>Text</section>`,
		CSS:  ".hero > h1 { color: #333; }",
	}

	doc, err := ToHTMLDocument(m, "Landing <Hero>")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(doc, "<!DOCTYPE html>"))
	assert.Contains(t, doc, "<title>Landing &lt;Hero&gt;</title>")
	// Style contents are raw text and must not be escaped.
	assert.Contains(t, doc, "<style>\n.hero > h1 { color: #333; }\n</style>")
	// The unclosed <p> is repaired by the parser.
	assert.Contains(t, doc, `<body><section class="hero"><h1>Hello &amp; welcome</h1><p>Text</p></section></body>`)
}

func TestToHTMLDocumentEmptyMarkup(t *testing.T) {
	doc, err := ToHTMLDocument(markup.Markup{}, "")
	require.NoError(t, err)

	assert.NotContains(t, doc, "<style>")
	assert.NotContains(t, doc, "<title>")
	assert.Contains(t, doc, "<body></body>")
}

func TestToMarkdown(t *testing.T) {
	node := &figma.Node{
		ID: "1:2", Name: "Card", Type: "FRAME",
		Children: []figma.Node{{ID: "1:3", Name: "Title", Type: "TEXT"}},
	}

	out := ToMarkdown(Summary{
		FileName: "Shop",
		URL:      "https://www.figma.com/design/F/Shop?node-id=1-2",
		Node:     node,
		Calls:    3,
		Markup:   markup.Markup{HTML: "<div></div>"},
		Renders:  []string{"renders/card.png"},
	})

	assert.Contains(t, out, "# Figma Markup - Shop - Card")
	assert.Contains(t, out, "- **Model calls**: 3")
	assert.Contains(t, out, "- **Nodes in subtree**: 2")
	assert.Contains(t, out, "  - **Title** `1:3` (TEXT)")
	assert.Contains(t, out, "```html\n<div></div>\n```")
	assert.Contains(t, out, "## CSS\n\n_No output._")
	assert.Contains(t, out, "![renders/card.png](renders/card.png)")
}

func TestToMarkdownTruncatesDeepTrees(t *testing.T) {
	root := &figma.Node{ID: "0", Name: "L0", Type: "FRAME"}
	cur := root
	for i := 1; i <= 6; i++ {
		cur.Children = []figma.Node{{ID: string(rune('0' + i)), Name: "deep", Type: "FRAME"}}
		cur = &cur.Children[0]
	}

	out := ToMarkdown(Summary{FileName: "F", Node: root})
	assert.Contains(t, out, "... 1 more child node(s)")
}

func TestToKebabCase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Hero Section", "hero-section"},
		{"Primary_Button", "primary-button"},
		{"  Card (Copy) ", "card-copy"},
		{"Ünïcode!", "ncode"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ToKebabCase(tt.in))
		})
	}
}
