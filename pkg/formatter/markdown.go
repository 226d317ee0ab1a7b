package formatter

import (
	"fmt"
	"strings"

	"github.com/kataras/figma-markup/pkg/figma"
	"github.com/kataras/figma-markup/pkg/markup"
)

// maxTreeDepth limits the node outline in the markdown report.
const maxTreeDepth = 4

// Summary is the input of the markdown report.
type Summary struct {
	FileName string
	URL      string
	RunID    string
	Node     *figma.Node
	Calls    int64
	Markup   markup.Markup
	Renders  []string // file names of Figma renders, relative to the report
}

// ToMarkdown renders a conversion summary as a markdown document with the node
// outline and the generated HTML and CSS in fenced code blocks.
func ToMarkdown(s Summary) string {
	var sb strings.Builder

	title := s.FileName
	if s.Node != nil {
		title = fmt.Sprintf("%s - %s", s.FileName, s.Node.Name)
	}
	sb.WriteString(fmt.Sprintf("# Figma Markup - %s\n\n", title))

	if s.URL != "" {
		sb.WriteString(fmt.Sprintf("- **Source**: %s\n", s.URL))
	}
	if s.Node != nil {
		sb.WriteString(fmt.Sprintf("- **Node**: `%s` (%s)\n", s.Node.ID, s.Node.Type))
		sb.WriteString(fmt.Sprintf("- **Nodes in subtree**: %d\n", s.Node.Count()))
	}
	sb.WriteString(fmt.Sprintf("- **Model calls**: %d\n", s.Calls))
	if s.RunID != "" {
		sb.WriteString(fmt.Sprintf("- **Run**: `%s`\n", s.RunID))
	}
	sb.WriteString("\n")

	if s.Node != nil {
		sb.WriteString("## Node Tree\n\n")
		writeTree(&sb, s.Node, 0)
		sb.WriteString("\n")
	}

	if len(s.Renders) > 0 {
		sb.WriteString("## Figma Renders\n\n")
		for _, r := range s.Renders {
			sb.WriteString(fmt.Sprintf("![%s](%s)\n\n", r, r))
		}
	}

	sb.WriteString("## HTML\n\n")
	writeFenced(&sb, "html", s.Markup.HTML)

	sb.WriteString("## CSS\n\n")
	writeFenced(&sb, "css", s.Markup.CSS)

	return sb.String()
}

func writeTree(sb *strings.Builder, n *figma.Node, depth int) {
	sb.WriteString(fmt.Sprintf("%s- **%s** `%s` (%s)\n", strings.Repeat("  ", depth), n.Name, n.ID, n.Type))
	if depth+1 >= maxTreeDepth {
		if len(n.Children) > 0 {
			sb.WriteString(fmt.Sprintf("%s- ... %d more child node(s)\n", strings.Repeat("  ", depth+1), len(n.Children)))
		}
		return
	}
	for i := range n.Children {
		writeTree(sb, &n.Children[i], depth+1)
	}
}

func writeFenced(sb *strings.Builder, lang, body string) {
	if strings.TrimSpace(body) == "" {
		sb.WriteString("_No output._\n\n")
		return
	}
	sb.WriteString("```" + lang + "\n")
	sb.WriteString(body)
	if !strings.HasSuffix(body, "\n") {
		sb.WriteString("\n")
	}
	sb.WriteString("```\n\n")
}

// ToKebabCase converts a string to kebab-case format (lowercase with hyphens).
// This is used for generating output file names from Figma node names.
// Special characters are removed, and spaces/underscores are replaced with hyphens.
func ToKebabCase(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "_", "-")

	// Remove any non-alphanumeric characters except hyphens
	var result strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			result.WriteRune(r)
		}
	}

	return strings.Trim(result.String(), "-")
}
