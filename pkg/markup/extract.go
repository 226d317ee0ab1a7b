// Package markup converts Figma node trees into HTML and CSS with a text-generation model.
package markup

import (
	"regexp"
	"strings"
)

var (
	htmlBlock = regexp.MustCompile(`(?s)<html-block>(.*?)</html-block>`)
	cssBlock  = regexp.MustCompile(`(?s)<css-block>(.*?)</css-block>`)
)

// Markup is the generated HTML and CSS for one node.
type Markup struct {
	HTML string `json:"html"`
	CSS  string `json:"css"`
}

// Extract pulls the first html-block and css-block sections out of a model
// response. A missing section yields an empty string.
func Extract(response string) Markup {
	return Markup{
		HTML: firstBlock(htmlBlock, response),
		CSS:  firstBlock(cssBlock, response),
	}
}

func firstBlock(re *regexp.Regexp, s string) string {
	m := re.FindStringSubmatch(s)
	if len(m) < 2 {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// Join concatenates sibling markup in order, newline separated.
func Join(parts []Markup) Markup {
	htmls := make([]string, len(parts))
	csss := make([]string, len(parts))
	for i, p := range parts {
		htmls[i] = p.HTML
		csss[i] = p.CSS
	}
	return Markup{
		HTML: strings.Join(htmls, "\n"),
		CSS:  strings.Join(csss, "\n"),
	}
}
