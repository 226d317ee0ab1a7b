// Package formatter writes conversion results as files: a standalone HTML
// document and a markdown report.
package formatter

import (
	"bytes"
	"strings"

	"github.com/cockroachdb/errors"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/kataras/figma-markup/pkg/markup"
)

const skeleton = `<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1"></head><body></body></html>`

// ToHTMLDocument places the generated markup into a standalone HTML5
// document: the CSS goes into a <style> element in <head> and the HTML
// fragment is parsed in body context and appended to <body>.
func ToHTMLDocument(m markup.Markup, title string) (string, error) {
	doc, err := html.Parse(strings.NewReader(skeleton))
	if err != nil {
		return "", errors.Wrap(err, "parse document skeleton")
	}

	head := findElement(doc, atom.Head)
	body := findElement(doc, atom.Body)
	if head == nil || body == nil {
		return "", errors.New("document skeleton has no head or body")
	}

	if title != "" {
		t := element(atom.Title)
		t.AppendChild(&html.Node{Type: html.TextNode, Data: title})
		head.AppendChild(t)
	}

	if css := strings.TrimSpace(m.CSS); css != "" {
		style := element(atom.Style)
		style.AppendChild(&html.Node{Type: html.TextNode, Data: "\n" + css + "\n"})
		head.AppendChild(style)
	}

	nodes, err := html.ParseFragment(strings.NewReader(m.HTML), body)
	if err != nil {
		return "", errors.Wrap(err, "parse generated html")
	}
	for _, n := range nodes {
		body.AppendChild(n)
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return "", errors.Wrap(err, "render document")
	}
	buf.WriteByte('\n')
	return buf.String(), nil
}

func element(a atom.Atom) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
}

func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}
