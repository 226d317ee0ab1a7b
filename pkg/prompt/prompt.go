// Package prompt builds the model prompts used to convert Figma nodes into markup.
package prompt

import (
	"io"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// DefaultName is the library entry used when no prompt is selected.
const DefaultName = "figma"

// Build assembles the user prompt for one node. Child markup sections are
// included only when children were rendered separately.
func Build(childHTML, childCSS, nodeJSON string) string {
	var sb strings.Builder

	if childHTML != "" || childCSS != "" {
		sb.WriteString("The children of this node have already been converted.\n\n")
		sb.WriteString("Children HTML:\n")
		sb.WriteString(childHTML)
		sb.WriteString("\n\nChildren CSS:\n")
		sb.WriteString(childCSS)
		sb.WriteString("\n\n")
	}

	sb.WriteString("Parent node JSON:\n")
	sb.WriteString(nodeJSON)
	sb.WriteString("\n")

	return sb.String()
}

// Entry is a named system prompt.
type Entry struct {
	Label       string `yaml:"label"`
	Description string `yaml:"description"`
	Text        string `yaml:"text"`
}

// Info describes a library entry without its text.
type Info struct {
	ID          string
	Label       string
	Description string
}

// Library holds the available system prompts by id.
type Library struct {
	entries map[string]Entry
}

// NewLibrary returns a library with the built-in prompts.
func NewLibrary() *Library {
	return &Library{
		entries: map[string]Entry{
			DefaultName: {
				Label:       "Figma JSON to HTML/CSS",
				Description: "Generates semantic HTML and scoped CSS from Figma node JSON",
				Text:        figmaHTMLPrompt,
			},
			"figma-angular": {
				Label:       "Figma JSON to Angular template",
				Description: "Generates an Angular-compatible template and component CSS from Figma node JSON",
				Text:        figmaAngularPrompt,
			},
		},
	}
}

// LoadLibrary returns the built-in prompts merged with the entries read from r.
// The YAML document maps prompt ids to entries:
//
//	landing:
//	  label: Landing pages
//	  description: Tailwind flavored output
//	  text: |
//	    You convert Figma JSON ...
func LoadLibrary(r io.Reader) (*Library, error) {
	lib := NewLibrary()

	var extra map[string]Entry
	if err := yaml.NewDecoder(r).Decode(&extra); err != nil {
		if errors.Is(err, io.EOF) {
			return lib, nil
		}
		return nil, errors.Wrap(err, "decode prompt library")
	}

	for id, e := range extra {
		if strings.TrimSpace(e.Text) == "" {
			return nil, errors.Newf("prompt %q has no text", id)
		}
		if e.Label == "" {
			e.Label = id
		}
		lib.entries[id] = e
	}
	return lib, nil
}

// Get returns the text of the prompt with the given id.
func (l *Library) Get(id string) (string, error) {
	e, ok := l.entries[id]
	if !ok {
		return "", errors.Newf("prompt %q not found", id)
	}
	return e.Text, nil
}

// List returns every entry sorted by id.
func (l *Library) List() []Info {
	list := make([]Info, 0, len(l.entries))
	for id, e := range l.entries {
		list = append(list, Info{ID: id, Label: e.Label, Description: e.Description})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}
