package figma

import (
	"regexp"
	"strings"

	"github.com/cockroachdb/errors"
)

// designURLPattern matches share links of the form
// https://www.figma.com/design/<fileKey>/<name>?node-id=<nodeId>&...
var designURLPattern = regexp.MustCompile(`https://www\.figma\.com/design/([^/]+)/[^?]+\?node-id=([^&]+)&?`)

// Reference addresses a single node inside a Figma file.
type Reference struct {
	FileKey string
	NodeID  string
}

// ParseReference extracts the file key and node id from a Figma design URL.
// The captured substrings are returned as they appear in the URL: URL-encoded
// or dash-separated node ids are not normalized. The boolean is false when
// the URL does not match the expected pattern.
func ParseReference(rawURL string) (Reference, bool) {
	matches := designURLPattern.FindStringSubmatch(rawURL)
	if len(matches) < 3 {
		return Reference{}, false
	}

	return Reference{FileKey: matches[1], NodeID: matches[2]}, true
}

// ReferenceFromURL is like ParseReference but reports a non-matching URL as an error.
func ReferenceFromURL(rawURL string) (Reference, error) {
	ref, ok := ParseReference(rawURL)
	if !ok {
		return Reference{}, errors.WithHint(
			errors.Newf("invalid Figma URL %q", rawURL),
			"expected https://www.figma.com/design/<fileKey>/<name>?node-id=<nodeId>",
		)
	}
	return ref, nil
}

// APINodeID returns the node id in the colon-separated form the Figma API
// uses for the keys of a nodes response (share links use "123-456" for "123:456").
func (r Reference) APINodeID() string {
	id := strings.ReplaceAll(r.NodeID, "%3A", ":")
	id = strings.ReplaceAll(id, "%3a", ":")
	return strings.ReplaceAll(id, "-", ":")
}

func (r Reference) String() string {
	return r.FileKey + "/" + r.NodeID
}
