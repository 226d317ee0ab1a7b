package figma

import (
	"bytes"
	"encoding/json"
	"sort"

	"github.com/cockroachdb/errors"
)

// NodesResponse represents the response from the Figma nodes API endpoint when fetching specific nodes.
// It contains file metadata and a map of node IDs to their corresponding NodeData.
// A node the API could not resolve is returned as JSON null and decodes to a nil *NodeData.
type NodesResponse struct {
	Name         string               `json:"name"`
	LastModified string               `json:"lastModified"`
	Version      string               `json:"version"`
	Nodes        map[string]*NodeData `json:"nodes"`
}

// NodeData wraps a node with its document structure and optional component/style information.
// This is the structure returned for each requested node in a NodesResponse.
type NodeData struct {
	Document   *Node                      `json:"document"`
	Components map[string]json.RawMessage `json:"components,omitempty"`
	Styles     map[string]json.RawMessage `json:"styles,omitempty"`
}

// Document returns the requested node document. The literal node id of the
// reference is tried first, then its API (colon) form, and finally the only
// entry of a single-node response.
func (r *NodesResponse) Document(ref Reference) (*Node, error) {
	if r == nil {
		return nil, errors.New("empty nodes response")
	}

	data, ok := r.Nodes[ref.NodeID]
	if !ok {
		data, ok = r.Nodes[ref.APINodeID()]
	}
	if !ok && len(r.Nodes) == 1 {
		for _, only := range r.Nodes {
			data, ok = only, true
		}
	}

	if !ok || data == nil || data.Document == nil {
		return nil, errors.Newf("node %q not found in file %q", ref.NodeID, ref.FileKey)
	}

	return data.Document, nil
}

// Node represents a single element in the Figma document tree hierarchy.
//
// Only the fields the converter consumes are modeled. Every other property
// (styles, fills, absoluteBoundingBox, layout settings...) is kept verbatim in
// Extra so that serializing a node sends the complete payload to the model.
// A decoded node remembers the member order of the received object and
// serializes in that order.
type Node struct {
	ID       string
	Name     string
	Type     string
	Children []Node // nil = no "children" member
	Extra    map[string]json.RawMessage

	members []member // received members, in order
}

type member struct {
	key   string
	value json.RawMessage // compact
}

const (
	keyID       = "id"
	keyName     = "name"
	keyType     = "type"
	keyChildren = "children"
)

func isModeled(key string) bool {
	switch key {
	case keyID, keyName, keyType, keyChildren:
		return true
	}
	return false
}

// UnmarshalJSON decodes the modeled fields and stores the rest in Extra.
func (n *Node) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.Newf("figma node must be a JSON object, got %v", tok)
	}

	var (
		decoded Node
		index   = make(map[string]int)
	)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key := tok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return errors.Wrapf(err, "member %q", key)
		}
		var compact bytes.Buffer
		if err := json.Compact(&compact, raw); err != nil {
			return errors.Wrapf(err, "member %q", key)
		}
		value := json.RawMessage(compact.Bytes())

		if i, dup := index[key]; dup {
			decoded.members[i].value = value
		} else {
			index[key] = len(decoded.members)
			decoded.members = append(decoded.members, member{key: key, value: value})
		}
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	for _, m := range decoded.members {
		var err error
		switch m.key {
		case keyID:
			err = json.Unmarshal(m.value, &decoded.ID)
		case keyName:
			err = json.Unmarshal(m.value, &decoded.Name)
		case keyType:
			err = json.Unmarshal(m.value, &decoded.Type)
		case keyChildren:
			err = json.Unmarshal(m.value, &decoded.Children)
		default:
			if decoded.Extra == nil {
				decoded.Extra = make(map[string]json.RawMessage)
			}
			decoded.Extra[m.key] = m.value
		}
		if err != nil {
			return errors.Wrapf(err, "member %q", m.key)
		}
	}

	*n = decoded
	return nil
}

// MarshalJSON encodes the node back into a single JSON object, Extra included.
//
// Members of a decoded node keep their received order and their received
// text when unchanged. Members that did not exist on decode follow, modeled
// fields first and then Extra in key order.
func (n Node) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	written := make(map[string]bool, len(n.members)+len(n.Extra)+4)

	write := func(key string, value []byte) error {
		if len(written) > 0 {
			buf.WriteByte(',')
		}
		k, err := encode(key)
		if err != nil {
			return err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(value)
		written[key] = true
		return nil
	}

	buf.WriteByte('{')
	for _, m := range n.members {
		value, ok, err := n.memberValue(m)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		if err := write(m.key, value); err != nil {
			return nil, err
		}
	}

	for _, key := range []string{keyID, keyName, keyType, keyChildren} {
		if written[key] {
			continue
		}
		value, ok, err := n.memberValue(member{key: key})
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		if err := write(key, value); err != nil {
			return nil, err
		}
	}

	rest := make([]string, 0, len(n.Extra))
	for k := range n.Extra {
		if !written[k] && !isModeled(k) {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	for _, k := range rest {
		if err := write(k, n.Extra[k]); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// memberValue returns the current JSON text of a member. ok is false when
// the member no longer exists: an Extra key that was removed or children
// that were dropped.
func (n Node) memberValue(m member) (value []byte, ok bool, err error) {
	var current any
	switch m.key {
	case keyID:
		current = n.ID
	case keyName:
		current = n.Name
	case keyType:
		current = n.Type
	case keyChildren:
		if n.Children == nil {
			return nil, false, nil
		}
		value, err = encode(n.Children)
		return value, err == nil, err
	default:
		v, exists := n.Extra[m.key]
		if !exists {
			return nil, false, nil
		}
		return v, true, nil
	}

	if m.value != nil {
		var received string
		if json.Unmarshal(m.value, &received) == nil && received == current {
			return m.value, true, nil
		}
	}
	value, err = encode(current)
	return value, err == nil, err
}

// Serialize returns the compact JSON text of the node and its whole subtree.
// HTML characters are not escaped and received members keep their order
// and text, so the result matches a plain JSON stringification of the
// payload Figma sent.
func (n Node) Serialize() (string, error) {
	b, err := encode(n)
	if err != nil {
		return "", errors.Wrapf(err, "serialize node %q", n.ID)
	}
	return string(b), nil
}

func encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// WithoutChildren returns a copy of the node with its children dropped.
// The receiver and its Extra map are left untouched.
func (n Node) WithoutChildren() Node {
	reduced := n
	reduced.Children = nil
	return reduced
}

// HasChildren reports whether the node has at least one child.
func (n Node) HasChildren() bool {
	return len(n.Children) > 0
}

// Validate checks the fields every node must carry, recursively.
func (n Node) Validate() error {
	if n.ID == "" {
		return errors.Newf("node %q has no id", n.Name)
	}
	if n.Type == "" {
		return errors.Newf("node %q has no type", n.ID)
	}
	for i := range n.Children {
		if err := n.Children[i].Validate(); err != nil {
			return errors.Wrapf(err, "child of %q", n.ID)
		}
	}
	return nil
}

// Walk visits the node and its descendants depth-first, parents before children.
// Returning false from fn skips the node's subtree.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for i := range n.Children {
		n.Children[i].Walk(fn)
	}
}

// Count returns the number of nodes in the subtree rooted at n.
func (n *Node) Count() int {
	count := 0
	n.Walk(func(*Node) bool {
		count++
		return true
	})
	return count
}
