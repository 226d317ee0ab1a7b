package figma

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
)

func TestParseReference(t *testing.T) {
	tests := []struct {
		name   string
		url    string
		want   Reference
		wantOK bool
	}{
		{
			name:   "design URL with extra parameters",
			url:    "https://www.figma.com/design/abcd1234/MarginX-(Copy)?node-id=node5678&t=sUZvqR7p1bpnF0C5-4",
			want:   Reference{FileKey: "abcd1234", NodeID: "node5678"},
			wantOK: true,
		},
		{
			name:   "node-id as last parameter",
			url:    "https://www.figma.com/design/4gkABR5gEZnIvlCaXmA4KI/Makis-s-file?node-id=11933-305884",
			want:   Reference{FileKey: "4gkABR5gEZnIvlCaXmA4KI", NodeID: "11933-305884"},
			wantOK: true,
		},
		{
			name:   "URL-encoded node id is kept verbatim",
			url:    "https://www.figma.com/design/ABC123/Design?node-id=123%3A456&p=f",
			want:   Reference{FileKey: "ABC123", NodeID: "123%3A456"},
			wantOK: true,
		},
		{
			name:   "legacy /file/ URL",
			url:    "https://figma.com/file/xyz",
			wantOK: false,
		},
		{
			name:   "design URL without node-id",
			url:    "https://www.figma.com/design/ABC123/Design",
			wantOK: false,
		},
		{
			name:   "node-id not the first parameter",
			url:    "https://www.figma.com/design/ABC123/Design?t=abc&node-id=1-2",
			wantOK: false,
		},
		{
			name:   "missing www subdomain",
			url:    "https://figma.com/design/ABC123/Design?node-id=1-2",
			wantOK: false,
		},
		{
			name:   "empty URL",
			url:    "",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseReference(tt.url)
			if ok != tt.wantOK {
				t.Fatalf("ParseReference() ok = %v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("ParseReference() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestReferenceFromURL(t *testing.T) {
	if _, err := ReferenceFromURL("https://figma.com/file/xyz"); err == nil {
		t.Fatal("expected error for non-matching URL")
	} else if !strings.Contains(err.Error(), "https://figma.com/file/xyz") {
		t.Errorf("error %q does not mention the URL", err)
	}

	ref, err := ReferenceFromURL("https://www.figma.com/design/K/N?node-id=1-2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.String() != "K/1-2" {
		t.Errorf("String() = %q", ref.String())
	}
}

func TestAPINodeID(t *testing.T) {
	tests := []struct {
		nodeID string
		want   string
	}{
		{"123-456", "123:456"},
		{"123:456", "123:456"},
		{"123%3A456", "123:456"},
		{"node5678", "node5678"},
	}

	for _, tt := range tests {
		t.Run(tt.nodeID, func(t *testing.T) {
			if got := (Reference{NodeID: tt.nodeID}).APINodeID(); got != tt.want {
				t.Errorf("APINodeID() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGetFileNodes(t *testing.T) {
	const body = `{
		"name": "Landing",
		"version": "42",
		"nodes": {
			"1:2": {"document": {"id": "1:2", "name": "Hero", "type": "FRAME",
				"children": [{"id": "1:3", "name": "Title", "type": "TEXT", "characters": "Hi"}]}},
			"9:9": null
		}
	}`

	var gotPath, gotQuery, gotToken string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("ids")
		gotToken = r.Header.Get("X-Figma-Token")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	defer srv.Close()

	client := NewClient("secret", WithBaseURL(srv.URL))
	resp, err := client.GetFileNodes(context.Background(), "FILE", "1:2")
	if err != nil {
		t.Fatalf("GetFileNodes() error = %v", err)
	}

	if gotPath != "/files/FILE/nodes" {
		t.Errorf("path = %q", gotPath)
	}
	if gotQuery != "1:2" {
		t.Errorf("ids = %q", gotQuery)
	}
	if gotToken != "secret" {
		t.Errorf("X-Figma-Token = %q", gotToken)
	}
	if resp.Name != "Landing" {
		t.Errorf("Name = %q", resp.Name)
	}
	if resp.Nodes["9:9"] != nil {
		t.Errorf("null node should decode to nil")
	}

	doc, err := resp.Document(Reference{FileKey: "FILE", NodeID: "1-2"})
	if err != nil {
		t.Fatalf("Document() error = %v", err)
	}
	if doc.Name != "Hero" || len(doc.Children) != 1 {
		t.Errorf("unexpected document %+v", doc)
	}
	if string(doc.Children[0].Extra["characters"]) != `"Hi"` {
		t.Errorf("extra field not preserved: %v", doc.Children[0].Extra)
	}

	if _, err := resp.Document(Reference{FileKey: "FILE", NodeID: "9:9"}); err == nil {
		t.Errorf("expected error for null node")
	}
}

func TestGetFileNodesStatusError(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   string
	}{
		{"forbidden", http.StatusForbidden, "403 Forbidden"},
		{"not found", http.StatusNotFound, "404 Not Found"},
		{"rate limited", http.StatusTooManyRequests, "429 Too Many Requests"},
		{"server error", http.StatusInternalServerError, "500 Internal Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls++
				http.Error(w, `{"status":`+tt.want[:3]+`,"err":"nope"}`, tt.status)
			}))
			defer srv.Close()

			_, err := NewClient("t", WithBaseURL(srv.URL)).GetFileNodes(context.Background(), "F", "1:2")
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not contain status %q", err, tt.want)
			}
			if details := errors.GetAllDetails(err); len(details) == 0 || !strings.Contains(details[0], "nope") {
				t.Errorf("response body not attached as detail: %v", details)
			}
			if calls != 1 {
				t.Errorf("request issued %d times, want 1", calls)
			}
		})
	}
}

func TestGetFileNodesNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := srv.URL
	srv.Close()

	_, err := NewClient("t", WithBaseURL(baseURL)).GetFileNodes(context.Background(), "F", "1:2")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "error fetching Figma nodes") {
		t.Errorf("unexpected error %q", err)
	}
}

func TestGetFileNodesInvalidDocument(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"nodes": {"1:2": {"document": {"id": "1:2", "type": "FRAME", "children": [{"name": "orphan"}]}}}}`))
	}))
	defer srv.Close()

	_, err := NewClient("t", WithBaseURL(srv.URL)).GetFileNodes(context.Background(), "F", "1:2")
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "orphan") {
		t.Errorf("unexpected error %q", err)
	}
}
