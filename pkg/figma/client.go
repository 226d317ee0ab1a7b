package figma

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

const (
	figmaAPIBase = "https://api.figma.com/v1"

	// Version is the figma-markup release.
	Version = "0.1.0"
)

// maxErrorBody caps how much of a failed response body is kept as error detail.
const maxErrorBody = 4 << 10

// Client represents a Figma API client with configured HTTP settings for communication
// with the Figma API.
type Client struct {
	accessToken string
	baseURL     string
	httpClient  *http.Client
}

// ClientOption customizes a Client.
type ClientOption func(*Client)

// WithBaseURL points the client at a different API root, e.g. a test server.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// NewClient creates a new Figma API client with the provided personal access token.
// The client is configured with pooled connections, disabled HTTP/2 (for large file stability),
// and a 10-minute timeout for very large node trees.
func NewClient(accessToken string, opts ...ClientOption) *Client {
	// Configure transport for better handling of large files
	transport := &http.Transport{
		MaxIdleConns:        10,
		IdleConnTimeout:     90 * time.Second,
		MaxIdleConnsPerHost: 10,
		// Disable HTTP/2 to avoid stream errors with large files
		ForceAttemptHTTP2: false,
	}

	c := &Client{
		accessToken: accessToken,
		baseURL:     figmaAPIBase,
		httpClient: &http.Client{
			Timeout:   10 * time.Minute,
			Transport: transport,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetFileNodes fetches the subtree rooted at nodeID from the file identified by fileKey.
//
// A transport failure and a non-2xx response are reported the same way; the
// error message of the latter carries the HTTP status text and the response
// body is attached as error detail. Requests are never retried.
func (c *Client) GetFileNodes(ctx context.Context, fileKey, nodeID string) (*NodesResponse, error) {
	endpoint := fmt.Sprintf("%s/files/%s/nodes?ids=%s", c.baseURL, url.PathEscape(fileKey), nodeID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}
	req.Header.Set("X-Figma-Token", c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "error fetching Figma nodes")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, errors.WithDetail(
			errors.Newf("error fetching Figma nodes: %s", resp.Status),
			string(body),
		)
	}

	var nodesResp NodesResponse
	if err := json.NewDecoder(resp.Body).Decode(&nodesResp); err != nil {
		return nil, errors.Wrap(err, "failed to parse response")
	}

	for id, data := range nodesResp.Nodes {
		if data == nil || data.Document == nil {
			continue
		}
		if err := data.Document.Validate(); err != nil {
			return nil, errors.Wrapf(err, "invalid document for node %q", id)
		}
	}

	return &nodesResp, nil
}

// ImagesResponse is the response of the image render endpoint: node id to a
// temporary download URL (empty when the node could not be rendered).
type ImagesResponse struct {
	Err    string            `json:"err"`
	Images map[string]string `json:"images"`
}

// GetImages asks Figma to render the given nodes and returns their download URLs.
func (c *Client) GetImages(ctx context.Context, fileKey string, nodeIDs []string, format string, scale float64) (*ImagesResponse, error) {
	q := url.Values{}
	q.Set("ids", strings.Join(nodeIDs, ","))
	q.Set("format", format)
	q.Set("scale", strconv.FormatFloat(scale, 'f', -1, 64))
	endpoint := fmt.Sprintf("%s/images/%s?%s", c.baseURL, url.PathEscape(fileKey), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}
	req.Header.Set("X-Figma-Token", c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "error rendering Figma images")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, errors.WithDetail(
			errors.Newf("error rendering Figma images: %s", resp.Status),
			string(body),
		)
	}

	var imagesResp ImagesResponse
	if err := json.NewDecoder(resp.Body).Decode(&imagesResp); err != nil {
		return nil, errors.Wrap(err, "failed to parse response")
	}
	if imagesResp.Err != "" {
		return nil, errors.Newf("error rendering Figma images: %s", imagesResp.Err)
	}

	return &imagesResp, nil
}

// Download streams a file from a URL returned by GetImages into w.
func (c *Client) Download(ctx context.Context, fileURL string, w io.Writer) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return errors.Wrap(err, "create request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "HTTP GET failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.Newf("unexpected status %s downloading image", resp.Status)
	}

	if _, err := io.Copy(w, resp.Body); err != nil {
		return errors.Wrap(err, "copy image")
	}
	return nil
}
