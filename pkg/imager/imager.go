// Package imager exports Figma renders of converted nodes so the generated
// markup can be compared against the design.
package imager

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/cockroachdb/errors"
	"golang.org/x/sync/errgroup"

	"github.com/kataras/figma-markup/pkg/figma"
	"github.com/kataras/figma-markup/pkg/formatter"
)

const (
	maxNodesPerRequest   = 100
	maxParallelDownloads = 5
)

var validFormats = map[string]bool{"png": true, "svg": true, "jpg": true, "pdf": true}

// ExportConfig holds configuration for image export.
type ExportConfig struct {
	Format    string  // "png", "svg", "jpg", "pdf"
	Scale     float64 // ignored for svg/pdf
	OutputDir string
}

// Asset is a single downloaded render.
type Asset struct {
	NodeID   string
	NodeName string
	FileName string
}

// Result holds the downloaded renders and the per-image failures that did
// not abort the export.
type Result struct {
	Assets []Asset
	Errors []error
}

// Targets returns the node and its immediate children, the renders worth
// comparing against the generated page and its sections.
func Targets(root *figma.Node) []*figma.Node {
	targets := []*figma.Node{root}
	for i := range root.Children {
		targets = append(targets, &root.Children[i])
	}
	return targets
}

// Validate checks the export configuration.
func (c ExportConfig) Validate() error {
	if !validFormats[c.Format] {
		return errors.Newf("invalid image format %q (must be png, svg, jpg, or pdf)", c.Format)
	}
	if c.Scale <= 0 {
		return errors.Newf("scale value must be positive, got %g", c.Scale)
	}
	return nil
}

// Export renders nodes through the Figma image API and downloads them into
// config.OutputDir. Render API failures abort the export; individual
// download failures are collected in Result.Errors.
func Export(ctx context.Context, client *figma.Client, fileKey string, nodes []*figma.Node, config ExportConfig) (*Result, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.Format == "svg" || config.Format == "pdf" {
		config.Scale = 1
	}
	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return nil, errors.Wrapf(err, "failed to create output directory %q", config.OutputDir)
	}

	names := make(map[string]string, len(nodes))
	ids := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if _, seen := names[n.ID]; seen {
			continue
		}
		names[n.ID] = n.Name
		ids = append(ids, n.ID)
	}

	result := &Result{}
	var mu sync.Mutex
	usedNames := make(map[string]int)

	for start := 0; start < len(ids); start += maxNodesPerRequest {
		batch := ids[start:min(start+maxNodesPerRequest, len(ids))]

		imgResp, err := client.GetImages(ctx, fileKey, batch, config.Format, config.Scale)
		if err != nil {
			return nil, errors.Wrap(err, "failed to get images from Figma API")
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(maxParallelDownloads)

		for _, id := range batch {
			imageURL := imgResp.Images[id]
			if imageURL == "" {
				mu.Lock()
				result.Errors = append(result.Errors, errors.Newf("no image URL returned for node %s", id))
				mu.Unlock()
				continue
			}

			fileName := uniqueName(usedNames, buildFileName(names[id], id, config))

			g.Go(func() error {
				err := download(gctx, client, imageURL, filepath.Join(config.OutputDir, fileName))

				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					result.Errors = append(result.Errors, errors.Wrapf(err, "failed to download %s", names[id]))
					return nil
				}
				result.Assets = append(result.Assets, Asset{NodeID: id, NodeName: names[id], FileName: fileName})
				return nil
			})
		}
		g.Wait()
	}

	sort.Slice(result.Assets, func(i, j int) bool { return result.Assets[i].FileName < result.Assets[j].FileName })
	return result, nil
}

func download(ctx context.Context, client *figma.Client, url, destPath string) error {
	f, err := os.Create(destPath)
	if err != nil {
		return errors.Wrapf(err, "failed to create file %q", destPath)
	}
	defer f.Close()

	if err := client.Download(ctx, url, f); err != nil {
		os.Remove(destPath)
		return err
	}
	return nil
}

// buildFileName creates a sanitized filename from a node name.
// Adds an @2x/@3x suffix for raster scales > 1 and
// falls back to the node ID if the name is empty.
func buildFileName(nodeName, nodeID string, config ExportConfig) string {
	name := formatter.ToKebabCase(nodeName)
	if name == "" {
		name = formatter.ToKebabCase(nodeID)
	}
	if name == "" {
		name = "render"
	}

	scaleSuffix := ""
	if config.Scale > 1 && config.Format != "svg" && config.Format != "pdf" {
		scaleSuffix = fmt.Sprintf("@%gx", config.Scale)
	}

	return fmt.Sprintf("%s%s.%s", name, scaleSuffix, config.Format)
}

func uniqueName(used map[string]int, fileName string) string {
	count, exists := used[fileName]
	used[fileName] = count + 1
	if !exists {
		return fileName
	}
	ext := filepath.Ext(fileName)
	return fmt.Sprintf("%s-%d%s", fileName[:len(fileName)-len(ext)], count+1, ext)
}
