package figmamarkup

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/kataras/figma-markup/pkg/figma"
	"github.com/kataras/figma-markup/pkg/llm"
	"github.com/kataras/figma-markup/pkg/markup"
	"github.com/kataras/figma-markup/pkg/prompt"
)

// Options configures a conversion.
type Options struct {
	URL           string        // Figma design URL with a node-id parameter
	FigmaToken    string        // used when Figma is nil
	Figma         *figma.Client // nil = figma.NewClient(FigmaToken)
	Generator     llm.Generator // required
	SystemPrompt  string        // empty = built-in "figma" prompt
	Threshold     int           // 0 = markup.DefaultThreshold
	MaxConcurrent int           // 0 = unbounded
	Logger        Logger        // nil = no logging
}

// Logger receives progress messages. A nil Logger means silent operation.
// *zap.SugaredLogger satisfies it.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// Result contains the conversion output.
type Result struct {
	RunID     string
	Reference figma.Reference
	FileName  string      // Figma file name
	Node      *figma.Node // the fetched root node
	Markup    markup.Markup
	Calls     int64 // generation calls issued
}

func (o *Options) logInfo(f string, a ...any) {
	if o.Logger != nil {
		o.Logger.Infof(f, a...)
	}
}

func (o *Options) logError(f string, a ...any) {
	if o.Logger != nil {
		o.Logger.Errorf(f, a...)
	}
}

// Run parses the URL, fetches the referenced node and converts it into markup.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.Generator == nil {
		return nil, errors.New("a generator is required")
	}

	// Apply defaults.
	if opts.SystemPrompt == "" {
		text, err := prompt.NewLibrary().Get(prompt.DefaultName)
		if err != nil {
			return nil, err
		}
		opts.SystemPrompt = text
	}
	if opts.Figma == nil {
		if opts.FigmaToken == "" {
			return nil, errors.WithHint(errors.New("a Figma access token is required"),
				"create a personal access token in Figma settings")
		}
		opts.Figma = figma.NewClient(opts.FigmaToken)
	}

	runID := uuid.NewString()

	opts.logInfo("[%s] Extracting file key and node id from URL...", runID)
	ref, err := figma.ReferenceFromURL(opts.URL)
	if err != nil {
		opts.logError("[%s] %v", runID, err)
		return nil, err
	}
	opts.logInfo("[%s] File key: %s, node: %s", runID, ref.FileKey, ref.NodeID)

	opts.logInfo("[%s] Fetching nodes from Figma...", runID)
	nodesResp, err := opts.Figma.GetFileNodes(ctx, ref.FileKey, ref.NodeID)
	if err != nil {
		opts.logError("[%s] Error getting Figma response from url: %v", runID, err)
		return nil, errors.Wrap(err, "fetch nodes")
	}

	node, err := nodesResp.Document(ref)
	if err != nil {
		return nil, err
	}
	opts.logInfo("[%s] Retrieved %q (%s) with %d node(s)", runID, node.Name, node.Type, node.Count())

	converter := markup.NewConverter(opts.Generator,
		markup.WithSystemPrompt(opts.SystemPrompt),
		markup.WithThreshold(opts.Threshold),
		markup.WithMaxConcurrent(opts.MaxConcurrent),
		markup.WithLogger(opts.Logger),
	)

	opts.logInfo("[%s] Generating markup...", runID)
	m, err := converter.Render(ctx, *node)
	if err != nil {
		return nil, errors.Wrap(err, "render node")
	}
	opts.logInfo("[%s] Generated markup with %d model call(s)", runID, converter.Calls())

	return &Result{
		RunID:     runID,
		Reference: ref,
		FileName:  nodesResp.Name,
		Node:      node,
		Markup:    m,
		Calls:     converter.Calls(),
	}, nil
}
