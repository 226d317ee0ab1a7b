// Package figmamarkup converts a node of a Figma design into HTML and CSS
// generated by a large language model.
//
// The pipeline parses a Figma share URL into a file key and node id, fetches
// the node subtree from the Figma "file nodes" endpoint and hands it to a
// [markup.Converter], which serializes the node into a prompt and extracts the
// <html-block> and <css-block> sections from the model response. Nodes whose
// JSON is too large for one prompt have their children converted first, in
// parallel, and the parent is then sent without its children.
//
// The CLI lives in cmd/figma-markup; this root package exposes the same
// pipeline as a Go API.
//
// # Import
//
// The module path contains a hyphen but Go package names cannot, so the
// package is named figmamarkup:
//
//	import "github.com/kataras/figma-markup" // package figmamarkup
//
// # Quick start
//
//	gen, err := llm.NewGenAI(ctx, llm.Config{APIKey: os.Getenv("GEMINI_API_KEY")})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := figmamarkup.Run(ctx, figmamarkup.Options{
//	    URL:        "https://www.figma.com/design/ABC123/My-Design?node-id=1-2",
//	    FigmaToken: os.Getenv("FIGMA_TOKEN"),
//	    Generator:  gen,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("index.html", []byte(result.Markup.HTML), 0644)
//
// # Logging
//
// Pass a [Logger] implementation in [Options.Logger] to receive progress
// messages. A nil Logger silences all output. A *zap.SugaredLogger can be
// passed as is.
//
// # Large nodes
//
// [Options.Threshold] sets the serialized size, in characters, above which a
// node is split (50,000 by default). The split is a single level per node:
// a leaf larger than the threshold is still sent in one call. Children are
// converted concurrently without a bound unless [Options.MaxConcurrent] is set.
package figmamarkup
