package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	figmamarkup "github.com/kataras/figma-markup"
	"github.com/kataras/figma-markup/pkg/config"
	"github.com/kataras/figma-markup/pkg/figma"
	"github.com/kataras/figma-markup/pkg/formatter"
	"github.com/kataras/figma-markup/pkg/imager"
	"github.com/kataras/figma-markup/pkg/llm"
	"github.com/kataras/figma-markup/pkg/markup"
	"github.com/kataras/figma-markup/pkg/mcpserver"
	"github.com/kataras/figma-markup/pkg/prompt"

	"github.com/cockroachdb/errors"
	"github.com/fatih/color"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const version = figma.Version

var (
	figmaURL   string
	configPath string
	httpAddr   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "figma-markup",
		Short:        "Generate HTML and CSS from a Figma design node",
		Long:         "A tool that fetches a node from the Figma API and asks a language model to turn it into HTML and CSS",
		RunE:         run,
		SilenceUsage: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "", "Config file (yaml, toml or json)")
	pf.StringP("token", "t", "", "Figma Personal Access Token")
	pf.String("api-key", "", "Gemini API key")
	pf.String("model", llm.DefaultModel, "Gemini model")
	pf.String("prompt", prompt.DefaultName, "System prompt from the prompt library")
	pf.String("prompt-file", "", "YAML file with additional prompts")
	pf.Int("threshold", markup.DefaultThreshold, "Serialized node size (characters) above which children are converted separately")
	pf.Int("max-concurrent", 0, "Maximum model calls in flight (0 = unbounded)")
	pf.Bool("log-json", false, "Structured JSON logs instead of colored output")
	pf.Bool("verbose", false, "Print debug messages")

	rootCmd.Flags().StringVarP(&figmaURL, "url", "u", "", "Figma design URL with a node-id parameter (required)")
	rootCmd.Flags().StringP("out", "o", "figma-markup", "Output directory")
	rootCmd.Flags().Bool("render", false, "Also export Figma renders of the node and its children for comparison")
	rootCmd.Flags().String("image-format", "png", "Render format: png, svg, jpg, pdf")
	rootCmd.Flags().Float64("image-scale", 1, "Render scale factor")
	rootCmd.MarkFlagRequired("url")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("figma-markup version %s\n", version)
		},
	}

	promptsCmd := &cobra.Command{
		Use:   "prompts",
		Short: "List the available system prompts",
		RunE:  listPrompts,
	}

	mcpCmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve the conversion as an MCP tool",
		RunE:  serveMCP,
	}
	mcpCmd.Flags().StringVar(&httpAddr, "http", "", "HTTP server address (e.g. ':8080'), stdio when empty")

	rootCmd.AddCommand(versionCmd, promptsCmd, mcpCmd)

	if err := rootCmd.Execute(); err != nil {
		color.New(color.FgRed).Printf("Error: %v\n", err)
		for _, hint := range errors.GetAllHints(err) {
			color.New(color.FgYellow).Printf("Hint: %s\n", hint)
		}
		os.Exit(1)
	}
}

// app is everything a conversion needs, resolved from the configuration.
type app struct {
	cfg          *config.Config
	logger       figmamarkup.Logger
	zap          *zap.SugaredLogger
	systemPrompt string
}

func setup(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load(configPath, cmd.Flags())
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, zap: zap.NewNop().Sugar()}
	if cfg.Logging.JSON {
		zcfg := zap.NewProductionConfig()
		if cfg.Logging.Verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		}
		zl, err := zcfg.Build()
		if err != nil {
			return nil, errors.Wrap(err, "create logger")
		}
		a.zap = zl.Sugar()
		a.logger = a.zap
	} else {
		a.logger = &cliLogger{verbose: cfg.Logging.Verbose}
	}

	lib, err := loadLibrary(cfg.Convert.PromptFile)
	if err != nil {
		return nil, err
	}
	if a.systemPrompt, err = lib.Get(cfg.Convert.Prompt); err != nil {
		return nil, err
	}

	return a, nil
}

func loadLibrary(path string) (*prompt.Library, error) {
	if path == "" {
		return prompt.NewLibrary(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open prompt file")
	}
	defer f.Close()
	return prompt.LoadLibrary(f)
}

func (a *app) convert(ctx context.Context, url string) (*figmamarkup.Result, error) {
	if err := a.cfg.Validate(); err != nil {
		return nil, err
	}

	gen, err := llm.NewGenAI(ctx, llm.Config{
		APIKey:      a.cfg.GenAI.APIKey,
		Model:       a.cfg.GenAI.Model,
		Temperature: a.cfg.GenAI.Temperature,
		BaseURL:     a.cfg.GenAI.BaseURL,
		Logger:      a.zap,
	})
	if err != nil {
		return nil, err
	}

	return figmamarkup.Run(ctx, figmamarkup.Options{
		URL:           url,
		FigmaToken:    a.cfg.Figma.Token,
		Generator:     gen,
		SystemPrompt:  a.systemPrompt,
		Threshold:     a.cfg.Convert.Threshold,
		MaxConcurrent: a.cfg.Convert.MaxConcurrent,
		Logger:        a.logger,
	})
}

func run(cmd *cobra.Command, args []string) error {
	green := color.New(color.FgGreen)
	cyan := color.New(color.FgCyan)

	a, err := setup(cmd)
	if err != nil {
		return err
	}

	if !a.cfg.Logging.JSON {
		cyan.Println("\n🎨 Figma Markup Generator")
		cyan.Println("=========================")
		cyan.Println()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := a.convert(ctx, figmaURL)
	if err != nil {
		return err
	}

	outDir := a.cfg.Output.Dir
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return errors.Wrapf(err, "create output directory %q", outDir)
	}

	var renders []string
	if a.cfg.Output.Render {
		renders = exportRenders(ctx, a, result)
	}

	doc, err := formatter.ToHTMLDocument(result.Markup, result.Node.Name)
	if err != nil {
		return err
	}
	report := formatter.ToMarkdown(formatter.Summary{
		FileName: result.FileName,
		URL:      figmaURL,
		RunID:    result.RunID,
		Node:     result.Node,
		Calls:    result.Calls,
		Markup:   result.Markup,
		Renders:  renders,
	})

	files := []struct {
		name    string
		content string
	}{
		{"index.html", doc},
		{"styles.css", result.Markup.CSS + "\n"},
		{"MARKUP.md", report},
	}
	for _, f := range files {
		path := filepath.Join(outDir, f.name)
		if err := os.WriteFile(path, []byte(f.content), 0644); err != nil {
			return errors.Wrapf(err, "write %s", path)
		}
		a.logger.Infof("Wrote %s", path)
	}

	if !a.cfg.Logging.JSON {
		cyan.Println("\n📊 Conversion Summary:")
		fmt.Printf("  • File: %s\n", result.FileName)
		fmt.Printf("  • Node: %s (%s, %d nodes)\n", result.Node.Name, result.Node.Type, result.Node.Count())
		fmt.Printf("  • Model calls: %d\n", result.Calls)
		fmt.Printf("  • HTML: %d bytes, CSS: %d bytes\n", len(result.Markup.HTML), len(result.Markup.CSS))
		if len(renders) > 0 {
			fmt.Printf("  • Figma renders: %d\n", len(renders))
		}
		green.Printf("\n✨ Successfully generated markup in %s\n\n", outDir)
	}
	return nil
}

// exportRenders downloads Figma renders next to the generated files. Failures
// are reported but do not fail the conversion.
func exportRenders(ctx context.Context, a *app, result *figmamarkup.Result) []string {
	const dir = "renders"

	a.logger.Infof("Exporting Figma renders to %s...", filepath.Join(a.cfg.Output.Dir, dir))
	res, err := imager.Export(ctx, figma.NewClient(a.cfg.Figma.Token), result.Reference.FileKey, imager.Targets(result.Node), imager.ExportConfig{
		Format:    a.cfg.Output.ImageFormat,
		Scale:     a.cfg.Output.ImageScale,
		OutputDir: filepath.Join(a.cfg.Output.Dir, dir),
	})
	if err != nil {
		a.logger.Warnf("Render export failed: %v", err)
		return nil
	}
	for _, dlErr := range res.Errors {
		a.logger.Warnf("%v", dlErr)
	}

	renders := make([]string, 0, len(res.Assets))
	for _, asset := range res.Assets {
		renders = append(renders, dir+"/"+asset.FileName)
	}
	return renders
}

func listPrompts(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath, cmd.Flags())
	if err != nil {
		return err
	}
	lib, err := loadLibrary(cfg.Convert.PromptFile)
	if err != nil {
		return err
	}

	bold := color.New(color.Bold)
	for _, p := range lib.List() {
		bold.Printf("%-16s", p.ID)
		fmt.Printf(" %s\n%16s  %s\n", p.Label, "", p.Description)
	}
	return nil
}

func serveMCP(cmd *cobra.Command, args []string) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	// stdout carries the protocol in stdio mode.
	if httpAddr == "" && !a.cfg.Logging.JSON {
		a.logger = &cliLogger{verbose: a.cfg.Logging.Verbose, stderr: true}
	}

	s := mcpserver.NewServer(a.convert)

	if httpAddr != "" {
		a.logger.Infof("Starting MCP server on HTTP address: %s", httpAddr)
		return server.NewStreamableHTTPServer(s).Start(httpAddr)
	}

	a.logger.Infof("Starting MCP server in stdio mode...")
	return server.ServeStdio(s)
}

// cliLogger implements figmamarkup.Logger with colored terminal output.
type cliLogger struct {
	verbose bool
	stderr  bool
}

func (l *cliLogger) print(c *color.Color, format string, args ...any) {
	if l.stderr {
		c.Fprintf(os.Stderr, format+"\n", args...)
		return
	}
	c.Printf(format+"\n", args...)
}

func (l *cliLogger) Debugf(format string, args ...any) {
	if l.verbose {
		l.print(color.New(color.Faint), format, args...)
	}
}

func (l *cliLogger) Infof(format string, args ...any) {
	l.print(color.New(color.FgYellow), format, args...)
}

func (l *cliLogger) Warnf(format string, args ...any) {
	l.print(color.New(color.FgYellow), "⚠ "+format, args...)
}

func (l *cliLogger) Errorf(format string, args ...any) {
	l.print(color.New(color.FgRed), "✗ "+format, args...)
}
