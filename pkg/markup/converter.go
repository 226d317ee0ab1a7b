package markup

import (
	"context"
	"sync/atomic"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/kataras/figma-markup/pkg/figma"
	"github.com/kataras/figma-markup/pkg/llm"
	"github.com/kataras/figma-markup/pkg/prompt"
)

// DefaultThreshold is the serialized node size, in characters, above which
// children are converted separately before their parent.
const DefaultThreshold = 50000

// Logger receives debug traces of the conversion. A nil Logger is silent.
type Logger interface {
	Debugf(format string, args ...any)
}

// Converter renders Figma nodes into markup.
type Converter struct {
	generator    llm.Generator
	systemPrompt string
	threshold    int
	logger       Logger
	sem          *semaphore.Weighted // nil = unbounded
	calls        atomic.Int64
}

// Option configures a Converter.
type Option func(*Converter)

// WithSystemPrompt sets the system prompt sent with every generation call.
func WithSystemPrompt(text string) Option {
	return func(c *Converter) { c.systemPrompt = text }
}

// WithThreshold overrides DefaultThreshold. Values <= 0 are ignored.
func WithThreshold(chars int) Option {
	return func(c *Converter) {
		if chars > 0 {
			c.threshold = chars
		}
	}
}

// WithMaxConcurrent bounds the number of generation calls in flight.
// Zero or a negative value leaves them unbounded.
func WithMaxConcurrent(n int) Option {
	return func(c *Converter) {
		if n > 0 {
			c.sem = semaphore.NewWeighted(int64(n))
		}
	}
}

// WithLogger sets the debug logger.
func WithLogger(l Logger) Option {
	return func(c *Converter) { c.logger = l }
}

// NewConverter returns a Converter that calls gen once per rendered node.
func NewConverter(gen llm.Generator, opts ...Option) *Converter {
	c := &Converter{
		generator: gen,
		threshold: DefaultThreshold,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Calls returns the number of generation calls issued so far.
func (c *Converter) Calls() int64 {
	return c.calls.Load()
}

// Render converts node into markup.
//
// A node whose serialized form fits the threshold, or that has no children,
// is sent whole in a single call. Otherwise each immediate child is rendered
// concurrently first and the parent is sent without its children, together
// with the children's markup joined in original order. The first failing
// child fails the whole render. node itself is never modified.
func (c *Converter) Render(ctx context.Context, node figma.Node) (Markup, error) {
	text, err := node.Serialize()
	if err != nil {
		return Markup{}, err
	}

	var children Markup
	size := utf8.RuneCountInString(text)

	if node.HasChildren() && size > c.threshold {
		c.debugf("node %s (%s) is %d chars, splitting into %d children", node.ID, node.Name, size, len(node.Children))

		children, err = c.renderChildren(ctx, node.Children)
		if err != nil {
			return Markup{}, errors.Wrapf(err, "render children of %q", node.ID)
		}

		node = node.WithoutChildren()
		if text, err = node.Serialize(); err != nil {
			return Markup{}, err
		}
	}

	response, err := c.generate(ctx, prompt.Build(children.HTML, children.CSS, text))
	if err != nil {
		return Markup{}, errors.Wrapf(err, "generate markup for %q", node.ID)
	}

	return Extract(response), nil
}

func (c *Converter) renderChildren(ctx context.Context, children []figma.Node) (Markup, error) {
	results := make([]Markup, len(children))

	g, gctx := errgroup.WithContext(ctx)
	for i := range children {
		g.Go(func() error {
			m, err := c.Render(gctx, children[i])
			if err != nil {
				return err
			}
			results[i] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Markup{}, err
	}

	return Join(results), nil
}

func (c *Converter) generate(ctx context.Context, userPrompt string) (string, error) {
	if c.sem != nil {
		if err := c.sem.Acquire(ctx, 1); err != nil {
			return "", err
		}
		defer c.sem.Release(1)
	}

	c.calls.Add(1)
	return c.generator.Generate(ctx, c.systemPrompt, userPrompt)
}

func (c *Converter) debugf(format string, args ...any) {
	if c.logger != nil {
		c.logger.Debugf(format, args...)
	}
}
