// Package transcribe turns visual nodes into SVG primitives: box-model
// subtrees (backgrounds, borders, images, wrapped text) and embedded
// vector graphics rewritten into document space.
package transcribe

import (
	"context"
	"errors"
	"fmt"

	"github.com/wudi/infosvg/coords"
	"github.com/wudi/infosvg/observability"
	"github.com/wudi/infosvg/recovery"
	"github.com/wudi/infosvg/resources"
	"github.com/wudi/infosvg/style"
	"github.com/wudi/infosvg/textfrag"
	"github.com/wudi/infosvg/visual"
)

// ErrDegraded wraps every degradation the recovery strategy chose to fail on.
var ErrDegraded = errors.New("degraded node")

// Degradations reported to the recovery strategy.
var (
	ErrDetached       = errors.New("node has no style or geometry")
	ErrGradientStops  = errors.New("gradient has fewer than 2 stops")
	ErrInvalidViewBox = errors.New("missing or zero-width viewBox")
	ErrNoImageSource  = errors.New("image has no source")
	ErrDefinitionID   = errors.New("definition id is taken by a different paint")
)

// Context carries the state shared by one transcription pass over a page.
type Context struct {
	ctx      context.Context
	page     string
	mapper   coords.Mapper
	paints   *resources.Accumulator
	measurer textfrag.Measurer
	resolver style.Resolver
	recovery recovery.Strategy
	logger   observability.Logger

	viewportStyleLengths bool
	consumed             map[*visual.Graphic]bool
}

// Option configures a Context.
type Option func(*Context)

// WithMeasurer sets the text measurement backend.
func WithMeasurer(m textfrag.Measurer) Option {
	return func(c *Context) { c.measurer = m }
}

// WithResolver sets the style resolver.
func WithResolver(r style.Resolver) Option {
	return func(c *Context) { c.resolver = r }
}

// WithRecovery sets the strategy consulted on every degradation.
func WithRecovery(s recovery.Strategy) Option {
	return func(c *Context) { c.recovery = s }
}

// WithLogger sets the logger.
func WithLogger(l observability.Logger) Option {
	return func(c *Context) { c.logger = l }
}

// WithPaints shares an accumulator instead of allocating a fresh one.
func WithPaints(acc *resources.Accumulator) Option {
	return func(c *Context) { c.paints = acc }
}

// WithViewportStyleLengths declares that style lengths (font size, border
// and stroke widths, letter spacing) were captured in viewport pixels and
// must be divided by the view scale like geometry.
func WithViewportStyleLengths() Option {
	return func(c *Context) { c.viewportStyleLengths = true }
}

// NewContext returns a context mapping the given page at the view scale.
func NewContext(ctx context.Context, page *visual.Page, scale float64, opts ...Option) *Context {
	if ctx == nil {
		ctx = context.Background()
	}
	c := &Context{
		ctx:      ctx,
		measurer: textfrag.GlyphMeasurer{},
		resolver: style.NewComputedResolver(),
		recovery: recovery.NewLenientStrategy(),
		logger:   observability.NopLogger{},
		consumed: make(map[*visual.Graphic]bool),
	}
	if page != nil {
		c.page = page.ID
		c.mapper = coords.NewMapper(page.Origin, scale)
	} else {
		c.mapper = coords.NewMapper(visual.Point{}, scale)
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.paints == nil {
		c.paints = resources.NewAccumulator()
	}
	return c
}

// Paints returns the accumulator definitions are hoisted into.
func (c *Context) Paints() *resources.Accumulator { return c.paints }

// Mapper returns the geometry mapper of the page.
func (c *Context) Mapper() coords.Mapper { return c.mapper }

// Resolver returns the style resolver.
func (c *Context) Resolver() style.Resolver { return c.resolver }

// Consumed reports whether g was already transcribed in this pass.
func (c *Context) Consumed(g *visual.Graphic) bool { return c.consumed[g] }

// styleLength converts a computed-style length into document units.
func (c *Context) styleLength(v float64) float64 {
	if c.viewportStyleLengths {
		return c.mapper.Length(v)
	}
	return v
}

// degrade reports a locally recovered fault. It returns a non-nil error
// only when the strategy asks to fail.
func (c *Context) degrade(component string, n visual.Node, err error) error {
	loc := recovery.Location{Component: component, Page: c.page, Node: describe(n)}
	if c.recovery.OnError(c.ctx, err, loc) == recovery.ActionFail {
		return fmt.Errorf("transcribe: %s %s: %w: %w", component, loc.Node, ErrDegraded, err)
	}
	c.logger.Debug("degraded node",
		observability.String("component", component),
		observability.String("page", c.page),
		observability.String("node", loc.Node),
		observability.Error("error", err),
	)
	return nil
}

func describe(n visual.Node) string {
	if n == nil {
		return "<nil>"
	}
	switch v := n.(type) {
	case *visual.Text:
		return "#text"
	case *visual.Graphic:
		if id, ok := v.Attrs.Get("id"); ok {
			return v.Tag + "#" + id
		}
	case *visual.GraphicElement:
		if id, ok := v.Attrs.Get("id"); ok {
			return v.Tag + "#" + id
		}
	}
	return n.Base().Tag
}
