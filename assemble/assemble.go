// Package assemble builds one standalone SVG document per rendered page.
package assemble

import (
	"context"
	"fmt"

	"github.com/wudi/infosvg/observability"
	"github.com/wudi/infosvg/recovery"
	"github.com/wudi/infosvg/style"
	"github.com/wudi/infosvg/svg"
	"github.com/wudi/infosvg/textfrag"
	"github.com/wudi/infosvg/transcribe"
	"github.com/wudi/infosvg/visual"
)

// A4 defaults, used when a page does not declare its own size.
const (
	DefaultWidthMM  = 210
	DefaultHeightMM = 297
	DefaultWidth    = 793.8
	DefaultHeight   = 1122.66
)

const (
	// MontserratImport is the web font referenced by default.
	MontserratImport = "https://fonts.googleapis.com/css2?family=Montserrat:wght@400;700;800;900&display=swap"
	defaultFamily    = "'Montserrat', sans-serif"
)

// Assembler turns the pages of a visual source into documents.
type Assembler struct {
	source visual.Source

	measurer   textfrag.Measurer
	resolver   style.Resolver
	recovery   recovery.Strategy
	logger     observability.Logger
	tracer     observability.Tracer
	extra      []transcribe.Option
	fontImport string
	family     string
	widthMM    float64
	heightMM   float64
	background string
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithMeasurer sets the text measurement backend.
func WithMeasurer(m textfrag.Measurer) Option {
	return func(a *Assembler) { a.measurer = m }
}

// WithResolver sets the style resolver.
func WithResolver(r style.Resolver) Option {
	return func(a *Assembler) { a.resolver = r }
}

// WithRecovery sets the degradation policy.
func WithRecovery(s recovery.Strategy) Option {
	return func(a *Assembler) { a.recovery = s }
}

// WithLogger sets the logger.
func WithLogger(l observability.Logger) Option {
	return func(a *Assembler) { a.logger = l }
}

// WithTracer sets the tracer.
func WithTracer(t observability.Tracer) Option {
	return func(a *Assembler) { a.tracer = t }
}

// WithFontImport sets the web font stylesheet imported by every document.
// An empty url disables the import.
func WithFontImport(url string) Option {
	return func(a *Assembler) { a.fontImport = url }
}

// WithDefaultFontFamily sets the font-family rule applied to text. An empty
// family disables the rule.
func WithDefaultFontFamily(family string) Option {
	return func(a *Assembler) { a.family = family }
}

// WithPhysicalSize sets the page size in millimeters.
func WithPhysicalSize(widthMM, heightMM float64) Option {
	return func(a *Assembler) {
		if widthMM > 0 && heightMM > 0 {
			a.widthMM, a.heightMM = widthMM, heightMM
		}
	}
}

// WithPageBackground sets the fill of the full-bleed page rect.
func WithPageBackground(color string) Option {
	return func(a *Assembler) { a.background = color }
}

// WithTranscribeOptions passes extra options to every transcription pass.
func WithTranscribeOptions(opts ...transcribe.Option) Option {
	return func(a *Assembler) { a.extra = append(a.extra, opts...) }
}

// New returns an assembler reading pages from src.
func New(src visual.Source, opts ...Option) *Assembler {
	a := &Assembler{
		source:     src,
		measurer:   textfrag.GlyphMeasurer{},
		resolver:   style.NewComputedResolver(),
		recovery:   recovery.NewLenientStrategy(),
		logger:     observability.NopLogger{},
		tracer:     observability.NopTracer(),
		fontImport: MontserratImport,
		family:     defaultFamily,
		widthMM:    DefaultWidthMM,
		heightMM:   DefaultHeightMM,
		background: "#ffffff",
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Source returns the visual source pages are read from.
func (a *Assembler) Source() visual.Source { return a.source }

// Assemble builds the document of one page. It returns nil and no error
// when the page is not rendered. Degraded nodes are reported to the
// recovery strategy; an error is returned only when it asks to fail or ctx
// is done.
func (a *Assembler) Assemble(ctx context.Context, pageID string) (*svg.Document, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, span := a.tracer.StartSpan(ctx, observability.SpanAssemblePage)
	defer span.Finish()
	span.SetTag("page", pageID)

	if a.source == nil {
		return nil, nil
	}
	page := a.source.Page(pageID)
	if page == nil {
		a.logger.Debug("page not rendered", observability.String("page", pageID))
		return nil, nil
	}

	opts := append([]transcribe.Option{
		transcribe.WithMeasurer(a.measurer),
		transcribe.WithResolver(a.resolver),
		transcribe.WithRecovery(a.recovery),
		transcribe.WithLogger(a.logger),
	}, a.extra...)
	tc := transcribe.NewContext(ctx, page, a.source.Scale(), opts...)

	width, height := page.Width, page.Height
	if width <= 0 || height <= 0 {
		width, height = DefaultWidth, DefaultHeight
	}
	body := []*svg.Element{svg.Rect(0, 0, width, height, svg.Str("fill", a.background))}

	for i, block := range page.Blocks {
		if err := ctx.Err(); err != nil {
			span.SetError(err)
			return nil, err
		}
		els, err := tc.Box(block)
		if err != nil {
			span.SetError(err)
			return nil, fmt.Errorf("assemble: page %q block %d: %w", pageID, i, err)
		}
		body = append(body, els...)

		for _, g := range freeGraphics(tc, block) {
			el, err := tc.Graphic(g)
			if err != nil {
				span.SetError(err)
				return nil, fmt.Errorf("assemble: page %q block %d: %w", pageID, i, err)
			}
			if el != nil {
				body = append(body, el)
			}
		}
	}

	doc := &svg.Document{
		Width:    width,
		Height:   height,
		WidthMM:  a.widthMM,
		HeightMM: a.heightMM,
		Styles:   a.styles(),
		Defs:     tc.Paints().Elements(),
		Body:     body,
	}
	a.logger.Debug("page assembled",
		observability.String("page", pageID),
		observability.Int("primitives", len(body)),
		observability.Int("definitions", len(doc.Defs)),
	)
	return doc, nil
}

func (a *Assembler) styles() []string {
	var out []string
	if a.fontImport != "" {
		out = append(out, "@import url('"+a.fontImport+"');")
	}
	if a.family != "" {
		out = append(out, "text{font-family:"+a.family+";}")
	}
	return out
}

// freeGraphics returns the graphics under block that box transcription
// did not reach: those below an excluded ancestor that are force-included
// themselves. Graphics under invisible ancestors stay hidden.
func freeGraphics(tc *transcribe.Context, block visual.Node) []*visual.Graphic {
	var found []*visual.Graphic
	visual.Walk(block, func(n visual.Node, ancestors []visual.Node) bool {
		g, ok := n.(*visual.Graphic)
		if !ok {
			return true
		}
		if tc.Consumed(g) || g.SkippedForExport() {
			return false
		}
		for _, anc := range ancestors {
			base := anc.Base()
			if base.SkippedForExport() && !g.ForceInclude {
				return false
			}
			if base.Detached || !tc.Resolver().Resolve(anc).Visible {
				return false
			}
		}
		found = append(found, g)
		return false
	})
	return found
}
