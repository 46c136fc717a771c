package layout

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wudi/infosvg/fonts"
	"github.com/wudi/infosvg/markup"
	"github.com/wudi/infosvg/observability"
	"github.com/wudi/infosvg/project"
	"github.com/wudi/infosvg/visual"
)

// PageGap is the vertical distance between stacked pages, in layout pixels.
const PageGap = 40

// Engine renders report documents into visual trees, the way the editor's
// live view would lay them out.
type Engine struct {
	face   *fonts.Face
	charts ChartRenderer
	logger observability.Logger

	// Configuration
	DefaultFontFamily string
	DefaultFontSize   float64
	LineHeight        float64 // Multiplier, e.g., 1.2

	origin   visual.Point
	scale    float64
	selected string
}

// Option defines a configuration option for the Engine.
type Option func(*Engine)

// WithFace sets the face used to measure and wrap text.
func WithFace(face *fonts.Face) Option {
	return func(e *Engine) {
		e.face = face
	}
}

// WithChartRenderer sets the producer of chart and table blocks.
func WithChartRenderer(r ChartRenderer) Option {
	return func(e *Engine) {
		e.charts = r
	}
}

// WithLogger sets the logger.
func WithLogger(l observability.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithDefaultFontFamily sets the font-family of every text run.
func WithDefaultFontFamily(family string) Option {
	return func(e *Engine) {
		e.DefaultFontFamily = family
	}
}

// WithDefaultFontSize sets the body text size.
func WithDefaultFontSize(size float64) Option {
	return func(e *Engine) {
		e.DefaultFontSize = size
	}
}

// WithLineHeight sets the line height multiplier.
func WithLineHeight(height float64) Option {
	return func(e *Engine) {
		e.LineHeight = height
	}
}

// WithViewport places the first page at origin and zooms the view by scale.
func WithViewport(origin visual.Point, scale float64) Option {
	return func(e *Engine) {
		e.origin = origin
		if scale > 0 {
			e.scale = scale
		}
	}
}

// WithSelectedBlock renders the editor's selection affordances around the
// block with the given id. They are marked as editor-only.
func WithSelectedBlock(id string) Option {
	return func(e *Engine) {
		e.selected = id
	}
}

// NewEngine creates a new layout engine with optional configuration.
func NewEngine(opts ...Option) (*Engine, error) {
	e := &Engine{
		logger:            observability.NopLogger{},
		DefaultFontFamily: "Montserrat",
		DefaultFontSize:   8,
		LineHeight:        1.2,
		scale:             1,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.face == nil {
		face, err := fonts.DefaultFace()
		if err != nil {
			return nil, fmt.Errorf("layout: %w", err)
		}
		e.face = face
	}
	return e, nil
}

// Scale returns the view zoom.
func (e *Engine) Scale() float64 { return e.scale }

// Pages is a rendered document. It implements visual.Source.
type Pages struct {
	scale float64
	ids   []string
	pages map[string]*visual.Page
}

func (p *Pages) PageIDs() []string { return p.ids }

func (p *Pages) Page(id string) *visual.Page { return p.pages[id] }

func (p *Pages) Scale() float64 { return p.scale }

// Render lays out every page of doc. Pages are stacked vertically.
func (e *Engine) Render(doc *project.Document) (*Pages, error) {
	out := &Pages{scale: e.scale, pages: make(map[string]*visual.Page, len(doc.Pages))}
	for i, p := range doc.Pages {
		origin := visual.Point{
			X: e.origin.X,
			Y: e.origin.Y + float64(i)*(project.PageHeight+PageGap)*e.scale,
		}
		page, err := e.renderPage(p, origin)
		if err != nil {
			return nil, fmt.Errorf("layout: page %q: %w", p.ID, err)
		}
		out.ids = append(out.ids, p.ID)
		out.pages[p.ID] = page
	}
	return out, nil
}

func (e *Engine) renderPage(p *project.Page, origin visual.Point) (*visual.Page, error) {
	r := &renderer{
		e:        e,
		origin:   origin,
		measurer: fonts.NewMeasurer(e.face, e.scale),
	}
	page := &visual.Page{
		ID:     p.ID,
		Origin: origin,
		Width:  project.PageWidth,
		Height: project.PageHeight,
	}
	for _, b := range p.Blocks {
		node, err := r.block(b)
		if err != nil {
			return nil, fmt.Errorf("block %q: %w", b.ID, err)
		}
		page.Blocks = append(page.Blocks, node)
	}
	return page, nil
}

// renderer builds the nodes of one page. Coordinates passed to its helpers
// are page-relative layout pixels.
type renderer struct {
	e        *Engine
	origin   visual.Point
	measurer *fonts.Measurer
}

func (r *renderer) box(x, y, w, h float64) visual.Rect {
	s := r.e.scale
	return visual.Rect{X: r.origin.X + x*s, Y: r.origin.Y + y*s, W: w * s, H: h * s}
}

// TextStyle is the typography of one text run.
type TextStyle struct {
	Size          float64
	Weight        string
	Color         string
	LetterSpacing float64
	// LineHeight is absolute, in pixels; zero uses the engine multiplier.
	LineHeight float64
	Align      string
	Uppercase  bool
}

func (r *renderer) lineHeight(ts TextStyle) float64 {
	if ts.LineHeight > 0 {
		return ts.LineHeight
	}
	return ts.Size * r.e.LineHeight
}

func (r *renderer) computed(ts TextStyle) map[string]string {
	cs := map[string]string{
		"font-family": `"` + r.e.DefaultFontFamily + `", sans-serif`,
		"font-size":   px(ts.Size),
		"line-height": px(r.lineHeight(ts)),
		"color":       ts.Color,
		"text-align":  "start",
	}
	if ts.Color == "" {
		cs["color"] = "rgb(0, 0, 0)"
	}
	if ts.Weight != "" {
		cs["font-weight"] = ts.Weight
	}
	if ts.LetterSpacing != 0 {
		cs["letter-spacing"] = px(ts.LetterSpacing)
	}
	if ts.Align != "" {
		cs["text-align"] = ts.Align
	}
	return cs
}

func (r *renderer) layoutRun(content string, w float64, ts TextStyle) ([]visual.Rect, float64) {
	lh := r.lineHeight(ts)
	local := r.e.face.LayoutText(content, fonts.Layout{
		Size:          ts.Size,
		LetterSpacing: ts.LetterSpacing,
		LineHeight:    lh,
		MaxWidth:      w,
		Align:         ts.Align,
	})
	return local, float64(countLines(local)) * lh
}

// textHeight returns the height content takes in a column of width w.
func (r *renderer) textHeight(content string, w float64, ts TextStyle) float64 {
	if ts.Uppercase {
		content = strings.ToUpper(content)
	}
	_, h := r.layoutRun(content, w, ts)
	return h
}

// text lays out content in a column of width w at (x, y) and returns the
// container holding it together with the height it takes.
func (r *renderer) text(content string, x, y, w float64, ts TextStyle) (*visual.Container, float64) {
	if ts.Uppercase {
		content = strings.ToUpper(content)
	}
	local, h := r.layoutRun(content, w, ts)

	cs := r.computed(ts)
	t := &visual.Text{
		Common:  visual.Common{Box: r.box(x, y, w, h), Computed: cs},
		Content: content,
	}
	t.Glyphs = make([]visual.Rect, len(local))
	for i := range local {
		if g, ok := r.measurer.MeasureRange(t, i, i+1); ok {
			t.Glyphs[i] = g
		}
	}
	c := &visual.Container{
		Common:   visual.Common{Tag: "p", Box: t.Box, Computed: cs},
		Children: []visual.Node{t},
	}
	return c, h
}

// countLines counts distinct line tops.
func countLines(rects []visual.Rect) int {
	n := 0
	last := -1.0
	for _, rc := range rects {
		if rc.H == 0 {
			continue
		}
		if n == 0 || rc.Y != last {
			n++
			last = rc.Y
		}
	}
	return n
}

func (r *renderer) container(tag string, x, y, w, h float64, cs map[string]string, children ...visual.Node) *visual.Container {
	if cs == nil {
		cs = map[string]string{}
	}
	return &visual.Container{
		Common:   visual.Common{Tag: tag, Box: r.box(x, y, w, h), Computed: cs},
		Children: children,
	}
}

// graphic parses vector markup into a graphic placed at (x, y, w, h).
func (r *renderer) graphic(src string, x, y, w, h float64) (*visual.Graphic, error) {
	return markup.Parse(src, r.box(x, y, w, h))
}

func px(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "px"
}
