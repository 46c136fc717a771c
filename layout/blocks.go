package layout

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/wudi/infosvg/observability"
	"github.com/wudi/infosvg/project"
	"github.com/wudi/infosvg/visual"
)

// Report palette.
const (
	colorNavy  = "#2E2A6D"
	colorSky   = "#29ABE2"
	colorGray  = "#8E8E8E"
	colorWhite = "rgb(255, 255, 255)"
	colorBlack = "rgb(0, 0, 0)"
)

// ChartRenderer draws chart and table blocks. It returns vector markup
// for the w×h block area.
type ChartRenderer interface {
	RenderChart(b *project.Block, w, h float64) (string, error)
}

// ChartRendererFunc adapts a function to ChartRenderer.
type ChartRendererFunc func(b *project.Block, w, h float64) (string, error)

func (f ChartRendererFunc) RenderChart(b *project.Block, w, h float64) (string, error) {
	return f(b, w, h)
}

func (r *renderer) block(b *project.Block) (*visual.Container, error) {
	x, y, w, h := b.Bounds()
	c := r.container("div", x, y, w, h, map[string]string{"background-color": colorWhite})

	var (
		children []visual.Node
		err      error
	)
	switch {
	case b.Type == project.Header:
		children, err = r.header(b, x, y, w, h)
	case b.Type == project.RoadInfo:
		children, err = r.roadInfo(b, x, y, w, h)
	case b.Type == project.RoadStats:
		children, err = r.roadStats(b, x, y, w, h)
	case b.Type.IsChart():
		children = r.chart(b, x, y, w, h)
	default:
		children, err = r.textBlock(b, x, y, w, h)
	}
	if err != nil {
		return nil, err
	}
	c.Children = children

	if b.ID != "" && b.ID == r.e.selected {
		c.Children = append(c.Children, r.selection(x, y, w, h)...)
	}
	return c, nil
}

func config(b *project.Block) *project.Config {
	if b.Config == nil {
		return &project.Config{}
	}
	return b.Config
}

func (r *renderer) icon(name, fallback, color string, strokeWidth, x, y, size float64) (*visual.Graphic, error) {
	return r.graphic(IconMarkup(name, fallback, color, strokeWidth), x, y, size, size)
}

// header: icon column then the title, vertically centered.
func (r *renderer) header(b *project.Block, x, y, w, h float64) ([]visual.Node, error) {
	const pad, iconCol, iconSize, gap = 4, 12, 10, 6
	name := config(b).IconType
	if name == IconTraffic {
		name = IconHeart
	}
	ic, err := r.icon(name, IconHeart, colorSky, 3, x+pad+(iconCol-iconSize)/2, y+(h-iconSize)/2, iconSize)
	if err != nil {
		return nil, err
	}
	ts := TextStyle{Size: 7.5, Weight: "800", Color: colorNavy, LetterSpacing: -0.1875, LineHeight: 8.25, Uppercase: true}
	tx := x + pad + iconCol + gap
	tw := w - (tx - x) - pad
	content := project.FixTypography(b.Title)
	th := r.textHeight(content, tw, ts)
	title, _ := r.text(content, tx, y+max(pad, (h-th)/2), tw, ts)
	return []visual.Node{ic, title}, nil
}

// hspace is horizontal whitespace, no-break space included.
const hspace = `[ \t\x{00a0}]`

var (
	kmToKm      = regexp.MustCompile(`(км` + hspace + `+[\d+]+)` + hspace + `*[\-\x{2013}\x{2014}]` + hspace + `*(км)`)
	kmToWord    = regexp.MustCompile(`(км` + hspace + `+[\d+]+)` + hspace + `*[\-\x{2013}\x{2014}]` + hspace + `*([а-яА-ЯёЁ])`)
	spacedDash  = regexp.MustCompile(hspace + `+([\x{2013}\x{2014}])`)
	roadNameGap = 2.0
)

// FormatRoadDescription typesets a list of kilometer ranges: dashes between
// markers become en dashes, dashes before a name become em dashes, and no
// dash starts a line.
func FormatRoadDescription(s string) string {
	const mark = "\x00"
	s = project.FixTypography(s)
	s = kmToKm.ReplaceAllString(s, "${1}"+mark+"${2}")
	s = kmToWord.ReplaceAllString(s, "${1}\u00a0\u2014 ${2}")
	s = strings.ReplaceAll(s, mark, "\u00a0\u2013 ")
	return spacedDash.ReplaceAllString(s, "\u00a0${1}")
}

func (r *renderer) roadInfo(b *project.Block, x, y, w, h float64) ([]visual.Node, error) {
	const padX, padTop, iconSize, gap = 6, 4, 11, 4
	cfg := config(b)
	ic, err := r.icon(cfg.IconType, IconLocation, colorSky, 2.8, x+padX, y+padTop, iconSize)
	if err != nil {
		return nil, err
	}
	nodes := []visual.Node{ic}

	tx := x + padX + iconSize + gap
	title, th := r.text(project.FixTypography(b.Title), tx, y+padTop+(iconSize-6.6)/2, x+w-padX-tx,
		TextStyle{Size: 6.6, Weight: "700", Color: colorBlack, LetterSpacing: -0.165, LineHeight: 6.6, Uppercase: true})
	nodes = append(nodes, title)

	cy := y + padTop + max(iconSize, th) + 0.5
	cw := w - 2*padX
	if cfg.RoadName != "" {
		name, nh := r.text(cfg.RoadName, x+padX, cy, cw,
			TextStyle{Size: 8.43, Weight: "700", Color: colorNavy, LineHeight: 6.8, Uppercase: true})
		nodes = append(nodes, name)
		cy += nh + roadNameGap
	}
	if cfg.Description != "" {
		desc, _ := r.text(FormatRoadDescription(cfg.Description), x+padX, cy, cw,
			TextStyle{Size: 5.57, Weight: "500", Color: colorBlack, LetterSpacing: -0.139, LineHeight: 6.8})
		nodes = append(nodes, desc)
	}
	return nodes, nil
}

// FormatNumber formats v the way the report locale does: decimal comma and
// non-breaking-space thousands groups.
func FormatNumber(v float64) string {
	s := strconv.FormatFloat(math.Round(v*1000)/1000, 'f', -1, 64)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	intPart, frac, _ := strings.Cut(s, ".")
	if len(intPart) > 3 {
		var sb strings.Builder
		lead := len(intPart) % 3
		if lead > 0 {
			sb.WriteString(intPart[:lead])
		}
		for i := lead; i < len(intPart); i += 3 {
			if sb.Len() > 0 {
				sb.WriteString("\u00a0")
			}
			sb.WriteString(intPart[i : i+3])
		}
		intPart = sb.String()
	}
	if frac != "" {
		intPart += "," + frac
	}
	if neg {
		return "-" + intPart
	}
	return intPart
}

func zeroTrend(v string) bool {
	switch strings.TrimSpace(v) {
	case "", "0", "0 %", "0,0 %", "0%":
		return true
	}
	return false
}

// width returns the advance of a single-line run.
func (r *renderer) width(content string, ts TextStyle) float64 {
	if ts.Uppercase {
		content = strings.ToUpper(content)
	}
	var w float64
	runes := []rune(content)
	for _, a := range r.e.face.Advances(runes, ts.Size) {
		w += a + ts.LetterSpacing
	}
	return w
}

// label places a single-line run at x, vertically centered in a row.
func (r *renderer) label(content string, x, rowY, rowH float64, ts TextStyle) (*visual.Container, float64) {
	w := r.width(content, ts) + 1
	c, _ := r.text(content, x, rowY+(rowH-r.lineHeight(ts))/2, w, ts)
	return c, w
}

func (r *renderer) roadStats(b *project.Block, x, y, w, h float64) ([]visual.Node, error) {
	const (
		pad    = 4.0
		rowH   = 13.0
		rowGap = 2.0
		barH   = 10.5
		yearW  = 20.0
		icon   = 11.0
	)
	s := config(b).StatsData
	if s == nil {
		s = &project.StatsData{Year1: 2017, Year2: 2023, Km1: 141.6, Km2: 151.3, KmTrend: "+ 6,9 %",
			Traffic1: 23141, Traffic2: 22320, TrafficTrend: "- 3,5 %"}
	}

	valueTS := TextStyle{Size: 8, Weight: "700", Color: colorNavy, LineHeight: 8}
	unitTS := TextStyle{Size: 4.5, Weight: "500", Color: "rgba(46, 42, 109, 0.7)", LineHeight: 4.5}
	trendTS := TextStyle{Size: 7.2, Weight: "700", Color: colorNavy, LineHeight: 7.2}
	const unit = "авт./сут"

	right := max(
		r.width(FormatNumber(s.Traffic1), valueTS),
		r.width(FormatNumber(s.Traffic2), valueTS)+r.width("("+project.FixTypography(s.TrafficTrend)+")", trendTS)+2,
	) + r.width(unit, unitTS) + icon + 4 + 2 + 6
	leftW := w - 2*pad - right - 2
	top := y + pad + max(0, (h-2*pad-(2*rowH+rowGap))/2)

	var nodes []visual.Node
	maxKm := max(s.Km1, s.Km2, 1)
	rows := []struct {
		year    int
		km      float64
		minW    float64
		trend   string
		traffic float64
	}{
		{s.Year1, s.Km1, 45, "", s.Traffic1},
		{s.Year2, s.Km2, 65, s.KmTrend, s.Traffic2},
	}
	for i, row := range rows {
		ry := top + float64(i)*(rowH+rowGap)

		year, _ := r.label(strconv.Itoa(row.year), x+pad, ry, rowH,
			TextStyle{Size: 7, Weight: "700", Color: colorGray, LineHeight: 7})
		nodes = append(nodes, year)

		barX := x + pad + yearW + 2
		area := leftW - yearW - 2
		barW := max(row.minW, area*row.km/maxKm)
		barY := ry + (rowH-barH)/2
		bar := r.container("div", barX, barY, barW, barH, map[string]string{
			"background-image":      "linear-gradient(90deg, #8E8E8E 0%, #BFC3C8 100%)",
			"border-top-left-radius": "5.25px",
		})
		kmLabel, kw := r.label(FormatNumber(row.km), barX+6, ry, rowH,
			TextStyle{Size: 6.8, Weight: "700", Color: colorWhite, LineHeight: 6.8})
		unitLabel, uw := r.label("км", barX+6+kw+2, ry, rowH,
			TextStyle{Size: 4.5, Weight: "700", Color: "rgba(255, 255, 255, 0.9)", LineHeight: 4.5})
		bar.Children = append(bar.Children, kmLabel, unitLabel)

		dashX := barX + 6 + kw + 2 + uw + 4
		dashEnd := barX + barW - 6
		if !zeroTrend(row.trend) {
			ts := TextStyle{Size: 6, Weight: "700", Color: colorNavy, LineHeight: 6}
			content := "(" + project.FixTypography(row.trend) + ")"
			tw := r.width(content, ts) + 1
			trend, _ := r.label(content, dashEnd-tw, ry, rowH, ts)
			bar.Children = append(bar.Children, trend)
			dashEnd -= tw + 4
		}
		if dashEnd > dashX {
			bar.Children = append(bar.Children, r.container("div", dashX, barY+barH/2, dashEnd-dashX, 0.8, map[string]string{
				"border-bottom-width": "0.8px",
				"border-bottom-style": "dashed",
				"border-bottom-color": "rgba(255, 255, 255, 0.4)",
			}))
		}
		nodes = append(nodes, bar)

		rx := x + pad + leftW + 2 + 6
		badge, err := r.trafficBadge(s, rx, ry+(rowH-icon)/2, icon)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, badge)
		vx := rx + icon + 4
		value, vw := r.label(FormatNumber(row.traffic), vx, ry, rowH, valueTS)
		unitNode, unw := r.label(unit, vx+vw+2, ry, rowH, unitTS)
		nodes = append(nodes, value, unitNode)
		if i == 1 && !zeroTrend(s.TrafficTrend) {
			trend, _ := r.label("("+project.FixTypography(s.TrafficTrend)+")", vx+vw+2+unw+2, ry, rowH, trendTS)
			nodes = append(nodes, trend)
		}
	}
	return nodes, nil
}

// trafficBadge is the uploaded traffic logo, or the upload button. The
// button is editor-only; its badge graphic is a static placeholder that is
// exported anyway.
func (r *renderer) trafficBadge(s *project.StatsData, x, y, size float64) (visual.Node, error) {
	if s.TrafficLogoURL != "" {
		return &visual.Image{
			Common: visual.Common{Tag: "img", Box: r.box(x, y, size, size), Computed: map[string]string{}},
			Src:    s.TrafficLogoURL,
		}, nil
	}
	badge, err := r.graphic(plusBadge, x, y, size, size)
	if err != nil {
		return nil, err
	}
	badge.ForceInclude = true
	button := r.container("button", x, y, size, size, map[string]string{
		"background-color":       colorSky,
		"border-top-left-radius": fmt.Sprintf("%gpx", size/2),
	}, badge)
	button.Excluded = true
	return button, nil
}

// chart delegates to the chart producer, or draws a titled placeholder card.
func (r *renderer) chart(b *project.Block, x, y, w, h float64) []visual.Node {
	if r.e.charts != nil {
		src, err := r.e.charts.RenderChart(b, w, h)
		if err == nil {
			var g *visual.Graphic
			if g, err = r.graphic(src, x, y, w, h); err == nil {
				return []visual.Node{g}
			}
		}
		r.e.logger.Warn("chart renderer failed, drawing placeholder",
			observability.String("block", b.ID),
			observability.String("type", string(b.Type)),
			observability.Error("error", err),
		)
	}

	const pad = 4
	title, th := r.text(project.FixTypography(b.Title), x+pad, y+pad, w-2*pad,
		TextStyle{Size: 7.5, Weight: "800", Color: colorNavy, LineHeight: 8.25, Uppercase: true})
	cardY := y + pad + th + pad
	cardH := h - (cardY - y) - pad
	if cardH <= 0 {
		return []visual.Node{title}
	}
	card := r.container("div", x+pad, cardY, w-2*pad, cardH, dashedBorder("1px", "#cbd5e1"))
	labelTS := TextStyle{Size: 6, Weight: "500", Color: colorGray, LineHeight: 6, Align: "center"}
	lbl, _ := r.text(string(b.Type), x+pad, cardY+(cardH-6)/2, w-2*pad, labelTS)
	card.Children = append(card.Children, lbl)
	return []visual.Node{title, card}
}

func dashedBorder(width, color string) map[string]string {
	cs := map[string]string{}
	for _, side := range []string{"top", "right", "bottom", "left"} {
		cs["border-"+side+"-width"] = width
		cs["border-"+side+"-style"] = "dashed"
		cs["border-"+side+"-color"] = color
	}
	return cs
}

// textBlock renders the title and a Markdown or HTML body, clipped to the
// block height.
func (r *renderer) textBlock(b *project.Block, x, y, w, h float64) ([]visual.Node, error) {
	const pad = 4
	cfg := config(b)
	var nodes []visual.Node
	cy := y + pad
	cw := w - 2*pad
	if b.Title != "" {
		title, th := r.text(project.FixTypography(b.Title), x+pad, cy, cw,
			TextStyle{Size: 7.5, Weight: "800", Color: colorNavy, LineHeight: 8.25, Uppercase: true})
		nodes = append(nodes, title)
		cy += th + pad
	}

	var paras []Paragraph
	if strings.EqualFold(cfg.Format, "html") {
		var err error
		if paras, err = ParseHTML(cfg.Body); err != nil {
			return nil, fmt.Errorf("html body: %w", err)
		}
	} else {
		paras = ParseMarkdown(cfg.Body)
	}

	base := r.e.DefaultFontSize
	for i, p := range paras {
		ts := TextStyle{Size: base, Color: colorBlack}
		switch {
		case p.Level == 1:
			ts.Size, ts.Weight, ts.Color = base*2, "700", colorNavy
		case p.Level == 2:
			ts.Size, ts.Weight, ts.Color = base*1.5, "700", colorNavy
		case p.Level >= 3:
			ts.Size, ts.Weight, ts.Color = base*1.25, "700", colorNavy
		}
		tx, tw := x+pad, cw
		if p.Bullet {
			bullet, _ := r.text("•", tx, cy, base, ts)
			nodes = append(nodes, bullet)
			tx, tw = tx+base, tw-base
		}
		node, ph := r.text(project.FixTypography(p.Text), tx, cy, tw, ts)
		if cy+ph > y+h-pad {
			r.e.logger.Debug("text block overflows, clipping",
				observability.String("block", b.ID),
				observability.Int("dropped", len(paras)-i),
			)
			if p.Bullet {
				nodes = nodes[:len(nodes)-1]
			}
			break
		}
		nodes = append(nodes, node)
		cy += ph
		if !p.Bullet {
			cy += r.lineHeight(ts) / 2
		}
	}
	return nodes, nil
}

// selection is the editor's outline and resize handle.
func (r *renderer) selection(x, y, w, h float64) []visual.Node {
	outline := r.container("div", x, y, w, h, map[string]string{
		"border-top-width": "1.5px", "border-top-style": "solid", "border-top-color": "#4285F4",
		"border-right-width": "1.5px", "border-right-style": "solid", "border-right-color": "#4285F4",
		"border-bottom-width": "1.5px", "border-bottom-style": "solid", "border-bottom-color": "#4285F4",
		"border-left-width": "1.5px", "border-left-style": "solid", "border-left-color": "#4285F4",
	})
	outline.Excluded = true
	handle := r.container("div", x+w-32, y+h-32, 32, 32, nil)
	handle.Excluded = true
	return []visual.Node{outline, handle}
}
