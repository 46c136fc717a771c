// Package project models the report document the editor lays out: pages of
// blocks placed on a 12-column A4 grid.
package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/google/uuid"
)

// Page geometry in layout pixels.
const (
	A4WidthMM  = 210
	A4HeightMM = 297
	MMToPX     = 3.78

	PageWidth  = A4WidthMM * MMToPX
	PageHeight = A4HeightMM * MMToPX

	MarginPX = 10 * MMToPX
	GutterPX = 4 * MMToPX
	Columns  = 12

	ContentWidth     = PageWidth - 2*MarginPX
	ColumnWidthPX    = (ContentWidth - GutterPX*(Columns-1)) / Columns
	VerticalGridStep = 10
)

// Palette of the report charts.
var ChartColors = []string{"#2E2A6D", "#008B72", "#FBB03B", "#29ABE2"}

var (
	// ErrNoSpace is returned when a page has no free slot for a block.
	ErrNoSpace = errors.New("project: no free space on page")
	// ErrUnknownPage is returned for page ids not in the document.
	ErrUnknownPage = errors.New("project: unknown page")
)

// BlockType names what a block renders.
type BlockType string

const (
	ChartLineSquare      BlockType = "CHART_LINE_SQUARE"
	ChartLineDualCompact BlockType = "CHART_LINE_DUAL_COMPACT"
	ChartColumn          BlockType = "CHART_COLUMN"
	TableSimple          BlockType = "TABLE_SIMPLE"
	TableTrend           BlockType = "TABLE_TREND"
	Header               BlockType = "HEADER"
	RoadInfo             BlockType = "ROAD_INFO"
	RoadStats            BlockType = "ROAD_STATS"
	// Text is a free text block whose body is Markdown or HTML.
	Text BlockType = "TEXT"
)

// IsChart reports whether blocks of type t are drawn by a chart producer.
func (t BlockType) IsChart() bool {
	switch t {
	case ChartLineSquare, ChartLineDualCompact, ChartColumn, TableSimple, TableTrend:
		return true
	}
	return false
}

// ChartDataPoint is one year of chart series values.
type ChartDataPoint struct {
	Year   int       `json:"year"`
	Values []float64 `json:"values"`
}

// TrendRow is one row of a trend table.
type TrendRow struct {
	ID             string `json:"id"`
	Label          string `json:"label"`
	Values         []any  `json:"values"`
	TrendValue     string `json:"trendValue"`
	TrendDirection string `json:"trendDirection"`
	TrendType      string `json:"trendType,omitempty"`
	TrendStartYear int    `json:"trendStartYear"`
	TrendEndYear   int    `json:"trendEndYear"`
	LogoURL        string `json:"logoUrl,omitempty"`
}

// StatsData feeds road statistics blocks.
type StatsData struct {
	Year1          int     `json:"year1"`
	Year2          int     `json:"year2"`
	Km1            float64 `json:"km1"`
	Km2            float64 `json:"km2"`
	KmTrend        string  `json:"kmTrend"`
	Traffic1       float64 `json:"traffic1"`
	Traffic2       float64 `json:"traffic2"`
	TrafficTrend   string  `json:"trafficTrend"`
	TrafficLogoURL string  `json:"trafficLogoUrl,omitempty"`
}

// Config holds the type-specific settings of a block.
type Config struct {
	RoadName        string     `json:"roadName,omitempty"`
	Description     string     `json:"description,omitempty"`
	TrendValue      string     `json:"trendValue,omitempty"`
	TrendDirection  string     `json:"trendDirection,omitempty"`
	TrendType       string     `json:"trendType,omitempty"`
	TrendValue2     string     `json:"trendValue2,omitempty"`
	TrendDirection2 string     `json:"trendDirection2,omitempty"`
	TrendType2      string     `json:"trendType2,omitempty"`
	StartYear       int        `json:"startYear,omitempty"`
	EndYear         int        `json:"endYear,omitempty"`
	IconType        string     `json:"iconType,omitempty"`
	Rows            []TrendRow `json:"rows,omitempty"`
	Years           []int      `json:"years,omitempty"`
	LineIcons       []int      `json:"lineIcons,omitempty"`
	StatsData       *StatsData `json:"statsData,omitempty"`
	// Body is the content of text blocks.
	Body string `json:"body,omitempty"`
	// Format is "markdown" (default) or "html".
	Format string `json:"format,omitempty"`
}

// Block is a placed unit of content. X and W are in grid columns, Y and H
// in layout pixels.
type Block struct {
	ID     string           `json:"id"`
	Type   BlockType        `json:"type"`
	Title  string           `json:"title"`
	X      int              `json:"x"`
	Y      float64          `json:"y"`
	W      int              `json:"w"`
	H      float64          `json:"h"`
	Data   []ChartDataPoint `json:"data"`
	Config *Config          `json:"config,omitempty"`
}

// Page is one A4 page of blocks.
type Page struct {
	ID     string   `json:"id"`
	Blocks []*Block `json:"blocks"`
}

// Document is a whole report.
type Document struct {
	Pages []*Page `json:"pages"`
}

// Load decodes a document.
func Load(r io.Reader) (*Document, error) {
	var d Document
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, fmt.Errorf("project: decode: %w", err)
	}
	for i, p := range d.Pages {
		if p == nil || p.ID == "" {
			return nil, fmt.Errorf("project: page %d has no id", i)
		}
	}
	return &d, nil
}

// LoadFile decodes the document stored at path.
func LoadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

// Save encodes d as indented JSON.
func (d *Document) Save(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}

// Page returns the page with the given id.
func (d *Document) Page(id string) *Page {
	for _, p := range d.Pages {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// ColumnX returns the left edge of grid column col.
func ColumnX(col int) float64 {
	return MarginPX + float64(col)*(ColumnWidthPX+GutterPX)
}

// ColumnWidth returns the width of a block spanning w columns.
func ColumnWidth(w int) float64 {
	return float64(w)*ColumnWidthPX + float64(w-1)*GutterPX
}

// Bounds returns the block rectangle in layout pixels.
func (b *Block) Bounds() (x, y, w, h float64) {
	return ColumnX(b.X), b.Y, ColumnWidth(b.W), b.H
}

// Overlaps reports whether a and b share grid area.
func Overlaps(a, b *Block) bool {
	horizontal := a.X < b.X+b.W && a.X+a.W > b.X
	vertical := a.Y < b.Y+b.H && a.Y+a.H > b.Y
	return horizontal && vertical
}

// FindEmptySpace returns the first free slot for a w×h block, scanning rows
// of the vertical grid top-down and columns left to right.
func FindEmptySpace(p *Page, w int, h float64) (x int, y float64, ok bool) {
	startY := math.Ceil(MarginPX/VerticalGridStep) * VerticalGridStep
	for y := startY; y < PageHeight-h-MarginPX; y += VerticalGridStep {
		for x := 0; x <= Columns-w; x++ {
			probe := &Block{X: x, Y: y, W: w, H: h}
			free := true
			for _, b := range p.Blocks {
				if Overlaps(probe, b) {
					free = false
					break
				}
			}
			if free {
				return x, y, true
			}
		}
	}
	return 0, 0, false
}

// NewBlock returns a block of type t with the editor's default size and
// title. It is not placed yet.
func NewBlock(t BlockType) *Block {
	b := &Block{ID: uuid.NewString(), Type: t, Title: "Заголовок", W: 4, H: 8 * VerticalGridStep}
	switch t {
	case RoadInfo:
		b.H = 4 * VerticalGridStep
		b.Config = &Config{IconType: "location"}
	case RoadStats:
		b.H = 4 * VerticalGridStep
		b.Title = ""
	case ChartLineDualCompact:
		b.Title = "Динамика показателей"
	case ChartLineSquare:
		b.Title = "Динамика количества ДТП"
		b.Config = &Config{LineIcons: []int{0, 1, 2, 3}}
	case ChartColumn:
		b.Title = "КОЛИЧЕСТВО ПОГИБШИХ, ЧЕЛ."
		b.H = 22 * VerticalGridStep
		b.Config = &Config{IconType: "heart"}
	case TableTrend:
		b.W = 6
		b.H = 32 * VerticalGridStep
		b.Config = &Config{IconType: "location"}
	case Header:
		b.Title = "НОВЫЙ ЗАГОЛОВОК"
		b.H = 2 * VerticalGridStep
		b.Config = &Config{IconType: "heart"}
	}
	return b
}

// AddBlock places b in the first free slot of the page.
func (d *Document) AddBlock(pageID string, b *Block) error {
	p := d.Page(pageID)
	if p == nil {
		return fmt.Errorf("%w: %q", ErrUnknownPage, pageID)
	}
	x, y, ok := FindEmptySpace(p, b.W, b.H)
	if !ok {
		return ErrNoSpace
	}
	b.X, b.Y = x, y
	p.Blocks = append(p.Blocks, b)
	return nil
}
