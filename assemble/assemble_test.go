package assemble

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/wudi/infosvg/recovery"
	"github.com/wudi/infosvg/svg"
	"github.com/wudi/infosvg/transcribe"
	"github.com/wudi/infosvg/visual"
)

type mockSource struct {
	pages map[string]*visual.Page
	ids   []string
	scale float64
}

func newMockSource(scale float64, pages ...*visual.Page) *mockSource {
	m := &mockSource{pages: make(map[string]*visual.Page), scale: scale}
	for _, p := range pages {
		m.pages[p.ID] = p
		m.ids = append(m.ids, p.ID)
	}
	return m
}

func (m *mockSource) PageIDs() []string           { return m.ids }
func (m *mockSource) Page(id string) *visual.Page { return m.pages[id] }
func (m *mockSource) Scale() float64              { return m.scale }

func common(tag string, box visual.Rect, cs map[string]string) visual.Common {
	if cs == nil {
		cs = map[string]string{}
	}
	return visual.Common{Tag: tag, Box: box, Computed: cs}
}

func scenarioPage() *visual.Page {
	text := &visual.Text{Common: common("", visual.Rect{}, nil), Content: "2023"}
	for i := 0; i < 4; i++ {
		text.Glyphs = append(text.Glyphs, visual.Rect{X: 140 + float64(i)*10, Y: 120, W: 10, H: 20})
	}
	img := &visual.Image{Common: common("img", visual.Rect{X: 120, Y: 160, W: 80, H: 40}, nil), Src: "chart.png"}
	block := &visual.Container{
		Common:   common("div", visual.Rect{X: 100, Y: 100, W: 200, H: 120}, map[string]string{"background-color": "#FFFFFF", "text-align": "center", "font-size": "16px"}),
		Children: []visual.Node{text, img},
	}
	return &visual.Page{ID: "p1", Origin: visual.Point{X: 100, Y: 100}, Width: 793.8, Height: 1122.66, Blocks: []visual.Node{block}}
}

func TestEndToEndScenario(t *testing.T) {
	a := New(newMockSource(1, scenarioPage()))
	doc, err := a.Assemble(context.Background(), "p1")
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if doc == nil {
		t.Fatal("expected a document")
	}

	var names []string
	for _, el := range doc.Body {
		names = append(names, el.Name)
	}
	if got := strings.Join(names, ","); got != "rect,rect,text,image" {
		t.Fatalf("expected rect,rect,text,image, got %s", got)
	}

	bg := doc.Body[0]
	if w, _ := bg.Attr("width"); w.Nums[0] != 793.8 {
		t.Errorf("expected page-sized background, got width %v", w.Nums)
	}
	block := doc.Body[1]
	if fill, _ := block.Attr("fill"); fill.Value != "#ffffff" {
		t.Errorf("expected container background #ffffff, got %q", fill.Value)
	}
	if x, _ := block.Attr("x"); x.Nums[0] != 0 {
		t.Errorf("expected container at the page origin, got x=%v", x.Nums[0])
	}
	text := doc.Body[2]
	if text.Text != "2023" {
		t.Errorf("expected text 2023, got %q", text.Text)
	}
	if anchor, _ := text.Attr("text-anchor"); anchor.Value != "middle" {
		t.Errorf("expected middle anchor, got %q", anchor.Value)
	}
	if href, _ := doc.Body[3].Attr("href"); href.Value != "chart.png" {
		t.Errorf("expected image source, got %q", href.Value)
	}

	out, err := svg.Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	s := string(out)
	if !strings.Contains(s, `width="210mm" height="297mm" viewBox="0 0 793.8 1122.66"`) {
		t.Errorf("unexpected root sizing:\n%s", s)
	}
	if !strings.Contains(s, "@import url(") {
		t.Errorf("expected font import")
	}
}

func TestUnknownPage(t *testing.T) {
	a := New(newMockSource(1, scenarioPage()))
	doc, err := a.Assemble(context.Background(), "missing")
	if doc != nil || err != nil {
		t.Errorf("expected nil, nil for an unknown page, got %v, %v", doc, err)
	}
}

func TestResourceDeduplication(t *testing.T) {
	var blocks []visual.Node
	for i := 0; i < 5; i++ {
		grad := &visual.GraphicElement{
			Common: common("linearGradient", visual.Rect{}, nil),
			Attrs:  visual.Attrs{{Name: "id", Value: "brand"}},
			Children: []*visual.GraphicElement{
				{Common: common("stop", visual.Rect{}, nil), Attrs: visual.Attrs{{Name: "offset", Value: "0"}}},
			},
		}
		shape := &visual.GraphicElement{
			Common: common("circle", visual.Rect{}, map[string]string{"fill": `url("#brand")`}),
			Attrs:  visual.Attrs{{Name: "r", Value: "4"}},
		}
		g := &visual.Graphic{
			Common:   common("svg", visual.Rect{X: float64(i) * 30, W: 24, H: 24}, nil),
			Attrs:    visual.Attrs{{Name: "viewBox", Value: "0 0 24 24"}},
			Children: []*visual.GraphicElement{grad, shape},
		}
		blocks = append(blocks, &visual.Container{Common: common("div", visual.Rect{W: 200, H: 40}, nil), Children: []visual.Node{g}})
	}
	page := &visual.Page{ID: "p", Width: 100, Height: 100, Blocks: blocks}

	doc, err := New(newMockSource(1, page), WithFontImport(""), WithDefaultFontFamily("")).Assemble(context.Background(), "p")
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if len(doc.Defs) != 1 {
		t.Fatalf("expected 1 definition, got %d", len(doc.Defs))
	}
	out, _ := svg.Marshal(doc)
	s := string(out)
	if n := strings.Count(s, `id="brand"`); n != 1 {
		t.Errorf("expected one definition for brand, got %d", n)
	}
	if n := strings.Count(s, "url(#brand)"); n != 5 {
		t.Errorf("expected 5 references, got %d", n)
	}
	if strings.Index(s, `id="brand"`) > strings.Index(s, "url(#brand)") {
		t.Error("expected the definition before its first reference")
	}
	if len(doc.Styles) != 0 {
		t.Errorf("expected no style rules, got %v", doc.Styles)
	}
}

func TestFreeFloatingGraphic(t *testing.T) {
	icon := &visual.Graphic{
		Common: common("svg", visual.Rect{X: 10, Y: 10, W: 24, H: 24}, nil),
		Attrs:  visual.Attrs{{Name: "viewBox", Value: "0 0 24 24"}},
		Children: []*visual.GraphicElement{
			{Common: common("path", visual.Rect{}, nil), Attrs: visual.Attrs{{Name: "d", Value: "M12 5v14"}}},
		},
	}
	icon.ForceInclude = true
	hiddenIcon := &visual.Graphic{Common: common("svg", visual.Rect{W: 24, H: 24}, nil)}
	placeholder := &visual.Container{Common: common("button", visual.Rect{W: 40, H: 40}, map[string]string{"background-color": "#eeeeee"}), Children: []visual.Node{icon, hiddenIcon}}
	placeholder.Excluded = true
	block := &visual.Container{Common: common("div", visual.Rect{W: 100, H: 100}, nil), Children: []visual.Node{placeholder}}

	page := &visual.Page{ID: "p", Width: 100, Height: 100, Blocks: []visual.Node{block}}
	doc, err := New(newMockSource(1, page)).Assemble(context.Background(), "p")
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if len(doc.Body) != 2 || doc.Body[1].Name != "g" {
		t.Fatalf("expected background plus the force-included icon, got %d primitives", len(doc.Body))
	}
	if len(doc.Body[1].Children) != 1 {
		t.Errorf("expected icon path, got %d children", len(doc.Body[1].Children))
	}
}

func TestInlineGraphicNotDuplicated(t *testing.T) {
	icon := &visual.Graphic{
		Common: common("svg", visual.Rect{W: 24, H: 24}, nil),
		Attrs:  visual.Attrs{{Name: "viewBox", Value: "0 0 24 24"}},
	}
	block := &visual.Container{Common: common("div", visual.Rect{W: 100, H: 100}, nil), Children: []visual.Node{icon}}
	page := &visual.Page{ID: "p", Width: 100, Height: 100, Blocks: []visual.Node{block}}
	doc, err := New(newMockSource(1, page)).Assemble(context.Background(), "p")
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if n := len(doc.Find("g")); n != 1 {
		t.Errorf("expected the icon once, got %d", n)
	}
}

func TestStrictAssembly(t *testing.T) {
	page := scenarioPage()
	page.Blocks[0].(*visual.Container).Children[1].Base().Detached = true

	_, err := New(newMockSource(1, page), WithRecovery(recovery.NewStrictStrategy())).Assemble(context.Background(), "p1")
	if !errors.Is(err, transcribe.ErrDetached) {
		t.Fatalf("expected ErrDetached, got %v", err)
	}

	lenient := recovery.NewLenientStrategy()
	doc, err := New(newMockSource(1, scenarioPage()), WithRecovery(lenient)).Assemble(context.Background(), "p1")
	if err != nil || doc == nil {
		t.Fatalf("expected lenient assembly to succeed, got %v", err)
	}
}

func TestCanceledAssembly(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(newMockSource(1, scenarioPage())).Assemble(ctx, "p1")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
