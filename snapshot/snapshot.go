// Package snapshot decodes a JSON capture of the editor's rendered pages
// into visual trees. A Snapshot is a visual.Source.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/wudi/infosvg/markup"
	"github.com/wudi/infosvg/visual"
)

// ErrInvalidSnapshot is wrapped by every decoding failure.
var ErrInvalidSnapshot = errors.New("snapshot: invalid snapshot")

// Node kinds.
const (
	KindContainer = "container"
	KindImage     = "image"
	KindText      = "text"
	KindGraphic   = "graphic"
	KindElement   = "element"
)

type rawSnapshot struct {
	Scale float64   `json:"scale"`
	Pages []rawPage `json:"pages"`
}

type rawPage struct {
	ID     string    `json:"id"`
	Origin rawPoint  `json:"origin"`
	Width  float64   `json:"width"`
	Height float64   `json:"height"`
	Blocks []rawNode `json:"blocks"`
}

type rawPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type rawRect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

type rawNode struct {
	Kind         string            `json:"kind"`
	Tag          string            `json:"tag"`
	Box          rawRect           `json:"box"`
	Style        map[string]string `json:"style"`
	Attrs        [][2]string       `json:"attrs"`
	Children     []rawNode         `json:"children"`
	Text         string            `json:"text"`
	Glyphs       [][4]float64      `json:"glyphs"`
	Src          string            `json:"src"`
	Markup       string            `json:"markup"`
	Excluded     bool              `json:"excluded"`
	ForceInclude bool              `json:"forceInclude"`
	Detached     bool              `json:"detached"`
}

// Snapshot is a decoded capture.
type Snapshot struct {
	scale float64
	ids   []string
	pages map[string]*visual.Page
}

// Decode reads a snapshot document from r.
func Decode(r io.Reader) (*Snapshot, error) {
	var raw rawSnapshot
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}
	s := &Snapshot{scale: raw.Scale, pages: make(map[string]*visual.Page, len(raw.Pages))}
	if s.scale == 0 {
		s.scale = 1
	}
	if s.scale < 0 {
		return nil, fmt.Errorf("%w: negative scale %v", ErrInvalidSnapshot, raw.Scale)
	}
	for i, rp := range raw.Pages {
		if rp.ID == "" {
			return nil, fmt.Errorf("%w: page %d has no id", ErrInvalidSnapshot, i)
		}
		if _, dup := s.pages[rp.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate page %q", ErrInvalidSnapshot, rp.ID)
		}
		p := &visual.Page{
			ID:     rp.ID,
			Origin: visual.Point{X: rp.Origin.X, Y: rp.Origin.Y},
			Width:  rp.Width,
			Height: rp.Height,
		}
		for j, rb := range rp.Blocks {
			n, err := node(rb, false)
			if err != nil {
				return nil, fmt.Errorf("page %q block %d: %w", rp.ID, j, err)
			}
			p.Blocks = append(p.Blocks, n)
		}
		s.ids = append(s.ids, rp.ID)
		s.pages[rp.ID] = p
	}
	return s, nil
}

func (s *Snapshot) PageIDs() []string { return s.ids }

func (s *Snapshot) Page(id string) *visual.Page { return s.pages[id] }

func (s *Snapshot) Scale() float64 { return s.scale }

func common(rn rawNode) visual.Common {
	cs := rn.Style
	if cs == nil {
		cs = map[string]string{}
	}
	return visual.Common{
		Tag:          rn.Tag,
		Box:          rect(rn.Box),
		Computed:     cs,
		Excluded:     rn.Excluded,
		ForceInclude: rn.ForceInclude,
		Detached:     rn.Detached,
	}
}

func rect(r rawRect) visual.Rect { return visual.Rect{X: r.X, Y: r.Y, W: r.W, H: r.H} }

func attrs(raw [][2]string) visual.Attrs {
	if len(raw) == 0 {
		return nil
	}
	out := make(visual.Attrs, len(raw))
	for i, a := range raw {
		out[i] = visual.Attr{Name: a[0], Value: a[1]}
	}
	return out
}

// node converts rn. inGraphic is set below a graphic root, where only
// element nodes may appear.
func node(rn rawNode, inGraphic bool) (visual.Node, error) {
	if inGraphic && rn.Kind != KindElement {
		return nil, fmt.Errorf("%w: %q node inside a graphic", ErrInvalidSnapshot, rn.Kind)
	}
	switch rn.Kind {
	case KindContainer:
		c := &visual.Container{Common: common(rn)}
		for i, rc := range rn.Children {
			child, err := node(rc, false)
			if err != nil {
				return nil, fmt.Errorf("child %d: %w", i, err)
			}
			c.Children = append(c.Children, child)
		}
		return c, nil
	case KindImage:
		return &visual.Image{Common: common(rn), Src: rn.Src}, nil
	case KindText:
		t := &visual.Text{Common: common(rn), Content: rn.Text}
		for _, gl := range rn.Glyphs {
			t.Glyphs = append(t.Glyphs, visual.Rect{X: gl[0], Y: gl[1], W: gl[2], H: gl[3]})
		}
		return t, nil
	case KindGraphic:
		return graphic(rn)
	case KindElement:
		if !inGraphic {
			return nil, fmt.Errorf("%w: element node outside a graphic", ErrInvalidSnapshot)
		}
		return element(rn)
	default:
		return nil, fmt.Errorf("%w: unknown node kind %q", ErrInvalidSnapshot, rn.Kind)
	}
}

func graphic(rn rawNode) (*visual.Graphic, error) {
	if rn.Markup != "" {
		g, err := markup.Parse(rn.Markup, rect(rn.Box))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
		}
		c := common(rn)
		for k, v := range g.Computed {
			if _, ok := c.Computed[k]; !ok {
				c.Computed[k] = v
			}
		}
		if c.Tag == "" {
			c.Tag = g.Tag
		}
		g.Common = c
		return g, nil
	}
	g := &visual.Graphic{Common: common(rn), Attrs: attrs(rn.Attrs)}
	for i, rc := range rn.Children {
		child, err := node(rc, true)
		if err != nil {
			return nil, fmt.Errorf("child %d: %w", i, err)
		}
		g.Children = append(g.Children, child.(*visual.GraphicElement))
	}
	return g, nil
}

func element(rn rawNode) (*visual.GraphicElement, error) {
	e := &visual.GraphicElement{Common: common(rn), Attrs: attrs(rn.Attrs), Text: rn.Text}
	for i, rc := range rn.Children {
		child, err := node(rc, true)
		if err != nil {
			return nil, fmt.Errorf("child %d: %w", i, err)
		}
		e.Children = append(e.Children, child.(*visual.GraphicElement))
	}
	return e, nil
}
