// Package fonts provides a headless text measurement backend: it shapes
// text with HarfBuzz (go-text/typesetting), wraps it the way a browser
// wraps a normal-flow paragraph and reports per-character rects.
package fonts

import (
	"bytes"
	"fmt"
	"sync"

	gofont "github.com/go-text/typesetting/font"
	"golang.org/x/image/font/gofont/goregular"
)

// Face is a parsed font face usable for shaping.
type Face struct {
	name string
	face *gofont.Face
}

// LoadFace parses TrueType/OpenType font data.
func LoadFace(name string, data []byte) (*Face, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("fonts: font data is empty")
	}
	face, err := gofont.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("fonts: parse %q: %w", name, err)
	}
	return &Face{name: name, face: face}, nil
}

// Name returns the name the face was loaded under.
func (f *Face) Name() string { return f.name }

var (
	defaultOnce sync.Once
	defaultFace *Face
	defaultErr  error
)

// DefaultFace returns the Go Regular face bundled with x/image.
func DefaultFace() (*Face, error) {
	defaultOnce.Do(func() {
		defaultFace, defaultErr = LoadFace("Go Regular", goregular.TTF)
	})
	return defaultFace, defaultErr
}
