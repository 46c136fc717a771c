package svg

import (
	"bufio"
	"bytes"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

const (
	// DefaultPrecision is the number of decimals written for geometry.
	DefaultPrecision = 3
	// TransformPrecision is used inside transform lists.
	TransformPrecision = 6

	// Declaration is the XML prolog of standalone files.
	Declaration = `<?xml version="1.0" encoding="UTF-8" standalone="no"?>`

	namespace      = "http://www.w3.org/2000/svg"
	xlinkNamespace = "http://www.w3.org/1999/xlink"
)

// EncoderOption configures an Encoder.
type EncoderOption func(*Encoder)

// WithPrecision sets the decimals written for geometry.
func WithPrecision(p int) EncoderOption {
	return func(e *Encoder) {
		if p >= 0 {
			e.precision = p
		}
	}
}

// WithDeclaration writes the XML prolog before the root element.
func WithDeclaration() EncoderOption {
	return func(e *Encoder) { e.declaration = true }
}

// Encoder writes documents as SVG text.
type Encoder struct {
	w           *bufio.Writer
	precision   int
	declaration bool
}

// NewEncoder returns an encoder writing to w.
func NewEncoder(w io.Writer, opts ...EncoderOption) *Encoder {
	e := &Encoder{w: bufio.NewWriter(w), precision: DefaultPrecision}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Encode writes doc.
func (e *Encoder) Encode(doc *Document) error {
	if e.declaration {
		e.w.WriteString(Declaration)
		e.w.WriteByte('\n')
	}
	e.w.WriteString(`<svg xmlns="` + namespace + `" xmlns:xlink="` + xlinkNamespace + `" version="1.1"`)
	e.w.WriteString(` width="` + formatNum(doc.WidthMM, e.precision) + `mm"`)
	e.w.WriteString(` height="` + formatNum(doc.HeightMM, e.precision) + `mm"`)
	e.w.WriteString(` viewBox="0 0 ` + formatNum(doc.Width, e.precision) + " " + formatNum(doc.Height, e.precision) + `">`)
	e.w.WriteByte('\n')

	if len(doc.Styles) > 0 || len(doc.Defs) > 0 {
		e.w.WriteString("<defs>")
		if len(doc.Styles) > 0 {
			e.w.WriteString(`<style type="text/css">`)
			for _, rule := range doc.Styles {
				e.w.WriteString(escape(rule))
			}
			e.w.WriteString("</style>")
		}
		for _, d := range doc.Defs {
			e.element(d)
		}
		e.w.WriteString("</defs>\n")
	}
	for _, el := range doc.Body {
		e.element(el)
		e.w.WriteByte('\n')
	}
	e.w.WriteString("</svg>\n")
	return e.w.Flush()
}

func (e *Encoder) element(el *Element) {
	e.w.WriteByte('<')
	e.w.WriteString(el.Name)
	if len(el.Transform) > 0 {
		e.w.WriteString(` transform="`)
		for i, op := range el.Transform {
			if i > 0 {
				e.w.WriteByte(' ')
			}
			e.w.WriteString(op.Func)
			e.w.WriteByte('(')
			for j, a := range op.Args {
				if j > 0 {
					e.w.WriteByte(',')
				}
				e.w.WriteString(formatNum(a, TransformPrecision))
			}
			e.w.WriteByte(')')
		}
		e.w.WriteByte('"')
	}
	for _, a := range el.Attrs {
		e.w.WriteByte(' ')
		e.w.WriteString(a.Name)
		e.w.WriteString(`="`)
		if a.Nums != nil {
			for i, v := range a.Nums {
				if i > 0 {
					e.w.WriteByte(',')
				}
				e.w.WriteString(formatNum(v, e.precision))
			}
		} else {
			e.w.WriteString(escape(a.Value))
		}
		e.w.WriteByte('"')
	}
	if len(el.Children) == 0 && el.Text == "" {
		e.w.WriteString("/>")
		return
	}
	e.w.WriteByte('>')
	e.w.WriteString(escape(el.Text))
	for _, c := range el.Children {
		e.element(c)
	}
	e.w.WriteString("</")
	e.w.WriteString(el.Name)
	e.w.WriteByte('>')
}

// Marshal returns doc as SVG text without the XML prolog.
func Marshal(doc *Document, opts ...EncoderOption) ([]byte, error) {
	var buf bytes.Buffer
	if err := NewEncoder(&buf, opts...).Encode(doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var nbsp = strings.NewReplacer("\u00a0", " ")

// escape escapes markup characters; non-breaking spaces become spaces.
// Runes outside the XML Char production are dropped and invalid UTF-8
// bytes become U+FFFD.
func escape(s string) string {
	if !utf8.ValidString(s) || strings.IndexFunc(s, notXMLChar) >= 0 {
		s = strings.Map(func(r rune) rune {
			if notXMLChar(r) {
				return -1
			}
			return r
		}, s)
	}
	return html.EscapeString(nbsp.Replace(s))
}

func notXMLChar(r rune) bool {
	switch {
	case r == '\t', r == '\n', r == '\r':
		return false
	case r >= 0x20 && r <= 0xD7FF:
		return false
	case r >= 0xE000 && r <= 0xFFFD:
		return false
	case r >= 0x10000 && r <= utf8.MaxRune:
		return false
	}
	return true
}

// formatNum rounds v to prec decimals and drops trailing zeros.
func formatNum(v float64, prec int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	p := math.Pow10(prec)
	v = math.Round(v*p) / p
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatNum formats v the way geometry attributes are written.
func FormatNum(v float64) string { return formatNum(v, DefaultPrecision) }
