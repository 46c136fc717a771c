package layout

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Paragraph is one block of body text.
type Paragraph struct {
	Text string
	// Level is the heading level, zero for body text.
	Level  int
	Bullet bool
}

// ParseMarkdown splits a Markdown body into paragraphs using goldmark.
func ParseMarkdown(source string) []Paragraph {
	md := goldmark.New()
	src := []byte(source)
	doc := md.Parser().Parse(text.NewReader(src))

	var out []Paragraph
	walkMarkdown(doc, src, &out)
	return out
}

func walkMarkdown(node ast.Node, source []byte, out *[]Paragraph) {
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		switch n := child.(type) {
		case *ast.Heading:
			*out = append(*out, Paragraph{Text: inlineText(n, source), Level: n.Level})
		case *ast.Paragraph, *ast.TextBlock:
			*out = append(*out, Paragraph{Text: inlineText(n, source)})
		case *ast.List:
			walkMarkdown(n, source, out)
		case *ast.ListItem:
			// Nested blocks of an item are flattened into one bullet.
			var sb strings.Builder
			for c := n.FirstChild(); c != nil; c = c.NextSibling() {
				if sb.Len() > 0 {
					sb.WriteByte(' ')
				}
				sb.WriteString(inlineText(c, source))
			}
			*out = append(*out, Paragraph{Text: sb.String(), Bullet: true})
		case *ast.Blockquote:
			walkMarkdown(n, source, out)
		}
	}
}

// inlineText concatenates the text segments under n. Soft and hard line
// breaks become spaces.
func inlineText(n ast.Node, source []byte) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			sb.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.Join(strings.Fields(sb.String()), " ")
}
