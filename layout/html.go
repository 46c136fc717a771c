package layout

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ParseHTML splits an HTML body into paragraphs.
func ParseHTML(source string) ([]Paragraph, error) {
	doc, err := html.Parse(strings.NewReader(source))
	if err != nil {
		return nil, err
	}
	var out []Paragraph
	walkHTML(doc, &out)
	return out, nil
}

func walkHTML(n *html.Node, out *[]Paragraph) {
	if n.Type == html.ElementNode {
		switch n.DataAtom {
		case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
			level := int(n.Data[1] - '0')
			*out = append(*out, Paragraph{Text: extractText(n), Level: level})
			return // Don't traverse children, the heading owns its text
		case atom.P, atom.Div:
			if !hasBlockChild(n) {
				if t := extractText(n); t != "" {
					*out = append(*out, Paragraph{Text: t})
				}
				return
			}
		case atom.Li:
			*out = append(*out, Paragraph{Text: extractText(n), Bullet: true})
			return
		case atom.Script, atom.Style:
			return
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walkHTML(c, out)
	}
}

func hasBlockChild(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.DataAtom {
		case atom.P, atom.Div, atom.Ul, atom.Ol, atom.Li,
			atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
			return true
		}
	}
	return false
}

func extractText(n *html.Node) string {
	var sb strings.Builder
	var f func(*html.Node)
	f = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		if n.Type == html.ElementNode && n.DataAtom == atom.Br {
			sb.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			f(c)
		}
	}
	f(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}
