package content

import (
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

const excerptLength = 160

var markdown = goldmark.New()

// Excerpt returns the plain text of the first paragraph of a Markdown body,
// cut at a word boundary to at most max runes.
func Excerpt(body []byte, max int) string {
	doc := markdown.Parser().Parse(text.NewReader(body))

	var excerpt string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering || n.Kind() != ast.KindParagraph {
			return ast.WalkContinue, nil
		}
		var b strings.Builder
		writeInline(&b, n, body)
		s := strings.Join(strings.Fields(b.String()), " ")
		// MDX module statements are not prose.
		if s == "" || strings.HasPrefix(s, "import ") || strings.HasPrefix(s, "export ") {
			return ast.WalkSkipChildren, nil
		}
		excerpt = s
		return ast.WalkStop, nil
	})

	return truncate(excerpt, max)
}

func writeInline(b *strings.Builder, n ast.Node, source []byte) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch v := c.(type) {
		case *ast.Text:
			b.Write(v.Segment.Value(source))
			if v.SoftLineBreak() || v.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(v.Value)
		case *ast.Image, *ast.RawHTML:
		default:
			writeInline(b, c, source)
		}
	}
}

func truncate(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	cut := string(runes[:max])
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,.;:") + "…"
}
