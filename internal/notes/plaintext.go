package notes

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var md = goldmark.New()

// PlainText strips markdown structure from a note body, returning the
// bare text. Embeddings are generated from this form so that syntax
// like heading markers and link targets doesn't pollute the vectors.
func PlainText(source string) string {
	src := []byte(source)
	root := md.Parser().Parse(text.NewReader(src))

	var sb strings.Builder
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			// Separate block-level nodes with a newline.
			if n.Type() == ast.TypeBlock && sb.Len() > 0 {
				sb.WriteByte('\n')
			}
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Text:
			sb.Write(node.Segment.Value(src))
			if node.SoftLineBreak() || node.HardLineBreak() {
				sb.WriteByte('\n')
			}
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			lines := n.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				sb.Write(seg.Value(src))
			}
		case *ast.AutoLink:
			sb.Write(node.URL(src))
		}
		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(sb.String())
}
