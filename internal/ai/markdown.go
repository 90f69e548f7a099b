package ai

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var mdParser = goldmark.New().Parser()

// StripMarkdown renders model output as plain text: emphasis, headings,
// list markers and code fences are dropped, block boundaries become newlines.
func StripMarkdown(md string) string {
	source := []byte(md)
	doc := mdParser.Parse(text.NewReader(source))
	var sb strings.Builder
	_ = ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		switch n := node.(type) {
		case *ast.Text:
			if entering {
				sb.Write(n.Segment.Value(source))
				if n.SoftLineBreak() || n.HardLineBreak() {
					sb.WriteByte('\n')
				}
			}
		case *ast.String:
			if entering {
				sb.Write(n.Value)
			}
		case *ast.AutoLink:
			if entering {
				sb.Write(n.URL(source))
			}
			return ast.WalkSkipChildren, nil
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			if entering {
				lines := n.Lines()
				for i := 0; i < lines.Len(); i++ {
					seg := lines.At(i)
					sb.Write(seg.Value(source))
				}
				sb.WriteByte('\n')
			}
			return ast.WalkSkipChildren, nil
		case *ast.Paragraph, *ast.Heading:
			if !entering {
				sb.WriteString("\n\n")
			}
		case *ast.TextBlock:
			if !entering {
				sb.WriteByte('\n')
			}
		}
		return ast.WalkContinue, nil
	})
	return collapseBlankLines(sb.String())
}

func collapseBlankLines(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.TrimRight(line, " \t")
		if line == "" {
			if blank || len(out) == 0 {
				continue
			}
			blank = true
			out = append(out, line)
			continue
		}
		blank = false
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
