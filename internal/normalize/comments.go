package normalize

import (
	"strings"

	"github.com/RishiKendai/codeplag/internal/elements"
	"github.com/RishiKendai/codeplag/internal/lexer"
)

// removeComments drops every Comment element, then strips comments that sit
// inside declarations (annotated headers, field declarations, enum constant
// lists). Both follow the parser's layout rule, so a comment on its own line
// disappears together with its line.
func removeComments(file *elements.JavaFile, report Reporter) {
	file.Sequences(func(seq []elements.Element) []elements.Element {
		kept := seq[:0]
		for _, e := range seq {
			if e.Kind() != elements.KindComment {
				kept = append(kept, e)
			}
		}
		return kept
	})

	elements.Walk(file.Elements, func(e elements.Element) bool {
		switch n := e.(type) {
		case *elements.Method:
			if hasComment(n.Header) {
				if err := n.Reparse(lexer.StripComments(n.Header)); err != nil {
					report(n.ID(), err)
				}
			}
		case *elements.Container:
			if hasComment(n.Header) {
				n.SetText(lexer.StripComments(n.Header))
			}
		default:
			if text := e.Text(); hasComment(text) {
				e.SetText(lexer.StripComments(text))
			}
		}
		return true
	})
}

func hasComment(text string) bool {
	return strings.Contains(text, "//") || strings.Contains(text, "/*")
}
