package normalize

import (
	"fmt"

	"github.com/RishiKendai/codeplag/internal/elements"
	"github.com/RishiKendai/codeplag/internal/lexer"
)

// MethodName is the synthetic name given to the i-th method of a file.
func MethodName(i int) string {
	return fmt.Sprintf("method%d", i)
}

// ArgName is the synthetic name of parameter j of the method named method.
func ArgName(method string, j int) string {
	return fmt.Sprintf("%sArg%d", method, j)
}

// standardizeNames renames every method to method<i> (i is its position in
// document order) and every parameter to method<i>Arg<j>. Occurrences are
// rewritten inside that method's own header and body only, as whole
// identifier tokens outside literals and comments.
//
// The rewrite is not scope-aware: a field, a local or a member access
// (this.a, list.add) inside the method that shares an old name is renamed
// too. Call sites in other methods keep the old name. Constructors keep
// their name so that instantiations stay intact; their parameters are
// still renamed.
func standardizeNames(file *elements.JavaFile, report Reporter) {
	for i, m := range file.Methods() {
		name := MethodName(i)
		repl := make(map[string]string, len(m.Params)+1)
		if m.ReturnType != "" {
			repl[m.Name] = name
		}
		for j, p := range m.Params {
			repl[p.Name] = ArgName(name, j)
		}

		if err := m.Reparse(lexer.ReplaceIdentifiers(m.Header, repl)); err != nil {
			report(m.ID(), err)
			continue
		}
		for _, e := range m.Body {
			if e.Kind() == elements.KindComment {
				continue
			}
			e.SetText(lexer.ReplaceIdentifiers(e.Text(), repl))
		}
	}
}
