package normalize

import (
	"strings"

	"github.com/RishiKendai/codeplag/internal/elements"
	"github.com/RishiKendai/codeplag/internal/lexer"
	"github.com/rs/zerolog/log"
)

// typeReductions maps concrete collection types to the interface they are
// interchangeable behind.
var typeReductions = map[string]string{
	"ArrayList":            "List",
	"LinkedList":           "List",
	"Vector":               "List",
	"Stack":                "List",
	"CopyOnWriteArrayList": "List",
	"HashMap":              "Map",
	"TreeMap":              "Map",
	"LinkedHashMap":        "Map",
	"Hashtable":            "Map",
	"ConcurrentHashMap":    "Map",
	"WeakHashMap":          "Map",
	"HashSet":              "Set",
	"TreeSet":              "Set",
	"LinkedHashSet":        "Set",
	"ArrayDeque":           "Deque",
	"PriorityQueue":        "Queue",
}

// ReduceType returns the interface a concrete type is reduced to.
func ReduceType(name string) (string, bool) {
	to, ok := typeReductions[name]
	return to, ok
}

// reduceDataTypes rewrites declared types found in the reduction table:
// fields, parameters, return types and local declarations. Instantiations
// (new ArrayList<>()), casts and generic arguments are left alone.
func reduceDataTypes(file *elements.JavaFile, report Reporter) {
	elements.Walk(file.Elements, func(e elements.Element) bool {
		switch n := e.(type) {
		case *elements.Method:
			if reduced := reduceDeclaredTypes(n.Header); reduced != n.Header {
				if err := n.Reparse(reduced); err != nil {
					report(n.ID(), err)
				}
			}
		case *elements.Variable, *elements.CodeLine:
			if text := e.Text(); text != "" {
				e.SetText(reduceDeclaredTypes(text))
			}
		}
		return true
	})
}

// reduceDeclaredTypes replaces table types that are followed by an optional
// type argument list, optional array brackets and a declared name.
func reduceDeclaredTypes(text string) string {
	var sb strings.Builder
	sb.Grow(len(text))
	prev := ""
	sc := lexer.NewScanner(text, 0, len(text))
	for {
		pos := sc.Pos()
		c, st, ok := sc.Next()
		if !ok {
			break
		}
		if st != lexer.Code || !lexer.IsIdentStart(c) || (pos > 0 && lexer.IsIdentPart(text[pos-1])) {
			sb.WriteString(text[pos:sc.Pos()])
			if st != lexer.Code || !lexer.IsSpace(c) {
				prev = ""
			}
			continue
		}
		end := pos + 1
		for end < len(text) && lexer.IsIdentPart(text[end]) {
			end++
		}
		word := text[pos:end]
		if to, found := typeReductions[word]; found && prev != "new" && declaresName(text, end) {
			sb.WriteString(to)
		} else {
			sb.WriteString(word)
		}
		prev = word
		for sc.Pos() < end {
			sc.Next()
		}
	}
	return sb.String()
}

// declaresName reports whether text[i:] continues a type with a declared
// identifier: optional <...>, optional [] pairs, then a name.
func declaresName(text string, i int) bool {
	i = skipSpace(text, i)
	if i < len(text) && text[i] == '<' {
		depth := 0
		for ; i < len(text); i++ {
			if text[i] == '<' {
				depth++
			} else if text[i] == '>' {
				depth--
				if depth == 0 {
					i++
					break
				}
			}
		}
		if depth != 0 {
			return false
		}
		i = skipSpace(text, i)
	}
	for i+1 < len(text) && text[i] == '[' && text[i+1] == ']' {
		i = skipSpace(text, i+2)
	}
	if i >= len(text) || !lexer.IsIdentStart(text[i]) {
		return false
	}
	end := i + 1
	for end < len(text) && lexer.IsIdentPart(text[end]) {
		end++
	}
	return !lexer.IsReserved(text[i:end])
}

func skipSpace(text string, i int) int {
	for i < len(text) && lexer.IsSpace(text[i]) {
		i++
	}
	return i
}

// reduceStructures is registered so that callers can select it, but it does
// not rewrite control structures.
func reduceStructures(file *elements.JavaFile, _ Reporter) {
	log.Trace().Str("path", file.Path).Msg("Structure reduction leaves control flow unchanged")
}
