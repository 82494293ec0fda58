package parser

import (
	"fmt"
	"os"
	"strings"

	"github.com/RishiKendai/codeplag/internal/elements"
	"github.com/RishiKendai/codeplag/internal/lexer"
	"github.com/rs/zerolog/log"
)

// ParseError describes a declaration that could not be tokenized. It never
// fails the parse: the region is kept as a CodeLine and recorded on
// JavaFile.Diagnostics.
type ParseError = elements.Diagnostic

type scope int

const (
	scopeFile scope = iota
	scopeClass
	scopeEnum
)

type declKind int

const (
	declStatement declKind = iota
	declBody
	declUnterminated
)

// Parser builds an Element Model from Java source in a single pass.
type Parser struct {
	src  string
	file *elements.JavaFile
}

// ParseFile reads path and parses its content.
func ParseFile(path string) (*elements.JavaFile, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Parse(path, string(content)), nil
}

// Parse builds the Element Model of src. The concatenated text of the
// returned file equals src byte for byte.
func Parse(path, src string) *elements.JavaFile {
	file := elements.NewJavaFile(path)
	p := &Parser{src: src, file: file}
	file.Elements = p.members(0, len(src), scopeFile)
	if len(file.Diagnostics) > 0 {
		log.Debug().
			Str("path", path).
			Int("opaque_regions", len(file.Diagnostics)).
			Msg("Parsed with opaque regions")
	}
	return file
}

// members parses the declarations of src[lo:hi] at file or class level.
func (p *Parser) members(lo, hi int, sc scope) []elements.Element {
	var out []elements.Element
	constantsPending := sc == scopeEnum
	i := lo
	for i < hi {
		j := i
		for j < hi && lexer.IsSpace(p.src[j]) {
			j++
		}
		if j >= hi {
			out = append(out, p.code(i, hi))
			break
		}
		if lexer.IsCommentStart(p.src, j) {
			out, i = p.comment(out, i, j, hi)
			continue
		}
		if j > i {
			out = append(out, p.code(i, j))
		}
		if constantsPending {
			constantsPending = false
			end := p.constantsEnd(j, hi)
			out = append(out, p.code(j, end))
			i = end
			continue
		}
		elem, next := p.declaration(j, hi, sc)
		out = append(out, elem)
		i = next
	}
	return out
}

// comment emits the comment opening at src[j], preceded by any code run in
// src[i:j]. A comment standing on a line of its own takes its indentation
// and the rest of the line. A comment that opens a line of code leaves the
// indentation to the code and takes the blanks after it instead. Any other
// comment takes the horizontal whitespace in front of it.
func (p *Parser) comment(out []elements.Element, i, j, hi int) ([]elements.Element, int) {
	lead := j
	for lead > i && (p.src[lead-1] == ' ' || p.src[lead-1] == '\t') {
		lead--
	}
	lineStart := lead == 0 || p.src[lead-1] == '\n'
	end := lexer.SkipComment(p.src, j, hi)

	start := lead
	switch {
	case lineStart && lexer.RestOfLineBlank(p.src[:hi], end):
		end = min(lexer.SkipLineEnd(p.src, end), hi)
	case lineStart:
		start = j
		end = lexer.SkipBlanks(p.src, end, hi)
	}
	if start > i {
		out = append(out, p.code(i, start))
	}
	out = append(out, elements.NewComment(p.file.NextID(), p.src[start:end]))
	return out, end
}

// declaration parses one declaration starting at src[j].
func (p *Parser) declaration(j, hi int, sc scope) (elements.Element, int) {
	end, open, kind := p.scanDeclaration(j, hi)
	switch kind {
	case declUnterminated:
		return p.opaque(j, end, "unterminated declaration"), end

	case declStatement:
		text := p.src[j:end]
		if sc == scopeFile {
			if isImport(text) {
				return elements.NewImport(p.file.NextID(), text), end
			}
			return p.code(j, end), end
		}
		id := p.file.NextID()
		if declaresMethod(text) {
			m, err := elements.NewMethod(id, text, nil, "", p.file.NextID)
			if err != nil {
				return p.opaque(j, end, err.Error()), end
			}
			return m, end
		}
		v, err := elements.NewVariable(id, text)
		if err != nil {
			return p.opaque(j, end, err.Error()), end
		}
		return v, end
	}

	closing := lexer.MatchBrace(p.src, open, hi)
	if closing < 0 {
		return p.opaque(j, hi, "unclosed block"), hi
	}
	header := p.src[j : open+1]
	next := closing + 1

	if keyword, _, _, ok := elements.ParseContainerHeader(header); ok {
		id := p.file.NextID()
		inner := scopeClass
		if keyword == "enum" {
			inner = scopeEnum
		}
		members := p.members(open+1, closing, inner)
		return elements.NewContainer(id, header, members, p.src[closing:next]), next
	}

	if sc == scopeFile || !strings.Contains(stripDecoration(header), "(") {
		// initializer blocks and enum constant bodies
		return p.code(j, next), next
	}

	id := p.file.NextID()
	body := p.body(open+1, closing)
	m, err := elements.NewMethod(id, header, body, p.src[closing:next], p.file.NextID)
	if err != nil {
		return p.opaque(j, next, err.Error()), next
	}
	return m, next
}

// scanDeclaration finds where the declaration at src[j] ends: at a top-level
// ';' (a field or a method without a body) or at the '{' opening a body. A
// '{' after an assignment belongs to the initializer (array initializers,
// lambdas, anonymous classes), so scanning continues to the ';'.
func (p *Parser) scanDeclaration(j, hi int) (end, open int, kind declKind) {
	paren, depth := 0, 0
	assigned := false
	sc := lexer.NewScanner(p.src, j, hi)
	for {
		pos := sc.Pos()
		c, st, ok := sc.Next()
		if !ok {
			return hi, -1, declUnterminated
		}
		if st != lexer.Code {
			continue
		}
		switch c {
		case '(':
			paren++
		case ')':
			if paren > 0 {
				paren--
			}
		case '=':
			if paren == 0 && depth == 0 && elements.IsAssignAt(p.src, pos) {
				assigned = true
			}
		case '{':
			if depth == 0 && paren == 0 && !assigned {
				return pos + 1, pos, declBody
			}
			depth++
		case '}':
			if depth == 0 {
				return pos + 1, -1, declUnterminated
			}
			depth--
		case ';':
			if depth == 0 && paren == 0 {
				return pos + 1, -1, declStatement
			}
		}
	}
}

// constantsEnd returns the end of an enum constant list: just past the first
// top-level ';', or hi when the enum declares constants only.
func (p *Parser) constantsEnd(j, hi int) int {
	depth := 0
	sc := lexer.NewScanner(p.src, j, hi)
	for {
		pos := sc.Pos()
		c, st, ok := sc.Next()
		if !ok {
			return hi
		}
		if st != lexer.Code {
			continue
		}
		switch c {
		case '(', '{':
			depth++
		case ')', '}':
			depth--
		case ';':
			if depth == 0 {
				return pos + 1
			}
		}
	}
}

// body splits a method body into code runs and comments.
func (p *Parser) body(lo, hi int) []elements.Element {
	var out []elements.Element
	i := lo
	sc := lexer.NewScanner(p.src, lo, hi)
	for {
		pos := sc.Pos()
		_, st, ok := sc.Next()
		if !ok {
			break
		}
		if st.IsComment() && sc.Pos() == pos+2 && lexer.IsCommentStart(p.src, pos) {
			out, i = p.comment(out, i, pos, hi)
			sc = lexer.NewScanner(p.src, i, hi)
		}
	}
	if i < hi {
		out = append(out, p.code(i, hi))
	}
	return out
}

func (p *Parser) code(lo, hi int) elements.Element {
	return elements.NewCodeLine(p.file.NextID(), p.src[lo:hi])
}

// opaque keeps src[lo:hi] as a CodeLine and records why.
func (p *Parser) opaque(lo, hi int, reason string) elements.Element {
	e := p.code(lo, hi)
	p.file.Diagnostics = append(p.file.Diagnostics, ParseError{
		Path:    p.file.Path,
		Line:    1 + strings.Count(p.src[:lo], "\n"),
		Element: e.ID(),
		Reason:  reason,
	})
	log.Trace().
		Str("path", p.file.Path).
		Uint32("elementId", uint32(e.ID())).
		Str("reason", reason).
		Msg("Kept declaration as opaque text")
	return e
}

func isImport(text string) bool {
	t := strings.TrimSpace(text)
	return strings.HasPrefix(t, "import ") || strings.HasPrefix(t, "import\t") || strings.HasPrefix(t, "import\n")
}

// declaresMethod reports whether a ';'-terminated member is a method without
// a body: it has a parameter list that is not part of an initializer.
func declaresMethod(text string) bool {
	core := stripDecoration(text)
	paren := strings.IndexByte(core, '(')
	if paren < 0 {
		return false
	}
	for i := 0; i < paren; i++ {
		if core[i] == '=' && elements.IsAssignAt(core, i) {
			return false
		}
	}
	return true
}

func stripDecoration(text string) string {
	return elements.StripAnnotations(lexer.StripComments(text))
}
