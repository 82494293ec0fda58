package elements

import (
	"fmt"
	"strings"

	"github.com/RishiKendai/codeplag/internal/lexer"
)

// modifiers that may precede a declaration besides the protection keywords.
var modifiers = map[string]bool{
	"static": true, "final": true, "abstract": true, "native": true,
	"synchronized": true, "transient": true, "volatile": true, "strictfp": true,
	"default": true, "sealed": true, "non-sealed": true,
}

var containerKeywords = []string{"class", "interface", "enum", "record", "@interface"}

// Signature is the tokenized shape of a method declaration.
type Signature struct {
	Name       string
	ReturnType string
	Protection ProtectionLevel
	Static     bool
	Params     []string
}

// ParseSignature tokenizes a method declaration header: it is split at the
// first '(' and the last ')', the prefix is split on whitespace (outside
// generic arguments) and its final two tokens are the return type and the
// name. A prefix with a single non-modifier token is a constructor. The
// parameter list is split on top-level commas, so generic parameters such as
// Map<K, V> stay whole.
func ParseSignature(header string) (Signature, error) {
	var sig Signature
	core := StripAnnotations(lexer.StripComments(header))
	core = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(core), "{"))
	core = strings.TrimSpace(strings.TrimSuffix(core, ";"))

	open := strings.IndexByte(core, '(')
	closing := strings.LastIndexByte(core, ')')
	if open <= 0 || closing < open {
		return sig, fmt.Errorf("no parameter list in %q", firstLine(header))
	}

	sig.Protection = PackagePrivate
	var rest []string
	for _, tok := range lexer.Fields(core[:open]) {
		if level, ok := ParseProtectionLevel(tok); ok {
			sig.Protection = level
			continue
		}
		if tok == "static" {
			sig.Static = true
			continue
		}
		if modifiers[tok] || strings.HasPrefix(tok, "<") {
			continue
		}
		rest = append(rest, tok)
	}

	switch len(rest) {
	case 0:
		return sig, fmt.Errorf("no method name in %q", firstLine(header))
	case 1:
		sig.Name = rest[0]
	default:
		sig.Name = rest[len(rest)-1]
		sig.ReturnType = rest[len(rest)-2]
	}
	if !isIdentifier(sig.Name) {
		return sig, fmt.Errorf("invalid method name %q", sig.Name)
	}

	sig.Params = lexer.SplitTopLevel(core[open+1:closing], ',')
	return sig, nil
}

// ParseVariable splits a declaration such as "private final int x = 3;" into
// its type, name and initializer. Only the first declarator of a multi-name
// declaration is named.
func ParseVariable(decl string) (typ, name, init string, level ProtectionLevel, err error) {
	level = PackagePrivate
	core := strings.TrimSpace(StripAnnotations(lexer.StripComments(decl)))
	core = strings.TrimSpace(strings.TrimSuffix(core, ";"))

	left := core
	if parts := splitAssign(core); len(parts) == 2 {
		left, init = parts[0], strings.TrimSpace(parts[1])
	}
	if declarators := lexer.SplitTopLevel(left, ','); len(declarators) > 0 {
		left = declarators[0]
	}

	var rest []string
	for _, tok := range lexer.Fields(left) {
		if l, ok := ParseProtectionLevel(tok); ok {
			level = l
			continue
		}
		if modifiers[tok] {
			continue
		}
		rest = append(rest, tok)
	}
	if len(rest) < 2 {
		return "", "", "", level, fmt.Errorf("cannot split %q into type and name", firstLine(decl))
	}
	typ = rest[len(rest)-2]
	name = rest[len(rest)-1]
	if i := strings.IndexByte(name, '['); i > 0 {
		typ += name[i:]
		name = name[:i]
	}
	if !isIdentifier(name) {
		return "", "", "", level, fmt.Errorf("invalid variable name %q", name)
	}
	return typ, name, init, level, nil
}

// ParseContainerHeader reads the keyword, name and protection level from a
// type declaration header. ok is false when the header does not declare a
// type.
func ParseContainerHeader(header string) (keyword, name string, level ProtectionLevel, ok bool) {
	level = PackagePrivate
	core := StripAnnotations(lexer.StripComments(header))
	fields := lexer.Fields(strings.TrimSuffix(strings.TrimSpace(core), "{"))
	for i, tok := range fields {
		if l, isLevel := ParseProtectionLevel(tok); isLevel {
			level = l
			continue
		}
		if strings.ContainsRune(tok, '(') {
			break
		}
		if !isContainerKeyword(tok) || i+1 >= len(fields) {
			continue
		}
		n := fields[i+1]
		if cut := strings.IndexAny(n, "<({"); cut >= 0 {
			n = n[:cut]
		}
		if isIdentifier(n) {
			return tok, n, level, true
		}
	}
	return "", "", level, false
}

// IsContainerHeader reports whether a header declares a nested type.
func IsContainerHeader(header string) bool {
	_, _, _, ok := ParseContainerHeader(header)
	return ok
}

func isContainerKeyword(tok string) bool {
	for _, kw := range containerKeywords {
		if tok == kw {
			return true
		}
	}
	return false
}

// StripAnnotations removes leading annotations (with their argument lists)
// from a declaration.
func StripAnnotations(s string) string {
	i := 0
	for {
		for i < len(s) && lexer.IsSpace(s[i]) {
			i++
		}
		if i >= len(s) || s[i] != '@' || strings.HasPrefix(s[i:], "@interface") {
			return s[i:]
		}
		i++
		for i < len(s) && (lexer.IsIdentPart(s[i]) || s[i] == '.') {
			i++
		}
		j := i
		for j < len(s) && lexer.IsSpace(s[j]) {
			j++
		}
		if j < len(s) && s[j] == '(' {
			depth := 0
			sc := lexer.NewScanner(s, j, len(s))
			for {
				c, st, ok := sc.Next()
				if !ok {
					return ""
				}
				if st != lexer.Code {
					continue
				}
				if c == '(' {
					depth++
				} else if c == ')' {
					depth--
					if depth == 0 {
						break
					}
				}
			}
			i = sc.Pos()
		}
	}
}

// splitAssign splits at the first '=' outside parentheses that is not part of
// a comparison operator.
func splitAssign(s string) []string {
	depth := 0
	sc := lexer.NewScanner(s, 0, len(s))
	for {
		pos := sc.Pos()
		c, st, ok := sc.Next()
		if !ok {
			return []string{s}
		}
		if st != lexer.Code {
			continue
		}
		switch c {
		case '(', '<', '[':
			depth++
		case ')', '>', ']':
			depth--
		case '=':
			if depth == 0 && IsAssignAt(s, pos) {
				return []string{s[:pos], s[pos+1:]}
			}
		}
	}
}

// IsAssignAt reports whether the '=' at s[i] is an assignment rather than part
// of ==, !=, <= or >=.
func IsAssignAt(s string, i int) bool {
	if i+1 < len(s) && s[i+1] == '=' {
		return false
	}
	if i > 0 && strings.IndexByte("=!<>", s[i-1]) >= 0 {
		return false
	}
	return true
}

func isIdentifier(s string) bool {
	if s == "" || !lexer.IsIdentStart(s[0]) || lexer.IsReserved(s) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !lexer.IsIdentPart(s[i]) {
			return false
		}
	}
	return true
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
