package lexer

import "strings"

// SplitTopLevel splits s at every sep that is outside brackets, generic type
// arguments, literals and comments. Pieces are trimmed; empty pieces are
// dropped.
func SplitTopLevel(s string, sep byte) []string {
	var parts []string
	nesting := 0
	last := 0
	sc := NewScanner(s, 0, len(s))
	for {
		pos := sc.Pos()
		c, st, ok := sc.Next()
		if !ok {
			break
		}
		if st != Code {
			continue
		}
		switch c {
		case '(', '[', '{', '<':
			nesting++
		case ')', ']', '}', '>':
			if nesting > 0 {
				nesting--
			}
		case sep:
			if nesting == 0 {
				parts = appendTrimmed(parts, s[last:pos])
				last = pos + 1
			}
		}
	}
	return appendTrimmed(parts, s[last:])
}

func appendTrimmed(parts []string, piece string) []string {
	if p := strings.TrimSpace(piece); p != "" {
		parts = append(parts, p)
	}
	return parts
}

// Fields splits a declaration on whitespace outside generic type arguments,
// so "Map<String, Integer> counts" yields two fields. Array brackets written
// apart from their type ("String [] args") are folded into the preceding
// field.
func Fields(s string) []string {
	var fields []string
	var cur strings.Builder
	angle := 0
	flush := func() {
		if cur.Len() == 0 {
			return
		}
		f := cur.String()
		cur.Reset()
		if strings.HasPrefix(f, "[") && len(fields) > 0 {
			fields[len(fields)-1] += f
			return
		}
		if strings.HasPrefix(f, "<") && angle == 0 && len(fields) > 0 && !strings.HasPrefix(fields[len(fields)-1], "@") && isTypeName(fields[len(fields)-1]) {
			fields[len(fields)-1] += f
			return
		}
		fields = append(fields, f)
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '<':
			angle++
			cur.WriteByte(c)
		case c == '>':
			if angle > 0 {
				angle--
			}
			cur.WriteByte(c)
		case isSpace(c) && angle == 0:
			flush()
		case isSpace(c):
			if cur.Len() > 0 && s[i-1] == ',' {
				cur.WriteByte(' ')
			}
		default:
			cur.WriteByte(c)
		}
	}
	flush()
	return fields
}

// isTypeName reports whether a field looks like a bare type name that a
// detached "<...>" argument list belongs to ("List <String>").
func isTypeName(f string) bool {
	if f == "" || !IsIdentStart(f[0]) {
		return false
	}
	if Keywords[f] {
		return false
	}
	return f[0] >= 'A' && f[0] <= 'Z'
}

// ReplaceIdentifiers rewrites every identifier token of text found in repl,
// leaving literals and comments untouched. All replacements are applied in a
// single pass, so chained renames (a->b, b->a) do not interfere.
func ReplaceIdentifiers(text string, repl map[string]string) string {
	if len(repl) == 0 {
		return text
	}
	var sb strings.Builder
	sb.Grow(len(text))
	sc := NewScanner(text, 0, len(text))
	for {
		pos := sc.Pos()
		c, st, ok := sc.Next()
		if !ok {
			break
		}
		if st != Code || !IsIdentStart(c) || (pos > 0 && IsIdentPart(text[pos-1])) {
			sb.WriteString(text[pos:sc.Pos()])
			continue
		}
		end := pos + 1
		for end < len(text) && IsIdentPart(text[end]) {
			end++
		}
		word := text[pos:end]
		if r, found := repl[word]; found {
			sb.WriteString(r)
		} else {
			sb.WriteString(word)
		}
		for sc.Pos() < end {
			sc.Next()
		}
	}
	return sb.String()
}
