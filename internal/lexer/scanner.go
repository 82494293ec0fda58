package lexer

import "strings"

// State is the lexical state of the scanner. The states are mutually
// exclusive: a comment marker inside a string literal is string content.
type State int

const (
	Code State = iota
	LineComment
	BlockComment
	StringLiteral
	CharLiteral
	TextBlock
)

// IsComment reports whether the state is one of the comment states.
func (s State) IsComment() bool {
	return s == LineComment || s == BlockComment
}

// Scanner walks Java source a byte at a time. Brace depth is tracked for code
// bytes only, independently of the literal/comment state.
type Scanner struct {
	src   string
	pos   int
	end   int
	state State
	depth int
}

// NewScanner scans src[start:end] starting in the code state.
func NewScanner(src string, start, end int) *Scanner {
	if end > len(src) {
		end = len(src)
	}
	return &Scanner{src: src, pos: start, end: end}
}

func (s *Scanner) Pos() int     { return s.pos }
func (s *Scanner) State() State { return s.state }
func (s *Scanner) Depth() int   { return s.depth }

func (s *Scanner) at(i int, lit string) bool {
	return i+len(lit) <= s.end && s.src[i:i+len(lit)] == lit
}

// Next consumes one byte and returns it with the state it belongs to.
// Delimiters belong to the literal or comment they open or close.
func (s *Scanner) Next() (byte, State, bool) {
	if s.pos >= s.end {
		return 0, s.state, false
	}
	c := s.src[s.pos]

	switch s.state {
	case Code:
		switch {
		case c == '/' && s.at(s.pos, "//"):
			s.state = LineComment
			s.pos += 2
			return c, LineComment, true
		case c == '/' && s.at(s.pos, "/*"):
			s.state = BlockComment
			s.pos += 2
			return c, BlockComment, true
		case c == '"' && s.at(s.pos, `"""`):
			s.state = TextBlock
			s.pos += 3
			return c, TextBlock, true
		case c == '"':
			s.state = StringLiteral
			s.pos++
			return c, StringLiteral, true
		case c == '\'':
			s.state = CharLiteral
			s.pos++
			return c, CharLiteral, true
		case c == '{':
			s.depth++
		case c == '}':
			s.depth--
		}
		s.pos++
		return c, Code, true

	case LineComment:
		if c == '\n' {
			s.state = Code
			s.pos++
			return c, Code, true
		}
		s.pos++
		return c, LineComment, true

	case BlockComment:
		if c == '*' && s.at(s.pos, "*/") {
			s.state = Code
			s.pos += 2
			return c, BlockComment, true
		}
		s.pos++
		return c, BlockComment, true

	case TextBlock:
		if c == '\\' {
			s.pos = min(s.pos+2, s.end)
			return c, TextBlock, true
		}
		if c == '"' && s.at(s.pos, `"""`) {
			s.state = Code
			s.pos += 3
			return c, TextBlock, true
		}
		s.pos++
		return c, TextBlock, true

	default: // string or char literal
		quote := byte('"')
		if s.state == CharLiteral {
			quote = '\''
		}
		st := s.state
		switch c {
		case '\\':
			s.pos = min(s.pos+2, s.end)
		case quote:
			s.state = Code
			s.pos++
		case '\n':
			// unterminated literal, resume as code
			s.state = Code
			s.pos++
			return c, Code, true
		default:
			s.pos++
		}
		return c, st, true
	}
}

// IsCommentStart reports whether a comment opens at src[i].
func IsCommentStart(src string, i int) bool {
	return i+1 < len(src) && src[i] == '/' && (src[i+1] == '/' || src[i+1] == '*')
}

// SkipComment returns the offset just past the comment opening at src[i].
// A line comment ends before its newline.
func SkipComment(src string, i, end int) int {
	sc := NewScanner(src, i, end)
	for {
		pos := sc.Pos()
		_, st, ok := sc.Next()
		if !ok {
			return sc.Pos()
		}
		if !st.IsComment() {
			return pos
		}
		if sc.State() == Code {
			return sc.Pos()
		}
	}
}

// MatchBrace returns the offset of the '}' closing the '{' at src[open], or
// -1 when the block is not closed before end.
func MatchBrace(src string, open, end int) int {
	sc := NewScanner(src, open, end)
	for {
		pos := sc.Pos()
		c, st, ok := sc.Next()
		if !ok {
			return -1
		}
		if st == Code && c == '}' && sc.Depth() == 0 {
			return pos
		}
	}
}

// StripComments removes comments from text together with the horizontal
// whitespace in front of them. A comment standing on a line of its own also
// takes the rest of that line, so the line disappears entirely. A comment
// that opens a line of code keeps the line's indentation and drops the blanks
// after it.
func StripComments(text string) string {
	if !strings.Contains(text, "/") {
		return text
	}
	var sb strings.Builder
	sc := NewScanner(text, 0, len(text))
	for {
		pos := sc.Pos()
		c, st, ok := sc.Next()
		if !ok {
			break
		}
		if !st.IsComment() {
			sb.WriteByte(c)
			continue
		}
		kept := strings.TrimRight(sb.String(), " \t")
		lineStart := kept == "" || strings.HasSuffix(kept, "\n")

		end := SkipComment(text, pos, len(text))
		switch {
		case lineStart && RestOfLineBlank(text, end):
			end = SkipLineEnd(text, end)
		case lineStart:
			end = SkipBlanks(text, end, len(text))
			kept = sb.String()
		}
		sb.Reset()
		sb.WriteString(kept)
		sc = NewScanner(text, end, len(text))
	}
	return sb.String()
}

// RestOfLineBlank reports whether only horizontal whitespace follows i up to
// the next newline or the end of text.
func RestOfLineBlank(text string, i int) bool {
	k := SkipBlanks(text, i, len(text))
	return k == len(text) || text[k] == '\n' || text[k] == '\r'
}

// SkipBlanks returns the offset past spaces and tabs starting at i.
func SkipBlanks(text string, i, end int) int {
	for i < end && (text[i] == ' ' || text[i] == '\t') {
		i++
	}
	return i
}

// SkipLineEnd returns the offset past trailing horizontal whitespace and one
// newline starting at i, or i itself when other text follows on the line.
func SkipLineEnd(text string, i int) int {
	k := i
	for k < len(text) && (text[k] == ' ' || text[k] == '\t' || text[k] == '\r') {
		k++
	}
	if k < len(text) && text[k] == '\n' {
		return k + 1
	}
	return i
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

// IsSpace reports whether c is Java whitespace.
func IsSpace(c byte) bool { return isSpace(c) }

// IsIdentStart reports whether c can begin a Java identifier.
func IsIdentStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= 0x80
}

// IsIdentPart reports whether c can continue a Java identifier.
func IsIdentPart(c byte) bool {
	return IsIdentStart(c) || (c >= '0' && c <= '9')
}
