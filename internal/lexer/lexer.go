package lexer

import "strings"

// Keywords are the reserved and contextual words of Java that never act as
// identifiers in declarations.
var Keywords = map[string]bool{
	"abstract": true, "assert": true, "boolean": true, "break": true, "byte": true,
	"case": true, "catch": true, "char": true, "class": true, "const": true,
	"continue": true, "default": true, "do": true, "double": true, "else": true,
	"enum": true, "extends": true, "final": true, "finally": true, "float": true,
	"for": true, "goto": true, "if": true, "implements": true, "import": true,
	"instanceof": true, "int": true, "interface": true, "long": true, "native": true,
	"new": true, "package": true, "private": true, "protected": true, "public": true,
	"return": true, "short": true, "static": true, "strictfp": true, "super": true,
	"switch": true, "synchronized": true, "this": true, "throw": true, "throws": true,
	"transient": true, "try": true, "void": true, "volatile": true, "while": true,
	"true": true, "false": true, "null": true, "var": true, "record": true,
	"sealed": true, "non-sealed": true, "permits": true, "yield": true,
}

var contextual = map[string]bool{
	"var": true, "record": true, "sealed": true, "non-sealed": true, "permits": true, "yield": true,
}

// IsReserved reports whether word can never be used as an identifier.
// Contextual keywords such as record or var are valid names.
func IsReserved(word string) bool {
	return Keywords[word] && !contextual[word]
}

// TokenType classifies a lexical token.
type TokenType int

const (
	TokenIdent TokenType = iota
	TokenKeyword
	TokenNumber
	TokenString
	TokenChar
	TokenOperator
	TokenPunctuation
	TokenComment
)

// Token is a lexical token of Java source.
type Token struct {
	Type  TokenType
	Value string
	Line  int
}

// Tokenize splits Java source into tokens, dropping whitespace. Comments are
// kept as single tokens so that text which still carries comments compares
// differently from text that had them removed.
func Tokenize(src string) []Token {
	var tokens []Token
	line := 1
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c == '\n':
			line++
			i++
		case isSpace(c):
			i++
		case IsCommentStart(src, i):
			end := SkipComment(src, i, len(src))
			text := src[i:end]
			tokens = append(tokens, Token{Type: TokenComment, Value: strings.Join(strings.Fields(text), " "), Line: line})
			line += strings.Count(text, "\n")
			i = end
		case c == '"' || c == '\'':
			end := skipLiteral(src, i)
			typ := TokenString
			if c == '\'' {
				typ = TokenChar
			}
			text := src[i:end]
			tokens = append(tokens, Token{Type: typ, Value: text, Line: line})
			line += strings.Count(text, "\n")
			i = end
		case IsIdentStart(c):
			end := i + 1
			for end < len(src) && IsIdentPart(src[end]) {
				end++
			}
			word := src[i:end]
			typ := TokenIdent
			if Keywords[word] {
				typ = TokenKeyword
			}
			tokens = append(tokens, Token{Type: typ, Value: word, Line: line})
			i = end
		case c >= '0' && c <= '9' || (c == '.' && i+1 < len(src) && src[i+1] >= '0' && src[i+1] <= '9'):
			end := i + 1
			for end < len(src) && (IsIdentPart(src[end]) || src[end] == '.') {
				end++
			}
			tokens = append(tokens, Token{Type: TokenNumber, Value: src[i:end], Line: line})
			i = end
		case isOperator(c):
			end := i + 1
			if op := longestOperator(src[i:]); op != "" {
				end = i + len(op)
			}
			tokens = append(tokens, Token{Type: TokenOperator, Value: src[i:end], Line: line})
			i = end
		default:
			tokens = append(tokens, Token{Type: TokenPunctuation, Value: string(c), Line: line})
			i++
		}
	}
	return tokens
}

// Values tokenizes src and returns the token values only.
func Values(src string) []string {
	tokens := Tokenize(src)
	values := make([]string, len(tokens))
	for i, t := range tokens {
		values[i] = t.Value
	}
	return values
}

func skipLiteral(src string, i int) int {
	sc := NewScanner(src, i, len(src))
	sc.Next()
	for sc.State() != Code {
		if _, _, ok := sc.Next(); !ok {
			break
		}
	}
	return sc.Pos()
}

func isOperator(c byte) bool {
	return strings.IndexByte("+-*/=<>!&|^%~?:", c) >= 0
}

var operators = []string{
	">>>=", "<<=", ">>=", ">>>", "...", "->", "::", "++", "--", "&&", "||",
	"==", "!=", "<=", ">=", "+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=",
	"<<", ">>",
}

func longestOperator(s string) string {
	for _, op := range operators {
		if strings.HasPrefix(s, op) {
			return op
		}
	}
	return ""
}
