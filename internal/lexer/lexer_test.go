package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScannerStates(t *testing.T) {
	src := `a "//x" /* "q" */ 'c' // end` + "\nb"
	var code []byte
	sc := NewScanner(src, 0, len(src))
	for {
		c, st, ok := sc.Next()
		if !ok {
			break
		}
		if st == Code {
			code = append(code, c)
		}
	}
	assert.Equal(t, "a    \nb", string(code))
}

func TestMatchBrace(t *testing.T) {
	src := `{ a("}"); { b('{'); } /* } */ }x`
	assert.Equal(t, len(src)-2, MatchBrace(src, 0, len(src)))
	assert.Equal(t, -1, MatchBrace("{ {", 0, 3))
}

func TestSkipComment(t *testing.T) {
	src := "// line\nnext"
	assert.Equal(t, 7, SkipComment(src, 0, len(src)))
	src = "/* block */x"
	assert.Equal(t, 11, SkipComment(src, 0, len(src)))
	src = "/* open"
	assert.Equal(t, len(src), SkipComment(src, 0, len(src)))
}

func TestStripComments(t *testing.T) {
	assert.Equal(t, "int x;", StripComments("int x; // trailing"))
	assert.Equal(t, "int x = 1;", StripComments("int x /* c */ = 1;"))
	assert.Equal(t, `s = "/* kept */";`, StripComments(`s = "/* kept */";`))
	assert.Equal(t, "a;\n  b;", StripComments("a;\n  // c\n  b;"))
	assert.Equal(t, "@Override\n  void f()", StripComments("@Override\n  /** doc */\n  void f()"))
	assert.Equal(t, "  int x;", StripComments("  /* a */ int x;"))
	assert.Equal(t, "a;\n    b;", StripComments("a;\n    /* c */  b;"))
}

func TestSplitTopLevel(t *testing.T) {
	assert.Equal(t,
		[]string{"Map<String, Integer> m", "int[] a", "List<Pair<A, B>> l"},
		SplitTopLevel("Map<String, Integer> m, int[] a , List<Pair<A, B>> l", ','))
	assert.Equal(t, []string{`f("a,b")`, "c"}, SplitTopLevel(`f("a,b"), c`, ','))
	assert.Empty(t, SplitTopLevel("  ", ','))
}

func TestFields(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"public static void main", []string{"public", "static", "void", "main"}},
		{"Map<String,  Integer> counts", []string{"Map<String, Integer>", "counts"}},
		{"String [] args", []string{"String[]", "args"}},
		{"List <String> names", []string{"List<String>", "names"}},
		{"public <T> T first", []string{"public", "<T>", "T", "first"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Fields(tt.in), tt.in)
	}
}

func TestReplaceIdentifiers(t *testing.T) {
	repl := map[string]string{"a": "b", "b": "a", "x": "y"}
	got := ReplaceIdentifiers(`int a = b + x1 + "a b" + 'a'; // a`, repl)
	assert.Equal(t, `int b = a + x1 + "a b" + 'a'; // a`, got)
	assert.Equal(t, "this.y = y;", ReplaceIdentifiers("this.x = x;", repl))
}

func TestTokenize(t *testing.T) {
	tokens := Tokenize("int x = a >>= 2; // note\nreturn \"s\";")
	values := make([]string, len(tokens))
	for i, tok := range tokens {
		values[i] = tok.Value
	}
	assert.Equal(t, []string{"int", "x", "=", "a", ">>=", "2", ";", "// note", "return", `"s"`, ";"}, values)
	assert.Equal(t, TokenKeyword, tokens[0].Type)
	assert.Equal(t, TokenComment, tokens[7].Type)
	assert.Equal(t, 2, tokens[8].Line)
}

func TestIsReserved(t *testing.T) {
	assert.True(t, IsReserved("class"))
	assert.False(t, IsReserved("record"))
	assert.False(t, IsReserved("value"))
}
