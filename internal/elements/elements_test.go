package elements

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSignature(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		wantName   string
		wantReturn string
		wantLevel  ProtectionLevel
		wantStatic bool
		wantParams []string
	}{
		{
			name:       "public static",
			header:     "public static int add(int a, int b) {",
			wantName:   "add",
			wantReturn: "int",
			wantLevel:  Public,
			wantStatic: true,
			wantParams: []string{"int a", "int b"},
		},
		{
			name:       "package private default",
			header:     "void run() {",
			wantName:   "run",
			wantReturn: "void",
			wantLevel:  PackagePrivate,
		},
		{
			name:       "generic parameter",
			header:     "protected final Map<K, V> merge(Map<K, V> left, Map<K, V> right) {",
			wantName:   "merge",
			wantReturn: "Map<K, V>",
			wantLevel:  Protected,
			wantParams: []string{"Map<K, V> left", "Map<K, V> right"},
		},
		{
			name:       "type parameters and throws",
			header:     "private <T extends Comparable<T>> T max(List<T> items) throws IOException {",
			wantName:   "max",
			wantReturn: "T",
			wantLevel:  Private,
			wantParams: []string{"List<T> items"},
		},
		{
			name:      "constructor",
			header:    "public Stack(int capacity) {",
			wantName:  "Stack",
			wantLevel: Public,
			wantParams: []string{
				"int capacity",
			},
		},
		{
			name:       "annotated abstract",
			header:     "@Override\n  // doc\n  abstract String name();",
			wantName:   "name",
			wantReturn: "String",
			wantLevel:  PackagePrivate,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig, err := ParseSignature(tt.header)
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, sig.Name)
			assert.Equal(t, tt.wantReturn, sig.ReturnType)
			assert.Equal(t, tt.wantLevel, sig.Protection)
			assert.Equal(t, tt.wantStatic, sig.Static)
			assert.Equal(t, tt.wantParams, sig.Params)
		})
	}
}

func TestParseSignatureRejectsMalformedHeaders(t *testing.T) {
	for _, header := range []string{"{", "int x;", "(a, b) {", "int 3x() {", "a.b(1);"} {
		_, err := ParseSignature(header)
		assert.Error(t, err, header)
	}
}

func TestParseVariable(t *testing.T) {
	typ, name, init, level, err := ParseVariable("private final int[] counts = {1, 2};")
	require.NoError(t, err)
	assert.Equal(t, "int[]", typ)
	assert.Equal(t, "counts", name)
	assert.Equal(t, "{1, 2}", init)
	assert.Equal(t, Private, level)

	typ, name, _, _, err = ParseVariable("String args[]")
	require.NoError(t, err)
	assert.Equal(t, "String[]", typ)
	assert.Equal(t, "args", name)

	typ, name, init, _, err = ParseVariable("int a = 1, b = a == 1 ? 2 : 3;")
	require.NoError(t, err)
	assert.Equal(t, "int", typ)
	assert.Equal(t, "a", name)
	assert.Equal(t, "1, b = a == 1 ? 2 : 3", init)

	_, _, _, _, err = ParseVariable("x;")
	assert.Error(t, err)
}

func TestParseContainerHeader(t *testing.T) {
	kw, name, level, ok := ParseContainerHeader("public final class Box<T extends Number> implements Comparable<Box<T>> {")
	require.True(t, ok)
	assert.Equal(t, "class", kw)
	assert.Equal(t, "Box", name)
	assert.Equal(t, Public, level)

	_, _, _, ok = ParseContainerHeader("void save(int record, Foo bar) {")
	assert.False(t, ok)
	_, _, _, ok = ParseContainerHeader("static {")
	assert.False(t, ok)
}

func TestMethodSetTextKeepsParameterIdentity(t *testing.T) {
	var next ID
	nextID := func() ID { next++; return next }

	body := []Element{NewCodeLine(nextID(), " return a; ")}
	m, err := NewMethod(nextID(), "int id(int a) {", body, "}", nextID)
	require.NoError(t, err)
	paramID := m.Params[0].ID()
	assert.Equal(t, "int id(int a) { return a; }", m.Text())

	m.SetText("int method1(int method1Arg0) {")
	assert.Equal(t, "method1", m.Name)
	assert.Equal(t, "method1Arg0", m.Params[0].Name)
	assert.Equal(t, paramID, m.Params[0].ID())

	require.Error(t, m.Reparse("not a header"))
	assert.Equal(t, "method1", m.Name)
}

func TestVariableSetText(t *testing.T) {
	v, err := NewVariable(1, "ArrayList<String> xs = new ArrayList<>();")
	require.NoError(t, err)
	v.SetText("List<String> xs = new ArrayList<>();")
	assert.Equal(t, "List<String>", v.Type)

	v.SetText("garbage")
	assert.Equal(t, "garbage", v.Text())
	assert.Equal(t, "List<String>", v.Type)
}

func TestProtectionLevelOrder(t *testing.T) {
	assert.Less(t, Public, Protected)
	assert.Less(t, Protected, PackagePrivate)
	assert.Less(t, PackagePrivate, Private)
	assert.Equal(t, "package-private", PackagePrivate.String())
}

func TestSequencesVisitsNestedFirst(t *testing.T) {
	f := NewJavaFile("/tmp/A.java")
	inner := NewContainer(f.NextID(), "class B {", []Element{NewCodeLine(f.NextID(), " ")}, "}")
	outer := NewContainer(f.NextID(), "class A {", []Element{inner}, "}")
	f.Elements = []Element{outer}

	var sizes []int
	f.Sequences(func(seq []Element) []Element {
		sizes = append(sizes, len(seq))
		return seq
	})
	assert.Equal(t, []int{1, 1, 1}, sizes)
	assert.Equal(t, "A.java", f.Name())
	assert.Equal(t, "class A {class B { }}", f.Text())
}
