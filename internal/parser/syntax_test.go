package parser

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyntaxCheckerAcceptsValidJava(t *testing.T) {
	c := NewSyntaxChecker()
	defer c.Close()

	errs, err := c.Check(context.Background(), "Registry.java", []byte(shapes))
	require.NoError(t, err)
	assert.Empty(t, errs)
}

func TestSyntaxCheckerReportsErrors(t *testing.T) {
	c := NewSyntaxChecker()
	defer c.Close()

	src := "class A {\n  void f() {\n    int x = ;\n  }\n}\n"
	errs, err := c.Check(context.Background(), "A.java", []byte(src))
	require.NoError(t, err)
	require.NotEmpty(t, errs)
	assert.Equal(t, "A.java", errs[0].Path)
	assert.Equal(t, 3, errs[0].Line)
}

func TestSyntaxCheckerReportsMissingBrace(t *testing.T) {
	c := NewSyntaxChecker()
	defer c.Close()

	errs, err := c.Check(context.Background(), "B.java", []byte("class B {\n  void f() {\n"))
	require.NoError(t, err)
	assert.NotEmpty(t, errs)
}
