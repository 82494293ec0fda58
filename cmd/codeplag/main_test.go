package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/RishiKendai/codeplag/internal/normalize"
	"github.com/RishiKendai/codeplag/internal/plagiarism"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const adder = `class Calc {
  // adds
  public int add(int a, int b) { return a + b; }
}
`

const summer = `class Calc {
  public int sum(int x, int y) {
    return x + y;
  }
}
`

func writeJava(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := newApp(&out).Run(append([]string{"codeplag"}, args...))
	return out.String(), err
}

func TestCompareCommand(t *testing.T) {
	dir := t.TempDir()
	a := writeJava(t, dir, "Adder.java", adder)
	b := writeJava(t, dir, "Summer.java", summer)

	out, err := run(t, "compare", "--report", a, b)
	require.NoError(t, err)
	assert.Contains(t, out, "fingerprint comparison of 2 files, method threshold none")
	assert.Contains(t, out, "100%")
	assert.Contains(t, out, "Adder.java <--> Summer.java")
	assert.Contains(t, out, "Adder.java:method0 <--> Summer.java:method0 Score 100")
}

func TestCompareCommandSkipsUnreadableFiles(t *testing.T) {
	dir := t.TempDir()
	a := writeJava(t, dir, "Adder.java", adder)
	b := writeJava(t, dir, "Summer.java", summer)

	out, err := run(t, "compare", "-a", "sequence", a, b, filepath.Join(dir, "Missing.java"))
	require.NoError(t, err)
	assert.Contains(t, out, "Skipped: read ")
	assert.Contains(t, out, "sequence comparison of 2 files")
}

func TestCompareCommandRejectsBadSettings(t *testing.T) {
	dir := t.TempDir()
	a := writeJava(t, dir, "Adder.java", adder)
	b := writeJava(t, dir, "Summer.java", summer)

	tests := []struct {
		name string
		args []string
		is   func(error) bool
	}{
		{
			name: "unknown algorithm",
			args: []string{"compare", "-a", "magic", a, b},
			is: func(err error) bool {
				var cerr *plagiarism.ConfigError
				return errors.As(err, &cerr)
			},
		},
		{
			name: "unknown feature",
			args: []string{"compare", "-F", "shuffle", a, b},
			is:   func(err error) bool { return errors.Is(err, normalize.ErrUnknownFeature) },
		},
		{
			name: "bad threshold",
			args: []string{"compare", "-t", "lots", a, b},
			is: func(err error) bool {
				var cerr *plagiarism.ConfigError
				return errors.As(err, &cerr)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			require.Error(t, err)
			assert.True(t, tt.is(err), err.Error())
		})
	}

	_, err := run(t, "compare", a)
	assert.ErrorContains(t, err, "at least 2")
}

func TestNormalizeCommand(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "out")
	a := writeJava(t, dir, "Adder.java", adder)

	out, err := run(t, "normalize", "--out", outDir, "-F", "remove_comments", a)
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(outDir, "Adder.java"))

	written, err := os.ReadFile(filepath.Join(outDir, "Adder.java"))
	require.NoError(t, err)
	assert.NotContains(t, string(written), "// adds")

	original, err := os.ReadFile(a)
	require.NoError(t, err)
	assert.Equal(t, adder, string(original))
}

func TestNormalizeCommandReadsOutputDirFromEnv(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "from-env")
	t.Setenv("NORMALIZED_OUTPUT_DIR", outDir)
	a := writeJava(t, dir, "Adder.java", adder)

	_, err := run(t, "normalize", "-F", "remove_comments", a)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(outDir, "Adder.java"))
}

func TestNormalizeCommandChecksSyntax(t *testing.T) {
	dir := t.TempDir()
	broken := writeJava(t, dir, "Broken.java", "class Broken {\n  int f() {\n    int x = ;\n  }\n}\n")

	out, err := run(t, "normalize", "--out", filepath.Join(dir, "out"), "--check-syntax", broken)
	require.NoError(t, err)
	assert.Contains(t, out, "Broken.java:3:")
}
