package env

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypedGetters(t *testing.T) {
	t.Setenv("CODEPLAG_STR", "value")
	t.Setenv("CODEPLAG_INT", "42")
	t.Setenv("CODEPLAG_BAD_INT", "forty")
	t.Setenv("CODEPLAG_FLOAT", "0.25")
	t.Setenv("CODEPLAG_BOOL", "true")

	assert.Equal(t, "value", GetEnv("CODEPLAG_STR", "x"))
	assert.Equal(t, "x", GetEnv("CODEPLAG_UNSET", "x"))
	assert.Equal(t, 42, GetEnvInt("CODEPLAG_INT", 1))
	assert.Equal(t, 1, GetEnvInt("CODEPLAG_BAD_INT", 1))
	assert.Equal(t, 0.25, GetEnvFloat("CODEPLAG_FLOAT", 1))
	assert.True(t, GetEnvBool("CODEPLAG_BOOL", false))
	assert.True(t, GetEnvBool("CODEPLAG_UNSET", true))
}

func TestGetEnvList(t *testing.T) {
	t.Setenv("CODEPLAG_LIST", " sort_members, ,remove_comments ")
	assert.Equal(t, []string{"sort_members", "remove_comments"}, GetEnvList("CODEPLAG_LIST", nil))

	t.Setenv("CODEPLAG_LIST", " , ")
	assert.Equal(t, []string{"all"}, GetEnvList("CODEPLAG_LIST", []string{"all"}))
	assert.Nil(t, GetEnvList("CODEPLAG_UNSET", nil))
}

func TestLoadEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("CODEPLAG_FROM_FILE=loaded\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("CODEPLAG_FROM_FILE") })

	require.NoError(t, LoadEnv(path))
	assert.Equal(t, "loaded", GetEnv("CODEPLAG_FROM_FILE", ""))

	assert.Error(t, LoadEnv(filepath.Join(t.TempDir(), "missing.env")))
}
