package filepathparser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePath_AbsolutePath(t *testing.T) {
	absPath, _ := os.Getwd()

	result, err := ParsePath(absPath)

	require.NoError(t, err)
	assert.Equal(t, absPath, result)
}

func TestParsePath_HomeDir(t *testing.T) {
	home, _ := os.UserHomeDir()
	expected, _ := filepath.Abs(filepath.Join(home, ".postman-dynatrace-converter", "notes.db"))

	result, err := ParsePath("~/.postman-dynatrace-converter/notes.db")

	require.NoError(t, err)
	assert.Equal(t, expected, result)
}

func TestParsePath_RelativePath(t *testing.T) {
	relPath := "collections/api.postman_collection.json"
	expected, _ := filepath.Abs(relPath)

	result, err := ParsePath(relPath)

	require.NoError(t, err)
	assert.Equal(t, expected, result)
}

func TestParsePath_EmptyPath(t *testing.T) {
	wd, _ := os.Getwd()

	result, err := ParsePath("")

	require.NoError(t, err)
	assert.Equal(t, wd, result)
}

func TestEnsureParentDir(t *testing.T) {
	target := filepath.Join(t.TempDir(), "nested", "deeper", "notes.db")

	result, err := EnsureParentDir(target)

	require.NoError(t, err)
	assert.Equal(t, target, result)
	info, err := os.Stat(filepath.Dir(target))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	_, err = os.Stat(target)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestEnsureParentDir_ParentIsAFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	_, err := EnsureParentDir(filepath.Join(file, "notes.db"))

	assert.Error(t, err)
}
