package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsEmpty(t *testing.T) {
	dir := t.TempDir()

	empty, err := IsEmpty(dir)
	require.NoError(t, err)
	assert.True(t, empty)

	empty, err = IsEmpty(filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.True(t, empty)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a"), nil, 0o600))
	empty, err = IsEmpty(dir)
	require.NoError(t, err)
	assert.False(t, empty)
}

func TestIsWritableLeavesNoProbe(t *testing.T) {
	dir := t.TempDir()
	assert.True(t, IsWritable(dir))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.False(t, IsWritable(filepath.Join(dir, "missing")))
}

func TestWriteFileCreatesParents(t *testing.T) {
	p := filepath.Join(t.TempDir(), "a", "b", "index.html")
	require.NoError(t, WriteFile(p, []byte("<p>x</p>")))

	got, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "<p>x</p>", string(got))
}

func TestCopyDirAndListFiles(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(src, "css"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "css", "site.css"), []byte("body{}"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(src, "logo.svg"), []byte("<svg/>"), 0o600))

	dst := filepath.Join(t.TempDir(), "assets")
	require.NoError(t, CopyDir(src, dst))

	files, err := ListFiles(dst)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dst, "css", "site.css"),
		filepath.Join(dst, "logo.svg"),
	}, files)

	got, err := os.ReadFile(filepath.Join(dst, "css", "site.css"))
	require.NoError(t, err)
	assert.Equal(t, "body{}", string(got))
}

func TestCopyFileMissingSource(t *testing.T) {
	dir := t.TempDir()
	err := CopyFile(filepath.Join(dir, "nope"), filepath.Join(dir, "out"))
	require.Error(t, err)
	assert.False(t, Exists(filepath.Join(dir, "out")))
}
