package fs

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileAtomic(t *testing.T) {
	t.Run("Creates And Overwrites", func(t *testing.T) {
		dir := t.TempDir()
		filename := filepath.Join(dir, "note.txt")

		require.NoError(t, writeFileAtomic(filename, []byte("first"), 0644))
		require.NoError(t, writeFileAtomic(filename, []byte("second"), 0644))

		got, err := os.ReadFile(filename)
		require.NoError(t, err)
		assert.Equal(t, "second", string(got))
		assertNoTempFiles(t, dir)
	})

	t.Run("Applies Permissions", func(t *testing.T) {
		if runtime.GOOS == "windows" {
			t.Skip("unix permissions")
		}
		filename := filepath.Join(t.TempDir(), "private.txt")
		require.NoError(t, writeFileAtomic(filename, []byte("secret"), 0600))

		info, err := os.Stat(filename)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	})

	t.Run("Fails And Cleans Up", func(t *testing.T) {
		dir := t.TempDir()
		// Renaming a file onto a directory fails after the temp file exists.
		target := filepath.Join(dir, "occupied")
		require.NoError(t, os.Mkdir(target, 0755))
		require.NoError(t, os.WriteFile(filepath.Join(target, "child"), nil, 0644))

		assert.Error(t, writeFileAtomic(target, []byte("x"), 0644))
		assertNoTempFiles(t, dir)
	})

	t.Run("Fails If Directory Missing", func(t *testing.T) {
		filename := filepath.Join(t.TempDir(), "missing", "note.txt")
		assert.Error(t, writeFileAtomic(filename, []byte("x"), 0644))
	})
}

func assertNoTempFiles(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasPrefix(e.Name(), TempFilePrefix), "leftover temp file %s", e.Name())
	}
}
