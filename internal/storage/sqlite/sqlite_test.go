package sqlite

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDialector_CreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "students.db")

	d, err := Dialector(path)
	require.NoError(t, err)
	require.Equal(t, "sqlite", d.Name())

	info, err := os.Stat(filepath.Dir(path))
	require.NoError(t, err, "parent directory should exist")
	require.True(t, info.IsDir())
}

func TestDialector_UnwritableParent(t *testing.T) {
	parent := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(parent, []byte("x"), 0o600))

	_, err := Dialector(filepath.Join(parent, "students.db"))
	require.Error(t, err, "a regular file cannot be used as a directory")
}
