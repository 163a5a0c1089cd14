package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
}

func TestDiscovery_FindInputFiles(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "b.csv")
	touch(t, dir, "a.xlsx")
	touch(t, dir, "c.CSV")
	touch(t, dir, "notes.txt")
	touch(t, dir, "~$a.xlsx")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.csv"), 0755))

	d := NewDiscovery("")
	got, err := d.FindInputFiles(dir)
	require.NoError(t, err)

	require.Len(t, got, 3)
	// Sorted by name, lock files and directories skipped.
	assert.Equal(t, "a.xlsx", got[0].Name)
	assert.Equal(t, "b.csv", got[1].Name)
	assert.Equal(t, "c.CSV", got[2].Name)
	assert.Equal(t, filepath.Join(dir, "b.csv"), got[1].Path)
}

func TestDiscovery_FindInputFiles_MissingDir(t *testing.T) {
	d := NewDiscovery("")
	_, err := d.FindInputFiles(filepath.Join(t.TempDir(), "absent"))
	assert.Error(t, err)
}

func TestDiscovery_RelativeDirUsesBasePath(t *testing.T) {
	base := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(base, "data"), 0755))
	touch(t, filepath.Join(base, "data"), "meters.csv")

	d := NewDiscovery(base)
	got, err := d.FindInputFiles("data")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "meters.csv", got[0].Name)
}

func TestStem(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"data/Library.csv", "Library"},
		{"/abs/path/Dormitory.xlsx", "Dormitory"},
		{"Cafeteria", "Cafeteria"},
		{"archive.tar.gz", "archive.tar"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Stem(tt.path), "Stem(%q)", tt.path)
	}
}
