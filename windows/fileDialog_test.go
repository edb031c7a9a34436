package windows

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListDirectory(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.csv", "a.PARQUET", "notes.md", ".hidden.csv"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}
	for _, name := range []string{"zeta", "alpha", ".git"} {
		require.NoError(t, os.Mkdir(filepath.Join(dir, name), 0o755))
	}

	entries, err := listDirectory(dir, DataExtensions)
	require.NoError(t, err)
	assert.Equal(t, []dirEntry{
		{Name: "alpha", IsDir: true},
		{Name: "zeta", IsDir: true},
		{Name: "a.PARQUET"},
		{Name: "b.csv"},
	}, entries)

	_, err = listDirectory(filepath.Join(dir, "missing"), DataExtensions)
	assert.Error(t, err)
}

func TestHasExtension(t *testing.T) {
	assert.True(t, hasExtension("p.share", ProfileExtensions))
	assert.False(t, hasExtension("p.csv", ProfileExtensions))
	assert.False(t, hasExtension("share", ProfileExtensions))
}
