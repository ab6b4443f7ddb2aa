package migration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/printshop/backend/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add quote notes", "add_quote_notes"},
		{"Add-Quote-Notes", "add_quote_notes"},
		{"ADD__QUOTE__NOTES", "add_quote_notes"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"trailing_", "trailing"},
		{"_leading", "leading"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreateMigration(t *testing.T) {
	t.Run("numbers the first migration 000001", func(t *testing.T) {
		dir := t.TempDir()

		mf, err := CreateMigration(dir, "add quote notes", "Adds notes to quotes")
		require.NoError(t, err)
		assert.Equal(t, "000001", mf.Version)
		assert.Equal(t, filepath.Join(dir, "000001_add_quote_notes.up.sql"), mf.UpPath)
		assert.Equal(t, filepath.Join(dir, "000001_add_quote_notes.down.sql"), mf.DownPath)

		up, err := os.ReadFile(mf.UpPath)
		require.NoError(t, err)
		assert.Contains(t, string(up), "Adds notes to quotes")

		down, err := os.ReadFile(mf.DownPath)
		require.NoError(t, err)
		assert.Contains(t, string(down), "Rollback of 000001_add_quote_notes")
	})

	t.Run("continues after the highest version", func(t *testing.T) {
		dir := t.TempDir()
		for _, name := range []string{"000002_b.up.sql", "000002_b.down.sql", "000010_c.up.sql", "000010_c.down.sql"} {
			require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
		}

		mf, err := CreateMigration(dir, "next", "")
		require.NoError(t, err)
		assert.Equal(t, "000011", mf.Version)
	})

	t.Run("rejects an empty name", func(t *testing.T) {
		_, err := CreateMigration(t.TempDir(), "!!!", "")
		assert.Error(t, err)
	})
}

func TestListMigrations(t *testing.T) {
	t.Run("missing directory is empty", func(t *testing.T) {
		names, err := ListMigrations(filepath.Join(t.TempDir(), "absent"))
		require.NoError(t, err)
		assert.Empty(t, names)
	})

	t.Run("orders by numeric version", func(t *testing.T) {
		dir := t.TempDir()
		for _, name := range []string{"000010_late.up.sql", "000002_early.up.sql", "000002_early.down.sql", "README.md"} {
			require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
		}

		names, err := ListMigrations(dir)
		require.NoError(t, err)
		assert.Equal(t, []string{"000002_early", "000010_late"}, names)
	})
}

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	entries, err := migrations.FS.ReadDir(".")
	require.NoError(t, err)

	files := make(map[string]bool)
	for _, e := range entries {
		files[e.Name()] = true
	}
	ups := 0
	for name := range files {
		match := versionPattern.FindStringSubmatch(name)
		if match == nil || match[3] != "up" {
			continue
		}
		ups++
		assert.True(t, files[match[1]+"_"+match[2]+".down.sql"], "missing down migration for %s", name)
	}
	assert.GreaterOrEqual(t, ups, 4)
}
