package store

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationFiles(t *testing.T) {
	t.Parallel()

	t.Run("embedded", func(t *testing.T) {
		t.Parallel()

		files, err := migrationFiles(migrationsFS)
		require.NoError(t, err)
		require.NotEmpty(t, files)
		assert.Equal(t, "001_initial_schema.sql", files[0])
		assert.IsNonDecreasing(t, files)
	})

	t.Run("sorted and filtered", func(t *testing.T) {
		t.Parallel()

		fsys := fstest.MapFS{
			"migrations/010_later.sql":    {Data: []byte("SELECT 1")},
			"migrations/002_second.sql":   {Data: []byte("SELECT 1")},
			"migrations/README.md":        {Data: []byte("notes")},
			"migrations/001_first.sql":    {Data: []byte("SELECT 1")},
			"migrations/old/003_skip.sql": {Data: []byte("SELECT 1")},
		}
		files, err := migrationFiles(fsys)
		require.NoError(t, err)
		assert.Equal(t, []string{"001_first.sql", "002_second.sql", "010_later.sql"}, files)
	})

	t.Run("missing directory", func(t *testing.T) {
		t.Parallel()

		_, err := migrationFiles(fstest.MapFS{})
		require.Error(t, err)
	})
}

func TestPending(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		versions []string
		applied  []string
		want     []string
	}{
		{name: "fresh database", versions: []string{"001.sql", "002.sql"}, want: []string{"001.sql", "002.sql"}},
		{name: "partially applied", versions: []string{"001.sql", "002.sql"}, applied: []string{"001.sql"}, want: []string{"002.sql"}},
		{name: "up to date", versions: []string{"001.sql"}, applied: []string{"001.sql"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, pending(tt.versions, tt.applied))
		})
	}
}
