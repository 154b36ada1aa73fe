package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunMigrations(t *testing.T) {
	conn, err := NewSQLiteDB(filepath.Join(t.TempDir(), "nested", "sumup.db"))
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, RunMigrations(conn))
	// second run is a no-op
	require.NoError(t, RunMigrations(conn))

	var tables []string
	require.NoError(t, conn.Select(&tables,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name IN ('summaries', 'exports') ORDER BY name`))
	assert.Equal(t, []string{"exports", "summaries"}, tables)

	var fk int
	require.NoError(t, conn.Get(&fk, `PRAGMA foreign_keys`))
	assert.Equal(t, 1, fk)
}
