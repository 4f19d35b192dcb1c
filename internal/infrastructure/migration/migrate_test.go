package migration

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListMigrations(t *testing.T) {
	names, err := ListMigrations()
	require.NoError(t, err)

	assert.Equal(t, []string{
		"000001_create_kv_blobs",
		"000002_kv_blobs_updated_at_index",
	}, names)
}

func TestEmbeddedMigrations_HaveDownFiles(t *testing.T) {
	names, err := ListMigrations()
	require.NoError(t, err)

	for _, name := range names {
		down, err := fs.ReadFile(migrationFiles, sourceDir+"/"+name+".down.sql")
		require.NoError(t, err, name)
		assert.NotEmpty(t, strings.TrimSpace(string(down)), name)
	}
}

func TestCreateTableMatchesBlobModel(t *testing.T) {
	up, err := fs.ReadFile(migrationFiles, "sql/000001_create_kv_blobs.up.sql")
	require.NoError(t, err)

	sql := string(up)
	assert.Contains(t, sql, "CREATE TABLE IF NOT EXISTS kv_blobs")
	for _, column := range []string{"key", "value", "updated_at"} {
		assert.Contains(t, sql, column)
	}
	assert.Contains(t, sql, "PRIMARY KEY")
}
