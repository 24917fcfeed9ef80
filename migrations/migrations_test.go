package migrations

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	entries, err := fs.ReadDir(files, "sql")
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	ups := map[string]bool{}
	downs := map[string]bool{}
	for _, e := range entries {
		name := e.Name()
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups[strings.TrimSuffix(name, ".up.sql")] = true
		case strings.HasSuffix(name, ".down.sql"):
			downs[strings.TrimSuffix(name, ".down.sql")] = true
		default:
			t.Errorf("unexpected file %s", name)
		}
	}
	assert.Equal(t, ups, downs)
	assert.Contains(t, ups, "000001_create_entities")
	assert.Contains(t, ups, "000002_create_app_settings")
}

func TestEntitiesMigrationCreatesTables(t *testing.T) {
	b, err := fs.ReadFile(files, "sql/000001_create_entities.up.sql")
	require.NoError(t, err)
	sql := string(b)

	assert.Contains(t, sql, "CREATE TABLE IF NOT EXISTS user_entity")
	assert.Contains(t, sql, "CREATE TABLE IF NOT EXISTS relationship_entity")
	assert.Contains(t, sql, "PRIMARY KEY (user_id, friend_id)")
}
