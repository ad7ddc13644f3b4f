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
	assert.NotEmpty(t, ups)
	assert.Equal(t, ups, downs)
}

func TestSchemaMatchesRepositories(t *testing.T) {
	b, err := fs.ReadFile(files, "sql/000002_content_items.up.sql")
	require.NoError(t, err)
	for _, col := range []string{"id", "owner_id", "collection", "data", "created_at"} {
		assert.Contains(t, string(b), col)
	}

	b, err = fs.ReadFile(files, "sql/000001_user_profiles.up.sql")
	require.NoError(t, err)
	assert.Contains(t, string(b), "gin_trgm_ops")
}

func TestRequiresDSN(t *testing.T) {
	_, err := Up("")
	assert.Error(t, err)
	_, err = Down("postgres://x", 0)
	assert.Error(t, err)
}
