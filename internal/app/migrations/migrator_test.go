package migrations

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersion(t *testing.T) {
	assert.Equal(t, "001", Version("001_init.sql"))
	assert.Equal(t, "002", Version("/x/y/002_add_archive_index.sql"))
}

func TestSQLFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"002_b.sql", "001_a.sql", "README.md"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("--"), 0o600))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "003_dir.sql"), 0o700))

	files, err := SQLFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"001_a.sql", "002_b.sql"}, files)
}

func TestRepositoryMigrationsAreOrdered(t *testing.T) {
	files, err := SQLFiles(filepath.Join("..", "..", "..", "migrations"))
	require.NoError(t, err)
	require.NotEmpty(t, files)

	seen := map[string]bool{}
	for _, f := range files {
		v := Version(f)
		assert.False(t, seen[v], "duplicate migration version %s", v)
		seen[v] = true
	}
}

// appointments must have a student or a project, so removing a project cannot
// leave its project-wide appointments without either
func TestInitMigration_ProjectDeleteCascadesToAppointments(t *testing.T) {
	body, err := os.ReadFile(filepath.Join("..", "..", "..", "migrations", "001_init.sql"))
	require.NoError(t, err)
	sql := string(body)

	assert.Contains(t, sql, "CHECK (student_id IS NOT NULL OR project_id IS NOT NULL)")
	assert.Regexp(t, regexp.MustCompile(`project_id\s+BIGINT REFERENCES projects\(id\) ON DELETE CASCADE`), sql)
}
