package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "postgres", cfg.Database.Username)
	assert.Equal(t, "druginfo", cfg.Database.Database)
	assert.Equal(t, 100, cfg.Seeder.BatchSize)
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[database]
host = "db.internal"
port = 5433
username = "seeder"
password = "secret"
database = "drugs"

[seeder]
batch_size = 250
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 5433, cfg.Database.Port)
	assert.Equal(t, "seeder", cfg.Database.Username)
	assert.Equal(t, "secret", cfg.Database.Password)
	assert.Equal(t, "drugs", cfg.Database.Database)
	assert.Equal(t, 250, cfg.Seeder.BatchSize)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[database]
host = "db.internal"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 100, cfg.Seeder.BatchSize)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[database]
host = "db.internal"
port = 5433
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	t.Setenv("DB_HOST", "db.prod")
	t.Setenv("DB_PORT", "6432")
	t.Setenv("DB_USERNAME", "loader")
	t.Setenv("DB_PASSWORD", "hunter2")
	t.Setenv("DB_NAME", "labels")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "db.prod", cfg.Database.Host)
	assert.Equal(t, 6432, cfg.Database.Port)
	assert.Equal(t, "loader", cfg.Database.Username)
	assert.Equal(t, "hunter2", cfg.Database.Password)
	assert.Equal(t, "labels", cfg.Database.Database)
}

func TestLoad_InvalidEnvPortIgnored(t *testing.T) {
	t.Setenv("DB_PORT", "not-a-port")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 5432, cfg.Database.Port)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
		assert.Error(t, err)
	})

	t.Run("malformed toml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		require.NoError(t, os.WriteFile(path, []byte("[database\nhost="), 0600))
		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("bad batch size", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		require.NoError(t, os.WriteFile(path, []byte("[seeder]\nbatch_size = 0\n"), 0600))
		_, err := Load(path)
		assert.ErrorContains(t, err, "batch size")
	})
}
