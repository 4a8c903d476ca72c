package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strawberry-py/strawberry-go/internal/config"
)

func writeYAML(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("TOKEN", "secret")
	t.Setenv("DB_STRING", "postgresql://user:pass@db:5432/strawberry")

	cfg, err := config.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "secret", cfg.Discord.Token)
	assert.Equal(t, "strawberry", cfg.InstanceName)
	assert.Equal(t, "UTC", cfg.Timezone)
	assert.Equal(t, "@daily", cfg.Backup.Schedule)
	assert.Equal(t, "backups", cfg.Backup.Path)
	assert.Equal(t, 7, cfg.Backup.Keep)
	assert.Equal(t, "logs", cfg.EventLog.Dir)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "UTC", cfg.Location().String())
}

func TestLoadConfig_EnvOverridesYAML(t *testing.T) {
	path := writeYAML(t, `
discord:
  token: from-yaml
  guild_ids: [1, 2]
database:
  dsn: postgresql://yaml@db/strawberry
instance_name: yaml-instance
log_level: debug
`)

	t.Setenv("TOKEN", "from-env")
	t.Setenv("INSTANCE_NAME", "env-instance")
	t.Setenv("BOT_TIMEZONE", "Europe/Prague")
	t.Setenv("BOT_OWNER_IDS", "10,20")

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Discord.Token)
	assert.Equal(t, "env-instance", cfg.InstanceName)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "postgresql://yaml@db/strawberry", cfg.Database.DSN)
	assert.Equal(t, []discord.GuildID{1, 2}, cfg.Discord.GuildIDs)
	assert.Equal(t, []discord.UserID{10, 20}, cfg.Discord.OwnerIDs)
	assert.Equal(t, "Europe/Prague", cfg.Location().String())
}

func TestLoadConfig_ComposesDSN(t *testing.T) {
	t.Setenv("TOKEN", "secret")
	t.Setenv("DB_NAME", "strawberry")
	t.Setenv("DB_USER", "pie")
	t.Setenv("DB_PASSWORD", "p@ss")

	cfg, err := config.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "postgresql://pie:p%40ss@db:5432/strawberry", cfg.Database.DSN)
}

func TestLoadConfig_Errors(t *testing.T) {
	missing := func(t *testing.T) string { return filepath.Join(t.TempDir(), "missing.yaml") }

	t.Run("MissingToken", func(t *testing.T) {
		t.Setenv("TOKEN", "")
		t.Setenv("DB_STRING", "postgresql://db/strawberry")

		_, err := config.LoadConfig(missing(t))
		assert.ErrorIs(t, err, config.ErrMissingToken)
		assert.ErrorIs(t, err, config.ErrInvalidConfig)
	})

	t.Run("MissingDatabase", func(t *testing.T) {
		t.Setenv("TOKEN", "secret")
		t.Setenv("DB_STRING", "")
		t.Setenv("DB_NAME", "")

		_, err := config.LoadConfig(missing(t))
		assert.ErrorIs(t, err, config.ErrMissingDatabase)
	})

	t.Run("BadTimezone", func(t *testing.T) {
		t.Setenv("TOKEN", "secret")
		t.Setenv("DB_STRING", "postgresql://db/strawberry")
		t.Setenv("BOT_TIMEZONE", "Mars/Olympus")

		_, err := config.LoadConfig(missing(t))
		assert.ErrorIs(t, err, config.ErrInvalidConfig)
	})

	t.Run("BadSchedule", func(t *testing.T) {
		t.Setenv("TOKEN", "secret")
		t.Setenv("DB_STRING", "postgresql://db/strawberry")
		t.Setenv("BACKUP_SCHEDULE", "every now and then")

		_, err := config.LoadConfig(missing(t))
		assert.ErrorIs(t, err, config.ErrInvalidConfig)
	})

	t.Run("BadKeep", func(t *testing.T) {
		t.Setenv("TOKEN", "secret")
		t.Setenv("DB_STRING", "postgresql://db/strawberry")
		t.Setenv("BACKUP_KEEP", "0")

		_, err := config.LoadConfig(missing(t))
		assert.ErrorIs(t, err, config.ErrInvalidConfig)
	})

	t.Run("BadYAML", func(t *testing.T) {
		_, err := config.LoadConfig(writeYAML(t, "discord: [unterminated"))
		assert.Error(t, err)
	})
}

func TestLoadConfig_BackupsDisabled(t *testing.T) {
	t.Setenv("TOKEN", "secret")
	t.Setenv("DB_STRING", "postgresql://db/strawberry")
	t.Setenv("BACKUP_SCHEDULE", "")
	t.Setenv("BACKUP_KEEP", "0")

	cfg, err := config.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Empty(t, cfg.Backup.Schedule)
	assert.Equal(t, 0, cfg.Backup.Keep)
}
