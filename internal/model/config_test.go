package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.Store.Driver)
	assert.Equal(t, 7, cfg.Reminder.StaleDays)
	assert.Equal(t, "Drafts", cfg.Share.Mail.Mailbox)
	assert.Len(t, cfg.Users, 3)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
owner: carlo
users:
  - id: carlo
    name: Carlo
  - id: ana
    name: Ana
data_dir: /tmp/tracker-data
store:
  driver: redis
  redis:
    addr: redis:6379
    db: 2
reminder:
  stale_days: 3
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "carlo", cfg.Owner)
	assert.Len(t, cfg.Users, 2)
	assert.Equal(t, DriverRedis, cfg.Store.Driver)
	assert.Equal(t, "redis:6379", cfg.Store.Redis.Addr)
	assert.Equal(t, 2, cfg.Store.Redis.DB)
	assert.Equal(t, 3, cfg.Reminder.StaleDays)
	assert.Equal(t, 60, cfg.Reminder.CheckIntervalSec)
	assert.Equal(t, "/tmp/tracker-data/tracker.db", cfg.StorePath())
	assert.Equal(t, "/tmp/tracker-data/tracker.log", cfg.LogFile())
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := defaultAppConfig()
	cfg.Owner = "stefania"
	cfg.Store.DSN = "postgres://secret"

	require.NoError(t, SaveConfig(path, cfg))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "postgres://secret")

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "stefania", loaded.Owner)
	assert.Equal(t, cfg.Users, loaded.Users)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*AppConfig)
		fields []string
	}{
		{
			name:   "unknown driver",
			mutate: func(c *AppConfig) { c.Store.Driver = "mongo" },
			fields: []string{"store.driver"},
		},
		{
			name:   "zero interval",
			mutate: func(c *AppConfig) { c.Reminder.CheckIntervalSec = 0 },
			fields: []string{"reminder.check_interval_sec"},
		},
		{
			name:   "owner not in users",
			mutate: func(c *AppConfig) { c.Owner = "mallory" },
			fields: []string{"owner"},
		},
		{
			name: "duplicate user",
			mutate: func(c *AppConfig) {
				c.Users = append(c.Users, UserConfig{ID: "carlo"})
			},
			fields: []string{"users[3].id"},
		},
		{
			name:   "mail host without username",
			mutate: func(c *AppConfig) { c.Share.Mail.Host = "imap.example.com"; c.Share.Mail.From = "me@example.com" },
			fields: []string{"share.mail.username"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultAppConfig()
			tt.mutate(cfg)

			err := cfg.Validate()

			var fieldErrs criterio.FieldErrors
			require.ErrorAs(t, err, &fieldErrs)
			require.Len(t, fieldErrs, len(tt.fields))
			for i, f := range tt.fields {
				assert.Equal(t, f, fieldErrs[i].Field)
			}
		})
	}
}
