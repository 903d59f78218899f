package model

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/hay-kot/criterio"
	"github.com/spf13/viper"
)

// Store drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

// UserConfig describes one person who can own records.
type UserConfig struct {
	ID    string `mapstructure:"id" yaml:"id"`
	Name  string `mapstructure:"name" yaml:"name"`
	Color string `mapstructure:"color" yaml:"color"`
}

// RedisConfig holds connection settings for the redis store driver.
type RedisConfig struct {
	Addr     string `mapstructure:"addr" yaml:"addr"`
	DB       int    `mapstructure:"db" yaml:"db"`
	Password string `mapstructure:"password" yaml:"password,omitempty"`
}

// StoreConfig selects and configures the record store backend.
type StoreConfig struct {
	// Driver is one of "sqlite", "postgres" or "redis".
	Driver string `mapstructure:"driver" yaml:"driver"`

	// Path is the SQLite database file. Empty means <data_dir>/tracker.db.
	Path string `mapstructure:"path" yaml:"path,omitempty"`

	// DSN is the Postgres connection string. When empty it is read from
	// TRACKER_STORE_DSN or the keyring.
	DSN string `mapstructure:"dsn" yaml:"dsn,omitempty"`

	Redis RedisConfig `mapstructure:"redis" yaml:"redis"`
}

// MailConfig configures saving shared summaries as e-mail drafts.
type MailConfig struct {
	Host     string `mapstructure:"host" yaml:"host"`
	Port     int    `mapstructure:"port" yaml:"port"`
	Username string `mapstructure:"username" yaml:"username"`
	TLS      bool   `mapstructure:"tls" yaml:"tls"`
	Mailbox  string `mapstructure:"mailbox" yaml:"mailbox"`
	From     string `mapstructure:"from" yaml:"from"`
	To       string `mapstructure:"to" yaml:"to"`
}

// Enabled reports whether a mail server has been configured.
func (m MailConfig) Enabled() bool {
	return m.Host != ""
}

// ShareConfig holds settings for sharing summaries.
type ShareConfig struct {
	Mail MailConfig `mapstructure:"mail" yaml:"mail"`
}

// ReminderConfig controls the background reminder watcher.
type ReminderConfig struct {
	StaleDays        int `mapstructure:"stale_days" yaml:"stale_days"`
	CheckIntervalSec int `mapstructure:"check_interval_sec" yaml:"check_interval_sec"`
}

// LogConfig controls the log sink. File empty means <data_dir>/tracker.log.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	File  string `mapstructure:"file" yaml:"file,omitempty"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Owner    string         `mapstructure:"owner" yaml:"owner"`
	Users    []UserConfig   `mapstructure:"users" yaml:"users"`
	DataDir  string         `mapstructure:"data_dir" yaml:"data_dir"`
	Store    StoreConfig    `mapstructure:"store" yaml:"store"`
	Share    ShareConfig    `mapstructure:"share" yaml:"share"`
	Reminder ReminderConfig `mapstructure:"reminder" yaml:"reminder"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/tracker/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "tracker", "config.yaml")
}

// DefaultDataDir returns ~/.local/share/tracker.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "data")
	}
	return filepath.Join(home, ".local", "share", "tracker")
}

// DefaultUsers is the roster offered by the user picker when the config
// file does not list any.
func DefaultUsers() []UserConfig {
	return []UserConfig{
		{ID: "abraham", Name: "Abraham", Color: "#1d4ed8"},
		{ID: "carlo", Name: "Carlo", Color: "#15803d"},
		{ID: "stefania", Name: "Stefania", Color: "#be185d"},
	}
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		Users:   DefaultUsers(),
		DataDir: DefaultDataDir(),
		Store: StoreConfig{
			Driver: DriverSQLite,
			Redis:  RedisConfig{Addr: "localhost:6379"},
		},
		Share: ShareConfig{
			Mail: MailConfig{Port: 993, TLS: true, Mailbox: "Drafts"},
		},
		Reminder: ReminderConfig{StaleDays: 7, CheckIntervalSec: 60},
		Log:      LogConfig{Level: "info"},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration. Scalar
// keys can be overridden with TRACKER_* environment variables, for example
// TRACKER_STORE_DRIVER.
func LoadConfig(path string) (*AppConfig, error) {
	def := defaultAppConfig()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("TRACKER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("owner", def.Owner)
	v.SetDefault("data_dir", def.DataDir)
	v.SetDefault("store.driver", def.Store.Driver)
	v.SetDefault("store.path", "")
	v.SetDefault("store.dsn", "")
	v.SetDefault("store.redis.addr", def.Store.Redis.Addr)
	v.SetDefault("store.redis.db", 0)
	v.SetDefault("share.mail.host", "")
	v.SetDefault("share.mail.port", def.Share.Mail.Port)
	v.SetDefault("share.mail.tls", def.Share.Mail.TLS)
	v.SetDefault("share.mail.mailbox", def.Share.Mail.Mailbox)
	v.SetDefault("reminder.stale_days", def.Reminder.StaleDays)
	v.SetDefault("reminder.check_interval_sec", def.Reminder.CheckIntervalSec)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.file", "")

	if err := v.ReadInConfig(); err != nil {
		var pathErr *os.PathError
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &pathErr) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if len(cfg.Users) == 0 {
		cfg.Users = DefaultUsers()
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed. Secrets are never written.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	storeCfg := cfg.Store
	storeCfg.DSN = ""
	storeCfg.Redis.Password = ""

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("owner", cfg.Owner)
	v.Set("users", cfg.Users)
	v.Set("data_dir", cfg.DataDir)
	v.Set("store", storeCfg)
	v.Set("share", cfg.Share)
	v.Set("reminder", cfg.Reminder)
	v.Set("log", cfg.Log)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}

// StorePath returns the SQLite database file.
func (c *AppConfig) StorePath() string {
	if c.Store.Path != "" {
		return c.Store.Path
	}
	return filepath.Join(c.DataDir, "tracker.db")
}

// LogFile returns the log file path.
func (c *AppConfig) LogFile() string {
	if c.Log.File != "" {
		return c.Log.File
	}
	return filepath.Join(c.DataDir, "tracker.log")
}

// User returns the configured user with the given id.
func (c *AppConfig) User(id string) (UserConfig, bool) {
	for _, u := range c.Users {
		if u.ID == id {
			return u, true
		}
	}
	return UserConfig{}, false
}

// Validate checks the configuration for structural errors.
func (c *AppConfig) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("store.driver", c.Store.Driver, oneOf(DriverSQLite, DriverPostgres, DriverRedis)),
		criterio.Run("reminder.stale_days", c.Reminder.StaleDays, positive),
		criterio.Run("reminder.check_interval_sec", c.Reminder.CheckIntervalSec, positive),
		criterio.Run("log.level", c.Log.Level, oneOf("debug", "info", "warn", "error", "disabled")),
		c.validateUsers(),
		c.validateMail(),
	)
}

func (c *AppConfig) validateUsers() error {
	var errs criterio.FieldErrorsBuilder
	seen := make(map[string]bool, len(c.Users))
	for i, u := range c.Users {
		field := fmt.Sprintf("users[%d].id", i)
		switch {
		case u.ID == "":
			errs = errs.Append(field, fmt.Errorf("is required"))
		case seen[u.ID]:
			errs = errs.Append(field, fmt.Errorf("duplicate user %q", u.ID))
		}
		seen[u.ID] = true
	}

	if c.Owner != "" && len(c.Users) > 0 && !seen[c.Owner] {
		errs = errs.Append("owner", fmt.Errorf("%q is not in the users list", c.Owner))
	}

	return errs.ToError()
}

func (c *AppConfig) validateMail() error {
	m := c.Share.Mail
	if !m.Enabled() {
		return nil
	}

	var errs criterio.FieldErrorsBuilder
	if m.Port <= 0 || m.Port > 65535 {
		errs = errs.Append("share.mail.port", fmt.Errorf("must be between 1 and 65535"))
	}
	if m.Username == "" {
		errs = errs.Append("share.mail.username", fmt.Errorf("is required when host is set"))
	}
	if m.Mailbox == "" {
		errs = errs.Append("share.mail.mailbox", fmt.Errorf("is required when host is set"))
	}
	if m.From == "" {
		errs = errs.Append("share.mail.from", fmt.Errorf("is required when host is set"))
	}
	return errs.ToError()
}

func oneOf(allowed ...string) func(string) error {
	return func(s string) error {
		if slices.Contains(allowed, s) {
			return nil
		}
		return fmt.Errorf("must be one of %s", strings.Join(allowed, ", "))
	}
}

func positive(n int) error {
	if n <= 0 {
		return fmt.Errorf("must be positive")
	}
	return nil
}
