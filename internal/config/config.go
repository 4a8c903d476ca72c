package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

var (
	// ErrInvalidConfig wraps every validation failure.
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrMissingToken is returned when no Discord bot token is configured.
	ErrMissingToken = fmt.Errorf("%w: TOKEN is not set", ErrInvalidConfig)
	// ErrMissingDatabase is returned when neither DB_STRING nor the
	// DB_NAME/DB_USER/DB_PASSWORD triple is configured.
	ErrMissingDatabase = fmt.Errorf("%w: DB_STRING is not set", ErrInvalidConfig)
)

// DiscordConfig stores Discord specific configurations.
type DiscordConfig struct {
	Token         string            `yaml:"token" envconfig:"TOKEN"`
	ApplicationID discord.AppID     `yaml:"application_id" envconfig:"APPLICATION_ID"`
	GuildIDs      []discord.GuildID `yaml:"guild_ids" envconfig:"GUILD_IDS"`
	OwnerIDs      []discord.UserID  `yaml:"owner_ids" envconfig:"BOT_OWNER_IDS"`
}

// DatabaseConfig describes how to reach PostgreSQL.
type DatabaseConfig struct {
	DSN      string `yaml:"dsn" envconfig:"DB_STRING"`
	Host     string `yaml:"host" envconfig:"DB_HOST"`
	Port     int    `yaml:"port" envconfig:"DB_PORT"`
	Name     string `yaml:"name" envconfig:"DB_NAME"`
	User     string `yaml:"user" envconfig:"DB_USER"`
	Password string `yaml:"password" envconfig:"DB_PASSWORD"`
}

// BackupConfig configures the scheduled database dump.
type BackupConfig struct {
	Schedule string `yaml:"schedule" envconfig:"BACKUP_SCHEDULE"`
	Path     string `yaml:"path" envconfig:"BACKUP_PATH"`
	Keep     int    `yaml:"keep" envconfig:"BACKUP_KEEP"`
}

// EventLogConfig configures the event log file sink.
type EventLogConfig struct {
	Dir string `yaml:"dir" envconfig:"LOG_DIR"`
}

// Config stores the application configuration.
type Config struct {
	Discord      DiscordConfig  `yaml:"discord" ignored:"true"`
	Database     DatabaseConfig `yaml:"database" ignored:"true"`
	Backup       BackupConfig   `yaml:"backup" ignored:"true"`
	EventLog     EventLogConfig `yaml:"event_log" ignored:"true"`
	InstanceName string         `yaml:"instance_name" envconfig:"INSTANCE_NAME"`
	Timezone     string         `yaml:"timezone" envconfig:"BOT_TIMEZONE"`
	// ExtraPackages is accepted for compatibility with existing deployments.
	// Packages are baked into the image, the bot does not act on it.
	ExtraPackages string `yaml:"extra_packages" envconfig:"BOT_EXTRA_PACKAGES"`
	LogLevel      string `yaml:"log_level" envconfig:"LOG_LEVEL"`

	location *time.Location
}

// Default returns the configuration used when nothing overrides a value.
func Default() Config {
	return Config{
		Database: DatabaseConfig{
			Host: "db",
			Port: 5432,
		},
		Backup: BackupConfig{
			Schedule: "@daily",
			Path:     "backups",
			Keep:     7,
		},
		EventLog:     EventLogConfig{Dir: "logs"},
		InstanceName: "strawberry",
		Timezone:     "UTC",
		LogLevel:     "info",
	}
}

// LoadConfig builds the configuration from defaults, a .env file, the YAML
// file at filePath and the process environment, in that order.
// Missing files are skipped.
func LoadConfig(filePath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := Default()

	data, err := os.ReadFile(filePath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", filePath, err)
		}
	case !errors.Is(err, os.ErrNotExist):
		return nil, err
	}

	if err := cfg.processEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// processEnv overlays environment variables. Sections are processed on their
// own so their variables keep the flat names of the deployment contract.
func (c *Config) processEnv() error {
	sections := []any{&c.Discord, &c.Database, &c.Backup, &c.EventLog, c}
	for _, section := range sections {
		if err := envconfig.Process("", section); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
	}

	return nil
}

// Validate checks required values and resolves the timezone.
func (c *Config) Validate() error {
	if c.Discord.Token == "" {
		return ErrMissingToken
	}

	if c.Database.DSN == "" {
		if c.Database.Name == "" || c.Database.User == "" || c.Database.Password == "" {
			return ErrMissingDatabase
		}
		c.Database.DSN = c.Database.ComposeDSN()
	}

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("%w: BOT_TIMEZONE %q: %v", ErrInvalidConfig, c.Timezone, err)
	}
	c.location = loc

	if c.Backup.Schedule != "" {
		if _, err := cron.ParseStandard(c.Backup.Schedule); err != nil {
			return fmt.Errorf("%w: BACKUP_SCHEDULE %q: %v", ErrInvalidConfig, c.Backup.Schedule, err)
		}
		if c.Backup.Keep < 1 {
			return fmt.Errorf("%w: BACKUP_KEEP must be positive", ErrInvalidConfig)
		}
	}

	return nil
}

// Location returns the bot timezone. UTC until Validate succeeds.
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}

	return c.location
}

// ComposeDSN builds a postgres URL from the individual connection fields.
func (d DatabaseConfig) ComposeDSN() string {
	u := url.URL{
		Scheme: "postgresql",
		User:   url.UserPassword(d.User, d.Password),
		Host:   net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:   "/" + d.Name,
	}

	return u.String()
}
