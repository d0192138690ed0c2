package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App     AppConfig     `yaml:"app"`
	Server  ServerConfig  `yaml:"server"`
	State   StateConfig   `yaml:"state"`
	Remote  RemoteConfig  `yaml:"remote"`
	Archive ArchiveConfig `yaml:"archive"`
	Sync    SyncConfig    `yaml:"sync"`
	Logging LoggingConfig `yaml:"logging"`
}

type AppConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Env     string `yaml:"env"`
}

// ServerConfig configures the localhost API the collection UI talks to.
type ServerConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// StateConfig locates the device-local durable state (sqlite database,
// persisted token, cached profile).
type StateConfig struct {
	Dir string `yaml:"dir"`
}

// RemoteConfig describes the field-data service this client submits to.
type RemoteConfig struct {
	BaseURL             string        `yaml:"base_url"`
	AuthEndpoint        string        `yaml:"auth_endpoint"`
	SubmissionsEndpoint string        `yaml:"submissions_endpoint"`
	UploadEndpoint      string        `yaml:"upload_endpoint"`
	DistrictsEndpoint   string        `yaml:"districts_endpoint"`
	TehsilsEndpoint     string        `yaml:"tehsils_endpoint"`
	VillagesEndpoint    string        `yaml:"villages_endpoint"`
	LanguagesEndpoint   string        `yaml:"languages_endpoint"`
	WordsEndpoint       string        `yaml:"words_endpoint"`
	Timeout             time.Duration `yaml:"timeout"`
	RetryAttempts       int           `yaml:"retry_attempts"`
	RetryDelay          time.Duration `yaml:"retry_delay"`
}

// ArchiveConfig configures the optional S3-compatible audio archive.
type ArchiveConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	UseSSL    bool   `yaml:"use_ssl"`
}

// SyncConfig controls the optional background sync worker. Interval 0
// leaves synchronization fully user-triggered.
type SyncConfig struct {
	Interval time.Duration `yaml:"interval"`
	Workers  int           `yaml:"workers"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Load() (*Config, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.applyDefaults()
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.State.Dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		c.State.Dir = filepath.Join(home, ".fieldlex")
	}
	if c.Remote.Timeout == 0 {
		c.Remote.Timeout = 10 * time.Second
	}
	if c.Remote.RetryAttempts == 0 {
		c.Remote.RetryAttempts = 3
	}
	if c.Remote.RetryDelay == 0 {
		c.Remote.RetryDelay = time.Second
	}
	if c.Remote.AuthEndpoint == "" {
		c.Remote.AuthEndpoint = "/api/v1/auth/login"
	}
	if c.Remote.SubmissionsEndpoint == "" {
		c.Remote.SubmissionsEndpoint = "/api/v1/submissions"
	}
	if c.Remote.UploadEndpoint == "" {
		c.Remote.UploadEndpoint = "/api/v1/submissions/upload"
	}
	if c.Remote.DistrictsEndpoint == "" {
		c.Remote.DistrictsEndpoint = "/api/v1/districts"
	}
	if c.Remote.TehsilsEndpoint == "" {
		c.Remote.TehsilsEndpoint = "/api/v1/tehsils"
	}
	if c.Remote.VillagesEndpoint == "" {
		c.Remote.VillagesEndpoint = "/api/v1/villages"
	}
	if c.Remote.LanguagesEndpoint == "" {
		c.Remote.LanguagesEndpoint = "/api/v1/languages"
	}
	if c.Remote.WordsEndpoint == "" {
		c.Remote.WordsEndpoint = "/api/v1/words"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8710
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Sync.Workers == 0 {
		c.Sync.Workers = 1
	}
}

// DatabasePath returns the sqlite file location inside the state dir.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.State.Dir, "fieldlex.db")
}

// TokenPath returns where the bearer credential is persisted.
func (c *Config) TokenPath() string {
	return filepath.Join(c.State.Dir, "token.json")
}

// ProfilePath returns where the cached user profile is persisted.
func (c *Config) ProfilePath() string {
	return filepath.Join(c.State.Dir, "profile.json")
}
