package config

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/pelletier/go-toml/v2"
)

func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err = toml.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, err
	}
	if cfg.Web.SessionKey == "" {
		return nil, fmt.Errorf("web.session_key is required")
	}
	return &cfg, nil
}

type Config struct {
	Log    LogConfig    `toml:"log"`
	Web    WebConfig    `toml:"web"`
	DB     DBConfig     `toml:"db"`
	Giphy  GiphyConfig  `toml:"giphy"`
	Spaces SpacesConfig `toml:"spaces"`
}

type LogConfig struct {
	Level     slog.Level `toml:"level"`
	AddSource bool       `toml:"add_source"`
}

type WebConfig struct {
	Host         string `toml:"host"`
	Port         int    `toml:"port"`
	SessionKey   string `toml:"session_key"`
	ClientOrigin string `toml:"client_origin"`
}

type DBConfig struct {
	Host         string `toml:"host"`
	Port         int    `toml:"port"`
	User         string `toml:"user"`
	Password     string `toml:"password"`
	Database     string `toml:"database"`
	PoolSize     int    `toml:"pool_size"`
	MaxIdleConns int    `toml:"max_idle_conns"`
	MaxLifetime  int    `toml:"max_lifetime"`
}

type GiphyConfig struct {
	APIKey  string `toml:"api_key"`
	BaseURL string `toml:"base_url"`
}

// SpacesConfig configures the optional GIF mirror on S3-compatible storage.
// When Enabled is false cards keep the provider URL directly.
type SpacesConfig struct {
	Enabled bool   `toml:"enabled"`
	Key     string `toml:"key"`
	Secret  string `toml:"secret"`
	Region  string `toml:"region"`
	Bucket  string `toml:"bucket"`
	GifRoot string `toml:"gifroot"`
}
