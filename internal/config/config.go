package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the application configuration
type Config struct {
	DB       string       `mapstructure:"db"`
	Timezone string       `mapstructure:"timezone"`
	Server   ServerConfig `mapstructure:"server"`
	Log      LogConfig    `mapstructure:"log"`
	Model    ModelConfig  `mapstructure:"model"`
	Redis    RedisConfig  `mapstructure:"redis"`
	Auth     AuthConfig   `mapstructure:"auth"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Addr       string `mapstructure:"addr"`
	CORSOrigin string `mapstructure:"cors_origin"`
}

// LogConfig selects the logger mode ("dev" or "prod")
type LogConfig struct {
	Mode string `mapstructure:"mode"`
}

// ModelConfig configures the external text model
type ModelConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	Name    string        `mapstructure:"name"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// RedisConfig configures the optional trend cache
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// AuthConfig configures bearer-token auth for the API
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
}

// DefaultDBPath is ~/.wellkit/wellkit.db
func DefaultDBPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".wellkit", "wellkit.db")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("db", DefaultDBPath())
	v.SetDefault("timezone", "UTC")
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.cors_origin", "*")
	v.SetDefault("log.mode", "dev")
	v.SetDefault("model.name", "claude-sonnet-4-20250514")
	v.SetDefault("model.timeout", 10*time.Second)
	v.SetDefault("model.api_key", "")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("redis.ttl", 6*time.Hour)
}

// Load reads the optional YAML file at path, then applies WELLKIT_* environment
// overrides (e.g. WELLKIT_SERVER_ADDR, WELLKIT_MODEL_TIMEOUT).
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if envFile := os.Getenv("WELLKIT_CONFIG"); envFile != "" && path == "" {
		path = envFile
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	v.SetEnvPrefix("wellkit")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if cfg.Model.APIKey == "" {
		cfg.Model.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = os.Getenv("REDIS_ADDR")
	}

	if _, err := cfg.Location(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Location resolves the configured reference timezone
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
