package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
	Market    MarketConfig    `yaml:"market"`
	Favorites FavoritesConfig `yaml:"favorites"`
	Store     StoreConfig     `yaml:"store"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	Env   string `yaml:"env"`
}

type MarketConfig struct {
	Name     string `yaml:"name"`
	Endpoint string `yaml:"endpoint"`
	// 0 keeps the http client default
	TimeoutMs int `yaml:"timeout_ms"`
}

type FavoritesConfig struct {
	Backend string `yaml:"backend"`
	Key     string `yaml:"key"`
}

type StoreConfig struct {
	Sqlite SqliteConfig `yaml:"sqlite"`
	Redis  RedisConfig  `yaml:"redis"`
}

type SqliteConfig struct {
	Path string `yaml:"path"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

func Default() Config {
	return Config{
		Server: ServerConfig{Port: 8080},
		Log:    LogConfig{Level: "info", Env: "development"},
		Market: MarketConfig{Name: "SMI"},
		Favorites: FavoritesConfig{
			Backend: BackendSQLite,
			Key:     "FavoriteQuotes",
		},
		Store: StoreConfig{
			Sqlite: SqliteConfig{Path: "data/app.db"},
			Redis:  RedisConfig{Addr: "localhost:6379"},
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Favorites.Backend {
	case BackendSQLite, BackendRedis, BackendMemory:
	default:
		return fmt.Errorf("invalid favorites.backend: %q", c.Favorites.Backend)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port: %d", c.Server.Port)
	}
	if c.Market.TimeoutMs < 0 {
		return fmt.Errorf("invalid market.timeout_ms: %d", c.Market.TimeoutMs)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("PORT"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil || p <= 0 || p > 65535 {
			return fmt.Errorf("invalid PORT: %q", v)
		}
		cfg.Server.Port = p
	}
	if v := os.Getenv("QUOTES_ENDPOINT"); v != "" {
		cfg.Market.Endpoint = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Store.Redis.Addr = v
	}
	return nil
}
