package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig   `yaml:"server"`
	Data      DataConfig     `yaml:"data"`
	Analyzer  AnalyzerConfig `yaml:"analyzer"`
	Log       LogConfig      `yaml:"log"`
	Languages []string       `yaml:"languages"` // ISO 639-1 codes
	DevMode   bool           `yaml:"dev_mode"`
}

type ServerConfig struct {
	Port       string        `yaml:"port"`
	Mode       string        `yaml:"mode"`  // gin mode
	Rate       float64       `yaml:"rate"`  // requests per second per client
	Burst      float64       `yaml:"burst"` // token bucket size
	CORSOrigin string        `yaml:"cors_origin"`
	ChatDelay  time.Duration `yaml:"chat_delay"`
}

type DataConfig struct {
	Dir       string `yaml:"dir"`
	ReportsDB string `yaml:"reports_db"`
}

type AnalyzerConfig struct {
	CacheTTL        time.Duration `yaml:"cache_ttl"`
	MaxCacheSize    int           `yaml:"max_cache_size"`
	FetchTimeout    time.Duration `yaml:"fetch_timeout"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes"`
	UserAgent       string        `yaml:"user_agent"`
	CheckLinks      bool          `yaml:"check_links"`
	LinkConcurrency int           `yaml:"link_concurrency"`
	LinkCacheTTL    time.Duration `yaml:"link_cache_ttl"`
}

type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Default returns a configuration with every default applied
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

// Load reads configuration from the optional YAML file at path, then
// .env.development or .env, then applies environment overrides and defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := loadEnv(); err != nil {
		return nil, err
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.setDefaults()

	return cfg, nil
}

// loadEnv tries .env.development first for local development, then .env
func loadEnv() error {
	for _, name := range []string{".env.development", ".env"} {
		err := godotenv.Load(name)
		if err == nil {
			return nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", name, err)
		}
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Port = v
	}
	if v := os.Getenv("GIN_MODE"); v != "" {
		c.Server.Mode = v
	}
	if v := os.Getenv("DATA_DIR"); v != "" {
		c.Data.Dir = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("DEV_MODE"); v != "" {
		dev, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid DEV_MODE %q: %w", v, err)
		}
		c.DevMode = dev
	}
	return nil
}

func (c *Config) setDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = "8082"
	}
	if c.Server.Mode == "" {
		c.Server.Mode = "release"
	}
	if c.Server.Rate == 0 {
		c.Server.Rate = 2
	}
	if c.Server.Burst == 0 {
		c.Server.Burst = 5
	}
	if c.Server.CORSOrigin == "" {
		c.Server.CORSOrigin = "*"
	}
	if c.Server.ChatDelay == 0 {
		c.Server.ChatDelay = time.Second
	}
	if c.Data.Dir == "" {
		c.Data.Dir = "data"
	}
	if c.Data.ReportsDB == "" {
		c.Data.ReportsDB = "reports.db"
	}
	if c.Analyzer.CacheTTL == 0 {
		c.Analyzer.CacheTTL = 30 * time.Minute
	}
	if c.Analyzer.MaxCacheSize == 0 {
		c.Analyzer.MaxCacheSize = 1000
	}
	if c.Analyzer.FetchTimeout == 0 {
		c.Analyzer.FetchTimeout = 15 * time.Second
	}
	if c.Analyzer.MaxBodyBytes == 0 {
		c.Analyzer.MaxBodyBytes = 5 << 20
	}
	if c.Analyzer.UserAgent == "" {
		c.Analyzer.UserAgent = "SEOContentEngine/1.0"
	}
	if c.Analyzer.LinkConcurrency == 0 {
		c.Analyzer.LinkConcurrency = 10
	}
	if c.Analyzer.LinkCacheTTL == 0 {
		c.Analyzer.LinkCacheTTL = 10 * time.Minute
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if len(c.Languages) == 0 {
		c.Languages = []string{"en", "es", "fr", "de", "it", "pt", "nl"}
	}
	for i, lang := range c.Languages {
		c.Languages[i] = strings.ToLower(strings.TrimSpace(lang))
	}
}

// ReportsPath is the location of the saved reports database
func (c *Config) ReportsPath() string {
	if filepath.IsAbs(c.Data.ReportsDB) {
		return c.Data.ReportsDB
	}
	return filepath.Join(c.Data.Dir, c.Data.ReportsDB)
}
