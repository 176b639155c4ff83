// Package config loads switchyard settings from a YAML, TOML or JSON file, a .env
// file and SWITCHYARD_* environment variables, in increasing order of precedence.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/switchyard/pkg/adapters/catalog"
	"github.com/aretw0/switchyard/pkg/adapters/process"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. SWITCHYARD_WORKERS.
const EnvPrefix = "switchyard"

// DefaultFile is looked up in the working directory when no path is given.
const DefaultFile = "switchyard.yaml"

// Store backends.
const (
	StoreFile   = "file"
	StoreRedis  = "redis"
	StoreSQLite = "sqlite"
	StoreMemory = "memory"
)

// Catalogs holds the upstream endpoints. Empty values use the public defaults.
type Catalogs struct {
	Mojang     string `yaml:"mojang" json:"mojang" toml:"mojang" envconfig:"MOJANG_URL"`
	NeoForge   string `yaml:"neoforge" json:"neoforge" toml:"neoforge" envconfig:"NEOFORGE_URL"`
	Forge      string `yaml:"forge" json:"forge" toml:"forge" envconfig:"FORGE_URL"`
	FabricMeta string `yaml:"fabric_meta" json:"fabric_meta" toml:"fabric_meta" envconfig:"FABRIC_META_URL"`
	FabricAPI  string `yaml:"fabric_api" json:"fabric_api" toml:"fabric_api" envconfig:"FABRIC_API_URL"`
	Parchment  string `yaml:"parchment" json:"parchment" toml:"parchment" envconfig:"PARCHMENT_URL"`
}

// Config is the resolved configuration.
type Config struct {
	// Workers bounds the background fetches of one wizard session.
	Workers       int      `yaml:"workers" json:"workers" toml:"workers" envconfig:"WORKERS"`
	GradleVersion string   `yaml:"gradle_version" json:"gradle_version" toml:"gradle_version" envconfig:"GRADLE_VERSION"`
	CacheTTL      Duration `yaml:"cache_ttl" json:"cache_ttl" toml:"cache_ttl" envconfig:"CACHE_TTL"`
	HTTPTimeout   Duration `yaml:"http_timeout" json:"http_timeout" toml:"http_timeout" envconfig:"HTTP_TIMEOUT"`
	UserAgent     string   `yaml:"user_agent" json:"user_agent" toml:"user_agent" envconfig:"USER_AGENT"`

	Catalogs Catalogs `yaml:"catalogs" json:"catalogs" toml:"catalogs" envconfig:"CATALOG"`

	Store         string `yaml:"store" json:"store" toml:"store" envconfig:"STORE"`
	StorePath     string `yaml:"store_path" json:"store_path" toml:"store_path" envconfig:"STORE_PATH"`
	RedisAddress  string `yaml:"redis_address" json:"redis_address" toml:"redis_address" envconfig:"REDIS_ADDRESS"`
	RedisPassword string `yaml:"redis_password" json:"redis_password" toml:"redis_password" envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `yaml:"redis_db" json:"redis_db" toml:"redis_db" envconfig:"REDIS_DB"`

	// RedactAnswers are patterns of answer keys masked in stored records.
	RedactAnswers []string `yaml:"redact_answers" json:"redact_answers" toml:"redact_answers" envconfig:"REDACT_ANSWERS"`
	// EncryptionKey is a base64 AES-256 key sealing the stored answers. Empty disables it.
	EncryptionKey string   `yaml:"encryption_key" json:"encryption_key" toml:"encryption_key" envconfig:"ENCRYPTION_KEY"`
	FallbackKeys  []string `yaml:"fallback_keys" json:"fallback_keys" toml:"fallback_keys" envconfig:"FALLBACK_KEYS"`

	LogLevel    string `yaml:"log_level" json:"log_level" toml:"log_level" envconfig:"LOG_LEVEL"`
	MetricsAddr string `yaml:"metrics_addr" json:"metrics_addr" toml:"metrics_addr" envconfig:"METRICS_ADDR"`

	// Programs extends the command allow-list beyond git. File only.
	Programs map[string]process.Program `yaml:"programs" json:"programs" toml:"programs" ignored:"true"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Workers:       4,
		GradleVersion: "8.14.3",
		CacheTTL:      Duration{catalog.DefaultTTL},
		HTTPTimeout:   Duration{2 * time.Minute},
		UserAgent:     "switchyard",
		Store:         StoreFile,
		StorePath:     filepath.Join(".switchyard", "projects"),
		RedisAddress:  "localhost:6379",
		LogLevel:      "info",
		MetricsAddr:   ":9090",
	}
}

// Load resolves the configuration. An empty path tries DefaultFile; a missing file
// leaves the defaults in place. The .env file next to the working directory is
// loaded before the environment is read and never overrides variables already set.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	if err := cfg.readFile(path); err != nil {
		if !os.IsNotExist(err) || explicit {
			return Config{}, err
		}
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to process environment configuration: %w", err)
	}
	return cfg, cfg.Validate()
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		err = json.Unmarshal(data, c)
	case ".toml":
		err = toml.Unmarshal(data, c)
	case ".yaml", ".yml", "":
		err = yaml.Unmarshal(data, c)
	default:
		return fmt.Errorf("unsupported config format %q", ext)
	}
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	return nil
}

// Validate rejects settings no component can work with.
func (c Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.CacheTTL.Duration < 0 {
		return fmt.Errorf("cache_ttl must not be negative")
	}
	switch c.Store {
	case StoreFile, StoreRedis, StoreSQLite, StoreMemory:
	default:
		return fmt.Errorf("unknown store backend %q", c.Store)
	}
	return nil
}

// Duration reads "90s" style values from every config source.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}
