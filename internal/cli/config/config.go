package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// FileName is the config file base name searched for in the working directory.
const FileName = "patternbook"

// EnvPrefix prefixes every environment override, e.g. PATTERNBOOK_SERVER_PORT.
const EnvPrefix = "PATTERNBOOK"

// Cache backends accepted by cache.backend.
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheNone   = "none"
)

// Config represents the patternbook configuration
type Config struct {
	Content ContentConfig `mapstructure:"content"`
	Search  SearchConfig  `mapstructure:"search"`
	Server  ServerConfig  `mapstructure:"server"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Log     LogConfig     `mapstructure:"log"`
}

// ContentConfig locates the content tree
type ContentConfig struct {
	Root       string   `mapstructure:"root"`
	Extensions []string `mapstructure:"extensions"`
	Locale     string   `mapstructure:"locale"`
	// Watch rebuilds the index while serving whenever a document changes
	Watch bool `mapstructure:"watch"`
}

// SearchConfig tunes approximate matching
type SearchConfig struct {
	Threshold float64 `mapstructure:"threshold"`
}

// ServerConfig represents server configuration
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Host            string        `mapstructure:"host"`
	APIPrefix       string        `mapstructure:"api_prefix"`
	StaticDir       string        `mapstructure:"static_dir"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	Profiling       bool          `mapstructure:"pprof"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// CacheConfig selects the response cache backend
type CacheConfig struct {
	Backend string        `mapstructure:"backend"`
	TTL     time.Duration `mapstructure:"ttl"`
	Redis   RedisConfig   `mapstructure:"redis"`
}

// RedisConfig holds connection settings for the redis cache backend
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// LogConfig controls the zap logger
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load loads the configuration from patternbook.yml or patternbook.yaml in the
// current directory, overlaid with PATTERNBOOK_* environment variables.
func Load() (*Config, error) {
	return LoadFrom(".")
}

// LoadFrom is Load with an explicit directory to search for the config file.
func LoadFrom(dir string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName(FileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found - use defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("content.root", "content")
	v.SetDefault("content.extensions", []string{".md", ".mdx", ".markdown"})
	v.SetDefault("content.locale", "en")
	v.SetDefault("content.watch", false)
	v.SetDefault("search.threshold", 0.5)
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.api_prefix", "/api")
	v.SetDefault("server.static_dir", "dist")
	v.SetDefault("server.shutdown_timeout", 30*time.Second)
	v.SetDefault("server.pprof", false)
	v.SetDefault("cache.backend", CacheMemory)
	v.SetDefault("cache.ttl", 5*time.Minute)
	v.SetDefault("cache.redis.addr", "localhost:6379")
	v.SetDefault("cache.redis.password", "")
	v.SetDefault("cache.redis.db", 0)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

// InProject reports whether the current directory holds a content root or a
// patternbook config file.
func InProject() bool {
	if _, err := os.Stat(FileName + ".yml"); err == nil {
		return true
	}
	if _, err := os.Stat(FileName + ".yaml"); err == nil {
		return true
	}
	if info, err := os.Stat("content"); err == nil && info.IsDir() {
		return true
	}
	return false
}

// GetProjectRoot walks up from the working directory looking for patternbook.yml
func GetProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, FileName+".yml")); err == nil {
			return dir, nil
		}
		if _, err := os.Stat(filepath.Join(dir, FileName+".yaml")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("not in a patternbook project (no %s.yml found)", FileName)
		}
		dir = parent
	}
}

// validateConfig validates the configuration
func validateConfig(cfg *Config) error {
	if cfg.Server.APIPrefix != "" {
		if !strings.HasPrefix(cfg.Server.APIPrefix, "/") {
			return fmt.Errorf("server.api_prefix must start with '/', got: %s", cfg.Server.APIPrefix)
		}
		if strings.HasSuffix(cfg.Server.APIPrefix, "/") {
			return fmt.Errorf("server.api_prefix must not end with '/', got: %s", cfg.Server.APIPrefix)
		}
	}

	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got: %d", cfg.Server.Port)
	}

	if cfg.Search.Threshold < 0 || cfg.Search.Threshold > 1 {
		return fmt.Errorf("search.threshold must be between 0 and 1, got: %g", cfg.Search.Threshold)
	}

	switch cfg.Cache.Backend {
	case CacheMemory, CacheRedis, CacheNone:
	default:
		return fmt.Errorf("cache.backend must be one of memory, redis, none, got: %s", cfg.Cache.Backend)
	}

	if cfg.Content.Root == "" {
		return fmt.Errorf("content.root must not be empty")
	}

	return nil
}
