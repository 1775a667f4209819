package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	Harvest  HarvestConfig  `mapstructure:"harvest"`
	Output   OutputConfig   `mapstructure:"output"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Log      LogConfig      `mapstructure:"log"`
}

// CatalogConfig describes the upstream catalog service
type CatalogConfig struct {
	BaseURL              string        `mapstructure:"base_url"`
	Language             string        `mapstructure:"language"`
	RootCategory         string        `mapstructure:"root_category"`
	UserAgent            string        `mapstructure:"user_agent"`
	PageTimeout          time.Duration `mapstructure:"page_timeout"`
	AssetTimeout         time.Duration `mapstructure:"asset_timeout"`
	MaxRequestsPerSecond int           `mapstructure:"max_requests_per_second"`
	Proxies              []string      `mapstructure:"proxies"`
}

// HarvestConfig bounds a single run
type HarvestConfig struct {
	MaxProducts int           `mapstructure:"max_products"`
	PageSize    int           `mapstructure:"page_size"`
	Retries     int           `mapstructure:"retries"`
	Backoff     time.Duration `mapstructure:"backoff"`
	Concurrency int           `mapstructure:"concurrency"` // <= 0 disables the limit
}

// OutputConfig holds the local output locations
type OutputConfig struct {
	Dir       string `mapstructure:"dir"`
	AssetsDir string `mapstructure:"assets_dir"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Table    string `mapstructure:"table"`
}

// DSN returns the pgx connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		c.Host, c.Port, c.User, c.Password, c.Name)
}

// RedisConfig holds Redis connection details
type RedisConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Password     string `mapstructure:"password"`
	Database     int    `mapstructure:"database"`
	StreamPrefix string `mapstructure:"stream_prefix"`
	StreamMaxLen int64  `mapstructure:"stream_max_len"` // Approximate cap per failure stream
}

// Addr returns host:port.
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type MetricsConfig struct {
	Addr string `mapstructure:"addr"` // empty disables the listener
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from a YAML file with HARVESTER_* environment overrides.
// An empty path looks for config.yaml in the working directory; a missing file
// leaves the defaults in place.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	setDefaults(v)

	v.SetEnvPrefix("harvester")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || path != "" {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate rejects settings the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.Catalog.BaseURL == "" {
		return fmt.Errorf("catalog.base_url is required")
	}
	if c.Harvest.MaxProducts < 0 {
		return fmt.Errorf("harvest.max_products must not be negative")
	}
	if c.Harvest.PageSize < 1 {
		return fmt.Errorf("harvest.page_size must be positive")
	}
	if c.Harvest.Retries < 1 {
		return fmt.Errorf("harvest.retries must be at least 1")
	}
	if c.Output.Dir == "" || c.Output.AssetsDir == "" {
		return fmt.Errorf("output.dir and output.assets_dir are required")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("catalog.base_url", "https://www.baldor.com")
	v.SetDefault("catalog.language", "en-US")
	v.SetDefault("catalog.root_category", "199")
	v.SetDefault("catalog.user_agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/135.0.0.0 Safari/537.36")
	v.SetDefault("catalog.page_timeout", 10*time.Second)
	v.SetDefault("catalog.asset_timeout", 30*time.Second)
	v.SetDefault("catalog.max_requests_per_second", 0)
	v.SetDefault("catalog.proxies", []string{})

	v.SetDefault("harvest.max_products", 15)
	v.SetDefault("harvest.page_size", 50)
	v.SetDefault("harvest.retries", 3)
	v.SetDefault("harvest.backoff", 5*time.Second)
	v.SetDefault("harvest.concurrency", 8)

	v.SetDefault("output.dir", "./output")
	v.SetDefault("output.assets_dir", "./output/assets")

	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "catalog")
	v.SetDefault("database.user", "catalog_user")
	v.SetDefault("database.password", "catalog_pass")
	v.SetDefault("database.table", "product_records")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.database", 0)
	v.SetDefault("redis.stream_prefix", "harvester:stream:")
	v.SetDefault("redis.stream_max_len", 10000)

	v.SetDefault("metrics.addr", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}
