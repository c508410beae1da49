package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Sources    []SourceConfig   `mapstructure:"sources"`
	Analysis   AnalysisConfig   `mapstructure:"analysis"`
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	NATS       NATSConfig       `mapstructure:"nats"`
	OpenSearch OpenSearchConfig `mapstructure:"opensearch"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// SourceConfig describes one configured intelligence source.
type SourceConfig struct {
	Name    string        `mapstructure:"name"`
	Type    string        `mapstructure:"type"` // "feed" or "file"
	URL     string        `mapstructure:"url"`
	APIKey  string        `mapstructure:"api_key"` // opaque, passed through to the feed
	Path    string        `mapstructure:"path"`    // file sources
	Timeout time.Duration `mapstructure:"timeout"`
	Enabled bool          `mapstructure:"enabled"`
}

type AnalysisConfig struct {
	// MinConfidence is the threshold for the high-confidence subset of
	// the report's correlation list.
	MinConfidence               float64  `mapstructure:"min_confidence"`
	EnablePivots                bool     `mapstructure:"enable_pivots"`
	MaxIndicatorsPerCorrelation int      `mapstructure:"max_indicators_per_correlation"`
	IgnoredRootDomains          []string `mapstructure:"ignored_root_domains"`
	MaxConcurrentSources        int      `mapstructure:"max_concurrent_sources"`
}

type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

type DatabaseConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
	SSLMode  string `mapstructure:"sslmode"`
}

// ConnString builds a pgx-compatible connection string.
func (d DatabaseConfig) ConnString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Database, d.SSLMode,
	)
}

type RedisConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	SeenTTL  time.Duration `mapstructure:"seen_ttl"`
}

type NATSConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	URL     string `mapstructure:"url"`
	Name    string `mapstructure:"name"`
}

type OpenSearchConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	URL           string `mapstructure:"url"`
	Username      string `mapstructure:"username"`
	Password      string `mapstructure:"password"`
	TLSSkipVerify bool   `mapstructure:"tls_skip_verify"`
	IndexPrefix   string `mapstructure:"index_prefix"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("analysis.min_confidence", 0.70)
	v.SetDefault("analysis.enable_pivots", true)
	v.SetDefault("analysis.max_indicators_per_correlation", 100)
	v.SetDefault("analysis.ignored_root_domains", []string{})
	v.SetDefault("analysis.max_concurrent_sources", 8)
	v.SetDefault("server.port", 8096)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "threatmesh")
	v.SetDefault("database.database", "threatmesh")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.seen_ttl", "720h")
	v.SetDefault("nats.enabled", false)
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("nats.name", "threatmesh")
	v.SetDefault("opensearch.enabled", false)
	v.SetDefault("opensearch.url", "https://localhost:9200")
	v.SetDefault("opensearch.username", "admin")
	v.SetDefault("opensearch.tls_skip_verify", true)
	v.SetDefault("opensearch.index_prefix", "threatmesh")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	// Read config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/threatmesh")
	}

	// Environment variables override
	v.SetEnvPrefix("THREATMESH")
	v.AutomaticEnv()

	// Read config
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found; use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}
