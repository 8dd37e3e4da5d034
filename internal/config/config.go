package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Cache backends accepted by cache_backend
const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
	CacheBackendNone   = "none"
)

// Config holds every runtime setting of the server and the CLI
type Config struct {
	AppEnv            string        `mapstructure:"app_env"`
	HTTPAddr          string        `mapstructure:"http_addr"`
	DBPath            string        `mapstructure:"db_path"`
	DataDir           string        `mapstructure:"data_dir"`
	ColumnAliasesFile string        `mapstructure:"column_aliases_file"`
	CacheBackend      string        `mapstructure:"cache_backend"`
	CacheTTL          time.Duration `mapstructure:"cache_ttl"`
	RedisAddr         string        `mapstructure:"redis_addr"`
	RedisPassword     string        `mapstructure:"redis_password"`
	RedisDB           int           `mapstructure:"redis_db"`
	HealthCheckCron   string        `mapstructure:"health_check_cron"`
	IngestCron        string        `mapstructure:"ingest_cron"`
	PeakHourFactor    float64       `mapstructure:"peak_hour_factor"`
	ForestTrees       int           `mapstructure:"forest_trees"`
	ForestSeed        int64         `mapstructure:"forest_seed"`
	RateLimitRPS      float64       `mapstructure:"rate_limit_rps"`
	RateLimitBurst    int           `mapstructure:"rate_limit_burst"`
	CORSOrigins       []string      `mapstructure:"cors_origins"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_env", "development")
	v.SetDefault("http_addr", ":8080")
	v.SetDefault("db_path", "data/sectorcap.duckdb")
	v.SetDefault("data_dir", "data/raw")
	v.SetDefault("column_aliases_file", "")
	v.SetDefault("cache_backend", CacheBackendMemory)
	v.SetDefault("cache_ttl", 10*time.Minute)
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("health_check_cron", "@daily")
	v.SetDefault("ingest_cron", "")
	v.SetDefault("peak_hour_factor", 0.10)
	v.SetDefault("forest_trees", 100)
	v.SetDefault("forest_seed", 42)
	v.SetDefault("rate_limit_rps", 1.0)
	v.SetDefault("rate_limit_burst", 5)
	v.SetDefault("cors_origins", []string{"https://*", "http://localhost:5173"})
}

// Load reads .env (if any), the optional SECTORCAP_CONFIG file and
// SECTORCAP_* environment variables, in increasing order of precedence.
func Load() (*Config, error) {
	// .env is optional; a missing file is not an error
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("SECTORCAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path := os.Getenv("SECTORCAP_CONFIG"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the core cannot run with
func (c *Config) Validate() error {
	switch c.CacheBackend {
	case CacheBackendMemory, CacheBackendRedis, CacheBackendNone:
	default:
		return fmt.Errorf("unknown cache_backend %q", c.CacheBackend)
	}
	if c.PeakHourFactor <= 0 || c.PeakHourFactor > 1 {
		return fmt.Errorf("peak_hour_factor must be in (0,1], got %v", c.PeakHourFactor)
	}
	if c.ForestTrees < 50 {
		return fmt.Errorf("forest_trees must be at least 50, got %d", c.ForestTrees)
	}
	if c.DBPath == "" {
		return fmt.Errorf("db_path is required")
	}
	return nil
}
