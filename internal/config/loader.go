package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the path checked for YAML configuration.
const DefaultConfigFile = "aerodesk.yaml"

// Load returns a Config using the hierarchy: defaults < YAML < ENV.
// YAML file is optional; missing file is not an error.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigFile)
}

// LoadFrom returns a Config loaded from the given YAML path using the
// hierarchy: defaults < YAML < ENV. The YAML file is optional.
func LoadFrom(yamlPath string) (*Config, error) {
	cfg := Defaults()

	if err := loadYAML(&cfg, yamlPath); err != nil {
		return nil, fmt.Errorf("config yaml: %w", err)
	}

	loadEnv(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validate: %w", err)
	}

	return &cfg, nil
}

// loadYAML reads the YAML file and unmarshals it over cfg.
// Returns nil if the file does not exist.
func loadYAML(cfg *Config, path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is validated by caller
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	return nil
}

// loadEnv overlays environment variables onto cfg.
// Only non-empty env values override the current config.
func loadEnv(cfg *Config) {
	setString(&cfg.Server.Port, "AERODESK_PORT")
	setString(&cfg.Server.CORSOrigin, "AERODESK_CORS_ORIGIN")
	setString(&cfg.Store.Backend, "AERODESK_STORE_BACKEND")
	setBool(&cfg.Store.Cached, "AERODESK_STORE_CACHED")
	setString(&cfg.Postgres.DSN, "DATABASE_URL")
	setInt32(&cfg.Postgres.MaxConns, "AERODESK_PG_MAX_CONNS")
	setInt32(&cfg.Postgres.MinConns, "AERODESK_PG_MIN_CONNS")
	setDuration(&cfg.Postgres.MaxConnLifetime, "AERODESK_PG_MAX_CONN_LIFETIME")
	setDuration(&cfg.Postgres.MaxConnIdleTime, "AERODESK_PG_MAX_CONN_IDLE_TIME")
	setInt64(&cfg.Cache.MaxSizeMB, "AERODESK_CACHE_SIZE_MB")
	setDuration(&cfg.Cache.TTL, "AERODESK_CACHE_TTL")
	setBool(&cfg.NATS.Enabled, "AERODESK_NATS_ENABLED")
	setString(&cfg.NATS.URL, "NATS_URL")
	setString(&cfg.Engine.Backend, "AERODESK_ENGINE_BACKEND")
	setString(&cfg.Engine.Model, "AERODESK_ENGINE_MODEL")
	setString(&cfg.Engine.APIKey, "OPENAI_API_KEY")
	setString(&cfg.Engine.BaseURL, "OPENAI_BASE_URL")
	setFloat64(&cfg.Engine.Temperature, "AERODESK_ENGINE_TEMPERATURE")
	setInt64(&cfg.Engine.MaxCompletionTokens, "AERODESK_ENGINE_MAX_TOKENS")
	setBool(&cfg.Otel.Enabled, "AERODESK_OTEL_ENABLED")
	setString(&cfg.Otel.Endpoint, "OTEL_EXPORTER_OTLP_ENDPOINT")
	setString(&cfg.Logging.Level, "AERODESK_LOG_LEVEL")
	setString(&cfg.Logging.Service, "AERODESK_LOG_SERVICE")
	setBool(&cfg.Logging.Async, "AERODESK_LOG_ASYNC")
}

// validate checks that required fields are set.
func validate(cfg *Config) error {
	if cfg.Server.Port == "" {
		return errors.New("server.port is required")
	}
	switch cfg.Store.Backend {
	case "memory", "postgres":
	default:
		return fmt.Errorf("store.backend must be \"memory\" or \"postgres\", got %q", cfg.Store.Backend)
	}
	if cfg.Store.Backend == "postgres" && cfg.Postgres.DSN == "" {
		return errors.New("postgres.dsn is required")
	}
	switch cfg.Engine.Backend {
	case "canned", "openai":
	default:
		return fmt.Errorf("engine.backend must be \"canned\" or \"openai\", got %q", cfg.Engine.Backend)
	}
	if cfg.NATS.Enabled && cfg.NATS.URL == "" {
		return errors.New("nats.url is required when nats is enabled")
	}
	if cfg.Cache.MaxSizeMB < 1 {
		return errors.New("cache.max_size_mb must be >= 1")
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt32(dst *int32, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 32); err == nil {
			*dst = int32(n)
		}
	}
}

func setInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
