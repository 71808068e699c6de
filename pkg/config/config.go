package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Device   DeviceConfig
	Sampling SamplingConfig
	Storage  StorageConfig
	Database DatabaseConfig
	NATS     NATSConfig
	LiveFeed LiveFeedConfig
}

type DeviceConfig struct {
	// ADB serial; empty means the single attached device.
	Serial string
	// Target application package; empty disables app-level metrics.
	AppPackage string
	// Main activity for startup tests, relative or fully-qualified.
	Activity string
	// Per-command adb timeout.
	CommandTimeout time.Duration
}

type SamplingConfig struct {
	Interval time.Duration
	// Floor for Interval, bounds adb command load.
	MinInterval time.Duration
}

type StorageConfig struct {
	DataDir     string
	LogDir      string
	BaselineDir string
}

type DatabaseConfig struct {
	Enabled         bool
	Host            string
	Port            string
	User            string
	Password        string
	Database        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type NATSConfig struct {
	Enabled bool
	URL     string
	Subject string
}

type LiveFeedConfig struct {
	Enabled        bool
	Port           string
	AllowedOrigins []string
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	interval, err := time.ParseDuration(getEnv("SAMPLE_INTERVAL", "1s"))
	if err != nil {
		return nil, fmt.Errorf("invalid SAMPLE_INTERVAL: %w", err)
	}

	commandTimeout, err := time.ParseDuration(getEnv("ADB_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid ADB_TIMEOUT: %w", err)
	}

	maxOpenConns, err := strconv.Atoi(getEnv("DB_MAX_OPEN_CONNS", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_OPEN_CONNS: %w", err)
	}

	baseDir := getEnv("PROJECT_DIR", ".")

	cfg := &Config{
		Device: DeviceConfig{
			Serial:         getEnv("ADB_SERIAL", ""),
			AppPackage:     getEnv("APP_PACKAGE", ""),
			Activity:       getEnv("APP_ACTIVITY", ".MainActivity"),
			CommandTimeout: commandTimeout,
		},
		Sampling: SamplingConfig{
			Interval:    interval,
			MinInterval: 100 * time.Millisecond,
		},
		Storage: StorageConfig{
			DataDir:     getEnv("DATA_DIR", filepath.Join(baseDir, "data")),
			LogDir:      getEnv("LOG_DIR", filepath.Join(baseDir, "logs")),
			BaselineDir: getEnv("BASELINE_DIR", filepath.Join(baseDir, "baselines")),
		},
		Database: DatabaseConfig{
			Enabled:         getEnvBool("DB_ENABLED", false),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			Database:        getEnv("DB_NAME", "perfmon"),
			MaxOpenConns:    maxOpenConns,
			MaxIdleConns:    2,
			ConnMaxLifetime: 5 * time.Minute,
			ConnMaxIdleTime: 10 * time.Minute,
		},
		NATS: NATSConfig{
			Enabled: getEnvBool("NATS_ENABLED", false),
			URL:     getEnv("NATS_URL", "nats://localhost:4222"),
			Subject: getEnv("NATS_SUBJECT", "perf.samples"),
		},
		LiveFeed: LiveFeedConfig{
			Enabled:        getEnvBool("LIVE_FEED_ENABLED", false),
			Port:           getEnv("LIVE_FEED_PORT", "8090"),
			AllowedOrigins: splitCSV(getEnv("ALLOWED_ORIGINS", "http://localhost:8090,http://127.0.0.1:8090")),
		},
	}

	if cfg.Sampling.Interval < cfg.Sampling.MinInterval {
		cfg.Sampling.Interval = cfg.Sampling.MinInterval
	}

	return cfg, nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Host, c.Port, c.User, c.Password, c.Database)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}

	return parsed
}

func splitCSV(raw string) []string {
	items := make([]string, 0)
	current := ""

	for _, r := range raw {
		if r == ',' {
			if current != "" {
				items = append(items, current)
				current = ""
			}
			continue
		}
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			current += string(r)
		}
	}

	if current != "" {
		items = append(items, current)
	}

	return items
}
