package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Storage drivers for durable client storage.
const (
	StorageFile   = "file"
	StorageSQLite = "sqlite"
	StorageRedis  = "redis"
)

// AllowedPageSizes lists the page sizes the list view offers.
var AllowedPageSizes = []int{4, 8, 16, 32}

// DefaultPageSize is used when no allowed size is configured.
const DefaultPageSize = 8

type Config struct {
	Env string

	GraphQL       GraphQLConfig
	Storage       StorageConfig
	Redis         RedisConfig
	Log           LogConfig
	List          ListConfig
	Notifications NotificationConfig
	Export        ExportConfig
	Metrics       MetricsConfig
}

// GraphQLConfig points the client at the remote GraphQL service.
type GraphQLConfig struct {
	Endpoint string
	Timeout  time.Duration
}

// StorageConfig selects the durable key-value backend.
type StorageConfig struct {
	Driver     string
	Path       string
	SQLitePath string
}

type RedisConfig struct {
	Host      string
	Port      int
	Password  string
	DB        int
	KeyPrefix string
}

type LogConfig struct {
	Level  string
	Format string
	Output string
}

// ListConfig tunes the employee list controller.
type ListConfig struct {
	DefaultPageSize int
	SearchDebounce  time.Duration
}

// NotificationConfig controls transient status messages.
type NotificationConfig struct {
	TTL time.Duration
}

// ExportConfig sets where rendered exports land.
type ExportConfig struct {
	Dir string
}

// MetricsConfig exposes Prometheus metrics when Addr is set.
type MetricsConfig struct {
	Addr string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("APP_ENV")

	cfg.GraphQL = GraphQLConfig{
		Endpoint: v.GetString("GRAPHQL_ENDPOINT"),
		Timeout:  parseDuration(v.GetString("GRAPHQL_TIMEOUT"), 0),
	}

	cfg.Storage = StorageConfig{
		Driver:     strings.ToLower(strings.TrimSpace(v.GetString("STORAGE_DRIVER"))),
		Path:       v.GetString("STORAGE_PATH"),
		SQLitePath: v.GetString("SQLITE_PATH"),
	}

	cfg.Redis = RedisConfig{
		Host:      v.GetString("REDIS_HOST"),
		Port:      v.GetInt("REDIS_PORT"),
		Password:  v.GetString("REDIS_PASSWORD"),
		DB:        v.GetInt("REDIS_DB"),
		KeyPrefix: v.GetString("REDIS_KEY_PREFIX"),
	}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
		Output: v.GetString("LOG_OUTPUT"),
	}

	cfg.List = ListConfig{
		DefaultPageSize: normalizePageSize(v.GetInt("DEFAULT_PAGE_SIZE")),
		SearchDebounce:  parseDuration(v.GetString("SEARCH_DEBOUNCE"), 400*time.Millisecond),
	}

	cfg.Notifications = NotificationConfig{
		TTL: parseDuration(v.GetString("NOTIFICATION_TTL"), 4*time.Second),
	}

	cfg.Export = ExportConfig{Dir: v.GetString("EXPORT_DIR")}
	cfg.Metrics = MetricsConfig{Addr: v.GetString("METRICS_ADDR")}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	home := defaultHome()

	v.SetDefault("APP_ENV", EnvDevelopment)

	v.SetDefault("GRAPHQL_ENDPOINT", "http://localhost:4000/graphql")
	v.SetDefault("GRAPHQL_TIMEOUT", "0s")

	v.SetDefault("STORAGE_DRIVER", StorageFile)
	v.SetDefault("STORAGE_PATH", filepath.Join(home, "storage.json"))
	v.SetDefault("SQLITE_PATH", filepath.Join(home, "storage.db"))

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_KEY_PREFIX", "employee-client:")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
	v.SetDefault("LOG_OUTPUT", "stderr")

	v.SetDefault("DEFAULT_PAGE_SIZE", 8)
	v.SetDefault("SEARCH_DEBOUNCE", "400ms")
	v.SetDefault("NOTIFICATION_TTL", "4s")

	v.SetDefault("EXPORT_DIR", "./exports")
	v.SetDefault("METRICS_ADDR", "")
}

func defaultHome() string {
	dir, err := os.UserHomeDir()
	if err != nil || dir == "" {
		return ".employee-client"
	}
	return filepath.Join(dir, ".employee-client")
}

// IsAllowedPageSize reports whether size is one of AllowedPageSizes.
func IsAllowedPageSize(size int) bool {
	for _, allowed := range AllowedPageSizes {
		if size == allowed {
			return true
		}
	}
	return false
}

func normalizePageSize(size int) int {
	if IsAllowedPageSize(size) {
		return size
	}
	return DefaultPageSize
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}
