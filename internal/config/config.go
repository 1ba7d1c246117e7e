package config

import (
	"os"
	"strconv"
)

// DatabaseConfig holds one Postgres pool's settings. The service owns two of
// these: the Registry store and the BAS store.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MaxIdle  int
}

// SISConfig points at the academic source-of-record API.
type SISConfig struct {
	BaseURL string
	APIKey  string
}

// TokenConfig carries the four operation-scoped shared secrets for the
// scheduled-job endpoint. Each token selects exactly one operation.
type TokenConfig struct {
	ClassSync        string
	ExamSync         string
	SetpointTransfer string
	ClassTransfer    string
}

// PointConfig is the BAS point-name convention: point = Prefix + zone_code +
// Suffix. Configured as data, validated round-trip at startup.
type PointConfig struct {
	Prefix string
	Suffix string
}

type Config struct {
	HTTP struct {
		Addr string
	}
	Registry DatabaseConfig
	BAS      DatabaseConfig
	Redis    struct {
		Addr     string
		Password string
		DB       int
	}
	Log struct {
		Level  string
		Format string
	}
	SIS      SISConfig
	Tokens   TokenConfig
	Point    PointConfig
	Timezone string
}

func Load() *Config {
	cfg := &Config{}
	cfg.HTTP.Addr = getEnv("HTTP_ADDR", ":8080")

	cfg.Registry.Host = getEnv("REGISTRY_DB_HOST", "localhost")
	cfg.Registry.Port = parseInt(getEnv("REGISTRY_DB_PORT", "5432"), 5432)
	cfg.Registry.User = getEnv("REGISTRY_DB_USER", "postgres")
	cfg.Registry.Password = getEnv("REGISTRY_DB_PASSWORD", "postgres")
	cfg.Registry.Database = getEnv("REGISTRY_DB_NAME", "dcvtool")
	cfg.Registry.SSLMode = getEnv("REGISTRY_DB_SSLMODE", "disable")
	cfg.Registry.MaxConns = parseInt(getEnv("REGISTRY_DB_MAX_CONNS", "10"), 10)
	cfg.Registry.MaxIdle = parseInt(getEnv("REGISTRY_DB_MAX_IDLE", "5"), 5)

	cfg.BAS.Host = getEnv("BAS_DB_HOST", "localhost")
	cfg.BAS.Port = parseInt(getEnv("BAS_DB_PORT", "5432"), 5432)
	cfg.BAS.User = getEnv("BAS_DB_USER", "postgres")
	cfg.BAS.Password = getEnv("BAS_DB_PASSWORD", "postgres")
	cfg.BAS.Database = getEnv("BAS_DB_NAME", "bas")
	cfg.BAS.SSLMode = getEnv("BAS_DB_SSLMODE", "disable")
	cfg.BAS.MaxConns = parseInt(getEnv("BAS_DB_MAX_CONNS", "5"), 5)
	cfg.BAS.MaxIdle = parseInt(getEnv("BAS_DB_MAX_IDLE", "2"), 2)

	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = 0

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	cfg.SIS.BaseURL = getEnv("SIS_BASE_URL", "https://sis.example.edu/api")
	cfg.SIS.APIKey = getEnv("SIS_API_KEY", "")

	cfg.Tokens.ClassSync = getEnv("SYNC_TOKEN_CLASS", "")
	cfg.Tokens.ExamSync = getEnv("SYNC_TOKEN_EXAM", "")
	cfg.Tokens.SetpointTransfer = getEnv("SYNC_TOKEN_SETPOINT", "")
	cfg.Tokens.ClassTransfer = getEnv("SYNC_TOKEN_TRANSFER", "")

	cfg.Point.Prefix = getEnv("BAS_POINT_PREFIX", "#shared/rit/")
	cfg.Point.Suffix = getEnv("BAS_POINT_SUFFIX", "/occ_stpt")

	cfg.Timezone = getEnv("DCV_TIMEZONE", "America/New_York")

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}
