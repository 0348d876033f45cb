package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server ServerConfig
	Logger LoggerConfig
	Store  StoreConfig
	Sheets SheetsConfig
	Report ReportConfig
}

type ServerConfig struct {
	AppEnv   string
	HTTPPort string
}

type LoggerConfig struct {
	Level             string
	Encoding          string
	DisableCaller     bool
	DisableStacktrace bool
}

// StoreConfig selects and tunes the record-store backend.
// Backend is one of "sheets", "sqlite" or "memory".
type StoreConfig struct {
	Backend    string
	SQLitePath string
	Timeout    time.Duration

	// BootstrapClient optionally seeds one client on startup for the
	// sqlite backend, as "phone,name".
	BootstrapClient string
}

type SheetsConfig struct {
	// CredentialsJSON holds the service-account key as a raw JSON blob,
	// mirroring how the hosting platform exposes it.
	CredentialsJSON    string
	ClientsSpreadsheet string
}

type ReportConfig struct {
	Dir     string
	BaseURL string
}

func LoadEnv() *Config {
	return &Config{
		Server: ServerConfig{
			AppEnv:   getEnv("APP_ENV", "development"),
			HTTPPort: getEnv("HTTP_PORT", ":10000"),
		},
		Logger: LoggerConfig{
			Level:             getEnv("LOGGER_LEVEL", "debug"),
			Encoding:          getEnv("LOGGER_ENCODING", "console"),
			DisableCaller:     getEnvBool("LOGGER_DISABLE_CALLER", false),
			DisableStacktrace: getEnvBool("LOGGER_DISABLE_STACKTRACE", true),
		},
		Store: StoreConfig{
			Backend:         getEnv("STORE_BACKEND", "sheets"),
			SQLitePath:      getEnv("SQLITE_PATH", "bodegabot.db"),
			Timeout:         time.Duration(getEnvInt("STORE_TIMEOUT_SECONDS", 15)) * time.Second,
			BootstrapClient: getEnv("STORE_BOOTSTRAP_CLIENT", ""),
		},
		Sheets: SheetsConfig{
			CredentialsJSON:    getEnv("GOOGLE_CREDS", ""),
			ClientsSpreadsheet: getEnv("CLIENTS_SPREADSHEET", "Clientes"),
		},
		Report: ReportConfig{
			Dir:     getEnv("REPORT_DIR", "./reportes"),
			BaseURL: getEnv("REPORT_BASE_URL", ""),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}
