// Package config contains everything related to configuration
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	DatabasePath string
	DataDir      string
	AirportsPath string
	ReportDir    string
	WatchPath    string

	DefaultCity   string
	DateRangeDays int
	TopRoutes     int

	CacheDuration     time.Duration
	MaxAPIRetries     int
	RequestTimeout    time.Duration
	RequestsPerSecond float64
	AviationStackKey  string
	AviationStackURL  string

	PostgresDSN     string
	RefreshSchedule string

	LogLevel      string
	LogFormat     string
	LogFile       string
	Notifications bool
}

// Default values
const (
	defaultCity              = "Sydney"
	defaultDateRangeDays     = 30
	defaultTopRoutes         = 10
	defaultCacheDuration     = time.Hour
	defaultMaxAPIRetries     = 3
	defaultRequestTimeout    = 10 * time.Second
	defaultRequestsPerSecond = 1.0
	defaultAviationStackURL  = "http://api.aviationstack.com/v1"
	defaultRefreshSchedule   = "0 0 6 * * *"
	defaultLogLevel          = "info"
	defaultLogFormat         = "text"
)

// Load reads configuration from .env files and environment variables.
func Load() (*Config, error) {
	// Try loading .env from multiple locations
	for _, path := range getEnvPaths() {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			break
		}
	}

	dataDir := getEnvString("DATA_DIR", getDefaultDataDir())

	cfg := &Config{
		DatabasePath:      getEnvString("DATABASE_PATH", filepath.Join(dataDir, "flights.db")),
		DataDir:           dataDir,
		AirportsPath:      getEnvString("AIRPORTS_PATH", filepath.Join(dataDir, "airports.yaml")),
		ReportDir:         getEnvString("REPORT_DIR", filepath.Join(dataDir, "reports")),
		WatchPath:         getEnvString("WATCH_PATH", ""),
		DefaultCity:       getEnvString("DEFAULT_CITY", defaultCity),
		DateRangeDays:     getEnvInt("DATE_RANGE_DAYS", defaultDateRangeDays),
		TopRoutes:         getEnvInt("TOP_ROUTES", defaultTopRoutes),
		CacheDuration:     getEnvDuration("CACHE_DURATION", defaultCacheDuration),
		MaxAPIRetries:     getEnvInt("MAX_API_RETRIES", defaultMaxAPIRetries),
		RequestTimeout:    getEnvDuration("REQUEST_TIMEOUT", defaultRequestTimeout),
		RequestsPerSecond: getEnvFloat("REQUESTS_PER_SECOND", defaultRequestsPerSecond),
		AviationStackKey:  getEnvString("AVIATIONSTACK_API_KEY", ""),
		AviationStackURL:  getEnvString("AVIATIONSTACK_URL", defaultAviationStackURL),
		PostgresDSN:       getEnvString("POSTGRES_DSN", ""),
		RefreshSchedule:   getEnvString("REFRESH_SCHEDULE", defaultRefreshSchedule),
		LogLevel:          getEnvString("LOG_LEVEL", defaultLogLevel),
		LogFormat:         getEnvString("LOG_FORMAT", defaultLogFormat),
		LogFile:           getEnvString("LOG_FILE", filepath.Join(dataDir, "fdt.log")),
		Notifications:     getEnvBool("NOTIFICATIONS", true),
	}

	// Ensure data directories exist
	for _, dir := range []string{cfg.DataDir, filepath.Dir(cfg.DatabasePath), cfg.ReportDir} {
		if err := ensureDir(dir); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// HasAPIKey reports whether live flight data can be requested.
func (c *Config) HasAPIKey() bool {
	return c.AviationStackKey != ""
}

// getEnvPaths returns a list of paths to check for .env files.
func getEnvPaths() []string {
	var paths []string

	// Current directory
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".env"))
	}

	// Home directory locations
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", "flight-demand-tui", ".env"),
			filepath.Join(home, ".flight-demand", ".env"),
		)
	}

	// Parent directories (useful for development)
	if cwd, err := os.Getwd(); err == nil {
		parent := filepath.Dir(cwd)
		paths = append(paths, filepath.Join(parent, ".env"))
		grandparent := filepath.Dir(parent)
		paths = append(paths, filepath.Join(grandparent, ".env"))
	}

	return paths
}

// getDefaultDataDir returns the directory holding the database, reports and logs.
func getDefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "data"
	}
	return filepath.Join(home, ".config", "flight-demand-tui")
}

// getEnvString retrieves a string environment variable or returns the default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an integer environment variable or returns the default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getEnvBool accepts 1/0, true/false, yes/no and on/off.
func getEnvBool(key string, defaultValue bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return defaultValue
	}
}

// getEnvDuration retrieves a duration environment variable or returns the default.
// Accepts values like "30s", "1m", "500ms".
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		// Try parsing as seconds if no unit specified
		if secs, err := strconv.Atoi(value); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}

// ensureDir creates a directory and all parent directories if they don't exist.
func ensureDir(path string) error {
	if path == "" || path == "." {
		return nil
	}
	return os.MkdirAll(path, 0o750)
}
