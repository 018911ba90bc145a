package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Supported relational drivers.
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Supported asset backends.
const (
	AssetBackendLocal = "local"
	AssetBackendMinio = "minio"
)

// Config stores the application configuration.
type Config struct {
	HTTPAddr string

	// UseMemoryDB selects the in-process store instead of the relational backend.
	UseMemoryDB bool
	DBDriver    string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBPath      string // SQLite database file
	DBLogLevel  string // silent, error, warn, info

	// MediaDir is the APP_MEDIA_DIR override; empty means the default
	// location chain in storage.ResolveRoot.
	MediaDir     string
	AssetBackend string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioRegion    string
	MinioUseSSL    bool

	StaticDir      string
	MaxUploadBytes int64

	LogLevel string
	LogFile  string
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt gets an environment variable as int64 or returns a default value.
func getEnvInt(key string, fallback int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvBool treats anything other than "", "0" and "false" as true.
func getEnvBool(key string, fallback bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "0", "false", "no", "off":
		return false
	}
	return true
}

// DefaultPort returns the conventional port for a relational driver.
func DefaultPort(driver string) string {
	if driver == DriverPostgres {
		return "5432"
	}
	return "3306"
}

// Load loads configuration from environment variables (via .env file) or defaults.
func Load() *Config {
	// godotenv.Load() does not override variables that are already set.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on existing environment variables and defaults.")
	}

	driver := strings.ToLower(getEnv("DB_DRIVER", DriverMySQL))

	return &Config{
		HTTPAddr:       getEnv("HTTP_ADDR", ":8080"),
		UseMemoryDB:    getEnvBool("USE_MEMORY_DB", false),
		DBDriver:       driver,
		DBHost:         getEnv("DB_HOST", "127.0.0.1"),
		DBPort:         getEnv("DB_PORT", DefaultPort(driver)),
		DBUser:         getEnv("DB_USER", "root"),
		DBPassword:     os.Getenv("DB_PASSWORD"),
		DBName:         getEnv("DB_NAME", "streaming"),
		DBPath:         getEnv("DB_PATH", "streaming.db"),
		DBLogLevel:     getEnv("DB_LOG_LEVEL", "warn"),
		MediaDir:       os.Getenv("APP_MEDIA_DIR"),
		AssetBackend:   strings.ToLower(getEnv("ASSET_BACKEND", AssetBackendLocal)),
		MinioEndpoint:  getEnv("MINIO_ENDPOINT", "127.0.0.1:9000"),
		MinioAccessKey: os.Getenv("MINIO_ACCESS_KEY"),
		MinioSecretKey: os.Getenv("MINIO_SECRET_KEY"),
		MinioBucket:    getEnv("MINIO_BUCKET", "streaming"),
		MinioRegion:    getEnv("MINIO_REGION", "us-east-1"),
		MinioUseSSL:    getEnvBool("MINIO_USE_SSL", false),
		StaticDir:      getEnv("STATIC_DIR", "static"),
		MaxUploadBytes: getEnvInt("MAX_UPLOAD_BYTES", 100<<20),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFile:        os.Getenv("LOG_FILE"),
	}
}
