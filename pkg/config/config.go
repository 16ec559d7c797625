package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendFirebase = "firebase"
	BackendSQLite   = "sqlite"
)

type Config struct {
	ServerPort     string
	Environment    string
	LogLevel       string
	AllowedOrigins []string

	// Backend selects the persistence/identity/blob implementation set.
	Backend string

	FirebaseProject    string
	FirebaseAPIKey     string
	ServiceAccountJSON string
	ServiceAccountPath string
	StorageBucket      string

	SQLitePath    string
	UploadDir     string
	PublicBaseURL string
	JWTSecret     string
	JWTExpiry     int64

	RatesAPIURL  string
	RatesTimeout time.Duration

	GuestActionsPerMinute int
}

func Load() (*Config, error) {
	godotenv.Load()

	config := &Config{
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		Environment:    getEnv("ENVIRONMENT", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		AllowedOrigins: getEnvAsList("ALLOWED_ORIGINS", []string{"*"}),

		Backend: strings.ToLower(getEnv("BACKEND", BackendSQLite)),

		FirebaseProject:    getEnv("FIREBASE_PROJECT_ID", ""),
		FirebaseAPIKey:     getEnv("FIREBASE_API_KEY", ""),
		ServiceAccountJSON: getEnv("FIREBASE_SERVICE_ACCOUNT_JSON", ""),
		ServiceAccountPath: getEnv("FIREBASE_SERVICE_ACCOUNT_PATH", ""),
		StorageBucket:      getEnv("STORAGE_BUCKET", ""),

		SQLitePath:    getEnv("SQLITE_PATH", "./data/esekoir.db"),
		UploadDir:     getEnv("UPLOAD_DIR", "./data/uploads"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", "http://localhost:8080"),
		JWTSecret:     getEnv("JWT_SECRET", "your-secret-key"),
		JWTExpiry:     getEnvAsInt64("JWT_EXPIRY", 24*60*60), // 24 hours

		RatesAPIURL:  getEnv("RATES_API_URL", "https://open.er-api.com/v6/latest/DZD"),
		RatesTimeout: time.Duration(getEnvAsInt64("RATES_TIMEOUT_SECONDS", 10)) * time.Second,

		GuestActionsPerMinute: int(getEnvAsInt64("GUEST_ACTIONS_PER_MINUTE", 10)),
	}

	return config, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		intValue, err := strconv.ParseInt(value, 10, 64)
		if err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(value) == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
