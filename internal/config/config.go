package config

import (
	"os"
)

// Config holds the application configuration.
type Config struct {
	Addr            string
	SupabaseURL     string
	SupabaseAnonKey string
	SessionSecret   string
	LogLevel        string

	// Object storage for gallery uploads (Cloudflare R2, S3 API).
	AccountID       string
	AccessKeyID     string
	AccessKeySecret string
	BucketName      string
	PublicURL       string
}

// DataSvcConfig configures the local data service emulator.
type DataSvcConfig struct {
	Addr      string
	DBPath    string
	JWTSecret string
}

// LoadConfig loads configuration from environment variables or defaults.
// The supabase values fall back to placeholders so the app still boots
// without a configured project; remote calls will simply fail.
func LoadConfig() *Config {
	return &Config{
		Addr:            getEnv("ADDR", ":3000"),
		SupabaseURL:     getEnv("SUPABASE_URL", "your-supabase-url"),
		SupabaseAnonKey: getEnv("SUPABASE_ANON_KEY", "your-supabase-anon-key"),
		SessionSecret:   getEnv("SESSION_SECRET", "wedding-session-secret"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		AccountID:       getEnv("ACCOUNT_ID", ""),
		AccessKeyID:     getEnv("ACCESS_KEY_ID", ""),
		AccessKeySecret: getEnv("ACCESS_KEY_SECRET", ""),
		BucketName:      getEnv("BUCKET_NAME", ""),
		PublicURL:       getEnv("PUBLIC_URL", ""),
	}
}

// LoadDataSvcConfig loads emulator configuration.
func LoadDataSvcConfig() *DataSvcConfig {
	return &DataSvcConfig{
		Addr:      getEnv("DATASVC_ADDR", ":54321"),
		DBPath:    getEnv("DATASVC_DB", "data/datasvc.db"),
		JWTSecret: getEnv("DATASVC_JWT_SECRET", "super-secret-jwt-token"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
