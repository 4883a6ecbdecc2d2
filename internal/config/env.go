package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Environment string

	AIAPIKey          string
	GenModel          string
	GenerationTimeout time.Duration
	MaxHistoryTurns   int

	SessionMaxIdle       time.Duration
	SessionSweepInterval time.Duration

	JWTSecret   string
	DatabaseURL string
	SslCertPath string

	AwsAccessKey string
	AwsSecretKey string
	AwsRegion    string
	BucketName   string

	WorkspaceRoot  string
	AllowedOrigins []string
}

// ErrMissingJWTSecret is returned in production when JWT_SECRET is unset.
var ErrMissingJWTSecret = errors.New("JWT_SECRET must be set when APP_ENV=production")

// LoadConfig loads the environment variables and return config
func LoadConfig() (*Config, error) {

	_ = godotenv.Load()

	cfg := &Config{
		Port:                 getEnv("PORT", "8080"),
		Environment:          getEnv("APP_ENV", "development"),
		AIAPIKey:             getEnv("GEMINI_API_KEY", ""),
		GenModel:             getEnv("GEN_MODEL", "gemini-1.5-flash"),
		GenerationTimeout:    getEnvDuration("GENERATION_TIMEOUT", 90*time.Second),
		MaxHistoryTurns:      getEnvInt("MAX_HISTORY_TURNS", 20),
		SessionMaxIdle:       getEnvDuration("SESSION_MAX_IDLE", time.Hour),
		SessionSweepInterval: getEnvDuration("SESSION_SWEEP_INTERVAL", 30*time.Minute),
		JWTSecret:            getEnv("JWT_SECRET", ""),
		DatabaseURL:          getEnv("DATABASE_URL", ""),
		SslCertPath:          getEnv("SSL_CERT_PATH", ""),
		AwsAccessKey:         getEnv("AWS_ACCESS_KEY", ""),
		AwsSecretKey:         getEnv("AWS_SECRET_KEY", ""),
		AwsRegion:            getEnv("AWS_REGION", "us-east-2"),
		BucketName:           getEnv("BUCKET_NAME", ""),
		WorkspaceRoot:        getEnv("WORKSPACE_ROOT", ""),
		AllowedOrigins:       getEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173", "http://localhost:5000"}),
	}

	if cfg.JWTSecret == "" {
		if cfg.IsProduction() {
			return nil, ErrMissingJWTSecret
		}
		secret, err := randomSecret()
		if err != nil {
			return nil, err
		}
		log.Println("WARN: JWT_SECRET not set, tokens will not survive a restart")
		cfg.JWTSecret = secret
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	switch strings.ToLower(c.Environment) {
	case "prod", "production":
		return true
	}
	return false
}

// randomSecret returns a per-process signing key.
func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// HasObjectStorage reports whether S3 export can be wired.
func (c *Config) HasObjectStorage() bool {
	return c.AwsAccessKey != "" && c.AwsSecretKey != "" && c.BucketName != ""
}

// Helper to read environment variables with a default fallback
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, def int) int {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("WARN: %s=%q not an int, using default %d", key, v, def)
		return def
	}
	return n
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Printf("WARN: %s=%q not a positive duration, using default %s", key, v, def)
		return def
	}
	return d
}

func getEnvList(key string, def []string) []string {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
