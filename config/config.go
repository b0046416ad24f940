package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

var defaultOrigins = []string{
	"http://localhost:5173",
	"https://noder.vercel.app",
	"https://noder-taupe.vercel.app",
}

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Firebase  FirebaseConfig
	Generator GeneratorConfig
	LLM       LLMConfig
	App       AppConfig
}

type ServerConfig struct {
	Port               string   `validate:"required,numeric"`
	CORSAllowedOrigins []string `validate:"dive,url"`
}

// DatabaseConfig is optional; an empty DSN disables the projects and files API.
type DatabaseConfig struct {
	DSN      string
	MaxConns int `validate:"gte=1"`
	MinConns int `validate:"gte=0,ltefield=MaxConns"`
}

// RedisConfig is optional; an empty Addr keeps editor sessions in memory.
type RedisConfig struct {
	Addr       string `validate:"omitempty,hostname_port"`
	Password   string
	DB         int           `validate:"gte=0"`
	SessionTTL time.Duration `validate:"gt=0"`
}

type FirebaseConfig struct {
	CredentialsPath string
	AuthMode        string `validate:"oneof=firebase optional"`
}

// GeneratorConfig points the editor at the generation service. An empty
// BaseURL means this process's own proxy.
type GeneratorConfig struct {
	BaseURL string        `validate:"omitempty,url"`
	Timeout time.Duration `validate:"gt=0"`
}

type LLMConfig struct {
	APIKey        string
	BaseURL       string  `validate:"required,url"`
	Model         string  `validate:"required"`
	Temperature   float64 `validate:"gte=0,lte=2"`
	TopP          float64 `validate:"gte=0,lte=1"`
	MaxTokens     int     `validate:"gt=0"`
	Repair        bool
	RatePerMinute int `validate:"gte=0"`
	Burst         int `validate:"gte=1"`
}

type AppConfig struct {
	Environment   string `validate:"required"`
	LogLevel      string `validate:"oneof=debug info warn warning error"`
	LogFormat     string `validate:"oneof=text json"`
	Version       string
	PurgeSchedule string        `validate:"required"`
	PurgeAfter    time.Duration `validate:"gt=0"`
}

var validate = validator.New()

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := FromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromEnv reads the configuration without validating it.
func FromEnv() *Config {
	return &Config{
		Server: ServerConfig{
			Port:               getEnv("PORT", "8080"),
			CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", defaultOrigins),
		},
		Database: DatabaseConfig{
			DSN:      getEnv("DB_DSN", ""),
			MaxConns: getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns: getEnvAsInt("DB_MIN_CONNS", 2),
		},
		Redis: RedisConfig{
			Addr:       getEnv("REDIS_ADDR", ""),
			Password:   getEnv("REDIS_PASSWORD", ""),
			DB:         getEnvAsInt("REDIS_DB", 0),
			SessionTTL: getEnvAsDuration("EDITOR_SESSION_TTL", 24*time.Hour),
		},
		Firebase: FirebaseConfig{
			CredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
			AuthMode:        getEnv("AUTH_MODE", "firebase"),
		},
		Generator: GeneratorConfig{
			BaseURL: getEnv("GENERATOR_BASE_URL", ""),
			Timeout: getEnvAsDuration("GENERATOR_TIMEOUT", 90*time.Second),
		},
		LLM: LLMConfig{
			APIKey:        getEnv("LLM_API_KEY", getEnv("GEMINI_API_KEY", "")),
			BaseURL:       getEnv("LLM_BASE_URL", "https://generativelanguage.googleapis.com/v1beta/openai/"),
			Model:         getEnv("LLM_MODEL", "gemini-2.0-flash"),
			Temperature:   getEnvAsFloat("LLM_TEMPERATURE", 0.3),
			TopP:          getEnvAsFloat("LLM_TOP_P", 0.95),
			MaxTokens:     getEnvAsInt("LLM_MAX_TOKENS", 8192),
			Repair:        getEnvAsBool("LLM_REPAIR", true),
			RatePerMinute: getEnvAsInt("GENERATE_RATE_PER_MIN", 30),
			Burst:         getEnvAsInt("GENERATE_BURST", 5),
		},
		App: AppConfig{
			Environment:   getEnv("APP_ENV", "development"),
			LogLevel:      strings.ToLower(getEnv("LOG_LEVEL", "info")),
			LogFormat:     strings.ToLower(getEnv("LOG_FORMAT", "text")),
			Version:       getEnv("APP_VERSION", "1.0.0"),
			PurgeSchedule: getEnv("PURGE_SCHEDULE", "0 0 3 * * *"),
			PurgeAfter:    getEnvAsDuration("PURGE_AFTER", 720*time.Hour),
		},
	}
}

// Validate checks every section and reports all failing fields at once.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

// UseFirebase reports whether requests must carry a verified Firebase token.
func (c *Config) UseFirebase() bool {
	return c.Firebase.AuthMode == "firebase"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Invalid number for %s, using default: %g", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid boolean for %s, using default: %t", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid duration for %s, using default: %s", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
