package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	JWT       JWTConfig       `yaml:"jwt"`
	API       APIConfig       `yaml:"api"`
	Session   SessionConfig   `yaml:"session"`
	Geocoding GeocodingConfig `yaml:"geocoding"`
	Media     MediaConfig     `yaml:"media"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Assistant AssistantConfig `yaml:"assistant"`
}

type ServerConfig struct {
	Port           string   `yaml:"port"`
	GinMode        string   `yaml:"gin_mode"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type JWTConfig struct {
	Secret      string `yaml:"secret"`
	ExpiryHours int    `yaml:"expiry_hours"`
}

// APIConfig points at the remote El Dato REST API
type APIConfig struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type SessionConfig struct {
	Secret            string `yaml:"secret"`
	TTLHours          int    `yaml:"ttl_hours"`
	CleanupMinutes    int    `yaml:"cleanup_minutes"`
	SearchHistorySize int    `yaml:"search_history_size"`
}

type GeocodingConfig struct {
	URL       string `yaml:"url"`
	Country   string `yaml:"country"`
	UserAgent string `yaml:"user_agent"`
}

type MediaConfig struct {
	CloudinaryURL string `yaml:"cloudinary_url"`
	Folder        string `yaml:"folder"`
}

// AssistantConfig points at a Gemini-compatible model API
type AssistantConfig struct {
	APIKey         string `yaml:"api_key"`
	BaseURL        string `yaml:"base_url"`
	Model          string `yaml:"model"`
	Prompt         string `yaml:"prompt"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type RateLimitConfig struct {
	PerMinute int `yaml:"per_minute"`
	Burst     int `yaml:"burst"`
}

var AppConfig *Config

// Default returns the configuration used when nothing is set
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           "8080",
			GinMode:        "debug",
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		JWT: JWTConfig{
			Secret:      "your-super-secret-jwt-key-change-this-in-production",
			ExpiryHours: 24,
		},
		API: APIConfig{
			BaseURL:        "http://localhost:5000",
			TimeoutSeconds: 15,
		},
		Session: SessionConfig{
			Secret:            "change-this-session-secret",
			TTLHours:          24,
			CleanupMinutes:    30,
			SearchHistorySize: 3,
		},
		Geocoding: GeocodingConfig{
			URL:       "https://nominatim.openstreetmap.org",
			Country:   "cl",
			UserAgent: "eldato-web/1.0",
		},
		Media: MediaConfig{
			Folder: "eldato/services",
		},
		RateLimit: RateLimitConfig{
			PerMinute: 120,
			Burst:     20,
		},
		Assistant: AssistantConfig{
			BaseURL:        "https://generativelanguage.googleapis.com",
			Model:          "gemini-1.5-flash",
			TimeoutSeconds: 30,
		},
	}
}

// Load reads the optional YAML file named by CONFIG_FILE, then applies environment overrides
func Load() error {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyEnv(cfg)
	AppConfig = cfg
	return nil
}

func applyEnv(cfg *Config) {
	cfg.Server.Port = getEnv("PORT", cfg.Server.Port)
	cfg.Server.GinMode = getEnv("GIN_MODE", cfg.Server.GinMode)
	cfg.Server.AllowedOrigins = getEnvAsList("ALLOWED_ORIGINS", cfg.Server.AllowedOrigins)

	cfg.Database.URL = getEnv("DB_URL", cfg.Database.URL)

	cfg.JWT.Secret = getEnv("JWT_SECRET", cfg.JWT.Secret)
	cfg.JWT.ExpiryHours = getEnvAsInt("JWT_EXPIRY_HOURS", cfg.JWT.ExpiryHours)

	cfg.API.BaseURL = strings.TrimRight(getEnv("ELDATO_API_URL", cfg.API.BaseURL), "/")
	cfg.API.TimeoutSeconds = getEnvAsInt("ELDATO_API_TIMEOUT_SECONDS", cfg.API.TimeoutSeconds)

	cfg.Session.Secret = getEnv("SESSION_SECRET", cfg.Session.Secret)
	cfg.Session.TTLHours = getEnvAsInt("SESSION_TTL_HOURS", cfg.Session.TTLHours)
	cfg.Session.CleanupMinutes = getEnvAsInt("SESSION_CLEANUP_MINUTES", cfg.Session.CleanupMinutes)
	cfg.Session.SearchHistorySize = getEnvAsInt("SEARCH_HISTORY_SIZE", cfg.Session.SearchHistorySize)

	cfg.Geocoding.URL = getEnv("NOMINATIM_URL", cfg.Geocoding.URL)
	cfg.Geocoding.Country = getEnv("GEOCODING_COUNTRY", cfg.Geocoding.Country)
	cfg.Geocoding.UserAgent = getEnv("GEOCODING_USER_AGENT", cfg.Geocoding.UserAgent)

	cfg.Media.CloudinaryURL = getEnv("CLOUDINARY_URL", cfg.Media.CloudinaryURL)
	cfg.Media.Folder = getEnv("CLOUDINARY_FOLDER", cfg.Media.Folder)

	cfg.RateLimit.PerMinute = getEnvAsInt("RATE_LIMIT_PER_MINUTE", cfg.RateLimit.PerMinute)
	cfg.RateLimit.Burst = getEnvAsInt("RATE_LIMIT_BURST", cfg.RateLimit.Burst)

	cfg.Assistant.APIKey = getEnv("GEMINI_API_KEY", cfg.Assistant.APIKey)
	cfg.Assistant.BaseURL = getEnv("GEMINI_API_URL", cfg.Assistant.BaseURL)
	cfg.Assistant.Model = getEnv("GEMINI_MODEL", cfg.Assistant.Model)
	cfg.Assistant.Prompt = getEnv("ASSISTANT_PROMPT", cfg.Assistant.Prompt)
	cfg.Assistant.TimeoutSeconds = getEnvAsInt("ASSISTANT_TIMEOUT_SECONDS", cfg.Assistant.TimeoutSeconds)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
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
