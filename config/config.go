package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"athlete-network/logger"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
)

// CORSConfig lists the browser origins allowed to call the API with credentials.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// RedisConfig points the session store at a Redis server.
type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// SessionConfig selects where session tokens live.
type SessionConfig struct {
	Store    string      `yaml:"store"`     // "memory" or "redis"
	TTLHours int         `yaml:"ttl_hours"` // cookie and redis key lifetime
	Redis    RedisConfig `yaml:"redis"`
}

// PushConfig enables Firebase Cloud Messaging for offline users.
type PushConfig struct {
	Enabled         bool   `yaml:"enabled"`
	ProjectID       string `yaml:"project_id"`
	CredentialsFile string `yaml:"credentials_file"`
}

// RateLimitConfig bounds sign-up and sign-in attempts per client IP.
type RateLimitConfig struct {
	PerMinute int `yaml:"per_minute"`
	Burst     int `yaml:"burst"`
}

// Config represents the application configuration
type Config struct {
	Port       string          `yaml:"port"`
	Database   string          `yaml:"database"`
	UploadsDir string          `yaml:"uploads_dir"`
	CORS       CORSConfig      `yaml:"cors"`
	Session    SessionConfig   `yaml:"session"`
	Push       PushConfig      `yaml:"push"`
	RateLimit  RateLimitConfig `yaml:"rate_limit"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Port:       "8080",
		Database:   "./athlete_network.db",
		UploadsDir: "./uploads",
		CORS: CORSConfig{
			AllowedOrigins: []string{"http://localhost:5173", "http://localhost:3000"},
		},
		Session: SessionConfig{
			Store:    "memory",
			TTLHours: 24,
			Redis: RedisConfig{
				Address: "localhost:6379",
			},
		},
		RateLimit: RateLimitConfig{
			PerMinute: 20,
			Burst:     5,
		},
	}
}

// Load reads .env and the YAML file at path, then applies environment overrides.
// A missing file is not an error; the defaults are used instead.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warn.Printf("[CONFIG] Could not read .env: %v", err)
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
		logger.Info.Printf("[CONFIG] Loaded configuration from %s", path)
	case errors.Is(err, fs.ErrNotExist):
		logger.Warn.Printf("[CONFIG] %s not found, using defaults", path)
	default:
		return nil, err
	}

	applyEnv(&cfg)

	logger.Info.Printf("[CONFIG] - Port: %s", cfg.Port)
	logger.Info.Printf("[CONFIG] - Database: %s", cfg.Database)
	logger.Info.Printf("[CONFIG] - Uploads: %s", cfg.UploadsDir)
	logger.Info.Printf("[CONFIG] - Session store: %s (%dh)", cfg.Session.Store, cfg.Session.TTLHours)
	logger.Info.Printf("[CONFIG] - Push enabled: %t", cfg.Push.Enabled)
	logger.Info.Printf("[CONFIG] - Rate limit: %d/min, burst %d", cfg.RateLimit.PerMinute, cfg.RateLimit.Burst)

	return &cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("DATABASE_PATH"); v != "" {
		cfg.Database = v
	}
	if v := os.Getenv("UPLOADS_DIR"); v != "" {
		cfg.UploadsDir = v
	}
	if v := os.Getenv("SESSION_STORE"); v != "" {
		cfg.Session.Store = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Session.Redis.Address = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Session.Redis.Password = v
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Session.Redis.DB = n
		}
	}
	if v := os.Getenv("FIREBASE_PROJECT_ID"); v != "" {
		cfg.Push.ProjectID = v
	}
	if v := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); v != "" {
		cfg.Push.CredentialsFile = v
	}
}

// SessionTTL returns the session lifetime as a time.Duration
func (c *Config) SessionTTL() time.Duration {
	if c.Session.TTLHours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(c.Session.TTLHours) * time.Hour
}
