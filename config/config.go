package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type App struct {
	Port          string
	MongoURI      string
	MongoDB       string
	RedisAddr     string
	JWTSecret     string
	AdminUsername string
	AdminPassword string
	Location      *time.Location
	PurgeInterval time.Duration
	Store         string
	CORSOrigins   []string
}

// Load reads .env (if present) and the process environment.
func Load() (App, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	cfg := App{
		Port:          port(getenv("PORT", "10000")),
		MongoURI:      getenv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:       getenv("MONGO_DB", "mealbook"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		AdminUsername: os.Getenv("ADMIN_USERNAME"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		Store:         strings.ToLower(getenv("STORE", "mongo")),
		CORSOrigins:   splitList(getenv("CORS_ORIGINS", "*")),
	}

	loc, err := time.LoadLocation(getenv("CUTOFF_TZ", "Local"))
	if err != nil {
		return cfg, fmt.Errorf("CUTOFF_TZ: %w", err)
	}
	cfg.Location = loc

	cfg.PurgeInterval, err = time.ParseDuration(getenv("PURGE_INTERVAL", "1h"))
	if err != nil || cfg.PurgeInterval <= 0 {
		return cfg, fmt.Errorf("PURGE_INTERVAL: must be a positive duration like 1h or 15m")
	}

	if cfg.Store != "mongo" && cfg.Store != "memory" {
		return cfg, fmt.Errorf("STORE: unknown backend %q", cfg.Store)
	}
	if cfg.JWTSecret == "" {
		log.Println("JWT_SECRET not set; using an insecure development secret")
		cfg.JWTSecret = "local_dev_secret"
	}
	return cfg, nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func port(p string) string {
	if p[0] != ':' {
		return ":" + p
	}
	return p
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
