package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the core runtime configuration for the service.
// Values are primarily sourced from environment variables, with
// sensible defaults where appropriate. See .env.example.
type Config struct {
	ListenAddr  string
	DatabaseURL string

	// OwnerUser / OwnerPassword are the bootstrap owner credentials.
	// A user with these credentials and the owner role is created on
	// startup if no owner exists yet.
	OwnerUser     string
	OwnerPassword string

	// SingleOwner blocks creation of a second owner account while one
	// exists. Some deployments run several co-owners and disable this.
	SingleOwner bool

	// Timezone is the reference zone used to derive the calendar day
	// of attendance records and "today" status. It is deliberately a
	// fixed setting rather than the host's local zone, so "today"
	// stays consistent regardless of where the service is deployed.
	Timezone string

	SessionSecret string
	SessionTTL    time.Duration

	// MessageRetentionDays prunes staff messages older than this many
	// days. Zero keeps messages forever.
	MessageRetentionDays int

	// ShopName is printed on generated ID cards and seeds the shop
	// profile row on first run.
	ShopName string
}

// Load reads configuration from environment variables and applies defaults.
func Load() *Config {
	cfg := &Config{
		ListenAddr:    getenv("APP_LISTEN_ADDR", ":8080"),
		DatabaseURL:   os.Getenv("APP_DATABASE_URL"),
		OwnerUser:     getenv("APP_OWNER_USER", "owner"),
		OwnerPassword: getenv("APP_OWNER_PASSWORD", "changeme"),
		SingleOwner:   true,
		Timezone:      getenv("APP_TIMEZONE", "Asia/Kolkata"),
		SessionSecret: getenv("APP_SESSION_SECRET", "dev-insecure-secret"),
		SessionTTL:    24 * time.Hour,
		ShopName:      getenv("APP_SHOP_NAME", "Kohinoor Cloth & Gautam Readymade"),
	}

	if v := os.Getenv("APP_SINGLE_OWNER"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.SingleOwner = b
		}
	}
	if v := os.Getenv("APP_SESSION_TTL_HOURS"); v != "" {
		if hours, err := strconv.Atoi(v); err == nil && hours > 0 {
			cfg.SessionTTL = time.Duration(hours) * time.Hour
		}
	}
	if v := os.Getenv("APP_MESSAGE_RETENTION_DAYS"); v != "" {
		if days, err := strconv.Atoi(v); err == nil && days > 0 {
			cfg.MessageRetentionDays = days
		}
	}

	return cfg
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
