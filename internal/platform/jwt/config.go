package jwtmw

import (
	"os"
	"strconv"
	"time"
)

const (
	EnvKeyJWTSecret          = "JWT_SECRET"
	EnvKeyJWTExpiration      = "JWT_EXPIRATION"
	EnvKeyRefreshTokenTTL    = "REFRESH_TOKEN_TTL"
	EnvKeyMaxSessionsPerUser = "MAX_SESSIONS_PER_USER"

	defaultExpiration  = 15 * time.Minute
	defaultRefreshTTL  = 7 * 24 * time.Hour
	defaultMaxSessions = 5
)

// Config holds token issuing settings.
type Config struct {
	Secret      string
	Expiration  time.Duration // access token lifetime
	RefreshTTL  time.Duration // refresh session lifetime
	MaxSessions int           // active refresh sessions per user, oldest evicted first
}

// LoadConfig reads token settings from the environment. Durations use
// time.ParseDuration syntax; invalid values fall back to defaults.
func LoadConfig() Config {
	return Config{
		Secret:      os.Getenv(EnvKeyJWTSecret),
		Expiration:  durationEnv(EnvKeyJWTExpiration, defaultExpiration),
		RefreshTTL:  durationEnv(EnvKeyRefreshTokenTTL, defaultRefreshTTL),
		MaxSessions: intEnv(EnvKeyMaxSessionsPerUser, defaultMaxSessions),
	}
}

func durationEnv(key string, def time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil && d > 0 {
		return d
	}
	return def
}

func intEnv(key string, def int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil && n > 0 {
		return n
	}
	return def
}
