package config

import (
	"embed"
	"io/fs"
	"mentorform/internal/constants"
	"mentorform/internal/secrets"
	"os"
	"strings"
	"time"
)

// Config is the global config for the app router. It is built once at startup and injected;
// nothing below main reads the environment directly.
type Config struct {
	Env               string
	Host              string
	Port              string
	APIURL            string
	APITimeout        time.Duration
	CookieSecure      bool
	DisableLogColors  bool
	EnableStackTrace  bool
	SessionStorage    string
	SessionExpiration time.Duration
	DatabaseUrl       string
	RedisUrl          string
	LogLevel          string
	CorsOrigins       string
	StaticFS          fs.FS
}

func NewConfigFromEnvironment(staticFS embed.FS) Config {
	env := getEnv("ENV", constants.EnvDevelopment)
	s := secrets.New()

	return Config{
		Env:               env,
		Host:              os.Getenv("HOST"),
		Port:              getEnv("PORT", "3000"),
		APIURL:            strings.TrimRight(getEnv("API_URL", constants.DefaultAPIURL), "/"),
		APITimeout:        getDuration("API_TIMEOUT", 10*time.Second),
		CookieSecure:      env == constants.EnvProduction,
		DisableLogColors:  env == constants.EnvProduction,
		EnableStackTrace:  env == constants.EnvDevelopment,
		SessionStorage:    strings.ToLower(getEnv("SESSION_STORAGE", constants.StorageMemory)),
		SessionExpiration: getDuration("SESSION_EXPIRATION", 24*time.Hour),
		DatabaseUrl:       s.DatabaseUrl(),
		RedisUrl:          s.RedisUrl(),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		CorsOrigins:       os.Getenv("CORS_ORIGINS"),
		StaticFS:          staticFS,
	}
}

// NewTestConfig returns a config pointing at the given backend with in-memory sessions.
func NewTestConfig(apiURL string, staticFS fs.FS) Config {
	return Config{
		Env:               constants.EnvTest,
		Port:              "0",
		APIURL:            strings.TrimRight(apiURL, "/"),
		APITimeout:        2 * time.Second,
		DisableLogColors:  true,
		SessionStorage:    constants.StorageMemory,
		SessionExpiration: time.Hour,
		LogLevel:          "error",
		StaticFS:          staticFS,
	}
}

func (c Config) Address() string {
	return c.Host + ":" + c.Port
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return d
	}
	return fallback
}
