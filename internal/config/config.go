// Package config provides configuration loading and validation for the API server.
// It uses koanf to merge environment variables with optional file overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds all configuration values for the API server.
type Config struct {
	// Server settings
	Port int    `koanf:"port"`
	Env  string `koanf:"env"`

	// Database
	DatabaseURL string `koanf:"database_url"`

	// Redis (optional; empty disables provider-response caching)
	RedisURL string `koanf:"redis_url"`

	// JWT Authentication
	JWTSecret         string `koanf:"jwt_secret"`
	JWTPreviousSecret string `koanf:"jwt_previous_secret"`

	// Spotify OAuth
	SpotifyClientID     string `koanf:"spotify_client_id"`
	SpotifyClientSecret string `koanf:"spotify_client_secret"`
	SpotifyRedirectURI  string `koanf:"spotify_redirect_uri"`

	// Apple Music developer-token signing
	AppleKeyID      string `koanf:"apple_key_id"`
	AppleTeamID     string `koanf:"apple_team_id"`
	AppleMediaID    string `koanf:"apple_media_id"`
	ApplePrivateKey string `koanf:"apple_private_key"`

	// Ticketmaster Discovery
	TicketmasterAPIKey string `koanf:"ticketmaster_api_key"`

	// DefaultSearchRadius is the concert search radius (miles) for users
	// who have not set one.
	DefaultSearchRadius int `koanf:"default_search_radius"`

	// CORSAllowedOrigins is the browser origin allowlist. Empty disables
	// CORS handling entirely.
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins"`
}

// Configuration validation errors.
var (
	ErrMissingDatabaseURL         = errors.New("DATABASE_URL is required")
	ErrMissingJWTSecret           = errors.New("JWT_SECRET is required")
	ErrMissingTicketmasterAPIKey  = errors.New("TICKETMASTER_API_KEY is required")
	ErrMissingSpotifyClientID     = errors.New("SPOTIFY_CLIENT_ID is required")
	ErrMissingSpotifyClientSecret = errors.New("SPOTIFY_CLIENT_SECRET is required")
	ErrMissingAppleKeyID          = errors.New("APPLE_KEY_ID is required")
	ErrMissingAppleTeamID         = errors.New("APPLE_TEAM_ID is required")
	ErrMissingApplePrivateKey     = errors.New("APPLE_PRIVATE_KEY is required")
	ErrInvalidPort                = errors.New("PORT must be a valid integer")
)

// Default values for non-secret configuration.
const (
	DefaultPort               = 3001
	DefaultEnv                = "development"
	DefaultSpotifyRedirectURI = "http://localhost:3001/api/spotify/callback"
	DefaultSearchRadiusMiles  = 30
)

// Load reads configuration from environment variables and an optional config file.
// Environment variables take precedence over file values.
// Returns the loaded config and a slice of validation errors (empty if valid).
// If a config file path is provided and the file cannot be loaded, an error is returned.
func Load(configFilePath string) (*Config, []error) {
	k := koanf.New(".")
	var loadErrs []error

	// Load from YAML file first if provided (lower precedence)
	if configFilePath != "" {
		if err := k.Load(file.Provider(configFilePath), yaml.Parser()); err != nil {
			return nil, []error{fmt.Errorf("failed to load config file %s: %w", configFilePath, err)}
		}
	}

	port, portErr := getEnvIntOrDefault("PORT", k.Int("port"), DefaultPort)
	if portErr != nil {
		loadErrs = append(loadErrs, portErr)
	}

	radius, radiusErr := getEnvIntOrDefault("DEFAULT_SEARCH_RADIUS", k.Int("default_search_radius"), DefaultSearchRadiusMiles)
	if radiusErr != nil {
		loadErrs = append(loadErrs, radiusErr)
	}

	// Build config struct, with env vars taking precedence over file values
	cfg := &Config{
		Port:                port,
		Env:                 getEnvOrDefaultMulti([]string{"WKND_ENV", "ENV", "GO_ENV"}, k.String("env"), DefaultEnv),
		DatabaseURL:         getEnvOrKoanf("DATABASE_URL", k, "database_url"),
		RedisURL:            getEnvOrKoanf("REDIS_URL", k, "redis_url"),
		JWTSecret:           getEnvOrKoanf("JWT_SECRET", k, "jwt_secret"),
		JWTPreviousSecret:   getEnvOrKoanf("JWT_PREVIOUS_SECRET", k, "jwt_previous_secret"),
		SpotifyClientID:     getEnvOrKoanf("SPOTIFY_CLIENT_ID", k, "spotify_client_id"),
		SpotifyClientSecret: getEnvOrKoanf("SPOTIFY_CLIENT_SECRET", k, "spotify_client_secret"),
		SpotifyRedirectURI:  getEnvOrDefault("SPOTIFY_REDIRECT_URI", k.String("spotify_redirect_uri"), DefaultSpotifyRedirectURI),
		AppleKeyID:          getEnvOrKoanf("APPLE_KEY_ID", k, "apple_key_id"),
		AppleTeamID:         getEnvOrKoanf("APPLE_TEAM_ID", k, "apple_team_id"),
		AppleMediaID:        getEnvOrKoanf("APPLE_MEDIA_ID", k, "apple_media_id"),
		ApplePrivateKey:     getEnvOrKoanf("APPLE_PRIVATE_KEY", k, "apple_private_key"),
		TicketmasterAPIKey:  getEnvOrKoanf("TICKETMASTER_API_KEY", k, "ticketmaster_api_key"),
		DefaultSearchRadius: radius,
		CORSAllowedOrigins:  splitList(getEnvOrKoanf("CORS_ALLOWED_ORIGINS", k, "cors_allowed_origins")),
	}

	// Validate and collect errors
	errs := cfg.Validate()
	errs = append(loadErrs, errs...)

	return cfg, errs
}

// splitList splits a comma-separated value into trimmed non-empty entries.
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// getEnvOrKoanf returns the environment variable value if set, otherwise the koanf value.
func getEnvOrKoanf(envKey string, k *koanf.Koanf, koanfKey string) string {
	if val := os.Getenv(envKey); val != "" {
		return val
	}
	return k.String(koanfKey)
}

// getEnvOrDefault returns the environment variable value if set, otherwise the koanf value, or default.
func getEnvOrDefault(envKey string, koanfVal string, defaultVal string) string {
	if val := os.Getenv(envKey); val != "" {
		return val
	}
	if koanfVal != "" {
		return koanfVal
	}
	return defaultVal
}

// getEnvOrDefaultMulti tries multiple environment variable keys in order.
// Returns the first non-empty value found, otherwise the koanf value, or default.
func getEnvOrDefaultMulti(envKeys []string, koanfVal string, defaultVal string) string {
	for _, key := range envKeys {
		if val := os.Getenv(key); val != "" {
			return val
		}
	}
	if koanfVal != "" {
		return koanfVal
	}
	return defaultVal
}

// getEnvIntOrDefault returns the environment variable as int if set, otherwise the koanf value, or default.
// Returns an error if the environment variable is set but cannot be parsed as an integer.
func getEnvIntOrDefault(envKey string, koanfVal int, defaultVal int) (int, error) {
	if val := os.Getenv(envKey); val != "" {
		i, err := strconv.Atoi(val)
		if err != nil {
			return 0, fmt.Errorf("%s must be a valid integer: %w", envKey, ErrInvalidPort)
		}
		return i, nil
	}
	if koanfVal != 0 {
		return koanfVal, nil
	}
	return defaultVal, nil
}

// Validate checks that all required configuration values are present.
// Returns a slice of validation errors (empty if valid).
func (c *Config) Validate() []error {
	var errs []error

	// Development runs on in-memory repositories without a database.
	if c.DatabaseURL == "" && c.Env == "production" {
		errs = append(errs, ErrMissingDatabaseURL)
	}
	if c.JWTSecret == "" {
		errs = append(errs, ErrMissingJWTSecret)
	}
	if c.TicketmasterAPIKey == "" {
		errs = append(errs, ErrMissingTicketmasterAPIKey)
	}

	// Spotify configuration is optional. Only validate fields if any value is set.
	if c.SpotifyClientID != "" || c.SpotifyClientSecret != "" {
		if c.SpotifyClientID == "" {
			errs = append(errs, ErrMissingSpotifyClientID)
		}
		if c.SpotifyClientSecret == "" {
			errs = append(errs, ErrMissingSpotifyClientSecret)
		}
	}

	// Apple Music configuration is optional. Only validate fields if any value is set.
	if c.AppleKeyID != "" || c.AppleTeamID != "" || c.ApplePrivateKey != "" {
		if c.AppleKeyID == "" {
			errs = append(errs, ErrMissingAppleKeyID)
		}
		if c.AppleTeamID == "" {
			errs = append(errs, ErrMissingAppleTeamID)
		}
		if c.ApplePrivateKey == "" {
			errs = append(errs, ErrMissingApplePrivateKey)
		}
	}

	return errs
}

// LogSummary returns a summary of the configuration suitable for logging.
// All secrets are masked to prevent accidental exposure.
func (c *Config) LogSummary() map[string]string {
	return map[string]string{
		"port":                  fmt.Sprintf("%d", c.Port),
		"env":                   c.Env,
		"database_url":          maskDatabaseURL(c.DatabaseURL),
		"redis_url":             maskDatabaseURL(c.RedisURL),
		"jwt_secret":            maskSecret(c.JWTSecret),
		"spotify_client_id":     c.SpotifyClientID,
		"spotify_client_secret": maskSecret(c.SpotifyClientSecret),
		"spotify_redirect_uri":  c.SpotifyRedirectURI,
		"apple_key_id":          c.AppleKeyID,
		"apple_team_id":         c.AppleTeamID,
		"apple_private_key":     maskSecret(c.ApplePrivateKey),
		"ticketmaster_api_key":  maskSecret(c.TicketmasterAPIKey),
		"default_search_radius": fmt.Sprintf("%d", c.DefaultSearchRadius),
	}
}

// maskSecret masks a secret value, showing only the first 4 characters followed by ****
// If the secret is shorter than 8 characters, it's fully masked.
func maskSecret(s string) string {
	if s == "" {
		return "<not set>"
	}
	if len(s) < 8 {
		return "****"
	}
	return s[:4] + "****"
}

// maskDatabaseURL masks the password in a connection URL.
// Supports postgres://, postgresql://, and redis:// schemes.
func maskDatabaseURL(s string) string {
	if s == "" {
		return "<not set>"
	}

	schemeEnd := strings.Index(s, "://")
	if schemeEnd == -1 {
		return maskSecret(s)
	}

	rest := s[schemeEnd+3:]
	atIndex := strings.Index(rest, "@")
	if atIndex == -1 {
		return s // No credentials in URL
	}

	colonIndex := strings.Index(rest[:atIndex], ":")
	if colonIndex == -1 {
		return s // No password (only username)
	}

	scheme := s[:schemeEnd+3]
	userPart := rest[:colonIndex]
	hostAndPath := rest[atIndex:]

	return scheme + userPart + ":****" + hostAndPath
}
