// Package config loads the server settings from the environment.
//
// Every key can come from a real environment variable or from a dotenv file
// (ENV_FILE, default ".env"). Real variables win over the file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Revocation modes for SESSION_REVOCATION.
const (
	RevocationNone   = "none"
	RevocationMemory = "memory"
	RevocationRedis  = "redis"
)

// Config holds every setting the server reads at startup.
type Config struct {
	Port        int
	Environment string // "development" or "production"
	DBPath      string

	JWTSecret string

	StripeSecretKey string
	PaymentCurrency string

	ClientOrigins []string

	SessionRevocation string
	RedisAddr         string
	RedisPassword     string
	RedisDB           int

	// StrictReferences rejects food requests that point at a missing listing.
	StrictReferences bool

	GitHubClientID     string
	GitHubClientSecret string
	GitHubCallbackURL  string

	LogLevel slog.Level
}

// Production reports whether the server runs behind a cross-site frontend.
func (c Config) Production() bool {
	return c.Environment == "production"
}

// GitHubEnabled reports whether verified login through GitHub is configured.
func (c Config) GitHubEnabled() bool {
	return c.GitHubClientID != "" && c.GitHubClientSecret != ""
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", 3000)
	v.SetDefault("DB_PATH", "data/sustaineats.db")
	v.SetDefault("PAYMENT_CURRENCY", "usd")
	v.SetDefault("CLIENT_ORIGINS", "http://localhost:5173")
	v.SetDefault("SESSION_REVOCATION", RevocationNone)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("STRICT_REFERENCES", false)
	v.SetDefault("LOG_LEVEL", "info")
}

// keys lists everything read through viper. AutomaticEnv only consults the
// environment for keys viper already knows, so keys without a default are
// bound explicitly.
var keys = []string{
	"PORT", "APP_ENV", "NODE_ENV", "DB_PATH", "JWT_API_SECRET",
	"STRIPE_SECRET_KEY", "PAYMENT_CURRENCY", "CLIENT_ORIGINS",
	"SESSION_REVOCATION", "REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB",
	"STRICT_REFERENCES", "GITHUB_CLIENT_ID", "GITHUB_CLIENT_SECRET",
	"GITHUB_CALLBACK_URL", "LOG_LEVEL",
}

// Load reads the configuration. A missing dotenv file is not an error; a
// malformed one is.
func Load() (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	for _, k := range keys {
		if err := v.BindEnv(k); err != nil {
			return Config{}, fmt.Errorf("binding %s: %w", k, err)
		}
	}

	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if _, err := os.Stat(envFile); err == nil {
		v.SetConfigFile(envFile)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading %s: %w", envFile, err)
		}
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (Config, error) {
	env := v.GetString("APP_ENV")
	if env == "" {
		env = v.GetString("NODE_ENV")
	}
	env = strings.ToLower(strings.TrimSpace(env))
	if env == "" {
		env = "development"
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(v.GetString("LOG_LEVEL"))); err != nil {
		return Config{}, fmt.Errorf("invalid LOG_LEVEL %q: %w", v.GetString("LOG_LEVEL"), err)
	}

	port := v.GetInt("PORT")
	callback := v.GetString("GITHUB_CALLBACK_URL")
	if callback == "" {
		callback = fmt.Sprintf("http://localhost:%d/auth/github/callback", port)
	}

	cfg := Config{
		Port:               port,
		Environment:        env,
		DBPath:             v.GetString("DB_PATH"),
		JWTSecret:          v.GetString("JWT_API_SECRET"),
		StripeSecretKey:    v.GetString("STRIPE_SECRET_KEY"),
		PaymentCurrency:    strings.ToLower(v.GetString("PAYMENT_CURRENCY")),
		ClientOrigins:      splitList(v.GetString("CLIENT_ORIGINS")),
		SessionRevocation:  strings.ToLower(v.GetString("SESSION_REVOCATION")),
		RedisAddr:          v.GetString("REDIS_ADDR"),
		RedisPassword:      v.GetString("REDIS_PASSWORD"),
		RedisDB:            v.GetInt("REDIS_DB"),
		StrictReferences:   v.GetBool("STRICT_REFERENCES"),
		GitHubClientID:     v.GetString("GITHUB_CLIENT_ID"),
		GitHubClientSecret: v.GetString("GITHUB_CLIENT_SECRET"),
		GitHubCallbackURL:  callback,
		LogLevel:           level,
	}
	return cfg, nil
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

// Validate reports every problem at once so a misconfigured deploy fails
// with the full list.
func (c Config) Validate() error {
	var errs []error
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT %d out of range", c.Port))
	}
	if c.Environment != "development" && c.Environment != "production" {
		errs = append(errs, fmt.Errorf("APP_ENV must be development or production, got %q", c.Environment))
	}
	if c.DBPath == "" {
		errs = append(errs, errors.New("DB_PATH is required"))
	}
	if len(c.JWTSecret) < 16 {
		errs = append(errs, errors.New("JWT_API_SECRET must be at least 16 characters"))
	}
	if c.PaymentCurrency == "" {
		errs = append(errs, errors.New("PAYMENT_CURRENCY is required"))
	}
	switch c.SessionRevocation {
	case RevocationNone, RevocationMemory:
	case RevocationRedis:
		if c.RedisAddr == "" {
			errs = append(errs, errors.New("REDIS_ADDR is required when SESSION_REVOCATION=redis"))
		}
	default:
		errs = append(errs, fmt.Errorf("SESSION_REVOCATION must be none, memory or redis, got %q", c.SessionRevocation))
	}
	if (c.GitHubClientID == "") != (c.GitHubClientSecret == "") {
		errs = append(errs, errors.New("GITHUB_CLIENT_ID and GITHUB_CLIENT_SECRET must be set together"))
	}
	return errors.Join(errs...)
}
