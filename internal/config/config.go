package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Restaurant environment keys and the literal defaults used when a key is unset
const (
	KeyDeploymentName        = "DEPLOYMENT_NAME"
	KeyLogoURL               = "LOGO_URL"
	KeyRestaurantName        = "RESTAURANT_NAME"
	KeyRestaurantDescription = "RESTAURANT_DESCRIPTION"

	DefaultDeploymentName        = "Default Name"
	DefaultLogoURL               = "Default URL"
	DefaultRestaurantName        = "Default Restaurant"
	DefaultRestaurantDescription = "Default Description"
)

// Greeter variants
const (
	VariantStatus = "status"
	VariantLogo   = "logo"
)

var (
	ErrUnknownVariant = errors.New("unknown greeter variant")
	ErrInvalidSetting = errors.New("invalid setting")
)

// Restaurant is the read-only set of values rendered into a greeting
type Restaurant struct {
	DeploymentName string
	LogoURL        string
	Name           string
	Description    string
}

// LookupFunc matches os.LookupEnv
type LookupFunc func(key string) (string, bool)

// LoadRestaurant reads the restaurant values from the process environment
func LoadRestaurant() Restaurant {
	return LoadRestaurantFrom(os.LookupEnv)
}

// LoadRestaurantFrom reads the restaurant values through lookup. A key that is
// set to the empty string keeps the empty value.
func LoadRestaurantFrom(lookup LookupFunc) Restaurant {
	return Restaurant{
		DeploymentName: getEnv(lookup, KeyDeploymentName, DefaultDeploymentName),
		LogoURL:        getEnv(lookup, KeyLogoURL, DefaultLogoURL),
		Name:           getEnv(lookup, KeyRestaurantName, DefaultRestaurantName),
		Description:    getEnv(lookup, KeyRestaurantDescription, DefaultRestaurantDescription),
	}
}

func getEnv(lookup LookupFunc, key, fallback string) string {
	if value, ok := lookup(key); ok {
		return value
	}
	return fallback
}

// Service holds the process settings for the hosts around the greeter
type Service struct {
	ListenAddr         string
	LogLevel           string
	LogFormat          string
	Variant            string
	SessionSecret      string
	SessionTTL         time.Duration
	SessionIdleTimeout time.Duration
	DatabaseURL        string
	TelegramToken      string
	WhatsAppEnabled    bool
	WhatsAppDBPath     string
	AdminUser          string
	AdminPasswordHash  string
	RateLimitRPS       float64
	RateLimitBurst     int
}

// LoadDotEnv loads .env files into the process environment. Missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, os.ErrNotExist) {
			slog.Debug("No env file found, skipping", "file", f)
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// LoadService reads the service settings from the process environment
func LoadService() (Service, error) {
	return LoadServiceFrom(os.LookupEnv)
}

// LoadServiceFrom reads the service settings through lookup
func LoadServiceFrom(lookup LookupFunc) (Service, error) {
	cfg := Service{
		ListenAddr:        getEnv(lookup, "LISTEN_ADDR", ":8080"),
		LogLevel:          getEnv(lookup, "LOG_LEVEL", "info"),
		LogFormat:         getEnv(lookup, "LOG_FORMAT", "text"),
		Variant:           strings.ToLower(getEnv(lookup, "GREETER_VARIANT", VariantStatus)),
		SessionSecret:     getEnv(lookup, "SESSION_SECRET", ""),
		DatabaseURL:       getEnv(lookup, "DATABASE_URL", ""),
		TelegramToken:     getEnv(lookup, "TELEGRAM_BOT_TOKEN", ""),
		WhatsAppDBPath:    getEnv(lookup, "WHATSAPP_DB_PATH", "devices/whatsapp.db"),
		AdminUser:         getEnv(lookup, "ADMIN_USER", "admin"),
		AdminPasswordHash: getEnv(lookup, "ADMIN_PASSWORD_HASH", ""),
	}

	var err error
	if cfg.SessionTTL, err = parseDuration(lookup, "SESSION_TTL", 24*time.Hour); err != nil {
		return cfg, err
	}
	if cfg.SessionIdleTimeout, err = parseDuration(lookup, "SESSION_IDLE_TIMEOUT", 30*time.Minute); err != nil {
		return cfg, err
	}
	if cfg.WhatsAppEnabled, err = parseBool(lookup, "WHATSAPP_ENABLED", false); err != nil {
		return cfg, err
	}
	if cfg.RateLimitRPS, err = parseFloat(lookup, "RATE_LIMIT_RPS", 5); err != nil {
		return cfg, err
	}
	if cfg.RateLimitBurst, err = parseInt(lookup, "RATE_LIMIT_BURST", 10); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the settings for values the hosts cannot run with
func (s Service) Validate() error {
	switch s.Variant {
	case VariantStatus, VariantLogo:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownVariant, s.Variant)
	}
	if s.ListenAddr == "" {
		return fmt.Errorf("%w: listen address is empty", ErrInvalidSetting)
	}
	if s.SessionTTL <= 0 {
		return fmt.Errorf("%w: session ttl must be positive", ErrInvalidSetting)
	}
	if s.SessionIdleTimeout <= 0 {
		return fmt.Errorf("%w: session idle timeout must be positive", ErrInvalidSetting)
	}
	if s.RateLimitRPS <= 0 || s.RateLimitBurst <= 0 {
		return fmt.Errorf("%w: rate limit must be positive", ErrInvalidSetting)
	}
	if s.WhatsAppEnabled && s.WhatsAppDBPath == "" {
		return fmt.Errorf("%w: whatsapp db path is empty", ErrInvalidSetting)
	}
	return nil
}

func parseDuration(lookup LookupFunc, key string, fallback time.Duration) (time.Duration, error) {
	raw, ok := lookup(key)
	if !ok || raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", ErrInvalidSetting, key, err)
	}
	return d, nil
}

func parseBool(lookup LookupFunc, key string, fallback bool) (bool, error) {
	raw, ok := lookup(key)
	if !ok || raw == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%w: %s: %w", ErrInvalidSetting, key, err)
	}
	return b, nil
}

func parseFloat(lookup LookupFunc, key string, fallback float64) (float64, error) {
	raw, ok := lookup(key)
	if !ok || raw == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", ErrInvalidSetting, key, err)
	}
	return f, nil
}

func parseInt(lookup LookupFunc, key string, fallback int) (int, error) {
	raw, ok := lookup(key)
	if !ok || raw == "" {
		return fallback, nil
	}
	i, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", ErrInvalidSetting, key, err)
	}
	return i, nil
}
