package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server   ServerConfig
	Auth     AuthConfig
	Store    StoreConfig
	AdminAPI AdminAPIConfig
	Email    EmailConfig
	Redis    RedisConfig
	NATS     NATSConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

func (s ServerConfig) Production() bool {
	return s.Env == "production"
}

type AuthConfig struct {
	// Shared owner-dashboard secret. OWNER_DASHBOARD_SECRET wins over the
	// legacy ADMIN_API_SECRET name; both stay recognized.
	Secret string
}

type StoreConfig struct {
	URL            string
	ServiceRoleKey string
}

type AdminAPIConfig struct {
	BaseURL string
}

type EmailConfig struct {
	SMTPHost         string
	SMTPPort         int
	SMTPUser         string
	SMTPPass         string
	SMTPSecure       bool
	FromEmail        string
	ContactRecipient string
	MailerSendKey    string
	MailerFromName   string
	DevMode          bool // print emails to logs instead of sending
}

type RedisConfig struct {
	URL string
}

type NATSConfig struct {
	URL string
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			Env:          getEnv("APP_ENV", "development"),
			ReadTimeout:  getDuration("SERVER_READ_TIMEOUT", 5*time.Second),
			WriteTimeout: getDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
			IdleTimeout:  getDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
		},
		Auth: AuthConfig{
			Secret: firstEnv("OWNER_DASHBOARD_SECRET", "ADMIN_API_SECRET"),
		},
		Store: StoreConfig{
			URL:            getEnv("SUPABASE_URL", ""),
			ServiceRoleKey: getEnv("SUPABASE_SERVICE_ROLE_KEY", ""),
		},
		AdminAPI: AdminAPIConfig{
			BaseURL: firstEnvDefault("http://localhost:3000",
				"INTERNAL_API_BASE_URL", "BOOKINGS_SITE_URL", "NEXT_PUBLIC_SITE_URL"),
		},
		Email: EmailConfig{
			SMTPHost:         getEnv("SMTP_HOST", "localhost"),
			SMTPPort:         getInt("SMTP_PORT", 1025),
			SMTPUser:         getEnv("SMTP_USER", ""),
			SMTPPass:         getEnv("SMTP_PASS", ""),
			SMTPSecure:       getBool("SMTP_SECURE", false),
			FromEmail:        getEnv("SMTP_FROM_EMAIL", ""),
			ContactRecipient: getEnv("CONTACT_RECIPIENT_EMAIL", ""),
			MailerSendKey:    getEnv("MAILERSEND_API_KEY", ""),
			MailerFromName:   getEnv("MAILER_FROM_NAME", "Stroman Properties"),
			DevMode:          getBool("EMAIL_DEV_MODE", false),
		},
		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", ""),
		},
		NATS: NATSConfig{
			URL: getEnv("NATS_URL", ""),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// firstEnv returns the first non-empty (after trimming) value among keys.
func firstEnv(keys ...string) string {
	for _, key := range keys {
		if value := strings.TrimSpace(os.Getenv(key)); value != "" {
			return value
		}
	}
	return ""
}

func firstEnvDefault(fallback string, keys ...string) string {
	if value := firstEnv(keys...); value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
