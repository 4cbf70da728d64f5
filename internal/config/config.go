package config

import (
	"os"
	"strings"
)

type R2Config struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	PublicURL       string
}

type Config struct {
	Env         string
	DatabaseURL string
	Port        string

	// AdminEmails is the process-wide admin allow-list, normalized to
	// lower case once at startup and injected into the resolver. It is
	// read-only after load.
	AdminEmails map[string]bool

	JWTSecret string
	JWTIssuer string

	R2               R2Config
	CloudflareImages struct {
		AccountID string
		Token     string
		Hash      string
	}

	RedisAddr     string
	RedisPassword string

	KafkaBrokers []string
	KafkaTopic   string

	PublicBaseURL   string
	TurnstileSecret string
}

func LoadConfig() *Config {
	cfg := &Config{}

	cfg.Env = os.Getenv("APP_ENV")
	if cfg.Env == "" {
		cfg.Env = "production"
	}
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	cfg.Port = os.Getenv("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
	}

	cfg.AdminEmails = make(map[string]bool)
	for _, e := range strings.Split(os.Getenv("ADMIN_EMAILS"), ",") {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" {
			cfg.AdminEmails[e] = true
		}
	}

	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	cfg.JWTIssuer = os.Getenv("JWT_ISSUER")

	cfg.R2.AccountID = os.Getenv("R2_ACCOUNT_ID")
	cfg.R2.AccessKeyID = os.Getenv("R2_ACCESS_KEY_ID")
	cfg.R2.SecretAccessKey = os.Getenv("R2_SECRET_ACCESS_KEY")
	cfg.R2.Bucket = os.Getenv("R2_BUCKET")
	cfg.R2.PublicURL = os.Getenv("R2_PUBLIC_URL")

	cfg.CloudflareImages.AccountID = os.Getenv("CLOUDFLARE_ACCOUNT_ID")
	cfg.CloudflareImages.Token = os.Getenv("CLOUDFLARE_IMAGES_TOKEN")
	cfg.CloudflareImages.Hash = os.Getenv("CLOUDFLARE_IMAGES_HASH")

	cfg.RedisAddr = os.Getenv("REDIS_ADDR")
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}
	cfg.KafkaTopic = os.Getenv("KAFKA_AUDIT_TOPIC")
	if cfg.KafkaTopic == "" {
		cfg.KafkaTopic = "snapgather.audit"
	}

	cfg.PublicBaseURL = os.Getenv("PUBLIC_BASE_URL")
	cfg.TurnstileSecret = os.Getenv("CF_TURNSTILE_SECRET_KEY")

	return cfg
}

// IsAdminEmail reports allow-list membership, case-insensitively.
func (c *Config) IsAdminEmail(email string) bool {
	return c.AdminEmails[strings.ToLower(email)]
}
