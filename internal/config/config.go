// Package config lê o .env (quando existe) e as variáveis de ambiente do serviço.
package config

import (
	"errors"
	"fmt"
	"net/netip"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DatabaseURL string
	RedisURL    string
	RabbitMQURL string

	MailHost string
	MailPort int
	MailUser string
	MailPass string
	MailFrom string

	CORSAllowedOrigins []string
	RateLimitPerMinute int
	// Só conexões vindas destas faixas podem informar o IP do cliente via X-Forwarded-For.
	TrustedProxies []netip.Prefix

	StaleJobAfter    time.Duration
	StaleJobInterval time.Duration
	DBAutoMigrate    bool
}

// Load carrega o .env sem sobrescrever o que já está no ambiente.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

func FromEnv() (*Config, error) {
	var errs []error

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),
		RabbitMQURL: os.Getenv("RABBITMQ_URL"),
		MailHost:    os.Getenv("MAIL_HOST"),
		MailUser:    os.Getenv("MAIL_USER"),
		MailPass:    os.Getenv("MAIL_PASS"),
		MailFrom:    getEnv("MAIL_FROM", "no-reply@leadgen.app"),
	}

	if cfg.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	}

	cfg.MailPort = getInt("MAIL_PORT", 587, &errs)
	cfg.RateLimitPerMinute = getInt("RATE_LIMIT_PER_MINUTE", 120, &errs)
	cfg.StaleJobAfter = getDuration("STALE_JOB_AFTER", 2*time.Hour, &errs)
	cfg.StaleJobInterval = getDuration("STALE_JOB_INTERVAL", 5*time.Minute, &errs)
	cfg.DBAutoMigrate = getBool("DB_AUTO_MIGRATE", true, &errs)
	cfg.CORSAllowedOrigins = splitList(getEnv("CORS_ALLOWED_ORIGINS", "*"))
	cfg.TrustedProxies = getPrefixes("TRUSTED_PROXIES", &errs)

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) MailEnabled() bool {
	return c.MailHost != ""
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int, errs *[]error) int {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		*errs = append(*errs, fmt.Errorf("%s must be a positive integer, got %q", key, raw))
		return fallback
	}
	return n
}

func getDuration(key string, fallback time.Duration, errs *[]error) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		*errs = append(*errs, fmt.Errorf("%s must be a positive duration, got %q", key, raw))
		return fallback
	}
	return d
}

func getBool(key string, fallback bool, errs *[]error) bool {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s must be a boolean, got %q", key, raw))
		return fallback
	}
	return b
}

// getPrefixes aceita CIDRs ou IPs soltos ("10.0.0.0/8, 127.0.0.1").
func getPrefixes(key string, errs *[]error) []netip.Prefix {
	var out []netip.Prefix
	for _, item := range splitList(getEnv(key, "")) {
		if p, err := netip.ParsePrefix(item); err == nil {
			out = append(out, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(item)
		if err != nil {
			*errs = append(*errs, fmt.Errorf("%s has an invalid CIDR or IP %q", key, item))
			continue
		}
		addr = addr.Unmap()
		out = append(out, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return out
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
