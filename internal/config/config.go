package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultPort          = "8080"
	defaultDatabaseURL   = "trueflow.db"
	defaultJWTTTL        = "24h"
	defaultJWTSecret     = "change-me-jwt-secret"
	defaultResendBase    = "https://api.resend.com"
	defaultResendFrom    = "TrueFlow AI <leads@trueflow.ai>"
	defaultGHLBase       = "https://services.leadconnectorhq.com"
	defaultFieldCacheTTL = "1h"
)

// ResendConfig configures the transactional email provider.
type ResendConfig struct {
	APIKey  string
	BaseURL string
	From    string
	To      []string
}

// Enabled reports whether email delivery is configured. A missing or
// placeholder key degrades to log-only behavior, it does not fail startup.
func (c ResendConfig) Enabled() bool {
	return c.APIKey != "" && !strings.HasPrefix(c.APIKey, "re_placeholder") && len(c.To) > 0
}

// GHLConfig configures the GoHighLevel CRM integration.
type GHLConfig struct {
	Token               string
	LocationID          string
	BaseURL             string
	PipelineID          string
	PipelineStageID     string
	CreateOpportunities bool
}

// Enabled reports whether CRM delivery is configured.
func (c GHLConfig) Enabled() bool {
	return c.Token != "" && c.LocationID != ""
}

// OpportunitiesEnabled reports whether opportunity records should be created.
func (c GHLConfig) OpportunitiesEnabled() bool {
	return c.CreateOpportunities && c.PipelineID != "" && c.PipelineStageID != ""
}

type Config struct {
	AppEnv      string
	Port        string
	DatabaseURL string
	CORSOrigins []string

	AdminEmail        string
	AdminPasswordHash string
	JWTSecret         string
	JWTTTL            time.Duration

	Resend ResendConfig
	GHL    GHLConfig

	FieldCacheTTL time.Duration
}

func Load() (*Config, error) {
	cfg := &Config{}

	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = strings.TrimSpace(os.Getenv("ENV"))
	}
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.Port = getEnv("PORT", defaultPort)
	cfg.DatabaseURL = getEnv("DATABASE_URL", defaultDatabaseURL)
	cfg.CORSOrigins = splitList(os.Getenv("CORS_ALLOWED_ORIGINS"))

	cfg.AdminEmail = strings.TrimSpace(os.Getenv("ADMIN_EMAIL"))
	cfg.AdminPasswordHash = strings.TrimSpace(os.Getenv("ADMIN_PASSWORD_HASH"))
	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))

	var err error
	cfg.JWTTTL, err = parseDurationEnv("JWT_TTL", defaultJWTTTL)
	if err != nil {
		return nil, err
	}

	cfg.FieldCacheTTL, err = parseDurationEnv("FIELD_CACHE_TTL", defaultFieldCacheTTL)
	if err != nil {
		return nil, err
	}

	cfg.Resend = ResendConfig{
		APIKey:  strings.TrimSpace(os.Getenv("RESEND_API_KEY")),
		BaseURL: getEnv("RESEND_API_BASE", defaultResendBase),
		From:    getEnv("RESEND_FROM", defaultResendFrom),
		To:      splitList(os.Getenv("LEAD_NOTIFY_TO")),
	}

	cfg.GHL = GHLConfig{
		Token:               strings.TrimSpace(os.Getenv("GHL_API_TOKEN")),
		LocationID:          strings.TrimSpace(os.Getenv("GHL_LOCATION_ID")),
		BaseURL:             getEnv("GHL_API_BASE", defaultGHLBase),
		PipelineID:          strings.TrimSpace(os.Getenv("GHL_PIPELINE_ID")),
		PipelineStageID:     strings.TrimSpace(os.Getenv("GHL_PIPELINE_STAGE_ID")),
		CreateOpportunities: parseBoolEnv("GHL_CREATE_OPPORTUNITIES", "false"),
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	if !cfg.Resend.Enabled() {
		log.Println("resend is not configured, email notifications run in log-only mode")
	}
	if !cfg.GHL.Enabled() {
		log.Println("gohighlevel is not configured, CRM sync runs in log-only mode")
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	if cfg.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be > 0")
	}
	if cfg.FieldCacheTTL <= 0 {
		return fmt.Errorf("FIELD_CACHE_TTL must be > 0")
	}

	if isProdLike(cfg.AppEnv) {
		if isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
		if cfg.AdminEmail == "" || cfg.AdminPasswordHash == "" {
			return fmt.Errorf("in prod/release ADMIN_EMAIL and ADMIN_PASSWORD_HASH must be set")
		}
	}

	return nil
}

func isProdLike(env string) bool {
	switch env {
	case "prod", "production", "release":
		return true
	}
	return false
}

func isEmptyOrDefault(v, def string) bool {
	return v == "" || v == def
}

func getEnv(name, def string) string {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		return v
	}
	return def
}

func parseDurationEnv(name, def string) (time.Duration, error) {
	raw := getEnv(name, def)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q", name, raw)
	}
	return d, nil
}

func parseBoolEnv(name, def string) bool {
	raw := getEnv(name, def)
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false
	}
	return v
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
