package config

import (
	"strings"
	"time"

	apperrors "github.com/coachevelyne/coachevelyne-api/pkg/errors"
	"github.com/spf13/viper"
)

// Config holds all application configuration
//
//nolint:govet // Field alignment optimization would reduce readability
type Config struct {
	Server        ServerConfig
	SMTP          SMTPConfig
	RateLimit     RateLimitConfig
	Site          SiteConfig
	Logging       LoggingConfig
	Observability ObservabilityConfig
	Profiling     ProfilingConfig
}

type ServerConfig struct {
	Port           string
	GinMode        string
	AppEnv         string
	AllowedOrigins []string
}

// SMTPConfig holds the outbound mail transport settings.
// User and Password are the process-level credentials and are mandatory.
type SMTPConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	Recipient   string
	DialTimeout time.Duration
}

type RateLimitConfig struct {
	ContactLimit   int
	ContactWindow  time.Duration
	SweepThreshold int
}

// SiteConfig is the fixed business contact info embedded in outbound mail
type SiteConfig struct {
	Name         string
	ContactPhone string
	ContactEmail string
	Location     string
}

type LoggingConfig struct {
	Level string
	Dir   string
}

type ObservabilityConfig struct {
	ExporterEndpoint  string
	ServiceName       string
	ServiceNamespace  string
	ServiceVersion    string
	ServiceInstanceID string
}

type ProfilingConfig struct {
	Enabled               bool
	Endpoint              string
	AppName               string
	SampleTypes           string
	UploadIntervalSeconds int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("PORT", "8080")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("APP_ENV", "production")
	v.SetDefault("ALLOWED_CORS_ORIGINS", "https://coachevelyne.com,https://www.coachevelyne.com")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_DIR", "/app/logs")
	v.SetDefault("SMTP_HOST", "smtp.gmail.com")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_DIAL_TIMEOUT_SECONDS", 10)
	v.SetDefault("CONTACT_RATE_LIMIT", 5)
	v.SetDefault("CONTACT_RATE_WINDOW_SECONDS", 60)
	v.SetDefault("RATE_LIMIT_SWEEP_THRESHOLD", 1000)
	v.SetDefault("SITE_NAME", "Coach Evelyne")
	v.SetDefault("SITE_CONTACT_PHONE", "+61 478 540 927")
	v.SetDefault("SITE_CONTACT_EMAIL", "hello@coachevelyne.com")
	v.SetDefault("SITE_LOCATION", "Coolum, Sunshine Coast, QLD")
	v.SetDefault("O11Y_EXPORTER_ENDPOINT", "")
	v.SetDefault("O11Y_BE_SERVICE_NAME", "coachevelyne-api")
	v.SetDefault("O11Y_SERVICE_NAMESPACE", "coachevelyne")
	v.SetDefault("O11Y_BE_SERVICE_VERSION", "1.0.0")
	v.SetDefault("O11Y_PROFILING_ENABLED", false)
	v.SetDefault("O11Y_PROFILING_APP_NAME", "coachevelyne-api")
	v.SetDefault("O11Y_PROFILING_SAMPLE_TYPES", "cpu,alloc_space,goroutines")
	v.SetDefault("O11Y_PROFILING_UPLOAD_INTERVAL_SECONDS", 15)

	// Automatically read environment variables
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read from .env file if it exists
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("..")
	_ = v.ReadInConfig() //nolint:errcheck // Ignore error if .env file doesn't exist

	smtpUser := strings.TrimSpace(v.GetString("SMTP_USER"))
	recipient := strings.TrimSpace(v.GetString("CONTACT_RECIPIENT"))
	if recipient == "" {
		recipient = smtpUser
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           v.GetString("PORT"),
			GinMode:        v.GetString("GIN_MODE"),
			AppEnv:         v.GetString("APP_ENV"),
			AllowedOrigins: splitList(v.GetString("ALLOWED_CORS_ORIGINS")),
		},
		SMTP: SMTPConfig{
			Host:        v.GetString("SMTP_HOST"),
			Port:        v.GetInt("SMTP_PORT"),
			User:        smtpUser,
			Password:    v.GetString("SMTP_PASS"),
			Recipient:   recipient,
			DialTimeout: time.Duration(v.GetInt("SMTP_DIAL_TIMEOUT_SECONDS")) * time.Second,
		},
		RateLimit: RateLimitConfig{
			ContactLimit:   v.GetInt("CONTACT_RATE_LIMIT"),
			ContactWindow:  time.Duration(v.GetInt("CONTACT_RATE_WINDOW_SECONDS")) * time.Second,
			SweepThreshold: v.GetInt("RATE_LIMIT_SWEEP_THRESHOLD"),
		},
		Site: SiteConfig{
			Name:         v.GetString("SITE_NAME"),
			ContactPhone: v.GetString("SITE_CONTACT_PHONE"),
			ContactEmail: v.GetString("SITE_CONTACT_EMAIL"),
			Location:     v.GetString("SITE_LOCATION"),
		},
		Logging: LoggingConfig{
			Level: v.GetString("LOG_LEVEL"),
			Dir:   v.GetString("LOG_DIR"),
		},
		Observability: ObservabilityConfig{
			ExporterEndpoint:  v.GetString("O11Y_EXPORTER_ENDPOINT"),
			ServiceName:       v.GetString("O11Y_BE_SERVICE_NAME"),
			ServiceNamespace:  v.GetString("O11Y_SERVICE_NAMESPACE"),
			ServiceVersion:    v.GetString("O11Y_BE_SERVICE_VERSION"),
			ServiceInstanceID: v.GetString("SERVICE_INSTANCE_ID"),
		},
		Profiling: ProfilingConfig{
			Enabled:               v.GetBool("O11Y_PROFILING_ENABLED"),
			Endpoint:              v.GetString("O11Y_PROFILING_ENDPOINT"),
			AppName:               v.GetString("O11Y_PROFILING_APP_NAME"),
			SampleTypes:           v.GetString("O11Y_PROFILING_SAMPLE_TYPES"),
			UploadIntervalSeconds: v.GetInt("O11Y_PROFILING_UPLOAD_INTERVAL_SECONDS"),
		},
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration values are set.
// Missing mail credentials are reported together so the operator can fix them in one pass.
func (c *Config) Validate() error {
	var missing []string
	if strings.TrimSpace(c.SMTP.User) == "" {
		missing = append(missing, "SMTP_USER")
	}
	if strings.TrimSpace(c.SMTP.Password) == "" {
		missing = append(missing, "SMTP_PASS")
	}
	if len(missing) > 0 {
		return apperrors.ConfigurationError("missing required environment variables: " + strings.Join(missing, ", "))
	}

	if c.SMTP.Host == "" || c.SMTP.Port <= 0 {
		return apperrors.ConfigurationError("SMTP_HOST and SMTP_PORT are required")
	}

	if c.Server.Port == "" {
		return apperrors.ConfigurationError("PORT is required")
	}

	if c.RateLimit.ContactLimit <= 0 || c.RateLimit.ContactWindow <= 0 {
		return apperrors.ConfigurationError("CONTACT_RATE_LIMIT and CONTACT_RATE_WINDOW_SECONDS must be positive")
	}

	if c.Profiling.Enabled && c.Profiling.Endpoint == "" {
		return apperrors.ConfigurationError("O11Y_PROFILING_ENDPOINT is required when profiling is enabled")
	}

	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.AppEnv == "development" || c.Server.GinMode == "debug"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.AppEnv == "production"
}

func splitList(raw string) []string {
	items := []string{}
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}
