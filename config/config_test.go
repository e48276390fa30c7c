package config

import (
	"errors"
	"os"
	"testing"
	"time"

	apperrors "github.com/coachevelyne/coachevelyne-api/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir changes the working directory for the duration of the test
// (stand-in for testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{Port: "8080"},
		SMTP: SMTPConfig{
			Host:     "smtp.gmail.com",
			Port:     587,
			User:     "coach@example.com",
			Password: "app-password",
		},
		RateLimit: RateLimitConfig{
			ContactLimit:  5,
			ContactWindow: time.Minute,
		},
	}
}

func TestConfig_IsDevelopment(t *testing.T) {
	tests := []struct {
		name     string
		config   *Config
		expected bool
	}{
		{
			name:     "development environment",
			config:   &Config{Server: ServerConfig{AppEnv: "development"}},
			expected: true,
		},
		{
			name:     "debug gin mode",
			config:   &Config{Server: ServerConfig{GinMode: "debug"}},
			expected: true,
		},
		{
			name:     "release mode",
			config:   &Config{Server: ServerConfig{GinMode: "release", AppEnv: "production"}},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.config.IsDevelopment())
		})
	}
}

func TestConfig_IsProduction(t *testing.T) {
	assert.True(t, (&Config{Server: ServerConfig{AppEnv: "production"}}).IsProduction())
	assert.False(t, (&Config{Server: ServerConfig{AppEnv: "staging"}}).IsProduction())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(c *Config)
		errorMsg string
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name:     "missing smtp user",
			mutate:   func(c *Config) { c.SMTP.User = "" },
			errorMsg: "SMTP_USER",
		},
		{
			name:     "blank smtp password",
			mutate:   func(c *Config) { c.SMTP.Password = "   " },
			errorMsg: "SMTP_PASS",
		},
		{
			name: "both credentials missing",
			mutate: func(c *Config) {
				c.SMTP.User = ""
				c.SMTP.Password = ""
			},
			errorMsg: "SMTP_USER, SMTP_PASS",
		},
		{
			name:     "zero rate limit",
			mutate:   func(c *Config) { c.RateLimit.ContactLimit = 0 },
			errorMsg: "CONTACT_RATE_LIMIT",
		},
		{
			name: "profiling without endpoint",
			mutate: func(c *Config) {
				c.Profiling.Enabled = true
			},
			errorMsg: "O11Y_PROFILING_ENDPOINT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.errorMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorMsg)
			assert.True(t, errors.Is(err, apperrors.ErrConfiguration))
		})
	}
}

func TestLoad_WithDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("SMTP_USER", "coach@example.com")
	t.Setenv("SMTP_PASS", "app-password")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.GinMode)
	assert.Equal(t, "smtp.gmail.com", cfg.SMTP.Host)
	assert.Equal(t, 587, cfg.SMTP.Port)
	assert.Equal(t, "coach@example.com", cfg.SMTP.Recipient)
	assert.Equal(t, 10*time.Second, cfg.SMTP.DialTimeout)
	assert.Equal(t, 5, cfg.RateLimit.ContactLimit)
	assert.Equal(t, time.Minute, cfg.RateLimit.ContactWindow)
	assert.Equal(t, 1000, cfg.RateLimit.SweepThreshold)
	assert.Equal(t, "Coach Evelyne", cfg.Site.Name)
	assert.Equal(t, []string{"https://coachevelyne.com", "https://www.coachevelyne.com"}, cfg.Server.AllowedOrigins)
}

func TestLoad_WithEnvironmentVariables(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("SMTP_USER", " coach@example.com ")
	t.Setenv("SMTP_PASS", "app-password")
	t.Setenv("CONTACT_RECIPIENT", "inbox@example.com")
	t.Setenv("SMTP_PORT", "2525")
	t.Setenv("CONTACT_RATE_LIMIT", "10")
	t.Setenv("CONTACT_RATE_WINDOW_SECONDS", "30")
	t.Setenv("ALLOWED_CORS_ORIGINS", "https://a.example, ,https://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "coach@example.com", cfg.SMTP.User)
	assert.Equal(t, "inbox@example.com", cfg.SMTP.Recipient)
	assert.Equal(t, 2525, cfg.SMTP.Port)
	assert.Equal(t, 10, cfg.RateLimit.ContactLimit)
	assert.Equal(t, 30*time.Second, cfg.RateLimit.ContactWindow)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
}

func TestLoad_MissingCredentialsFailsFast(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("SMTP_USER", "")
	t.Setenv("SMTP_PASS", "")

	cfg, err := Load()

	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.True(t, errors.Is(err, apperrors.ErrConfiguration))
	assert.Contains(t, err.Error(), "SMTP_USER, SMTP_PASS")
}
