package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "GIN_MODE", "LOG_LEVEL", "DATABASE_PATH", "NAV_THRESHOLD",
		"CONTACT_RESET_AFTER", "CONTACT_RECIPIENT", "RELAY_DRIVER", "SESSION_TTL", "MAX_SESSIONS",
		"EMAILJS_ENDPOINT", "EMAILJS_SERVICE_ID", "EMAILJS_TEMPLATE_ID",
		"EMAILJS_PUBLIC_KEY", "EMAILJS_PRIVATE_KEY", "EMAILJS_TIMEOUT",
		"SMTP_HOST", "SMTP_PORT", "SMTP_USER", "SMTP_PASS", "SMTP_TIMEOUT",
		"ADMIN_USERNAME", "ADMIN_PASSWORD",
	} {
		// godotenv never overrides a variable that is set, even when empty.
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 60, cfg.NavThreshold)
	assert.Equal(t, 5*time.Second, cfg.Contact.ResetAfter)
	assert.Equal(t, DriverEmailJS, cfg.Contact.Driver)
	assert.Equal(t, defaultEmailJSEndpoint, cfg.EmailJS.Endpoint)
	assert.Equal(t, "smtp.gmail.com", cfg.SMTP.Host)
	assert.Equal(t, 15*time.Second, cfg.SMTP.Timeout)
	assert.Equal(t, 30*time.Minute, cfg.Contact.SessionTTL)
	assert.Equal(t, 10000, cfg.Contact.MaxSessions)
	assert.Equal(t, "release", cfg.GinMode)
}

func TestLoadEnvFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), ".env")
	body := "EMAILJS_SERVICE_ID=service_x\nEMAILJS_TEMPLATE_ID=template_y\nEMAILJS_PUBLIC_KEY=pk\nCONTACT_RECIPIENT=me@example.com\nNAV_THRESHOLD=80\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "service_x", cfg.EmailJS.ServiceID)
	assert.Equal(t, "template_y", cfg.EmailJS.TemplateID)
	assert.Equal(t, 80, cfg.NavThreshold)
	assert.NoError(t, cfg.Validate())
}

func TestLoadMissingEnvFile(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "nope.env"))
	assert.NoError(t, err)
}

func TestLoadBadValues(t *testing.T) {
	t.Run("threshold", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("NAV_THRESHOLD", "sixty")
		_, err := Load("")
		assert.ErrorContains(t, err, "NAV_THRESHOLD")
	})

	t.Run("reset delay", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("CONTACT_RESET_AFTER", "5")
		_, err := Load("")
		assert.ErrorContains(t, err, "CONTACT_RESET_AFTER")
	})

	t.Run("gin mode", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("GIN_MODE", "prod")
		_, err := Load("")
		assert.ErrorContains(t, err, `unknown GIN_MODE "prod"`)
	})

	t.Run("session ttl", func(t *testing.T) {
		for _, v := range []string{"0s", "-1m"} {
			clearEnv(t)
			t.Setenv("SESSION_TTL", v)
			_, err := Load("")
			assert.ErrorContains(t, err, "SESSION_TTL must be positive", v)
		}
	})

	t.Run("max sessions", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("MAX_SESSIONS", "0")
		_, err := Load("")
		assert.ErrorContains(t, err, "MAX_SESSIONS must be positive")
	})

	t.Run("smtp timeout", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("SMTP_TIMEOUT", "soon")
		_, err := Load("")
		assert.ErrorContains(t, err, "SMTP_TIMEOUT")
	})
}

func TestLoadGinModes(t *testing.T) {
	for _, mode := range []string{"debug", "release", "test"} {
		clearEnv(t)
		t.Setenv("GIN_MODE", mode)
		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, mode, cfg.GinMode)
	}
}

func TestValidate(t *testing.T) {
	t.Run("missing emailjs credentials", func(t *testing.T) {
		cfg := &Config{Contact: ContactConfig{Recipient: "a@b.c", Driver: DriverEmailJS, ResetAfter: time.Second}}
		assert.ErrorContains(t, cfg.Validate(), "EMAILJS_SERVICE_ID")
	})

	t.Run("missing recipient", func(t *testing.T) {
		cfg := &Config{
			Contact: ContactConfig{Driver: DriverSMTP, ResetAfter: time.Second},
			SMTP:    SMTPConfig{User: "u", Pass: "p"},
		}
		assert.ErrorContains(t, cfg.Validate(), "CONTACT_RECIPIENT")
	})

	t.Run("unknown driver", func(t *testing.T) {
		cfg := &Config{Contact: ContactConfig{Recipient: "a@b.c", Driver: "pigeon", ResetAfter: time.Second}}
		assert.ErrorContains(t, cfg.Validate(), "pigeon")
	})

	t.Run("session ttl", func(t *testing.T) {
		cfg := &Config{
			Contact: ContactConfig{Recipient: "a@b.c", Driver: DriverSMTP, ResetAfter: time.Second},
			SMTP:    SMTPConfig{User: "u", Pass: "p", Timeout: time.Second},
		}
		assert.ErrorContains(t, cfg.Validate(), "SESSION_TTL must be positive")
	})

	t.Run("smtp ok", func(t *testing.T) {
		cfg := &Config{
			Contact: ContactConfig{Recipient: "a@b.c", Driver: DriverSMTP, ResetAfter: time.Second, SessionTTL: time.Minute},
			SMTP:    SMTPConfig{User: "u", Pass: "p", Timeout: time.Second},
		}
		assert.NoError(t, cfg.Validate())
	})
}
