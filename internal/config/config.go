package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

// Relay drivers understood by RELAY_DRIVER.
const (
	DriverEmailJS = "emailjs"
	DriverSMTP    = "smtp"
)

const defaultEmailJSEndpoint = "https://api.emailjs.com/api/v1.0/email/send"

// Config holds everything the site needs at startup. Credentials are
// injected here instead of being compiled into the page.
type Config struct {
	Port         string
	GinMode      string
	LogLevel     string
	DatabasePath string

	NavThreshold int

	Contact ContactConfig
	EmailJS EmailJSConfig
	SMTP    SMTPConfig
	Admin   AdminConfig
}

type ContactConfig struct {
	Recipient  string
	Driver     string
	ResetAfter  time.Duration
	SessionTTL  time.Duration
	MaxSessions int
}

type EmailJSConfig struct {
	Endpoint   string
	ServiceID  string
	TemplateID string
	PublicKey  string
	PrivateKey string
	Timeout    time.Duration
}

type SMTPConfig struct {
	Host    string
	Port    string
	User    string
	Pass    string
	Timeout time.Duration
}

type AdminConfig struct {
	Username string
	Password string
}

// Load reads envFile (when it exists) into the process environment and
// builds a Config from it. A missing env file is not an error.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	cfg := &Config{
		Port:         getenv("PORT", "8080"),
		GinMode:      getenv("GIN_MODE", "release"),
		LogLevel:     getenv("LOG_LEVEL", "info"),
		DatabasePath: getenv("DATABASE_PATH", "portfolio.db"),
		Contact: ContactConfig{
			Recipient: os.Getenv("CONTACT_RECIPIENT"),
			Driver:    strings.ToLower(getenv("RELAY_DRIVER", DriverEmailJS)),
		},
		EmailJS: EmailJSConfig{
			Endpoint:   getenv("EMAILJS_ENDPOINT", defaultEmailJSEndpoint),
			ServiceID:  os.Getenv("EMAILJS_SERVICE_ID"),
			TemplateID: os.Getenv("EMAILJS_TEMPLATE_ID"),
			PublicKey:  os.Getenv("EMAILJS_PUBLIC_KEY"),
			PrivateKey: os.Getenv("EMAILJS_PRIVATE_KEY"),
		},
		SMTP: SMTPConfig{
			Host: getenv("SMTP_HOST", "smtp.gmail.com"),
			Port: getenv("SMTP_PORT", "587"),
			User: os.Getenv("SMTP_USER"),
			Pass: os.Getenv("SMTP_PASS"),
		},
		Admin: AdminConfig{
			Username: os.Getenv("ADMIN_USERNAME"),
			Password: os.Getenv("ADMIN_PASSWORD"),
		},
	}

	switch cfg.GinMode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
	default:
		return nil, fmt.Errorf("config: unknown GIN_MODE %q (want %s, %s or %s)",
			cfg.GinMode, gin.DebugMode, gin.ReleaseMode, gin.TestMode)
	}

	var err error
	if cfg.NavThreshold, err = getInt("NAV_THRESHOLD", 60); err != nil {
		return nil, err
	}
	if cfg.Contact.ResetAfter, err = getDuration("CONTACT_RESET_AFTER", 5*time.Second); err != nil {
		return nil, err
	}
	if cfg.Contact.SessionTTL, err = getDuration("SESSION_TTL", 30*time.Minute); err != nil {
		return nil, err
	}
	if cfg.Contact.SessionTTL <= 0 {
		return nil, fmt.Errorf("config: SESSION_TTL must be positive, got %s", cfg.Contact.SessionTTL)
	}
	if cfg.Contact.MaxSessions, err = getInt("MAX_SESSIONS", 10000); err != nil {
		return nil, err
	}
	if cfg.Contact.MaxSessions <= 0 {
		return nil, fmt.Errorf("config: MAX_SESSIONS must be positive, got %d", cfg.Contact.MaxSessions)
	}
	if cfg.EmailJS.Timeout, err = getDuration("EMAILJS_TIMEOUT", 15*time.Second); err != nil {
		return nil, err
	}
	if cfg.SMTP.Timeout, err = getDuration("SMTP_TIMEOUT", 15*time.Second); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate reports configuration that would make every contact submission
// fail. The site itself can still serve pages without it.
func (c *Config) Validate() error {
	var problems []string

	if c.Contact.Recipient == "" {
		problems = append(problems, "CONTACT_RECIPIENT is not set")
	}
	if c.Contact.ResetAfter <= 0 {
		problems = append(problems, "CONTACT_RESET_AFTER must be positive")
	}
	if c.Contact.SessionTTL <= 0 {
		problems = append(problems, "SESSION_TTL must be positive")
	}

	switch c.Contact.Driver {
	case DriverEmailJS:
		if c.EmailJS.ServiceID == "" || c.EmailJS.TemplateID == "" || c.EmailJS.PublicKey == "" {
			problems = append(problems, "EMAILJS_SERVICE_ID, EMAILJS_TEMPLATE_ID and EMAILJS_PUBLIC_KEY are required")
		}
	case DriverSMTP:
		if c.SMTP.User == "" || c.SMTP.Pass == "" {
			problems = append(problems, "SMTP credentials not configured")
		}
		if c.SMTP.Timeout <= 0 {
			problems = append(problems, "SMTP_TIMEOUT must be positive")
		}
	default:
		problems = append(problems, fmt.Sprintf("unknown RELAY_DRIVER %q", c.Contact.Driver))
	}

	if len(problems) > 0 {
		return errors.New("config: " + strings.Join(problems, "; "))
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return n, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return d, nil
}
