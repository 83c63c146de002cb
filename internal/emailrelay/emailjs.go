package emailrelay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/madun-it/portfolio/internal/contact"
)

// Config holds the EmailJS credentials. They are provided at startup and
// never baked into the page.
type Config struct {
	Endpoint   string
	ServiceID  string
	TemplateID string
	PublicKey  string
	// PrivateKey is optional; EmailJS requires it when the account has
	// "use private key" enabled for API calls.
	PrivateKey string
	HTTP       *http.Client // optional
	Timeout    time.Duration
}

// EmailJS relays contact messages through the EmailJS REST API.
type EmailJS struct {
	cfg  Config
	http *http.Client
}

var _ contact.Relay = (*EmailJS)(nil)

func NewEmailJS(cfg Config) *EmailJS {
	client := cfg.HTTP
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	return &EmailJS{cfg: cfg, http: client}
}

type sendRequest struct {
	ServiceID      string         `json:"service_id"`
	TemplateID     string         `json:"template_id"`
	UserID         string         `json:"user_id"`
	AccessToken    string         `json:"accessToken,omitempty"`
	TemplateParams templateParams `json:"template_params"`
}

type templateParams struct {
	FromName       string `json:"from_name"`
	FromEmail      string `json:"from_email"`
	FromAddress    string `json:"from_address"`
	WhatsAppNumber string `json:"whatsapp_number"`
	Message        string `json:"message"`
	ToEmail        string `json:"to_email"`
}

// APIError is returned when EmailJS answers with a non 2xx status.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("emailjs: %d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.Body)
}

func (c *EmailJS) Send(ctx context.Context, msg contact.Message) error {
	body := sendRequest{
		ServiceID:   c.cfg.ServiceID,
		TemplateID:  c.cfg.TemplateID,
		UserID:      c.cfg.PublicKey,
		AccessToken: c.cfg.PrivateKey,
		TemplateParams: templateParams{
			FromName:       msg.FromName,
			FromEmail:      msg.FromEmail,
			FromAddress:    msg.FromAddress,
			WhatsAppNumber: msg.WhatsAppNumber,
			Message:        msg.Body,
			ToEmail:        msg.ToEmail,
		},
	}

	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(body); err != nil {
		return fmt.Errorf("emailjs: encode: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, buf)
	if err != nil {
		return fmt.Errorf("emailjs: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("emailjs: %w", err)
	}
	defer resp.Body.Close()

	// EmailJS answers "OK" on success and a plain text reason otherwise.
	text, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
	if resp.StatusCode/100 != 2 {
		return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(text))}
	}
	return nil
}
