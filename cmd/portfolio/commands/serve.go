package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/madun-it/portfolio/internal/config"
	"github.com/madun-it/portfolio/internal/contact"
	"github.com/madun-it/portfolio/internal/content"
	"github.com/madun-it/portfolio/internal/emailrelay"
	"github.com/madun-it/portfolio/internal/logging"
	"github.com/madun-it/portfolio/internal/server"
	"github.com/madun-it/portfolio/internal/store"
)

func serveCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the portfolio site",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(envFile)
			if err != nil {
				return err
			}

			logger, err := logging.New(cfg.LogLevel, cfg.GinMode == gin.DebugMode)
			if err != nil {
				return err
			}
			defer logger.Sync()

			gin.SetMode(cfg.GinMode)

			// The site still renders without relay credentials; every
			// submission will just end in the error banner.
			if err := cfg.Validate(); err != nil {
				logger.Warn("Contact form is not fully configured", zap.Error(err))
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return serve(ctx, version, cfg, logger)
		},
	}
}

func serve(ctx context.Context, version string, cfg *config.Config, logger *zap.Logger) error {
	portfolio, err := content.Default()
	if err != nil {
		return err
	}

	openCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	st, err := store.Open(openCtx, cfg.DatabasePath, "")
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer st.Close()

	sessions := contact.NewSessions(contact.Options{
		Relay:      newRelay(cfg),
		Recipient:  cfg.Contact.Recipient,
		ResetAfter: cfg.Contact.ResetAfter,
		Logger:     logger.Named("contact"),
	}, cfg.Contact.SessionTTL, cfg.Contact.MaxSessions)

	srv, err := server.New(server.Options{
		Version:      version,
		Port:         cfg.Port,
		Portfolio:    portfolio,
		Sessions:     sessions,
		Metrics:      st,
		Logger:       logger.Named("http"),
		NavThreshold: cfg.NavThreshold,
		ResetAfter:   cfg.Contact.ResetAfter,
		Admin:        cfg.Admin,
	})
	if err != nil {
		return err
	}

	return srv.Run(ctx)
}

func newRelay(cfg *config.Config) contact.Relay {
	if cfg.Contact.Driver == config.DriverSMTP {
		return emailrelay.NewSMTP(emailrelay.SMTPConfig{
			Host:    cfg.SMTP.Host,
			Port:    cfg.SMTP.Port,
			User:    cfg.SMTP.User,
			Pass:    cfg.SMTP.Pass,
			Timeout: cfg.SMTP.Timeout,
		})
	}
	return emailrelay.NewEmailJS(emailrelay.Config{
		Endpoint:   cfg.EmailJS.Endpoint,
		ServiceID:  cfg.EmailJS.ServiceID,
		TemplateID: cfg.EmailJS.TemplateID,
		PublicKey:  cfg.EmailJS.PublicKey,
		PrivateKey: cfg.EmailJS.PrivateKey,
		Timeout:    cfg.EmailJS.Timeout,
	})
}
