package providers

import (
	"github.com/samber/do/v2"

	"github.com/movelogapp/movelog-server/internal/config"
	"github.com/movelogapp/movelog-server/internal/email"
	"github.com/movelogapp/movelog-server/internal/logger"
)

// ProvideEmailSender provides the outbound email sender. Without a Resend
// API key the server logs the links it would have mailed instead.
func ProvideEmailSender(i do.Injector) (email.Sender, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.Email.ResendAPIKey == "" {
		log.Warn("No email API key configured, invite and reset links will only be logged")
		return email.NewLogSender(log.Logger), nil
	}

	log.Info("Email sender configured", "from", cfg.Email.FromAddress)
	return email.NewResendSender(cfg.Email.ResendAPIKey, cfg.Email.FromAddress, log.Logger), nil
}
