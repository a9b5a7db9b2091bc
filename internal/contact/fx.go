package contact

import (
	"github.com/thinkzo/intake/internal/config"
	"github.com/thinkzo/intake/internal/contact/notify"
	"github.com/thinkzo/intake/internal/contact/repository"
	"github.com/thinkzo/intake/internal/contact/service"
	"github.com/thinkzo/intake/internal/providers/email"
	"go.uber.org/fx"
)

var Module = fx.Module("contact.service",
	fx.Provide(repository.Provide),
	fx.Provide(newNotifier),
	fx.Provide(service.New),
)

func newNotifier(provider email.Provider, cfg config.Config) *notify.Notifier {
	return notify.New(provider, cfg.Email.SMTPFrom, cfg.Contact.OperatorMailbox)
}
