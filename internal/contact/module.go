package contact

import (
	"net/http"

	"github.com/shandysiswandi/contactrelay/internal/contact/inbound"
	"github.com/shandysiswandi/contactrelay/internal/contact/outbound/email"
	"github.com/shandysiswandi/contactrelay/internal/contact/outbound/relay"
	"github.com/shandysiswandi/contactrelay/internal/contact/usecase"
	"github.com/shandysiswandi/contactrelay/internal/pkg/config"
	"github.com/shandysiswandi/contactrelay/internal/pkg/instrument"
	"github.com/shandysiswandi/contactrelay/internal/pkg/mail"
	"github.com/shandysiswandi/contactrelay/internal/pkg/router"
	"github.com/shandysiswandi/contactrelay/internal/pkg/validator"
)

type Dependency struct {
	Config     config.Config
	Instrument instrument.Instrumentation
	Validator  validator.Validator
	Router     *router.Router
	Mail       mail.Mail
	// HTTPClient is used for relay calls; nil selects an instrumented default.
	HTTPClient *http.Client
}

func New(dep Dependency) error {
	settings := usecase.Settings{
		RelayEnabled: dep.Config.GetBool("relay.enabled"),
		RelayURL:     dep.Config.GetString("relay.url"),
		RelayTimeout: dep.Config.GetSecond("relay.timeout_seconds"),
		MailFrom:     dep.Config.GetString("mail.from"),
		MailTo:       dep.Config.GetString("mail.to"),
		MailTimeout:  dep.Config.GetSecond("mail.timeout_seconds"),
		SiteName:     dep.Config.GetString("modules.contact.site_name"),
	}

	repoRelay := relay.New(settings.RelayURL, dep.HTTPClient, dep.Instrument)
	repoMail := email.New(dep.Mail, dep.Instrument)

	uc := usecase.New(usecase.Dependency{
		Settings:   settings,
		Validator:  dep.Validator,
		RepoRelay:  repoRelay,
		RepoMail:   repoMail,
		Instrument: dep.Instrument,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return nil
}
