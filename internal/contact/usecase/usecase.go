package usecase

import (
	"bytes"
	"context"
	"html/template"
	"log/slog"
	"time"

	"github.com/shandysiswandi/contactrelay/internal/contact/entity"
	"github.com/shandysiswandi/contactrelay/internal/pkg/instrument"
	"github.com/shandysiswandi/contactrelay/internal/pkg/mail"
	"github.com/shandysiswandi/contactrelay/internal/pkg/validator"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

type repoRelay interface {
	Append(ctx context.Context, sub entity.Submission) (*entity.RelayOutcome, error)
}

type repoMail interface {
	Send(ctx context.Context, msg mail.Message) error
}

// Settings is the deployment configuration of the contact flow.
// It is read once at startup and never changes afterwards.
type Settings struct {
	// RelayEnabled saves each submission to the spreadsheet webhook before mailing it.
	RelayEnabled bool
	// RelayURL is the webhook address; empty while RelayEnabled is a configuration error.
	RelayURL     string
	RelayTimeout time.Duration
	MailFrom     string
	MailTo       string
	MailTimeout  time.Duration
	// SiteName appears in the notification heading.
	SiteName string
}

type Usecase struct {
	settings    Settings
	validator   validator.Validator
	repoRelay   repoRelay
	repoMail    repoMail
	ins         instrument.Instrumentation
	submissions metric.Int64Counter
}

type Dependency struct {
	Settings   Settings
	Validator  validator.Validator
	RepoRelay  repoRelay
	RepoMail   repoMail
	Instrument instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	ins := dep.Instrument
	if ins == nil {
		ins = instrument.NewNoop()
	}

	submissions, err := ins.Meter("contact.usecase").Int64Counter(
		"contact.submissions",
		metric.WithDescription("Number of contact form submissions by outcome"),
	)
	if err != nil {
		slog.Error("failed to create contact submissions counter", "error", err)
	}

	return &Usecase{
		settings:    dep.Settings,
		validator:   dep.Validator,
		repoRelay:   dep.RepoRelay,
		repoMail:    dep.RepoMail,
		ins:         ins,
		submissions: submissions,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("contact.usecase").Start(ctx, name)
}

func (s *Usecase) countOutcome(ctx context.Context, outcome string) {
	trace.SpanFromContext(ctx).SetAttributes(attribute.String("contact.outcome", outcome))
	if s.submissions != nil {
		s.submissions.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
	}
}

func (s *Usecase) renderTemplate(name, tpl string, data map[string]any) (string, error) {
	t, err := template.New(name).Option("missingkey=zero").Parse(tpl)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// withTimeout bounds ctx by d; a non-positive d leaves ctx unbounded.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
