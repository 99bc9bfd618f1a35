package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/contactrelay/internal/contact/entity"
	"github.com/shandysiswandi/contactrelay/internal/pkg/goerror"
	"github.com/shandysiswandi/contactrelay/internal/pkg/mail"
)

const (
	outcomeSent        = "sent"
	outcomeInvalid     = "invalid"
	outcomeConfigError = "config_error"
	outcomeRelayError  = "relay_error"
	outcomeMailError   = "mail_error"
)

const notificationHTML = `<h3>New Message from {{.site_name}}</h3>
<p><strong>Name:</strong> {{.name}}</p>
<p><strong>Email:</strong> {{.email}}</p>
<p><strong>Message:</strong> {{.message}}</p>
`

type SendMessageInput struct {
	Name    string `validate:"required"`
	Email   string `validate:"required"`
	Message string `validate:"required"`
}

type SendMessageOutput struct {
	Message string
}

// SendMessage validates a contact submission, saves it through the relay when
// enabled and mails it to the site owner. Any failure ends the request; nothing is retried.
func (s *Usecase) SendMessage(ctx context.Context, in SendMessageInput) (*SendMessageOutput, error) {
	ctx, span := s.startSpan(ctx, "SendMessage")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		s.countOutcome(ctx, outcomeInvalid)
		return nil, goerror.NewInvalidFormat(entity.MsgFieldsRequired)
	}

	sub := entity.Submission{Name: in.Name, Email: in.Email, Message: in.Message}

	if s.settings.RelayEnabled {
		if err := s.saveToRelay(ctx, sub); err != nil {
			return nil, err
		}
	}

	if err := s.sendNotification(ctx, sub); err != nil {
		return nil, err
	}

	s.countOutcome(ctx, outcomeSent)

	if !s.settings.RelayEnabled {
		slog.InfoContext(ctx, "contact message sent", "name", sub.Name)
		return &SendMessageOutput{Message: entity.MsgSent}, nil
	}

	slog.InfoContext(ctx, "contact message sent and saved", "name", sub.Name)
	return &SendMessageOutput{Message: entity.MsgSentAndSaved}, nil
}

func (s *Usecase) saveToRelay(ctx context.Context, sub entity.Submission) error {
	if s.settings.RelayURL == "" {
		slog.ErrorContext(ctx, "relay url is not configured")
		s.countOutcome(ctx, outcomeConfigError)
		return goerror.NewServer(entity.ErrRelayNotConfigured, entity.MsgRelayNotSet)
	}

	relayCtx, cancel := withTimeout(ctx, s.settings.RelayTimeout)
	defer cancel()

	outcome, err := s.repoRelay.Append(relayCtx, sub)
	if errors.Is(err, entity.ErrRelayNotConfigured) {
		slog.ErrorContext(ctx, "relay url is not configured")
		s.countOutcome(ctx, outcomeConfigError)
		return goerror.NewServer(err, entity.MsgRelayNotSet)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo relay append submission", "error", err)
		s.countOutcome(ctx, outcomeRelayError)
		return goerror.NewDependency(err, entity.MsgSendFailed)
	}

	if !outcome.IsSuccess() {
		var status, reason string
		if outcome != nil {
			status, reason = outcome.Status, outcome.Message
		}
		slog.ErrorContext(ctx, "relay rejected submission", "status", status, "reason", reason)
		s.countOutcome(ctx, outcomeRelayError)
		return goerror.NewDependency(
			fmt.Errorf("%w: status %q", entity.ErrRelayRejected, status),
			fmt.Sprintf(entity.MsgRelayRejectedFmt, reason),
		)
	}

	slog.InfoContext(ctx, "submission saved to relay")
	return nil
}

func (s *Usecase) sendNotification(ctx context.Context, sub entity.Submission) error {
	msg, err := s.composeNotification(sub)
	if err != nil {
		slog.ErrorContext(ctx, "failed to render contact notification", "error", err)
		s.countOutcome(ctx, outcomeMailError)
		return goerror.NewServer(err, entity.MsgSendFailed)
	}

	mailCtx, cancel := withTimeout(ctx, s.settings.MailTimeout)
	defer cancel()

	if err := s.repoMail.Send(mailCtx, msg); err != nil {
		slog.ErrorContext(ctx, "failed to repo mail send notification", "error", err)
		s.countOutcome(ctx, outcomeMailError)
		return goerror.NewDependency(err, entity.MsgSendFailed)
	}

	return nil
}

func (s *Usecase) composeNotification(sub entity.Submission) (mail.Message, error) {
	siteName := s.settings.SiteName
	if siteName == "" {
		siteName = "Portfolio Website"
	}

	body, err := s.renderTemplate("contact_notification", notificationHTML, map[string]any{
		"site_name": siteName,
		"name":      sub.Name,
		"email":     sub.Email,
		"message":   sub.Message,
	})
	if err != nil {
		return mail.Message{}, err
	}

	var text strings.Builder
	fmt.Fprintf(&text, "New Message from %s\n\n", siteName)
	fmt.Fprintf(&text, "Name: %s\nEmail: %s\nMessage:\n%s\n", sub.Name, sub.Email, sub.Message)

	return mail.Message{
		From:     s.settings.MailFrom,
		To:       []string{s.settings.MailTo},
		ReplyTo:  sub.Email,
		Subject:  fmt.Sprintf(entity.SubjectNewMessageFmt, sub.Name),
		TextBody: text.String(),
		HTMLBody: body,
	}, nil
}
