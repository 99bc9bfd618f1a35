package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/shandysiswandi/contactrelay/internal/contact/entity"
	"github.com/shandysiswandi/contactrelay/internal/pkg/instrument"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const maxResponseBytes = 1 << 20 // 1MB

// Relay appends submissions to a spreadsheet through its webhook.
// The webhook is a Google Apps Script web app that answers with
// {"status": "...", "message": "..."}.
type Relay struct {
	url    string
	client *http.Client
	ins    instrument.Instrumentation
}

// New builds a Relay posting to webhookURL. A nil client gets a default one
// with an OpenTelemetry transport.
func New(webhookURL string, client *http.Client, ins instrument.Instrumentation) *Relay {
	if client == nil {
		client = NewHTTPClient()
	}
	return &Relay{url: strings.TrimSpace(webhookURL), client: client, ins: ins}
}

// NewHTTPClient returns a client whose requests carry trace context and client spans.
// Redirects are followed, which the Apps Script endpoint relies on.
func NewHTTPClient() *http.Client {
	return &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
}

func (r *Relay) Append(ctx context.Context, sub entity.Submission) (*entity.RelayOutcome, error) {
	ctx, span := r.ins.Tracer("contact.outbound.relay").Start(ctx, "Append")
	defer span.End()

	if r.url == "" {
		return nil, entity.ErrRelayNotConfigured
	}

	form := url.Values{}
	form.Set("name", sub.Name)
	form.Set("email", sub.Email)
	form.Set("message", sub.Message)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fail(span, fmt.Errorf("relay: build request: %w", err))
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fail(span, fmt.Errorf("relay: send request: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fail(span, fmt.Errorf("relay: read response (status %d): %w", resp.StatusCode, err))
	}

	var out entity.RelayOutcome
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fail(span, fmt.Errorf("relay: decode response (status %d): %w", resp.StatusCode, err))
	}

	span.SetAttributes(
		attribute.Int("http.response.status_code", resp.StatusCode),
		attribute.String("relay.status", out.Status),
	)

	return &out, nil
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
