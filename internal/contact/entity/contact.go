package entity

import (
	"bytes"
	"encoding/json"
	"errors"
)

// StatusSuccess is the only relay status treated as a saved row.
const StatusSuccess = "success"

const (
	MsgFieldsRequired    = "All fields (name, email, message) are required."
	MsgRelayNotSet       = "Server configuration error: Google Sheet URL is not set."
	MsgSendFailed        = "Server error: Failed to send message."
	MsgRelayRejectedFmt  = "Failed to save message to Google Sheet: %s"
	MsgSentAndSaved      = "Message sent and saved successfully!"
	MsgSent              = "Message sent successfully!"
	MsgHealth            = "Portfolio Backend API is running! Use /send-message for POST requests."
	SubjectNewMessageFmt = "New Contact Form Message from %s"
)

var (
	ErrRelayNotConfigured = errors.New("relay url is not configured")
	ErrRelayRejected      = errors.New("relay rejected submission")
)

// Submission is one contact form entry.
type Submission struct {
	Name    string
	Email   string
	Message string
}

// RelayOutcome is the JSON reply of the spreadsheet webhook. It is untrusted input.
type RelayOutcome struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// UnmarshalJSON accepts any JSON type for status and message; non-string
// values keep their JSON text, so a numeric status is never a success.
func (r *RelayOutcome) UnmarshalJSON(data []byte) error {
	var raw struct {
		Status  json.RawMessage `json:"status"`
		Message json.RawMessage `json:"message"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	r.Status = rawText(raw.Status)
	r.Message = rawText(raw.Message)
	return nil
}

func rawText(v json.RawMessage) string {
	v = bytes.TrimSpace(v)
	if len(v) == 0 || bytes.Equal(v, []byte("null")) {
		return ""
	}

	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return s
	}
	return string(v)
}

func (r *RelayOutcome) IsSuccess() bool {
	return r != nil && r.Status == StatusSuccess
}
