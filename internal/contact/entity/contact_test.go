package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelayOutcome_IsSuccess(t *testing.T) {
	tests := []struct {
		name    string
		outcome *RelayOutcome
		want    bool
	}{
		{name: "nil", outcome: nil, want: false},
		{name: "success", outcome: &RelayOutcome{Status: "success"}, want: true},
		{name: "fail", outcome: &RelayOutcome{Status: "fail", Message: "quota"}, want: false},
		{name: "case sensitive", outcome: &RelayOutcome{Status: "Success"}, want: false},
		{name: "padded", outcome: &RelayOutcome{Status: " success"}, want: false},
		{name: "empty", outcome: &RelayOutcome{}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.outcome.IsSuccess())
		})
	}
}

func TestRelayOutcome_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    RelayOutcome
		wantErr bool
	}{
		{name: "strings", body: `{"status":"success","message":"row added"}`, want: RelayOutcome{Status: "success", Message: "row added"}},
		{name: "object message", body: `{"status":"error","message":{"code":403,"reason":"denied"}}`, want: RelayOutcome{Status: "error", Message: `{"code":403,"reason":"denied"}`}},
		{name: "numeric message", body: `{"status":"error","message":42}`, want: RelayOutcome{Status: "error", Message: "42"}},
		{name: "boolean status", body: `{"status":true,"message":"odd"}`, want: RelayOutcome{Status: "true", Message: "odd"}},
		{name: "null fields", body: `{"status":null,"message":null}`, want: RelayOutcome{}},
		{name: "missing fields", body: `{"result":"ok"}`, want: RelayOutcome{}},
		{name: "not an object", body: `["success"]`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			var got RelayOutcome
			err := json.Unmarshal([]byte(tt.body), &got)

			// Assert
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
