package email

import (
	"context"
	"errors"
	"testing"

	"github.com/shandysiswandi/contactrelay/internal/pkg/instrument"
	"github.com/shandysiswandi/contactrelay/internal/pkg/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	sent []mail.Message
	err  error
}

func (f *fakeClient) Send(_ context.Context, msg mail.Message) error {
	f.sent = append(f.sent, msg)
	return f.err
}

func (f *fakeClient) Close() error { return nil }

func TestMail_Send(t *testing.T) {
	msg := mail.Message{To: []string{"owner@example.com"}, Subject: "New Contact Form Message from Ann"}

	t.Run("delegates", func(t *testing.T) {
		// Arrange
		client := &fakeClient{}
		m := New(client, instrument.NewNoop())

		// Act
		err := m.Send(context.Background(), msg)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, []mail.Message{msg}, client.sent)
	})

	t.Run("returns provider error", func(t *testing.T) {
		// Arrange
		wantErr := errors.New("smtp down")
		m := New(&fakeClient{err: wantErr}, instrument.NewNoop())

		// Act
		err := m.Send(context.Background(), msg)

		// Assert
		assert.ErrorIs(t, err, wantErr)
	})
}
