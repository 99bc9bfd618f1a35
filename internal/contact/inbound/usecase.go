package inbound

import (
	"context"

	"github.com/shandysiswandi/contactrelay/internal/contact/usecase"
)

type uc interface {
	SendMessage(ctx context.Context, in usecase.SendMessageInput) (*usecase.SendMessageOutput, error)
}
