package inbound

import (
	"github.com/shandysiswandi/contactrelay/internal/contact/entity"
	"github.com/shandysiswandi/contactrelay/internal/contact/usecase"
	"github.com/shandysiswandi/contactrelay/internal/pkg/router"
)

type HTTPEndpoint struct {
	uc uc
}

// Health reports that the service is up.
// @Summary Health check
// @Description Liveness probe for the contact backend.
// @Tags Contact
// @Produce json
// @Success 200 {object} router.successResponse "Service is running"
// @Router / [get]
func (h *HTTPEndpoint) Health(r *router.Request) (any, error) {
	return router.Message(entity.MsgHealth), nil
}

// SendMessage accepts a contact form submission.
// @Summary Send contact message
// @Description Saves the submission to the spreadsheet relay (when enabled) and mails it to the site owner.
// @Tags Contact
// @Accept json
// @Produce json
// @Param request body SendMessageRequest true "Contact form payload"
// @Success 200 {object} router.successResponse "Message sent"
// @Failure 400 {object} router.errorResponse "Missing fields or invalid request body"
// @Failure 500 {object} router.errorResponse "Configuration, relay or mail failure"
// @Router /send-message [post]
func (h *HTTPEndpoint) SendMessage(r *router.Request) (any, error) {
	var req SendMessageRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	out, err := h.uc.SendMessage(r.Context(), usecase.SendMessageInput{
		Name:    req.Name,
		Email:   req.Email,
		Message: req.Message,
	})
	if err != nil {
		return nil, err
	}

	return router.Message(out.Message), nil
}
