package inbound

import (
	"github.com/shandysiswandi/contactrelay/internal/pkg/router"
)

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.GET("/", end.Health)
	r.POST("/send-message", end.SendMessage)
}
