package history

import (
	"context"

	"github.com/gin-gonic/gin"

	"resume-tailor/internal/shared/server/respond"
)

// Handler serves the dashboard.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches history routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/history", h.dashboard)
}

func (h *Handler) dashboard(c *gin.Context) {
	respond.OK(c, h.Svc.Dashboard(context.WithoutCancel(c.Request.Context())))
}
