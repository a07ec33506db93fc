package render

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-tailor/internal/shared/server/respond"
)

// Handler serves server-side PDF rendering.
type Handler struct {
	Renderer *Renderer
}

func NewHandler(r *Renderer) *Handler {
	return &Handler{Renderer: r}
}

// RegisterRoutes attaches render routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/render", h.render)
}

type renderRequest struct {
	Text string `json:"text"`
	Kind Kind   `json:"kind"`
}

var filenames = map[Kind]string{
	KindResume:      "Resume.pdf",
	KindCoverLetter: "CoverLetter.pdf",
}

func (h *Handler) render(c *gin.Context) {
	var req renderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_input", "Request body must be JSON with `text` and `kind`.")
		return
	}
	if req.Kind == "" {
		req.Kind = KindResume
	}
	if strings.TrimSpace(req.Text) == "" {
		respond.Error(c, http.StatusBadRequest, "invalid_input", ErrEmptyText.Error())
		return
	}

	pdf, err := h.Renderer.Render(req.Kind, req.Text)
	if err != nil {
		if errors.Is(err, ErrUnknownKind) {
			respond.Error(c, http.StatusBadRequest, "invalid_input", "kind must be \"resume\" or \"coverLetter\"")
			return
		}
		respond.Error(c, http.StatusInternalServerError, "render_failed", "Failed to render PDF")
		return
	}
	respond.PDF(c, filenames[req.Kind], pdf)
}
