package tailoring

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-tailor/internal/shared/server/middleware"
	"resume-tailor/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the tailoring service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches tailoring routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/tailor", h.tailor)
}

type tailorRequest struct {
	BaseResume     string `json:"baseResume"`
	JobDescription string `json:"jobDescription"`
}

type tailorResponse struct {
	TailoredResume string `json:"tailoredResume"`
	CoverLetter    string `json:"coverLetter"`
	EntryID        string `json:"entryId"`
}

func (h *Handler) tailor(c *gin.Context) {
	var req tailorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_input", "Request body must be JSON with `baseResume` and `jobDescription`.")
		return
	}

	// The model call keeps running if the client goes away.
	ctx := context.WithoutCancel(c.Request.Context())
	result, err := h.Svc.Tailor(ctx, Request{
		BaseResume:     req.BaseResume,
		JobDescription: req.JobDescription,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.Set(middleware.EntryIDKey, result.EntryID)
	respond.OK(c, tailorResponse{
		TailoredResume: result.TailoredResume,
		CoverLetter:    result.CoverLetter,
		EntryID:        result.EntryID,
	})
}

func writeError(c *gin.Context, err error) {
	var respErr *ResponseError
	switch {
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "invalid_input", "Missing `baseResume` or `jobDescription` in request body.")
	case errors.Is(err, ErrMisconfigured):
		respond.Error(c, http.StatusInternalServerError, "misconfigured", "Server misconfiguration: model API key not set.")
	case errors.As(err, &respErr) && errors.Is(err, ErrResponseShape):
		respond.ErrorWithRaw(c, http.StatusInternalServerError, "response_shape", "AI response missing 'resume' or 'coverLetter' fields.", respErr.Raw)
	case errors.As(err, &respErr):
		respond.ErrorWithRaw(c, http.StatusInternalServerError, "response_format", "Unable to parse AI response as JSON.", respErr.Raw)
	default:
		respond.Error(c, http.StatusInternalServerError, "llm_error", err.Error())
	}
}
