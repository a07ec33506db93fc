package applies

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-tailor/internal/history"
	"resume-tailor/internal/mailer"
	"resume-tailor/internal/shared/server/middleware"
	"resume-tailor/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the send service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches send routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/send", h.send)
}

type sendRequest struct {
	TargetEmail          string `json:"targetEmail"`
	Subject              string `json:"subject"`
	EmailBody            string `json:"emailBody"`
	PDFBase64            string `json:"pdfBase64"`
	Filename             string `json:"filename"`
	CoverLetterPDFBase64 string `json:"coverLetterPdfBase64"`
	CoverLetterFilename  string `json:"coverLetterFilename"`
	EntryID              string `json:"entryId"`
	ResumeText           string `json:"resumeText"`
	CoverLetterText      string `json:"coverLetterText"`
}

type sendResponse struct {
	Success   bool   `json:"success"`
	MessageID string `json:"messageId"`
}

func (h *Handler) send(c *gin.Context) {
	var req sendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_input", "Request body must be JSON.")
		return
	}
	if req.EntryID != "" {
		c.Set(middleware.EntryIDKey, req.EntryID)
	}

	ctx := context.WithoutCancel(c.Request.Context())
	result, err := h.Svc.Send(ctx, Request(req))
	if err != nil {
		if req.EntryID != "" && mailer.IsDeliveryError(err) {
			c.Set(middleware.StatusTransitionKey, string(history.StatusFailure))
		}
		writeError(c, err)
		return
	}
	if req.EntryID != "" {
		c.Set(middleware.StatusTransitionKey, string(history.StatusSuccess))
	}
	respond.OK(c, sendResponse{Success: true, MessageID: result.MessageID})
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "invalid_input", err.Error())
	case errors.Is(err, ErrMisconfigured):
		respond.Error(c, http.StatusInternalServerError, "misconfigured", "Server misconfiguration: mail transport not set.")
	case mailer.IsDeliveryError(err):
		respond.Error(c, http.StatusInternalServerError, "delivery_failed", err.Error())
	default:
		respond.Error(c, http.StatusInternalServerError, "send_failed", err.Error())
	}
}
