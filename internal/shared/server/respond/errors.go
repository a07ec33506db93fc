package respond

import (
	"github.com/gin-gonic/gin"

	"resume-tailor/internal/shared/telemetry"
)

// ErrorResponse is the JSON body written for every failed request.
type ErrorResponse struct {
	Error       string `json:"error"`
	Code        string `json:"code,omitempty"`
	RawResponse string `json:"rawResponse,omitempty"`
}

// Error sends a standardized error response.
func Error(c *gin.Context, status int, code, message string) {
	write(c, status, ErrorResponse{Error: message, Code: code})
}

// ErrorWithRaw sends an error response that carries the raw upstream output for diagnosis.
func ErrorWithRaw(c *gin.Context, status int, code, message, raw string) {
	write(c, status, ErrorResponse{Error: message, Code: code, RawResponse: raw})
}

func write(c *gin.Context, status int, body ErrorResponse) {
	fields := map[string]any{
		"status":     status,
		"code":       body.Code,
		"message":    body.Error,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	}
	if body.RawResponse != "" {
		fields["raw_len"] = len(body.RawResponse)
	}
	telemetry.Error("http.error", fields)

	c.AbortWithStatusJSON(status, body)
}
