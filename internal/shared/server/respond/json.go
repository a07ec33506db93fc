package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// JSON writes a JSON response with the given status.
func JSON(c *gin.Context, status int, payload any) {
	c.JSON(status, payload)
}

// OK writes a 200 OK JSON response.
func OK(c *gin.Context, payload any) {
	JSON(c, http.StatusOK, payload)
}

// PDF writes a rendered document as an inline application/pdf body.
func PDF(c *gin.Context, filename string, body []byte) {
	if filename != "" {
		c.Header("Content-Disposition", `inline; filename="`+filename+`"`)
	}
	c.Data(http.StatusOK, "application/pdf", body)
}
