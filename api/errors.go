package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-atm/input"
	"go-atm/models"
)

func statusFor(kind models.Kind) int {
	switch kind {
	case models.KindValidation:
		return http.StatusBadRequest
	case models.KindUnauthorized:
		return http.StatusUnauthorized
	case models.KindPasswordChangeRequired:
		return http.StatusForbidden
	case models.KindNotFound:
		return http.StatusNotFound
	case models.KindInsufficientFunds, models.KindDuplicateID:
		return http.StatusConflict
	case models.KindNotYourTurn:
		return http.StatusLocked
	case models.KindCapacityExceeded, models.KindPoolExhausted:
		return http.StatusServiceUnavailable
	case models.KindTimeout:
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(c *gin.Context, err error) {
	kind := models.KindOf(err)
	status := statusFor(kind)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		s.log.ErrorContext(c.Request.Context(), "request failed",
			"path", c.FullPath(), "request_id", c.GetString("requestID"), "error", err)
		msg = "Internal server error"
	}
	c.JSON(status, gin.H{"error": msg, "kind": kind})
}

func (s *Server) abort(c *gin.Context, err error) {
	s.writeError(c, err)
	c.Abort()
}

// bindJSON binds the body into req, answering 400 with one message per
// failed rule when it does not bind.
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": input.Messages(err), "kind": models.KindValidation})
		return false
	}
	return true
}
