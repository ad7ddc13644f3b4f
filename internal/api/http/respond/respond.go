// Package respond writes the JSON error bodies shared by every handler.
package respond

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/devstudy/devstudy-backend/internal/apperr"
	"github.com/devstudy/devstudy-backend/internal/logger"
	"github.com/gin-gonic/gin"
)

// RetryAfterSeconds is advertised on 503 responses.
const RetryAfterSeconds = 2

// Error maps err to a status code and writes {"error": "..."}.
func Error(c *gin.Context, err error) {
	status := apperr.StatusCode(err)
	msg := err.Error()

	switch status {
	case http.StatusServiceUnavailable:
		c.Header("Retry-After", strconv.Itoa(RetryAfterSeconds))
		msg = "service temporarily unavailable, please retry"
		logger.Logger.Warn().Err(err).Str("path", c.FullPath()).Msg("transient store failure")
	case http.StatusInternalServerError:
		msg = "internal error"
		logger.Logger.Error().Err(err).Str("path", c.FullPath()).Msg("unhandled error")
	}

	c.JSON(status, gin.H{"error": msg})
}

// BadRequest writes a 400 with msg.
func BadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

// Confirmed reports whether a destructive request carries an explicit
// confirmation (?confirm=true or X-Confirm: true). If not, it writes 428.
func Confirmed(c *gin.Context) bool {
	if isTrue(c.Query("confirm")) || isTrue(c.GetHeader("X-Confirm")) {
		return true
	}
	c.JSON(http.StatusPreconditionRequired, gin.H{"error": "confirmation required: repeat the request with ?confirm=true"})
	return false
}

func isTrue(v string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	return err == nil && b
}
