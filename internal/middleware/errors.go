package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/dealtracker/internal/domain/dto"
	"github.com/guttosm/dealtracker/internal/logger"
)

// ErrorHandler renders errors attached with c.Error when the handler chain
// finished without writing a response.
//
// A dto.ErrorResponse attached as the last error keeps its message; any
// other error becomes a generic 500.
func ErrorHandler(c *gin.Context) {
	c.Next()

	if len(c.Errors) == 0 || c.Writer.Written() {
		return
	}

	last := c.Errors.Last().Err
	logger.Ctx(c.Request.Context()).Error().Err(last).Str("path", c.Request.URL.Path).Msg("request failed")

	var resp dto.ErrorResponse
	if errors.As(last, &resp) {
		c.JSON(http.StatusInternalServerError, resp)
		return
	}
	c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("Internal server error", nil))
}

// AbortWithError writes a standardized error body with the given status and
// stops the handler chain.
func AbortWithError(c *gin.Context, status int, message string, err error) {
	if status >= http.StatusInternalServerError {
		logger.Ctx(c.Request.Context()).Error().Err(err).Int("status", status).Msg(message)
	}
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(message, err))
}
