// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"tollfee/internal/modules/toll"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

func writeTollError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, toll.ErrInvalidArgument), errors.Is(err, toll.ErrBadTimestamp):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, toll.ErrBatchTooLarge):
		writeError(c, http.StatusRequestEntityTooLarge, err.Error())
	default:
		_ = c.Error(err)
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}
