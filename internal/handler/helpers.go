package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nexushr/nexushr/internal/middleware"
	appErr "github.com/nexushr/nexushr/internal/pkg/errors"
	"github.com/nexushr/nexushr/internal/pkg/response"
)

func currentUsername(c *gin.Context) string {
	value, _ := c.Get(middleware.ContextUsernameKey)
	username, _ := value.(string)
	return username
}

// handleError maps service sentinels onto HTTP statuses. Anything
// unrecognized is a 500 with a generic message; details stay in logs.
func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, appErr.ErrUnauthorized):
		response.Error(c, http.StatusUnauthorized, "unauthorized", "incorrect username or password")
	case errors.Is(err, appErr.ErrForbidden):
		response.Error(c, http.StatusForbidden, "forbidden", "not enough permissions")
	case errors.Is(err, appErr.ErrInvalid):
		response.Error(c, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, appErr.ErrNotFound):
		response.Error(c, http.StatusNotFound, "not_found", "resource not found")
	case errors.Is(err, appErr.ErrProcessing):
		response.Error(c, http.StatusInternalServerError, "processing_error", err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
