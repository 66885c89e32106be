package handlers

import (
	"errors"
	"net/http"

	"github.com/damacus/iron-presign/internal/logger"
	"github.com/damacus/iron-presign/internal/services"
	"github.com/labstack/echo/v4"
)

// ErrorResponse is the JSON body of every failed request
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message,omitempty"`
	StorageClass  string `json:"storageClass,omitempty"`
	RestoreStatus string `json:"restoreStatus,omitempty"`
}

// StatusFor maps a pipeline error kind to an HTTP status
func StatusFor(kind services.Kind) int {
	switch kind {
	case services.KindInvalidRequest:
		return http.StatusBadRequest
	case services.KindBlockedByPolicy:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// JSONError writes err as an ErrorResponse
func JSONError(c echo.Context, err error) error {
	kind := services.KindOf(err)

	message := err.Error()
	var svcErr *services.Error
	if errors.As(err, &svcErr) {
		message = svcErr.Message
	}

	if kind == services.KindInvalidRequest {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: message})
	}

	logger.Ctx(c.Request().Context()).Debug().Err(err).Str("kind", string(kind)).Msg("request failed")
	return c.JSON(StatusFor(kind), ErrorResponse{
		Error:   string(kind),
		Message: message,
	})
}
