package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// SuccessResponse is the envelope for every JSON success body. Handler
// payloads are always nested under data.
type SuccessResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// ErrorResponse is the envelope for every error body, rendered by the HTTP
// error handler.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func ok(c echo.Context, data any) error {
	return c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: data})
}
