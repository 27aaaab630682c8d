// Package handler holds the HTTP handlers shared across route groups and the
// error rendering every handler uses.
package handler

import (
	"log/slog"
	"net/http"

	"identity-service/internal/api"
	"identity-service/internal/apperror"

	"github.com/labstack/echo/v4"
)

const internalMessage = "internal server error"

// Error 將錯誤轉為對應的 HTTP 狀態碼與 api.ErrorResponse；未分類的錯誤一律回 500 且不外洩細節
func Error(c echo.Context, err error) error {
	status := apperror.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		slog.Default().ErrorContext(c.Request().Context(), "request failed",
			slog.String("path", c.Path()),
			slog.Any("error", err),
		)
		return c.JSON(status, api.ErrorResponse{Message: internalMessage})
	}
	return c.JSON(status, api.ErrorResponse{Message: apperror.Message(err, http.StatusText(status))})
}

// BadRequest 回應 400
func BadRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: message})
}
