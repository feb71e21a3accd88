package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/ZEN8890/Pinventory-Api/internal/usecase"
	auth "github.com/ZEN8890/Pinventory-Api/internal/usecase/auth_usecase"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// OASのSuccess { message: string }
type SuccessResponse struct {
	Message string `json:"message"`
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		return c.JSON(he.Status, ErrorResponse{Error: he.Message, Code: he.Code()})
	}

	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid username or password", Code: "UNAUTHORIZED"})
	case errors.Is(err, auth.ErrUserInactive):
		return c.JSON(http.StatusForbidden, ErrorResponse{Error: "user is inactive", Code: "FORBIDDEN"})
	}

	//500
	slog.ErrorContext(c.Request().Context(), "unhandled error",
		slog.String("path", c.Path()), slog.Any("error", err))
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error", Code: "TRANSIENT_STORAGE_FAILURE"})
}

// 入力不正（400）
func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg, Code: "INVALID_INPUT"})
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Code: "UNAUTHORIZED"})
}
