package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"shallbuy/internal/service"

	"github.com/labstack/echo/v4"
)

func decodeJSON(c echo.Context, target any) error {
	decoder := json.NewDecoder(c.Request().Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(target)
}

func writeError(c echo.Context, status int, message string) error {
	return c.JSON(status, map[string]string{"message": message})
}

func writeValidationError(c echo.Context, fieldErrors []FieldError) error {
	return c.JSON(http.StatusBadRequest, map[string]any{
		"message": "validation failed",
		"errors":  fieldErrors,
	})
}

func writeServiceError(c echo.Context, err error) error {
	var verification *service.VerificationError
	if errors.As(err, &verification) {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"message": verification.Error(),
			"reason":  string(verification.Reason),
		})
	}

	switch {
	case errors.Is(err, service.ErrInvalidInput):
		return writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		return writeError(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrConflict):
		return writeError(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrUserNotFound):
		return writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrUpstream):
		return writeError(c, http.StatusBadGateway, err.Error())
	default:
		return writeError(c, http.StatusInternalServerError, "internal server error")
	}
}
