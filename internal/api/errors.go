package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"whattoeat/internal/auth"
	"whattoeat/internal/logging"
	"whattoeat/internal/recommend"
	"whattoeat/internal/storage"
)

type messageResponse struct {
	Message string `json:"message"`
}

func message(msg string) messageResponse { return messageResponse{Message: msg} }

// fail maps domain errors to a status code and writes {"message": ...}.
func (h *Handler) fail(c echo.Context, err error) error {
	var ve *auth.ValidationError
	switch {
	case errors.As(err, &ve):
		return c.JSON(http.StatusBadRequest, message(ve.Message))
	case errors.Is(err, auth.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, message("Invalid credentials"))
	case errors.Is(err, storage.ErrAccountExists):
		return c.JSON(http.StatusBadRequest, message("User already exists"))
	case errors.Is(err, storage.ErrAccountNotFound):
		return c.JSON(http.StatusNotFound, message("user not found"))
	case errors.Is(err, recommend.ErrProvider):
		return c.JSON(http.StatusBadGateway, message("could not get a recommendation, please try again"))
	}
	logging.Error().Err(err).Str("path", c.Path()).Msg("request failed")
	return c.JSON(http.StatusInternalServerError, message("internal error"))
}
