package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "image-classifier-service/pkg/errors"
)

// handleError converts usecase errors to JSON error responses.
func handleError(c *gin.Context, err error) {
	var (
		validation *apperrors.ValidationError
		notFound   *apperrors.NotFoundError
		exists     *apperrors.AlreadyExistsError
		unauth     *apperrors.UnauthorizedError
	)

	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_input", Message: validation.Message})
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "not_found", Message: notFound.Error()})
	case errors.As(err, &exists):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "already_exists", Message: exists.Error()})
	case errors.As(err, &unauth):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: unauth.Message})
	default:
		status := http.StatusInternalServerError
		var s apperrors.HTTPStatuser
		if errors.As(err, &s) {
			status = s.HTTPStatus()
		}
		c.JSON(status, ErrorResponse{Error: "internal_error", Message: "An internal error occurred"})
	}
}

// flashMessage returns the user-visible message of a form error and
// whether err is one the user can act on.
func flashMessage(err error) (string, bool) {
	var (
		validation *apperrors.ValidationError
		exists     *apperrors.AlreadyExistsError
		unauth     *apperrors.UnauthorizedError
	)

	switch {
	case errors.As(err, &validation):
		return validation.Message, true
	case errors.As(err, &exists):
		return exists.Error(), true
	case errors.As(err, &unauth):
		return unauth.Message, true
	}
	return "", false
}
