package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Veraticus/spendwise/internal/common"
	"github.com/Veraticus/spendwise/internal/model"
)

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrInvalidInput),
		errors.Is(err, model.ErrInvalidAmount),
		errors.Is(err, model.ErrInvalidNote),
		errors.Is(err, model.ErrInvalidName):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrDuplicateEntry):
		return http.StatusConflict
	case errors.Is(err, common.ErrProtectedCategory),
		errors.Is(err, common.ErrCategoryOwnership):
		return http.StatusForbidden
	case errors.Is(err, common.ErrNoDefaultCategory):
		return http.StatusUnprocessableEntity
	case errors.Is(err, common.ErrStoreUnavailable),
		errors.Is(err, common.ErrMaxRetries):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// fail converts err into an echo.HTTPError. Client errors echo the error
// text; server errors only expose a UserError message.
func (s *Server) fail(err error) error {
	code := statusFor(err)

	msg := common.UserMessage(err, "")
	if msg == "" {
		if code < http.StatusInternalServerError {
			msg = err.Error()
		} else {
			msg = http.StatusText(code)
		}
	}

	if code >= http.StatusInternalServerError {
		s.logger.Error("request failed", "status", code, "error", err)
	}
	return echo.NewHTTPError(code, msg).SetInternal(err)
}

func isNotFound(err error) bool {
	return errors.Is(err, common.ErrNotFound)
}

func badRequest(msg string) error {
	return echo.NewHTTPError(http.StatusBadRequest, msg)
}
