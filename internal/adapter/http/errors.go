package http

import (
	"errors"
	"log/slog"
	"net/http"

	"club-event-approval/internal/domain/access"
	"club-event-approval/internal/domain/apperr"

	"github.com/labstack/echo/v4"
)

// writeError maps domain errors → HTTP codes.
func writeError(c echo.Context, err error) error {
	resp := ErrorResponse{Error: err.Error()}
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, apperr.ErrValidation):
		status, resp.Code = http.StatusUnprocessableEntity, "validation_failed"
		resp.Error = "validation failed"
		resp.Details = apperr.Fields(err)
	case errors.Is(err, access.ErrUnauthenticated):
		status, resp.Code = http.StatusUnauthorized, "unauthenticated"
	case errors.Is(err, access.ErrForbidden):
		status, resp.Code = http.StatusForbidden, "forbidden"
	case errors.Is(err, apperr.ErrNotFound):
		status, resp.Code = http.StatusNotFound, "not_found"
	case errors.Is(err, apperr.ErrInvalidTransition):
		status, resp.Code = http.StatusConflict, "invalid_transition"
	case errors.Is(err, apperr.ErrCapacityExceeded):
		status, resp.Code = http.StatusConflict, "capacity_exceeded"
	case errors.Is(err, apperr.ErrInvalidState):
		status, resp.Code = http.StatusConflict, "invalid_state"
	case errors.Is(err, apperr.ErrConflict):
		status, resp.Code = http.StatusConflict, "conflict"
		resp.Retryable = true
	default:
		slog.ErrorContext(c.Request().Context(), "request failed",
			slog.String("path", c.Path()),
			slog.String("error", err.Error()))
		resp = ErrorResponse{Error: "internal error", Code: "internal"}
	}
	return c.JSON(status, resp)
}

// bindAndValidate: 400 on malformed JSON, 422 on validation failures.
// ok=false means the response has already been written.
func bindAndValidate(c echo.Context, req any) (ok bool, err error) {
	if ok, err := bindBody(c, req); !ok {
		return false, err
	}
	if err := c.Validate(req); err != nil {
		return false, validationFailed(c, ToFieldErrors(err))
	}
	return true, nil
}

func bindBody(c echo.Context, req any) (ok bool, err error) {
	if err := c.Bind(req); err != nil {
		return false, c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body", Code: "bad_request"})
	}
	return true, nil
}

// validationFailed writes a single 422 listing every failing field. When
// several sources flag the same field, the first message wins.
func validationFailed(c echo.Context, sources ...[]FieldError) error {
	var details []FieldError
	seen := make(map[string]bool)
	for _, fields := range sources {
		for _, f := range fields {
			if seen[f.Field] {
				continue
			}
			seen[f.Field] = true
			details = append(details, f)
		}
	}
	return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
		Error:   "validation failed",
		Code:    "validation_failed",
		Details: details,
	})
}
