package http

import (
	"errors"
	"net/http"

	"parcelflow/internal/core/application/usecases/commands"
	"parcelflow/internal/core/domain/model/leg"
	"parcelflow/internal/core/domain/model/parcel"
	"parcelflow/internal/core/domain/model/storage"
	"parcelflow/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// StatusFor maps an application error to the HTTP status reported to the caller.
// Order matters: a failed leg start wraps its cause, which may itself be a
// not-found or conflict error.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, commands.ErrPartialStartFailure),
		errors.Is(err, parcel.ErrInvalidTransition),
		errors.Is(err, parcel.ErrRelocationNotAllowed),
		errors.Is(err, parcel.ErrStaleLocationUpdate),
		errors.Is(err, leg.ErrInvalidTransition),
		errors.Is(err, leg.ErrUnassignedLeg),
		errors.Is(err, leg.ErrCourierChangeRejected),
		errors.Is(err, leg.ErrStaleHistory):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, storage.ErrCapacityExceeded),
		errors.Is(err, storage.ErrParcelAlreadyStored),
		errors.Is(err, leg.ErrParcelAlreadyOnLeg),
		errors.Is(err, errs.ErrConcurrentModification),
		errors.Is(err, commands.ErrNoFreeCouriersFound):
		return http.StatusConflict
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange),
		errors.Is(err, commands.ErrNameIsRequired):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// NewErrorHandler renders every error as Error. Internal errors are logged
// and their message is not exposed.
func NewErrorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := StatusFor(err)
		message := err.Error()

		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			code = httpErr.Code
			if m, ok := httpErr.Message.(string); ok {
				message = m
			} else {
				message = http.StatusText(code)
			}
		}

		if code >= http.StatusInternalServerError {
			logger.Error("request failed",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Path()),
				zap.Error(err),
			)
			message = http.StatusText(code)
		}

		var sendErr error
		if c.Request().Method == http.MethodHead {
			sendErr = c.NoContent(code)
		} else {
			sendErr = c.JSON(code, Error{Code: code, Message: message})
		}
		if sendErr != nil {
			logger.Warn("failed to write error response", zap.Error(sendErr))
		}
	}
}
