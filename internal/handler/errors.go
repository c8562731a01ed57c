package handler

import (
	"errors"
	"net/http"

	"github.com/shareit-project/shareit/internal/domain"
	"github.com/shareit-project/shareit/internal/service"
)

// writeError maps a service error to an HTTP status and writes the
// JSON error body. Access violations are reported as not-found so a
// caller cannot probe for entities it may not see.
func writeError(w http.ResponseWriter, err error) {
	var unknownState *domain.UnknownStateError
	if errors.As(err, &unknownState) {
		// The message carries the literal offending value.
		writeErrorMessage(w, http.StatusBadRequest, unknownState.Error())
		return
	}

	switch {
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrItemNotFound),
		errors.Is(err, domain.ErrBookingNotFound),
		errors.Is(err, domain.ErrRequestNotFound),
		errors.Is(err, domain.ErrAccessDenied):
		writeErrorMessage(w, http.StatusNotFound, notFoundMessage(err))

	case errors.Is(err, domain.ErrEmailAlreadyExists):
		writeErrorMessage(w, http.StatusConflict, err.Error())

	case errors.Is(err, service.ErrLockUnavailable):
		writeErrorMessage(w, http.StatusConflict, err.Error())

	case errors.Is(err, domain.ErrInvalidDateRange),
		errors.Is(err, domain.ErrItemUnavailable),
		errors.Is(err, domain.ErrAlreadyApproved),
		errors.Is(err, domain.ErrNotBooked),
		errors.Is(err, service.ErrInvalidName),
		errors.Is(err, service.ErrInvalidEmail),
		errors.Is(err, service.ErrInvalidDescription),
		errors.Is(err, service.ErrInvalidText),
		errors.Is(err, service.ErrAvailableRequired):
		writeErrorMessage(w, http.StatusBadRequest, err.Error())

	default:
		// Internal details stay out of the response body.
		writeErrorMessage(w, http.StatusInternalServerError, service.ErrInternalError.Error())
	}
}

// notFoundMessage keeps access violations indistinguishable from
// missing entities.
func notFoundMessage(err error) string {
	if errors.Is(err, domain.ErrAccessDenied) {
		return "not found"
	}
	return err.Error()
}
