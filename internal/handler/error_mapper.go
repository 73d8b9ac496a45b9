package handler

import (
	"errors"

	"github.com/campushub/api/internal/model"
	"github.com/campushub/api/internal/service"
)

// MapServiceError converts a service error to a ProblemDetails response.
// This centralizes error handling logic for all handlers, ensuring consistent
// HTTP status codes and error messages across the API.
func MapServiceError(err error) *model.ProblemDetails {
	if err == nil {
		return nil
	}

	// ===== Authentication Errors → 401 =====
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		return model.NewUnauthorizedError(err.Error())

	// ===== Authorization Errors → 403 =====
	case errors.Is(err, service.ErrNotOrganizer),
		errors.Is(err, service.ErrNotCalendarOwner),
		errors.Is(err, service.ErrNotManagerOwner),
		errors.Is(err, service.ErrNotConnectionParty),
		errors.Is(err, service.ErrMirrorReadOnly),
		errors.Is(err, service.ErrConnectionBlocked):
		return model.NewForbiddenError(err.Error())

	// ===== Not Found Errors → 404 =====
	case errors.Is(err, service.ErrNotClubMember):
		return model.NewNotFoundError("club") // Don't reveal existence to non-members
	case errors.Is(err, service.ErrUserNotFound):
		return model.NewNotFoundError("user")
	case errors.Is(err, service.ErrClubNotFound):
		return model.NewNotFoundError("club")
	case errors.Is(err, service.ErrMembershipNotFound):
		return model.NewNotFoundError("membership")
	case errors.Is(err, service.ErrMergeRequestNotFound):
		return model.NewNotFoundError("merge request")
	case errors.Is(err, service.ErrCalendarNotFound):
		return model.NewNotFoundError("calendar")
	case errors.Is(err, service.ErrMeetingNotFound):
		return model.NewNotFoundError("meeting")
	case errors.Is(err, service.ErrManagerNotFound):
		return model.NewNotFoundError("document manager")
	case errors.Is(err, service.ErrDocumentNotFound):
		return model.NewNotFoundError("document")
	case errors.Is(err, service.ErrConnectionNotFound):
		return model.NewNotFoundError("connection")
	case errors.Is(err, service.ErrProfileNotFound):
		return model.NewNotFoundError("network profile")

	// ===== Conflict Errors → 409 =====
	case errors.Is(err, service.ErrEmailAlreadyExists),
		errors.Is(err, service.ErrClubNameExists),
		errors.Is(err, service.ErrAlreadyMember),
		errors.Is(err, service.ErrLastOrganizer),
		errors.Is(err, service.ErrMergeAlreadyExists),
		errors.Is(err, service.ErrMergeAlreadyDone),
		errors.Is(err, service.ErrClubAlreadyMerged),
		errors.Is(err, service.ErrMeetingConflict),
		errors.Is(err, service.ErrConnectionExists):
		return model.NewConflictError(err.Error())

	// ===== Validation Errors → 422 =====
	// Self-action prevention
	case errors.Is(err, service.ErrMergeWithSelf),
		errors.Is(err, service.ErrCannotConnectSelf),
		errors.Is(err, service.ErrCannotChangeOwnRole):
		return model.NewValidationError([]model.FieldError{{Field: "target", Message: err.Error()}})

	// Format/input validation
	case errors.Is(err, service.ErrInvalidEmail),
		errors.Is(err, service.ErrPasswordTooShort),
		errors.Is(err, service.ErrPasswordTooLong):
		return model.NewValidationError([]model.FieldError{{Field: "credentials", Message: err.Error()}})

	// State errors
	case errors.Is(err, service.ErrMergeNotReady),
		errors.Is(err, service.ErrMergeNotParty):
		return model.NewValidationError([]model.FieldError{{Field: "state", Message: err.Error()}})

	// ===== Default → 500 =====
	default:
		return model.NewInternalError("")
	}
}

// MapServiceErrorWithContext converts a service error to a ProblemDetails
// response with additional context about the operation that failed.
func MapServiceErrorWithContext(err error, operation string) *model.ProblemDetails {
	pd := MapServiceError(err)
	if pd != nil && pd.Status == 500 {
		pd.Detail = operation + ": an unexpected error occurred"
	}
	return pd
}
