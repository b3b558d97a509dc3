package domain

import (
	"errors"
	"fmt"
)

// Kind classifies a failure for the delivery layer.
type Kind string

const (
	KindValidation       Kind = "VALIDATION_ERROR"
	KindConflict         Kind = "CONFLICT"
	KindForbidden        Kind = "FORBIDDEN"
	KindNotFound         Kind = "NOT_FOUND"
	KindInvalidParameter Kind = "INVALID_PARAMETER"
	KindUnauthorized     Kind = "UNAUTHORIZED"
	KindInternal         Kind = "INTERNAL"
)

// Error is a structured failure surfaced to API callers.
// Two errors are considered equal by errors.Is when their codes match.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Fields  map[string]string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Withf returns a copy of e carrying a formatted message.
func (e *Error) Withf(format string, args ...any) *Error {
	cp := *e
	cp.Message = fmt.Sprintf(format, args...)
	return &cp
}

// WithFields returns a copy of e carrying field-level detail.
func (e *Error) WithFields(fields map[string]string) *Error {
	cp := *e
	cp.Fields = fields
	return &cp
}

func newError(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

var (
	// Validation
	ErrValidation       = newError(KindValidation, "VALIDATION_ERROR", "invalid request")
	ErrInvalidPhotoType = newError(KindValidation, "INVALID_PHOTO_TYPE", "photo must be one of: png, jpg, jpeg, gif")
	ErrPhotoTooLarge    = newError(KindValidation, "PHOTO_TOO_LARGE", "photo exceeds the maximum allowed size")

	// Authentication
	ErrUnauthorized       = newError(KindUnauthorized, "UNAUTHORIZED", "unauthorized")
	ErrInvalidCredentials = newError(KindUnauthorized, "INVALID_CREDENTIALS", "invalid username or password")
	ErrInvalidToken       = newError(KindUnauthorized, "INVALID_TOKEN", "invalid or expired token")

	// Conflicts
	ErrUsernameTaken       = newError(KindConflict, "USERNAME_TAKEN", "username already exists")
	ErrEmailTaken          = newError(KindConflict, "EMAIL_TAKEN", "email already exists")
	ErrFavouriteExists     = newError(KindConflict, "FAVOURITE_EXISTS", "user already in favourites")
	ErrProfileLimitReached = newError(KindConflict, "PROFILE_LIMIT_REACHED", "maximum of 3 profiles per user reached")

	// Forbidden
	ErrIncompleteProfile = newError(KindForbidden, "FORBIDDEN_INCOMPLETE_PROFILE", "you must complete your profile before accessing this feature")
	ErrNotOwner          = newError(KindForbidden, "FORBIDDEN_NOT_OWNER", "not authorized to access this profile")
	ErrSelfFavourite     = newError(KindForbidden, "SELF_FAVOURITE", "cannot favourite yourself")
	ErrSelfReport        = newError(KindForbidden, "SELF_REPORT", "cannot report yourself")

	// Not found
	ErrUserNotFound      = newError(KindNotFound, "USER_NOT_FOUND", "user not found")
	ErrProfileNotFound   = newError(KindNotFound, "PROFILE_NOT_FOUND", "profile not found")
	ErrFavouriteNotFound = newError(KindNotFound, "FAVOURITE_NOT_FOUND", "user is not in favourites")
	ErrTargetNotFound    = newError(KindNotFound, "TARGET_NOT_FOUND", "reported user not found")
	ErrReportNotFound    = newError(KindNotFound, "REPORT_NOT_FOUND", "report not found")

	// Invalid parameters
	ErrInvalidSortField = newError(KindInvalidParameter, "INVALID_SORT_FIELD", "invalid sort_by field")
	ErrInvalidSortOrder = newError(KindInvalidParameter, "INVALID_SORT_ORDER", "order must be one of: asc, desc")
	ErrInvalidN         = newError(KindInvalidParameter, "INVALID_N", "n must be a positive integer")
	ErrInvalidLimit     = newError(KindInvalidParameter, "INVALID_LIMIT", "limit must be a positive integer")
	ErrInvalidParameter = newError(KindInvalidParameter, "INVALID_PARAMETER", "invalid parameter")

	ErrInternal = newError(KindInternal, "INTERNAL", "internal server error")
)

// KindOf reports the Kind of err, defaulting to KindInternal for foreign errors.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}
