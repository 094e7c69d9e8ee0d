package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnauthorized indicates that the caller could not be authenticated.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden indicates that the caller is authenticated but not allowed to act.
var ErrForbidden = errors.New("forbidden")

// Kind is the stable, machine-readable error category returned to clients.
type Kind string

const (
	KindAlreadyExists      Kind = "ALREADY_EXISTS"
	KindInvalidCredentials Kind = "INVALID_CREDENTIALS"
	KindTokenExpired       Kind = "TOKEN_EXPIRED"
	KindTokenMalformed     Kind = "TOKEN_MALFORMED"
	KindUserNotFound       Kind = "USER_NOT_FOUND"
	KindOAuthAccountOnly   Kind = "OAUTH_ACCOUNT_ONLY"
	KindUnauthenticated    Kind = "UNAUTHENTICATED"
	KindSessionExpired     Kind = "SESSION_EXPIRED"
	KindValidation         Kind = "VALIDATION_FAILED"
	KindNotFound           Kind = "NOT_FOUND"
	KindForbidden          Kind = "FORBIDDEN"
	KindOAuthFailed        Kind = "OAUTH_FAILED"
	KindInternal           Kind = "INTERNAL"
)

// AppError carries an HTTP status, a stable kind and a client-safe message.
// Err is the underlying cause and is never serialized.
type AppError struct {
	Code    int    `json:"-"`
	Kind    Kind   `json:"error"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error { return e.Err }

// NewAppError builds an AppError of kind INTERNAL with the given status.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Kind: KindInternal, Message: message, Err: err}
}

func newKind(code int, kind Kind, message string, err error) *AppError {
	return &AppError{Code: code, Kind: kind, Message: message, Err: err}
}

// NewAlreadyExistsError reports a uniqueness collision on registration or update.
func NewAlreadyExistsError(message string) *AppError {
	return newKind(http.StatusConflict, KindAlreadyExists, message, ErrDuplicate)
}

// NewInvalidCredentialsError is used for every local login failure that must
// not reveal whether the account exists.
func NewInvalidCredentialsError() *AppError {
	return newKind(http.StatusUnauthorized, KindInvalidCredentials, "Invalid email or password", ErrUnauthorized)
}

func NewTokenExpiredError(err error) *AppError {
	return newKind(http.StatusUnauthorized, KindTokenExpired, "Token has expired", err)
}

func NewTokenMalformedError(err error) *AppError {
	return newKind(http.StatusUnauthorized, KindTokenMalformed, "Invalid token", err)
}

// NewUserNotFoundError is returned when a valid credential references a deleted user.
func NewUserNotFoundError() *AppError {
	return newKind(http.StatusUnauthorized, KindUserNotFound, "User no longer exists", ErrNotFound)
}

func NewOAuthAccountOnlyError() *AppError {
	return newKind(http.StatusUnauthorized, KindOAuthAccountOnly,
		"This account was created with an OAuth provider; please use OAuth to sign in", ErrUnauthorized)
}

func NewUnauthenticatedError(message string) *AppError {
	return newKind(http.StatusUnauthorized, KindUnauthenticated, message, ErrUnauthorized)
}

func NewSessionExpiredError() *AppError {
	return newKind(http.StatusUnauthorized, KindSessionExpired, "Session has expired", ErrUnauthorized)
}

func NewValidationError(message string) *AppError {
	return newKind(http.StatusBadRequest, KindValidation, message, ErrValidation)
}

func NewNotFoundError(message string) *AppError {
	return newKind(http.StatusNotFound, KindNotFound, message, ErrNotFound)
}

func NewForbiddenError(message string) *AppError {
	return newKind(http.StatusForbidden, KindForbidden, message, ErrForbidden)
}

// NewOAuthFailedError reports a failed exchange with the external provider.
func NewOAuthFailedError(message string, err error) *AppError {
	return newKind(http.StatusBadGateway, KindOAuthFailed, message, err)
}

func NewInternalServerError(message string) *AppError {
	return newKind(http.StatusInternalServerError, KindInternal, message, nil)
}

// DuplicateFieldError marks a unique-constraint violation on a specific column.
// It wraps ErrDuplicate so errors.Is(err, ErrDuplicate) still holds.
type DuplicateFieldError struct {
	Field string
}

func (e *DuplicateFieldError) Error() string {
	return fmt.Sprintf("duplicate value for %s: %v", e.Field, ErrDuplicate)
}

func (e *DuplicateFieldError) Unwrap() error { return ErrDuplicate }

// DuplicateField returns the colliding field name if err is a DuplicateFieldError.
func DuplicateField(err error) (string, bool) {
	var dup *DuplicateFieldError
	if errors.As(err, &dup) {
		return dup.Field, true
	}
	return "", false
}

// As is a small helper around errors.As for *AppError.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
