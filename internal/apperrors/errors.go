package apperrors

import (
	"errors"
	"net/http"
)

var (
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrUserNotFound      = errors.New("user not found")

	ErrInvalidCredentials = errors.New("invalid user credentials")
	ErrInvalidOldPassword = errors.New("invalid old password")
	ErrTooManyAttempts    = errors.New("too many login attempts")

	// Single signal for every access or refresh token verification failure
	ErrTokenInvalid = errors.New("token is invalid")

	ErrRefreshTokenMissing = errors.New("refresh token is missing")
	ErrRefreshTokenIsUsed  = errors.New("refresh token is expired or used")
)

// Kind is an error class that maps to an HTTP status
type Kind int

const (
	KindInternal Kind = iota
	KindBadRequest
	KindUnauthorized
	KindNotFound
	KindConflict
	KindTooManyRequests
)

func (k Kind) Status() int {
	switch k {
	case KindBadRequest:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindTooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Error is what services return to handlers: a kind, a message safe to show to the caller
// and the underlying cause (never shown).
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func BadRequest(message string, err error) *Error   { return New(KindBadRequest, message, err) }
func Unauthorized(message string, err error) *Error { return New(KindUnauthorized, message, err) }
func NotFound(message string, err error) *Error     { return New(KindNotFound, message, err) }
func Conflict(message string, err error) *Error     { return New(KindConflict, message, err) }
func Internal(message string, err error) *Error     { return New(KindInternal, message, err) }

func TooManyRequests(message string, err error) *Error {
	return New(KindTooManyRequests, message, err)
}

// KindOf returns the kind of err. Errors not produced with this package are internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
