package errors

import (
	"errors"
	"net/http"
)

// Domain errors
var (
	ErrNotFound            = errors.New("resource not found")
	ErrAlreadyExists       = errors.New("resource already exists")
	ErrInvalidInput        = errors.New("invalid input")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrAccountSuspended    = errors.New("account suspended")
	ErrRateLimited         = errors.New("too many requests")
	ErrNoActiveChallenge   = errors.New("no active verification challenge")
	ErrCodeMismatch        = errors.New("verification code does not match")
	ErrChallengeExpired    = errors.New("verification code has expired")
	ErrHandleTaken         = errors.New("username is already taken")
	ErrSetupIncomplete     = errors.New("email verification required before finalizing setup")
	ErrDeleteVerified      = errors.New("cannot delete a verified user")
	ErrUpstreamUnavailable = errors.New("upstream service unavailable")
)

// Stable error codes returned to clients alongside messages.
const (
	CodeNotFound           = "ERR_NOT_FOUND"
	CodeConflict           = "ERR_CONFLICT"
	CodeValidation         = "ERR_VALIDATION"
	CodeUnauthorized       = "ERR_UNAUTHORIZED"
	CodeForbidden          = "ERR_FORBIDDEN"
	CodeInvalidCredentials = "ERR_INVALID_CREDENTIALS"
	CodeAccountSuspended   = "ERR_ACCOUNT_SUSPENDED"
	CodeRateLimited        = "ERR_RATE_LIMITED"
	CodeNoActiveChallenge  = "ERR_NO_ACTIVE_CHALLENGE"
	CodeCodeMismatch       = "ERR_CODE_MISMATCH"
	CodeChallengeExpired   = "ERR_CHALLENGE_EXPIRED"
	CodeHandleTaken        = "ERR_HANDLE_TAKEN"
	CodeSetupIncomplete    = "ERR_SETUP_INCOMPLETE"
	CodeDeleteVerified     = "ERR_DELETE_VERIFIED"
	CodeUpstream           = "ERR_UPSTREAM_UNAVAILABLE"
	CodeInternal           = "ERR_INTERNAL"
)

// AppError represents an application error carrying an HTTP status
// and a machine-readable code
type AppError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Code
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new app error
func NewAppError(status int, code, message string, err error) *AppError {
	return &AppError{
		Status:  status,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common error constructors
func NotFound(message string) *AppError {
	return NewAppError(http.StatusNotFound, CodeNotFound, message, ErrNotFound)
}

func BadRequest(message string) *AppError {
	return NewAppError(http.StatusBadRequest, CodeValidation, message, ErrInvalidInput)
}

func Unauthorized(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, CodeUnauthorized, message, ErrUnauthorized)
}

func Forbidden(message string) *AppError {
	return NewAppError(http.StatusForbidden, CodeForbidden, message, ErrForbidden)
}

func Conflict(message string) *AppError {
	return NewAppError(http.StatusConflict, CodeConflict, message, ErrAlreadyExists)
}

func RateLimited(message string) *AppError {
	return NewAppError(http.StatusTooManyRequests, CodeRateLimited, message, ErrRateLimited)
}

func InternalError(err error) *AppError {
	return NewAppError(http.StatusInternalServerError, CodeInternal, "internal server error", err)
}

// FromDomain maps a domain sentinel to an AppError so handlers can
// surface structured bodies without per-handler switch blocks.
func FromDomain(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return NotFound("Resource not found")
	case errors.Is(err, ErrAlreadyExists):
		return Conflict("Resource already exists")
	case errors.Is(err, ErrInvalidInput):
		return BadRequest("Invalid input")
	case errors.Is(err, ErrUnauthorized):
		return Unauthorized("Unauthorized")
	case errors.Is(err, ErrForbidden):
		return Forbidden("Forbidden")
	case errors.Is(err, ErrInvalidCredentials):
		return NewAppError(http.StatusUnauthorized, CodeInvalidCredentials, "Invalid email or password", err)
	case errors.Is(err, ErrAccountSuspended):
		return NewAppError(http.StatusForbidden, CodeAccountSuspended, "Account suspended", err)
	case errors.Is(err, ErrRateLimited):
		return RateLimited("Too many requests. Please wait a minute.")
	case errors.Is(err, ErrNoActiveChallenge):
		return NewAppError(http.StatusBadRequest, CodeNoActiveChallenge, "No active verification code. Request a new one.", err)
	case errors.Is(err, ErrCodeMismatch):
		return NewAppError(http.StatusBadRequest, CodeCodeMismatch, "Invalid verification code", err)
	case errors.Is(err, ErrChallengeExpired):
		return NewAppError(http.StatusBadRequest, CodeChallengeExpired, "Verification code has expired", err)
	case errors.Is(err, ErrHandleTaken):
		return NewAppError(http.StatusConflict, CodeHandleTaken, "Username is already taken", err)
	case errors.Is(err, ErrSetupIncomplete):
		return NewAppError(http.StatusConflict, CodeSetupIncomplete, "Verify your email before setting a password", err)
	case errors.Is(err, ErrDeleteVerified):
		return NewAppError(http.StatusConflict, CodeDeleteVerified, "Cannot delete a verified user. Please ban them instead.", err)
	case errors.Is(err, ErrUpstreamUnavailable):
		return NewAppError(http.StatusServiceUnavailable, CodeUpstream, "Service temporarily unavailable", err)
	default:
		return InternalError(err)
	}
}
