// Package error holds the sentinel and coded errors shared by every layer.
package error

import (
	"errors"
	"strings"
)

// Causes wrapped by AuthError. Callers match them with errors.Is.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidResetToken  = errors.New("invalid or expired password reset token")
	ErrTermsNotAccepted   = errors.New("terms of service must be accepted")
	ErrWeakPassword       = errors.New("password does not meet minimum requirements")
	ErrInvalidEmail       = errors.New("invalid email format")
)

// AuthErrorCode is a stable client-facing code of the form AUTH-GGNNNN,
// where GG is the CodeGroup.
type AuthErrorCode string

// CodeGroup is the flow step a code belongs to.
type CodeGroup string

const (
	GroupInput   CodeGroup = "01"
	GroupSignIn  CodeGroup = "02"
	GroupSession CodeGroup = "03"
	GroupReset   CodeGroup = "04"
	GroupAccount CodeGroup = "05"
)

const (
	ErrCodeEmailExists      AuthErrorCode = "AUTH-010001"
	ErrCodeTermsNotAccepted AuthErrorCode = "AUTH-010002"
	ErrCodeWeakPassword     AuthErrorCode = "AUTH-010003"
	ErrCodeInvalidEmail     AuthErrorCode = "AUTH-010004"
	ErrCodeMissingFields    AuthErrorCode = "AUTH-010005"
	ErrCodePasswordMismatch AuthErrorCode = "AUTH-010006"

	ErrCodeInvalidCredentials AuthErrorCode = "AUTH-020001"
	ErrCodeUserNotFound       AuthErrorCode = "AUTH-020002"
	ErrCodeRateLimited        AuthErrorCode = "AUTH-020003"

	ErrCodeInvalidToken AuthErrorCode = "AUTH-030001"
	ErrCodeExpiredToken AuthErrorCode = "AUTH-030002"
	ErrCodeMissingToken AuthErrorCode = "AUTH-030003"

	ErrCodeInvalidResetToken AuthErrorCode = "AUTH-040001"
	ErrCodeExpiredResetToken AuthErrorCode = "AUTH-040002"

	ErrCodeInvalidConfirmation AuthErrorCode = "AUTH-050001"
)

// Group returns the GG part of the code, or "" when the code is malformed.
func (c AuthErrorCode) Group() CodeGroup {
	digits, ok := strings.CutPrefix(string(c), "AUTH-")
	if !ok || len(digits) != 6 {
		return ""
	}
	return CodeGroup(digits[:2])
}

// AuthError is a failure the client is told about: a code, a safe message
// and an optional cause.
type AuthError struct {
	Code    AuthErrorCode
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *AuthError) Unwrap() error { return e.Err }

// NewAuthError creates an AuthError. err may be nil.
func NewAuthError(code AuthErrorCode, message string, err error) *AuthError {
	return &AuthError{Code: code, Message: message, Err: err}
}

// AuthErrorCodeOf returns the code of the first AuthError in err's chain.
func AuthErrorCodeOf(err error) (AuthErrorCode, bool) {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr.Code, true
	}
	return "", false
}
