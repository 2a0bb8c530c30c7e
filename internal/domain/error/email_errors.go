package error

import "errors"

// ErrEmailJobNotFound is returned when the outbox has no job with the given ID.
var ErrEmailJobNotFound = errors.New("email job not found")

// ErrUnknownEmailTemplate is returned for a job whose template is not in the catalog.
var ErrUnknownEmailTemplate = errors.New("unknown email template")

// EmailErrorCode classifies email failures. Format: EMAIL-XXYYYY.
type EmailErrorCode string

const (
	// Outbox (01XXXX)
	ErrCodeEmailQueueFailed EmailErrorCode = "EMAIL-010001"

	// Delivery (02XXXX)
	ErrCodePermanentEmailFailure EmailErrorCode = "EMAIL-020002"
	ErrCodeTemporaryEmailFailure EmailErrorCode = "EMAIL-020003"

	// Rendering (03XXXX)
	ErrCodeInvalidTemplate EmailErrorCode = "EMAIL-030001"
)

// EmailError wraps a queueing or delivery failure with its code.
type EmailError struct {
	Code    EmailErrorCode
	Message string
	Err     error
}

func (e *EmailError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *EmailError) Unwrap() error {
	return e.Err
}

// Permanent reports whether a retry can never succeed.
func (e *EmailError) Permanent() bool {
	return e.Code == ErrCodePermanentEmailFailure || e.Code == ErrCodeInvalidTemplate
}

// NewEmailError creates a new EmailError.
func NewEmailError(code EmailErrorCode, message string, err error) *EmailError {
	return &EmailError{Code: code, Message: message, Err: err}
}

// IsPermanentEmailFailure reports whether err, or anything it wraps, is a
// permanent EmailError.
func IsPermanentEmailFailure(err error) bool {
	var emailErr *EmailError
	return errors.As(err, &emailErr) && emailErr.Permanent()
}
