package dto

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// LoginForm is the login screen form.
type LoginForm struct {
	Email      string `form:"email" binding:"required,email"`
	Password   string `form:"password" binding:"required"`
	RememberMe bool   `form:"remember_me"`
}

// RegistrationForm is the registration screen form.
type RegistrationForm struct {
	Name            string `form:"name" binding:"required,max=100"`
	Email           string `form:"email" binding:"required,email"`
	Password        string `form:"password" binding:"required,min=8,max=72"`
	ConfirmPassword string `form:"confirm_password" binding:"required,eqfield=Password"`
	Terms           bool   `form:"terms" binding:"required"`
}

// ForgotPasswordForm is the forgot password screen form.
type ForgotPasswordForm struct {
	Email string `form:"email" binding:"required,email"`
}

// ResetPasswordForm is the reset password screen form.
type ResetPasswordForm struct {
	Token           string `form:"token" binding:"required"`
	Password        string `form:"password" binding:"required,min=8,max=72"`
	ConfirmPassword string `form:"confirm_password" binding:"required,eqfield=Password"`
}

// Form validation messages shown on the screens.
const (
	MsgNameRequired     = "Please enter your name."
	MsgNameTooLong      = "Name must be at most 100 characters."
	MsgEmailRequired    = "Please enter your email address."
	MsgEmailInvalid     = "Please enter a valid email address."
	MsgPasswordRequired = "Please enter a password."
	MsgPasswordTooShort = "Password must be at least 8 characters long."
	MsgPasswordTooLong  = "Password must be at most 72 characters long."
	MsgConfirmRequired  = "Please confirm your password."
	MsgPasswordMismatch = "Passwords do not match."
	MsgTermsRequired    = "You must agree to the Terms of Service."
	MsgResetLinkInvalid = "This password reset link is invalid or has expired."
	MsgInvalidForm      = "Please check the form and try again."
)

// FieldErrors maps form field names to a message.
type FieldErrors map[string]string

// First returns the message of the first field in order that has one.
func (f FieldErrors) First(order ...string) string {
	for _, field := range order {
		if msg, ok := f[field]; ok {
			return msg
		}
	}
	return ""
}

// TranslateFormErrors turns a binding error into per-field messages. Errors that are
// not validation errors map to a single "form" entry.
func TranslateFormErrors(err error) FieldErrors {
	fields := FieldErrors{}
	if err == nil {
		return fields
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		fields["form"] = MsgInvalidForm
		return fields
	}

	for _, fe := range validationErrs {
		name, msg := messageFor(fe)
		if _, exists := fields[name]; !exists {
			fields[name] = msg
		}
	}
	return fields
}

func messageFor(fe validator.FieldError) (string, string) {
	switch fe.StructField() {
	case "Name":
		if fe.Tag() == "max" {
			return "name", MsgNameTooLong
		}
		return "name", MsgNameRequired
	case "Email":
		if fe.Tag() == "required" {
			return "email", MsgEmailRequired
		}
		return "email", MsgEmailInvalid
	case "Password":
		switch fe.Tag() {
		case "min":
			return "password", MsgPasswordTooShort
		case "max":
			return "password", MsgPasswordTooLong
		}
		return "password", MsgPasswordRequired
	case "ConfirmPassword":
		if fe.Tag() == "eqfield" {
			return "confirm_password", MsgPasswordMismatch
		}
		return "confirm_password", MsgConfirmRequired
	case "Terms":
		return "terms", MsgTermsRequired
	case "Token":
		return "token", MsgResetLinkInvalid
	default:
		return "form", MsgInvalidForm
	}
}
