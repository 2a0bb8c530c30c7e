// Package dto defines data transfer objects for API requests and responses.
package dto

import (
	"time"

	"github.com/authsecure/backend/internal/application/adapter"
)

// Requests. Binding tags reject malformed bodies before the use cases run;
// the use cases still apply the full rules.

type RegisterRequest struct {
	Email         string `json:"email" binding:"required,email"`
	Name          string `json:"name" binding:"required,min=1,max=100"`
	Password      string `json:"password" binding:"required,min=8,max=72"`
	TermsAccepted bool   `json:"terms_accepted"`
}

// Fields converts the body into registration input.
func (r RegisterRequest) Fields() adapter.RegistrationFields {
	return adapter.RegistrationFields{
		Name:          r.Name,
		Email:         r.Email,
		Password:      r.Password,
		TermsAccepted: r.TermsAccepted,
	}
}

type LoginRequest struct {
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required"`
	RememberMe bool   `json:"remember_me"`
}

// Credentials converts the body into login input.
func (r LoginRequest) Credentials() adapter.Credentials {
	return adapter.Credentials{Email: r.Email, Password: r.Password, RememberMe: r.RememberMe}
}

// RefreshTokenRequest is the body of both refresh and logout.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=72"`
}

type DeleteAccountRequest struct {
	Password     string `json:"password" binding:"required"`
	Confirmation string `json:"confirmation"`
}

// Responses.

// TokenResponse carries a token pair. ExpiresAt is when the access token lapses.
type TokenResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// AuthResponse answers register and login: the token pair plus the user.
type AuthResponse struct {
	TokenResponse
	User UserResponse `json:"user"`
}

type UserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the body of every API error. Code is an AUTH-GGNNNN code
// when the failure has one.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func ToUserResponse(user adapter.SessionUser) UserResponse {
	return UserResponse{ID: user.ID.String(), Email: user.Email, Name: user.Name}
}

func ToTokenResponse(issued *adapter.IssuedTokens) TokenResponse {
	return TokenResponse{
		AccessToken:  issued.AccessToken,
		RefreshToken: issued.RefreshToken,
		ExpiresAt:    issued.AccessExpiresAt,
	}
}

func ToAuthResponse(session *adapter.Session) AuthResponse {
	return AuthResponse{
		TokenResponse: TokenResponse{
			AccessToken:  session.AccessToken,
			RefreshToken: session.RefreshToken,
			ExpiresAt:    session.ExpiresAt,
		},
		User: ToUserResponse(session.User),
	}
}
