// Package controller implements HTTP handlers for the API endpoints and screens.
package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/authsecure/backend/internal/application/adapter"
	"github.com/authsecure/backend/internal/application/usecase/auth"
	domainerror "github.com/authsecure/backend/internal/domain/error"
	"github.com/authsecure/backend/internal/integration/entrypoint/dto"
)

const (
	forgotPasswordMessage = "If an account with that email exists, we have sent a password reset link"
	resetPasswordMessage  = "Password has been successfully reset"
	logoutMessage         = "Successfully logged out"
)

// AuthController serves the /auth JSON endpoints.
type AuthController struct {
	authService adapter.AuthService
	sessions    *auth.SessionUseCase
}

// NewAuthController wires the endpoints. sessions is nil when the backend
// issues no refresh tokens, and the router then leaves refresh and logout out.
func NewAuthController(authService adapter.AuthService, sessions *auth.SessionUseCase) *AuthController {
	return &AuthController{authService: authService, sessions: sessions}
}

func (c *AuthController) SupportsRefresh() bool {
	return c.sessions != nil
}

// Register handles POST /auth/register.
func (c *AuthController) Register(ctx *gin.Context) {
	req, ok := bindJSON[dto.RegisterRequest](ctx, domainerror.ErrCodeMissingFields)
	if !ok {
		return
	}

	session, err := c.authService.Register(ctx.Request.Context(), req.Fields())
	if err != nil {
		handleAuthError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.ToAuthResponse(session))
}

// Login handles POST /auth/login.
func (c *AuthController) Login(ctx *gin.Context) {
	req, ok := bindJSON[dto.LoginRequest](ctx, domainerror.ErrCodeMissingFields)
	if !ok {
		return
	}

	session, err := c.authService.Login(ctx.Request.Context(), req.Credentials())
	if err != nil {
		handleAuthError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.ToAuthResponse(session))
}

// RefreshToken handles POST /auth/refresh. The presented refresh token is
// spent and a new pair is returned.
func (c *AuthController) RefreshToken(ctx *gin.Context) {
	req, ok := bindJSON[dto.RefreshTokenRequest](ctx, domainerror.ErrCodeMissingToken)
	if !ok {
		return
	}

	issued, err := c.sessions.Refresh(ctx.Request.Context(), req.RefreshToken)
	if err != nil {
		handleAuthError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.ToTokenResponse(issued))
}

// Logout handles POST /auth/logout. It always answers 200; a body without a
// refresh token revokes nothing.
func (c *AuthController) Logout(ctx *gin.Context) {
	var req dto.RefreshTokenRequest
	if ctx.ShouldBindJSON(&req) == nil {
		c.sessions.Logout(ctx.Request.Context(), req.RefreshToken)
	}
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: logoutMessage})
}

// ForgotPassword handles POST /auth/forgot-password. Known and unknown
// addresses get the same answer.
func (c *AuthController) ForgotPassword(ctx *gin.Context) {
	req, ok := bindJSON[dto.ForgotPasswordRequest](ctx, domainerror.ErrCodeInvalidEmail)
	if !ok {
		return
	}

	if err := c.authService.RequestPasswordReset(ctx.Request.Context(), req.Email); err != nil {
		handleAuthError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: forgotPasswordMessage})
}

// ResetPassword handles POST /auth/reset-password.
func (c *AuthController) ResetPassword(ctx *gin.Context) {
	req, ok := bindJSON[dto.ResetPasswordRequest](ctx, domainerror.ErrCodeMissingFields)
	if !ok {
		return
	}

	if err := c.authService.ResetPassword(ctx.Request.Context(), req.Token, req.NewPassword); err != nil {
		handleAuthError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: resetPasswordMessage})
}
