package controller

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	domainerror "github.com/authsecure/backend/internal/domain/error"
	"github.com/authsecure/backend/internal/integration/entrypoint/dto"
)

// handleAuthError writes err as a JSON error response.
func handleAuthError(ctx *gin.Context, err error) {
	var authErr *domainerror.AuthError
	if errors.As(err, &authErr) {
		ctx.JSON(statusForAuthError(authErr.Code), dto.ErrorResponse{
			Error: authErr.Message,
			Code:  string(authErr.Code),
		})
		return
	}

	slog.Error("Unhandled auth error", "path", ctx.FullPath(), "error", err)
	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: "An internal error occurred",
	})
}

// statusForAuthError maps a code to its HTTP status: first by the codes that
// stand apart, then by their group.
func statusForAuthError(code domainerror.AuthErrorCode) int {
	switch code {
	case domainerror.ErrCodeEmailExists:
		return http.StatusConflict
	case domainerror.ErrCodeInvalidCredentials:
		return http.StatusUnauthorized
	case domainerror.ErrCodeUserNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	}

	switch code.Group() {
	case domainerror.GroupInput, domainerror.GroupReset, domainerror.GroupAccount:
		return http.StatusBadRequest
	case domainerror.GroupSession:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// authErrorMessage returns the user-facing message of err, or a generic one.
func authErrorMessage(err error) string {
	var authErr *domainerror.AuthError
	if errors.As(err, &authErr) {
		return authErr.Message
	}
	return "Something went wrong. Please try again."
}

// bindJSON decodes the request body into T. A body that does not bind is
// answered with 400 and code, and ok is false.
func bindJSON[T any](ctx *gin.Context, code domainerror.AuthErrorCode) (req T, ok bool) {
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body",
			Code:  string(code),
		})
		return req, false
	}
	return req, true
}
