package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/authsecure/backend/internal/application/usecase/auth"
	domainerror "github.com/authsecure/backend/internal/domain/error"
	"github.com/authsecure/backend/internal/integration/entrypoint/dto"
	"github.com/authsecure/backend/internal/integration/entrypoint/middleware"
)

// UserController serves the signed-in user's own account.
type UserController struct {
	deleteAccountUseCase *auth.DeleteAccountUseCase
}

// NewUserController creates a new user controller instance.
// A nil use case disables account deletion.
func NewUserController(deleteAccountUseCase *auth.DeleteAccountUseCase) *UserController {
	return &UserController{
		deleteAccountUseCase: deleteAccountUseCase,
	}
}

// SupportsDelete reports whether account deletion can be served.
func (c *UserController) SupportsDelete() bool {
	return c.deleteAccountUseCase != nil
}

// Me handles GET /users/me requests.
func (c *UserController) Me(ctx *gin.Context) {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		unauthorized(ctx)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// DeleteAccount handles DELETE /users/me requests.
func (c *UserController) DeleteAccount(ctx *gin.Context) {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		unauthorized(ctx)
		return
	}

	req, ok := bindJSON[dto.DeleteAccountRequest](ctx, domainerror.ErrCodeMissingFields)
	if !ok {
		return
	}

	err := c.deleteAccountUseCase.Execute(ctx.Request.Context(), auth.DeleteAccountInput{
		UserID:       user.ID,
		Password:     req.Password,
		Confirmation: req.Confirmation,
	})
	if err != nil {
		handleAuthError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// unauthorized answers a handler reached without a resolved session.
func unauthorized(ctx *gin.Context) {
	ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
		Error: "Unauthorized",
		Code:  string(domainerror.ErrCodeMissingToken),
	})
}
