package controller

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/authsecure/backend/internal/application/usecase/password"
	domainerror "github.com/authsecure/backend/internal/domain/error"
	"github.com/authsecure/backend/internal/integration/entrypoint/dto"
)

// PasswordController serves the strength meter.
type PasswordController struct {
	checkStrengthUseCase *password.CheckStrengthUseCase
}

// NewPasswordController creates a new password controller instance.
func NewPasswordController(checkStrengthUseCase *password.CheckStrengthUseCase) *PasswordController {
	return &PasswordController{
		checkStrengthUseCase: checkStrengthUseCase,
	}
}

// Strength handles POST /password/strength requests.
func (c *PasswordController) Strength(ctx *gin.Context) {
	req, ok := bindJSON[dto.PasswordStrengthRequest](ctx, domainerror.ErrCodeMissingFields)
	if !ok {
		return
	}

	out := c.checkStrengthUseCase.Execute(ctx.Request.Context(), password.CheckStrengthInput{
		Password: req.Password,
	})

	ctx.JSON(http.StatusOK, dto.ToPasswordStrengthResponse(out.Level, out.Meter))
}

// StrengthPartial handles POST /partials/password-strength requests from the screens.
func (c *PasswordController) StrengthPartial(ctx *gin.Context) {
	fragment, err := c.checkStrengthUseCase.ExecuteHTML(ctx.Request.Context(), password.CheckStrengthInput{
		Password: ctx.PostForm("password"),
	})
	if err != nil {
		slog.Error("Failed to render strength meter", "error", err)
		ctx.Status(http.StatusInternalServerError)
		return
	}

	ctx.Data(http.StatusOK, "text/html; charset=utf-8", []byte(fragment))
}
