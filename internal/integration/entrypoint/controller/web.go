package controller

import (
	"context"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/authsecure/backend/internal/application/adapter"
	"github.com/authsecure/backend/internal/application/usecase/password"
	domainerror "github.com/authsecure/backend/internal/domain/error"
	"github.com/authsecure/backend/internal/integration/entrypoint/dto"
	"github.com/authsecure/backend/internal/integration/entrypoint/middleware"
	"github.com/authsecure/backend/internal/integration/entrypoint/web"
)

// Screen copy.
const (
	loginTitle           = "Welcome Back"
	loginDescription     = "Sign in to continue to AuthSecure"
	registerTitle        = "Create an account"
	registerDescription  = "Enter your information to create your account"
	forgotTitle          = "Forgot Your Password?"
	forgotDescription    = "Enter your email address and we will send you a link to reset your password."
	resetTitle           = "Reset Your Password"
	resetDescription     = "Create a new, strong password for your account."
	dashboardTitle       = "Welcome Back!"
	dashboardDescription = "You have successfully logged in to your account."

	resetLinkSentMessage = "Password reset link sent!"
)

// loginNotices maps the notice query parameter on the login screen to its message.
var loginNotices = map[string]string{
	"registered":     "Account created successfully! Please log in.",
	"password-reset": "Password has been reset successfully! Please log in.",
	"logged-out":     "You have been logged out.",
}

// WebController serves the server-rendered screens.
type WebController struct {
	authService          adapter.AuthService
	sessions             adapter.SessionVerifier
	checkStrengthUseCase *password.CheckStrengthUseCase
	secureCookies        bool
}

// NewWebController creates a new web controller instance.
func NewWebController(
	authService adapter.AuthService,
	sessions adapter.SessionVerifier,
	checkStrengthUseCase *password.CheckStrengthUseCase,
	secureCookies bool,
) *WebController {
	return &WebController{
		authService:          authService,
		sessions:             sessions,
		checkStrengthUseCase: checkStrengthUseCase,
		secureCookies:        secureCookies,
	}
}

// LoginPage handles GET / requests.
func (c *WebController) LoginPage(ctx *gin.Context) {
	page := web.NewPage(loginTitle, loginDescription)
	page.Notice = loginNotices[ctx.Query("notice")]
	ctx.HTML(http.StatusOK, web.PageLogin, page)
}

// Login handles POST / requests.
func (c *WebController) Login(ctx *gin.Context) {
	page := web.NewPage(loginTitle, loginDescription)
	page.Values["email"] = ctx.PostForm("email")
	page.Values["remember_me"] = ctx.PostForm("remember_me")

	var form dto.LoginForm
	if err := ctx.ShouldBind(&form); err != nil {
		page.Fields = dto.TranslateFormErrors(err)
		ctx.HTML(http.StatusBadRequest, web.PageLogin, page)
		return
	}

	session, err := c.authService.Login(ctx.Request.Context(), adapter.Credentials{
		Email:      form.Email,
		Password:   form.Password,
		RememberMe: form.RememberMe,
	})
	if err != nil {
		page.Error = authErrorMessage(err)
		ctx.HTML(screenStatus(err), web.PageLogin, page)
		return
	}

	maxAge := 0
	if form.RememberMe {
		maxAge = max(int(time.Until(session.ExpiresAt).Seconds()), 0)
	}
	middleware.SetSessionCookie(ctx, session.AccessToken, maxAge, c.secureCookies)
	ctx.Redirect(http.StatusSeeOther, "/dashboard")
}

// RegistrationPage handles GET /registration requests.
func (c *WebController) RegistrationPage(ctx *gin.Context) {
	page := web.NewPage(registerTitle, registerDescription)
	page.Meter = c.meterFor(ctx.Request.Context(), "")
	ctx.HTML(http.StatusOK, web.PageRegistration, page)
}

// Register handles POST /registration requests.
func (c *WebController) Register(ctx *gin.Context) {
	page := web.NewPage(registerTitle, registerDescription)
	page.Values["name"] = ctx.PostForm("name")
	page.Values["email"] = ctx.PostForm("email")
	page.Values["terms"] = ctx.PostForm("terms")
	page.Meter = c.meterFor(ctx.Request.Context(), ctx.PostForm("password"))

	var form dto.RegistrationForm
	if err := ctx.ShouldBind(&form); err != nil {
		fields := dto.TranslateFormErrors(err)
		page.Fields = fields
		page.Error = fields.First("form", "confirm_password", "terms")
		ctx.HTML(http.StatusBadRequest, web.PageRegistration, page)
		return
	}

	_, err := c.authService.Register(ctx.Request.Context(), adapter.RegistrationFields{
		Name:          form.Name,
		Email:         form.Email,
		Password:      form.Password,
		TermsAccepted: form.Terms,
	})
	if err != nil {
		page.Error = authErrorMessage(err)
		ctx.HTML(screenStatus(err), web.PageRegistration, page)
		return
	}

	ctx.Redirect(http.StatusSeeOther, "/?notice=registered")
}

// ForgotPasswordPage handles GET /forgot-password requests.
func (c *WebController) ForgotPasswordPage(ctx *gin.Context) {
	ctx.HTML(http.StatusOK, web.PageForgotPassword, web.NewPage(forgotTitle, forgotDescription))
}

// ForgotPassword handles POST /forgot-password requests.
func (c *WebController) ForgotPassword(ctx *gin.Context) {
	page := web.NewPage(forgotTitle, forgotDescription)

	var form dto.ForgotPasswordForm
	if err := ctx.ShouldBind(&form); err != nil {
		page.Values["email"] = ctx.PostForm("email")
		page.Fields = dto.TranslateFormErrors(err)
		ctx.HTML(http.StatusBadRequest, web.PageForgotPassword, page)
		return
	}

	if err := c.authService.RequestPasswordReset(ctx.Request.Context(), form.Email); err != nil {
		page.Values["email"] = form.Email
		if code, ok := domainerror.AuthErrorCodeOf(err); ok && code == domainerror.ErrCodeInvalidEmail {
			page.Fields["email"] = dto.MsgEmailInvalid
		} else {
			page.Error = authErrorMessage(err)
		}
		ctx.HTML(screenStatus(err), web.PageForgotPassword, page)
		return
	}

	page.Success = resetLinkSentMessage
	ctx.HTML(http.StatusOK, web.PageForgotPassword, page)
}

// ResetPasswordPage handles GET /reset-password requests.
func (c *WebController) ResetPasswordPage(ctx *gin.Context) {
	page := web.NewPage(resetTitle, resetDescription)
	page.Token = ctx.Query("token")
	if page.Token == "" {
		page.Error = dto.MsgResetLinkInvalid
	}
	page.Meter = c.meterFor(ctx.Request.Context(), "")
	ctx.HTML(http.StatusOK, web.PageResetPassword, page)
}

// ResetPassword handles POST /reset-password requests.
func (c *WebController) ResetPassword(ctx *gin.Context) {
	page := web.NewPage(resetTitle, resetDescription)
	page.Token = ctx.PostForm("token")
	page.Meter = c.meterFor(ctx.Request.Context(), ctx.PostForm("password"))

	var form dto.ResetPasswordForm
	if err := ctx.ShouldBind(&form); err != nil {
		fields := dto.TranslateFormErrors(err)
		page.Fields = fields
		page.Error = fields.First("token", "form")
		ctx.HTML(http.StatusBadRequest, web.PageResetPassword, page)
		return
	}

	if err := c.authService.ResetPassword(ctx.Request.Context(), form.Token, form.Password); err != nil {
		page.Error = authErrorMessage(err)
		ctx.HTML(screenStatus(err), web.PageResetPassword, page)
		return
	}

	ctx.Redirect(http.StatusSeeOther, "/?notice=password-reset")
}

// Dashboard handles GET /dashboard requests. It runs behind RequireSession.
func (c *WebController) Dashboard(ctx *gin.Context) {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		ctx.Redirect(http.StatusSeeOther, "/")
		return
	}

	page := web.NewPage(dashboardTitle, dashboardDescription)
	page.UserName = user.Name
	page.UserEmail = user.Email
	ctx.HTML(http.StatusOK, web.PageDashboard, page)
}

// Logout handles POST /logout requests. The session behind the cookie is
// ended server side, so a copied cookie stops working too.
func (c *WebController) Logout(ctx *gin.Context) {
	if token, _ := ctx.Cookie(middleware.SessionCookieName); token != "" {
		if err := c.sessions.EndSession(ctx.Request.Context(), token); err != nil {
			slog.WarnContext(ctx.Request.Context(), "Failed to end web session", "error", err)
		}
	}
	middleware.ClearSessionCookie(ctx)
	ctx.Redirect(http.StatusSeeOther, "/?notice=logged-out")
}

// TermsPage handles GET /terms-of-service requests.
func (c *WebController) TermsPage(ctx *gin.Context) {
	ctx.HTML(http.StatusOK, web.PageTerms, web.NewPage("Terms of Service", ""))
}

// PrivacyPage handles GET /privacy-policy requests.
func (c *WebController) PrivacyPage(ctx *gin.Context) {
	ctx.HTML(http.StatusOK, web.PagePrivacy, web.NewPage("Privacy Policy", ""))
}

func (c *WebController) meterFor(ctx context.Context, pw string) template.HTML {
	fragment, err := c.checkStrengthUseCase.ExecuteHTML(ctx, password.CheckStrengthInput{Password: pw})
	if err != nil {
		slog.Error("Failed to render strength meter", "error", err)
		return ""
	}
	return fragment
}

// screenStatus is the status a screen responds with when an auth call fails.
func screenStatus(err error) int {
	var authErr *domainerror.AuthError
	if errors.As(err, &authErr) {
		return statusForAuthError(authErr.Code)
	}
	slog.Error("Auth backend failed", "error", err)
	return http.StatusInternalServerError
}
