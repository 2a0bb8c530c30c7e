// Package router sets up the HTTP routing for the application.
package router

import (
	"fmt"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/authsecure/backend/internal/integration/entrypoint/controller"
	"github.com/authsecure/backend/internal/integration/entrypoint/middleware"
	"github.com/authsecure/backend/internal/integration/entrypoint/web"
)

// Router holds the Gin engine and controller dependencies.
type Router struct {
	engine             *gin.Engine
	healthController   *controller.HealthController
	authController     *controller.AuthController
	userController     *controller.UserController
	passwordController *controller.PasswordController
	webController      *controller.WebController
	authRateLimiter    *middleware.RateLimiter
	authMiddleware     *middleware.AuthMiddleware
	httpRecorder       middleware.HTTPRecorder
	metricsHandler     http.Handler
	templates          *template.Template
}

// Dependencies groups everything the router wires into routes.
// Nil controllers leave their routes unregistered.
type Dependencies struct {
	HealthController   *controller.HealthController
	AuthController     *controller.AuthController
	UserController     *controller.UserController
	PasswordController *controller.PasswordController
	WebController      *controller.WebController
	AuthRateLimiter    *middleware.RateLimiter
	AuthMiddleware     *middleware.AuthMiddleware
	HTTPRecorder       middleware.HTTPRecorder
	MetricsHandler     http.Handler
}

// NewRouter creates a new router instance with all dependencies.
func NewRouter(deps Dependencies) (*Router, error) {
	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("failed to load screens: %w", err)
	}

	return &Router{
		healthController:   deps.HealthController,
		authController:     deps.AuthController,
		userController:     deps.UserController,
		passwordController: deps.PasswordController,
		webController:      deps.WebController,
		authRateLimiter:    deps.AuthRateLimiter,
		authMiddleware:     deps.AuthMiddleware,
		httpRecorder:       deps.HTTPRecorder,
		metricsHandler:     deps.MetricsHandler,
		templates:          tmpl,
	}, nil
}

// Setup configures and returns the Gin engine with all routes.
func (r *Router) Setup(environment string) *gin.Engine {
	// Set Gin mode based on environment
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else if environment == "test" {
		gin.SetMode(gin.TestMode)
	}

	r.engine = gin.New()
	r.engine.Use(gin.Recovery())
	if environment != "test" {
		r.engine.Use(gin.Logger())
	}
	if r.httpRecorder != nil {
		r.engine.Use(middleware.Metrics(r.httpRecorder))
	}
	r.engine.SetHTMLTemplate(r.templates)
	r.engine.StaticFS("/static", web.Static())

	r.setupHealthRoutes()
	r.setupScreenRoutes()
	r.setupAPIRoutes()

	return r.engine
}

// setupHealthRoutes configures health check and metrics endpoints.
func (r *Router) setupHealthRoutes() {
	if r.healthController != nil {
		r.engine.GET("/health", r.healthController.Check)
	}
	if r.metricsHandler != nil {
		r.engine.GET("/metrics", gin.WrapH(r.metricsHandler))
	}
}

// setupScreenRoutes configures the server-rendered pages.
func (r *Router) setupScreenRoutes() {
	if r.webController == nil {
		return
	}

	limited := r.rateLimited()

	r.engine.GET("/", r.webController.LoginPage)
	r.engine.POST("/", append(limited, r.webController.Login)...)
	r.engine.GET("/registration", r.webController.RegistrationPage)
	r.engine.POST("/registration", r.webController.Register)
	r.engine.GET("/forgot-password", r.webController.ForgotPasswordPage)
	r.engine.POST("/forgot-password", append(limited, r.webController.ForgotPassword)...)
	r.engine.GET("/reset-password", r.webController.ResetPasswordPage)
	r.engine.POST("/reset-password", r.webController.ResetPassword)
	r.engine.POST("/logout", r.webController.Logout)
	r.engine.GET("/terms-of-service", r.webController.TermsPage)
	r.engine.GET("/privacy-policy", r.webController.PrivacyPage)

	if r.authMiddleware != nil {
		r.engine.GET("/dashboard", r.authMiddleware.RequireSession("/"), r.webController.Dashboard)
	}

	if r.passwordController != nil {
		r.engine.POST("/partials/password-strength", r.passwordController.StrengthPartial)
	}
}

// setupAPIRoutes configures the JSON API routes.
func (r *Router) setupAPIRoutes() {
	v1 := r.engine.Group("/api/v1")
	{
		if r.authController != nil {
			limited := r.rateLimited()

			auth := v1.Group("/auth")
			{
				auth.POST("/register", r.authController.Register)
				auth.POST("/login", append(limited, r.authController.Login)...)
				auth.POST("/forgot-password", append(limited, r.authController.ForgotPassword)...)
				auth.POST("/reset-password", r.authController.ResetPassword)
				if r.authController.SupportsRefresh() {
					auth.POST("/refresh", r.authController.RefreshToken)
					auth.POST("/logout", r.authController.Logout)
				}
			}
		}

		if r.passwordController != nil {
			v1.POST("/password/strength", r.passwordController.Strength)
		}

		// User routes (require authentication)
		if r.userController != nil && r.authMiddleware != nil {
			users := v1.Group("/users")
			users.Use(r.authMiddleware.Authenticate())
			{
				users.GET("/me", r.userController.Me)
				if r.userController.SupportsDelete() {
					users.DELETE("/me", r.userController.DeleteAccount)
				}
			}
		}
	}
}

// rateLimited returns the rate limit handler chain, empty when no limiter is configured.
func (r *Router) rateLimited() []gin.HandlerFunc {
	if r.authRateLimiter == nil {
		return nil
	}
	return []gin.HandlerFunc{r.authRateLimiter.Middleware()}
}
