// Package middleware provides HTTP middleware for the API endpoints and screens.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/authsecure/backend/internal/application/adapter"
	domainerror "github.com/authsecure/backend/internal/domain/error"
	"github.com/authsecure/backend/internal/integration/entrypoint/dto"
)

// SessionCookieName is the cookie holding the access token for the screens.
const SessionCookieName = "authsecure_session"

const currentUserKey = "authsecure.current_user"

// AuthMiddleware resolves the caller's session through a SessionVerifier.
// The API reads a bearer token; the screens read the session cookie.
type AuthMiddleware struct {
	verifier adapter.SessionVerifier
}

func NewAuthMiddleware(verifier adapter.SessionVerifier) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier}
}

// Authenticate rejects API requests that lack a valid bearer access token.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, rejection := bearerToken(c.GetHeader("Authorization"))
		if rejection != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, rejection)
			return
		}

		user, err := m.verifier.VerifySession(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
				Error: "Invalid or expired token",
				Code:  string(domainerror.ErrCodeInvalidToken),
			})
			return
		}

		c.Set(currentUserKey, *user)
		c.Next()
	}
}

// bearerToken extracts the token from an Authorization header value.
func bearerToken(header string) (string, *dto.ErrorResponse) {
	if header == "" {
		return "", &dto.ErrorResponse{
			Error: "Authorization header is required",
			Code:  string(domainerror.ErrCodeMissingToken),
		}
	}
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return "", &dto.ErrorResponse{
			Error: "Invalid authorization header format",
			Code:  string(domainerror.ErrCodeInvalidToken),
		}
	}
	if token = strings.TrimSpace(token); token == "" {
		return "", &dto.ErrorResponse{
			Error: "Token is required",
			Code:  string(domainerror.ErrCodeMissingToken),
		}
	}
	return token, nil
}

// RequireSession guards the screens. A missing or stale session cookie
// redirects to redirectTo, and a stale one is cleared first.
func (m *AuthMiddleware) RequireSession(redirectTo string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(SessionCookieName)
		if token == "" {
			c.Redirect(http.StatusSeeOther, redirectTo)
			c.Abort()
			return
		}

		user, err := m.verifier.VerifySession(c.Request.Context(), token)
		if err != nil {
			ClearSessionCookie(c)
			c.Redirect(http.StatusSeeOther, redirectTo)
			c.Abort()
			return
		}

		c.Set(currentUserKey, *user)
		c.Next()
	}
}

// CurrentUser returns the user an auth handler earlier in the chain resolved.
func CurrentUser(c *gin.Context) (adapter.SessionUser, bool) {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return adapter.SessionUser{}, false
	}
	user, ok := v.(adapter.SessionUser)
	return user, ok
}

// SetSessionCookie stores the access token in an HttpOnly cookie.
// A maxAge of 0 makes it a browser-session cookie.
func SetSessionCookie(c *gin.Context, token string, maxAge int, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, token, maxAge, "/", "", secure, true)
}

func ClearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, "", -1, "/", "", false, true)
}
