package controller

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/authsecure/backend/internal/application/adapter"
	"github.com/authsecure/backend/internal/application/usecase/password"
	domainerror "github.com/authsecure/backend/internal/domain/error"
	"github.com/authsecure/backend/internal/integration/entrypoint/middleware"
	"github.com/authsecure/backend/internal/integration/entrypoint/web"
	"github.com/authsecure/backend/internal/integration/meter"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubAuthService records calls and returns configured errors.
type stubAuthService struct {
	mu sync.Mutex

	registerErr error
	loginErr    error
	forgotErr   error
	resetErr    error

	registered []adapter.RegistrationFields
	logins     []adapter.Credentials
	forgot     []string
	resets     map[string]string
	sessions   map[string]adapter.SessionUser
}

func newStubAuthService() *stubAuthService {
	return &stubAuthService{
		resets:   map[string]string{},
		sessions: map[string]adapter.SessionUser{},
	}
}

func (s *stubAuthService) RequestPasswordReset(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.forgot = append(s.forgot, email)
	return s.forgotErr
}

func (s *stubAuthService) ResetPassword(_ context.Context, token, newPassword string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.resetErr != nil {
		return s.resetErr
	}
	s.resets[token] = newPassword
	return nil
}

func (s *stubAuthService) Register(_ context.Context, fields adapter.RegistrationFields) (*adapter.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.registerErr != nil {
		return nil, s.registerErr
	}
	s.registered = append(s.registered, fields)
	return s.newSession(fields.Email, fields.Name), nil
}

func (s *stubAuthService) Login(_ context.Context, credentials adapter.Credentials) (*adapter.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loginErr != nil {
		return nil, s.loginErr
	}
	s.logins = append(s.logins, credentials)
	return s.newSession(credentials.Email, "Ada"), nil
}

func (s *stubAuthService) VerifySession(_ context.Context, token string) (*adapter.SessionUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.sessions[token]
	if !ok {
		return nil, domainerror.NewAuthError(domainerror.ErrCodeInvalidToken, "invalid token", domainerror.ErrInvalidToken)
	}
	return &user, nil
}

func (s *stubAuthService) EndSession(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}

func (s *stubAuthService) newSession(email, name string) *adapter.Session {
	user := adapter.SessionUser{ID: uuid.New(), Email: email, Name: name}
	token := "token-" + user.ID.String()
	s.sessions[token] = user
	return &adapter.Session{
		AccessToken:  token,
		RefreshToken: "refresh-" + user.ID.String(),
		ExpiresAt:    time.Now().Add(time.Hour),
		User:         user,
	}
}

func newStrengthUseCase(strategy meter.Strategy) *password.CheckStrengthUseCase {
	return password.NewCheckStrengthUseCase(meter.NewRenderer(strategy), nil)
}

// newWebEngine builds an engine with the screens and the strength partial.
func newWebEngine(t *testing.T, svc *stubAuthService) *gin.Engine {
	t.Helper()

	tmpl, err := web.Templates()
	require.NoError(t, err)

	strength := newStrengthUseCase(meter.StrategySegmented)
	wc := NewWebController(svc, svc, strength, false)
	pc := NewPasswordController(strength)
	authMiddleware := middleware.NewAuthMiddleware(svc)

	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.GET("/", wc.LoginPage)
	r.POST("/", wc.Login)
	r.GET("/registration", wc.RegistrationPage)
	r.POST("/registration", wc.Register)
	r.GET("/forgot-password", wc.ForgotPasswordPage)
	r.POST("/forgot-password", wc.ForgotPassword)
	r.GET("/reset-password", wc.ResetPasswordPage)
	r.POST("/reset-password", wc.ResetPassword)
	r.GET("/dashboard", authMiddleware.RequireSession("/"), wc.Dashboard)
	r.POST("/logout", wc.Logout)
	r.GET("/terms-of-service", wc.TermsPage)
	r.GET("/privacy-policy", wc.PrivacyPage)
	r.POST("/partials/password-strength", pc.StrengthPartial)
	return r
}

func postForm(r http.Handler, path string, values url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func get(r http.Handler, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func postJSON(r http.Handler, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.SessionCookieName {
			return c
		}
	}
	t.Fatalf("no %s cookie in response", middleware.SessionCookieName)
	return nil
}
