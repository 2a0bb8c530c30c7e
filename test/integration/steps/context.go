// Package steps provides step definitions for BDD integration tests.
package steps

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"time"

	"github.com/cucumber/godog"
	"github.com/gin-gonic/gin"

	"github.com/authsecure/backend/config"
	"github.com/authsecure/backend/internal/infra/dependency"
	"github.com/authsecure/backend/internal/integration/persistence/model"
	"github.com/authsecure/backend/test/integration/mock"
)

const testJWTSecret = "test-jwt-secret-key-for-testing-purposes"

// RateLimitAttempts is the per-window limit configured for scenarios.
const RateLimitAttempts = 5

var (
	testDB   *mock.Db
	emailAPI *mock.ApiMock
)

// TestContext holds the test state for each scenario.
type TestContext struct {
	// HTTP
	server   *httptest.Server
	client   *http.Client
	injector *dependency.Injector
	response *response

	// Request building
	headers map[string]string

	// Auth
	accessToken  string
	refreshToken string
}

type response struct {
	status   int
	header   http.Header
	body     []byte
	location string
}

// contextKey is used to store TestContext in context.Context.
type contextKey struct{}

// GetTestContext retrieves the TestContext from context.
func GetTestContext(ctx context.Context) *TestContext {
	if tc, ok := ctx.Value(contextKey{}).(*TestContext); ok {
		return tc
	}
	return nil
}

// SetTestContext stores the TestContext in context.
func SetTestContext(ctx context.Context, tc *TestContext) context.Context {
	return context.WithValue(ctx, contextKey{}, tc)
}

// InitializeTestSuite sets up resources shared by every scenario.
func InitializeTestSuite(ctx *godog.TestSuiteContext) {
	ctx.BeforeSuite(func() {
		gin.SetMode(gin.TestMode)

		testDB = mock.NewDb(model.All()...)
		mock.NewRedis()

		emailAPI = mock.NewApiServer()
		emailAPI.Start()
	})

	ctx.AfterSuite(func() {
		if emailAPI != nil {
			emailAPI.Close()
		}
	})
}

func scenarioConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Environment: "test"},
		JWT: config.JWTConfig{
			Secret:                  testJWTSecret,
			AccessTokenExpiry:       15 * time.Minute,
			RefreshTokenExpiry:      7 * 24 * time.Hour,
			RememberMeAccessExpiry:  7 * 24 * time.Hour,
			RememberMeRefreshExpiry: 30 * 24 * time.Hour,
		},
		Email: config.EmailConfig{
			ResendAPIKey:  "re_test",
			ResendBaseURL: emailAPI.GetUrl(),
			FromName:      "AuthSecure",
			FromEmail:     "no-reply@authsecure.test",
			AppBaseURL:    "http://authsecure.test",
			WorkerEnabled: true,
			BatchSize:     10,
		},
		Auth:     config.AuthConfig{Backend: config.BackendDatabase},
		Password: config.PasswordConfig{MinLength: 8, MinScore: 3, BcryptCost: 4},
		Meter:    config.MeterConfig{Strategy: "segmented"},
		RateLimit: config.RateLimitConfig{
			Enabled:     true,
			Store:       config.StoreRedis,
			MaxAttempts: RateLimitAttempts,
			Window:      time.Minute,
		},
	}
}

// InitializeScenario registers all step definitions.
func InitializeScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		if err := testDB.ClearDB(); err != nil {
			return ctx, err
		}
		if err := mock.ClearRedis(mock.NewRedis()); err != nil {
			return ctx, err
		}
		emailAPI.Reset()

		injector, err := dependency.NewInjector(scenarioConfig(), testDB.Database, mock.NewRedis())
		if err != nil {
			return ctx, fmt.Errorf("failed to wire dependencies: %w", err)
		}

		jar, err := cookiejar.New(nil)
		if err != nil {
			return ctx, err
		}

		tc := &TestContext{
			server:   httptest.NewServer(injector.Router.Setup("test")),
			injector: injector,
			headers:  make(map[string]string),
			client: &http.Client{
				Jar:     jar,
				Timeout: 10 * time.Second,
				CheckRedirect: func(*http.Request, []*http.Request) error {
					return http.ErrUseLastResponse
				},
			},
		}

		return SetTestContext(ctx, tc), nil
	})

	ctx.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		tc := GetTestContext(ctx)
		if tc != nil && tc.server != nil {
			tc.server.Close()
		}
		return ctx, nil
	})

	registerSetupSteps(ctx)
	registerRequestSteps(ctx)
	registerResponseSteps(ctx)
	registerDatabaseSteps(ctx)
	registerEmailSteps(ctx)
}
