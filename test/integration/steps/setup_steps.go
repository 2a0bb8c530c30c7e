package steps

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cucumber/godog"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/authsecure/backend/internal/integration/persistence"
	"github.com/authsecure/backend/internal/integration/persistence/model"
	"github.com/authsecure/backend/test/integration/mock"
)

// DefaultPassword is used by users created without an explicit password.
const DefaultPassword = "Abcdefg1!"

func registerSetupSteps(ctx *godog.ScenarioContext) {
	ctx.Given(`^the API server is running$`, theAPIServerIsRunning)
	ctx.Given(`^a user exists with email "([^"]*)"$`, aUserExistsWithEmail)
	ctx.Given(`^a user exists with email "([^"]*)" and password "([^"]*)"$`, aUserExistsWithEmailAndPassword)
	ctx.Given(`^a password reset token "([^"]*)" exists for "([^"]*)"$`, aPasswordResetTokenExistsFor)
	ctx.Given(`^an expired password reset token "([^"]*)" exists for "([^"]*)"$`, anExpiredPasswordResetTokenExistsFor)
	ctx.Given(`^I am logged in as "([^"]*)" with password "([^"]*)"$`, iAmLoggedInAsWithPassword)
	ctx.Given(`^the header contains the key "([^"]*)" with "([^"]*)"$`, theHeaderContainsTheKeyWith)
	ctx.Given(`^the rate limit window has passed$`, theRateLimitWindowHasPassed)
}

func testContext(ctx context.Context) (*TestContext, error) {
	tc := GetTestContext(ctx)
	if tc == nil {
		return nil, fmt.Errorf("test context not found")
	}
	return tc, nil
}

func theAPIServerIsRunning(ctx context.Context) error {
	tc, err := testContext(ctx)
	if err != nil {
		return err
	}
	if tc.server == nil {
		return fmt.Errorf("test server is not running")
	}
	return nil
}

func aUserExistsWithEmail(ctx context.Context, email string) error {
	return createUser(email, DefaultPassword, "Test User")
}

func aUserExistsWithEmailAndPassword(ctx context.Context, email, password string) error {
	return createUser(email, password, "Test User")
}

func createUser(email, password, name string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &model.UserModel{
		ID:              uuid.New(),
		Email:           email,
		Name:            name,
		PasswordHash:    string(hash),
		TermsAcceptedAt: now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	return testDB.DbConn.Create(user).Error
}

func findUser(email string) (*model.UserModel, error) {
	var user model.UserModel
	if err := testDB.DbConn.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, fmt.Errorf("user %q not found: %w", email, err)
	}
	return &user, nil
}

func aPasswordResetTokenExistsFor(ctx context.Context, token, email string) error {
	return createResetToken(token, email, time.Now().UTC().Add(time.Hour))
}

func anExpiredPasswordResetTokenExistsFor(ctx context.Context, token, email string) error {
	return createResetToken(token, email, time.Now().UTC().Add(-time.Minute))
}

func createResetToken(token, email string, expiresAt time.Time) error {
	user, err := findUser(email)
	if err != nil {
		return err
	}
	return testDB.DbConn.Create(&model.PasswordResetTokenModel{
		ID:        uuid.New(),
		TokenHash: persistence.HashToken(token),
		UserID:    user.ID,
		Email:     email,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
	}).Error
}

func iAmLoggedInAsWithPassword(ctx context.Context, email, password string) (context.Context, error) {
	body := fmt.Sprintf(`{"email":%q,"password":%q}`, email, password)
	ctx, err := iSendARequestToWithBody(ctx, "POST", "/api/v1/auth/login", &godog.DocString{Content: body})
	if err != nil {
		return ctx, err
	}

	tc, err := testContext(ctx)
	if err != nil {
		return ctx, err
	}
	if tc.response.status != 200 {
		return ctx, fmt.Errorf("login failed with status %d: %s", tc.response.status, tc.response.body)
	}

	var auth struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.Unmarshal(tc.response.body, &auth); err != nil {
		return ctx, fmt.Errorf("failed to parse login response: %w", err)
	}
	tc.accessToken = auth.AccessToken
	tc.refreshToken = auth.RefreshToken
	return SetTestContext(ctx, tc), nil
}

func theHeaderContainsTheKeyWith(ctx context.Context, key, value string) (context.Context, error) {
	tc, err := testContext(ctx)
	if err != nil {
		return ctx, err
	}
	tc.headers[key] = value
	return SetTestContext(ctx, tc), nil
}

func theRateLimitWindowHasPassed(ctx context.Context) error {
	mock.FastForwardRedis(time.Minute + time.Second)
	return nil
}
