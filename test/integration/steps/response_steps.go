package steps

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/cucumber/godog"
)

func registerResponseSteps(ctx *godog.ScenarioContext) {
	ctx.Then(`^the response status should be (\d+)$`, theResponseStatusShouldBe)
	ctx.Then(`^the response should be JSON$`, theResponseShouldBeJSON)
	ctx.Then(`^the response should contain "([^"]*)"$`, theResponseShouldContain)
	ctx.Then(`^the response should not contain "([^"]*)"$`, theResponseShouldNotContain)
	ctx.Then(`^the response field "([^"]*)" should be "([^"]*)"$`, theResponseFieldShouldBe)
	ctx.Then(`^the response field "([^"]*)" should exist$`, theResponseFieldShouldExist)
	ctx.Then(`^I should be redirected to "([^"]*)"$`, iShouldBeRedirectedTo)
	ctx.Then(`^the session cookie should be set$`, theSessionCookieShouldBeSet)
}

func lastResponse(ctx context.Context) (*response, error) {
	tc, err := testContext(ctx)
	if err != nil {
		return nil, err
	}
	if tc.response == nil {
		return nil, fmt.Errorf("no response received")
	}
	return tc.response, nil
}

func theResponseStatusShouldBe(ctx context.Context, expected int) error {
	resp, err := lastResponse(ctx)
	if err != nil {
		return err
	}
	if resp.status != expected {
		return fmt.Errorf("expected status %d, got %d. Body: %s", expected, resp.status, resp.body)
	}
	return nil
}

func theResponseShouldBeJSON(ctx context.Context) error {
	resp, err := lastResponse(ctx)
	if err != nil {
		return err
	}
	var js json.RawMessage
	if err := json.Unmarshal(resp.body, &js); err != nil {
		return fmt.Errorf("response is not valid JSON: %w", err)
	}
	return nil
}

func theResponseShouldContain(ctx context.Context, expected string) error {
	resp, err := lastResponse(ctx)
	if err != nil {
		return err
	}
	if !strings.Contains(string(resp.body), expected) {
		return fmt.Errorf("response does not contain '%s'. Body: %s", expected, resp.body)
	}
	return nil
}

func theResponseShouldNotContain(ctx context.Context, unexpected string) error {
	resp, err := lastResponse(ctx)
	if err != nil {
		return err
	}
	if strings.Contains(string(resp.body), unexpected) {
		return fmt.Errorf("response unexpectedly contains '%s'", unexpected)
	}
	return nil
}

// lookupField resolves a dotted path such as "user.email" in a JSON object.
func lookupField(body []byte, path string) (any, error) {
	var data any
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("failed to parse response JSON: %w", err)
	}
	for _, key := range strings.Split(path, ".") {
		obj, ok := data.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("field '%s' not found in response", path)
		}
		if data, ok = obj[key]; !ok {
			return nil, fmt.Errorf("field '%s' not found in response", path)
		}
	}
	return data, nil
}

func theResponseFieldShouldBe(ctx context.Context, field, expected string) error {
	resp, err := lastResponse(ctx)
	if err != nil {
		return err
	}
	value, err := lookupField(resp.body, field)
	if err != nil {
		return err
	}
	if actual := fmt.Sprintf("%v", value); actual != expected {
		return fmt.Errorf("field '%s' expected '%s', got '%s'", field, expected, actual)
	}
	return nil
}

func theResponseFieldShouldExist(ctx context.Context, field string) error {
	resp, err := lastResponse(ctx)
	if err != nil {
		return err
	}
	_, err = lookupField(resp.body, field)
	return err
}

func iShouldBeRedirectedTo(ctx context.Context, expected string) error {
	resp, err := lastResponse(ctx)
	if err != nil {
		return err
	}
	if resp.status < 300 || resp.status >= 400 {
		return fmt.Errorf("expected a redirect, got status %d", resp.status)
	}
	if resp.location != expected {
		return fmt.Errorf("expected redirect to '%s', got '%s'", expected, resp.location)
	}
	return nil
}

func theSessionCookieShouldBeSet(ctx context.Context) error {
	tc, err := testContext(ctx)
	if err != nil {
		return err
	}
	u, err := url.Parse(tc.server.URL)
	if err != nil {
		return err
	}
	for _, c := range tc.client.Jar.Cookies(u) {
		if c.Name == "authsecure_session" && c.Value != "" {
			return nil
		}
	}
	return fmt.Errorf("session cookie not set")
}
