package steps

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/cucumber/godog"
)

func registerRequestSteps(ctx *godog.ScenarioContext) {
	ctx.When(`^I send a "([^"]*)" request to "([^"]*)"$`, iSendARequestTo)
	ctx.When(`^I send a "([^"]*)" request to "([^"]*)" with body:$`, iSendARequestToWithBody)
	ctx.When(`^I submit the form "([^"]*)" with:$`, iSubmitTheFormWith)
	ctx.When(`^I refresh my session$`, iRefreshMySession)
	ctx.When(`^I send (\d+) login requests for "([^"]*)" with password "([^"]*)"$`, iSendLoginRequests)
}

func iSendARequestTo(ctx context.Context, method, endpoint string) (context.Context, error) {
	return send(ctx, method, endpoint, "", nil)
}

func iSendARequestToWithBody(ctx context.Context, method, endpoint string, body *godog.DocString) (context.Context, error) {
	return send(ctx, method, endpoint, "application/json", strings.NewReader(body.Content))
}

// iSubmitTheFormWith posts a two-column field/value table as a urlencoded form.
func iSubmitTheFormWith(ctx context.Context, endpoint string, table *godog.Table) (context.Context, error) {
	form := url.Values{}
	for i, row := range table.Rows {
		if len(row.Cells) != 2 {
			return ctx, fmt.Errorf("form row %d must have a field and a value", i+1)
		}
		if i == 0 && row.Cells[0].Value == "field" {
			continue
		}
		form.Add(row.Cells[0].Value, row.Cells[1].Value)
	}
	return send(ctx, http.MethodPost, endpoint, "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
}

func iRefreshMySession(ctx context.Context) (context.Context, error) {
	tc, err := testContext(ctx)
	if err != nil {
		return ctx, err
	}
	body := fmt.Sprintf(`{"refresh_token":%q}`, tc.refreshToken)
	return send(ctx, http.MethodPost, "/api/v1/auth/refresh", "application/json", strings.NewReader(body))
}

func iSendLoginRequests(ctx context.Context, count int, email, password string) (context.Context, error) {
	body := fmt.Sprintf(`{"email":%q,"password":%q}`, email, password)
	var err error
	for i := 0; i < count; i++ {
		ctx, err = send(ctx, http.MethodPost, "/api/v1/auth/login", "application/json", strings.NewReader(body))
		if err != nil {
			return ctx, err
		}
	}
	return ctx, nil
}

func send(ctx context.Context, method, endpoint, contentType string, body io.Reader) (context.Context, error) {
	tc, err := testContext(ctx)
	if err != nil {
		return ctx, err
	}

	req, err := http.NewRequestWithContext(ctx, method, tc.server.URL+endpoint, body)
	if err != nil {
		return ctx, fmt.Errorf("failed to create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for key, value := range tc.headers {
		req.Header.Set(key, value)
	}
	if tc.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+tc.accessToken)
	}

	resp, err := tc.client.Do(req)
	if err != nil {
		return ctx, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return ctx, fmt.Errorf("failed to read response body: %w", err)
	}

	tc.response = &response{
		status:   resp.StatusCode,
		header:   resp.Header,
		body:     raw,
		location: resp.Header.Get("Location"),
	}
	return SetTestContext(ctx, tc), nil
}
