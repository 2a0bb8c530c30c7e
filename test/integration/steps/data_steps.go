package steps

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"
	"golang.org/x/crypto/bcrypt"
)

func registerDatabaseSteps(ctx *godog.ScenarioContext) {
	ctx.Then(`^the db should contain (\d+) objects in the "([^"]*)" table$`, theDbShouldContainObjectsInTheTable)
	ctx.Then(`^the db should contain (\d+) objects in "([^"]*)" with the values$`, theDbShouldContainObjectsInWithTheValues)
	ctx.Then(`^the password of "([^"]*)" should be "([^"]*)"$`, thePasswordOfShouldBe)
}

func registerEmailSteps(ctx *godog.ScenarioContext) {
	ctx.When(`^the email worker runs$`, theEmailWorkerRuns)
	ctx.Then(`^the email API should have received (\d+) emails?$`, theEmailAPIShouldHaveReceivedEmails)
	ctx.Then(`^an email with subject "([^"]*)" should have been sent to "([^"]*)"$`, anEmailWithSubjectShouldHaveBeenSentTo)
}

func theDbShouldContainObjectsInTheTable(ctx context.Context, expected int, table string) error {
	count, err := testDB.Count(table)
	if err != nil {
		return fmt.Errorf("failed to count %s: %w", table, err)
	}
	if count != int64(expected) {
		return fmt.Errorf("expected %d objects in %s, got %d", expected, table, count)
	}
	return nil
}

// theDbShouldContainObjectsInWithTheValues matches rows against a header row of
// column names followed by one row of values.
func theDbShouldContainObjectsInWithTheValues(ctx context.Context, expected int, table string, values *godog.Table) error {
	if len(values.Rows) != 2 {
		return fmt.Errorf("expected a header row and one value row")
	}
	where := map[string]any{}
	for i, cell := range values.Rows[0].Cells {
		where[cell.Value] = values.Rows[1].Cells[i].Value
	}

	rows, err := testDB.Rows(table, where)
	if err != nil {
		return fmt.Errorf("failed to query %s: %w", table, err)
	}
	if len(rows) != expected {
		return fmt.Errorf("expected %d objects in %s matching %v, got %d", expected, table, where, len(rows))
	}
	return nil
}

func thePasswordOfShouldBe(ctx context.Context, email, password string) error {
	user, err := findUser(email)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return fmt.Errorf("password of %s does not match", email)
	}
	return nil
}

func theEmailWorkerRuns(ctx context.Context) error {
	tc, err := testContext(ctx)
	if err != nil {
		return err
	}
	if tc.injector.EmailWorker == nil {
		return fmt.Errorf("email worker is not enabled")
	}
	tc.injector.EmailWorker.ProcessNow(ctx)
	return nil
}

func theEmailAPIShouldHaveReceivedEmails(ctx context.Context, expected int) error {
	if got := len(emailAPI.Requests("POST", "/emails")); got != expected {
		return fmt.Errorf("expected %d emails, got %d", expected, got)
	}
	return nil
}

func anEmailWithSubjectShouldHaveBeenSentTo(ctx context.Context, subject, recipient string) error {
	for _, req := range emailAPI.Requests("POST", "/emails") {
		if req.Body["subject"] != subject {
			continue
		}
		to, _ := req.Body["to"].([]any)
		for _, addr := range to {
			if addr == recipient {
				return nil
			}
		}
	}
	return fmt.Errorf("no email with subject %q sent to %s", subject, recipient)
}
