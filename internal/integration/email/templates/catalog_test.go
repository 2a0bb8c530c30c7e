package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerror "github.com/authsecure/backend/internal/domain/error"
)

func TestCatalog_Kinds(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"password_reset", "welcome"}, c.Kinds())
}

func TestCatalog_PasswordReset(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	msg, err := c.Render("password_reset", map[string]string{
		"UserName":  "Ada",
		"ResetURL":  "http://localhost:8080/reset-password?token=abc",
		"ExpiresIn": "1 hour",
	})
	require.NoError(t, err)

	assert.Contains(t, msg.HTML, "Hi Ada,")
	assert.Contains(t, msg.HTML, `href="http://localhost:8080/reset-password?token=abc"`)
	assert.Contains(t, msg.Text, "Reset your password: http://localhost:8080/reset-password?token=abc")
	assert.Contains(t, msg.Text, "expires in 1 hour")
}

func TestCatalog_EscapesOnlyHTML(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	msg, err := c.Render("welcome", map[string]string{"UserName": "<Ada>", "LoginURL": "http://localhost:8080/"})
	require.NoError(t, err)

	assert.Contains(t, msg.HTML, "Hi &lt;Ada&gt;,")
	assert.Contains(t, msg.Text, "Hi <Ada>,")
}

func TestCatalog_Errors(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	_, err = c.Render("group_invitation", nil)
	assert.ErrorIs(t, err, domainerror.ErrUnknownEmailTemplate)

	_, err = c.Render("welcome", map[string]string{"UserName": "Ada"})
	assert.ErrorContains(t, err, "LoginURL")
}
