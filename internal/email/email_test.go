package email

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSMTPSender_ValidatesConfig(t *testing.T) {
	valid := SMTPConfig{
		Host:     "smtp.example.com",
		Port:     "587",
		Username: "mailer",
		Password: "secret",
		From:     "no-reply@example.com",
	}

	_, err := NewSMTPSender(valid)
	require.NoError(t, err)

	for name, mutate := range map[string]func(*SMTPConfig){
		"missing host":     func(c *SMTPConfig) { c.Host = "" },
		"missing port":     func(c *SMTPConfig) { c.Port = "" },
		"missing username": func(c *SMTPConfig) { c.Username = "" },
		"missing password": func(c *SMTPConfig) { c.Password = "" },
		"missing from":     func(c *SMTPConfig) { c.From = "" },
	} {
		t.Run(name, func(t *testing.T) {
			cfg := valid
			mutate(&cfg)
			_, err := NewSMTPSender(cfg)
			assert.Error(t, err)
		})
	}
}

func TestWelcomeBody_GreetsByName(t *testing.T) {
	assert.Contains(t, WelcomeBody("Jo"), "Hi Jo")
	assert.Contains(t, WelcomeBody(""), "Hi there")
}

func TestTemplates_EscapeUserInput(t *testing.T) {
	body := WelcomeBody(`<script>alert(1)</script>`)
	assert.NotContains(t, body, "<script>")
	assert.Contains(t, body, "&lt;script&gt;")

	body = ReviewInviteBody(`Acme <img src=x onerror=alert(1)>`, "https://example.com/r")
	assert.NotContains(t, body, "<img")
	assert.Contains(t, body, "Acme &lt;img")
}

func TestReviewInviteBody_EmbedsLink(t *testing.T) {
	body := ReviewInviteBody("Acme Coffee", "https://search.google.com/local/writereview?placeid=ChIJabc")

	assert.Contains(t, body, "Acme Coffee")
	// Linked and spelled out as a fallback.
	assert.Equal(t, 2, strings.Count(body, "writereview?placeid=ChIJabc"))
	assert.Contains(t, ReviewInviteSubject("Acme Coffee"), "Acme Coffee")
}
