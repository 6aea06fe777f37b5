package email

import (
	"fmt"
	"html"
)

// Static HTML templates for the transactional mails the application sends.

const welcomeSubject = "Welcome to ReviewPilot"

const reviewInviteSubject = "How was your visit to %s?"

// WelcomeBody renders the welcome email. An empty name falls back to a
// generic greeting. The name is user-supplied and escaped before it lands in
// the markup.
func WelcomeBody(name string) string {
	greeting := "Hi there"
	if name != "" {
		greeting = "Hi " + html.EscapeString(name)
	}
	return fmt.Sprintf(`<html><body>
<p>%s,</p>
<p>Welcome to ReviewPilot! Your account is ready.</p>
<p>Head to your dashboard to send your first review request.</p>
<p>&mdash; The ReviewPilot team</p>
</body></html>`, greeting)
}

// WelcomeSubject returns the welcome email subject line.
func WelcomeSubject() string {
	return welcomeSubject
}

// ReviewInviteBody renders the review invitation email with the public
// review link for the business. The business name comes from customer input
// and is escaped before it lands in the markup.
func ReviewInviteBody(businessName, reviewURL string) string {
	return fmt.Sprintf(`<html><body>
<p>Thanks for visiting %s!</p>
<p>Would you take a minute to share your experience? It really helps.</p>
<p><a href="%s">Leave a review</a></p>
<p>If the link doesn't open, copy this address into your browser:<br>%s</p>
</body></html>`, html.EscapeString(businessName), reviewURL, reviewURL)
}

// ReviewInviteSubject returns the review invitation subject line.
func ReviewInviteSubject(businessName string) string {
	return fmt.Sprintf(reviewInviteSubject, businessName)
}
