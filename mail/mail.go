// Package mail contains the outbound email collaborators of the
// notification dispatcher. The dispatcher hands over one fully-formed
// message per call; retrying is the caller's business (a notification
// whose email_sent flag stays unset remains retryable).
package mail

import (
	"log"
)

// LogMailer writes messages to the log instead of delivering them.
// It is the default when no SMTP configuration exists.
type LogMailer struct{}

func (LogMailer) Send(to, subject, body string) error {
	log.Printf("mail to %s: %s", to, subject)
	return nil
}
