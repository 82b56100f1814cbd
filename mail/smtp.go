package mail

import (
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/fightwire/fightwire/util"
	"github.com/google/uuid"
)

// An SMTPMailer delivers through a plain SMTP relay.
type SMTPMailer struct {
	Addr string // host:port
	From string
	auth smtp.Auth
}

// NewSMTPMailer reads config/mail.ini (keys: host, port, from, and
// optionally user and password for PLAIN auth).
func NewSMTPMailer() (*SMTPMailer, error) {

	config, err := util.Ini("mail.ini")
	if err != nil {
		return nil, err
	}

	host, port, from := config["host"], config["port"], config["from"]
	if host == "" || port == "" || from == "" {
		return nil, fmt.Errorf("mail.ini: host, port and from are required")
	}

	var mailer = &SMTPMailer{
		Addr: host + ":" + port,
		From: from,
	}

	if user := config["user"]; user != "" {
		mailer.auth = smtp.PlainAuth("", user, config["password"], host)
	}

	return mailer, nil
}

func (m *SMTPMailer) Send(to, subject, body string) error {

	var msg strings.Builder
	msg.WriteString("From: " + m.From + "\r\n")
	msg.WriteString("To: " + to + "\r\n")
	msg.WriteString("Subject: " + subject + "\r\n")
	msg.WriteString("Date: " + time.Now().Format(time.RFC1123Z) + "\r\n")
	msg.WriteString("Message-ID: <" + uuid.New().String() + "@" + strings.SplitN(m.Addr, ":", 2)[0] + ">\r\n")
	msg.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)
	msg.WriteString("\r\n")

	return smtp.SendMail(m.Addr, m.auth, m.From, []string{to}, []byte(msg.String()))
}
