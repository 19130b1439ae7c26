package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"masraf/internal/core"
)

// SMTPNotifier delivers notifications as plain-text email over SMTP.
type SMTPNotifier struct {
	host     string
	port     int
	from     string
	username string
	password string
}

func NewSMTPNotifier(host string, port int, from, username, password string) *SMTPNotifier {
	return &SMTPNotifier{
		host:     host,
		port:     port,
		from:     from,
		username: username,
		password: password,
	}
}

func (s *SMTPNotifier) Send(ctx context.Context, n core.Notification) error {
	addr := fmt.Sprintf("%s:%d", s.host, s.port)
	msg := buildMessage(s.from, n.To, n.Subject, n.Body)

	var auth smtp.Auth
	if s.username != "" {
		auth = smtp.PlainAuth("", s.username, s.password, s.host)
	}

	// net/smtp has no context support; run the dial-and-send in a
	// goroutine so the caller's timeout still bounds the wait.
	done := make(chan error, 1)
	go func() {
		done <- smtp.SendMail(addr, auth, s.from, []string{n.To}, msg)
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("send mail to %s: %w", n.To, ctx.Err())
	case err := <-done:
		if err != nil {
			return fmt.Errorf("send mail to %s: %w", n.To, err)
		}
		return nil
	}
}

// buildMessage assembles an RFC 5322 message with a UTF-8 plain-text body.
func buildMessage(from, to, subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	return []byte(b.String())
}
