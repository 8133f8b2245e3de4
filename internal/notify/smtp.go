package notify

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"

	"github.com/portfolio/backend/internal/model"
)

// ErrSMTPNotConfigured is returned when the smtp driver is requested without
// a host and recipient.
var ErrSMTPNotConfigured = errors.New("notify: smtp not configured")

// SMTPConfig describes the relay used to mail contact messages.
type SMTPConfig struct {
	Host string
	Port int
	User string
	Pass string
	From string // defaults to User
	To   string
}

func (c SMTPConfig) Configured() bool {
	return c.Host != "" && c.To != ""
}

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPNotifier mails each message to a fixed recipient with Reply-To set to
// the submitter.
type SMTPNotifier struct {
	cfg      SMTPConfig
	sendMail sendMailFunc
}

func NewSMTPNotifier(cfg SMTPConfig) *SMTPNotifier {
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	if cfg.From == "" {
		cfg.From = cfg.User
	}
	return &SMTPNotifier{cfg: cfg, sendMail: smtp.SendMail}
}

// Notify sends the mail. net/smtp has no context support, so the send runs in
// its own goroutine and Notify returns early when ctx is done.
func (n *SMTPNotifier) Notify(ctx context.Context, msg model.ContactMessage) error {
	var auth smtp.Auth
	if n.cfg.User != "" {
		auth = smtp.PlainAuth("", n.cfg.User, n.cfg.Pass, n.cfg.Host)
	}
	addr := net.JoinHostPort(n.cfg.Host, strconv.Itoa(n.cfg.Port))
	body := n.compose(msg)

	done := make(chan error, 1)
	go func() {
		done <- n.sendMail(addr, auth, n.cfg.From, []string{n.cfg.To}, body)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("smtp send: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

var headerSanitizer = strings.NewReplacer("\r", " ", "\n", " ")

func (n *SMTPNotifier) compose(msg model.ContactMessage) []byte {
	var b strings.Builder
	b.WriteString("To: " + n.cfg.To + "\r\n")
	b.WriteString("From: " + n.cfg.From + "\r\n")
	b.WriteString("Reply-To: " + headerSanitizer.Replace(msg.Email) + "\r\n")
	b.WriteString("Subject: Portfolio Contact: " + headerSanitizer.Replace(msg.Subject) + "\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	fmt.Fprintf(&b, "New contact form submission #%d\r\n\r\n", msg.ID)
	fmt.Fprintf(&b, "Name: %s\r\nEmail: %s\r\nSubject: %s\r\nReceived: %s\r\n\r\n",
		headerSanitizer.Replace(msg.Name), headerSanitizer.Replace(msg.Email),
		headerSanitizer.Replace(msg.Subject), msg.CreatedAt.Format("2006-01-02 15:04:05 MST"))
	b.WriteString(msg.Message)
	b.WriteString("\r\n")
	return []byte(b.String())
}
