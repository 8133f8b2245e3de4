// Package notify forwards accepted contact messages to a human. Delivery is
// best-effort: failures are logged and never reach the submitter.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/portfolio/backend/internal/model"
	"github.com/portfolio/backend/pkg/emailjs"
)

// DefaultTimeout bounds a single notification attempt.
const DefaultTimeout = 15 * time.Second

// Notifier delivers one contact message.
type Notifier interface {
	Notify(ctx context.Context, msg model.ContactMessage) error
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(ctx context.Context, msg model.ContactMessage) error

func (f NotifierFunc) Notify(ctx context.Context, msg model.ContactMessage) error {
	return f(ctx, msg)
}

// Dispatcher runs a Notifier in the background, detached from the request
// that produced the message. Outcomes are only logged.
type Dispatcher struct {
	notifier Notifier
	timeout  time.Duration
	wg       sync.WaitGroup
}

// NewDispatcher returns a Dispatcher for n. A non-positive timeout selects
// DefaultTimeout.
func NewDispatcher(n Notifier, timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Dispatcher{notifier: n, timeout: timeout}
}

// Dispatch starts delivery of msg and returns immediately.
// A nil Dispatcher or one without a Notifier does nothing.
func (d *Dispatcher) Dispatch(msg model.ContactMessage) {
	if d == nil || d.notifier == nil {
		return
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				slog.Error("contact notification panicked", "id", msg.ID, "panic", fmt.Sprint(r))
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		start := time.Now()
		if err := d.notifier.Notify(ctx, msg); err != nil {
			slog.Warn("contact notification failed", "id", msg.ID, "error", err)
			return
		}
		slog.Info("contact notification sent", "id", msg.ID, "duration_ms", time.Since(start).Milliseconds())
	}()
}

// Wait blocks until every dispatched notification has finished.
func (d *Dispatcher) Wait() {
	if d == nil {
		return
	}
	d.wg.Wait()
}

// LogNotifier only records that a message arrived. It is the fallback when no
// mail transport is configured.
type LogNotifier struct{}

func (LogNotifier) Notify(_ context.Context, msg model.ContactMessage) error {
	slog.Info("contact message received; no mail transport configured", "id", msg.ID, "subject", msg.Subject)
	return nil
}

// Drivers accepted by New.
const (
	DriverAuto    = "auto"
	DriverEmailJS = "emailjs"
	DriverSMTP    = "smtp"
	DriverLog     = "log"
)

// Options selects and configures a Notifier.
type Options struct {
	Driver  string
	EmailJS emailjs.Config
	SMTP    SMTPConfig
}

// New builds the Notifier named by opts.Driver. The auto driver prefers
// EmailJS, then SMTP, then logging.
func New(opts Options) (Notifier, string, error) {
	driver := strings.ToLower(strings.TrimSpace(opts.Driver))
	if driver == "" || driver == DriverAuto {
		switch {
		case opts.EmailJS.Configured():
			driver = DriverEmailJS
		case opts.SMTP.Configured():
			driver = DriverSMTP
		default:
			driver = DriverLog
		}
	}

	switch driver {
	case DriverEmailJS:
		if !opts.EmailJS.Configured() {
			return nil, "", fmt.Errorf("notify: %w", emailjs.ErrNotConfigured)
		}
		return NewEmailJSNotifier(emailjs.NewClient(opts.EmailJS)), driver, nil
	case DriverSMTP:
		if !opts.SMTP.Configured() {
			return nil, "", ErrSMTPNotConfigured
		}
		return NewSMTPNotifier(opts.SMTP), driver, nil
	case DriverLog:
		return LogNotifier{}, driver, nil
	}
	return nil, "", fmt.Errorf("notify: unknown driver %q", opts.Driver)
}
