package contactclient

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/portfolio/backend/internal/model"
	"github.com/portfolio/backend/internal/validation"
)

// FallbackErrorMessage is shown when a failure carries no server message.
const FallbackErrorMessage = "There was a problem sending your message. Please try again."

const (
	// DefaultResetDelay is how long a success stays visible before the form
	// is cleared.
	DefaultResetDelay = time.Second

	DefaultNotifyTimeout = 15 * time.Second
)

// State is the controller's position in the submit lifecycle.
type State int

const (
	Idle State = iota
	Submitting
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Submitting:
		return "submitting"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Submitter sends a submission to the API. *Client implements it.
type Submitter interface {
	Submit(ctx context.Context, sub model.ContactSubmission) (model.ContactMessage, error)
}

// Notifier delivers the owner notification after a successful submit.
type Notifier interface {
	Notify(ctx context.Context, msg model.ContactMessage) error
}

// Result describes the outcome of one Submit call.
type Result struct {
	// Inert is true when the call did nothing because the form was invalid
	// or another submission was in flight.
	Inert        bool
	State        State
	Message      model.ContactMessage
	ErrorMessage string
	Err          error
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithNotifier sets the notifier run after each successful submit.
func WithNotifier(n Notifier) ControllerOption {
	return func(c *Controller) { c.notifier = n }
}

func WithNotifyTimeout(d time.Duration) ControllerOption {
	return func(c *Controller) { c.notifyTimeout = d }
}

// WithResetDelay overrides DefaultResetDelay. Zero resets immediately.
func WithResetDelay(d time.Duration) ControllerOption {
	return func(c *Controller) { c.resetDelay = d }
}

// WithOnChange registers fn to be called after every state transition.
func WithOnChange(fn func(State)) ControllerOption {
	return func(c *Controller) { c.onChange = fn }
}

// Controller holds a contact form and runs it through
// Idle → Submitting → Succeeded/Failed. It is safe for concurrent use.
type Controller struct {
	submitter     Submitter
	notifier      Notifier
	notifyTimeout time.Duration
	resetDelay    time.Duration
	onChange      func(State)

	mu       sync.Mutex
	form     model.ContactSubmission
	state    State
	errMsg   string
	lastSent model.ContactMessage

	wg sync.WaitGroup
}

func NewController(s Submitter, opts ...ControllerOption) *Controller {
	c := &Controller{
		submitter:     s,
		notifyTimeout: DefaultNotifyTimeout,
		resetDelay:    DefaultResetDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetField updates one form field. Unknown field names are ignored and
// reported as false.
func (c *Controller) SetField(field, value string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch field {
	case validation.FieldName:
		c.form.Name = value
	case validation.FieldEmail:
		c.form.Email = value
	case validation.FieldSubject:
		c.form.Subject = value
	case validation.FieldMessage:
		c.form.Message = value
	default:
		return false
	}
	return true
}

func (c *Controller) Form() model.ContactSubmission {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.form
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// ErrorMessage is the message to show while Failed, otherwise "".
func (c *Controller) ErrorMessage() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errMsg
}

// FieldErrors lists every validation problem with the current form.
func (c *Controller) FieldErrors() validation.Errors {
	return fieldErrors(c.Form())
}

// CanSubmit reports whether Submit would send. It is false while a
// submission is in flight or its success is still showing.
func (c *Controller) CanSubmit() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.canSubmitLocked()
}

func (c *Controller) canSubmitLocked() bool {
	if c.state == Submitting || c.state == Succeeded {
		return false
	}
	return len(fieldErrors(c.form)) == 0
}

// Submit sends the form. It blocks until the API answers; the notifier and
// the form reset run in the background.
func (c *Controller) Submit(ctx context.Context) Result {
	c.mu.Lock()
	if !c.canSubmitLocked() {
		st := c.state
		c.mu.Unlock()
		return Result{Inert: true, State: st}
	}
	sub := c.form
	c.state = Submitting
	c.errMsg = ""
	c.mu.Unlock()
	c.changed(Submitting)

	msg, err := c.submitter.Submit(ctx, sub)
	if err != nil {
		text := FallbackErrorMessage
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			text = apiErr.Message
		}
		slog.Warn("contact submit failed", "error", err)

		c.mu.Lock()
		c.state = Failed
		c.errMsg = text
		c.mu.Unlock()
		c.changed(Failed)
		return Result{State: Failed, ErrorMessage: text, Err: err}
	}

	c.mu.Lock()
	c.state = Succeeded
	c.lastSent = msg
	c.mu.Unlock()
	c.changed(Succeeded)

	c.notify(msg)
	c.scheduleReset()
	return Result{State: Succeeded, Message: msg}
}

// Acknowledge dismisses a failure and returns to Idle with the form intact.
func (c *Controller) Acknowledge() {
	c.mu.Lock()
	if c.state != Failed {
		c.mu.Unlock()
		return
	}
	c.state = Idle
	c.errMsg = ""
	c.mu.Unlock()
	c.changed(Idle)
}

// Wait blocks until pending notifications and the form reset have run.
func (c *Controller) Wait() {
	c.wg.Wait()
}

func (c *Controller) notify(msg model.ContactMessage) {
	if c.notifier == nil {
		return
	}
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), c.notifyTimeout)
		defer cancel()
		if err := c.notifier.Notify(ctx, msg); err != nil {
			slog.Warn("client notification failed", "id", msg.ID, "error", err)
			return
		}
		slog.Debug("client notification sent", "id", msg.ID)
	}()
}

func (c *Controller) scheduleReset() {
	c.wg.Add(1)
	time.AfterFunc(c.resetDelay, func() {
		defer c.wg.Done()
		c.mu.Lock()
		if c.state != Succeeded {
			c.mu.Unlock()
			return
		}
		c.form = model.ContactSubmission{}
		c.state = Idle
		c.mu.Unlock()
		c.changed(Idle)
	})
}

func (c *Controller) changed(s State) {
	if c.onChange != nil {
		c.onChange(s)
	}
}

func fieldErrors(sub model.ContactSubmission) validation.Errors {
	err := validation.Validate(sub)
	if err == nil {
		return nil
	}
	var errs validation.Errors
	if errors.As(err, &errs) {
		return errs
	}
	return validation.Errors{{Reason: err.Error()}}
}
