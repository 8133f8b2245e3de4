package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/portfolio/backend/internal/model"
	"github.com/portfolio/backend/internal/repository"
	"github.com/portfolio/backend/internal/validation"
)

// DefaultStoreTimeout bounds each store call made by the service.
const DefaultStoreTimeout = 10 * time.Second

// contactServiceImpl is the production implementation of ContactService.
type contactServiceImpl struct {
	repo       repository.ContactRepository
	dispatcher MessageDispatcher
	timeout    time.Duration
}

// NewContactService creates a ContactService backed by the given repository.
// dispatcher may be nil, in which case no notification is sent.
func NewContactService(repo repository.ContactRepository, dispatcher MessageDispatcher, timeout time.Duration) ContactService {
	if timeout <= 0 {
		timeout = DefaultStoreTimeout
	}
	return &contactServiceImpl{repo: repo, dispatcher: dispatcher, timeout: timeout}
}

// Submit runs the staged checks (required fields, email shape, full rules),
// persists the message, then dispatches the notification in the background.
func (s *contactServiceImpl) Submit(ctx context.Context, sub model.ContactSubmission) (model.ContactMessage, error) {
	if err := check(sub); err != nil {
		slog.Info("contact submission rejected", "reason", err.Reason, "fields", len(err.Fields))
		return model.ContactMessage{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	msg, err := s.repo.Create(ctx, sub)
	if err != nil {
		return model.ContactMessage{}, fmt.Errorf("create contact message: %w", err)
	}
	slog.Info("contact message stored", "id", msg.ID)

	if s.dispatcher != nil {
		s.dispatcher.Dispatch(msg)
	}
	return msg, nil
}

// List returns every stored message.
func (s *contactServiceImpl) List(ctx context.Context) ([]model.ContactMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	messages, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list contact messages: %w", err)
	}
	return messages, nil
}

func check(sub model.ContactSubmission) *RejectionError {
	if missing := validation.MissingFields(sub); len(missing) > 0 {
		fields := make(validation.Errors, 0, len(missing))
		for _, f := range missing {
			fields = append(fields, validation.FieldError{Field: f, Reason: "required"})
		}
		return &RejectionError{Reason: ReasonRequired, Fields: fields}
	}
	if !validation.ValidEmail(sub.Email) {
		return &RejectionError{
			Reason: ReasonInvalidEmail,
			Fields: validation.Errors{{Field: validation.FieldEmail, Reason: "Please enter a valid email address"}},
		}
	}
	if err := validation.Validate(sub); err != nil {
		fields, _ := err.(validation.Errors)
		return &RejectionError{Reason: ReasonInvalidForm, Fields: fields}
	}
	return nil
}
