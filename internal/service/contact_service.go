package service

import (
	"context"

	"github.com/portfolio/backend/internal/model"
	"github.com/portfolio/backend/internal/validation"
)

// Reasons reported to the submitter when a contact submission is rejected.
const (
	ReasonRequired     = "All fields are required"
	ReasonInvalidEmail = "Invalid email format"
	ReasonInvalidForm  = "Invalid form data"
)

// RejectionError is returned by Submit when the submission fails validation.
// Reason is safe to show to the submitter.
type RejectionError struct {
	Reason string
	Fields validation.Errors
}

func (e *RejectionError) Error() string {
	return "contact submission rejected: " + e.Reason
}

// ContactService defines the business logic for contact form submissions.
type ContactService interface {
	// Submit validates sub, stores it, and schedules the owner notification.
	// Validation failures are returned as *RejectionError.
	Submit(ctx context.Context, sub model.ContactSubmission) (model.ContactMessage, error)

	// List returns every stored message in ascending id order.
	List(ctx context.Context) ([]model.ContactMessage, error)
}

// MessageDispatcher hands a stored message to the notification side channel
// without waiting for the outcome.
type MessageDispatcher interface {
	Dispatch(msg model.ContactMessage)
}
