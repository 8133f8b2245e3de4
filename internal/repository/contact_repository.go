package repository

import (
	"context"
	"fmt"

	"github.com/portfolio/backend/internal/model"
	"github.com/portfolio/backend/internal/validation"
)

// DB は DB 接続の生存確認を行うインターフェース
type DB interface {
	Ping(ctx context.Context) error
}

// ContactRepository persists accepted contact messages. Implementations are
// the only writers of the message collection.
type ContactRepository interface {
	DB

	// Create stores sub and returns it with the next id and a creation
	// timestamp. Ids start at 1 and are never reused.
	Create(ctx context.Context, sub model.ContactSubmission) (model.ContactMessage, error)

	// ListAll returns every stored message in ascending id order.
	ListAll(ctx context.Context) ([]model.ContactMessage, error)

	Close() error
}

func checkSubmission(sub model.ContactSubmission) error {
	if err := validation.Validate(sub); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSubmission, err)
	}
	return nil
}
