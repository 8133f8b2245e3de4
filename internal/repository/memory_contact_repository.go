package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/portfolio/backend/internal/model"
)

// MemoryContactRepository keeps messages in process memory. Contents are lost
// on restart; it is used when no DATABASE_URL is configured.
type MemoryContactRepository struct {
	mu       sync.RWMutex
	nextID   int64
	messages map[int64]model.ContactMessage
	now      func() time.Time
}

// NewMemoryContactRepository returns an empty store whose first id is 1.
func NewMemoryContactRepository() *MemoryContactRepository {
	return &MemoryContactRepository{
		nextID:   1,
		messages: make(map[int64]model.ContactMessage),
		now:      time.Now,
	}
}

var _ ContactRepository = (*MemoryContactRepository)(nil)

// Create assigns the id and timestamp inside the same critical section as the
// insert, so concurrent callers never share an id.
func (r *MemoryContactRepository) Create(_ context.Context, sub model.ContactSubmission) (model.ContactMessage, error) {
	if err := checkSubmission(sub); err != nil {
		return model.ContactMessage{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	msg := model.ContactMessage{
		ID:        r.nextID,
		Name:      sub.Name,
		Email:     sub.Email,
		Subject:   sub.Subject,
		Message:   sub.Message,
		CreatedAt: r.now().UTC(),
	}
	r.messages[msg.ID] = msg
	r.nextID++
	return msg, nil
}

func (r *MemoryContactRepository) ListAll(_ context.Context) ([]model.ContactMessage, error) {
	r.mu.RLock()
	out := make([]model.ContactMessage, 0, len(r.messages))
	for _, m := range r.messages {
		out = append(out, m)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MemoryContactRepository) Ping(context.Context) error { return nil }

func (r *MemoryContactRepository) Close() error { return nil }
