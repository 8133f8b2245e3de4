package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/portfolio/backend/internal/model"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS contact_messages (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	name       TEXT NOT NULL,
	email      TEXT NOT NULL,
	subject    TEXT NOT NULL,
	message    TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL
)`

// SQLiteContactRepository stores messages in a single SQLite file.
// AUTOINCREMENT keeps ids from being reused.
type SQLiteContactRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

var _ ContactRepository = (*SQLiteContactRepository)(nil)

// OpenSQLiteContactRepository opens (or creates) the database at path and
// ensures the contact_messages table exists.
func OpenSQLiteContactRepository(ctx context.Context, path string) (*SQLiteContactRepository, error) {
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// SQLite allows one writer; a single connection serialises inserts.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create contact_messages: %w", err)
	}
	return &SQLiteContactRepository{db: db, now: time.Now}, nil
}

func (r *SQLiteContactRepository) Create(ctx context.Context, sub model.ContactSubmission) (model.ContactMessage, error) {
	if err := checkSubmission(sub); err != nil {
		return model.ContactMessage{}, err
	}

	msg := model.ContactMessage{
		Name:      sub.Name,
		Email:     sub.Email,
		Subject:   sub.Subject,
		Message:   sub.Message,
		CreatedAt: r.now().UTC(),
	}
	res, err := r.db.NamedExecContext(ctx,
		`INSERT INTO contact_messages (name, email, subject, message, created_at)
		 VALUES (:name, :email, :subject, :message, :created_at)`, msg)
	if err != nil {
		return model.ContactMessage{}, err
	}
	if msg.ID, err = res.LastInsertId(); err != nil {
		return model.ContactMessage{}, err
	}
	return msg, nil
}

func (r *SQLiteContactRepository) ListAll(ctx context.Context) ([]model.ContactMessage, error) {
	messages := []model.ContactMessage{}
	err := r.db.SelectContext(ctx, &messages,
		`SELECT id, name, email, subject, message, created_at
		 FROM contact_messages
		 ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	for i := range messages {
		messages[i].CreatedAt = messages[i].CreatedAt.UTC()
	}
	return messages, nil
}

func (r *SQLiteContactRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteContactRepository) Close() error {
	return r.db.Close()
}
