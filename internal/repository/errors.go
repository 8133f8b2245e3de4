package repository

import "errors"

// ErrInvalidSubmission is returned when a store is asked to persist a
// submission that fails the contact form rules.
var ErrInvalidSubmission = errors.New("invalid contact submission")

// ErrUnsupportedDatabaseURL is returned by Open for connection strings whose
// scheme has no matching store.
var ErrUnsupportedDatabaseURL = errors.New("unsupported database url")
