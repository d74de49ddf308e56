package userdata

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrNotFound indicates no record exists for the requested key.
var ErrNotFound = errors.New("user data not found")

// Repo is the storage contract for per-user JSON blobs. Implementations
// propagate store errors verbatim and never retry.
type Repo interface {
	// Save upserts by (email, serial) and reports whether the row was
	// inserted or updated.
	Save(ctx context.Context, email string, serial int, data json.RawMessage) (operation string, err error)
	// Get returns all records for the email ordered by serial ascending,
	// or ErrNotFound if none exist.
	Get(ctx context.Context, email string) ([]Record, error)
	// Delete removes the record for (email, serial), or returns ErrNotFound
	// if the key does not exist.
	Delete(ctx context.Context, email string, serial int) error
}
