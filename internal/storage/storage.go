// Package storage defines the contract between the HTTP layer and the data
// store. Handlers depend only on this interface, so tests can hand them a
// fake and main can pick MySQL or SQLite without touching handler code.
package storage

import (
	"context"
	"errors"

	"github.com/aanand-mishra/students-registration/internal/types"
)

// ErrUnavailable is returned (wrapped) when the data store cannot be
// reached at all, as opposed to rejecting a statement.
var ErrUnavailable = errors.New("storage unavailable")

// Storage is implemented by every data store backend.
type Storage interface {
	// CreateStudent inserts student as a new row. Any ID already set on
	// student is ignored; on success student.ID holds the assigned key.
	CreateStudent(ctx context.Context, student *types.Student) error

	// ListStudents returns every stored student in the store's default
	// scan order. The result is never nil.
	ListStudents(ctx context.Context) ([]types.Student, error)

	// Ping reports whether the data store is reachable.
	Ping(ctx context.Context) error

	// Close releases the connection pool.
	Close() error
}
