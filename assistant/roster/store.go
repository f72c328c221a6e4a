package roster

import (
	"context"
	"errors"
	"time"
)

// Cell names a scalar value stored alongside the roster rows. The session
// cells are written by the assistant; my_location belongs to the user.
type Cell string

const (
	CellMyLocation    Cell = "my_location"
	CellAlternation   Cell = "alternation"
	CellLastSuggested Cell = "last_suggested"
)

var (
	ErrFriendNotFound = errors.New("friend not found")
	ErrCellNotFound   = errors.New("cell not found")
)

// FriendPatch carries the mutable fields of a friend row.
type FriendPatch struct {
	LastContact time.Time
}

// Store is the roster collaborator: friend rows plus named scalar cells.
// The store itself gives no transactional isolation across calls; callers
// serialize read-modify-write sequences themselves.
type Store interface {
	// Friends returns every row in stable store order.
	Friends(ctx context.Context) ([]Friend, error)
	// UpdateFriend patches the row whose stored name matches exactly.
	// Returns ErrFriendNotFound when no such row exists.
	UpdateFriend(ctx context.Context, name string, patch FriendPatch) error
	// Scalar reads one named cell. Returns ErrCellNotFound when the cell
	// has never been written.
	Scalar(ctx context.Context, cell Cell) (string, error)
	// SetScalars writes the given cells in one transaction, so cells that
	// change together are never half-written.
	SetScalars(ctx context.Context, values map[Cell]string) error
	Close() error
}
