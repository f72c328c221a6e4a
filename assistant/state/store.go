package state

import (
	"context"
	"errors"
	"fmt"
	"strings"

	rosterx "github.com/touchbase-labs/touchbase/assistant/roster"
)

// Store loads and saves the singleton session state.
type Store interface {
	Load(ctx context.Context) (*SessionState, error)
	Save(ctx context.Context, st *SessionState) error
}

// Cells is the slice of the roster store the session lives in.
type Cells interface {
	Scalar(ctx context.Context, cell rosterx.Cell) (string, error)
	SetScalars(ctx context.Context, values map[rosterx.Cell]string) error
}

var ErrLocationMissing = errors.New("my_location cell is not set")

// CellStore keeps the session in the roster's scalar cells, next to the
// friend rows the user already maintains.
type CellStore struct {
	cells Cells
}

func NewCellStore(cells Cells) *CellStore {
	return &CellStore{cells: cells}
}

// Load reads the three session cells. my_location must exist. A missing
// alternation cell defaults to non-local, so the first suggestion ever
// targets a local friend. A missing last_suggested means no active
// suggestion.
func (s *CellStore) Load(ctx context.Context) (*SessionState, error) {
	loc, err := s.cells.Scalar(ctx, rosterx.CellMyLocation)
	if err != nil {
		if errors.Is(err, rosterx.ErrCellNotFound) {
			return nil, ErrLocationMissing
		}
		return nil, fmt.Errorf("load my_location: %w", err)
	}
	if strings.TrimSpace(loc) == "" {
		return nil, ErrLocationMissing
	}

	st := &SessionState{
		MyLocation: strings.TrimSpace(loc),
		LastServed: CategoryNonLocal,
	}

	raw, err := s.cells.Scalar(ctx, rosterx.CellAlternation)
	switch {
	case err == nil:
		cat, perr := ParseCategory(raw)
		if perr != nil {
			return nil, perr
		}
		st.LastServed = cat
	case !errors.Is(err, rosterx.ErrCellNotFound):
		return nil, fmt.Errorf("load alternation: %w", err)
	}

	raw, err = s.cells.Scalar(ctx, rosterx.CellLastSuggested)
	switch {
	case err == nil:
		st.LastSuggested = strings.TrimSpace(raw)
	case !errors.Is(err, rosterx.ErrCellNotFound):
		return nil, fmt.Errorf("load last_suggested: %w", err)
	}

	return st, nil
}

// Save writes the assistant-owned cells in one batch, so alternation and
// last_suggested can never go out half-written. my_location is never
// written here.
func (s *CellStore) Save(ctx context.Context, st *SessionState) error {
	if st == nil {
		return errors.New("nil session state")
	}
	if err := st.Validate(); err != nil {
		return err
	}
	return s.cells.SetScalars(ctx, map[rosterx.Cell]string{
		rosterx.CellAlternation:   string(st.LastServed),
		rosterx.CellLastSuggested: st.LastSuggested,
	})
}
