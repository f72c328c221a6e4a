package state

import (
	"errors"
	"fmt"
	"strings"
)

// Category splits the roster into the two alternation groups.
type Category string

const (
	CategoryLocal    Category = "local"
	CategoryNonLocal Category = "non-local"
)

var ErrBadCategory = errors.New("unknown alternation category")

func ParseCategory(s string) (Category, error) {
	switch Category(strings.ToLower(strings.TrimSpace(s))) {
	case CategoryLocal:
		return CategoryLocal, nil
	case CategoryNonLocal:
		return CategoryNonLocal, nil
	}
	return "", fmt.Errorf("%w: %q", ErrBadCategory, s)
}

// Other returns the opposite group.
func (c Category) Other() Category {
	if c == CategoryLocal {
		return CategoryNonLocal
	}
	return CategoryLocal
}

// SessionState is the persistent control state of the assistant. There is
// exactly one session, and it carries nothing beyond these fields, so a
// restarted process resumes exactly where the previous one stopped.
type SessionState struct {
	// MyLocation is user-owned; the assistant only reads it.
	MyLocation string

	// LastServed is the group of the most recent successfully served
	// suggestion. The next daily suggestion targets the opposite group.
	LastServed Category

	// LastSuggested is the friend a bare "yes" refers to. Empty when no
	// suggestion is active.
	LastSuggested string
}

// NextTarget is the alternation decision: the negation of the last served
// group. It takes effect only when the caller persists the state with
// LastServed set to it; until then the decision is uncommitted.
func (s *SessionState) NextTarget() Category {
	return s.LastServed.Other()
}

func (s *SessionState) HasSuggestion() bool {
	return s != nil && strings.TrimSpace(s.LastSuggested) != ""
}

func (s *SessionState) Validate() error {
	if strings.TrimSpace(s.MyLocation) == "" {
		return errors.New("my location is empty")
	}
	if _, err := ParseCategory(string(s.LastServed)); err != nil {
		return err
	}
	return nil
}
