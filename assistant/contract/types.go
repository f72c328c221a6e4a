package contract

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

type Action string

const (
	ActionLogSuggested Action = "log_suggested"
	ActionLogOther     Action = "log_other"
	ActionSkip         Action = "skip"
	ActionGetNext      Action = "get_next"
)

func (a Action) Valid() bool {
	switch a {
	case ActionLogSuggested, ActionLogOther, ActionSkip, ActionGetNext:
		return true
	}
	return false
}

type Intent struct {
	Action     Action    `json:"action"`
	FriendName string    `json:"friend_name,omitempty"`
	Date       time.Time `json:"date,omitempty"`
}

func (it Intent) Validate() error {
	if !it.Action.Valid() {
		return fmt.Errorf("%w: unknown action %q", ErrSchemaViolation, string(it.Action))
	}
	return nil
}

type ResolveRequest struct {
	Text      string    `json:"text"`
	Suggested string    `json:"suggested_friend,omitempty"`
	Now       time.Time `json:"now"`
}

// DaysSince counts whole days since the last logged contact.
// DaysSinceNever marks friends with no contact on record; it outranks
// every finite value and renders as "never" on the wire.
type DaysSince int

const DaysSinceNever DaysSince = -1

func (d DaysSince) Never() bool { return d < 0 }

// Older reports whether d ranks strictly before other.
func (d DaysSince) Older(other DaysSince) bool {
	if d.Never() {
		return !other.Never()
	}
	if other.Never() {
		return false
	}
	return d > other
}

func (d DaysSince) String() string {
	if d.Never() {
		return "never"
	}
	return strconv.Itoa(int(d))
}

func (d DaysSince) MarshalJSON() ([]byte, error) {
	if d.Never() {
		return []byte(`"never"`), nil
	}
	return json.Marshal(int(d))
}

type Suggestion struct {
	Name      string    `json:"name"`
	Location  string    `json:"location"`
	DaysSince DaysSince `json:"daysSince"`
	IsLocal   bool      `json:"isLocal"`
	Message   string    `json:"message"`
}

// SuggestionResult carries either a suggestion or, when the target group
// is empty, a standalone message. Never both.
type SuggestionResult struct {
	Suggestion *Suggestion
	Message    string
}
