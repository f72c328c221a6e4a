package roster

import (
	"strings"
	"time"
)

// Friend is one row of the contact roster. Name is the unique key. Rows
// are created and deleted by the user directly in the store; the assistant
// only stamps LastContact when a contact is logged. A zero LastContact
// means no contact on record.
type Friend struct {
	Name        string
	Location    string
	LastContact time.Time
}

// IsNamed reports whether name refers to this friend, ignoring case and
// surrounding whitespace.
func (f Friend) IsNamed(name string) bool {
	return strings.EqualFold(strings.TrimSpace(f.Name), strings.TrimSpace(name))
}

// LivesIn reports whether the friend's location matches loc, ignoring
// case and surrounding whitespace. Roster data is user-maintained, so
// "nyc" and "NYC " are the same place.
func (f Friend) LivesIn(loc string) bool {
	return strings.EqualFold(strings.TrimSpace(f.Location), strings.TrimSpace(loc))
}
