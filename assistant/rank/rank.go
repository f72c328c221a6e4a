// Package rank orders roster friends by how overdue a contact is. It holds
// no state of its own; callers pass the rows and the clock.
package rank

import (
	"time"

	contractx "github.com/touchbase-labs/touchbase/assistant/contract"
	rosterx "github.com/touchbase-labs/touchbase/assistant/roster"
	statex "github.com/touchbase-labs/touchbase/assistant/state"
)

// Pick is one selected candidate with its computed staleness.
type Pick struct {
	Friend    rosterx.Friend
	DaysSince contractx.DaysSince
}

// Next returns the most-overdue friend in the target group, skipping the
// excluded name (empty excludes nobody). Friends with no contact on record
// always outrank dated ones; ties keep the store's row order. The second
// return is false when the group has no eligible member.
func Next(friends []rosterx.Friend, myLocation string, target statex.Category, exclude string, now time.Time) (Pick, bool) {
	var best Pick
	found := false
	for _, f := range friends {
		if !inGroup(f, myLocation, target) {
			continue
		}
		if exclude != "" && f.IsNamed(exclude) {
			continue
		}
		d := daysSince(now, f.LastContact)
		if !found || d.Older(best.DaysSince) {
			best = Pick{Friend: f, DaysSince: d}
			found = true
		}
	}
	return best, found
}

func inGroup(f rosterx.Friend, myLocation string, target statex.Category) bool {
	if target == statex.CategoryLocal {
		return f.LivesIn(myLocation)
	}
	return !f.LivesIn(myLocation)
}

// daysSince floors to whole days. Zero lastContact means never contacted.
func daysSince(now, lastContact time.Time) contractx.DaysSince {
	if lastContact.IsZero() {
		return contractx.DaysSinceNever
	}
	return contractx.DaysSince(now.UTC().Sub(lastContact.UTC()) / (24 * time.Hour))
}
