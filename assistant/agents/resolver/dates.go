package resolver

import (
	"strings"
	"time"
)

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"sun":       time.Sunday,
	"monday":    time.Monday,
	"mon":       time.Monday,
	"tuesday":   time.Tuesday,
	"tue":       time.Tuesday,
	"tues":      time.Tuesday,
	"wednesday": time.Wednesday,
	"wed":       time.Wednesday,
	"thursday":  time.Thursday,
	"thu":       time.Thursday,
	"thurs":     time.Thursday,
	"friday":    time.Friday,
	"fri":       time.Friday,
	"saturday":  time.Saturday,
	"sat":       time.Saturday,
}

// resolveDatePhrase maps a date phrase onto a calendar day: "today",
// "yesterday", an explicit YYYY-MM-DD, or a weekday name meaning the most
// recent such day strictly before today. "on" and "last" prefixes are
// accepted.
func resolveDatePhrase(phrase string, now time.Time) (time.Time, bool) {
	p := strings.ToLower(strings.TrimSpace(phrase))
	p = strings.TrimPrefix(p, "on ")
	p = strings.TrimPrefix(p, "last ")
	p = strings.TrimSpace(p)
	if p == "" {
		return time.Time{}, false
	}

	today := truncateToDay(now)
	switch p {
	case "today":
		return today, true
	case "yesterday":
		return today.AddDate(0, 0, -1), true
	}

	if wd, ok := weekdayNames[p]; ok {
		delta := int(today.Weekday() - wd)
		if delta <= 0 {
			delta += 7
		}
		return today.AddDate(0, 0, -delta), true
	}

	if d, err := time.Parse("2006-01-02", p); err == nil {
		return d, true
	}
	return time.Time{}, false
}

// splitTrailingDate peels a date phrase off the end of s, longest suffix
// first so "last tuesday" wins over "tuesday".
func splitTrailingDate(s string, now time.Time) (rest string, when time.Time) {
	words := strings.Fields(s)
	for n := min(3, len(words)); n >= 1; n-- {
		phrase := strings.Join(words[len(words)-n:], " ")
		if d, ok := resolveDatePhrase(phrase, now); ok {
			return strings.TrimSpace(strings.Join(words[:len(words)-n], " ")), d
		}
	}
	return strings.TrimSpace(s), time.Time{}
}

func truncateToDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
