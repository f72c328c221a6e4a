package dispatchnode

import (
	"context"
	"fmt"
	"strings"
	"time"

	contractx "github.com/touchbase-labs/touchbase/assistant/contract"
	rankx "github.com/touchbase-labs/touchbase/assistant/rank"
	rosterx "github.com/touchbase-labs/touchbase/assistant/roster"
	statex "github.com/touchbase-labs/touchbase/assistant/state"
)

const dateLayout = "2006-01-02"

// DispatchIntent applies the resolved intent to the roster and the
// session. It re-reads both under the caller's lock so a stale snapshot
// from the resolve step can never leak into a write. Every branch
// touches at most one friend record and at most one session save, and
// no branch does both a contact log and a re-suggestion.
func DispatchIntent(ctx context.Context, in *ReplyState, sessions statex.Store, store rosterx.Store) (*ReplyState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: reply state is nil", contractx.ErrValidation)
	}
	if sessions == nil || store == nil {
		return nil, fmt.Errorf("%w: dispatch stores are nil", contractx.ErrValidation)
	}

	session, err := sessions.Load(ctx)
	if err != nil {
		return nil, err
	}
	friends, err := store.Friends(ctx)
	if err != nil {
		return nil, err
	}

	switch in.Intent.Action {
	case contractx.ActionLogSuggested, contractx.ActionLogOther:
		name := in.Intent.FriendName
		if in.Intent.Action == contractx.ActionLogSuggested && session.HasSuggestion() {
			name = session.LastSuggested
		}
		msg, err := logContact(ctx, store, friends, name, contactDate(in.Intent.Date, in.Now))
		if err != nil {
			return nil, err
		}
		in.Message = msg

	case contractx.ActionSkip, contractx.ActionGetNext:
		msg, err := advanceSuggestion(ctx, sessions, session, friends, in.Now)
		if err != nil {
			return nil, err
		}
		in.Message = msg

	default:
		return nil, fmt.Errorf("%w: unknown action %q", contractx.ErrSchemaViolation, in.Intent.Action)
	}

	return in, nil
}

// logContact stamps one friend's last-contact date. A name that matches
// nobody is a normal outcome, answered with an explanation and no write.
func logContact(ctx context.Context, store rosterx.Store, friends []rosterx.Friend, name string, when time.Time) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "I couldn't tell who you reached. Tell me the friend's name and I'll log it.", nil
	}

	var friend *rosterx.Friend
	for i := range friends {
		if friends[i].IsNamed(name) {
			friend = &friends[i]
			break
		}
	}
	if friend == nil {
		return fmt.Sprintf("I couldn't find %q in your friends list, so nothing was logged.", name), nil
	}

	patch := rosterx.FriendPatch{LastContact: when}
	if err := store.UpdateFriend(ctx, friend.Name, patch); err != nil {
		return "", err
	}
	return fmt.Sprintf("Logged your catch-up with %s on %s.", friend.Name, when.Format(dateLayout)), nil
}

// advanceSuggestion re-ranks within the group already being served,
// excluding the standing suggestion. The alternation flag stays put:
// skipping is a retry within the day's group, not a new day. When the
// group has nobody else, nothing is saved.
func advanceSuggestion(ctx context.Context, sessions statex.Store, session *statex.SessionState, friends []rosterx.Friend, now time.Time) (string, error) {
	pick, ok := rankx.Next(friends, session.MyLocation, session.LastServed, session.LastSuggested, now)
	if !ok {
		return fmt.Sprintf("No other %s friends to suggest right now.", session.LastServed), nil
	}

	session.LastSuggested = pick.Friend.Name
	if err := sessions.Save(ctx, session); err != nil {
		return "", err
	}
	return nextSuggestionLine(pick), nil
}

func nextSuggestionLine(pick rankx.Pick) string {
	switch {
	case pick.DaysSince.Never():
		return fmt.Sprintf("How about %s? You've never logged a catch-up with them.", pick.Friend.Name)
	case pick.DaysSince == 1:
		return fmt.Sprintf("How about %s? It's been 1 day since you last talked.", pick.Friend.Name)
	default:
		return fmt.Sprintf("How about %s? It's been %d days since you last talked.", pick.Friend.Name, int(pick.DaysSince))
	}
}

// contactDate falls back to today when the reply carried no date.
func contactDate(intentDate, now time.Time) time.Time {
	if !intentDate.IsZero() {
		return intentDate
	}
	u := now.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
