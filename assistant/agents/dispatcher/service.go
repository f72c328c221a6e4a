// Package dispatcher owns the two operations the assistant exposes: the
// daily suggestion and the free-text reply pipeline. All roster and
// session writes funnel through one process-wide mutex so concurrent
// requests see read-modify-write as atomic.
package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cloudwego/eino/compose"
	contractx "github.com/touchbase-labs/touchbase/assistant/contract"
	nodex "github.com/touchbase-labs/touchbase/assistant/nodes"
	rankx "github.com/touchbase-labs/touchbase/assistant/rank"
	rosterx "github.com/touchbase-labs/touchbase/assistant/roster"
	statex "github.com/touchbase-labs/touchbase/assistant/state"
)

var ErrInvalidMessage = nodex.ErrInvalidMessage

type Dispatcher struct {
	store    rosterx.Store
	sessions statex.Store
	resolver contractx.Resolver

	replyRunner compose.Runnable[nodex.ReplyInput, nodex.ReplyOutput]

	// mu serializes every session and roster mutation. The resolver call
	// happens outside it, so a slow model never blocks other requests.
	mu sync.Mutex

	now func() time.Time
}

func New(store rosterx.Store, sessions statex.Store, resolver contractx.Resolver) (*Dispatcher, error) {
	if store == nil {
		return nil, errors.New("roster store is required")
	}
	if sessions == nil {
		return nil, errors.New("session store is required")
	}
	if resolver == nil {
		return nil, errors.New("resolver is required")
	}

	d := &Dispatcher{
		store:    store,
		sessions: sessions,
		resolver: resolver,
		now:      time.Now,
	}

	replyRunner, err := d.compileProcessReplyGraph(context.Background())
	if err != nil {
		return nil, err
	}
	d.replyRunner = replyRunner

	return d, nil
}

// ProcessReply runs one free-text reply through the pipeline and returns
// the assistant's answer.
func (d *Dispatcher) ProcessReply(ctx context.Context, text string) (string, error) {
	out, err := d.replyRunner.Invoke(ctx, nodex.ReplyInput{Text: text})
	if err != nil {
		return "", err
	}
	return out.Reply, nil
}

// DailySuggestion serves the next friend to reach out to. The target
// group is the opposite of the one served last time, and the flip is
// committed in the same save that records the new suggestion, so a crash
// between calls can never skip or repeat a group. An empty target group
// is a normal outcome and leaves the session untouched.
func (d *Dispatcher) DailySuggestion(ctx context.Context) (contractx.SuggestionResult, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	session, err := d.sessions.Load(ctx)
	if err != nil {
		return contractx.SuggestionResult{}, err
	}
	friends, err := d.store.Friends(ctx)
	if err != nil {
		return contractx.SuggestionResult{}, err
	}

	target := session.NextTarget()
	pick, ok := rankx.Next(friends, session.MyLocation, target, "", d.now().UTC())
	if !ok {
		return contractx.SuggestionResult{
			Message: fmt.Sprintf("No %s friends to suggest today.", target),
		}, nil
	}

	session.LastServed = target
	session.LastSuggested = pick.Friend.Name
	if err := d.sessions.Save(ctx, session); err != nil {
		return contractx.SuggestionResult{}, err
	}

	suggestion := &contractx.Suggestion{
		Name:      pick.Friend.Name,
		Location:  pick.Friend.Location,
		DaysSince: pick.DaysSince,
		IsLocal:   target == statex.CategoryLocal,
		Message:   dailyLine(pick),
	}
	return contractx.SuggestionResult{
		Suggestion: suggestion,
		Message:    suggestion.Message,
	}, nil
}

func dailyLine(pick rankx.Pick) string {
	switch {
	case pick.DaysSince.Never():
		return fmt.Sprintf("You've never logged a catch-up with %s. Time to reach out!", pick.Friend.Name)
	case pick.DaysSince == 1:
		return fmt.Sprintf("It's been 1 day since you talked to %s. Time to reach out!", pick.Friend.Name)
	default:
		return fmt.Sprintf("It's been %d days since you talked to %s. Time to reach out!", int(pick.DaysSince), pick.Friend.Name)
	}
}
