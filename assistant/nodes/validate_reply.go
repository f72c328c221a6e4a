package dispatchnode

import (
	"errors"
	"strings"
	"time"

	contractx "github.com/touchbase-labs/touchbase/assistant/contract"
)

var ErrInvalidMessage = errors.New("message is empty")

type ReplyInput struct {
	Text string
}

type ReplyOutput struct {
	Reply string
}

// ReplyState flows through the reply pipeline. Suggested is the snapshot
// taken for the resolver context; the dispatch step re-reads the session
// under the lock rather than trusting this snapshot.
type ReplyState struct {
	Text string
	Now  time.Time

	Suggested string
	Intent    contractx.Intent

	Message string
}

func ValidateReply(in ReplyInput, nowFn func() time.Time) (*ReplyState, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, ErrInvalidMessage
	}

	return &ReplyState{
		Text: text,
		Now:  nowFn().UTC(),
	}, nil
}
