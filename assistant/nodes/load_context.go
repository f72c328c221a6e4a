package dispatchnode

import (
	"context"
	"fmt"

	contractx "github.com/touchbase-labs/touchbase/assistant/contract"
	statex "github.com/touchbase-labs/touchbase/assistant/state"
)

// LoadContext captures the standing suggestion so the resolver can tell
// a bare "yes" apart from a named report.
func LoadContext(ctx context.Context, in *ReplyState, sessions statex.Store) (*ReplyState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: reply state is nil", contractx.ErrValidation)
	}

	session, err := sessions.Load(ctx)
	if err != nil {
		return nil, err
	}

	in.Suggested = session.LastSuggested
	return in, nil
}
