package dispatchnode

import (
	"context"
	"fmt"

	contractx "github.com/touchbase-labs/touchbase/assistant/contract"
)

// ResolveIntent turns the raw reply into a structured intent. This step
// runs outside the dispatcher lock because the resolver may block on a
// remote model call.
func ResolveIntent(ctx context.Context, in *ReplyState, resolver contractx.Resolver) (*ReplyState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: reply state is nil", contractx.ErrValidation)
	}
	if resolver == nil {
		return nil, fmt.Errorf("%w: resolver is nil", contractx.ErrValidation)
	}

	intent, err := resolver.Resolve(ctx, contractx.ResolveRequest{
		Text:      in.Text,
		Suggested: in.Suggested,
		Now:       in.Now,
	})
	if err != nil {
		return nil, err
	}

	in.Intent = intent
	return in, nil
}
