package contract

import "context"

// Resolver turns a free-text user reply into a structured Intent. The
// request carries the context the classification needs: the currently
// suggested friend (if any) and the current time for resolving relative
// dates. Output that cannot be mapped onto the Intent schema is an error,
// never a guess.
type Resolver interface {
	Resolve(ctx context.Context, req ResolveRequest) (Intent, error)
}
