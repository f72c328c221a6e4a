package dispatcher

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"
	nodex "github.com/touchbase-labs/touchbase/assistant/nodes"
)

func (d *Dispatcher) compileProcessReplyGraph(
	ctx context.Context,
) (compose.Runnable[nodex.ReplyInput, nodex.ReplyOutput], error) {
	graph := compose.NewGraph[nodex.ReplyInput, nodex.ReplyOutput]()

	if err := graph.AddLambdaNode("validate_reply",
		compose.InvokableLambda(func(ctx context.Context, in nodex.ReplyInput) (*nodex.ReplyState, error) {
			return nodex.ValidateReply(in, d.now)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node validate_reply: %w", err)
	}

	if err := graph.AddLambdaNode("load_context",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.ReplyState) (*nodex.ReplyState, error) {
			d.mu.Lock()
			defer d.mu.Unlock()
			return nodex.LoadContext(ctx, in, d.sessions)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node load_context: %w", err)
	}

	// No lock here. The resolver may sit on a network call for seconds;
	// dispatch_intent re-reads everything under the lock before writing.
	if err := graph.AddLambdaNode("resolve_intent",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.ReplyState) (*nodex.ReplyState, error) {
			return nodex.ResolveIntent(ctx, in, d.resolver)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node resolve_intent: %w", err)
	}

	if err := graph.AddLambdaNode("dispatch_intent",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.ReplyState) (*nodex.ReplyState, error) {
			d.mu.Lock()
			defer d.mu.Unlock()
			return nodex.DispatchIntent(ctx, in, d.sessions, d.store)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node dispatch_intent: %w", err)
	}

	if err := graph.AddLambdaNode("finalize_reply",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.ReplyState) (nodex.ReplyOutput, error) {
			return nodex.FinalizeReply(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node finalize_reply: %w", err)
	}

	edges := [][2]string{
		{compose.START, "validate_reply"},
		{"validate_reply", "load_context"},
		{"load_context", "resolve_intent"},
		{"resolve_intent", "dispatch_intent"},
		{"dispatch_intent", "finalize_reply"},
		{"finalize_reply", compose.END},
	}

	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("dispatcher.process_reply"))
	if err != nil {
		return nil, fmt.Errorf("compile dispatcher graph: %w", err)
	}
	return runner, nil
}
