package resolver

import (
	"context"
	"fmt"
	"strings"

	contractx "github.com/touchbase-labs/touchbase/assistant/contract"
	promptx "github.com/touchbase-labs/touchbase/assistant/prompt"
	openrouterx "github.com/touchbase-labs/touchbase/pkg/openrouter"
)

const (
	ModeLLM   = "llm"
	ModeRules = "rules"
)

// New builds the configured Resolver implementation. ModeLLM classifies
// with a chat model through OpenRouter; ModeRules is the deterministic
// offline classifier. Both honor the same intent contract.
func New(ctx context.Context, mode string, llmCfg openrouterx.Config) (contractx.Resolver, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", ModeLLM:
		chatModel, err := llmCfg.New(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: create resolver model: %v", contractx.ErrModelInvoke, err)
		}
		return NewModelResolver(ctx, chatModel, promptx.LoadPromptSet().Resolver)
	case ModeRules:
		return NewRulesResolver(), nil
	}
	return nil, fmt.Errorf("unknown resolver mode %q", mode)
}
