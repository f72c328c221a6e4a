package resolver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	contractx "github.com/touchbase-labs/touchbase/assistant/contract"
)

// intentLLMOutput is the raw schema the model must produce.
type intentLLMOutput struct {
	Action     string `json:"action"`
	FriendName string `json:"friend_name"`
	Date       string `json:"date"`
}

// ModelResolver classifies replies with a chat model behind a structured
// output graph. The model sees the reply plus the suggestion context and
// must answer with the intent JSON alone.
type ModelResolver struct {
	runner       compose.Runnable[map[string]any, intentLLMOutput]
	systemPrompt string
}

func NewModelResolver(ctx context.Context, chatModel einomodel.BaseChatModel, systemPrompt string) (*ModelResolver, error) {
	if chatModel == nil {
		return nil, fmt.Errorf("%w: chat model is nil", contractx.ErrValidation)
	}
	if strings.TrimSpace(systemPrompt) == "" {
		return nil, fmt.Errorf("%w: resolver prompt", contractx.ErrPromptMissing)
	}

	runner, err := compileIntentGraph(ctx, chatModel)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", contractx.ErrModelInvoke, err)
	}
	return &ModelResolver{runner: runner, systemPrompt: systemPrompt}, nil
}

func (r *ModelResolver) Resolve(ctx context.Context, req contractx.ResolveRequest) (contractx.Intent, error) {
	if strings.TrimSpace(req.Text) == "" {
		return contractx.Intent{}, fmt.Errorf("%w: reply text is empty", contractx.ErrValidation)
	}

	payload := map[string]any{
		"text":             req.Text,
		"suggested_friend": nil,
		"today":            req.Now.UTC().Format("2006-01-02"),
		"weekday":          req.Now.UTC().Weekday().String(),
	}
	if strings.TrimSpace(req.Suggested) != "" {
		payload["suggested_friend"] = req.Suggested
	}
	input, err := json.Marshal(payload)
	if err != nil {
		return contractx.Intent{}, fmt.Errorf("%w: marshal resolver payload: %v", contractx.ErrValidation, err)
	}

	out, err := r.runner.Invoke(ctx, map[string]any{
		"system_prompt": r.systemPrompt,
		"input":         string(input),
	})
	if err != nil {
		return contractx.Intent{}, fmt.Errorf("%w: resolver invoke: %v", contractx.ErrModelInvoke, err)
	}

	return intentFromLLM(out)
}

// intentFromLLM validates raw model output against the intent schema.
// Anything off-schema is an error; this layer never guesses.
func intentFromLLM(out intentLLMOutput) (contractx.Intent, error) {
	intent := contractx.Intent{
		Action:     contractx.Action(strings.ToLower(strings.TrimSpace(out.Action))),
		FriendName: cleanModelString(out.FriendName),
	}
	if err := intent.Validate(); err != nil {
		return contractx.Intent{}, err
	}

	if raw := cleanModelString(out.Date); raw != "" {
		d, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return contractx.Intent{}, fmt.Errorf("%w: bad date %q", contractx.ErrSchemaViolation, raw)
		}
		intent.Date = d
	}
	return intent, nil
}

// Models occasionally emit the literal "null" instead of a JSON null.
func cleanModelString(s string) string {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "null") {
		return ""
	}
	return s
}
