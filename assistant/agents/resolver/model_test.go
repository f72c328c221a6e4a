package resolver

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	contractx "github.com/touchbase-labs/touchbase/assistant/contract"
)

type fakeChatModel struct {
	responses []*schema.Message
	err       error
	idx       int
	inputs    [][]*schema.Message
}

func (f *fakeChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.Message, error) {
	f.inputs = append(f.inputs, input)
	if f.err != nil {
		return nil, f.err
	}
	if f.idx >= len(f.responses) {
		return nil, errors.New("no fake response left")
	}
	msg := f.responses[f.idx]
	f.idx++
	return msg, nil
}

func (f *fakeChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("stream not implemented in fake model")
}

func (f *fakeChatModel) WithTools(tools []*schema.ToolInfo) (einomodel.ToolCallingChatModel, error) {
	return f, nil
}

var testNow = time.Date(2026, 8, 23, 9, 30, 0, 0, time.UTC)

func newTestModelResolver(t *testing.T, fake *fakeChatModel) *ModelResolver {
	t.Helper()
	r, err := NewModelResolver(context.Background(), fake, "resolver prompt")
	if err != nil {
		t.Fatalf("NewModelResolver() error = %v", err)
	}
	return r
}

func TestModelResolveFullIntent(t *testing.T) {
	t.Parallel()

	fake := &fakeChatModel{responses: []*schema.Message{
		{Content: `{"action":"log_other","friend_name":"Sarah","date":"2026-08-22"}`},
	}}
	r := newTestModelResolver(t, fake)

	intent, err := r.Resolve(context.Background(), contractx.ResolveRequest{
		Text: "I texted Sarah yesterday", Suggested: "Bob", Now: testNow,
	})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if intent.Action != contractx.ActionLogOther {
		t.Errorf("action = %s", intent.Action)
	}
	if intent.FriendName != "Sarah" {
		t.Errorf("friend = %q", intent.FriendName)
	}
	want := time.Date(2026, 8, 22, 0, 0, 0, 0, time.UTC)
	if !intent.Date.Equal(want) {
		t.Errorf("date = %v, want %v", intent.Date, want)
	}
}

func TestModelResolveNullFields(t *testing.T) {
	t.Parallel()

	fake := &fakeChatModel{responses: []*schema.Message{
		{Content: `{"action":"log_suggested","friend_name":null,"date":null}`},
	}}
	r := newTestModelResolver(t, fake)

	intent, err := r.Resolve(context.Background(), contractx.ResolveRequest{
		Text: "yes", Suggested: "Bob", Now: testNow,
	})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if intent.Action != contractx.ActionLogSuggested {
		t.Errorf("action = %s", intent.Action)
	}
	if intent.FriendName != "" || !intent.Date.IsZero() {
		t.Errorf("null fields should stay empty, got %+v", intent)
	}
}

func TestModelResolveContextReachesModel(t *testing.T) {
	t.Parallel()

	fake := &fakeChatModel{responses: []*schema.Message{
		{Content: `{"action":"skip","friend_name":null,"date":null}`},
	}}
	r := newTestModelResolver(t, fake)

	_, err := r.Resolve(context.Background(), contractx.ResolveRequest{
		Text: "skip", Suggested: "Bob", Now: testNow,
	})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if len(fake.inputs) != 1 {
		t.Fatalf("expected one model call, got %d", len(fake.inputs))
	}

	var system, user string
	for _, msg := range fake.inputs[0] {
		switch msg.Role {
		case schema.System:
			system = msg.Content
		case schema.User:
			user = msg.Content
		}
	}
	if system != "resolver prompt" {
		t.Errorf("system prompt = %q", system)
	}
	for _, want := range []string{`"suggested_friend":"Bob"`, `"today":"2026-08-23"`, `"weekday":"Sunday"`, `"text":"skip"`} {
		if !strings.Contains(user, want) {
			t.Errorf("user payload missing %s: %s", want, user)
		}
	}
}

func TestModelResolveRejectsUnknownAction(t *testing.T) {
	t.Parallel()

	fake := &fakeChatModel{responses: []*schema.Message{
		{Content: `{"action":"remind_me","friend_name":null,"date":null}`},
	}}
	r := newTestModelResolver(t, fake)

	_, err := r.Resolve(context.Background(), contractx.ResolveRequest{Text: "hm", Now: testNow})
	if !errors.Is(err, contractx.ErrSchemaViolation) {
		t.Errorf("expected ErrSchemaViolation, got %v", err)
	}
}

func TestModelResolveRejectsBadDate(t *testing.T) {
	t.Parallel()

	fake := &fakeChatModel{responses: []*schema.Message{
		{Content: `{"action":"log_other","friend_name":"Sam","date":"last week"}`},
	}}
	r := newTestModelResolver(t, fake)

	_, err := r.Resolve(context.Background(), contractx.ResolveRequest{Text: "saw Sam", Now: testNow})
	if !errors.Is(err, contractx.ErrSchemaViolation) {
		t.Errorf("expected ErrSchemaViolation, got %v", err)
	}
}

func TestModelResolveModelFailure(t *testing.T) {
	t.Parallel()

	fake := &fakeChatModel{err: errors.New("upstream 502")}
	r := newTestModelResolver(t, fake)

	_, err := r.Resolve(context.Background(), contractx.ResolveRequest{Text: "yes", Now: testNow})
	if !errors.Is(err, contractx.ErrModelInvoke) {
		t.Errorf("expected ErrModelInvoke, got %v", err)
	}
}

func TestModelResolveEmptyText(t *testing.T) {
	t.Parallel()

	r := newTestModelResolver(t, &fakeChatModel{})
	_, err := r.Resolve(context.Background(), contractx.ResolveRequest{Text: "   ", Now: testNow})
	if !errors.Is(err, contractx.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestNewModelResolverRequiresPrompt(t *testing.T) {
	t.Parallel()

	_, err := NewModelResolver(context.Background(), &fakeChatModel{}, "  ")
	if !errors.Is(err, contractx.ErrPromptMissing) {
		t.Errorf("expected ErrPromptMissing, got %v", err)
	}
}
