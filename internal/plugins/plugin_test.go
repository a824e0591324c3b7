package plugins

import (
	"context"
	"testing"
)

// fakeBus is a minimal HookBus a test host would implement: record what
// got registered and let the test invoke it directly.
type fakeBus struct {
	registrations []HookRegistration
}

type HookRegistration struct {
	PluginID string
	HookName HookName
	Handler  HookHandler
	Priority int
}

func (b *fakeBus) Register(pluginID string, hookName HookName, handler HookHandler, priority int) {
	b.registrations = append(b.registrations, HookRegistration{pluginID, hookName, handler, priority})
}

func TestHookBus_RegisterRecordsHandler(t *testing.T) {
	bus := &fakeBus{}
	handler := func(ctx context.Context, event HookEvent) (HookResult, error) {
		return HookResult{Block: true, BlockReason: "denied"}, nil
	}

	bus.Register("rbac", HookBeforeToolCall, handler, 100)

	if len(bus.registrations) != 1 {
		t.Fatalf("got %d registrations, want 1", len(bus.registrations))
	}
	reg := bus.registrations[0]
	if reg.PluginID != "rbac" || reg.HookName != HookBeforeToolCall || reg.Priority != 100 {
		t.Fatalf("unexpected registration: %+v", reg)
	}

	result, err := reg.Handler(context.Background(), HookEvent{ToolName: "exec"})
	if err != nil {
		t.Fatalf("handler() error = %v", err)
	}
	if !result.Block || result.BlockReason != "denied" {
		t.Fatalf("handler() result = %+v", result)
	}
}

func TestHookEvent_CarriesDataPayload(t *testing.T) {
	event := HookEvent{
		SessionKey: "agent:main:direct:123",
		ChannelID:  "telegram",
		Data: map[string]interface{}{
			"content": "/status",
			"from":    "123",
		},
	}

	if content, _ := event.Data["content"].(string); content != "/status" {
		t.Errorf("Data[content] = %q, want /status", content)
	}
	if from, _ := event.Data["from"].(string); from != "123" {
		t.Errorf("Data[from] = %q, want 123", from)
	}
}
