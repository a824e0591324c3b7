package main

import (
	"context"
	"testing"

	"github.com/nexusrbac/guard/internal/plugins"
)

func TestDemoBus_FireRunsHandlersInPriorityOrder(t *testing.T) {
	bus := newDemoBus()
	var order []string

	bus.Register("low", plugins.HookBeforeToolCall, func(ctx context.Context, e plugins.HookEvent) (plugins.HookResult, error) {
		order = append(order, "low")
		return plugins.HookResult{}, nil
	}, 1)
	bus.Register("high", plugins.HookBeforeToolCall, func(ctx context.Context, e plugins.HookEvent) (plugins.HookResult, error) {
		order = append(order, "high")
		return plugins.HookResult{}, nil
	}, 100)

	if _, err := bus.fire(context.Background(), plugins.HookBeforeToolCall, plugins.HookEvent{}); err != nil {
		t.Fatalf("fire() error = %v", err)
	}

	if len(order) != 2 || order[0] != "high" || order[1] != "low" {
		t.Fatalf("got order %v, want [high low]", order)
	}
}

func TestDemoBus_FireStopsAtFirstBlockingVerdict(t *testing.T) {
	bus := newDemoBus()
	var secondCalled bool

	bus.Register("blocker", plugins.HookBeforeToolCall, func(ctx context.Context, e plugins.HookEvent) (plugins.HookResult, error) {
		return plugins.HookResult{Block: true, BlockReason: "no"}, nil
	}, 100)
	bus.Register("never", plugins.HookBeforeToolCall, func(ctx context.Context, e plugins.HookEvent) (plugins.HookResult, error) {
		secondCalled = true
		return plugins.HookResult{}, nil
	}, 1)

	result, err := bus.fire(context.Background(), plugins.HookBeforeToolCall, plugins.HookEvent{})
	if err != nil {
		t.Fatalf("fire() error = %v", err)
	}
	if !result.Block || result.BlockReason != "no" {
		t.Fatalf("fire() result = %+v", result)
	}
	if secondCalled {
		t.Error("lower-priority handler ran after a blocking verdict")
	}
}

func TestDemoBus_FireNoHandlersReturnsZeroResult(t *testing.T) {
	bus := newDemoBus()
	result, err := bus.fire(context.Background(), plugins.HookMessageSending, plugins.HookEvent{})
	if err != nil {
		t.Fatalf("fire() error = %v", err)
	}
	if result.Block || result.Content != "" {
		t.Fatalf("fire() result = %+v, want zero value", result)
	}
}
