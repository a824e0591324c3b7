// Package plugins models the host's event-bus contract exactly as far as
// the RBAC plugin (internal/rbacplugin) needs it: the three hooks it
// observes, the event/result shapes those hooks carry, and the logging
// contract the host exposes to a registering plugin. The host's own
// plugin loader, capability registry, and broader hook catalog are out
// of scope here — this package models the boundary, not the host.
package plugins

import "context"

// HookName identifies one of the hooks the RBAC plugin registers
// against.
type HookName string

const (
	HookBeforeToolCall  HookName = "before_tool_call"
	HookMessageReceived HookName = "message_received"
	HookMessageSending  HookName = "message_sending"
)

// HookHandler handles a single hook invocation.
type HookHandler func(ctx context.Context, event HookEvent) (HookResult, error)

// HookEvent carries the fields the host populates for before_tool_call,
// message_received, and message_sending (spec §6).
type HookEvent struct {
	SessionKey string
	ChannelID  string
	ToolName   string
	Data       map[string]interface{}
}

// HookResult lets a handler block a tool call or rewrite outgoing
// content. Zero value means "no verdict" — let the call proceed
// unmodified.
type HookResult struct {
	Block       bool
	BlockReason string
	Content     string
}

// HookBus is the host's hook registration surface. Register adds a
// handler for a hook name; handlers registered at a higher priority run
// first. Dispatch, error isolation, and any merge-by-hook-type semantics
// are the host's responsibility.
type HookBus interface {
	Register(pluginID string, hookName HookName, handler HookHandler, priority int)
}
