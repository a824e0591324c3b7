package rbac

import (
	"strings"
	"sync"
	"time"
)

const pendingBlockStaleAfter = 10 * time.Second

// MatchBlockedCommand inspects an incoming message body and returns the
// normalized command head that should be blocked, or ("", false) when
// nothing matches (§4.6).
func MatchBlockedCommand(content string, spec *SystemCommandsSpec) (command string, blocked bool) {
	trimmed := strings.ToLower(strings.TrimSpace(content))
	if !strings.HasPrefix(trimmed, "/") {
		return "", false
	}

	head := trimmed
	if idx := strings.IndexAny(trimmed, " \t\n"); idx != -1 {
		head = trimmed[:idx]
	}

	if spec.GuestHelp != nil && head == "/help" {
		return head, true
	}

	switch spec.Mode {
	case ModeAllowlist:
		if spec.allowedContains(head) {
			return "", false
		}
		return head, true
	default: // ModeBlocklist
		if spec.blockedContains(head) {
			return head, true
		}
		return "", false
	}
}

// GetBlockResponse returns the text to substitute for a blocked command's
// reply: guestHelp for "/help" when configured, otherwise blockResponse.
func GetBlockResponse(command string, spec *SystemCommandsSpec) string {
	if command == "/help" && spec.GuestHelp != nil {
		return *spec.GuestHelp
	}
	return spec.BlockResponse
}

// IsAdminByTools reports whether roleName names a role whose tools field
// is the wildcard. This is the bypass decision for command guarding.
func IsAdminByTools(roleName string, policy *Policy) bool {
	role, ok := policy.Role(roleName)
	if !ok {
		return false
	}
	return role.Tools.All
}

// pendingBlock is the single process-wide armed-block slot (§3, §5): the
// host guarantees message-received and message-sending for a given
// conversation are serialized, so one slot (not a map) suffices.
type pendingBlock struct {
	command string
	at      time.Time
}

// PendingBlockGate is the two-phase state machine gating a blocked
// command's outgoing reply: armed by SetPendingBlock on ingress, consumed
// by ConsumePendingBlock on egress.
type PendingBlockGate struct {
	mu      sync.Mutex
	pending *pendingBlock
}

// NewPendingBlockGate returns an empty gate.
func NewPendingBlockGate() *PendingBlockGate {
	return &PendingBlockGate{}
}

// SetPendingBlock arms the gate with command at time now.
func (g *PendingBlockGate) SetPendingBlock(command string, now time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pending = &pendingBlock{command: command, at: now}
}

// ConsumePendingBlock atomically swaps the gate to empty and returns the
// armed command. A stale entry (older than 10s at now) is discarded and
// reported as unmatched; this is a safety net against a dropped
// message-sending event, not normal control flow.
func (g *PendingBlockGate) ConsumePendingBlock(now time.Time) (command string, matched bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.pending == nil {
		return "", false
	}
	pending := g.pending
	g.pending = nil

	if now.Sub(pending.at) > pendingBlockStaleAfter {
		return "", false
	}
	return pending.command, true
}
