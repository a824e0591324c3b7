package rbac

import (
	"testing"
	"time"
)

func TestMatchBlockedCommand_Blocklist(t *testing.T) {
	spec := &SystemCommandsSpec{
		Mode:    ModeBlocklist,
		Blocked: []string{"/status", "/doctor"},
	}

	cmd, blocked := MatchBlockedCommand("  /Status now", spec)
	if !blocked || cmd != "/status" {
		t.Errorf("got (%q, %v), want (/status, true)", cmd, blocked)
	}

	if _, blocked := MatchBlockedCommand("/whoami", spec); blocked {
		t.Error("/whoami is not in the blocklist and should pass")
	}

	if _, blocked := MatchBlockedCommand("not a command", spec); blocked {
		t.Error("non-command content must never match")
	}
}

func TestMatchBlockedCommand_Allowlist(t *testing.T) {
	spec := &SystemCommandsSpec{
		Mode:    ModeAllowlist,
		Allowed: []string{"/help"},
	}

	if _, blocked := MatchBlockedCommand("/help", spec); blocked {
		t.Error("/help is explicitly allowed")
	}

	cmd, blocked := MatchBlockedCommand("/status", spec)
	if !blocked || cmd != "/status" {
		t.Errorf("got (%q, %v), want (/status, true): anything not allowed is blocked", cmd, blocked)
	}
}

func TestMatchBlockedCommand_AllowlistEmptyBlocksEverything(t *testing.T) {
	spec := &SystemCommandsSpec{Mode: ModeAllowlist}

	cmd, blocked := MatchBlockedCommand("/anything", spec)
	if !blocked || cmd != "/anything" {
		t.Errorf("with an empty allowlist every command should be blocked, got (%q, %v)", cmd, blocked)
	}
}

func TestMatchBlockedCommand_GuestHelpOverridesMode(t *testing.T) {
	help := "try asking me in plain language"
	spec := &SystemCommandsSpec{
		Mode:    ModeAllowlist,
		Allowed: []string{"/help"},
		GuestHelp: &help,
	}

	cmd, blocked := MatchBlockedCommand("/help", spec)
	if !blocked || cmd != "/help" {
		t.Error("guestHelp intercepts /help unconditionally, even when the mode would otherwise allow it")
	}
}

func TestGetBlockResponse(t *testing.T) {
	help := "ask me directly"
	spec := &SystemCommandsSpec{
		GuestHelp:     &help,
		BlockResponse: "that command is restricted",
	}

	if got := GetBlockResponse("/help", spec); got != help {
		t.Errorf("got %q, want guestHelp text", got)
	}
	if got := GetBlockResponse("/status", spec); got != spec.BlockResponse {
		t.Errorf("got %q, want blockResponse text", got)
	}
}

func TestIsAdminByTools(t *testing.T) {
	p := &Policy{Roles: []RoleSpec{
		{Name: "admin", Tools: Wildcard()},
		{Name: "guest", Tools: StringSet{Values: []string{"get_recent_news"}}},
	}}

	if !IsAdminByTools("admin", p) {
		t.Error("admin role (wildcard tools) should be treated as admin")
	}
	if IsAdminByTools("guest", p) {
		t.Error("guest role (explicit tool list) should not be treated as admin")
	}
	if IsAdminByTools("nonexistent", p) {
		t.Error("unknown role should not be treated as admin")
	}
}

func TestPendingBlockGate_SetAndConsume(t *testing.T) {
	gate := NewPendingBlockGate()
	now := time.Unix(1000, 0)

	gate.SetPendingBlock("/status", now)

	cmd, matched := gate.ConsumePendingBlock(now.Add(2 * time.Second))
	if !matched || cmd != "/status" {
		t.Errorf("got (%q, %v), want (/status, true)", cmd, matched)
	}

	if _, matched := gate.ConsumePendingBlock(now); matched {
		t.Error("consuming an empty gate should report no match")
	}
}

func TestPendingBlockGate_StaleDiscarded(t *testing.T) {
	gate := NewPendingBlockGate()
	now := time.Unix(1000, 0)

	gate.SetPendingBlock("/status", now)

	if _, matched := gate.ConsumePendingBlock(now.Add(11 * time.Second)); matched {
		t.Error("a pending block older than 10s must be discarded as stale")
	}

	// The slot is empty either way after consumption, stale or not.
	gate.SetPendingBlock("/doctor", now)
	if _, matched := gate.ConsumePendingBlock(now.Add(5 * time.Second)); !matched {
		t.Error("a fresh pending block set after a stale discard should still consume normally")
	}
}
