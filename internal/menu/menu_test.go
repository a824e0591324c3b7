package menu

import (
	"fmt"
	"testing"

	"github.com/mymmrac/telego"
)

func nSpecs(n int) []telego.BotCommand {
	cmds := make([]telego.BotCommand, n)
	for i := range cmds {
		cmds[i] = telego.BotCommand{Command: fmt.Sprintf("cmd%d", i), Description: "d"}
	}
	return cmds
}

func TestBuildPluginTelegramMenuCommands_NormalizesAndAccepts(t *testing.T) {
	existing := map[string]bool{}
	result := BuildPluginTelegramMenuCommands([]CommandSpec{
		{Name: "/Status", Description: "  show status  "},
	}, existing)

	if len(result.Issues) != 0 {
		t.Fatalf("unexpected issues: %v", result.Issues)
	}
	if len(result.Commands) != 1 {
		t.Fatalf("got %d commands, want 1", len(result.Commands))
	}
	if result.Commands[0].Command != "status" || result.Commands[0].Description != "show status" {
		t.Errorf("got %+v", result.Commands[0])
	}
	if !existing["status"] {
		t.Error("existingCommands should be updated in place")
	}
}

func TestBuildPluginTelegramMenuCommands_RejectsEmptyName(t *testing.T) {
	result := BuildPluginTelegramMenuCommands([]CommandSpec{
		{Name: "   ", Description: "x"},
	}, map[string]bool{})

	if len(result.Commands) != 0 || len(result.Issues) != 1 {
		t.Fatalf("got %+v", result)
	}
}

func TestBuildPluginTelegramMenuCommands_RejectsBadPattern(t *testing.T) {
	result := BuildPluginTelegramMenuCommands([]CommandSpec{
		{Name: "bad-name!", Description: "x"},
	}, map[string]bool{})

	if len(result.Commands) != 0 || len(result.Issues) != 1 {
		t.Fatalf("got %+v", result)
	}
}

func TestBuildPluginTelegramMenuCommands_RejectsEmptyDescription(t *testing.T) {
	result := BuildPluginTelegramMenuCommands([]CommandSpec{
		{Name: "status", Description: "  "},
	}, map[string]bool{})

	if len(result.Commands) != 0 || len(result.Issues) != 1 {
		t.Fatalf("got %+v", result)
	}
}

func TestBuildPluginTelegramMenuCommands_RejectsConflict(t *testing.T) {
	existing := map[string]bool{"status": true}
	result := BuildPluginTelegramMenuCommands([]CommandSpec{
		{Name: "status", Description: "x"},
	}, existing)

	if len(result.Commands) != 0 || len(result.Issues) != 1 {
		t.Fatalf("got %+v", result)
	}
}

func TestBuildPluginTelegramMenuCommands_RejectsDuplicateWithinPass(t *testing.T) {
	result := BuildPluginTelegramMenuCommands([]CommandSpec{
		{Name: "status", Description: "first"},
		{Name: "status", Description: "second"},
	}, map[string]bool{})

	if len(result.Commands) != 1 {
		t.Fatalf("got %d commands, want 1", len(result.Commands))
	}
	if len(result.Issues) != 1 {
		t.Fatalf("got %d issues, want 1", len(result.Issues))
	}
}

func TestBuildCappedTelegramMenuCommands_UnderCap(t *testing.T) {
	result := BuildCappedTelegramMenuCommands(nSpecs(5), 100)
	if result.Overflow != 0 || len(result.Commands) != 5 || result.Total != 5 {
		t.Fatalf("got %+v", result)
	}
}

func TestBuildCappedTelegramMenuCommands_OverCap(t *testing.T) {
	result := BuildCappedTelegramMenuCommands(nSpecs(150), 100)
	if result.Overflow != 50 {
		t.Errorf("Overflow = %d, want 50", result.Overflow)
	}
	if len(result.Commands) != 100 {
		t.Errorf("len(Commands) = %d, want 100", len(result.Commands))
	}
	if result.Commands[0].Command != "cmd0" {
		t.Errorf("order not preserved: first command = %q", result.Commands[0].Command)
	}
}

func TestBuildCappedTelegramMenuCommands_DefaultsCapTo100(t *testing.T) {
	result := BuildCappedTelegramMenuCommands(nSpecs(150), 0)
	if result.Cap != 100 {
		t.Errorf("Cap = %d, want 100", result.Cap)
	}
}
