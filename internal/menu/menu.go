// Package menu builds the capped, deduplicated command list handed to a
// chat-platform's menu-registration API (§4.8). Both helpers are pure:
// they never call out to Telegram themselves, only shape data that the
// adapter (e.g. a Channel.SyncMenuCommands-style method) later passes to
// telego.SetMyCommands.
package menu

import (
	"regexp"
	"strings"

	"github.com/mymmrac/telego"
)

// maxCommandNameLen is Telegram's own limit on a bot command name.
const maxCommandNameLen = 32

var commandNamePattern = regexp.MustCompile(`^[a-z0-9_]+$`)

// CommandSpec is a plugin-declared menu entry before normalization.
type CommandSpec struct {
	Name        string
	Description string
}

// BuildResult is the output of a menu-build pass: the accepted commands
// plus a human-readable issue per rejection.
type BuildResult struct {
	Commands []telego.BotCommand
	Issues   []string
}

// BuildPluginTelegramMenuCommands normalizes and validates each spec,
// rejecting conflicts with existingCommands and duplicates within specs
// itself. existingCommands is mutated in place: every accepted name is
// added to it, so repeated calls across plugins compose correctly.
func BuildPluginTelegramMenuCommands(specs []CommandSpec, existingCommands map[string]bool) BuildResult {
	var result BuildResult
	addedThisPass := make(map[string]bool)

	for _, spec := range specs {
		name := strings.ToLower(strings.TrimSpace(spec.Name))
		name = strings.TrimPrefix(name, "/")
		description := strings.TrimSpace(spec.Description)

		if name == "" {
			result.Issues = append(result.Issues, "command name must not be empty")
			continue
		}
		if len(name) > maxCommandNameLen || !commandNamePattern.MatchString(name) {
			result.Issues = append(result.Issues, "command \""+name+"\" must be letters, digits, or underscores, 32 chars or fewer")
			continue
		}
		if description == "" {
			result.Issues = append(result.Issues, "command \""+name+"\" has an empty description")
			continue
		}
		if existingCommands[name] {
			result.Issues = append(result.Issues, "command \""+name+"\" conflicts with an already-registered command")
			continue
		}
		if addedThisPass[name] {
			result.Issues = append(result.Issues, "command \""+name+"\" is a duplicate within this registration")
			continue
		}

		existingCommands[name] = true
		addedThisPass[name] = true
		result.Commands = append(result.Commands, telego.BotCommand{
			Command:     name,
			Description: description,
		})
	}

	return result
}

// CapResult is the output of capping a merged command list to the
// platform's registration limit.
type CapResult struct {
	Commands []telego.BotCommand
	Total    int
	Cap      int
	Overflow int
}

// BuildCappedTelegramMenuCommands returns the first maxCommands entries of
// allCommands (order preserved), reporting how many were dropped.
func BuildCappedTelegramMenuCommands(allCommands []telego.BotCommand, maxCommands int) CapResult {
	if maxCommands <= 0 {
		maxCommands = 100
	}

	total := len(allCommands)
	if total <= maxCommands {
		return CapResult{Commands: allCommands, Total: total, Cap: maxCommands, Overflow: 0}
	}

	return CapResult{
		Commands: allCommands[:maxCommands],
		Total:    total,
		Cap:      maxCommands,
		Overflow: total - maxCommands,
	}
}
