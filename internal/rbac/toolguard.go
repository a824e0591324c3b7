package rbac

import (
	"fmt"
	"strings"
)

// ToolVerdict is the result of a tool access check (§4.4).
type ToolVerdict struct {
	Allowed bool
	Role    string
	Reason  string // empty when Allowed
}

// CheckToolAccess decides allow/deny for (toolName, roleName) under the
// policy. Exact match (including @group expansion) wins over a "_*"
// prefix wildcard; an unknown role is always denied.
func CheckToolAccess(policy *Policy, toolName, roleName string) ToolVerdict {
	role, ok := policy.Role(roleName)
	if !ok {
		return ToolVerdict{
			Allowed: false,
			Role:    roleName,
			Reason:  fmt.Sprintf("Unknown role %q", roleName),
		}
	}

	if role.Tools.All {
		return ToolVerdict{Allowed: true, Role: roleName}
	}

	exact, wildcards := expandToolPatterns(role.Tools.Values, policy.ToolGroups)

	if exact[toolName] {
		return ToolVerdict{Allowed: true, Role: roleName}
	}

	for _, prefix := range wildcards {
		if strings.HasPrefix(toolName, prefix) && len(toolName) > len(prefix) {
			return ToolVerdict{Allowed: true, Role: roleName}
		}
	}

	return ToolVerdict{
		Allowed: false,
		Role:    roleName,
		Reason:  fmt.Sprintf("Role %q does not have access to tool %q", roleName, toolName),
	}
}

// expandToolPatterns splits a role's raw tool pattern list into an exact
// lookup set (plain names plus every @group's expansion) and an ordered
// list of "_*" prefixes (the trailing "*" stripped).
func expandToolPatterns(patterns []string, groups map[string][]string) (exact map[string]bool, wildcards []string) {
	exact = make(map[string]bool, len(patterns))
	for _, pattern := range patterns {
		switch {
		case strings.HasPrefix(pattern, "@"):
			group := strings.TrimPrefix(pattern, "@")
			for _, tool := range groups[group] {
				exact[tool] = true
			}
		case strings.HasSuffix(pattern, "_*"):
			wildcards = append(wildcards, strings.TrimSuffix(pattern, "*"))
		default:
			exact[pattern] = true
		}
	}
	return exact, wildcards
}
