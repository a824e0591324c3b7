package rbac

import (
	"fmt"
	"sort"
	"strings"
)

const wildcardMarker = "*"

// Load parses, normalizes, and validates an untyped policy document
// (typically decoded from YAML/JSON) into a frozen Policy. It returns a
// *ConfigInvalidError on the first structural failure; warnings for
// non-fatal conditions accumulate on the returned Policy instead of
// failing the load (§4.1).
func Load(raw any) (*Policy, error) {
	root, ok := raw.(map[string]any)
	if !ok {
		return nil, &ConfigInvalidError{Path: "", Message: "root must be an object"}
	}

	entries, err := roleEntries(root["roles"])
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, &ConfigInvalidError{Path: "roles", Message: "must be a non-empty object"}
	}

	policy := &Policy{
		ToolGroups: map[string][]string{},
	}

	var sawWildcardUsers string
	for _, entry := range entries {
		name := entry.Name
		roleRaw := entry.Value

		role := RoleSpec{Name: name}

		users, err := parseStringSet(roleRaw["users"], "roles."+name+".users")
		if err != nil {
			return nil, err
		}
		role.Users = users

		tools, err := parseStringSet(roleRaw["tools"], "roles."+name+".tools")
		if err != nil {
			return nil, err
		}
		role.Tools = tools

		var channels StringSet
		if _, present := roleRaw["channels"]; present {
			channels, err = parseStringSet(roleRaw["channels"], "roles."+name+".channels")
			if err != nil {
				return nil, err
			}
		} else {
			channels = Wildcard()
		}
		role.Channels = channels

		if role.Users.All {
			if sawWildcardUsers == "" {
				sawWildcardUsers = name
			}
		} else if sawWildcardUsers != "" {
			return nil, &ConfigInvalidError{
				Path: "roles." + name,
				Message: fmt.Sprintf(
					"role %q has a specific user list but role %q (wildcard users) precedes it; "+
						"first-match semantics would permanently shadow %q",
					name, sawWildcardUsers, name,
				),
			}
		}

		if role.Tools.Empty() {
			policy.Warnings = append(policy.Warnings, fmt.Sprintf(
				"roles.%s.tools is empty; this role blocks every tool", name))
		}
		if role.Channels.Empty() {
			policy.Warnings = append(policy.Warnings, fmt.Sprintf(
				"roles.%s.channels is empty; this role never matches", name))
		}

		policy.Roles = append(policy.Roles, role)
	}

	defaultRole := "guest"
	if v, present := root["defaultRole"]; present {
		s, ok := v.(string)
		if !ok || strings.TrimSpace(s) == "" {
			return nil, &ConfigInvalidError{Path: "defaultRole", Message: "must be a non-empty string"}
		}
		defaultRole = s
	}
	if _, ok := policy.Role(defaultRole); !ok {
		return nil, &ConfigInvalidError{Path: "defaultRole", Message: fmt.Sprintf("role %q is not declared in roles", defaultRole)}
	}
	policy.DefaultRole = defaultRole

	if toolGroupsRaw, present := root["toolGroups"]; present {
		groups, ok := toolGroupsRaw.(map[string]any)
		if !ok {
			return nil, &ConfigInvalidError{Path: "toolGroups", Message: "must be an object"}
		}
		for group, listRaw := range groups {
			list, err := parseStringList(listRaw, "toolGroups."+group)
			if err != nil {
				return nil, err
			}
			policy.ToolGroups[group] = list
		}
	}

	for _, role := range policy.Roles {
		if role.Tools.All {
			continue
		}
		for _, tool := range role.Tools.Values {
			if !strings.HasPrefix(tool, "@") {
				continue
			}
			group := strings.TrimPrefix(tool, "@")
			if _, ok := policy.ToolGroups[group]; !ok {
				return nil, &ConfigInvalidError{
					Path:    "roles." + role.Name + ".tools",
					Message: fmt.Sprintf("references undefined tool group %q", group),
				}
			}
		}
	}

	policy.FailSafe = FailSafeDeny
	if v, present := root["failSafe"]; present {
		s, ok := v.(string)
		if !ok {
			return nil, &ConfigInvalidError{Path: "failSafe", Message: `must be "deny" or "allow"`}
		}
		switch FailSafeMode(s) {
		case FailSafeDeny, FailSafeAllow:
			policy.FailSafe = FailSafeMode(s)
		default:
			return nil, &ConfigInvalidError{Path: "failSafe", Message: `must be "deny" or "allow"`}
		}
	}

	policy.LogBlocked = true
	if v, present := root["logBlocked"]; present {
		b, ok := v.(bool)
		if !ok {
			return nil, &ConfigInvalidError{Path: "logBlocked", Message: "must be a boolean"}
		}
		policy.LogBlocked = b
	}
	policy.LogAllowed = false
	if v, present := root["logAllowed"]; present {
		b, ok := v.(bool)
		if !ok {
			return nil, &ConfigInvalidError{Path: "logAllowed", Message: "must be a boolean"}
		}
		policy.LogAllowed = b
	}

	if v, present := root["rateLimit"]; present && v != nil {
		rlRaw, ok := v.(map[string]any)
		if !ok {
			return nil, &ConfigInvalidError{Path: "rateLimit", Message: "must be an object or null"}
		}
		n, err := parsePositiveInt(rlRaw["maxBlockedPerMinute"], "rateLimit.maxBlockedPerMinute")
		if err != nil {
			return nil, err
		}
		policy.RateLimit = &RateLimitSpec{MaxBlockedPerMinute: n}
	}

	if v, present := root["systemCommands"]; present && v != nil {
		scRaw, ok := v.(map[string]any)
		if !ok {
			return nil, &ConfigInvalidError{Path: "systemCommands", Message: "must be an object or null"}
		}
		sc, err := parseSystemCommands(scRaw)
		if err != nil {
			return nil, err
		}
		policy.SystemCommands = sc
	}

	return policy, nil
}

// RoleEntry is an order-preserving (name, role-document) pair. Iteration
// order over roles is contractually significant (§3, §9: "ordered mapping
// for roles") so callers that can preserve declaration order — notably
// LoadYAML, which walks a yaml.Node mapping — pass a []RoleEntry for
// root["roles"] instead of a plain map.
type RoleEntry struct {
	Name  string
	Value map[string]any
}

// roleEntries normalizes the "roles" value into ordered entries. A
// []RoleEntry is passed through as-is. A map[string]any (e.g. the result
// of decoding generic JSON, which has no ordered-map type in encoding/json)
// falls back to sorted-key order; this is deterministic but does not
// honor declaration order, so JSON callers that need the ordering
// invariant should build []RoleEntry themselves.
func roleEntries(raw any) ([]RoleEntry, error) {
	switch v := raw.(type) {
	case []RoleEntry:
		return v, nil
	case map[string]any:
		names := make([]string, 0, len(v))
		for n := range v {
			names = append(names, n)
		}
		sort.Strings(names)
		entries := make([]RoleEntry, 0, len(names))
		for _, n := range names {
			roleRaw, ok := v[n].(map[string]any)
			if !ok {
				return nil, &ConfigInvalidError{Path: "roles." + n, Message: "must be an object"}
			}
			entries = append(entries, RoleEntry{Name: n, Value: roleRaw})
		}
		return entries, nil
	default:
		return nil, &ConfigInvalidError{Path: "roles", Message: "must be a non-empty object"}
	}
}

func parseStringSet(raw any, path string) (StringSet, error) {
	if raw == nil {
		return StringSet{}, &ConfigInvalidError{Path: path, Message: `must be "*" or string[]`}
	}
	if s, ok := raw.(string); ok {
		if s == wildcardMarker {
			return Wildcard(), nil
		}
		return StringSet{}, &ConfigInvalidError{Path: path, Message: `must be "*" or string[]`}
	}
	list, err := parseStringList(raw, path)
	if err != nil {
		return StringSet{}, err
	}
	return StringSet{Values: list}, nil
}

func parseStringList(raw any, path string) ([]string, error) {
	items, ok := raw.([]any)
	if !ok {
		return nil, &ConfigInvalidError{Path: path, Message: "must be a string array"}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, &ConfigInvalidError{Path: path, Message: "must contain only strings"}
		}
		out = append(out, s)
	}
	return out, nil
}

func parsePositiveInt(raw any, path string) (int, error) {
	switch v := raw.(type) {
	case int:
		if v < 1 {
			return 0, &ConfigInvalidError{Path: path, Message: "must be >= 1"}
		}
		return v, nil
	case float64:
		if v < 1 {
			return 0, &ConfigInvalidError{Path: path, Message: "must be >= 1"}
		}
		return int(v), nil
	default:
		return 0, &ConfigInvalidError{Path: path, Message: "must be a number >= 1"}
	}
}

// NormalizeCommand lowercases, trims, and prefixes a command string with
// "/" if absent (§3, I4).
func NormalizeCommand(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return s
	}
	if !strings.HasPrefix(s, "/") {
		s = "/" + s
	}
	return s
}

func normalizeCommandList(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, c := range raw {
		n := NormalizeCommand(c)
		if n != "" {
			out = append(out, n)
		}
	}
	return out
}

func parseSystemCommands(raw map[string]any) (*SystemCommandsSpec, error) {
	sc := &SystemCommandsSpec{Mode: ModeBlocklist}

	if v, present := raw["mode"]; present {
		s, ok := v.(string)
		if !ok {
			return nil, &ConfigInvalidError{Path: "systemCommands.mode", Message: `must be "blocklist" or "allowlist"`}
		}
		switch SystemCommandsMode(s) {
		case ModeBlocklist, ModeAllowlist:
			sc.Mode = SystemCommandsMode(s)
		default:
			return nil, &ConfigInvalidError{Path: "systemCommands.mode", Message: `must be "blocklist" or "allowlist"`}
		}
	}

	var blocked, allowed []string
	if v, present := raw["blocked"]; present {
		list, err := parseStringList(v, "systemCommands.blocked")
		if err != nil {
			return nil, err
		}
		blocked = normalizeCommandList(list)
	}
	if v, present := raw["allowed"]; present {
		list, err := parseStringList(v, "systemCommands.allowed")
		if err != nil {
			return nil, err
		}
		allowed = normalizeCommandList(list)
	}

	switch sc.Mode {
	case ModeBlocklist:
		if len(blocked) == 0 {
			return nil, &ConfigInvalidError{Path: "systemCommands.blocked", Message: "required non-empty in blocklist mode"}
		}
	case ModeAllowlist:
		if _, present := raw["allowed"]; !present {
			return nil, &ConfigInvalidError{Path: "systemCommands.allowed", Message: "required in allowlist mode (may be empty)"}
		}
	}
	sc.Blocked = blocked
	sc.Allowed = allowed

	if v, present := raw["blockResponse"]; present {
		s, ok := v.(string)
		if !ok {
			return nil, &ConfigInvalidError{Path: "systemCommands.blockResponse", Message: "must be a string"}
		}
		sc.BlockResponse = s
	}

	if v, present := raw["guestHelp"]; present && v != nil {
		s, ok := v.(string)
		if !ok {
			return nil, &ConfigInvalidError{Path: "systemCommands.guestHelp", Message: "must be a string or null"}
		}
		sc.GuestHelp = &s
	}

	return sc, nil
}
