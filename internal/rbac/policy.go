package rbac

// StringSet models the "wildcard vs explicit list" shape that the policy
// document uses for users, tools, and channels. The wildcard marker ("*")
// only exists at the document boundary (see load.go); internally it is
// this tagged union.
type StringSet struct {
	All    bool
	Values []string
}

// Wildcard returns the StringSet matching everything.
func Wildcard() StringSet {
	return StringSet{All: true}
}

// Contains reports whether value is present in an explicit list. Callers
// must check All separately; Contains on an All set always returns false.
func (s StringSet) Contains(value string) bool {
	for _, v := range s.Values {
		if v == value {
			return true
		}
	}
	return false
}

// Empty reports whether the set is an explicit, empty list (distinct from
// a wildcard or a non-empty list). Used to surface the load-time warnings
// in spec step 3.
func (s StringSet) Empty() bool {
	return !s.All && len(s.Values) == 0
}

// FailSafeMode governs how the engine treats a session key it cannot parse.
type FailSafeMode string

const (
	FailSafeDeny  FailSafeMode = "deny"
	FailSafeAllow FailSafeMode = "allow"
)

// SystemCommandsMode selects how the command guard matches slash-commands.
type SystemCommandsMode string

const (
	ModeBlocklist SystemCommandsMode = "blocklist"
	ModeAllowlist SystemCommandsMode = "allowlist"
)

// RoleSpec is a named bundle of access rights.
type RoleSpec struct {
	Name     string
	Users    StringSet
	Tools    StringSet
	Channels StringSet
}

// RateLimitSpec configures the sliding-window audit rate limiter (C5).
type RateLimitSpec struct {
	MaxBlockedPerMinute int
}

// SystemCommandsSpec configures the command guard (C6).
type SystemCommandsSpec struct {
	Mode SystemCommandsMode

	// Blocked is the normalized command list used in blocklist mode.
	Blocked []string

	// Allowed is the normalized command list used in allowlist mode.
	Allowed []string

	// GuestHelp, when non-nil, substitutes for the host's /help output and
	// is intercepted unconditionally (spec open question, §9).
	GuestHelp *string

	// BlockResponse is returned for any other blocked command.
	BlockResponse string
}

func (s *SystemCommandsSpec) blockedContains(cmd string) bool {
	for _, c := range s.Blocked {
		if c == cmd {
			return true
		}
	}
	return false
}

func (s *SystemCommandsSpec) allowedContains(cmd string) bool {
	for _, c := range s.Allowed {
		if c == cmd {
			return true
		}
	}
	return false
}

// Policy is the frozen, validated configuration document. Construct it
// only through Load; once returned it must never be mutated in place —
// a reload builds a fresh Policy and the host swaps the pointer (§5).
type Policy struct {
	// Roles is ordered; resolution is first-match (§3, §4.3).
	Roles []RoleSpec

	DefaultRole string

	LogBlocked bool
	LogAllowed bool

	FailSafe FailSafeMode

	ToolGroups map[string][]string

	RateLimit *RateLimitSpec

	SystemCommands *SystemCommandsSpec

	// Warnings accumulated during Load; non-fatal.
	Warnings []string
}

// Role looks up a role by name.
func (p *Policy) Role(name string) (RoleSpec, bool) {
	for _, r := range p.Roles {
		if r.Name == name {
			return r, true
		}
	}
	return RoleSpec{}, false
}
