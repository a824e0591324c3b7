package rbac

import "fmt"

// ConfigInvalidError reports a structural load-time failure (§4.1, §7).
// Path names the offending location in the document, e.g.
// "roles.admin.channels", so the host can render precise UI.
type ConfigInvalidError struct {
	Path    string
	Message string
}

func (e *ConfigInvalidError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// AccessDeniedError is the runtime verdict surfaced as a tool-call block.
// The reason is safe to show end users: it names the role and tool but no
// secrets (§7).
type AccessDeniedError struct {
	Reason string
}

func (e *AccessDeniedError) Error() string {
	return e.Reason
}
