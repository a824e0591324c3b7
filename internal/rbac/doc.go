// Package rbac implements the role-based access control policy engine that
// gates tool invocations and system slash-commands on behalf of a remote
// sender in the gateway's agent runtime.
//
// The package is organized around the engine's leaf components: Policy
// loading and validation (Load, LoadYAML), session-key parsing
// (ParseSessionKey), role resolution (ResolveRole), tool access checks
// (CheckToolAccess), and the command guard's two-phase pending-block
// state machine (MatchBlockedCommand, PendingBlockGate). The sliding-
// window rate limiter lives alongside it in internal/ratelimit, shared
// with any other caller that needs per-peer audit throttling.
//
// None of these perform I/O. Wiring to the host event bus lives in
// internal/rbacplugin.
package rbac
