// Package rbacplugin wires the rbac engine (internal/rbac) to the host's
// hook bus (internal/plugins), instrumented with tracing
// (internal/observability), audit logging (internal/audit), and
// Prometheus counters (internal/rbacmetrics) — the C7 plugin surface.
package rbacplugin

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/nexusrbac/guard/internal/audit"
	"github.com/nexusrbac/guard/internal/observability"
	"github.com/nexusrbac/guard/internal/plugins"
	"github.com/nexusrbac/guard/internal/ratelimit"
	"github.com/nexusrbac/guard/internal/rbac"
	"github.com/nexusrbac/guard/internal/rbacmetrics"
	"go.opentelemetry.io/otel/trace"
)

// ID is this plugin's registry identifier.
const ID = "rbac"

// hookPriority ensures the RBAC handlers run before business-logic
// handlers registered at the default priority.
const hookPriority = 100

// Plugin is the RBAC engine's host-facing surface. Construct with New;
// Policy is swapped atomically by Reload, never mutated in place (§5).
type Plugin struct {
	policy  atomic.Pointer[rbac.Policy]
	limiter atomic.Pointer[ratelimit.Limiter] // nil when rateLimit is not configured
	pending *rbac.PendingBlockGate

	audit   *audit.Logger
	tracer  *observability.Tracer
	metrics *rbacmetrics.Metrics
	logger  plugins.Logger
}

// New constructs a Plugin around an already-loaded Policy. Any of
// auditLog, tracer, metrics, and logger may be nil.
func New(policy *rbac.Policy, auditLog *audit.Logger, tracer *observability.Tracer, metrics *rbacmetrics.Metrics, logger plugins.Logger) *Plugin {
	p := &Plugin{
		pending: rbac.NewPendingBlockGate(),
		audit:   auditLog,
		tracer:  tracer,
		metrics: metrics,
		logger:  logger,
	}
	p.policy.Store(policy)
	p.resetLimiter(policy)
	return p
}

func (p *Plugin) resetLimiter(policy *rbac.Policy) {
	if policy.RateLimit == nil {
		p.limiter.Store(nil)
		return
	}
	p.limiter.Store(ratelimit.NewLimiter(policy.RateLimit.MaxBlockedPerMinute))
}

// ID identifies this plugin to the host's hook bus.
func (p *Plugin) ID() string { return ID }

// Name is this plugin's display name.
func (p *Plugin) Name() string { return "RBAC Policy Guard" }

// Description summarizes this plugin's responsibility.
func (p *Plugin) Description() string {
	return "Gates tool invocations and system slash-commands by sender role"
}

// Version is this plugin's version.
func (p *Plugin) Version() string { return "1.0.0" }

// Policy returns the currently active Policy.
func (p *Plugin) Policy() *rbac.Policy {
	return p.policy.Load()
}

// Reload parses and validates a new policy document and, on success,
// atomically swaps it in. Warnings on the new Policy are logged but do
// not block the swap. A failed parse leaves the current Policy running.
func (p *Plugin) Reload(raw any) error {
	newPolicy, err := rbac.Load(raw)
	if err != nil {
		return err
	}
	for _, w := range newPolicy.Warnings {
		if p.logger != nil {
			p.logger.Warn("rbac policy warning", "warning", w)
		}
	}
	p.policy.Store(newPolicy)
	p.resetLimiter(newPolicy)
	return nil
}

// Register wires the plugin's handlers into bus at a priority that runs
// before the host's own business-logic handlers, then logs the
// registration summary (role count, default role, fail-safe) and any
// policy warnings at WARN, per §4.7.
func (p *Plugin) Register(bus plugins.HookBus) {
	bus.Register(p.ID(), plugins.HookBeforeToolCall, p.handleBeforeToolCall, hookPriority)
	bus.Register(p.ID(), plugins.HookMessageReceived, p.handleMessageReceived, hookPriority)
	bus.Register(p.ID(), plugins.HookMessageSending, p.handleMessageSending, hookPriority)

	if p.logger == nil {
		return
	}
	policy := p.policy.Load()
	p.logger.Info("rbac plugin registered",
		"roles", len(policy.Roles),
		"defaultRole", policy.DefaultRole,
		"failSafe", string(policy.FailSafe))
	for _, w := range policy.Warnings {
		p.logger.Warn("rbac policy warning", "warning", w)
	}
}

func (p *Plugin) handleBeforeToolCall(ctx context.Context, event plugins.HookEvent) (plugins.HookResult, error) {
	if p.tracer != nil {
		var span trace.Span
		ctx, span = p.tracer.Start(ctx, "rbac.before_tool_call")
		defer span.End()
	}

	if event.SessionKey == "" {
		// No session key means an internal/system call; always allowed.
		return plugins.HookResult{}, nil
	}

	policy := p.policy.Load()

	parsed, ok := rbac.ParseSessionKey(event.SessionKey)
	if !ok {
		if policy.FailSafe == rbac.FailSafeDeny {
			p.emitBlocked(ctx, event.ToolName, "", "", "", "unrecognized session")
			return plugins.HookResult{
				Block:       true,
				BlockReason: "Access denied: unrecognized session (RBAC failSafe)",
			}, nil
		}
		return plugins.HookResult{}, nil
	}

	role := rbac.ResolveRole(policy, parsed.PeerID, parsed.Channel, parsed.Channel != "")
	verdict := rbac.CheckToolAccess(policy, event.ToolName, role)

	if !verdict.Allowed {
		reason := verdict.Reason
		if reason == "" {
			reason = "Access denied by RBAC policy"
		}
		p.emitBlocked(ctx, event.ToolName, parsed.PeerID, parsed.Channel, role, reason)
		return plugins.HookResult{Block: true, BlockReason: reason}, nil
	}

	if p.metrics != nil {
		p.metrics.ObserveAllowed(role, event.ToolName)
	}
	if policy.LogAllowed {
		p.emitAllowed(ctx, event.ToolName, parsed.PeerID, parsed.Channel, role)
	}
	return plugins.HookResult{}, nil
}

func (p *Plugin) handleMessageReceived(ctx context.Context, event plugins.HookEvent) (plugins.HookResult, error) {
	policy := p.policy.Load()
	if policy.SystemCommands == nil {
		return plugins.HookResult{}, nil
	}

	content, _ := event.Data["content"].(string)
	from, _ := event.Data["from"].(string)

	command, blocked := rbac.MatchBlockedCommand(content, policy.SystemCommands)
	if !blocked {
		return plugins.HookResult{}, nil
	}

	role := policy.DefaultRole
	channel := event.ChannelID
	if parsed, ok := rbac.ParseSessionKey(event.SessionKey); ok {
		channel = parsed.Channel
		role = rbac.ResolveRole(policy, parsed.PeerID, parsed.Channel, parsed.Channel != "")
	}

	if rbac.IsAdminByTools(role, policy) {
		return plugins.HookResult{}, nil
	}

	p.pending.SetPendingBlock(command, time.Now())
	if p.metrics != nil {
		p.metrics.ObserveBlockedCommand(command, role)
	}
	if p.logger != nil {
		p.logger.Info(fmt.Sprintf("rbac: GUARD command=%q peer=%q channel=%q role=%q", command, from, channel, role))
	}
	return plugins.HookResult{}, nil
}

func (p *Plugin) handleMessageSending(_ context.Context, _ plugins.HookEvent) (plugins.HookResult, error) {
	policy := p.policy.Load()
	command, matched := p.pending.ConsumePendingBlock(time.Now())
	if !matched || policy.SystemCommands == nil {
		return plugins.HookResult{}, nil
	}
	return plugins.HookResult{Content: rbac.GetBlockResponse(command, policy.SystemCommands)}, nil
}

// emitBlocked applies the rate limiter to a BLOCKED decision: logged line
// shapes follow §6, gated by the sliding-window limiter when configured.
func (p *Plugin) emitBlocked(ctx context.Context, tool, peer, channel, role, reason string) {
	policy := p.policy.Load()
	if p.metrics != nil {
		p.metrics.ObserveDenied(role, tool)
	}
	if !policy.LogBlocked {
		return
	}

	now := time.Now()
	shouldLog := true
	if limiter := p.limiter.Load(); limiter != nil {
		shouldLog = limiter.ShouldLog(peer, now)
		if !shouldLog {
			if p.metrics != nil {
				p.metrics.ObserveSuppressedLog()
			}
			if limiter.GetSuppressed(peer, now) == 1 && p.logger != nil {
				p.logger.Warn(fmt.Sprintf("rbac: rate limit exceeded for peer=%q, suppressing logs for 60s", peer))
			}
		}
	}
	if !shouldLog {
		return
	}

	if p.logger != nil {
		p.logger.Warn(fmt.Sprintf("rbac: BLOCKED tool=%q peer=%q channel=%q role=%q reason=%q", tool, peer, channel, role, reason))
	}
	if p.audit != nil {
		p.audit.LogToolDenied(ctx, tool, "", reason, role, peer)
	}
}

func (p *Plugin) emitAllowed(ctx context.Context, tool, peer, channel, role string) {
	if p.logger != nil {
		p.logger.Info(fmt.Sprintf("rbac: ALLOWED tool=%q peer=%q channel=%q role=%q", tool, peer, channel, role))
	}
	if p.audit != nil {
		p.audit.LogPermissionDecision(ctx, true, tool, tool, "tool_call", "", peer)
	}
}
