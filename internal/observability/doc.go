// Package observability provides the RBAC plugin's tracing and
// structured logging: Tracer wraps OpenTelemetry spans around hook
// invocations, and Logger wraps log/slog with secret-redaction regexes,
// scoped to what the plugin surface actually calls.
package observability
