package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/nexusrbac/guard/internal/audit"
	"github.com/nexusrbac/guard/internal/observability"
	"github.com/nexusrbac/guard/internal/plugins"
	"github.com/nexusrbac/guard/internal/rbacmetrics"
	"github.com/nexusrbac/guard/internal/rbacplugin"
)

// demoBus is an in-process plugins.HookBus: it records the handler each
// hook name was registered with and runs them in priority order, the
// same contract a real host's event bus would offer.
type demoBus struct {
	handlers map[plugins.HookName][]registration
}

type registration struct {
	pluginID string
	handler  plugins.HookHandler
	priority int
}

func newDemoBus() *demoBus {
	return &demoBus{handlers: make(map[plugins.HookName][]registration)}
}

func (b *demoBus) Register(pluginID string, hookName plugins.HookName, handler plugins.HookHandler, priority int) {
	b.handlers[hookName] = append(b.handlers[hookName], registration{pluginID, handler, priority})
	sort.SliceStable(b.handlers[hookName], func(i, j int) bool {
		return b.handlers[hookName][i].priority > b.handlers[hookName][j].priority
	})
}

func (b *demoBus) fire(ctx context.Context, hookName plugins.HookName, event plugins.HookEvent) (plugins.HookResult, error) {
	for _, reg := range b.handlers[hookName] {
		result, err := reg.handler(ctx, event)
		if err != nil {
			return plugins.HookResult{}, fmt.Errorf("%s: %w", reg.pluginID, err)
		}
		if result.Block || result.Content != "" {
			return result, nil
		}
	}
	return plugins.HookResult{}, nil
}

func newServeDemoCmd() *cobra.Command {
	var httpAddr string
	var tracingEndpoint string

	cmd := &cobra.Command{
		Use:   "serve-demo <policy.yaml>",
		Short: "Register the RBAC plugin against an in-process host and fire sample hook events",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			policy, err := loadPolicyFile(args[0])
			if err != nil {
				return err
			}

			logger := observability.NewLogger(observability.LogConfig{Level: "info", Format: "text"})

			auditLogger, err := audit.NewLogger(audit.Config{
				Enabled: true,
				Level:   audit.LevelInfo,
				Format:  audit.FormatText,
				Output:  "stdout",
			})
			if err != nil {
				return fmt.Errorf("audit logger: %w", err)
			}
			defer auditLogger.Close()

			tracer, shutdownTracer := observability.NewTracer(observability.TraceConfig{
				ServiceName: "rbacgate-serve-demo",
				Endpoint:    tracingEndpoint,
			})
			defer shutdownTracer(context.Background())

			reg := prometheus.NewRegistry()
			metrics := rbacmetrics.New(reg)

			plugin := rbacplugin.New(policy, auditLogger, tracer, metrics, logger)
			bus := newDemoBus()
			plugin.Register(bus)

			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			runDemoSequence(ctx, bus)

			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
			mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte(`{"status":"ok"}`))
			})

			server := &http.Server{Addr: httpAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
			listener, err := net.Listen("tcp", httpAddr)
			if err != nil {
				return fmt.Errorf("http listen: %w", err)
			}

			go func() {
				if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
					logger.Error("demo http server error", "error", err)
				}
			}()
			logger.Info("serve-demo listening", "addr", httpAddr)

			<-ctx.Done()

			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			return server.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&httpAddr, "http-addr", "127.0.0.1:9091", "address to serve /metrics and /healthz on")
	cmd.Flags().StringVar(&tracingEndpoint, "otlp-endpoint", "", "OTLP collector endpoint (empty disables tracing export)")
	return cmd
}

// runDemoSequence exercises all three hooks once each, against a guest
// peer denied a privileged tool, an admin peer allowed it, and a
// blocked slash-command substituted on the way out.
func runDemoSequence(ctx context.Context, bus *demoBus) {
	result, _ := bus.fire(ctx, plugins.HookBeforeToolCall, plugins.HookEvent{
		ToolName:   "exec_shell",
		SessionKey: "agent:demo:telegram:direct:999",
	})
	fmt.Printf("before_tool_call(exec_shell, guest) -> block=%v reason=%q\n", result.Block, result.BlockReason)

	result, _ = bus.fire(ctx, plugins.HookBeforeToolCall, plugins.HookEvent{
		ToolName:   "exec_shell",
		SessionKey: "agent:demo:telegram:direct:1",
	})
	fmt.Printf("before_tool_call(exec_shell, admin) -> block=%v\n", result.Block)

	_, _ = bus.fire(ctx, plugins.HookMessageReceived, plugins.HookEvent{
		SessionKey: "agent:demo:telegram:direct:999",
		Data:       map[string]interface{}{"content": "/status", "from": "999"},
	})
	result, _ = bus.fire(ctx, plugins.HookMessageSending, plugins.HookEvent{})
	fmt.Printf("message_sending() -> content=%q\n", result.Content)
}
