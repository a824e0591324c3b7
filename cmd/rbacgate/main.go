// Command rbacgate is an operator CLI for the RBAC policy engine: it
// validates a policy file, resolves the role for a session key,
// dry-runs a tool-access check, and can register the plugin against an
// in-process demo host to exercise its hooks end to end.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nexusrbac/guard/internal/rbac"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "rbacgate:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "rbacgate",
		Short: "Operator CLI for the RBAC policy engine",
	}

	root.AddCommand(newValidateCmd())
	root.AddCommand(newResolveRoleCmd())
	root.AddCommand(newCheckToolCmd())
	root.AddCommand(newServeDemoCmd())

	return root
}

func loadPolicyFile(path string) (*rbac.Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return rbac.LoadYAML(data)
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <policy.yaml>",
		Short: "Parse and validate a policy document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			policy, err := loadPolicyFile(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("policy valid: %d role(s), defaultRole=%q, failSafe=%q\n",
				len(policy.Roles), policy.DefaultRole, policy.FailSafe)
			for _, w := range policy.Warnings {
				fmt.Println("warning:", w)
			}
			return nil
		},
	}
}

func newResolveRoleCmd() *cobra.Command {
	var channel string

	cmd := &cobra.Command{
		Use:   "resolve-role <policy.yaml> <peerId>",
		Short: "Print the role a peer (and optional channel) resolves to",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			policy, err := loadPolicyFile(args[0])
			if err != nil {
				return err
			}
			role := rbac.ResolveRole(policy, args[1], channel, channel != "")
			fmt.Println(role)
			return nil
		},
	}
	cmd.Flags().StringVar(&channel, "channel", "", "channel the peer is messaging on")
	return cmd
}

func newCheckToolCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check-tool <policy.yaml> <role> <tool>",
		Short: "Dry-run a tool access check for a role",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			policy, err := loadPolicyFile(args[0])
			if err != nil {
				return err
			}
			verdict := rbac.CheckToolAccess(policy, args[2], args[1])
			if verdict.Allowed {
				fmt.Println("allowed")
				return nil
			}
			fmt.Println("denied:", verdict.Reason)
			return nil
		},
	}
}
