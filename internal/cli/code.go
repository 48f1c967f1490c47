package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/example/gatepass/internal/ctxutil"
	"github.com/example/gatepass/internal/ports/primary"
	"github.com/example/gatepass/internal/wire"
)

var issueCmd = &cobra.Command{
	Use:   "issue [visitor|contractor]",
	Short: "Hand out one access code and mark it used",
	Long: `Hand out the first available code of the given type and mark it used.
If none is left, a new batch is generated first. The store is saved afterwards.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := commandContext(cmd)
		adapter := wire.CodeAdapter()
		if err := adapter.Load(ctx, wire.Config().StorePath); err != nil {
			return err
		}
		return adapter.Issue(ctx, args[0])
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all codes in the store",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := commandContext(cmd)
		adapter := wire.CodeAdapter()
		if err := adapter.Load(ctx, wire.Config().StorePath); err != nil {
			return err
		}
		return adapter.List(ctx)
	},
}

var generateCmd = &cobra.Command{
	Use:   "generate [count] [visitor|contractor]",
	Short: "Generate new codes and save them",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		count, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid count %q: %w", args[0], err)
		}

		ctx := commandContext(cmd)
		path := wire.Config().StorePath
		adapter := wire.CodeAdapter()
		if err := adapter.Load(ctx, path); err != nil {
			return err
		}
		return adapter.Generate(ctx, count, args[1], path)
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate [code]",
	Short: "Check a code's format and check digit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.CodeAdapter().Validate(args[0])
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the usage ledger",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		code, _ := cmd.Flags().GetString("code")
		variant, _ := cmd.Flags().GetString("type")
		action, _ := cmd.Flags().GetString("action")
		limit, _ := cmd.Flags().GetInt("limit")

		return wire.CodeAdapter().History(commandContext(cmd), primary.HistoryFilters{
			Code:    code,
			Variant: variant,
			Action:  action,
			Limit:   limit,
		})
	},
}

func init() {
	historyCmd.Flags().String("code", "", "Only entries for this code")
	historyCmd.Flags().String("type", "", "Only entries of this type (visitor, contractor)")
	historyCmd.Flags().String("action", "", "Only entries with this action (generated, issued)")
	historyCmd.Flags().IntP("limit", "n", 20, "Maximum number of entries")
}

// IssueCmd returns the issue command
func IssueCmd() *cobra.Command {
	return issueCmd
}

// ListCmd returns the list command
func ListCmd() *cobra.Command {
	return listCmd
}

// GenerateCmd returns the generate command
func GenerateCmd() *cobra.Command {
	return generateCmd
}

// ValidateCmd returns the validate command
func ValidateCmd() *cobra.Command {
	return validateCmd
}

// HistoryCmd returns the history command
func HistoryCmd() *cobra.Command {
	return historyCmd
}

// commandContext returns the command's context carrying the configured operator.
func commandContext(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if op := wire.Config().Operator; op != "" {
		ctx = ctxutil.WithOperator(ctx, op)
	}
	return ctx
}
