// Audit commands read the append-only ledger.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skagerrak-boats/slipway/internal/audit"
	"github.com/skagerrak-boats/slipway/pkg/types"
)

var auditLimit int

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Read the audit ledger",
	Long:  `Audit reads the append-only ledger of business record changes, newest first.`,
}

var auditRecentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Show the most recent audit entries",
	Long: `Recent shows the newest audit entries across all record types.

Example:
  slipway audit recent
  slipway audit recent --limit 50`,
	Args: cobra.NoArgs,
	RunE: runAuditRecent,
}

var auditEntityCmd = &cobra.Command{
	Use:   "entity <type> <id>",
	Short: "Show the audit history of one record",
	Long: `Entity shows every ledger entry touching the given record, newest first.

Example:
  slipway audit entity client abc123
  slipway audit entity project def456`,
	Args: cobra.ExactArgs(2),
	RunE: runAuditEntity,
}

func init() {
	auditRecentCmd.Flags().IntVar(&auditLimit, "limit", 20, "maximum entries to show")
	auditCmd.AddCommand(auditRecentCmd)
	auditCmd.AddCommand(auditEntityCmd)
}

func runAuditRecent(cmd *cobra.Command, args []string) error {
	ledger := audit.NewLedger(backend)
	entries, err := ledger.Recent(auditLimit)
	if err != nil {
		return fmt.Errorf("read audit ledger: %w", err)
	}
	return printEntries(entries)
}

func runAuditEntity(cmd *cobra.Command, args []string) error {
	ledger := audit.NewLedger(backend)
	entries, err := ledger.ByEntity(args[0], args[1])
	if err != nil {
		return fmt.Errorf("read audit ledger: %w", err)
	}
	return printEntries(entries)
}

// printEntries outputs ledger entries, honoring --json.
func printEntries(entries []*types.AuditEntry) error {
	if flagJSON {
		return printJSON(entries)
	}
	for _, e := range entries {
		fmt.Printf("%s  %-17s  %s %s  by %s\n",
			e.CreatedAt.Format(timestampFormat), e.Action, e.EntityType, e.EntityID, e.UserName)
		if e.Description != "" {
			fmt.Printf("    %s\n", e.Description)
		}
	}
	fmt.Printf("%d entr%s\n", len(entries), plural(len(entries), "y", "ies"))
	return nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
