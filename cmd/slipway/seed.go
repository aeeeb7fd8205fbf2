// Seed command populates an empty store with the standard catalog.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skagerrak-boats/slipway/internal/audit"
	"github.com/skagerrak-boats/slipway/internal/seed"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the standard catalog structure",
	Long: `Seed populates an empty store with the standard category tree and
initial staff roles. Namespaces that already hold records are left
untouched, so running seed twice is safe.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ledger := audit.NewLedger(backend)
		if err := seed.Run(backend, ledger); err != nil {
			return fmt.Errorf("seed store: %w", err)
		}
		fmt.Println("Seed complete")
		return nil
	},
}
