// Package main provides the slipway CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/skagerrak-boats/slipway/pkg/types"
)

var (
	// configDirFlag is set by the --config-dir flag.
	configDirFlag string

	// dataDirFlag is set by the --data-dir flag.
	dataDirFlag string

	// flagJSON switches command output to JSON.
	flagJSON bool

	// backend is the global storage backend, attached on startup.
	backend types.Backend
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "slipway",
	Short: "Slipway is the business records store for a boat workshop",
	Long: `Slipway stores the business records of a boat-building workshop:
clients, projects, the article and kit catalog with versioned price
snapshots, staff, timesheets, and the audit ledger. Records live in a
local data directory behind a file or SQLite backend.`,
	PersistentPreRunE: openBackend,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeBackend()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDirFlag, "config-dir", "", "config directory (default: platform config dir)")
	rootCmd.PersistentFlags().StringVar(&dataDirFlag, "data-dir", "", "data directory (default: ./.slipway-db)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(countCmd)
	rootCmd.AddCommand(auditCmd)
	rootCmd.AddCommand(seedCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the slipway storage",
	Long:  `Initialize the storage backend and write a default config file on first run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Backend is already attached by PersistentPreRunE.
		fmt.Println("Slipway initialized successfully")
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("slipway v0.1.0")
	},
}

// openBackend loads config and attaches the storage backend.
func openBackend(cmd *cobra.Command, args []string) error {
	// Skip attach for version command
	if cmd.Name() == "version" {
		return nil
	}

	b, err := attachBackend()
	if err != nil {
		return err
	}
	backend = b
	return nil
}

// closeBackend detaches the backend and releases resources.
func closeBackend() error {
	if backend != nil {
		return backend.Detach()
	}
	return nil
}
