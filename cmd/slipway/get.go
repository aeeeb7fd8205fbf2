// Get command retrieves a record by ID from a namespace.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get <namespace> <id>",
	Short: "Get a record by ID",
	Long: `Get retrieves a record from the specified namespace by its ID.

Example:
  slipway get clients abc123
  slipway get projects def456`,
	Args: cobra.ExactArgs(2),
	RunE: runGet,
}

func runGet(cmd *cobra.Command, args []string) error {
	namespace := args[0]
	id := args[1]

	if err := checkNamespace(namespace); err != nil {
		return err
	}

	record, ok, err := backend.Get(namespace, id)
	if err != nil {
		return fmt.Errorf("get record: %w", err)
	}
	if !ok {
		return fmt.Errorf("record %q not found in namespace %q", id, namespace)
	}

	return printRecord(record)
}

var countCmd = &cobra.Command{
	Use:   "count <namespace> [filter...]",
	Short: "Count records matching an optional filter",
	Long: `Count reports how many records in the namespace match the filter.

Example:
  slipway count clients
  slipway count projects status=active`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCount,
}

func runCount(cmd *cobra.Command, args []string) error {
	namespace := args[0]
	if err := checkNamespace(namespace); err != nil {
		return err
	}

	filter, err := parseFilterArgs(args[1:])
	if err != nil {
		return err
	}

	n, err := backend.Count(namespace, filter)
	if err != nil {
		return fmt.Errorf("count records: %w", err)
	}

	fmt.Println(n)
	return nil
}
