// List command queries records from a namespace with optional filtering.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skagerrak-boats/slipway/pkg/types"
)

var (
	listOrderBy string
	listDesc    bool
	listLimit   int
	listOffset  int
)

var listCmd = &cobra.Command{
	Use:   "list <namespace> [filter...]",
	Short: "List records with optional filter",
	Long: `List queries records from the specified namespace with optional filters.

Filters are specified as key=value pairs. Multiple filters are ANDed
together. An empty filter returns all records in the namespace. Field
names are the JSON field names of the record type.

Example:
  slipway list clients
  slipway list clients status=active
  slipway list projects client_id=abc123 --order-by created_at --desc
  slipway list articles --order-by code --limit 20`,
	Args: cobra.MinimumNArgs(1),
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVar(&listOrderBy, "order-by", "", "field to sort by")
	listCmd.Flags().BoolVar(&listDesc, "desc", false, "sort descending")
	listCmd.Flags().IntVar(&listLimit, "limit", 0, "maximum records to return (0 = all)")
	listCmd.Flags().IntVar(&listOffset, "offset", 0, "records to skip before the limit applies")
}

func runList(cmd *cobra.Command, args []string) error {
	namespace := args[0]
	if err := checkNamespace(namespace); err != nil {
		return err
	}

	filter, err := parseFilterArgs(args[1:])
	if err != nil {
		return err
	}

	q := types.Query{
		Where:  filter,
		Limit:  listLimit,
		Offset: listOffset,
	}
	if listOrderBy != "" {
		q.OrderBy = &types.OrderBy{Field: listOrderBy, Desc: listDesc}
	}

	records, err := backend.Query(namespace, q)
	if err != nil {
		return fmt.Errorf("query records: %w", err)
	}

	return printRecords(records)
}
