package main

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var (
	queryFilters []string
	queryLimit   int
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Run an equality-filter query directly, without a model call",
	Example: `  dummymcp query --filter country_name=Japan
  dummymcp query --filter country_name=Japan --filter date=2024-01-01 --limit 10`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		filters := make(map[string]any, len(queryFilters))
		for _, f := range queryFilters {
			name, value, ok := strings.Cut(f, "=")
			if !ok {
				return eris.New(fmt.Sprintf("invalid --filter %q, expected name=value", f))
			}
			filters[name] = value
		}

		env, err := initAsk(ctx, false, true)
		if err != nil {
			return err
		}
		defer env.Close()

		ans, err := env.Service.Query(ctx, filters, queryLimit)
		if err != nil {
			return err
		}

		return printJSON(cmd.OutOrStdout(), ans)
	},
}

func init() {
	queryCmd.Flags().StringArrayVar(&queryFilters, "filter", nil, "equality filter as name=value (repeatable)")
	queryCmd.Flags().IntVar(&queryLimit, "limit", 0, "row limit, 1-30 (default from config)")
	rootCmd.AddCommand(queryCmd)
}
