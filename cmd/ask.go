package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/azoom-yongrok-choi/dummyMCP/internal/ask"
	"github.com/azoom-yongrok-choi/dummyMCP/internal/extract"
)

var (
	askLimit  int
	askDryRun bool
)

var askCmd = &cobra.Command{
	Use:   `ask "question"`,
	Short: "Answer a natural-language question with dataset rows",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initAsk(ctx, true, !askDryRun)
		if err != nil {
			return err
		}
		defer env.Close()

		var ans *ask.Answer
		if askDryRun {
			ans, err = env.Service.Plan(ctx, args[0], askLimit)
		} else {
			ans, err = env.Service.Ask(ctx, args[0], askLimit)
		}
		if err != nil {
			// Surface the raw model text so the failure can be diagnosed.
			var malformed *extract.MalformedResponseError
			if errors.As(err, &malformed) {
				fmt.Fprintf(cmd.ErrOrStderr(), "model returned unparseable output:\n%s\n", malformed.Raw)
			}
			return err
		}

		return printJSON(cmd.OutOrStdout(), ans)
	},
}

func init() {
	askCmd.Flags().IntVar(&askLimit, "limit", 0, "row limit, 1-30 (default from config)")
	askCmd.Flags().BoolVar(&askDryRun, "dry-run", false, "print the built query without executing it")
	rootCmd.AddCommand(askCmd)
}
