// File: cmd/apply.go
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/autoapply/autoapply-cli/api/schemas"
	"github.com/autoapply/autoapply-cli/internal/agent"
	"github.com/autoapply/autoapply-cli/internal/observability"
	"github.com/autoapply/autoapply-cli/internal/review"
)

var applyFlags pageFlags

var applyCmd = &cobra.Command{
	Use:     "apply [url]",
	Aliases: []string{"auto-apply"},
	Short:   "Fill the form, then review and submit under your control",
	Long: `Apply runs the fill pass, ranks the page's action buttons and opens the
review gate in the terminal. Filled fields stay highlighted in the
browser while you inspect them. Nothing is ever clicked until you
explicitly confirm the review and proceed; required fields are
re-checked against the live page at that moment.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		req, err := applyFlags.buildRequest(ctx, schemas.ActionAutoApplySupervised, args)
		if err != nil {
			return err
		}

		logger := observability.GetLogger()
		opener := agent.NewLazyOpener(&cfg, logger)
		defer opener.Shutdown()

		prompter := review.NewConsolePrompter(os.Stdin, os.Stdout, logger)
		a := agent.New(&cfg, logger,
			agent.WithOpener(opener),
			agent.WithPrompter(prompter),
		)

		resp := a.Handle(ctx, req)
		if !resp.Success {
			return fmt.Errorf("%s", resp.Error)
		}
		if applyFlags.asJSON {
			return printJSON(resp)
		}
		if len(resp.Candidates) == 0 {
			printFillSummary(resp)
			fmt.Println("No action buttons found; the form was filled but nothing can be submitted.")
		}
		return nil
	},
}

func init() {
	registerPageFlags(applyCmd, &applyFlags)
	rootCmd.AddCommand(applyCmd)
}
