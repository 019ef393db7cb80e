// File: cmd/analyze.go
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/autoapply/autoapply-cli/api/schemas"
	"github.com/autoapply/autoapply-cli/internal/agent"
	"github.com/autoapply/autoapply-cli/internal/observability"
)

var analyzeFlags pageFlags

var analyzeCmd = &cobra.Command{
	Use:   "analyze [url]",
	Short: "Extract the job description from a page and analyze it",
	Long: `Analyze locates the job description block on the page, converts it to
markdown and, when a session token is available, submits it to the
backend for parsing. Without a token the extracted markdown itself is
the result.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		req, err := analyzeFlags.buildRequest(ctx, schemas.ActionAnalyzePage, args)
		if err != nil {
			return err
		}

		opener := agent.NewLazyOpener(&cfg, observability.GetLogger())
		defer opener.Shutdown()
		a := agent.New(&cfg, observability.GetLogger(), agent.WithOpener(opener))

		resp := a.Handle(ctx, req)
		if !resp.Success {
			return fmt.Errorf("%s", resp.Error)
		}
		fmt.Println(string(resp.Analysis))
		return nil
	},
}

func init() {
	registerPageFlags(analyzeCmd, &analyzeFlags)
	rootCmd.AddCommand(analyzeCmd)
}
