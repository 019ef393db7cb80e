// File: cmd/fill.go
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/autoapply/autoapply-cli/api/schemas"
	"github.com/autoapply/autoapply-cli/internal/agent"
	"github.com/autoapply/autoapply-cli/internal/observability"
)

var fillFlags pageFlags

var fillCmd = &cobra.Command{
	Use:   "fill [url]",
	Short: "Fill the form on a page from your profile, without clicking anything",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		req, err := fillFlags.buildRequest(ctx, schemas.ActionFillForm, args)
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
		if fillFlags.asJSON {
			return printJSON(resp)
		}
		printFillSummary(resp)
		return nil
	},
}

func init() {
	registerPageFlags(fillCmd, &fillFlags)
	rootCmd.AddCommand(fillCmd)
}

// registerPageFlags wires the shared page/auth flags onto an action command.
func registerPageFlags(cmd *cobra.Command, f *pageFlags) {
	cmd.Flags().StringVar(&f.htmlFile, "html-file", "", "fill a saved HTML file instead of a live page")
	cmd.Flags().StringVar(&f.token, "token", "", "bearer token (defaults to the stored session)")
	cmd.Flags().StringVar(&f.userID, "user-id", "", "profile id (defaults to the token claims)")
	cmd.Flags().StringVar(&f.email, "email", "", "email override for email fields")
	cmd.Flags().StringVar(&f.mockFile, "mock-profile", "", "JSON profile file, bypasses the backend")
	cmd.Flags().StringVar(&f.apiURL, "api-url", "", "backend base URL override")
	cmd.Flags().BoolVar(&f.asJSON, "json", false, "print the raw response as JSON")
}
