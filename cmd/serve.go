// File: cmd/serve.go
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/autoapply/autoapply-cli/internal/agent"
	"github.com/autoapply/autoapply-cli/internal/bridge"
	"github.com/autoapply/autoapply-cli/internal/observability"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the local HTTP bridge",
	Long: `Serve exposes the actions over HTTP at POST /v1/actions/{action} for
editor plugins and scripts. No reviewer is attached on this surface, so
auto-apply requests come back staged: the fill report and ranked
candidates are returned and nothing is clicked.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if serveAddr != "" {
			cfg.Bridge.Addr = serveAddr
		}
		logger := observability.GetLogger()

		opener := agent.NewLazyOpener(&cfg, logger)
		defer opener.Shutdown()
		a := agent.New(&cfg, logger, agent.WithOpener(opener))

		srv := bridge.NewServer(cfg.Bridge, a, logger)
		return srv.ListenAndServe(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
	rootCmd.AddCommand(serveCmd)
}
