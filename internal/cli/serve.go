package cli

import (
	"github.com/spf13/cobra"
)

func newServeCmd(rt *runtime) *cobra.Command {
	var stdio bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the server in the configured transport mode",
		Long: `Run the dashboard server until interrupted.

The transport comes from transport.mode (RBM_TRANSPORT): "http" serves the
API, "stdio" serves MCP on stdin/stdout. --stdio forces stdio mode. Logs
always go to stderr.

Examples:
  rbmctl serve
  rbmctl serve --stdio`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if stdio {
				return rt.app.ServeStdio(cmd.Context())
			}
			return rt.app.Run(cmd.Context())
		},
	}

	cmd.Flags().BoolVar(&stdio, "stdio", false, "serve MCP over stdin/stdout")
	return cmd
}
