package cli

import (
	"github.com/spf13/cobra"

	"github.com/acheong08/guardian-angel/internal/server"
)

var flagAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web UI",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagAddr, "addr", "", "Listen address (default :$PORT)")
}

func runServe(cmd *cobra.Command, args []string) error {
	svc, cfg, logger, ok := setup(cmd)
	if !ok {
		return nil
	}
	defer logger.Sync()

	addr := flagAddr
	if addr == "" {
		addr = cfg.Addr()
	}

	if err := server.New(svc, logger).ListenAndServe(cmd.Context(), addr); err != nil {
		fail(cmd, err)
	}
	return nil
}
