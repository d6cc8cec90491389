package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"wildperudo/communication"
)

var serveFlags struct {
	addr string
}

// serveCmd exposes games over HTTP
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve games over HTTP",
	Long: `Routes:
  POST /games?a=kind&b=kind[&seed=n]      create a game and start round 1, one kind may be human
  POST /games/{id}/turn                   play one automated turn
  POST /games/{id}/bid?count=n&face=f     the human bids
  POST /games/{id}/challenge?challenge=y  the human challenges (n declines)
  GET  /games/{id}/state                  current snapshot`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		override(cmd, "addr", &cfg.Addr, serveFlags.addr)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		server := communication.NewServer(cfg.Rounds, cfg.Dice, cfg.AgentOptions()...)
		return server.ListenAndServe(ctx, cfg.Addr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveFlags.addr, "addr", "", "listen address, overrides PERUDO_ADDR")
	rootCmd.AddCommand(serveCmd)
}
