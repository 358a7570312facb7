package serve

import (
	"github.com/spf13/cobra"
	"os/signal"
	"syscall"
	"wipeit/internal/cleaner"
	"wipeit/internal/cli/common"
	"wipeit/internal/connectors"
	"wipeit/internal/env"
	"wipeit/internal/server"
)

var ListenAddr string

var Serve = &cobra.Command{
	Use:   "serve [flags]",
	Short: "Serve the inventory and deletion http api",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := common.ValidateProvider(); err != nil {
			return err
		}
		addr := ListenAddr
		if addr == "" {
			addr = env.Config.ListenAddr
		}

		s := server.New(connectors.GetAWSSession, cleaner.DefaultRegistry(common.CleanerOptions()))
		if env.Config.Workers > 0 {
			s.Workers = env.Config.Workers
		}
		s.Retry = common.RetryPolicy()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return s.ListenAndServe(ctx, addr)
	},
	SilenceUsage: true,
}

func init() {
	Serve.Flags().StringVarP(&ListenAddr, "listen", "l", "", "Listen address (default from config, 127.0.0.1:8080)")
}
