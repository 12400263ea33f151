package commands

import (
	"net"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/vsinha/kitchen/pkg/interfaces/httpapi"
)

func newServeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return withKitchen(ctx, opts, func(k *kitchen) error {
				handler := httpapi.NewHandler(k.consumptionService(), k.maintenanceService(), k.logger)
				router := httpapi.NewRouter(handler, k.cfg.Server.AllowedOrigins, k.logger)

				server := httpapi.NewServer(httpapi.ServerConfig{
					Addr:            net.JoinHostPort("", k.cfg.Server.Port),
					ReadTimeout:     time.Duration(k.cfg.Server.ReadTimeout) * time.Second,
					WriteTimeout:    time.Duration(k.cfg.Server.WriteTimeout) * time.Second,
					ShutdownTimeout: time.Duration(k.cfg.Server.ShutdownTimeout) * time.Second,
				}, router, k.logger)
				return server.Run(ctx)
			})
		},
	}
}
