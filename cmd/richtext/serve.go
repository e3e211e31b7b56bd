package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/xcms-dev/richtext/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	var listen string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := a.cfg.Options()
			if err != nil {
				return err
			}
			if listen == "" {
				listen = a.cfg.Server.Listen
			}
			srv := server.New(server.Config{
				Extensions: a.buildConfig(),
				Options:    opts,
				Logger:     slog.Default(),
			})

			shutdown := make(chan os.Signal, 1)
			signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(shutdown)

			serverErr := make(chan error, 1)
			go func() {
				serverErr <- srv.Listen(listen)
			}()

			select {
			case err := <-serverErr:
				return err
			case sig := <-shutdown:
				slog.Info("received shutdown signal", slog.String("signal", sig.String()))
				return srv.Shutdown()
			}
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "Address to listen on (default from the configuration)")
	return cmd
}
