package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/lawnchairsociety/dungeongen/internal/database"
	"github.com/lawnchairsociety/dungeongen/internal/logger"
	"github.com/lawnchairsociety/dungeongen/internal/server"
)

func serveCmd(opts *options) *cobra.Command {
	var (
		addr      string
		noArchive bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the generation HTTP API and websocket stream",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if addr != "" {
				opts.cfg.Server.Addr = addr
			}
			if err := opts.cfg.Validate(); err != nil {
				return err
			}

			var db *database.Database
			if !noArchive {
				var err error
				if db, err = opts.openArchive(); err != nil {
					return err
				}
				defer db.Close()
			}

			srv := server.NewServer(opts.cfg, db)

			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.Start(opts.cfg.Server.Addr)
			}()

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(sigChan)

			select {
			case err := <-errCh:
				return err
			case sig := <-sigChan:
				logger.Info("Shutting down", "signal", sig.String())
			}

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(ctx)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (default: from config)")
	cmd.Flags().BoolVar(&noArchive, "no-archive", false, "Run without the layout archive")
	return cmd
}
