package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"barkboard/internal/server"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the message board over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := newLogger()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		cfg, err := loadConfig(log)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.Service.HTTPPort = servePort
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		st, err := buildStack(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer st.Close(log)

		apiServer, err := server.NewServer(cfg, st.client, st.provider, st.grants, log.Named("server"))
		if err != nil {
			return err
		}

		go func() {
			if err := apiServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("server stopped", zap.Error(err))
				stop()
			}
		}()

		<-ctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Service.ShutdownTimeout)
		defer cancel()
		return apiServer.Shutdown(shutdownCtx)
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 3000, "HTTP port (overrides API_HTTP_PORT)")
}
