package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abhisek/outlines/internal/auth"
	"github.com/abhisek/outlines/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the outlines HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Addr = addr
		}
		if err := cfg.ValidateServer(); err != nil {
			return err
		}

		log, err := newLogger(cfg, false)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		defer log.Sync()

		svc, closeStore, err := openService(cfg, log)
		if err != nil {
			return err
		}
		defer closeStore()

		issuer, err := auth.NewIssuer(cfg.JWTSecret, cfg.TokenTTL)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		srv := server.New(svc, issuer, server.Options{
			CORSOrigins: cfg.CORSOrigins,
			Logger:      log,
		})
		log.Info("listening", "addr", cfg.Addr, "catalog_version", svc.Catalog().Version())
		return srv.Run(ctx, cfg.Addr)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides OUTLINES_ADDR)")
}
