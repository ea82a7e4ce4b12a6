package cmd_tree

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rskv-p/htree/pkg/x_cfg"
	"github.com/rskv-p/htree/pkg/x_log"
	"github.com/rskv-p/htree/servs/s_tree/tree_api"
	"github.com/rskv-p/htree/servs/s_tree/tree_serv"

	"github.com/spf13/cobra"
)

const defaultTokenTTL = 24 * time.Hour

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a shared tree over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := x_cfg.Load(configPath)
		if err != nil {
			return err
		}
		x_log.InitWithConfig(&cfg.Log, "htree")

		store := tree_serv.New(cfg.RootKey, x_log.New("tree_serv"))
		srv := &http.Server{
			Addr: cfg.HTTPAddress,
			Handler: tree_api.NewRouter(store, tree_api.Options{
				JWTSecret: cfg.JWTSecret,
				MaxBody:   cfg.MaxBody,
				Log:       x_log.New("tree_api"),
			}),
			ReadHeaderTimeout: 10 * time.Second,
		}
		if cfg.JWTSecret == "" {
			x_log.Warn().Msg("jwt_secret is empty, mutating routes are open")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			x_log.Info().Str("addr", cfg.HTTPAddress).Msg("REST API listening")
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case <-ctx.Done():
		}

		x_log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			x_log.Error().Err(err).Msg("shutdown")
			return err
		}
		return nil
	},
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Print a bearer token for the configured secret",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := x_cfg.Load(configPath)
		if err != nil {
			return err
		}
		if cfg.JWTSecret == "" {
			return fmt.Errorf("jwt_secret is not configured")
		}
		subject, _ := cmd.Flags().GetString("subject")
		ttl, _ := cmd.Flags().GetDuration("ttl")
		if ttl <= 0 {
			ttl = defaultTokenTTL
		}
		tok, err := tree_api.IssueToken(cfg.JWTSecret, subject, ttl)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), tok)
		return nil
	},
}
