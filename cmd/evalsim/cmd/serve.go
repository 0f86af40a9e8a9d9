package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rustyeddy/evalsim/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the simulator over HTTP",
	Long: `Start the HTTP API. Routes live under /api; Prometheus metrics are on /metrics.

Example:
  evalsim serve --addr :9090`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var serveAddr string

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	sess, err := openSession()
	if err != nil {
		return err
	}
	defer sess.Close()

	addr := serveAddr
	if addr == "" {
		addr = sess.cfg.Server.Addr
	}
	if sess.cfg.Log.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Warm the state so a bad blob is reported at startup.
	st := sess.store.Load(ctx)

	srv := &http.Server{
		Addr:         addr,
		Handler:      api.NewRouter(&api.Handler{Store: sess.store, Logger: sess.log}),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		sess.log.Info("listening", zap.String("addr", addr), zap.Int("accounts", len(st.Accounts)))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	sess.log.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}
