package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/fmuoria/interview-organizer/internal/api"
	"github.com/fmuoria/interview-organizer/internal/logger"
)

const sessionTTL = 12 * time.Hour

var listenAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API",
	RunE:  serve,
}

func init() {
	serveCmd.Flags().StringVar(&listenAddr, "listen", "", "listen address (overrides server.listen)")
	rootCmd.AddCommand(serveCmd)
}

func serve(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := bootstrap("api")
	if err != nil {
		return err
	}
	logg := logger.New("main")

	addr := rt.cfg.Server.Listen
	if listenAddr != "" {
		addr = listenAddr
	}

	gin.SetMode(gin.ReleaseMode)
	server := api.NewServer(rt.roster, rt.dispatcher, rt.settings,
		promhttp.HandlerFor(rt.registry, promhttp.HandlerOpts{}), logger.New("api"))
	if !rt.settings.Get().MailConfigured() {
		logg.Warnf("mail settings are incomplete; sends will fail until PUT /settings")
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := server.Sessions().Expire(sessionTTL); n > 0 {
					logg.Infof("expired %d idle sessions", n)
				}
			}
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		logg.Infof("starting Interview Organizer on %s", addr)
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logg.Infof("shutting down")
	return srv.Shutdown(shutdownCtx)
}
