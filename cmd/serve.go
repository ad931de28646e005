package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"ecochampions/events"
	"ecochampions/infrastructure"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the event subscribers and the metrics and health endpoints",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	log.Info("Starting ecochampions...")

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	// Business operations run in short-lived CLI processes; their events
	// reach this process only through NATS.
	forwarded := events.NewBus()
	infrastructure.NewMetrics(prometheus.DefaultRegisterer).Subscribe(forwarded)

	if a.nats != nil {
		subscriber := infrastructure.NewNATSEventSubscriber(a.nats, a.cfg.NATSSubject, forwarded)
		if err := subscriber.Start(); err != nil {
			return fmt.Errorf("failed to subscribe to forwarded events: %w", err)
		}
	} else {
		log.Warn("NATS_SERVERS is not set, ledger metrics will stay at zero")
	}

	server := &http.Server{
		Addr:              a.cfg.HTTPAddr,
		Handler:           newOpsRouter(a),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", server.Addr).Info("Ops server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	log.WithField("environment", a.cfg.Environment).Info("Ecochampions is running")

	select {
	case <-ctx.Done():
		log.Info("Received shutdown signal, shutting down gracefully...")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("ops server failed: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("Ops server shutdown timed out")
	}

	log.Info("Shutdown completed")
	return nil
}

func newOpsRouter(a *app) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := a.db.Ping(ctx); err != nil {
			log.WithError(err).Warn("Health check failed")
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	return r
}
