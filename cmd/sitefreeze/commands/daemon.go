package commands

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	ferrors "git.home.luguber.info/inful/sitefreeze/internal/foundation/errors"
	"git.home.luguber.info/inful/sitefreeze/internal/logfields"
	"git.home.luguber.info/inful/sitefreeze/internal/metrics"
	"git.home.luguber.info/inful/sitefreeze/internal/watch"
)

const shutdownTimeout = 30 * time.Second

// DaemonCmd implements the 'daemon' command.
type DaemonCmd struct {
	Interval    time.Duration `help:"Regeneration interval (defaults to daemon.interval)"`
	MetricsAddr string        `name:"metrics-addr" help:"Listen address for /metrics (defaults to daemon.metrics_addr)"`
}

func (d *DaemonCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(g, root)
	if err != nil {
		return err
	}
	interval := cfg.Interval()
	if d.Interval > 0 {
		interval = d.Interval
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	reg := prom.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	rec := metrics.NewPrometheusRecorder(reg)

	s, err := openSinks(cfg, rec)
	if err != nil {
		return err
	}
	defer s.Close()

	var srv *http.Server
	if addr := firstNonEmpty(d.MetricsAddr, cfg.Daemon.MetricsAddr); addr != "" {
		srv, err = serveMetrics(addr, reg)
		if err != nil {
			return err
		}
	}

	slog.Info("Starting daemon mode", slog.Duration("interval", interval))
	runErr := watch.NewScheduler(interval, regenerator(cfg, s)).Run(ctx)

	if srv != nil {
		stopCtx, stopCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer stopCancel()
		if err := srv.Shutdown(stopCtx); err != nil {
			slog.Warn("Failed to stop metrics server", logfields.Error(err))
		}
	}
	slog.Info("Daemon stopped successfully")
	return runErr
}

func serveMetrics(addr string, reg *prom.Registry) (*http.Server, error) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.HTTPHandler(reg))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Surface bind errors before the first regeneration starts.
	select {
	case err := <-errCh:
		if err != nil {
			return nil, ferrors.WrapError(err, ferrors.CategoryRuntime, "failed to start metrics server").
				WithContext("addr", addr).Build()
		}
	case <-time.After(100 * time.Millisecond):
	}
	slog.Info("Serving metrics", slog.String("addr", addr))
	return srv, nil
}
