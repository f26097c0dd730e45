package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"matchcore/internal/config"
	"matchcore/internal/dispatcher"
	"matchcore/internal/engine"
	"matchcore/internal/handlers"
	"matchcore/internal/metrics"
	"matchcore/internal/notifier"
	"matchcore/internal/session"
	"matchcore/internal/telemetry"
	"matchcore/internal/transport"
)

func main() {
	configPath := flag.String("config", "./config.yaml", "path to the YAML configuration file")
	envPath := flag.String("env", "", "path to a .env file overriding configuration (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath, *envPath)
	if err != nil {
		os.Stderr.WriteString("matchcore: failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := telemetry.New(cfg.LogLevel)
	root := telemetry.Component(log, "main")

	promReg := prometheus.NewRegistry()
	m := metrics.New(promReg)

	book := engine.NewBook()
	notf := notifier.New(telemetry.Component(log, "notifier"))
	disp := dispatcher.New(book, notf, m, telemetry.Component(log, "dispatcher"), cfg.QueueCapacity)
	reg := session.NewRegistry(cfg.InitialUsers)

	listener, err := transport.Listen(cfg.ListenAddr, cfg.TLSCertFile, cfg.TLSKeyFile)
	if err != nil {
		root.WithError(err).Fatal("failed to bind trading listener")
	}
	srv := transport.NewServer(listener, reg, disp, notf, m, telemetry.Component(log, "transport"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go disp.Run(ctx)

	adminRouter := mux.NewRouter()
	handlers.NewHandler(book).SetupRoutes(adminRouter, promhttp.HandlerFor(promReg, promhttp.HandlerOpts{}))
	adminServer := &http.Server{Addr: cfg.AdminAddr, Handler: adminRouter}

	go func() {
		root.WithField("addr", cfg.AdminAddr).Info("admin HTTP surface listening")
		if err := adminServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			root.WithError(err).Error("admin HTTP surface exited")
		}
	}()

	serveErr := make(chan error, 1)
	go func() {
		root.WithField("addr", cfg.ListenAddr).Info("trading listener accepting connections")
		serveErr <- srv.Serve(ctx)
	}()

	select {
	case <-ctx.Done():
		<-serveErr
	case err := <-serveErr:
		if err != nil {
			root.WithError(err).Error("trading listener exited")
		}
		stop()
	}

	root.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	adminServer.Shutdown(shutdownCtx)

	disp.Shutdown()
	root.Info("shutdown complete")
}
