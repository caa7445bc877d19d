package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"
	"github.com/xinsproject/servicecall"
	"github.com/xinsproject/servicecall/caller/metrics"
	"github.com/xinsproject/servicecall/config"
	"github.com/xinsproject/servicecall/descriptor"
	"github.com/xinsproject/servicecall/healthcheck"
	"github.com/xinsproject/servicecall/introspection"
	"github.com/xinsproject/servicecall/journal"
	"github.com/xinsproject/servicecall/log"
	"github.com/xinsproject/servicecall/pprof"
	"github.com/xinsproject/servicecall/prometheus"
	"golang.org/x/sync/errgroup"
)

const metricsServerTimeout = 10 * time.Second

func start(cliCtx *cli.Context) error {
	cfg, err := loadConfig(cliCtx)
	if err != nil {
		return err
	}

	if cfg.Log.Environment == log.EnvironmentDevelopment {
		servicecall.PrintVersion(os.Stdout)
		log.Info("Starting application")
	} else if cfg.Log.Environment == log.EnvironmentProduction {
		logVersion()
	}

	if cfg.Prometheus.Enabled {
		prometheus.Init()
		metrics.Register()
	}

	descriptors, err := cfg.Descriptors.Build()
	if err != nil {
		return err
	}
	log.Infof("built %d descriptors", len(descriptors))

	ctx, cancel := context.WithCancel(cliCtx.Context)
	defer cancel()
	go waitSignal([]context.CancelFunc{cancel})

	callJournal, err := openJournal(ctx, cfg.Journal, descriptors)
	if err != nil {
		return err
	}
	if callJournal != nil {
		defer callJournal.Close()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-gctx.Done()
		return nil
	})

	if cfg.Prometheus.Enabled {
		g.Go(func() error {
			return startPrometheusHTTPServer(gctx, cfg.Prometheus)
		})
	} else {
		log.Info("Prometheus metrics server is disabled")
	}

	if cfg.Profiling.ProfilingEnabled {
		g.Go(func() error {
			return pprof.StartProfilingHTTPServer(gctx, cfg.Profiling)
		})
	}

	if cfg.Introspection.Enabled {
		health := healthcheck.NewHealthCheckHandler(log.WithFields("module", "healthcheck"))
		var jr introspection.CallJournal
		if callJournal != nil {
			health.AddCheck("journal", callJournal.Ping)
			jr = callJournal
		}
		svc := introspection.New(&introspection.Config{
			Logger:       log.WithFields("module", "introspection"),
			ReadTimeout:  cfg.Introspection.ReadTimeout.Duration,
			WriteTimeout: cfg.Introspection.WriteTimeout.Duration,
		}, descriptors, jr, health)
		g.Go(func() error {
			return svc.Start(gctx, cfg.Introspection.Address())
		})
	} else {
		log.Info("Introspection service is disabled")
	}

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("application stopped")
	return nil
}

// loadConfig loads and validates the configuration and initializes the logger
func loadConfig(cliCtx *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(cliCtx)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log.Init(cfg.Log)
	return cfg, nil
}

// openJournal returns nil when the journal is disabled
func openJournal(ctx context.Context, cfg journal.Config,
	descriptors map[string]descriptor.Descriptor) (*journal.Journal, error) {
	if !cfg.Enabled {
		log.Info("call journal is disabled")
		return nil, nil
	}
	j, err := journal.New(cfg, log.WithFields("module", "journal"))
	if err != nil {
		return nil, err
	}
	if err := j.CheckTopology(ctx, descriptors); err != nil {
		_ = j.Close()
		return nil, err
	}
	return j, nil
}

func logVersion() {
	log.Infow("Starting application",
		// version is already logged by default
		"gitRevision", servicecall.GitRev,
		"gitBranch", servicecall.GitBranch,
		"goVersion", runtime.Version(),
		"built", servicecall.BuildDate,
		"os/arch", fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	)
}

func waitSignal(cancelFuncs []context.CancelFunc) {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(signals)

	sig := <-signals
	log.Infof("received %s, terminating application gracefully...", sig)
	for _, cancel := range cancelFuncs {
		cancel()
	}
}

func startPrometheusHTTPServer(ctx context.Context, c prometheus.Config) error {
	mux := http.NewServeMux()
	lis, err := net.Listen("tcp", c.Address())
	if err != nil {
		return fmt.Errorf("failed to create tcp listener for metrics: %w", err)
	}
	mux.Handle(prometheus.Endpoint, prometheus.Handler())

	metricsServer := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: metricsServerTimeout,
		ReadTimeout:       metricsServerTimeout,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), metricsServerTimeout)
		defer cancel()
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			log.Errorf("prometheus server shutdown error: %v", err)
		}
	}()

	log.Infof("prometheus server listening on port %d", c.Port)
	if err := metricsServer.Serve(lis); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			log.Warnf("prometheus http server stopped")
			return nil
		}
		return fmt.Errorf("closed http connection for prometheus server: %w", err)
	}
	return nil
}
