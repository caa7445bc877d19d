package pprof

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/xinsproject/servicecall/log"
)

const (
	// ProfilingIndexEndpoint the endpoint for exposing the profiling metrics
	ProfilingIndexEndpoint = "/debug/pprof/"
	// ProfileEndpoint the endpoint for exposing the profile of the profiling metrics
	ProfileEndpoint = "/debug/pprof/profile"
	// ProfilingCmdEndpoint the endpoint for exposing the command-line of profiling metrics
	ProfilingCmdEndpoint = "/debug/pprof/cmdline"
	// ProfilingSymbolEndpoint the endpoint for exposing the symbol of profiling metrics
	ProfilingSymbolEndpoint = "/debug/pprof/symbol"
	// ProfilingTraceEndpoint the endpoint for exposing the trace of profiling metrics
	ProfilingTraceEndpoint = "/debug/pprof/trace"

	profilingServerTimeout = 2 * time.Minute
	shutdownTimeout        = 5 * time.Second
)

// StartProfilingHTTPServer serves the pprof endpoints until ctx is done
func StartProfilingHTTPServer(ctx context.Context, c Config) error {
	mux := http.NewServeMux()
	lis, err := net.Listen("tcp", c.Address())
	if err != nil {
		return fmt.Errorf("failed to create tcp listener for profiling: %w", err)
	}
	mux.HandleFunc(ProfilingIndexEndpoint, pprof.Index)
	mux.HandleFunc(ProfileEndpoint, pprof.Profile)
	mux.HandleFunc(ProfilingCmdEndpoint, pprof.Cmdline)
	mux.HandleFunc(ProfilingSymbolEndpoint, pprof.Symbol)
	mux.HandleFunc(ProfilingTraceEndpoint, pprof.Trace)
	profilingServer := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: profilingServerTimeout,
		ReadTimeout:       profilingServerTimeout,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := profilingServer.Shutdown(shutdownCtx); err != nil {
			log.Errorf("profiling server shutdown error: %v", err)
		}
	}()

	log.Infof("profiling server listening on %s", lis.Addr())
	if err := profilingServer.Serve(lis); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			log.Warnf("http server for profiling stopped")
			return nil
		}
		return fmt.Errorf("closed http connection for profiling server: %w", err)
	}
	return nil
}
