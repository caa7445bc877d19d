// Package probe checks which targets of a descriptor accept TCP connections.
// No application payload is sent.
package probe

import (
	"context"
	"fmt"
	"net"
	"net/url"

	"github.com/xinsproject/servicecall/caller"
	"github.com/xinsproject/servicecall/descriptor"
	"github.com/xinsproject/servicecall/log"
	"golang.org/x/sync/errgroup"
)

var defaultPorts = map[string]string{
	"http":  "80",
	"https": "443",
}

// Prober is a caller.TargetCaller that dials the host and port of the target
// and returns the remote address
type Prober struct {
	dialer *net.Dialer
	logger *log.Logger
}

var _ caller.TargetCaller = (*Prober)(nil)

func New(cfg Config, logger *log.Logger) *Prober {
	if logger == nil {
		logger = log.WithFields("module", "probe")
	}
	return &Prober{
		dialer: &net.Dialer{Timeout: cfg.DialTimeout.Duration},
		logger: logger,
	}
}

func (p *Prober) CallTarget(ctx context.Context, target *descriptor.TargetDescriptor, _ any) (any, error) {
	address, err := HostPort(target.URL())
	if err != nil {
		return nil, caller.NewFailureInfo(caller.KindError, err.Error(), err)
	}
	conn, err := p.dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, err
	}
	defer conn.Close()
	p.logger.Debugf("connected to %s (%s)", address, conn.RemoteAddr())
	return conn.RemoteAddr().String(), nil
}

// HostPort returns the host:port to dial for a target address
func HostPort(address string) (string, error) {
	u, err := url.Parse(address)
	if err != nil {
		return "", err
	}
	port := u.Port()
	if port == "" {
		var ok bool
		port, ok = defaultPorts[u.Scheme]
		if !ok {
			return "", fmt.Errorf("no port in %s and no default port for scheme %s", address, u.Scheme)
		}
	}
	return net.JoinHostPort(u.Hostname(), port), nil
}

// Report is the outcome of one probe call
type Report struct {
	Call   int
	Result *caller.CallResult
	Err    error
}

// Run makes calls rounds through sc, at most cfg.Concurrency at the same time.
// Failed calls are reported, they do not stop the run. When ctx ends only the
// calls already started are reported.
func Run(ctx context.Context, sc *caller.ServiceCaller, calls int,
	retry caller.RetryConfig, cfg Config) ([]Report, error) {
	reports := make([]Report, calls)
	limiter := NewRateLimit(cfg.RateLimit)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(cfg.Concurrency, 1))
	started := 0
	for i := range calls {
		if err := limiter.Wait(gctx, fmt.Sprintf("probe call %d", i)); err != nil {
			break
		}
		started++
		g.Go(func() error {
			result, err := sc.DoCallWithRetry(gctx, i, retry)
			reports[i] = Report{Call: i, Result: result, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return reports[:started], err
	}
	return reports[:started], ctx.Err()
}
