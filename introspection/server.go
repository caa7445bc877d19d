// Package introspection serves a read-only admin API over the configured
// descriptors and the call journal.
package introspection

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xinsproject/servicecall"
	"github.com/xinsproject/servicecall/descriptor"
	"github.com/xinsproject/servicecall/healthcheck"
	"github.com/xinsproject/servicecall/journal"
	"github.com/xinsproject/servicecall/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const (
	meterName = "github.com/xinsproject/servicecall/introspection"

	nameParam        = "name"
	fingerprintParam = "fingerprint"
	limitParam       = "limit"

	// MaxCallsLimit bounds the limit query parameter of /calls
	MaxCallsLimit = 1000
)

type Config struct {
	Logger       *log.Logger
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Service exposes the descriptors and the call journal over HTTP
type Service struct {
	logger       *log.Logger
	meter        metric.Meter
	readTimeout  time.Duration
	writeTimeout time.Duration
	descriptors  map[string]descriptor.Descriptor
	journal      CallJournal
	health       *healthcheck.HealthCheckHandler

	router *gin.Engine
}

// New returns an instance of Service. callJournal may be nil, /calls then answers 404.
func New(cfg *Config, descriptors map[string]descriptor.Descriptor,
	callJournal CallJournal, health *healthcheck.HealthCheckHandler) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = log.WithFields("module", "introspection")
	}
	if health == nil {
		health = healthcheck.NewHealthCheckHandler(logger)
	}
	logger.Infof("starting introspection service (%d descriptors)", len(descriptors))

	s := &Service{
		logger:       logger,
		meter:        otel.Meter(meterName),
		readTimeout:  cfg.ReadTimeout,
		writeTimeout: cfg.WriteTimeout,
		descriptors:  descriptors,
		journal:      callJournal,
		health:       health,
		router:       gin.New(),
	}
	s.router.Use(gin.Recovery())
	s.registerRoutes()
	return s
}

func (s *Service) registerRoutes() {
	s.router.GET("/health", gin.WrapH(s.health))
	s.router.GET("/version", s.GetVersionHandler)
	s.router.GET("/descriptors", s.GetDescriptorsHandler)
	s.router.GET("/descriptors/:name", s.GetDescriptorHandler)
	s.router.GET("/descriptors/:name/order", s.GetOrderHandler)
	s.router.GET("/descriptors/:name/targets/:fingerprint", s.GetTargetHandler)
	s.router.GET("/calls", s.GetCallsHandler)
}

// Handler returns the router, mostly for tests
func (s *Service) Handler() http.Handler {
	return s.router
}

// Start serves on address until ctx is done
func (s *Service) Start(ctx context.Context, address string) error {
	srv := &http.Server{
		Addr:         address,
		Handler:      s.router,
		ReadTimeout:  s.readTimeout,
		WriteTimeout: s.writeTimeout,
	}

	errC := make(chan error, 1)
	go func() {
		s.logger.Infof("introspection service listening on %s", address)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errC <- err
		}
	}()

	select {
	case err := <-errC:
		return fmt.Errorf("introspection listen error: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down introspection service...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), max(s.readTimeout, time.Second))
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Errorf("server shutdown error: %v", err)
		return err
	}
	s.logger.Info("introspection service exited gracefully")
	return nil
}

// GetVersionHandler returns the build information
func (s *Service) GetVersionHandler(c *gin.Context) {
	c.JSON(http.StatusOK, servicecall.GetVersion())
}

// GetDescriptorsHandler lists the descriptors sorted by name
func (s *Service) GetDescriptorsHandler(c *gin.Context) {
	s.count(c, "get_descriptors")
	names := make([]string, 0, len(s.descriptors))
	for name := range s.descriptors {
		names = append(names, name)
	}
	slices.Sort(names)
	result := make([]DescriptorSummary, 0, len(names))
	for _, name := range names {
		d := s.descriptors[name]
		result = append(result, DescriptorSummary{Name: name, Kind: kindOf(d), TargetCount: d.TargetCount()})
	}
	c.JSON(http.StatusOK, result)
}

// GetDescriptorHandler returns the tree of a descriptor
func (s *Service) GetDescriptorHandler(c *gin.Context) {
	s.count(c, "get_descriptor")
	d, ok := s.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, NewDescriptorNode(d, 0))
}

// GetOrderHandler draws one iteration order of a descriptor
func (s *Service) GetOrderHandler(c *gin.Context) {
	s.count(c, "get_order")
	d, ok := s.lookup(c)
	if !ok {
		return
	}
	result := OrderResult{Descriptor: c.Param(nameParam), Targets: make([]*TargetView, 0, d.TargetCount())}
	for t := range d.IterateTargets() {
		result.Targets = append(result.Targets, newTargetView(t))
	}
	c.JSON(http.StatusOK, result)
}

// GetTargetHandler finds a target of a descriptor by its hex fingerprint
func (s *Service) GetTargetHandler(c *gin.Context) {
	s.count(c, "get_target")
	d, ok := s.lookup(c)
	if !ok {
		return
	}
	crc, err := strconv.ParseUint(c.Param(fingerprintParam), 16, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid fingerprint: %s", err)})
		return
	}
	target := d.TargetByFingerprint(uint32(crc))
	if target == nil {
		c.JSON(http.StatusNotFound,
			gin.H{"error": fmt.Sprintf("no target with fingerprint %08x in %s", crc, c.Param(nameParam))})
		return
	}
	c.JSON(http.StatusOK, newTargetView(target))
}

// GetCallsHandler returns the latest journaled calls
func (s *Service) GetCallsHandler(c *gin.Context) {
	s.count(c, "get_calls")
	if s.journal == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "call journal is disabled"})
		return
	}
	limit := 0
	if raw := c.Query(limitParam); raw != "" {
		var err error
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 || limit > MaxCallsLimit {
			c.JSON(http.StatusBadRequest,
				gin.H{"error": fmt.Sprintf("%s must be between 0 and %d", limitParam, MaxCallsLimit)})
			return
		}
	}

	ctx, cancel := context.WithTimeout(c, max(s.readTimeout, time.Second))
	defer cancel()
	calls, err := s.journal.RecentCalls(ctx, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("failed to get calls: %s", err)})
		return
	}
	if calls == nil {
		calls = []*journal.CallRow{}
	}
	c.JSON(http.StatusOK, calls)
}

func (s *Service) lookup(c *gin.Context) (descriptor.Descriptor, bool) {
	name := c.Param(nameParam)
	d, ok := s.descriptors[name]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("unknown descriptor %s", name)})
	}
	return d, ok
}

func (s *Service) count(c *gin.Context, counterName string) {
	counter, err := s.meter.Int64Counter(counterName)
	if err != nil {
		s.logger.Warnf("failed to create %s counter: %s", counterName, err)
		return
	}
	counter.Add(c, 1)
}
