// Package caller implements fail-over calls over a descriptor tree: the targets
// are tried in the order the descriptor yields them until one succeeds.
package caller

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xinsproject/servicecall/descriptor"
	"github.com/xinsproject/servicecall/log"
)

var (
	// ErrNilDescriptor is returned when creating a ServiceCaller without descriptor
	ErrNilDescriptor = errors.New("service caller requires a descriptor")
	// ErrNilTargetCaller is returned when creating a ServiceCaller without target caller
	ErrNilTargetCaller = errors.New("service caller requires a target caller")

	timeNow = time.Now
)

// TargetCaller performs the actual call to a single target. It is the only
// extension point a transport has to provide.
type TargetCaller interface {
	CallTarget(ctx context.Context, target *descriptor.TargetDescriptor, subject any) (any, error)
}

// TargetCallerFunc adapts a function to a TargetCaller
type TargetCallerFunc func(ctx context.Context, target *descriptor.TargetDescriptor, subject any) (any, error)

func (f TargetCallerFunc) CallTarget(ctx context.Context, target *descriptor.TargetDescriptor,
	subject any) (any, error) {
	return f(ctx, target, subject)
}

// Reasoner renders a short description of a failure for logging
type Reasoner func(f FailureInfo) string

// FailoverPolicy decides whether the next target is tried after target failed
type FailoverPolicy func(target *descriptor.TargetDescriptor, f FailureInfo) bool

// AlwaysFailover tries every target
func AlwaysFailover(*descriptor.TargetDescriptor, FailureInfo) bool {
	return true
}

// StopOn returns a policy that ends the call on the first failure of one of kinds
func StopOn(kinds ...FailureKind) FailoverPolicy {
	return func(_ *descriptor.TargetDescriptor, f FailureInfo) bool {
		for _, k := range kinds {
			if f.Kind == k {
				return false
			}
		}
		return true
	}
}

// ServiceCaller calls a service through the targets of a descriptor. It holds no
// per call state, DoCall can be used concurrently.
type ServiceCaller struct {
	descriptor descriptor.Descriptor
	caller     TargetCaller
	logger     *log.Logger
	reasoner   Reasoner
	failover   FailoverPolicy
	observers  []Observer
}

// Option configures a ServiceCaller
type Option func(*ServiceCaller)

// WithLogger sets the logger, by default the "caller" module logger
func WithLogger(logger *log.Logger) Option {
	return func(c *ServiceCaller) {
		c.logger = logger
	}
}

// WithReasoner overrides how failures are described in the logs
func WithReasoner(r Reasoner) Option {
	return func(c *ServiceCaller) {
		c.reasoner = r
	}
}

// WithObserver adds an observer, can be used several times
func WithObserver(o Observer) Option {
	return func(c *ServiceCaller) {
		c.observers = append(c.observers, o)
	}
}

// WithFailoverPolicy sets the policy applied after each failure
func WithFailoverPolicy(p FailoverPolicy) Option {
	return func(c *ServiceCaller) {
		c.failover = p
	}
}

// NewServiceCaller returns a caller for d that performs the calls with tc
func NewServiceCaller(d descriptor.Descriptor, tc TargetCaller, opts ...Option) (*ServiceCaller, error) {
	if d == nil {
		return nil, ErrNilDescriptor
	}
	if tc == nil {
		return nil, ErrNilTargetCaller
	}
	c := &ServiceCaller{
		descriptor: d,
		caller:     tc,
		logger:     log.WithFields("module", "caller"),
		reasoner:   DefaultReason,
		failover:   AlwaysFailover,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Descriptor returns the descriptor the caller iterates
func (c *ServiceCaller) Descriptor() descriptor.Descriptor {
	return c.descriptor
}

// ReasonFor describes a failure in a few words
func (c *ServiceCaller) ReasonFor(f FailureInfo) string {
	return c.reasoner(f)
}

// DoCall tries the targets of the descriptor in iteration order and returns as
// soon as one succeeds. When none succeeds the error is a *CallFailedError
// listing every target tried. If ctx ends, no further target is tried; when
// it ended before the first attempt, the first target is recorded as canceled.
func (c *ServiceCaller) DoCall(ctx context.Context, subject any) (*CallResult, error) {
	start := timeNow()
	var (
		failedTargets []*descriptor.TargetDescriptor
		failures      []FailureInfo
		position      int
	)

	for target := range c.descriptor.IterateTargets() {
		if err := ctx.Err(); err != nil {
			if len(failedTargets) > 0 {
				c.logger.Warnf("call aborted before trying %s: %s", target.URL(), err)
				break
			}
			failure := FailureInfo{Kind: KindCanceled, Message: err.Error(), Cause: err}
			c.notifyAttempt(ctx, AttemptRecord{Position: position, Target: target, Failure: &failure})
			failedTargets = append(failedTargets, target)
			failures = append(failures, failure)
			c.logger.Warnf("call aborted before trying %s: %s", target.URL(), c.ReasonFor(failure))
			break
		}

		attemptStart := timeNow()
		payload, err := c.attempt(ctx, target, subject)
		record := AttemptRecord{Position: position, Target: target, Duration: timeNow().Sub(attemptStart)}
		if err == nil {
			c.notifyAttempt(ctx, record)
			result := &CallResult{
				SucceededTarget: target,
				Result:          payload,
				FailedTargets:   failedTargets,
				Failures:        failures,
			}
			c.logger.Debugf("call succeeded on %s after %d failed attempt(s)", target.URL(), len(failedTargets))
			elapsed := timeNow().Sub(start)
			for _, o := range c.observers {
				o.OnSuccess(ctx, subject, result, elapsed)
			}
			return result, nil
		}

		failure := Classify(err)
		record.Failure = &failure
		c.notifyAttempt(ctx, record)
		failedTargets = append(failedTargets, target)
		failures = append(failures, failure)
		c.logger.Warnf("call to %s (fingerprint %08x) failed: %s",
			target.URL(), target.Fingerprint(), c.ReasonFor(failure))

		if ctx.Err() != nil {
			break
		}
		if !c.failover(target, failure) {
			c.logger.Infof("fail-over stopped after %s", target.URL())
			break
		}
		position++
	}

	callErr := &CallFailedError{
		Subject:       subject,
		FailedTargets: failedTargets,
		Failures:      failures,
	}
	c.logger.Errorf("call failed on all %d tried target(s)", len(failedTargets))
	elapsed := timeNow().Sub(start)
	for _, o := range c.observers {
		o.OnFailure(ctx, callErr, elapsed)
	}
	return nil, callErr
}

// attempt calls a single target, bounded by its timeout when it has one
func (c *ServiceCaller) attempt(ctx context.Context, target *descriptor.TargetDescriptor,
	subject any) (any, error) {
	if !target.HasTimeout() {
		return c.invoke(ctx, target, subject)
	}

	attemptCtx, cancel := context.WithTimeout(ctx, target.Timeout())
	defer cancel()

	type outcome struct {
		payload any
		err     error
	}
	done := make(chan outcome, 1)
	go func() {
		payload, err := c.invoke(attemptCtx, target, subject)
		done <- outcome{payload: payload, err: err}
	}()

	select {
	case o := <-done:
		return o.payload, o.err
	case <-attemptCtx.Done():
		select {
		case o := <-done:
			return o.payload, o.err
		default:
		}
		if ctx.Err() == nil {
			return nil, FailureInfo{
				Kind:    KindTimeout,
				Message: fmt.Sprintf("no response within %s", target.Timeout()),
				Cause:   attemptCtx.Err(),
			}
		}
		return nil, ctx.Err()
	}
}

func (c *ServiceCaller) invoke(ctx context.Context, target *descriptor.TargetDescriptor,
	subject any) (payload any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = FailureInfo{Kind: KindPanic, Message: fmt.Sprint(r)}
		}
	}()
	return c.caller.CallTarget(ctx, target, subject)
}

func (c *ServiceCaller) notifyAttempt(ctx context.Context, record AttemptRecord) {
	for _, o := range c.observers {
		o.OnAttempt(ctx, record)
	}
}
