package metrics

import (
	"context"
	"time"

	prometheusClient "github.com/prometheus/client_golang/prometheus"
	"github.com/xinsproject/servicecall/caller"
	"github.com/xinsproject/servicecall/log"
	"github.com/xinsproject/servicecall/prometheus"
)

const (
	prefix              = "servicecall_"
	attempts            = prefix + "attempts_total"
	attemptFailures     = prefix + "attempt_failures_total"
	callsSucceeded      = prefix + "calls_succeeded_total"
	callsFailed         = prefix + "calls_failed_total"
	callDurationSeconds = prefix + "call_duration_seconds"

	labelDescriptor = "descriptor"
	labelKind       = "kind"
)

// Register the metrics for the caller package
func Register() {
	prometheus.RegisterCounterVecs(
		prometheus.CounterVecOpts{
			CounterOpts: prometheusClient.CounterOpts{
				Name: attempts,
				Help: "[CALLER] number of targets tried",
			},
			Labels: []string{labelDescriptor},
		},
		prometheus.CounterVecOpts{
			CounterOpts: prometheusClient.CounterOpts{
				Name: attemptFailures,
				Help: "[CALLER] number of failed attempts by failure kind",
			},
			Labels: []string{labelDescriptor, labelKind},
		},
		prometheus.CounterVecOpts{
			CounterOpts: prometheusClient.CounterOpts{
				Name: callsSucceeded,
				Help: "[CALLER] number of calls that found a working target",
			},
			Labels: []string{labelDescriptor},
		},
		prometheus.CounterVecOpts{
			CounterOpts: prometheusClient.CounterOpts{
				Name: callsFailed,
				Help: "[CALLER] number of calls where every target failed",
			},
			Labels: []string{labelDescriptor},
		},
	)
	prometheus.RegisterHistograms(prometheusClient.HistogramOpts{
		Name:    callDurationSeconds,
		Help:    "[CALLER] duration of complete calls, fail-over included",
		Buckets: prometheusClient.DefBuckets,
	})
	log.Info("Registered prometheus caller metrics")
}

// Observer counts the attempts and outcomes of the calls of one descriptor
type Observer struct {
	descriptor string
}

var _ caller.Observer = (*Observer)(nil)

// New returns an observer labelling its samples with descriptorName
func New(descriptorName string) *Observer {
	return &Observer{descriptor: descriptorName}
}

func (o *Observer) OnAttempt(_ context.Context, attempt caller.AttemptRecord) {
	prometheus.CounterVecInc(attempts, o.descriptor)
	if attempt.Failure != nil {
		prometheus.CounterVecInc(attemptFailures, o.descriptor, string(attempt.Failure.Kind))
	}
}

func (o *Observer) OnSuccess(_ context.Context, _ any, _ *caller.CallResult, elapsed time.Duration) {
	prometheus.CounterVecInc(callsSucceeded, o.descriptor)
	prometheus.HistogramObserve(callDurationSeconds, elapsed.Seconds())
}

func (o *Observer) OnFailure(_ context.Context, _ *caller.CallFailedError, elapsed time.Duration) {
	prometheus.CounterVecInc(callsFailed, o.descriptor)
	prometheus.HistogramObserve(callDurationSeconds, elapsed.Seconds())
}
