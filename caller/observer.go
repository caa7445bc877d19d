package caller

import (
	"context"
	"time"

	"github.com/xinsproject/servicecall/descriptor"
)

// AttemptRecord describes a single attempt of a call
type AttemptRecord struct {
	// Position of the target in the iteration order of this call, starting at 0
	Position int
	Target   *descriptor.TargetDescriptor
	Duration time.Duration
	// Failure is nil when the attempt succeeded
	Failure *FailureInfo
}

// Observer is notified of every attempt and of the final outcome of each call.
// Implementations must be safe for concurrent use.
type Observer interface {
	OnAttempt(ctx context.Context, attempt AttemptRecord)
	OnSuccess(ctx context.Context, subject any, result *CallResult, elapsed time.Duration)
	OnFailure(ctx context.Context, err *CallFailedError, elapsed time.Duration)
}
