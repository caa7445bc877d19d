package caller

import (
	"fmt"
	"strings"

	"github.com/xinsproject/servicecall/descriptor"
)

// CallResult is the outcome of a successful call. FailedTargets and Failures
// are index aligned and only allocated when at least one target failed first.
type CallResult struct {
	SucceededTarget *descriptor.TargetDescriptor
	Result          any
	FailedTargets   []*descriptor.TargetDescriptor
	Failures        []FailureInfo
}

// Attempts is the number of targets tried, the successful one included
func (r *CallResult) Attempts() int {
	return len(r.FailedTargets) + 1
}

// CallFailedError is returned when no target succeeded. It always holds at least
// one failed target, index aligned with Failures.
type CallFailedError struct {
	Subject       any
	FailedTargets []*descriptor.TargetDescriptor
	Failures      []FailureInfo
}

func (e *CallFailedError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "call failed after trying %d target(s)", len(e.FailedTargets))
	for i, target := range e.FailedTargets {
		sep := ", "
		if i == 0 {
			sep = ": "
		}
		fmt.Fprintf(&b, "%s%s (%s)", sep, target.URL(), e.Failures[i].Error())
	}
	return b.String()
}

// Unwrap exposes every failure, so errors.Is and errors.As reach their causes
func (e *CallFailedError) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f
	}
	return errs
}

// LastFailure returns the failure of the last target tried
func (e *CallFailedError) LastFailure() FailureInfo {
	return e.Failures[len(e.Failures)-1]
}
