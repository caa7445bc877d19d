package journal

import (
	"time"
)

// CallRow is a finished call
type CallRow struct {
	ID                int64         `meddler:"id,pk" json:"id"`
	Descriptor        string        `meddler:"descriptor" json:"descriptor"`
	Succeeded         bool          `meddler:"succeeded" json:"succeeded"`
	TargetURL         string        `meddler:"target_url,zeroisnull" json:"target_url,omitempty"`
	TargetFingerprint uint32        `meddler:"target_fingerprint,zeroisnull" json:"target_fingerprint,omitempty"`
	Attempts          int           `meddler:"attempts" json:"attempts"`
	StartedAt         int64         `meddler:"started_at" json:"started_at"`
	Duration          time.Duration `meddler:"duration_ms,durationms" json:"duration_ms"`

	FailedAttempts []*AttemptRow `meddler:"-" json:"failed_attempts"`
}

// Started returns the start time of the call
func (c *CallRow) Started() time.Time {
	return time.UnixMilli(c.StartedAt)
}

// AttemptRow is a failed attempt of a call
type AttemptRow struct {
	CallID      int64  `meddler:"call_id" json:"-"`
	Position    int    `meddler:"position" json:"position"`
	TargetURL   string `meddler:"target_url" json:"target_url"`
	Fingerprint uint32 `meddler:"fingerprint" json:"fingerprint"`
	Kind        string `meddler:"kind" json:"kind"`
	Message     string `meddler:"message,zeroisnull" json:"message,omitempty"`
}
