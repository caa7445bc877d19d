package descriptor

import (
	"fmt"
	"hash/crc32"
	"iter"
	"regexp"
	"time"
)

// scheme://host[.host]*[:port][/segment]*[/]
var addressPattern = regexp.MustCompile(
	`^[a-z][a-z0-9]*://[A-Za-z0-9-]+(\.[A-Za-z0-9-]+)*(:[0-9]+)?(/[A-Za-z0-9_.-]+)*/?$`)

// TargetDescriptor identifies one concrete endpoint.
type TargetDescriptor struct {
	url         string
	timeout     time.Duration
	fingerprint uint32
}

// NewTargetDescriptor validates url and returns the target. A timeout <= 0 means
// the caller waits indefinitely for this target.
func NewTargetDescriptor(url string, timeout time.Duration) (*TargetDescriptor, error) {
	if !addressPattern.MatchString(url) {
		return nil, &InvalidAddressError{Address: url}
	}
	return &TargetDescriptor{
		url:         url,
		timeout:     timeout,
		fingerprint: crc32.ChecksumIEEE([]byte(url)),
	}, nil
}

// URL returns the address of the target.
func (t *TargetDescriptor) URL() string {
	return t.url
}

// Timeout returns the configured per-call timeout, <= 0 when unbounded.
func (t *TargetDescriptor) Timeout() time.Duration {
	return t.timeout
}

// HasTimeout reports whether calls to this target are bounded in time.
func (t *TargetDescriptor) HasTimeout() bool {
	return t.timeout > 0
}

// Fingerprint is the CRC-32 of the address. Only meant for correlating log lines
// and metrics, never for equality.
func (t *TargetDescriptor) Fingerprint() uint32 {
	return t.fingerprint
}

func (t *TargetDescriptor) IsGroup() bool {
	return false
}

func (t *TargetDescriptor) IterateTargets() iter.Seq[*TargetDescriptor] {
	return func(yield func(*TargetDescriptor) bool) {
		yield(t)
	}
}

func (t *TargetDescriptor) TargetCount() int {
	return 1
}

func (t *TargetDescriptor) TargetByFingerprint(crc uint32) *TargetDescriptor {
	if t.fingerprint == crc {
		return t
	}
	return nil
}

func (t *TargetDescriptor) String() string {
	timeout := "unbounded"
	if t.HasTimeout() {
		timeout = t.timeout.String()
	}
	return fmt.Sprintf("TargetDescriptor{url: %s, timeout: %s, fingerprint: %08x}", t.url, timeout, t.fingerprint)
}
