package descriptor

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoMembers is returned when a group is declared without members
	ErrNoMembers = errors.New("group descriptor must have at least one member")
	// ErrNilMember is returned when a group member has no descriptor
	ErrNilMember = errors.New("group member descriptor is nil")
)

// InvalidAddressError is returned when a target address does not follow
// scheme://host[:port][/path]
type InvalidAddressError struct {
	Address string
}

func (e *InvalidAddressError) Error() string {
	return fmt.Sprintf("invalid target address %q", e.Address)
}

// PropertyNotFoundError is returned when a referenced descriptor key is not configured.
// For a group reference Key is the nested key and Fallback the absolute one.
type PropertyNotFoundError struct {
	Key      string
	Fallback string
}

func (e *PropertyNotFoundError) Error() string {
	if e.Fallback != "" {
		return fmt.Sprintf("descriptor property %q not found (nor %q)", e.Key, e.Fallback)
	}
	return fmt.Sprintf("descriptor property %q not found", e.Key)
}

// PropertyFormatError is returned when the value of a descriptor key can not be parsed
type PropertyFormatError struct {
	Key    string
	Value  string
	Reason string
	Err    error
}

func (e *PropertyFormatError) Error() string {
	msg := fmt.Sprintf("invalid descriptor property %q (value %q): %s", e.Key, e.Value, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *PropertyFormatError) Unwrap() error {
	return e.Err
}

// CyclicReferenceError is returned when a group references, directly or
// transitively, a key that is still being expanded.
type CyclicReferenceError struct {
	Key string
	// Path is the chain of keys being expanded, ending with Key
	Path []string
}

func (e *CyclicReferenceError) Error() string {
	return fmt.Sprintf("cyclic descriptor reference to %q: %s", e.Key, strings.Join(e.Path, " -> "))
}
