package types

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidSettings = errors.New("types: invalid snapshot settings")
	ErrEmptyPayouts    = errors.New("types: empty payout list")
)

// LookupError wraps a failed call to the indexing service; any such failure
// aborts the whole snapshot
type LookupError struct {
	Op  string
	ID  string
	Err error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("%v %v: %v", e.Op, e.ID, e.Err)
}

func (e *LookupError) Unwrap() error { return e.Err }

func NewLookupError(op string, id string, err error) *LookupError {
	return &LookupError{Op: op, ID: id, Err: err}
}

// ConfigurationError describes malformed settings; it is produced by
// SnapshotSettings.Validate, before a run starts
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid %v: %v", e.Field, e.Reason)
}

func (e *ConfigurationError) Unwrap() error { return ErrInvalidSettings }
