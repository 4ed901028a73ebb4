package domain

import "fmt"

// ValidationError reports a field that failed the Report rules or a malformed
// input value. Nothing is mutated when it is returned.
type ValidationError struct {
	Field  string
	Reason string
	Limit  int // character limit, set when Reason is "too long"
}

func (e *ValidationError) Error() string {
	if e.Limit > 0 {
		return fmt.Sprintf("invalid %s: %s (max %d characters)", e.Field, e.Reason, e.Limit)
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// CapacityError reports that the store could not grow to hold another report.
// Existing data is left untouched.
type CapacityError struct {
	Requested int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("out of memory: cannot grow store to %d reports", e.Requested)
}

// PersistenceError reports a data file that could not be opened, read, or written.
// The in-memory store is kept as is so the operation can be retried.
type PersistenceError struct {
	Op   string // "load" or "save"
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
