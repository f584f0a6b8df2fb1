package pipeline

import "fmt"

// ValidationError reports the first field of a raw record that violated
// its schema rule. Records failing validation are dropped before the
// transformer ever sees them.
type ValidationError struct {
	Field string
	Rule  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: field %q violates rule %q", e.Field, e.Rule)
}

// FetchError wraps a failure to pull from an external source: network
// error or non-2xx response. Recovered locally by skipping the tick.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s failed: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("fetch %s failed: status %d", e.URL, e.StatusCode)
}

func (e *FetchError) Unwrap() error { return e.Err }

// StorageError wraps a cache or persistent-store failure. Surfaced up
// the call stack; aborts the rest of that record's processing.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s failed: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// PublishError wraps a pub/sub failure. Non-fatal: the message is
// dropped, never retried.
type PublishError struct {
	Channel string
	Err     error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("publish on %s failed: %v", e.Channel, e.Err)
}

func (e *PublishError) Unwrap() error { return e.Err }
