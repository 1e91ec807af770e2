package collector

import (
	"errors"
	"fmt"
)

// ErrLimitReached is the Paginator's normal terminal signal, not a
// failure: the run has visited its last allowed page.
var ErrLimitReached = errors.New("page limit reached")

// ErrAlreadyProcessed marks an idempotent skip: the title was fully
// handled earlier in this run.
var ErrAlreadyProcessed = errors.New("note already processed")

// DriverFailure wraps a failed page-driver call. Recoverable at
// item/page granularity; it never crashes the run.
type DriverFailure struct {
	Op  string
	Err error
}

func (e *DriverFailure) Error() string {
	return fmt.Sprintf("driver %s failed: %v", e.Op, e.Err)
}

func (e *DriverFailure) Unwrap() error { return e.Err }

// OracleError means the relevance classification was unreachable or
// unparseable. Raw preserves the oracle's response for diagnostics.
type OracleError struct {
	Raw string
	Err error
}

func (e *OracleError) Error() string {
	return fmt.Sprintf("oracle: %v", e.Err)
}

func (e *OracleError) Unwrap() error { return e.Err }

// ExtractionError means one note's detail extraction failed. It counts
// toward the orchestrator's circuit breaker but never aborts the rest
// of the batch by itself.
type ExtractionError struct {
	Title string
	Err   error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extracting %q: %v", e.Title, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }
