package pipeline

import (
	"errors"
	"fmt"

	"github.com/sells-group/leadqual/internal/repair"
)

// MissingInputError means the lead lacks a field the pipeline cannot run
// without. Detected before any upstream call is made.
type MissingInputError struct {
	Field string
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("pipeline: missing required input %q", e.Field)
}

// UpstreamError wraps a failed producer call. The pipeline degrades to an
// empty candidate list rather than aborting the lead; the confidence floor
// keeps the final score honest about the gap.
type UpstreamError struct {
	Stage string
	Err   error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("pipeline: upstream %s unavailable: %v", e.Stage, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// IsMalformedOutput reports whether err is a terminal malformed-output
// failure from the repair layer. These are never degraded: scoring a lead on
// output we could not even parse would fabricate a result.
func IsMalformedOutput(err error) bool {
	var moe *repair.MalformedOutputError
	return errors.As(err, &moe)
}
