package draw

import (
	"fmt"
	"strings"
)

// ValidationError is returned when input fails a necessary feasibility
// condition before any search is attempted. The caller can recover by
// adjusting group membership or exclusion rules.
type ValidationError struct {
	Reasons []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("draw validation failed: %s", strings.Join(e.Reasons, "; "))
}

// ExhaustedError is returned when the generator spends its full attempt
// budget without finding a valid assignment. This almost always means the
// exclusion rules are too restrictive for any valid mapping to exist;
// re-invoking with the same input is unlikely to produce a different outcome.
type ExhaustedError struct {
	Attempts int
}

// Error implements the error interface.
func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("no valid assignment found after %d attempts: exclusion rules may be too restrictive", e.Attempts)
}
