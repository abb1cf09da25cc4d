package framework

import (
	"fmt"
	"strings"
)

// Outcome is the final state of one phase.
type Outcome int

const (
	// OutcomeCompleted means the phase ran to the end without any assertion failures. Failed
	// calls may still have been reported as warnings.
	OutcomeCompleted Outcome = iota

	// OutcomeSkipped means the phase did no work because a required artifact was missing, or
	// because it was excluded by the filter parameters.
	OutcomeSkipped

	// OutcomeFailed means the phase ran but at least one assertion did not hold, or it was
	// stopped by an unexpected panic.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCompleted:
		return "completed"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeFailed:
		return "failed"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

type Results struct {
	Tests    []TestResult
	Failures []TestResult
}

type TestResult struct {
	TestID     TestID
	Errors     []error
	Warnings   []string
	Skipped    bool
	SkipReason string
}

func (r TestResult) Outcome() Outcome {
	switch {
	case r.Skipped:
		return OutcomeSkipped
	case len(r.Errors) != 0:
		return OutcomeFailed
	default:
		return OutcomeCompleted
	}
}

func (r Results) OK() bool {
	return len(r.Failures) == 0
}

// Count returns the number of results with the given outcome. The root context, which has an
// empty ID, is not counted.
func (r Results) Count(outcome Outcome) int {
	n := 0
	for _, t := range r.Tests {
		if len(t.TestID.Path) != 0 && t.Outcome() == outcome {
			n++
		}
	}
	return n
}

// Find returns the result for the given test ID, if there is one.
func (r Results) Find(id TestID) (TestResult, bool) {
	for _, t := range r.Tests {
		if t.TestID.String() == id.String() {
			return t, true
		}
	}
	return TestResult{}, false
}

type TestID struct {
	Path []string
}

func (t TestID) String() string {
	return strings.Join(t.Path, "/")
}
