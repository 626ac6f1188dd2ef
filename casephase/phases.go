// Package casephase provides the structured test case lifecycle used alongside generated
// shared case context sources.
//
// A case runs four initialization phases strictly in order:
//   - arrange: seed data and build the objects under test
//   - acquire sanity values: capture pre-act state for sanity assertions
//   - act: perform the action being tested
//   - acquire verification values: capture post-act state for side-effect assertions
//
// Cleanup runs once during teardown, after whichever initialization phases ran.
package casephase

import (
	"context"
)

// Phase names one lifecycle step
type Phase string

const (
	PhaseArrange                   Phase = "arrange"
	PhaseAcquireSanityValues       Phase = "acquire sanity values"
	PhaseAct                       Phase = "act"
	PhaseAcquireVerificationValues Phase = "acquire verification values"
	PhaseCleanup                   Phase = "cleanup"
)

// InitializationOrder lists the phases Initialize runs, in execution order
var InitializationOrder = []Phase{
	PhaseArrange,
	PhaseAcquireSanityValues,
	PhaseAct,
	PhaseAcquireVerificationValues,
}

// Phases defines a test case's pre-assert steps
type Phases interface {
	// Arrange performs the initialization required to arrange the case (phase 1 of 4)
	Arrange(ctx context.Context) error

	// AcquireSanityValues captures post-arrange, pre-act values without side effects (phase 2 of 4)
	AcquireSanityValues(ctx context.Context) error

	// Act performs the primary action being tested (phase 3 of 4)
	Act(ctx context.Context) error

	// AcquireVerificationValues captures post-act values without side effects (phase 4 of 4)
	AcquireVerificationValues(ctx context.Context) error
}

// Cleaner undoes changes made by a case arrangement, e.g. removing seeded records
// or deleting files written during act.
type Cleaner interface {
	Cleanup(ctx context.Context) error
}

// Arrangement is a complete case lifecycle
type Arrangement interface {
	Phases
	Cleaner
}

// Base is an embeddable Arrangement whose phases all succeed without doing anything.
// Embed it and override only the phases a case needs.
type Base struct{}

func (Base) Arrange(context.Context) error                   { return nil }
func (Base) AcquireSanityValues(context.Context) error       { return nil }
func (Base) Act(context.Context) error                       { return nil }
func (Base) AcquireVerificationValues(context.Context) error { return nil }
func (Base) Cleanup(context.Context) error                   { return nil }

var _ Arrangement = Base{}

// step returns the method of p that implements phase
func step(p Phases, phase Phase) func(context.Context) error {
	switch phase {
	case PhaseArrange:
		return p.Arrange
	case PhaseAcquireSanityValues:
		return p.AcquireSanityValues
	case PhaseAct:
		return p.Act
	case PhaseAcquireVerificationValues:
		return p.AcquireVerificationValues
	}
	return nil
}

// Initialize runs the four initialization phases of p in order, stopping at the first error
func Initialize(ctx context.Context, p Phases) error {
	return NewTracker().Initialize(ctx, p)
}

// Dispose runs c's cleanup
func Dispose(ctx context.Context, c Cleaner) error {
	return NewTracker().Dispose(ctx, c)
}
