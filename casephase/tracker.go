package casephase

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/JeremiahSanders/testingutils-xunit-extras/errors"
	"github.com/JeremiahSanders/testingutils-xunit-extras/logger"
)

// Tracker runs lifecycle phases and records which of them ran
type Tracker struct {
	mu     sync.Mutex
	ran    []Phase
	failed Phase
	logger *zap.SugaredLogger
}

// NewTracker creates an empty tracker
func NewTracker() *Tracker {
	return &Tracker{logger: logger.ComponentLogger("casephase")}
}

// Initialize runs the initialization phases of p in order. A phase returning an error
// stops the sequence; the error is wrapped with the phase name. A cancelled ctx stops
// the sequence before the next phase starts.
func (t *Tracker) Initialize(ctx context.Context, p Phases) error {
	if p == nil {
		return errors.New("case phases are required")
	}
	for _, phase := range InitializationOrder {
		if err := t.run(ctx, phase, step(p, phase)); err != nil {
			return err
		}
	}
	return nil
}

// Dispose runs c's cleanup. It runs regardless of how far initialization got.
func (t *Tracker) Dispose(ctx context.Context, c Cleaner) error {
	if c == nil {
		return errors.New("case cleaner is required")
	}
	return t.run(ctx, PhaseCleanup, c.Cleanup)
}

func (t *Tracker) run(ctx context.Context, phase Phase, fn func(context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrapf(err, "%s phase not started", phase)
	}

	start := time.Now()
	t.record(phase)
	if err := fn(ctx); err != nil {
		t.mu.Lock()
		t.failed = phase
		t.mu.Unlock()
		t.logger.Debugw("Case phase failed",
			"phase", string(phase),
			logger.FieldError, err)
		return errors.Wrapf(err, "%s phase failed", phase)
	}

	t.logger.Debugw("Case phase complete",
		"phase", string(phase),
		logger.FieldDurationMS, time.Since(start).Milliseconds())
	return nil
}

func (t *Tracker) record(phase Phase) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.ran = append(t.ran, phase)
}

// Ran returns the phases that started, in order, including one that failed
func (t *Tracker) Ran() []Phase {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Phase(nil), t.ran...)
}

// Has reports whether phase started
func (t *Tracker) Has(phase Phase) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, p := range t.ran {
		if p == phase {
			return true
		}
	}
	return false
}

// Failed returns the phase that returned an error, if any
func (t *Tracker) Failed() (Phase, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.failed, t.failed != ""
}

// Initialized reports whether all four initialization phases completed without error
func (t *Tracker) Initialized() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.failed != "" {
		return false
	}
	for _, want := range InitializationOrder {
		found := false
		for _, p := range t.ran {
			if p == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
