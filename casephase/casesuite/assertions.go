// Package casesuite runs casephase arrangements under testify suites.
//
// An Assertions suite builds its fixture once, runs the fixture's initialization phases
// before any test method, and runs cleanup after the last one. A Collection shares one
// context object between every suite in a named group.
package casesuite

import (
	"context"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/JeremiahSanders/testingutils-xunit-extras/casephase"
	"github.com/JeremiahSanders/testingutils-xunit-extras/errors"
)

// FixtureFactory builds the fixture for one suite run
type FixtureFactory[F casephase.Arrangement] func() (F, error)

// Assertions is a testify suite base whose test methods assert against one shared,
// fully initialized case arrangement. Embed it in a suite struct:
//
//	type OrderPlacedSuite struct {
//		casesuite.Assertions[*OrderPlacedFixture]
//	}
//
//	func TestOrderPlaced(t *testing.T) {
//		suite.Run(t, &OrderPlacedSuite{Assertions: casesuite.NewAssertions(newOrderPlacedFixture)})
//	}
type Assertions[F casephase.Arrangement] struct {
	suite.Suite

	// Factory builds the fixture in SetupSuite
	Factory FixtureFactory[F]

	// Timeout bounds initialization and cleanup separately; zero means no limit
	Timeout time.Duration

	fixture  F
	tracker  *casephase.Tracker
	disposed bool
}

// NewAssertions creates a suite base that builds its fixture with factory
func NewAssertions[F casephase.Arrangement](factory FixtureFactory[F]) Assertions[F] {
	return Assertions[F]{Factory: factory}
}

// SetupSuite builds the fixture and runs its initialization phases once. If a phase
// fails, cleanup runs before the suite fails: testify skips TearDownSuite after a
// failed SetupSuite.
func (s *Assertions[F]) SetupSuite() {
	s.Require().NoError(s.initialize())
}

func (s *Assertions[F]) initialize() error {
	if s.Factory == nil {
		return errors.New("fixture factory is required")
	}

	fixture, err := s.Factory()
	if err != nil {
		return errors.Wrap(err, "failed to build case arrangement")
	}
	s.fixture = fixture
	s.tracker = casephase.NewTracker()

	ctx, cancel := s.context()
	defer cancel()
	err = s.tracker.Initialize(ctx, fixture)
	if err == nil {
		return nil
	}

	// Initialization may have consumed the timeout; cleanup gets its own
	cleanupCtx, cleanupCancel := s.context()
	defer cleanupCancel()
	s.disposed = true
	if derr := s.tracker.Dispose(cleanupCtx, fixture); derr != nil {
		return errors.CombineErrors(err, derr)
	}
	return err
}

// TearDownSuite runs the fixture's cleanup after the last test method
func (s *Assertions[F]) TearDownSuite() {
	if s.tracker == nil || s.disposed {
		return
	}
	s.disposed = true

	ctx, cancel := s.context()
	defer cancel()

	s.NoError(s.tracker.Dispose(ctx, s.fixture))
}

func (s *Assertions[F]) context() (context.Context, context.CancelFunc) {
	if s.Timeout > 0 {
		return context.WithTimeout(context.Background(), s.Timeout)
	}
	return context.WithCancel(context.Background())
}

// CaseArrangement returns the initialized fixture
func (s *Assertions[F]) CaseArrangement() F {
	return s.fixture
}

// Tracker reports which phases ran for this suite's fixture
func (s *Assertions[F]) Tracker() *casephase.Tracker {
	return s.tracker
}

// Log returns a logger that writes through the current test's output
func (s *Assertions[F]) Log() *zap.SugaredLogger {
	return zaptest.NewLogger(s.T()).Sugar()
}
