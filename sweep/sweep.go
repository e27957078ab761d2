// Package sweep steps an ephemeris-time window and notifies listeners at
// every epoch. It is the usual way to drive repeated Session queries, such
// as an occultation search, over an interval.
package sweep

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/signalsfoundry/spice-go/internal/logging"
)

// gridTolerance absorbs rounding when deciding whether StopET lies on the
// step grid.
const gridTolerance = 1e-9

var (
	// ErrBadStep is returned for a non-positive or non-finite step.
	ErrBadStep = errors.New("sweep: step must be positive and finite")
	// ErrBadWindow is returned when StopET precedes StartET.
	ErrBadWindow = errors.New("sweep: stop precedes start")
)

// Listener is called with each epoch, in seconds past J2000 TDB. A non-nil
// error stops the sweep.
type Listener func(et float64) error

// Stepper walks StartET, StartET+Step, ... up to and including StopET.
type Stepper struct {
	mu      sync.RWMutex
	StartET float64
	StopET  float64
	Step    float64

	current   float64
	listeners []Listener
	log       logging.Logger
}

// New validates the window and returns a Stepper positioned at start.
func New(start, stop, step float64) (*Stepper, error) {
	if step <= 0 || math.IsNaN(step) || math.IsInf(step, 0) {
		return nil, ErrBadStep
	}
	if stop < start {
		return nil, fmt.Errorf("%w: start %g, stop %g", ErrBadWindow, start, stop)
	}
	return &Stepper{
		StartET: start,
		StopET:  stop,
		Step:    step,
		current: start,
		log:     logging.Noop(),
	}, nil
}

// SetLogger replaces the stepper's logger.
func (s *Stepper) SetLogger(l logging.Logger) {
	if l == nil {
		l = logging.Noop()
	}
	s.mu.Lock()
	s.log = l
	s.mu.Unlock()
}

// Now returns the most recently visited epoch.
func (s *Stepper) Now() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// AddListener registers fn. Listeners run in registration order.
func (s *Stepper) AddListener(fn Listener) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// Epochs returns the number of epochs a run visits.
func (s *Stepper) Epochs() int {
	return int(math.Floor((s.StopET-s.StartET)/s.Step+gridTolerance)) + 1
}

// At returns the i-th epoch. Epochs are computed from StartET rather than
// accumulated so long sweeps do not drift.
func (s *Stepper) At(i int) float64 {
	et := s.StartET + float64(i)*s.Step
	return math.Min(et, s.StopET)
}

// Run visits every epoch synchronously. It stops at the first listener
// error or when ctx is done between epochs.
func (s *Stepper) Run(ctx context.Context) error {
	s.mu.RLock()
	listeners := append([]Listener(nil), s.listeners...)
	log := s.log
	s.mu.RUnlock()

	n := s.Epochs()
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		et := s.At(i)

		s.mu.Lock()
		s.current = et
		s.mu.Unlock()

		for _, fn := range listeners {
			if err := fn(et); err != nil {
				log.Debug(ctx, "sweep stopped by listener",
					logging.Float("et", et),
					logging.Int("epoch", i),
					logging.Err(err),
				)
				return fmt.Errorf("sweep at et %.6f: %w", et, err)
			}
		}
	}
	return nil
}

// Start runs the sweep in a separate goroutine. The returned channel
// receives Run's result and is then closed.
func (s *Stepper) Start(ctx context.Context) <-chan error {
	done := make(chan error, 1)
	go func() {
		defer close(done)
		done <- s.Run(ctx)
	}()
	return done
}
