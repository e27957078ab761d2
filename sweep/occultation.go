package sweep

import (
	"context"
	"sync"

	"github.com/signalsfoundry/spice-go/internal/logging"
	"github.com/signalsfoundry/spice-go/raw"
	"github.com/signalsfoundry/spice-go/spice"
)

// Occulter is the subset of *spice.Session used by OccultationWatch.
type Occulter interface {
	Occult(ctx context.Context, front, back spice.Target, abcorr, observer string, et float64) (raw.Occultation, error)
}

// Transition is a change of occultation condition between two epochs.
type Transition struct {
	ET   float64
	From raw.Occultation
	To   raw.Occultation
}

// OccultationWatch samples the occultation of Back by Front at each epoch
// and records every change of condition.
type OccultationWatch struct {
	Session  Occulter
	Front    spice.Target
	Back     spice.Target
	Abcorr   string
	Observer string

	mu          sync.Mutex
	sampled     bool
	state       raw.Occultation
	transitions []Transition
}

// Listener returns a sweep Listener that samples the watch at each epoch.
// A failed Occult query stops the sweep.
func (w *OccultationWatch) Listener(ctx context.Context) Listener {
	return func(et float64) error {
		code, err := w.Session.Occult(ctx, w.Front, w.Back, w.Abcorr, w.Observer, et)
		if err != nil {
			return err
		}
		w.observe(ctx, et, code)
		return nil
	}
}

func (w *OccultationWatch) observe(ctx context.Context, et float64, code raw.Occultation) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.sampled && code != w.state {
		w.transitions = append(w.transitions, Transition{ET: et, From: w.state, To: code})
		logging.LoggerFromContext(ctx, logging.Noop()).Info(ctx, "occultation changed",
			logging.String("front", w.Front.Name),
			logging.String("back", w.Back.Name),
			logging.Float("et", et),
			logging.String("from", w.state.String()),
			logging.String("to", code.String()),
		)
	}
	w.sampled = true
	w.state = code
}

// State returns the most recent sample and whether any sample was taken.
func (w *OccultationWatch) State() (raw.Occultation, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state, w.sampled
}

// Transitions returns the recorded transitions in epoch order.
func (w *OccultationWatch) Transitions() []Transition {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]Transition(nil), w.transitions...)
}
