package spice

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/signalsfoundry/spice-go/internal/logging"
	"github.com/signalsfoundry/spice-go/internal/observability"
	"github.com/signalsfoundry/spice-go/raw"
)

const tracerName = "github.com/signalsfoundry/spice-go/spice"

var (
	// ErrSessionOpen is returned by Open while another Session owns the
	// native state.
	ErrSessionOpen = errors.New("spice: a session is already open")

	// ErrClosed is returned by every operation on a closed Session.
	ErrClosed = errors.New("spice: session is closed")
)

// owned guards the process-wide CSPICE state: at most one Session exists
// at a time.
var owned atomic.Bool

// Session is the single owner of the CSPICE process state. All native
// access goes through its methods, which are serialised on one mutex, so
// concurrent use of a Session from several goroutines is safe.
type Session struct {
	mu      sync.Mutex
	closed  bool
	backend Backend
	log     logging.Logger
	metrics *observability.NativeCollector
	tracer  trace.Tracer
}

// Option configures a Session.
type Option func(*Session)

// WithBackend replaces the native backend.
func WithBackend(b Backend) Option {
	return func(s *Session) { s.backend = b }
}

// WithLogger sets the session logger.
func WithLogger(l logging.Logger) Option {
	return func(s *Session) { s.log = l }
}

// WithMetrics records every operation on c.
func WithMetrics(c *observability.NativeCollector) Option {
	return func(s *Session) { s.metrics = c }
}

// WithTracerProvider takes spans from tp instead of the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *Session) { s.tracer = tp.Tracer(tracerName) }
}

// Open claims the native state and returns its owner. It fails with
// ErrSessionOpen until the previous Session is closed.
func Open(opts ...Option) (*Session, error) {
	if !owned.CompareAndSwap(false, true) {
		return nil, ErrSessionOpen
	}
	s := &Session{
		backend: NativeBackend(),
		log:     logging.Noop(),
		tracer:  otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logging.Noop()
	}
	return s, nil
}

// Close unloads every kernel and releases the native state. Closing twice
// is a no-op.
func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	defer owned.Store(false)

	err := s.backend.Kclear()
	s.metrics.SetLoadedKernels(0)
	if err != nil {
		s.logger(ctx).Warn(ctx, "kernel pool clear failed on close", logging.Err(err))
		return err
	}
	s.logger(ctx).Debug(ctx, "session closed")
	return nil
}

func (s *Session) logger(ctx context.Context) logging.Logger {
	return logging.LoggerFromContext(ctx, s.log)
}

// do runs fn while holding the session lock, inside a span named after
// routine, and records the outcome. Multi-call sequences placed in one fn
// are atomic with respect to every other session operation.
func (s *Session) do(ctx context.Context, routine string, fn func(b Backend) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	ctx, span := s.tracer.Start(ctx, "spice."+routine,
		trace.WithAttributes(attribute.String("spice.routine", routine)))
	defer span.End()

	start := time.Now()
	err := fn(s.backend)
	s.metrics.ObserveCall(routine, outcome(err), time.Since(start))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, raw.ShortCode(err))
		s.logger(ctx).Debug(ctx, "native call failed",
			logging.String("routine", routine),
			logging.String("short", raw.ShortCode(err)),
			logging.Err(err),
		)
	}
	return err
}

func outcome(err error) string {
	switch {
	case err == nil:
		return observability.OutcomeOK
	case errors.Is(err, raw.ErrFailed):
		return observability.OutcomeNativeError
	default:
		return observability.OutcomeError
	}
}
