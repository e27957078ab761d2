// Package orbit cross-checks SGP4 propagation of a two-line element set
// against SPICE ephemerides for the same epoch.
package orbit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"

	"github.com/signalsfoundry/spice-go/internal/logging"
)

// isoFormat is an ISO calendar string str2et reads as UTC.
const isoFormat = "2006-01-02T15:04:05.000000"

// ErrBadTLE is returned for element sets that cannot be propagated.
var ErrBadTLE = errors.New("orbit: malformed TLE")

// Ephemeris is the subset of *spice.Session used by Compare.
type Ephemeris interface {
	Str2et(ctx context.Context, str string) (float64, error)
	Spkpos(ctx context.Context, target string, et float64, frame, abcorr, observer string) ([3]float64, float64, error)
	Vsep(ctx context.Context, v1, v2 [3]float64) (float64, error)
}

// TLE is a NORAD two-line element set.
type TLE struct {
	Line1 string
	Line2 string
}

// Validate checks the line numbers and that both lines name the same
// catalog number.
func (t TLE) Validate() error {
	l1, l2 := strings.TrimSpace(t.Line1), strings.TrimSpace(t.Line2)
	if len(l1) < 69 || len(l2) < 69 {
		return fmt.Errorf("%w: lines must be 69 characters", ErrBadTLE)
	}
	if l1[0] != '1' || l2[0] != '2' {
		return fmt.Errorf("%w: line numbers %q, %q", ErrBadTLE, l1[0], l2[0])
	}
	if l1[2:7] != l2[2:7] {
		return fmt.Errorf("%w: catalog numbers %q and %q differ", ErrBadTLE, l1[2:7], l2[2:7])
	}
	return nil
}

// Propagator wraps an SGP4 satellite built from a TLE.
type Propagator struct {
	sat satellite.Satellite
}

// NewPropagator validates tle and initialises SGP4 with WGS72 constants.
func NewPropagator(tle TLE) (*Propagator, error) {
	if err := tle.Validate(); err != nil {
		return nil, err
	}
	sat := satellite.TLEToSat(strings.TrimSpace(tle.Line1), strings.TrimSpace(tle.Line2), satellite.GravityWGS72)
	return &Propagator{sat: sat}, nil
}

// Position propagates to at and returns the TEME position in kilometres.
// SGP4 is evaluated at whole seconds; the fraction of at is dropped.
func (p *Propagator) Position(at time.Time) Vec3 {
	at = at.UTC()
	year, month, day := at.Date()
	hour, min, sec := at.Clock()

	pos, _ := satellite.Propagate(p.sat, year, int(month), day, hour, min, sec)
	return Vec3{X: pos.X, Y: pos.Y, Z: pos.Z}
}

// Comparison holds both positions of a target at one epoch and how far
// apart they are.
type Comparison struct {
	At        time.Time
	ET        float64
	SGP4      Vec3
	SPICE     Vec3
	LightTime float64
	// RangeDiff is |SPICE| - |SGP4| in kilometres.
	RangeDiff float64
	// Distance is |SPICE - SGP4| in kilometres.
	Distance float64
	// Separation is the angle between the two vectors in radians.
	Separation float64
}

// Compare propagates tle to at and compares the result with the SPICE
// position of target relative to observer in J2000 without aberration
// correction. at is truncated to the second so both positions refer to the
// same instant. The TEME/J2000 frame difference is left in the result; it
// amounts to a small rotation for near-Earth epochs.
func Compare(ctx context.Context, eph Ephemeris, tle TLE, at time.Time, target, observer string) (Comparison, error) {
	prop, err := NewPropagator(tle)
	if err != nil {
		return Comparison{}, err
	}
	at = at.UTC().Truncate(time.Second)
	cmp := Comparison{At: at, SGP4: prop.Position(at)}
	if cmp.SGP4.Norm() == 0 {
		return Comparison{}, fmt.Errorf("%w: propagation failed at %s", ErrBadTLE, at.Format(time.RFC3339))
	}

	if cmp.ET, err = eph.Str2et(ctx, at.Format(isoFormat)); err != nil {
		return Comparison{}, fmt.Errorf("convert epoch: %w", err)
	}
	pos, lt, err := eph.Spkpos(ctx, target, cmp.ET, "J2000", "NONE", observer)
	if err != nil {
		return Comparison{}, fmt.Errorf("spice position of %s: %w", target, err)
	}
	cmp.SPICE = FromArray(pos)
	cmp.LightTime = lt

	if cmp.Separation, err = eph.Vsep(ctx, cmp.SGP4.Array(), pos); err != nil {
		return Comparison{}, fmt.Errorf("separation: %w", err)
	}
	cmp.RangeDiff = cmp.SPICE.Norm() - cmp.SGP4.Norm()
	cmp.Distance = cmp.SPICE.DistanceTo(cmp.SGP4)

	logging.LoggerFromContext(ctx, logging.Noop()).Debug(ctx, "sgp4 comparison",
		logging.String("target", target),
		logging.String("observer", observer),
		logging.Float("et", cmp.ET),
		logging.Float("distance_km", cmp.Distance),
		logging.Float("separation_rad", cmp.Separation),
	)
	return cmp, nil
}
