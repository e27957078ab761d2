package spice

import (
	"context"

	"github.com/signalsfoundry/spice-go/internal/logging"
	"github.com/signalsfoundry/spice-go/raw"
)

// Furnsh loads a kernel, or every kernel named by a meta-kernel.
func (s *Session) Furnsh(ctx context.Context, name string) error {
	return s.do(ctx, "furnsh", func(b Backend) error {
		if err := b.Furnsh(name); err != nil {
			return err
		}
		s.logger(ctx).Info(ctx, "kernel loaded", logging.String("kernel", name))
		s.refreshKernelCount(b)
		return nil
	})
}

// Kclear unloads every kernel and clears the kernel pool.
func (s *Session) Kclear(ctx context.Context) error {
	return s.do(ctx, "kclear", func(b Backend) error {
		if err := b.Kclear(); err != nil {
			return err
		}
		s.metrics.SetLoadedKernels(0)
		return nil
	})
}

// Ktotal returns the number of loaded kernels of the given kind.
func (s *Session) Ktotal(ctx context.Context, kind string) (int32, error) {
	var n int32
	err := s.do(ctx, "ktotal", func(b Backend) (err error) {
		n, err = b.Ktotal(kind)
		return err
	})
	return n, err
}

// Kinfo reports whether file is loaded and its type, source and handle.
func (s *Session) Kinfo(ctx context.Context, file string) (raw.KernelInfo, error) {
	var info raw.KernelInfo
	err := s.do(ctx, "kinfo", func(b Backend) (err error) {
		info, err = b.Kinfo(file, raw.MaxLenOut, raw.MaxLenOut)
		return err
	})
	return info, err
}

// Dasopr opens a DAS file for reading. The handle stays valid until Dascls.
func (s *Session) Dasopr(ctx context.Context, fname string) (int32, error) {
	var handle int32
	err := s.do(ctx, "dasopr", func(b Backend) (err error) {
		handle, err = b.Dasopr(fname)
		return err
	})
	return handle, err
}

// Dascls closes a DAS file opened with Dasopr.
func (s *Session) Dascls(ctx context.Context, handle int32) error {
	return s.do(ctx, "dascls", func(b Backend) error {
		return b.Dascls(handle)
	})
}

// Dlabfs begins a forward segment search in a DLA file.
func (s *Session) Dlabfs(ctx context.Context, handle int32) (raw.DLADescr, bool, error) {
	var (
		dsc   raw.DLADescr
		found bool
	)
	err := s.do(ctx, "dlabfs", func(b Backend) (err error) {
		dsc, found, err = b.Dlabfs(handle)
		return err
	})
	return dsc, found, err
}

// Dlafns returns the segment following dladsc.
func (s *Session) Dlafns(ctx context.Context, handle int32, dladsc raw.DLADescr) (raw.DLADescr, bool, error) {
	var (
		next  raw.DLADescr
		found bool
	)
	err := s.do(ctx, "dlafns", func(b Backend) (err error) {
		next, found, err = b.Dlafns(handle, dladsc)
		return err
	})
	return next, found, err
}

// Dskgd returns the DSK descriptor of a segment.
func (s *Session) Dskgd(ctx context.Context, handle int32, dladsc raw.DLADescr) (raw.DSKDescr, error) {
	var dsk raw.DSKDescr
	err := s.do(ctx, "dskgd", func(b Backend) (err error) {
		dsk, err = b.Dskgd(handle, dladsc)
		return err
	})
	return dsk, err
}

// Dskn02 returns the unit normal of plate plid.
func (s *Session) Dskn02(ctx context.Context, handle int32, dladsc raw.DLADescr, plid int32) ([3]float64, error) {
	var normal [3]float64
	err := s.do(ctx, "dskn02", func(b Backend) (err error) {
		normal, err = b.Dskn02(handle, dladsc, plid)
		return err
	})
	return normal, err
}

// Intercept is a ray/plate intersection.
type Intercept struct {
	PlateID int32
	Point   [3]float64
	Found   bool
}

// Dskx02 intersects the ray from vertex along raydir with a type 2 DSK
// segment.
func (s *Session) Dskx02(ctx context.Context, handle int32, dladsc raw.DLADescr, vertex, raydir [3]float64) (Intercept, error) {
	var x Intercept
	err := s.do(ctx, "dskx02", func(b Backend) (err error) {
		x.PlateID, x.Point, x.Found, err = b.Dskx02(handle, dladsc, vertex, raydir)
		return err
	})
	return x, err
}

// Dskz02 returns the vertex and plate counts of a type 2 DSK segment.
func (s *Session) Dskz02(ctx context.Context, handle int32, dladsc raw.DLADescr) (nv, np int32, err error) {
	err = s.do(ctx, "dskz02", func(b Backend) (err error) {
		nv, np, err = b.Dskz02(handle, dladsc)
		return err
	})
	return nv, np, err
}

// Latrec converts latitudinal coordinates to rectangular coordinates.
func (s *Session) Latrec(ctx context.Context, radius, longitude, latitude float64) ([3]float64, error) {
	var rect [3]float64
	err := s.do(ctx, "latrec", func(b Backend) (err error) {
		rect, err = b.Latrec(radius, longitude, latitude)
		return err
	})
	return rect, err
}

// Target describes one body in an occultation query.
type Target struct {
	Name  string
	Shape string // POINT, ELLIPSOID or DSK/...
	Frame string // body-fixed frame; may be empty for POINT
}

// Occult returns the occultation condition of front relative to back as
// seen by observer at et.
func (s *Session) Occult(ctx context.Context, front, back Target, abcorr, observer string, et float64) (raw.Occultation, error) {
	var code raw.Occultation
	err := s.do(ctx, "occult", func(b Backend) (err error) {
		code, err = b.Occult(front.Name, front.Shape, front.Frame, back.Name, back.Shape, back.Frame, abcorr, observer, et)
		return err
	})
	return code, err
}

// Pxform returns the rotation from frame from to frame to at et.
func (s *Session) Pxform(ctx context.Context, from, to string, et float64) ([3][3]float64, error) {
	var m [3][3]float64
	err := s.do(ctx, "pxform", func(b Backend) (err error) {
		m, err = b.Pxform(from, to, et)
		return err
	})
	return m, err
}

// Pxfrm2 returns the rotation from frame from at etfrom to frame to at etto.
func (s *Session) Pxfrm2(ctx context.Context, from, to string, etfrom, etto float64) ([3][3]float64, error) {
	var m [3][3]float64
	err := s.do(ctx, "pxfrm2", func(b Backend) (err error) {
		m, err = b.Pxfrm2(from, to, etfrom, etto)
		return err
	})
	return m, err
}

// Recrad converts rectangular coordinates to range, right ascension and
// declination.
func (s *Session) Recrad(ctx context.Context, rectan [3]float64) (rng, ra, dec float64, err error) {
	err = s.do(ctx, "recrad", func(b Backend) (err error) {
		rng, ra, dec, err = b.Recrad(rectan)
		return err
	})
	return rng, ra, dec, err
}

// Spkpos returns the position of target relative to observer and the
// one-way light time.
func (s *Session) Spkpos(ctx context.Context, target string, et float64, frame, abcorr, observer string) ([3]float64, float64, error) {
	var (
		pos [3]float64
		lt  float64
	)
	err := s.do(ctx, "spkpos", func(b Backend) (err error) {
		pos, lt, err = b.Spkpos(target, et, frame, abcorr, observer)
		return err
	})
	return pos, lt, err
}

// Str2et converts a time string to ephemeris time.
func (s *Session) Str2et(ctx context.Context, str string) (float64, error) {
	var et float64
	err := s.do(ctx, "str2et", func(b Backend) (err error) {
		et, err = b.Str2et(str)
		return err
	})
	return et, err
}

// Vsep returns the angle between v1 and v2 in radians.
func (s *Session) Vsep(ctx context.Context, v1, v2 [3]float64) (float64, error) {
	var sep float64
	err := s.do(ctx, "vsep", func(b Backend) (err error) {
		sep, err = b.Vsep(v1, v2)
		return err
	})
	return sep, err
}

// Version returns the CSPICE toolkit version string.
func (s *Session) Version(ctx context.Context) (string, error) {
	var v string
	err := s.do(ctx, "tkvrsn", func(b Backend) (err error) {
		v, err = b.Tkvrsn("TOOLKIT")
		return err
	})
	return v, err
}

// refreshKernelCount publishes the loaded kernel count. Callers hold the
// session lock. A failed count is not an error for the caller.
func (s *Session) refreshKernelCount(b Backend) {
	if s.metrics == nil {
		return
	}
	n, err := b.Ktotal(raw.KindAll)
	if err != nil {
		return
	}
	s.metrics.SetLoadedKernels(int(n))
}
