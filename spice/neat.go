package spice

import (
	"context"
	"fmt"

	"github.com/signalsfoundry/spice-go/internal/logging"
	"github.com/signalsfoundry/spice-go/raw"
)

// Timout formats et according to pictur. The caller passes only the
// picture. Tokens such as MONTH or DAYOFWEEK render longer than they are
// written, so the output capacity is the shared raw.MaxLenOut rather than
// the picture length.
func (s *Session) Timout(ctx context.Context, et float64, pictur string) (string, error) {
	var out string
	err := s.do(ctx, "timout", func(b Backend) (err error) {
		out, err = b.Timout(et, pictur, raw.MaxLenOut)
		return err
	})
	return out, err
}

// DSKP02 returns every plate of a type 2 DSK segment. The plate count and
// the plates are fetched under one lock acquisition. A segment without
// plates yields an empty slice; CSPICE rejects a fetch with room 0.
func (s *Session) DSKP02(ctx context.Context, handle int32, dladsc raw.DLADescr) ([][3]int32, error) {
	var plates [][3]int32
	err := s.do(ctx, "dskp02", func(b Backend) error {
		_, np, err := b.Dskz02(handle, dladsc)
		if err != nil {
			return err
		}
		if np == 0 {
			plates = [][3]int32{}
			return nil
		}
		plates, err = b.Dskp02(handle, dladsc, 1, np)
		return err
	})
	return plates, err
}

// DSKV02 returns every vertex of a type 2 DSK segment.
func (s *Session) DSKV02(ctx context.Context, handle int32, dladsc raw.DLADescr) ([][3]float64, error) {
	var verts [][3]float64
	err := s.do(ctx, "dskv02", func(b Backend) error {
		nv, _, err := b.Dskz02(handle, dladsc)
		if err != nil {
			return err
		}
		if nv == 0 {
			verts = [][3]float64{}
			return nil
		}
		verts, err = b.Dskv02(handle, dladsc, 1, nv)
		return err
	})
	return verts, err
}

// KData returns the which-th (1-based) loaded kernel of kind, with every
// string output bounded by raw.MaxLenOut. An index past the loaded count is
// a native failure with short code SPICE(INDEXOUTOFRANGE).
func (s *Session) KData(ctx context.Context, which int32, kind string) (raw.KernelData, error) {
	var kd raw.KernelData
	err := s.do(ctx, "kdata", func(b Backend) (err error) {
		kd, err = kdata(b, which, kind)
		return err
	})
	return kd, err
}

func kdata(b Backend, which int32, kind string) (raw.KernelData, error) {
	kd, err := b.Kdata(which, kind, raw.MaxLenOut, raw.MaxLenOut, raw.MaxLenOut)
	if err != nil {
		return raw.KernelData{}, err
	}
	if !kd.Found {
		return raw.KernelData{}, raw.NewError("kdata_c", "SPICE(INDEXOUTOFRANGE)",
			fmt.Sprintf("no loaded kernel of kind %q at index %d", kind, which))
	}
	return kd, nil
}

// Unload unloads a kernel. Unloading a kernel that is not loaded is a
// native failure with short code SPICE(KERNELNOTLOADED), on every attempt.
func (s *Session) Unload(ctx context.Context, name string) error {
	return s.do(ctx, "unload", func(b Backend) error {
		info, err := b.Kinfo(name, raw.MaxLenOut, raw.MaxLenOut)
		if err != nil {
			return err
		}
		if !info.Found {
			return raw.NewError("unload_c", "SPICE(KERNELNOTLOADED)",
				fmt.Sprintf("kernel %q is not loaded", name))
		}
		if err := b.Unload(name); err != nil {
			return err
		}
		s.logger(ctx).Info(ctx, "kernel unloaded", logging.String("kernel", name))
		s.refreshKernelCount(b)
		return nil
	})
}

// LoadKernels loads names in order and stops at the first failure.
func (s *Session) LoadKernels(ctx context.Context, names ...string) error {
	for _, name := range names {
		if err := s.Furnsh(ctx, name); err != nil {
			return fmt.Errorf("load kernel %q: %w", name, err)
		}
	}
	return nil
}

// Kernels lists every loaded kernel of kind in load order.
func (s *Session) Kernels(ctx context.Context, kind string) ([]raw.KernelData, error) {
	var out []raw.KernelData
	err := s.do(ctx, "kernels", func(b Backend) error {
		n, err := b.Ktotal(kind)
		if err != nil {
			return err
		}
		out = make([]raw.KernelData, 0, n)
		for i := int32(1); i <= n; i++ {
			kd, err := kdata(b, i, kind)
			if err != nil {
				return err
			}
			out = append(out, kd)
		}
		return nil
	})
	return out, err
}

// Segment is one DLA segment of an open DSK file.
type Segment struct {
	DLA raw.DLADescr
	DSK raw.DSKDescr
}

// Segments walks every DLA segment of the DSK file open on handle.
func (s *Session) Segments(ctx context.Context, handle int32) ([]Segment, error) {
	var segs []Segment
	err := s.do(ctx, "segments", func(b Backend) error {
		dla, found, err := b.Dlabfs(handle)
		for err == nil && found {
			var dsk raw.DSKDescr
			if dsk, err = b.Dskgd(handle, dla); err != nil {
				break
			}
			segs = append(segs, Segment{DLA: dla, DSK: dsk})
			dla, found, err = b.Dlafns(handle, dla)
		}
		return err
	})
	return segs, err
}
