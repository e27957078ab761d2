package spice

import (
	"fmt"
	"math"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/signalsfoundry/spice-go/raw"
)

type fakeSegment struct {
	dsk      raw.DSKDescr
	plates   [][3]int32
	vertices [][3]float64
}

type fetchCall struct {
	start, room int32
}

// fakeBackend is an in-memory stand-in for CSPICE. It fails the test if two
// calls are ever in flight at once.
type fakeBackend struct {
	t *testing.T

	inflight atomic.Int32
	delay    time.Duration

	mu        sync.Mutex
	kernels   []string
	missing   map[string]bool
	files     map[string]int32
	open      map[int32]bool
	segments  map[int32][]fakeSegment
	positions map[string][3]float64
	occult    raw.Occultation

	timoutLens   []int
	plateFetches []fetchCall
	vertFetches  []fetchCall
	kclears      int
}

func newFakeBackend(t *testing.T) *fakeBackend {
	return &fakeBackend{
		t:         t,
		missing:   map[string]bool{},
		files:     map[string]int32{},
		open:      map[int32]bool{},
		segments:  map[int32][]fakeSegment{},
		positions: map[string][3]float64{},
	}
}

func (f *fakeBackend) enter() func() {
	if n := f.inflight.Add(1); n > 1 {
		f.t.Errorf("concurrent native entry: %d calls in flight", n)
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	f.mu.Lock()
	return func() {
		f.mu.Unlock()
		f.inflight.Add(-1)
	}
}

func fixed(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if len(s) > n-1 {
		return s[:n-1]
	}
	return s
}

func (f *fakeBackend) Dascls(handle int32) error {
	defer f.enter()()
	if !f.open[handle] {
		return raw.NewError("dascls_c", "SPICE(NOSUCHHANDLE)", fmt.Sprintf("handle %d is not open", handle))
	}
	delete(f.open, handle)
	return nil
}

func (f *fakeBackend) Dasopr(fname string) (int32, error) {
	defer f.enter()()
	h, ok := f.files[fname]
	if !ok {
		return 0, raw.NewError("dasopr_c", "SPICE(FILENOTFOUND)", fname)
	}
	f.open[h] = true
	return h, nil
}

func (f *fakeBackend) segment(handle int32, dladsc raw.DLADescr) (fakeSegment, error) {
	segs := f.segments[handle]
	i := int(dladsc.IBase)
	if !f.open[handle] || i < 0 || i >= len(segs) {
		return fakeSegment{}, raw.NewError("dskz02_c", "SPICE(INVALIDHANDLE)", "")
	}
	return segs[i], nil
}

func (f *fakeBackend) Dlabfs(handle int32) (raw.DLADescr, bool, error) {
	defer f.enter()()
	if len(f.segments[handle]) == 0 {
		return raw.DLADescr{}, false, nil
	}
	return raw.DLADescr{IBase: 0, FwdPtr: 1}, true, nil
}

func (f *fakeBackend) Dlafns(handle int32, dladsc raw.DLADescr) (raw.DLADescr, bool, error) {
	defer f.enter()()
	next := dladsc.IBase + 1
	if int(next) >= len(f.segments[handle]) {
		return raw.DLADescr{}, false, nil
	}
	return raw.DLADescr{IBase: next, BwdPtr: dladsc.IBase, FwdPtr: next + 1}, true, nil
}

func (f *fakeBackend) Dskgd(handle int32, dladsc raw.DLADescr) (raw.DSKDescr, error) {
	defer f.enter()()
	seg, err := f.segment(handle, dladsc)
	return seg.dsk, err
}

func (f *fakeBackend) Dskn02(handle int32, dladsc raw.DLADescr, plid int32) ([3]float64, error) {
	defer f.enter()()
	return [3]float64{0, 0, 1}, nil
}

func (f *fakeBackend) Dskx02(handle int32, dladsc raw.DLADescr, vertex, raydir [3]float64) (int32, [3]float64, bool, error) {
	defer f.enter()()
	return 7, [3]float64{1, 2, 3}, true, nil
}

func (f *fakeBackend) Dskz02(handle int32, dladsc raw.DLADescr) (int32, int32, error) {
	defer f.enter()()
	seg, err := f.segment(handle, dladsc)
	if err != nil {
		return 0, 0, err
	}
	return int32(len(seg.vertices)), int32(len(seg.plates)), nil
}

// window mirrors dskp02_c/dskv02_c argument checks: room must be positive
// and start must name an existing row.
func window(routine string, total int, start, room int32) (int, int, error) {
	lo := int(start) - 1
	if room < 1 {
		return 0, 0, raw.NewError(routine, "SPICE(VALUEOUTOFRANGE)", fmt.Sprintf("room %d", room))
	}
	if lo < 0 || lo >= total {
		return 0, 0, raw.NewError(routine, "SPICE(INDEXOUTOFRANGE)", fmt.Sprintf("start %d", start))
	}
	return lo, min(total, lo+int(room)), nil
}

func (f *fakeBackend) Dskp02(handle int32, dladsc raw.DLADescr, start, room int32) ([][3]int32, error) {
	defer f.enter()()
	f.plateFetches = append(f.plateFetches, fetchCall{start, room})
	seg, err := f.segment(handle, dladsc)
	if err != nil {
		return nil, err
	}
	lo, hi, err := window("dskp02_c", len(seg.plates), start, room)
	if err != nil {
		return nil, err
	}
	return append([][3]int32{}, seg.plates[lo:hi]...), nil
}

func (f *fakeBackend) Dskv02(handle int32, dladsc raw.DLADescr, start, room int32) ([][3]float64, error) {
	defer f.enter()()
	f.vertFetches = append(f.vertFetches, fetchCall{start, room})
	seg, err := f.segment(handle, dladsc)
	if err != nil {
		return nil, err
	}
	lo, hi, err := window("dskv02_c", len(seg.vertices), start, room)
	if err != nil {
		return nil, err
	}
	return append([][3]float64{}, seg.vertices[lo:hi]...), nil
}

func (f *fakeBackend) Furnsh(name string) error {
	defer f.enter()()
	if name == "" || f.missing[name] {
		return raw.NewError("furnsh_c", "SPICE(NOSUCHFILE)", fmt.Sprintf("kernel %q does not exist", name))
	}
	f.kernels = append(f.kernels, name)
	return nil
}

func (f *fakeBackend) Kclear() error {
	defer f.enter()()
	f.kclears++
	f.kernels = nil
	return nil
}

func (f *fakeBackend) Kdata(which int32, kind string, fillen, typlen, srclen int) (raw.KernelData, error) {
	defer f.enter()()
	if which < 1 || int(which) > len(f.kernels) {
		return raw.KernelData{}, nil
	}
	return raw.KernelData{
		File:   fixed(f.kernels[which-1], fillen),
		Type:   fixed("TEXT", typlen),
		Source: "",
		Handle: 0,
		Found:  true,
	}, nil
}

func (f *fakeBackend) Kinfo(file string, typlen, srclen int) (raw.KernelInfo, error) {
	defer f.enter()()
	for _, k := range f.kernels {
		if k == file {
			return raw.KernelInfo{Type: fixed("TEXT", typlen), Found: true}, nil
		}
	}
	return raw.KernelInfo{}, nil
}

func (f *fakeBackend) Ktotal(kind string) (int32, error) {
	defer f.enter()()
	return int32(len(f.kernels)), nil
}

func (f *fakeBackend) Latrec(radius, longitude, latitude float64) ([3]float64, error) {
	defer f.enter()()
	return [3]float64{
		radius * math.Cos(longitude) * math.Cos(latitude),
		radius * math.Sin(longitude) * math.Cos(latitude),
		radius * math.Sin(latitude),
	}, nil
}

func (f *fakeBackend) Occult(targ1, shape1, frame1, targ2, shape2, frame2, abcorr, obsrvr string, et float64) (raw.Occultation, error) {
	defer f.enter()()
	return f.occult, nil
}

func (f *fakeBackend) Pxform(from, to string, et float64) ([3][3]float64, error) {
	defer f.enter()()
	return [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}, nil
}

func (f *fakeBackend) Pxfrm2(from, to string, etfrom, etto float64) ([3][3]float64, error) {
	defer f.enter()()
	return [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}, nil
}

func (f *fakeBackend) Recrad(rectan [3]float64) (float64, float64, float64, error) {
	defer f.enter()()
	rng := math.Sqrt(rectan[0]*rectan[0] + rectan[1]*rectan[1] + rectan[2]*rectan[2])
	return rng, math.Atan2(rectan[1], rectan[0]), math.Asin(rectan[2] / rng), nil
}

func (f *fakeBackend) Spkpos(targ string, et float64, frame, abcorr, obs string) ([3]float64, float64, error) {
	defer f.enter()()
	pos, ok := f.positions[targ]
	if !ok {
		return [3]float64{}, 0, raw.NewError("spkpos_c", "SPICE(SPKINSUFFDATA)", targ)
	}
	return pos, 0.01, nil
}

func (f *fakeBackend) Str2et(str string) (float64, error) {
	defer f.enter()()
	et, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return 0, raw.NewError("str2et_c", "SPICE(UNPARSEDTIME)", str)
	}
	return et, nil
}

func (f *fakeBackend) Timout(et float64, pictur string, lenout int) (string, error) {
	defer f.enter()()
	f.timoutLens = append(f.timoutLens, lenout)
	return fixed(fmt.Sprintf("%s@%.0f", pictur, et), lenout), nil
}

func (f *fakeBackend) Tkvrsn(item string) (string, error) {
	defer f.enter()()
	return "CSPICE_N0067", nil
}

func (f *fakeBackend) Unload(name string) error {
	defer f.enter()()
	for i, k := range f.kernels {
		if k == name {
			f.kernels = append(f.kernels[:i], f.kernels[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeBackend) Vsep(v1, v2 [3]float64) (float64, error) {
	defer f.enter()()
	dot := v1[0]*v2[0] + v1[1]*v2[1] + v1[2]*v2[2]
	n1 := math.Sqrt(v1[0]*v1[0] + v1[1]*v1[1] + v1[2]*v1[2])
	n2 := math.Sqrt(v2[0]*v2[0] + v2[1]*v2[1] + v2[2]*v2[2])
	if n1 == 0 || n2 == 0 {
		return 0, nil
	}
	c := math.Max(-1, math.Min(1, dot/(n1*n2)))
	return math.Acos(c), nil
}

// addDSK registers a DSK file with one segment per entry in segs.
func (f *fakeBackend) addDSK(path string, handle int32, segs ...fakeSegment) {
	f.files[path] = handle
	f.segments[handle] = segs
}
