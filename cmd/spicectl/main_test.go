package main

import (
	"bytes"
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/signalsfoundry/spice-go/raw"
	"github.com/signalsfoundry/spice-go/spice"
)

// cliBackend implements the routines spicectl reaches in these tests. The
// embedded interface is nil, so any other routine panics.
type cliBackend struct {
	spice.Backend

	kernels []string
	missing map[string]bool
	occult  func(et float64) raw.Occultation
	targets []spice.Target
	kclears int

	// One DSK file, "tetra.bds", with a single type 2 segment.
	dskOpen    bool
	dskgdFails bool
	dasclsOK   int
}

var (
	tetraVerts  = [][3]float64{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	tetraPlates = [][3]int32{{1, 3, 2}, {1, 2, 4}, {2, 3, 4}, {3, 1, 4}}
)

func (b *cliBackend) Furnsh(name string) error {
	if b.missing[name] {
		return raw.NewError("furnsh_c", "SPICE(NOSUCHFILE)", name)
	}
	b.kernels = append(b.kernels, name)
	return nil
}

func (b *cliBackend) Kclear() error {
	b.kclears++
	b.kernels = nil
	return nil
}

func (b *cliBackend) Ktotal(string) (int32, error) { return int32(len(b.kernels)), nil }

func (b *cliBackend) Kdata(which int32, kind string, fillen, typlen, srclen int) (raw.KernelData, error) {
	if which < 1 || int(which) > len(b.kernels) {
		return raw.KernelData{}, nil
	}
	name := b.kernels[which-1]
	typ := "TEXT"
	if strings.HasSuffix(name, ".bsp") {
		typ = "SPK"
	}
	return raw.KernelData{File: name, Type: typ, Found: true}, nil
}

func (b *cliBackend) Str2et(str string) (float64, error) {
	if et, err := strconv.ParseFloat(str, 64); err == nil {
		return et, nil
	}
	if at, err := time.Parse("2006-01-02T15:04:05.000000", str); err == nil {
		j2000 := time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC)
		return at.Sub(j2000).Seconds(), nil
	}
	return 0, raw.NewError("str2et_c", "SPICE(UNPARSEDTIME)", str)
}

func (b *cliBackend) Vsep(v1, v2 [3]float64) (float64, error) {
	dot := v1[0]*v2[0] + v1[1]*v2[1] + v1[2]*v2[2]
	n1 := math.Sqrt(v1[0]*v1[0] + v1[1]*v1[1] + v1[2]*v1[2])
	n2 := math.Sqrt(v2[0]*v2[0] + v2[1]*v2[1] + v2[2]*v2[2])
	return math.Acos(math.Max(-1, math.Min(1, dot/(n1*n2)))), nil
}

func (b *cliBackend) Dasopr(fname string) (int32, error) {
	if fname != "tetra.bds" {
		return 0, raw.NewError("dasopr_c", "SPICE(FILENOTFOUND)", fname)
	}
	b.dskOpen = true
	return 5, nil
}

func (b *cliBackend) Dascls(handle int32) error {
	if handle != 5 || !b.dskOpen {
		return raw.NewError("dascls_c", "SPICE(NOSUCHHANDLE)", "")
	}
	b.dskOpen = false
	b.dasclsOK++
	return nil
}

func (b *cliBackend) Dlabfs(handle int32) (raw.DLADescr, bool, error) {
	return raw.DLADescr{IBase: 10}, true, nil
}

func (b *cliBackend) Dlafns(handle int32, dladsc raw.DLADescr) (raw.DLADescr, bool, error) {
	return raw.DLADescr{}, false, nil
}

func (b *cliBackend) Dskgd(handle int32, dladsc raw.DLADescr) (raw.DSKDescr, error) {
	if b.dskgdFails {
		return raw.DSKDescr{}, raw.NewError("dskgd_c", "SPICE(BADDESCRIPTOR)", "")
	}
	return raw.DSKDescr{Surfce: 1001, Center: 499, DClass: 2, DType: 2, FrmCde: 10014}, nil
}

func (b *cliBackend) Dskz02(handle int32, dladsc raw.DLADescr) (int32, int32, error) {
	return int32(len(tetraVerts)), int32(len(tetraPlates)), nil
}

func (b *cliBackend) Dskp02(handle int32, dladsc raw.DLADescr, start, room int32) ([][3]int32, error) {
	return tetraPlates[start-1 : start-1+room], nil
}

func (b *cliBackend) Dskv02(handle int32, dladsc raw.DLADescr, start, room int32) ([][3]float64, error) {
	return tetraVerts[start-1 : start-1+room], nil
}

func (b *cliBackend) Timout(et float64, pictur string, lenout int) (string, error) {
	return "ET" + strconv.FormatFloat(et, 'f', 0, 64), nil
}

func (b *cliBackend) Tkvrsn(string) (string, error) { return "CSPICE_N0067", nil }

func (b *cliBackend) Occult(targ1, shape1, frame1, targ2, shape2, frame2, abcorr, obsrvr string, et float64) (raw.Occultation, error) {
	b.targets = append(b.targets,
		spice.Target{Name: targ1, Shape: shape1, Frame: frame1},
		spice.Target{Name: targ2, Shape: shape2, Frame: frame2})
	return b.occult(et), nil
}

func (b *cliBackend) Spkpos(targ string, et float64, frame, abcorr, obs string) ([3]float64, float64, error) {
	return [3]float64{0, 1000, 0}, 0.5, nil
}

func (b *cliBackend) Recrad(rectan [3]float64) (float64, float64, float64, error) {
	r := math.Sqrt(rectan[0]*rectan[0] + rectan[1]*rectan[1] + rectan[2]*rectan[2])
	return r, math.Atan2(rectan[1], rectan[0]), math.Asin(rectan[2] / r), nil
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"SPICE_KERNELS", "SPICE_METRICS_ADDR", "SPICE_LOG_LEVEL", "SPICE_LOG_FORMAT", "SPICE_TRACING_ENABLED"} {
		t.Setenv(k, "")
	}
}

func runCLI(t *testing.T, b *cliBackend, args ...string) (string, string, error) {
	t.Helper()
	clearEnv(t)
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), &app{backend: b}, args, &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func TestVersionCommand(t *testing.T) {
	b := &cliBackend{}
	out, _, err := runCLI(t, b, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out, "toolkit  CSPICE_N0067") {
		t.Fatalf("version output = %q", out)
	}
	if b.kclears != 1 {
		t.Fatalf("session not closed: kclear calls = %d", b.kclears)
	}
}

func TestKernelsCommandListsFlagKernels(t *testing.T) {
	b := &cliBackend{}
	out, _, err := runCLI(t, b, "--kernel", "naif0012.tls", "-k", "de440s.bsp", "kernels")
	if err != nil {
		t.Fatalf("kernels: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("kernels output = %q", out)
	}
	if !strings.Contains(lines[1], "naif0012.tls") || !strings.Contains(lines[2], "SPK") {
		t.Fatalf("kernels output = %q", out)
	}
}

func TestKernelLoadFailureClosesSession(t *testing.T) {
	b := &cliBackend{missing: map[string]bool{"gone.bsp": true}}
	_, stderr, err := runCLI(t, b, "-k", "gone.bsp", "version")
	if !errors.Is(err, raw.ErrFailed) {
		t.Fatalf("err = %v, want native failure", err)
	}
	if !strings.Contains(stderr, "SPICE(NOSUCHFILE)") {
		t.Fatalf("stderr = %q", stderr)
	}

	// A second invocation can open the session again.
	if _, _, err := runCLI(t, &cliBackend{}, "version"); err != nil {
		t.Fatalf("version after failure: %v", err)
	}
}

func TestKernelsFromConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spicectl.yaml")
	if err := os.WriteFile(path, []byte("kernels: [a.tls, b.tpc]\nlog: {level: debug, format: json}\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	b := &cliBackend{}
	out, stderr, err := runCLI(t, b, "--config", path, "kernels")
	if err != nil {
		t.Fatalf("kernels: %v", err)
	}
	if !strings.Contains(out, "a.tls") || !strings.Contains(out, "b.tpc") {
		t.Fatalf("kernels output = %q", out)
	}
	if !strings.Contains(stderr, `"msg":"kernel loaded"`) {
		t.Fatalf("expected JSON kernel-load logs, got %q", stderr)
	}
}

func TestTimeCommand(t *testing.T) {
	out, _, err := runCLI(t, &cliBackend{}, "time", "100", "250.5")
	if err != nil {
		t.Fatalf("time: %v", err)
	}
	if !strings.Contains(out, "100.000000") || !strings.Contains(out, "ET100") || !strings.Contains(out, "250.500000") {
		t.Fatalf("time output = %q", out)
	}

	if _, _, err := runCLI(t, &cliBackend{}, "time", "tomorrow"); raw.ShortCode(err) != "SPICE(UNPARSEDTIME)" {
		t.Fatalf("time err = %v", err)
	}
}

func TestSpkposCommand(t *testing.T) {
	out, _, err := runCLI(t, &cliBackend{}, "spkpos", "MOON", "EARTH", "--at", "0")
	if err != nil {
		t.Fatalf("spkpos: %v", err)
	}
	if !strings.Contains(out, "range:      1000.000000 km") || !strings.Contains(out, "ra/dec:     90.000000 0.000000 deg") {
		t.Fatalf("spkpos output = %q", out)
	}
}

func TestOccultCommandDefaultsFrames(t *testing.T) {
	b := &cliBackend{occult: func(float64) raw.Occultation { return raw.OccultTotal1 }}
	out, _, err := runCLI(t, b, "occult", "moon", "sun", "--at", "0", "--back-shape", "point")
	if err != nil {
		t.Fatalf("occult: %v", err)
	}
	if strings.TrimSpace(out) != "TOTAL1 -3" {
		t.Fatalf("occult output = %q", out)
	}
	front, back := b.targets[0], b.targets[1]
	if front.Frame != "IAU_MOON" || front.Shape != "ELLIPSOID" {
		t.Fatalf("front = %+v", front)
	}
	if back.Frame != "" || back.Shape != "POINT" {
		t.Fatalf("back = %+v", back)
	}
}

func TestSweepCommandReportsTransitions(t *testing.T) {
	b := &cliBackend{occult: func(et float64) raw.Occultation {
		if et >= 120 && et < 300 {
			return raw.OccultPartial1
		}
		return raw.OccultNone
	}}
	out, _, err := runCLI(t, b, "sweep", "MOON", "SUN", "--from", "0", "--to", "600", "--step", "1m")
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	want := "initial: NOOCC\nET120  NOOCC -> PARTL1\nET300  PARTL1 -> NOOCC\n"
	if out != want {
		t.Fatalf("sweep output = %q, want %q", out, want)
	}
}

func TestDSKCommandPrintsPlatesAndVertices(t *testing.T) {
	b := &cliBackend{}
	out, _, err := runCLI(t, b, "dsk", "tetra.bds", "--plates", "--vertices")
	if err != nil {
		t.Fatalf("dsk: %v", err)
	}
	want := "segment 1: surface 1001 center 499 class 2 type 2 frame 10014 vertices 4 plates 4\n" +
		"  v 1 0.000000 0.000000 0.000000\n" +
		"  v 2 1.000000 0.000000 0.000000\n" +
		"  v 3 0.000000 1.000000 0.000000\n" +
		"  v 4 0.000000 0.000000 1.000000\n" +
		"  p 1 1 3 2\n" +
		"  p 2 1 2 4\n" +
		"  p 3 2 3 4\n" +
		"  p 4 3 1 4\n"
	if out != want {
		t.Fatalf("dsk output = %q, want %q", out, want)
	}
	if b.dasclsOK != 1 || b.dskOpen {
		t.Fatalf("DSK file not closed: dascls = %d open = %v", b.dasclsOK, b.dskOpen)
	}
}

func TestDSKCommandClosesFileWhenSegmentsFail(t *testing.T) {
	b := &cliBackend{dskgdFails: true}
	_, _, err := runCLI(t, b, "dsk", "tetra.bds")
	if raw.ShortCode(err) != "SPICE(BADDESCRIPTOR)" {
		t.Fatalf("dsk err = %v, want BADDESCRIPTOR", err)
	}
	if b.dasclsOK != 1 || b.dskOpen {
		t.Fatalf("DSK file not closed after failure: dascls = %d open = %v", b.dasclsOK, b.dskOpen)
	}
}

func TestDSKCommandMissingFile(t *testing.T) {
	b := &cliBackend{}
	_, _, err := runCLI(t, b, "dsk", "nope.bds")
	if raw.ShortCode(err) != "SPICE(FILENOTFOUND)" {
		t.Fatalf("dsk err = %v, want FILENOTFOUND", err)
	}
	if b.dasclsOK != 0 {
		t.Fatalf("dascls called for a file that never opened")
	}
}

func writeTLE(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "iss.tle")
	body := "ISS (ZARYA)\n" +
		"1 25544U 98067A   21275.59097222  .00000204  00000-0  10270-4 0  9990\n" +
		"2 25544  51.6459 115.9059 0001817  61.3028  35.9198 15.49370953257760\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write TLE: %v", err)
	}
	return path
}

func TestSGP4Command(t *testing.T) {
	out, _, err := runCLI(t, &cliBackend{}, "sgp4", "-125544", "--tle", writeTLE(t), "--at", "2021-10-02T14:10:59.5Z")
	if err != nil {
		t.Fatalf("sgp4: %v", err)
	}
	for _, want := range []string{"epoch:      2021-10-02T14:10:59Z", "sgp4:", "spice:      0.000 1000.000 0.000 km", "distance:", "separation:"} {
		if !strings.Contains(out, want) {
			t.Fatalf("sgp4 output missing %q:\n%s", want, out)
		}
	}
}

func TestSGP4CommandRejectsBadEpoch(t *testing.T) {
	_, _, err := runCLI(t, &cliBackend{}, "sgp4", "-125544", "--tle", writeTLE(t), "--at", "yesterday")
	if err == nil || !strings.Contains(err.Error(), "parse --at") {
		t.Fatalf("sgp4 err = %v, want --at parse error", err)
	}
}

func TestConfigCommandWritesMergedSettings(t *testing.T) {
	clearEnv(t)
	t.Setenv("SPICE_METRICS_ADDR", "127.0.0.1:9464")
	path := filepath.Join(t.TempDir(), "out", "spicectl.yaml")
	var stdout, stderr bytes.Buffer
	b := &cliBackend{}
	err := run(context.Background(), &app{backend: b}, []string{"-k", "naif0012.tls", "--log-format", "json", "config", path}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	if len(b.kernels) != 0 {
		t.Fatalf("config command furnished kernels: %v", b.kernels)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read written config: %v", err)
	}
	for _, want := range []string{"naif0012.tls", "format: json", "127.0.0.1:9464"} {
		if !strings.Contains(string(data), want) {
			t.Fatalf("written config missing %q:\n%s", want, data)
		}
	}
}

func TestLogLevelFlagOverridesBadEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("SPICE_LOG_LEVEL", "loud")
	var stdout, stderr bytes.Buffer
	if err := run(context.Background(), &app{backend: &cliBackend{}}, []string{"--log-level", "warn", "version"}, &stdout, &stderr); err != nil {
		t.Fatalf("version with --log-level over bad env: %v", err)
	}
}

func TestReadTLE(t *testing.T) {
	path := filepath.Join(t.TempDir(), "iss.tle")
	body := "ISS (ZARYA)\r\n" +
		"1 25544U 98067A   21275.59097222  .00000204  00000-0  10270-4 0  9990\r\n" +
		"2 25544  51.6459 115.9059 0001817  61.3028  35.9198 15.49370953257760\r\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write TLE: %v", err)
	}
	tle, err := readTLE(path)
	if err != nil {
		t.Fatalf("readTLE: %v", err)
	}
	if !strings.HasPrefix(tle.Line1, "1 25544U") || !strings.HasSuffix(tle.Line2, "257760") {
		t.Fatalf("TLE = %+v", tle)
	}

	if err := os.WriteFile(path, []byte("only one line\n"), 0o644); err != nil {
		t.Fatalf("write TLE: %v", err)
	}
	if _, err := readTLE(path); err == nil {
		t.Fatalf("expected error for a file without element lines")
	}
}

func TestUnknownFlagValueRejectedByConfig(t *testing.T) {
	if _, _, err := runCLI(t, &cliBackend{}, "--log-level", "loud", "version"); err == nil || !strings.Contains(err.Error(), "log level") {
		t.Fatalf("err = %v, want invalid log level", err)
	}
}
