package spice

import "github.com/signalsfoundry/spice-go/raw"

// Backend is the set of native routines a Session drives. NativeBackend
// forwards to package raw; tests substitute an in-memory implementation.
type Backend interface {
	Dascls(handle int32) error
	Dasopr(fname string) (int32, error)
	Dlabfs(handle int32) (raw.DLADescr, bool, error)
	Dlafns(handle int32, dladsc raw.DLADescr) (raw.DLADescr, bool, error)
	Dskgd(handle int32, dladsc raw.DLADescr) (raw.DSKDescr, error)
	Dskn02(handle int32, dladsc raw.DLADescr, plid int32) ([3]float64, error)
	Dskx02(handle int32, dladsc raw.DLADescr, vertex, raydir [3]float64) (int32, [3]float64, bool, error)
	Dskz02(handle int32, dladsc raw.DLADescr) (nv, np int32, err error)
	Dskp02(handle int32, dladsc raw.DLADescr, start, room int32) ([][3]int32, error)
	Dskv02(handle int32, dladsc raw.DLADescr, start, room int32) ([][3]float64, error)
	Furnsh(name string) error
	Kclear() error
	Kdata(which int32, kind string, fillen, typlen, srclen int) (raw.KernelData, error)
	Kinfo(file string, typlen, srclen int) (raw.KernelInfo, error)
	Ktotal(kind string) (int32, error)
	Latrec(radius, longitude, latitude float64) ([3]float64, error)
	Occult(targ1, shape1, frame1, targ2, shape2, frame2, abcorr, obsrvr string, et float64) (raw.Occultation, error)
	Pxform(from, to string, et float64) ([3][3]float64, error)
	Pxfrm2(from, to string, etfrom, etto float64) ([3][3]float64, error)
	Recrad(rectan [3]float64) (rng, ra, dec float64, err error)
	Spkpos(targ string, et float64, frame, abcorr, obs string) ([3]float64, float64, error)
	Str2et(str string) (float64, error)
	Timout(et float64, pictur string, lenout int) (string, error)
	Tkvrsn(item string) (string, error)
	Unload(name string) error
	Vsep(v1, v2 [3]float64) (float64, error)
}

// NativeBackend returns the Backend backed by the linked CSPICE library.
func NativeBackend() Backend { return nativeBackend{} }

type nativeBackend struct{}

func (nativeBackend) Dascls(handle int32) error          { return raw.Dascls(handle) }
func (nativeBackend) Dasopr(fname string) (int32, error) { return raw.Dasopr(fname) }
func (nativeBackend) Dlabfs(handle int32) (raw.DLADescr, bool, error) {
	return raw.Dlabfs(handle)
}
func (nativeBackend) Dlafns(handle int32, dladsc raw.DLADescr) (raw.DLADescr, bool, error) {
	return raw.Dlafns(handle, dladsc)
}
func (nativeBackend) Dskgd(handle int32, dladsc raw.DLADescr) (raw.DSKDescr, error) {
	return raw.Dskgd(handle, dladsc)
}
func (nativeBackend) Dskn02(handle int32, dladsc raw.DLADescr, plid int32) ([3]float64, error) {
	return raw.Dskn02(handle, dladsc, plid)
}
func (nativeBackend) Dskx02(handle int32, dladsc raw.DLADescr, vertex, raydir [3]float64) (int32, [3]float64, bool, error) {
	return raw.Dskx02(handle, dladsc, vertex, raydir)
}
func (nativeBackend) Dskz02(handle int32, dladsc raw.DLADescr) (int32, int32, error) {
	return raw.Dskz02(handle, dladsc)
}
func (nativeBackend) Dskp02(handle int32, dladsc raw.DLADescr, start, room int32) ([][3]int32, error) {
	return raw.Dskp02(handle, dladsc, start, room)
}
func (nativeBackend) Dskv02(handle int32, dladsc raw.DLADescr, start, room int32) ([][3]float64, error) {
	return raw.Dskv02(handle, dladsc, start, room)
}
func (nativeBackend) Furnsh(name string) error { return raw.Furnsh(name) }
func (nativeBackend) Kclear() error            { return raw.Kclear() }
func (nativeBackend) Kdata(which int32, kind string, fillen, typlen, srclen int) (raw.KernelData, error) {
	return raw.Kdata(which, kind, fillen, typlen, srclen)
}
func (nativeBackend) Kinfo(file string, typlen, srclen int) (raw.KernelInfo, error) {
	return raw.Kinfo(file, typlen, srclen)
}
func (nativeBackend) Ktotal(kind string) (int32, error) { return raw.Ktotal(kind) }
func (nativeBackend) Latrec(radius, longitude, latitude float64) ([3]float64, error) {
	return raw.Latrec(radius, longitude, latitude)
}
func (nativeBackend) Occult(targ1, shape1, frame1, targ2, shape2, frame2, abcorr, obsrvr string, et float64) (raw.Occultation, error) {
	return raw.Occult(targ1, shape1, frame1, targ2, shape2, frame2, abcorr, obsrvr, et)
}
func (nativeBackend) Pxform(from, to string, et float64) ([3][3]float64, error) {
	return raw.Pxform(from, to, et)
}
func (nativeBackend) Pxfrm2(from, to string, etfrom, etto float64) ([3][3]float64, error) {
	return raw.Pxfrm2(from, to, etfrom, etto)
}
func (nativeBackend) Recrad(rectan [3]float64) (float64, float64, float64, error) {
	return raw.Recrad(rectan)
}
func (nativeBackend) Spkpos(targ string, et float64, frame, abcorr, obs string) ([3]float64, float64, error) {
	return raw.Spkpos(targ, et, frame, abcorr, obs)
}
func (nativeBackend) Str2et(str string) (float64, error) { return raw.Str2et(str) }
func (nativeBackend) Timout(et float64, pictur string, lenout int) (string, error) {
	return raw.Timout(et, pictur, lenout)
}
func (nativeBackend) Tkvrsn(item string) (string, error) { return raw.Tkvrsn(item) }
func (nativeBackend) Unload(name string) error           { return raw.Unload(name) }
func (nativeBackend) Vsep(v1, v2 [3]float64) (float64, error) {
	return raw.Vsep(v1, v2)
}
