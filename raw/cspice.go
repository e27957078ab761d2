//go:build cspice

package raw

/*
#cgo LDFLAGS: -lm
#include <stdlib.h>
#include "SpiceUsr.h"
*/
import "C"

import (
	"unsafe"
)

func init() {
	// Report failures through failed_c instead of aborting the process.
	op, freeOp := cstr("SET")
	defer freeOp()
	action := C.CString("RETURN")
	defer C.free(unsafe.Pointer(action))
	C.erract_c(op, 0, (*C.SpiceChar)(unsafe.Pointer(action)))

	list := C.CString("NONE")
	defer C.free(unsafe.Pointer(list))
	C.errprt_c(op, 0, (*C.SpiceChar)(unsafe.Pointer(list)))
}

// cstr copies s into C memory. Callers reject interior NULs with checkArgs
// first; C.CString would otherwise truncate there.
func cstr(s string) (*C.ConstSpiceChar, func()) {
	p := C.CString(s)
	return (*C.ConstSpiceChar)(unsafe.Pointer(p)), func() { C.free(unsafe.Pointer(p)) }
}

func charPtr(buf []byte) *C.SpiceChar {
	return (*C.SpiceChar)(unsafe.Pointer(&buf[0]))
}

func vec3(v [3]float64) [3]C.SpiceDouble {
	return [3]C.SpiceDouble{C.SpiceDouble(v[0]), C.SpiceDouble(v[1]), C.SpiceDouble(v[2])}
}

func constVec(v *[3]C.SpiceDouble) *C.ConstSpiceDouble {
	return (*C.ConstSpiceDouble)(unsafe.Pointer(&v[0]))
}

func goVec3(v [3]C.SpiceDouble) [3]float64 {
	return [3]float64{float64(v[0]), float64(v[1]), float64(v[2])}
}

func goMat3(m [3][3]C.SpiceDouble) [3][3]float64 {
	var flat [9]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			flat[3*i+j] = float64(m[i][j])
		}
	}
	return matrix(flat)
}

func toCDLA(d DLADescr) C.SpiceDLADescr {
	return C.SpiceDLADescr{
		bwdptr: C.SpiceInt(d.BwdPtr),
		fwdptr: C.SpiceInt(d.FwdPtr),
		ibase:  C.SpiceInt(d.IBase),
		isize:  C.SpiceInt(d.ISize),
		dbase:  C.SpiceInt(d.DBase),
		dsize:  C.SpiceInt(d.DSize),
		cbase:  C.SpiceInt(d.CBase),
		csize:  C.SpiceInt(d.CSize),
	}
}

func fromCDLA(d C.SpiceDLADescr) DLADescr {
	return DLADescr{
		BwdPtr: int32(d.bwdptr),
		FwdPtr: int32(d.fwdptr),
		IBase:  int32(d.ibase),
		ISize:  int32(d.isize),
		DBase:  int32(d.dbase),
		DSize:  int32(d.dsize),
		CBase:  int32(d.cbase),
		CSize:  int32(d.csize),
	}
}

func constDLA(d *C.SpiceDLADescr) *C.ConstSpiceDLADescr {
	return (*C.ConstSpiceDLADescr)(unsafe.Pointer(d))
}

func fromCDSK(d C.SpiceDSKDescr) DSKDescr {
	out := DSKDescr{
		Surfce: int32(d.surfce),
		Center: int32(d.center),
		DClass: int32(d.dclass),
		DType:  int32(d.dtype),
		FrmCde: int32(d.frmcde),
		CorSys: int32(d.corsys),
		Co1Min: float64(d.co1min),
		Co1Max: float64(d.co1max),
		Co2Min: float64(d.co2min),
		Co2Max: float64(d.co2max),
		Co3Min: float64(d.co3min),
		Co3Max: float64(d.co3max),
		Start:  float64(d.start),
		Stop:   float64(d.stop),
	}
	for i := range out.CorPar {
		out.CorPar[i] = float64(d.corpar[i])
	}
	return out
}

// check converts the native error state into an *Error and resets it.
func check(routine string) error {
	if C.failed_c() == 0 {
		return nil
	}
	err := &Error{
		Routine: routine,
		Short:   getmsg("SHORT", 32),
		Explain: getmsg("EXPLAIN", 128),
		Long:    getmsg("LONG", 2048),
	}
	trace := outBuf(1024)
	C.qcktrc_c(C.SpiceInt(len(trace)), charPtr(trace))
	err.Trace = goString(trace, len(trace))
	C.reset_c()
	return err
}

func getmsg(option string, n int) string {
	opt, free := cstr(option)
	defer free()
	buf := outBuf(n)
	C.getmsg_c(opt, C.SpiceInt(n), charPtr(buf))
	return goString(buf, n)
}

// Dascls closes a DAS file.
func Dascls(handle int32) error {
	C.dascls_c(C.SpiceInt(handle))
	return check("dascls_c")
}

// Dasopr opens a DAS file for reading and returns its handle.
func Dasopr(fname string) (int32, error) {
	if err := checkArgs("dasopr_c", fname); err != nil {
		return 0, err
	}
	f, free := cstr(fname)
	defer free()
	var handle C.SpiceInt
	C.dasopr_c(f, &handle)
	if err := check("dasopr_c"); err != nil {
		return 0, err
	}
	return int32(handle), nil
}

// Dlabfs begins a forward segment search in a DLA file.
func Dlabfs(handle int32) (DLADescr, bool, error) {
	var (
		dsc   C.SpiceDLADescr
		found C.SpiceBoolean
	)
	C.dlabfs_c(C.SpiceInt(handle), &dsc, &found)
	if err := check("dlabfs_c"); err != nil {
		return DLADescr{}, false, err
	}
	return fromCDLA(dsc), boolFlag(int32(found)), nil
}

// Dlafns finds the segment following dladsc in a DLA file.
func Dlafns(handle int32, dladsc DLADescr) (DLADescr, bool, error) {
	var (
		cur   = toCDLA(dladsc)
		next  C.SpiceDLADescr
		found C.SpiceBoolean
	)
	C.dlafns_c(C.SpiceInt(handle), constDLA(&cur), &next, &found)
	if err := check("dlafns_c"); err != nil {
		return DLADescr{}, false, err
	}
	return fromCDLA(next), boolFlag(int32(found)), nil
}

// Dskgd returns the DSK descriptor of the segment identified by handle and
// dladsc.
func Dskgd(handle int32, dladsc DLADescr) (DSKDescr, error) {
	var (
		dla = toCDLA(dladsc)
		dsk C.SpiceDSKDescr
	)
	C.dskgd_c(C.SpiceInt(handle), constDLA(&dla), &dsk)
	if err := check("dskgd_c"); err != nil {
		return DSKDescr{}, err
	}
	return fromCDSK(dsk), nil
}

// Dskn02 computes the unit normal of plate plid in a type 2 DSK segment.
func Dskn02(handle int32, dladsc DLADescr, plid int32) ([3]float64, error) {
	var (
		dla    = toCDLA(dladsc)
		normal [3]C.SpiceDouble
	)
	C.dskn02_c(C.SpiceInt(handle), constDLA(&dla), C.SpiceInt(plid), &normal[0])
	if err := check("dskn02_c"); err != nil {
		return [3]float64{}, err
	}
	return goVec3(normal), nil
}

// Dskx02 intersects a ray with a type 2 DSK plate model. It returns the
// plate ID, the intercept and whether an intercept was found.
func Dskx02(handle int32, dladsc DLADescr, vertex, raydir [3]float64) (int32, [3]float64, bool, error) {
	var (
		dla   = toCDLA(dladsc)
		v     = vec3(vertex)
		d     = vec3(raydir)
		plid  C.SpiceInt
		xpt   [3]C.SpiceDouble
		found C.SpiceBoolean
	)
	C.dskx02_c(C.SpiceInt(handle), constDLA(&dla), constVec(&v), constVec(&d), &plid, &xpt[0], &found)
	if err := check("dskx02_c"); err != nil {
		return 0, [3]float64{}, false, err
	}
	return int32(plid), goVec3(xpt), boolFlag(int32(found)), nil
}

// Dskz02 returns the vertex and plate counts of a type 2 DSK segment.
func Dskz02(handle int32, dladsc DLADescr) (nv, np int32, err error) {
	var (
		dla    = toCDLA(dladsc)
		cv, cp C.SpiceInt
	)
	C.dskz02_c(C.SpiceInt(handle), constDLA(&dla), &cv, &cp)
	if err := check("dskz02_c"); err != nil {
		return 0, 0, err
	}
	return int32(cv), int32(cp), nil
}

// Dskp02 fetches up to room plates starting at the 1-based index start.
func Dskp02(handle int32, dladsc DLADescr, start, room int32) ([][3]int32, error) {
	var (
		dla = toCDLA(dladsc)
		n   C.SpiceInt
	)
	buf := make([][3]C.SpiceInt, max(int(room), 1))
	C.dskp02_c(C.SpiceInt(handle), constDLA(&dla), C.SpiceInt(start), C.SpiceInt(room), &n, &buf[0])
	if err := check("dskp02_c"); err != nil {
		return nil, err
	}
	if room <= 0 {
		return [][3]int32{}, nil
	}
	flat := make([]int32, 0, 3*len(buf))
	for _, p := range buf {
		flat = append(flat, int32(p[0]), int32(p[1]), int32(p[2]))
	}
	return plates(flat, int(n)), nil
}

// Dskv02 fetches up to room vertices starting at the 1-based index start.
func Dskv02(handle int32, dladsc DLADescr, start, room int32) ([][3]float64, error) {
	var (
		dla = toCDLA(dladsc)
		n   C.SpiceInt
	)
	buf := make([][3]C.SpiceDouble, max(int(room), 1))
	C.dskv02_c(C.SpiceInt(handle), constDLA(&dla), C.SpiceInt(start), C.SpiceInt(room), &n, &buf[0])
	if err := check("dskv02_c"); err != nil {
		return nil, err
	}
	if room <= 0 {
		return [][3]float64{}, nil
	}
	flat := make([]float64, 0, 3*len(buf))
	for _, v := range buf {
		flat = append(flat, float64(v[0]), float64(v[1]), float64(v[2]))
	}
	return vertices(flat, int(n)), nil
}

// Furnsh loads a kernel (or every kernel listed by a meta-kernel).
func Furnsh(name string) error {
	if err := checkArgs("furnsh_c", name); err != nil {
		return err
	}
	f, free := cstr(name)
	defer free()
	C.furnsh_c(f)
	return check("furnsh_c")
}

// Kclear unloads every kernel and clears the kernel pool.
func Kclear() error {
	C.kclear_c()
	return check("kclear_c")
}

// Kdata returns the which-th (1-based) loaded kernel of the given kind. The
// three lengths bound the file, type and source outputs respectively.
func Kdata(which int32, kind string, fillen, typlen, srclen int) (KernelData, error) {
	if err := checkArgs("kdata_c", kind); err != nil {
		return KernelData{}, err
	}
	k, free := cstr(kind)
	defer free()
	fillen, typlen, srclen = outLen(fillen), outLen(typlen), outLen(srclen)
	var (
		file   = outBuf(fillen)
		filtyp = outBuf(typlen)
		source = outBuf(srclen)
		handle C.SpiceInt
		found  C.SpiceBoolean
	)
	C.kdata_c(C.SpiceInt(which), k,
		C.SpiceInt(fillen), C.SpiceInt(typlen), C.SpiceInt(srclen),
		charPtr(file), charPtr(filtyp), charPtr(source), &handle, &found)
	if err := check("kdata_c"); err != nil {
		return KernelData{}, err
	}
	return KernelData{
		File:   goString(file, fillen),
		Type:   goString(filtyp, typlen),
		Source: goString(source, srclen),
		Handle: int32(handle),
		Found:  boolFlag(int32(found)),
	}, nil
}

// Kinfo reports whether file is loaded and, if so, its type, source and
// handle.
func Kinfo(file string, typlen, srclen int) (KernelInfo, error) {
	if err := checkArgs("kinfo_c", file); err != nil {
		return KernelInfo{}, err
	}
	f, free := cstr(file)
	defer free()
	typlen, srclen = outLen(typlen), outLen(srclen)
	var (
		filtyp = outBuf(typlen)
		source = outBuf(srclen)
		handle C.SpiceInt
		found  C.SpiceBoolean
	)
	C.kinfo_c(f, C.SpiceInt(typlen), C.SpiceInt(srclen), charPtr(filtyp), charPtr(source), &handle, &found)
	if err := check("kinfo_c"); err != nil {
		return KernelInfo{}, err
	}
	return KernelInfo{
		Type:   goString(filtyp, typlen),
		Source: goString(source, srclen),
		Handle: int32(handle),
		Found:  boolFlag(int32(found)),
	}, nil
}

// Ktotal returns the number of loaded kernels of the given kind.
func Ktotal(kind string) (int32, error) {
	if err := checkArgs("ktotal_c", kind); err != nil {
		return 0, err
	}
	k, free := cstr(kind)
	defer free()
	var count C.SpiceInt
	C.ktotal_c(k, &count)
	if err := check("ktotal_c"); err != nil {
		return 0, err
	}
	return int32(count), nil
}

// Latrec converts latitudinal coordinates to rectangular coordinates.
func Latrec(radius, longitude, latitude float64) ([3]float64, error) {
	var rectan [3]C.SpiceDouble
	C.latrec_c(C.SpiceDouble(radius), C.SpiceDouble(longitude), C.SpiceDouble(latitude), &rectan[0])
	if err := check("latrec_c"); err != nil {
		return [3]float64{}, err
	}
	return goVec3(rectan), nil
}

// Occult determines the occultation condition of targ1 relative to targ2 as
// seen by obsrvr at et.
func Occult(targ1, shape1, frame1, targ2, shape2, frame2, abcorr, obsrvr string, et float64) (Occultation, error) {
	if err := checkArgs("occult_c", targ1, shape1, frame1, targ2, shape2, frame2, abcorr, obsrvr); err != nil {
		return 0, err
	}
	args := [...]string{targ1, shape1, frame1, targ2, shape2, frame2, abcorr, obsrvr}
	var cs [len(args)]*C.ConstSpiceChar
	for i, s := range args {
		p, free := cstr(s)
		defer free()
		cs[i] = p
	}
	var ocltid C.SpiceInt
	C.occult_c(cs[0], cs[1], cs[2], cs[3], cs[4], cs[5], cs[6], cs[7], C.SpiceDouble(et), &ocltid)
	if err := check("occult_c"); err != nil {
		return 0, err
	}
	return Occultation(ocltid), nil
}

// Pxform returns the matrix rotating position vectors from frame from to
// frame to at et.
func Pxform(from, to string, et float64) ([3][3]float64, error) {
	if err := checkArgs("pxform_c", from, to); err != nil {
		return [3][3]float64{}, err
	}
	f, freeFrom := cstr(from)
	defer freeFrom()
	t, freeTo := cstr(to)
	defer freeTo()
	var rotate [3][3]C.SpiceDouble
	C.pxform_c(f, t, C.SpiceDouble(et), &rotate[0])
	if err := check("pxform_c"); err != nil {
		return [3][3]float64{}, err
	}
	return goMat3(rotate), nil
}

// Pxfrm2 returns the matrix rotating position vectors from frame from at
// etfrom to frame to at etto.
func Pxfrm2(from, to string, etfrom, etto float64) ([3][3]float64, error) {
	if err := checkArgs("pxfrm2_c", from, to); err != nil {
		return [3][3]float64{}, err
	}
	f, freeFrom := cstr(from)
	defer freeFrom()
	t, freeTo := cstr(to)
	defer freeTo()
	var rotate [3][3]C.SpiceDouble
	C.pxfrm2_c(f, t, C.SpiceDouble(etfrom), C.SpiceDouble(etto), &rotate[0])
	if err := check("pxfrm2_c"); err != nil {
		return [3][3]float64{}, err
	}
	return goMat3(rotate), nil
}

// Recrad converts rectangular coordinates to range, right ascension and
// declination.
func Recrad(rectan [3]float64) (rng, ra, dec float64, err error) {
	v := vec3(rectan)
	var cr, cra, cdec C.SpiceDouble
	C.recrad_c(constVec(&v), &cr, &cra, &cdec)
	if err := check("recrad_c"); err != nil {
		return 0, 0, 0, err
	}
	return float64(cr), float64(cra), float64(cdec), nil
}

// Spkpos returns the position of targ relative to obs in frame at et, and
// the one-way light time between them.
func Spkpos(targ string, et float64, frame, abcorr, obs string) ([3]float64, float64, error) {
	if err := checkArgs("spkpos_c", targ, frame, abcorr, obs); err != nil {
		return [3]float64{}, 0, err
	}
	tg, freeTarg := cstr(targ)
	defer freeTarg()
	fr, freeFrame := cstr(frame)
	defer freeFrame()
	ab, freeAbcorr := cstr(abcorr)
	defer freeAbcorr()
	ob, freeObs := cstr(obs)
	defer freeObs()
	var (
		ptarg [3]C.SpiceDouble
		lt    C.SpiceDouble
	)
	C.spkpos_c(tg, C.SpiceDouble(et), fr, ab, ob, &ptarg[0], &lt)
	if err := check("spkpos_c"); err != nil {
		return [3]float64{}, 0, err
	}
	return goVec3(ptarg), float64(lt), nil
}

// Str2et converts a time string to TDB seconds past J2000.
func Str2et(str string) (float64, error) {
	if err := checkArgs("str2et_c", str); err != nil {
		return 0, err
	}
	s, free := cstr(str)
	defer free()
	var et C.SpiceDouble
	C.str2et_c(s, &et)
	if err := check("str2et_c"); err != nil {
		return 0, err
	}
	return float64(et), nil
}

// Timout formats et according to the picture pictur. lenout is the output
// capacity including the terminator and is clamped to MaxLenOut.
func Timout(et float64, pictur string, lenout int) (string, error) {
	if err := checkArgs("timout_c", pictur); err != nil {
		return "", err
	}
	p, free := cstr(pictur)
	defer free()
	lenout = outLen(lenout)
	out := outBuf(lenout)
	C.timout_c(C.SpiceDouble(et), p, C.SpiceInt(lenout), charPtr(out))
	if err := check("timout_c"); err != nil {
		return "", err
	}
	return goString(out, lenout), nil
}

// Tkvrsn returns the toolkit version string for item ("TOOLKIT").
func Tkvrsn(item string) (string, error) {
	if err := checkArgs("tkvrsn_c", item); err != nil {
		return "", err
	}
	it, free := cstr(item)
	defer free()
	v := C.tkvrsn_c(it)
	if err := check("tkvrsn_c"); err != nil {
		return "", err
	}
	return C.GoString((*C.char)(unsafe.Pointer(v))), nil
}

// Unload unloads a kernel previously loaded with Furnsh.
func Unload(name string) error {
	if err := checkArgs("unload_c", name); err != nil {
		return err
	}
	f, free := cstr(name)
	defer free()
	C.unload_c(f)
	return check("unload_c")
}

// Vsep returns the angle in radians between v1 and v2, zero if either is
// the zero vector.
func Vsep(v1, v2 [3]float64) (float64, error) {
	a, b := vec3(v1), vec3(v2)
	sep := C.vsep_c(constVec(&a), constVec(&b))
	if err := check("vsep_c"); err != nil {
		return 0, err
	}
	return float64(sep), nil
}
