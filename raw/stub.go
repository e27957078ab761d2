//go:build !cspice

package raw

func Dascls(handle int32) error { return ErrNotLinked }

func Dasopr(fname string) (int32, error) { return 0, ErrNotLinked }

func Dlabfs(handle int32) (DLADescr, bool, error) { return DLADescr{}, false, ErrNotLinked }

func Dlafns(handle int32, dladsc DLADescr) (DLADescr, bool, error) {
	return DLADescr{}, false, ErrNotLinked
}

func Dskgd(handle int32, dladsc DLADescr) (DSKDescr, error) { return DSKDescr{}, ErrNotLinked }

func Dskn02(handle int32, dladsc DLADescr, plid int32) ([3]float64, error) {
	return [3]float64{}, ErrNotLinked
}

func Dskx02(handle int32, dladsc DLADescr, vertex, raydir [3]float64) (int32, [3]float64, bool, error) {
	return 0, [3]float64{}, false, ErrNotLinked
}

func Dskz02(handle int32, dladsc DLADescr) (nv, np int32, err error) { return 0, 0, ErrNotLinked }

func Dskp02(handle int32, dladsc DLADescr, start, room int32) ([][3]int32, error) {
	return nil, ErrNotLinked
}

func Dskv02(handle int32, dladsc DLADescr, start, room int32) ([][3]float64, error) {
	return nil, ErrNotLinked
}

func Furnsh(name string) error { return ErrNotLinked }

func Kclear() error { return ErrNotLinked }

func Kdata(which int32, kind string, fillen, typlen, srclen int) (KernelData, error) {
	return KernelData{}, ErrNotLinked
}

func Kinfo(file string, typlen, srclen int) (KernelInfo, error) { return KernelInfo{}, ErrNotLinked }

func Ktotal(kind string) (int32, error) { return 0, ErrNotLinked }

func Latrec(radius, longitude, latitude float64) ([3]float64, error) {
	return [3]float64{}, ErrNotLinked
}

func Occult(targ1, shape1, frame1, targ2, shape2, frame2, abcorr, obsrvr string, et float64) (Occultation, error) {
	return 0, ErrNotLinked
}

func Pxform(from, to string, et float64) ([3][3]float64, error) {
	return [3][3]float64{}, ErrNotLinked
}

func Pxfrm2(from, to string, etfrom, etto float64) ([3][3]float64, error) {
	return [3][3]float64{}, ErrNotLinked
}

func Recrad(rectan [3]float64) (rng, ra, dec float64, err error) { return 0, 0, 0, ErrNotLinked }

func Spkpos(targ string, et float64, frame, abcorr, obs string) ([3]float64, float64, error) {
	return [3]float64{}, 0, ErrNotLinked
}

func Str2et(str string) (float64, error) { return 0, ErrNotLinked }

func Timout(et float64, pictur string, lenout int) (string, error) { return "", ErrNotLinked }

func Tkvrsn(item string) (string, error) { return "", ErrNotLinked }

func Unload(name string) error { return ErrNotLinked }

func Vsep(v1, v2 [3]float64) (float64, error) { return 0, ErrNotLinked }
