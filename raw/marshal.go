package raw

import (
	"bytes"
	"fmt"
	"strings"
)

// outLen clamps a requested output length to [1, MaxLenOut]. A length of 1
// still reaches CSPICE, which rejects it as too short for any output.
func outLen(n int) int {
	if n > MaxLenOut {
		return MaxLenOut
	}
	if n < 1 {
		return 1
	}
	return n
}

// checkArgs rejects string arguments that C would see truncated at an
// interior NUL.
func checkArgs(routine string, args ...string) error {
	for _, a := range args {
		if strings.IndexByte(a, 0) >= 0 {
			return fmt.Errorf("%s: %q: %w", routine, a, ErrInteriorNUL)
		}
	}
	return nil
}

// outBuf allocates a buffer for an output string of declared length n. The
// buffer is never empty so its first element can be passed to C.
func outBuf(n int) []byte {
	if n < 1 {
		return make([]byte, 1)
	}
	return make([]byte, n)
}

// goString copies a native output string into Go memory, stopping at the
// first NUL or at n bytes.
func goString(buf []byte, n int) string {
	if n < len(buf) {
		buf = buf[:n]
	}
	if i := bytes.IndexByte(buf, 0); i >= 0 {
		buf = buf[:i]
	}
	return string(buf)
}

func boolFlag(v int32) bool {
	return v != 0
}

// plates re-shapes the first n rows of a native [][3]int buffer.
func plates(flat []int32, n int) [][3]int32 {
	n = rows(len(flat), n)
	out := make([][3]int32, n)
	for i := range out {
		out[i] = [3]int32{flat[3*i], flat[3*i+1], flat[3*i+2]}
	}
	return out
}

// vertices re-shapes the first n rows of a native [][3]double buffer.
func vertices(flat []float64, n int) [][3]float64 {
	n = rows(len(flat), n)
	out := make([][3]float64, n)
	for i := range out {
		out[i] = [3]float64{flat[3*i], flat[3*i+1], flat[3*i+2]}
	}
	return out
}

// matrix re-shapes a row-major 3x3 native buffer.
func matrix(flat [9]float64) [3][3]float64 {
	var m [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			m[i][j] = flat[3*i+j]
		}
	}
	return m
}

func rows(flatLen, n int) int {
	if n < 0 {
		return 0
	}
	if max := flatLen / 3; n > max {
		return max
	}
	return n
}
