// Package raw exposes CSPICE routines one Go function per native routine.
//
// Inputs are ordinary Go values: strings are converted to NUL-terminated
// native strings by the adapter, fixed-size vectors and matrices are Go
// arrays, and descriptors are plain structs copied field-for-field to and
// from their native counterparts. Outputs are always copied into Go-owned
// memory before a function returns.
//
// CSPICE keeps process-wide state (the kernel pool, the DAS file table and
// its error subsystem). Nothing in this package synchronises access to that
// state: callers must serialise every call, normally by going through a
// spice.Session. Call order matters at the native level; unloading a kernel
// that was never loaded or using a closed DAS handle is reported by CSPICE,
// not by this package.
//
// The real bindings are compiled only with the cspice build tag and a cgo
// toolchain that can find CSPICE:
//
//	CGO_CFLAGS="-I$CSPICE/include" CGO_LDFLAGS="$CSPICE/lib/cspice.a -lm" \
//		go build -tags cspice ./...
//
// Without the tag every routine returns ErrNotLinked.
package raw
