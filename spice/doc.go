// Package spice is the ergonomic layer over package raw.
//
// A Session is the single owner of the CSPICE process state: Open claims
// it, Close releases it, and every native call is made through a Session
// method while holding the session lock. Besides one method per raw
// routine, the Session offers facades for call patterns that are awkward
// at the native level:
//
//   - Timout takes only the format picture.
//   - DSKP02 and DSKV02 fetch every plate or vertex of a segment, sizing the
//     request from Dskz02 under the same lock.
//   - KData sizes every string output with raw.MaxLenOut.
//   - Kernels, Segments and LoadKernels iterate the native one-at-a-time
//     protocols.
//
// All failures reported by CSPICE surface as *raw.Error values, matched by
// errors.Is(err, raw.ErrFailed).
package spice
