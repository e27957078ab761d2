package raw

import "fmt"

// MaxLenOut is the capacity, terminator included, of every pre-sized output
// string buffer handed to CSPICE. Output strings are at most MaxLenOut-1
// characters long.
const MaxLenOut = 256

// DLADescr mirrors SpiceDLADescr. Values are returned by Dlabfs/Dlafns and
// passed back unmodified to the DSK routines.
type DLADescr struct {
	BwdPtr int32
	FwdPtr int32
	IBase  int32
	ISize  int32
	DBase  int32
	DSize  int32
	CBase  int32
	CSize  int32
}

// DSKDescr mirrors SpiceDSKDescr.
type DSKDescr struct {
	Surfce int32
	Center int32
	DClass int32
	DType  int32
	FrmCde int32
	CorSys int32
	CorPar [10]float64
	Co1Min float64
	Co1Max float64
	Co2Min float64
	Co2Max float64
	Co3Min float64
	Co3Max float64
	Start  float64
	Stop   float64
}

// KernelData is the result of kdata_c.
type KernelData struct {
	File   string
	Type   string
	Source string
	Handle int32
	Found  bool
}

// KernelInfo is the result of kinfo_c.
type KernelInfo struct {
	Type   string
	Source string
	Handle int32
	Found  bool
}

// Occultation is the condition code returned by occult_c. Negative codes
// mean the first target is occulted by the second, positive codes the
// reverse.
type Occultation int32

const (
	OccultTotal1   Occultation = -3
	OccultAnnular1 Occultation = -2
	OccultPartial1 Occultation = -1
	OccultNone     Occultation = 0
	OccultPartial2 Occultation = 1
	OccultAnnular2 Occultation = 2
	OccultTotal2   Occultation = 3
)

func (o Occultation) String() string {
	switch o {
	case OccultTotal1:
		return "TOTAL1"
	case OccultAnnular1:
		return "ANNLR1"
	case OccultPartial1:
		return "PARTL1"
	case OccultNone:
		return "NOOCC"
	case OccultPartial2:
		return "PARTL2"
	case OccultAnnular2:
		return "ANNLR2"
	case OccultTotal2:
		return "TOTAL2"
	default:
		return fmt.Sprintf("OCCULT(%d)", int32(o))
	}
}

// Kernel kinds accepted by Ktotal and Kdata.
const (
	KindAll  = "ALL"
	KindSPK  = "SPK"
	KindCK   = "CK"
	KindPCK  = "PCK"
	KindDSK  = "DSK"
	KindEK   = "EK"
	KindText = "TEXT"
	KindMeta = "META"
)
