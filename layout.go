package tesseral

// Layout describes which matrix dimension is contiguous in memory.
type Layout int

const (
	// RowMajor means elements of a row are adjacent in memory.
	RowMajor Layout = iota
	// ColMajor means elements of a column are adjacent in memory.
	ColMajor
)

func (l Layout) String() string {
	switch l {
	case RowMajor:
		return "row"
	case ColMajor:
		return "col"
	default:
		return "unknown"
	}
}

// Density describes the storage scheme of an expression.
type Density int

const (
	// Dense storage holds every element explicitly.
	Dense Density = iota
	// Sparse storage holds only structural nonzeros. No kernel in this
	// layer accepts sparse operands; the tag exists so dispatch can
	// reject them early.
	Sparse
)

func (d Density) String() string {
	switch d {
	case Dense:
		return "dense"
	case Sparse:
		return "sparse"
	default:
		return "unknown"
	}
}

// Target describes where an expression's backing storage is resident
// and therefore which family of kernels may touch it.
type Target int

const (
	// Host marks processor-resident storage operated on by the
	// sequential default kernels.
	Host Target = iota
	// Device marks accelerator-resident storage operated on by
	// generated parallel kernels through a Queue.
	Device
)

func (t Target) String() string {
	switch t {
	case Host:
		return "host"
	case Device:
		return "device"
	default:
		return "unknown"
	}
}
