// Package tesseral configuration constants
package tesseral

// Tiling parameters for the cross-layout assignment kernel
const (
	// TileDim is the side of the square tile staged through local memory.
	// Both matrix dimensions must divide by it on the cross-layout path.
	TileDim = 32

	// BlockRows is the number of work-items spanning the slow tile axis.
	// Must divide TileDim; each work-item then copies TileDim/BlockRows
	// tile lines.
	BlockRows = 8
)

// Work dispatch parameters
const (
	// MaxWorkGroupSize is the largest local size the CPU queue accepts
	MaxWorkGroupSize = 1024
)
