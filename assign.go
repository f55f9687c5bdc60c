package tesseral

import (
	"fmt"

	"github.com/mkessel/tesseral/kgen"
)

// Functor selects how a source element combines with the destination
// element it lands on.
type Functor int

const (
	// Assign overwrites: dst = src.
	Assign Functor = iota
	// PlusAssign accumulates: dst += src.
	PlusAssign
	// MinusAssign subtracts: dst -= src.
	MinusAssign
	// MulAssign scales: dst *= src.
	MulAssign
)

func (f Functor) String() string {
	switch f {
	case Assign:
		return "assign"
	case PlusAssign:
		return "plus"
	case MinusAssign:
		return "minus"
	case MulAssign:
		return "mul"
	default:
		return "unknown"
	}
}

// clExpr renders the combined value as an OpenCL expression.
func (f Functor) clExpr(dst, src string) string {
	switch f {
	case PlusAssign:
		return dst + " + " + src
	case MinusAssign:
		return dst + " - " + src
	case MulAssign:
		return dst + " * " + src
	default:
		return src
	}
}

// combine applies the functor on the host.
func combine[T Scalar](f Functor, dst, src T) T {
	switch f {
	case PlusAssign:
		return dst + src
	case MinusAssign:
		return dst - src
	case MulAssign:
		return dst * src
	default:
		return src
	}
}

// clElem maps the Go element type to its OpenCL name.
func clElem[T Scalar]() string {
	var zero T
	if _, ok := any(zero).(float64); ok {
		return "double"
	}
	return "float"
}

// flatIndex renders the flat-buffer index of logical element (row, col)
// for the given layout and stride variable.
func flatIndex(l Layout, stride, row, col string) string {
	if l == RowMajor {
		return fmt.Sprintf("(%s)*%s + (%s)", row, stride, col)
	}
	return fmt.Sprintf("(%s)*%s + (%s)", col, stride, row)
}

func checkAssignDims(op string, m, e interface {
	Rows() int
	Cols() int
}) error {
	if m.Rows() != e.Rows() || m.Cols() != e.Cols() {
		return NewDimensionError(op,
			fmt.Sprintf("destination is %dx%d, source is %dx%d",
				m.Rows(), m.Cols(), e.Rows(), e.Cols()))
	}
	return nil
}

// MatrixAssign applies dst[i][j] = f(dst[i][j], src[i][j]) over the whole
// matrix on the processor, iterating in the destination's layout order.
// This is the default kernel every device path must agree with.
func MatrixAssign[T Scalar](f Functor, m MutMatrix[T], e Matrix[T]) error {
	if err := checkAssignDims("MatrixAssign", m, e); err != nil {
		return err
	}
	if m.Density() != Dense || e.Density() != Dense {
		return NewInvalidArgError("MatrixAssign", "sparse operands have no kernel in this layer")
	}
	if m.Layout() == ColMajor {
		for j := 0; j < m.Cols(); j++ {
			for i := 0; i < m.Rows(); i++ {
				m.Set(i, j, combine(f, m.At(i, j), e.At(i, j)))
			}
		}
		return nil
	}
	for i := 0; i < m.Rows(); i++ {
		for j := 0; j < m.Cols(); j++ {
			m.Set(i, j, combine(f, m.At(i, j), e.At(i, j)))
		}
	}
	return nil
}

// MatrixFill applies dst[i][j] = f(dst[i][j], t) over the whole matrix on
// the processor.
func MatrixFill[T Scalar](f Functor, m MutMatrix[T], t T) error {
	if m.Layout() == ColMajor {
		for j := 0; j < m.Cols(); j++ {
			for i := 0; i < m.Rows(); i++ {
				m.Set(i, j, combine(f, m.At(i, j), t))
			}
		}
		return nil
	}
	for i := 0; i < m.Rows(); i++ {
		for j := 0; j < m.Cols(); j++ {
			m.Set(i, j, combine(f, m.At(i, j), t))
		}
	}
	return nil
}

// MatrixAssignDevice is the accelerator form of MatrixAssign. Operands
// must be device-resident. Same-layout operand pairs run an elementwise
// kernel, one work-item per destination element. Mismatched layouts run
// the tiled kernel, which stages TileDim×TileDim blocks through
// work-group local memory so both the read and the write side walk their
// buffer in natural order; both dimensions must divide by TileDim.
func MatrixAssignDevice[T Scalar](q Queue, f Functor, m, e *DenseMatrix[T]) error {
	const op = "MatrixAssignDevice"
	if err := checkAssignDims(op, m, e); err != nil {
		return err
	}
	if m.Target() != Device || e.Target() != Device {
		return NewInvalidArgError(op, "operands must be device-resident")
	}

	if m.Layout() == e.Layout() {
		k, err := q.Compile(elementwiseProgram[T](f, m.Layout(), e.Layout()))
		if err != nil {
			return err
		}
		ws := kgen.WorkSize{Global: [2]int{m.Rows(), m.Cols()}}
		return q.Enqueue(k, ws, m, uint32(m.Stride()), e, uint32(e.Stride()))
	}

	if m.Rows()%TileDim != 0 || m.Cols()%TileDim != 0 {
		return NewTileError(op,
			fmt.Sprintf("matrix is %dx%d, both dimensions must divide by %d",
				m.Rows(), m.Cols(), TileDim))
	}
	k, err := q.Compile(tiledProgram[T](f, m.Layout(), e.Layout()))
	if err != nil {
		return err
	}
	ws := kgen.WorkSize{
		Global: [2]int{m.Rows(), m.Cols() * BlockRows / TileDim},
		Local:  [2]int{TileDim, BlockRows},
	}
	return q.Enqueue(k, ws, m, uint32(m.Stride()), e, uint32(e.Stride()))
}

// MatrixFillDevice is the accelerator form of MatrixFill: a scalar
// broadcast with one work-item per destination element, the constant
// passed as a kernel argument.
func MatrixFillDevice[T Scalar](q Queue, f Functor, m *DenseMatrix[T], t T) error {
	const op = "MatrixFillDevice"
	if m.Target() != Device {
		return NewInvalidArgError(op, "destination must be device-resident")
	}
	k, err := q.Compile(fillProgram[T](f, m.Layout()))
	if err != nil {
		return err
	}
	ws := kgen.WorkSize{Global: [2]int{m.Rows(), m.Cols()}}
	return q.Enqueue(k, ws, m, uint32(m.Stride()), t)
}

// elementwiseProgram generates the same-layout kernel for one
// (functor, layout pair, element type) signature. Work-items read their
// coordinate from the global id; no cross-item communication.
func elementwiseProgram[T Scalar](f Functor, dst, src Layout) *kgen.Program {
	elem := clElem[T]()
	name := fmt.Sprintf("tess_matrix_assign_%s_%s_%s_%s", f, dst, src, elem)
	p := kgen.NewProgram(name, elem)
	p.AddBuffer("m", false).AddScalar("m_stride", "uint")
	p.AddBuffer("e", true).AddScalar("e_stride", "uint")

	ph := p.NewPhase(func(inv *kgen.Invocation, l0, l1 int) {
		row := inv.GlobalID(0, l0)
		col := inv.GlobalID(1, l1)
		md := inv.Arg(0).(*DenseMatrix[T])
		ed := inv.Arg(2).(*DenseMatrix[T])
		md.Set(row, col, combine(f, md.At(row, col), ed.At(row, col)))
	})
	dstIdx := "m[" + flatIndex(dst, "m_stride", "row", "col") + "]"
	srcIdx := "e[" + flatIndex(src, "e_stride", "row", "col") + "]"
	ph.Stmtf("uint row = get_global_id(0);")
	ph.Stmtf("uint col = get_global_id(1);")
	ph.Stmtf("%s = %s;", dstIdx, f.clExpr(dstIdx, srcIdx))
	return p
}

// fillProgram generates the scalar-broadcast kernel.
func fillProgram[T Scalar](f Functor, dst Layout) *kgen.Program {
	elem := clElem[T]()
	name := fmt.Sprintf("tess_matrix_fill_%s_%s_%s", f, dst, elem)
	p := kgen.NewProgram(name, elem)
	p.AddBuffer("m", false).AddScalar("m_stride", "uint")
	p.AddScalar("t", elem)

	ph := p.NewPhase(func(inv *kgen.Invocation, l0, l1 int) {
		row := inv.GlobalID(0, l0)
		col := inv.GlobalID(1, l1)
		md := inv.Arg(0).(*DenseMatrix[T])
		t := inv.Arg(2).(T)
		md.Set(row, col, combine(f, md.At(row, col), t))
	})
	dstIdx := "m[" + flatIndex(dst, "m_stride", "row", "col") + "]"
	ph.Stmtf("uint row = get_global_id(0);")
	ph.Stmtf("uint col = get_global_id(1);")
	ph.Stmtf("%s = %s;", dstIdx, f.clExpr(dstIdx, "t"))
	return p
}

// tiledProgram generates the cross-layout kernel. Each work-group owns one
// TileDim×TileDim destination tile. Phase one copies the tile from the
// source in the source's natural order into local memory; the implied
// barrier guarantees the tile is fully populated; phase two writes it out
// in the destination's natural order, applying the functor per element.
// The local buffer carries one extra column so column reads in phase two
// don't land on a single memory bank. Work-groups are TileDim×BlockRows,
// so the copy loops stride by the local size and each work-item handles
// TileDim/BlockRows lines of its tile.
func tiledProgram[T Scalar](f Functor, dst, src Layout) *kgen.Program {
	elem := clElem[T]()
	name := fmt.Sprintf("tess_matrix_assign_tiled_%s_%s_%s_%s", f, dst, src, elem)
	p := kgen.NewProgram(name, elem)
	p.AddBuffer("m", false).AddScalar("m_stride", "uint")
	p.AddBuffer("e", true).AddScalar("e_stride", "uint")
	p.AddLocal("tile", TileDim, TileDim+1)

	copyIn := p.NewPhase(func(inv *kgen.Invocation, l0, l1 int) {
		ed := inv.Arg(2).(*DenseMatrix[T])
		tile := inv.LocalMem("tile")
		baseRow := inv.GroupID(0) * TileDim
		baseCol := inv.GroupID(1) * TileDim
		for i := 0; i < TileDim; i += inv.LocalSize(1) {
			tile[l1+i][l0] = float64(ed.At(baseRow+l1+i, baseCol+l0))
		}
	})
	copyIn.Stmtf("uint base_row = get_group_id(0) * %d;", TileDim)
	copyIn.Stmtf("uint base_col = get_group_id(1) * %d;", TileDim)
	copyIn.Stmtf("for (uint i = 0; i < %d; i += get_local_size(1)) {", TileDim)
	copyIn.Stmtf("    tile[get_local_id(1)+i][get_local_id(0)] = e[%s];",
		flatIndex(src, "e_stride", "base_row+get_local_id(1)+i", "base_col+get_local_id(0)"))
	copyIn.Stmtf("}")

	writeOut := p.NewPhase(func(inv *kgen.Invocation, l0, l1 int) {
		md := inv.Arg(0).(*DenseMatrix[T])
		tile := inv.LocalMem("tile")
		baseRow := inv.GroupID(0) * TileDim
		baseCol := inv.GroupID(1) * TileDim
		for i := 0; i < TileDim; i += inv.LocalSize(1) {
			r, c := baseRow+l0, baseCol+l1+i
			md.Set(r, c, combine(f, md.At(r, c), T(tile[l0][l1+i])))
		}
	})
	target := "m[" + flatIndex(dst, "m_stride", "base_row+get_local_id(0)", "base_col+get_local_id(1)+i") + "]"
	writeOut.Stmtf("for (uint i = 0; i < %d; i += get_local_size(1)) {", TileDim)
	writeOut.Stmtf("    %s = %s;", target, f.clExpr(target, "tile[get_local_id(0)][get_local_id(1)+i]"))
	writeOut.Stmtf("}")
	return p
}
