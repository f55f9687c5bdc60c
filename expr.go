package tesseral

import (
	"fmt"
)

// Scalar is the set of element types the kernels operate on.
type Scalar interface {
	~float32 | ~float64
}

// Matrix is the read side of a two-dimensional expression. Implementations
// are transient views over storage they do not own; constructing one is
// cheap and carries no lifecycle obligations.
type Matrix[T Scalar] interface {
	Rows() int
	Cols() int
	At(i, j int) T
	Layout() Layout
	Density() Density
	Target() Target
}

// MutMatrix is a Matrix whose elements can be written.
type MutMatrix[T Scalar] interface {
	Matrix[T]
	Set(i, j int, v T)
}

// Vector is the read side of a one-dimensional expression.
type Vector[T Scalar] interface {
	Len() int
	At(i int) T
	Density() Density
	Target() Target
}

// MutVector is a Vector whose elements can be written.
type MutVector[T Scalar] interface {
	Vector[T]
	Set(i int, v T)
}

// DenseMatrix is a dense strided view over a flat slice. The stride is the
// distance between consecutive major-dimension lines: rows for RowMajor,
// columns for ColMajor.
type DenseMatrix[T Scalar] struct {
	data   []T
	rows   int
	cols   int
	stride int
	layout Layout
	target Target
}

// NewDenseMatrix allocates backing storage for a rows×cols matrix with the
// given layout and target and returns a view over it.
func NewDenseMatrix[T Scalar](rows, cols int, layout Layout, target Target) *DenseMatrix[T] {
	stride := cols
	if layout == ColMajor {
		stride = rows
	}
	return &DenseMatrix[T]{
		data:   make([]T, rows*cols),
		rows:   rows,
		cols:   cols,
		stride: stride,
		layout: layout,
		target: target,
	}
}

// MatrixFromRows builds a row-major host matrix from literal rows.
// All rows must have equal length; a ragged literal is a programming
// error and panics with a dimension error.
func MatrixFromRows[T Scalar](vals [][]T) *DenseMatrix[T] {
	rows := len(vals)
	cols := 0
	if rows > 0 {
		cols = len(vals[0])
	}
	for i, r := range vals {
		if len(r) != cols {
			panic(NewDimensionError("MatrixFromRows",
				fmt.Sprintf("row %d has %d elements, row 0 has %d", i, len(r), cols)))
		}
	}
	m := NewDenseMatrix[T](rows, cols, RowMajor, Host)
	for i, r := range vals {
		for j, v := range r {
			m.Set(i, j, v)
		}
	}
	return m
}

func (m *DenseMatrix[T]) Rows() int        { return m.rows }
func (m *DenseMatrix[T]) Cols() int        { return m.cols }
func (m *DenseMatrix[T]) Layout() Layout   { return m.layout }
func (m *DenseMatrix[T]) Density() Density { return Dense }
func (m *DenseMatrix[T]) Target() Target   { return m.target }

// Stride returns the major-dimension stride of the backing slice.
func (m *DenseMatrix[T]) Stride() int { return m.stride }

// Data exposes the backing slice. Kernels use it for flat addressing;
// callers must not assume a particular element order without consulting
// Layout and Stride.
func (m *DenseMatrix[T]) Data() []T { return m.data }

func (m *DenseMatrix[T]) At(i, j int) T {
	if m.layout == RowMajor {
		return m.data[i*m.stride+j]
	}
	return m.data[j*m.stride+i]
}

func (m *DenseMatrix[T]) Set(i, j int, v T) {
	if m.layout == RowMajor {
		m.data[i*m.stride+j] = v
	} else {
		m.data[j*m.stride+i] = v
	}
}

// T returns the transpose as a view: rows and columns swap, the layout tag
// flips, and the backing slice is shared. No elements move.
func (m *DenseMatrix[E]) T() *DenseMatrix[E] {
	layout := ColMajor
	if m.layout == ColMajor {
		layout = RowMajor
	}
	return &DenseMatrix[E]{
		data:   m.data,
		rows:   m.cols,
		cols:   m.rows,
		stride: m.stride,
		layout: layout,
		target: m.target,
	}
}

// WithTarget retags the view for a different execution target. Storage is
// shared; this models unified memory the way the CPU queue executes device
// kernels in-process.
func (m *DenseMatrix[T]) WithTarget(t Target) *DenseMatrix[T] {
	c := *m
	c.target = t
	return &c
}

// DenseVector is a dense strided view over a flat slice.
type DenseVector[T Scalar] struct {
	data   []T
	n      int
	stride int
	target Target
}

// NewDenseVector allocates backing storage for an n-element vector.
func NewDenseVector[T Scalar](n int, target Target) *DenseVector[T] {
	return &DenseVector[T]{data: make([]T, n), n: n, stride: 1, target: target}
}

// VectorOf builds a host vector from literal values.
func VectorOf[T Scalar](vals ...T) *DenseVector[T] {
	v := NewDenseVector[T](len(vals), Host)
	copy(v.data, vals)
	return v
}

func (v *DenseVector[T]) Len() int         { return v.n }
func (v *DenseVector[T]) Density() Density { return Dense }
func (v *DenseVector[T]) Target() Target   { return v.target }
func (v *DenseVector[T]) At(i int) T       { return v.data[i*v.stride] }
func (v *DenseVector[T]) Set(i int, x T)   { v.data[i*v.stride] = x }

// Data exposes the backing slice.
func (v *DenseVector[T]) Data() []T { return v.data }
