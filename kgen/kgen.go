// Package kgen builds parallel-kernel programs as an explicit intermediate
// representation and renders them to OpenCL C source.
//
// A Program is assembled once per distinct (operation, layout pair, element
// type) signature by the operation layer, then compiled and cached by a
// Queue keyed on Program.Key. Each Phase of a program carries both its
// rendered source statements and a host-executable closure with the same
// semantics, so a CPU-backed queue can run the program in-process while an
// accelerator-backed queue compiles the rendered source. A full
// local-memory barrier separates consecutive phases: every write a phase
// issues to work-group local memory is visible to the whole group before
// the next phase starts.
package kgen

import (
	"fmt"
	"strings"
)

// ParamKind distinguishes buffer and scalar kernel parameters.
type ParamKind int

const (
	// BufferParam is a __global pointer argument.
	BufferParam ParamKind = iota
	// ScalarParam is a by-value argument.
	ScalarParam
)

// Param declares one kernel argument.
type Param struct {
	Name string
	Kind ParamKind
	Type string // element type for buffers, concrete type for scalars
	Read bool   // buffers only: true renders as const
}

// LocalDecl declares a work-group local 2-D buffer. Cols may exceed the
// logical width to pad the stride (bank-conflict avoidance).
type LocalDecl struct {
	Name string
	Rows int
	Cols int
}

// HostPhase is the in-process form of one kernel phase. It is invoked once
// per (work-item, phase) with the work-item's local coordinates; inv gives
// group identity, local sizes, bound arguments, and local buffers.
type HostPhase func(inv *Invocation, l0, l1 int)

// Phase is one barrier-delimited section of a kernel body.
type Phase struct {
	stmts []string
	host  HostPhase
}

// Stmtf appends a formatted source statement to the phase.
func (p *Phase) Stmtf(format string, args ...any) *Phase {
	p.stmts = append(p.stmts, fmt.Sprintf(format, args...))
	return p
}

// Host returns the phase's host-executable form.
func (p *Phase) Host() HostPhase { return p.host }

// Program is the kernel IR: a named entry point, its parameters, local
// declarations, and barrier-separated phases.
type Program struct {
	name   string
	elem   string // OpenCL element type: "float" or "double"
	params []Param
	locals []LocalDecl
	phases []*Phase
}

// NewProgram starts a program with the given entry-point name and OpenCL
// element type. The name doubles as the compilation cache key, so callers
// fold the operation, layout pair, and element type into it.
func NewProgram(name, elem string) *Program {
	return &Program{name: name, elem: elem}
}

// Key returns the compilation cache key.
func (p *Program) Key() string { return p.name }

// Name returns the kernel entry-point name.
func (p *Program) Name() string { return p.name }

// Elem returns the OpenCL element type.
func (p *Program) Elem() string { return p.elem }

// Params returns the declared argument list in order.
func (p *Program) Params() []Param { return p.params }

// Locals returns the declared work-group local buffers.
func (p *Program) Locals() []LocalDecl { return p.locals }

// Phases returns the barrier-separated phases in order.
func (p *Program) Phases() []*Phase { return p.phases }

// AddBuffer declares a __global buffer argument of the program's element
// type. read marks it const.
func (p *Program) AddBuffer(name string, read bool) *Program {
	p.params = append(p.params, Param{Name: name, Kind: BufferParam, Type: p.elem, Read: read})
	return p
}

// AddScalar declares a by-value argument.
func (p *Program) AddScalar(name, typ string) *Program {
	p.params = append(p.params, Param{Name: name, Kind: ScalarParam, Type: typ})
	return p
}

// AddLocal declares a work-group local buffer of the element type.
func (p *Program) AddLocal(name string, rows, cols int) *Program {
	p.locals = append(p.locals, LocalDecl{Name: name, Rows: rows, Cols: cols})
	return p
}

// NewPhase opens a new barrier-delimited phase backed by the given host
// closure. Phases execute in the order they are created.
func (p *Program) NewPhase(host HostPhase) *Phase {
	ph := &Phase{host: host}
	p.phases = append(p.phases, ph)
	return ph
}

// Render produces the OpenCL C source for the program. Variables declared
// in an earlier phase stay in scope in later ones; only the barrier is
// inserted between them.
func (p *Program) Render() string {
	var b strings.Builder
	if p.elem == "double" {
		b.WriteString("#pragma OPENCL EXTENSION cl_khr_fp64 : enable\n")
	}
	b.WriteString("__kernel void ")
	b.WriteString(p.name)
	b.WriteString("(")
	for i, prm := range p.params {
		if i > 0 {
			b.WriteString(", ")
		}
		switch prm.Kind {
		case BufferParam:
			if prm.Read {
				b.WriteString("__global const ")
			} else {
				b.WriteString("__global ")
			}
			b.WriteString(prm.Type)
			b.WriteString("* ")
			b.WriteString(prm.Name)
		case ScalarParam:
			b.WriteString(prm.Type)
			b.WriteString(" ")
			b.WriteString(prm.Name)
		}
	}
	b.WriteString(") {\n")
	for _, l := range p.locals {
		fmt.Fprintf(&b, "    __local %s %s[%d][%d];\n", p.elem, l.Name, l.Rows, l.Cols)
	}
	for i, ph := range p.phases {
		if i > 0 {
			b.WriteString("    barrier(CLK_LOCAL_MEM_FENCE);\n")
		}
		for _, s := range ph.stmts {
			b.WriteString("    ")
			b.WriteString(s)
			b.WriteString("\n")
		}
	}
	b.WriteString("}\n")
	return b.String()
}

// WorkSize describes the execution grid: a 2-D global size and an optional
// 2-D local (work-group) size. A zero Local leaves the group shape to the
// queue, which then treats every work-item as its own group.
type WorkSize struct {
	Global [2]int
	Local  [2]int
}

// Groups returns the number of work-groups along each axis and whether the
// local size divides the global size. With a zero local size every item is
// its own 1×1 group.
func (w WorkSize) Groups() ([2]int, [2]int, bool) {
	local := w.Local
	if local[0] == 0 && local[1] == 0 {
		local = [2]int{1, 1}
	}
	if local[0] <= 0 || local[1] <= 0 {
		return [2]int{}, local, false
	}
	if w.Global[0]%local[0] != 0 || w.Global[1]%local[1] != 0 {
		return [2]int{}, local, false
	}
	return [2]int{w.Global[0] / local[0], w.Global[1] / local[1]}, local, true
}

// Invocation is the execution context a queue hands to host phases. One
// Invocation spans a single work-group for the whole program, so local
// buffers persist across phases.
type Invocation struct {
	group  [2]int
	local  [2]int
	args   []any
	locals map[string][][]float64
}

// NewInvocation builds the context for one work-group. Local buffers are
// allocated from the program's declarations, zero-initialized.
func NewInvocation(p *Program, group, local [2]int, args []any) *Invocation {
	inv := &Invocation{group: group, local: local, args: args}
	if len(p.locals) > 0 {
		inv.locals = make(map[string][][]float64, len(p.locals))
		for _, l := range p.locals {
			buf := make([][]float64, l.Rows)
			for i := range buf {
				buf[i] = make([]float64, l.Cols)
			}
			inv.locals[l.Name] = buf
		}
	}
	return inv
}

// GroupID returns the work-group index along dim (0 or 1).
func (inv *Invocation) GroupID(dim int) int { return inv.group[dim] }

// LocalSize returns the work-group extent along dim.
func (inv *Invocation) LocalSize(dim int) int { return inv.local[dim] }

// GlobalID composes the global index along dim for a local coordinate.
func (inv *Invocation) GlobalID(dim, lid int) int {
	return inv.group[dim]*inv.local[dim] + lid
}

// Arg returns the bound argument at position i.
func (inv *Invocation) Arg(i int) any { return inv.args[i] }

// LocalMem returns the named work-group local buffer.
func (inv *Invocation) LocalMem(name string) [][]float64 { return inv.locals[name] }
