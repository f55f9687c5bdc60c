// Package tesseral is a backend-dispatching kernel layer for dense
// linear-algebra primitives.
//
// A single algebraic operation, such as solving a triangular system or
// assigning one matrix expression into another, resolves to one of several
// implementations depending on the operands' element type, storage
// layout, and execution target:
//
//   - an optimized external binding, when a provider has registered one
//     for the exact element type (see RegisterTrsv);
//   - the portable default algorithm on the processor;
//   - a generated parallel kernel on an accelerator queue, specialized
//     per (operation, layout pair, element type) signature and cached by
//     the queue after its first compilation.
//
// Expressions are transient views (DenseMatrix, DenseVector) tagged with
// a Layout, a Density, and a Target; they own no storage. Device
// operations take the accelerator queue as an explicit parameter; there
// is no ambient global queue. The kgen subpackage builds kernel programs
// as an explicit IR rendered to OpenCL C; the cpuq subpackage executes
// those programs in-process with accelerator semantics (work-groups,
// local memory, barriers), which is how the whole device path stays
// testable without a driver.
//
// Example usage:
//
//	q := cpuq.New()
//	defer q.Close()
//
//	dst := tesseral.NewDenseMatrix[float32](64, 64, tesseral.RowMajor, tesseral.Device)
//	src := tesseral.NewDenseMatrix[float32](64, 64, tesseral.ColMajor, tesseral.Device)
//
//	// Cross-layout assignment: staged through 32x32 local-memory tiles.
//	if err := tesseral.MatrixAssignDevice(q, tesseral.Assign, dst, src); err != nil {
//		log.Fatal(err)
//	}
//	q.Finish()
package tesseral
