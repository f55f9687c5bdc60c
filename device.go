package tesseral

import (
	"github.com/mkessel/tesseral/kgen"
)

// Kernel is an opaque handle to a compiled kernel, valid only with the
// Queue that compiled it.
type Kernel interface {
	Name() string
}

// Queue is the accelerator runtime contract this layer consumes. It is
// passed explicitly into every device operation; there is no ambient
// process-wide queue.
//
// Compile builds (or fetches from the queue's cache, keyed by
// Program.Key) a kernel for the program. Enqueue binds arguments
// positionally against the program's declared parameters and schedules
// execution over the work-size grid, asynchronously with respect to the
// caller; Finish blocks until everything enqueued so far has completed.
// Compilation and execution failures surface unchanged; there are no
// retries and no fallback.
type Queue interface {
	Compile(p *kgen.Program) (Kernel, error)
	Enqueue(k Kernel, ws kgen.WorkSize, args ...any) error
	Finish() error
}
