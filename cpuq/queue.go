// Package cpuq implements the tesseral.Queue accelerator contract on the
// host processor. Generated programs execute through their host phases:
// work-groups are distributed over worker goroutines, work-items within a
// group run sequentially, and the inter-phase local-memory barrier is
// realized by completing each phase for every work-item in the group
// before the next phase starts. Enqueue is asynchronous: operations run
// in order on a stream goroutine and Finish drains it, matching the
// ordering an out-of-process accelerator queue would give.
package cpuq

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/mkessel/tesseral"
	"github.com/mkessel/tesseral/kgen"
)

// compiledKernel is the queue's kernel handle: the program itself, since
// the host phases are the executable form. The rendered source is kept so
// callers can inspect what an accelerator backend would have compiled.
type compiledKernel struct {
	prog   *kgen.Program
	source string
}

func (k *compiledKernel) Name() string { return k.prog.Name() }

// Source returns the rendered OpenCL source of the kernel.
func (k *compiledKernel) Source() string { return k.source }

// Queue is a CPU-backed command queue. The zero value is not usable;
// construct with New.
type Queue struct {
	dev     *Device
	workers int

	mu      sync.Mutex
	kernels map[string]*compiledKernel

	tasks chan func()
	wg    sync.WaitGroup
	once  sync.Once
}

var _ tesseral.Queue = (*Queue)(nil)

// New creates a queue backed by the host CPU with one worker goroutine
// per core.
func New() *Queue {
	q := &Queue{
		dev:     detectDevice(),
		workers: runtime.NumCPU(),
		kernels: make(map[string]*compiledKernel),
		tasks:   make(chan func(), 64),
	}
	go q.stream()
	return q
}

// Device returns the device this queue executes on.
func (q *Queue) Device() *Device { return q.dev }

// stream serves enqueued operations in order
func (q *Queue) stream() {
	for task := range q.tasks {
		task()
		q.wg.Done()
	}
}

func (q *Queue) submit(task func()) {
	q.wg.Add(1)
	q.tasks <- task
}

// Compile validates the program and returns its kernel handle. Compiled
// kernels are cached by Program.Key, so repeated compiles of the same
// signature return the same handle.
func (q *Queue) Compile(p *kgen.Program) (tesseral.Kernel, error) {
	const op = "cpuq.Compile"
	if p == nil {
		return nil, tesseral.NewCompileError(op, "nil program", nil)
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if k, ok := q.kernels[p.Key()]; ok {
		return k, nil
	}
	if p.Name() == "" {
		return nil, tesseral.NewCompileError(op, "program has no entry point name", nil)
	}
	if len(p.Phases()) == 0 {
		return nil, tesseral.NewCompileError(op, p.Name()+": program has no phases", nil)
	}
	for i, ph := range p.Phases() {
		if ph.Host() == nil {
			return nil, tesseral.NewCompileError(op,
				fmt.Sprintf("%s: phase %d has no host form", p.Name(), i), nil)
		}
	}
	k := &compiledKernel{prog: p, source: p.Render()}
	q.kernels[p.Key()] = k
	return k, nil
}

// Enqueue schedules one kernel execution over the work-size grid.
// Argument count is checked against the program's parameter list before
// scheduling; execution itself happens asynchronously on the stream.
func (q *Queue) Enqueue(k tesseral.Kernel, ws kgen.WorkSize, args ...any) error {
	const op = "cpuq.Enqueue"
	ck, ok := k.(*compiledKernel)
	if !ok {
		return tesseral.NewInvalidArgError(op, "kernel was not compiled by this queue")
	}
	prog := ck.prog
	if len(args) != len(prog.Params()) {
		return tesseral.NewInvalidArgError(op,
			fmt.Sprintf("%s: got %d arguments, program declares %d",
				prog.Name(), len(args), len(prog.Params())))
	}
	groups, local, ok := ws.Groups()
	if !ok {
		return tesseral.NewInvalidArgError(op,
			fmt.Sprintf("%s: local size %v does not divide global size %v",
				prog.Name(), ws.Local, ws.Global))
	}
	if local[0]*local[1] > tesseral.MaxWorkGroupSize {
		return tesseral.NewInvalidArgError(op,
			fmt.Sprintf("%s: work-group size %dx%d exceeds limit %d",
				prog.Name(), local[0], local[1], tesseral.MaxWorkGroupSize))
	}
	q.submit(func() {
		q.run(prog, groups, local, args)
	})
	return nil
}

// run executes one enqueued kernel: groups split across workers, items
// within a group sequential, phases separated by the implied barrier.
// Groups touch disjoint output regions, so workers need no locking.
func (q *Queue) run(prog *kgen.Program, groups, local [2]int, args []any) {
	total := groups[0] * groups[1]
	if total == 0 {
		return
	}
	workers := q.workers
	if total < workers {
		workers = total
	}
	perWorker := (total + workers - 1) / workers

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		start := w * perWorker
		end := min(start+perWorker, total)
		go func(start, end int) {
			defer wg.Done()
			for g := start; g < end; g++ {
				group := [2]int{g / groups[1], g % groups[1]}
				inv := kgen.NewInvocation(prog, group, local, args)
				for _, ph := range prog.Phases() {
					host := ph.Host()
					for l1 := 0; l1 < local[1]; l1++ {
						for l0 := 0; l0 < local[0]; l0++ {
							host(inv, l0, l1)
						}
					}
				}
			}
		}(start, end)
	}
	wg.Wait()
}

// Finish blocks until every operation enqueued so far has completed.
func (q *Queue) Finish() error {
	q.wg.Wait()
	return nil
}

// Close shuts down the stream goroutine. The queue must not be used
// afterwards.
func (q *Queue) Close() {
	q.once.Do(func() {
		close(q.tasks)
	})
}
