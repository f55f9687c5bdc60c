package cpuq

import (
	"sync/atomic"
	"testing"

	"github.com/mkessel/tesseral"
	"github.com/mkessel/tesseral/kgen"
)

// scaleProgram multiplies every element of a flat buffer by a scalar,
// one work-item per element along axis 0.
func scaleProgram() *kgen.Program {
	p := kgen.NewProgram("test_scale_float", "float")
	p.AddBuffer("buf", false)
	p.AddScalar("s", "float")
	ph := p.NewPhase(func(inv *kgen.Invocation, l0, l1 int) {
		buf := inv.Arg(0).([]float32)
		s := inv.Arg(1).(float32)
		buf[inv.GlobalID(0, l0)] *= s
	})
	ph.Stmtf("buf[get_global_id(0)] *= s;")
	return p
}

func TestQueueExecutesProgram(t *testing.T) {
	q := New()
	defer q.Close()

	buf := make([]float32, 100)
	for i := range buf {
		buf[i] = float32(i)
	}

	k, err := q.Compile(scaleProgram())
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	ws := kgen.WorkSize{Global: [2]int{len(buf), 1}}
	if err := q.Enqueue(k, ws, buf, float32(2)); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	if err := q.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}
	for i := range buf {
		if buf[i] != float32(2*i) {
			t.Fatalf("buf[%d] = %v, want %v", i, buf[i], float32(2*i))
		}
	}
}

// Enqueues on one queue execute in submission order, like a command
// stream: a second kernel sees the first one's writes.
func TestQueueOrdersEnqueues(t *testing.T) {
	q := New()
	defer q.Close()

	buf := make([]float32, 64)
	for i := range buf {
		buf[i] = 1
	}
	k, err := q.Compile(scaleProgram())
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	ws := kgen.WorkSize{Global: [2]int{len(buf), 1}}
	for i := 0; i < 4; i++ {
		if err := q.Enqueue(k, ws, buf, float32(2)); err != nil {
			t.Fatalf("Enqueue %d: %v", i, err)
		}
	}
	if err := q.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}
	for i := range buf {
		if buf[i] != 16 {
			t.Fatalf("buf[%d] = %v, want 16", i, buf[i])
		}
	}
}

// Phases within a group are barrier-separated: phase two must observe
// every local-memory write phase one issued, whichever work-item made it.
func TestQueueBarrierBetweenPhases(t *testing.T) {
	q := New()
	defer q.Close()

	const groupSize = 16
	var violations atomic.Int32
	out := make([]float64, groupSize)

	p := kgen.NewProgram("test_barrier", "float")
	p.AddBuffer("out", false)
	p.AddLocal("stage", 1, groupSize)
	p.NewPhase(func(inv *kgen.Invocation, l0, l1 int) {
		// Each item stages a value at a slot another item will read.
		inv.LocalMem("stage")[0][(l0+1)%groupSize] = float64(l0 + 1)
	}).Stmtf("stage[0][(get_local_id(0)+1)%%16] = get_local_id(0)+1;")
	p.NewPhase(func(inv *kgen.Invocation, l0, l1 int) {
		v := inv.LocalMem("stage")[0][l0]
		if v == 0 {
			violations.Add(1)
		}
		inv.Arg(0).([]float64)[l0] = v
	}).Stmtf("out[get_local_id(0)] = stage[0][get_local_id(0)];")

	k, err := q.Compile(p)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	ws := kgen.WorkSize{Global: [2]int{groupSize, 1}, Local: [2]int{groupSize, 1}}
	if err := q.Enqueue(k, ws, out); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	if err := q.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if violations.Load() != 0 {
		t.Fatalf("%d work-items read local memory before it was populated", violations.Load())
	}
	for i, v := range out {
		want := float64((i+groupSize-1)%groupSize + 1)
		if v != want {
			t.Errorf("out[%d] = %v, want %v", i, v, want)
		}
	}
}

func TestCompileValidation(t *testing.T) {
	q := New()
	defer q.Close()

	if _, err := q.Compile(nil); !tesseral.IsCompileError(err) {
		t.Errorf("nil program: got %v, want compile error", err)
	}

	empty := kgen.NewProgram("test_empty", "float")
	if _, err := q.Compile(empty); !tesseral.IsCompileError(err) {
		t.Errorf("no phases: got %v, want compile error", err)
	}

	noHost := kgen.NewProgram("test_nohost", "float")
	noHost.NewPhase(nil).Stmtf("// nothing")
	if _, err := q.Compile(noHost); !tesseral.IsCompileError(err) {
		t.Errorf("missing host form: got %v, want compile error", err)
	}
}

func TestCompileCachesByKey(t *testing.T) {
	q := New()
	defer q.Close()

	k1, err := q.Compile(scaleProgram())
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	k2, err := q.Compile(scaleProgram())
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if k1 != k2 {
		t.Error("same signature compiled twice; expected cache hit")
	}
	src := k1.(*compiledKernel).Source()
	if src == "" {
		t.Error("compiled kernel lost its rendered source")
	}
}

func TestEnqueueValidation(t *testing.T) {
	q := New()
	defer q.Close()

	k, err := q.Compile(scaleProgram())
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	// Wrong argument count.
	ws := kgen.WorkSize{Global: [2]int{8, 1}}
	if err := q.Enqueue(k, ws, make([]float32, 8)); err == nil {
		t.Error("missing scalar argument accepted")
	}

	// Local size that does not divide the global size.
	bad := kgen.WorkSize{Global: [2]int{50, 1}, Local: [2]int{32, 1}}
	if err := q.Enqueue(k, bad, make([]float32, 50), float32(1)); err == nil {
		t.Error("non-dividing local size accepted")
	}

	// Foreign kernel handle.
	type fakeKernel struct{ tesseral.Kernel }
	if err := q.Enqueue(fakeKernel{}, ws, make([]float32, 8), float32(1)); err == nil {
		t.Error("foreign kernel handle accepted")
	}
}

func TestDeviceDetection(t *testing.T) {
	q := New()
	defer q.Close()

	dev := q.Device()
	if dev == nil || dev.NumCores < 1 {
		t.Fatalf("implausible device: %+v", dev)
	}
	if dev.String() == "" {
		t.Error("empty device description")
	}
}
