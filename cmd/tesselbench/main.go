// Command tesselbench times the default triangular solve and the
// generated assignment kernels on the CPU queue.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"runtime"
	"time"

	"github.com/mkessel/tesseral"
	"github.com/mkessel/tesseral/cpuq"
)

func main() {
	var (
		size  = flag.Int("size", 1024, "Matrix dimension (must divide by the tile size for the cross-layout case)")
		iters = flag.Int("iters", 20, "Iterations per measurement")
	)
	flag.Parse()

	if *size%tesseral.TileDim != 0 {
		log.Fatalf("size %d must divide by %d", *size, tesseral.TileDim)
	}

	q := cpuq.New()
	defer q.Close()

	fmt.Printf("Go %s, GOARCH %s\n", runtime.Version(), runtime.GOARCH)
	fmt.Printf("Device: %s\n", q.Device())
	fmt.Printf("Size: %dx%d, %d iterations\n\n", *size, *size, *iters)

	rng := rand.New(rand.NewSource(1))
	n := *size

	// Triangular solve, default path.
	a := tesseral.NewDenseMatrix[float64](n, n, tesseral.RowMajor, tesseral.Host)
	for i := 0; i < n; i++ {
		a.Set(i, i, 1+rng.Float64())
		for j := 0; j < i; j++ {
			a.Set(i, j, rng.Float64())
		}
	}
	b := tesseral.NewDenseVector[float64](n, tesseral.Host)
	for i := 0; i < n; i++ {
		b.Set(i, rng.Float64())
	}
	start := time.Now()
	for it := 0; it < *iters; it++ {
		if err := tesseral.Trsv(false, false, a, b); err != nil {
			log.Fatal(err)
		}
	}
	report("trsv (lower, non-unit)", start, *iters, int64(n)*int64(n))

	// Same-layout elementwise assignment on the queue.
	dst := tesseral.NewDenseMatrix[float32](n, n, tesseral.RowMajor, tesseral.Device)
	srcSame := tesseral.NewDenseMatrix[float32](n, n, tesseral.RowMajor, tesseral.Device)
	srcCross := tesseral.NewDenseMatrix[float32](n, n, tesseral.ColMajor, tesseral.Device)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			srcSame.Set(i, j, rng.Float32())
			srcCross.Set(i, j, rng.Float32())
		}
	}

	start = time.Now()
	for it := 0; it < *iters; it++ {
		if err := tesseral.MatrixAssignDevice(q, tesseral.Assign, dst, srcSame); err != nil {
			log.Fatal(err)
		}
	}
	if err := q.Finish(); err != nil {
		log.Fatal(err)
	}
	report("assign same-layout", start, *iters, int64(n)*int64(n))

	start = time.Now()
	for it := 0; it < *iters; it++ {
		if err := tesseral.MatrixAssignDevice(q, tesseral.Assign, dst, srcCross); err != nil {
			log.Fatal(err)
		}
	}
	if err := q.Finish(); err != nil {
		log.Fatal(err)
	}
	report("assign cross-layout tiled", start, *iters, int64(n)*int64(n))
}

func report(name string, start time.Time, iters int, elems int64) {
	elapsed := time.Since(start)
	per := elapsed / time.Duration(iters)
	rate := float64(elems) / per.Seconds() / 1e9
	fmt.Printf("%-28s %10v/iter  %6.2f Gelem/s\n", name, per.Round(time.Microsecond), rate)
}
