package cpuq

import (
	"fmt"
	"runtime"
	"strings"

	"golang.org/x/sys/cpu"
)

// Device describes the processor a queue executes on.
type Device struct {
	Name     string // Human-readable device name
	NumCores int    // Number of CPU cores
	Features []string
}

// detectDevice probes the host CPU through x/sys/cpu
func detectDevice() *Device {
	d := &Device{
		Name:     "CPU",
		NumCores: runtime.NumCPU(),
	}
	if cpu.X86.HasSSE41 || cpu.X86.HasSSE42 {
		d.Features = append(d.Features, "sse4")
	}
	if cpu.X86.HasAVX2 {
		d.Features = append(d.Features, "avx2")
	}
	if cpu.X86.HasFMA {
		d.Features = append(d.Features, "fma")
	}
	if cpu.X86.HasAVX512F {
		d.Features = append(d.Features, "avx512f")
	}
	if cpu.ARM64.HasASIMD {
		d.Features = append(d.Features, "asimd")
	}
	if cpu.ARM64.HasSVE {
		d.Features = append(d.Features, "sve")
	}
	return d
}

func (d *Device) String() string {
	if len(d.Features) == 0 {
		return fmt.Sprintf("%s (%d cores)", d.Name, d.NumCores)
	}
	return fmt.Sprintf("%s (%d cores, %s)", d.Name, d.NumCores, strings.Join(d.Features, ","))
}
