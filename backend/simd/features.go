package simd

import (
	"runtime"

	"golang.org/x/sys/cpu"
)

// Features reports the vector capabilities of the running CPU. The kernels
// in this package are portable Go with a fixed lane width; Features lets
// callers and benchmarks record which instruction sets the compiler had to
// work with on the host.
type Features struct {
	HasAVX2      bool
	HasAVX512    bool
	HasSSE2      bool
	HasNEON      bool
	Architecture string
}

// DetectFeatures reports the available CPU features for the current process.
func DetectFeatures() Features {
	return Features{
		HasAVX2:      cpu.X86.HasAVX2,
		HasAVX512:    cpu.X86.HasAVX512,
		HasSSE2:      cpu.X86.HasSSE2,
		HasNEON:      cpu.ARM64.HasASIMD,
		Architecture: runtime.GOARCH,
	}
}

// LaneWidth returns the number of elements processed per chunk.
func LaneWidth() int { return chunk }
