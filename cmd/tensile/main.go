// Package main provides the Tensile compute engine CLI.
package main

import (
	"fmt"
	"os"

	"github.com/tensile-compute/tensile/backend/simd"
	"github.com/tensile-compute/tensile/backend/webgpu"
)

const version = "v0.1.0-dev"

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "version":
			fmt.Printf("Tensile %s\n", version)
			return
		case "info":
			printInfo()
			return
		}
	}

	fmt.Println("Tensile - Multi-Backend Tensor Compute for Go")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  version    Show version")
	fmt.Println("  info       Show available compute backends")
}

func printInfo() {
	features := simd.DetectFeatures()
	fmt.Println("CPU:")
	fmt.Printf("  Architecture: %s\n", features.Architecture)
	fmt.Printf("  AVX2: %v  AVX512: %v  SSE2: %v  NEON: %v\n",
		features.HasAVX2, features.HasAVX512, features.HasSSE2, features.HasNEON)
	fmt.Printf("  Lane width: %d elements\n\n", simd.LaneWidth())

	fmt.Println("GPU:")
	if !webgpu.IsAvailable() {
		fmt.Println("  WebGPU not available on this system")
		return
	}
	dev, err := webgpu.NewDevice()
	if err != nil {
		fmt.Printf("  WebGPU device initialization failed: %v\n", err)
		return
	}
	defer dev.Release()
	fmt.Printf("  %s\n", dev.Name())
}
