package webgpu

import (
	"encoding/binary"
	"fmt"
	"math"
	"unsafe"

	"github.com/go-webgpu/webgpu/wgpu"

	"github.com/tensile-compute/tensile/tensor"
)

// compileShader compiles WGSL source into a ShaderModule, cached by name.
func (d *Device) compileShader(name, code string) *wgpu.ShaderModule {
	d.mu.RLock()
	if shader, exists := d.shaders[name]; exists {
		d.mu.RUnlock()
		return shader
	}
	d.mu.RUnlock()

	shader := d.device.CreateShaderModuleWGSL(code)

	d.mu.Lock()
	d.shaders[name] = shader
	d.mu.Unlock()

	return shader
}

// pipelineFor returns the cached ComputePipeline for the named kernel,
// compiling shader and pipeline on first use.
func (d *Device) pipelineFor(name, code string) *wgpu.ComputePipeline {
	d.mu.RLock()
	if pipeline, exists := d.pipelines[name]; exists {
		d.mu.RUnlock()
		return pipeline
	}
	d.mu.RUnlock()

	shader := d.compileShader(name, code)
	if shader == nil {
		return nil
	}
	pipeline := d.device.CreateComputePipelineSimple(nil, shader, "main")

	d.mu.Lock()
	d.pipelines[name] = pipeline
	d.mu.Unlock()

	return pipeline
}

// stagingUpload creates a mapped copy-source buffer holding data. The
// returned buffer feeds a CopyBufferToBuffer into a pooled storage buffer
// and is released by the caller after submit.
func (d *Device) stagingUpload(data []byte) *wgpu.Buffer {
	size := uint64(len(data))
	buffer := d.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage:            wgpu.BufferUsageCopySrc,
		Size:             size,
		MappedAtCreation: wgpu.True,
	})

	mappedPtr := buffer.GetMappedRange(0, size)
	mappedSlice := unsafe.Slice((*byte)(mappedPtr), size)
	copy(mappedSlice, data)
	buffer.Unmap()

	return buffer
}

// uniformBuffer creates a uniform buffer with the 16-byte alignment WGSL
// struct fields require.
func (d *Device) uniformBuffer(data []byte) *wgpu.Buffer {
	size := uint64(len(data))
	alignedSize := (size + 15) &^ 15

	buffer := d.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage:            wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
		Size:             alignedSize,
		MappedAtCreation: wgpu.True,
	})

	mappedPtr := buffer.GetMappedRange(0, alignedSize)
	mappedSlice := unsafe.Slice((*byte)(mappedPtr), alignedSize)
	copy(mappedSlice, data)
	buffer.Unmap()

	return buffer
}

// readBuffer copies a storage buffer back to host memory through a staging
// buffer, blocking until the device has finished.
func (d *Device) readBuffer(src *wgpu.Buffer, size uint64) ([]byte, error) {
	staging := d.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
		Size:  size,
	})
	defer staging.Release()

	encoder := d.device.CreateCommandEncoder(nil)
	encoder.CopyBufferToBuffer(src, 0, staging, 0, size)
	cmdBuffer := encoder.Finish(nil)
	d.queue.Submit(cmdBuffer)

	if err := staging.MapAsync(d.device, wgpu.MapModeRead, 0, size); err != nil {
		return nil, fmt.Errorf("%w: map staging buffer: %v", tensor.ErrBackend, err)
	}

	mappedPtr := staging.GetMappedRange(0, size)
	if mappedPtr == nil {
		return nil, fmt.Errorf("%w: staging buffer has no mapped range", tensor.ErrBackend)
	}
	mappedSlice := unsafe.Slice((*byte)(mappedPtr), size)
	result := make([]byte, size)
	copy(result, mappedSlice)

	staging.Unmap()

	return result, nil
}

// dispatchSpec describes one kernel launch: storage inputs bound in order
// from binding 0, then the result buffer, then the params uniform.
type dispatchSpec struct {
	name     string
	code     string
	inputs   [][]byte
	outBytes uint64
	params   []byte
	groupsX  uint32
	groupsY  uint32
}

// dispatch runs one synchronous kernel round trip: pooled operand and result
// buffers, staging upload, bind, dispatch, await, readback. Pooled buffers
// are returned to the pool on every exit path.
func (d *Device) dispatch(spec dispatchSpec) ([]byte, error) {
	pipeline := d.pipelineFor(spec.name, spec.code)
	if pipeline == nil {
		return nil, fmt.Errorf("%w: no pipeline for kernel %q", tensor.ErrBackend, spec.name)
	}

	encoder := d.device.CreateCommandEncoder(nil)

	entries := make([]wgpu.BindGroupEntry, 0, len(spec.inputs)+2)
	binding := uint32(0)
	for _, data := range spec.inputs {
		buf := d.pool.Get(uint64(len(data)))
		if buf == nil {
			return nil, fmt.Errorf("%w: %d-byte storage buffer", tensor.ErrOutOfMemory, len(data))
		}
		defer d.pool.Put(buf, uint64(len(data)))

		staging := d.stagingUpload(data)
		defer staging.Release()
		encoder.CopyBufferToBuffer(staging, 0, buf, 0, uint64(len(data)))

		entries = append(entries, wgpu.BufferBindingEntry(binding, buf, 0, uint64(len(data))))
		binding++
	}

	outBuf := d.pool.Get(spec.outBytes)
	if outBuf == nil {
		return nil, fmt.Errorf("%w: %d-byte result buffer", tensor.ErrOutOfMemory, spec.outBytes)
	}
	defer d.pool.Put(outBuf, spec.outBytes)
	entries = append(entries, wgpu.BufferBindingEntry(binding, outBuf, 0, spec.outBytes))
	binding++

	paramsBuf := d.uniformBuffer(spec.params)
	defer paramsBuf.Release()
	alignedParams := (uint64(len(spec.params)) + 15) &^ 15
	entries = append(entries, wgpu.BufferBindingEntry(binding, paramsBuf, 0, alignedParams))

	bindGroupLayout := pipeline.GetBindGroupLayout(0)
	bindGroup := d.device.CreateBindGroupSimple(bindGroupLayout, entries)
	defer bindGroup.Release()

	computePass := encoder.BeginComputePass(nil)
	computePass.SetPipeline(pipeline)
	computePass.SetBindGroup(0, bindGroup, nil)
	computePass.DispatchWorkgroups(spec.groupsX, spec.groupsY, 1)
	computePass.End()

	cmdBuffer := encoder.Finish(nil)
	d.queue.Submit(cmdBuffer)

	return d.readBuffer(outBuf, spec.outBytes)
}

// groups1D returns the 1D workgroup count covering n elements.
func groups1D(n int) uint32 {
	return uint32((n + workgroupSize - 1) / workgroupSize)
}

// groups2D returns the workgroup count covering n elements in tiles.
func groups2D(n int) uint32 {
	return uint32((n + tileSize - 1) / tileSize)
}

// f32Bytes reinterprets a float32 slice as bytes without copying.
func f32Bytes(s []float32) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*4)
}

// bytesF32 reinterprets a byte slice as float32s without copying.
func bytesF32(b []byte) []float32 {
	if len(b) == 0 {
		return nil
	}
	return unsafe.Slice((*float32)(unsafe.Pointer(&b[0])), len(b)/4)
}

// runBinary executes a named element-wise binary kernel.
func (d *Device) runBinary(name string, a, b []float32) ([]float32, error) {
	n := len(a)
	params := make([]byte, 16)
	binary.LittleEndian.PutUint32(params[0:4], uint32(n))

	out, err := d.dispatch(dispatchSpec{
		name:     name,
		code:     binaryShaders[name],
		inputs:   [][]byte{f32Bytes(a), f32Bytes(b)},
		outBytes: uint64(n * 4),
		params:   params,
		groupsX:  groups1D(n),
		groupsY:  1,
	})
	if err != nil {
		return nil, err
	}
	return bytesF32(out), nil
}

// runUnary executes a named element-wise unary kernel.
func (d *Device) runUnary(name string, a []float32) ([]float32, error) {
	n := len(a)
	params := make([]byte, 16)
	binary.LittleEndian.PutUint32(params[0:4], uint32(n))

	out, err := d.dispatch(dispatchSpec{
		name:     name,
		code:     unaryShaders[name],
		inputs:   [][]byte{f32Bytes(a)},
		outBytes: uint64(n * 4),
		params:   params,
		groupsX:  groups1D(n),
		groupsY:  1,
	})
	if err != nil {
		return nil, err
	}
	return bytesF32(out), nil
}

// runScalarMul executes the scalar-multiply kernel; the scalar travels in
// the params uniform.
func (d *Device) runScalarMul(a []float32, scalar float32) ([]float32, error) {
	n := len(a)
	params := make([]byte, 16)
	binary.LittleEndian.PutUint32(params[0:4], uint32(n))
	binary.LittleEndian.PutUint32(params[4:8], math.Float32bits(scalar))

	out, err := d.dispatch(dispatchSpec{
		name:     "scale",
		code:     scaleShader,
		inputs:   [][]byte{f32Bytes(a)},
		outBytes: uint64(n * 4),
		params:   params,
		groupsX:  groups1D(n),
		groupsY:  1,
	})
	if err != nil {
		return nil, err
	}
	return bytesF32(out), nil
}

// runDot executes the cooperative dot reduction and folds the per-workgroup
// partial sums on the host.
func (d *Device) runDot(a, b []float32) (float32, error) {
	n := len(a)
	groups := groups1D(n)
	params := make([]byte, 16)
	binary.LittleEndian.PutUint32(params[0:4], uint32(n))

	out, err := d.dispatch(dispatchSpec{
		name:     "dot",
		code:     dotShader,
		inputs:   [][]byte{f32Bytes(a), f32Bytes(b)},
		outBytes: uint64(groups * 4),
		params:   params,
		groupsX:  groups,
		groupsY:  1,
	})
	if err != nil {
		return 0, err
	}

	var sum float32
	for _, p := range bytesF32(out) {
		sum += p
	}
	return sum, nil
}

// runNormSquared executes the cooperative squared-sum reduction; the caller
// takes the square root.
func (d *Device) runNormSquared(v []float32) (float32, error) {
	n := len(v)
	groups := groups1D(n)
	params := make([]byte, 16)
	binary.LittleEndian.PutUint32(params[0:4], uint32(n))

	out, err := d.dispatch(dispatchSpec{
		name:     "norm",
		code:     normShader,
		inputs:   [][]byte{f32Bytes(v)},
		outBytes: uint64(groups * 4),
		params:   params,
		groupsX:  groups,
		groupsY:  1,
	})
	if err != nil {
		return 0, err
	}

	var sum float32
	for _, p := range bytesF32(out) {
		sum += p
	}
	return sum, nil
}

// runMatVecMul executes the matrix-vector kernel, one thread per output row.
func (d *Device) runMatVecMul(m, v []float32, rows, cols int) ([]float32, error) {
	params := make([]byte, 16)
	binary.LittleEndian.PutUint32(params[0:4], uint32(rows))
	binary.LittleEndian.PutUint32(params[4:8], uint32(cols))

	out, err := d.dispatch(dispatchSpec{
		name:     "matvec",
		code:     matVecShader,
		inputs:   [][]byte{f32Bytes(m), f32Bytes(v)},
		outBytes: uint64(rows * 4),
		params:   params,
		groupsX:  groups1D(rows),
		groupsY:  1,
	})
	if err != nil {
		return nil, err
	}
	return bytesF32(out), nil
}

// runMatMul executes the matrix-multiply kernel on a 2D grid, one thread per
// output element.
func (d *Device) runMatMul(a, b []float32, m, k, n int) ([]float32, error) {
	params := make([]byte, 16)
	binary.LittleEndian.PutUint32(params[0:4], uint32(m))
	binary.LittleEndian.PutUint32(params[4:8], uint32(k))
	binary.LittleEndian.PutUint32(params[8:12], uint32(n))

	out, err := d.dispatch(dispatchSpec{
		name:     "matmul",
		code:     matMulShader,
		inputs:   [][]byte{f32Bytes(a), f32Bytes(b)},
		outBytes: uint64(m * n * 4),
		params:   params,
		groupsX:  groups2D(n),
		groupsY:  groups2D(m),
	})
	if err != nil {
		return nil, err
	}
	return bytesF32(out), nil
}

// runTranspose executes the transpose kernel on a 2D grid.
func (d *Device) runTranspose(src []float32, rows, cols int) ([]float32, error) {
	params := make([]byte, 16)
	binary.LittleEndian.PutUint32(params[0:4], uint32(rows))
	binary.LittleEndian.PutUint32(params[4:8], uint32(cols))

	out, err := d.dispatch(dispatchSpec{
		name:     "transpose",
		code:     transposeShader,
		inputs:   [][]byte{f32Bytes(src)},
		outBytes: uint64(rows * cols * 4),
		params:   params,
		groupsX:  groups2D(cols),
		groupsY:  groups2D(rows),
	})
	if err != nil {
		return nil, err
	}
	return bytesF32(out), nil
}
