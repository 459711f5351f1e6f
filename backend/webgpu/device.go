// Package webgpu implements the GPU compute backend on top of go-webgpu's
// zero-CGO WebGPU bindings. Float32 operations run as WGSL compute kernels;
// every other element type, and every call made without an initialized
// device, transparently falls back to the scalar reference algorithms.
package webgpu

import (
	"fmt"
	"sync"

	"github.com/go-webgpu/webgpu/wgpu"
)

// Device owns the process-wide GPU state: instance, adapter, device handle,
// command queue, the shader and pipeline caches, and the buffer pool. It is
// constructed explicitly with NewDevice and injected into backends; Release
// tears everything down. Calls into a Device are single-threaded or
// externally serialized; the internal locks protect the caches, not the
// dispatch protocol.
type Device struct {
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue

	shaders   map[string]*wgpu.ShaderModule
	pipelines map[string]*wgpu.ComputePipeline
	mu        sync.RWMutex

	adapterInfo *wgpu.AdapterInfoGo
	pool        *BufferPool
}

// NewDevice initializes the GPU context: adapter discovery, device and queue
// acquisition, and an empty buffer pool. Kernel pipelines compile lazily on
// first use. Returns an error when WebGPU is unavailable on this system.
func NewDevice() (dev *Device, err error) {
	// The native wgpu library panics when missing; report that as plain
	// unavailability.
	defer func() {
		if r := recover(); r != nil {
			dev = nil
			err = fmt.Errorf("webgpu: native library not available: %v", r)
		}
	}()

	instance, instanceErr := wgpu.CreateInstance(nil)
	if instanceErr != nil {
		return nil, fmt.Errorf("webgpu: failed to create instance: %w", instanceErr)
	}
	adapter, adapterErr := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference: wgpu.PowerPreferenceHighPerformance,
	})
	if adapterErr != nil {
		instance.Release()
		return nil, fmt.Errorf("webgpu: failed to request adapter: %w", adapterErr)
	}

	adapterInfo, _ := adapter.GetInfo()

	device, deviceErr := adapter.RequestDevice(nil)
	if deviceErr != nil {
		adapter.Release()
		instance.Release()
		return nil, fmt.Errorf("webgpu: failed to request device: %w", deviceErr)
	}

	queue := device.GetQueue()
	if queue == nil {
		device.Release()
		adapter.Release()
		instance.Release()
		return nil, fmt.Errorf("webgpu: failed to get queue")
	}

	return &Device{
		instance:    instance,
		adapter:     adapter,
		device:      device,
		queue:       queue,
		shaders:     make(map[string]*wgpu.ShaderModule),
		pipelines:   make(map[string]*wgpu.ComputePipeline),
		adapterInfo: adapterInfo,
		pool:        NewBufferPool(device),
	}, nil
}

// ok reports whether the device path can be taken. A nil Device and a
// released Device both read as unavailable, so backends holding either fall
// back instead of failing.
func (d *Device) ok() bool {
	return d != nil && d.device != nil
}

// Pool returns the device's buffer pool.
func (d *Device) Pool() *BufferPool { return d.pool }

// AdapterInfo returns information about the GPU adapter.
func (d *Device) AdapterInfo() *wgpu.AdapterInfoGo { return d.adapterInfo }

// Name returns a human-readable device description.
func (d *Device) Name() string {
	if d.adapterInfo != nil {
		return fmt.Sprintf("WebGPU (%s %s)", d.adapterInfo.Device, d.adapterInfo.Vendor)
	}
	return "WebGPU"
}

// Release tears down the GPU context: pooled buffers, pipelines, shader
// modules, queue, device, adapter and instance, in that order. A second
// Release is a no-op; using a Device after Release makes backends fall back
// rather than touch freed state.
func (d *Device) Release() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.pool != nil {
		d.pool.Clear()
		d.pool = nil
	}
	for _, p := range d.pipelines {
		p.Release()
	}
	d.pipelines = nil
	for _, s := range d.shaders {
		s.Release()
	}
	d.shaders = nil

	if d.queue != nil {
		d.queue.Release()
		d.queue = nil
	}
	if d.device != nil {
		d.device.Release()
		d.device = nil
	}
	if d.adapter != nil {
		d.adapter.Release()
		d.adapter = nil
	}
	if d.instance != nil {
		d.instance.Release()
		d.instance = nil
	}
}

// IsAvailable checks if WebGPU is available on this system.
func IsAvailable() (available bool) {
	defer func() {
		if r := recover(); r != nil {
			available = false
		}
	}()

	instance, instanceErr := wgpu.CreateInstance(nil)
	if instanceErr != nil {
		return false
	}
	defer instance.Release()

	adapter, err := instance.RequestAdapter(nil)
	if err != nil {
		return false
	}
	adapter.Release()

	return true
}
