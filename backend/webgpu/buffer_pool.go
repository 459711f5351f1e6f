package webgpu

import (
	"math/bits"
	"sync"

	"github.com/go-webgpu/webgpu/wgpu"
)

// storageUsage is the single usage set every pooled buffer is created with,
// so any entry of a size class can serve any request.
const storageUsage = wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc | wgpu.BufferUsageCopyDst

// BufferPool caches device storage buffers keyed by their power-of-two byte
// size, amortizing allocation cost across operations. Get pops an entry and
// transfers ownership to the caller; Put appends it back. A buffer handed
// out by Get is never simultaneously in the pool, and callers must not
// retain a reference after Put.
type BufferPool struct {
	device *wgpu.Device

	mu   sync.Mutex
	free map[uint64][]*wgpu.Buffer

	hits   uint64
	misses uint64
}

// NewBufferPool creates an empty pool allocating from device.
func NewBufferPool(device *wgpu.Device) *BufferPool {
	return &BufferPool{
		device: device,
		free:   make(map[uint64][]*wgpu.Buffer),
	}
}

// Get returns a storage buffer of at least size bytes, reusing a pooled
// buffer of the matching power-of-two class when one is available.
func (p *BufferPool) Get(size uint64) *wgpu.Buffer {
	key := NextPow2(size)

	p.mu.Lock()
	defer p.mu.Unlock()

	if list := p.free[key]; len(list) > 0 {
		buf := list[len(list)-1]
		p.free[key] = list[:len(list)-1]
		p.hits++
		return buf
	}

	p.misses++
	return p.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage: storageUsage,
		Size:  key,
	})
}

// Put returns buf to the pool. size must be the size the buffer was
// requested with.
func (p *BufferPool) Put(buf *wgpu.Buffer, size uint64) {
	key := NextPow2(size)

	p.mu.Lock()
	defer p.mu.Unlock()

	p.free[key] = append(p.free[key], buf)
}

// Clear releases every pooled buffer. Called on Device teardown.
func (p *BufferPool) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for key, list := range p.free {
		for _, buf := range list {
			buf.Release()
		}
		delete(p.free, key)
	}
}

// Stats returns the pool hit and miss counters and the number of buffers
// currently pooled.
func (p *BufferPool) Stats() (hits, misses uint64, pooled int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, list := range p.free {
		pooled += len(list)
	}
	return p.hits, p.misses, pooled
}

// NextPow2 rounds size up to the next power of two, with a floor of 4 bytes
// to satisfy buffer alignment. This keying maximizes the pool hit rate and
// bounds fragmentation at 2x.
func NextPow2(size uint64) uint64 {
	if size <= 4 {
		return 4
	}
	return 1 << bits.Len64(size-1)
}
