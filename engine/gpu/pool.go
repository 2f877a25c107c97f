package gpu

import (
	"fmt"
	"sync"
)

// RenderTargetPool hands out transient render targets keyed by description.
// Released targets are kept for reuse, so the steady-state frame allocates no
// new textures. Leases are scoped: the handle returned by Acquire must be
// released on every exit path, and Release is idempotent so it can be both
// deferred and called early.
type RenderTargetPool struct {
	device Device

	mu   sync.Mutex
	free map[TextureDescription][]Texture

	checkedOut uint64
	checkedIn  uint64
}

func NewRenderTargetPool(device Device) *RenderTargetPool {
	return &RenderTargetPool{
		device: device,
		free:   make(map[TextureDescription][]Texture),
	}
}

// RenderTargetLease is a scoped borrow of a pooled texture.
type RenderTargetLease struct {
	pool     *RenderTargetPool
	texture  Texture
	released bool
}

// Acquire leases a texture matching the description, creating one when the
// pool has no free match.
func (p *RenderTargetPool) Acquire(desc TextureDescription) (*RenderTargetLease, error) {
	p.mu.Lock()
	list := p.free[desc]
	var texture Texture
	if n := len(list); n > 0 {
		texture = list[n-1]
		p.free[desc] = list[:n-1]
	}
	p.checkedOut++
	p.mu.Unlock()

	if texture == nil {
		t, err := p.device.CreateTexture(desc)
		if err != nil {
			p.mu.Lock()
			p.checkedOut--
			p.mu.Unlock()
			return nil, fmt.Errorf("render target pool: %w", err)
		}
		texture = t
	}
	return &RenderTargetLease{pool: p, texture: texture}, nil
}

// Texture returns the leased texture. Nil after release.
func (l *RenderTargetLease) Texture() Texture {
	if l == nil || l.released {
		return nil
	}
	return l.texture
}

// Release returns the texture to the pool. Safe to call more than once and on
// a nil lease, so early-return branches and a deferred release can coexist.
func (l *RenderTargetLease) Release() {
	if l == nil || l.released {
		return
	}
	l.released = true
	p := l.pool
	p.mu.Lock()
	p.free[l.texture.Description()] = append(p.free[l.texture.Description()], l.texture)
	p.checkedIn++
	p.mu.Unlock()
	l.texture = nil
}

// Balance returns the checkout/checkin counters. They must be equal between
// frames; a difference is a leaked lease.
func (p *RenderTargetPool) Balance() (checkedOut, checkedIn uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.checkedOut, p.checkedIn
}

// FreeCount returns the number of idle pooled textures.
func (p *RenderTargetPool) FreeCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, list := range p.free {
		n += len(list)
	}
	return n
}

// Cleanup destroys all idle textures. Use it to reduce memory pressure.
func (p *RenderTargetPool) Cleanup() {
	p.mu.Lock()
	free := p.free
	p.free = make(map[TextureDescription][]Texture)
	p.mu.Unlock()
	for _, list := range free {
		for _, texture := range list {
			p.device.DestroyTexture(texture)
		}
	}
}
