package gpu

import "testing"

func TestRenderTargetPoolReusesReleasedTargets(t *testing.T) {
	device := NewNullDevice()
	pool := NewRenderTargetPool(device)
	desc := NewTextureDescription2D(128, 128, TextureFormatR8G8B8A8)

	lease, err := pool.Acquire(desc)
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	first := lease.Texture()
	if first == nil {
		t.Fatal("leased texture is nil")
	}
	lease.Release()

	lease2, err := pool.Acquire(desc)
	if err != nil {
		t.Fatalf("second Acquire failed: %v", err)
	}
	defer lease2.Release()
	if lease2.Texture() != first {
		t.Error("pool did not reuse the released texture")
	}
	if device.LiveTextures() != 1 {
		t.Errorf("LiveTextures() = %d, want 1", device.LiveTextures())
	}
}

func TestRenderTargetPoolDistinctDescriptionsDoNotShare(t *testing.T) {
	device := NewNullDevice()
	pool := NewRenderTargetPool(device)

	a, err := pool.Acquire(NewTextureDescription2D(64, 64, TextureFormatR8G8B8A8))
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	b, err := pool.Acquire(NewTextureDescription2D(64, 64, TextureFormatR16G16Float))
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	if a.Texture() == b.Texture() {
		t.Error("different descriptions returned the same texture")
	}
	a.Release()
	b.Release()
	if pool.FreeCount() != 2 {
		t.Errorf("FreeCount() = %d, want 2", pool.FreeCount())
	}
}

func TestRenderTargetLeaseReleaseIsIdempotent(t *testing.T) {
	device := NewNullDevice()
	pool := NewRenderTargetPool(device)
	desc := NewTextureDescription2D(32, 32, TextureFormatR8G8B8A8)

	lease, err := pool.Acquire(desc)
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	lease.Release()
	lease.Release()
	lease.Release()

	out, in := pool.Balance()
	if out != 1 || in != 1 {
		t.Errorf("Balance() = (%d, %d), want (1, 1)", out, in)
	}
	if lease.Texture() != nil {
		t.Error("Texture() after release should be nil")
	}

	var nilLease *RenderTargetLease
	nilLease.Release()
}

func TestRenderTargetPoolBalanceDetectsLeak(t *testing.T) {
	device := NewNullDevice()
	pool := NewRenderTargetPool(device)
	desc := NewTextureDescription2D(32, 32, TextureFormatR8G8B8A8)

	lease, err := pool.Acquire(desc)
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	out, in := pool.Balance()
	if out != in+1 {
		t.Errorf("Balance() = (%d, %d), want checkout one ahead", out, in)
	}
	lease.Release()
	out, in = pool.Balance()
	if out != in {
		t.Errorf("Balance() = (%d, %d), want equal after release", out, in)
	}
}

func TestRenderTargetPoolAcquireFailureKeepsBalance(t *testing.T) {
	device := NewNullDevice()
	pool := NewRenderTargetPool(device)

	if _, err := pool.Acquire(TextureDescription{}); err == nil {
		t.Fatal("Acquire with zero-sized description should fail")
	}
	out, in := pool.Balance()
	if out != in {
		t.Errorf("Balance() = (%d, %d), want equal after failed acquire", out, in)
	}
}

func TestRenderTargetPoolCleanup(t *testing.T) {
	device := NewNullDevice()
	pool := NewRenderTargetPool(device)
	desc := NewTextureDescription2D(32, 32, TextureFormatR8G8B8A8)

	lease, _ := pool.Acquire(desc)
	lease.Release()
	if pool.FreeCount() != 1 {
		t.Fatalf("FreeCount() = %d, want 1", pool.FreeCount())
	}

	pool.Cleanup()
	if pool.FreeCount() != 0 {
		t.Errorf("FreeCount() after Cleanup = %d, want 0", pool.FreeCount())
	}
	if device.LiveTextures() != 0 {
		t.Errorf("LiveTextures() after Cleanup = %d, want 0", device.LiveTextures())
	}
}
