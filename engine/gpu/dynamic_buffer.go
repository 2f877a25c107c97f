package gpu

// DynamicVertexBuffer accumulates per-instance vertex data on the CPU each
// frame and uploads it in one go right before submission. The GPU buffer is
// grown by reallocation when undersized; exhaustion is never surfaced to the
// caller.
type DynamicVertexBuffer struct {
	device Device
	buffer Buffer
	data   []byte
	stride uint32
}

func NewDynamicVertexBuffer(device Device, initialCapacity, stride uint32) *DynamicVertexBuffer {
	return &DynamicVertexBuffer{
		device: device,
		data:   make([]byte, 0, initialCapacity),
		stride: stride,
	}
}

// Stride returns the per-element size in bytes.
func (b *DynamicVertexBuffer) Stride() uint32 {
	return b.stride
}

// Count returns the number of whole elements written since the last Clear.
func (b *DynamicVertexBuffer) Count() uint32 {
	if b.stride == 0 {
		return 0
	}
	return uint32(len(b.data)) / b.stride
}

// Write appends raw element bytes to the CPU-side staging area.
func (b *DynamicVertexBuffer) Write(data []byte) {
	b.data = append(b.data, data...)
}

// Clear discards staged data, retaining capacity.
func (b *DynamicVertexBuffer) Clear() {
	b.data = b.data[:0]
}

// Flush uploads the staged data, reallocating the GPU buffer when it is too
// small, and binds it as the instance buffer on the context.
func (b *DynamicVertexBuffer) Flush(context Context) error {
	size := uint32(len(b.data))
	if size == 0 {
		return nil
	}
	if b.buffer == nil || b.buffer.Size() < size {
		if b.buffer != nil {
			b.device.DestroyBuffer(b.buffer)
		}
		capacity := size + size/2
		buffer, err := b.device.CreateBuffer(capacity, BufferUsageDynamicVertex)
		if err != nil {
			return err
		}
		b.buffer = buffer
	}
	if err := context.UpdateBuffer(b.buffer, b.data); err != nil {
		return err
	}
	context.BindInstanceBuffer(b.buffer)
	return nil
}

// Dispose releases the GPU buffer.
func (b *DynamicVertexBuffer) Dispose() {
	if b.buffer != nil {
		b.device.DestroyBuffer(b.buffer)
		b.buffer = nil
	}
	b.data = nil
}
