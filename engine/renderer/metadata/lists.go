package metadata

// DrawCallsListType identifies the per-pass draw call lists.
type DrawCallsListType int

const (
	// Hardware depth rendering.
	DrawCallsListDepth DrawCallsListType = iota
	// GBuffer rendering.
	DrawCallsListGBuffer
	// GBuffer rendering of meshes that do not receive decals.
	DrawCallsListGBufferNoDecals
	// Transparency rendering.
	DrawCallsListForward
	// Distortion accumulation rendering.
	DrawCallsListDistortion
	// Motion vectors rendering.
	DrawCallsListMotionVectors

	DrawCallsListMax
)

func (t DrawCallsListType) String() string {
	switch t {
	case DrawCallsListDepth:
		return "Depth"
	case DrawCallsListGBuffer:
		return "GBuffer"
	case DrawCallsListGBufferNoDecals:
		return "GBufferNoDecals"
	case DrawCallsListForward:
		return "Forward"
	case DrawCallsListDistortion:
		return "Distortion"
	case DrawCallsListMotionVectors:
		return "MotionVectors"
	}
	return "Unknown"
}

// DrawBatch is a contiguous run of sorted draw calls compatible for one
// instanced submission. Batches are derived fresh on every sort and never
// persist across frames.
type DrawBatch struct {
	// SortKey shared by all draw calls within the batch.
	SortKey uint64
	// StartIndex is the first position in the sorted index array.
	StartIndex int32
	// BatchSize is the number of draw calls submitted at once.
	BatchSize int32
	// InstanceCount is the total amount of instances in this batch.
	InstanceCount int32
}

// DrawCallsList holds the draw call selection of one render pass: the index
// sequence into the frame's draw call registry, the externally pre-batched
// indices, and the derived batches.
type DrawCallsList struct {
	// Indices of draw calls to render, in sorted order after SortDrawCalls.
	Indices []int32
	// PreBatchedDrawCalls indexes into the BatchedDrawCalls registry.
	PreBatchedDrawCalls []int32
	// Batches partition Indices after sorting.
	Batches []DrawBatch
	// CanUseInstancing is true when the batches are worth rendering through
	// the hardware instancing path.
	CanUseInstancing bool
}

// Clear empties the list, retaining capacity for the next frame.
func (l *DrawCallsList) Clear() {
	l.Indices = l.Indices[:0]
	l.PreBatchedDrawCalls = l.PreBatchedDrawCalls[:0]
	l.Batches = nil
	l.CanUseInstancing = false
}

// IsEmpty reports whether the pass has nothing to draw.
func (l *DrawCallsList) IsEmpty() bool {
	return len(l.Indices) == 0 && len(l.PreBatchedDrawCalls) == 0
}
