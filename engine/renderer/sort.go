package renderer

import (
	"sort"

	"github.com/spaghettifunk/lumina/engine/math"
	"github.com/spaghettifunk/lumina/engine/renderer/metadata"
)

// drawCallKey is the transient per-call sorting record, arena-allocated each
// sort.
type drawCallKey struct {
	sortKey  uint64
	batchKey uint32
	index    int32
}

// Batch key bit budget: shader pipeline is the strongest boundary, then the
// material instance, then the geometry. The exact packing is an internal
// optimization detail; only the relative ordering it produces is contractual.
const (
	batchKeyShaderShift   = 20
	batchKeyMaterialShift = 10
	batchKeyShaderMask    = 0xFFF
	batchKeyMaterialMask  = 0x3FF
	batchKeyGeometryMask  = 0x3FF
)

// batchKeyFor derives the instancing identity of a draw call. Calls with
// equal keys are candidates for merging into one instanced batch.
func batchKeyFor(drawCall *metadata.DrawCall) uint32 {
	var shaderID, materialID, geometryID uint32
	if drawCall.Material != nil {
		shaderID = drawCall.Material.ShaderID
		materialID = drawCall.Material.ID
	}
	if drawCall.Geometry != nil {
		geometryID = drawCall.Geometry.ID
	}
	return (shaderID&batchKeyShaderMask)<<batchKeyShaderShift |
		(materialID&batchKeyMaterialMask)<<batchKeyMaterialShift |
		(geometryID & batchKeyGeometryMask)
}

// canBatchSurface is the surface draw call batching predicate: identical
// geometry and material instance, a material that supports instancing, and
// the same winding (mirrored transforms flip the world determinant sign).
// Materials never merge across instances, even when they share a shader:
// per-instance parameter blocks are not part of the instance data layout.
func canBatchSurface(a, b *metadata.DrawCall) bool {
	return a.Geometry != nil && a.Geometry == b.Geometry &&
		a.Material != nil && a.Material == b.Material &&
		a.Material.SupportsInstancing &&
		a.WorldDeterminantSign == b.WorldDeterminantSign &&
		a.LightmapUVsArea == b.LightmapUVsArea
}

// SortDrawCallsList sorts the collected draw calls of the given list type.
// reverseDistance flips the distance contribution, producing back-to-front
// order for transparency.
func (rl *RenderList) SortDrawCallsList(renderContext *RenderContext, reverseDistance bool, listType metadata.DrawCallsListType) {
	rl.SortDrawCalls(renderContext, reverseDistance, &rl.DrawCallsLists[listType])
}

// SortDrawCalls orders the list's index array by a composite sort key and
// coalesces adjacent compatible calls into instancing batches.
//
// Key layout: opaque passes sort by batch key first (pipeline, then material,
// then geometry — maximizing adjacent batch compatibility) with
// distance-to-camera as the tie-break, yielding rough front-to-back order
// inside a pipeline. With reverseDistance the flipped distance becomes the
// primary field, yielding strict back-to-front order for blending
// correctness. The trailing draw index makes the order total, so repeated
// sorts are idempotent.
func (rl *RenderList) SortDrawCalls(renderContext *RenderContext, reverseDistance bool, list *metadata.DrawCallsList) {
	n := len(list.Indices)
	if n == 0 {
		list.Batches = nil
		list.CanUseInstancing = false
		return
	}

	keys := rl.keyArena.Alloc(n)
	for i, index := range list.Indices {
		drawCall := &rl.DrawCalls[index]
		batchKey := batchKeyFor(drawCall)
		distanceBits := math.SortableFloatBits(drawCall.Distance)
		var sortKey uint64
		if reverseDistance {
			sortKey = uint64(^distanceBits)<<32 | uint64(batchKey)
		} else {
			sortKey = uint64(batchKey)<<32 | uint64(distanceBits)
		}
		keys[i] = drawCallKey{sortKey: sortKey, batchKey: batchKey, index: index}
	}

	sort.Slice(keys, func(i, j int) bool {
		if keys[i].sortKey != keys[j].sortKey {
			return keys[i].sortKey < keys[j].sortKey
		}
		return keys[i].index < keys[j].index
	})

	for i := range keys {
		list.Indices[i] = keys[i].index
	}

	// First scan counts the batches so the arena allocation is exact.
	batchCount := 1
	for i := 1; i < n; i++ {
		if !rl.sameBatch(&keys[i-1], &keys[i]) {
			batchCount++
		}
	}

	batches := rl.batchArena.Alloc(batchCount)
	batch := 0
	start := 0
	for i := 1; i <= n; i++ {
		if i == n || !rl.sameBatch(&keys[i-1], &keys[i]) {
			batches[batch] = metadata.DrawBatch{
				SortKey:       keys[start].sortKey,
				StartIndex:    int32(start),
				BatchSize:     int32(i - start),
				InstanceCount: int32(i - start),
			}
			batch++
			start = i
		}
	}
	list.Batches = batches

	// The instancing path only pays off when at least one merge happened;
	// otherwise the executor takes the cheaper direct-draw path and skips
	// the instance buffer upload entirely.
	list.CanUseInstancing = renderContext.Device.Caps().HardwareInstancing && batchCount < n
}

func (rl *RenderList) sameBatch(a, b *drawCallKey) bool {
	if a.batchKey != b.batchKey {
		return false
	}
	return canBatchSurface(&rl.DrawCalls[a.index], &rl.DrawCalls[b.index])
}
