package renderer

import (
	"github.com/spaghettifunk/lumina/engine/core"
	"github.com/spaghettifunk/lumina/engine/gpu"
	"github.com/spaghettifunk/lumina/engine/renderer/metadata"
)

// instanceBufferInitialCapacity sizes the first dynamic buffer allocation.
const instanceBufferInitialCapacity = 256 * metadata.InstanceDataSize

// ExecuteDrawCallsList executes the collected draw calls of the list type.
// input is the optional scene color, used by forward/postFx rendering.
func (rl *RenderList) ExecuteDrawCallsList(renderContext *RenderContext, listType metadata.DrawCallsListType, input gpu.Texture) {
	rl.ExecuteDrawCalls(renderContext, &rl.DrawCallsLists[listType], input)
}

// ExecuteDrawCalls iterates the sorted batches and issues draw submissions
// through the GPU context. The executor owns pipeline state exclusively for
// the duration of the call and leaves no guarantee about it afterwards.
//
// Draw calls reaching this stage are expected to have passed the readiness
// gate upstream; a missing shader or geometry here is a logic error and the
// call's contribution is dropped rather than aborting the frame.
func (rl *RenderList) ExecuteDrawCalls(renderContext *RenderContext, list *metadata.DrawCallsList, input gpu.Texture) {
	if list.IsEmpty() {
		return
	}
	context := renderContext.Context
	if input != nil {
		context.BindTexture(0, input)
	}

	useInstancing := list.CanUseInstancing && len(list.Batches) > 0
	if useInstancing {
		rl.executeInstanced(renderContext, list)
	} else {
		rl.executeDirect(renderContext, list)
	}
	rl.executePreBatched(renderContext, list)
}

// executeInstanced writes per-instance payloads for every merged batch into
// the dynamic vertex buffer, uploads once, then draws batch by batch.
func (rl *RenderList) executeInstanced(renderContext *RenderContext, list *metadata.DrawCallsList) {
	context := renderContext.Context

	if rl.instanceBuffer == nil {
		rl.instanceBuffer = gpu.NewDynamicVertexBuffer(renderContext.Device, instanceBufferInitialCapacity, metadata.InstanceDataSize)
	}
	rl.instanceBuffer.Clear()
	rl.instanceBytes = rl.instanceBytes[:0]

	// Stage instance data; batches of one draw directly and consume no
	// instance slots.
	for b := range list.Batches {
		batch := &list.Batches[b]
		if batch.BatchSize <= 1 {
			continue
		}
		for i := batch.StartIndex; i < batch.StartIndex+batch.BatchSize; i++ {
			drawCall := &rl.DrawCalls[list.Indices[i]]
			instance := metadata.NewInstanceData(drawCall)
			rl.instanceBytes = instance.Pack(rl.instanceBytes)
		}
	}
	if len(rl.instanceBytes) > 0 {
		rl.instanceBuffer.Write(rl.instanceBytes)
		if err := rl.instanceBuffer.Flush(context); err != nil {
			// Degrade to direct draws for this pass rather than dropping
			// the frame.
			core.LogError("instance buffer upload failed: %s", err.Error())
			rl.executeDirect(renderContext, list)
			return
		}
	}

	// The instance slots of merged batches follow batch order, so the draw
	// loop recomputes the same cursor the staging loop advanced.
	instanceCursor := uint32(0)
	for b := range list.Batches {
		batch := &list.Batches[b]
		drawCall := &rl.DrawCalls[list.Indices[batch.StartIndex]]
		if !rl.bindDrawCall(context, drawCall) {
			if batch.BatchSize > 1 {
				instanceCursor += uint32(batch.InstanceCount)
			}
			continue
		}
		if batch.BatchSize == 1 {
			context.Draw(drawCall.Geometry.IndexCount)
			rl.Stats.DrawCalls++
		} else {
			context.DrawInstanced(drawCall.Geometry.IndexCount, uint32(batch.InstanceCount), instanceCursor)
			instanceCursor += uint32(batch.InstanceCount)
			rl.Stats.InstancedDraws++
			rl.Stats.Instances += batch.InstanceCount
		}
		rl.Stats.Batches++
	}
}

// executeDirect submits every call separately in sorted order, the cheaper
// path when no batching opportunity exists or instancing is unavailable.
func (rl *RenderList) executeDirect(renderContext *RenderContext, list *metadata.DrawCallsList) {
	context := renderContext.Context
	for _, index := range list.Indices {
		drawCall := &rl.DrawCalls[index]
		if !rl.bindDrawCall(context, drawCall) {
			continue
		}
		context.Draw(drawCall.Geometry.IndexCount)
		rl.Stats.DrawCalls++
	}
}

// executePreBatched submits externally instanced draw calls, each as its own
// pre-formed batch with its producer-supplied instance payloads.
func (rl *RenderList) executePreBatched(renderContext *RenderContext, list *metadata.DrawCallsList) {
	if len(list.PreBatchedDrawCalls) == 0 {
		return
	}
	context := renderContext.Context
	hardwareInstancing := renderContext.Device.Caps().HardwareInstancing

	for _, index := range list.PreBatchedDrawCalls {
		batched := &rl.BatchedDrawCalls[index]
		drawCall := &batched.DrawCall
		if !rl.bindDrawCall(context, drawCall) {
			continue
		}
		if hardwareInstancing {
			if rl.instanceBuffer == nil {
				rl.instanceBuffer = gpu.NewDynamicVertexBuffer(renderContext.Device, instanceBufferInitialCapacity, metadata.InstanceDataSize)
			}
			rl.instanceBuffer.Clear()
			rl.instanceBytes = rl.instanceBytes[:0]
			for i := range batched.Instances {
				rl.instanceBytes = batched.Instances[i].Pack(rl.instanceBytes)
			}
			rl.instanceBuffer.Write(rl.instanceBytes)
			if err := rl.instanceBuffer.Flush(context); err != nil {
				core.LogError("pre-batched instance upload failed: %s", err.Error())
				continue
			}
			context.DrawInstanced(drawCall.Geometry.IndexCount, uint32(len(batched.Instances)), 0)
			rl.Stats.InstancedDraws++
			rl.Stats.Instances += int32(len(batched.Instances))
		} else {
			for range batched.Instances {
				context.Draw(drawCall.Geometry.IndexCount)
				rl.Stats.DrawCalls++
			}
		}
		rl.Stats.Batches++
	}
}

func (rl *RenderList) bindDrawCall(context gpu.Context, drawCall *metadata.DrawCall) bool {
	if drawCall.Geometry == nil || drawCall.Material == nil {
		core.LogWarn("draw call without geometry or material reached execution. Skipping draw")
		return false
	}
	context.BindShader(drawCall.Material.ShaderID)
	context.BindMaterial(drawCall.Material.ID)
	context.BindGeometry(drawCall.Geometry.VertexBuffer, drawCall.Geometry.IndexBuffer)
	return true
}
