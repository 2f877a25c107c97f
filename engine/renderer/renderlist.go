package renderer

import (
	"sync"

	"github.com/spaghettifunk/lumina/engine/containers"
	"github.com/spaghettifunk/lumina/engine/core"
	"github.com/spaghettifunk/lumina/engine/gpu"
	"github.com/spaghettifunk/lumina/engine/math"
	"github.com/spaghettifunk/lumina/engine/renderer/metadata"
)

// SkyRenderer draws the sky/skybox proxy registered for the frame.
type SkyRenderer interface {
	DrawSky(context gpu.Context, renderContext *RenderContext, output gpu.Texture)
}

// AtmosphericFogRenderer draws the atmospheric fog proxy for the frame.
type AtmosphericFogRenderer interface {
	DrawFog(context gpu.Context, renderContext *RenderContext, output gpu.Texture)
}

// FogRenderer draws the (volumetric) fog proxy for the frame.
type FogRenderer interface {
	DrawFog(context gpu.Context, renderContext *RenderContext, output gpu.Texture)
}

// RenderList is the frame cache for draw call collecting, sorting and
// executing. Lists are pooled and reused across frames: leased at frame
// start via GetFromPool, cleared and returned at frame end.
//
// A RenderList is not safe for concurrent mutation. Scene walks feeding the
// same list from multiple goroutines must serialize their AddDrawCall calls
// externally; the registry and per-pass index arrays are plain growable
// slices without internal locking.
type RenderList struct {
	// DrawCalls is the flat registry of all draw calls for the frame.
	DrawCalls []metadata.DrawCall
	// BatchedDrawCalls holds externally pre-instanced draw calls.
	BatchedDrawCalls []metadata.BatchedDrawCall
	// DrawCallsLists are the per-pass selections into the registry.
	DrawCallsLists [metadata.DrawCallsListMax]metadata.DrawCallsList

	// Light pass inputs.
	DirectionalLights []metadata.RendererDirectionalLightData
	PointLights       []metadata.RendererPointLightData
	SpotLights        []metadata.RendererSpotLightData
	SkyLights         []metadata.RendererSkyLightData

	// EnvironmentProbes feed the reflections pass.
	EnvironmentProbes []metadata.EnvironmentProbeData
	// Decals registered for the rendering.
	Decals []metadata.DecalData

	// One sky/fog proxy per frame.
	Sky            SkyRenderer
	AtmosphericFog AtmosphericFogRenderer
	Fog            FogRenderer

	// PostFx are the custom effects registered for this frame; cleared on
	// return to the pool.
	PostFx []PostFxEffect

	// Settings is the blended post-process configuration.
	Settings metadata.PostProcessSettings
	// Blendable are the postfx volumes collected during the draw call
	// gather, consumed by BlendSettings.
	Blendable []metadata.BlendableSettings

	// Camera frustum corners in world and view space.
	FrustumCornersWs [8]math.Vec3
	FrustumCornersVs [8]math.Vec3

	// Stats counts submissions for the frame metrics.
	Stats core.RenderStats

	viewPosition math.Vec3

	// Frame-transient allocations: sort keys, batches and staged instance
	// bytes come from arenas that reset on ReturnToPool, keeping the
	// steady-state frame free of heap traffic.
	keyArena   containers.Arena[drawCallKey]
	batchArena containers.Arena[metadata.DrawBatch]

	instanceBuffer *gpu.DynamicVertexBuffer
	instanceBytes  []byte
}

const renderListPoolCapacity = 8

var renderListPoolOnce sync.Once
var renderListPool struct {
	mu   sync.Mutex
	free *containers.RingQueue[*RenderList]
}

func poolInit() {
	renderListPool.free = containers.NewRingQueue[*RenderList](renderListPoolCapacity)
}

// GetFromPool allocates a new render list or reuses an already allocated
// one. At most one lease per render task per frame.
func GetFromPool() *RenderList {
	renderListPoolOnce.Do(poolInit)
	renderListPool.mu.Lock()
	defer renderListPool.mu.Unlock()
	if list, err := renderListPool.free.Dequeue(); err == nil {
		return list
	}
	return &RenderList{}
}

// ReturnToPool clears the list and frees it back to the pool. The list must
// not be used afterwards.
func ReturnToPool(list *RenderList) {
	if list == nil {
		return
	}
	list.Clear()
	renderListPoolOnce.Do(poolInit)
	renderListPool.mu.Lock()
	defer renderListPool.mu.Unlock()
	if err := renderListPool.free.Enqueue(list); err != nil {
		// Pool full; drop the list for the GC.
		core.LogDebug("render list pool full, releasing list")
	}
}

// Init binds the list to the frame's view before draw call collection.
func (rl *RenderList) Init(renderContext *RenderContext) {
	rl.viewPosition = renderContext.View.WorldPosition()
	rl.Settings = defaultPostProcessSettings()
}

func defaultPostProcessSettings() metadata.PostProcessSettings {
	return metadata.PostProcessSettings{
		AntiAliasing: metadata.AntiAliasingSettings{Mode: metadata.AntialiasingModeTAA},
		MotionBlur:   metadata.MotionBlurSettings{Enabled: true, Scale: 1.0},
		EyeAdaptation: metadata.EyeAdaptationSettings{
			Enabled:      true,
			SpeedUp:      3.0,
			SpeedDown:    1.0,
			MinLuminance: 0.03,
			MaxLuminance: 8.0,
		},
		Bloom: metadata.BloomSettings{Enabled: true, Intensity: 1.0, Threshold: 3.0},
	}
}

// Clear empties all cached frame data, retaining capacity for reuse.
// Every returned list must pass through here before its next lease.
func (rl *RenderList) Clear() {
	rl.DrawCalls = rl.DrawCalls[:0]
	rl.BatchedDrawCalls = rl.BatchedDrawCalls[:0]
	for i := range rl.DrawCallsLists {
		rl.DrawCallsLists[i].Clear()
	}
	rl.DirectionalLights = rl.DirectionalLights[:0]
	rl.PointLights = rl.PointLights[:0]
	rl.SpotLights = rl.SpotLights[:0]
	rl.SkyLights = rl.SkyLights[:0]
	rl.EnvironmentProbes = rl.EnvironmentProbes[:0]
	rl.Decals = rl.Decals[:0]
	rl.Sky = nil
	rl.AtmosphericFog = nil
	rl.Fog = nil
	rl.PostFx = rl.PostFx[:0]
	rl.Settings = metadata.PostProcessSettings{}
	rl.Blendable = rl.Blendable[:0]
	rl.Stats.Reset()
	rl.viewPosition = math.Vec3{}
	rl.keyArena.Reset()
	rl.batchArena.Reset()
	rl.instanceBytes = rl.instanceBytes[:0]
	if rl.instanceBuffer != nil {
		rl.instanceBuffer.Clear()
	}
}

// AddDrawCall appends the draw call to the frame registry and routes its
// index into every pass list whose bit is set in drawModes. The GBuffer bit
// routes into the no-decals variant when the mesh does not receive decals.
// This is a pure insert: visibility culling is the caller's responsibility.
func (rl *RenderList) AddDrawCall(drawModes metadata.DrawPass, staticFlags metadata.StaticFlags, drawCall metadata.DrawCall, receivesDecals bool) {
	// Fully static objects produce no motion vectors.
	if staticFlags&metadata.StaticFlagsTransform != 0 {
		drawModes &^= metadata.DrawPassMotionVectors
	}
	if drawModes == metadata.DrawPassNone {
		return
	}

	drawCall.Distance = rl.viewPosition.Distance(drawCall.ObjectPosition)

	index := int32(len(rl.DrawCalls))
	rl.DrawCalls = append(rl.DrawCalls, drawCall)

	if drawModes&metadata.DrawPassDepth != 0 {
		list := &rl.DrawCallsLists[metadata.DrawCallsListDepth]
		list.Indices = append(list.Indices, index)
	}
	if drawModes&metadata.DrawPassGBuffer != 0 {
		// Decal receivers and non-receivers go to disjoint lists; the
		// GBuffer pass draws receivers before decals and the rest after.
		if receivesDecals {
			list := &rl.DrawCallsLists[metadata.DrawCallsListGBuffer]
			list.Indices = append(list.Indices, index)
		} else {
			noDecals := &rl.DrawCallsLists[metadata.DrawCallsListGBufferNoDecals]
			noDecals.Indices = append(noDecals.Indices, index)
		}
	}
	if drawModes&metadata.DrawPassForward != 0 {
		list := &rl.DrawCallsLists[metadata.DrawCallsListForward]
		list.Indices = append(list.Indices, index)
	}
	if drawModes&metadata.DrawPassDistortion != 0 {
		list := &rl.DrawCallsLists[metadata.DrawCallsListDistortion]
		list.Indices = append(list.Indices, index)
	}
	if drawModes&metadata.DrawPassMotionVectors != 0 {
		list := &rl.DrawCallsLists[metadata.DrawCallsListMotionVectors]
		list.Indices = append(list.Indices, index)
	}
}

// AddBatchedDrawCall registers an externally pre-instanced draw call (e.g. a
// particle emitter) for the given passes. It bypasses per-frame batching and
// executes as its own pre-formed batch.
func (rl *RenderList) AddBatchedDrawCall(drawModes metadata.DrawPass, batched metadata.BatchedDrawCall) {
	if drawModes == metadata.DrawPassNone || len(batched.Instances) == 0 {
		return
	}
	batched.DrawCall.Distance = rl.viewPosition.Distance(batched.DrawCall.ObjectPosition)

	index := int32(len(rl.BatchedDrawCalls))
	rl.BatchedDrawCalls = append(rl.BatchedDrawCalls, batched)

	for listType := metadata.DrawCallsListType(0); listType < metadata.DrawCallsListMax; listType++ {
		if drawModes&passBitForList(listType) != 0 && listType != metadata.DrawCallsListGBufferNoDecals {
			list := &rl.DrawCallsLists[listType]
			list.PreBatchedDrawCalls = append(list.PreBatchedDrawCalls, index)
		}
	}
}

func passBitForList(listType metadata.DrawCallsListType) metadata.DrawPass {
	switch listType {
	case metadata.DrawCallsListDepth:
		return metadata.DrawPassDepth
	case metadata.DrawCallsListGBuffer, metadata.DrawCallsListGBufferNoDecals:
		return metadata.DrawPassGBuffer
	case metadata.DrawCallsListForward:
		return metadata.DrawPassForward
	case metadata.DrawCallsListDistortion:
		return metadata.DrawPassDistortion
	case metadata.DrawCallsListMotionVectors:
		return metadata.DrawPassMotionVectors
	}
	return metadata.DrawPassNone
}

// Light/probe/decal registration used by the scene collect callback.

func (rl *RenderList) AddDirectionalLight(light metadata.RendererDirectionalLightData) {
	rl.DirectionalLights = append(rl.DirectionalLights, light)
}

func (rl *RenderList) AddPointLight(light metadata.RendererPointLightData) {
	rl.PointLights = append(rl.PointLights, light)
}

func (rl *RenderList) AddSpotLight(light metadata.RendererSpotLightData) {
	rl.SpotLights = append(rl.SpotLights, light)
}

func (rl *RenderList) AddSkyLight(light metadata.RendererSkyLightData) {
	rl.SkyLights = append(rl.SkyLights, light)
}

func (rl *RenderList) AddEnvironmentProbe(probe metadata.EnvironmentProbeData) {
	rl.EnvironmentProbes = append(rl.EnvironmentProbes, probe)
}

func (rl *RenderList) AddDecal(decal metadata.DecalData) {
	rl.Decals = append(rl.Decals, decal)
}

// AddSettingsBlend queues a postfx volume for the pre-frame settings blend.
func (rl *RenderList) AddSettingsBlend(provider metadata.PostFxSettingsProvider, weight float32, priority int32, volumeSizeSqr float32) {
	rl.Blendable = append(rl.Blendable, metadata.BlendableSettings{
		Provider:      provider,
		Weight:        weight,
		Priority:      priority,
		VolumeSizeSqr: volumeSizeSqr,
	})
}

// BlendSettings merges the queued blendables into the final frame settings.
// Providers apply in priority order so inner, higher-priority volumes win.
func (rl *RenderList) BlendSettings() {
	metadata.SortBlendableSettings(rl.Blendable)
	for i := range rl.Blendable {
		b := &rl.Blendable[i]
		weight := math.Clamp(b.Weight, 0.0, 1.0)
		if weight <= 0 || b.Provider == nil {
			continue
		}
		b.Provider.Blend(&rl.Settings, weight)
	}
}
