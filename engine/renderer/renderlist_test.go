package renderer

import (
	"testing"

	"github.com/spaghettifunk/lumina/engine/math"
	"github.com/spaghettifunk/lumina/engine/renderer/metadata"
)

func listLen(rl *RenderList, listType metadata.DrawCallsListType) int {
	return len(rl.DrawCallsLists[listType].Indices)
}

func TestAddDrawCallRoutesByPassMask(t *testing.T) {
	f := newTestFrame(t)
	geometry := testGeometry(1, 36)
	material := testMaterial(1, 1, true)

	modes := metadata.DrawPassDepth | metadata.DrawPassGBuffer | metadata.DrawPassMotionVectors
	f.list.AddDrawCall(modes, metadata.StaticFlagsNone, testDrawCall(geometry, material, 5), true)

	if got := listLen(f.list, metadata.DrawCallsListDepth); got != 1 {
		t.Errorf("depth list = %d, want 1", got)
	}
	if got := listLen(f.list, metadata.DrawCallsListGBuffer); got != 1 {
		t.Errorf("gbuffer list = %d, want 1", got)
	}
	if got := listLen(f.list, metadata.DrawCallsListMotionVectors); got != 1 {
		t.Errorf("motion vectors list = %d, want 1", got)
	}
	if got := listLen(f.list, metadata.DrawCallsListForward); got != 0 {
		t.Errorf("forward list = %d, want 0", got)
	}
	if len(f.list.DrawCalls) != 1 {
		t.Errorf("registry = %d entries, want 1 (lists share the registry)", len(f.list.DrawCalls))
	}
}

func TestAddDrawCallDecalReceiverListsAreDisjoint(t *testing.T) {
	f := newTestFrame(t)
	geometry := testGeometry(1, 36)
	material := testMaterial(1, 1, true)

	f.list.AddDrawCall(metadata.DrawPassGBuffer, metadata.StaticFlagsNone, testDrawCall(geometry, material, 5), true)
	f.list.AddDrawCall(metadata.DrawPassGBuffer, metadata.StaticFlagsNone, testDrawCall(geometry, material, 6), false)

	if got := listLen(f.list, metadata.DrawCallsListGBuffer); got != 1 {
		t.Errorf("gbuffer list = %d, want 1 (receiver only)", got)
	}
	if got := listLen(f.list, metadata.DrawCallsListGBufferNoDecals); got != 1 {
		t.Errorf("gbuffer no-decals list = %d, want 1 (non-receiver only)", got)
	}
}

func TestAddDrawCallStaticTransformSkipsMotionVectors(t *testing.T) {
	f := newTestFrame(t)
	geometry := testGeometry(1, 36)
	material := testMaterial(1, 1, true)

	f.list.AddDrawCall(metadata.DrawPassGBuffer|metadata.DrawPassMotionVectors,
		metadata.StaticFlagsTransform, testDrawCall(geometry, material, 5), true)

	if got := listLen(f.list, metadata.DrawCallsListMotionVectors); got != 0 {
		t.Errorf("motion vectors list = %d, want 0 for static transform", got)
	}
	if got := listLen(f.list, metadata.DrawCallsListGBuffer); got != 1 {
		t.Errorf("gbuffer list = %d, want 1", got)
	}

	// A motion-vectors-only static object contributes nothing at all.
	f.list.AddDrawCall(metadata.DrawPassMotionVectors, metadata.StaticFlagsTransform,
		testDrawCall(geometry, material, 5), true)
	if len(f.list.DrawCalls) != 1 {
		t.Errorf("registry = %d, want 1 (fully stripped call must not register)", len(f.list.DrawCalls))
	}
}

func TestAddDrawCallComputesDistance(t *testing.T) {
	f := newTestFrame(t)
	f.task.View.Position = math.Vec3{Z: 2}
	f.list.Init(&f.rc)

	geometry := testGeometry(1, 36)
	material := testMaterial(1, 1, true)
	f.list.AddDrawCall(metadata.DrawPassDepth, metadata.StaticFlagsNone, testDrawCall(geometry, material, 10), true)

	got := f.list.DrawCalls[0].Distance
	if got != 8 {
		t.Errorf("Distance = %v, want 8", got)
	}
}

func TestAddBatchedDrawCall(t *testing.T) {
	f := newTestFrame(t)
	geometry := testGeometry(1, 36)
	material := testMaterial(1, 1, true)

	batched := metadata.BatchedDrawCall{
		DrawCall: testDrawCall(geometry, material, 5),
		Instances: []metadata.InstanceData{
			{PerInstanceRandom: 0.1},
			{PerInstanceRandom: 0.2},
		},
	}
	f.list.AddBatchedDrawCall(metadata.DrawPassGBuffer|metadata.DrawPassForward, batched)

	if got := len(f.list.DrawCallsLists[metadata.DrawCallsListGBuffer].PreBatchedDrawCalls); got != 1 {
		t.Errorf("gbuffer pre-batched = %d, want 1", got)
	}
	if got := len(f.list.DrawCallsLists[metadata.DrawCallsListGBufferNoDecals].PreBatchedDrawCalls); got != 0 {
		t.Errorf("no-decals pre-batched = %d, want 0", got)
	}
	if got := len(f.list.DrawCallsLists[metadata.DrawCallsListForward].PreBatchedDrawCalls); got != 1 {
		t.Errorf("forward pre-batched = %d, want 1", got)
	}

	// Empty instance sets are dropped.
	f.list.AddBatchedDrawCall(metadata.DrawPassGBuffer, metadata.BatchedDrawCall{DrawCall: testDrawCall(geometry, material, 5)})
	if len(f.list.BatchedDrawCalls) != 1 {
		t.Errorf("batched registry = %d, want 1", len(f.list.BatchedDrawCalls))
	}
}

func TestRenderListPoolClearsBetweenLeases(t *testing.T) {
	geometry := testGeometry(1, 36)
	material := testMaterial(1, 1, true)

	list := GetFromPool()
	list.AddDrawCall(metadata.DrawPassGBuffer, metadata.StaticFlagsNone, testDrawCall(geometry, material, 5), true)
	list.AddPointLight(metadata.RendererPointLightData{Radius: 5})
	list.Stats.DrawCalls = 7
	ReturnToPool(list)

	reused := GetFromPool()
	defer ReturnToPool(reused)
	if reused != list {
		// Another test may hold pooled lists; reuse is best-effort.
		t.Skip("pool handed out a different list")
	}
	if len(reused.DrawCalls) != 0 || len(reused.PointLights) != 0 {
		t.Error("pooled list was not cleared")
	}
	if reused.Stats.DrawCalls != 0 {
		t.Error("pooled list stats were not reset")
	}
}

type fakeBlendProvider struct {
	order *[]string
	name  string
}

func (p *fakeBlendProvider) Blend(settings *metadata.PostProcessSettings, weight float32) {
	*p.order = append(*p.order, p.name)
	settings.Bloom.Intensity = weight
}

func TestBlendSettingsAppliesInPriorityOrder(t *testing.T) {
	f := newTestFrame(t)
	var order []string

	f.list.AddSettingsBlend(&fakeBlendProvider{order: &order, name: "high"}, 0.5, 10, 1)
	f.list.AddSettingsBlend(&fakeBlendProvider{order: &order, name: "baseline"}, 1.0, -1<<31, 0)
	f.list.AddSettingsBlend(&fakeBlendProvider{order: &order, name: "low"}, 0.25, 0, 1)

	f.list.BlendSettings()

	want := []string{"baseline", "low", "high"}
	if len(order) != len(want) {
		t.Fatalf("blend order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("blend order = %v, want %v", order, want)
		}
	}
	// The last (highest priority) provider wins on the contested field.
	if f.list.Settings.Bloom.Intensity != 0.5 {
		t.Errorf("Bloom.Intensity = %v, want 0.5 from the high-priority provider", f.list.Settings.Bloom.Intensity)
	}
}

func TestBlendSettingsInnerVolumeWinsAtEqualPriority(t *testing.T) {
	f := newTestFrame(t)
	var order []string

	f.list.AddSettingsBlend(&fakeBlendProvider{order: &order, name: "small"}, 1.0, 0, 4)
	f.list.AddSettingsBlend(&fakeBlendProvider{order: &order, name: "large"}, 1.0, 0, 100)

	f.list.BlendSettings()

	// Larger volumes blend first so smaller inner volumes override them.
	if len(order) != 2 || order[0] != "large" || order[1] != "small" {
		t.Errorf("blend order = %v, want [large small]", order)
	}
}

func TestBlendSettingsSkipsZeroWeight(t *testing.T) {
	f := newTestFrame(t)
	var order []string
	f.list.AddSettingsBlend(&fakeBlendProvider{order: &order, name: "muted"}, 0, 0, 1)
	f.list.BlendSettings()
	if len(order) != 0 {
		t.Errorf("zero-weight provider was applied: %v", order)
	}
}
