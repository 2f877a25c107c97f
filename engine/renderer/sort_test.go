package renderer

import (
	"testing"

	"github.com/spaghettifunk/lumina/engine/renderer/metadata"
)

func TestSortDrawCallsMergesIdenticalSurfaces(t *testing.T) {
	f := newTestFrame(t)
	geometry := testGeometry(1, 36)
	material := testMaterial(1, 1, true)

	for i := 0; i < 3; i++ {
		f.list.AddDrawCall(metadata.DrawPassGBuffer, metadata.StaticFlagsNone,
			testDrawCall(geometry, material, float32(10+i)), true)
	}

	f.list.SortDrawCallsList(&f.rc, false, metadata.DrawCallsListGBuffer)
	list := &f.list.DrawCallsLists[metadata.DrawCallsListGBuffer]

	if len(list.Batches) != 1 {
		t.Fatalf("batches = %d, want 1", len(list.Batches))
	}
	batch := list.Batches[0]
	if batch.BatchSize != 3 || batch.InstanceCount != 3 {
		t.Errorf("batch = %+v, want size 3 instances 3", batch)
	}
	if !list.CanUseInstancing {
		t.Error("CanUseInstancing = false, want true after a merge")
	}
}

func TestSortDrawCallsSplitsOnMaterialInstance(t *testing.T) {
	f := newTestFrame(t)
	geometry := testGeometry(1, 36)
	// Same shader, different material instances: per-instance parameter
	// blocks keep these apart.
	materialA := testMaterial(1, 1, true)
	materialB := testMaterial(2, 1, true)

	f.list.AddDrawCall(metadata.DrawPassGBuffer, metadata.StaticFlagsNone, testDrawCall(geometry, materialA, 10), true)
	f.list.AddDrawCall(metadata.DrawPassGBuffer, metadata.StaticFlagsNone, testDrawCall(geometry, materialB, 10), true)
	f.list.AddDrawCall(metadata.DrawPassGBuffer, metadata.StaticFlagsNone, testDrawCall(geometry, materialA, 11), true)

	f.list.SortDrawCallsList(&f.rc, false, metadata.DrawCallsListGBuffer)
	list := &f.list.DrawCallsLists[metadata.DrawCallsListGBuffer]

	if len(list.Batches) != 2 {
		t.Fatalf("batches = %d, want 2", len(list.Batches))
	}
	// Both A-calls must be adjacent and merged despite the B-call arriving
	// between them.
	sizes := []int32{list.Batches[0].BatchSize, list.Batches[1].BatchSize}
	if !(sizes[0] == 2 && sizes[1] == 1 || sizes[0] == 1 && sizes[1] == 2) {
		t.Errorf("batch sizes = %v, want one batch of 2 and one of 1", sizes)
	}
}

func TestSortDrawCallsNeverMergesWithoutInstancingSupport(t *testing.T) {
	f := newTestFrame(t)
	geometry := testGeometry(1, 36)
	material := testMaterial(1, 1, false)

	for i := 0; i < 3; i++ {
		f.list.AddDrawCall(metadata.DrawPassGBuffer, metadata.StaticFlagsNone,
			testDrawCall(geometry, material, float32(10+i)), true)
	}

	f.list.SortDrawCallsList(&f.rc, false, metadata.DrawCallsListGBuffer)
	list := &f.list.DrawCallsLists[metadata.DrawCallsListGBuffer]

	if len(list.Batches) != 3 {
		t.Fatalf("batches = %d, want 3", len(list.Batches))
	}
	if list.CanUseInstancing {
		t.Error("CanUseInstancing = true without any merge")
	}
}

func TestSortDrawCallsSplitsOnMirroredTransforms(t *testing.T) {
	f := newTestFrame(t)
	geometry := testGeometry(1, 36)
	material := testMaterial(1, 1, true)

	mirrored := testDrawCall(geometry, material, 10)
	mirrored.WorldDeterminantSign = -1.0

	f.list.AddDrawCall(metadata.DrawPassGBuffer, metadata.StaticFlagsNone, testDrawCall(geometry, material, 10), true)
	f.list.AddDrawCall(metadata.DrawPassGBuffer, metadata.StaticFlagsNone, mirrored, true)

	f.list.SortDrawCallsList(&f.rc, false, metadata.DrawCallsListGBuffer)
	list := &f.list.DrawCallsLists[metadata.DrawCallsListGBuffer]

	if len(list.Batches) != 2 {
		t.Fatalf("batches = %d, want 2 (mirrored call must not merge)", len(list.Batches))
	}
}

func TestSortDrawCallsFrontToBackWithinBatchKey(t *testing.T) {
	f := newTestFrame(t)
	geometry := testGeometry(1, 36)
	material := testMaterial(1, 1, false)

	distances := []float32{30, 10, 20}
	for _, d := range distances {
		f.list.AddDrawCall(metadata.DrawPassDepth, metadata.StaticFlagsNone,
			testDrawCall(geometry, material, d), true)
	}

	f.list.SortDrawCallsList(&f.rc, false, metadata.DrawCallsListDepth)
	list := &f.list.DrawCallsLists[metadata.DrawCallsListDepth]

	var got []float32
	for _, index := range list.Indices {
		got = append(got, f.list.DrawCalls[index].Distance)
	}
	want := []float32{10, 20, 30}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("front-to-back order = %v, want %v", got, want)
		}
	}
}

func TestSortDrawCallsReverseDistanceIsBackToFront(t *testing.T) {
	f := newTestFrame(t)
	geometry := testGeometry(1, 36)
	// Different materials so the batch key cannot dominate distance.
	materials := []*metadata.Material{
		testMaterial(1, 1, true),
		testMaterial(2, 2, true),
		testMaterial(3, 3, true),
	}

	distances := []float32{10, 30, 20}
	for i, d := range distances {
		f.list.AddDrawCall(metadata.DrawPassForward, metadata.StaticFlagsNone,
			testDrawCall(geometry, materials[i], d), true)
	}

	f.list.SortDrawCallsList(&f.rc, true, metadata.DrawCallsListForward)
	list := &f.list.DrawCallsLists[metadata.DrawCallsListForward]

	var got []float32
	for _, index := range list.Indices {
		got = append(got, f.list.DrawCalls[index].Distance)
	}
	want := []float32{30, 20, 10}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("back-to-front order = %v, want %v", got, want)
		}
	}
}

func TestSortDrawCallsIsIdempotent(t *testing.T) {
	f := newTestFrame(t)
	geometry := testGeometry(1, 36)
	material := testMaterial(1, 1, true)

	// Identical calls at the same distance tie on every key field; the draw
	// index tie-break keeps repeated sorts stable.
	for i := 0; i < 4; i++ {
		f.list.AddDrawCall(metadata.DrawPassGBuffer, metadata.StaticFlagsNone,
			testDrawCall(geometry, material, 10), true)
	}

	f.list.SortDrawCallsList(&f.rc, false, metadata.DrawCallsListGBuffer)
	list := &f.list.DrawCallsLists[metadata.DrawCallsListGBuffer]
	first := append([]int32(nil), list.Indices...)

	f.list.SortDrawCallsList(&f.rc, false, metadata.DrawCallsListGBuffer)
	for i := range first {
		if list.Indices[i] != first[i] {
			t.Fatalf("second sort reordered indices: %v then %v", first, list.Indices)
		}
	}
}

func TestSortDrawCallsWithoutHardwareInstancing(t *testing.T) {
	f := newTestFrame(t)
	f.device.SetHardwareInstancing(false)
	geometry := testGeometry(1, 36)
	material := testMaterial(1, 1, true)

	for i := 0; i < 3; i++ {
		f.list.AddDrawCall(metadata.DrawPassGBuffer, metadata.StaticFlagsNone,
			testDrawCall(geometry, material, 10), true)
	}

	f.list.SortDrawCallsList(&f.rc, false, metadata.DrawCallsListGBuffer)
	list := &f.list.DrawCallsLists[metadata.DrawCallsListGBuffer]

	// The batches still merge; only the execution strategy changes.
	if len(list.Batches) != 1 {
		t.Fatalf("batches = %d, want 1", len(list.Batches))
	}
	if list.CanUseInstancing {
		t.Error("CanUseInstancing = true on a device without hardware instancing")
	}
}

func TestSortDrawCallsEmptyList(t *testing.T) {
	f := newTestFrame(t)
	f.list.SortDrawCallsList(&f.rc, false, metadata.DrawCallsListGBuffer)
	list := &f.list.DrawCallsLists[metadata.DrawCallsListGBuffer]
	if list.Batches != nil || list.CanUseInstancing {
		t.Errorf("empty sort produced batches %v instancing %v", list.Batches, list.CanUseInstancing)
	}
}

func TestSortDrawCallsBatchesPartitionIndices(t *testing.T) {
	f := newTestFrame(t)
	geometry := testGeometry(1, 36)
	instancedA := testMaterial(1, 1, true)
	instancedB := testMaterial(2, 1, true)
	plain := testMaterial(3, 2, false)

	// A mixed population: three mergeable A-calls, one mirrored A-call that
	// shares their batch key but not their winding, two B-calls and three
	// non-instanceable calls, interleaved on insert.
	for i := 0; i < 3; i++ {
		f.list.AddDrawCall(metadata.DrawPassGBuffer, metadata.StaticFlagsNone,
			testDrawCall(geometry, instancedA, float32(10+i)), true)
		f.list.AddDrawCall(metadata.DrawPassGBuffer, metadata.StaticFlagsNone,
			testDrawCall(geometry, plain, float32(10+i)), true)
	}
	mirrored := testDrawCall(geometry, instancedA, 20)
	mirrored.WorldDeterminantSign = -1
	f.list.AddDrawCall(metadata.DrawPassGBuffer, metadata.StaticFlagsNone, mirrored, true)
	f.list.AddDrawCall(metadata.DrawPassGBuffer, metadata.StaticFlagsNone, testDrawCall(geometry, instancedB, 10), true)
	f.list.AddDrawCall(metadata.DrawPassGBuffer, metadata.StaticFlagsNone, testDrawCall(geometry, instancedB, 11), true)

	f.list.SortDrawCallsList(&f.rc, false, metadata.DrawCallsListGBuffer)
	list := &f.list.DrawCallsLists[metadata.DrawCallsListGBuffer]

	// The batches partition the sorted index array: contiguous spans, no
	// overlap, no gap, covering every index exactly once.
	var covered int32
	for i, batch := range list.Batches {
		if batch.StartIndex != covered {
			t.Fatalf("batch %d starts at %d, want %d", i, batch.StartIndex, covered)
		}
		if batch.BatchSize <= 0 {
			t.Fatalf("batch %d has size %d", i, batch.BatchSize)
		}
		covered += batch.BatchSize
	}
	if covered != int32(len(list.Indices)) {
		t.Fatalf("batches cover %d indices, want %d", covered, len(list.Indices))
	}

	// Every call inside a batch shares material, instancing support and
	// winding with its neighbors.
	for i, batch := range list.Batches {
		first := &f.list.DrawCalls[list.Indices[batch.StartIndex]]
		for j := batch.StartIndex + 1; j < batch.StartIndex+batch.BatchSize; j++ {
			call := &f.list.DrawCalls[list.Indices[j]]
			if call.Material != first.Material ||
				call.WorldDeterminantSign != first.WorldDeterminantSign {
				t.Fatalf("batch %d mixes incompatible calls", i)
			}
		}
	}

	// Merged A-run, the mirrored A singleton, the B-pair and three plain
	// singletons.
	if len(list.Batches) != 6 {
		t.Errorf("batches = %d, want 6", len(list.Batches))
	}
}
