package renderer

import (
	"testing"

	"github.com/spaghettifunk/lumina/engine/gpu"
	"github.com/spaghettifunk/lumina/engine/renderer/metadata"
)

type fakePostFx struct {
	location metadata.PostFxLocation
	ready    bool
	renders  int
	lastIn   gpu.Texture
	lastOut  gpu.Texture
}

func (fx *fakePostFx) Location() metadata.PostFxLocation { return fx.location }
func (fx *fakePostFx) IsReady() bool                     { return fx.ready }
func (fx *fakePostFx) Render(context gpu.Context, renderContext *RenderContext, input, output gpu.Texture) {
	fx.renders++
	fx.lastIn, fx.lastOut = input, output
}

func TestRunCustomPostFxPassPingPongs(t *testing.T) {
	f := newTestFrame(t)
	a := f.task.Buffers.RT1FloatRGB
	b := f.task.Buffers.RT2FloatRGB

	fx1 := &fakePostFx{location: metadata.PostFxLocationDefault, ready: true}
	fx2 := &fakePostFx{location: metadata.PostFxLocationDefault, ready: true}
	f.task.AddCustomPostFx(fx1)
	f.list.PostFx = append(f.list.PostFx, fx2)

	input, output := a, b
	RunCustomPostFxPass(&f.rc, metadata.PostFxLocationDefault, &input, &output)

	if fx1.renders != 1 || fx2.renders != 1 {
		t.Fatalf("renders = (%d, %d), want (1, 1)", fx1.renders, fx2.renders)
	}
	// First effect reads a and writes b, the second reads b and writes a.
	if fx1.lastIn != a || fx1.lastOut != b {
		t.Error("first effect got the wrong ping-pong pair")
	}
	if fx2.lastIn != b || fx2.lastOut != a {
		t.Error("second effect got the wrong ping-pong pair")
	}
	// Two swaps: the pointers end up back where they started.
	if input != a || output != b {
		t.Error("pointer pair not swapped an even number of times")
	}
}

func TestRunCustomPostFxPassFiltersLocationAndReadiness(t *testing.T) {
	f := newTestFrame(t)

	wrongLocation := &fakePostFx{location: metadata.PostFxLocationBeforeForwardPass, ready: true}
	notReady := &fakePostFx{location: metadata.PostFxLocationDefault, ready: false}
	f.task.AddCustomPostFx(wrongLocation)
	f.task.AddCustomPostFx(notReady)

	input, output := f.task.Buffers.RT1FloatRGB, f.task.Buffers.RT2FloatRGB
	RunCustomPostFxPass(&f.rc, metadata.PostFxLocationDefault, &input, &output)

	if wrongLocation.renders != 0 || notReady.renders != 0 {
		t.Errorf("filtered effects ran: wrong location %d, not ready %d",
			wrongLocation.renders, notReady.renders)
	}
}

func TestRunCustomPostFxPassRespectsViewFlag(t *testing.T) {
	f := newTestFrame(t)
	f.task.View.Flags &^= metadata.ViewFlagCustomPostProcess

	fx := &fakePostFx{location: metadata.PostFxLocationDefault, ready: true}
	f.task.AddCustomPostFx(fx)

	input, output := f.task.Buffers.RT1FloatRGB, f.task.Buffers.RT2FloatRGB
	RunCustomPostFxPass(&f.rc, metadata.PostFxLocationDefault, &input, &output)

	if fx.renders != 0 {
		t.Errorf("renders = %d, want 0 with custom post-process disabled", fx.renders)
	}
}

func TestRunMaterialPostFxPass(t *testing.T) {
	f := newTestFrame(t)
	f.list.Settings.PostFxMaterials = []metadata.PostFxMaterial{
		{Material: testMaterial(5, 9, false), Location: metadata.MaterialPostFxLocationAfterPostProcessingPass},
		{Material: &metadata.Material{ID: 6, Ready: false}, Location: metadata.MaterialPostFxLocationAfterPostProcessingPass},
		{Material: testMaterial(7, 9, false), Location: metadata.MaterialPostFxLocationBeforeForwardPass},
	}

	input, output := f.task.Buffers.RT1FloatRGB, f.task.Buffers.RT2FloatRGB
	f.context.ResetRecording()
	RunMaterialPostFxPass(&f.rc, metadata.MaterialPostFxLocationAfterPostProcessingPass, &input, &output)

	// Only the first material matches the location and is ready.
	if got := f.context.CountKind(gpu.SubmissionFullscreenTriangle); got != 1 {
		t.Errorf("fullscreen draws = %d, want 1", got)
	}
	if input != f.task.Buffers.RT2FloatRGB {
		t.Error("single material pass must leave the result in the swapped target")
	}
}

func TestHasAnyMaterialPostFx(t *testing.T) {
	f := newTestFrame(t)
	if HasAnyMaterialPostFx(&f.rc, metadata.MaterialPostFxLocationBeforeForwardPass) {
		t.Error("no materials registered, want false")
	}
	f.list.Settings.PostFxMaterials = []metadata.PostFxMaterial{
		{Material: testMaterial(5, 9, false), Location: metadata.MaterialPostFxLocationBeforeForwardPass},
	}
	if !HasAnyMaterialPostFx(&f.rc, metadata.MaterialPostFxLocationBeforeForwardPass) {
		t.Error("ready material registered, want true")
	}
}

func TestRunCustomUpscalePassUsesFirstReadyEffect(t *testing.T) {
	f := newTestFrame(t)

	first := &fakePostFx{location: metadata.PostFxLocationCustomUpscale, ready: true}
	second := &fakePostFx{location: metadata.PostFxLocationCustomUpscale, ready: true}
	f.task.AddCustomPostFx(first)
	f.task.AddCustomPostFx(second)

	if !RunCustomUpscalePass(&f.rc, f.task.Buffers.RT1FloatRGB, f.task.Output) {
		t.Fatal("upscale pass returned false with a ready effect")
	}
	if first.renders != 1 || second.renders != 0 {
		t.Errorf("renders = (%d, %d), want only the first effect", first.renders, second.renders)
	}

	// Without any effect the caller falls back to the built-in upscaler.
	f.task.CustomPostFx = nil
	if RunCustomUpscalePass(&f.rc, f.task.Buffers.RT1FloatRGB, f.task.Output) {
		t.Error("upscale pass returned true without effects")
	}
}

func TestRunPostFxPassSingleEffectDrawsDirect(t *testing.T) {
	f := newTestFrame(t)
	fx := &fakePostFx{location: metadata.PostFxLocationAfterAntiAliasingPass, ready: true}
	f.task.AddCustomPostFx(fx)

	input := f.task.Buffers.RT1FloatRGB
	RunPostFxPass(&f.rc, metadata.PostFxLocationAfterAntiAliasingPass,
		metadata.MaterialPostFxLocationAfterAntiAliasingPass, input, f.task.Output)

	if fx.renders != 1 {
		t.Fatalf("renders = %d, want 1", fx.renders)
	}
	if fx.lastIn != input || fx.lastOut != f.task.Output {
		t.Error("single effect must draw input straight into output")
	}
	// No scratch target for a single stage.
	if out, in := f.rc.Pool.Balance(); out != 0 || in != 0 {
		t.Errorf("pool Balance() = (%d, %d), want no leases", out, in)
	}
}

func TestRunPostFxPassChainsThroughScratch(t *testing.T) {
	f := newTestFrame(t)
	input := f.task.Buffers.RT1FloatRGB
	output := f.task.Output

	fx1 := &fakePostFx{location: metadata.PostFxLocationAfterAntiAliasingPass, ready: true}
	fx2 := &fakePostFx{location: metadata.PostFxLocationAfterAntiAliasingPass, ready: true}
	f.task.AddCustomPostFx(fx1)
	f.task.AddCustomPostFx(fx2)
	f.list.Settings.PostFxMaterials = []metadata.PostFxMaterial{
		{Material: testMaterial(5, 9, false), Location: metadata.MaterialPostFxLocationAfterAntiAliasingPass},
	}

	f.context.ResetRecording()
	RunPostFxPass(&f.rc, metadata.PostFxLocationAfterAntiAliasingPass,
		metadata.MaterialPostFxLocationAfterAntiAliasingPass, input, output)

	// Three stages: custom, custom, material. The odd-length chain starts on
	// the output so the material stage lands back in it via the scratch.
	if fx1.renders != 1 || fx2.renders != 1 {
		t.Fatalf("renders = (%d, %d), want (1, 1)", fx1.renders, fx2.renders)
	}
	if fx1.lastIn != input || fx1.lastOut != output {
		t.Error("first stage must read the input and write the output")
	}
	if fx2.lastIn != output || fx2.lastOut == input || fx2.lastOut == output {
		t.Error("second stage must write the pooled scratch target")
	}
	if got := f.context.CountKind(gpu.SubmissionFullscreenTriangle); got != 1 {
		t.Errorf("material draws = %d, want 1", got)
	}
	if out, in := f.rc.Pool.Balance(); out != in {
		t.Errorf("pool Balance() = (%d, %d), want the scratch released", out, in)
	}
}

func TestRunPostFxPassEvenChainEndsInOutput(t *testing.T) {
	f := newTestFrame(t)
	input := f.task.Buffers.RT1FloatRGB
	output := f.task.Output

	fx1 := &fakePostFx{location: metadata.PostFxLocationAfterAntiAliasingPass, ready: true}
	fx2 := &fakePostFx{location: metadata.PostFxLocationAfterAntiAliasingPass, ready: true}
	f.task.AddCustomPostFx(fx1)
	f.task.AddCustomPostFx(fx2)

	RunPostFxPass(&f.rc, metadata.PostFxLocationAfterAntiAliasingPass,
		metadata.MaterialPostFxLocationAfterAntiAliasingPass, input, output)

	// Two stages start on the scratch so the second one writes the output.
	if fx1.lastOut == input || fx1.lastOut == output {
		t.Error("first stage of an even chain must write the scratch target")
	}
	if fx2.lastIn != fx1.lastOut || fx2.lastOut != output {
		t.Error("last stage must resolve into the output")
	}
	if out, in := f.rc.Pool.Balance(); out != in {
		t.Errorf("pool Balance() = (%d, %d), want the scratch released", out, in)
	}
}

func TestRunPostFxPassWithoutEffectsIsNoop(t *testing.T) {
	f := newTestFrame(t)
	f.context.ResetRecording()

	RunPostFxPass(&f.rc, metadata.PostFxLocationAfterAntiAliasingPass,
		metadata.MaterialPostFxLocationAfterAntiAliasingPass,
		f.task.Buffers.RT1FloatRGB, f.task.Output)

	if len(f.context.Submissions) != 0 || f.context.RenderTargetSets != 0 {
		t.Error("empty stage must leave the context untouched")
	}
	if out, in := f.rc.Pool.Balance(); out != 0 || in != 0 {
		t.Errorf("pool Balance() = (%d, %d), want no leases", out, in)
	}

	// Custom post-processing disabled by flags: registered effects stay idle.
	fx := &fakePostFx{location: metadata.PostFxLocationAfterAntiAliasingPass, ready: true}
	f.task.AddCustomPostFx(fx)
	f.task.View.Flags &^= metadata.ViewFlagCustomPostProcess
	RunPostFxPass(&f.rc, metadata.PostFxLocationAfterAntiAliasingPass,
		metadata.MaterialPostFxLocationAfterAntiAliasingPass,
		f.task.Buffers.RT1FloatRGB, f.task.Output)
	if fx.renders != 0 {
		t.Errorf("renders = %d, want 0 with custom post-process disabled", fx.renders)
	}
}
