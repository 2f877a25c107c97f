package metadata

import (
	"github.com/google/uuid"
	"github.com/spaghettifunk/lumina/engine/gpu"
	"github.com/spaghettifunk/lumina/engine/math"
)

// Per-frame flat light/probe/decal records gathered from the scene. They are
// read-only inputs to the lighting, reflection and fog passes.

type ShadowsCastingMode uint8

const (
	ShadowsCastingNone ShadowsCastingMode = iota
	ShadowsCastingStaticOnly
	ShadowsCastingDynamicOnly
	ShadowsCastingAll
)

type RendererDirectionalLightData struct {
	Position  math.Vec3
	Color     math.Vec3
	Direction math.Vec3

	ShadowsStrength     float32
	ShadowsDistance     float32
	ShadowsFadeDistance float32
	CascadeCount        int32
	ShadowsMode         ShadowsCastingMode

	IndirectLightingIntensity     float32
	VolumetricScatteringIntensity float32
	CastVolumetricShadow          bool

	StaticFlags StaticFlags
	ID          uuid.UUID
}

type RendererPointLightData struct {
	Position math.Vec3
	Color    math.Vec3

	Radius          float32
	FallOffExponent float32
	SourceRadius    float32
	SourceLength    float32

	ShadowsStrength float32
	ShadowsDistance float32
	ShadowsMode     ShadowsCastingMode

	IndirectLightingIntensity     float32
	VolumetricScatteringIntensity float32
	CastVolumetricShadow          bool
	UseInverseSquaredFalloff      bool

	StaticFlags StaticFlags
	ID          uuid.UUID
}

type RendererSpotLightData struct {
	Position  math.Vec3
	Color     math.Vec3
	Direction math.Vec3
	UpVector  math.Vec3

	Radius          float32
	FallOffExponent float32
	OuterConeAngle  float32
	CosOuterCone    float32

	ShadowsStrength float32
	ShadowsDistance float32
	ShadowsMode     ShadowsCastingMode

	IndirectLightingIntensity     float32
	VolumetricScatteringIntensity float32
	CastVolumetricShadow          bool
	UseInverseSquaredFalloff      bool

	StaticFlags StaticFlags
	ID          uuid.UUID
}

type RendererSkyLightData struct {
	Position      math.Vec3
	Color         math.Vec3
	AdditiveColor math.Vec3
	Radius        float32

	IndirectLightingIntensity     float32
	VolumetricScatteringIntensity float32
	CastVolumetricShadow          bool

	Image gpu.Texture

	StaticFlags StaticFlags
	ID          uuid.UUID
}

// EnvironmentProbeData references a captured reflection probe.
type EnvironmentProbeData struct {
	Position math.Vec3
	Radius   float32
	Texture  gpu.Texture
	ID       uuid.UUID
}

// DecalData is one decal projected onto GBuffer surfaces.
type DecalData struct {
	World     math.Mat4
	Material  *Material
	SortOrder int32
	ID        uuid.UUID
}
