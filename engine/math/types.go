package math

// Vec2 represents a 2D vector
type Vec2 struct {
	X, Y float32
}

// Vec3 represents a 3D vector
type Vec3 struct {
	X, Y, Z float32
}

// Vec4 represents a 4D vector
type Vec4 struct {
	X, Y, Z, W float32
}

/** @brief a 4x4 matrix, typically used to represent object transformations. */
type Mat4 struct {
	/** @brief The matrix elements */
	Data [16]float32
}

// Half4 packs four half-precision floats, used for compact per-instance
// payloads such as lightmap UV rectangles.
type Half4 struct {
	X, Y, Z, W uint16
}

/**
 * @brief Represents the extents of a 3d object.
 */
type Extents3D struct {
	/** @brief The minimum extents of the object. */
	Min Vec3
	/** @brief The maximum extents of the object. */
	Max Vec3
}

// BoundingSphere is the coarse bounds carried by a draw call.
type BoundingSphere struct {
	Center Vec3
	Radius float32
}

// Viewport describes a render output region in pixels.
type Viewport struct {
	X, Y, Width, Height float32
}
