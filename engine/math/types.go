package math

// Vec2 represents a 2D vector
type Vec2 struct {
	X, Y float32
}

// Vec3 represents a 3D vector
type Vec3 struct {
	X, Y, Z float32
}

/** @brief A quaternion, used to represent rotational orientation. Stored as (x, y, z, w). */
type Quaternion struct {
	X, Y, Z, W float32
}

/**
 * @brief a 4x4 row-major matrix, typically used to represent object transformations.
 * Points are row vectors (p' = p * M), so the translation lives in elements 12, 13 and 14.
 */
type Mat4 struct {
	/** @brief The matrix elements */
	Data [16]float32
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

/**
 * @brief Represents a local transform as separate position, rotation and scale.
 * Unlike a scene graph node it carries no parent pointer; hierarchies store
 * parent indices next to their transforms.
 */
type Transform struct {
	/** @brief The translation relative to the parent. */
	Position Vec3
	/** @brief The rotation relative to the parent. */
	Rotation Quaternion
	/** @brief The scale relative to the parent. */
	Scale Vec3
}
