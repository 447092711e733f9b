package math

// GeometryGenerateSmoothNormals computes area weighted normals per position
// from a triangle list. Every index must reference a valid position.
func GeometryGenerateSmoothNormals(positions []Vec3, indices []uint32) []Vec3 {
	normals := make([]Vec3, len(positions))
	for i := 0; i+2 < len(indices); i += 3 {
		i0 := indices[i+0]
		i1 := indices[i+1]
		i2 := indices[i+2]

		edge1 := positions[i1].Sub(positions[i0])
		edge2 := positions[i2].Sub(positions[i0])

		// not normalized: the cross product length weights by triangle area
		c := edge1.Cross(edge2)
		normals[i0] = normals[i0].Add(c)
		normals[i1] = normals[i1].Add(c)
		normals[i2] = normals[i2].Add(c)
	}
	for i := range normals {
		normals[i] = normals[i].Normalized()
	}
	return normals
}

// ExtentsFromPoints returns the axis aligned bounds of the points, or zero
// extents when there are none.
func ExtentsFromPoints(points []Vec3) Extents3D {
	if len(points) == 0 {
		return Extents3D{}
	}
	e := Extents3D{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		e.Min = e.Min.Min(p)
		e.Max = e.Max.Max(p)
	}
	return e
}

func (e Extents3D) Center() Vec3 {
	return e.Min.Add(e.Max).MulScalar(0.5)
}
