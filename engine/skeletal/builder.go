package skeletal

import (
	"fmt"

	"github.com/spaghettifunk/anima-hengine/engine/core"
	"github.com/spaghettifunk/anima-hengine/engine/houdini"
	"github.com/spaghettifunk/anima-hengine/engine/math"
	"github.com/spaghettifunk/anima-hengine/engine/meshdata"
)

// corner is one triangle corner: the solver vertex and the point it uses.
type corner struct {
	vertex int
	point  int32
}

// topology is the triangulated shape mesh.
type topology struct {
	corners []corner
	// triangleFaces holds the source face of every triangle.
	triangleFaces []int
	faceCount     int
	vertexCount   int
	pointCount    int
}

// BuildImportData reads the bundle's parts and produces validated, scaled
// import data.
func BuildImportData(s houdini.Session, settings BuildSettings) (*meshdata.ImportData, error) {
	if !settings.Parts.IsValid() {
		return nil, fmt.Errorf("%w: '%s'", core.ErrIncompleteBundle, settings.Parts.BaseName)
	}
	shape := *settings.Parts.ShapeMesh

	points, err := readPoints(s, shape)
	if err != nil {
		return nil, err
	}

	topo, err := triangulate(s, shape, len(points))
	if err != nil {
		return nil, err
	}

	joints, err := readJoints(s, settings)
	if err != nil {
		return nil, err
	}
	skel, err := sortJoints(joints)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", *settings.Parts.PoseMesh, err)
	}

	skin, err := readSkin(s, settings, len(points), skel)
	if err != nil {
		return nil, err
	}

	data := &meshdata.ImportData{
		Points:        points,
		Skin:          skin,
		Bones:         skel.bones,
		MaxInfluences: settings.MaxInfluences,
	}

	var normals []math.Vec3
	if settings.ImportNormals {
		if normals, err = readCornerVec3(s, shape, houdini.AttrNormal, topo); err != nil {
			return nil, err
		}
		if normals == nil {
			core.LogWarn("%s has no normals, they will be computed", shape)
		}
	}
	data.HasNormals = normals != nil

	uvs, err := readUVs(s, shape, settings.NumTexCoords, topo)
	if err != nil {
		return nil, err
	}
	data.NumTexCoords = len(uvs)

	slots, faceMaterials, err := readMaterials(s, shape, topo.faceCount)
	if err != nil {
		return nil, err
	}
	data.MaterialSlots = slots

	data.Wedges = make([]meshdata.Wedge, len(topo.corners))
	for i, c := range topo.corners {
		w := meshdata.Wedge{PointIndex: uint32(c.point)}
		if normals != nil {
			w.Normal = normals[i]
		}
		if len(uvs) > 0 {
			w.UVs = make([]math.Vec2, len(uvs))
			for ch := range uvs {
				w.UVs[ch] = uvs[ch][i]
			}
		}
		data.Wedges[i] = w
	}
	data.Faces = make([]meshdata.Face, len(topo.triangleFaces))
	for t, f := range topo.triangleFaces {
		data.Faces[t] = meshdata.Face{
			Wedges:        [3]uint32{uint32(t * 3), uint32(t*3 + 1), uint32(t*3 + 2)},
			MaterialIndex: faceMaterials[f],
		}
	}

	data = data.Scaled(settings.ImportScale)
	if err := data.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", shape, err)
	}
	return data, nil
}

func readPoints(s houdini.Session, shape houdini.GeoPartObject) ([]math.Vec3, error) {
	info := houdini.GetAttrInfo(s, shape.GeoID, shape.PartID, houdini.AttrPosition, houdini.OwnerPoint)
	if !info.Exists || info.TupleSize < 3 {
		return nil, fmt.Errorf("%w: %s has no point positions", core.ErrAttributeMissing, shape)
	}
	values, err := houdini.ReadFloats(s, shape.GeoID, shape.PartID, houdini.AttrPosition, info)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", shape, err)
	}
	points := make([]math.Vec3, info.Count)
	for i := range points {
		o := i * info.TupleSize
		points[i] = math.NewVec3(values[o], values[o+1], values[o+2])
	}
	return points, nil
}

// triangulate fans every polygon into triangles, three corners per triangle.
// Faces with fewer than three vertices are skipped.
func triangulate(s houdini.Session, shape houdini.GeoPartObject, pointCount int) (topology, error) {
	faceCounts, err := s.GetFaceCounts(shape.GeoID, shape.PartID)
	if err != nil {
		return topology{}, fmt.Errorf("%s: %w", shape, err)
	}
	vertices, err := s.GetVertexList(shape.GeoID, shape.PartID)
	if err != nil {
		return topology{}, fmt.Errorf("%s: %w", shape, err)
	}

	total := 0
	for f, n := range faceCounts {
		if n < 0 {
			return topology{}, fmt.Errorf("%w: %s face %d has %d vertices", core.ErrInconsistentCounts, shape, f, n)
		}
		total += int(n)
	}
	if total != len(vertices) {
		return topology{}, fmt.Errorf("%w: %s faces use %d vertices, the vertex list has %d", core.ErrInconsistentCounts, shape, total, len(vertices))
	}
	for v, p := range vertices {
		if p < 0 || int(p) >= pointCount {
			return topology{}, fmt.Errorf("%w: %s vertex %d references point %d of %d", core.ErrInconsistentCounts, shape, v, p, pointCount)
		}
	}

	topo := topology{
		faceCount:   len(faceCounts),
		vertexCount: len(vertices),
		pointCount:  pointCount,
	}
	offset := 0
	for f, n := range faceCounts {
		if n < 3 {
			offset += int(n)
			continue
		}
		for i := 1; i+1 < int(n); i++ {
			for _, v := range [3]int{offset, offset + i, offset + i + 1} {
				topo.corners = append(topo.corners, corner{vertex: v, point: vertices[v]})
			}
			topo.triangleFaces = append(topo.triangleFaces, f)
		}
		offset += int(n)
	}
	if len(topo.triangleFaces) == 0 {
		return topology{}, fmt.Errorf("%w: %s has no triangles", core.ErrInconsistentCounts, shape)
	}
	return topo, nil
}

// cornerAttribute finds an attribute on the vertex owner, then the point
// owner, and checks its count against that owner.
func cornerAttribute(s houdini.Session, shape houdini.GeoPartObject, name string, minTuple int, topo topology) (houdini.AttributeInfo, []float32, error) {
	info := houdini.FindAttribute(s, shape.GeoID, shape.PartID, name, houdini.OwnerVertex, houdini.OwnerPoint)
	if !info.Exists {
		return info, nil, nil
	}
	if info.TupleSize < minTuple {
		return info, nil, fmt.Errorf("%w: %s attribute '%s' has %d components, needs %d", core.ErrInconsistentCounts, shape, name, info.TupleSize, minTuple)
	}

	expected := topo.pointCount
	if info.Owner == houdini.OwnerVertex {
		expected = topo.vertexCount
	}
	if info.Count != expected {
		return info, nil, fmt.Errorf("%w: %s %s attribute '%s' has %d values for %d elements", core.ErrInconsistentCounts, shape, info.Owner, name, info.Count, expected)
	}

	values, err := houdini.ReadFloats(s, shape.GeoID, shape.PartID, name, info)
	if err != nil {
		return info, nil, fmt.Errorf("%s: %w", shape, err)
	}
	return info, values, nil
}

func cornerElement(info houdini.AttributeInfo, c corner) int {
	if info.Owner == houdini.OwnerVertex {
		return c.vertex * info.TupleSize
	}
	return int(c.point) * info.TupleSize
}

// readCornerVec3 returns one vector per corner, or nil if the attribute does
// not exist.
func readCornerVec3(s houdini.Session, shape houdini.GeoPartObject, name string, topo topology) ([]math.Vec3, error) {
	info, values, err := cornerAttribute(s, shape, name, 3, topo)
	if err != nil || values == nil {
		return nil, err
	}
	out := make([]math.Vec3, len(topo.corners))
	for i, c := range topo.corners {
		o := cornerElement(info, c)
		out[i] = math.NewVec3(values[o], values[o+1], values[o+2])
	}
	return out, nil
}

// readUVs reads up to channels texture channels, one coordinate per corner.
// Reading stops at the first missing channel.
func readUVs(s houdini.Session, shape houdini.GeoPartObject, channels int, topo topology) ([][]math.Vec2, error) {
	var out [][]math.Vec2
	for ch := 0; ch < channels; ch++ {
		name := houdini.UVAttributeName(ch)
		info, values, err := cornerAttribute(s, shape, name, 2, topo)
		if err != nil {
			return nil, err
		}
		if values == nil {
			core.LogWarn("%s: texture channel '%s' not found, importing %d of %d channels", shape, name, ch, channels)
			break
		}
		uvs := make([]math.Vec2, len(topo.corners))
		for i, c := range topo.corners {
			o := cornerElement(info, c)
			uvs[i] = math.NewVec2(values[o], values[o+1])
		}
		out = append(out, uvs)
	}
	return out, nil
}

// readMaterials returns the material slot names in first seen order and the
// slot of every source face. Without material names there is a single
// unnamed slot.
func readMaterials(s houdini.Session, shape houdini.GeoPartObject, faceCount int) ([]string, []int32, error) {
	faceMaterials := make([]int32, faceCount)

	info := houdini.GetAttrInfo(s, shape.GeoID, shape.PartID, houdini.AttrMaterial, houdini.OwnerPrim)
	if !info.Exists || info.Storage != houdini.StorageString {
		return []string{""}, faceMaterials, nil
	}
	if info.Count != faceCount || info.TupleSize != 1 {
		return nil, nil, fmt.Errorf("%w: %s has %d faces and %d material names", core.ErrInconsistentCounts, shape, faceCount, info.Count)
	}
	names, err := houdini.ReadStrings(s, shape.GeoID, shape.PartID, houdini.AttrMaterial, info)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", shape, err)
	}

	var slots []string
	index := make(map[string]int32)
	for f, name := range names {
		slot, ok := index[name]
		if !ok {
			slot = int32(len(slots))
			index[name] = slot
			slots = append(slots, name)
		}
		faceMaterials[f] = slot
	}
	return slots, faceMaterials, nil
}
