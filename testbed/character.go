package testbed

import (
	"fmt"

	"github.com/spaghettifunk/anima-hengine/engine/houdini"
	"github.com/spaghettifunk/anima-hengine/engine/math"
)

// Joint is one joint of a character rig, with its world position.
type Joint struct {
	Name     string
	Parent   int32
	Position math.Vec3
}

// Character describes a packed character the way the solver emits it: a
// shape instancer and shape mesh carrying the skinned geometry, and a pose
// instancer and pose mesh carrying the capture skeleton.
type Character struct {
	Name      string
	GeoID     houdini.NodeID
	FirstPart houdini.PartID

	Joints    []Joint
	Positions []math.Vec3
	// Faces holds the point indices of every polygon.
	Faces [][]int32

	// CaptureTuple influences per point, region i being joint i.
	CaptureTuple   int
	CaptureIndices []int32
	CaptureWeights []float32

	// Optional per point attributes.
	Normals []math.Vec3
	UVs     []math.Vec2
	// Materials holds one slot name per face.
	Materials []string

	// Settings holds detail int or float attributes set on the shape instancer,
	// keyed by attribute name.
	Settings map[string]float32
	// Skeleton is the path of an existing skeleton to bind to.
	Skeleton string
}

// Add writes the four parts of the character into the session and returns
// them in part order.
func (c Character) Add(s *houdini.MemorySession) []houdini.GeoPartObject {
	shapeInstancer := c.FirstPart
	shapeMesh := c.FirstPart + 1
	poseInstancer := c.FirstPart + 2
	poseMesh := c.FirstPart + 3

	si := s.AddPart(c.GeoID, shapeInstancer, c.Name+"_shape_instancer", houdini.PartTypeInstancer).
		SetStrings(houdini.AttrName, houdini.OwnerPrim, 1, []string{fmt.Sprintf("/obj/%s/%s.shp", c.Name, c.Name)}).
		SetInstances([]houdini.PartID{shapeMesh}, []math.Transform{math.TransformCreate()})
	for name, value := range c.Settings {
		si.SetFloats(name, houdini.OwnerDetail, 1, []float32{value})
	}
	if c.Skeleton != "" {
		si.SetStrings(houdini.AttrSkeleton, houdini.OwnerDetail, 1, []string{c.Skeleton})
	}

	counts := make([]int32, len(c.Faces))
	var vertices []int32
	for i, f := range c.Faces {
		counts[i] = int32(len(f))
		vertices = append(vertices, f...)
	}
	sm := s.AddPart(c.GeoID, shapeMesh, c.Name+"_shape", houdini.PartTypeMesh).
		SetFloats(houdini.AttrPosition, houdini.OwnerPoint, 3, flattenVec3(c.Positions)).
		SetTopology(counts, vertices).
		SetInts(houdini.AttrBoneCaptureIndex, houdini.OwnerPoint, c.CaptureTuple, c.CaptureIndices).
		SetFloats(houdini.AttrBoneCaptureData, houdini.OwnerPoint, c.CaptureTuple, c.CaptureWeights)
	if c.Normals != nil {
		sm.SetFloats(houdini.AttrNormal, houdini.OwnerPoint, 3, flattenVec3(c.Normals))
	}
	if c.UVs != nil {
		uvs := make([]float32, 0, len(c.UVs)*2)
		for _, uv := range c.UVs {
			uvs = append(uvs, uv.X, uv.Y)
		}
		sm.SetFloats(houdini.AttrUV, houdini.OwnerPoint, 2, uvs)
	}
	if c.Materials != nil {
		sm.SetStrings(houdini.AttrMaterial, houdini.OwnerPrim, 1, c.Materials)
	}

	s.AddPart(c.GeoID, poseInstancer, c.Name+"_pose_instancer", houdini.PartTypeInstancer).
		SetStrings(houdini.AttrName, houdini.OwnerPrim, 1, []string{fmt.Sprintf("/obj/%s/%s.skel", c.Name, c.Name)}).
		SetInstances([]houdini.PartID{poseMesh}, []math.Transform{math.TransformCreate()})

	names := make([]string, len(c.Joints))
	parents := make([]int32, len(c.Joints))
	positions := make([]math.Vec3, len(c.Joints))
	xforms := make([]float32, 0, len(c.Joints)*9)
	for i, j := range c.Joints {
		names[i] = j.Name
		parents[i] = j.Parent
		positions[i] = j.Position
		xforms = append(xforms, 1, 0, 0, 0, 1, 0, 0, 0, 1)
	}
	s.AddPart(c.GeoID, poseMesh, c.Name+"_pose", houdini.PartTypeMesh).
		SetFloats(houdini.AttrPosition, houdini.OwnerPoint, 3, flattenVec3(positions)).
		SetStrings(houdini.AttrName, houdini.OwnerPoint, 1, names).
		SetFloats(houdini.AttrTransform, houdini.OwnerPoint, 9, xforms).
		SetInts(houdini.AttrParent, houdini.OwnerPoint, 1, parents)

	out := make([]houdini.GeoPartObject, 0, 4)
	for _, id := range []houdini.PartID{shapeInstancer, shapeMesh, poseInstancer, poseMesh} {
		info, _ := s.GetPartInfo(c.GeoID, id)
		out = append(out, houdini.GeoPartObject{
			GeoID:    c.GeoID,
			PartID:   id,
			PartName: info.Name,
			Type:     info.Type,
		})
	}
	return out
}

func flattenVec3(vs []math.Vec3) []float32 {
	out := make([]float32, 0, len(vs)*3)
	for _, v := range vs {
		out = append(out, v.X, v.Y, v.Z)
	}
	return out
}
