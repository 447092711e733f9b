package meshdata

import (
	"github.com/spaghettifunk/anima-hengine/engine/math"
)

const (
	// MaxTotalInfluences is the highest number of bones a vertex may reference.
	MaxTotalInfluences = 12
	// MaxTexCoords is the highest number of UV channels a wedge may carry.
	MaxTexCoords = 8
	// WeightTolerance bounds how far a vertex weight sum may drift from 1.
	WeightTolerance float32 = 1e-4
)

// Bone is one joint of a skeleton. Bones are stored parents first; the root is
// bone 0 and has ParentIndex -1.
type Bone struct {
	Name        string
	ParentIndex int32
	NumChildren int32
	// BindPose is relative to the parent bone.
	BindPose math.Transform
}

// Wedge is a face corner: a point plus the attributes that may be split per
// corner.
type Wedge struct {
	PointIndex uint32
	Normal     math.Vec3
	UVs        []math.Vec2
}

// Face is a triangle of wedges.
type Face struct {
	Wedges        [3]uint32
	MaterialIndex int32
}

// VertexInfluences has exactly MaxInfluences slots. Unused slots hold bone 0
// with weight 0.
type VertexInfluences struct {
	Bones   []int32
	Weights []float32
}

func (vi VertexInfluences) WeightSum() float32 {
	sum := float32(0)
	for _, w := range vi.Weights {
		sum += w
	}
	return sum
}

// NonZero counts the slots carrying weight.
func (vi VertexInfluences) NonZero() int {
	n := 0
	for _, w := range vi.Weights {
		if w > 0 {
			n++
		}
	}
	return n
}

// ImportData is the engine-agnostic description of one skinned mesh LOD.
type ImportData struct {
	Points        []math.Vec3
	Wedges        []Wedge
	Faces         []Face
	Skin          []VertexInfluences
	Bones         []Bone
	MaterialSlots []string

	MaxInfluences int
	NumTexCoords  int
	HasNormals    bool
}

// BoneIndex returns the index of the named bone, or -1.
func (d *ImportData) BoneIndex(name string) int32 {
	for i, b := range d.Bones {
		if b.Name == name {
			return int32(i)
		}
	}
	return -1
}

// Clone returns a deep copy.
func (d *ImportData) Clone() *ImportData {
	out := *d
	out.Points = append([]math.Vec3(nil), d.Points...)
	out.Wedges = make([]Wedge, len(d.Wedges))
	for i, w := range d.Wedges {
		w.UVs = append([]math.Vec2(nil), w.UVs...)
		out.Wedges[i] = w
	}
	out.Faces = append([]Face(nil), d.Faces...)
	out.Skin = make([]VertexInfluences, len(d.Skin))
	for i, s := range d.Skin {
		out.Skin[i] = VertexInfluences{
			Bones:   append([]int32(nil), s.Bones...),
			Weights: append([]float32(nil), s.Weights...),
		}
	}
	out.Bones = append([]Bone(nil), d.Bones...)
	out.MaterialSlots = append([]string(nil), d.MaterialSlots...)
	return &out
}

// Scaled returns a copy with every positional value multiplied by factor:
// point positions and bind pose translations. Directions, rotations and
// weights are unchanged.
func (d *ImportData) Scaled(factor float32) *ImportData {
	out := d.Clone()
	if factor == 1 {
		return out
	}
	for i := range out.Points {
		out.Points[i] = out.Points[i].MulScalar(factor)
	}
	for i := range out.Bones {
		out.Bones[i].BindPose = out.Bones[i].BindPose.ScaleTranslation(factor)
	}
	return out
}
