package content

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/spaghettifunk/anima-hengine/engine/math"
	"github.com/spaghettifunk/anima-hengine/engine/meshdata"
)

type SkeletalMaterial struct {
	SlotName string
	Material AssetRef
}

// SkinnedVertex is one render vertex. Bones and Weights have MaxInfluences entries.
type SkinnedVertex struct {
	Position math.Vec3
	Normal   math.Vec3
	UVs      []math.Vec2
	Bones    []int32
	Weights  []float32
}

// RenderSection is a contiguous index range drawn with one material.
type RenderSection struct {
	MaterialIndex int32
	BaseIndex     uint32
	NumTriangles  uint32
}

type RenderData struct {
	Vertices []SkinnedVertex
	Indices  []uint32
	Sections []RenderSection
	Bounds   math.Extents3D
}

type SkeletalMesh struct {
	GUID      uuid.UUID
	Name      string
	Path      string
	Skeleton  AssetRef
	Materials []SkeletalMaterial
	// RefBones is the hierarchy the LOD data indexes into.
	RefBones   []meshdata.Bone
	LODs       []*meshdata.ImportData
	RenderData *RenderData
	Revision   int
	Dirty      bool
}

// SetLODImportData validates and replaces the source data of a LOD. Only LOD 0
// is supported.
func (m *SkeletalMesh) SetLODImportData(lod int, data *meshdata.ImportData) error {
	if lod != 0 {
		return fmt.Errorf("skeletal mesh '%s': LOD %d is not supported", m.Path, lod)
	}
	if data == nil {
		return fmt.Errorf("skeletal mesh '%s': nil import data", m.Path)
	}
	if err := data.Validate(); err != nil {
		return fmt.Errorf("skeletal mesh '%s': %w", m.Path, err)
	}
	m.LODs = []*meshdata.ImportData{data}
	m.RefBones = append([]meshdata.Bone(nil), data.Bones...)
	m.RenderData = nil
	return nil
}

type vertexKey struct {
	point  uint32
	normal math.Vec3
	uvs    [meshdata.MaxTexCoords]math.Vec2
}

// BuildRenderData derives the render buffers from LOD 0: wedges sharing a
// point, normal and UVs collapse into one vertex, and triangles are grouped
// into one section per material.
func (m *SkeletalMesh) BuildRenderData() error {
	if len(m.LODs) == 0 || m.LODs[0] == nil {
		return fmt.Errorf("skeletal mesh '%s' has no LOD 0 import data", m.Path)
	}
	data := m.LODs[0]

	var pointNormals []math.Vec3
	if !data.HasNormals {
		pointIndices := make([]uint32, 0, len(data.Faces)*3)
		for _, f := range data.Faces {
			for _, w := range f.Wedges {
				pointIndices = append(pointIndices, data.Wedges[w].PointIndex)
			}
		}
		pointNormals = math.GeometryGenerateSmoothNormals(data.Points, pointIndices)
	}

	faces := make([]int, len(data.Faces))
	for i := range faces {
		faces[i] = i
	}
	sort.SliceStable(faces, func(a, b int) bool {
		return data.Faces[faces[a]].MaterialIndex < data.Faces[faces[b]].MaterialIndex
	})

	rd := &RenderData{
		Indices: make([]uint32, 0, len(data.Faces)*3),
	}
	lookup := make(map[vertexKey]uint32, len(data.Wedges))
	for _, fi := range faces {
		f := data.Faces[fi]
		if n := len(rd.Sections); n == 0 || rd.Sections[n-1].MaterialIndex != f.MaterialIndex {
			rd.Sections = append(rd.Sections, RenderSection{
				MaterialIndex: f.MaterialIndex,
				BaseIndex:     uint32(len(rd.Indices)),
			})
		}
		rd.Sections[len(rd.Sections)-1].NumTriangles++

		for _, wi := range f.Wedges {
			w := data.Wedges[wi]
			normal := w.Normal
			if pointNormals != nil {
				normal = pointNormals[w.PointIndex]
			}
			key := vertexKey{point: w.PointIndex, normal: normal}
			copy(key.uvs[:], w.UVs)

			idx, ok := lookup[key]
			if !ok {
				skin := data.Skin[w.PointIndex]
				idx = uint32(len(rd.Vertices))
				rd.Vertices = append(rd.Vertices, SkinnedVertex{
					Position: data.Points[w.PointIndex],
					Normal:   normal,
					UVs:      append([]math.Vec2(nil), w.UVs...),
					Bones:    append([]int32(nil), skin.Bones...),
					Weights:  append([]float32(nil), skin.Weights...),
				})
				lookup[key] = idx
			}
			rd.Indices = append(rd.Indices, idx)
		}
	}
	rd.Bounds = math.ExtentsFromPoints(data.Points)

	m.RenderData = rd
	return nil
}
