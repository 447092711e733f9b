package meshdata

import (
	"errors"
	"testing"

	"github.com/spaghettifunk/anima-hengine/engine/core"
	"github.com/spaghettifunk/anima-hengine/engine/math"
)

func sampleImportData() *ImportData {
	bind := func(x, y, z float32) math.Transform {
		t := math.TransformCreate()
		t.Position = math.NewVec3(x, y, z)
		return t
	}
	return &ImportData{
		Points: []math.Vec3{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 2, Z: 0}},
		Wedges: []Wedge{
			{PointIndex: 0, UVs: []math.Vec2{{X: 0, Y: 0}}},
			{PointIndex: 1, UVs: []math.Vec2{{X: 1, Y: 0}}},
			{PointIndex: 2, UVs: []math.Vec2{{X: 0, Y: 1}}},
		},
		Faces: []Face{{Wedges: [3]uint32{0, 1, 2}}},
		Skin: []VertexInfluences{
			{Bones: []int32{0, 0}, Weights: []float32{1, 0}},
			{Bones: []int32{1, 0}, Weights: []float32{0.5, 0.5}},
			{Bones: []int32{1, 0}, Weights: []float32{1, 0}},
		},
		Bones: []Bone{
			{Name: "root", ParentIndex: -1, NumChildren: 1, BindPose: bind(0, 0, 0)},
			{Name: "spine", ParentIndex: 0, BindPose: bind(0, 1.5, -3)},
		},
		MaterialSlots: []string{""},
		MaxInfluences: 2,
		NumTexCoords:  1,
	}
}

func TestSampleIsValid(t *testing.T) {
	if err := sampleImportData().Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestScaledIsLinear(t *testing.T) {
	d := sampleImportData()
	const s, u = float32(2.5), float32(0.4)

	twice := d.Scaled(s).Scaled(u)
	once := d.Scaled(s * u)
	for i := range d.Points {
		if !twice.Points[i].Compare(once.Points[i], 1e-5) {
			t.Errorf("point %d: %+v != %+v", i, twice.Points[i], once.Points[i])
		}
	}
	for i := range d.Bones {
		if !twice.Bones[i].BindPose.Compare(once.Bones[i].BindPose, 1e-5) {
			t.Errorf("bone %d: %+v != %+v", i, twice.Bones[i].BindPose, once.Bones[i].BindPose)
		}
	}

	if got := d.Scaled(2).Points[2]; !got.Compare(math.NewVec3(0, 4, 0), 1e-6) {
		t.Errorf("Scaled(2) point = %+v", got)
	}
	if got := d.Scaled(2).Bones[1].BindPose.Position; !got.Compare(math.NewVec3(0, 3, -6), 1e-6) {
		t.Errorf("Scaled(2) bind translation = %+v", got)
	}
}

func TestScaledByOneIsNoop(t *testing.T) {
	d := sampleImportData()
	got := d.Scaled(1)
	for i := range d.Points {
		if got.Points[i] != d.Points[i] {
			t.Errorf("point %d changed: %+v", i, got.Points[i])
		}
	}
	// the copy must not alias the original
	got.Points[0].X = 42
	if d.Points[0].X == 42 {
		t.Error("Scaled(1) aliases the source points")
	}
}

func TestValidateHierarchy(t *testing.T) {
	cases := map[string][]Bone{
		"empty":        {},
		"two roots":    {{Name: "a", ParentIndex: -1}, {Name: "b", ParentIndex: -1}},
		"no root":      {{Name: "a", ParentIndex: 1}, {Name: "b", ParentIndex: 0}},
		"cycle":        {{Name: "root", ParentIndex: -1}, {Name: "a", ParentIndex: 2}, {Name: "b", ParentIndex: 1}},
		"self parent":  {{Name: "root", ParentIndex: -1}, {Name: "a", ParentIndex: 1}},
		"out of range": {{Name: "root", ParentIndex: -1}, {Name: "a", ParentIndex: 5}},
		"duplicate":    {{Name: "root", ParentIndex: -1}, {Name: "root", ParentIndex: 0}},
	}
	for name, bones := range cases {
		t.Run(name, func(t *testing.T) {
			if err := ValidateHierarchy(bones); !errors.Is(err, core.ErrMalformedHierarchy) {
				t.Errorf("expected ErrMalformedHierarchy, got %v", err)
			}
		})
	}
}

func TestValidateCatchesBadSkin(t *testing.T) {
	d := sampleImportData()
	d.Skin[1].Weights = []float32{0.5, 0.4}
	if err := d.Validate(); !errors.Is(err, core.ErrInconsistentCounts) {
		t.Errorf("expected ErrInconsistentCounts for a bad weight sum, got %v", err)
	}

	d = sampleImportData()
	d.Skin[0].Bones[0] = 7
	if err := d.Validate(); !errors.Is(err, core.ErrMalformedHierarchy) {
		t.Errorf("expected ErrMalformedHierarchy for a bad bone index, got %v", err)
	}
}
