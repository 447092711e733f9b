package testbed

import (
	gomath "math"

	"github.com/spaghettifunk/anima-hengine/engine/houdini"
	"github.com/spaghettifunk/anima-hengine/engine/math"
)

// NewTube returns a character shaped like an upright tube of rings x segments
// points and height 2, rigged with a chain of three joints ("root", "spine",
// "head") at heights 0, 1 and 2. Every point is captured by the two joints
// around its height, blended linearly.
func NewTube(name string, geoID houdini.NodeID, rings, segments int) Character {
	c := Character{
		Name:  name,
		GeoID: geoID,
		Joints: []Joint{
			{Name: "root", Parent: -1, Position: math.NewVec3(0, 0, 0)},
			{Name: "spine", Parent: 0, Position: math.NewVec3(0, 1, 0)},
			{Name: "head", Parent: 1, Position: math.NewVec3(0, 2, 0)},
		},
		CaptureTuple: 2,
	}

	for r := 0; r < rings; r++ {
		height := float32(0)
		if rings > 1 {
			height = 2 * float32(r) / float32(rings-1)
		}
		for s := 0; s < segments; s++ {
			angle := 2 * gomath.Pi * float64(s) / float64(segments)
			x, z := float32(gomath.Cos(angle)), float32(gomath.Sin(angle))
			c.Positions = append(c.Positions, math.NewVec3(0.25*x, height, 0.25*z))
			c.Normals = append(c.Normals, math.NewVec3(x, 0, z))
			c.UVs = append(c.UVs, math.NewVec2(float32(s)/float32(segments), height/2))

			lower := int32(height)
			if lower > 1 {
				lower = 1
			}
			t := height - float32(lower)
			c.CaptureIndices = append(c.CaptureIndices, lower, lower+1)
			c.CaptureWeights = append(c.CaptureWeights, 1-t, t)
		}
	}

	for r := 0; r+1 < rings; r++ {
		for s := 0; s < segments; s++ {
			a := int32(r*segments + s)
			b := int32(r*segments + (s+1)%segments)
			c.Faces = append(c.Faces, []int32{a, b, b + int32(segments), a + int32(segments)})
			if r < rings/2 {
				c.Materials = append(c.Materials, "/Game/Materials/Body.Body")
			} else {
				c.Materials = append(c.Materials, "/Game/Materials/Head.Head")
			}
		}
	}
	return c
}

// NewDemoSession returns a session holding two tube characters, "hero" and
// "sidekick", plus an unrelated mesh part.
func NewDemoSession() (*houdini.MemorySession, []houdini.GeoPartObject) {
	s := houdini.NewMemorySession()

	hero := NewTube("hero", 1, 8, 12)
	sidekick := NewTube("sidekick", 2, 4, 6)
	sidekick.Settings = map[string]float32{
		houdini.AttrImportScale:   100,
		houdini.AttrMaxInfluences: 1,
	}

	var parts []houdini.GeoPartObject
	parts = append(parts, hero.Add(s)...)
	parts = append(parts, sidekick.Add(s)...)

	s.AddPart(3, 0, "ground", houdini.PartTypeMesh).
		SetFloats(houdini.AttrPosition, houdini.OwnerPoint, 3, []float32{0, 0, 0, 1, 0, 0, 0, 0, 1}).
		SetTopology([]int32{3}, []int32{0, 1, 2})
	parts = append(parts, houdini.GeoPartObject{GeoID: 3, PartID: 0, PartName: "ground", Type: houdini.PartTypeMesh})
	return s, parts
}
