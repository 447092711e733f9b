package houdini

import (
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/spaghettifunk/anima-hengine/engine/math"
)

// Dump is the on-disk form of a captured cook, used by the CLI and fixtures.
//
//	asset: character
//	parts:
//	  - geo: 1
//	    part: 0
//	    name: Base.shp
//	    type: instancer
//	    instances: [1]
//	    attributes:
//	      - {name: name, owner: prim, strings: [Base.shp]}
type Dump struct {
	Asset string     `yaml:"asset"`
	Parts []DumpPart `yaml:"parts"`
}

type DumpPart struct {
	Object     NodeID          `yaml:"object"`
	Geo        NodeID          `yaml:"geo"`
	Part       PartID          `yaml:"part"`
	Name       string          `yaml:"name"`
	Type       string          `yaml:"type"`
	Faces      []int32         `yaml:"faces,omitempty"`
	Vertices   []int32         `yaml:"vertices,omitempty"`
	Instances  []PartID        `yaml:"instances,omitempty"`
	Transforms []DumpTransform `yaml:"transforms,omitempty"`
	Attributes []DumpAttribute `yaml:"attributes,omitempty"`
}

type DumpTransform struct {
	Position [3]float32  `yaml:"p"`
	Rotation *[4]float32 `yaml:"r,omitempty"`
	Scale    *[3]float32 `yaml:"s,omitempty"`
}

type DumpAttribute struct {
	Name    string    `yaml:"name"`
	Owner   string    `yaml:"owner"`
	Tuple   int       `yaml:"tuple,omitempty"`
	Floats  []float32 `yaml:"floats,omitempty"`
	Ints    []int32   `yaml:"ints,omitempty"`
	Strings []string  `yaml:"strings,omitempty"`
}

func (t DumpTransform) transform() math.Transform {
	out := math.TransformCreate()
	out.Position = math.NewVec3(t.Position[0], t.Position[1], t.Position[2])
	if t.Rotation != nil {
		r := *t.Rotation
		out.Rotation = math.Quaternion{X: r[0], Y: r[1], Z: r[2], W: r[3]}.Normalize()
	}
	if t.Scale != nil {
		s := *t.Scale
		out.Scale = math.NewVec3(s[0], s[1], s[2])
	}
	return out
}

func newDumpTransform(t math.Transform) DumpTransform {
	out := DumpTransform{Position: [3]float32{t.Position.X, t.Position.Y, t.Position.Z}}
	if !t.Rotation.Compare(math.NewQuatIdentity(), math.K_FLOAT_EPSILON) {
		out.Rotation = &[4]float32{t.Rotation.X, t.Rotation.Y, t.Rotation.Z, t.Rotation.W}
	}
	if !t.Scale.Compare(math.NewVec3One(), math.K_FLOAT_EPSILON) {
		out.Scale = &[3]float32{t.Scale.X, t.Scale.Y, t.Scale.Z}
	}
	return out
}

// NewDump captures the given parts of a session. Attributes are written per
// owner, sorted by name.
func NewDump(asset string, s *MemorySession, parts []GeoPartObject) (*Dump, error) {
	d := &Dump{Asset: asset, Parts: make([]DumpPart, 0, len(parts))}
	for _, gpo := range parts {
		p, err := s.part(gpo.GeoID, gpo.PartID)
		if err != nil {
			return nil, err
		}
		dp := DumpPart{
			Object:    gpo.ObjectID,
			Geo:       p.GeoID,
			Part:      p.Info.ID,
			Name:      p.Info.Name,
			Type:      p.Info.Type.String(),
			Faces:     p.FaceCounts,
			Vertices:  p.VertexList,
			Instances: p.InstancedPartIDs,
		}
		for _, t := range p.InstanceTransforms {
			dp.Transforms = append(dp.Transforms, newDumpTransform(t))
		}
		for owner := OwnerVertex; owner < ownerCount; owner++ {
			names := make([]string, 0, len(p.Attributes[owner]))
			for name := range p.Attributes[owner] {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				a := p.Attributes[owner][name]
				da := DumpAttribute{Name: name, Owner: owner.String(), Tuple: a.TupleSize}
				switch a.Storage {
				case StorageFloat:
					da.Floats = a.Floats
				case StorageInt:
					da.Ints = a.Ints
				case StorageString:
					da.Strings = a.Strings
				}
				dp.Attributes = append(dp.Attributes, da)
			}
		}
		d.Parts = append(d.Parts, dp)
	}
	return d, nil
}

// Write encodes the dump as YAML.
func (d *Dump) Write(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return enc.Close()
}

func LoadDumpFile(path string) (*Dump, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dump: open %s: %w", path, err)
	}
	defer f.Close()
	d, err := LoadDump(f)
	if err != nil {
		return nil, fmt.Errorf("dump: %s: %w", path, err)
	}
	return d, nil
}

func LoadDump(r io.Reader) (*Dump, error) {
	var d Dump
	if err := yaml.NewDecoder(r).Decode(&d); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return &d, nil
}

// Session materializes the dump into a MemorySession and returns the geo part
// objects in dump order.
func (d *Dump) Session() (*MemorySession, []GeoPartObject, error) {
	s := NewMemorySession()
	parts := make([]GeoPartObject, 0, len(d.Parts))
	for _, dp := range d.Parts {
		pt, err := ParsePartType(dp.Type)
		if err != nil {
			return nil, nil, fmt.Errorf("part %d on geo %d: %w", dp.Part, dp.Geo, err)
		}
		p := s.AddPart(dp.Geo, dp.Part, dp.Name, pt)
		p.SetTopology(dp.Faces, dp.Vertices)
		if len(dp.Instances) > 0 || len(dp.Transforms) > 0 {
			transforms := make([]math.Transform, len(dp.Transforms))
			for i, t := range dp.Transforms {
				transforms[i] = t.transform()
			}
			p.SetInstances(dp.Instances, transforms)
		}
		for _, da := range dp.Attributes {
			if err := da.apply(p); err != nil {
				return nil, nil, fmt.Errorf("part %d on geo %d: %w", dp.Part, dp.Geo, err)
			}
		}

		gpo := p.GeoPartObject()
		gpo.ObjectID = dp.Object
		gpo.ObjectName = d.Asset
		parts = append(parts, gpo)
	}
	return s, parts, nil
}

func (da DumpAttribute) apply(p *MemoryPart) error {
	owner, err := ParseAttributeOwner(da.Owner)
	if err != nil {
		return fmt.Errorf("attribute '%s': %w", da.Name, err)
	}
	tuple := da.Tuple
	if tuple == 0 {
		tuple = 1
	}
	switch {
	case da.Floats != nil:
		p.SetFloats(da.Name, owner, tuple, da.Floats)
	case da.Ints != nil:
		p.SetInts(da.Name, owner, tuple, da.Ints)
	case da.Strings != nil:
		p.SetStrings(da.Name, owner, tuple, da.Strings)
	default:
		return fmt.Errorf("attribute '%s' has no values", da.Name)
	}
	return nil
}
