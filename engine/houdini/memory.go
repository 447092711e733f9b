package houdini

import (
	"fmt"
	"sort"

	"github.com/spaghettifunk/anima-hengine/engine/math"
)

// MemoryAttribute holds the values of one attribute. Only the slice matching
// Storage is used.
type MemoryAttribute struct {
	Storage   StorageType
	TupleSize int
	Floats    []float32
	Ints      []int32
	Strings   []string
}

func (a *MemoryAttribute) count() int {
	if a.TupleSize <= 0 {
		return 0
	}
	switch a.Storage {
	case StorageFloat:
		return len(a.Floats) / a.TupleSize
	case StorageInt:
		return len(a.Ints) / a.TupleSize
	case StorageString:
		return len(a.Strings) / a.TupleSize
	}
	return 0
}

// MemoryPart is a cooked part held in memory.
type MemoryPart struct {
	GeoID      NodeID
	Info       PartInfo
	Attributes [ownerCount]map[string]*MemoryAttribute

	FaceCounts         []int32
	VertexList         []int32
	InstancedPartIDs   []PartID
	InstanceTransforms []math.Transform
}

func (p *MemoryPart) set(name string, owner AttributeOwner, attr *MemoryAttribute) *MemoryPart {
	if p.Attributes[owner] == nil {
		p.Attributes[owner] = make(map[string]*MemoryAttribute)
	}
	p.Attributes[owner][name] = attr
	return p
}

func (p *MemoryPart) SetFloats(name string, owner AttributeOwner, tupleSize int, values []float32) *MemoryPart {
	return p.set(name, owner, &MemoryAttribute{Storage: StorageFloat, TupleSize: tupleSize, Floats: values})
}

func (p *MemoryPart) SetInts(name string, owner AttributeOwner, tupleSize int, values []int32) *MemoryPart {
	return p.set(name, owner, &MemoryAttribute{Storage: StorageInt, TupleSize: tupleSize, Ints: values})
}

func (p *MemoryPart) SetStrings(name string, owner AttributeOwner, tupleSize int, values []string) *MemoryPart {
	return p.set(name, owner, &MemoryAttribute{Storage: StorageString, TupleSize: tupleSize, Strings: values})
}

// SetTopology sets the polygon face sizes and the vertex to point mapping.
func (p *MemoryPart) SetTopology(faceCounts, vertexList []int32) *MemoryPart {
	p.FaceCounts = faceCounts
	p.VertexList = vertexList
	return p
}

func (p *MemoryPart) SetInstances(partIDs []PartID, transforms []math.Transform) *MemoryPart {
	p.InstancedPartIDs = partIDs
	p.InstanceTransforms = transforms
	return p
}

func (p *MemoryPart) GeoPartObject() GeoPartObject {
	return GeoPartObject{
		GeoID:    p.GeoID,
		PartID:   p.Info.ID,
		PartName: p.Info.Name,
		Type:     p.Info.Type,
	}
}

type partKey struct {
	geo  NodeID
	part PartID
}

var _ Session = (*MemorySession)(nil)

// MemorySession serves a cook that has already been captured, for example
// from a dump file. It is not safe for concurrent mutation.
type MemorySession struct {
	parts map[partKey]*MemoryPart
}

func NewMemorySession() *MemorySession {
	return &MemorySession{
		parts: make(map[partKey]*MemoryPart),
	}
}

func (s *MemorySession) AddPart(geoID NodeID, partID PartID, name string, partType PartType) *MemoryPart {
	p := &MemoryPart{
		GeoID: geoID,
		Info: PartInfo{
			ID:   partID,
			Name: name,
			Type: partType,
		},
	}
	s.parts[partKey{geoID, partID}] = p
	return p
}

// Parts returns every part as a geo part object, ordered by geo and part id.
func (s *MemorySession) Parts() []GeoPartObject {
	out := make([]GeoPartObject, 0, len(s.parts))
	for _, p := range s.parts {
		out = append(out, p.GeoPartObject())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].GeoID != out[j].GeoID {
			return out[i].GeoID < out[j].GeoID
		}
		return out[i].PartID < out[j].PartID
	})
	return out
}

// Part returns a part added earlier, so that its attributes can be changed
// before the next cook.
func (s *MemorySession) Part(geoID NodeID, partID PartID) (*MemoryPart, bool) {
	p, ok := s.parts[partKey{geoID, partID}]
	return p, ok
}

func (s *MemorySession) part(geoID NodeID, partID PartID) (*MemoryPart, error) {
	p, ok := s.parts[partKey{geoID, partID}]
	if !ok {
		return nil, fmt.Errorf("no part %d on geo %d", partID, geoID)
	}
	return p, nil
}

func (s *MemorySession) attribute(geoID NodeID, partID PartID, name string, owner AttributeOwner) (*MemoryAttribute, error) {
	p, err := s.part(geoID, partID)
	if err != nil {
		return nil, err
	}
	if !owner.IsValid() {
		return nil, fmt.Errorf("invalid owner %s", owner)
	}
	a, ok := p.Attributes[owner][name]
	if !ok {
		return nil, fmt.Errorf("attribute '%s' (%s) not found", name, owner)
	}
	return a, nil
}

func (s *MemorySession) GetPartInfo(geoID NodeID, partID PartID) (PartInfo, error) {
	p, err := s.part(geoID, partID)
	if err != nil {
		return PartInfo{}, err
	}
	info := p.Info
	if a, ok := p.Attributes[OwnerPoint][AttrPosition]; ok {
		info.PointCount = a.count()
	}
	info.FaceCount = len(p.FaceCounts)
	info.VertexCount = len(p.VertexList)
	info.InstanceCount = len(p.InstanceTransforms)
	return info, nil
}

func (s *MemorySession) GetAttributeInfo(geoID NodeID, partID PartID, name string, owner AttributeOwner) (AttributeInfo, error) {
	a, err := s.attribute(geoID, partID, name, owner)
	if err != nil {
		return AttributeInfo{Owner: owner}, nil
	}
	return AttributeInfo{
		Exists:    true,
		Owner:     owner,
		Storage:   a.Storage,
		Count:     a.count(),
		TupleSize: a.TupleSize,
	}, nil
}

func (s *MemorySession) typed(geoID NodeID, partID PartID, name string, info AttributeInfo, want StorageType) (*MemoryAttribute, error) {
	a, err := s.attribute(geoID, partID, name, info.Owner)
	if err != nil {
		return nil, err
	}
	if a.Storage != want {
		return nil, fmt.Errorf("attribute '%s' is %s, not %s", name, a.Storage, want)
	}
	return a, nil
}

func (s *MemorySession) GetAttributeFloatData(geoID NodeID, partID PartID, name string, info AttributeInfo) ([]float32, error) {
	a, err := s.typed(geoID, partID, name, info, StorageFloat)
	if err != nil {
		return nil, err
	}
	return append([]float32(nil), a.Floats...), nil
}

// GetAttributeIntData also serves float attributes by truncation, like the
// solver does when asked for ints.
func (s *MemorySession) GetAttributeIntData(geoID NodeID, partID PartID, name string, info AttributeInfo) ([]int32, error) {
	a, err := s.attribute(geoID, partID, name, info.Owner)
	if err != nil {
		return nil, err
	}
	switch a.Storage {
	case StorageInt:
		return append([]int32(nil), a.Ints...), nil
	case StorageFloat:
		out := make([]int32, len(a.Floats))
		for i, f := range a.Floats {
			out[i] = int32(f)
		}
		return out, nil
	}
	return nil, fmt.Errorf("attribute '%s' is %s, not int", name, a.Storage)
}

func (s *MemorySession) GetAttributeStringData(geoID NodeID, partID PartID, name string, info AttributeInfo) ([]string, error) {
	a, err := s.typed(geoID, partID, name, info, StorageString)
	if err != nil {
		return nil, err
	}
	return append([]string(nil), a.Strings...), nil
}

func (s *MemorySession) GetFaceCounts(geoID NodeID, partID PartID) ([]int32, error) {
	p, err := s.part(geoID, partID)
	if err != nil {
		return nil, err
	}
	return append([]int32(nil), p.FaceCounts...), nil
}

func (s *MemorySession) GetVertexList(geoID NodeID, partID PartID) ([]int32, error) {
	p, err := s.part(geoID, partID)
	if err != nil {
		return nil, err
	}
	return append([]int32(nil), p.VertexList...), nil
}

func (s *MemorySession) GetInstancedPartIDs(geoID NodeID, partID PartID) ([]PartID, error) {
	p, err := s.part(geoID, partID)
	if err != nil {
		return nil, err
	}
	if p.Info.Type != PartTypeInstancer {
		return nil, fmt.Errorf("part %d on geo %d is a %s, not an instancer", partID, geoID, p.Info.Type)
	}
	return append([]PartID(nil), p.InstancedPartIDs...), nil
}

func (s *MemorySession) GetInstancerPartTransforms(geoID NodeID, partID PartID) ([]math.Transform, error) {
	p, err := s.part(geoID, partID)
	if err != nil {
		return nil, err
	}
	if p.Info.Type != PartTypeInstancer {
		return nil, fmt.Errorf("part %d on geo %d is a %s, not an instancer", partID, geoID, p.Info.Type)
	}
	return append([]math.Transform(nil), p.InstanceTransforms...), nil
}
