package houdini

import (
	"fmt"

	"github.com/spaghettifunk/anima-hengine/engine/core"
	"github.com/spaghettifunk/anima-hengine/engine/math"
)

type NodeID int32

type PartID int32

type PartType uint8

const (
	PartTypeInvalid PartType = iota
	PartTypeMesh
	PartTypeCurve
	PartTypeInstancer
	PartTypeVolume
)

func (pt PartType) String() string {
	switch pt {
	case PartTypeMesh:
		return "mesh"
	case PartTypeCurve:
		return "curve"
	case PartTypeInstancer:
		return "instancer"
	case PartTypeVolume:
		return "volume"
	}
	return "invalid"
}

func ParsePartType(s string) (PartType, error) {
	switch s {
	case "mesh", "":
		return PartTypeMesh, nil
	case "curve":
		return PartTypeCurve, nil
	case "instancer":
		return PartTypeInstancer, nil
	case "volume":
		return PartTypeVolume, nil
	}
	return PartTypeInvalid, fmt.Errorf("unknown part type '%s'", s)
}

type PartInfo struct {
	ID            PartID
	Name          string
	Type          PartType
	PointCount    int
	VertexCount   int
	FaceCount     int
	InstanceCount int
}

// Session is the read-only query surface of a solver cook. Calls may be slow
// (they can cross a process boundary); none of them mutate the cook.
type Session interface {
	GetPartInfo(geoID NodeID, partID PartID) (PartInfo, error)
	GetAttributeInfo(geoID NodeID, partID PartID, name string, owner AttributeOwner) (AttributeInfo, error)
	GetAttributeFloatData(geoID NodeID, partID PartID, name string, info AttributeInfo) ([]float32, error)
	GetAttributeIntData(geoID NodeID, partID PartID, name string, info AttributeInfo) ([]int32, error)
	GetAttributeStringData(geoID NodeID, partID PartID, name string, info AttributeInfo) ([]string, error)
	GetFaceCounts(geoID NodeID, partID PartID) ([]int32, error)
	GetVertexList(geoID NodeID, partID PartID) ([]int32, error)
	GetInstancedPartIDs(geoID NodeID, partID PartID) ([]PartID, error)
	GetInstancerPartTransforms(geoID NodeID, partID PartID) ([]math.Transform, error)
}

// GetAttrInfo queries an attribute and folds every failure into "does not exist".
func GetAttrInfo(s Session, geoID NodeID, partID PartID, name string, owner AttributeOwner) AttributeInfo {
	if s == nil || !owner.IsValid() {
		return AttributeInfo{Owner: owner}
	}
	info, err := s.GetAttributeInfo(geoID, partID, name, owner)
	if err != nil {
		core.LogDebug("attribute '%s' (%s) on %d/%d unavailable: %s", name, owner, geoID, partID, err)
		return AttributeInfo{Owner: owner}
	}
	return info
}

// FindAttribute returns the first owner, in the given order, carrying the attribute.
func FindAttribute(s Session, geoID NodeID, partID PartID, name string, owners ...AttributeOwner) AttributeInfo {
	for _, owner := range owners {
		if info := GetAttrInfo(s, geoID, partID, name, owner); info.Exists {
			return info
		}
	}
	return AttributeInfo{}
}

func ReadFloats(s Session, geoID NodeID, partID PartID, name string, info AttributeInfo) ([]float32, error) {
	data, err := s.GetAttributeFloatData(geoID, partID, name, info)
	if err != nil {
		return nil, err
	}
	if len(data) != info.Len() {
		return nil, fmt.Errorf("%w: '%s' returned %d values, expected %d", core.ErrInconsistentCounts, name, len(data), info.Len())
	}
	return data, nil
}

func ReadInts(s Session, geoID NodeID, partID PartID, name string, info AttributeInfo) ([]int32, error) {
	data, err := s.GetAttributeIntData(geoID, partID, name, info)
	if err != nil {
		return nil, err
	}
	if len(data) != info.Len() {
		return nil, fmt.Errorf("%w: '%s' returned %d values, expected %d", core.ErrInconsistentCounts, name, len(data), info.Len())
	}
	return data, nil
}

func ReadStrings(s Session, geoID NodeID, partID PartID, name string, info AttributeInfo) ([]string, error) {
	data, err := s.GetAttributeStringData(geoID, partID, name, info)
	if err != nil {
		return nil, err
	}
	if len(data) != info.Len() {
		return nil, fmt.Errorf("%w: '%s' returned %d values, expected %d", core.ErrInconsistentCounts, name, len(data), info.Len())
	}
	return data, nil
}
