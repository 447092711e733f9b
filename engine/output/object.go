package output

import (
	"sort"

	"github.com/google/uuid"

	"github.com/spaghettifunk/anima-hengine/engine/content"
	"github.com/spaghettifunk/anima-hengine/engine/houdini"
)

// Object is what one part produced: an asset and the component showing it.
type Object struct {
	OutputObject    content.AssetRef
	OutputComponent uuid.UUID
	Skeleton        content.AssetRef
	// OwnsSkeleton is set when the skeleton was generated for this object
	// rather than named by the parts.
	OwnsSkeleton bool
	PackagePath  string
	BaseName     string
	// Rebuilt is set when the current cook produced the object, and cleared
	// when it was carried forward from a previous cook.
	Rebuilt bool
}

type Map map[ObjectIdentifier]Object

// Keys returns the identifiers ordered by object, geo, part and split.
func (m Map) Keys() []ObjectIdentifier {
	keys := make([]ObjectIdentifier, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.ObjectID != b.ObjectID {
			return a.ObjectID < b.ObjectID
		}
		if a.GeoID != b.GeoID {
			return a.GeoID < b.GeoID
		}
		if a.PartID != b.PartID {
			return a.PartID < b.PartID
		}
		return a.SplitIdentifier < b.SplitIdentifier
	})
	return keys
}

// References reports whether any object of the map uses the asset.
func (m Map) References(asset content.AssetRef) bool {
	for _, o := range m {
		if o.OutputObject.GUID == asset.GUID {
			return true
		}
	}
	return false
}

// ReferencesSkeleton reports whether any object of the map binds to the
// skeleton.
func (m Map) ReferencesSkeleton(skeleton content.AssetRef) bool {
	for _, o := range m {
		if o.Skeleton.GUID == skeleton.GUID {
			return true
		}
	}
	return false
}

// UsesComponent reports whether any object of the map is shown by the component.
func (m Map) UsesComponent(component uuid.UUID) bool {
	for _, o := range m {
		if o.OutputComponent == component {
			return true
		}
	}
	return false
}

// Output is the result of cooking one asset: the parts the solver produced
// and the objects translated from them.
type Output struct {
	AssetName string
	GeoParts  []houdini.GeoPartObject
	Objects   Map
	// Stale holds the objects of the previous cook that the last cook
	// replaced or dropped. They are cleaned up by the caller.
	Stale Map
}

func NewOutput(assetName string, parts []houdini.GeoPartObject) *Output {
	return &Output{
		AssetName: assetName,
		GeoParts:  parts,
		Objects:   make(Map),
		Stale:     make(Map),
	}
}
