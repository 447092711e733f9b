package content

import "github.com/google/uuid"

// MaterialIdentifier names a material produced by material translation.
type MaterialIdentifier struct {
	ObjectPath        string
	IsHoudiniMaterial bool
}

// MaterialMap is the output of material translation for one cook.
type MaterialMap map[MaterialIdentifier]AssetRef

// Lookup resolves a slot name, preferring materials generated by the cook
// over existing assets with the same path.
func (mm MaterialMap) Lookup(slotName string) (AssetRef, bool) {
	if slotName == "" {
		return NullAsset(), false
	}
	if ref, ok := mm[MaterialIdentifier{ObjectPath: slotName, IsHoudiniMaterial: true}]; ok {
		return ref, true
	}
	ref, ok := mm[MaterialIdentifier{ObjectPath: slotName}]
	return ref, ok
}

type Material struct {
	GUID uuid.UUID
	Name string
	Path string
}
