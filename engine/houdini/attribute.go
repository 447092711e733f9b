package houdini

import (
	"fmt"
	"strings"
)

// AttributeOwner is the element class an attribute is stored on.
type AttributeOwner uint8

const (
	OwnerVertex AttributeOwner = iota
	OwnerPoint
	OwnerPrim
	OwnerDetail

	ownerCount
)

var ownerNames = [ownerCount]string{"vertex", "point", "prim", "detail"}

func (o AttributeOwner) IsValid() bool {
	return o < ownerCount
}

func (o AttributeOwner) String() string {
	if !o.IsValid() {
		return fmt.Sprintf("owner(%d)", uint8(o))
	}
	return ownerNames[o]
}

// ParseAttributeOwner accepts the owner names used in solver dumps
// ("vertex", "point", "prim"/"primitive", "detail"/"global").
func ParseAttributeOwner(s string) (AttributeOwner, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "vertex":
		return OwnerVertex, nil
	case "point":
		return OwnerPoint, nil
	case "prim", "primitive":
		return OwnerPrim, nil
	case "detail", "global":
		return OwnerDetail, nil
	}
	return ownerCount, fmt.Errorf("unknown attribute owner '%s'", s)
}

type StorageType uint8

const (
	StorageInvalid StorageType = iota
	StorageInt
	StorageFloat
	StorageString
)

func (s StorageType) String() string {
	switch s {
	case StorageInt:
		return "int"
	case StorageFloat:
		return "float"
	case StorageString:
		return "string"
	}
	return "invalid"
}

// AttributeInfo describes an attribute without its values. Count is the
// number of elements (points, vertices, ...) and TupleSize the number of
// components per element.
type AttributeInfo struct {
	Exists    bool
	Owner     AttributeOwner
	Storage   StorageType
	Count     int
	TupleSize int
}

// Len is the number of scalar values a bulk read returns.
func (ai AttributeInfo) Len() int {
	if !ai.Exists {
		return 0
	}
	return ai.Count * ai.TupleSize
}

// Well-known attribute names.
const (
	AttrName     = "name"
	AttrPath     = "path"
	AttrPosition = "P"
	AttrNormal   = "N"
	AttrUV       = "uv"

	AttrBoneCaptureIndex = "boneCapture_index"
	AttrBoneCaptureData  = "boneCapture_data"
	AttrBoneCapturePath  = "boneCapture_pCaptPath"

	AttrTransform = "transform"
	AttrParent    = "parent"

	AttrMaterial          = "unreal_material"
	AttrSkeleton          = "unreal_skeleton"
	AttrOverwriteSkeleton = "unreal_overwrite_skeleton"
	AttrImportScale       = "unreal_import_scale"
	AttrMaxInfluences     = "unreal_max_influences"
	AttrImportNormals     = "unreal_import_normals"
	AttrNumTexCoords      = "unreal_num_texcoords"
)

// UVAttributeName returns the attribute holding texture channel i:
// "uv", "uv2", "uv3", ...
func UVAttributeName(channel int) string {
	if channel == 0 {
		return AttrUV
	}
	return fmt.Sprintf("%s%d", AttrUV, channel+1)
}
