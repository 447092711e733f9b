package houdini

import (
	"path"
	"strings"
)

const (
	restGeometrySuffix = ".shp"
	capturePoseSuffix  = ".skel"
)

// IsRestGeometryInstancer reports whether the part instances the rest (shape)
// geometry of a packed character, and returns the character's base name.
func IsRestGeometryInstancer(s Session, geoID NodeID, partID PartID) (bool, string) {
	return isPackedInstancer(s, geoID, partID, restGeometrySuffix)
}

// IsRestGeometryMesh reports whether the part is captured (skinned) geometry.
func IsRestGeometryMesh(s Session, geoID NodeID, partID PartID) bool {
	info := GetAttrInfo(s, geoID, partID, AttrBoneCaptureData, OwnerPoint)
	return info.Exists && info.TupleSize > 0
}

// IsCapturePoseInstancer reports whether the part instances the capture pose
// skeleton of a packed character, and returns the character's base name.
func IsCapturePoseInstancer(s Session, geoID NodeID, partID PartID) (bool, string) {
	return isPackedInstancer(s, geoID, partID, capturePoseSuffix)
}

// IsCapturePoseMesh reports whether the part is a skeleton: one point per
// joint carrying a 3x3 transform.
func IsCapturePoseMesh(s Session, geoID NodeID, partID PartID) bool {
	info := GetAttrInfo(s, geoID, partID, AttrTransform, OwnerPoint)
	return info.Exists && info.TupleSize == 9
}

func isPackedInstancer(s Session, geoID NodeID, partID PartID, suffix string) (bool, string) {
	info := GetAttrInfo(s, geoID, partID, AttrName, OwnerPrim)
	if !info.Exists || info.Count <= 0 || info.Storage != StorageString {
		return false, ""
	}

	names, err := ReadStrings(s, geoID, partID, AttrName, info)
	if err != nil || len(names) == 0 {
		return false, ""
	}

	base := path.Base(strings.TrimSpace(names[0]))
	if !strings.HasSuffix(base, suffix) {
		return false, ""
	}
	return true, strings.TrimSuffix(base, suffix)
}
