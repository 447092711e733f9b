package skeletal

import (
	"fmt"
	"strings"

	"github.com/spaghettifunk/anima-hengine/engine/config"
	"github.com/spaghettifunk/anima-hengine/engine/content"
	"github.com/spaghettifunk/anima-hengine/engine/core"
	"github.com/spaghettifunk/anima-hengine/engine/houdini"
	"github.com/spaghettifunk/anima-hengine/engine/meshdata"
)

const skeletonSuffix = "_Skeleton"

// BuildSettings controls the translation of one bundle. It is a value and is
// never modified after NewBuildSettings returns.
type BuildSettings struct {
	ImportScale       float32
	IsNewSkeleton     bool
	MaxInfluences     int
	ImportNormals     bool
	OverwriteSkeleton bool
	NumTexCoords      int

	CurrentObjectName string
	// SkeletonAssetPath is the object path of the skeleton: the one named by
	// the parts, or the generated one when IsNewSkeleton is set.
	SkeletonAssetPath string
	PackageParams     content.PackageParams
	Parts             SkeletalMeshParts
}

// FindAttributeOnSkeletalMeshShapeParts looks the attribute up on the shape
// instancer, then on the shape mesh, preferring detail over primitive owner.
func FindAttributeOnSkeletalMeshShapeParts(s houdini.Session, parts SkeletalMeshParts, name string) (houdini.AttributeInfo, houdini.GeoPartObject, bool) {
	for _, part := range []*houdini.GeoPartObject{parts.ShapeInstancer, parts.ShapeMesh} {
		if part == nil {
			continue
		}
		info := houdini.FindAttribute(s, part.GeoID, part.PartID, name, houdini.OwnerDetail, houdini.OwnerPrim)
		if info.Exists && info.Count > 0 {
			return info, *part, true
		}
	}
	return houdini.AttributeInfo{}, houdini.GeoPartObject{}, false
}

func firstString(s houdini.Session, parts SkeletalMeshParts, name string) (string, bool, error) {
	info, part, ok := FindAttributeOnSkeletalMeshShapeParts(s, parts, name)
	if !ok {
		return "", false, nil
	}
	values, err := houdini.ReadStrings(s, part.GeoID, part.PartID, name, info)
	if err != nil {
		return "", false, fmt.Errorf("%s: reading '%s': %w", part, name, err)
	}
	return strings.TrimSpace(values[0]), true, nil
}

func firstFloat(s houdini.Session, parts SkeletalMeshParts, name string) (float32, bool, error) {
	info, part, ok := FindAttributeOnSkeletalMeshShapeParts(s, parts, name)
	if !ok {
		return 0, false, nil
	}
	if info.Storage == houdini.StorageInt {
		values, err := houdini.ReadInts(s, part.GeoID, part.PartID, name, info)
		if err != nil {
			return 0, false, fmt.Errorf("%s: reading '%s': %w", part, name, err)
		}
		return float32(values[0]), true, nil
	}
	values, err := houdini.ReadFloats(s, part.GeoID, part.PartID, name, info)
	if err != nil {
		return 0, false, fmt.Errorf("%s: reading '%s': %w", part, name, err)
	}
	return values[0], true, nil
}

func firstInt(s houdini.Session, parts SkeletalMeshParts, name string) (int, bool, error) {
	info, part, ok := FindAttributeOnSkeletalMeshShapeParts(s, parts, name)
	if !ok {
		return 0, false, nil
	}
	values, err := houdini.ReadInts(s, part.GeoID, part.PartID, name, info)
	if err != nil {
		return 0, false, fmt.Errorf("%s: reading '%s': %w", part, name, err)
	}
	return int(values[0]), true, nil
}

// NewBuildSettings starts from the configured defaults and applies the
// overrides carried by the shape parts. params is completed with the identity
// of the bundle's main part.
func NewBuildSettings(s houdini.Session, cfg config.Translator, parts SkeletalMeshParts, params content.PackageParams) (BuildSettings, error) {
	if !parts.IsValid() {
		return BuildSettings{}, fmt.Errorf("%w: '%s' is missing %v", core.ErrIncompleteBundle, parts.BaseName, parts.Missing())
	}

	main := parts.MainPart()
	params.ObjectID = int32(main.ObjectID)
	params.GeoID = int32(main.GeoID)
	params.PartID = int32(main.PartID)
	if params.ObjectName == "" {
		params.ObjectName = parts.BaseName
	}

	bs := BuildSettings{
		ImportScale:       cfg.ImportScale,
		MaxInfluences:     cfg.MaxInfluences,
		ImportNormals:     cfg.ImportNormals,
		OverwriteSkeleton: cfg.OverwriteSkeleton,
		NumTexCoords:      cfg.NumTexCoords,
		CurrentObjectName: params.GetPackageName(),
		PackageParams:     params,
		Parts:             parts,
	}

	skeletonPath, _, err := firstString(s, parts, houdini.AttrSkeleton)
	if err != nil {
		return BuildSettings{}, err
	}
	if skeletonPath == "" {
		bs.IsNewSkeleton = true
		bs.SkeletonAssetPath = bs.GeneratedSkeletonPath()
	} else {
		bs.SkeletonAssetPath = content.ObjectPath(skeletonPath)
	}

	if v, ok, err := firstInt(s, parts, houdini.AttrOverwriteSkeleton); err != nil {
		return BuildSettings{}, err
	} else if ok {
		bs.OverwriteSkeleton = v != 0
	}
	if v, ok, err := firstFloat(s, parts, houdini.AttrImportScale); err != nil {
		return BuildSettings{}, err
	} else if ok {
		bs.ImportScale = v
	}
	if v, ok, err := firstInt(s, parts, houdini.AttrMaxInfluences); err != nil {
		return BuildSettings{}, err
	} else if ok {
		bs.MaxInfluences = v
	}
	if v, ok, err := firstInt(s, parts, houdini.AttrImportNormals); err != nil {
		return BuildSettings{}, err
	} else if ok {
		bs.ImportNormals = v != 0
	}
	if v, ok, err := firstInt(s, parts, houdini.AttrNumTexCoords); err != nil {
		return BuildSettings{}, err
	} else if ok {
		bs.NumTexCoords = v
	}

	if err := bs.validate(); err != nil {
		return BuildSettings{}, fmt.Errorf("%s: %w", main, err)
	}
	return bs, nil
}

// validate rejects unusable values and clamps the ones that only exceed what
// the host supports.
func (bs *BuildSettings) validate() error {
	if !(bs.ImportScale > 0) {
		return fmt.Errorf("%w: import scale must be positive, got %g", core.ErrInvalidSettings, bs.ImportScale)
	}
	if bs.MaxInfluences < 1 {
		return fmt.Errorf("%w: max influences must be at least 1, got %d", core.ErrInvalidSettings, bs.MaxInfluences)
	}
	if bs.NumTexCoords < 0 {
		return fmt.Errorf("%w: texture coordinate count must not be negative, got %d", core.ErrInvalidSettings, bs.NumTexCoords)
	}
	if bs.MaxInfluences > meshdata.MaxTotalInfluences {
		core.LogWarn("'%s': clamping max influences %d to %d", bs.CurrentObjectName, bs.MaxInfluences, meshdata.MaxTotalInfluences)
		bs.MaxInfluences = meshdata.MaxTotalInfluences
	}
	if bs.NumTexCoords > meshdata.MaxTexCoords {
		core.LogWarn("'%s': clamping texture coordinate count %d to %d", bs.CurrentObjectName, bs.NumTexCoords, meshdata.MaxTexCoords)
		bs.NumTexCoords = meshdata.MaxTexCoords
	}
	return nil
}

// GeneratedSkeletonPath is the object path of the skeleton created next to
// the mesh when the parts name none.
func (bs BuildSettings) GeneratedSkeletonPath() string {
	return content.ObjectPath(bs.PackageParams.GetPackageFullPath(bs.CurrentObjectName + skeletonSuffix))
}
