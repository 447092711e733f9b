package content

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/spaghettifunk/anima-hengine/engine/core"
)

type AssetClass uint8

const (
	ClassInvalid AssetClass = iota
	ClassSkeletalMesh
	ClassSkeleton
	ClassMaterial
)

func (c AssetClass) String() string {
	switch c {
	case ClassSkeletalMesh:
		return "SkeletalMesh"
	case ClassSkeleton:
		return "Skeleton"
	case ClassMaterial:
		return "Material"
	}
	return "Invalid"
}

// PackageRef refers to a package owned by a Store.
type PackageRef struct {
	Handle core.Handle
	Path   string
}

func (p PackageRef) IsValid() bool {
	return p.Handle.IsValid()
}

// AssetRef refers to an asset owned by a Store. GUID is the stable identity:
// rebuilding an asset in place keeps it.
type AssetRef struct {
	Handle core.Handle
	GUID   uuid.UUID
	Path   string
	Class  AssetClass
}

func NullAsset() AssetRef {
	return AssetRef{Handle: core.InvalidHandle()}
}

func (a AssetRef) IsValid() bool {
	return a.Handle.IsValid() && a.GUID != uuid.Nil
}

func (a AssetRef) String() string {
	if !a.IsValid() {
		return "<none>"
	}
	return fmt.Sprintf("%s'%s'", a.Class, a.Path)
}

// Store is the host content system. Implementations are not expected to be
// safe for concurrent cooks.
type Store interface {
	FindPackage(path string) (PackageRef, bool)
	FindOrCreatePackage(path string) (PackageRef, error)

	// FindAsset looks an asset up by object path and class.
	FindAsset(objectPath string, class AssetClass) (AssetRef, bool)
	// FindOrCreateAsset returns the asset named name inside pkg, creating it
	// when missing. created reports whether a new asset was made.
	FindOrCreateAsset(pkg PackageRef, name string, class AssetClass) (ref AssetRef, created bool, err error)

	Skeleton(ref AssetRef) (*Skeleton, error)
	SkeletalMesh(ref AssetRef) (*SkeletalMesh, error)
	Material(ref AssetRef) (*Material, error)
	DefaultMaterial() AssetRef

	// BuildRenderData derives the render buffers of a skeletal mesh synchronously.
	BuildRenderData(ref AssetRef) error
	// Commit marks the asset dirty and registers it with the content browser.
	Commit(ref AssetRef) error
	DeleteAsset(ref AssetRef) error
}
