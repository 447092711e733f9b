package content

import (
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
)

type PackageMode uint8

const (
	PackageModeCookToTemp PackageMode = iota
	PackageModeBake
)

type ReplaceMode uint8

const (
	ReplaceExistingAssets ReplaceMode = iota
	CreateNewAssets
)

func ParseReplaceMode(s string) (ReplaceMode, error) {
	switch s {
	case "", "replace":
		return ReplaceExistingAssets, nil
	case "create_new", "new":
		return CreateNewAssets, nil
	}
	return ReplaceExistingAssets, fmt.Errorf("unknown replace mode '%s'", s)
}

const (
	DefaultTempCookFolder = "/Game/HoudiniEngine/Temp"
	DefaultBakeFolder     = "/Game/HoudiniEngine/Bake"
)

// PackageParams decides where cooked or baked assets are written.
type PackageParams struct {
	PackageMode PackageMode
	ReplaceMode ReplaceMode

	TempCookFolder string
	BakeFolder     string

	HoudiniAssetName string
	ComponentGUID    uuid.UUID

	// ObjectName overrides the generated asset name when set.
	ObjectName string
	ObjectID   int32
	GeoID      int32
	PartID     int32
	SplitStr   string
}

// GetPackageName returns the asset name, generated from the part identity
// unless ObjectName is set.
func (p PackageParams) GetPackageName() string {
	if p.ObjectName != "" {
		return sanitizeName(p.ObjectName)
	}
	name := fmt.Sprintf("%s_%d_%d_%d", p.HoudiniAssetName, p.ObjectID, p.GeoID, p.PartID)
	if p.SplitStr != "" {
		name += "_" + p.SplitStr
	}
	return sanitizeName(name)
}

// GetPackagePath returns the folder the package lives in.
func (p PackageParams) GetPackagePath() string {
	if p.PackageMode == PackageModeBake {
		folder := p.BakeFolder
		if folder == "" {
			folder = DefaultBakeFolder
		}
		return path.Clean(folder)
	}

	folder := p.TempCookFolder
	if folder == "" {
		folder = DefaultTempCookFolder
	}
	out := path.Join(folder, sanitizeName(p.HoudiniAssetName))
	if p.ComponentGUID != uuid.Nil {
		out = path.Join(out, p.ComponentGUID.String()[:8])
	}
	return out
}

// GetPackageFullPath joins the folder and the name of the package for name.
func (p PackageParams) GetPackageFullPath(name string) string {
	return path.Join(p.GetPackagePath(), sanitizeName(name))
}

// ObjectPath turns a package path ("/Game/A/B") or an object path
// ("/Game/A/B.B") into an object path.
func ObjectPath(p string) string {
	if p == "" {
		return ""
	}
	base := path.Base(p)
	if strings.Contains(base, ".") {
		return p
	}
	return p + "." + base
}

// PackageOf returns the package path part of an object path.
func PackageOf(objectPath string) string {
	if i := strings.LastIndex(objectPath, "."); i > strings.LastIndex(objectPath, "/") {
		return objectPath[:i]
	}
	return objectPath
}

func sanitizeName(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '.', ',', ':', '/', '\\', '"', '\'', '|', '*', '?', '<', '>':
			return '_'
		}
		return r
	}, name)
}
