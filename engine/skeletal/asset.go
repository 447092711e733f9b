package skeletal

import (
	"fmt"

	"github.com/spaghettifunk/anima-hengine/engine/content"
	"github.com/spaghettifunk/anima-hengine/engine/core"
	"github.com/spaghettifunk/anima-hengine/engine/meshdata"
)

// BuildSkeletalMeshAsset writes the import data into the mesh asset of the
// bundle and commits it. Building the same part again updates the same
// asset. On failure an asset created by this call is deleted and an existing
// one is restored.
func BuildSkeletalMeshAsset(store content.Store, data *meshdata.ImportData, skeleton content.AssetRef, settings BuildSettings, materials content.MaterialMap) (content.AssetRef, error) {
	build, err := buildSkeletalMeshAsset(store, data, skeleton, settings, materials)
	return build.ref, err
}

// meshBuild is a committed mesh with what building it replaced.
type meshBuild struct {
	ref     content.AssetRef
	created bool
	backup  content.SkeletalMesh
}

// rollback deletes a created mesh or restores the previous state of an
// existing one.
func (b meshBuild) rollback(store content.Store) error {
	if b.created {
		return store.DeleteAsset(b.ref)
	}
	mesh, err := store.SkeletalMesh(b.ref)
	if err != nil {
		return err
	}
	*mesh = b.backup
	return nil
}

func buildSkeletalMeshAsset(store content.Store, data *meshdata.ImportData, skeleton content.AssetRef, settings BuildSettings, materials content.MaterialMap) (meshBuild, error) {
	if _, err := store.Skeleton(skeleton); err != nil {
		return meshBuild{ref: content.NullAsset()}, fmt.Errorf("'%s': %w", settings.CurrentObjectName, err)
	}

	params := settings.PackageParams
	name := uniqueAssetName(store, params, settings.CurrentObjectName)

	pkg, err := store.FindOrCreatePackage(params.GetPackageFullPath(name))
	if err != nil {
		return meshBuild{ref: content.NullAsset()}, fmt.Errorf("'%s': %w: %w", name, core.ErrPackageCreationFailed, err)
	}
	ref, created, err := store.FindOrCreateAsset(pkg, name, content.ClassSkeletalMesh)
	if err != nil {
		return meshBuild{ref: content.NullAsset()}, fmt.Errorf("'%s': %w", name, err)
	}
	mesh, err := store.SkeletalMesh(ref)
	if err != nil {
		return meshBuild{ref: content.NullAsset()}, err
	}

	build := meshBuild{ref: ref, created: created, backup: *mesh}
	fail := func(err error) (meshBuild, error) {
		if rerr := build.rollback(store); rerr != nil {
			core.LogError("'%s': cannot delete partial asset: %s", name, rerr)
		}
		return meshBuild{ref: content.NullAsset()}, err
	}

	if err := mesh.SetLODImportData(0, data); err != nil {
		return fail(fmt.Errorf("%w: %w", core.ErrAssetCommitFailed, err))
	}
	mesh.Skeleton = skeleton
	mesh.Materials = make([]content.SkeletalMaterial, len(data.MaterialSlots))
	for i, slot := range data.MaterialSlots {
		material, ok := materials.Lookup(slot)
		if !ok {
			if slot != "" {
				core.LogWarn("'%s': material '%s' not found, using the default material", name, slot)
			}
			material = store.DefaultMaterial()
		}
		mesh.Materials[i] = content.SkeletalMaterial{SlotName: slot, Material: material}
	}

	if err := store.BuildRenderData(ref); err != nil {
		return fail(fmt.Errorf("'%s': %w: %w", name, core.ErrAssetCommitFailed, err))
	}
	if err := store.Commit(ref); err != nil {
		return fail(fmt.Errorf("'%s': %w", name, err))
	}

	core.LogInfo("built %s: %d points, %d triangles, %d bones", ref, len(data.Points), len(data.Faces), len(data.Bones))
	return build, nil
}

// uniqueAssetName returns name, or name with the first free "_N" suffix when
// new assets must not replace existing ones.
func uniqueAssetName(store content.Store, params content.PackageParams, name string) string {
	if params.ReplaceMode != content.CreateNewAssets {
		return name
	}
	candidate := name
	for n := 1; ; n++ {
		if _, ok := store.FindPackage(params.GetPackageFullPath(candidate)); !ok {
			return candidate
		}
		candidate = fmt.Sprintf("%s_%d", name, n)
	}
}
