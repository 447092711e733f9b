package skeletal

import (
	"fmt"
	"path"

	"github.com/spaghettifunk/anima-hengine/engine/content"
	"github.com/spaghettifunk/anima-hengine/engine/core"
	"github.com/spaghettifunk/anima-hengine/engine/meshdata"
)

// ResolvedSkeleton is the skeleton a mesh binds to, with what resolving it
// changed in the store.
type ResolvedSkeleton struct {
	Ref content.AssetRef
	// Created is set when the skeleton did not exist before.
	Created bool
	// backup holds the state of an existing skeleton whose bones were
	// replaced.
	backup *content.Skeleton
}

// Rewritten reports whether the bones of an existing skeleton were replaced.
func (r ResolvedSkeleton) Rewritten() bool {
	return r.backup != nil
}

// Rollback undoes ResolveSkeleton: a created skeleton is deleted and a
// rewritten one gets its previous bones and revision back.
func (r ResolvedSkeleton) Rollback(store content.Store) error {
	switch {
	case r.Created:
		return store.DeleteAsset(r.Ref)
	case r.backup != nil:
		skel, err := store.Skeleton(r.Ref)
		if err != nil {
			return err
		}
		*skel = *r.backup
	}
	return nil
}

// ResolveSkeleton returns the skeleton the mesh binds to. An existing skeleton
// is overwritten when asked to, reused when it was named by the parts, and a
// skeleton is generated next to the mesh otherwise. Skeletons are never
// deleted here; the caller rolls the result back when the bundle fails later.
func ResolveSkeleton(store content.Store, settings BuildSettings, data *meshdata.ImportData) (ResolvedSkeleton, error) {
	existing, found := store.FindAsset(settings.SkeletonAssetPath, content.ClassSkeleton)

	switch {
	case found && settings.OverwriteSkeleton:
		core.LogInfo("'%s': overwriting skeleton %s", settings.CurrentObjectName, existing)
		return rewriteSkeleton(store, existing, data.Bones)

	case found && !settings.IsNewSkeleton:
		skel, err := store.Skeleton(existing)
		if err != nil {
			return ResolvedSkeleton{}, err
		}
		if err := skel.CheckCompatible(data.Bones); err != nil {
			return ResolvedSkeleton{}, fmt.Errorf("'%s': %w", settings.CurrentObjectName, err)
		}
		return ResolvedSkeleton{Ref: existing}, nil

	case found:
		// generated by a previous cook of the same part
		core.LogDebug("'%s': rebuilding skeleton %s", settings.CurrentObjectName, existing)
		return rewriteSkeleton(store, existing, data.Bones)
	}

	target := settings.SkeletonAssetPath
	if !settings.IsNewSkeleton {
		core.LogWarn("'%s': skeleton '%s' does not exist, generating one", settings.CurrentObjectName, target)
		target = settings.GeneratedSkeletonPath()
		if ref, ok := store.FindAsset(target, content.ClassSkeleton); ok {
			return rewriteSkeleton(store, ref, data.Bones)
		}
	}

	pkg, err := store.FindOrCreatePackage(content.PackageOf(target))
	if err != nil {
		return ResolvedSkeleton{}, fmt.Errorf("%w: %w", core.ErrPackageCreationFailed, err)
	}
	ref, created, err := store.FindOrCreateAsset(pkg, path.Base(pkg.Path), content.ClassSkeleton)
	if err != nil {
		return ResolvedSkeleton{}, err
	}
	if !created {
		return rewriteSkeleton(store, ref, data.Bones)
	}
	resolved := ResolvedSkeleton{Ref: ref, Created: true}
	if err := writeSkeleton(store, ref, data.Bones); err != nil {
		if rerr := resolved.Rollback(store); rerr != nil {
			core.LogError("'%s': cannot delete partial skeleton: %s", settings.CurrentObjectName, rerr)
		}
		return ResolvedSkeleton{}, err
	}
	core.LogInfo("'%s': created skeleton %s with %d bones", settings.CurrentObjectName, ref, len(data.Bones))
	return resolved, nil
}

func rewriteSkeleton(store content.Store, ref content.AssetRef, bones []meshdata.Bone) (ResolvedSkeleton, error) {
	skel, err := store.Skeleton(ref)
	if err != nil {
		return ResolvedSkeleton{}, err
	}
	backup := *skel
	resolved := ResolvedSkeleton{Ref: ref, backup: &backup}
	if err := writeSkeleton(store, ref, bones); err != nil {
		*skel = backup
		return ResolvedSkeleton{}, err
	}
	return resolved, nil
}

func writeSkeleton(store content.Store, ref content.AssetRef, bones []meshdata.Bone) error {
	skel, err := store.Skeleton(ref)
	if err != nil {
		return err
	}
	skel.SetBones(bones)
	return store.Commit(ref)
}
