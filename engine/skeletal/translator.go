package skeletal

import (
	"github.com/google/uuid"

	"github.com/spaghettifunk/anima-hengine/engine/config"
	"github.com/spaghettifunk/anima-hengine/engine/content"
	"github.com/spaghettifunk/anima-hengine/engine/core"
	"github.com/spaghettifunk/anima-hengine/engine/houdini"
	"github.com/spaghettifunk/anima-hengine/engine/output"
	"github.com/spaghettifunk/anima-hengine/engine/scene"
)

// Translator turns the packed characters of a cook into skeletal mesh assets
// and components.
type Translator struct {
	session houdini.Session
	store   content.Store
	config  config.Translator
}

func NewTranslator(session houdini.Session, store content.Store, cfg config.Translator) *Translator {
	return &Translator{
		session: session,
		store:   store,
		config:  cfg,
	}
}

// CreateAllSkeletalMeshesAndComponentsFromHoudiniOutput translates every
// complete bundle of the output, one after the other. A failing bundle keeps
// its previous result and makes the return value false; the others are
// unaffected. The output's objects are replaced by the new mapping and the
// objects it no longer holds are recorded as stale.
func (t *Translator) CreateAllSkeletalMeshesAndComponentsFromHoudiniOutput(out *output.Output, params content.PackageParams, materials content.MaterialMap, owner scene.ComponentOwner) bool {
	classified := ClassifyParts(t.session, out.GeoParts)
	complete, incomplete := CollectBundles(classified)
	core.LogDebug("'%s': %d skeletal meshes, %d incomplete", out.AssetName, len(complete), len(incomplete))

	if params.HoudiniAssetName == "" {
		params.HoudiniAssetName = out.AssetName
	}
	if owner != nil && params.ComponentGUID == uuid.Nil {
		params.ComponentGUID = owner.GUID()
	}

	tracker := output.NewTracker(out.Objects)
	success := true
	for _, parts := range complete {
		ok, objects := t.CreateSkeletalMeshFromHoudiniGeoPartObject(parts, params, materials, owner, out.Objects)
		for _, id := range objects.Keys() {
			tracker.Accept(id, objects[id])
		}
		if ok {
			continue
		}

		success = false
		id := output.NewObjectIdentifier(*parts.MainPart(), "")
		if _, had := tracker.Previous(id); had && tracker.Retain(id) {
			core.LogWarn("'%s': keeping the output of the previous cook", parts.BaseName)
		}
	}

	next, stale := tracker.Result()
	out.Objects = next
	out.Stale = stale
	return success
}

// CreateSkeletalMeshFromHoudiniGeoPartObject translates one bundle. previous
// is the mapping of the last cook; the component it names for this bundle is
// reused.
func (t *Translator) CreateSkeletalMeshFromHoudiniGeoPartObject(parts SkeletalMeshParts, params content.PackageParams, materials content.MaterialMap, owner scene.ComponentOwner, previous output.Map) (bool, output.Map) {
	if !parts.IsValid() {
		core.LogWarn("skeletal mesh '%s' is incomplete, skipping it", parts.BaseName)
		return false, nil
	}
	main := *parts.MainPart()
	id := output.NewObjectIdentifier(main, "")

	settings, err := NewBuildSettings(t.session, t.config, parts, params)
	if err != nil {
		core.LogError("%s: invalid build settings: %s", main, err)
		return false, nil
	}
	data, err := BuildImportData(t.session, settings)
	if err != nil {
		core.LogError("%s: cannot read skeletal mesh '%s': %s", main, parts.BaseName, err)
		return false, nil
	}
	skeleton, err := ResolveSkeleton(t.store, settings, data)
	if err != nil {
		core.LogError("%s: cannot resolve the skeleton of '%s': %s", main, parts.BaseName, err)
		return false, nil
	}
	build, err := buildSkeletalMeshAsset(t.store, data, skeleton.Ref, settings, materials)
	if err != nil {
		core.LogError("%s: cannot build skeletal mesh '%s': %s", main, parts.BaseName, err)
		t.rollback(main, nil, skeleton)
		return false, nil
	}
	mesh := build.ref

	obj := output.Object{
		OutputObject: mesh,
		Skeleton:     skeleton.Ref,
		OwnsSkeleton: skeleton.Ref.Path == settings.GeneratedSkeletonPath(),
		PackagePath:  content.PackageOf(mesh.Path),
		BaseName:     parts.BaseName,
	}
	if owner != nil {
		component, err := owner.AttachSkeletalMesh(previous[id].OutputComponent, settings.CurrentObjectName, mesh)
		if err != nil {
			core.LogError("%s: cannot attach '%s' to '%s': %s", main, mesh.Path, owner.Name(), err)
			t.rollback(main, &build, skeleton)
			return false, nil
		}
		obj.OutputComponent = component
	}
	return true, output.Map{id: obj}
}

// rollback undoes what a failing bundle changed in the store, mesh first since
// it references the skeleton.
func (t *Translator) rollback(main houdini.GeoPartObject, build *meshBuild, skeleton ResolvedSkeleton) {
	if build != nil {
		if err := build.rollback(t.store); err != nil {
			core.LogError("%s: cannot roll back %s: %s", main, build.ref, err)
		}
	}
	if err := skeleton.Rollback(t.store); err != nil {
		core.LogError("%s: cannot roll back %s: %s", main, skeleton.Ref, err)
	}
}
