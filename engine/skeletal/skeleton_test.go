package skeletal

import (
	"errors"
	"testing"

	"github.com/spaghettifunk/anima-hengine/engine/content"
	"github.com/spaghettifunk/anima-hengine/engine/core"
	"github.com/spaghettifunk/anima-hengine/engine/houdini"
	"github.com/spaghettifunk/anima-hengine/engine/meshdata"
	"github.com/spaghettifunk/anima-hengine/testbed"
)

func resolveTube(t *testing.T, store content.Store, c testbed.Character) (ResolvedSkeleton, BuildSettings, *meshdata.ImportData, error) {
	t.Helper()
	s, parts := bundleOf(t, c)
	bs := settingsFor(t, s, parts)
	data, err := BuildImportData(s, bs)
	if err != nil {
		t.Fatal(err)
	}
	res, err := ResolveSkeleton(store, bs, data)
	return res, bs, data, err
}

func TestResolveSkeletonGeneratesAndRebuildsInPlace(t *testing.T) {
	store := content.NewMemoryStore()

	first, bs, _, err := resolveTube(t, store, testbed.NewTube("hero", 1, 3, 4))
	if err != nil {
		t.Fatal(err)
	}
	if !first.Created || first.Ref.Path != bs.GeneratedSkeletonPath() {
		t.Errorf("skeleton created at %q (created %v), want %q", first.Ref.Path, first.Created, bs.GeneratedSkeletonPath())
	}

	second, _, _, err := resolveTube(t, store, testbed.NewTube("hero", 1, 3, 4))
	if err != nil {
		t.Fatal(err)
	}
	if second.Created || !second.Rewritten() || second.Ref.GUID != first.Ref.GUID {
		t.Errorf("recook changed the skeleton identity: %v != %v", second.Ref, first.Ref)
	}
	skel, err := store.Skeleton(second.Ref)
	if err != nil {
		t.Fatal(err)
	}
	if skel.Revision != 2 || len(skel.Bones) != 3 {
		t.Errorf("skeleton revision %d with %d bones", skel.Revision, len(skel.Bones))
	}
}

// newBiped stores a skeleton at /Game/Rigs/Biped with a root, spine and head
// chain plus an arm under the spine.
func newBiped(t *testing.T, store *content.MemoryStore) content.AssetRef {
	t.Helper()
	pkg, err := store.FindOrCreatePackage("/Game/Rigs/Biped")
	if err != nil {
		t.Fatal(err)
	}
	ref, _, err := store.FindOrCreateAsset(pkg, "Biped", content.ClassSkeleton)
	if err != nil {
		t.Fatal(err)
	}
	skel, _ := store.Skeleton(ref)
	skel.SetBones([]meshdata.Bone{
		{Name: "root", ParentIndex: -1},
		{Name: "spine", ParentIndex: 0},
		{Name: "head", ParentIndex: 1},
		{Name: "arm", ParentIndex: 1},
	})
	return ref
}

func TestResolveSkeletonReusesNamedSkeleton(t *testing.T) {
	store := content.NewMemoryStore()
	biped := newBiped(t, store)

	c := testbed.NewTube("hero", 1, 3, 4)
	c.Skeleton = "/Game/Rigs/Biped"
	res, _, _, err := resolveTube(t, store, c)
	if err != nil {
		t.Fatal(err)
	}
	if res.Ref.GUID != biped.GUID || res.Created || res.Rewritten() {
		t.Errorf("resolved %+v, want %v untouched", res, biped)
	}
	skel, _ := store.Skeleton(res.Ref)
	if len(skel.Bones) != 4 || skel.Revision != 1 {
		t.Errorf("named skeleton was modified: %d bones, revision %d", len(skel.Bones), skel.Revision)
	}
}

func TestResolveSkeletonMismatch(t *testing.T) {
	store := content.NewMemoryStore()
	biped := newBiped(t, store)

	c := testbed.NewTube("hero", 1, 3, 4)
	c.Joints[2].Name = "tail"
	c.Skeleton = "/Game/Rigs/Biped"
	_, _, _, err := resolveTube(t, store, c)
	if !errors.Is(err, core.ErrSkeletonMismatch) {
		t.Fatalf("err = %v, want ErrSkeletonMismatch", err)
	}
	skel, _ := store.Skeleton(biped)
	if skel.Revision != 1 || skel.FindBoneIndex("tail") != -1 {
		t.Error("mismatching import modified the skeleton")
	}
}

func TestResolveSkeletonOverwriteKeepsIdentity(t *testing.T) {
	store := content.NewMemoryStore()
	biped := newBiped(t, store)

	c := testbed.NewTube("hero", 1, 3, 4)
	c.Joints[2].Name = "tail"
	c.Skeleton = "/Game/Rigs/Biped"
	c.Settings = map[string]float32{houdini.AttrOverwriteSkeleton: 1}
	res, _, _, err := resolveTube(t, store, c)
	if err != nil {
		t.Fatal(err)
	}
	if res.Ref.GUID != biped.GUID || res.Ref.Handle != biped.Handle {
		t.Errorf("overwrite changed identity: %v != %v", res.Ref, biped)
	}
	skel, _ := store.Skeleton(res.Ref)
	if len(skel.Bones) != 3 || skel.FindBoneIndex("tail") != 2 || !skel.Dirty {
		t.Errorf("skeleton not overwritten: %+v", skel.Bones)
	}
}

func TestResolveSkeletonMissingNamedSkeletonFallsBack(t *testing.T) {
	store := content.NewMemoryStore()

	c := testbed.NewTube("hero", 1, 3, 4)
	c.Skeleton = "/Game/Rigs/Missing"
	res, bs, _, err := resolveTube(t, store, c)
	if err != nil {
		t.Fatal(err)
	}
	if res.Ref.Path != bs.GeneratedSkeletonPath() {
		t.Errorf("skeleton at %q, want %q", res.Ref.Path, bs.GeneratedSkeletonPath())
	}
	if _, ok := store.FindAsset("/Game/Rigs/Missing", content.ClassSkeleton); ok {
		t.Error("skeleton created at the named path")
	}
}

func TestResolvedSkeletonRollback(t *testing.T) {
	store := content.NewMemoryStore()
	biped := newBiped(t, store)

	c := testbed.NewTube("hero", 1, 3, 4)
	c.Joints[2].Name = "tail"
	c.Skeleton = "/Game/Rigs/Biped"
	c.Settings = map[string]float32{houdini.AttrOverwriteSkeleton: 1}
	res, _, _, err := resolveTube(t, store, c)
	if err != nil {
		t.Fatal(err)
	}
	if err := res.Rollback(store); err != nil {
		t.Fatal(err)
	}
	skel, _ := store.Skeleton(biped)
	if len(skel.Bones) != 4 || skel.Revision != 1 || skel.FindBoneIndex("tail") != -1 || skel.FindBoneIndex("arm") != 3 {
		t.Errorf("overwritten skeleton not restored: %d bones, revision %d", len(skel.Bones), skel.Revision)
	}

	generated, _, _, err := resolveTube(t, store, testbed.NewTube("sidekick", 2, 3, 4))
	if err != nil {
		t.Fatal(err)
	}
	if err := generated.Rollback(store); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Skeleton(generated.Ref); err == nil {
		t.Error("created skeleton survived the rollback")
	}
}
