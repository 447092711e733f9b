package skeletal

import (
	"testing"

	"github.com/spaghettifunk/anima-hengine/engine/content"
	"github.com/spaghettifunk/anima-hengine/testbed"
)

func buildMesh(t *testing.T, store *content.MemoryStore, c testbed.Character, params content.PackageParams, materials content.MaterialMap) content.AssetRef {
	t.Helper()
	s, parts := bundleOf(t, c)
	bs := settingsFor(t, s, parts)
	bs.PackageParams.ReplaceMode = params.ReplaceMode
	data, err := BuildImportData(s, bs)
	if err != nil {
		t.Fatal(err)
	}
	skel, err := ResolveSkeleton(store, bs, data)
	if err != nil {
		t.Fatal(err)
	}
	ref, err := BuildSkeletalMeshAsset(store, data, skel.Ref, bs, materials)
	if err != nil {
		t.Fatal(err)
	}
	return ref
}

func TestBuildSkeletalMeshAssetIsIdempotent(t *testing.T) {
	store := content.NewMemoryStore()
	body, err := store.CreateMaterial("/Game/Materials/Body")
	if err != nil {
		t.Fatal(err)
	}
	materials := content.MaterialMap{{ObjectPath: "/Game/Materials/Body.Body", IsHoudiniMaterial: true}: body}

	first := buildMesh(t, store, testbed.NewTube("hero", 1, 4, 6), content.PackageParams{}, materials)
	second := buildMesh(t, store, testbed.NewTube("hero", 1, 4, 6), content.PackageParams{}, materials)
	if first.GUID != second.GUID || first.Path != second.Path {
		t.Fatalf("rebuild changed identity: %v != %v", first, second)
	}
	if got := store.Assets(content.ClassSkeletalMesh); len(got) != 1 {
		t.Errorf("store holds %d meshes: %v", len(got), got)
	}

	mesh, err := store.SkeletalMesh(second)
	if err != nil {
		t.Fatal(err)
	}
	if mesh.Revision != 2 || !mesh.Dirty || mesh.RenderData == nil {
		t.Errorf("revision %d dirty %v render data %v", mesh.Revision, mesh.Dirty, mesh.RenderData != nil)
	}
	if len(mesh.Materials) != 2 {
		t.Fatalf("got %d material slots", len(mesh.Materials))
	}
	if mesh.Materials[0].Material.GUID != body.GUID {
		t.Errorf("slot 0 bound to %v, want %v", mesh.Materials[0].Material, body)
	}
	if mesh.Materials[1].Material.GUID != store.DefaultMaterial().GUID {
		t.Errorf("unresolved slot bound to %v, want the default material", mesh.Materials[1].Material)
	}
	if len(mesh.RenderData.Sections) != 2 {
		t.Errorf("got %d render sections", len(mesh.RenderData.Sections))
	}
	if !mesh.Skeleton.IsValid() {
		t.Error("mesh has no skeleton")
	}
}

func TestBuildSkeletalMeshAssetCreateNew(t *testing.T) {
	store := content.NewMemoryStore()
	params := content.PackageParams{ReplaceMode: content.CreateNewAssets}

	first := buildMesh(t, store, testbed.NewTube("hero", 1, 3, 4), params, nil)
	second := buildMesh(t, store, testbed.NewTube("hero", 1, 3, 4), params, nil)
	if first.GUID == second.GUID {
		t.Fatal("create new mode reused the asset")
	}
	if second.Path != "/Game/HoudiniEngine/Temp/test/hero_1.hero_1" {
		t.Errorf("second asset at %q", second.Path)
	}
}

func TestBuildSkeletalMeshAssetFailureDeletesNewAsset(t *testing.T) {
	store := content.NewMemoryStore()
	s, parts := bundleOf(t, testbed.NewTube("hero", 1, 3, 4))
	bs := settingsFor(t, s, parts)
	data, err := BuildImportData(s, bs)
	if err != nil {
		t.Fatal(err)
	}
	skel, err := ResolveSkeleton(store, bs, data)
	if err != nil {
		t.Fatal(err)
	}

	broken := data.Clone()
	broken.Faces[0].Wedges[0] = 9999
	if _, err := BuildSkeletalMeshAsset(store, broken, skel.Ref, bs, nil); err == nil {
		t.Fatal("expected a failure")
	}
	if got := store.Assets(content.ClassSkeletalMesh); len(got) != 0 {
		t.Errorf("partial asset left behind: %v", got)
	}
}
