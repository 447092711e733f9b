package content

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"github.com/spaghettifunk/anima-hengine/engine/core"
	"github.com/spaghettifunk/anima-hengine/engine/math"
	"github.com/spaghettifunk/anima-hengine/engine/meshdata"
)

func TestPackageParamsPaths(t *testing.T) {
	guid := uuid.MustParse("0f1e2d3c-4b5a-6978-8796-a5b4c3d2e1f0")
	cases := []struct {
		name     string
		params   PackageParams
		wantName string
		wantPath string
	}{
		{
			name: "cook generated name",
			params: PackageParams{
				HoudiniAssetName: "character",
				ComponentGUID:    guid,
				ObjectID:         1, GeoID: 2, PartID: 3,
			},
			wantName: "character_1_2_3",
			wantPath: "/Game/HoudiniEngine/Temp/character/0f1e2d3c",
		},
		{
			name: "explicit object name with split",
			params: PackageParams{
				HoudiniAssetName: "character",
				ObjectName:       "hero body",
				SplitStr:         "main",
			},
			wantName: "hero_body",
			wantPath: "/Game/HoudiniEngine/Temp/character",
		},
		{
			name: "bake",
			params: PackageParams{
				PackageMode:      PackageModeBake,
				BakeFolder:       "/Game/Characters/",
				HoudiniAssetName: "character",
				SplitStr:         "lod0",
			},
			wantName: "character_0_0_0_lod0",
			wantPath: "/Game/Characters",
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.params.GetPackageName(); got != c.wantName {
				t.Errorf("GetPackageName() = %q, want %q", got, c.wantName)
			}
			if got := c.params.GetPackagePath(); got != c.wantPath {
				t.Errorf("GetPackagePath() = %q, want %q", got, c.wantPath)
			}
		})
	}
}

func TestObjectPath(t *testing.T) {
	if got := ObjectPath("/Game/A/Hero"); got != "/Game/A/Hero.Hero" {
		t.Errorf("ObjectPath = %q", got)
	}
	if got := ObjectPath("/Game/A/Hero.Hero"); got != "/Game/A/Hero.Hero" {
		t.Errorf("ObjectPath = %q", got)
	}
	if got := PackageOf("/Game/A/Hero.Hero"); got != "/Game/A/Hero" {
		t.Errorf("PackageOf = %q", got)
	}
	if got := PackageOf("/Game/A.b/Hero"); got != "/Game/A.b/Hero" {
		t.Errorf("PackageOf = %q", got)
	}
}

func TestMaterialMapPrefersHoudiniMaterials(t *testing.T) {
	generated := AssetRef{Handle: core.Handle{ID: 1}, GUID: uuid.New(), Path: "/Game/M.M", Class: ClassMaterial}
	existing := AssetRef{Handle: core.Handle{ID: 2}, GUID: uuid.New(), Path: "/Game/M.M", Class: ClassMaterial}
	mm := MaterialMap{
		{ObjectPath: "/Game/M.M"}:                          existing,
		{ObjectPath: "/Game/M.M", IsHoudiniMaterial: true}: generated,
	}
	if ref, ok := mm.Lookup("/Game/M.M"); !ok || ref.GUID != generated.GUID {
		t.Errorf("Lookup returned %v, %v", ref, ok)
	}
	if _, ok := mm.Lookup(""); ok {
		t.Error("empty slot name should not resolve")
	}
}

func TestStoreFindOrCreateKeepsIdentity(t *testing.T) {
	store := NewMemoryStore()

	pkg, err := store.FindOrCreatePackage("/Game/Test/Hero")
	if err != nil {
		t.Fatal(err)
	}
	first, created, err := store.FindOrCreateAsset(pkg, "Hero", ClassSkeletalMesh)
	if err != nil || !created {
		t.Fatalf("first FindOrCreateAsset: created=%v err=%v", created, err)
	}
	second, created, err := store.FindOrCreateAsset(pkg, "Hero", ClassSkeletalMesh)
	if err != nil || created {
		t.Fatalf("second FindOrCreateAsset: created=%v err=%v", created, err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("asset identity changed (-first +second):\n%s", diff)
	}

	found, ok := store.FindAsset("/Game/Test/Hero", ClassSkeletalMesh)
	if !ok || found.GUID != first.GUID {
		t.Errorf("FindAsset = %v, %v", found, ok)
	}
	if _, ok := store.FindAsset("/Game/Test/Hero", ClassSkeleton); ok {
		t.Error("FindAsset matched the wrong class")
	}

	if _, _, err := store.FindOrCreateAsset(pkg, "Hero", ClassSkeleton); !errors.Is(err, core.ErrAssetCommitFailed) {
		t.Errorf("class clash error = %v", err)
	}
}

func TestStoreRejectsRelativePackage(t *testing.T) {
	store := NewMemoryStore()
	if _, err := store.FindOrCreatePackage("Game/Hero"); !errors.Is(err, core.ErrPackageCreationFailed) {
		t.Errorf("err = %v", err)
	}
}

func TestStoreDeleteInvalidatesHandle(t *testing.T) {
	store := NewMemoryStore()
	pkg, _ := store.FindOrCreatePackage("/Game/Test/Skel")
	ref, _, err := store.FindOrCreateAsset(pkg, "Skel", ClassSkeleton)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.DeleteAsset(ref); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Skeleton(ref); !errors.Is(err, core.ErrAssetNotFound) {
		t.Errorf("Skeleton after delete: %v", err)
	}
	if _, ok := store.FindAsset(ref.Path, ClassSkeleton); ok {
		t.Error("deleted asset still found")
	}

	// The freed slot is reused with a new generation.
	again, created, err := store.FindOrCreateAsset(pkg, "Skel", ClassSkeleton)
	if err != nil || !created {
		t.Fatalf("recreate: created=%v err=%v", created, err)
	}
	if again.GUID == ref.GUID || again.Handle == ref.Handle {
		t.Errorf("recreated asset reuses the old identity: %v", again)
	}
}

func TestStoreDirtyPackages(t *testing.T) {
	store := NewMemoryStore()
	committed, _ := store.FindOrCreatePackage("/Game/Test/Skel")
	if _, err := store.FindOrCreatePackage("/Game/Test/Untouched"); err != nil {
		t.Fatal(err)
	}
	ref, _, err := store.FindOrCreateAsset(committed, "Skel", ClassSkeleton)
	if err != nil {
		t.Fatal(err)
	}
	if got := store.DirtyPackages(); len(got) != 0 {
		t.Errorf("dirty before commit: %v", got)
	}
	if err := store.Commit(ref); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"/Game/Test/Skel"}, store.DirtyPackages()); diff != "" {
		t.Errorf("dirty packages (-want +got):\n%s", diff)
	}
}

func TestStoreDefaultMaterial(t *testing.T) {
	store := NewMemoryStore()
	ref := store.DefaultMaterial()
	m, err := store.Material(ref)
	if err != nil {
		t.Fatal(err)
	}
	if m.Path != defaultMaterialPath {
		t.Errorf("default material path = %q", m.Path)
	}
	if err := store.DeleteAsset(ref); err == nil {
		t.Error("default material was deleted")
	}
}

func quadImportData(hasNormals bool) *meshdata.ImportData {
	up := math.NewVec3(0, 0, 1)
	return &meshdata.ImportData{
		Points: []math.Vec3{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}},
		Wedges: []meshdata.Wedge{
			{PointIndex: 0, Normal: up}, {PointIndex: 1, Normal: up}, {PointIndex: 2, Normal: up},
			{PointIndex: 0, Normal: up}, {PointIndex: 2, Normal: up}, {PointIndex: 3, Normal: up},
		},
		Faces: []meshdata.Face{
			{Wedges: [3]uint32{0, 1, 2}, MaterialIndex: 1},
			{Wedges: [3]uint32{3, 4, 5}, MaterialIndex: 0},
		},
		Skin: []meshdata.VertexInfluences{
			{Bones: []int32{0}, Weights: []float32{1}},
			{Bones: []int32{0}, Weights: []float32{1}},
			{Bones: []int32{0}, Weights: []float32{1}},
			{Bones: []int32{0}, Weights: []float32{1}},
		},
		Bones:         []meshdata.Bone{{Name: "root", ParentIndex: -1, BindPose: math.TransformCreate()}},
		MaterialSlots: []string{"a", "b"},
		MaxInfluences: 1,
		HasNormals:    hasNormals,
	}
}

func TestBuildRenderData(t *testing.T) {
	mesh := &SkeletalMesh{Path: "/Game/Quad.Quad"}
	if err := mesh.BuildRenderData(); err == nil {
		t.Fatal("expected an error without LOD data")
	}
	if err := mesh.SetLODImportData(1, quadImportData(true)); err == nil {
		t.Fatal("expected LOD 1 to be rejected")
	}
	if err := mesh.SetLODImportData(0, quadImportData(true)); err != nil {
		t.Fatal(err)
	}
	if err := mesh.BuildRenderData(); err != nil {
		t.Fatal(err)
	}

	rd := mesh.RenderData
	if len(rd.Vertices) != 4 {
		t.Errorf("got %d vertices, want 4 shared ones", len(rd.Vertices))
	}
	want := []RenderSection{
		{MaterialIndex: 0, BaseIndex: 0, NumTriangles: 1},
		{MaterialIndex: 1, BaseIndex: 3, NumTriangles: 1},
	}
	if diff := cmp.Diff(want, rd.Sections); diff != "" {
		t.Errorf("sections mismatch (-want +got):\n%s", diff)
	}
	if !rd.Bounds.Max.Compare(math.NewVec3(1, 1, 0), math.K_FLOAT_EPSILON) {
		t.Errorf("bounds max = %v", rd.Bounds.Max)
	}
}

func TestBuildRenderDataGeneratesNormals(t *testing.T) {
	mesh := &SkeletalMesh{Path: "/Game/Quad.Quad"}
	if err := mesh.SetLODImportData(0, quadImportData(false)); err != nil {
		t.Fatal(err)
	}
	if err := mesh.BuildRenderData(); err != nil {
		t.Fatal(err)
	}
	for i, v := range mesh.RenderData.Vertices {
		if v.Normal.Length() < 0.99 {
			t.Errorf("vertex %d has no generated normal: %v", i, v.Normal)
		}
	}
}

func TestSkeletonCheckCompatible(t *testing.T) {
	skel := &Skeleton{Path: "/Game/S.S"}
	skel.SetBones([]meshdata.Bone{
		{Name: "root", ParentIndex: -1},
		{Name: "spine", ParentIndex: 0},
		{Name: "neck", ParentIndex: 1},
		{Name: "arm", ParentIndex: 1},
	})

	// A sub-hierarchy rooted anywhere is fine.
	sub := []meshdata.Bone{{Name: "spine", ParentIndex: -1}, {Name: "neck", ParentIndex: 0}}
	if err := skel.CheckCompatible(sub); err != nil {
		t.Errorf("CheckCompatible(sub) = %v", err)
	}

	reparented := []meshdata.Bone{{Name: "root", ParentIndex: -1}, {Name: "neck", ParentIndex: 0}}
	if err := skel.CheckCompatible(reparented); !errors.Is(err, core.ErrSkeletonMismatch) {
		t.Errorf("reparented bone: %v", err)
	}
	missing := []meshdata.Bone{{Name: "root", ParentIndex: -1}, {Name: "tail", ParentIndex: 0}}
	if err := skel.CheckCompatible(missing); !errors.Is(err, core.ErrSkeletonMismatch) {
		t.Errorf("missing bone: %v", err)
	}
	if skel.Revision != 1 {
		t.Errorf("CheckCompatible mutated the skeleton, revision %d", skel.Revision)
	}
}
