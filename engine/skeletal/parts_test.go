package skeletal

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/spaghettifunk/anima-hengine/engine/houdini"
	"github.com/spaghettifunk/anima-hengine/engine/math"
	"github.com/spaghettifunk/anima-hengine/testbed"
)

func TestCollectBundlesFromDemo(t *testing.T) {
	s, parts := testbed.NewDemoSession()

	classified := ClassifyParts(s, parts)
	if len(classified) != 8 {
		t.Fatalf("classified %d parts, want 8", len(classified))
	}
	for _, cp := range classified {
		if cp.Part.PartName == "ground" {
			t.Errorf("unrelated part classified as %s", cp.Role)
		}
	}

	complete, incomplete := CollectBundles(classified)
	if len(incomplete) != 0 {
		t.Errorf("unexpected incomplete bundles: %v", incomplete)
	}
	names := make([]string, 0, len(complete))
	for _, b := range complete {
		names = append(names, b.BaseName)
		if b.MainPart() != b.ShapeInstancer {
			t.Errorf("%s: main part is not the shape instancer", b.BaseName)
		}
	}
	if diff := cmp.Diff([]string{"hero", "sidekick"}, names); diff != "" {
		t.Errorf("bundles (-want +got):\n%s", diff)
	}
}

func TestCollectBundlesIncomplete(t *testing.T) {
	s := houdini.NewMemorySession()
	c := testbed.NewTube("lonely", 1, 3, 4)
	parts := c.Add(s)

	// keep only the shape instancer and the shape mesh
	complete, incomplete := CollectBundles(ClassifyParts(s, parts[:2]))
	if len(complete) != 0 {
		t.Fatalf("got %d complete bundles", len(complete))
	}
	if len(incomplete) != 1 {
		t.Fatalf("got %d incomplete bundles", len(incomplete))
	}
	want := []PartRole{RolePoseInstancer, RolePoseMesh}
	if diff := cmp.Diff(want, incomplete[0].Missing()); diff != "" {
		t.Errorf("missing roles (-want +got):\n%s", diff)
	}
}

func TestCollectBundlesDuplicateRoleKeepsFirst(t *testing.T) {
	s := houdini.NewMemorySession()
	c := testbed.NewTube("twin", 1, 3, 4)
	parts := c.Add(s)

	classified := ClassifyParts(s, parts)
	dup := classified[0]
	dup.Part.PartID = 42
	classified = append(classified, dup)

	complete, _ := CollectBundles(classified)
	if len(complete) != 1 {
		t.Fatalf("got %d complete bundles", len(complete))
	}
	if complete[0].ShapeInstancer.PartID != parts[0].PartID {
		t.Errorf("shape instancer is part %d, want the first one (%d)", complete[0].ShapeInstancer.PartID, parts[0].PartID)
	}
}

func TestClassifyPartsFollowsInstancerRole(t *testing.T) {
	s := houdini.NewMemorySession()
	parts := testbed.NewTube("hero", 1, 3, 4).Add(s)

	// the pose mesh also carries capture weights; its instancer still makes it a pose mesh
	pose, ok := s.Part(1, parts[3].PartID)
	if !ok {
		t.Fatal("pose mesh not in the session")
	}
	pose.SetFloats(houdini.AttrBoneCaptureData, houdini.OwnerPoint, 1, []float32{1, 1, 1})

	complete, incomplete := CollectBundles(ClassifyParts(s, parts))
	if len(complete) != 1 || len(incomplete) != 0 {
		t.Fatalf("got %d complete, %d incomplete bundles", len(complete), len(incomplete))
	}
	if got := complete[0].PoseMesh.PartID; got != parts[3].PartID {
		t.Errorf("pose slot holds part %d, want %d", got, parts[3].PartID)
	}
	if got := complete[0].ShapeMesh.PartID; got != parts[1].PartID {
		t.Errorf("shape slot holds part %d, want %d", got, parts[1].PartID)
	}
}

func TestClassifyPartsRejectsMeshWithoutRoleAttributes(t *testing.T) {
	s := houdini.NewMemorySession()
	parts := testbed.NewTube("hero", 1, 3, 4).Add(s)

	// the pose instancer claims the shape mesh, which has no pose transforms
	pose, _ := s.Part(1, parts[2].PartID)
	pose.SetInstances([]houdini.PartID{parts[1].PartID}, []math.Transform{math.TransformCreate()})

	for _, cp := range ClassifyParts(s, parts) {
		if cp.Part.PartID == parts[1].PartID {
			t.Errorf("shape mesh classified as %s", cp.Role)
		}
	}
}
