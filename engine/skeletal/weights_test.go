package skeletal

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/spaghettifunk/anima-hengine/engine/meshdata"
)

func TestLimitInfluences(t *testing.T) {
	cases := []struct {
		name string
		raw  []influence
		max  int
		want meshdata.VertexInfluences
	}{
		{
			name: "keeps the heaviest",
			raw:  []influence{{0, 0.3}, {2, 0.7}},
			max:  1,
			want: meshdata.VertexInfluences{Bones: []int32{2}, Weights: []float32{1}},
		},
		{
			name: "merges duplicate bones",
			raw:  []influence{{1, 0.25}, {3, 0.5}, {1, 0.25}},
			max:  2,
			want: meshdata.VertexInfluences{Bones: []int32{1, 3}, Weights: []float32{0.5, 0.5}},
		},
		{
			name: "ties go to the lower bone",
			raw:  []influence{{4, 0.5}, {2, 0.5}},
			max:  1,
			want: meshdata.VertexInfluences{Bones: []int32{2}, Weights: []float32{1}},
		},
		{
			name: "pads unused slots",
			raw:  []influence{{1, 2}},
			max:  3,
			want: meshdata.VertexInfluences{Bones: []int32{1, 0, 0}, Weights: []float32{1, 0, 0}},
		},
		{
			name: "no weight binds to the root",
			raw:  []influence{{1, 0}, {2, -1}},
			max:  2,
			want: meshdata.VertexInfluences{Bones: []int32{0, 0}, Weights: []float32{1, 0}},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := limitInfluences(c.raw, c.max)
			if diff := cmp.Diff(c.want, got); diff != "" {
				t.Errorf("influences (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCaptureRegionBone(t *testing.T) {
	cases := map[string]string{
		"/obj/rig/spine/cregion 0": "spine",
		"rig/head/cregion 1":       "head",
		"root":                     "root",
		" arm ":                    "arm",
	}
	for region, want := range cases {
		if got := captureRegionBone(region); got != want {
			t.Errorf("captureRegionBone(%q) = %q, want %q", region, got, want)
		}
	}
}
