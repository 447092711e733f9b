package skeletal

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/spaghettifunk/anima-hengine/engine/core"
	"github.com/spaghettifunk/anima-hengine/engine/houdini"
	"github.com/spaghettifunk/anima-hengine/engine/meshdata"
)

type influence struct {
	bone   int32
	weight float32
}

// captureRegionBone returns the bone a capture region belongs to: the
// region "/obj/rig/spine/cregion 0" captures with bone "spine".
func captureRegionBone(region string) string {
	p := strings.TrimSpace(region)
	if strings.HasPrefix(path.Base(p), "cregion") {
		p = path.Dir(p)
	}
	return path.Base(p)
}

// readCaptureRegions maps capture region indices to bone indices. Without
// region names, region i is joint i of the capture pose.
func readCaptureRegions(s houdini.Session, shape houdini.GeoPartObject, skel skeletonDesc) ([]int32, error) {
	info := houdini.GetAttrInfo(s, shape.GeoID, shape.PartID, houdini.AttrBoneCapturePath, houdini.OwnerDetail)
	if !info.Exists || info.Storage != houdini.StorageString {
		return skel.remap, nil
	}
	regions, err := houdini.ReadStrings(s, shape.GeoID, shape.PartID, houdini.AttrBoneCapturePath, info)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", shape, err)
	}

	byName := make(map[string]int32, len(skel.bones))
	for i, b := range skel.bones {
		byName[b.Name] = int32(i)
	}
	out := make([]int32, len(regions))
	for i, r := range regions {
		name := captureRegionBone(r)
		idx, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s capture region '%s' names no joint of the capture pose", core.ErrMalformedHierarchy, shape, r)
		}
		out[i] = idx
	}
	return out, nil
}

// readSkin reads the bone capture of every point of the shape mesh and
// reduces it to at most maxInfluences influences per point.
func readSkin(s houdini.Session, settings BuildSettings, pointCount int, skel skeletonDesc) ([]meshdata.VertexInfluences, error) {
	shape := *settings.Parts.ShapeMesh

	dataInfo := houdini.GetAttrInfo(s, shape.GeoID, shape.PartID, houdini.AttrBoneCaptureData, houdini.OwnerPoint)
	indexInfo := houdini.GetAttrInfo(s, shape.GeoID, shape.PartID, houdini.AttrBoneCaptureIndex, houdini.OwnerPoint)
	if !dataInfo.Exists || !indexInfo.Exists {
		return nil, fmt.Errorf("%w: %s needs point attributes '%s' and '%s'", core.ErrAttributeMissing, shape, houdini.AttrBoneCaptureIndex, houdini.AttrBoneCaptureData)
	}
	if dataInfo.TupleSize != indexInfo.TupleSize || dataInfo.Count != pointCount || indexInfo.Count != pointCount {
		return nil, fmt.Errorf("%w: %s has %d points, capture indices %dx%d and weights %dx%d", core.ErrInconsistentCounts, shape,
			pointCount, indexInfo.Count, indexInfo.TupleSize, dataInfo.Count, dataInfo.TupleSize)
	}

	weights, err := houdini.ReadFloats(s, shape.GeoID, shape.PartID, houdini.AttrBoneCaptureData, dataInfo)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", shape, err)
	}
	indices, err := houdini.ReadInts(s, shape.GeoID, shape.PartID, houdini.AttrBoneCaptureIndex, indexInfo)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", shape, err)
	}

	regions, err := readCaptureRegions(s, shape, skel)
	if err != nil {
		return nil, err
	}

	k := dataInfo.TupleSize
	skin := make([]meshdata.VertexInfluences, pointCount)
	raw := make([]influence, 0, k)
	for p := 0; p < pointCount; p++ {
		raw = raw[:0]
		for j := 0; j < k; j++ {
			region := indices[p*k+j]
			if region < 0 {
				continue
			}
			if int(region) >= len(regions) {
				return nil, fmt.Errorf("%w: %s point %d is captured by region %d, only %d exist", core.ErrInconsistentCounts, shape, p, region, len(regions))
			}
			raw = append(raw, influence{bone: regions[region], weight: weights[p*k+j]})
		}
		skin[p] = limitInfluences(raw, settings.MaxInfluences)
	}
	return skin, nil
}

// limitInfluences merges duplicate bones, keeps the maxInfluences heaviest
// (ties go to the lower bone index) and renormalizes. A point without weight
// is bound to the root. The result has exactly maxInfluences slots.
func limitInfluences(raw []influence, maxInfluences int) meshdata.VertexInfluences {
	merged := make([]influence, 0, len(raw))
	for _, in := range raw {
		if !(in.weight > 0) {
			continue
		}
		found := false
		for i := range merged {
			if merged[i].bone == in.bone {
				merged[i].weight += in.weight
				found = true
				break
			}
		}
		if !found {
			merged = append(merged, in)
		}
	}

	sort.Slice(merged, func(i, j int) bool {
		if merged[i].weight != merged[j].weight {
			return merged[i].weight > merged[j].weight
		}
		return merged[i].bone < merged[j].bone
	})
	if len(merged) > maxInfluences {
		merged = merged[:maxInfluences]
	}

	sum := float32(0)
	for _, in := range merged {
		sum += in.weight
	}
	if sum <= 0 {
		merged = append(merged[:0], influence{bone: 0, weight: 1})
		sum = 1
	}

	out := meshdata.VertexInfluences{
		Bones:   make([]int32, maxInfluences),
		Weights: make([]float32, maxInfluences),
	}
	for i, in := range merged {
		out.Bones[i] = in.bone
		out.Weights[i] = in.weight / sum
	}
	return out
}
