package skeletal

import (
	"fmt"
	"path"
	"strings"

	"github.com/spaghettifunk/anima-hengine/engine/core"
	"github.com/spaghettifunk/anima-hengine/engine/houdini"
	"github.com/spaghettifunk/anima-hengine/engine/math"
	"github.com/spaghettifunk/anima-hengine/engine/meshdata"
)

// joint is one point of the capture pose, in solver order.
type joint struct {
	name   string
	parent int32
	world  math.Mat4
}

// skeletonDesc is the capture pose sorted parents first.
type skeletonDesc struct {
	bones []meshdata.Bone
	// remap maps a joint (solver point) index to its bone index.
	remap []int32
}

// readJoints reads names and world bind matrices of the capture pose joints.
func readJoints(s houdini.Session, settings BuildSettings) ([]joint, error) {
	pose := *settings.Parts.PoseMesh

	posInfo := houdini.GetAttrInfo(s, pose.GeoID, pose.PartID, houdini.AttrPosition, houdini.OwnerPoint)
	if !posInfo.Exists || posInfo.TupleSize < 3 {
		return nil, fmt.Errorf("%w: %s has no point positions", core.ErrAttributeMissing, pose)
	}
	positions, err := houdini.ReadFloats(s, pose.GeoID, pose.PartID, houdini.AttrPosition, posInfo)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", pose, err)
	}
	count := posInfo.Count
	if count == 0 {
		return nil, fmt.Errorf("%w: %s has no joints", core.ErrMalformedHierarchy, pose)
	}

	nameInfo := houdini.GetAttrInfo(s, pose.GeoID, pose.PartID, houdini.AttrName, houdini.OwnerPoint)
	if !nameInfo.Exists || nameInfo.Storage != houdini.StorageString {
		return nil, fmt.Errorf("%w: %s has no point attribute '%s'", core.ErrAttributeMissing, pose, houdini.AttrName)
	}
	names, err := houdini.ReadStrings(s, pose.GeoID, pose.PartID, houdini.AttrName, nameInfo)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", pose, err)
	}

	xformInfo := houdini.GetAttrInfo(s, pose.GeoID, pose.PartID, houdini.AttrTransform, houdini.OwnerPoint)
	if !xformInfo.Exists || xformInfo.TupleSize != 9 {
		return nil, fmt.Errorf("%w: %s has no 3x3 point attribute '%s'", core.ErrAttributeMissing, pose, houdini.AttrTransform)
	}
	xforms, err := houdini.ReadFloats(s, pose.GeoID, pose.PartID, houdini.AttrTransform, xformInfo)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", pose, err)
	}

	if nameInfo.Count != count || xformInfo.Count != count || nameInfo.TupleSize != 1 {
		return nil, fmt.Errorf("%w: %s has %d points, %d names and %d transforms", core.ErrInconsistentCounts, pose, count, nameInfo.Count, xformInfo.Count)
	}

	instancer := *settings.Parts.PoseInstancer
	instances, err := s.GetInstancerPartTransforms(instancer.GeoID, instancer.PartID)
	if err != nil {
		return nil, fmt.Errorf("%s: reading instance transforms: %w", instancer, err)
	}

	joints := make([]joint, count)
	for i := 0; i < count; i++ {
		var basis [9]float32
		copy(basis[:], xforms[i*9:i*9+9])
		p := posInfo.TupleSize * i
		world := math.NewMat4FromBasis(basis, math.NewVec3(positions[p], positions[p+1], positions[p+2]))

		switch {
		case count > 1 && len(instances) == count:
			// one packed instance per joint: the instances are the binds
			world = instances[i].ToMat4()
		case len(instances) > 0:
			world = world.Mul(instances[0].ToMat4())
		}

		name := strings.TrimSpace(names[i])
		if name == "" {
			return nil, fmt.Errorf("%w: %s joint %d has no name", core.ErrMalformedHierarchy, pose, i)
		}
		joints[i] = joint{
			name:   name,
			parent: -1,
			world:  world,
		}
	}

	if err := linkJoints(s, pose, joints); err != nil {
		return nil, err
	}
	return joints, nil
}

// linkJoints fills in the parent of every joint from the first linkage source
// found: an int "parent" point attribute, "path" point names, or two point
// polylines going from parent to child.
func linkJoints(s houdini.Session, pose houdini.GeoPartObject, joints []joint) error {
	if info := houdini.GetAttrInfo(s, pose.GeoID, pose.PartID, houdini.AttrParent, houdini.OwnerPoint); info.Exists {
		parents, err := houdini.ReadInts(s, pose.GeoID, pose.PartID, houdini.AttrParent, info)
		if err != nil {
			return fmt.Errorf("%s: %w", pose, err)
		}
		if info.Count != len(joints) || info.TupleSize != 1 {
			return fmt.Errorf("%w: %s has %d joints and %d parents", core.ErrInconsistentCounts, pose, len(joints), info.Count)
		}
		for i, p := range parents {
			joints[i].parent = p
		}
		return nil
	}

	if info := houdini.GetAttrInfo(s, pose.GeoID, pose.PartID, houdini.AttrPath, houdini.OwnerPoint); info.Exists && info.Storage == houdini.StorageString {
		paths, err := houdini.ReadStrings(s, pose.GeoID, pose.PartID, houdini.AttrPath, info)
		if err != nil {
			return fmt.Errorf("%s: %w", pose, err)
		}
		if info.Count != len(joints) || info.TupleSize != 1 {
			return fmt.Errorf("%w: %s has %d joints and %d paths", core.ErrInconsistentCounts, pose, len(joints), info.Count)
		}
		return linkByPath(pose, joints, paths)
	}

	faceCounts, err := s.GetFaceCounts(pose.GeoID, pose.PartID)
	if err != nil {
		return fmt.Errorf("%s: %w", pose, err)
	}
	if len(faceCounts) == 0 {
		if len(joints) == 1 {
			return nil
		}
		return fmt.Errorf("%w: %s has neither '%s', '%s' nor bone primitives", core.ErrAttributeMissing, pose, houdini.AttrParent, houdini.AttrPath)
	}
	vertices, err := s.GetVertexList(pose.GeoID, pose.PartID)
	if err != nil {
		return fmt.Errorf("%s: %w", pose, err)
	}
	return linkByPolylines(pose, joints, faceCounts, vertices)
}

func linkByPath(pose houdini.GeoPartObject, joints []joint, paths []string) error {
	byName := make(map[string]int32, len(joints))
	for i, j := range joints {
		byName[j.name] = int32(i)
	}
	for i, p := range paths {
		p = strings.Trim(strings.TrimSpace(p), "/")
		if p == "" {
			return fmt.Errorf("%w: %s joint '%s' has an empty path", core.ErrMalformedHierarchy, pose, joints[i].name)
		}
		dir := path.Dir(p)
		if dir == "." {
			joints[i].parent = -1
			continue
		}
		parentName := path.Base(dir)
		idx, ok := byName[parentName]
		if !ok {
			return fmt.Errorf("%w: %s joint '%s' has unknown parent '%s'", core.ErrMalformedHierarchy, pose, joints[i].name, parentName)
		}
		joints[i].parent = idx
	}
	return nil
}

func linkByPolylines(pose houdini.GeoPartObject, joints []joint, faceCounts, vertices []int32) error {
	offset := 0
	for f, n := range faceCounts {
		if n < 0 || offset+int(n) > len(vertices) {
			return fmt.Errorf("%w: %s primitive %d runs past the vertex list", core.ErrInconsistentCounts, pose, f)
		}
		if n != 2 {
			offset += int(n)
			continue
		}
		parent, child := vertices[offset], vertices[offset+1]
		offset += 2
		if parent < 0 || int(parent) >= len(joints) || child < 0 || int(child) >= len(joints) {
			return fmt.Errorf("%w: %s primitive %d references a missing joint", core.ErrMalformedHierarchy, pose, f)
		}
		if joints[child].parent != -1 && joints[child].parent != parent {
			return fmt.Errorf("%w: %s joint '%s' has two parents", core.ErrMalformedHierarchy, pose, joints[child].name)
		}
		joints[child].parent = parent
	}
	return nil
}

// sortJoints validates the joint tree and orders it breadth first from the
// root, so that parents precede children. Local binds are computed against
// the parent's world bind.
func sortJoints(joints []joint) (skeletonDesc, error) {
	unsorted := make([]meshdata.Bone, len(joints))
	for i, j := range joints {
		unsorted[i] = meshdata.Bone{Name: j.name, ParentIndex: j.parent}
	}
	if err := meshdata.ValidateHierarchy(unsorted); err != nil {
		return skeletonDesc{}, err
	}

	children := make([][]int32, len(joints))
	root := int32(-1)
	for i, j := range joints {
		if j.parent < 0 {
			root = int32(i)
			continue
		}
		children[j.parent] = append(children[j.parent], int32(i))
	}

	order := make([]int32, 0, len(joints))
	order = append(order, root)
	for head := 0; head < len(order); head++ {
		order = append(order, children[order[head]]...)
	}

	remap := make([]int32, len(joints))
	for newIdx, oldIdx := range order {
		remap[oldIdx] = int32(newIdx)
	}

	bones := make([]meshdata.Bone, len(order))
	for newIdx, oldIdx := range order {
		j := joints[oldIdx]
		b := meshdata.Bone{
			Name:        j.name,
			ParentIndex: -1,
			NumChildren: int32(len(children[oldIdx])),
		}
		local := j.world
		if j.parent >= 0 {
			b.ParentIndex = remap[j.parent]
			local = j.world.Mul(joints[j.parent].world.Inverse())
		}
		b.BindPose = local.Decompose()
		bones[newIdx] = b
	}
	return skeletonDesc{bones: bones, remap: remap}, nil
}
