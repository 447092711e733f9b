package content

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/spaghettifunk/anima-hengine/engine/core"
	"github.com/spaghettifunk/anima-hengine/engine/meshdata"
)

// Skeleton is a bone hierarchy shared by skeletal meshes and animations.
type Skeleton struct {
	GUID     uuid.UUID
	Name     string
	Path     string
	Bones    []meshdata.Bone
	Revision int
	Dirty    bool

	nameToIndex map[string]int32
}

// SetBones replaces the hierarchy. The asset keeps its identity.
func (s *Skeleton) SetBones(bones []meshdata.Bone) {
	s.Bones = append([]meshdata.Bone(nil), bones...)
	s.nameToIndex = make(map[string]int32, len(bones))
	for i, b := range s.Bones {
		s.nameToIndex[b.Name] = int32(i)
	}
	s.Revision++
}

func (s *Skeleton) FindBoneIndex(name string) int32 {
	if idx, ok := s.nameToIndex[name]; ok {
		return idx
	}
	return -1
}

func (s *Skeleton) parentName(idx int32) string {
	p := s.Bones[idx].ParentIndex
	if p < 0 {
		return ""
	}
	return s.Bones[p].Name
}

// CheckCompatible verifies that every bone of the hierarchy exists in the
// skeleton under the same parent. The root of the hierarchy may hang anywhere.
func (s *Skeleton) CheckCompatible(bones []meshdata.Bone) error {
	for _, b := range bones {
		idx := s.FindBoneIndex(b.Name)
		if idx < 0 {
			return fmt.Errorf("%w: bone '%s' missing from '%s'", core.ErrSkeletonMismatch, b.Name, s.Path)
		}
		if b.ParentIndex < 0 {
			continue
		}
		want := bones[b.ParentIndex].Name
		if got := s.parentName(idx); got != want {
			return fmt.Errorf("%w: bone '%s' has parent '%s' in '%s', imported parent is '%s'", core.ErrSkeletonMismatch, b.Name, got, s.Path, want)
		}
	}
	return nil
}
