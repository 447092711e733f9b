package meshdata

import (
	"fmt"

	"github.com/spaghettifunk/anima-hengine/engine/core"
	"github.com/spaghettifunk/anima-hengine/engine/math"
)

// ValidateHierarchy checks that the bones form a single rooted tree: exactly
// one root with parent -1, every other parent in range, no cycles and unique
// names.
func ValidateHierarchy(bones []Bone) error {
	if len(bones) == 0 {
		return fmt.Errorf("%w: no bones", core.ErrMalformedHierarchy)
	}

	names := make(map[string]int, len(bones))
	root := -1
	for i, b := range bones {
		if prev, ok := names[b.Name]; ok {
			return fmt.Errorf("%w: bones %d and %d are both named '%s'", core.ErrMalformedHierarchy, prev, i, b.Name)
		}
		names[b.Name] = i

		switch {
		case b.ParentIndex == -1:
			if root != -1 {
				return fmt.Errorf("%w: multiple roots ('%s' and '%s')", core.ErrMalformedHierarchy, bones[root].Name, b.Name)
			}
			root = i
		case b.ParentIndex < -1 || int(b.ParentIndex) >= len(bones):
			return fmt.Errorf("%w: bone '%s' has parent %d out of range", core.ErrMalformedHierarchy, b.Name, b.ParentIndex)
		case int(b.ParentIndex) == i:
			return fmt.Errorf("%w: bone '%s' is its own parent", core.ErrMalformedHierarchy, b.Name)
		}
	}
	if root == -1 {
		return fmt.Errorf("%w: no root bone", core.ErrMalformedHierarchy)
	}

	// Walking up from each bone must reach the root within len(bones) steps.
	for i := range bones {
		cur := int32(i)
		for steps := 0; cur != -1; steps++ {
			if steps > len(bones) {
				return fmt.Errorf("%w: cycle through bone '%s'", core.ErrMalformedHierarchy, bones[i].Name)
			}
			cur = bones[cur].ParentIndex
		}
	}
	return nil
}

// Validate checks the cross references of the import data.
func (d *ImportData) Validate() error {
	if err := ValidateHierarchy(d.Bones); err != nil {
		return err
	}
	if d.Bones[0].ParentIndex != -1 {
		return fmt.Errorf("%w: bone 0 '%s' is not the root", core.ErrMalformedHierarchy, d.Bones[0].Name)
	}
	for i, b := range d.Bones {
		if b.ParentIndex >= int32(i) {
			return fmt.Errorf("%w: bone '%s' precedes its parent", core.ErrMalformedHierarchy, b.Name)
		}
	}

	if len(d.Skin) != len(d.Points) {
		return fmt.Errorf("%w: %d points but %d skin entries", core.ErrInconsistentCounts, len(d.Points), len(d.Skin))
	}
	for p, s := range d.Skin {
		if len(s.Bones) != d.MaxInfluences || len(s.Weights) != d.MaxInfluences {
			return fmt.Errorf("%w: point %d has %d/%d influence slots, expected %d", core.ErrInconsistentCounts, p, len(s.Bones), len(s.Weights), d.MaxInfluences)
		}
		for _, b := range s.Bones {
			if b < 0 || int(b) >= len(d.Bones) {
				return fmt.Errorf("%w: point %d references bone %d of %d", core.ErrMalformedHierarchy, p, b, len(d.Bones))
			}
		}
		if sum := s.WeightSum(); !math.NearlyEqual(sum, 1, WeightTolerance) {
			return fmt.Errorf("%w: point %d weights sum to %f", core.ErrInconsistentCounts, p, sum)
		}
	}

	for i, w := range d.Wedges {
		if int(w.PointIndex) >= len(d.Points) {
			return fmt.Errorf("%w: wedge %d references point %d of %d", core.ErrInconsistentCounts, i, w.PointIndex, len(d.Points))
		}
		if len(w.UVs) != d.NumTexCoords {
			return fmt.Errorf("%w: wedge %d has %d uv channels, expected %d", core.ErrInconsistentCounts, i, len(w.UVs), d.NumTexCoords)
		}
	}
	for i, f := range d.Faces {
		for _, w := range f.Wedges {
			if int(w) >= len(d.Wedges) {
				return fmt.Errorf("%w: face %d references wedge %d of %d", core.ErrInconsistentCounts, i, w, len(d.Wedges))
			}
		}
		if f.MaterialIndex < 0 || int(f.MaterialIndex) >= len(d.MaterialSlots) {
			return fmt.Errorf("%w: face %d uses material %d of %d", core.ErrInconsistentCounts, i, f.MaterialIndex, len(d.MaterialSlots))
		}
	}
	return nil
}
