package skeletal

import (
	"sort"
	"strings"

	"github.com/spaghettifunk/anima-hengine/engine/core"
	"github.com/spaghettifunk/anima-hengine/engine/houdini"
)

type PartRole uint8

const (
	RoleNone PartRole = iota
	RoleShapeInstancer
	RoleShapeMesh
	RolePoseInstancer
	RolePoseMesh
)

func (r PartRole) String() string {
	switch r {
	case RoleShapeInstancer:
		return "shape instancer"
	case RoleShapeMesh:
		return "shape mesh"
	case RolePoseInstancer:
		return "pose instancer"
	case RolePoseMesh:
		return "pose mesh"
	}
	return "none"
}

// ClassifiedPart is a part with its role in a packed character.
type ClassifiedPart struct {
	Part     houdini.GeoPartObject
	Role     PartRole
	BaseName string
}

// SkeletalMeshParts groups the four parts that describe one skinned mesh.
type SkeletalMeshParts struct {
	BaseName       string
	ShapeInstancer *houdini.GeoPartObject
	ShapeMesh      *houdini.GeoPartObject
	PoseInstancer  *houdini.GeoPartObject
	PoseMesh       *houdini.GeoPartObject
}

func (p SkeletalMeshParts) IsValid() bool {
	return p.ShapeInstancer != nil && p.ShapeMesh != nil && p.PoseInstancer != nil && p.PoseMesh != nil
}

// MainPart is the part output objects are keyed by.
func (p SkeletalMeshParts) MainPart() *houdini.GeoPartObject {
	return p.ShapeInstancer
}

// Missing lists the roles that have no part.
func (p SkeletalMeshParts) Missing() []PartRole {
	var out []PartRole
	if p.ShapeInstancer == nil {
		out = append(out, RoleShapeInstancer)
	}
	if p.ShapeMesh == nil {
		out = append(out, RoleShapeMesh)
	}
	if p.PoseInstancer == nil {
		out = append(out, RolePoseInstancer)
	}
	if p.PoseMesh == nil {
		out = append(out, RolePoseMesh)
	}
	return out
}

func (p *SkeletalMeshParts) slot(role PartRole) **houdini.GeoPartObject {
	switch role {
	case RoleShapeInstancer:
		return &p.ShapeInstancer
	case RoleShapeMesh:
		return &p.ShapeMesh
	case RolePoseInstancer:
		return &p.PoseInstancer
	case RolePoseMesh:
		return &p.PoseMesh
	}
	return nil
}

type instanceKey struct {
	geo  houdini.NodeID
	part houdini.PartID
}

// ClassifyParts assigns a role to every part taking part in a packed
// character. Meshes take their role and base name from the instancer that
// instances them, and must carry the attributes of that role. Meshes no
// classified instancer instances are classified by their attributes alone.
// Parts with no role are left out.
func ClassifyParts(s houdini.Session, parts []houdini.GeoPartObject) []ClassifiedPart {
	out := make([]ClassifiedPart, 0, len(parts))
	instancedBy := make(map[instanceKey]ClassifiedPart)

	for _, part := range parts {
		if part.Type != houdini.PartTypeInstancer {
			continue
		}
		var (
			role PartRole
			base string
		)
		if ok, name := houdini.IsRestGeometryInstancer(s, part.GeoID, part.PartID); ok {
			role, base = RoleShapeInstancer, name
		} else if ok, name := houdini.IsCapturePoseInstancer(s, part.GeoID, part.PartID); ok {
			role, base = RolePoseInstancer, name
		} else {
			continue
		}
		instancer := ClassifiedPart{Part: part, Role: role, BaseName: base}
		out = append(out, instancer)

		ids, err := s.GetInstancedPartIDs(part.GeoID, part.PartID)
		if err != nil {
			core.LogWarn("%s: cannot list instanced parts: %s", part, err)
			continue
		}
		for _, id := range ids {
			instancedBy[instanceKey{part.GeoID, id}] = instancer
		}
	}

	for _, part := range parts {
		if part.Type != houdini.PartTypeMesh {
			continue
		}
		isShape := houdini.IsRestGeometryMesh(s, part.GeoID, part.PartID)
		isPose := houdini.IsCapturePoseMesh(s, part.GeoID, part.PartID)

		instancer, instanced := instancedBy[instanceKey{part.GeoID, part.PartID}]
		if !instanced {
			switch {
			case isShape:
				out = append(out, ClassifiedPart{Part: part, Role: RoleShapeMesh})
			case isPose:
				out = append(out, ClassifiedPart{Part: part, Role: RolePoseMesh})
			}
			continue
		}

		role := RoleShapeMesh
		ok := isShape
		if instancer.Role == RolePoseInstancer {
			role, ok = RolePoseMesh, isPose
		}
		if !ok {
			core.LogWarn("%s: instanced by %s as a %s but lacks its attributes", part, instancer.Part, role)
			continue
		}
		out = append(out, ClassifiedPart{Part: part, Role: role, BaseName: instancer.BaseName})
	}
	return out
}

// CollectBundles buckets the classified parts by base name. Bundles missing a
// role are returned separately and logged; they are never translated.
func CollectBundles(classified []ClassifiedPart) (complete, incomplete []SkeletalMeshParts) {
	buckets := make(map[string]*SkeletalMeshParts)
	for i := range classified {
		cp := classified[i]
		b, ok := buckets[cp.BaseName]
		if !ok {
			b = &SkeletalMeshParts{BaseName: cp.BaseName}
			buckets[cp.BaseName] = b
		}
		slot := b.slot(cp.Role)
		if slot == nil {
			continue
		}
		if *slot != nil {
			core.LogWarn("skeletal mesh '%s': ignoring %s, %s already provides the %s", cp.BaseName, cp.Part, *slot, cp.Role)
			continue
		}
		part := cp.Part
		*slot = &part
	}

	names := make([]string, 0, len(buckets))
	for name := range buckets {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		b := *buckets[name]
		if b.IsValid() {
			complete = append(complete, b)
			continue
		}
		missing := make([]string, 0, 4)
		for _, r := range b.Missing() {
			missing = append(missing, r.String())
		}
		core.LogWarn("skeletal mesh '%s' is incomplete, missing %s; skipping it", name, strings.Join(missing, ", "))
		incomplete = append(incomplete, b)
	}
	return complete, incomplete
}
