package scene

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/spaghettifunk/anima-hengine/engine/content"
	"github.com/spaghettifunk/anima-hengine/engine/math"
)

// Component displays one skeletal mesh on its owner.
type Component struct {
	GUID      uuid.UUID
	Name      string
	Mesh      content.AssetRef
	Transform math.Transform
	Visible   bool
}

// ComponentOwner is the scene object that receives the generated components.
type ComponentOwner interface {
	GUID() uuid.UUID
	Name() string
	// AttachSkeletalMesh points the component with the given GUID at mesh,
	// creating a component when none exists. It returns the component GUID.
	AttachSkeletalMesh(component uuid.UUID, name string, mesh content.AssetRef) (uuid.UUID, error)
	RemoveComponent(component uuid.UUID) error
}

// Actor is a ComponentOwner that keeps its components in memory.
type Actor struct {
	guid       uuid.UUID
	name       string
	components map[uuid.UUID]*Component
}

var _ ComponentOwner = (*Actor)(nil)

func NewActor(name string) *Actor {
	return &Actor{
		guid:       uuid.New(),
		name:       name,
		components: make(map[uuid.UUID]*Component),
	}
}

func (a *Actor) GUID() uuid.UUID {
	return a.guid
}

func (a *Actor) Name() string {
	return a.name
}

func (a *Actor) AttachSkeletalMesh(component uuid.UUID, name string, mesh content.AssetRef) (uuid.UUID, error) {
	if !mesh.IsValid() || mesh.Class != content.ClassSkeletalMesh {
		return uuid.Nil, fmt.Errorf("actor '%s': cannot attach %s", a.name, mesh)
	}
	if c, ok := a.components[component]; ok {
		c.Mesh = mesh
		c.Name = name
		return c.GUID, nil
	}

	c := &Component{
		GUID:      uuid.New(),
		Name:      name,
		Mesh:      mesh,
		Transform: math.TransformCreate(),
		Visible:   true,
	}
	a.components[c.GUID] = c
	return c.GUID, nil
}

func (a *Actor) RemoveComponent(component uuid.UUID) error {
	if _, ok := a.components[component]; !ok {
		return fmt.Errorf("actor '%s' has no component %s", a.name, component)
	}
	delete(a.components, component)
	return nil
}

func (a *Actor) Component(guid uuid.UUID) (*Component, bool) {
	c, ok := a.components[guid]
	return c, ok
}

// Components returns the components sorted by name.
func (a *Actor) Components() []*Component {
	out := make([]*Component, 0, len(a.components))
	for _, c := range a.components {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].GUID.String() < out[j].GUID.String()
	})
	return out
}
