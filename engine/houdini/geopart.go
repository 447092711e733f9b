package houdini

import "fmt"

// GeoPartObject identifies one part of a cooked output. It is a handle; the
// data behind it is only reachable through a Session.
type GeoPartObject struct {
	AssetID    NodeID
	ObjectID   NodeID
	GeoID      NodeID
	PartID     PartID
	ObjectName string
	PartName   string
	Type       PartType
}

func (g GeoPartObject) String() string {
	return fmt.Sprintf("[obj %d, geo %d, part %d '%s']", g.ObjectID, g.GeoID, g.PartID, g.PartName)
}
