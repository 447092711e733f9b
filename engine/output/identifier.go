package output

import (
	"fmt"

	"github.com/spaghettifunk/anima-hengine/engine/houdini"
)

// ObjectIdentifier keys an output object by the part it was generated from.
type ObjectIdentifier struct {
	ObjectID        houdini.NodeID
	GeoID           houdini.NodeID
	PartID          houdini.PartID
	SplitIdentifier string
}

func NewObjectIdentifier(part houdini.GeoPartObject, split string) ObjectIdentifier {
	return ObjectIdentifier{
		ObjectID:        part.ObjectID,
		GeoID:           part.GeoID,
		PartID:          part.PartID,
		SplitIdentifier: split,
	}
}

func (id ObjectIdentifier) String() string {
	if id.SplitIdentifier == "" {
		return fmt.Sprintf("%d/%d/%d", id.ObjectID, id.GeoID, id.PartID)
	}
	return fmt.Sprintf("%d/%d/%d:%s", id.ObjectID, id.GeoID, id.PartID, id.SplitIdentifier)
}
