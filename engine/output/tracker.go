package output

import (
	"github.com/spaghettifunk/anima-hengine/engine/core"
)

// Tracker reconciles the objects of the previous cook with the ones produced
// by the current cook. It never deletes anything.
type Tracker struct {
	previous Map
	next     Map
}

func NewTracker(previous Map) *Tracker {
	if previous == nil {
		previous = make(Map)
	}
	return &Tracker{
		previous: previous,
		next:     make(Map),
	}
}

// Previous returns what the previous cook produced for id.
func (t *Tracker) Previous(id ObjectIdentifier) (Object, bool) {
	o, ok := t.previous[id]
	return o, ok
}

// Accept records an object produced by the current cook.
func (t *Tracker) Accept(id ObjectIdentifier, obj Object) {
	obj.Rebuilt = true
	t.next[id] = obj
}

// Retain carries the previous object of id forward unchanged. It is used when
// the part failed to translate, so the last good result stays visible.
func (t *Tracker) Retain(id ObjectIdentifier) bool {
	o, ok := t.previous[id]
	if !ok {
		return false
	}
	if _, done := t.next[id]; done {
		core.LogWarn("output %s was already produced by this cook", id)
		return false
	}
	o.Rebuilt = false
	t.next[id] = o
	return true
}

// Result returns the new mapping and the previous objects it no longer
// holds: dropped identifiers and identifiers whose asset was replaced.
func (t *Tracker) Result() (next, stale Map) {
	stale = make(Map)
	for id, old := range t.previous {
		cur, ok := t.next[id]
		if !ok || cur.OutputObject.GUID != old.OutputObject.GUID || cur.OutputComponent != old.OutputComponent {
			stale[id] = old
		}
	}
	next = make(Map, len(t.next))
	for id, o := range t.next {
		next[id] = o
	}
	return next, stale
}
