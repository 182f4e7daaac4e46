package model

// Location identifies an entity's storage slot: its class and its position
// within that class's entity vector. Per spec invariant 5, Location is
// retrievable in O(1) from an entity's id via WorkingSolution.Locate.
type Location struct {
	ClassIdx int
	Pos      int
}

// classStore holds one class's live entities plus the pin bits the
// SPEC_FULL.md §3 "pinned entities" feature needs.
type classStore struct {
	entities []any
	pinned   []bool
}

// WorkingSolution is the mutable solution currently held by the director
// (spec §3 "Lifecycle", §4.2). It is never mutated directly by phases —
// only through director.Director, which brackets every write with SERIO
// before/after notifications.
type WorkingSolution struct {
	descriptor *Descriptor
	classes    []classStore
	locate     map[any]Location
}

// NewWorkingSolution wraps entity instances (grouped by class, in
// descriptor order) into a working solution. It builds the id->location
// map eagerly so Locate is O(1) from the first call.
func NewWorkingSolution(d *Descriptor, entitiesByClass [][]any) *WorkingSolution {
	ws := &WorkingSolution{
		descriptor: d,
		classes:    make([]classStore, len(d.Classes)),
		locate:     make(map[any]Location),
	}
	for classIdx, entities := range entitiesByClass {
		if classIdx >= len(d.Classes) {
			break
		}
		cs := classStore{
			entities: append([]any(nil), entities...),
			pinned:   make([]bool, len(entities)),
		}
		ws.classes[classIdx] = cs
		idOf := d.Classes[classIdx].IDOf
		for pos, e := range cs.entities {
			if idOf != nil {
				ws.locate[idOf(e)] = Location{ClassIdx: classIdx, Pos: pos}
			}
		}
	}
	return ws
}

// Descriptor returns the descriptor this working solution was built from.
func (ws *WorkingSolution) Descriptor() *Descriptor { return ws.descriptor }

// EntityCount returns the number of live entities in the given class.
func (ws *WorkingSolution) EntityCount(classIdx int) int {
	return len(ws.classes[classIdx].entities)
}

// EntityAt returns the entity at (classIdx, pos).
func (ws *WorkingSolution) EntityAt(classIdx, pos int) any {
	return ws.classes[classIdx].entities[pos]
}

// Locate returns the current location of the entity with the given id, and
// whether it is still live.
func (ws *WorkingSolution) Locate(id any) (Location, bool) {
	loc, ok := ws.locate[id]
	return loc, ok
}

// IsPinned reports whether the entity at loc is pinned against mutation.
func (ws *WorkingSolution) IsPinned(loc Location) bool {
	return ws.classes[loc.ClassIdx].pinned[loc.Pos]
}

// SetPinned pins or unpins the entity at loc.
func (ws *WorkingSolution) SetPinned(loc Location, pinned bool) {
	ws.classes[loc.ClassIdx].pinned[loc.Pos] = pinned
}

// ReadVariable reads the current value of a Basic variable.
func (ws *WorkingSolution) ReadVariable(loc Location, varIdx int) int {
	cd := ws.descriptor.Classes[loc.ClassIdx]
	vd := cd.Variables[varIdx]
	return vd.Get(ws.EntityAt(loc.ClassIdx, loc.Pos))
}

// WriteVariable writes a new value to a Basic variable and returns the old
// value. This is the raw write; it performs no notification and is never
// called directly by phases — only by director.Director, which brackets it
// with SERIO before/after calls (spec §4.5).
func (ws *WorkingSolution) WriteVariable(loc Location, varIdx int, newValue int) (int, error) {
	if ws.IsPinned(loc) {
		return 0, newEntityPinned(loc.ClassIdx, loc.Pos)
	}
	cd := ws.descriptor.Classes[loc.ClassIdx]
	vd := cd.Variables[varIdx]
	entity := ws.EntityAt(loc.ClassIdx, loc.Pos)
	if vd.Kind == Basic && vd.ValueRangeName != "" {
		vr, err := ws.descriptor.ValueRange(vd.ValueRangeName)
		if err != nil {
			return 0, err
		}
		if !vr.Has(newValue) {
			return 0, newValueOutOfRange(vd.Name, newValue)
		}
	}
	old := vd.Get(entity)
	vd.Set(entity, newValue)
	return old, nil
}

// ReadListVariable reads the current ordered sequence of a List variable.
func (ws *WorkingSolution) ReadListVariable(loc Location, varIdx int) []int {
	cd := ws.descriptor.Classes[loc.ClassIdx]
	vd := cd.Variables[varIdx]
	return append([]int(nil), vd.GetList(ws.EntityAt(loc.ClassIdx, loc.Pos))...)
}

// WriteListVariable writes a new sequence to a List variable and returns the
// old one.
func (ws *WorkingSolution) WriteListVariable(loc Location, varIdx int, newValues []int) ([]int, error) {
	if ws.IsPinned(loc) {
		return nil, newEntityPinned(loc.ClassIdx, loc.Pos)
	}
	cd := ws.descriptor.Classes[loc.ClassIdx]
	vd := cd.Variables[varIdx]
	entity := ws.EntityAt(loc.ClassIdx, loc.Pos)
	old := append([]int(nil), vd.GetList(entity)...)
	vd.SetList(entity, newValues)
	return old, nil
}

// AddEntity appends a new entity to a class, updating the id->location map
// atomically with the entity vector (spec invariant 5).
func (ws *WorkingSolution) AddEntity(classIdx int, entity any) Location {
	cs := &ws.classes[classIdx]
	pos := len(cs.entities)
	cs.entities = append(cs.entities, entity)
	cs.pinned = append(cs.pinned, false)
	loc := Location{ClassIdx: classIdx, Pos: pos}
	if idOf := ws.descriptor.Classes[classIdx].IDOf; idOf != nil {
		ws.locate[idOf(entity)] = loc
	}
	return loc
}

// RemoveEntity removes the entity at loc using swap-remove, updating the
// id->location map for both the removed entity and whichever entity was
// moved into its slot.
func (ws *WorkingSolution) RemoveEntity(loc Location) {
	cs := &ws.classes[loc.ClassIdx]
	last := len(cs.entities) - 1
	removed := cs.entities[loc.Pos]
	if idOf := ws.descriptor.Classes[loc.ClassIdx].IDOf; idOf != nil {
		delete(ws.locate, idOf(removed))
	}
	if loc.Pos != last {
		moved := cs.entities[last]
		cs.entities[loc.Pos] = moved
		cs.pinned[loc.Pos] = cs.pinned[last]
		if idOf := ws.descriptor.Classes[loc.ClassIdx].IDOf; idOf != nil {
			ws.locate[idOf(moved)] = Location{ClassIdx: loc.ClassIdx, Pos: loc.Pos}
		}
	}
	cs.entities = cs.entities[:last]
	cs.pinned = cs.pinned[:last]
}

// ForEachEntity calls f for every live entity of the given class, in
// position order. f must not add or remove entities of that class.
func (ws *WorkingSolution) ForEachEntity(classIdx int, f func(pos int, entity any)) {
	for pos, e := range ws.classes[classIdx].entities {
		f(pos, e)
	}
}
