package toonscroll

import (
	"reflect"
)

// Queries visit every entity whose archetype holds all requested components.
// The visitor returns false to stop the walk. Iteration order is unspecified.
type Query1[A any] struct{ ecs *Ecs }
type Query2[A, B any] struct{ ecs *Ecs }
type Query3[A, B, C any] struct{ ecs *Ecs }

func MakeQuery1[A any](cmd *Commands) Query1[A]             { return Query1[A]{ecs: cmd.app.ecs} }
func MakeQuery2[A, B any](cmd *Commands) Query2[A, B]       { return Query2[A, B]{ecs: cmd.app.ecs} }
func MakeQuery3[A, B, C any](cmd *Commands) Query3[A, B, C] { return Query3[A, B, C]{ecs: cmd.app.ecs} }

func (q Query1[A]) Map(m func(EntityId, *A) bool) {
	id1 := identifyComponent[A](q.ecs)

	for _, arch := range q.ecs.archetypes {
		comps1, ok := arch.componentData[id1].([]A)
		if !ok {
			continue
		}

		for entityId, row := range arch.entities {
			if !m(entityId, &comps1[row]) {
				return
			}
		}
	}
}

func (q Query2[A, B]) Map(m func(EntityId, *A, *B) bool) {
	id1 := identifyComponent[A](q.ecs)
	id2 := identifyComponent[B](q.ecs)

	for _, arch := range q.ecs.archetypes {
		comps1, ok := arch.componentData[id1].([]A)
		if !ok {
			continue
		}
		comps2, ok := arch.componentData[id2].([]B)
		if !ok {
			continue
		}

		for entityId, row := range arch.entities {
			if !m(entityId, &comps1[row], &comps2[row]) {
				return
			}
		}
	}
}

func (q Query3[A, B, C]) Map(m func(EntityId, *A, *B, *C) bool) {
	id1 := identifyComponent[A](q.ecs)
	id2 := identifyComponent[B](q.ecs)
	id3 := identifyComponent[C](q.ecs)

	for _, arch := range q.ecs.archetypes {
		comps1, ok := arch.componentData[id1].([]A)
		if !ok {
			continue
		}
		comps2, ok := arch.componentData[id2].([]B)
		if !ok {
			continue
		}
		comps3, ok := arch.componentData[id3].([]C)
		if !ok {
			continue
		}

		for entityId, row := range arch.entities {
			if !m(entityId, &comps1[row], &comps2[row], &comps3[row]) {
				return
			}
		}
	}
}

// Count returns how many entities currently match the query.
func (q Query1[A]) Count() int {
	n := 0
	q.Map(func(EntityId, *A) bool {
		n++
		return true
	})
	return n
}

// GetComponent returns a pointer into the storage of entity's A component, or
// nil if the entity is gone or does not carry A. The pointer is only valid
// until the next command flush.
func GetComponent[A any](cmd *Commands, entityId EntityId) *A {
	return getComponent[A](cmd.app.ecs, entityId)
}

func getComponent[A any](ecs *Ecs, entityId EntityId) *A {
	archId, ok := ecs.entityIndex[entityId]
	if !ok {
		return nil
	}
	arch := ecs.archetypes[archId]
	comps, ok := arch.componentData[identifyComponent[A](ecs)].([]A)
	if !ok {
		return nil
	}
	return &comps[arch.entities[entityId]]
}

func identifyComponent[A any](ecs *Ecs) componentId {
	return ecs.getComponentId(reflect.TypeFor[A]())
}
