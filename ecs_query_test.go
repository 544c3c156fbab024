package toonscroll

import (
	"testing"
)

func TestQuery_Map(t *testing.T) {
	type Comp1 struct{ a int }
	type Comp2 struct{ b float32 }
	type Comp3 struct{}

	ecs := MakeEcs()
	ecs.addEntity(Comp1{a: 1})                                 // comp1 only                       -- shouldn't match
	id2 := ecs.addEntity(Comp1{a: 2}, Comp2{b: 1.37})          // comp1 & comp2                    -- should match
	id3 := ecs.addEntity(Comp1{a: 3}, Comp2{b: 4.20}, Comp3{}) // comp1 & comp2 + something extra  -- should match
	ecs.addEntity(Comp1{a: 4}, Comp3{})                        // comp1 + something extra          -- shouldn't match
	ecs.addEntity(Comp2{b: 3.14})                              // comp2 only                       -- shouldn't match

	query := Query2[Comp1, Comp2]{ecs: &ecs}

	// Archetypes are visited in no particular order.
	expected := map[EntityId]struct {
		a Comp1
		b Comp2
	}{
		id2: {Comp1{a: 2}, Comp2{b: 1.37}},
		id3: {Comp1{a: 3}, Comp2{b: 4.20}},
	}
	numResults := 0

	query.Map(func(entityId EntityId, comp1 *Comp1, comp2 *Comp2) bool {
		want, ok := expected[entityId]
		if !ok {
			t.Errorf("Unexpected EntityId %v", entityId)
			return true
		}
		if *comp1 != want.a {
			t.Errorf("Unexpected A for entity %v, expected %v got %v", entityId, want.a, *comp1)
		}
		if *comp2 != want.b {
			t.Errorf("Unexpected B for entity %v, expected %v got %v", entityId, want.b, *comp2)
		}

		numResults += 1
		return true
	})

	if 2 != numResults {
		t.Errorf("Unexpected number of results, got %v", numResults)
	}
}

func TestQuery_CountAndGetComponent(t *testing.T) {
	type Tag struct{ n int }

	app := newApp()
	cmd := app.Commands()
	a := cmd.AddEntity(Tag{n: 1})
	cmd.AddEntity(Tag{n: 2})

	if got := MakeQuery1[Tag](cmd).Count(); got != 0 {
		t.Errorf("spawns should wait for the flush, got %d", got)
	}
	app.FlushCommands()
	if got := MakeQuery1[Tag](cmd).Count(); got != 2 {
		t.Errorf("expected 2 tagged entities, got %d", got)
	}

	GetComponent[Tag](cmd, a).n = 5
	if got := GetComponent[Tag](cmd, a).n; got != 5 {
		t.Errorf("write through GetComponent lost, got %d", got)
	}

	cmd.RemoveEntity(a)
	app.FlushCommands()
	if GetComponent[Tag](cmd, a) != nil {
		t.Errorf("removed entity still has a component")
	}
}

func TestQuery_MapStopsEarly(t *testing.T) {
	type Tag struct{}

	ecs := MakeEcs()
	for range 5 {
		ecs.addEntity(Tag{})
	}
	visited := 0
	Query1[Tag]{ecs: &ecs}.Map(func(EntityId, *Tag) bool {
		visited++
		return visited < 2
	})
	if visited != 2 {
		t.Errorf("expected Map to stop after 2, visited %d", visited)
	}
}
