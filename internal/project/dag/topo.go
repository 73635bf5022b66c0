package dag

import (
	"fmt"
	"slices"
	"strings"

	"fortio.org/safecast"

	"esspy/internal/diag"
)

type Topo struct {
	Order   []ModuleID   // импортирующие модули раньше импортируемых
	Batches [][]ModuleID // волны независимых модулей
	Cyclic  bool
	Cycles  []ModuleID // узлы, оставшиеся в цикле
}

func toID(i int) ModuleID {
	id, err := safecast.Conv[ModuleID](i)
	if err != nil {
		panic(fmt.Errorf("module id overflow: %w", err))
	}
	return id
}

// ToposortKahn orders present modules so that every importer precedes its
// imports. Modules left over belong to, or depend on, an import cycle.
func ToposortKahn(g Graph) *Topo {
	n := len(g.Edges)
	indeg := slices.Clone(g.Indeg)
	topo := &Topo{Order: make([]ModuleID, 0, n)}

	active := 0
	current := make([]ModuleID, 0, n)
	for i := 0; i < n; i++ {
		if !g.Present[i] {
			continue
		}
		active++
		if indeg[i] == 0 {
			current = append(current, toID(i))
		}
	}

	for len(current) > 0 {
		batch := slices.Clone(current)
		topo.Batches = append(topo.Batches, batch)

		var next []ModuleID
		for _, id := range batch {
			topo.Order = append(topo.Order, id)
			for _, to := range g.Edges[int(id)] {
				indeg[int(to)]--
				if indeg[int(to)] == 0 {
					next = append(next, to)
				}
			}
		}
		slices.Sort(next)
		current = next
	}

	if len(topo.Order) != active {
		topo.Cyclic = true
		for i := 0; i < n; i++ {
			if g.Present[i] && indeg[i] > 0 {
				topo.Cycles = append(topo.Cycles, toID(i))
			}
		}
	}
	return topo
}

// DependencyOrder returns Order reversed: every module after its imports.
func (t *Topo) DependencyOrder() []ModuleID {
	out := slices.Clone(t.Order)
	slices.Reverse(out)
	return out
}

// CyclePath finds one concrete cycle among the leftover nodes, starting from
// the smallest id, and returns it closed (first == last).
func CyclePath(g Graph, topo *Topo) []ModuleID {
	if topo == nil || !topo.Cyclic || len(topo.Cycles) == 0 {
		return nil
	}
	inCycle := make(map[ModuleID]bool, len(topo.Cycles))
	for _, id := range topo.Cycles {
		inCycle[id] = true
	}
	const (
		white = iota
		grey
		black
	)
	color := make(map[ModuleID]int, len(topo.Cycles))
	var stack []ModuleID
	var found []ModuleID

	var visit func(ModuleID) bool
	visit = func(id ModuleID) bool {
		color[id] = grey
		stack = append(stack, id)
		for _, to := range g.Edges[int(id)] {
			if !inCycle[to] {
				continue
			}
			switch color[to] {
			case grey:
				start := slices.Index(stack, to)
				found = append(slices.Clone(stack[start:]), to)
				return true
			case white:
				if visit(to) {
					return true
				}
			}
		}
		stack = stack[:len(stack)-1]
		color[id] = black
		return false
	}
	for _, id := range topo.Cycles {
		if color[id] == white && visit(id) {
			return found
		}
	}
	return nil
}

// ReportCycles reports ProjImportCycle on each module of the detected cycle.
func ReportCycles(idx ModuleIndex, g Graph, slots []ModuleSlot, topo *Topo) {
	path := CyclePath(g, topo)
	if len(path) == 0 {
		return
	}
	summary := strings.Join(idx.Names(path), " -> ")
	for _, id := range path[:len(path)-1] {
		slot := slots[int(id)]
		if !slot.Present || slot.Reporter == nil {
			continue
		}
		diag.ReportError(slot.Reporter, diag.ProjImportCycle, slot.Meta.Span,
			fmt.Sprintf("import cycle not allowed: %s", summary)).Emit()
	}
}
