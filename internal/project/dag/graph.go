package dag

import (
	"fmt"
	"slices"

	"esspy/internal/diag"
	"esspy/internal/project"
	"esspy/internal/source"
)

type Graph struct {
	Edges   [][]ModuleID // Edges[from] = []to, from импортирует to
	Indeg   []int        // входящие степени для Kahn (только присутствующие модули)
	Present []bool       // модуль найден на диске, а не только упомянут в импорте
}

// ModuleNode is one module found in the project together with the reporter
// its diagnostics go to.
type ModuleNode struct {
	Meta     project.ModuleMeta
	Reporter diag.Reporter
	Broken   bool
	FirstErr *diag.Diagnostic
}

type ModuleSlot struct {
	ModuleNode
	Present bool
}

// BuildGraph links nodes by their imports. Duplicate modules, imports of
// modules that were never found, and self imports are reported to the
// importing node's reporter and left out of the graph.
func BuildGraph(idx ModuleIndex, nodes []ModuleNode) (Graph, []ModuleSlot) {
	n := len(idx.IDToName)
	g := Graph{
		Edges:   make([][]ModuleID, n),
		Indeg:   make([]int, n),
		Present: make([]bool, n),
	}
	slots := make([]ModuleSlot, n)
	for i, name := range idx.IDToName {
		slots[i].Meta.Path = name
	}

	for _, node := range nodes {
		id, ok := idx.NameToID[node.Meta.Path]
		if node.Meta.Path == "" || !ok {
			continue
		}
		slot := &slots[int(id)]
		if slot.Present {
			b := diag.ReportError(node.Reporter, diag.ProjDuplicateModule, node.Meta.Span,
				fmt.Sprintf("module %q is defined twice", node.Meta.Path))
			if slot.Meta.Span != (source.Span{}) {
				b.WithNote(slot.Meta.Span, fmt.Sprintf("%q first found in %s", slot.Meta.Path, slot.Meta.Dir))
			}
			b.Emit()
			continue
		}
		slot.ModuleNode = node
		slot.Present = true
		g.Present[int(id)] = true
	}

	for from := range slots {
		slot := &slots[from]
		if !slot.Present {
			continue
		}
		seen := make(map[ModuleID]struct{}, len(slot.Meta.Imports))
		for _, dep := range slot.Meta.Imports {
			toID, ok := idx.NameToID[dep.Path]
			if dep.Path == "" || !ok {
				continue
			}
			if ModuleID(from) == toID {
				diag.ReportError(slot.Reporter, diag.ProjSelfImport, dep.Span,
					fmt.Sprintf("module %q imports itself", slot.Meta.Path)).Emit()
				continue
			}
			if _, dup := seen[toID]; dup {
				continue
			}
			seen[toID] = struct{}{}
			if !g.Present[int(toID)] {
				diag.ReportError(slot.Reporter, diag.ProjMissingModule, dep.Span,
					fmt.Sprintf("no module named %q", dep.Path)).Emit()
				continue
			}
			g.Edges[from] = append(g.Edges[from], toID)
			g.Indeg[int(toID)]++
		}
		slices.Sort(g.Edges[from])
	}
	return g, slots
}

// ReportBrokenDeps reports every import of a module that failed to translate.
func ReportBrokenDeps(idx ModuleIndex, slots []ModuleSlot) {
	for i := range slots {
		from := &slots[i]
		if !from.Present || from.Reporter == nil {
			continue
		}
		emitted := make(map[string]struct{}, len(from.Meta.Imports))
		for _, imp := range from.Meta.Imports {
			toID, ok := idx.NameToID[imp.Path]
			if !ok || !slots[int(toID)].Broken {
				continue
			}
			if _, seen := emitted[imp.Path]; seen {
				continue
			}
			emitted[imp.Path] = struct{}{}

			b := diag.ReportError(from.Reporter, diag.ProjDependencyFailed, imp.Span,
				fmt.Sprintf("cannot import %q: module has errors", imp.Path))
			if first := slots[int(toID)].FirstErr; first != nil {
				b.WithNote(first.Primary, "first error in dependency: "+first.Message)
			}
			b.Emit()
		}
	}
}
