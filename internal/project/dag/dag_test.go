package dag

import (
	"slices"
	"testing"

	"esspy/internal/diag"
	"esspy/internal/project"
	"esspy/internal/source"
)

func batchesToNames(idx ModuleIndex, batches [][]ModuleID) [][]string {
	out := make([][]string, len(batches))
	for i, batch := range batches {
		out[i] = idx.Names(batch)
	}
	return out
}

func TestBuildIndexIncludesImports(t *testing.T) {
	metas := []project.ModuleMeta{
		{
			Path: "app/main",
			Imports: []project.ImportMeta{
				{Path: "lib/ganita"},
				{Path: "lib/upakarana"},
			},
		},
		{Path: "lib/upakarana"},
	}

	idx := BuildIndex(metas)

	want := []string{"app/main", "lib/ganita", "lib/upakarana"}
	if !slices.Equal(idx.IDToName, want) {
		t.Fatalf("IDToName = %v, want %v", idx.IDToName, want)
	}
	for i, name := range want {
		if id, ok := idx.NameToID[name]; !ok || int(id) != i {
			t.Fatalf("NameToID[%q] = %v, want %d", name, id, i)
		}
	}
}

func TestBuildGraphReportsMissingModules(t *testing.T) {
	appMeta := project.ModuleMeta{
		Path: "app",
		Span: source.Span{File: 1, Start: 0, End: 10},
		Imports: []project.ImportMeta{
			{Path: "core", Span: source.Span{File: 1, Start: 1, End: 4}},
			{Path: "util", Span: source.Span{File: 1, Start: 5, End: 8}},
		},
	}
	coreMeta := project.ModuleMeta{
		Path: "core",
		Span: source.Span{File: 2, Start: 0, End: 8},
		Imports: []project.ImportMeta{
			{Path: "util", Span: source.Span{File: 2, Start: 2, End: 5}},
		},
	}

	bagApp := diag.NewBag(10)
	bagCore := diag.NewBag(10)
	nodes := []ModuleNode{
		{Meta: appMeta, Reporter: &diag.BagReporter{Bag: bagApp}},
		{Meta: coreMeta, Reporter: &diag.BagReporter{Bag: bagCore}},
	}
	idx := BuildIndex([]project.ModuleMeta{appMeta, coreMeta})
	graph, _ := BuildGraph(idx, nodes)

	appID := idx.NameToID["app"]
	coreID := idx.NameToID["core"]
	utilID := idx.NameToID["util"]

	if deps := graph.Edges[int(appID)]; !slices.Equal(deps, []ModuleID{coreID}) {
		t.Fatalf("app deps = %v, want [%v]", deps, coreID)
	}
	if deps := graph.Edges[int(coreID)]; len(deps) != 0 {
		t.Fatalf("core deps = %v, want none", deps)
	}
	if graph.Present[int(utilID)] {
		t.Fatalf("util must not be present")
	}

	for name, bag := range map[string]*diag.Bag{"app": bagApp, "core": bagCore} {
		if bag.Len() != 1 || bag.Items()[0].Code != diag.ProjMissingModule {
			t.Fatalf("%s diagnostics = %v, want one ProjMissingModule", name, bag.Items())
		}
	}
}

func TestBuildGraphDuplicateModules(t *testing.T) {
	spanA := source.Span{File: 1, Start: 0, End: 5}
	spanB := source.Span{File: 2, Start: 0, End: 5}
	metaA := project.ModuleMeta{Path: "dup/mod", Span: spanA, Dir: "roots/a/dup/mod"}
	metaB := project.ModuleMeta{Path: "dup/mod", Span: spanB, Dir: "roots/b/dup/mod"}

	bagA := diag.NewBag(10)
	bagB := diag.NewBag(10)
	nodes := []ModuleNode{
		{Meta: metaA, Reporter: &diag.BagReporter{Bag: bagA}},
		{Meta: metaB, Reporter: &diag.BagReporter{Bag: bagB}},
	}

	idx := BuildIndex([]project.ModuleMeta{metaA, metaB})
	_, slots := BuildGraph(idx, nodes)

	if bagA.Len() != 0 {
		t.Fatalf("unexpected diagnostics for first module: %v", bagA.Items())
	}
	if bagB.Len() != 1 || bagB.Items()[0].Code != diag.ProjDuplicateModule {
		t.Fatalf("duplicate diagnostics = %v", bagB.Items())
	}
	if notes := bagB.Items()[0].Notes; len(notes) != 1 || notes[0].Span != spanA {
		t.Fatalf("expected a note pointing at the first module, got %v", notes)
	}
	slot := slots[int(idx.NameToID["dup/mod"])]
	if !slot.Present || slot.Meta.Span != spanA {
		t.Fatalf("slot must keep the first module")
	}
}

func TestBuildGraphSelfImport(t *testing.T) {
	meta := project.ModuleMeta{Path: "a", Imports: []project.ImportMeta{{Path: "a"}}}
	bag := diag.NewBag(10)
	idx := BuildIndex([]project.ModuleMeta{meta})
	graph, _ := BuildGraph(idx, []ModuleNode{{Meta: meta, Reporter: &diag.BagReporter{Bag: bag}}})

	if len(graph.Edges[0]) != 0 {
		t.Fatalf("self edge must be dropped")
	}
	if bag.Len() != 1 || bag.Items()[0].Code != diag.ProjSelfImport {
		t.Fatalf("diagnostics = %v", bag.Items())
	}
}

func TestToposortKahnBatches(t *testing.T) {
	metas := []project.ModuleMeta{
		{Path: "b", Imports: []project.ImportMeta{{Path: "c"}}},
		{Path: "a"},
		{Path: "c"},
	}
	nodes := []ModuleNode{{Meta: metas[0]}, {Meta: metas[1]}, {Meta: metas[2]}}

	idx := BuildIndex(metas)
	graph, _ := BuildGraph(idx, nodes)
	topo := ToposortKahn(graph)
	if topo.Cyclic {
		t.Fatalf("expected acyclic graph")
	}

	if got := idx.Names(topo.Order); !slices.Equal(got, []string{"a", "b", "c"}) {
		t.Fatalf("order = %v", got)
	}
	if got := idx.Names(topo.DependencyOrder()); !slices.Equal(got, []string{"c", "b", "a"}) {
		t.Fatalf("dependency order = %v", got)
	}
	batches := batchesToNames(idx, topo.Batches)
	if len(batches) != 2 || !slices.Equal(batches[0], []string{"a", "b"}) || !slices.Equal(batches[1], []string{"c"}) {
		t.Fatalf("batches = %v", batches)
	}
}

func TestReportCycles(t *testing.T) {
	spanA := source.Span{File: 1, Start: 0, End: 4}
	spanB := source.Span{File: 2, Start: 0, End: 4}
	metaA := project.ModuleMeta{Path: "a", Span: spanA, Imports: []project.ImportMeta{{Path: "b", Span: spanA}}}
	metaB := project.ModuleMeta{Path: "b", Span: spanB, Imports: []project.ImportMeta{{Path: "a", Span: spanB}}}
	// c только зависит от цикла, но сам в нём не участвует
	metaC := project.ModuleMeta{Path: "c", Imports: []project.ImportMeta{{Path: "a"}}}

	bagA := diag.NewBag(10)
	bagB := diag.NewBag(10)
	bagC := diag.NewBag(10)
	nodes := []ModuleNode{
		{Meta: metaA, Reporter: &diag.BagReporter{Bag: bagA}},
		{Meta: metaB, Reporter: &diag.BagReporter{Bag: bagB}},
		{Meta: metaC, Reporter: &diag.BagReporter{Bag: bagC}},
	}

	idx := BuildIndex([]project.ModuleMeta{metaA, metaB, metaC})
	graph, slots := BuildGraph(idx, nodes)
	topo := ToposortKahn(graph)
	if !topo.Cyclic || len(topo.Cycles) != 2 {
		t.Fatalf("expected cycle with two modules, got %+v", topo)
	}
	if got := idx.Names(CyclePath(graph, topo)); !slices.Equal(got, []string{"a", "b", "a"}) {
		t.Fatalf("cycle path = %v", got)
	}

	ReportCycles(idx, graph, slots, topo)

	for name, bag := range map[string]*diag.Bag{"a": bagA, "b": bagB} {
		if bag.Len() != 1 || bag.Items()[0].Code != diag.ProjImportCycle {
			t.Fatalf("module %s diagnostics = %v", name, bag.Items())
		}
	}
	if bagC.Len() != 0 {
		t.Fatalf("module c is outside the cycle: %v", bagC.Items())
	}
}

func TestReportBrokenDeps(t *testing.T) {
	first := diag.NewError(diag.LexUnterminatedString, source.Span{File: 2, Start: 3, End: 3}, "string literal not terminated")
	app := project.ModuleMeta{Path: "app", Imports: []project.ImportMeta{{Path: "lib"}, {Path: "lib"}}}
	lib := project.ModuleMeta{Path: "lib"}

	bag := diag.NewBag(10)
	nodes := []ModuleNode{
		{Meta: app, Reporter: &diag.BagReporter{Bag: bag}},
		{Meta: lib, Broken: true, FirstErr: &first},
	}
	idx := BuildIndex([]project.ModuleMeta{app, lib})
	_, slots := BuildGraph(idx, nodes)
	ReportBrokenDeps(idx, slots)

	if bag.Len() != 1 || bag.Items()[0].Code != diag.ProjDependencyFailed {
		t.Fatalf("diagnostics = %v", bag.Items())
	}
	if notes := bag.Items()[0].Notes; len(notes) != 1 || notes[0].Span != first.Primary {
		t.Fatalf("notes = %v", notes)
	}
}

func TestModuleHashesFollowDependencies(t *testing.T) {
	app := project.ModuleMeta{Path: "app", ContentHash: project.DigestOf([]byte("app")), Imports: []project.ImportMeta{{Path: "lib"}}}
	lib := project.ModuleMeta{Path: "lib", ContentHash: project.DigestOf([]byte("lib v1"))}

	hashes := func(lib project.ModuleMeta) []project.Digest {
		idx := BuildIndex([]project.ModuleMeta{app, lib})
		graph, slots := BuildGraph(idx, []ModuleNode{{Meta: app}, {Meta: lib}})
		return ModuleHashes(graph, slots, ToposortKahn(graph))
	}

	before := hashes(lib)
	if before[1] != project.Combine(lib.ContentHash) {
		t.Fatalf("leaf hash must only cover its content")
	}
	lib.ContentHash = project.DigestOf([]byte("lib v2"))
	after := hashes(lib)
	if before[0] == after[0] {
		t.Fatalf("importer hash must change when a dependency changes")
	}
}
