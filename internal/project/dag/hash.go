package dag

import "esspy/internal/project"

// ModuleHashes folds each module's content hash with the module hashes of its
// imports. Modules caught in a cycle keep their content hash.
func ModuleHashes(g Graph, slots []ModuleSlot, topo *Topo) []project.Digest {
	out := make([]project.Digest, len(slots))
	for i := range slots {
		out[i] = slots[i].Meta.ContentHash
	}
	for _, id := range topo.DependencyOrder() {
		deps := make([]project.Digest, 0, len(g.Edges[int(id)]))
		for _, to := range g.Edges[int(id)] {
			deps = append(deps, out[int(to)])
		}
		out[int(id)] = project.Combine(slots[int(id)].Meta.ContentHash, deps...)
	}
	return out
}
