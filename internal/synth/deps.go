package synth

// resolveDependencies turns graph edges into explicit ordering: for every
// edge (source → target), the target's primary declaration depends on the
// source's primary declaration. Auxiliary declarations never receive
// edge-derived dependencies; they are ordered through their primary.
func resolveDependencies(p *pass) {
	for i := range p.edges {
		e := &p.edges[i]
		src, okSrc := p.primary[e.SourceID]
		tgt, okTgt := p.primary[e.TargetID]
		if !okSrc || !okTgt {
			p.diag("ignoring edge %q: references a node not in the graph", e.ID)
			continue
		}
		tgt.AddDependency(src.Address())
	}
}
