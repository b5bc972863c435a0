// Package synth implements the graph-to-IaC synthesis engine: per-provider
// field mapping, auxiliary expansion, edge-derived wiring, dependency
// resolution, and variable/output derivation. A pass is a pure function of
// the node/edge snapshot it is given; nothing persists between calls.
package synth

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/cloudist-io/cloudist/internal/graph"
	"github.com/cloudist-io/cloudist/internal/ir"
	"github.com/cloudist-io/cloudist/internal/logging"
)

// NameSource produces fallback identifier fragments for nodes whose display
// name sanitizes to nothing. It is injectable so tests can pin it and keep
// synthesis deterministic.
type NameSource func() string

func defaultNameSource() string {
	return uuid.NewString()[:8]
}

// Synthesizer runs synthesis passes. The zero value is not usable; construct
// with New.
type Synthesizer struct {
	names NameSource
}

// Option configures a Synthesizer.
type Option func(*Synthesizer)

// WithNameSource overrides the fallback identifier source.
func WithNameSource(fn NameSource) Option {
	return func(s *Synthesizer) { s.names = fn }
}

// New returns a Synthesizer with the given options applied.
func New(opts ...Option) *Synthesizer {
	s := &Synthesizer{names: defaultNameSource}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// pass carries the working state of one synthesis call.
type pass struct {
	provider graph.Provider
	nodes    []graph.ResourceNode
	edges    []graph.RelationshipEdge
	ix       *graph.Index
	out      *ir.SynthesisOutput
	primary  map[string]*ir.Declaration // node id → primary declaration
	roles    map[string]*ir.Declaration // node id → execution role, if any
	names    map[string]string          // node id → sanitized base name
}

func (p *pass) diag(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	p.out.Diagnostics = append(p.out.Diagnostics, msg)
	logging.Warn(msg)
}

// Synthesize turns a node/edge snapshot into declarations, variables, and
// outputs. Malformed nodes and dangling edges are skipped with diagnostics;
// the call itself never fails.
func (s *Synthesizer) Synthesize(nodes []graph.ResourceNode, edges []graph.RelationshipEdge, provider graph.Provider) *ir.SynthesisOutput {
	p := &pass{
		provider: provider,
		nodes:    nodes,
		edges:    edges,
		ix:       graph.NewIndex(nodes),
		out:      &ir.SynthesisOutput{Provider: provider},
		primary:  make(map[string]*ir.Declaration),
		roles:    make(map[string]*ir.Declaration),
		names:    make(map[string]string),
	}

	for i := range nodes {
		node := &nodes[i]
		if node.ServiceKind == "" || node.Provider == "" {
			p.diag("skipping node %q: missing serviceKind or provider", node.ID)
			continue
		}

		name := ir.Sanitize(node.DisplayName)
		if name == "" {
			name = ir.Sanitize(string(node.ServiceKind) + "_" + s.names())
		}
		p.names[node.ID] = name

		var fields ir.Fields
		if fn, ok := lookupMapper(node.Provider, node.ServiceKind); ok {
			fields = fn(node, name)
		} else {
			fields = passthroughFields(node.Config)
		}

		decl := &ir.Declaration{
			Type:   declarationType(node),
			Name:   name,
			Fields: fields,
		}
		p.out.Declarations = append(p.out.Declarations, decl)
		p.primary[node.ID] = decl

		if node.Provider == graph.ProviderAWS {
			expandNode(p, node, decl, name)
		}
	}

	s.enhance(p)
	resolveDependencies(p)

	p.out.Variables = synthesizeVariables(nodes, provider)
	p.out.Outputs = synthesizeOutputs(p)
	return p.out
}

// Synthesize runs a pass with the default configuration.
func Synthesize(d *graph.Diagram) *ir.SynthesisOutput {
	return New().Synthesize(d.Nodes, d.Edges, d.Provider)
}

// outgoing returns the node's outgoing edges in graph order.
func outgoing(p *pass, node *graph.ResourceNode) []*graph.RelationshipEdge {
	var out []*graph.RelationshipEdge
	for i := range p.edges {
		if p.edges[i].SourceID == node.ID {
			out = append(out, &p.edges[i])
		}
	}
	return out
}
