// Package ir defines the engine-internal representation produced by a
// synthesis pass: declarations with ordered fields, typed reference values,
// and the variable/output sets, all recomputed from scratch on every call.
package ir

import "github.com/cloudist-io/cloudist/internal/graph"

// Block kinds a declaration can be emitted as.
const (
	BlockResource = "resource"
	BlockData     = "data"
)

// Declaration is one emitted infrastructure block. A single diagram node may
// produce several declarations (primary plus auxiliaries).
type Declaration struct {
	Block     string // resource or data; empty means resource
	Type      string // provider-native type, e.g. aws_s3_bucket
	Name      string // sanitized, unique within the output
	Fields    Fields
	DependsOn []string // declaration addresses
}

// Address returns the reference address of the declaration, e.g.
// aws_s3_bucket.assets or data.archive_file.fn_archive.
func (d *Declaration) Address() string {
	if d.Block == BlockData {
		return "data." + d.Type + "." + d.Name
	}
	return d.Type + "." + d.Name
}

// AddDependency appends addr to DependsOn unless already present.
func (d *Declaration) AddDependency(addr string) {
	for _, dep := range d.DependsOn {
		if dep == addr {
			return
		}
	}
	d.DependsOn = append(d.DependsOn, addr)
}

// Variable is one input variable declaration.
type Variable struct {
	Name        string
	Description string
	Type        string // terraform type expression, e.g. string
	Default     any
}

// Output is one output declaration.
type Output struct {
	Name        string
	Description string
	Value       any // usually a Reference
}

// SynthesisOutput is the sole artifact of a synthesis pass. It is stateless:
// nothing carries over between calls.
type SynthesisOutput struct {
	Provider     graph.Provider
	Declarations []*Declaration
	Variables    []Variable
	Outputs      []Output

	// Diagnostics records locally recovered problems (skipped nodes,
	// dangling edges). An empty Declarations list together with diagnostics
	// is the soft-failure signal callers should check for.
	Diagnostics []string
}

// Declaration returns the declaration with the given address, if present.
func (o *SynthesisOutput) Declaration(addr string) (*Declaration, bool) {
	for _, d := range o.Declarations {
		if d.Address() == addr {
			return d, true
		}
	}
	return nil, false
}
