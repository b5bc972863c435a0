package synth

import (
	"sort"

	"github.com/cloudist-io/cloudist/internal/graph"
	"github.com/cloudist-io/cloudist/internal/ir"
)

// mapperFunc produces the primary declaration fields for one node. The name
// argument is the node's sanitized declaration name, which mappers use to
// reference auxiliary declarations that expansion will emit alongside.
type mapperFunc func(n *graph.ResourceNode, name string) ir.Fields

type mapperKey struct {
	provider graph.Provider
	kind     graph.ServiceKind
}

var (
	mappers   = map[mapperKey]mapperFunc{}
	declTypes = map[mapperKey]string{}
)

func registerMapper(p graph.Provider, k graph.ServiceKind, fn mapperFunc) {
	mappers[mapperKey{p, k}] = fn
}

func registerType(p graph.Provider, k graph.ServiceKind, declType string) {
	declTypes[mapperKey{p, k}] = declType
}

func lookupMapper(p graph.Provider, k graph.ServiceKind) (mapperFunc, bool) {
	fn, ok := mappers[mapperKey{p, k}]
	return fn, ok
}

// declarationType resolves the provider-native resource type for a node. The
// node's own declarationType wins; otherwise the registry table, then a
// provider-prefixed fallback so unknown combinations still emit something
// addressable.
func declarationType(n *graph.ResourceNode) string {
	if n.DeclarationType != "" {
		return n.DeclarationType
	}
	if t, ok := declTypes[mapperKey{n.Provider, n.ServiceKind}]; ok {
		return t
	}
	switch n.Provider {
	case graph.ProviderAWS:
		return "aws_" + string(n.ServiceKind)
	case graph.ProviderGCP:
		return "google_" + string(n.ServiceKind)
	case graph.ProviderAzure:
		return "azurerm_" + string(n.ServiceKind)
	}
	return string(n.ServiceKind)
}

// passthroughFields converts a raw config map into a field list with sorted
// keys. Used for service kinds that have no registered mapping.
func passthroughFields(config map[string]any) ir.Fields {
	keys := make([]string, 0, len(config))
	for k := range config {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var fields ir.Fields
	for _, k := range keys {
		fields.Set(k, config[k])
	}
	return fields
}
