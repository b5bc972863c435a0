// Package graph holds the diagram-level model handed to the synthesis engine:
// resource nodes, relationship edges, and the JSON codec used at the canvas
// boundary. The types here are plain data; all behavior lives in the engine.
package graph

import (
	"encoding/json"
	"fmt"
	"io"
)

// ServiceKind is the closed category of cloud service a node represents.
type ServiceKind string

const (
	KindEC2        ServiceKind = "ec2"
	KindLambda     ServiceKind = "lambda"
	KindS3         ServiceKind = "s3"
	KindRDS        ServiceKind = "rds"
	KindDynamoDB   ServiceKind = "dynamodb"
	KindVPC        ServiceKind = "vpc"
	KindALB        ServiceKind = "alb"
	KindSQS        ServiceKind = "sqs"
	KindSNS        ServiceKind = "sns"
	KindAPIGateway ServiceKind = "api_gateway"
)

var knownKinds = map[ServiceKind]bool{
	KindEC2:        true,
	KindLambda:     true,
	KindS3:         true,
	KindRDS:        true,
	KindDynamoDB:   true,
	KindVPC:        true,
	KindALB:        true,
	KindSQS:        true,
	KindSNS:        true,
	KindAPIGateway: true,
}

// Known reports whether the kind is one of the modeled service categories.
func (k ServiceKind) Known() bool {
	return knownKinds[k]
}

// Compute reports whether nodes of this kind run user code and can therefore
// hold an execution role and scoped access policies.
func (k ServiceKind) Compute() bool {
	return k == KindEC2 || k == KindLambda
}

// Provider identifies the target cloud.
type Provider string

const (
	ProviderAWS   Provider = "aws"
	ProviderGCP   Provider = "gcp"
	ProviderAzure Provider = "azure"
)

// Known reports whether the provider is one of the modeled clouds.
func (p Provider) Known() bool {
	return p == ProviderAWS || p == ProviderGCP || p == ProviderAzure
}

// ResourceNode is one cloud-service element on the diagram. Nodes are owned
// by the caller and must not be mutated while a synthesis pass is running.
type ResourceNode struct {
	ID              string         `json:"id"`
	ServiceKind     ServiceKind    `json:"serviceKind"`
	Provider        Provider       `json:"provider"`
	DisplayName     string         `json:"displayName"`
	DeclarationType string         `json:"declarationType,omitempty"`
	Config          map[string]any `json:"config,omitempty"`
}

// ConfigString returns a string-valued config entry, or fallback when the key
// is absent or not a string.
func (n *ResourceNode) ConfigString(key, fallback string) string {
	if v, ok := n.Config[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

// ConfigBool returns a bool-valued config entry. JSON decoding may also hand
// us the strings "true"/"false" from form inputs, so those are accepted too.
func (n *ResourceNode) ConfigBool(key string) bool {
	switch v := n.Config[key].(type) {
	case bool:
		return v
	case string:
		return v == "true"
	}
	return false
}

// ConfigInt returns an integer config entry, tolerating the float64 values
// produced by encoding/json, or fallback when absent.
func (n *ResourceNode) ConfigInt(key string, fallback int) int {
	switch v := n.Config[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return fallback
}

// HasConfig reports whether the key is present in the node's config map.
func (n *ResourceNode) HasConfig(key string) bool {
	_, ok := n.Config[key]
	return ok
}

// DefaultRelationship is assumed for edges drawn without an explicit,
// validated relationship kind.
const DefaultRelationship = "connects_to"

// RelationshipEdge is a directed relationship between two nodes. Edges
// reference nodes by id only.
type RelationshipEdge struct {
	ID            string `json:"id"`
	SourceID      string `json:"source"`
	TargetID      string `json:"target"`
	Relationship  string `json:"relationship,omitempty"`
	Description   string `json:"description,omitempty"`
	Bidirectional bool   `json:"bidirectional,omitempty"`
}

// Kind returns the edge's relationship kind, defaulting to connects_to.
func (e *RelationshipEdge) Kind() string {
	if e.Relationship == "" {
		return DefaultRelationship
	}
	return e.Relationship
}

// Diagram is the snapshot the canvas hands to the engine: ordered nodes and
// edges plus the target provider. Canvas-only fields (positions, selection)
// are ignored by the codec.
type Diagram struct {
	Provider Provider           `json:"provider"`
	Nodes    []ResourceNode     `json:"nodes"`
	Edges    []RelationshipEdge `json:"edges"`
}

// DecodeDiagram reads a diagram JSON document from r.
func DecodeDiagram(r io.Reader) (*Diagram, error) {
	var d Diagram
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, fmt.Errorf("failed to decode diagram: %w", err)
	}
	return &d, nil
}

// Index provides id lookups over a node list.
type Index struct {
	byID map[string]*ResourceNode
}

// NewIndex builds an index over nodes. Later duplicates of an id win, which
// matches how the canvas resolves id clashes.
func NewIndex(nodes []ResourceNode) *Index {
	ix := &Index{byID: make(map[string]*ResourceNode, len(nodes))}
	for i := range nodes {
		ix.byID[nodes[i].ID] = &nodes[i]
	}
	return ix
}

// Node returns the node with the given id, if present.
func (ix *Index) Node(id string) (*ResourceNode, bool) {
	n, ok := ix.byID[id]
	return n, ok
}
