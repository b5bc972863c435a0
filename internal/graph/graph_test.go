package graph

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeDiagram(t *testing.T) {
	doc := `{
		"provider": "aws",
		"nodes": [
			{"id": "n1", "serviceKind": "s3", "provider": "aws", "displayName": "Assets",
			 "position": {"x": 10, "y": 20},
			 "config": {"versioning": true}},
			{"id": "n2", "serviceKind": "lambda", "provider": "aws", "displayName": "Fn"}
		],
		"edges": [
			{"id": "e1", "source": "n2", "target": "n1", "relationship": "reads"}
		]
	}`

	d, err := DecodeDiagram(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, ProviderAWS, d.Provider)
	require.Len(t, d.Nodes, 2)
	require.Len(t, d.Edges, 1)

	// Canvas-only fields like position are ignored by the codec.
	assert.Equal(t, KindS3, d.Nodes[0].ServiceKind)
	assert.True(t, d.Nodes[0].ConfigBool("versioning"))
	assert.Equal(t, "reads", d.Edges[0].Kind())
}

func TestDecodeDiagramInvalid(t *testing.T) {
	_, err := DecodeDiagram(strings.NewReader("{not json"))
	require.Error(t, err)
}

func TestEdgeKindDefault(t *testing.T) {
	e := RelationshipEdge{ID: "e1", SourceID: "a", TargetID: "b"}
	assert.Equal(t, "connects_to", e.Kind())
}

func TestConfigHelpers(t *testing.T) {
	n := ResourceNode{Config: map[string]any{
		"instance_type": "t3.large",
		"count":         float64(3), // encoding/json produces float64
		"public":        "true",
		"empty":         "",
	}}

	assert.Equal(t, "t3.large", n.ConfigString("instance_type", "t3.micro"))
	assert.Equal(t, "t3.micro", n.ConfigString("missing", "t3.micro"))
	assert.Equal(t, "fallback", n.ConfigString("empty", "fallback"))
	assert.Equal(t, 3, n.ConfigInt("count", 0))
	assert.Equal(t, 7, n.ConfigInt("missing", 7))
	assert.True(t, n.ConfigBool("public"))
	assert.False(t, n.ConfigBool("missing"))
	assert.True(t, n.HasConfig("empty"))
	assert.False(t, n.HasConfig("nope"))
}

func TestServiceKindPredicates(t *testing.T) {
	assert.True(t, KindLambda.Known())
	assert.True(t, KindEC2.Compute())
	assert.True(t, KindLambda.Compute())
	assert.False(t, KindS3.Compute())
	assert.False(t, ServiceKind("mainframe").Known())
	assert.True(t, ProviderGCP.Known())
	assert.False(t, Provider("ibm").Known())
}

func TestIndex(t *testing.T) {
	nodes := []ResourceNode{
		{ID: "a", ServiceKind: KindS3},
		{ID: "b", ServiceKind: KindEC2},
	}
	ix := NewIndex(nodes)

	n, ok := ix.Node("b")
	require.True(t, ok)
	assert.Equal(t, KindEC2, n.ServiceKind)

	_, ok = ix.Node("missing")
	assert.False(t, ok)
}
