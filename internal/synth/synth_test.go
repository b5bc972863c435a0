package synth

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudist-io/cloudist/internal/emit"
	"github.com/cloudist-io/cloudist/internal/graph"
	"github.com/cloudist-io/cloudist/internal/ir"
)

func newTestSynthesizer() *Synthesizer {
	n := 0
	return New(WithNameSource(func() string {
		n++
		return fmt.Sprintf("gen%d", n)
	}))
}

func node(id string, kind graph.ServiceKind, name string, config map[string]any) graph.ResourceNode {
	return graph.ResourceNode{
		ID:          id,
		ServiceKind: kind,
		Provider:    graph.ProviderAWS,
		DisplayName: name,
		Config:      config,
	}
}

func declNames(out *ir.SynthesisOutput) []string {
	names := make([]string, len(out.Declarations))
	for i, d := range out.Declarations {
		names[i] = d.Address()
	}
	return names
}

func TestS3Expansion(t *testing.T) {
	s := newTestSynthesizer()
	out := s.Synthesize([]graph.ResourceNode{
		node("n1", graph.KindS3, "MyBucket", nil),
	}, nil, graph.ProviderAWS)

	require.Len(t, out.Declarations, 3)
	assert.Equal(t, []string{
		"aws_s3_bucket.mybucket",
		"aws_s3_bucket_public_access_block.mybucket_public_access_block",
		"aws_s3_bucket_versioning.mybucket_versioning",
	}, declNames(out))

	bucket := out.Declarations[0]
	tags, ok := bucket.Fields.Get("tags")
	require.True(t, ok)
	name, ok := tags.(ir.Fields).Get("Name")
	require.True(t, ok)
	assert.Equal(t, "MyBucket", name)

	// All four public access flags are locked on.
	pab := out.Declarations[1]
	for _, key := range []string{"block_public_acls", "block_public_policy", "ignore_public_acls", "restrict_public_buckets"} {
		v, ok := pab.Fields.Get(key)
		require.True(t, ok, key)
		assert.Equal(t, true, v)
	}
	assert.Equal(t, []string{"aws_s3_bucket.mybucket"}, pab.DependsOn)
	assert.Equal(t, []string{"aws_s3_bucket.mybucket"}, out.Declarations[2].DependsOn)
}

func TestS3VersioningStatus(t *testing.T) {
	s := newTestSynthesizer()
	out := s.Synthesize([]graph.ResourceNode{
		node("n1", graph.KindS3, "B", map[string]any{"versioning": true}),
	}, nil, graph.ProviderAWS)

	ver := out.Declarations[2]
	cfg, ok := ver.Fields.Get("versioning_configuration")
	require.True(t, ok)
	status, _ := cfg.(ir.Fields).Get("status")
	assert.Equal(t, "Enabled", status)
}

func TestLambdaInlineExpansion(t *testing.T) {
	s := newTestSynthesizer()
	out := s.Synthesize([]graph.ResourceNode{
		node("n1", graph.KindLambda, "Fn", nil),
	}, nil, graph.ProviderAWS)

	require.Len(t, out.Declarations, 4)
	assert.Equal(t, []string{
		"aws_lambda_function.fn",
		"aws_iam_role.fn_role",
		"aws_iam_role_policy_attachment.fn_basic_execution",
		"data.archive_file.fn_archive",
	}, declNames(out))

	fn := out.Declarations[0]
	assert.Contains(t, fn.DependsOn, "data.archive_file.fn_archive")
	assert.Contains(t, fn.DependsOn, "aws_iam_role.fn_role")

	role := out.Declarations[1]
	trust, ok := role.Fields.Get("assume_role_policy")
	require.True(t, ok)
	assert.Contains(t, trust.(string), "lambda.amazonaws.com")

	filename, ok := fn.Fields.Get("filename")
	require.True(t, ok)
	assert.Equal(t, ir.Ref("data.archive_file.fn_archive", "output_path"), filename)
}

func TestLambdaExternalCodeSkipsArchive(t *testing.T) {
	s := newTestSynthesizer()
	out := s.Synthesize([]graph.ResourceNode{
		node("n1", graph.KindLambda, "Fn", map[string]any{"s3_bucket": "releases", "s3_key": "fn.zip"}),
	}, nil, graph.ProviderAWS)

	require.Len(t, out.Declarations, 3)
	fn := out.Declarations[0]
	assert.False(t, fn.Fields.Has("filename"))
	bucket, _ := fn.Fields.Get("s3_bucket")
	assert.Equal(t, "releases", bucket)

	// External code pulls the shared source variables into the set.
	varNames := make([]string, len(out.Variables))
	for i, v := range out.Variables {
		varNames[i] = v.Name
	}
	assert.Contains(t, varNames, "lambda_s3_bucket")
	assert.Contains(t, varNames, "lambda_s3_key")
}

func TestLambdaDynamoWiring(t *testing.T) {
	s := newTestSynthesizer()
	nodes := []graph.ResourceNode{
		node("fn", graph.KindLambda, "Fn", nil),
		node("tbl", graph.KindDynamoDB, "Table", nil),
	}
	edges := []graph.RelationshipEdge{
		{ID: "e1", SourceID: "fn", TargetID: "tbl", Relationship: "accesses"},
	}
	out := s.Synthesize(nodes, edges, graph.ProviderAWS)

	// function + role + basic attachment + archive + table + policy + attachment
	require.Len(t, out.Declarations, 7)

	fn, ok := out.Declaration("aws_lambda_function.fn")
	require.True(t, ok)
	env, ok := fn.Fields.Get("environment")
	require.True(t, ok)
	vars, ok := env.(ir.Fields).Get("variables")
	require.True(t, ok)
	tableName, ok := vars.(ir.Fields).Get("TABLE_TABLE_NAME")
	require.True(t, ok)
	assert.Equal(t, ir.Ref("aws_dynamodb_table.table", "name"), tableName)
	tableARN, ok := vars.(ir.Fields).Get("TABLE_TABLE_ARN")
	require.True(t, ok)
	assert.Equal(t, ir.Ref("aws_dynamodb_table.table", "arn"), tableARN)

	policy, ok := out.Declaration("aws_iam_policy.fn_dynamodb_policy")
	require.True(t, ok)
	doc, _ := policy.Fields.Get("policy")
	assert.Contains(t, doc.(string), "dynamodb:GetItem")
	assert.Contains(t, doc.(string), "dynamodb:PutItem")
	assert.Contains(t, doc.(string), "${aws_dynamodb_table.table.arn}")

	attachment, ok := out.Declaration("aws_iam_role_policy_attachment.fn_dynamodb_attachment")
	require.True(t, ok)
	role, _ := attachment.Fields.Get("role")
	assert.Equal(t, ir.Ref("aws_iam_role.fn_role", "name"), role)

	// Edge (fn → tbl) makes the table's declaration depend on the function.
	tbl, ok := out.Declaration("aws_dynamodb_table.table")
	require.True(t, ok)
	assert.Contains(t, tbl.DependsOn, "aws_lambda_function.fn")
}

func TestReadsRelationshipScopesActions(t *testing.T) {
	s := newTestSynthesizer()
	nodes := []graph.ResourceNode{
		node("fn", graph.KindLambda, "Fn", nil),
		node("b", graph.KindS3, "Assets", nil),
	}
	edges := []graph.RelationshipEdge{
		{ID: "e1", SourceID: "fn", TargetID: "b", Relationship: "reads"},
	}
	out := s.Synthesize(nodes, edges, graph.ProviderAWS)

	policy, ok := out.Declaration("aws_iam_policy.fn_s3_policy")
	require.True(t, ok)
	doc, _ := policy.Fields.Get("policy")
	assert.Contains(t, doc.(string), "s3:GetObject")
	assert.NotContains(t, doc.(string), "s3:PutObject")
}

func TestEC2PolicyCreatesRole(t *testing.T) {
	s := newTestSynthesizer()
	nodes := []graph.ResourceNode{
		node("web", graph.KindEC2, "Web", nil),
		node("b", graph.KindS3, "Assets", nil),
	}
	edges := []graph.RelationshipEdge{
		{ID: "e1", SourceID: "web", TargetID: "b", Relationship: "accesses"},
	}
	out := s.Synthesize(nodes, edges, graph.ProviderAWS)

	role, ok := out.Declaration("aws_iam_role.web_role")
	require.True(t, ok)
	trust, _ := role.Fields.Get("assume_role_policy")
	assert.Contains(t, trust.(string), "ec2.amazonaws.com")

	_, ok = out.Declaration("aws_iam_policy.web_s3_policy")
	assert.True(t, ok)
}

func TestSQSDeadLetterQueue(t *testing.T) {
	s := newTestSynthesizer()
	out := s.Synthesize([]graph.ResourceNode{
		node("q", graph.KindSQS, "Q", map[string]any{
			"dead_letter_queue": true,
			"max_receive_count": float64(5),
		}),
	}, nil, graph.ProviderAWS)

	require.Len(t, out.Declarations, 2)
	q := out.Declarations[0]
	dlq := out.Declarations[1]
	assert.Equal(t, "aws_sqs_queue.q_dlq", dlq.Address())

	redrive, ok := q.Fields.Get("redrive_policy")
	require.True(t, ok)
	expr := string(redrive.(ir.Expression))
	assert.Contains(t, expr, "aws_sqs_queue.q_dlq.arn")
	assert.Contains(t, expr, "maxReceiveCount = 5")
	assert.Contains(t, q.DependsOn, "aws_sqs_queue.q_dlq")
}

func TestSQSWithoutDLQConfig(t *testing.T) {
	s := newTestSynthesizer()
	out := s.Synthesize([]graph.ResourceNode{
		node("q", graph.KindSQS, "Q", map[string]any{"dead_letter_queue": true}),
	}, nil, graph.ProviderAWS)

	// max_receive_count missing: no DLQ.
	require.Len(t, out.Declarations, 1)
	assert.False(t, out.Declarations[0].Fields.Has("redrive_policy"))
}

func TestDynamoBillingModes(t *testing.T) {
	s := newTestSynthesizer()
	out := s.Synthesize([]graph.ResourceNode{
		node("t1", graph.KindDynamoDB, "OnDemand", nil),
		node("t2", graph.KindDynamoDB, "Fixed", map[string]any{
			"billing_mode":  "PROVISIONED",
			"read_capacity": float64(10),
		}),
	}, nil, graph.ProviderAWS)

	onDemand := out.Declarations[0]
	assert.False(t, onDemand.Fields.Has("read_capacity"))
	mode, _ := onDemand.Fields.Get("billing_mode")
	assert.Equal(t, "PAY_PER_REQUEST", mode)

	fixed := out.Declarations[1]
	rc, ok := fixed.Fields.Get("read_capacity")
	require.True(t, ok)
	assert.Equal(t, 10, rc)
	wc, ok := fixed.Fields.Get("write_capacity")
	require.True(t, ok)
	assert.Equal(t, 5, wc)
}

func TestEC2Defaults(t *testing.T) {
	s := newTestSynthesizer()
	out := s.Synthesize([]graph.ResourceNode{
		node("n1", graph.KindEC2, "Web", nil),
	}, nil, graph.ProviderAWS)

	inst := out.Declarations[0]
	itype, _ := inst.Fields.Get("instance_type")
	assert.Equal(t, "t3.micro", itype)
}

func TestMalformedNodeSkipped(t *testing.T) {
	s := newTestSynthesizer()
	out := s.Synthesize([]graph.ResourceNode{
		{ID: "broken", DisplayName: "NoKind"},
		node("ok", graph.KindS3, "B", nil),
	}, nil, graph.ProviderAWS)

	assert.Len(t, out.Declarations, 3) // only the bucket expansion
	require.Len(t, out.Diagnostics, 1)
	assert.Contains(t, out.Diagnostics[0], "broken")
}

func TestDanglingEdgeIgnored(t *testing.T) {
	s := newTestSynthesizer()
	out := s.Synthesize(
		[]graph.ResourceNode{node("a", graph.KindS3, "B", nil)},
		[]graph.RelationshipEdge{{ID: "e1", SourceID: "a", TargetID: "ghost"}},
		graph.ProviderAWS,
	)

	require.Len(t, out.Diagnostics, 1)
	assert.Contains(t, out.Diagnostics[0], "e1")
	assert.Empty(t, out.Declarations[0].DependsOn)
}

func TestUnknownKindPassthrough(t *testing.T) {
	s := newTestSynthesizer()
	out := s.Synthesize([]graph.ResourceNode{
		{
			ID:          "x",
			ServiceKind: graph.ServiceKind("elasticache"),
			Provider:    graph.ProviderAWS,
			DisplayName: "Cache",
			Config:      map[string]any{"node_type": "cache.t3.micro", "engine": "redis"},
		},
	}, nil, graph.ProviderAWS)

	require.Len(t, out.Declarations, 1)
	d := out.Declarations[0]
	assert.Equal(t, "aws_elasticache", d.Type)
	// Passthrough fields are sorted for determinism.
	assert.Equal(t, "engine", d.Fields[0].Key)
	assert.Equal(t, "node_type", d.Fields[1].Key)
}

func TestDeclarationTypeOverride(t *testing.T) {
	s := newTestSynthesizer()
	out := s.Synthesize([]graph.ResourceNode{
		{
			ID:              "x",
			ServiceKind:     graph.KindS3,
			Provider:        graph.ProviderAWS,
			DisplayName:     "B",
			DeclarationType: "aws_s3_bucket",
		},
	}, nil, graph.ProviderAWS)
	assert.Equal(t, "aws_s3_bucket", out.Declarations[0].Type)
}

func TestFallbackNameFromSource(t *testing.T) {
	s := newTestSynthesizer()
	out := s.Synthesize([]graph.ResourceNode{
		node("n1", graph.KindS3, "", nil),
	}, nil, graph.ProviderAWS)

	assert.Equal(t, "s3_gen1", out.Declarations[0].Name)
}

func TestVariablesPerProvider(t *testing.T) {
	tests := []struct {
		provider graph.Provider
		region   string
	}{
		{graph.ProviderAWS, "us-east-1"},
		{graph.ProviderGCP, "us-central1"},
		{graph.ProviderAzure, "East US"},
	}
	for _, tt := range tests {
		t.Run(string(tt.provider), func(t *testing.T) {
			vars := synthesizeVariables(nil, tt.provider)
			require.Len(t, vars, 2)
			assert.Equal(t, "environment", vars[0].Name)
			assert.Equal(t, "region", vars[1].Name)
			assert.Equal(t, tt.region, vars[1].Default)
		})
	}
}

func TestOutputsPerKind(t *testing.T) {
	s := newTestSynthesizer()
	out := s.Synthesize([]graph.ResourceNode{
		node("n1", graph.KindEC2, "Web", nil),
		node("n2", graph.KindVPC, "Main", nil), // vpc has no output template on aws
	}, nil, graph.ProviderAWS)

	require.Len(t, out.Outputs, 1)
	assert.Equal(t, "web_public_ip", out.Outputs[0].Name)
	assert.Equal(t, ir.Ref("aws_instance.web", "public_ip"), out.Outputs[0].Value)
}

func TestGCPSynthesis(t *testing.T) {
	s := newTestSynthesizer()
	nodes := []graph.ResourceNode{
		{ID: "n1", ServiceKind: graph.KindS3, Provider: graph.ProviderGCP, DisplayName: "Assets"},
	}
	out := s.Synthesize(nodes, nil, graph.ProviderGCP)

	// No AWS-style auxiliary expansion outside AWS.
	require.Len(t, out.Declarations, 1)
	assert.Equal(t, "google_storage_bucket.assets", out.Declarations[0].Address())
}

func TestAzureSynthesisReferencesResourceGroup(t *testing.T) {
	s := newTestSynthesizer()
	nodes := []graph.ResourceNode{
		{ID: "n1", ServiceKind: graph.KindEC2, Provider: graph.ProviderAzure, DisplayName: "VM"},
	}
	out := s.Synthesize(nodes, nil, graph.ProviderAzure)

	require.Len(t, out.Declarations, 1)
	rg, ok := out.Declarations[0].Fields.Get("resource_group_name")
	require.True(t, ok)
	assert.Equal(t, ir.Ref(ResourceGroupAddress, "name"), rg)
}

func TestDeterminism(t *testing.T) {
	build := func() string {
		s := newTestSynthesizer()
		nodes := []graph.ResourceNode{
			node("fn", graph.KindLambda, "Order Processor", nil),
			node("tbl", graph.KindDynamoDB, "Orders", nil),
			node("b", graph.KindS3, "Uploads", map[string]any{"versioning": true}),
			node("q", graph.KindSQS, "Jobs", map[string]any{"dead_letter_queue": true, "max_receive_count": float64(3)}),
			node("anon", graph.KindEC2, "", nil),
		}
		edges := []graph.RelationshipEdge{
			{ID: "e1", SourceID: "fn", TargetID: "tbl", Relationship: "accesses"},
			{ID: "e2", SourceID: "fn", TargetID: "b", Relationship: "reads"},
			{ID: "e3", SourceID: "fn", TargetID: "q", Relationship: "sends_to"},
		}
		out := s.Synthesize(nodes, edges, graph.ProviderAWS)
		return emit.Render(out)
	}

	first := build()
	second := build()
	assert.Equal(t, first, second)
	assert.True(t, strings.Contains(first, "aws_lambda_function"))
}

func TestDependencyCompleteness(t *testing.T) {
	s := newTestSynthesizer()
	nodes := []graph.ResourceNode{
		node("a", graph.KindEC2, "A", nil),
		node("b", graph.KindRDS, "B", nil),
		node("c", graph.KindVPC, "C", nil),
	}
	edges := []graph.RelationshipEdge{
		{ID: "e1", SourceID: "a", TargetID: "b"},
		{ID: "e2", SourceID: "c", TargetID: "a"},
	}
	out := s.Synthesize(nodes, edges, graph.ProviderAWS)

	for _, e := range edges {
		var srcAddr, tgtAddr string
		for _, n := range nodes {
			d, ok := out.Declaration(declAddrFor(t, out, n.DisplayName))
			require.True(t, ok)
			if n.ID == e.SourceID {
				srcAddr = d.Address()
			}
			if n.ID == e.TargetID {
				tgtAddr = d.Address()
			}
		}
		tgt, ok := out.Declaration(tgtAddr)
		require.True(t, ok)
		assert.Contains(t, tgt.DependsOn, srcAddr, "edge %s", e.ID)
	}
}

func declAddrFor(t *testing.T, out *ir.SynthesisOutput, display string) string {
	t.Helper()
	name := ir.Sanitize(display)
	for _, d := range out.Declarations {
		if d.Name == name {
			return d.Address()
		}
	}
	t.Fatalf("no declaration named %s", name)
	return ""
}
