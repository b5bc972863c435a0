package synth

import (
	"fmt"
	"strings"

	"github.com/cloudist-io/cloudist/internal/graph"
	"github.com/cloudist-io/cloudist/internal/ir"
)

// enhance derives cross-resource wiring from outgoing edges: environment
// variables for functions and scoped IAM policies for compute nodes. AWS
// only; the other providers have no wiring rules yet.
func (s *Synthesizer) enhance(p *pass) {
	if p.provider != graph.ProviderAWS {
		return
	}
	for i := range p.nodes {
		node := &p.nodes[i]
		primary, ok := p.primary[node.ID]
		if !ok {
			continue
		}
		if node.ServiceKind == graph.KindLambda {
			injectEnvironment(p, node, primary)
		}
		if node.ServiceKind.Compute() {
			attachAccessPolicies(p, node)
		}
		// TODO: emit an aws_api_gateway_integration declaration for
		// api_gateway → lambda edges; today those edges only contribute
		// dependency ordering.
	}
}

// injectEnvironment adds environment.variables entries for each storage or
// messaging target the function is wired to, keyed by the target's
// uppercased name plus a kind-specific suffix.
func injectEnvironment(p *pass, node *graph.ResourceNode, primary *ir.Declaration) {
	var envVars ir.Fields
	for _, e := range outgoing(p, node) {
		target, ok := p.ix.Node(e.TargetID)
		if !ok {
			continue
		}
		decl, ok := p.primary[target.ID]
		if !ok {
			continue
		}
		key := ir.EnvName(target.DisplayName)
		if key == "" {
			key = strings.ToUpper(decl.Name)
		}
		switch target.ServiceKind {
		case graph.KindDynamoDB:
			envVars.Set(key+"_TABLE_NAME", ir.Ref(decl.Address(), "name"))
			envVars.Set(key+"_TABLE_ARN", ir.Ref(decl.Address(), "arn"))
		case graph.KindS3:
			envVars.Set(key+"_BUCKET_NAME", ir.Ref(decl.Address(), "bucket"))
			envVars.Set(key+"_BUCKET_ARN", ir.Ref(decl.Address(), "arn"))
		case graph.KindSQS:
			envVars.Set(key+"_QUEUE_URL", ir.Ref(decl.Address(), "url"))
			envVars.Set(key+"_QUEUE_ARN", ir.Ref(decl.Address(), "arn"))
		}
	}
	if len(envVars) == 0 {
		return
	}
	var env ir.Fields
	env.Set("variables", envVars)
	primary.Fields.Set("environment", env)
}

// policyTarget is one wired target inside a target-kind group.
type policyTarget struct {
	node    *graph.ResourceNode
	decl    *ir.Declaration
	actions []string
}

// attachAccessPolicies groups the node's outgoing edges by target kind and
// emits one scoped IAM policy plus role attachment per group that carries at
// least one actionable relationship.
func attachAccessPolicies(p *pass, node *graph.ResourceNode) {
	name := p.names[node.ID]

	var kinds []graph.ServiceKind
	groups := make(map[graph.ServiceKind][]policyTarget)
	for _, e := range outgoing(p, node) {
		target, ok := p.ix.Node(e.TargetID)
		if !ok {
			continue
		}
		decl, ok := p.primary[target.ID]
		if !ok {
			continue
		}
		actions := actionsFor(target.ServiceKind, e.Kind())
		if len(actions) == 0 {
			continue
		}
		if _, seen := groups[target.ServiceKind]; !seen {
			kinds = append(kinds, target.ServiceKind)
		}
		groups[target.ServiceKind] = append(groups[target.ServiceKind], policyTarget{
			node:    target,
			decl:    decl,
			actions: actions,
		})
	}
	if len(kinds) == 0 {
		return
	}

	role := ensureRole(p, node, name)
	for _, kind := range kinds {
		policy := buildPolicy(node, name, kind, groups[kind])
		var attachFields ir.Fields
		attachFields.Set("role", ir.Ref(role.Address(), "name"))
		attachFields.Set("policy_arn", ir.Ref(policy.Address(), "arn"))
		attachment := &ir.Declaration{
			Type:   "aws_iam_role_policy_attachment",
			Name:   fmt.Sprintf("%s_%s_attachment", name, kind),
			Fields: attachFields,
		}
		p.out.Declarations = append(p.out.Declarations, policy, attachment)
	}
}

// ensureRole returns the node's execution role, creating one for compute
// nodes (EC2) that did not get a role through auxiliary expansion.
func ensureRole(p *pass, node *graph.ResourceNode, name string) *ir.Declaration {
	if role, ok := p.roles[node.ID]; ok {
		return role
	}
	var roleFields ir.Fields
	roleFields.Set("name", dashed(name)+"-role")
	roleFields.Set("assume_role_policy", ec2TrustPolicy)
	role := &ir.Declaration{
		Type:   "aws_iam_role",
		Name:   roleName(name),
		Fields: roleFields,
	}
	p.roles[node.ID] = role
	p.out.Declarations = append(p.out.Declarations, role)
	return role
}

// buildPolicy renders one IAM policy declaration with one statement per
// wired target. Policy names join the source name with the target kind; a
// collision between two identically named sources is not prevented here and
// surfaces in the emitted document verifier instead.
func buildPolicy(node *graph.ResourceNode, name string, kind graph.ServiceKind, targets []policyTarget) *ir.Declaration {
	var statements []string
	for _, t := range targets {
		statements = append(statements, fmt.Sprintf(`    {
      "Effect": "Allow",
      "Action": [%s],
      "Resource": [%s]
    }`, quoteList(t.actions), quoteList(resourcesFor(kind, t.decl.Address()))))
	}

	doc := fmt.Sprintf(`{
  "Version": "2012-10-17",
  "Statement": [
%s
  ]
}`, strings.Join(statements, ",\n"))

	var f ir.Fields
	f.Set("name", fmt.Sprintf("%s-%s-policy", dashed(name), kind))
	f.Set("description", fmt.Sprintf("Scoped %s access for %s", kind, node.DisplayName))
	f.Set("policy", doc)
	return &ir.Declaration{
		Type:   "aws_iam_policy",
		Name:   fmt.Sprintf("%s_%s_policy", name, kind),
		Fields: f,
	}
}

func quoteList(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = `"` + s + `"`
	}
	return strings.Join(quoted, ", ")
}

// actionsFor selects the IAM action list for a target kind and relationship.
// An empty result marks the relationship as non-actionable for policy
// purposes.
func actionsFor(kind graph.ServiceKind, relationship string) []string {
	switch kind {
	case graph.KindDynamoDB:
		switch relationship {
		case "reads":
			return []string{"dynamodb:GetItem", "dynamodb:BatchGetItem", "dynamodb:Query", "dynamodb:Scan"}
		case "writes":
			return []string{"dynamodb:PutItem", "dynamodb:UpdateItem", "dynamodb:DeleteItem", "dynamodb:BatchWriteItem"}
		case "accesses", graph.DefaultRelationship:
			return []string{
				"dynamodb:GetItem", "dynamodb:BatchGetItem", "dynamodb:Query", "dynamodb:Scan",
				"dynamodb:PutItem", "dynamodb:UpdateItem", "dynamodb:DeleteItem", "dynamodb:BatchWriteItem",
			}
		}
	case graph.KindS3:
		switch relationship {
		case "reads":
			return []string{"s3:GetObject", "s3:ListBucket"}
		case "writes":
			return []string{"s3:PutObject", "s3:DeleteObject"}
		case "accesses", graph.DefaultRelationship:
			return []string{"s3:GetObject", "s3:ListBucket", "s3:PutObject", "s3:DeleteObject"}
		}
	case graph.KindSQS:
		switch relationship {
		case "sends_to":
			return []string{"sqs:SendMessage"}
		case "consumes":
			return []string{"sqs:ReceiveMessage", "sqs:DeleteMessage", "sqs:GetQueueAttributes"}
		case "accesses", graph.DefaultRelationship:
			return []string{"sqs:SendMessage", "sqs:ReceiveMessage", "sqs:DeleteMessage", "sqs:GetQueueAttributes"}
		}
	case graph.KindSNS:
		switch relationship {
		case "publishes_to", "sends_to", "accesses", graph.DefaultRelationship:
			return []string{"sns:Publish"}
		}
	case graph.KindRDS:
		switch relationship {
		case "accesses", graph.DefaultRelationship:
			return []string{"rds-db:connect"}
		}
	}
	return nil
}

// resourcesFor builds the resource ARNs a policy statement scopes to,
// expressed as interpolations of the target declaration's arn.
func resourcesFor(kind graph.ServiceKind, addr string) []string {
	arn := fmt.Sprintf("${%s.arn}", addr)
	switch kind {
	case graph.KindS3:
		return []string{arn, arn + "/*"}
	case graph.KindDynamoDB:
		return []string{arn, arn + "/index/*"}
	case graph.KindRDS:
		// rds-db:connect scopes to db-user ARNs which synthesis cannot
		// know; keep the statement broad.
		return []string{"*"}
	}
	return []string{arn}
}
