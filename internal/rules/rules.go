// Package rules holds the static per-provider connection rule tables and the
// validator built on them. Rules classify edges between service kinds;
// absence of a rule is not an error, it just means a generic connection.
package rules

import "github.com/cloudist-io/cloudist/internal/graph"

// Rule describes one allowed source→target relationship for a provider.
type Rule struct {
	Source        graph.ServiceKind
	Target        graph.ServiceKind
	Relationship  string
	Description   string
	Required      bool // the source kind is not deployable without this edge
	Bidirectional bool // the rule also matches the reversed pair
}

var awsRules = []Rule{
	{Source: graph.KindEC2, Target: graph.KindVPC, Relationship: "deployed_in", Description: "EC2 instances must be deployed within a VPC", Required: true},
	{Source: graph.KindRDS, Target: graph.KindVPC, Relationship: "deployed_in", Description: "RDS instances must be deployed within a VPC", Required: true},
	{Source: graph.KindALB, Target: graph.KindVPC, Relationship: "deployed_in", Description: "Load balancers must be deployed within a VPC", Required: true},
	{Source: graph.KindALB, Target: graph.KindEC2, Relationship: "routes_to", Description: "Load balancers route traffic to EC2 instances"},
	{Source: graph.KindEC2, Target: graph.KindS3, Relationship: "accesses", Description: "EC2 instances can read and write S3 buckets"},
	{Source: graph.KindEC2, Target: graph.KindRDS, Relationship: "connects_to", Description: "EC2 instances connect to RDS databases"},
	{Source: graph.KindLambda, Target: graph.KindDynamoDB, Relationship: "accesses", Description: "Lambda functions can access DynamoDB tables"},
	{Source: graph.KindLambda, Target: graph.KindS3, Relationship: "reads", Description: "Lambda functions can read S3 buckets"},
	{Source: graph.KindLambda, Target: graph.KindSQS, Relationship: "consumes", Description: "Lambda functions consume SQS messages"},
	{Source: graph.KindLambda, Target: graph.KindSNS, Relationship: "publishes_to", Description: "Lambda functions publish to SNS topics"},
	{Source: graph.KindLambda, Target: graph.KindRDS, Relationship: "connects_to", Description: "Lambda functions connect to RDS databases"},
	{Source: graph.KindAPIGateway, Target: graph.KindLambda, Relationship: "invokes", Description: "API Gateway invokes Lambda functions"},
	{Source: graph.KindSNS, Target: graph.KindSQS, Relationship: "sends_to", Description: "SNS topics fan out to SQS queues"},
	{Source: graph.KindSQS, Target: graph.KindLambda, Relationship: "triggers", Description: "SQS queues trigger Lambda functions"},
	{Source: graph.KindLambda, Target: graph.KindLambda, Relationship: "invokes", Description: "Lambda functions can invoke each other", Bidirectional: true},
}

var gcpRules = []Rule{
	{Source: graph.KindEC2, Target: graph.KindVPC, Relationship: "deployed_in", Description: "Compute instances must be attached to a VPC network", Required: true},
	{Source: graph.KindLambda, Target: graph.KindS3, Relationship: "reads", Description: "Cloud Functions can read Cloud Storage buckets"},
	{Source: graph.KindLambda, Target: graph.KindRDS, Relationship: "connects_to", Description: "Cloud Functions connect to Cloud SQL instances"},
	{Source: graph.KindEC2, Target: graph.KindS3, Relationship: "accesses", Description: "Compute instances can access Cloud Storage buckets"},
	{Source: graph.KindAPIGateway, Target: graph.KindLambda, Relationship: "invokes", Description: "API Gateway invokes Cloud Functions"},
}

var azureRules = []Rule{
	{Source: graph.KindEC2, Target: graph.KindVPC, Relationship: "deployed_in", Description: "Virtual machines must be deployed within a virtual network", Required: true},
	{Source: graph.KindLambda, Target: graph.KindS3, Relationship: "reads", Description: "Function apps can read storage accounts"},
	{Source: graph.KindEC2, Target: graph.KindS3, Relationship: "accesses", Description: "Virtual machines can access storage accounts"},
	{Source: graph.KindEC2, Target: graph.KindRDS, Relationship: "connects_to", Description: "Virtual machines connect to managed databases"},
}

func rulesFor(p graph.Provider) []Rule {
	switch p {
	case graph.ProviderAWS:
		return awsRules
	case graph.ProviderGCP:
		return gcpRules
	case graph.ProviderAzure:
		return azureRules
	}
	return nil
}

// Validate returns the rule matching the source/target pair for the
// provider. Bidirectional rules also match the reversed pair. The second
// return value is false when no rule exists, which callers treat as a
// generic manual connection, not an error.
func Validate(source, target graph.ServiceKind, p graph.Provider) (Rule, bool) {
	for _, r := range rulesFor(p) {
		if r.Source == source && r.Target == target {
			return r, true
		}
		if r.Bidirectional && r.Source == target && r.Target == source {
			return r, true
		}
	}
	return Rule{}, false
}

// ValidTargets returns the set of target kinds reachable from source under
// the provider's rules, in table order, including reversed bidirectional
// matches.
func ValidTargets(source graph.ServiceKind, p graph.Provider) []graph.ServiceKind {
	seen := make(map[graph.ServiceKind]bool)
	var out []graph.ServiceKind
	add := func(k graph.ServiceKind) {
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	for _, r := range rulesFor(p) {
		if r.Source == source {
			add(r.Target)
		}
		if r.Bidirectional && r.Target == source {
			add(r.Source)
		}
	}
	return out
}
