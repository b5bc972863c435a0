package synth

import (
	"fmt"

	"github.com/cloudist-io/cloudist/internal/graph"
	"github.com/cloudist-io/cloudist/internal/ir"
)

func regionDefault(p graph.Provider) string {
	switch p {
	case graph.ProviderGCP:
		return "us-central1"
	case graph.ProviderAzure:
		return "East US"
	}
	return "us-east-1"
}

// synthesizeVariables derives the variable set from the graph: the standard
// environment/region pair always, plus the lambda source variables when any
// function references external code.
func synthesizeVariables(nodes []graph.ResourceNode, p graph.Provider) []ir.Variable {
	vars := []ir.Variable{
		{Name: "environment", Description: "Deployment environment name", Type: "string", Default: "dev"},
		{Name: "region", Description: "Region to deploy resources into", Type: "string", Default: regionDefault(p)},
	}
	for i := range nodes {
		n := &nodes[i]
		if n.ServiceKind == graph.KindLambda && lambdaHasExternalCode(n) {
			vars = append(vars,
				ir.Variable{Name: "lambda_s3_bucket", Description: "S3 bucket holding lambda deployment packages", Type: "string"},
				ir.Variable{Name: "lambda_s3_key", Description: "S3 key of the lambda deployment package", Type: "string"},
			)
			break
		}
	}
	return vars
}

// outputTemplate describes one serviceKind-keyed output.
type outputTemplate struct {
	suffix      string
	attribute   string
	description string
}

// awsOutputs keys output templates by service kind. Kinds without an entry
// contribute no output.
var awsOutputs = map[graph.ServiceKind]outputTemplate{
	graph.KindEC2:        {"public_ip", "public_ip", "Public IP address of %s"},
	graph.KindS3:         {"bucket_name", "bucket", "Bucket name for %s"},
	graph.KindRDS:        {"endpoint", "endpoint", "Connection endpoint for %s"},
	graph.KindDynamoDB:   {"table_arn", "arn", "Table ARN for %s"},
	graph.KindLambda:     {"function_arn", "arn", "Function ARN for %s"},
	graph.KindSQS:        {"queue_url", "url", "Queue URL for %s"},
	graph.KindALB:        {"dns_name", "dns_name", "DNS name of %s"},
	graph.KindAPIGateway: {"api_id", "id", "REST API id for %s"},
}

// genericOutputs covers the providers whose attribute surface is not modeled
// per kind; mapped kinds expose their id.
var genericOutputs = map[graph.ServiceKind]outputTemplate{
	graph.KindEC2:    {"id", "id", "Resource id of %s"},
	graph.KindLambda: {"id", "id", "Resource id of %s"},
	graph.KindS3:     {"id", "id", "Resource id of %s"},
	graph.KindRDS:    {"id", "id", "Resource id of %s"},
	graph.KindVPC:    {"id", "id", "Resource id of %s"},
}

// synthesizeOutputs emits one output per node whose service kind has a
// template, in graph order.
func synthesizeOutputs(p *pass) []ir.Output {
	templates := genericOutputs
	if p.provider == graph.ProviderAWS {
		templates = awsOutputs
	}
	var outs []ir.Output
	for i := range p.nodes {
		node := &p.nodes[i]
		decl, ok := p.primary[node.ID]
		if !ok {
			continue
		}
		tpl, ok := templates[node.ServiceKind]
		if !ok {
			continue
		}
		display := node.DisplayName
		if display == "" {
			display = decl.Name
		}
		outs = append(outs, ir.Output{
			Name:        decl.Name + "_" + tpl.suffix,
			Description: fmt.Sprintf(tpl.description, display),
			Value:       ir.Ref(decl.Address(), tpl.attribute),
		})
	}
	return outs
}
