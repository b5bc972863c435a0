package synth

import (
	"fmt"
	"strings"

	"github.com/cloudist-io/cloudist/internal/graph"
	"github.com/cloudist-io/cloudist/internal/ir"
)

func init() {
	registerType(graph.ProviderAWS, graph.KindEC2, "aws_instance")
	registerType(graph.ProviderAWS, graph.KindLambda, "aws_lambda_function")
	registerType(graph.ProviderAWS, graph.KindS3, "aws_s3_bucket")
	registerType(graph.ProviderAWS, graph.KindRDS, "aws_db_instance")
	registerType(graph.ProviderAWS, graph.KindDynamoDB, "aws_dynamodb_table")
	registerType(graph.ProviderAWS, graph.KindVPC, "aws_vpc")
	registerType(graph.ProviderAWS, graph.KindALB, "aws_lb")
	registerType(graph.ProviderAWS, graph.KindSQS, "aws_sqs_queue")
	registerType(graph.ProviderAWS, graph.KindSNS, "aws_sns_topic")
	registerType(graph.ProviderAWS, graph.KindAPIGateway, "aws_api_gateway_rest_api")

	registerMapper(graph.ProviderAWS, graph.KindEC2, mapAWSInstance)
	registerMapper(graph.ProviderAWS, graph.KindLambda, mapAWSLambda)
	registerMapper(graph.ProviderAWS, graph.KindS3, mapAWSBucket)
	registerMapper(graph.ProviderAWS, graph.KindRDS, mapAWSDatabase)
	registerMapper(graph.ProviderAWS, graph.KindDynamoDB, mapAWSDynamoTable)
	registerMapper(graph.ProviderAWS, graph.KindVPC, mapAWSVPC)
	registerMapper(graph.ProviderAWS, graph.KindALB, mapAWSLoadBalancer)
	registerMapper(graph.ProviderAWS, graph.KindSQS, mapAWSQueue)
	registerMapper(graph.ProviderAWS, graph.KindSNS, mapAWSTopic)
	registerMapper(graph.ProviderAWS, graph.KindAPIGateway, mapAWSRestAPI)
}

// awsTags builds the standard tag map: the node's display name plus the
// deployment environment.
func awsTags(n *graph.ResourceNode) ir.Fields {
	name := n.DisplayName
	if name == "" {
		name = string(n.ServiceKind)
	}
	var tags ir.Fields
	tags.Set("Name", name)
	tags.Set("Environment", ir.Expression("var.environment"))
	return tags
}

// dashed converts a sanitized identifier to the dash form required by
// resources with DNS-style naming rules (S3 buckets, load balancers).
func dashed(name string) string {
	return strings.ReplaceAll(name, "_", "-")
}

func mapAWSInstance(n *graph.ResourceNode, name string) ir.Fields {
	var f ir.Fields
	f.Set("ami", n.ConfigString("ami", "ami-0c55b159cbfafe1f0"))
	f.Set("instance_type", n.ConfigString("instance_type", "t3.micro"))
	if n.HasConfig("key_name") {
		f.Set("key_name", n.ConfigString("key_name", ""))
	}
	f.Set("tags", awsTags(n))
	return f
}

func mapAWSLambda(n *graph.ResourceNode, name string) ir.Fields {
	var f ir.Fields
	f.Set("function_name", name)
	f.Set("handler", n.ConfigString("handler", "index.handler"))
	f.Set("runtime", n.ConfigString("runtime", "nodejs18.x"))
	f.Set("role", ir.Ref("aws_iam_role."+roleName(name), "arn"))
	if lambdaHasExternalCode(n) {
		f.Set("s3_bucket", externalCodeValue(n, "s3_bucket", "var.lambda_s3_bucket"))
		f.Set("s3_key", externalCodeValue(n, "s3_key", "var.lambda_s3_key"))
	} else {
		archive := "data.archive_file." + archiveName(name)
		f.Set("filename", ir.Ref(archive, "output_path"))
		f.Set("source_code_hash", ir.Ref(archive, "output_base64sha256"))
	}
	if n.HasConfig("timeout") {
		f.Set("timeout", n.ConfigInt("timeout", 3))
	}
	if n.HasConfig("memory_size") {
		f.Set("memory_size", n.ConfigInt("memory_size", 128))
	}
	f.Set("tags", awsTags(n))
	return f
}

// externalCodeValue prefers the node's own config value and falls back to
// the shared lambda source variables.
func externalCodeValue(n *graph.ResourceNode, key, variable string) any {
	if v := n.ConfigString(key, ""); v != "" {
		return v
	}
	return ir.Expression(variable)
}

// lambdaHasExternalCode reports whether the function's code lives in S3
// rather than being packaged inline.
func lambdaHasExternalCode(n *graph.ResourceNode) bool {
	return n.HasConfig("s3_bucket") || n.HasConfig("s3_key")
}

func mapAWSBucket(n *graph.ResourceNode, name string) ir.Fields {
	var f ir.Fields
	f.Set("bucket", n.ConfigString("bucket", dashed(name)+"-${var.environment}"))
	f.Set("tags", awsTags(n))
	return f
}

func mapAWSDatabase(n *graph.ResourceNode, name string) ir.Fields {
	var f ir.Fields
	f.Set("identifier", dashed(name))
	f.Set("engine", n.ConfigString("engine", "mysql"))
	f.Set("instance_class", n.ConfigString("instance_class", "db.t3.micro"))
	f.Set("allocated_storage", n.ConfigInt("allocated_storage", 20))
	f.Set("username", n.ConfigString("username", "admin"))
	f.Set("password", n.ConfigString("password", "change-me-immediately"))
	f.Set("skip_final_snapshot", true)
	f.Set("tags", awsTags(n))
	return f
}

func mapAWSDynamoTable(n *graph.ResourceNode, name string) ir.Fields {
	var f ir.Fields
	hashKey := n.ConfigString("hash_key", "id")
	f.Set("name", name)
	billing := n.ConfigString("billing_mode", "PAY_PER_REQUEST")
	f.Set("billing_mode", billing)
	if billing == "PROVISIONED" {
		f.Set("read_capacity", n.ConfigInt("read_capacity", 5))
		f.Set("write_capacity", n.ConfigInt("write_capacity", 5))
	}
	f.Set("hash_key", hashKey)
	var attr ir.Fields
	attr.Set("name", hashKey)
	attr.Set("type", n.ConfigString("hash_key_type", "S"))
	f.Set("attribute", attr)
	f.Set("tags", awsTags(n))
	return f
}

func mapAWSVPC(n *graph.ResourceNode, name string) ir.Fields {
	var f ir.Fields
	f.Set("cidr_block", n.ConfigString("cidr_block", "10.0.0.0/16"))
	f.Set("enable_dns_support", true)
	f.Set("enable_dns_hostnames", true)
	f.Set("tags", awsTags(n))
	return f
}

func mapAWSLoadBalancer(n *graph.ResourceNode, name string) ir.Fields {
	var f ir.Fields
	f.Set("name", dashed(name))
	f.Set("internal", n.ConfigBool("internal"))
	f.Set("load_balancer_type", n.ConfigString("load_balancer_type", "application"))
	f.Set("tags", awsTags(n))
	return f
}

func mapAWSQueue(n *graph.ResourceNode, name string) ir.Fields {
	var f ir.Fields
	f.Set("name", name)
	if n.HasConfig("visibility_timeout_seconds") {
		f.Set("visibility_timeout_seconds", n.ConfigInt("visibility_timeout_seconds", 30))
	}
	if n.HasConfig("delay_seconds") {
		f.Set("delay_seconds", n.ConfigInt("delay_seconds", 0))
	}
	f.Set("tags", awsTags(n))
	return f
}

func mapAWSTopic(n *graph.ResourceNode, name string) ir.Fields {
	var f ir.Fields
	f.Set("name", name)
	f.Set("tags", awsTags(n))
	return f
}

func mapAWSRestAPI(n *graph.ResourceNode, name string) ir.Fields {
	var f ir.Fields
	f.Set("name", name)
	f.Set("description", n.ConfigString("description", fmt.Sprintf("API Gateway for %s", n.DisplayName)))
	return f
}
