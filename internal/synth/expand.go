package synth

import (
	"fmt"

	"github.com/cloudist-io/cloudist/internal/graph"
	"github.com/cloudist-io/cloudist/internal/ir"
)

// Auxiliary expansion: a single diagram node can yield several declarations.
// The primary declaration depends on its auxiliaries; auxiliaries that wrap
// the primary (public access block, versioning) depend on it instead.

func roleName(name string) string    { return name + "_role" }
func archiveName(name string) string { return name + "_archive" }

const lambdaTrustPolicy = `{
  "Version": "2012-10-17",
  "Statement": [
    {
      "Action": "sts:AssumeRole",
      "Effect": "Allow",
      "Principal": {
        "Service": "lambda.amazonaws.com"
      }
    }
  ]
}`

const ec2TrustPolicy = `{
  "Version": "2012-10-17",
  "Statement": [
    {
      "Action": "sts:AssumeRole",
      "Effect": "Allow",
      "Principal": {
        "Service": "ec2.amazonaws.com"
      }
    }
  ]
}`

const placeholderHandler = `exports.handler = async (event) => {
  return {
    statusCode: 200,
    body: JSON.stringify("Hello from Cloudist!"),
  };
};`

func expandNode(p *pass, node *graph.ResourceNode, primary *ir.Declaration, name string) {
	switch node.ServiceKind {
	case graph.KindS3:
		expandBucket(p, node, primary, name)
	case graph.KindLambda:
		expandFunction(p, node, primary, name)
	case graph.KindSQS:
		expandQueue(p, node, primary, name)
	}
}

// expandBucket adds the public access block and versioning declarations that
// accompany every bucket.
func expandBucket(p *pass, node *graph.ResourceNode, primary *ir.Declaration, name string) {
	var pabFields ir.Fields
	pabFields.Set("bucket", ir.Ref(primary.Address(), "id"))
	pabFields.Set("block_public_acls", true)
	pabFields.Set("block_public_policy", true)
	pabFields.Set("ignore_public_acls", true)
	pabFields.Set("restrict_public_buckets", true)
	pab := &ir.Declaration{
		Type:      "aws_s3_bucket_public_access_block",
		Name:      name + "_public_access_block",
		Fields:    pabFields,
		DependsOn: []string{primary.Address()},
	}

	status := "Disabled"
	if node.ConfigBool("versioning") {
		status = "Enabled"
	}
	var statusFields ir.Fields
	statusFields.Set("status", status)
	var verFields ir.Fields
	verFields.Set("bucket", ir.Ref(primary.Address(), "id"))
	verFields.Set("versioning_configuration", statusFields)
	versioning := &ir.Declaration{
		Type:      "aws_s3_bucket_versioning",
		Name:      name + "_versioning",
		Fields:    verFields,
		DependsOn: []string{primary.Address()},
	}

	p.out.Declarations = append(p.out.Declarations, pab, versioning)
}

// expandFunction adds the execution role, the basic-execution attachment,
// and (for inline code) the archive the function is packaged from.
func expandFunction(p *pass, node *graph.ResourceNode, primary *ir.Declaration, name string) {
	var roleFields ir.Fields
	roleFields.Set("name", name+"-execution-role")
	roleFields.Set("assume_role_policy", lambdaTrustPolicy)
	role := &ir.Declaration{
		Type:   "aws_iam_role",
		Name:   roleName(name),
		Fields: roleFields,
	}
	p.roles[node.ID] = role

	var attachFields ir.Fields
	attachFields.Set("role", ir.Ref(role.Address(), "name"))
	attachFields.Set("policy_arn", "arn:aws:iam::aws:policy/service-role/AWSLambdaBasicExecutionRole")
	attachment := &ir.Declaration{
		Type:   "aws_iam_role_policy_attachment",
		Name:   name + "_basic_execution",
		Fields: attachFields,
	}

	p.out.Declarations = append(p.out.Declarations, role, attachment)
	primary.AddDependency(role.Address())

	if !lambdaHasExternalCode(node) {
		var srcFields ir.Fields
		srcFields.Set("content", placeholderHandler)
		srcFields.Set("filename", "index.js")
		var archFields ir.Fields
		archFields.Set("type", "zip")
		archFields.Set("output_path", fmt.Sprintf("${path.module}/%s.zip", name))
		archFields.Set("source", srcFields)
		archive := &ir.Declaration{
			Block:  ir.BlockData,
			Type:   "archive_file",
			Name:   archiveName(name),
			Fields: archFields,
		}
		p.out.Declarations = append(p.out.Declarations, archive)
		primary.AddDependency(archive.Address())
	}
}

// expandQueue adds a dead-letter queue and rewires the primary queue's
// redrive policy when the node asks for one.
func expandQueue(p *pass, node *graph.ResourceNode, primary *ir.Declaration, name string) {
	if !node.ConfigBool("dead_letter_queue") || !node.HasConfig("max_receive_count") {
		return
	}

	var dlqFields ir.Fields
	dlqFields.Set("name", name+"-dlq")
	dlqFields.Set("message_retention_seconds", 1209600)
	dlq := &ir.Declaration{
		Type:   "aws_sqs_queue",
		Name:   name + "_dlq",
		Fields: dlqFields,
	}
	p.out.Declarations = append(p.out.Declarations, dlq)

	maxReceive := node.ConfigInt("max_receive_count", 5)
	primary.Fields.Set("redrive_policy", ir.Expression(fmt.Sprintf(
		"jsonencode({ deadLetterTargetArn = %s.arn, maxReceiveCount = %d })",
		dlq.Address(), maxReceive)))
	primary.AddDependency(dlq.Address())
}
