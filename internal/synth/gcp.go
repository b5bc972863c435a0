package synth

import (
	"github.com/cloudist-io/cloudist/internal/graph"
	"github.com/cloudist-io/cloudist/internal/ir"
)

func init() {
	registerType(graph.ProviderGCP, graph.KindEC2, "google_compute_instance")
	registerType(graph.ProviderGCP, graph.KindLambda, "google_cloudfunctions_function")
	registerType(graph.ProviderGCP, graph.KindS3, "google_storage_bucket")
	registerType(graph.ProviderGCP, graph.KindRDS, "google_sql_database_instance")
	registerType(graph.ProviderGCP, graph.KindVPC, "google_compute_network")
	registerType(graph.ProviderGCP, graph.KindDynamoDB, "google_firestore_database")
	registerType(graph.ProviderGCP, graph.KindSQS, "google_pubsub_subscription")
	registerType(graph.ProviderGCP, graph.KindSNS, "google_pubsub_topic")
	registerType(graph.ProviderGCP, graph.KindALB, "google_compute_url_map")
	registerType(graph.ProviderGCP, graph.KindAPIGateway, "google_api_gateway_api")

	registerMapper(graph.ProviderGCP, graph.KindEC2, mapGCPInstance)
	registerMapper(graph.ProviderGCP, graph.KindLambda, mapGCPFunction)
	registerMapper(graph.ProviderGCP, graph.KindS3, mapGCPBucket)
	registerMapper(graph.ProviderGCP, graph.KindRDS, mapGCPSQL)
	registerMapper(graph.ProviderGCP, graph.KindVPC, mapGCPNetwork)
}

func mapGCPInstance(n *graph.ResourceNode, name string) ir.Fields {
	var boot ir.Fields
	var initParams ir.Fields
	initParams.Set("image", n.ConfigString("image", "debian-cloud/debian-12"))
	boot.Set("initialize_params", initParams)

	var nic ir.Fields
	nic.Set("network", n.ConfigString("network", "default"))

	var f ir.Fields
	f.Set("name", dashed(name))
	f.Set("machine_type", n.ConfigString("machine_type", "e2-micro"))
	f.Set("zone", n.ConfigString("zone", "us-central1-a"))
	f.Set("boot_disk", boot)
	f.Set("network_interface", nic)
	return f
}

func mapGCPFunction(n *graph.ResourceNode, name string) ir.Fields {
	var f ir.Fields
	f.Set("name", dashed(name))
	f.Set("runtime", n.ConfigString("runtime", "nodejs18"))
	f.Set("entry_point", n.ConfigString("entry_point", "handler"))
	f.Set("available_memory_mb", n.ConfigInt("memory_mb", 256))
	f.Set("trigger_http", true)
	return f
}

func mapGCPBucket(n *graph.ResourceNode, name string) ir.Fields {
	var f ir.Fields
	f.Set("name", n.ConfigString("bucket", dashed(name)+"-${var.environment}"))
	f.Set("location", n.ConfigString("location", "US"))
	f.Set("uniform_bucket_level_access", true)
	f.Set("force_destroy", true)
	return f
}

func mapGCPSQL(n *graph.ResourceNode, name string) ir.Fields {
	var settings ir.Fields
	settings.Set("tier", n.ConfigString("tier", "db-f1-micro"))

	var f ir.Fields
	f.Set("name", dashed(name))
	f.Set("database_version", n.ConfigString("database_version", "MYSQL_8_0"))
	f.Set("region", ir.Expression("var.region"))
	f.Set("settings", settings)
	return f
}

func mapGCPNetwork(n *graph.ResourceNode, name string) ir.Fields {
	var f ir.Fields
	f.Set("name", dashed(name))
	f.Set("auto_create_subnetworks", false)
	return f
}
