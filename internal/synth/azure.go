package synth

import (
	"strings"

	"github.com/cloudist-io/cloudist/internal/graph"
	"github.com/cloudist-io/cloudist/internal/ir"
)

// ResourceGroupAddress is the implicit resource group every azure
// declaration can reference; the provider preamble declares it.
const ResourceGroupAddress = "azurerm_resource_group.main"

func init() {
	registerType(graph.ProviderAzure, graph.KindEC2, "azurerm_linux_virtual_machine")
	registerType(graph.ProviderAzure, graph.KindLambda, "azurerm_linux_function_app")
	registerType(graph.ProviderAzure, graph.KindS3, "azurerm_storage_account")
	registerType(graph.ProviderAzure, graph.KindRDS, "azurerm_mysql_flexible_server")
	registerType(graph.ProviderAzure, graph.KindVPC, "azurerm_virtual_network")
	registerType(graph.ProviderAzure, graph.KindDynamoDB, "azurerm_cosmosdb_account")
	registerType(graph.ProviderAzure, graph.KindSQS, "azurerm_storage_queue")
	registerType(graph.ProviderAzure, graph.KindSNS, "azurerm_servicebus_topic")
	registerType(graph.ProviderAzure, graph.KindALB, "azurerm_lb")
	registerType(graph.ProviderAzure, graph.KindAPIGateway, "azurerm_api_management")

	registerMapper(graph.ProviderAzure, graph.KindEC2, mapAzureVM)
	registerMapper(graph.ProviderAzure, graph.KindLambda, mapAzureFunctionApp)
	registerMapper(graph.ProviderAzure, graph.KindS3, mapAzureStorageAccount)
	registerMapper(graph.ProviderAzure, graph.KindRDS, mapAzureMySQL)
	registerMapper(graph.ProviderAzure, graph.KindVPC, mapAzureVNet)
}

// azureCommon pins a declaration to the implicit resource group.
func azureCommon(f *ir.Fields) {
	f.Set("resource_group_name", ir.Ref(ResourceGroupAddress, "name"))
	f.Set("location", ir.Ref(ResourceGroupAddress, "location"))
}

func mapAzureVM(n *graph.ResourceNode, name string) ir.Fields {
	var f ir.Fields
	f.Set("name", dashed(name))
	azureCommon(&f)
	f.Set("size", n.ConfigString("size", "Standard_B1s"))
	f.Set("admin_username", n.ConfigString("admin_username", "azureuser"))
	return f
}

func mapAzureFunctionApp(n *graph.ResourceNode, name string) ir.Fields {
	var f ir.Fields
	f.Set("name", dashed(name))
	azureCommon(&f)
	return f
}

func mapAzureStorageAccount(n *graph.ResourceNode, name string) ir.Fields {
	var f ir.Fields
	// Storage account names are lowercase alphanumeric only.
	f.Set("name", strings.ReplaceAll(name, "_", ""))
	azureCommon(&f)
	f.Set("account_tier", n.ConfigString("account_tier", "Standard"))
	f.Set("account_replication_type", n.ConfigString("account_replication_type", "LRS"))
	return f
}

func mapAzureMySQL(n *graph.ResourceNode, name string) ir.Fields {
	var f ir.Fields
	f.Set("name", dashed(name))
	azureCommon(&f)
	f.Set("administrator_login", n.ConfigString("username", "azureadmin"))
	f.Set("administrator_password", n.ConfigString("password", "Change-me-immediately1"))
	f.Set("sku_name", n.ConfigString("sku_name", "B_Standard_B1s"))
	return f
}

func mapAzureVNet(n *graph.ResourceNode, name string) ir.Fields {
	var f ir.Fields
	f.Set("name", dashed(name))
	azureCommon(&f)
	f.Set("address_space", []any{n.ConfigString("cidr_block", "10.0.0.0/16")})
	return f
}
