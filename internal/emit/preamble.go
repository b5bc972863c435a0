package emit

import (
	"github.com/cloudist-io/cloudist/internal/graph"
	"github.com/cloudist-io/cloudist/internal/ir"
)

// NeedsArchive reports whether the output packages any function inline and
// therefore needs the archive provider declared.
func NeedsArchive(out *ir.SynthesisOutput) bool {
	for _, d := range out.Declarations {
		if d.Block == ir.BlockData && d.Type == "archive_file" {
			return true
		}
	}
	return false
}

// Preamble renders the terraform/provider block for the given provider,
// standalone from the rest of the document. Unknown providers yield an
// empty document, which callers treat as a soft failure.
func Preamble(p graph.Provider, needsArchive bool) string {
	switch p {
	case graph.ProviderAWS:
		return awsPreamble(needsArchive)
	case graph.ProviderGCP:
		return gcpPreamble()
	case graph.ProviderAzure:
		return azurePreamble()
	}
	return ""
}

func awsPreamble(needsArchive bool) string {
	archive := ""
	if needsArchive {
		archive = `    archive = {
      source  = "hashicorp/archive"
      version = "~> 2.4"
    }
`
	}
	return `terraform {
  required_version = ">= 1.5.0"

  required_providers {
    aws = {
      source  = "hashicorp/aws"
      version = "~> 5.0"
    }
` + archive + `  }
}

provider "aws" {
  region = var.region
}
`
}

func gcpPreamble() string {
	return `terraform {
  required_version = ">= 1.5.0"

  required_providers {
    google = {
      source  = "hashicorp/google"
      version = "~> 5.0"
    }
  }
}

provider "google" {
  region = var.region
}
`
}

func azurePreamble() string {
	return `terraform {
  required_version = ">= 1.5.0"

  required_providers {
    azurerm = {
      source  = "hashicorp/azurerm"
      version = "~> 3.0"
    }
  }
}

provider "azurerm" {
  features {}
}

resource "azurerm_resource_group" "main" {
  name     = "cloudist-${var.environment}"
  location = var.region
}
`
}
