package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudist-io/cloudist/internal/graph"
)

const sampleDiagram = `{
	"provider": "aws",
	"nodes": [
		{"id": "n1", "serviceKind": "lambda", "provider": "aws", "displayName": "Fn"},
		{"id": "n2", "serviceKind": "dynamodb", "provider": "aws", "displayName": "Table"}
	],
	"edges": [
		{"id": "e1", "source": "n1", "target": "n2", "relationship": "accesses"}
	]
}`

func writeDiagram(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "diagram.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDiagramDefaultsProvider(t *testing.T) {
	path := writeDiagram(t, `{"nodes": [], "edges": []}`)
	synthProvider = ""

	d, err := loadDiagram(path)
	require.NoError(t, err)
	assert.Equal(t, graph.ProviderAWS, d.Provider)
}

func TestLoadDiagramProviderOverride(t *testing.T) {
	path := writeDiagram(t, sampleDiagram)
	synthProvider = "gcp"
	defer func() { synthProvider = "" }()

	d, err := loadDiagram(path)
	require.NoError(t, err)
	assert.Equal(t, graph.ProviderGCP, d.Provider)
}

func TestLoadDiagramMissingFile(t *testing.T) {
	synthProvider = ""
	_, err := loadDiagram(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open diagram")
}

func TestRunSynthWritesDocuments(t *testing.T) {
	path := writeDiagram(t, sampleDiagram)
	outDir := t.TempDir()
	synthProvider = ""
	synthOutDir = outDir
	defer func() { synthOutDir = "." }()

	require.NoError(t, runSynth(synthCmd, []string{path}))

	main, err := os.ReadFile(filepath.Join(outDir, "main.tf"))
	require.NoError(t, err)
	assert.Contains(t, string(main), `resource "aws_lambda_function" "fn"`)
	assert.Contains(t, string(main), `resource "aws_dynamodb_table" "table"`)
	assert.Contains(t, string(main), "TABLE_TABLE_ARN")

	vars, err := os.ReadFile(filepath.Join(outDir, "variables.tf"))
	require.NoError(t, err)
	assert.Contains(t, string(vars), `variable "environment"`)

	provider, err := os.ReadFile(filepath.Join(outDir, "provider.tf"))
	require.NoError(t, err)
	assert.Contains(t, string(provider), `source  = "hashicorp/archive"`)
}

func TestRunValidatePassesCleanDiagram(t *testing.T) {
	path := writeDiagram(t, sampleDiagram)
	synthProvider = ""
	validateMinScore = 70
	require.NoError(t, runValidate(validateCmd, []string{path}))
}

func TestRunValidateFailsBelowMinScore(t *testing.T) {
	// A diagram with only a malformed node scores 75 - 2 = 73.
	path := writeDiagram(t, `{"provider": "aws", "nodes": [{"id": "n1"}], "edges": []}`)
	synthProvider = ""
	validateMinScore = 90
	defer func() { validateMinScore = 70 }()

	err := runValidate(validateCmd, []string{path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "below minimum 90")
}
