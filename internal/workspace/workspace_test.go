package workspace

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudist-io/cloudist/internal/graph"
)

func testDiagram() graph.Diagram {
	return graph.Diagram{
		Provider: graph.ProviderAWS,
		Nodes: []graph.ResourceNode{
			{ID: "n1", ServiceKind: graph.KindS3, Provider: graph.ProviderAWS, DisplayName: "Assets"},
		},
	}
}

func TestMemoryRepositoryCRUD(t *testing.T) {
	repo := NewMemoryRepository()

	ws, err := repo.Create("staging", testDiagram())
	require.NoError(t, err)
	assert.NotEmpty(t, ws.ID)
	assert.Equal(t, "staging", ws.Name)
	assert.Equal(t, ws.CreatedAt, ws.UpdatedAt)

	got, err := repo.Get(ws.ID)
	require.NoError(t, err)
	assert.Equal(t, ws.ID, got.ID)
	require.Len(t, got.Diagram.Nodes, 1)

	updated := testDiagram()
	updated.Nodes = append(updated.Nodes, graph.ResourceNode{
		ID: "n2", ServiceKind: graph.KindLambda, Provider: graph.ProviderAWS, DisplayName: "Fn",
	})
	ws2, err := repo.Update(ws.ID, updated)
	require.NoError(t, err)
	assert.Len(t, ws2.Diagram.Nodes, 2)

	require.NoError(t, repo.Delete(ws.ID))
	_, err = repo.Get(ws.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryRepositoryNotFound(t *testing.T) {
	repo := NewMemoryRepository()

	_, err := repo.Get("missing")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.Update("missing", testDiagram())
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Delete("missing"), ErrNotFound)
}

func TestMemoryRepositoryListOrder(t *testing.T) {
	repo := NewMemoryRepository()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	repo.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}

	first, err := repo.Create("first", testDiagram())
	require.NoError(t, err)
	second, err := repo.Create("second", testDiagram())
	require.NoError(t, err)

	list, err := repo.List()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID)
	assert.Equal(t, second.ID, list[1].ID)
}

func TestMemoryRepositoryCloneIsolation(t *testing.T) {
	repo := NewMemoryRepository()
	ws, err := repo.Create("iso", testDiagram())
	require.NoError(t, err)

	// Mutating the returned copy must not leak into the store.
	ws.Diagram.Nodes[0].DisplayName = "Tampered"
	got, err := repo.Get(ws.ID)
	require.NoError(t, err)
	assert.Equal(t, "Assets", got.Diagram.Nodes[0].DisplayName)
}

func TestFileRepositoryCRUD(t *testing.T) {
	repo, err := NewFileRepository(t.TempDir())
	require.NoError(t, err)

	ws, err := repo.Create("persisted", testDiagram())
	require.NoError(t, err)

	got, err := repo.Get(ws.ID)
	require.NoError(t, err)
	assert.Equal(t, "persisted", got.Name)
	assert.Equal(t, graph.ProviderAWS, got.Diagram.Provider)

	updated := testDiagram()
	updated.Provider = graph.ProviderGCP
	_, err = repo.Update(ws.ID, updated)
	require.NoError(t, err)
	got, err = repo.Get(ws.ID)
	require.NoError(t, err)
	assert.Equal(t, graph.ProviderGCP, got.Diagram.Provider)

	list, err := repo.List()
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, repo.Delete(ws.ID))
	_, err = repo.Get(ws.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileRepositoryNotFound(t *testing.T) {
	repo, err := NewFileRepository(t.TempDir())
	require.NoError(t, err)

	_, err = repo.Get("missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Delete("missing"), ErrNotFound)
}

func TestFileRepositoryIgnoresStrayFiles(t *testing.T) {
	dir := t.TempDir()
	repo, err := NewFileRepository(dir)
	require.NoError(t, err)

	_, err = repo.Create("only", testDiagram())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.txt"), []byte("not a workspace"), 0o644))

	list, err := repo.List()
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
