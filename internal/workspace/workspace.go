// Package workspace provides the application-layer store for saved
// diagrams. The synthesis engine itself is stateless; workspaces exist so
// the surrounding tooling can name, list, and reload diagrams. Storage is an
// injected Repository rather than a global registry.
package workspace

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cloudist-io/cloudist/internal/graph"
)

// ErrNotFound is returned when a workspace id does not exist.
var ErrNotFound = errors.New("workspace not found")

// Workspace is one saved diagram with identity and timestamps.
type Workspace struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Diagram   graph.Diagram `json:"diagram"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// Repository stores workspaces. Implementations must be safe for concurrent
// use.
type Repository interface {
	Create(name string, d graph.Diagram) (*Workspace, error)
	Get(id string) (*Workspace, error)
	List() ([]*Workspace, error)
	Update(id string, d graph.Diagram) (*Workspace, error)
	Delete(id string) error
}

// MemoryRepository is the in-memory Repository used by the CLI and tests.
type MemoryRepository struct {
	mu         sync.RWMutex
	workspaces map[string]*Workspace
	now        func() time.Time
}

// NewMemoryRepository returns an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		workspaces: make(map[string]*Workspace),
		now:        time.Now,
	}
}

// Create stores a new workspace under a fresh id.
func (r *MemoryRepository) Create(name string, d graph.Diagram) (*Workspace, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	ws := &Workspace{
		ID:        uuid.NewString(),
		Name:      name,
		Diagram:   d,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.workspaces[ws.ID] = ws
	return cloned(ws), nil
}

// Get returns the workspace with the given id.
func (r *MemoryRepository) Get(id string) (*Workspace, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ws, ok := r.workspaces[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloned(ws), nil
}

// List returns all workspaces ordered by creation time, then id.
func (r *MemoryRepository) List() ([]*Workspace, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Workspace, 0, len(r.workspaces))
	for _, ws := range r.workspaces {
		out = append(out, cloned(ws))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Update replaces the diagram of an existing workspace.
func (r *MemoryRepository) Update(id string, d graph.Diagram) (*Workspace, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ws, ok := r.workspaces[id]
	if !ok {
		return nil, ErrNotFound
	}
	ws.Diagram = d
	ws.UpdatedAt = r.now()
	return cloned(ws), nil
}

// Delete removes a workspace.
func (r *MemoryRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.workspaces[id]; !ok {
		return ErrNotFound
	}
	delete(r.workspaces, id)
	return nil
}

// cloned copies a workspace so callers cannot mutate stored state through
// the returned pointer. Node/edge slices are copied shallowly; nodes are
// value types.
func cloned(ws *Workspace) *Workspace {
	out := *ws
	out.Diagram.Nodes = append([]graph.ResourceNode(nil), ws.Diagram.Nodes...)
	out.Diagram.Edges = append([]graph.RelationshipEdge(nil), ws.Diagram.Edges...)
	return &out
}
