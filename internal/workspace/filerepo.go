package workspace

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cloudist-io/cloudist/internal/graph"
)

// FileRepository persists workspaces as one JSON document per workspace in a
// directory. It is what the CLI uses so saved diagrams survive between
// invocations; the engine never touches it.
type FileRepository struct {
	mu  sync.Mutex
	dir string
	now func() time.Time
}

// NewFileRepository returns a repository rooted at dir, creating it if
// needed.
func NewFileRepository(dir string) (*FileRepository, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create workspace dir: %w", err)
	}
	return &FileRepository{dir: dir, now: time.Now}, nil
}

func (r *FileRepository) path(id string) string {
	return filepath.Join(r.dir, id+".json")
}

func (r *FileRepository) write(ws *Workspace) error {
	data, err := json.MarshalIndent(ws, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode workspace: %w", err)
	}
	if err := os.WriteFile(r.path(ws.ID), data, 0o644); err != nil {
		return fmt.Errorf("failed to write workspace: %w", err)
	}
	return nil
}

func (r *FileRepository) read(id string) (*Workspace, error) {
	data, err := os.ReadFile(r.path(id))
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read workspace: %w", err)
	}
	var ws Workspace
	if err := json.Unmarshal(data, &ws); err != nil {
		return nil, fmt.Errorf("failed to decode workspace %s: %w", id, err)
	}
	return &ws, nil
}

// Create implements Repository.
func (r *FileRepository) Create(name string, d graph.Diagram) (*Workspace, error) {
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
	if err := r.write(ws); err != nil {
		return nil, err
	}
	return ws, nil
}

// Get implements Repository.
func (r *FileRepository) Get(id string) (*Workspace, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.read(id)
}

// List implements Repository.
func (r *FileRepository) List() ([]*Workspace, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list workspaces: %w", err)
	}
	var out []*Workspace
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		ws, err := r.read(strings.TrimSuffix(e.Name(), ".json"))
		if err != nil {
			return nil, err
		}
		out = append(out, ws)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Update implements Repository.
func (r *FileRepository) Update(id string, d graph.Diagram) (*Workspace, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ws, err := r.read(id)
	if err != nil {
		return nil, err
	}
	ws.Diagram = d
	ws.UpdatedAt = r.now()
	if err := r.write(ws); err != nil {
		return nil, err
	}
	return ws, nil
}

// Delete implements Repository.
func (r *FileRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	err := os.Remove(r.path(id))
	if os.IsNotExist(err) {
		return ErrNotFound
	}
	return err
}
