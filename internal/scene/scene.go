package scene

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"meshsync/internal/geometry"
)

var (
	// ErrDuplicateName is returned by Create when the name is taken.
	ErrDuplicateName = errors.New("mesh already exists")
	// ErrMissingName is returned when no mesh exists under the name.
	ErrMissingName = errors.New("mesh doesn't exist")
)

// Store is the contract the sync core needs from the host scene.
type Store interface {
	Exists(name string) bool
	Create(name string, mesh geometry.IndexedMesh) (Handle, error)
	Delete(name string) error
	Read(name string) (geometry.IndexedMesh, error)
	// Replace deletes any mesh under name and creates the new one in a
	// single step, so readers never observe the gap.
	Replace(name string, mesh geometry.IndexedMesh) (Handle, error)
	Current(name string) (Handle, bool)
	// Load returns the handle and a copy of the mesh it identifies, read
	// together so a concurrent Replace cannot split them.
	Load(name string) (Handle, geometry.IndexedMesh, error)
}

// Handle identifies one mesh instance. A replaced mesh gets a new ID even
// under the same name.
type Handle struct {
	ID        uuid.UUID
	Name      string
	Digest    string
	CreatedAt time.Time
}

type object struct {
	handle Handle
	mesh   geometry.IndexedMesh
}

// Scene is an in-memory Store. All access goes through mu, which serializes
// a commit read against an inbound replace.
type Scene struct {
	objects map[string]*object
	mu      sync.RWMutex
	logger  *slog.Logger
}

// constructor for Scene
func New(logger *slog.Logger) *Scene {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scene{
		objects: make(map[string]*object),
		logger:  logger,
	}
}

func (s *Scene) Exists(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.objects[name]
	return ok
}

func (s *Scene) Create(name string, mesh geometry.IndexedMesh) (Handle, error) {
	if err := mesh.Validate(); err != nil {
		return Handle{}, fmt.Errorf("create %s: %w", name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[name]; ok {
		return Handle{}, fmt.Errorf("create %s: %w", name, ErrDuplicateName)
	}
	return s.insertLocked(name, mesh), nil
}

func (s *Scene) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	obj, ok := s.objects[name]
	if !ok {
		return fmt.Errorf("delete %s: %w", name, ErrMissingName)
	}
	delete(s.objects, name)
	s.logger.Info("mesh_deleted",
		"name", name,
		"mesh_id", obj.handle.ID.String(),
	)
	return nil
}

func (s *Scene) Read(name string) (geometry.IndexedMesh, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[name]
	if !ok {
		return geometry.IndexedMesh{}, fmt.Errorf("read %s: %w", name, ErrMissingName)
	}
	return obj.mesh.Clone(), nil // callers may edit their copy freely
}

func (s *Scene) Replace(name string, mesh geometry.IndexedMesh) (Handle, error) {
	if err := mesh.Validate(); err != nil {
		return Handle{}, fmt.Errorf("replace %s: %w", name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.objects[name]; ok {
		delete(s.objects, name)
		s.logger.Info("mesh_deleted",
			"name", name,
			"mesh_id", old.handle.ID.String(),
		)
	}
	return s.insertLocked(name, mesh), nil
}

func (s *Scene) Current(name string) (Handle, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[name]
	if !ok {
		return Handle{}, false
	}
	return obj.handle, true
}

func (s *Scene) Load(name string) (Handle, geometry.IndexedMesh, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[name]
	if !ok {
		return Handle{}, geometry.IndexedMesh{}, fmt.Errorf("load %s: %w", name, ErrMissingName)
	}
	return obj.handle, obj.mesh.Clone(), nil
}

// insertLocked expects s.mu held for writing.
func (s *Scene) insertLocked(name string, mesh geometry.IndexedMesh) Handle {
	mesh = mesh.Clone()
	h := Handle{
		ID:        uuid.New(),
		Name:      name,
		Digest:    geometry.Digest(geometry.EncodeToWire(mesh)),
		CreatedAt: time.Now(),
	}
	s.objects[name] = &object{handle: h, mesh: mesh}
	s.logger.Info("mesh_created",
		"name", name,
		"mesh_id", h.ID.String(),
		"vertices", len(mesh.Vertices),
		"faces", len(mesh.Faces),
	)
	return h
}
